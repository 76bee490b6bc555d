// Package server provides the HTTP REST API for the sponsor finder.
package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/jonathan/sponsor-finder/internal/business"
)

// ErrValidation indicates request validation failure
type ErrValidation struct {
	Field   string
	Message string
}

func (e *ErrValidation) Error() string {
	return fmt.Sprintf("validation error: %s - %s", e.Field, e.Message)
}

// ErrNotFound indicates a stored evaluation does not exist
type ErrNotFound struct {
	ID string
}

func (e *ErrNotFound) Error() string {
	return fmt.Sprintf("evaluation not found: %s", e.ID)
}

// ErrPersistenceDisabled indicates an endpoint needs a database that is not configured
type ErrPersistenceDisabled struct{}

func (e *ErrPersistenceDisabled) Error() string {
	return "persistence is not configured"
}

// HTTPStatus returns the appropriate HTTP status code for an error.
// Wrapped errors, including run errors, are matched by their cause;
// configuration and controller failures are internal errors.
func HTTPStatus(err error) int {
	var (
		validationErr *ErrValidation
		notFoundErr   *ErrNotFound
		disabledErr   *ErrPersistenceDisabled
		noResultsErr  *business.NoResultsError
		parseErr      *business.ParseError
		fetchErr      *business.FetchError
		searchErr     *business.SearchError
	)
	switch {
	case err == nil:
		return http.StatusOK
	case errors.As(err, &validationErr), errors.As(err, &parseErr):
		return http.StatusBadRequest
	case errors.As(err, &notFoundErr), errors.As(err, &noResultsErr):
		return http.StatusNotFound
	case errors.As(err, &fetchErr), errors.As(err, &searchErr):
		return http.StatusBadGateway
	case errors.As(err, &disabledErr):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}
