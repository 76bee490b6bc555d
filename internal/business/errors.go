// Package business resolves raw information about a business, either by
// extracting its website or by querying a web search API.
package business

import "fmt"

// FetchError represents a failure to retrieve a business website.
type FetchError struct {
	URL        string
	StatusCode int
	Cause      error
}

func (e *FetchError) Error() string {
	if e.StatusCode != 0 {
		return fmt.Sprintf("unable to fetch website content (status %d)", e.StatusCode)
	}
	if e.Cause != nil {
		return fmt.Sprintf("unable to fetch website content: %v", e.Cause)
	}
	return "unable to fetch website content"
}

func (e *FetchError) Unwrap() error {
	return e.Cause
}

// ParseError represents a malformed URL or an unparseable page.
type ParseError struct {
	Input   string
	Message string
	Cause   error
}

func (e *ParseError) Error() string {
	if e.Cause != nil {
		return fmt.Sprintf("parse error for %q: %s: %v", e.Input, e.Message, e.Cause)
	}
	return fmt.Sprintf("parse error for %q: %s", e.Input, e.Message)
}

func (e *ParseError) Unwrap() error {
	return e.Cause
}

// SearchError represents a failed call to the search API.
type SearchError struct {
	Query   string
	Message string
	Cause   error
}

func (e *SearchError) Error() string {
	if e.Message != "" {
		return fmt.Sprintf("search request failed: %s", e.Message)
	}
	return "search request failed"
}

func (e *SearchError) Unwrap() error {
	return e.Cause
}

// NoResultsError is returned when a search succeeds but yields nothing.
type NoResultsError struct {
	Query string
}

func (e *NoResultsError) Error() string {
	return fmt.Sprintf("no search results found for %q", e.Query)
}
