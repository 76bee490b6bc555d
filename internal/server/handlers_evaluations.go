package server

import (
	"net/http"
	"strconv"
)

// handleListEvaluations returns the most recent stored evaluations
func (s *Server) handleListEvaluations(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrPersistenceDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	limit := 0
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed < 0 {
			s.errorResponse(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
		limit = parsed
	}

	evaluations, err := s.store.ListEvaluations(r.Context(), limit)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, map[string]any{
		"evaluations": evaluations,
		"count":       len(evaluations),
	})
}

// handleGetEvaluation returns one stored evaluation by run ID
func (s *Server) handleGetEvaluation(w http.ResponseWriter, r *http.Request) {
	if s.store == nil {
		err := &ErrPersistenceDisabled{}
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	id := r.PathValue("id")
	evaluation, err := s.store.GetEvaluation(r.Context(), id)
	if err != nil {
		s.errorResponse(w, http.StatusInternalServerError, "Database error: "+err.Error())
		return
	}
	if evaluation == nil {
		notFound := &ErrNotFound{ID: id}
		s.errorResponse(w, HTTPStatus(notFound), notFound.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, evaluation)
}
