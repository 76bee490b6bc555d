package server

import (
	"encoding/json"
	"net/http"

	"github.com/jonathan/sponsor-finder/internal/types"
)

// handleExtract reads a business website and returns its BusinessInfo
func (s *Server) handleExtract(w http.ResponseWriter, r *http.Request) {
	var req types.ExtractRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "Invalid request body: "+err.Error())
		return
	}
	if err := req.Validate(); err != nil {
		s.errorResponse(w, http.StatusBadRequest, "url is required")
		return
	}

	info, err := s.source.ExtractFromURL(r.Context(), req.URL)
	if err != nil {
		s.errorResponse(w, HTTPStatus(err), err.Error())
		return
	}

	s.jsonResponse(w, http.StatusOK, info)
}
