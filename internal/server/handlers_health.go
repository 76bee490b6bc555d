package server

import (
	"net/http"

	"github.com/jonathan/sponsor-finder/internal/config"
)

// HealthResponse reports which capabilities are configured. Keys are only
// ever shown masked.
type HealthResponse struct {
	Status             string `json:"status"`
	LLMProvider        string `json:"llmProvider"`
	LLMConfigured      bool   `json:"llmConfigured"`
	LLMKeyPreview      string `json:"llmKeyPreview"`
	SearchConfigured   bool   `json:"searchConfigured"`
	CacheEnabled       bool   `json:"cacheEnabled"`
	PersistenceEnabled bool   `json:"persistenceEnabled"`
	MaxSteps           int    `json:"maxSteps"`
}

// handleHealth returns server health status
func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	cfg := s.settings
	resp := HealthResponse{
		Status:             "ok",
		LLMProvider:        cfg.LLMProvider,
		LLMConfigured:      cfg.RequireLLM() == nil,
		LLMKeyPreview:      config.Preview(cfg.LLMAPIKey()),
		SearchConfigured:   cfg.RequireSearch() == nil,
		CacheEnabled:       cfg.RedisURL != "",
		PersistenceEnabled: s.store != nil,
	}
	if s.controller != nil {
		resp.MaxSteps = s.controller.MaxSteps()
	}
	if !resp.LLMConfigured {
		resp.Status = "warning"
	}

	s.jsonResponse(w, http.StatusOK, resp)
}
