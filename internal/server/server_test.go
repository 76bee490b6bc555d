package server

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sponsor-finder/internal/agent"
	"github.com/jonathan/sponsor-finder/internal/config"
	"github.com/jonathan/sponsor-finder/internal/db"
	"github.com/jonathan/sponsor-finder/internal/llm"
	"github.com/jonathan/sponsor-finder/internal/types"
)

// stateCompleter always picks the next missing result from the prompt.
type stateCompleter struct{}

func (stateCompleter) GenerateStructured(_ context.Context, prompt string, _ llm.ModelTier, _ *llm.Schema) (string, error) {
	switch {
	case strings.Contains(prompt, "businessInfo: null") && strings.Contains(prompt, "userProvidedUrl: false"):
		return `{"action": "searchBusinessInfo"}`, nil
	case strings.Contains(prompt, "businessInfo: null"):
		return `{"action": "extractFromUrl"}`, nil
	case strings.Contains(prompt, "profile: null"):
		return `{"action": "extractBusinessProfile"}`, nil
	case strings.Contains(prompt, "fit: null"):
		return `{"action": "scoreSponsorFit"}`, nil
	default:
		return `{"action": "done"}`, nil
	}
}

type fakeSource struct {
	searchErr  error
	extractErr error
}

func (f *fakeSource) ExtractFromURL(_ context.Context, url string) (*types.BusinessInfo, error) {
	if f.extractErr != nil {
		return nil, f.extractErr
	}
	return &types.BusinessInfo{
		Query:      url,
		Name:       "Acme Sports",
		Website:    url,
		Title:      "Acme Sports",
		Snippet:    "Football gear for the whole family, based in Luxembourg.",
		Categories: []string{},
		RawItems:   []types.RawItem{{Title: "Acme Sports", Link: url, Snippet: "Football gear for the whole family, based in Luxembourg."}},
	}, nil
}

func (f *fakeSource) SearchBusinessInfo(_ context.Context, query string) (*types.BusinessInfo, error) {
	if f.searchErr != nil {
		return nil, f.searchErr
	}
	return &types.BusinessInfo{
		Query:      query,
		Name:       "Acme Sports",
		Website:    "https://acme.example/",
		Title:      "Acme Sports",
		Snippet:    "Football gear for the whole family, based in Luxembourg.",
		Categories: []string{"Sports"},
		RawItems:   []types.RawItem{{Title: "Acme Sports", Link: "https://acme.example/", Snippet: "Football gear for the whole family, based in Luxembourg."}},
	}, nil
}

func (f *fakeSource) SearchReady() error {
	return nil
}

// memoryStore is an in-memory Store.
type memoryStore struct {
	mu    sync.Mutex
	saved []*db.Evaluation
}

func (m *memoryStore) SaveEvaluation(_ context.Context, e *db.Evaluation) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.saved = append(m.saved, e)
	return nil
}

func (m *memoryStore) GetEvaluation(_ context.Context, id string) (*db.Evaluation, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	for _, e := range m.saved {
		if e.ID == id {
			return e, nil
		}
	}
	return nil, nil
}

func (m *memoryStore) ListEvaluations(_ context.Context, _ int) ([]db.EvaluationSummary, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	out := make([]db.EvaluationSummary, 0, len(m.saved))
	for _, e := range m.saved {
		out = append(out, db.EvaluationSummary{ID: e.ID, BusinessName: e.BusinessName, ClubName: e.ClubName, Status: e.Status, Score: e.Score})
	}
	return out, nil
}

func newTestServer(source *fakeSource, store Store) *Server {
	return New(Config{
		Controller: agent.New(stateCompleter{}, source),
		Source:     source,
		Store:      store,
		Settings: &config.Config{
			LLMProvider:  config.ProviderGemini,
			GeminiAPIKey: "AIzaSyTESTKEY0123456789",
		},
	})
}

const evaluateBody = `{
	"businessName": "Acme Sports",
	"clubProfile": {"clubName": "FC Example", "sportType": "football", "location": "Luxembourg", "totalMembers": 120},
	"language": "en"
}`

func serve(s *Server, method, path, body string) *httptest.ResponseRecorder {
	req := httptest.NewRequest(method, path, bytes.NewBufferString(body))
	w := httptest.NewRecorder()
	s.Handler().ServeHTTP(w, req)
	return w
}

func TestHealthEndpoint(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	w := serve(s, http.MethodGet, "/api/health", "")
	require.Equal(t, http.StatusOK, w.Code)

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "ok", resp.Status)
	assert.True(t, resp.LLMConfigured)
	assert.False(t, resp.SearchConfigured)
	assert.False(t, resp.PersistenceEnabled)
	assert.Equal(t, agent.DefaultMaxSteps, resp.MaxSteps)
	assert.NotContains(t, w.Body.String(), "AIzaSyTESTKEY0123456789")
}

func TestHealthEndpoint_MissingLLMKey(t *testing.T) {
	s := New(Config{Settings: &config.Config{LLMProvider: config.ProviderGemini}})

	w := serve(s, http.MethodGet, "/api/health", "")

	var resp HealthResponse
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.Equal(t, "warning", resp.Status)
	assert.False(t, resp.LLMConfigured)
	assert.Equal(t, "NOT_CONFIGURED", resp.LLMKeyPreview)
}

func TestCORSPreflight(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	w := serve(s, http.MethodOptions, "/api/agent/evaluate", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "*", w.Header().Get("Access-Control-Allow-Origin"))
}

func TestMetricsEndpoint(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	w := serve(s, http.MethodGet, "/metrics", "")

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), "go_goroutines")
}
