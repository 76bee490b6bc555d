package server

import (
	"encoding/json"
	"net/http"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sponsor-finder/internal/business"
	"github.com/jonathan/sponsor-finder/internal/db"
	"github.com/jonathan/sponsor-finder/internal/types"
)

func TestHandleEvaluate_Success(t *testing.T) {
	store := &memoryStore{}
	s := newTestServer(&fakeSource{}, store)

	w := serve(s, http.MethodPost, "/api/agent/evaluate", evaluateBody)
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())

	var result types.EvaluationResult
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &result))
	assert.Equal(t, "Acme Sports", result.BusinessInfo.Name)
	assert.NotEmpty(t, result.FinalSummary)
	assert.NotEmpty(t, result.Logs)
	assert.Equal(t, "Acme Sports", result.TrackingPayload.Sponsor.Name)

	require.Len(t, store.saved, 1)
	assert.Equal(t, db.StatusCompleted, store.saved[0].Status)
	assert.Equal(t, result.RunID, store.saved[0].ID)
	assert.Equal(t, "FC Example", store.saved[0].ClubName)
}

func TestHandleEvaluate_InvalidBody(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	tests := []struct {
		name string
		body string
	}{
		{name: "malformed JSON", body: `{`},
		{name: "missing business", body: `{"clubProfile": {"clubName": "FC", "sportType": "football"}}`},
		{name: "blank business", body: `{"businessName": "   ", "clubProfile": {"clubName": "FC", "sportType": "football"}}`},
		{name: "missing club profile", body: `{"businessName": "Acme"}`},
		{name: "null club profile", body: `{"businessName": "Acme", "clubProfile": null}`},
		{name: "unsupported language", body: `{"businessName": "Acme", "clubProfile": {"clubName": "FC", "sportType": "football"}, "language": "es"}`},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := serve(s, http.MethodPost, "/api/agent/evaluate", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code)
		})
	}
}

func TestHandleEvaluate_FailureReturnsLogs(t *testing.T) {
	store := &memoryStore{}
	s := newTestServer(&fakeSource{searchErr: &business.NoResultsError{Query: "Acme Sports official site Luxembourg"}}, store)

	w := serve(s, http.MethodPost, "/api/agent/evaluate", evaluateBody)
	require.Equal(t, http.StatusNotFound, w.Code)

	var body ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &body))
	assert.Equal(t, "The agent could not complete the evaluation. Review the steps below for details.", body.Error)
	assert.Contains(t, body.Detail, "no search results")
	require.NotEmpty(t, body.Logs)

	last := body.Logs[len(body.Logs)-1]
	assert.Equal(t, types.LogError, last.Status)
	assert.True(t, strings.HasPrefix(last.Message, "Evaluation stopped: "))
	for _, entry := range body.Logs {
		assert.NotEqual(t, types.LogPending, entry.Status)
	}

	require.Len(t, store.saved, 1)
	assert.Equal(t, db.StatusFailed, store.saved[0].Status)
	assert.Nil(t, store.saved[0].Score)
	assert.Contains(t, store.saved[0].Error, "no search results")
}

func TestHandleEvaluate_LocalizedError(t *testing.T) {
	s := newTestServer(&fakeSource{searchErr: &business.SearchError{Message: "quota exceeded"}}, nil)

	body := strings.Replace(evaluateBody, `"language": "en"`, `"language": "fr"`, 1)
	w := serve(s, http.MethodPost, "/api/agent/evaluate", body)
	require.Equal(t, http.StatusBadGateway, w.Code)

	var resp ErrorBody
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &resp))
	assert.NotEqual(t, "The agent could not complete the evaluation. Review the steps below for details.", resp.Error)
	assert.NotEmpty(t, resp.Error)
}

func TestHandleEvaluateStream(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	w := serve(s, http.MethodPost, "/api/agent/evaluate/stream", evaluateBody)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "text/event-stream", w.Header().Get("Content-Type"))

	out := w.Body.String()
	firstLog := strings.Index(out, "event: log\n")
	result := strings.Index(out, "event: result\n")
	require.GreaterOrEqual(t, firstLog, 0)
	require.Greater(t, result, firstLog)
	assert.Equal(t, result, strings.LastIndex(out, "event: "), "result must be the last event")
	assert.NotContains(t, out, "event: error\n")
}

func TestHandleEvaluateStream_Error(t *testing.T) {
	s := newTestServer(&fakeSource{searchErr: &business.NoResultsError{Query: "x"}}, nil)

	w := serve(s, http.MethodPost, "/api/agent/evaluate/stream", evaluateBody)

	out := w.Body.String()
	assert.Contains(t, out, "event: log\n")
	assert.Contains(t, out, "event: error\n")
	assert.NotContains(t, out, "event: result\n")
	assert.Contains(t, out, `"logs":[`)
}

func TestHandleEvaluateStream_InvalidBody(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	w := serve(s, http.MethodPost, "/api/agent/evaluate/stream", `{}`)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Equal(t, "application/json", w.Header().Get("Content-Type"))
}

func TestHandleExtract(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	w := serve(s, http.MethodPost, "/api/extract", `{"url": "https://acme.example/"}`)
	require.Equal(t, http.StatusOK, w.Code)

	var info types.BusinessInfo
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &info))
	assert.Equal(t, "Acme Sports", info.Name)
	assert.Equal(t, "https://acme.example/", info.Website)
}

func TestHandleExtract_Errors(t *testing.T) {
	tests := []struct {
		name     string
		source   *fakeSource
		body     string
		expected int
	}{
		{name: "missing url", source: &fakeSource{}, body: `{"url": "  "}`, expected: http.StatusBadRequest},
		{name: "malformed body", source: &fakeSource{}, body: `nope`, expected: http.StatusBadRequest},
		{name: "unparseable url", source: &fakeSource{extractErr: &business.ParseError{Input: "::"}}, body: `{"url": "::"}`, expected: http.StatusBadRequest},
		{name: "fetch failure", source: &fakeSource{extractErr: &business.FetchError{URL: "https://down.example/", StatusCode: 503}}, body: `{"url": "https://down.example/"}`, expected: http.StatusBadGateway},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			s := newTestServer(tt.source, nil)
			w := serve(s, http.MethodPost, "/api/extract", tt.body)
			assert.Equal(t, tt.expected, w.Code)
		})
	}
}

func TestHandleEvaluations(t *testing.T) {
	store := &memoryStore{}
	s := newTestServer(&fakeSource{}, store)

	w := serve(s, http.MethodPost, "/api/agent/evaluate", evaluateBody)
	require.Equal(t, http.StatusOK, w.Code)
	id := store.saved[0].ID

	w = serve(s, http.MethodGet, "/api/evaluations?limit=5", "")
	require.Equal(t, http.StatusOK, w.Code)
	var list struct {
		Evaluations []db.EvaluationSummary `json:"evaluations"`
		Count       int                    `json:"count"`
	}
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &list))
	assert.Equal(t, 1, list.Count)
	assert.Equal(t, id, list.Evaluations[0].ID)

	w = serve(s, http.MethodGet, "/api/evaluations/"+id, "")
	assert.Equal(t, http.StatusOK, w.Code)

	w = serve(s, http.MethodGet, "/api/evaluations/missing", "")
	assert.Equal(t, http.StatusNotFound, w.Code)

	w = serve(s, http.MethodGet, "/api/evaluations?limit=abc", "")
	assert.Equal(t, http.StatusBadRequest, w.Code)
}

func TestHandleEvaluations_Disabled(t *testing.T) {
	s := newTestServer(&fakeSource{}, nil)

	assert.Equal(t, http.StatusServiceUnavailable, serve(s, http.MethodGet, "/api/evaluations", "").Code)
	assert.Equal(t, http.StatusServiceUnavailable, serve(s, http.MethodGet, "/api/evaluations/abc", "").Code)
}
