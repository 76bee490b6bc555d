package business

import (
	"context"
	"errors"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/sponsor-finder/internal/config"
)

const searchResponse = `{
	"context": {"title": "Sponsors", "facets": [[{"anchor": "Sports", "label": "sports"}], [{"anchor": "Retail", "label": "retail"}]]},
	"items": [
		{"title": "Acme Corp - Official Site", "link": "https://acme.example/", "snippet": "Acme Corp makes football gear, based in Luxembourg."},
		{"title": "Acme Corp on Social", "link": "https://social.example/acme", "snippet": "Follow Acme."}
	]
}`

func newTestSearcher(t *testing.T, handler http.HandlerFunc) *Searcher {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	searcher, err := NewSearcher(context.Background(), "test-key", "test-cx", nil, option.WithEndpoint(server.URL+"/"))
	require.NoError(t, err)
	return searcher
}

func TestSearcher_SearchBusinessInfo(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		q := r.URL.Query()
		assert.Equal(t, "Acme Corp official site Luxembourg", q.Get("q"))
		assert.Equal(t, "test-cx", q.Get("cx"))
		assert.Equal(t, "5", q.Get("num"))
		assert.Equal(t, "lang_en", q.Get("lr"))
		w.Header().Set("Content-Type", "application/json")
		_, _ = w.Write([]byte(searchResponse))
	})

	info, err := searcher.SearchBusinessInfo(context.Background(), "Acme Corp official site Luxembourg")
	require.NoError(t, err)

	assert.Equal(t, "Acme Corp official site Luxembourg", info.Query)
	assert.Equal(t, "Acme Corp - Official Site", info.Name)
	assert.Equal(t, "https://acme.example/", info.Website)
	assert.Equal(t, info.Snippet, info.Description)
	assert.Equal(t, []string{"Sports", "Retail"}, info.Categories)
	require.Len(t, info.RawItems, 2)
	assert.Equal(t, "Follow Acme.", info.RawItems[1].Snippet)
}

func TestSearcher_NameFallsBackToQuery(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": [{"link": "https://acme.example/"}]}`))
	})

	info, err := searcher.SearchBusinessInfo(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "acme", info.Name)
	assert.Empty(t, info.Categories)
	assert.NotNil(t, info.Categories)
}

func TestSearcher_NoResults(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		_, _ = w.Write([]byte(`{"items": []}`))
	})

	_, err := searcher.SearchBusinessInfo(context.Background(), "nobody")
	var noResults *NoResultsError
	require.True(t, errors.As(err, &noResults))
	assert.Equal(t, "nobody", noResults.Query)
}

func TestSearcher_UpstreamError(t *testing.T) {
	searcher := newTestSearcher(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/json")
		w.WriteHeader(http.StatusForbidden)
		_, _ = w.Write([]byte(`{"error": {"code": 403, "message": "API key not valid"}}`))
	})

	_, err := searcher.SearchBusinessInfo(context.Background(), "acme")
	var searchErr *SearchError
	require.True(t, errors.As(err, &searchErr))
	assert.Equal(t, "API key not valid", searchErr.Message)
	assert.Equal(t, "search request failed: API key not valid", err.Error())
}

func TestSearcher_MissingCredentials(t *testing.T) {
	called := false
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		called = true
	}))
	defer server.Close()

	tests := []struct {
		name    string
		key     string
		cx      string
		setting string
	}{
		{name: "missing key", key: "", cx: "cx", setting: "cse_api_key"},
		{name: "missing cx", key: "key", cx: " ", setting: "cse_id"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			searcher, err := NewSearcher(context.Background(), tt.key, tt.cx, nil, option.WithEndpoint(server.URL+"/"))
			require.NoError(t, err)

			var cfgErr *config.Error
			require.True(t, errors.As(searcher.Ready(), &cfgErr))
			assert.Equal(t, tt.setting, cfgErr.Setting)

			_, err = searcher.SearchBusinessInfo(context.Background(), "acme")
			assert.True(t, errors.As(err, &cfgErr))
		})
	}
	assert.False(t, called)
}

func TestResolver_NilSearcherIsConfigError(t *testing.T) {
	resolver := NewResolver(nil, nil)

	var cfgErr *config.Error
	assert.True(t, errors.As(resolver.SearchReady(), &cfgErr))

	_, err := resolver.SearchBusinessInfo(context.Background(), "acme")
	assert.True(t, errors.As(err, &cfgErr))
}

func TestFacetAnchors(t *testing.T) {
	tests := []struct {
		name     string
		raw      string
		expected []string
	}{
		{name: "absent", raw: "", expected: []string{}},
		{name: "no facets", raw: `{"title": "Sponsors"}`, expected: []string{}},
		{name: "malformed", raw: `{"facets": "nope"}`, expected: []string{}},
		{name: "skips empty anchors", raw: `{"facets": [[{"anchor": "Sports"}, {"anchor": ""}], [{"anchor": "Retail"}]]}`, expected: []string{"Sports", "Retail"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.expected, facetAnchors(googleapi.RawMessage(tt.raw)))
		})
	}
}
