package main

import (
	"context"
	"errors"
	"os"
	"path/filepath"
	"strings"
	"sync/atomic"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sponsor-finder/internal/agent"
	"github.com/jonathan/sponsor-finder/internal/business"
	"github.com/jonathan/sponsor-finder/internal/llm"
	"github.com/jonathan/sponsor-finder/internal/types"
)

type nextMissingCompleter struct{}

func (nextMissingCompleter) GenerateStructured(_ context.Context, prompt string, _ llm.ModelTier, _ *llm.Schema) (string, error) {
	switch {
	case strings.Contains(prompt, "businessInfo: null"):
		return `{"action": "searchBusinessInfo"}`, nil
	case strings.Contains(prompt, "profile: null"):
		return `{"action": "extractBusinessProfile"}`, nil
	case strings.Contains(prompt, "fit: null"):
		return `{"action": "scoreSponsorFit"}`, nil
	default:
		return `{"action": "done"}`, nil
	}
}

// searchSource fails searches for queries starting with "Missing".
type searchSource struct {
	calls atomic.Int32
}

func (s *searchSource) ExtractFromURL(_ context.Context, url string) (*types.BusinessInfo, error) {
	return nil, errors.New("not used")
}

func (s *searchSource) SearchBusinessInfo(_ context.Context, query string) (*types.BusinessInfo, error) {
	s.calls.Add(1)
	if strings.HasPrefix(query, "Missing") {
		return nil, &business.NoResultsError{Query: query}
	}
	name := strings.SplitN(query, " official site", 2)[0]
	return &types.BusinessInfo{
		Query:      query,
		Name:       name,
		Website:    "https://" + strings.ToLower(name) + ".example/",
		Title:      name,
		Snippet:    name + " sells sports equipment.",
		Categories: []string{},
		RawItems:   []types.RawItem{{Title: name, Link: "https://example.com/", Snippet: name + " sells sports equipment."}},
	}, nil
}

func (s *searchSource) SearchReady() error {
	return nil
}

var testClub = types.ClubProfile{ClubName: "FC Example", SportType: "football", Location: "Luxembourg", TotalMembers: 80}

func TestReadClubProfile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "club.json")
	require.NoError(t, os.WriteFile(path, []byte(`{"clubName": "FC Example", "sportType": "football", "location": "Luxembourg", "totalMembers": 80}`), 0o644))

	club, err := readClubProfile(path)
	require.NoError(t, err)
	assert.Equal(t, testClub, club)
}

func TestReadClubProfile_Errors(t *testing.T) {
	dir := t.TempDir()
	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte(`{"clubName":`), 0o644))

	_, err := readClubProfile(filepath.Join(dir, "missing.json"))
	assert.ErrorContains(t, err, "failed to read club file")

	_, err = readClubProfile(bad)
	assert.ErrorContains(t, err, "failed to parse club file")
}

func TestBuildRequests(t *testing.T) {
	requests, err := buildRequests([]string{"Acme", "https://globex.example"}, testClub, "fr")
	require.NoError(t, err)
	require.Len(t, requests, 2)
	assert.Equal(t, "Acme", requests[0].BusinessName)
	assert.Equal(t, types.LanguageFrench, requests[1].Language)

	_, err = buildRequests([]string{"  "}, testClub, "en")
	assert.Error(t, err)

	requests, err = buildRequests([]string{"Acme"}, types.ClubProfile{}, "en")
	require.NoError(t, err, "club fields are free-form")
	assert.Equal(t, types.LanguageEnglish, requests[0].Language)

	_, err = buildRequests([]string{"Acme"}, testClub, "es")
	assert.Error(t, err)
}

func TestEvaluateAll(t *testing.T) {
	source := &searchSource{}
	controller := agent.New(nextMissingCompleter{}, source)
	requests, err := buildRequests([]string{"Acme", "Missing Co", "Globex"}, testClub, "en")
	require.NoError(t, err)

	outcomes := evaluateAll(context.Background(), controller, requests, 2)

	require.Len(t, outcomes, 3)
	assert.Equal(t, "Acme", outcomes[0].Business)
	require.NotNil(t, outcomes[0].Result)
	assert.Equal(t, "Acme", outcomes[0].Result.TrackingPayload.Sponsor.Name)

	assert.Equal(t, "Missing Co", outcomes[1].Business)
	assert.Nil(t, outcomes[1].Result)
	assert.Error(t, outcomes[1].err)
	assert.NotEmpty(t, outcomes[1].Logs)

	require.NotNil(t, outcomes[2].Result, "a failed run must not cancel the others")
	assert.Equal(t, int32(3), source.calls.Load())

	assert.EqualError(t, batchError(outcomes), "1 of 3 evaluations failed")
}

func TestBatchError_AllSucceeded(t *testing.T) {
	assert.NoError(t, batchError([]outcome{{Business: "Acme"}}))
}
