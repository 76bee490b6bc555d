package business

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/alicebob/miniredis/v2"
	"github.com/redis/go-redis/v9"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jonathan/sponsor-finder/internal/types"
)

type stubSource struct {
	extractCalls int
	searchCalls  int
	searchReady  error
	err          error
}

func (s *stubSource) ExtractFromURL(ctx context.Context, url string) (*types.BusinessInfo, error) {
	s.extractCalls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.BusinessInfo{Query: url, Name: "Acme", Website: url, Categories: []string{}}, nil
}

func (s *stubSource) SearchBusinessInfo(ctx context.Context, query string) (*types.BusinessInfo, error) {
	s.searchCalls++
	if s.err != nil {
		return nil, s.err
	}
	return &types.BusinessInfo{Query: query, Name: "Acme Corp", Website: "https://acme.example/"}, nil
}

func (s *stubSource) SearchReady() error {
	return s.searchReady
}

func newTestCache(t *testing.T, next Source) (*CachedResolver, *miniredis.Miniredis) {
	t.Helper()
	mr := miniredis.RunT(t)
	client := redis.NewClient(&redis.Options{Addr: mr.Addr()})
	t.Cleanup(func() { _ = client.Close() })
	return NewCachedResolver(next, client, time.Hour, nil), mr
}

func TestCachedResolver_ExtractHitSkipsUpstream(t *testing.T) {
	stub := &stubSource{}
	cache, mr := newTestCache(t, stub)
	ctx := context.Background()

	first, err := cache.ExtractFromURL(ctx, "acme.com")
	require.NoError(t, err)
	second, err := cache.ExtractFromURL(ctx, "https://ACME.com")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.extractCalls)
	assert.Equal(t, first, second)
	assert.True(t, mr.Exists("sponsor:extract:https://acme.com/"))
	assert.Equal(t, time.Hour, mr.TTL("sponsor:extract:https://acme.com/"))
}

func TestCachedResolver_SearchKeyIgnoresCase(t *testing.T) {
	stub := &stubSource{}
	cache, mr := newTestCache(t, stub)
	ctx := context.Background()

	_, err := cache.SearchBusinessInfo(ctx, "Acme Corp")
	require.NoError(t, err)
	_, err = cache.SearchBusinessInfo(ctx, "acme corp ")
	require.NoError(t, err)

	assert.Equal(t, 1, stub.searchCalls)
	assert.True(t, mr.Exists("sponsor:search:acme corp"))
}

func TestCachedResolver_ErrorsAreNotCached(t *testing.T) {
	stub := &stubSource{err: &FetchError{URL: "https://acme.com/", StatusCode: 500}}
	cache, mr := newTestCache(t, stub)

	_, err := cache.ExtractFromURL(context.Background(), "acme.com")
	var fetchErr *FetchError
	require.True(t, errors.As(err, &fetchErr))
	assert.False(t, mr.Exists("sponsor:extract:https://acme.com/"))
}

func TestCachedResolver_SearchNotReadySkipsCache(t *testing.T) {
	stub := &stubSource{searchReady: errors.New("not configured")}
	cache, _ := newTestCache(t, stub)

	_, err := cache.SearchBusinessInfo(context.Background(), "acme")
	require.Error(t, err)
	assert.Equal(t, 0, stub.searchCalls)
	assert.Equal(t, stub.searchReady, cache.SearchReady())
}

func TestCachedResolver_RedisDownFallsThrough(t *testing.T) {
	stub := &stubSource{}
	cache, mr := newTestCache(t, stub)
	mr.Close()

	info, err := cache.ExtractFromURL(context.Background(), "acme.com")
	require.NoError(t, err)
	assert.Equal(t, "Acme", info.Name)
	assert.Equal(t, 1, stub.extractCalls)
}

func TestCachedResolver_CorruptEntryReloads(t *testing.T) {
	stub := &stubSource{}
	cache, mr := newTestCache(t, stub)
	require.NoError(t, mr.Set("sponsor:search:acme", "{not json"))

	info, err := cache.SearchBusinessInfo(context.Background(), "acme")
	require.NoError(t, err)
	assert.Equal(t, "Acme Corp", info.Name)
	assert.Equal(t, 1, stub.searchCalls)
}
