package business

import (
	"context"

	"github.com/jonathan/sponsor-finder/internal/config"
	"github.com/jonathan/sponsor-finder/internal/types"
)

// Source is the capability the agent uses to obtain raw business information.
type Source interface {
	ExtractFromURL(ctx context.Context, url string) (*types.BusinessInfo, error)
	SearchBusinessInfo(ctx context.Context, query string) (*types.BusinessInfo, error)
	// SearchReady reports a *config.Error when search cannot run, without a network call.
	SearchReady() error
}

// Resolver combines website extraction and web search.
type Resolver struct {
	extractor *Extractor
	searcher  *Searcher
}

// NewResolver creates a Resolver. A nil searcher makes every search a
// configuration error.
func NewResolver(extractor *Extractor, searcher *Searcher) *Resolver {
	if extractor == nil {
		extractor = NewExtractor()
	}
	return &Resolver{extractor: extractor, searcher: searcher}
}

// ExtractFromURL delegates to the extractor.
func (r *Resolver) ExtractFromURL(ctx context.Context, url string) (*types.BusinessInfo, error) {
	return r.extractor.ExtractFromURL(ctx, url)
}

// SearchBusinessInfo delegates to the searcher.
func (r *Resolver) SearchBusinessInfo(ctx context.Context, query string) (*types.BusinessInfo, error) {
	if err := r.SearchReady(); err != nil {
		return nil, err
	}
	return r.searcher.SearchBusinessInfo(ctx, query)
}

// SearchReady implements Source.
func (r *Resolver) SearchReady() error {
	if r.searcher == nil {
		return config.Missing("cse_api_key", "GOOGLE_CSE_API_KEY")
	}
	return r.searcher.Ready()
}
