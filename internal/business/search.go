package business

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strings"

	"go.uber.org/zap"
	"google.golang.org/api/customsearch/v1"
	"google.golang.org/api/googleapi"
	"google.golang.org/api/option"

	"github.com/jonathan/sponsor-finder/internal/config"
	"github.com/jonathan/sponsor-finder/internal/types"
)

const (
	searchResultCount = 5
	searchLanguage    = "lang_en"
)

// Searcher queries the Google Custom Search API for business information.
type Searcher struct {
	svc    *customsearch.Service
	apiKey string
	cx     string
	logger *zap.Logger
}

// NewSearcher creates a Searcher. Missing credentials are not an error here;
// they are reported by Ready and by every search attempt.
func NewSearcher(ctx context.Context, apiKey, cx string, logger *zap.Logger, opts ...option.ClientOption) (*Searcher, error) {
	if logger == nil {
		logger = zap.NewNop()
	}
	auth := option.WithoutAuthentication()
	if strings.TrimSpace(apiKey) != "" {
		auth = option.WithAPIKey(apiKey)
	}
	clientOpts := append([]option.ClientOption{auth}, opts...)
	svc, err := customsearch.NewService(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create customsearch service: %w", err)
	}
	return &Searcher{
		svc:    svc,
		apiKey: strings.TrimSpace(apiKey),
		cx:     strings.TrimSpace(cx),
		logger: logger,
	}, nil
}

// Ready returns a *config.Error when the API key or search engine id is missing.
func (s *Searcher) Ready() error {
	return config.RequireSearchCredentials(s.apiKey, s.cx)
}

// SearchBusinessInfo runs a single search and maps the results to BusinessInfo.
func (s *Searcher) SearchBusinessInfo(ctx context.Context, query string) (*types.BusinessInfo, error) {
	if err := s.Ready(); err != nil {
		return nil, err
	}

	resp, err := s.svc.Cse.List().
		Cx(s.cx).
		Q(query).
		Num(searchResultCount).
		Lr(searchLanguage).
		Context(ctx).
		Do()
	if err != nil {
		return nil, &SearchError{Query: query, Message: upstreamMessage(err), Cause: err}
	}
	if len(resp.Items) == 0 {
		return nil, &NoResultsError{Query: query}
	}

	s.logger.Debug("search completed", zap.String("query", query), zap.Int("items", len(resp.Items)))
	return buildSearchInfo(query, resp), nil
}

func buildSearchInfo(query string, resp *customsearch.Search) *types.BusinessInfo {
	first := resp.Items[0]

	name := first.Title
	if name == "" {
		name = query
	}

	categories := facetAnchors(resp.Context)

	rawItems := make([]types.RawItem, 0, len(resp.Items))
	for _, item := range resp.Items {
		if item == nil {
			continue
		}
		rawItems = append(rawItems, types.RawItem{
			Title:   item.Title,
			Link:    item.Link,
			Snippet: item.Snippet,
		})
	}

	return &types.BusinessInfo{
		Query:       query,
		Name:        name,
		Website:     first.Link,
		Title:       first.Title,
		Snippet:     first.Snippet,
		Description: first.Snippet,
		Categories:  categories,
		RawItems:    rawItems,
	}
}

// searchContext is the part of the raw response context we read.
type searchContext struct {
	Facets [][]struct {
		Anchor string `json:"anchor"`
	} `json:"facets"`
}

// facetAnchors returns the non-empty facet anchors of a response context.
// An absent or undecodable context yields no categories.
func facetAnchors(raw googleapi.RawMessage) []string {
	categories := []string{}
	if len(raw) == 0 {
		return categories
	}
	var ctx searchContext
	if err := json.Unmarshal(raw, &ctx); err != nil {
		return categories
	}
	for _, group := range ctx.Facets {
		for _, facet := range group {
			if facet.Anchor != "" {
				categories = append(categories, facet.Anchor)
			}
		}
	}
	return categories
}

// upstreamMessage prefers the message reported by the API over the transport error text.
func upstreamMessage(err error) string {
	var apiErr *googleapi.Error
	if errors.As(err, &apiErr) && apiErr.Message != "" {
		return apiErr.Message
	}
	return err.Error()
}
