package business

import (
	"context"
	"errors"
	"strings"

	"go.uber.org/zap"

	"github.com/jonathan/sponsor-finder/internal/fetch"
	"github.com/jonathan/sponsor-finder/internal/types"
)

// Length limits of the synthetic evidence built from a page.
const (
	snippetLimit     = 220
	snippetCut       = 217
	descriptionLimit = 280
	detailsLimit     = 200
	maxRawItems      = 3
)

// Extractor turns a business website into BusinessInfo.
type Extractor struct {
	options *fetch.Options
	render  fetch.Renderer
	logger  *zap.Logger
}

// ExtractorOption configures an Extractor.
type ExtractorOption func(*Extractor)

// WithFetchOptions sets the HTTP options used to fetch pages.
func WithFetchOptions(opts *fetch.Options) ExtractorOption {
	return func(e *Extractor) { e.options = opts }
}

// WithRenderer enables re-rendering of thin pages with a headless browser.
func WithRenderer(render fetch.Renderer) ExtractorOption {
	return func(e *Extractor) { e.render = render }
}

// WithExtractorLogger sets the logger.
func WithExtractorLogger(logger *zap.Logger) ExtractorOption {
	return func(e *Extractor) { e.logger = logger }
}

// NewExtractor creates an Extractor.
func NewExtractor(opts ...ExtractorOption) *Extractor {
	e := &Extractor{
		options: fetch.DefaultOptions(),
		logger:  zap.NewNop(),
	}
	for _, opt := range opts {
		opt(e)
	}
	return e
}

// ExtractFromURL fetches the page at input (an absolute URL or a bare domain)
// and summarizes its business-relevant content. It never retries.
func (e *Extractor) ExtractFromURL(ctx context.Context, input string) (*types.BusinessInfo, error) {
	normalized, err := NormalizeURL(input)
	if err != nil {
		return nil, err
	}

	result, err := fetch.URL(ctx, normalized, e.options)
	if err != nil {
		var fetchErr *fetch.Error
		if errors.As(err, &fetchErr) {
			if fetchErr.InvalidURL() {
				return nil, &ParseError{Input: input, Message: "invalid URL", Cause: err}
			}
			return nil, &FetchError{URL: normalized, StatusCode: fetchErr.StatusCode, Cause: err}
		}
		return nil, &FetchError{URL: normalized, Cause: err}
	}

	page, err := fetch.ExtractPage(result.HTML)
	if err != nil {
		return nil, &ParseError{Input: input, Message: "unreadable page", Cause: err}
	}

	if e.render != nil && fetch.ShouldUseBrowser(page.Text) {
		page = e.rerender(ctx, normalized, page)
	}

	return BuildInfo(normalized, page), nil
}

// rerender replaces a thin page with its browser-rendered version when that
// yields more text. Rendering problems keep the original page.
func (e *Extractor) rerender(ctx context.Context, pageURL string, page *fetch.Page) *fetch.Page {
	html, err := e.render(ctx, pageURL)
	if err != nil {
		e.logger.Warn("browser rendering failed", zap.String("url", pageURL), zap.Error(err))
		return page
	}
	rendered, err := fetch.ExtractPage(html)
	if err != nil || len(rendered.Text) <= len(page.Text) {
		return page
	}
	e.logger.Debug("using browser-rendered page", zap.String("url", pageURL), zap.Int("text_length", len(rendered.Text)))
	return rendered
}

// BuildInfo maps an extracted page to BusinessInfo. pageURL must already be normalized.
func BuildInfo(pageURL string, page *fetch.Page) *types.BusinessInfo {
	title := page.Title
	if title == "" {
		title = Hostname(pageURL)
	}

	text := page.Text
	description := page.Excerpt
	if description == "" {
		description = page.MetaDescription
	}
	if description == "" {
		description = truncateRunes(text, descriptionLimit)
	}

	snippetSource := description
	if snippetSource == "" {
		snippetSource = text
	}
	snippet := snippetSource
	if runeLen(snippetSource) > snippetLimit {
		snippet = strings.TrimRight(truncateRunes(snippetSource, snippetCut), " \t\n") + "..."
	}
	if snippet == "" {
		snippet = title
	}

	rawItems := []types.RawItem{{Title: title, Link: pageURL, Snippet: snippet}}
	if description != "" && description != snippet {
		rawItems = append(rawItems, types.RawItem{
			Title:   title + " overview",
			Link:    pageURL,
			Snippet: truncateRunes(description, descriptionLimit),
		})
	}
	if text != "" {
		rawItems = append(rawItems, types.RawItem{
			Title:   title + " details",
			Link:    pageURL,
			Snippet: truncateRunes(text, detailsLimit),
		})
	}
	if len(rawItems) > maxRawItems {
		rawItems = rawItems[:maxRawItems]
	}

	if description == "" {
		description = snippet
	}

	categories := page.Keywords
	if categories == nil {
		categories = []string{}
	}

	return &types.BusinessInfo{
		Query:       pageURL,
		Name:        title,
		Website:     pageURL,
		Title:       title,
		Snippet:     snippet,
		Description: description,
		Categories:  categories,
		RawItems:    rawItems,
	}
}

func runeLen(s string) int {
	return len([]rune(s))
}

func truncateRunes(s string, limit int) string {
	runes := []rune(s)
	if len(runes) <= limit {
		return s
	}
	return string(runes[:limit])
}
