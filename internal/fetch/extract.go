package fetch

import (
	"fmt"
	"strings"

	"github.com/PuerkitoBio/goquery"
)

// maxKeywords caps the number of category tags collected from meta tags.
const maxKeywords = 6

// minParagraphLength is the shortest paragraph accepted as an excerpt.
const minParagraphLength = 60

// noiseSelector matches elements that never carry business content.
const noiseSelector = "nav, footer, header, script, style, noscript, iframe, form, .ad, .advertisement, .ads, .sidebar, .cookie-banner, .popup"

// Page is the readable content of an HTML page.
type Page struct {
	Title           string
	Excerpt         string
	MetaDescription string
	Text            string
	Keywords        []string
}

// ExtractPage parses HTML and returns its readable content: title, a short
// excerpt, the meta description, the main text with collapsed whitespace and
// the keyword/category tags declared in meta elements.
func ExtractPage(html string) (*Page, error) {
	doc, err := goquery.NewDocumentFromReader(strings.NewReader(html))
	if err != nil {
		return nil, fmt.Errorf("failed to parse HTML: %w", err)
	}

	page := &Page{
		MetaDescription: NormalizeWhitespace(metaContent(doc, `meta[name="description"]`)),
		Keywords:        collectKeywords(doc),
	}

	page.Title = firstNonEmpty(
		NormalizeWhitespace(doc.Find("title").First().Text()),
		NormalizeWhitespace(metaContent(doc, `meta[property="og:title"]`)),
		NormalizeWhitespace(doc.Find("h1").First().Text()),
	)

	doc.Find(noiseSelector).Remove()
	main := mainSelection(doc, DefaultTextSelectors())

	page.Text = NormalizeWhitespace(main.Text())
	page.Excerpt = firstNonEmpty(
		NormalizeWhitespace(metaContent(doc, `meta[property="og:description"]`)),
		NormalizeWhitespace(metaContent(doc, `meta[name="twitter:description"]`)),
		page.MetaDescription,
		firstParagraph(main),
	)

	return page, nil
}

// DefaultTextSelectors returns standard selectors for general web content.
func DefaultTextSelectors() []string {
	return []string{
		"main",
		"article",
		"[role='main']",
		".content",
		"#content",
		".main-content",
		"#main-content",
	}
}

// NormalizeWhitespace collapses every run of whitespace into a single space.
func NormalizeWhitespace(s string) string {
	return strings.Join(strings.Fields(s), " ")
}

func mainSelection(doc *goquery.Document, selectors []string) *goquery.Selection {
	for _, selector := range selectors {
		if selection := doc.Find(selector); selection.Length() > 0 {
			return selection.First()
		}
	}
	return doc.Find("body")
}

func metaContent(doc *goquery.Document, selector string) string {
	content, _ := doc.Find(selector).First().Attr("content")
	return strings.TrimSpace(content)
}

func firstParagraph(sel *goquery.Selection) string {
	var excerpt string
	sel.Find("p").EachWithBreak(func(_ int, p *goquery.Selection) bool {
		text := NormalizeWhitespace(p.Text())
		if len(text) >= minParagraphLength {
			excerpt = text
			return false
		}
		return true
	})
	return excerpt
}

// collectKeywords gathers meta keywords first, then tag-like metas, keeping
// first occurrences only.
func collectKeywords(doc *goquery.Document) []string {
	var candidates []string
	for _, keyword := range strings.Split(metaContent(doc, `meta[name="keywords"]`), ",") {
		candidates = append(candidates, keyword)
	}
	doc.Find(`meta[property="article:tag"], meta[property="og:site_name"], meta[name="category"]`).Each(func(_ int, s *goquery.Selection) {
		content, _ := s.Attr("content")
		candidates = append(candidates, content)
	})

	seen := make(map[string]bool)
	keywords := make([]string, 0, maxKeywords)
	for _, candidate := range candidates {
		keyword := NormalizeWhitespace(candidate)
		if keyword == "" || seen[keyword] {
			continue
		}
		seen[keyword] = true
		keywords = append(keywords, keyword)
		if len(keywords) == maxKeywords {
			break
		}
	}
	return keywords
}

func firstNonEmpty(values ...string) string {
	for _, v := range values {
		if v != "" {
			return v
		}
	}
	return ""
}
