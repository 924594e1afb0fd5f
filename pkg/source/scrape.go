package source

import (
	"bytes"
	"context"
	"fmt"
	"regexp"
	"strings"

	"github.com/PuerkitoBio/goquery"
	"github.com/mwantia/bingwall/pkg/errs"
	"github.com/mwantia/bingwall/pkg/fetch"
	"github.com/mwantia/bingwall/pkg/log"
)

// Extractor looks for an image reference in a parsed page and reports whether it found one.
type Extractor struct {
	Name    string
	Extract func(doc *goquery.Document) (string, bool)
}

var backgroundURL = regexp.MustCompile(`url\(\s*['"]?([^'")]+)['"]?\s*\)`)

// DefaultExtractors lists the known markup locations of the preloaded
// background, most specific first.
func DefaultExtractors() []Extractor {
	return []Extractor{
		{
			Name: "link#preloadBg",
			Extract: func(doc *goquery.Document) (string, bool) {
				return firstAttr(doc.Find("link#preloadBg").First(), "href", "content")
			},
		},
		{
			Name: "meta[og:image]",
			Extract: func(doc *goquery.Document) (string, bool) {
				return firstAttr(doc.Find(`meta[property="og:image"]`).First(), "href", "content")
			},
		},
		{
			Name: "div.img_cont",
			Extract: func(doc *goquery.Document) (string, bool) {
				sel := doc.Find("div.img_cont").First()
				if value, ok := firstAttr(sel, "href", "content"); ok {
					return value, true
				}
				style, _ := sel.Attr("style")
				if m := backgroundURL.FindStringSubmatch(style); m != nil {
					return m[1], true
				}
				return "", false
			},
		},
	}
}

func firstAttr(sel *goquery.Selection, names ...string) (string, bool) {
	for _, name := range names {
		if value, ok := sel.Attr(name); ok && strings.TrimSpace(value) != "" {
			return strings.TrimSpace(value), true
		}
	}
	return "", false
}

// ScrapeResolver reads the wallpaper reference embedded in the provider's home page.
type ScrapeResolver struct {
	fetcher    fetch.Fetcher
	pageURL    string
	origin     string
	extractors []Extractor
	log        log.LoggerService
}

func NewScrapeResolver(fetcher fetch.Fetcher, pageURL, origin string, logger log.LoggerService) *ScrapeResolver {
	return &ScrapeResolver{
		fetcher:    fetcher,
		pageURL:    pageURL,
		origin:     strings.TrimRight(origin, "/"),
		extractors: DefaultExtractors(),
		log:        logger,
	}
}

func (r *ScrapeResolver) Resolve(ctx context.Context) (*Wallpaper, error) {
	page, err := r.fetcher.Fetch(ctx, r.pageURL)
	if err != nil {
		return nil, fmt.Errorf("failed to fetch page: %w", err)
	}

	doc, err := goquery.NewDocumentFromReader(bytes.NewReader(page))
	if err != nil {
		return nil, errs.NewParse("parse page", err)
	}

	for _, extractor := range r.extractors {
		raw, ok := extractor.Extract(doc)
		if !ok {
			continue
		}

		r.log.Debug("Found image reference via '%s': %s", extractor.Name, raw)
		return &Wallpaper{URL: r.normalize(raw)}, nil
	}

	return nil, errs.NewParse("locate preload image", ErrNoImage)
}

// normalize completes relative references with the origin and cuts the
// query at its first '&', which drops both "&amp;..." entity artifacts and
// trailing tracking parameters.
func (r *ScrapeResolver) normalize(raw string) string {
	if !strings.HasPrefix(raw, "http") {
		if !strings.HasPrefix(raw, "/") {
			raw = "/" + raw
		}
		raw = r.origin + raw
	}

	cleaned, _, _ := strings.Cut(raw, "&")
	return cleaned
}
