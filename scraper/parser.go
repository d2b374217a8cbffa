package scraper

import (
	"strings"

	"github.com/PuerkitoBio/goquery"

	"homescout/config"
)

// PageParser turns a fetched HTML document into the ordered sequence of
// listing nodes found on it.
type PageParser struct {
	sel *config.Selectors
}

func NewPageParser(sel *config.Selectors) *PageParser {
	return &PageParser{sel: sel}
}

// ParseDocument builds a goquery document from raw HTML.
func ParseDocument(html string) (*goquery.Document, error) {
	return goquery.NewDocumentFromReader(strings.NewReader(html))
}

// Listings collects listing container nodes in page order. The configured
// container selectors are tried and concatenated; when none match, the
// structural fallback marker is searched instead. An empty result is a
// normal outcome, interpreted upstream as a stop signal.
func (p *PageParser) Listings(doc *goquery.Document) []*goquery.Selection {
	var nodes []*goquery.Selection

	for _, selector := range p.sel.ListingContainers {
		doc.Find(selector).Each(func(_ int, s *goquery.Selection) {
			nodes = append(nodes, s)
		})
	}

	if len(nodes) == 0 {
		doc.Find(p.sel.ListingFallback).Each(func(_ int, s *goquery.Selection) {
			nodes = append(nodes, s)
		})
	}

	return nodes
}

// HasErrorMarker reports whether the page carries the site's explicit
// error container, which terminates pagination for the location.
func (p *PageParser) HasErrorMarker(doc *goquery.Document) bool {
	return doc.Find(p.sel.ErrorContainer).Length() > 0
}
