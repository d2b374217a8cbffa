package scraper

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/PuerkitoBio/goquery"

	"homescout/config"
)

func loadFixture(t *testing.T, name string) string {
	t.Helper()
	path := filepath.Join("testdata", name)
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatalf("failed to read fixture %s: %v", name, err)
	}
	return string(data)
}

func fixtureDoc(t *testing.T, name string) *goquery.Document {
	t.Helper()
	doc, err := ParseDocument(loadFixture(t, name))
	if err != nil {
		t.Fatalf("failed to parse fixture %s: %v", name, err)
	}
	return doc
}

func TestListings_ContainerVariantsConcatenated(t *testing.T) {
	parser := NewPageParser(config.DefaultSelectors())
	doc := fixtureDoc(t, "results_page.html")

	nodes := parser.Listings(doc)
	if len(nodes) != 3 {
		t.Fatalf("expected 3 listing nodes, got %d", len(nodes))
	}

	// for-sale containers come before off-market, in page order
	first := strings.TrimSpace(nodes[0].Find("p.property-name").Text())
	if first != "450 Ocean Crest Dr, La Jolla, CA 92037" {
		t.Fatalf("unexpected first listing: %q", first)
	}
	last := strings.TrimSpace(nodes[2].Find("p.property-name").Text())
	if last != "77 Harbor Lane, La Jolla, CA 92037" {
		t.Fatalf("unexpected last listing: %q", last)
	}
}

func TestListings_FallbackMarker(t *testing.T) {
	parser := NewPageParser(config.DefaultSelectors())
	doc := fixtureDoc(t, "fallback_page.html")

	nodes := parser.Listings(doc)
	if len(nodes) != 2 {
		t.Fatalf("expected 2 fallback nodes, got %d", len(nodes))
	}
}

func TestListings_EmptyPage(t *testing.T) {
	parser := NewPageParser(config.DefaultSelectors())
	doc, err := ParseDocument("<html><body><p>Nothing here</p></body></html>")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}

	if nodes := parser.Listings(doc); len(nodes) != 0 {
		t.Fatalf("expected no nodes, got %d", len(nodes))
	}
}

func TestHasErrorMarker(t *testing.T) {
	parser := NewPageParser(config.DefaultSelectors())

	if !parser.HasErrorMarker(fixtureDoc(t, "error_page.html")) {
		t.Fatal("expected error marker on error page")
	}
	if parser.HasErrorMarker(fixtureDoc(t, "results_page.html")) {
		t.Fatal("did not expect error marker on results page")
	}
}
