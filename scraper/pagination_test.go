package scraper

import (
	"testing"

	"homescout/config"
)

const testSite = "https://www.example-homes.test"

func TestParseLocation_CityForm(t *testing.T) {
	loc := ParseLocation("Miami FL", testSite)

	if loc.IsNeighborhood() {
		t.Fatal("city form misread as neighborhood")
	}
	if loc.BaseURL != testSite+"/miami-fl/all-inventory" {
		t.Fatalf("unexpected base URL %q", loc.BaseURL)
	}
	if got := loc.PageURL(1); got != testSite+"/miami-fl/all-inventory/" {
		t.Fatalf("unexpected page 1 URL %q", got)
	}
	if got := loc.PageURL(3); got != testSite+"/miami-fl/all-inventory/p3/" {
		t.Fatalf("unexpected page 3 URL %q", got)
	}
}

func TestParseLocation_NeighborhoodForm(t *testing.T) {
	loc := ParseLocation("san-diego-ca/la-jolla-village", testSite)

	if !loc.IsNeighborhood() {
		t.Fatal("neighborhood form not detected")
	}
	want := testSite + "/san-diego-ca/la-jolla-village-neighborhood/all-inventory"
	if loc.BaseURL != want {
		t.Fatalf("unexpected base URL %q", loc.BaseURL)
	}
	if got := loc.PageURL(2); got != want+"/p2/" {
		t.Fatalf("unexpected page 2 URL %q", got)
	}
}

func TestTotalPages(t *testing.T) {
	sel := config.DefaultSelectors()

	total, ok := TotalPages(fixtureDoc(t, "results_page.html"), sel)
	if !ok || total != 12 {
		t.Fatalf("expected 12 pages, got %d (ok=%v)", total, ok)
	}
}

func TestTotalPages_DefaultsToOne(t *testing.T) {
	sel := config.DefaultSelectors()

	doc, err := ParseDocument("<html><body><p>No marker here</p></body></html>")
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if total, ok := TotalPages(doc, sel); ok || total != 1 {
		t.Fatalf("expected default of 1 page, got %d (ok=%v)", total, ok)
	}

	doc, err = ParseDocument(`<p class="search-results">results <span>garbage text</span></p>`)
	if err != nil {
		t.Fatalf("parse failed: %v", err)
	}
	if total, ok := TotalPages(doc, sel); ok || total != 1 {
		t.Fatalf("expected default of 1 page on unparsable span, got %d (ok=%v)", total, ok)
	}
}

func TestNextPageDecision(t *testing.T) {
	sel := config.DefaultSelectors()

	if d := NextPageDecision(fixtureDoc(t, "results_page.html"), sel, 1, 12); d != DecisionContinue {
		t.Fatalf("expected continue with next-page affordance, got %v", d)
	}
	if d := NextPageDecision(fixtureDoc(t, "last_page.html"), sel, 12, 12); d != DecisionStopNoNextPage {
		t.Fatalf("expected stop without next-page affordance, got %v", d)
	}

	// no pagination block: the precomputed total decides
	noPagination := fixtureDoc(t, "fallback_page.html")
	if d := NextPageDecision(noPagination, sel, 1, 3); d != DecisionContinue {
		t.Fatalf("expected continue while below total, got %v", d)
	}
	if d := NextPageDecision(noPagination, sel, 3, 3); d != DecisionStopNoNextPage {
		t.Fatalf("expected stop at total, got %v", d)
	}
}
