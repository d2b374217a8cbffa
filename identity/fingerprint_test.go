package identity

import (
	"testing"

	"homescout/models"
)

func TestNormalizeAddress(t *testing.T) {
	got := NormalizeAddress("  450 Ocean Crest Drive, La Jolla, CA 92037 ")
	want := "450 ocean crest dr la jolla ca 92037"
	if got != want {
		t.Fatalf("NormalizeAddress = %q, want %q", got, want)
	}
}

func TestFingerprint_StableAcrossFormatting(t *testing.T) {
	a := &models.ListingRecord{Address: "450 Ocean Crest Drive, La Jolla", PriceValue: 2_500_000}
	b := &models.ListingRecord{Address: "450 ocean crest dr, la jolla", PriceValue: 2_500_000}

	if Fingerprint(a) != Fingerprint(b) {
		t.Fatal("expected equivalent addresses to share a fingerprint")
	}
}

func TestFingerprint_PriceChanges(t *testing.T) {
	a := &models.ListingRecord{Address: "450 Ocean Crest Dr", PriceValue: 2_500_000}
	b := &models.ListingRecord{Address: "450 Ocean Crest Dr", PriceValue: 2_750_000}

	if Fingerprint(a) == Fingerprint(b) {
		t.Fatal("expected different prices to produce different fingerprints")
	}
}
