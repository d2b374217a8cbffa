package storage

import (
	"os"
	"path/filepath"
	"testing"

	"homescout/config"
	"homescout/models"
)

func sampleRecords() []models.ListingRecord {
	beds := 4
	baths := 3.5
	sqft := 3200
	return []models.ListingRecord{
		{
			Address:    "450 Ocean Crest Dr, La Jolla, CA 92037",
			Price:      "$2,500,000",
			PriceValue: 2_500_000,
			Status:     "Not Listed For Sale",
			Beds:       &beds,
			Baths:      &baths,
			SqFt:       &sqft,
			Agent:      "Dana Whitfield",
			Agency:     "Pacific Coast Realty",
		},
		{
			Address:    "12 Summit Ridge Rd, La Jolla, CA 92037",
			Price:      "$3.2M",
			PriceValue: 3_200_000,
			Status:     "Estimated Price",
		},
		{
			Address:    "77 Harbor Lane, La Jolla, CA 92037",
			Price:      "$1,800,000",
			PriceValue: 1_800_000,
			Status:     "Off Market",
		},
	}
}

func TestSaveAndReload_RoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	recs := sampleRecords()

	store := NewDatasetStore(path, config.DedupNone)
	if added := store.Append(recs); added != len(recs) {
		t.Fatalf("expected %d added, got %d", len(recs), added)
	}
	if err := store.Save(); err != nil {
		t.Fatalf("save failed: %v", err)
	}

	reloaded := NewDatasetStore(path, config.DedupNone)
	if n := reloaded.Load(); n != len(recs) {
		t.Fatalf("expected %d records reloaded, got %d", len(recs), n)
	}
	for i, rec := range reloaded.Records() {
		if rec.Address != recs[i].Address {
			t.Fatalf("order not preserved at %d: got %q, want %q", i, rec.Address, recs[i].Address)
		}
	}

	first := reloaded.Records()[0]
	if first.Beds == nil || *first.Beds != 4 {
		t.Fatalf("beds did not survive round trip: %v", first.Beds)
	}
	if reloaded.Records()[1].Beds != nil {
		t.Fatal("unset beds should reload as nil")
	}
}

func TestLoad_MalformedFileStartsFresh(t *testing.T) {
	path := filepath.Join(t.TempDir(), "output.json")
	if err := os.WriteFile(path, []byte("{this is not json"), 0644); err != nil {
		t.Fatal(err)
	}

	store := NewDatasetStore(path, config.DedupNone)
	if n := store.Load(); n != 0 {
		t.Fatalf("expected empty start on malformed file, got %d records", n)
	}
	if store.Len() != 0 {
		t.Fatalf("expected empty collection, got %d", store.Len())
	}
}

func TestLoad_MissingFileStartsFresh(t *testing.T) {
	store := NewDatasetStore(filepath.Join(t.TempDir(), "missing.json"), config.DedupNone)
	if n := store.Load(); n != 0 {
		t.Fatalf("expected empty start on missing file, got %d", n)
	}
}

func TestAppend_AddressPriceDedup(t *testing.T) {
	store := NewDatasetStore(filepath.Join(t.TempDir(), "output.json"), config.DedupAddressPrice)
	recs := sampleRecords()

	if added := store.Append(recs); added != len(recs) {
		t.Fatalf("expected %d added, got %d", len(recs), added)
	}
	if added := store.Append(recs); added != 0 {
		t.Fatalf("expected duplicates skipped, got %d added", added)
	}
	if store.Len() != len(recs) {
		t.Fatalf("expected %d records, got %d", len(recs), store.Len())
	}

	// a different price for the same address is not a duplicate
	changed := recs[0]
	changed.PriceValue = 2_750_000
	if added := store.Append([]models.ListingRecord{changed}); added != 1 {
		t.Fatalf("expected price change to be appended, got %d added", added)
	}
}

func TestAppend_DedupDisabledKeepsDuplicates(t *testing.T) {
	store := NewDatasetStore(filepath.Join(t.TempDir(), "output.json"), config.DedupNone)
	recs := sampleRecords()

	store.Append(recs)
	if added := store.Append(recs); added != len(recs) {
		t.Fatalf("expected duplicates kept with dedup off, got %d added", added)
	}
	if store.Len() != 2*len(recs) {
		t.Fatalf("expected %d records, got %d", 2*len(recs), store.Len())
	}
}
