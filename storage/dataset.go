package storage

import (
	"encoding/json"
	"fmt"
	"log"
	"os"
	"time"

	"homescout/config"
	"homescout/identity"
	"homescout/models"
)

// DatasetStore owns the in-memory record collection and its JSON file.
// Saves rewrite the whole file with the full collection; this full-rewrite
// model trades durability for simplicity and keeps the file valid JSON at
// every point between pages.
type DatasetStore struct {
	path    string
	dedup   string
	records []models.ListingRecord
	seen    map[string]struct{}
}

func NewDatasetStore(path, dedupStrategy string) *DatasetStore {
	return &DatasetStore{
		path:  path,
		dedup: dedupStrategy,
		seen:  make(map[string]struct{}),
	}
}

// Load reads any prior results from the output path. A missing file starts
// empty; a malformed file logs a warning and also starts empty — resuming
// must never fail on bad prior state.
func (s *DatasetStore) Load() int {
	data, err := os.ReadFile(s.path)
	if err != nil {
		if !os.IsNotExist(err) {
			log.Printf("Warning: could not read existing %s: %v, starting fresh", s.path, err)
		}
		return 0
	}

	var records []models.ListingRecord
	if err := json.Unmarshal(data, &records); err != nil {
		log.Printf("Warning: could not parse existing %s, starting fresh", s.path)
		return 0
	}

	s.records = records
	for i := range s.records {
		s.seen[identity.Fingerprint(&s.records[i])] = struct{}{}
	}
	log.Printf("Loaded %d existing records from %s", len(s.records), s.path)
	return len(s.records)
}

// Append adds new records to the collection, preserving their order, and
// returns how many were actually added after the configured dedup strategy.
func (s *DatasetStore) Append(recs []models.ListingRecord) int {
	added := 0
	for i := range recs {
		fp := identity.Fingerprint(&recs[i])
		if s.dedup == config.DedupAddressPrice {
			if _, dup := s.seen[fp]; dup {
				log.Printf("Skipping duplicate record: %s", recs[i].Address)
				continue
			}
		}
		s.seen[fp] = struct{}{}
		s.records = append(s.records, recs[i])
		added++
	}
	return added
}

// Save rewrites the entire output file with the full collection, pretty
// printed. On write failure it falls back to a timestamped backup file;
// only when both fail does it return an error, and even then the in-memory
// collection is retained for subsequent pages.
func (s *DatasetStore) Save() error {
	data, err := json.MarshalIndent(s.records, "", "    ")
	if err != nil {
		return fmt.Errorf("encode dataset: %w", err)
	}

	if err := os.WriteFile(s.path, data, 0644); err != nil {
		log.Printf("Error saving to %s: %v", s.path, err)
		backup := fmt.Sprintf("%s_backup_%d.json", s.path, time.Now().Unix())
		if backupErr := os.WriteFile(backup, data, 0644); backupErr != nil {
			return fmt.Errorf("save failed (%v) and backup failed: %w", err, backupErr)
		}
		log.Printf("Saved backup to %s", backup)
	}
	return nil
}

func (s *DatasetStore) Len() int {
	return len(s.records)
}

// Records returns the current collection in persisted order.
func (s *DatasetStore) Records() []models.ListingRecord {
	return s.records
}
