package storage

import (
	"database/sql"
	"time"

	_ "github.com/mattn/go-sqlite3"

	"homescout/models"
)

// RunStore keeps run lifecycle records and per-run log lines in SQLite.
// It is operational history only; the JSON dataset remains the source of
// truth for scraped records.
type RunStore struct {
	db *sql.DB
}

func NewRunStore(dbPath string) (*RunStore, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, err
	}

	store := &RunStore{db: db}
	if err := store.migrate(); err != nil {
		db.Close()
		return nil, err
	}

	return store, nil
}

func (s *RunStore) Close() error {
	return s.db.Close()
}

func (s *RunStore) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS scrape_runs (
		id INTEGER PRIMARY KEY,
		uid TEXT,
		location TEXT,
		started_at DATETIME,
		finished_at DATETIME,
		status TEXT,
		pages_fetched INTEGER DEFAULT 0,
		total_pages INTEGER DEFAULT 0,
		listings_found INTEGER DEFAULT 0,
		records_added INTEGER DEFAULT 0,
		errors_count INTEGER DEFAULT 0
	);

	CREATE TABLE IF NOT EXISTS scrape_logs (
		id INTEGER PRIMARY KEY,
		run_id INTEGER,
		timestamp DATETIME,
		level TEXT,
		message TEXT,
		location TEXT
	);
	`
	_, err := s.db.Exec(schema)
	return err
}

func (s *RunStore) CreateRun(run *models.ScrapeRun) (int64, error) {
	res, err := s.db.Exec(`
		INSERT INTO scrape_runs (uid, location, started_at, status)
		VALUES (?, ?, ?, ?)`,
		run.UID, run.Location, run.StartedAt, run.Status)
	if err != nil {
		return 0, err
	}
	return res.LastInsertId()
}

func (s *RunStore) UpdateRun(run *models.ScrapeRun) error {
	_, err := s.db.Exec(`
		UPDATE scrape_runs
		SET finished_at = ?, status = ?, pages_fetched = ?, total_pages = ?,
		    listings_found = ?, records_added = ?, errors_count = ?
		WHERE id = ?`,
		run.FinishedAt, run.Status, run.PagesFetched, run.TotalPages,
		run.ListingsFound, run.RecordsAdded, run.ErrorsCount, run.ID)
	return err
}

func (s *RunStore) Log(runID *int64, level models.LogLevel, message, location string) error {
	_, err := s.db.Exec(`
		INSERT INTO scrape_logs (run_id, timestamp, level, message, location)
		VALUES (?, ?, ?, ?, ?)`,
		runID, time.Now(), level, message, location)
	return err
}

// Runs returns the most recent runs, newest first.
func (s *RunStore) Runs(limit int) ([]models.ScrapeRun, error) {
	rows, err := s.db.Query(`
		SELECT id, uid, location, started_at, finished_at, status,
		       pages_fetched, total_pages, listings_found, records_added, errors_count
		FROM scrape_runs ORDER BY id DESC LIMIT ?`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var runs []models.ScrapeRun
	for rows.Next() {
		var run models.ScrapeRun
		if err := rows.Scan(&run.ID, &run.UID, &run.Location, &run.StartedAt, &run.FinishedAt,
			&run.Status, &run.PagesFetched, &run.TotalPages, &run.ListingsFound,
			&run.RecordsAdded, &run.ErrorsCount); err != nil {
			return nil, err
		}
		runs = append(runs, run)
	}
	return runs, rows.Err()
}
