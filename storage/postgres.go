package storage

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"homescout/identity"
	"homescout/models"
)

// PostgresSink mirrors qualifying records into Postgres, keyed by the
// address-price fingerprint so re-runs update rather than duplicate. The
// JSON dataset stays the source of truth; sink failures log and continue.
type PostgresSink struct {
	pool *pgxpool.Pool
}

func NewPostgresSink(ctx context.Context, connString string) (*PostgresSink, error) {
	config, err := pgxpool.ParseConfig(connString)
	if err != nil {
		return nil, fmt.Errorf("parse config: %w", err)
	}

	config.MaxConns = 4
	config.MaxConnLifetime = 30 * time.Minute
	config.MaxConnIdleTime = 5 * time.Minute

	pool, err := pgxpool.NewWithConfig(ctx, config)
	if err != nil {
		return nil, fmt.Errorf("create pool: %w", err)
	}

	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ping: %w", err)
	}

	sink := &PostgresSink{pool: pool}
	if err := sink.ensureSchema(ctx); err != nil {
		pool.Close()
		return nil, err
	}
	return sink, nil
}

func (s *PostgresSink) Close() {
	s.pool.Close()
}

func (s *PostgresSink) ensureSchema(ctx context.Context) error {
	_, err := s.pool.Exec(ctx, `
		CREATE TABLE IF NOT EXISTS listings (
			id UUID PRIMARY KEY,
			fingerprint TEXT UNIQUE NOT NULL,
			location TEXT,
			address TEXT,
			price_text TEXT,
			price_value NUMERIC,
			status TEXT,
			beds INTEGER,
			baths NUMERIC,
			sqft INTEGER,
			agent TEXT,
			agency TEXT,
			description TEXT,
			first_seen_at TIMESTAMPTZ NOT NULL,
			last_seen_at TIMESTAMPTZ NOT NULL
		)`)
	if err != nil {
		return fmt.Errorf("ensure schema: %w", err)
	}
	return nil
}

// UpsertRecords writes one page's records. Existing fingerprints get their
// status, price, and last-seen timestamp refreshed.
func (s *PostgresSink) UpsertRecords(ctx context.Context, location string, recs []models.ListingRecord) error {
	now := time.Now()

	for i := range recs {
		rec := &recs[i]
		_, err := s.pool.Exec(ctx, `
			INSERT INTO listings (
				id, fingerprint, location, address, price_text, price_value,
				status, beds, baths, sqft, agent, agency, description,
				first_seen_at, last_seen_at
			) VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $14)
			ON CONFLICT (fingerprint) DO UPDATE SET
				status = EXCLUDED.status,
				price_text = EXCLUDED.price_text,
				price_value = EXCLUDED.price_value,
				last_seen_at = EXCLUDED.last_seen_at`,
			uuid.NewString(), identity.Fingerprint(rec), location, rec.Address, rec.Price, rec.PriceValue,
			rec.Status, rec.Beds, rec.Baths, rec.SqFt, rec.Agent, rec.Agency, rec.Description,
			now)
		if err != nil {
			return fmt.Errorf("upsert %s: %w", rec.Address, err)
		}
	}
	return nil
}
