// Package postgres provides the PostgreSQL implementation of jogging.Store.
package postgres

import (
	"context"
	"fmt"
	"strings"

	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/i474232898/jogging-weather/internal/jogging"
	"github.com/i474232898/jogging-weather/internal/store/filter"
)

// Schema creates the jogging_results table. seq defines the listing order.
const Schema = `
CREATE TABLE IF NOT EXISTS jogging_results (
    seq              BIGSERIAL PRIMARY KEY,
    id               UUID NOT NULL UNIQUE,
    owner_id         TEXT NOT NULL,
    location         TEXT NOT NULL,
    run_date         DATE NOT NULL,
    distance         DOUBLE PRECISION NOT NULL CHECK (distance > 0),
    duration_seconds INTEGER NOT NULL CHECK (duration_seconds > 0),
    weather          JSON NOT NULL,
    created_at       TIMESTAMPTZ NOT NULL
);
CREATE INDEX IF NOT EXISTS jogging_results_owner_seq_idx ON jogging_results (owner_id, seq);
`

const selectColumns = `id, owner_id, location, run_date, distance, duration_seconds, weather, created_at`

// Repository provides Postgres-backed persistence for jogging results.
type Repository struct {
	pool *pgxpool.Pool
}

// NewRepository constructs a Repository.
func NewRepository(pool *pgxpool.Pool) *Repository {
	return &Repository{pool: pool}
}

// Migrate creates the schema if it does not exist yet.
func (r *Repository) Migrate(ctx context.Context) error {
	if _, err := r.pool.Exec(ctx, Schema); err != nil {
		return fmt.Errorf("migrate jogging_results: %w", err)
	}
	return nil
}

// Save inserts rec inside a single transaction.
func (r *Repository) Save(ctx context.Context, rec jogging.Record) (id string, err error) {
	tx, err := r.pool.BeginTx(ctx, pgx.TxOptions{})
	if err != nil {
		return "", err
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback(ctx)
		}
	}()

	const insert = `INSERT INTO jogging_results (id, owner_id, location, run_date, distance, duration_seconds, weather, created_at)
        VALUES ($1,$2,$3,$4,$5,$6,$7,$8)
        RETURNING id`

	err = tx.QueryRow(ctx, insert,
		rec.ID,
		rec.OwnerID,
		rec.Location,
		rec.Date,
		rec.Distance,
		rec.Duration,
		string(rec.Weather),
		rec.CreatedAt,
	).Scan(&id)
	if err != nil {
		return "", err
	}

	if err = tx.Commit(ctx); err != nil {
		return "", err
	}
	return id, nil
}

// List returns the owner's records in insertion order, narrowed by the filter
// and windowed by page and limit.
func (r *Repository) List(ctx context.Context, q jogging.Query) ([]jogging.Record, error) {
	args := []any{q.OwnerID, q.Limit, q.Offset()}
	query := `SELECT ` + selectColumns + ` FROM jogging_results WHERE owner_id=$1`

	if q.Filter != nil && strings.TrimSpace(*q.Filter) != "" {
		expr, err := filter.Parse(*q.Filter)
		if err != nil {
			return nil, fmt.Errorf("%w: %v", jogging.ErrInvalidFilter, err)
		}
		clause, filterArgs := filter.SQL(expr, len(args)+1)
		query += ` AND ` + clause
		args = append(args, filterArgs...)
	}

	query += ` ORDER BY seq LIMIT $2 OFFSET $3`

	rows, err := r.pool.Query(ctx, query, args...)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	results := make([]jogging.Record, 0, q.Limit)
	for rows.Next() {
		var (
			rec     jogging.Record
			weather []byte
		)
		if err := rows.Scan(&rec.ID, &rec.OwnerID, &rec.Location, &rec.Date, &rec.Distance, &rec.Duration, &weather, &rec.CreatedAt); err != nil {
			return nil, err
		}
		rec.Weather = weather
		rec.Date = rec.Date.UTC()
		rec.CreatedAt = rec.CreatedAt.UTC()
		results = append(results, rec)
	}

	if err := rows.Err(); err != nil {
		return nil, err
	}
	return results, nil
}

// Count returns the number of stored records.
func (r *Repository) Count(ctx context.Context) (int, error) {
	var n int
	if err := r.pool.QueryRow(ctx, `SELECT COUNT(*) FROM jogging_results`).Scan(&n); err != nil {
		return 0, err
	}
	return n, nil
}
