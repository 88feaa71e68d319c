// Package store persists imported cubes in PostgreSQL.
//
// The raw export body is kept alongside the decoded summary so a cube can be
// re-decoded at any time; bodies are snappy-compressed since exports are
// highly repetitive text. Decoded fact mappings are bulk-loaded with the
// COPY protocol.
package store

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgconn"
)

// ErrNotFound reports a lookup of a cube name that has not been imported.
var ErrNotFound = errors.New("cube not found")

// DBTX is the interface for database operations.
// Satisfied by both *pgxpool.Pool and pgx.Tx.
type DBTX interface {
	Exec(context.Context, string, ...any) (pgconn.CommandTag, error)
	Query(context.Context, string, ...any) (pgx.Rows, error)
	QueryRow(context.Context, string, ...any) pgx.Row
	Begin(context.Context) (pgx.Tx, error)
	CopyFrom(context.Context, pgx.Identifier, []string, pgx.CopyFromSource) (int64, error)
}

// ImportRecord summarizes one stored cube import.
type ImportRecord struct {
	ID             uuid.UUID `json:"id"`
	CubeName       string    `json:"cubeName"`
	Provenance     string    `json:"provenance"`
	DimensionCount int       `json:"dimensionCount"`
	FactCount      int       `json:"factCount"`
	ImportedAt     time.Time `json:"importedAt"`
}

// FactRow is one decoded fact ready for bulk loading.
type FactRow struct {
	FactID  string
	Payload []byte // JSON-encoded fact mapping
}

// Store provides the import persistence operations over a DBTX, normally
// the application's connection pool.
type Store struct {
	db            DBTX
	factBatchSize int
}

// New creates a Store. factBatchSize bounds the rows buffered per COPY batch.
func New(db DBTX, factBatchSize int) *Store {
	if factBatchSize <= 0 {
		factBatchSize = 5000
	}
	return &Store{db: db, factBatchSize: factBatchSize}
}

// Migrate creates the persistence schema if it does not exist.
func (s *Store) Migrate(ctx context.Context) error {
	ddl := []string{
		`CREATE TABLE IF NOT EXISTS cube_imports (
			id               UUID PRIMARY KEY,
			cube_name        TEXT NOT NULL UNIQUE,
			provenance       TEXT NOT NULL,
			raw_body         BYTEA NOT NULL,
			dimension_count  INTEGER NOT NULL,
			fact_count       INTEGER NOT NULL,
			imported_at      TIMESTAMPTZ NOT NULL DEFAULT now()
		)`,
		`CREATE TABLE IF NOT EXISTS cube_facts (
			cube_name  TEXT NOT NULL,
			fact_id    TEXT NOT NULL,
			payload    JSONB NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS cube_facts_cube_name_idx ON cube_facts (cube_name)`,
	}
	for _, stmt := range ddl {
		if _, err := s.db.Exec(ctx, stmt); err != nil {
			return fmt.Errorf("migrate: %w", err)
		}
	}
	return nil
}

// SaveImport stores one decoded cube atomically: the compressed raw body
// with its summary record, and every decoded fact via COPY. A previous
// import of the same cube name is replaced.
func (s *Store) SaveImport(ctx context.Context, rec ImportRecord, rawBody []byte, facts []FactRow) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin import transaction: %w", err)
	}
	defer tx.Rollback(ctx) // No-op if already committed

	if _, err := tx.Exec(ctx, `DELETE FROM cube_imports WHERE cube_name = $1`, rec.CubeName); err != nil {
		return fmt.Errorf("clear previous import: %w", err)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cube_facts WHERE cube_name = $1`, rec.CubeName); err != nil {
		return fmt.Errorf("clear previous facts: %w", err)
	}

	compressed := CompressBody(rawBody)
	_, err = tx.Exec(ctx,
		`INSERT INTO cube_imports (id, cube_name, provenance, raw_body, dimension_count, fact_count, imported_at)
		 VALUES ($1, $2, $3, $4, $5, $6, $7)`,
		rec.ID, rec.CubeName, rec.Provenance, compressed, rec.DimensionCount, rec.FactCount, rec.ImportedAt,
	)
	if err != nil {
		return fmt.Errorf("insert import record: %w", err)
	}

	for start := 0; start < len(facts); start += s.factBatchSize {
		end := min(start+s.factBatchSize, len(facts))
		batch := facts[start:end]

		rows := make([][]any, len(batch))
		for i, f := range batch {
			rows[i] = []any{rec.CubeName, f.FactID, f.Payload}
		}
		_, err := tx.CopyFrom(ctx,
			pgx.Identifier{"cube_facts"},
			[]string{"cube_name", "fact_id", "payload"},
			pgx.CopyFromRows(rows),
		)
		if err != nil {
			return fmt.Errorf("copy facts %d-%d: %w", start, end, err)
		}
	}

	if err := tx.Commit(ctx); err != nil {
		return fmt.Errorf("commit import: %w", err)
	}
	return nil
}

// ListImports returns all import records, newest first.
func (s *Store) ListImports(ctx context.Context) ([]ImportRecord, error) {
	rows, err := s.db.Query(ctx,
		`SELECT id, cube_name, provenance, dimension_count, fact_count, imported_at
		 FROM cube_imports ORDER BY imported_at DESC`)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var records []ImportRecord
	for rows.Next() {
		var rec ImportRecord
		if err := rows.Scan(&rec.ID, &rec.CubeName, &rec.Provenance,
			&rec.DimensionCount, &rec.FactCount, &rec.ImportedAt); err != nil {
			return nil, err
		}
		records = append(records, rec)
	}
	return records, rows.Err()
}

// GetImport fetches one import record plus its decompressed raw body.
func (s *Store) GetImport(ctx context.Context, cubeName string) (ImportRecord, []byte, error) {
	var rec ImportRecord
	var compressed []byte
	err := s.db.QueryRow(ctx,
		`SELECT id, cube_name, provenance, raw_body, dimension_count, fact_count, imported_at
		 FROM cube_imports WHERE cube_name = $1`, cubeName).
		Scan(&rec.ID, &rec.CubeName, &rec.Provenance, &compressed,
			&rec.DimensionCount, &rec.FactCount, &rec.ImportedAt)
	if errors.Is(err, pgx.ErrNoRows) {
		return ImportRecord{}, nil, fmt.Errorf("%w: %s", ErrNotFound, cubeName)
	}
	if err != nil {
		return ImportRecord{}, nil, err
	}

	rawBody, err := DecompressBody(compressed)
	if err != nil {
		return ImportRecord{}, nil, fmt.Errorf("decompress raw body for %s: %w", cubeName, err)
	}
	return rec, rawBody, nil
}

// DeleteImport removes a stored cube and its facts. Deleting an unknown
// cube name reports ErrNotFound.
func (s *Store) DeleteImport(ctx context.Context, cubeName string) error {
	tx, err := s.db.Begin(ctx)
	if err != nil {
		return fmt.Errorf("begin delete transaction: %w", err)
	}
	defer tx.Rollback(ctx)

	tag, err := tx.Exec(ctx, `DELETE FROM cube_imports WHERE cube_name = $1`, cubeName)
	if err != nil {
		return err
	}
	if tag.RowsAffected() == 0 {
		return fmt.Errorf("%w: %s", ErrNotFound, cubeName)
	}
	if _, err := tx.Exec(ctx, `DELETE FROM cube_facts WHERE cube_name = $1`, cubeName); err != nil {
		return err
	}
	return tx.Commit(ctx)
}
