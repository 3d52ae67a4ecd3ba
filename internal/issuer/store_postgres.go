package issuer

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	"github.com/lib/pq"
)

// PostgresStore persists issuer records in PostgreSQL. ISINs live in a
// text[] column so the list round-trips without a join table.
type PostgresStore struct {
	db *sql.DB
}

// NewPostgresStore constructs a PostgreSQL-backed issuer store.
func NewPostgresStore(db *sql.DB) *PostgresStore {
	return &PostgresStore{db: db}
}

// Schema is the DDL for the issuers table. Applied by migrations in
// deployments and by the container helper in integration tests.
const Schema = `
CREATE TABLE IF NOT EXISTS issuers (
	id          BIGINT PRIMARY KEY,
	name        TEXT NOT NULL,
	isins       TEXT[],
	type        TEXT,
	enriched_at TIMESTAMPTZ,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT now()
)`

// List returns all issuers in insertion order.
func (s *PostgresStore) List(ctx context.Context) ([]*IssuerRecord, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, name, isins, type, enriched_at
		FROM issuers
		ORDER BY created_at, id
	`)
	if err != nil {
		return nil, fmt.Errorf("list issuers: %w", err)
	}
	defer rows.Close()

	var result []*IssuerRecord
	for rows.Next() {
		record, err := scanIssuer(rows)
		if err != nil {
			return nil, err
		}
		result = append(result, record)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("list issuers: %w", err)
	}
	return result, nil
}

// Get returns the issuer with the given ID or ErrNotFound.
func (s *PostgresStore) Get(ctx context.Context, id int64) (*IssuerRecord, error) {
	row := s.db.QueryRowContext(ctx, `
		SELECT id, name, isins, type, enriched_at
		FROM issuers
		WHERE id = $1
	`, id)

	record, err := scanIssuer(row)
	if err == sql.ErrNoRows {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, err
	}
	return record, nil
}

// Save upserts an issuer record.
func (s *PostgresStore) Save(ctx context.Context, record *IssuerRecord) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO issuers (id, name, isins, type, enriched_at)
		VALUES ($1, $2, $3, NULLIF($4, ''), $5)
		ON CONFLICT (id) DO UPDATE SET
			name        = EXCLUDED.name,
			isins       = EXCLUDED.isins,
			type        = EXCLUDED.type,
			enriched_at = EXCLUDED.enriched_at
	`, record.ID, record.Name, pq.Array(record.ISINs), string(record.Type), record.EnrichedAt)
	if err != nil {
		return fmt.Errorf("save issuer %d: %w", record.ID, err)
	}
	return nil
}

// SaveEnrichment overwrites the enrichment fields of an existing issuer.
func (s *PostgresStore) SaveEnrichment(ctx context.Context, id int64, isins []string, typ IssuerType, enrichedAt time.Time) error {
	result, err := s.db.ExecContext(ctx, `
		UPDATE issuers
		SET isins = $2, type = $3, enriched_at = $4
		WHERE id = $1
	`, id, pq.Array(isins), string(typ), enrichedAt)
	if err != nil {
		return fmt.Errorf("save enrichment for issuer %d: %w", id, err)
	}

	affected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("save enrichment for issuer %d: %w", id, err)
	}
	if affected == 0 {
		return ErrNotFound
	}
	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanIssuer(row rowScanner) (*IssuerRecord, error) {
	var (
		record     IssuerRecord
		isins      pq.StringArray
		typ        sql.NullString
		enrichedAt sql.NullTime
	)
	if err := row.Scan(&record.ID, &record.Name, &isins, &typ, &enrichedAt); err != nil {
		if err == sql.ErrNoRows {
			return nil, err
		}
		return nil, fmt.Errorf("scan issuer: %w", err)
	}
	if isins != nil {
		record.ISINs = []string(isins)
	}
	if typ.Valid {
		record.Type = IssuerType(typ.String)
	}
	if enrichedAt.Valid {
		at := enrichedAt.Time
		record.EnrichedAt = &at
	}
	return &record, nil
}
