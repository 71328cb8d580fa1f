package envstate

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"

	"esign-adapter/internal/esignature"
)

const createStatusTable = `
CREATE TABLE IF NOT EXISTS envelope_status (
	envelope_id UUID PRIMARY KEY,
	external_id TEXT NOT NULL DEFAULT '',
	status      TEXT NOT NULL,
	source      TEXT NOT NULL,
	observed_at TIMESTAMPTZ NOT NULL,
	changed_at  TIMESTAMPTZ NOT NULL
)`

// PostgresStore shares the id mapping's pool. The pool's owner closes it.
type PostgresStore struct {
	pool *pgxpool.Pool
}

func NewPostgresStore(pool *pgxpool.Pool) *PostgresStore {
	return &PostgresStore{pool: pool}
}

// Migrate creates the status table if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createStatusTable); err != nil {
		return fmt.Errorf("failed to migrate envelope_status: %w", err)
	}
	return nil
}

func (s *PostgresStore) Save(ctx context.Context, snapshot Snapshot) error {
	_, err := s.pool.Exec(ctx, `
		INSERT INTO envelope_status (envelope_id, external_id, status, source, observed_at, changed_at)
		VALUES ($1, $2, $3, $4, $5, $6)
		ON CONFLICT (envelope_id) DO UPDATE SET
			external_id = EXCLUDED.external_id,
			status      = EXCLUDED.status,
			source      = EXCLUDED.source,
			observed_at = EXCLUDED.observed_at,
			changed_at  = EXCLUDED.changed_at`,
		snapshot.EnvelopeID, snapshot.ExternalID, string(snapshot.Status), string(snapshot.Source),
		snapshot.ObservedAt, snapshot.ChangedAt)
	if err != nil {
		return fmt.Errorf("failed to save envelope status: %w", err)
	}
	return nil
}

func (s *PostgresStore) Get(ctx context.Context, id uuid.UUID) (*Snapshot, error) {
	var (
		snapshot       = Snapshot{EnvelopeID: id}
		status, source string
	)
	err := s.pool.QueryRow(ctx, `
		SELECT external_id, status, source, observed_at, changed_at
		FROM envelope_status WHERE envelope_id = $1`, id,
	).Scan(&snapshot.ExternalID, &status, &source, &snapshot.ObservedAt, &snapshot.ChangedAt)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return nil, nil
	}
	if err != nil {
		return nil, fmt.Errorf("failed to read envelope status: %w", err)
	}
	snapshot.Status = esignature.EnvelopeStatus(status)
	snapshot.Source = Source(source)
	return &snapshot, nil
}
