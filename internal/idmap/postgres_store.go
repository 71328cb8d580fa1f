package idmap

import (
	"context"
	stderrors "errors"
	"fmt"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

const createMappingsTable = `
CREATE TABLE IF NOT EXISTS envelope_id_mappings (
	internal_id UUID PRIMARY KEY,
	external_id TEXT NOT NULL UNIQUE,
	created_at  TIMESTAMPTZ NOT NULL DEFAULT NOW()
)`

// PostgresStore keeps one row per pair, so both directions commit together.
type PostgresStore struct {
	pool *pgxpool.Pool
}

// NewPostgresStore connects to databaseURL and verifies the connection
func NewPostgresStore(ctx context.Context, databaseURL string) (*PostgresStore, error) {
	pool, err := pgxpool.New(ctx, databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to create postgres pool: %w", err)
	}
	if err := pool.Ping(ctx); err != nil {
		pool.Close()
		return nil, fmt.Errorf("failed to ping postgres: %w", err)
	}
	return &PostgresStore{pool: pool}, nil
}

// Migrate creates the mapping table if it does not exist
func (s *PostgresStore) Migrate(ctx context.Context) error {
	if _, err := s.pool.Exec(ctx, createMappingsTable); err != nil {
		return fmt.Errorf("failed to migrate envelope_id_mappings: %w", err)
	}
	return nil
}

// Ping checks the database is reachable
func (s *PostgresStore) Ping(ctx context.Context) error {
	return s.pool.Ping(ctx)
}

// Pool returns the connection pool so other tables can share it
func (s *PostgresStore) Pool() *pgxpool.Pool {
	return s.pool
}

func (s *PostgresStore) Close() {
	s.pool.Close()
}

func (s *PostgresStore) Put(ctx context.Context, internalID uuid.UUID, externalID string) error {
	if err := validatePair(internalID, externalID); err != nil {
		return err
	}
	_, err := s.pool.Exec(ctx, `
		INSERT INTO envelope_id_mappings (internal_id, external_id)
		VALUES ($1, $2)
		ON CONFLICT (internal_id) DO UPDATE SET external_id = EXCLUDED.external_id`,
		internalID, externalID)
	if err != nil {
		return fmt.Errorf("failed to insert id mapping: %w", err)
	}
	return nil
}

func (s *PostgresStore) ExternalID(ctx context.Context, internalID uuid.UUID) (string, bool, error) {
	var externalID string
	err := s.pool.QueryRow(ctx,
		`SELECT external_id FROM envelope_id_mappings WHERE internal_id = $1`, internalID,
	).Scan(&externalID)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return "", false, nil
	}
	if err != nil {
		return "", false, fmt.Errorf("failed to read id mapping: %w", err)
	}
	return externalID, true, nil
}

func (s *PostgresStore) InternalID(ctx context.Context, externalID string) (uuid.UUID, bool, error) {
	var internalID uuid.UUID
	err := s.pool.QueryRow(ctx,
		`SELECT internal_id FROM envelope_id_mappings WHERE external_id = $1`, externalID,
	).Scan(&internalID)
	if stderrors.Is(err, pgx.ErrNoRows) {
		return uuid.Nil, false, nil
	}
	if err != nil {
		return uuid.Nil, false, fmt.Errorf("failed to read id mapping: %w", err)
	}
	return internalID, true, nil
}

func (s *PostgresStore) Contains(ctx context.Context, internalID uuid.UUID) (bool, error) {
	var exists bool
	err := s.pool.QueryRow(ctx,
		`SELECT EXISTS (SELECT 1 FROM envelope_id_mappings WHERE internal_id = $1)`, internalID,
	).Scan(&exists)
	if err != nil {
		return false, fmt.Errorf("failed to check id mapping: %w", err)
	}
	return exists, nil
}

func (s *PostgresStore) InternalIDs(ctx context.Context) ([]uuid.UUID, error) {
	rows, err := s.pool.Query(ctx, `SELECT internal_id FROM envelope_id_mappings ORDER BY created_at`)
	if err != nil {
		return nil, fmt.Errorf("failed to list id mappings: %w", err)
	}
	ids, err := pgx.CollectRows(rows, pgx.RowTo[uuid.UUID])
	if err != nil {
		return nil, fmt.Errorf("failed to list id mappings: %w", err)
	}
	return ids, nil
}
