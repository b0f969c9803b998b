package storage

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	json "github.com/goccy/go-json"
	"github.com/google/uuid"
	_ "github.com/mattn/go-sqlite3"

	"github.com/Hi-king/dfdrift/pkg/types"
)

// SQLiteStorage persists the registry in a SQLite database. Unlike the file
// and S3 backends it also keeps an append-only observation history per call
// site, so a drift incident can be audited after the alert has scrolled by.
type SQLiteStorage struct {
	db   *sql.DB
	path string
}

// Observation is one historical fingerprint observation at a call site.
type Observation struct {
	ID          string
	LocationKey string
	Fingerprint types.Fingerprint
	ObservedAt  time.Time
}

// NewSQLiteStorage opens (creating if needed) a SQLite registry at dbPath.
func NewSQLiteStorage(dbPath string) (*SQLiteStorage, error) {
	db, err := sql.Open("sqlite3", dbPath+"?_journal_mode=WAL&_busy_timeout=5000")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	db.SetMaxOpenConns(1) // Single writer
	db.SetMaxIdleConns(1)

	s := &SQLiteStorage{db: db, path: dbPath}
	if err := s.initSchema(); err != nil {
		db.Close()
		return nil, err
	}
	return s, nil
}

func (s *SQLiteStorage) initSchema() error {
	_, err := s.db.Exec(`
		CREATE TABLE IF NOT EXISTS schemas (
			location_key TEXT PRIMARY KEY,
			schema_json  TEXT NOT NULL,
			digest       INTEGER NOT NULL,
			updated_at   INTEGER NOT NULL
		);
		CREATE TABLE IF NOT EXISTS observations (
			id           TEXT PRIMARY KEY,
			location_key TEXT NOT NULL,
			schema_json  TEXT NOT NULL,
			digest       INTEGER NOT NULL,
			observed_at  INTEGER NOT NULL
		);
		CREATE INDEX IF NOT EXISTS idx_observations_location
			ON observations(location_key, observed_at);
	`)
	if err != nil {
		return fmt.Errorf("%w: failed to initialize tables: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// SaveSchema upserts the fingerprint for a key and appends an observation
// history row.
func (s *SQLiteStorage) SaveSchema(ctx context.Context, locationKey string, fp types.Fingerprint) error {
	data, err := json.Marshal(fp)
	if err != nil {
		return fmt.Errorf("failed to encode fingerprint: %w", err)
	}
	digest := int64(fp.Digest())
	now := time.Now().Unix()

	tx, err := s.db.BeginTx(ctx, nil)
	if err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer tx.Rollback()

	_, err = tx.ExecContext(ctx, `
		INSERT INTO schemas (location_key, schema_json, digest, updated_at)
		VALUES (?, ?, ?, ?)
		ON CONFLICT(location_key) DO UPDATE SET
			schema_json = excluded.schema_json,
			digest      = excluded.digest,
			updated_at  = excluded.updated_at`,
		locationKey, string(data), digest, now,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to upsert schema: %v", ErrStorageUnavailable, err)
	}

	_, err = tx.ExecContext(ctx, `
		INSERT INTO observations (id, location_key, schema_json, digest, observed_at)
		VALUES (?, ?, ?, ?, ?)`,
		uuid.NewString(), locationKey, string(data), digest, now,
	)
	if err != nil {
		return fmt.Errorf("%w: failed to record observation: %v", ErrStorageUnavailable, err)
	}

	if err := tx.Commit(); err != nil {
		return fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return nil
}

// LoadSchemas returns the full registry.
func (s *SQLiteStorage) LoadSchemas(ctx context.Context) (Registry, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT location_key, schema_json FROM schemas")
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	registry := Registry{}
	for rows.Next() {
		var key, schemaJSON string
		if err := rows.Scan(&key, &schemaJSON); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		var fp types.Fingerprint
		if err := json.Unmarshal([]byte(schemaJSON), &fp); err != nil {
			return nil, fmt.Errorf("%w: key %q: %v", ErrCorruptRegistry, key, err)
		}
		registry[key] = fp
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return registry, nil
}

// History returns all observations recorded for a call site, oldest first.
func (s *SQLiteStorage) History(ctx context.Context, locationKey string) ([]Observation, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, location_key, schema_json, observed_at
		FROM observations
		WHERE location_key = ?
		ORDER BY observed_at ASC, rowid ASC`,
		locationKey,
	)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	defer rows.Close()

	var observations []Observation
	for rows.Next() {
		var obs Observation
		var schemaJSON string
		var observedAt int64
		if err := rows.Scan(&obs.ID, &obs.LocationKey, &schemaJSON, &observedAt); err != nil {
			return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
		}
		if err := json.Unmarshal([]byte(schemaJSON), &obs.Fingerprint); err != nil {
			return nil, fmt.Errorf("%w: observation %s: %v", ErrCorruptRegistry, obs.ID, err)
		}
		obs.ObservedAt = time.Unix(observedAt, 0)
		observations = append(observations, obs)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrStorageUnavailable, err)
	}
	return observations, nil
}

// Close closes the database connection.
func (s *SQLiteStorage) Close() error {
	return s.db.Close()
}
