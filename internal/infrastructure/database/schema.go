package database

import (
	"context"
	"fmt"
)

// schemaStep is one versioned schema change. Steps are applied in order,
// each in its own transaction, and recorded in schema_versions so a
// database opened by a newer binary is upgraded in place.
type schemaStep struct {
	version int
	name    string
	sql     string
}

// schema is the registry export schema. The tables mirror the shape of
// the data the remote API serves: entity states plus the area, device
// and entity registries that link an entity to the area it lives in.
var schema = []schemaStep{
	{
		version: 1,
		name:    "registry tables",
		sql: `
			CREATE TABLE areas (
				id   TEXT PRIMARY KEY,
				name TEXT NOT NULL
			);
			CREATE TABLE devices (
				id      TEXT PRIMARY KEY,
				area_id TEXT REFERENCES areas(id),
				name    TEXT NOT NULL DEFAULT ''
			);
			CREATE TABLE entities (
				entity_id TEXT PRIMARY KEY,
				device_id TEXT REFERENCES devices(id),
				area_id   TEXT REFERENCES areas(id),
				name      TEXT NOT NULL DEFAULT ''
			);
			CREATE TABLE states (
				entity_id     TEXT PRIMARY KEY,
				state         TEXT NOT NULL DEFAULT '',
				friendly_name TEXT NOT NULL DEFAULT ''
			);
		`,
	},
	{
		version: 2,
		name:    "entity lookup index",
		sql: `
			CREATE INDEX idx_entities_device ON entities(device_id);
			CREATE INDEX idx_entities_area ON entities(area_id);
		`,
	},
}

// EnsureSchema brings the database up to the current schema version.
// It is safe to call on every open; already-applied steps are skipped.
func (db *DB) EnsureSchema(ctx context.Context) error {
	_, err := db.ExecContext(ctx, `
		CREATE TABLE IF NOT EXISTS schema_versions (
			version    INTEGER PRIMARY KEY,
			name       TEXT NOT NULL,
			applied_at TIMESTAMP NOT NULL DEFAULT CURRENT_TIMESTAMP
		)`)
	if err != nil {
		return fmt.Errorf("creating schema_versions table: %w", err)
	}

	current, err := db.SchemaVersion(ctx)
	if err != nil {
		return err
	}

	for _, step := range schema {
		if step.version <= current {
			continue
		}
		if err := db.applyStep(ctx, step); err != nil {
			return fmt.Errorf("applying schema step %d (%s): %w", step.version, step.name, err)
		}
	}
	return nil
}

// SchemaVersion returns the highest applied schema version, or 0 for a
// fresh database.
func (db *DB) SchemaVersion(ctx context.Context) (int, error) {
	var version int
	err := db.QueryRowContext(ctx,
		"SELECT COALESCE(MAX(version), 0) FROM schema_versions").Scan(&version)
	if err != nil {
		return 0, fmt.Errorf("reading schema version: %w", err)
	}
	return version, nil
}

func (db *DB) applyStep(ctx context.Context, step schemaStep) error {
	tx, err := db.BeginTx(ctx, nil)
	if err != nil {
		return err
	}
	defer tx.Rollback() //nolint:errcheck // No-op after commit

	if _, err := tx.ExecContext(ctx, step.sql); err != nil {
		return err
	}
	if _, err := tx.ExecContext(ctx,
		"INSERT INTO schema_versions (version, name) VALUES (?, ?)",
		step.version, step.name); err != nil {
		return err
	}
	return tx.Commit()
}
