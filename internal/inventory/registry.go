package inventory

import (
	"context"
	"fmt"

	"github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/database"
)

// RegistrySource reads the inventory from a local SQLite registry export.
// It suits air-gapped installations where the dashboard is generated on a
// machine without access to the live instance.
type RegistrySource struct {
	db *database.DB
}

// NewRegistrySource opens the registry database and ensures its schema.
func NewRegistrySource(cfg config.RegistryConfig) (*RegistrySource, error) {
	db, err := database.Open(database.Config{
		Path:        cfg.Path,
		WALMode:     cfg.WALMode,
		BusyTimeout: cfg.BusyTimeout,
	})
	if err != nil {
		return nil, fmt.Errorf("opening registry database: %w", err)
	}
	if err := db.EnsureSchema(context.Background()); err != nil {
		db.Close() //nolint:errcheck // Best effort cleanup on error path
		return nil, fmt.Errorf("preparing registry schema: %w", err)
	}
	return &RegistrySource{db: db}, nil
}

// Name identifies the backend in logs and telemetry.
func (s *RegistrySource) Name() string { return "registry" }

// States returns the current state of every known entity.
func (s *RegistrySource) States(ctx context.Context) ([]State, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT entity_id, state, friendly_name FROM states ORDER BY entity_id")
	if err != nil {
		return nil, fmt.Errorf("querying states: %w", err)
	}
	defer rows.Close()

	var states []State
	for rows.Next() {
		var st State
		if err := rows.Scan(&st.EntityID, &st.State, &st.FriendlyName); err != nil {
			return nil, fmt.Errorf("scanning state row: %w", err)
		}
		states = append(states, st)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating state rows: %w", err)
	}
	return states, nil
}

// Areas returns the area registry.
func (s *RegistrySource) Areas(ctx context.Context) ([]Area, error) {
	rows, err := s.db.QueryContext(ctx, "SELECT id, name FROM areas ORDER BY name")
	if err != nil {
		return nil, fmt.Errorf("querying areas: %w", err)
	}
	defer rows.Close()

	var areas []Area
	for rows.Next() {
		var a Area
		if err := rows.Scan(&a.ID, &a.Name); err != nil {
			return nil, fmt.Errorf("scanning area row: %w", err)
		}
		areas = append(areas, a)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating area rows: %w", err)
	}
	return areas, nil
}

// Devices returns the device registry.
func (s *RegistrySource) Devices(ctx context.Context) ([]Device, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT id, COALESCE(area_id, ''), name FROM devices ORDER BY id")
	if err != nil {
		return nil, fmt.Errorf("querying devices: %w", err)
	}
	defer rows.Close()

	var devices []Device
	for rows.Next() {
		var d Device
		if err := rows.Scan(&d.ID, &d.AreaID, &d.Name); err != nil {
			return nil, fmt.Errorf("scanning device row: %w", err)
		}
		devices = append(devices, d)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating device rows: %w", err)
	}
	return devices, nil
}

// Entities returns the entity registry.
func (s *RegistrySource) Entities(ctx context.Context) ([]Entity, error) {
	rows, err := s.db.QueryContext(ctx,
		"SELECT entity_id, COALESCE(device_id, ''), COALESCE(area_id, ''), name FROM entities ORDER BY entity_id")
	if err != nil {
		return nil, fmt.Errorf("querying entities: %w", err)
	}
	defer rows.Close()

	var entities []Entity
	for rows.Next() {
		var e Entity
		if err := rows.Scan(&e.EntityID, &e.DeviceID, &e.AreaID, &e.Name); err != nil {
			return nil, fmt.Errorf("scanning entity row: %w", err)
		}
		entities = append(entities, e)
	}
	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("iterating entity rows: %w", err)
	}
	return entities, nil
}

// Close releases the database connection.
func (s *RegistrySource) Close() error {
	return s.db.Close()
}
