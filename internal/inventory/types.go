package inventory

import (
	"context"

	"github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/logging"
)

// State is the current state of a single entity.
type State struct {
	EntityID     string
	State        string
	FriendlyName string
}

// Area is a registry area (a physical room or zone).
type Area struct {
	ID   string
	Name string
}

// Device is a registry device. A device groups one or more entities and
// may be assigned to an area.
type Device struct {
	ID     string
	AreaID string
	Name   string
}

// Entity is a registry entity linking an entity ID to its device and,
// directly or via the device, to an area.
type Entity struct {
	EntityID string
	DeviceID string
	AreaID   string
	Name     string
}

// Source is an entity inventory backend.
//
// States is the primary operation: it must return every known entity.
// The registry operations (Areas, Devices, Entities) are auxiliary and
// callers are expected to degrade gracefully when they fail.
type Source interface {
	// Name identifies the backend in logs and telemetry.
	Name() string

	// States returns the current state of every known entity.
	States(ctx context.Context) ([]State, error)

	// Areas returns the area registry.
	Areas(ctx context.Context) ([]Area, error)

	// Devices returns the device registry.
	Devices(ctx context.Context) ([]Device, error)

	// Entities returns the entity registry.
	Entities(ctx context.Context) ([]Entity, error)

	// Close releases the backend's resources.
	Close() error
}

// New builds the inventory source selected in the settings. A "none"
// source returns (nil, nil); callers treat a nil source as discovery
// disabled.
func New(cfg *config.Config, log *logging.Logger) (Source, error) {
	switch cfg.Inventory.Source {
	case "remote":
		return NewRemoteSource(cfg.Inventory.Remote, log)
	case "registry":
		return NewRegistrySource(cfg.Inventory.Registry)
	case "mqtt":
		return NewMQTTSource(cfg.Inventory.MQTT, cfg.MQTTCollectWindow(), log)
	case "none":
		return nil, nil
	default:
		return nil, ErrUnknownSource
	}
}
