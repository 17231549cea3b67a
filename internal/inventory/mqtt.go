package inventory

import (
	"context"
	"encoding/json"
	"fmt"
	"sort"
	"strings"
	"sync"
	"time"

	"github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/logging"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/mqtt"
)

// MQTTSource reconstructs the inventory from retained MQTT discovery
// announcements.
//
// The broker redelivers every retained config message moments after
// subscription, so one collection pass over the discovery topic tree
// yields the full entity set. Collection happens once, on the first
// inventory call, and the result is cached for the rest of the run.
type MQTTSource struct {
	cfg    config.MQTTConfig
	window time.Duration
	log    *logging.Logger

	once       sync.Once
	collectErr error

	states   []State
	areas    []Area
	devices  []Device
	entities []Entity
}

// NewMQTTSource builds an MQTT-backed source. The broker is not
// contacted until the first inventory call.
func NewMQTTSource(cfg config.MQTTConfig, window time.Duration, log *logging.Logger) (*MQTTSource, error) {
	if window <= 0 {
		window = 2 * time.Second
	}
	return &MQTTSource{cfg: cfg, window: window, log: log}, nil
}

// Name identifies the backend in logs and telemetry.
func (s *MQTTSource) Name() string { return "mqtt" }

// States returns one state per discovered entity. The broker does not
// carry live state in config messages, so State is left empty.
func (s *MQTTSource) States(ctx context.Context) ([]State, error) {
	if err := s.collect(ctx); err != nil {
		return nil, err
	}
	return s.states, nil
}

// Areas returns areas derived from the suggested_area device hints.
func (s *MQTTSource) Areas(ctx context.Context) ([]Area, error) {
	if err := s.collect(ctx); err != nil {
		return nil, err
	}
	return s.areas, nil
}

// Devices returns devices announced alongside the discovered entities.
func (s *MQTTSource) Devices(ctx context.Context) ([]Device, error) {
	if err := s.collect(ctx); err != nil {
		return nil, err
	}
	return s.devices, nil
}

// Entities returns the discovered entities with their device and area
// links.
func (s *MQTTSource) Entities(ctx context.Context) ([]Entity, error) {
	if err := s.collect(ctx); err != nil {
		return nil, err
	}
	return s.entities, nil
}

// Close releases the backend's resources. The client is closed at the
// end of collection, so there is nothing left to release.
func (s *MQTTSource) Close() error { return nil }

// discoveryPayload is the subset of a discovery config message we need.
type discoveryPayload struct {
	Name     string `json:"name"`
	ObjectID string `json:"object_id"`
	Device   struct {
		Identifiers   any    `json:"identifiers"`
		Name          string `json:"name"`
		SuggestedArea string `json:"suggested_area"`
	} `json:"device"`
}

// announcement pairs a parsed topic with its decoded payload.
type announcement struct {
	component string
	objectID  string
	payload   discoveryPayload
}

// collect connects to the broker, listens on the discovery wildcards for
// the collection window, then converts the announcements into inventory
// records. It runs at most once per source.
func (s *MQTTSource) collect(ctx context.Context) error {
	s.once.Do(func() {
		s.collectErr = s.doCollect(ctx)
	})
	return s.collectErr
}

func (s *MQTTSource) doCollect(ctx context.Context) error {
	client, err := mqtt.Connect(s.cfg)
	if err != nil {
		return fmt.Errorf("connecting to broker: %w", err)
	}
	defer client.Close() //nolint:errcheck // Best effort disconnect
	if s.log != nil {
		client.SetLogger(s.log)
	}

	var mu sync.Mutex
	seen := make(map[string]announcement)

	topics := mqtt.Topics{Prefix: s.cfg.DiscoveryPrefix}
	handler := func(topic string, payload []byte) error {
		component, objectID, ok := topics.ParseConfig(topic)
		if !ok {
			return nil
		}
		var p discoveryPayload
		if err := json.Unmarshal(payload, &p); err != nil {
			return fmt.Errorf("decoding discovery payload on %s: %w", topic, err)
		}
		if p.ObjectID != "" {
			objectID = p.ObjectID
		}
		entityID := component + "." + objectID

		mu.Lock()
		defer mu.Unlock()
		// Retained messages arrive once per topic; an entity announced on
		// two topics keeps the first announcement.
		if _, dup := seen[entityID]; !dup {
			seen[entityID] = announcement{component: component, objectID: objectID, payload: p}
		}
		return nil
	}

	for _, pattern := range topics.ConfigWildcards() {
		if err := client.Subscribe(pattern, byte(s.cfg.QoS), handler); err != nil {
			return fmt.Errorf("subscribing to %s: %w", pattern, err)
		}
	}

	select {
	case <-time.After(s.window):
	case <-ctx.Done():
		return ctx.Err()
	}

	mu.Lock()
	defer mu.Unlock()
	s.build(seen)
	return nil
}

// build converts collected announcements into sorted inventory slices.
func (s *MQTTSource) build(seen map[string]announcement) {
	entityIDs := make([]string, 0, len(seen))
	for id := range seen {
		entityIDs = append(entityIDs, id)
	}
	sort.Strings(entityIDs)

	areaSeen := make(map[string]struct{})
	deviceSeen := make(map[string]struct{})

	for _, entityID := range entityIDs {
		ann := seen[entityID]

		deviceID := firstIdentifier(ann.payload.Device.Identifiers)
		areaName := ann.payload.Device.SuggestedArea
		areaID := areaIdentifier(areaName)

		s.states = append(s.states, State{
			EntityID:     entityID,
			FriendlyName: ann.payload.Name,
		})
		s.entities = append(s.entities, Entity{
			EntityID: entityID,
			DeviceID: deviceID,
			AreaID:   areaID,
			Name:     ann.payload.Name,
		})

		if deviceID != "" {
			if _, dup := deviceSeen[deviceID]; !dup {
				deviceSeen[deviceID] = struct{}{}
				s.devices = append(s.devices, Device{
					ID:     deviceID,
					AreaID: areaID,
					Name:   ann.payload.Device.Name,
				})
			}
		}
		if areaID != "" {
			if _, dup := areaSeen[areaID]; !dup {
				areaSeen[areaID] = struct{}{}
				s.areas = append(s.areas, Area{ID: areaID, Name: areaName})
			}
		}
	}
}

// firstIdentifier extracts a stable device ID from the identifiers
// field, which may be a string or a list of strings.
func firstIdentifier(identifiers any) string {
	switch v := identifiers.(type) {
	case string:
		return v
	case []any:
		for _, item := range v {
			if str, ok := item.(string); ok && str != "" {
				return str
			}
		}
	}
	return ""
}

// areaIdentifier derives a registry-style area ID from an area name:
// lowercase with runs of whitespace collapsed to single underscores.
func areaIdentifier(name string) string {
	if name == "" {
		return ""
	}
	return strings.Join(strings.Fields(strings.ToLower(name)), "_")
}
