package discovery

import (
	"context"
	"fmt"
	"sort"
	"strings"

	"github.com/shi-home/smart-dashboard/internal/config"
	"github.com/shi-home/smart-dashboard/internal/inventory"
	"github.com/shi-home/smart-dashboard/internal/translation"
)

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
	Debug(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Debug(string, ...any) {}

// domainCardTypes maps an entity domain to the card type used for its
// discovered card. Unmapped domains fall back to a generic entity card.
var domainCardTypes = map[string]string{
	"light":         "light",
	"switch":        "light",
	"climate":       "thermostat",
	"sensor":        "sensor",
	"binary_sensor": "sensor",
	"cover":         "cover",
	"media_player":  "media-control",
}

// fallbackCardType is used for domains without a dedicated card.
const fallbackCardType = "entity"

// CardType returns the card type for an entity ID.
func CardType(entityID string) string {
	domain, _, _ := strings.Cut(entityID, ".")
	if t, ok := domainCardTypes[domain]; ok {
		return t
	}
	return fallbackCardType
}

// Discover queries the inventory source and synthesizes one room per
// area, each carrying a card per entity that lives there.
//
// The entity states are mandatory: if they cannot be fetched the whole
// discovery fails and the caller decides what to do without it. The
// registries are auxiliary; when any of them cannot be fetched, area
// attribution is abandoned and every entity lands in a single localized
// "Auto Detected" room. Entities reported twice keep their first state.
func Discover(ctx context.Context, src inventory.Source, tr *translation.Catalog, lang string, log Logger) ([]*config.Room, error) {
	if log == nil {
		log = noopLogger{}
	}

	states, err := src.States(ctx)
	if err != nil {
		return nil, fmt.Errorf("fetching entity states: %w", err)
	}

	// First announcement wins for duplicated entity IDs.
	seen := make(map[string]struct{}, len(states))
	unique := states[:0]
	for _, st := range states {
		if _, dup := seen[st.EntityID]; dup {
			log.Debug("duplicate entity in inventory, keeping first", "entity_id", st.EntityID)
			continue
		}
		seen[st.EntityID] = struct{}{}
		unique = append(unique, st)
	}

	fallbackRoom := tr.Lookup("auto_detected", lang, "Auto Detected")

	areaOf, areaNames, err := areaResolver(ctx, src)
	if err != nil {
		log.Warn("registry lookup failed, assigning all entities to the fallback room", "error", err)
		areaOf = func(string) string { return "" }
		areaNames = map[string]string{}
	}

	byRoom := make(map[string][]*config.Card)
	for _, st := range unique {
		roomName := fallbackRoom
		if areaID := areaOf(st.EntityID); areaID != "" {
			if name, ok := areaNames[areaID]; ok && name != "" {
				roomName = name
			}
		}
		byRoom[roomName] = append(byRoom[roomName], entityCard(st))
	}

	names := make([]string, 0, len(byRoom))
	for name := range byRoom {
		if name != fallbackRoom {
			names = append(names, name)
		}
	}
	sort.Strings(names)
	if _, ok := byRoom[fallbackRoom]; ok {
		names = append(names, fallbackRoom)
	}

	rooms := make([]*config.Room, 0, len(names))
	for i, name := range names {
		rooms = append(rooms, &config.Room{
			Name:  name,
			Order: i + 1,
			Cards: byRoom[name],
		})
	}
	return rooms, nil
}

// entityCard builds the discovered card for one entity state.
func entityCard(st inventory.State) *config.Card {
	if st.FriendlyName != "" {
		return config.NewCardFrom(
			"type", CardType(st.EntityID),
			"entity", st.EntityID,
			"name", st.FriendlyName,
		)
	}
	return config.NewCardFrom(
		"type", CardType(st.EntityID),
		"entity", st.EntityID,
	)
}

// areaResolver fetches the three registries and returns a lookup from
// entity ID to area ID plus the area ID to name table. An entity without
// its own area inherits its device's area.
func areaResolver(ctx context.Context, src inventory.Source) (func(string) string, map[string]string, error) {
	areas, err := src.Areas(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching areas: %w", err)
	}
	devices, err := src.Devices(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching devices: %w", err)
	}
	entities, err := src.Entities(ctx)
	if err != nil {
		return nil, nil, fmt.Errorf("fetching entities: %w", err)
	}

	areaNames := make(map[string]string, len(areas))
	for _, a := range areas {
		areaNames[a.ID] = a.Name
	}

	deviceArea := make(map[string]string, len(devices))
	for _, d := range devices {
		deviceArea[d.ID] = d.AreaID
	}

	entityArea := make(map[string]string, len(entities))
	for _, e := range entities {
		areaID := e.AreaID
		if areaID == "" {
			areaID = deviceArea[e.DeviceID]
		}
		entityArea[e.EntityID] = areaID
	}

	return func(entityID string) string { return entityArea[entityID] }, areaNames, nil
}
