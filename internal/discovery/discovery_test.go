package discovery

import (
	"context"
	"errors"
	"testing"

	"github.com/shi-home/smart-dashboard/internal/inventory"
	"github.com/shi-home/smart-dashboard/internal/translation"
)

// fakeSource is a canned inventory with per-call failure switches.
type fakeSource struct {
	states   []inventory.State
	areas    []inventory.Area
	devices  []inventory.Device
	entities []inventory.Entity

	statesErr   error
	registryErr error
}

func (f *fakeSource) Name() string { return "fake" }

func (f *fakeSource) States(context.Context) ([]inventory.State, error) {
	return f.states, f.statesErr
}

func (f *fakeSource) Areas(context.Context) ([]inventory.Area, error) {
	return f.areas, f.registryErr
}

func (f *fakeSource) Devices(context.Context) ([]inventory.Device, error) {
	return f.devices, f.registryErr
}

func (f *fakeSource) Entities(context.Context) ([]inventory.Entity, error) {
	return f.entities, f.registryErr
}

func (f *fakeSource) Close() error { return nil }

func fullInventory() *fakeSource {
	return &fakeSource{
		states: []inventory.State{
			{EntityID: "light.sofa", State: "on", FriendlyName: "Sofa Light"},
			{EntityID: "climate.living", State: "heat", FriendlyName: "Thermostat"},
			{EntityID: "sensor.orphan", State: "3", FriendlyName: "Orphan"},
		},
		areas: []inventory.Area{
			{ID: "living", Name: "Living Room"},
		},
		devices: []inventory.Device{
			{ID: "dev-light", AreaID: "living", Name: "Sofa Lamp"},
		},
		entities: []inventory.Entity{
			// Area via device link.
			{EntityID: "light.sofa", DeviceID: "dev-light"},
			// Direct area assignment.
			{EntityID: "climate.living", AreaID: "living"},
			// No area anywhere.
			{EntityID: "sensor.orphan"},
		},
	}
}

func TestCardType(t *testing.T) {
	tests := []struct {
		entityID string
		want     string
	}{
		{"light.sofa", "light"},
		{"switch.outlet", "light"},
		{"climate.hvac", "thermostat"},
		{"sensor.temp", "sensor"},
		{"binary_sensor.door", "sensor"},
		{"cover.blinds", "cover"},
		{"media_player.tv", "media-control"},
		{"vacuum.robo", "entity"},
		{"lock.front", "entity"},
	}
	for _, tt := range tests {
		if got := CardType(tt.entityID); got != tt.want {
			t.Errorf("CardType(%q) = %q, want %q", tt.entityID, got, tt.want)
		}
	}
}

func TestDiscover_RoomsFromAreas(t *testing.T) {
	rooms, err := Discover(context.Background(), fullInventory(), translation.NewCatalog(), "en", nil)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	if len(rooms) != 2 {
		t.Fatalf("got %d rooms, want 2", len(rooms))
	}
	living := rooms[0]
	if living.Name != "Living Room" || living.Order != 1 {
		t.Fatalf("rooms[0] = %q order %d", living.Name, living.Order)
	}
	if len(living.Cards) != 2 {
		t.Fatalf("living room has %d cards, want 2", len(living.Cards))
	}
	if got := living.Cards[0].Type(); got != "light" {
		t.Errorf("card type = %q, want light", got)
	}
	if got := living.Cards[0].GetString("name"); got != "Sofa Light" {
		t.Errorf("card name = %q", got)
	}
	if got := living.Cards[1].Type(); got != "thermostat" {
		t.Errorf("climate card type = %q, want thermostat", got)
	}

	// The unattributed entity lands in the fallback room, listed last.
	fallback := rooms[1]
	if fallback.Name != "Auto Detected" {
		t.Errorf("rooms[1].Name = %q, want Auto Detected", fallback.Name)
	}
	if len(fallback.Cards) != 1 || fallback.Cards[0].Entity() != "sensor.orphan" {
		t.Errorf("fallback cards = %+v", fallback.Cards)
	}
}

func TestDiscover_StatesFailureIsFatal(t *testing.T) {
	src := fullInventory()
	src.statesErr = errors.New("connection refused")

	_, err := Discover(context.Background(), src, translation.NewCatalog(), "en", nil)
	if err == nil {
		t.Fatal("Discover() succeeded despite states failure")
	}
}

func TestDiscover_RegistryFailureDegrades(t *testing.T) {
	src := fullInventory()
	src.registryErr = errors.New("registry unavailable")

	rooms, err := Discover(context.Background(), src, translation.NewCatalog(), "de", nil)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(rooms) != 1 {
		t.Fatalf("got %d rooms, want 1 fallback room", len(rooms))
	}
	if rooms[0].Name != "Automatisch erkannt" {
		t.Errorf("fallback room name = %q, want localized", rooms[0].Name)
	}
	if len(rooms[0].Cards) != 3 {
		t.Errorf("fallback room has %d cards, want all 3", len(rooms[0].Cards))
	}
}

func TestDiscover_DuplicateEntitiesFirstWins(t *testing.T) {
	src := fullInventory()
	src.states = append([]inventory.State{
		{EntityID: "light.sofa", State: "off", FriendlyName: "First Announcement"},
	}, src.states...)

	rooms, err := Discover(context.Background(), src, translation.NewCatalog(), "en", nil)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}

	count := 0
	var name string
	for _, room := range rooms {
		for _, card := range room.Cards {
			if card.Entity() == "light.sofa" {
				count++
				name = card.GetString("name")
			}
		}
	}
	if count != 1 {
		t.Fatalf("light.sofa appears %d times, want 1", count)
	}
	if name != "First Announcement" {
		t.Errorf("surviving card name = %q, want the first announcement", name)
	}
}

func TestDiscover_NoEntities(t *testing.T) {
	src := &fakeSource{}
	rooms, err := Discover(context.Background(), src, translation.NewCatalog(), "en", nil)
	if err != nil {
		t.Fatalf("Discover() error: %v", err)
	}
	if len(rooms) != 0 {
		t.Errorf("got %d rooms from empty inventory", len(rooms))
	}
}
