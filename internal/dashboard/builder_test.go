package dashboard

import (
	"strings"
	"testing"

	"github.com/shi-home/smart-dashboard/internal/config"
	"github.com/shi-home/smart-dashboard/internal/translation"
)

func testCatalog() *translation.Catalog {
	return translation.NewCatalog()
}

func lightCard(entity string) *config.Card {
	return config.NewCardFrom("type", "light", "entity", entity)
}

func TestBuild_RoomOrderingAndHidden(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{
			{Name: "Kitchen", Order: 2, Cards: []*config.Card{lightCard("light.kitchen")}},
			{Name: "Cellar", Order: 1, Hidden: true, Cards: []*config.Card{lightCard("light.cellar")}},
			{Name: "Hall", Order: 1, Cards: []*config.Card{lightCard("light.hall")}},
		},
	}

	doc := Build(cfg, testCatalog(), "en")

	// overview, devices, then one page per visible room in order.
	wantTitles := []string{"Overview", "Devices", "Hall", "Kitchen"}
	if len(doc.Views) != len(wantTitles) {
		t.Fatalf("got %d views, want %d", len(doc.Views), len(wantTitles))
	}
	for i, want := range wantTitles {
		if doc.Views[i].Title != want {
			t.Errorf("view[%d].Title = %q, want %q", i, doc.Views[i].Title, want)
		}
	}

	data, err := Marshal(doc)
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if strings.Contains(string(data), "cellar") {
		t.Error("hidden room leaked into the document")
	}
}

func TestBuild_StableOrderForEqualKeys(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{
			{Name: "B", Order: 1, Cards: []*config.Card{lightCard("light.b")}},
			{Name: "A", Order: 1, Cards: []*config.Card{lightCard("light.a")}},
		},
	}

	doc := Build(cfg, testCatalog(), "en")
	if doc.Views[2].Title != "B" || doc.Views[3].Title != "A" {
		t.Errorf("equal-order rooms reordered: got %q, %q", doc.Views[2].Title, doc.Views[3].Title)
	}
}

func TestBuild_OverviewTile(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{{
			Name:  "Living Room",
			Order: 1,
			Icon:  "mdi:sofa",
			Cards: []*config.Card{
				lightCard("light.sofa"),
				config.NewCardFrom("type", "markdown", "content", "note"),
			},
		}},
	}

	doc := Build(cfg, testCatalog(), "en")

	overview := doc.Views[0]
	if overview.Path != "overview" {
		t.Fatalf("overview path = %q", overview.Path)
	}
	outer := overview.Cards[0]
	if outer.Type() != "grid" {
		t.Fatalf("outer card type = %q, want grid", outer.Type())
	}
	if cols, _ := outer.Get("columns"); cols != 2 {
		t.Errorf("outer grid columns = %v, want 2", cols)
	}

	stacks, _ := outer.Get("cards")
	stack := stacks.([]*config.Card)[0]
	if stack.Type() != "vertical-stack" {
		t.Fatalf("stack type = %q", stack.Type())
	}
	inner, _ := stack.Get("cards")
	button := inner.([]*config.Card)[0]
	if button.Type() != "custom:button-card" {
		t.Fatalf("first stack card type = %q", button.Type())
	}
	if got := button.GetString("icon"); got != "mdi:sofa" {
		t.Errorf("icon = %q, want mdi:sofa", got)
	}
	// Only the entity-bound card counts as a device.
	if got := button.GetString("label"); got != "1 devices" {
		t.Errorf("label = %q, want \"1 devices\"", got)
	}
	tap, _ := button.Get("tap_action")
	if got := tap.(*config.Card).GetString("navigation_path"); got != "/lovelace/living-room" {
		t.Errorf("navigation_path = %q, want /lovelace/living-room", got)
	}
}

func TestBuild_OverviewDefaultIconAndLimit(t *testing.T) {
	cards := make([]*config.Card, 10)
	for i := range cards {
		cards[i] = lightCard("light.l" + string(rune('a'+i)))
	}
	limit := 4
	cfg := &config.Config{
		Rooms: []*config.Room{{Name: "Hall", Order: 1, OverviewLimit: &limit, Cards: cards}},
	}

	doc := Build(cfg, testCatalog(), "en")

	outer := doc.Views[0].Cards[0]
	stacksAny, _ := outer.Get("cards")
	stackCards, _ := stacksAny.([]*config.Card)[0].Get("cards")
	inner := stackCards.([]*config.Card)

	if got := inner[0].GetString("icon"); got != "mdi:home-outline" {
		t.Errorf("default icon = %q, want mdi:home-outline", got)
	}
	tilesAny, _ := inner[1].Get("cards")
	if got := len(tilesAny.([]*config.Card)); got != limit {
		t.Errorf("preview tiles = %d, want %d", got, limit)
	}
}

func TestBuild_NegativeOverviewLimit(t *testing.T) {
	limit := -1
	cfg := &config.Config{
		OverviewLimit: &limit,
		Rooms: []*config.Room{
			{Name: "Hall", Order: 1, Cards: []*config.Card{lightCard("light.hall")}},
		},
	}

	// A negative limit means no preview; it must never slice past bounds.
	doc := Build(cfg, testCatalog(), "en")

	outer := doc.Views[0].Cards[0]
	stacksAny, _ := outer.Get("cards")
	stackCards, _ := stacksAny.([]*config.Card)[0].Get("cards")
	inner := stackCards.([]*config.Card)
	if len(inner) != 1 {
		t.Errorf("stack has %d cards, want only the navigation button", len(inner))
	}
}

func TestBuild_RoomPageLayouts(t *testing.T) {
	tests := []struct {
		name     string
		layout   string
		wantType string
	}{
		{"default grid", "", "grid"},
		{"horizontal stack", config.LayoutHorizontal, "horizontal-stack"},
		{"vertical stack", config.LayoutVertical, "vertical-stack"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := &config.Config{
				Rooms: []*config.Room{{
					Name: "Office", Order: 1, Layout: tt.layout,
					Cards: []*config.Card{lightCard("light.desk")},
				}},
			}

			doc := Build(cfg, testCatalog(), "en")
			page := doc.Views[len(doc.Views)-1]
			if page.Path != "office" {
				t.Fatalf("room page path = %q", page.Path)
			}
			if got := page.Cards[0].Type(); got != tt.wantType {
				t.Errorf("wrapper type = %q, want %q", got, tt.wantType)
			}
		})
	}
}

func TestBuild_RoomPageGridColumns(t *testing.T) {
	cols := 5
	cfg := &config.Config{
		Rooms: []*config.Room{{
			Name: "Office", Order: 1, Columns: cols,
			Cards: []*config.Card{lightCard("light.desk")},
		}},
	}

	doc := Build(cfg, testCatalog(), "en")
	wrapper := doc.Views[len(doc.Views)-1].Cards[0]
	if got, _ := wrapper.Get("columns"); got != cols {
		t.Errorf("grid columns = %v, want %d", got, cols)
	}
	if sq, _ := wrapper.Get("square"); sq != false {
		t.Errorf("grid square = %v, want false", sq)
	}
}

func TestBuild_EmptyRoomPlaceholder(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{{Name: "Attic", Order: 1}},
	}

	doc := Build(cfg, testCatalog(), "en")
	page := doc.Views[len(doc.Views)-1]
	wrapper := page.Cards[0]
	cardsAny, _ := wrapper.Get("cards")
	placeholder := cardsAny.([]*config.Card)[0]
	if got := placeholder.GetString("icon"); got != "mdi:help-circle-outline" {
		t.Errorf("placeholder icon = %q", got)
	}
	if got := placeholder.GetString("name"); got != "No entities" {
		t.Errorf("placeholder name = %q, want No entities", got)
	}
}

func TestBuild_FallbackView(t *testing.T) {
	doc := Build(&config.Config{}, testCatalog(), "en")

	if len(doc.Views) != 1 {
		t.Fatalf("got %d views, want 1 fallback view", len(doc.Views))
	}
	view := doc.Views[0]
	if view.Title != "Smart Dashboard" {
		t.Errorf("fallback title = %q", view.Title)
	}
	card := view.Cards[0]
	if card.Type() != "markdown" {
		t.Errorf("fallback card type = %q, want markdown", card.Type())
	}
	if got := card.GetString("content"); got != "No devices found." {
		t.Errorf("fallback content = %q", got)
	}
}

func TestBuild_ButtonCardResourceInjectedOnce(t *testing.T) {
	cfg := &config.Config{
		Resources: []config.Resource{
			{URL: "/local/other.js", Type: "module"},
		},
	}

	doc := Build(cfg, testCatalog(), "en")
	count := 0
	for _, res := range doc.Resources {
		if res.URL == buttonCardResource {
			count++
		}
	}
	if count != 1 {
		t.Fatalf("button-card resource injected %d times, want 1", count)
	}

	// A pre-existing reference must not be duplicated, even with a
	// different resource type.
	cfg.Resources = append(cfg.Resources, config.Resource{URL: buttonCardResource, Type: "js"})
	doc = Build(cfg, testCatalog(), "en")
	count = 0
	for _, res := range doc.Resources {
		if res.URL == buttonCardResource {
			count++
		}
	}
	if count != 1 {
		t.Errorf("pre-existing resource duplicated, got %d entries", count)
	}
}

func TestBuild_Localized(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{{Name: "Küche", Order: 1, Cards: []*config.Card{lightCard("light.k")}}},
	}

	doc := Build(cfg, testCatalog(), "de")
	if doc.Views[0].Title != "Übersicht" {
		t.Errorf("overview title = %q, want Übersicht", doc.Views[0].Title)
	}
	if doc.Views[1].Title != "Geräte" {
		t.Errorf("devices title = %q, want Geräte", doc.Views[1].Title)
	}
}

func TestBuild_Deterministic(t *testing.T) {
	cfg := &config.Config{
		Theme: "dark",
		Rooms: []*config.Room{
			{Name: "Hall", Order: 1, Cards: []*config.Card{
				lightCard("light.hall"),
				config.NewCardFrom("type", "sensor", "entity", "sensor.temp"),
			}},
			{Name: "Bath", Order: 2, Cards: []*config.Card{lightCard("light.bath")}},
		},
	}

	first, err := Marshal(Build(cfg, testCatalog(), "en"))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	second, err := Marshal(Build(cfg, testCatalog(), "en"))
	if err != nil {
		t.Fatalf("Marshal() error: %v", err)
	}
	if string(first) != string(second) {
		t.Error("identical input produced differing documents")
	}
}
