package dashboard

import (
	"sort"
	"strconv"
	"strings"

	"github.com/shi-home/smart-dashboard/internal/config"
	"github.com/shi-home/smart-dashboard/internal/translation"
)

// buttonCardResource is the external script resource every generated
// document references exactly once.
const buttonCardResource = "/hacsfiles/button-card/button-card.js"

// defaultRoomIcon is used for overview tiles when a room has no icon.
const defaultRoomIcon = "mdi:home-outline"

// Document is the generated layout consumed by the external renderer.
// Field order here is the key order of the serialized document.
type Document struct {
	Views               []*View               `yaml:"views"`
	ButtonCardTemplates *config.Card          `yaml:"button_card_templates"`
	Layout              *config.Card          `yaml:"layout,omitempty"`
	Theme               string                `yaml:"theme,omitempty"`
	Header              *config.Header        `yaml:"header,omitempty"`
	Sidebar             []*config.SidebarItem `yaml:"sidebar,omitempty"`
	Resources           []config.Resource     `yaml:"resources,omitempty"`
}

// View is a single dashboard page.
type View struct {
	Title string         `yaml:"title"`
	Path  string         `yaml:"path,omitempty"`
	Cards []*config.Card `yaml:"cards"`
}

// Build converts a validated, filtered and deduplicated configuration into
// a layout document. The result is deterministic for identical input.
//
// Rooms are ordered by their order key (stable, so ties keep authoring
// order) and hidden rooms are fully absent from every page. The document
// always contains at least one view: when everything was filtered away a
// localized fallback page is emitted instead of an empty document.
func Build(cfg *config.Config, tr *translation.Catalog, lang string) *Document {
	rooms := sortedRooms(cfg.Rooms)

	var views []*View

	if overview := buildOverview(cfg, rooms, tr, lang); overview != nil {
		views = append(views, overview)
	}
	if devices := buildDevicesPage(rooms, tr, lang); devices != nil {
		views = append(views, devices)
	}
	views = append(views, buildRoomPages(rooms, tr, lang)...)

	if len(views) == 0 {
		views = append(views, &View{
			Title: tr.Lookup("dashboard_title", lang, "Smart Dashboard"),
			Cards: []*config.Card{config.NewCardFrom(
				"type", "markdown",
				"content", tr.Lookup("no_devices_found", lang, "No devices found."),
			)},
		})
	}

	doc := &Document{
		Views:               views,
		ButtonCardTemplates: ButtonCardTemplates(),
		Layout:              cfg.Layout,
		Theme:               cfg.Theme,
		Header:              cfg.Header,
		Sidebar:             cfg.Sidebar,
		Resources:           withButtonCardResource(cfg.Resources),
	}
	return doc
}

// sortedRooms returns the rooms ordered by their order key. The sort is
// stable: rooms sharing an order keep their original relative order.
func sortedRooms(rooms []*config.Room) []*config.Room {
	out := make([]*config.Room, len(rooms))
	copy(out, rooms)
	sort.SliceStable(out, func(i, j int) bool { return out[i].Order < out[j].Order })
	return out
}

// buildOverview produces the overview page: one navigation tile per
// visible room with a capped preview grid of its cards. Returns nil when
// no visible room exists.
func buildOverview(cfg *config.Config, rooms []*config.Room, tr *translation.Catalog, lang string) *View {
	var stacks []*config.Card
	for _, room := range rooms {
		if room.Hidden {
			continue
		}
		name := roomName(room, tr, lang)
		icon := room.Icon
		if icon == "" {
			icon = defaultRoomIcon
		}

		label := tr.Lookup("device_count", lang, "{count} devices")
		label = strings.ReplaceAll(label, "{count}", strconv.Itoa(activeDeviceCount(room)))

		button := config.NewCardFrom(
			"type", "custom:button-card",
			"icon", icon,
			"name", name,
			"label", label,
			"tap_action", config.NewCardFrom(
				"action", "navigate",
				"navigation_path", "/lovelace/"+Slugify(name),
			),
		)
		cards := []*config.Card{button}

		tiles := ApplyTileTemplates(room.Cards)
		if limit := cfg.EffectiveOverviewLimit(room); len(tiles) > limit {
			tiles = tiles[:limit]
		}
		if len(tiles) > 0 {
			cards = append(cards, grid(room.EffectiveColumns(), tiles))
		}

		stacks = append(stacks, config.NewCardFrom("type", "vertical-stack", "cards", cards))
	}
	if len(stacks) == 0 {
		return nil
	}
	return &View{
		Title: tr.Lookup("overview", lang, "Overview"),
		Path:  "overview",
		Cards: []*config.Card{grid(2, stacks)},
	}
}

// buildDevicesPage pools every visible room's cards and groups them by
// device category. Returns nil when no visible card exists.
func buildDevicesPage(rooms []*config.Room, tr *translation.Catalog, lang string) *View {
	var pool []*config.Card
	for _, room := range rooms {
		if room.Hidden {
			continue
		}
		pool = append(pool, room.Cards...)
	}
	grouped := GroupCardsByCategory(pool)
	if len(grouped) == 0 {
		return nil
	}
	return &View{
		Title: tr.Lookup("devices", lang, "Devices"),
		Path:  "devices",
		Cards: []*config.Card{grid(2, grouped)},
	}
}

// buildRoomPages produces one page per visible room. A room without cards
// gets a single localized placeholder tile so no page renders empty.
func buildRoomPages(rooms []*config.Room, tr *translation.Catalog, lang string) []*View {
	var views []*View
	for _, room := range rooms {
		if room.Hidden {
			continue
		}
		cards := ApplyTileTemplates(room.Cards)
		if len(cards) == 0 {
			cards = []*config.Card{config.NewCardFrom(
				"type", "custom:button-card",
				"icon", "mdi:help-circle-outline",
				"name", tr.Lookup("no_entities", lang, "No entities"),
			)}
		}

		switch room.Layout {
		case config.LayoutHorizontal, config.LayoutVertical:
			cards = []*config.Card{config.NewCardFrom(
				"type", room.Layout+"-stack",
				"cards", cards,
			)}
		default:
			cards = []*config.Card{grid(room.EffectiveColumns(), cards)}
		}

		name := roomName(room, tr, lang)
		views = append(views, &View{
			Title: name,
			Path:  Slugify(name),
			Cards: cards,
		})
	}
	return views
}

// activeDeviceCount counts the room's cards bound to an entity.
func activeDeviceCount(room *config.Room) int {
	n := 0
	for _, card := range room.Cards {
		if card.Entity() != "" {
			n++
		}
	}
	return n
}

func roomName(room *config.Room, tr *translation.Catalog, lang string) string {
	if room.Name != "" {
		return room.Name
	}
	return tr.Lookup("room", lang, "Room")
}

func grid(columns int, cards []*config.Card) *config.Card {
	return config.NewCardFrom(
		"type", "grid",
		"columns", columns,
		"square", false,
		"cards", cards,
	)
}

// withButtonCardResource returns the resource list with the button-card
// script guaranteed present exactly once, matched by URL.
func withButtonCardResource(resources []config.Resource) []config.Resource {
	out := make([]config.Resource, len(resources))
	copy(out, resources)
	for _, res := range out {
		if res.URL == buttonCardResource {
			return out
		}
	}
	return append(out, config.Resource{URL: buttonCardResource, Type: "module"})
}
