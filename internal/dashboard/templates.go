package dashboard

import (
	"strings"

	"github.com/shi-home/smart-dashboard/internal/config"
)

// deviceTemplates maps an entity domain to the button-card template used
// when rewriting a plain card into a visual tile. Domains outside this
// table pass through tile conversion unchanged.
var deviceTemplates = map[string]string{
	"light":         "light_tile",
	"climate":       "climate_tile",
	"media_player":  "media_tile",
	"sensor":        "sensor_tile",
	"binary_sensor": "sensor_tile",
}

// ButtonCardTemplates returns the fixed template definitions attached to
// every generated document. All tile templates inherit from device_tile.
func ButtonCardTemplates() *config.Card {
	return config.NewCardFrom(
		"device_tile", config.NewCardFrom(
			"show_icon", true,
			"show_name", true,
			"show_state", true,
			"layout", "vertical",
			"styles", config.NewCardFrom(
				"card", []any{
					"padding: 8px",
					"background: var(--ha-card-background, rgba(0,0,0,0.05))",
					"border-radius: 12px",
				},
			),
		),
		"light_tile", config.NewCardFrom(
			"template", "device_tile",
			"tap_action", config.NewCardFrom("action", "toggle"),
		),
		"climate_tile", config.NewCardFrom("template", "device_tile"),
		"sensor_tile", config.NewCardFrom("template", "device_tile"),
		"media_tile", config.NewCardFrom("template", "device_tile"),
	)
}

// entityDomain returns the part of an entity identifier before the first
// dot, e.g. "light" for "light.sofa".
func entityDomain(entity string) string {
	if entity == "" {
		return ""
	}
	if i := strings.IndexByte(entity, '.'); i >= 0 {
		return entity[:i]
	}
	return entity
}

// ApplyTileTemplates rewrites cards whose entity domain has a tile template
// into templated button-cards. Cards with an unmapped or missing domain are
// returned unchanged.
func ApplyTileTemplates(cards []*config.Card) []*config.Card {
	out := make([]*config.Card, 0, len(cards))
	for _, card := range cards {
		entity := card.Entity()
		template, ok := deviceTemplates[entityDomain(entity)]
		if !ok {
			out = append(out, card)
			continue
		}
		out = append(out, config.NewCardFrom(
			"type", "custom:button-card",
			"template", template,
			"entity", entity,
		))
	}
	return out
}

// GroupCardsByCategory converts cards to tiles and groups them into one
// vertical stack per device category. Categories are emitted in fixed
// order (light, climate, multimedia, sensor); cards that fit no category
// are appended flat after the stacks.
func GroupCardsByCategory(cards []*config.Card) []*config.Card {
	tiles := ApplyTileTemplates(cards)

	var light, climate, multimedia, sensor, other []*config.Card
	for _, card := range tiles {
		switch entityDomain(card.Entity()) {
		case "light":
			light = append(light, card)
		case "climate":
			climate = append(climate, card)
		case "media_player":
			multimedia = append(multimedia, card)
		case "sensor", "binary_sensor":
			sensor = append(sensor, card)
		default:
			other = append(other, card)
		}
	}

	var out []*config.Card
	for _, group := range [][]*config.Card{light, climate, multimedia, sensor} {
		if len(group) > 0 {
			out = append(out, config.NewCardFrom("type", "vertical-stack", "cards", group))
		}
	}
	return append(out, other...)
}
