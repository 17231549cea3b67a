package config

import (
	"fmt"
	"strconv"
	"strings"

	"gopkg.in/yaml.v3"
)

// Defaults injected during validation for omitted optional fields.
const (
	// DefaultOverviewLimit caps the per-room card preview on the overview
	// page when neither the room nor the config sets a limit.
	DefaultOverviewLimit = 6

	// DefaultGridColumns is the column count for per-room card grids.
	DefaultGridColumns = 3

	// DefaultTheme is applied when the config omits a theme.
	DefaultTheme = "auto"
)

// Room layout orientations accepted by validation. An empty layout means
// the room's cards are laid out in a fixed-column grid.
const (
	LayoutHorizontal = "horizontal"
	LayoutVertical   = "vertical"
)

// Config is the root dashboard configuration. It is produced by Load,
// mutated in place by every pipeline stage, and consumed by the view
// builder. Unknown top-level keys are preserved in Extra, never rejected.
type Config struct {
	Rooms             []*Room
	Sidebar           []*SidebarItem
	Header            *Header
	Theme             string
	Layout            *Card
	Resources         []Resource
	AutoDiscover      bool
	LoadLovelaceCards bool
	OverviewLimit     *int

	// Extra holds unrecognised top-level keys as an opaque passthrough bag.
	Extra *Card
}

// Room is a named group of cards representing one physical or logical area.
// Duplicate room names are allowed and rendered independently.
type Room struct {
	Name          string
	Order         int
	Layout        string
	Hidden        bool
	Icon          string
	Columns       int
	OverviewLimit *int
	Conditions    []string
	Cards         []*Card

	// Extra holds unrecognised room keys.
	Extra *Card
}

// SidebarItem is a navigation shortcut. The optional Condition guards its
// inclusion and is stripped from surviving items before serialization.
type SidebarItem struct {
	Name      string
	Icon      string
	View      string
	Condition string

	Extra *Card
}

// Header configures the dashboard header bar.
type Header struct {
	Title    string
	Logo     string
	ShowTime bool

	Extra *Card
}

// Resource references an external script or module loaded by the renderer.
type Resource struct {
	URL  string `yaml:"url"`
	Type string `yaml:"type"`
}

// EffectiveOverviewLimit resolves the preview cap for a room: the room's own
// limit wins, then the config-wide limit, then DefaultOverviewLimit.
// Negative limits mean no preview at all and resolve to zero.
func (c *Config) EffectiveOverviewLimit(room *Room) int {
	limit := DefaultOverviewLimit
	switch {
	case room != nil && room.OverviewLimit != nil:
		limit = *room.OverviewLimit
	case c.OverviewLimit != nil:
		limit = *c.OverviewLimit
	}
	if limit < 0 {
		return 0
	}
	return limit
}

// EffectiveColumns resolves the grid column count for a room.
func (r *Room) EffectiveColumns() int {
	if r.Columns > 0 {
		return r.Columns
	}
	return DefaultGridColumns
}

// UnmarshalYAML decodes the root configuration, walking the document
// manually so decode failures carry a path-qualified location.
func (c *Config) UnmarshalYAML(value *yaml.Node) error {
	if value.Kind != yaml.MappingNode {
		return &ValidationError{Path: "$", Message: "configuration must be a mapping"}
	}
	for i := 0; i < len(value.Content)-1; i += 2 {
		key := value.Content[i].Value
		val := value.Content[i+1]
		var err error
		switch key {
		case "rooms":
			err = decodeRooms(val, &c.Rooms)
		case "sidebar":
			err = decodeSidebar(val, &c.Sidebar)
		case "header":
			c.Header = &Header{}
			err = c.Header.decode(val)
		case "theme":
			err = decodeTo(val, &c.Theme, "theme", "string")
		case "layout":
			c.Layout = NewCard()
			err = decodeTo(val, c.Layout, "layout", "mapping")
		case "resources":
			err = decodeResources(val, &c.Resources)
		case "auto_discover":
			err = decodeTo(val, &c.AutoDiscover, "auto_discover", "boolean")
		case "load_lovelace_cards":
			err = decodeTo(val, &c.LoadLovelaceCards, "load_lovelace_cards", "boolean")
		case "overview_limit":
			var limit int
			if limit, err = coerceInt(val, "overview_limit"); err == nil {
				c.OverviewLimit = &limit
			}
		default:
			var v any
			if decodeErr := val.Decode(&v); decodeErr != nil {
				return &ValidationError{Path: key, Message: decodeErr.Error()}
			}
			if c.Extra == nil {
				c.Extra = NewCard()
			}
			c.Extra.Set(key, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeRooms(node *yaml.Node, out *[]*Room) error {
	if node.Kind != yaml.SequenceNode {
		return &ValidationError{Path: "rooms", Message: "expected a list of rooms"}
	}
	for i, item := range node.Content {
		room := &Room{}
		if err := room.decode(item, fmt.Sprintf("rooms[%d]", i)); err != nil {
			return err
		}
		*out = append(*out, room)
	}
	return nil
}

// decode populates a room from a mapping node. Unknown keys land in Extra.
func (r *Room) decode(node *yaml.Node, path string) error {
	if node.Kind != yaml.MappingNode {
		return &ValidationError{Path: path, Message: "room must be a mapping"}
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		keyPath := path + "." + key
		var err error
		switch key {
		case "name":
			err = decodeTo(val, &r.Name, keyPath, "string")
		case "order":
			r.Order, err = coerceInt(val, keyPath)
		case "layout":
			err = decodeTo(val, &r.Layout, keyPath, "string")
		case "hidden":
			err = decodeTo(val, &r.Hidden, keyPath, "boolean")
		case "icon":
			err = decodeTo(val, &r.Icon, keyPath, "string")
		case "columns":
			r.Columns, err = coerceInt(val, keyPath)
		case "overview_limit":
			var limit int
			if limit, err = coerceInt(val, keyPath); err == nil {
				r.OverviewLimit = &limit
			}
		case "conditions":
			err = decodeTo(val, &r.Conditions, keyPath, "list of strings")
		case "cards":
			err = decodeCards(val, &r.Cards, keyPath)
		default:
			var v any
			if decodeErr := val.Decode(&v); decodeErr != nil {
				return &ValidationError{Path: keyPath, Message: decodeErr.Error()}
			}
			if r.Extra == nil {
				r.Extra = NewCard()
			}
			r.Extra.Set(key, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

// UnmarshalYAML lets a Room decode outside a Config, e.g. from a blueprint
// document. Path qualification starts at the room itself.
func (r *Room) UnmarshalYAML(value *yaml.Node) error {
	return r.decode(value, "room")
}

func decodeCards(node *yaml.Node, out *[]*Card, path string) error {
	if node.Kind != yaml.SequenceNode {
		return &ValidationError{Path: path, Message: "expected a list of cards"}
	}
	for i, item := range node.Content {
		card := NewCard()
		if err := card.UnmarshalYAML(item); err != nil {
			return &ValidationError{Path: fmt.Sprintf("%s[%d]", path, i), Message: err.Error()}
		}
		*out = append(*out, card)
	}
	return nil
}

func decodeSidebar(node *yaml.Node, out *[]*SidebarItem) error {
	if node.Kind != yaml.SequenceNode {
		return &ValidationError{Path: "sidebar", Message: "expected a list of sidebar items"}
	}
	for i, itemNode := range node.Content {
		path := fmt.Sprintf("sidebar[%d]", i)
		if itemNode.Kind != yaml.MappingNode {
			return &ValidationError{Path: path, Message: "sidebar item must be a mapping"}
		}
		item := &SidebarItem{}
		for j := 0; j < len(itemNode.Content)-1; j += 2 {
			key := itemNode.Content[j].Value
			val := itemNode.Content[j+1]
			keyPath := path + "." + key
			var err error
			switch key {
			case "name":
				err = decodeTo(val, &item.Name, keyPath, "string")
			case "icon":
				err = decodeTo(val, &item.Icon, keyPath, "string")
			case "view":
				err = decodeTo(val, &item.View, keyPath, "string")
			case "condition":
				err = decodeTo(val, &item.Condition, keyPath, "string")
			default:
				var v any
				if decodeErr := val.Decode(&v); decodeErr != nil {
					return &ValidationError{Path: keyPath, Message: decodeErr.Error()}
				}
				if item.Extra == nil {
					item.Extra = NewCard()
				}
				item.Extra.Set(key, v)
			}
			if err != nil {
				return err
			}
		}
		*out = append(*out, item)
	}
	return nil
}

func (h *Header) decode(node *yaml.Node) error {
	if node.Kind != yaml.MappingNode {
		return &ValidationError{Path: "header", Message: "header must be a mapping"}
	}
	for i := 0; i < len(node.Content)-1; i += 2 {
		key := node.Content[i].Value
		val := node.Content[i+1]
		keyPath := "header." + key
		var err error
		switch key {
		case "title":
			err = decodeTo(val, &h.Title, keyPath, "string")
		case "logo":
			err = decodeTo(val, &h.Logo, keyPath, "string")
		case "show_time":
			err = decodeTo(val, &h.ShowTime, keyPath, "boolean")
		default:
			var v any
			if decodeErr := val.Decode(&v); decodeErr != nil {
				return &ValidationError{Path: keyPath, Message: decodeErr.Error()}
			}
			if h.Extra == nil {
				h.Extra = NewCard()
			}
			h.Extra.Set(key, v)
		}
		if err != nil {
			return err
		}
	}
	return nil
}

func decodeResources(node *yaml.Node, out *[]Resource) error {
	if node.Kind != yaml.SequenceNode {
		return &ValidationError{Path: "resources", Message: "expected a list of resources"}
	}
	for i, item := range node.Content {
		var res Resource
		if err := item.Decode(&res); err != nil {
			return &ValidationError{Path: fmt.Sprintf("resources[%d]", i), Message: err.Error()}
		}
		*out = append(*out, res)
	}
	return nil
}

// decodeTo decodes a node into dst, converting failures into a
// path-qualified validation error naming the expected shape.
func decodeTo(node *yaml.Node, dst any, path, want string) error {
	if err := node.Decode(dst); err != nil {
		return &ValidationError{Path: path, Message: "expected " + want}
	}
	return nil
}

// coerceInt accepts integer scalars and numeric strings, mirroring the
// lenient integer coercion of the input schema.
func coerceInt(node *yaml.Node, path string) (int, error) {
	var n int
	if err := node.Decode(&n); err == nil {
		return n, nil
	}
	var s string
	if err := node.Decode(&s); err == nil {
		if n, convErr := strconv.Atoi(strings.TrimSpace(s)); convErr == nil {
			return n, nil
		}
	}
	return 0, &ValidationError{Path: path, Message: "expected an integer"}
}
