package config

import (
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// Save writes the normalized configuration back to path. The write is
// atomic: the file is staged alongside the target and renamed into place.
func Save(path string, cfg *Config) error {
	data, err := yaml.Marshal(cfg)
	if err != nil {
		return fmt.Errorf("encoding config: %w", err)
	}
	tmp, err := os.CreateTemp(filepath.Dir(path), ".smart_dashboard-*.yaml")
	if err != nil {
		return fmt.Errorf("staging config: %w", err)
	}
	tmpPath := tmp.Name()
	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := tmp.Close(); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("writing config: %w", err)
	}
	if err := os.Rename(tmpPath, path); err != nil {
		os.Remove(tmpPath)
		return fmt.Errorf("replacing config: %w", err)
	}
	return nil
}

// MarshalYAML emits the normalized configuration with keys in a stable
// canonical order; unknown keys follow the typed fields.
func (c *Config) MarshalYAML() (any, error) {
	out := NewCard()
	out.Set("auto_discover", c.AutoDiscover)
	out.Set("theme", c.Theme)
	if c.LoadLovelaceCards {
		out.Set("load_lovelace_cards", true)
	}
	if c.OverviewLimit != nil {
		out.Set("overview_limit", *c.OverviewLimit)
	}
	if c.Header != nil {
		out.Set("header", c.Header)
	}
	if c.Layout != nil {
		out.Set("layout", c.Layout)
	}
	if len(c.Sidebar) > 0 {
		out.Set("sidebar", c.Sidebar)
	}
	out.Set("resources", resourcesOrEmpty(c.Resources))
	out.Set("rooms", roomsOrEmpty(c.Rooms))
	mergeExtra(out, c.Extra)
	return out.MarshalYAML()
}

// roomsOrEmpty keeps "rooms" present (as an empty list) in saved configs so
// round-tripped files match the normalized shape.
func roomsOrEmpty(rooms []*Room) []*Room {
	if rooms == nil {
		return []*Room{}
	}
	return rooms
}

func resourcesOrEmpty(resources []Resource) []Resource {
	if resources == nil {
		return []Resource{}
	}
	return resources
}

// MarshalYAML emits a room with its typed fields in canonical order
// followed by any passthrough keys.
func (r *Room) MarshalYAML() (any, error) {
	out := NewCard()
	out.Set("name", r.Name)
	if r.Order != 0 {
		out.Set("order", r.Order)
	}
	if r.Layout != "" {
		out.Set("layout", r.Layout)
	}
	if r.Icon != "" {
		out.Set("icon", r.Icon)
	}
	out.Set("hidden", r.Hidden)
	if r.Columns != 0 {
		out.Set("columns", r.Columns)
	}
	if r.OverviewLimit != nil {
		out.Set("overview_limit", *r.OverviewLimit)
	}
	if r.Conditions != nil {
		out.Set("conditions", r.Conditions)
	}
	cards := r.Cards
	if cards == nil {
		cards = []*Card{}
	}
	out.Set("cards", cards)
	mergeExtra(out, r.Extra)
	return out.MarshalYAML()
}

// MarshalYAML emits a sidebar item. A stripped (empty) condition is
// omitted, so surviving items never carry their guard into the output.
func (s *SidebarItem) MarshalYAML() (any, error) {
	out := NewCard()
	out.Set("name", s.Name)
	if s.Icon != "" {
		out.Set("icon", s.Icon)
	}
	if s.View != "" {
		out.Set("view", s.View)
	}
	if s.Condition != "" {
		out.Set("condition", s.Condition)
	}
	mergeExtra(out, s.Extra)
	return out.MarshalYAML()
}

// MarshalYAML emits the header configuration.
func (h *Header) MarshalYAML() (any, error) {
	out := NewCard()
	out.Set("title", h.Title)
	if h.Logo != "" {
		out.Set("logo", h.Logo)
	}
	out.Set("show_time", h.ShowTime)
	mergeExtra(out, h.Extra)
	return out.MarshalYAML()
}

func mergeExtra(dst, extra *Card) {
	if extra == nil {
		return
	}
	for _, k := range extra.Keys() {
		if _, exists := dst.Get(k); exists {
			continue
		}
		v, _ := extra.Get(k)
		dst.Set(k, v)
	}
}
