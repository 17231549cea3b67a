package config

import (
	"errors"
	"fmt"
	"os"

	"gopkg.in/yaml.v3"
)

// Load reads, validates and normalizes a dashboard configuration file.
// On any structural violation it returns a ValidationError and no partial
// result. An empty file yields an empty (valid) configuration.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config file: %w", err)
	}
	return Parse(data)
}

// Parse validates and normalizes raw YAML configuration bytes.
func Parse(data []byte) (*Config, error) {
	cfg := &Config{}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		var vErr *ValidationError
		if errors.As(err, &vErr) {
			return nil, vErr
		}
		return nil, fmt.Errorf("parsing config: %w", err)
	}
	cfg.applyDefaults()
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// applyDefaults injects defaults for omitted optional fields.
func (c *Config) applyDefaults() {
	if c.Theme == "" {
		c.Theme = DefaultTheme
	}
	if c.Layout != nil {
		if _, ok := c.Layout.Get("strategy"); !ok {
			c.Layout.Set("strategy", "masonry")
		}
	}
}

// Validate checks the normalized configuration for structural violations.
// It returns the first violation found as a ValidationError.
func (c *Config) Validate() error {
	switch c.Theme {
	case "light", "dark", "auto":
	default:
		return &ValidationError{Path: "theme", Message: fmt.Sprintf("%q is not one of light, dark, auto", c.Theme)}
	}
	for i, room := range c.Rooms {
		if err := room.validate(fmt.Sprintf("rooms[%d]", i)); err != nil {
			return err
		}
	}
	for i, item := range c.Sidebar {
		if item.Name == "" {
			return &ValidationError{Path: fmt.Sprintf("sidebar[%d].name", i), Message: "required"}
		}
	}
	if c.Header != nil && c.Header.Title == "" {
		return &ValidationError{Path: "header.title", Message: "required"}
	}
	for i, res := range c.Resources {
		if res.URL == "" {
			return &ValidationError{Path: fmt.Sprintf("resources[%d].url", i), Message: "required"}
		}
		if res.Type == "" {
			return &ValidationError{Path: fmt.Sprintf("resources[%d].type", i), Message: "required"}
		}
	}
	return nil
}

func (r *Room) validate(path string) error {
	if r.Name == "" {
		return &ValidationError{Path: path + ".name", Message: "required"}
	}
	switch r.Layout {
	case "", LayoutHorizontal, LayoutVertical:
	default:
		return &ValidationError{
			Path:    path + ".layout",
			Message: fmt.Sprintf("%q is not one of horizontal, vertical", r.Layout),
		}
	}
	for i, card := range r.Cards {
		cardPath := fmt.Sprintf("%s.cards[%d]", path, i)
		if !card.IsMapping() {
			return &ValidationError{Path: cardPath, Message: "card must be a mapping"}
		}
		if card.Type() == "" {
			return &ValidationError{Path: cardPath + ".type", Message: "required"}
		}
	}
	return nil
}
