package plugin

import (
	"context"

	"github.com/shi-home/smart-dashboard/internal/config"
	"github.com/shi-home/smart-dashboard/internal/dashboard"
)

// dwainsTheme is the theme the style plugin selects when the author has
// not picked one.
const dwainsTheme = "dwains"

// DwainsStyle applies an opinionated house style: a header with clock,
// the dwains theme, and a sidebar entry per visible room.
//
// Everything is a soft default. Explicit author choices survive, and the
// sidebar population is idempotent (keyed by view slug) so re-running
// the pipeline never duplicates entries.
func DwainsStyle(_ context.Context, _ *Env, cfg *config.Config) error {
	if cfg.Header == nil {
		cfg.Header = &config.Header{Title: "Home", ShowTime: true}
	}
	// The loader fills an unset theme with the neutral default, so that
	// value still counts as "author did not choose".
	if cfg.Theme == "" || cfg.Theme == config.DefaultTheme {
		cfg.Theme = dwainsTheme
	}

	existing := make(map[string]struct{}, len(cfg.Sidebar))
	for _, item := range cfg.Sidebar {
		existing[item.View] = struct{}{}
	}

	for _, room := range cfg.Rooms {
		if room.Hidden || room.Name == "" {
			continue
		}
		view := dashboard.Slugify(room.Name)
		if _, ok := existing[view]; ok {
			continue
		}
		existing[view] = struct{}{}
		cfg.Sidebar = append(cfg.Sidebar, &config.SidebarItem{
			Name: room.Name,
			Icon: "mdi:chevron-right",
			View: view,
		})
	}
	return nil
}
