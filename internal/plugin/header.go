package plugin

import (
	"context"

	"github.com/shi-home/smart-dashboard/internal/config"
)

// HeaderCard prepends a markdown heading card to every named room, so
// each room page opens with its own title even in layouts that hide the
// view title bar.
func HeaderCard(_ context.Context, _ *Env, cfg *config.Config) error {
	for _, room := range cfg.Rooms {
		if room.Name == "" {
			continue
		}
		heading := config.NewCardFrom(
			"type", "markdown",
			"content", "## "+room.Name,
		)
		room.Cards = append([]*config.Card{heading}, room.Cards...)
	}
	return nil
}
