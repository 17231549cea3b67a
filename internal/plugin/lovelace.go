package plugin

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"sort"
	"strings"
	"time"

	"github.com/shi-home/smart-dashboard/internal/config"
)

// lovelaceTimeout bounds the import request independently of the
// inventory timeout; a slow import should not stall the whole run.
const lovelaceTimeout = 10 * time.Second

// LovelaceCardsLoader imports the views of an existing hand-built
// dashboard as additional rooms, so a migration to generated dashboards
// can carry the old layout along.
//
// The plugin only acts when the dashboard configuration opts in via
// load_lovelace_cards and the remote connection is configured; otherwise
// it is a no-op.
func LovelaceCardsLoader(ctx context.Context, env *Env, cfg *config.Config) error {
	if !cfg.LoadLovelaceCards {
		return nil
	}
	if env.Settings == nil {
		return nil
	}
	remote := env.Settings.Inventory.Remote
	if remote.URL == "" || remote.Token == "" {
		env.Log.Warn("load_lovelace_cards is set but no remote connection is configured")
		return nil
	}

	url := strings.TrimRight(remote.URL, "/") + "/api/lovelace"
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, url, nil)
	if err != nil {
		return fmt.Errorf("building lovelace request: %w", err)
	}
	req.Header.Set("Authorization", "Bearer "+remote.Token)
	req.Header.Set("Accept", "application/json")

	client := &http.Client{Timeout: lovelaceTimeout}
	resp, err := client.Do(req)
	if err != nil {
		return fmt.Errorf("fetching lovelace config: %w", err)
	}
	defer resp.Body.Close() //nolint:errcheck // Read-only response body

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("fetching lovelace config: status %d", resp.StatusCode)
	}

	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return fmt.Errorf("reading lovelace config: %w", err)
	}

	var doc struct {
		Views []struct {
			Title string           `json:"title"`
			Cards []map[string]any `json:"cards"`
		} `json:"views"`
	}
	if err := json.Unmarshal(body, &doc); err != nil {
		return fmt.Errorf("parsing lovelace config: %w", err)
	}

	order := len(cfg.Rooms)
	for _, view := range doc.Views {
		if view.Title == "" || len(view.Cards) == 0 {
			continue
		}
		order++
		room := &config.Room{Name: view.Title, Order: order}
		for _, raw := range view.Cards {
			room.Cards = append(room.Cards, cardFromMap(raw))
		}
		cfg.Rooms = append(cfg.Rooms, room)
	}
	return nil
}

// cardFromMap converts a decoded JSON card into a Card. JSON objects
// carry no key order, so keys are emitted type-first then sorted for
// stable output.
func cardFromMap(m map[string]any) *config.Card {
	card := config.NewCard()

	keys := make([]string, 0, len(m))
	for k := range m {
		if k != "type" {
			keys = append(keys, k)
		}
	}
	sort.Strings(keys)

	if t, ok := m["type"]; ok {
		card.Set("type", t)
	}
	for _, k := range keys {
		card.Set(k, m[k])
	}
	return card
}
