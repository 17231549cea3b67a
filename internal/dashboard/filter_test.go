package dashboard

import (
	"testing"

	"github.com/shi-home/smart-dashboard/internal/config"
	"gopkg.in/yaml.v3"
)

type recordingLogger struct {
	warnings []string
}

func (l *recordingLogger) Warn(msg string, _ ...any) { l.warnings = append(l.warnings, msg) }

func TestFilterExistingEntities(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{{
			Name: "Hall",
			Cards: []*config.Card{
				lightCard("light.known"),
				lightCard("light.gone"),
				config.NewCardFrom("type", "markdown", "content", "kept"),
			},
		}},
	}
	known := map[string]struct{}{"light.known": {}}

	FilterExistingEntities(cfg, known, nil)

	got := cfg.Rooms[0].Cards
	if len(got) != 2 {
		t.Fatalf("got %d cards after filtering, want 2", len(got))
	}
	if got[0].Entity() != "light.known" {
		t.Errorf("cards[0].Entity() = %q", got[0].Entity())
	}
	if got[1].Type() != "markdown" {
		t.Errorf("entity-less card dropped, cards[1].Type() = %q", got[1].Type())
	}
}

func TestFilterExistingEntities_EmptySetSkips(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{{
			Name:  "Hall",
			Cards: []*config.Card{lightCard("light.anything")},
		}},
	}
	log := &recordingLogger{}

	FilterExistingEntities(cfg, map[string]struct{}{}, log)

	if len(cfg.Rooms[0].Cards) != 1 {
		t.Error("cards were filtered against an empty entity set")
	}
	if len(log.warnings) != 1 {
		t.Errorf("got %d warnings, want 1", len(log.warnings))
	}
}

func TestDeduplicateCards(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{{
			Name: "Hall",
			Cards: []*config.Card{
				config.NewCardFrom("type", "light", "entity", "light.a"),
				// Same structure, different key order: still a duplicate.
				config.NewCardFrom("entity", "light.a", "type", "light"),
				// Same entity but structurally distinct: kept.
				config.NewCardFrom("type", "light", "entity", "light.a", "name", "Lamp"),
				lightCard("light.b"),
			},
		}},
	}

	DeduplicateCards(cfg)

	got := cfg.Rooms[0].Cards
	if len(got) != 3 {
		t.Fatalf("got %d cards after dedup, want 3", len(got))
	}
	if got[0].Keys()[0] != "type" {
		t.Error("first occurrence did not win")
	}
	if got[1].GetString("name") != "Lamp" {
		t.Errorf("structurally distinct card dropped")
	}
	if got[2].Entity() != "light.b" {
		t.Errorf("unrelated card dropped")
	}
}

func TestDeduplicateCards_NonMappingKept(t *testing.T) {
	var scalar1, scalar2 config.Card
	if err := yaml.Unmarshal([]byte(`broken`), &scalar1); err != nil {
		t.Fatalf("unmarshal scalar: %v", err)
	}
	if err := yaml.Unmarshal([]byte(`broken`), &scalar2); err != nil {
		t.Fatalf("unmarshal scalar: %v", err)
	}
	cfg := &config.Config{
		Rooms: []*config.Room{{
			Name:  "Hall",
			Cards: []*config.Card{&scalar1, &scalar2},
		}},
	}

	DeduplicateCards(cfg)

	if len(cfg.Rooms[0].Cards) != 2 {
		t.Errorf("non-mapping entries were deduplicated, got %d", len(cfg.Rooms[0].Cards))
	}
}

func TestDeduplicateCards_PerRoomScope(t *testing.T) {
	cfg := &config.Config{
		Rooms: []*config.Room{
			{Name: "A", Cards: []*config.Card{lightCard("light.x")}},
			{Name: "B", Cards: []*config.Card{lightCard("light.x")}},
		},
	}

	DeduplicateCards(cfg)

	if len(cfg.Rooms[0].Cards) != 1 || len(cfg.Rooms[1].Cards) != 1 {
		t.Error("deduplication crossed room boundaries")
	}
}
