package dashboard

import "github.com/shi-home/smart-dashboard/internal/config"

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// FilterExistingEntities drops cards that reference an entity absent from
// the known-entity set. Cards without an entity are always kept. An empty
// set means the inventory could not be queried; filtering is skipped
// entirely so an unreachable inventory never empties the dashboard.
func FilterExistingEntities(cfg *config.Config, known map[string]struct{}, log Logger) {
	if log == nil {
		log = noopLogger{}
	}
	if len(known) == 0 {
		log.Warn("entity list empty, skipping entity filtering")
		return
	}
	for _, room := range cfg.Rooms {
		kept := room.Cards[:0]
		for _, card := range room.Cards {
			if entity := card.Entity(); entity != "" {
				if _, ok := known[entity]; !ok {
					continue
				}
			}
			kept = append(kept, card)
		}
		room.Cards = kept
	}
}

// DeduplicateCards removes structurally identical duplicate cards within
// each room. Identity is the full key-order-independent structural
// fingerprint, not just the entity; the first occurrence wins and the
// order of survivors is preserved. Malformed (non-mapping) entries are
// never deduplicated against anything.
func DeduplicateCards(cfg *config.Config) {
	for _, room := range cfg.Rooms {
		seen := make(map[string]struct{}, len(room.Cards))
		kept := room.Cards[:0]
		for _, card := range room.Cards {
			if card.IsMapping() {
				key := card.CanonicalKey()
				if _, dup := seen[key]; dup {
					continue
				}
				seen[key] = struct{}{}
			}
			kept = append(kept, card)
		}
		room.Cards = kept
	}
}
