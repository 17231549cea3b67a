package inventory

import "context"

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
}

// KnownEntities returns the set of entity IDs the source knows about.
//
// A failing or nil source yields an empty set with a warning rather than
// an error: downstream filtering treats an empty set as "inventory
// unavailable" and skips filtering instead of emptying the dashboard.
func KnownEntities(ctx context.Context, src Source, log Logger) map[string]struct{} {
	known := make(map[string]struct{})
	if src == nil {
		return known
	}

	states, err := src.States(ctx)
	if err != nil {
		if log != nil {
			log.Warn("could not fetch entity states, entity filtering disabled",
				"source", src.Name(), "error", err)
		}
		return known
	}
	for _, s := range states {
		known[s.EntityID] = struct{}{}
	}
	return known
}
