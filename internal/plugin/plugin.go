package plugin

import (
	"context"
	"fmt"
	"sort"
	"sync"

	"github.com/shi-home/smart-dashboard/internal/config"
	infconfig "github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/translation"
)

// Logger is the minimal logging interface used by this package.
type Logger interface {
	Warn(msg string, args ...any)
	Error(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any)  {}
func (noopLogger) Error(string, ...any) {}

// Env carries everything a transform may need besides the dashboard
// configuration itself.
type Env struct {
	// Settings are the tool settings (plugin directories and the like).
	Settings *infconfig.Config

	// Catalog and Lang localize any text a transform injects.
	Catalog *translation.Catalog
	Lang    string

	// Log is never nil inside a transform.
	Log Logger
}

// Transform mutates the dashboard configuration in place. Returned
// errors disable nothing: the pipeline logs them and moves on.
type Transform func(ctx context.Context, env *Env, cfg *config.Config) error

// Registry holds named transforms and runs them in a deterministic
// order.
type Registry struct {
	mu         sync.RWMutex
	transforms map[string]Transform
}

// NewRegistry returns an empty registry.
func NewRegistry() *Registry {
	return &Registry{transforms: make(map[string]Transform)}
}

// Register adds a transform under a unique name.
func (r *Registry) Register(name string, fn Transform) error {
	if name == "" || fn == nil {
		return fmt.Errorf("%w: name and transform are required", ErrInvalidPlugin)
	}

	r.mu.Lock()
	defer r.mu.Unlock()
	if _, exists := r.transforms[name]; exists {
		return fmt.Errorf("%w: %q", ErrDuplicatePlugin, name)
	}
	r.transforms[name] = fn
	return nil
}

// Names returns the registered plugin names in run order, which is
// lexicographic so a run never depends on registration order.
func (r *Registry) Names() []string {
	r.mu.RLock()
	defer r.mu.RUnlock()

	names := make([]string, 0, len(r.transforms))
	for name := range r.transforms {
		names = append(names, name)
	}
	sort.Strings(names)
	return names
}

// Apply runs every registered transform against the configuration.
//
// Transforms are isolated from each other: an error or panic in one is
// logged and the remaining transforms still run against whatever state
// the configuration is in. A broken plugin thus degrades its own feature
// without taking the generation run down.
func (r *Registry) Apply(ctx context.Context, env *Env, cfg *config.Config) {
	if env.Log == nil {
		env.Log = noopLogger{}
	}

	for _, name := range r.Names() {
		r.mu.RLock()
		fn := r.transforms[name]
		r.mu.RUnlock()

		r.runIsolated(ctx, name, fn, env, cfg)
	}
}

func (r *Registry) runIsolated(ctx context.Context, name string, fn Transform, env *Env, cfg *config.Config) {
	defer func() {
		if rec := recover(); rec != nil {
			env.Log.Error("plugin panicked", "plugin", name, "panic", rec)
		}
	}()

	if err := fn(ctx, env, cfg); err != nil {
		env.Log.Warn("plugin failed", "plugin", name, "error", err)
	}
}

// DefaultRegistry returns a registry with the built-in transforms,
// minus those disabled in the settings.
func DefaultRegistry(settings *infconfig.Config) *Registry {
	r := NewRegistry()
	builtins := map[string]Transform{
		"blueprint_loader":      BlueprintLoader,
		"dwains_style":          DwainsStyle,
		"header_card":           HeaderCard,
		"lovelace_cards_loader": LovelaceCardsLoader,
	}
	for name, fn := range builtins {
		if settings != nil && settings.PluginDisabled(name) {
			continue
		}
		// Registration into a fresh registry cannot collide.
		_ = r.Register(name, fn)
	}
	return r
}
