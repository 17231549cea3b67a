package generator

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/shi-home/smart-dashboard/internal/condition"
	"github.com/shi-home/smart-dashboard/internal/config"
	"github.com/shi-home/smart-dashboard/internal/dashboard"
	"github.com/shi-home/smart-dashboard/internal/discovery"
	infconfig "github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/influxdb"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/logging"
	"github.com/shi-home/smart-dashboard/internal/inventory"
	"github.com/shi-home/smart-dashboard/internal/plugin"
	"github.com/shi-home/smart-dashboard/internal/translation"
)

// Options selects the input and output of a single generation run.
type Options struct {
	// ConfigPath is the dashboard configuration to compile.
	ConfigPath string

	// OutputPath is where the generated document lands.
	OutputPath string

	// TemplatePath, when set, renders the processed configuration
	// through a custom template instead of the built-in view builder.
	TemplatePath string
}

// Result summarizes a completed run.
type Result struct {
	RunID      string
	OutputPath string
	Rooms      int
	Views      int
	Cards      int
	Duration   time.Duration
}

// Generator wires the whole pipeline together: configuration loading,
// discovery, plugins, condition filtering, entity filtering,
// deduplication, view synthesis and output.
type Generator struct {
	settings  *infconfig.Config
	log       *logging.Logger
	registry  *plugin.Registry
	catalog   *translation.Catalog
	telemetry *influxdb.Client
}

// New builds a generator from loaded settings.
//
// Telemetry is attached opportunistically: a disabled endpoint is
// silent, an unreachable one costs a warning but never a run.
func New(settings *infconfig.Config, log *logging.Logger) *Generator {
	catalog := translation.NewCatalogWithOverrides(settings.Overrides.TranslationsDir)
	catalog.SetLogger(log)

	g := &Generator{
		settings: settings,
		log:      log,
		registry: plugin.DefaultRegistry(settings),
		catalog:  catalog,
	}

	telemetry, err := influxdb.Connect(settings.Telemetry)
	switch {
	case err == nil:
		g.telemetry = telemetry
	case errors.Is(err, influxdb.ErrDisabled):
		// Not configured; nothing to do.
	default:
		log.Warn("telemetry unavailable", "error", err)
	}

	return g
}

// Close releases the generator's long-lived resources.
func (g *Generator) Close() error {
	if g.telemetry != nil {
		return g.telemetry.Close()
	}
	return nil
}

// Generate runs the full pipeline once.
//
// Failures split into two classes. Anything that would corrupt or lose
// authored content (unreadable configuration, failed validation, failed
// write) aborts the run. Everything environmental (unreachable
// inventory, failed discovery, broken plugin) degrades: the run
// completes on the authored configuration alone.
func (g *Generator) Generate(ctx context.Context, opts Options) (*Result, error) {
	start := time.Now()
	runID := uuid.New().String()
	log := g.log.With("run_id", runID)

	result, err := g.run(ctx, opts, runID, log)

	duration := time.Since(start)
	g.recordRun(ctx, runID, result, duration, err == nil)

	if err != nil {
		return nil, err
	}
	result.Duration = duration
	log.Info("dashboard generated",
		"output", result.OutputPath,
		"rooms", result.Rooms,
		"views", result.Views,
		"cards", result.Cards,
		"duration", duration,
	)
	return result, nil
}

func (g *Generator) run(ctx context.Context, opts Options, runID string, log *logging.Logger) (*Result, error) {
	cfg, err := config.Load(opts.ConfigPath)
	if err != nil {
		return nil, fmt.Errorf("loading dashboard configuration: %w", err)
	}

	lang := g.settings.Language

	src, err := inventory.New(g.settings, g.log)
	if err != nil {
		log.Warn("inventory source unavailable", "error", err)
		src = nil
	}
	if src != nil {
		defer src.Close() //nolint:errcheck // Best effort cleanup
	}

	known := inventory.KnownEntities(ctx, src, log)

	if cfg.AutoDiscover {
		switch {
		case src == nil:
			log.Warn("auto discovery requested but no inventory source is available")
		case len(known) == 0:
			log.Warn("auto discovery disabled: inventory returned no entities")
		default:
			rooms, err := discovery.Discover(ctx, src, g.catalog, lang, log)
			if err != nil {
				log.Warn("auto discovery failed, continuing without it", "error", err)
			} else {
				cfg.Rooms = append(cfg.Rooms, rooms...)
			}
		}
	}

	g.registry.Apply(ctx, &plugin.Env{
		Settings: g.settings,
		Catalog:  g.catalog,
		Lang:     lang,
		Log:      log,
	}, cfg)

	condition.New(log).Apply(cfg)

	dashboard.FilterExistingEntities(cfg, known, log)
	dashboard.DeduplicateCards(cfg)

	result := &Result{
		RunID:      runID,
		OutputPath: opts.OutputPath,
		Rooms:      len(cfg.Rooms),
	}

	if opts.TemplatePath != "" {
		if err := renderTemplate(opts.TemplatePath, opts.OutputPath, cfg); err != nil {
			return nil, err
		}
		result.Cards = countCards(cfg)
		return result, nil
	}

	doc := dashboard.Build(cfg, g.catalog, lang)
	if err := dashboard.WriteFile(opts.OutputPath, doc); err != nil {
		return nil, fmt.Errorf("writing dashboard: %w", err)
	}

	result.Views = len(doc.Views)
	result.Cards = countCards(cfg)
	return result, nil
}

// recordRun writes run telemetry when a telemetry endpoint is attached.
func (g *Generator) recordRun(ctx context.Context, runID string, result *Result, duration time.Duration, success bool) {
	if g.telemetry == nil {
		return
	}

	run := influxdb.GenerationRun{
		RunID:    runID,
		Source:   g.settings.Inventory.Source,
		Success:  success,
		Duration: duration,
	}
	if result != nil {
		run.Rooms = result.Rooms
		run.Views = result.Views
		run.Cards = result.Cards
	}
	if err := g.telemetry.WriteGenerationRun(ctx, run); err != nil {
		g.log.Warn("recording run telemetry failed", "error", err)
	}
}

func countCards(cfg *config.Config) int {
	n := 0
	for _, room := range cfg.Rooms {
		n += len(room.Cards)
	}
	return n
}
