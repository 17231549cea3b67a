// smartdash compiles a declarative dashboard configuration into a
// renderable layout document.
//
// The generate command runs the full pipeline: load and validate the
// configuration, query the entity inventory, run the plugin pipeline,
// filter, deduplicate and synthesize views. The edit commands perform
// small structural changes on a configuration file without a full
// regeneration.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	infconfig "github.com/shi-home/smart-dashboard/internal/infrastructure/config"
	"github.com/shi-home/smart-dashboard/internal/infrastructure/logging"
)

// Version information - set at build time via ldflags
// Example: go build -ldflags "-X main.version=1.0.0 -X main.commit=abc123"
var (
	version = "dev"     // Semantic version (e.g., "1.0.0")
	commit  = "unknown" // Git commit hash
	date    = "unknown" // Build date
)

// settingsEnvVar names the settings file when the --settings flag is
// not given.
const settingsEnvVar = "SMARTDASH_SETTINGS"

// settings holds the loaded tool settings, populated before any
// subcommand runs.
var settings *infconfig.Config

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)

	root := newRootCmd()
	root.SetContext(ctx)

	err := root.Execute()
	stop()
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error: %v\n", err)
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	var settingsPath string

	cmd := &cobra.Command{
		Use:           "smartdash",
		Short:         "Compile dashboard configurations into layout documents",
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
			path := settingsPath
			if path == "" {
				path = os.Getenv(settingsEnvVar)
			}
			var err error
			settings, err = infconfig.Load(path)
			if err != nil {
				return fmt.Errorf("loading settings: %w", err)
			}
			return nil
		},
	}

	cmd.PersistentFlags().StringVar(&settingsPath, "settings", "",
		"tool settings file (default $"+settingsEnvVar+", built-in defaults otherwise)")

	cmd.AddCommand(
		generateCmd(),
		editCmd(),
		versionCmd(),
	)
	return cmd
}

// newLogger builds the logger from loaded settings, falling back to the
// early-startup default when settings are not available yet.
func newLogger() *logging.Logger {
	if settings == nil {
		return logging.Default()
	}
	return logging.New(settings.Logging, version)
}

func versionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Run: func(cmd *cobra.Command, args []string) {
			fmt.Printf("smartdash %s (commit %s, built %s)\n", version, commit, date)
		},
	}
}
