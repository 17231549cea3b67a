// Package config loads the generator tool's own settings.
//
// These are the operational knobs of the tool (logging, which inventory
// backend to talk to, plugin directories, telemetry), not the dashboard
// configuration being compiled. Settings come from a YAML file with
// hardcoded defaults underneath and environment variable overrides on
// top; a missing file is fine and yields defaults plus environment.
package config
