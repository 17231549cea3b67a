package config

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config is the root settings structure for the generator tool itself,
// as opposed to the dashboard configuration it compiles. All settings are
// loaded from YAML and can be overridden by environment variables.
type Config struct {
	Language  string          `yaml:"language"`
	Logging   LoggingConfig   `yaml:"logging"`
	Inventory InventoryConfig `yaml:"inventory"`
	Plugins   PluginsConfig   `yaml:"plugins"`
	Telemetry TelemetryConfig `yaml:"telemetry"`
	Overrides OverridesConfig `yaml:"overrides"`
}

// LoggingConfig contains logging settings.
type LoggingConfig struct {
	Level  string `yaml:"level"`
	Format string `yaml:"format"`
	Output string `yaml:"output"`
}

// InventoryConfig selects and configures the entity inventory backend.
//
// Source picks the backend: "remote" queries a running Home Assistant
// instance over HTTP and WebSocket, "registry" reads an exported registry
// database, "mqtt" collects retained discovery announcements from a
// broker, and "none" disables discovery entirely.
type InventoryConfig struct {
	Source   string         `yaml:"source"`
	Remote   RemoteConfig   `yaml:"remote"`
	Registry RegistryConfig `yaml:"registry"`
	MQTT     MQTTConfig     `yaml:"mqtt"`
}

// RemoteConfig contains connection settings for a live Home Assistant
// instance.
type RemoteConfig struct {
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Timeout int    `yaml:"timeout"`
}

// RegistryConfig contains settings for the SQLite registry backend.
type RegistryConfig struct {
	Path        string `yaml:"path"`
	WALMode     bool   `yaml:"wal_mode"`
	BusyTimeout int    `yaml:"busy_timeout"`
}

// MQTTConfig contains MQTT broker connection settings for the discovery
// topic backend.
type MQTTConfig struct {
	Broker          MQTTBrokerConfig `yaml:"broker"`
	Auth            MQTTAuthConfig   `yaml:"auth"`
	QoS             int              `yaml:"qos"`
	DiscoveryPrefix string           `yaml:"discovery_prefix"`
	CollectWindow   int              `yaml:"collect_window"`
}

// MQTTBrokerConfig contains MQTT broker connection details.
type MQTTBrokerConfig struct {
	Host     string `yaml:"host"`
	Port     int    `yaml:"port"`
	TLS      bool   `yaml:"tls"`
	ClientID string `yaml:"client_id"`
}

// MQTTAuthConfig contains MQTT authentication credentials.
type MQTTAuthConfig struct {
	Username string `yaml:"username"`
	Password string `yaml:"password"`
}

// PluginsConfig configures the transformation plugin pipeline.
type PluginsConfig struct {
	// BlueprintDir is where the blueprint loader looks for room blueprint
	// files. Empty disables blueprint loading.
	BlueprintDir string `yaml:"blueprint_dir"`

	// Disabled lists plugin names excluded from the pipeline.
	Disabled []string `yaml:"disabled"`
}

// TelemetryConfig contains optional InfluxDB settings for recording
// generation runs.
type TelemetryConfig struct {
	Enabled bool   `yaml:"enabled"`
	URL     string `yaml:"url"`
	Token   string `yaml:"token"`
	Org     string `yaml:"org"`
	Bucket  string `yaml:"bucket"`
}

// OverridesConfig points at local directories that override built-in
// assets.
type OverridesConfig struct {
	// TranslationsDir overrides the embedded translation tables.
	TranslationsDir string `yaml:"translations_dir"`
}

// Load reads tool settings from a YAML file and applies environment
// variable overrides.
//
// The loading order is:
//  1. Default values (hardcoded)
//  2. YAML file values (override defaults)
//  3. Environment variables (override file values)
//
// A missing settings file is not an error: the tool is expected to work
// out of the box with defaults plus environment variables. Environment
// variables follow the pattern SMARTDASH_SECTION_KEY, with HASS_URL and
// HASS_TOKEN honoured for the remote backend.
func Load(path string) (*Config, error) {
	cfg := defaultConfig()

	data, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults plus env only.
	case err != nil:
		return nil, fmt.Errorf("reading settings file: %w", err)
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parsing settings file: %w", err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("validating settings: %w", err)
	}

	return cfg, nil
}

// defaultConfig returns a Config with sensible defaults.
func defaultConfig() *Config {
	return &Config{
		Language: "en",
		Logging: LoggingConfig{
			Level:  "info",
			Format: "text",
			Output: "stderr",
		},
		Inventory: InventoryConfig{
			Source: "remote",
			Remote: RemoteConfig{
				URL:     "http://localhost:8123",
				Timeout: 10,
			},
			Registry: RegistryConfig{
				Path:        "./data/registry.db",
				WALMode:     true,
				BusyTimeout: 5,
			},
			MQTT: MQTTConfig{
				Broker: MQTTBrokerConfig{
					Host:     "localhost",
					Port:     1883,
					ClientID: "smartdash",
				},
				QoS:             1,
				DiscoveryPrefix: "homeassistant",
				CollectWindow:   2,
			},
		},
	}
}

// applyEnvOverrides applies environment variable overrides.
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("SMARTDASH_LANGUAGE"); v != "" {
		cfg.Language = v
	}
	if v := os.Getenv("SMARTDASH_LOG_LEVEL"); v != "" {
		cfg.Logging.Level = v
	}

	// Remote backend. The HASS_* pair is the convention the wider
	// ecosystem already uses, so it is honoured alongside SMARTDASH_*.
	if v := os.Getenv("SMARTDASH_REMOTE_URL"); v != "" {
		cfg.Inventory.Remote.URL = v
	} else if v := os.Getenv("HASS_URL"); v != "" {
		cfg.Inventory.Remote.URL = v
	}
	if v := os.Getenv("SMARTDASH_REMOTE_TOKEN"); v != "" {
		cfg.Inventory.Remote.Token = v
	} else if v := os.Getenv("HASS_TOKEN"); v != "" {
		cfg.Inventory.Remote.Token = v
	}

	if v := os.Getenv("SMARTDASH_REGISTRY_PATH"); v != "" {
		cfg.Inventory.Registry.Path = v
	}

	if v := os.Getenv("SMARTDASH_MQTT_HOST"); v != "" {
		cfg.Inventory.MQTT.Broker.Host = v
	}
	if v := os.Getenv("SMARTDASH_MQTT_USERNAME"); v != "" {
		cfg.Inventory.MQTT.Auth.Username = v
	}
	if v := os.Getenv("SMARTDASH_MQTT_PASSWORD"); v != "" {
		cfg.Inventory.MQTT.Auth.Password = v
	}

	if v := os.Getenv("SMARTDASH_INFLUXDB_TOKEN"); v != "" {
		cfg.Telemetry.Token = v
	}
}

// Validate checks the settings for errors.
func (c *Config) Validate() error {
	var errs []string

	if c.Language == "" {
		errs = append(errs, "language is required")
	}

	switch c.Inventory.Source {
	case "remote", "registry", "mqtt", "none":
	default:
		errs = append(errs, "inventory.source must be one of: remote, registry, mqtt, none")
	}

	if c.Inventory.Source == "remote" && c.Inventory.Remote.URL == "" {
		errs = append(errs, "inventory.remote.url is required (or set HASS_URL)")
	}
	if c.Inventory.Source == "registry" && c.Inventory.Registry.Path == "" {
		errs = append(errs, "inventory.registry.path is required")
	}
	if c.Inventory.MQTT.QoS < 0 || c.Inventory.MQTT.QoS > 2 {
		errs = append(errs, "inventory.mqtt.qos must be 0, 1, or 2")
	}
	if p := c.Inventory.MQTT.Broker.Port; p < 1 || p > 65535 {
		errs = append(errs, "inventory.mqtt.broker.port must be between 1 and 65535")
	}

	if c.Telemetry.Enabled {
		if c.Telemetry.URL == "" {
			errs = append(errs, "telemetry.url is required when telemetry is enabled")
		}
		if c.Telemetry.Bucket == "" {
			errs = append(errs, "telemetry.bucket is required when telemetry is enabled")
		}
	}

	if len(errs) > 0 {
		return fmt.Errorf("settings errors: %s", strings.Join(errs, "; "))
	}

	return nil
}

// RemoteTimeout returns the remote backend request timeout as a Duration.
func (c *Config) RemoteTimeout() time.Duration {
	return time.Duration(c.Inventory.Remote.Timeout) * time.Second
}

// MQTTCollectWindow returns how long the MQTT backend listens for
// retained discovery announcements.
func (c *Config) MQTTCollectWindow() time.Duration {
	return time.Duration(c.Inventory.MQTT.CollectWindow) * time.Second
}

// PluginDisabled reports whether a plugin name is listed as disabled.
func (c *Config) PluginDisabled(name string) bool {
	for _, d := range c.Plugins.Disabled {
		if d == name {
			return true
		}
	}
	return false
}
