package plugin

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/shi-home/smart-dashboard/internal/config"
)

// BlueprintLoader appends rooms defined as standalone blueprint files.
//
// Every .yaml/.yml file in the configured blueprint directory holds one
// room in the same schema as a rooms list entry. Files load in filename
// order so the resulting room list is stable. An unset directory
// disables the plugin silently; a configured but unreadable directory is
// an error.
func BlueprintLoader(_ context.Context, env *Env, cfg *config.Config) error {
	if env.Settings == nil {
		return nil
	}
	dir := env.Settings.Plugins.BlueprintDir
	if dir == "" {
		return nil
	}

	entries, err := os.ReadDir(dir)
	if err != nil {
		return fmt.Errorf("reading blueprint directory: %w", err)
	}

	var files []string
	for _, entry := range entries {
		if entry.IsDir() {
			continue
		}
		switch strings.ToLower(filepath.Ext(entry.Name())) {
		case ".yaml", ".yml":
			files = append(files, entry.Name())
		}
	}
	sort.Strings(files)

	for _, name := range files {
		data, err := os.ReadFile(filepath.Join(dir, name))
		if err != nil {
			return fmt.Errorf("reading blueprint %s: %w", name, err)
		}
		room := &config.Room{}
		if err := yaml.Unmarshal(data, room); err != nil {
			return fmt.Errorf("parsing blueprint %s: %w", name, err)
		}
		cfg.Rooms = append(cfg.Rooms, room)
	}
	return nil
}
