package translation

import (
	"embed"
	"encoding/json"
	"os"
	"path/filepath"
	"sync"
)

//go:embed translations/*.json
var builtin embed.FS

// Logger is the minimal logging interface used by the catalog.
type Logger interface {
	Warn(msg string, args ...any)
}

type noopLogger struct{}

func (noopLogger) Warn(string, ...any) {}

// Catalog resolves message keys to localized strings. Tables are loaded
// lazily, one file per language, and cached for the lifetime of the
// catalog. A missing file or key falls back to the caller-supplied default
// and is never an error.
//
// Each pipeline run owns (or is handed) its catalog explicitly; nothing is
// shared through package-level state, so unrelated runs and tests cannot
// observe each other's tables.
type Catalog struct {
	// overrideDir, when non-empty, is searched before the embedded
	// tables so installations can ship their own translations.
	overrideDir string

	mu     sync.Mutex
	tables map[string]map[string]string
	logger Logger
}

// NewCatalog returns a catalog backed by the embedded translation tables.
func NewCatalog() *Catalog {
	return &Catalog{
		tables: make(map[string]map[string]string),
		logger: noopLogger{},
	}
}

// NewCatalogWithOverrides returns a catalog that prefers JSON tables from
// dir (<dir>/<lang>.json) over the embedded ones.
func NewCatalogWithOverrides(dir string) *Catalog {
	c := NewCatalog()
	c.overrideDir = dir
	return c
}

// SetLogger sets the logger used for load failures.
func (c *Catalog) SetLogger(logger Logger) {
	if logger != nil {
		c.logger = logger
	}
}

// Lookup returns the localized string for key in the given language, or
// fallback when the language table or the key is missing.
func (c *Catalog) Lookup(key, lang, fallback string) string {
	table := c.load(lang)
	if s, ok := table[key]; ok {
		return s
	}
	return fallback
}

// load returns the (possibly empty) table for lang, reading it on first
// use. Failed loads are cached as empty so the miss is logged only once.
func (c *Catalog) load(lang string) map[string]string {
	c.mu.Lock()
	defer c.mu.Unlock()

	if table, ok := c.tables[lang]; ok {
		return table
	}

	table := c.read(lang)
	c.tables[lang] = table
	return table
}

func (c *Catalog) read(lang string) map[string]string {
	name := lang + ".json"

	if c.overrideDir != "" {
		if data, err := os.ReadFile(filepath.Join(c.overrideDir, name)); err == nil {
			if table, err := parseTable(data); err == nil {
				return table
			}
			c.logger.Warn("ignoring malformed translation override", "lang", lang)
		}
	}

	data, err := builtin.ReadFile("translations/" + name)
	if err != nil {
		return map[string]string{}
	}
	table, err := parseTable(data)
	if err != nil {
		c.logger.Warn("ignoring malformed embedded translation table", "lang", lang)
		return map[string]string{}
	}
	return table
}

func parseTable(data []byte) (map[string]string, error) {
	table := make(map[string]string)
	if err := json.Unmarshal(data, &table); err != nil {
		return nil, err
	}
	return table, nil
}
