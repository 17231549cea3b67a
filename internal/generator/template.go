package generator

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"text/template"

	"github.com/shi-home/smart-dashboard/internal/config"
	"github.com/shi-home/smart-dashboard/internal/dashboard"
)

// templateData is what a custom output template executes against.
type templateData struct {
	// Config is the fully processed dashboard configuration.
	Config *config.Config

	// Rooms aliases Config.Rooms for shorter templates.
	Rooms []*config.Room
}

// templateFuncs are helpers available inside output templates.
var templateFuncs = template.FuncMap{
	"slugify": dashboard.Slugify,
}

// renderTemplate renders the processed configuration through a custom
// template and writes the result atomically. This is the escape hatch
// for output formats the built-in view builder does not produce.
func renderTemplate(templatePath, outputPath string, cfg *config.Config) error {
	tmpl, err := template.New(filepath.Base(templatePath)).
		Funcs(templateFuncs).
		ParseFiles(templatePath)
	if err != nil {
		return fmt.Errorf("parsing output template: %w", err)
	}

	var buf bytes.Buffer
	if err := tmpl.Execute(&buf, templateData{Config: cfg, Rooms: cfg.Rooms}); err != nil {
		return fmt.Errorf("rendering output template: %w", err)
	}

	return writeFileAtomic(outputPath, buf.Bytes())
}

// writeFileAtomic writes data via a temporary file and rename, so
// concurrent runs targeting the same path interleave whole files, never
// partial ones.
func writeFileAtomic(path string, data []byte) error {
	dir := filepath.Dir(path)
	tmp, err := os.CreateTemp(dir, ".smartdash-*")
	if err != nil {
		return fmt.Errorf("creating temporary output: %w", err)
	}
	tmpName := tmp.Name()
	defer os.Remove(tmpName)

	if _, err := tmp.Write(data); err != nil {
		tmp.Close()
		return fmt.Errorf("writing output: %w", err)
	}
	if err := tmp.Close(); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Chmod(tmpName, 0644); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	if err := os.Rename(tmpName, path); err != nil {
		return fmt.Errorf("writing output: %w", err)
	}
	return nil
}
