package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
)

// Loaded is the outcome of Load. Exists is false when no config file was
// found and the built-in defaults were used instead.
type Loaded struct {
	Path     string
	Exists   bool
	Config   Config
	Warnings []Warning
}

// Load builds the effective runtime configuration. When the resolved
// config.conf is absent, a sibling config.yml is tried before falling back
// to defaults.
func Load(explicitPath string) (Loaded, error) {
	path, content, found, err := locateConfig(explicitPath)
	if err != nil {
		return Loaded{}, err
	}

	base := Default()
	if !found {
		warning := Warning{Message: fmt.Sprintf("config file %q not found; using defaults", path)}
		return Loaded{Path: path, Config: base, Warnings: []Warning{warning}}, nil
	}

	cfg, warnings, err := Parse(string(content), base)
	if err != nil {
		return Loaded{}, fmt.Errorf("parse config %q: %w", path, err)
	}
	return Loaded{Path: path, Exists: true, Config: cfg, Warnings: warnings}, nil
}

// locateConfig resolves the effective config path and reads it, trying a
// sibling config.yml when the default-resolved file is absent. found is
// false when neither exists.
func locateConfig(explicitPath string) (string, []byte, bool, error) {
	path, err := ResolvePath(explicitPath)
	if err != nil {
		return "", nil, false, err
	}

	content, err := os.ReadFile(path)
	switch {
	case err == nil:
		return path, content, true, nil
	case !errors.Is(err, os.ErrNotExist):
		return path, nil, false, fmt.Errorf("read config %q: %w", path, err)
	}

	if explicitPath == "" {
		sibling := filepath.Join(filepath.Dir(path), "config.yml")
		if siblingContent, siblingErr := os.ReadFile(sibling); siblingErr == nil {
			return sibling, siblingContent, true, nil
		}
	}
	return path, nil, false, nil
}
