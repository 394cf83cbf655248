package main

import (
	"fmt"
	"os"
	"path/filepath"
	"sort"

	"github.com/BurntSushi/toml"
)

// projectConfig is the incan.toml project manifest.
type projectConfig struct {
	Package struct {
		Name string `toml:"name"`
	} `toml:"package"`
	Build struct {
		Main string `toml:"main"`
	} `toml:"build"`

	Root string `toml:"-"` // directory holding incan.toml
}

// findConfig walks up from dir looking for incan.toml. A missing manifest is
// not an error; the caller falls back to defaults.
func findConfig(dir string) (*projectConfig, bool, error) {
	abs, err := filepath.Abs(dir)
	if err != nil {
		return nil, false, err
	}
	for {
		path := filepath.Join(abs, "incan.toml")
		if _, err := os.Stat(path); err == nil {
			var cfg projectConfig
			if _, err := toml.DecodeFile(path, &cfg); err != nil {
				return nil, false, fmt.Errorf("parsing %s: %w", path, err)
			}
			cfg.Root = abs
			if cfg.Package.Name == "" {
				cfg.Package.Name = filepath.Base(abs)
			}
			if cfg.Build.Main == "" {
				cfg.Build.Main = "main"
			}
			return &cfg, true, nil
		}
		parent := filepath.Dir(abs)
		if parent == abs {
			return nil, false, nil
		}
		abs = parent
	}
}

// collectSources lists the .in files directly under root, sorted by name.
func collectSources(root string) ([]string, error) {
	matches, err := filepath.Glob(filepath.Join(root, "*.in"))
	if err != nil {
		return nil, err
	}
	if len(matches) == 0 {
		return nil, fmt.Errorf("no .in files found under %s", root)
	}
	sort.Strings(matches)
	return matches, nil
}
