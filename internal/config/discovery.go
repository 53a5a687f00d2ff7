package config

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

const (
	AppName   = "esa-reader"
	FileName  = "config.yaml"
	EnvConfig = "ESA_READER_CONFIG"
)

// Discovery is the outcome of searching the standard config locations.
type Discovery struct {
	Existing    string
	Recommended string
	Candidates  []string
}

func (d Discovery) Found() bool {
	return d.Existing != ""
}

// Candidates lists config locations in priority order, without duplicates.
func Candidates() []string {
	var out []string
	if p := strings.TrimSpace(os.Getenv(EnvConfig)); p != "" {
		out = append(out, p)
	}
	if xdg := os.Getenv("XDG_CONFIG_HOME"); xdg != "" {
		out = append(out, filepath.Join(xdg, AppName, FileName))
	}
	if home := os.Getenv("HOME"); home != "" {
		out = append(out,
			filepath.Join(home, ".config", AppName, FileName),
			filepath.Join(home, "Library", "Application Support", AppName, FileName),
			filepath.Join(home, "."+AppName, FileName),
		)
	}
	return dedupPaths(out)
}

func Find() (Discovery, error) {
	candidates := Candidates()
	if len(candidates) == 0 {
		return Discovery{}, fmt.Errorf("no config locations available: set %s or HOME", EnvConfig)
	}
	d := Discovery{Recommended: candidates[0], Candidates: candidates}
	for _, p := range candidates {
		if info, err := os.Stat(p); err == nil && info.Mode().IsRegular() {
			d.Existing = p
			break
		}
	}
	return d, nil
}

func EnsureParentDir(path string) error {
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return fmt.Errorf("create config directory: %w", err)
	}
	return nil
}

func dedupPaths(paths []string) []string {
	seen := make(map[string]struct{}, len(paths))
	out := make([]string, 0, len(paths))
	for _, p := range paths {
		p = filepath.Clean(p)
		if _, ok := seen[p]; ok {
			continue
		}
		seen[p] = struct{}{}
		out = append(out, p)
	}
	return out
}
