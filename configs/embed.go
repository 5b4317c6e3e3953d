package configs

import (
	"embed"
	"fmt"
	"os"
	"path/filepath"
	"strings"
)

//go:embed scenarios/*.tengo
var ScenariosFS embed.FS

// LoadScenario reads an embedded scenario script, preferring a disk copy so
// scripts can be edited during balancing runs.
func LoadScenario(name string) ([]byte, error) {
	clean := cleanScenarioPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return ScenariosFS.ReadFile(clean)
}

//go:embed *.yaml
var SpecsFS embed.FS

// Load reads a session spec by name, preferring a disk copy under configs/
// over the embedded one.
func Load(name string) ([]byte, error) {
	clean := cleanSpecPath(name)
	if data, err := os.ReadFile(diskPath(clean)); err == nil {
		return data, nil
	}
	return SpecsFS.ReadFile(clean)
}

func cleanSpecPath(path string) string {
	if path == "" {
		return ""
	}
	s := filepath.ToSlash(path)
	if after, ok := strings.CutPrefix(s, "configs/"); ok {
		return after
	}
	return s
}

func cleanScenarioPath(path string) string {
	if path == "" {
		return ""
	}

	s := filepath.ToSlash(path)

	if after, ok := strings.CutPrefix(s, "configs/scenarios/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "configs/"); ok {
		s = after
	}

	if after, ok := strings.CutPrefix(s, "scenarios/"); ok {
		s = after
	}

	return fmt.Sprintf("scenarios/%s", s)
}

func diskPath(clean string) string {
	return filepath.Join("configs", filepath.FromSlash(clean))
}
