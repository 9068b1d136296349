package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"
)

// DefaultConfigFile is the configuration file name looked up in the
// current and home directories.
const DefaultConfigFile = ".notices.yaml"

// xdgConfigFile is the configuration file name inside XDGConfigDir.
const xdgConfigFile = "config.yaml"

// ErrConfigNotFound is returned when the configuration file does not exist.
var ErrConfigNotFound = errors.New("configuration file not found")

// File represents the structure of the .notices.yaml configuration file.
type File struct {
	// Project is the project name shown in the document title.
	Project string `yaml:"project,omitempty"`

	// Output is the default output file path.
	Output string `yaml:"output,omitempty"`

	// Format is the default output format (markdown or json).
	Format string `yaml:"format,omitempty"`

	// PURLType is the package URL type used for JSON output.
	PURLType string `yaml:"purlType,omitempty"`

	// Scanner configures how the license scanner is invoked.
	Scanner ScannerFile `yaml:"scanner,omitempty"`

	// History configures the run history database.
	History HistoryFile `yaml:"history,omitempty"`
}

// ScannerFile is the scanner section of the configuration file.
type ScannerFile struct {
	// Strategies replace the built-in scanner invocations when non-empty.
	Strategies []Strategy `yaml:"strategies,omitempty"`
}

// HistoryFile is the history section of the configuration file.
type HistoryFile struct {
	// Enabled saves every generated classification.
	Enabled bool `yaml:"enabled,omitempty"`

	// Dir overrides the history database directory.
	Dir string `yaml:"dir,omitempty"`
}

// LoadConfigFile loads settings from a YAML file.
// If the file does not exist, it returns ErrConfigNotFound.
func LoadConfigFile(path string) (*File, error) {
	data, err := os.ReadFile(path) //nolint:gosec // User-provided config path is intentional
	if err != nil {
		if os.IsNotExist(err) {
			return nil, ErrConfigNotFound
		}
		return nil, err
	}

	var f File
	if err := yaml.Unmarshal(data, &f); err != nil {
		return nil, err
	}

	for i, s := range f.Scanner.Strategies {
		expanded, err := s.expand()
		if err != nil {
			return nil, fmt.Errorf("strategy #%d: %w", i+1, err)
		}
		f.Scanner.Strategies[i] = expanded
	}
	return &f, nil
}

// FindConfigFile searches for the configuration file in the following order:
// 1. If configPath is specified, use it directly
// 2. Look for .notices.yaml in the current directory
// 3. Look for config.yaml in the XDG config directory
// 4. Look for .notices.yaml in the user's home directory
//
// Returns the path to the configuration file if found, or empty string if not found.
func FindConfigFile(configPath string) string {
	if configPath != "" {
		if _, err := os.Stat(configPath); err == nil {
			return configPath
		}
		return ""
	}

	var candidates []string
	if cwd, err := os.Getwd(); err == nil {
		candidates = append(candidates, filepath.Join(cwd, DefaultConfigFile))
	}
	candidates = append(candidates, filepath.Join(XDGConfigDir(), xdgConfigFile))
	if home, err := os.UserHomeDir(); err == nil {
		candidates = append(candidates, filepath.Join(home, DefaultConfigFile))
	}

	for _, candidate := range candidates {
		if _, err := os.Stat(candidate); err == nil {
			return candidate
		}
	}
	return ""
}
