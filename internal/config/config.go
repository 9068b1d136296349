package config

import (
	"fmt"
	"path/filepath"
	"slices"

	"github.com/adrg/xdg"
	"github.com/google/shlex"
)

// Default configuration values.
const (
	// AppName is the application name used for XDG directory paths.
	AppName = "notices"

	// FormatMarkdown renders the attribution document as Markdown.
	FormatMarkdown = "markdown"

	// FormatJSON renders the attribution document as JSON.
	FormatJSON = "json"

	// DefaultFormat is Markdown, the format of a THIRD_PARTY_NOTICES.md file.
	DefaultFormat = FormatMarkdown

	// DefaultPURLType is the package URL type used in JSON output.
	// nlf only scans npm dependency trees.
	DefaultPURLType = "npm"
)

// Strategy describes one way to invoke the external license scanner.
type Strategy struct {
	// Name identifies the strategy in logs and error messages.
	Name string `yaml:"name"`

	// Command is the executable to run, looked up in PATH.
	Command string `yaml:"command"`

	// Args are passed to Command unchanged.
	Args []string `yaml:"args,omitempty"`

	// Run is a shell-style command line such as "npx -y nlf". It is an
	// alternative to Command and Args and is expanded by LoadConfigFile.
	Run string `yaml:"run,omitempty"`
}

// ParseCommandLine splits a shell-style command line into a Strategy.
// Quoting follows POSIX shell rules; no expansion or piping is performed.
// The strategy is named after its executable.
func ParseCommandLine(line string) (Strategy, error) {
	fields, err := shlex.Split(line)
	if err != nil {
		return Strategy{}, fmt.Errorf("invalid command line %q: %w", line, err)
	}
	if len(fields) == 0 {
		return Strategy{}, fmt.Errorf("%w: %q", ErrEmptyStrategyCommand, line)
	}
	return Strategy{
		Name:    filepath.Base(fields[0]),
		Command: fields[0],
		Args:    fields[1:],
	}, nil
}

// expand replaces Run with the equivalent Command and Args.
// Setting both Run and Command is an error.
func (s Strategy) expand() (Strategy, error) {
	if s.Run == "" {
		return s, nil
	}
	if s.Command != "" || len(s.Args) > 0 {
		return s, fmt.Errorf("%w: %q", ErrConflictingStrategy, s.Name)
	}

	parsed, err := ParseCommandLine(s.Run)
	if err != nil {
		return s, err
	}
	if s.Name != "" {
		parsed.Name = s.Name
	}
	return parsed, nil
}

// DefaultStrategies returns the built-in scanner invocations in the order
// they are tried: a global nlf install, the nlf.cmd shim created by npm on
// Windows, and finally npx, which downloads nlf on demand.
func DefaultStrategies() []Strategy {
	return []Strategy{
		{Name: "nlf", Command: "nlf"},
		{Name: "nlf.cmd", Command: "nlf.cmd"},
		{Name: "npx", Command: "npx", Args: []string{"-y", "nlf"}},
	}
}

// Config holds all configuration options for notices.
// This struct is populated from the configuration file and CLI flags and
// passed through the application rather than kept in global state.
type Config struct {
	// InputFile is the path to a pre-generated nlf report.
	// When empty, the scanner strategies are used instead.
	InputFile string

	// OutputFile is the path the report is written to.
	// When empty, the report is printed to standard output.
	OutputFile string

	// Project is the project name shown in the document title.
	// When empty, the title has no project suffix.
	Project string

	// Format is the output format: FormatMarkdown or FormatJSON.
	Format string

	// PURLType is the package URL type used for JSON output.
	PURLType string

	// Strategies are the scanner invocations tried in order.
	Strategies []Strategy

	// Verbose enables debug logging.
	Verbose bool

	// ConfigFilePath is the path of the loaded configuration file, if any.
	ConfigFilePath string

	// SaveHistory stores the classification in the history database
	// so that later runs can be compared.
	SaveHistory bool

	// DBDir is the directory of the history database.
	// Defaults to the XDG data directory (~/.local/share/notices on Linux).
	DBDir string
}

// NewConfig creates a new Config with default values.
func NewConfig() *Config {
	return &Config{
		Format:     DefaultFormat,
		PURLType:   DefaultPURLType,
		Strategies: DefaultStrategies(),
		DBDir:      XDGDataDir(),
	}
}

// ApplyFile copies the values set in a configuration file onto c.
// Zero values in the file leave the current settings untouched, so
// defaults survive a partial file. CLI flags are applied afterwards.
func (c *Config) ApplyFile(f *File) {
	if f == nil {
		return
	}
	if f.Project != "" {
		c.Project = f.Project
	}
	if f.Output != "" {
		c.OutputFile = f.Output
	}
	if f.Format != "" {
		c.Format = f.Format
	}
	if f.PURLType != "" {
		c.PURLType = f.PURLType
	}
	if len(f.Scanner.Strategies) > 0 {
		c.Strategies = slices.Clone(f.Scanner.Strategies)
	}
	if f.History.Enabled {
		c.SaveHistory = true
	}
	if f.History.Dir != "" {
		c.DBDir = f.History.Dir
	}
}

// Validate checks if the configuration is valid.
// It returns the first problem found.
func (c *Config) Validate() error {
	if c.Format != FormatMarkdown && c.Format != FormatJSON {
		return fmt.Errorf("%w: got %q", ErrInvalidFormat, c.Format)
	}

	if c.PURLType == "" {
		return ErrEmptyPURLType
	}

	// Strategies only matter when the report has to be generated
	if c.InputFile == "" {
		if len(c.Strategies) == 0 {
			return ErrNoStrategies
		}
		for i, s := range c.Strategies {
			if s.Command == "" {
				return fmt.Errorf("%w: strategy #%d (%s)", ErrEmptyStrategyCommand, i+1, s.Name)
			}
		}
	}

	return nil
}

// XDGDataDir returns the XDG data directory for notices.
// On Linux: ~/.local/share/notices
// On macOS: ~/Library/Application Support/notices
// On Windows: %LOCALAPPDATA%\notices
func XDGDataDir() string {
	return filepath.Join(xdg.DataHome, AppName)
}

// XDGConfigDir returns the XDG config directory for notices.
// On Linux: ~/.config/notices
// On macOS: ~/Library/Application Support/notices
// On Windows: %APPDATA%\notices
func XDGConfigDir() string {
	return filepath.Join(xdg.ConfigHome, AppName)
}
