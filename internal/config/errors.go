package config

import "errors"

// Configuration validation errors.
// These errors are returned by Config.Validate() and File.Validate() so
// that callers can use errors.Is() while still printing a readable message.
var (
	// ErrInvalidFormat is returned when the output format is neither
	// markdown nor json.
	ErrInvalidFormat = errors.New("invalid format: must be \"markdown\" or \"json\"")

	// ErrNoStrategies is returned when no input file is given and the
	// scanner strategy list is empty, leaving no way to obtain a report.
	ErrNoStrategies = errors.New("no scanner strategies configured")

	// ErrEmptyStrategyCommand is returned when a scanner strategy has no
	// command to execute.
	ErrEmptyStrategyCommand = errors.New("scanner strategy has an empty command")

	// ErrConflictingStrategy is returned when a scanner strategy sets both
	// run and command.
	ErrConflictingStrategy = errors.New("scanner strategy sets both run and command")

	// ErrEmptyPURLType is returned when the package URL type is blank.
	ErrEmptyPURLType = errors.New("purl type must not be empty")
)
