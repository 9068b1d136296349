// Package config provides configuration structures and utilities for notices.
// It defines the report settings, the ordered list of scanner invocation
// strategies, and the optional YAML configuration file.
package config
