// Package data provides configuration data types and file helpers for gridbuf.
package data

import "time"

// Flags represents CLI command-line flags for the gridbuf application.
type Flags struct {
	RefreshRate *float32 // Refresh rate in seconds
	LogLevel    *string  // Log level (e.g., debug, info, warn, error)
	LogFile     *string  // Path to log file
	Headless    *bool    // Log grid updates instead of drawing them
	Source      *string  // Source location (file path or s3://bucket/prefix)
	Columns     *int     // Grid columns
	Synchronous *bool    // Diff on the refresh goroutine
	SortColumn  *string  // Column to sort rows by
	Profile     *string  // AWS profile to use
	Region      *string  // AWS region to use
}

// UI represents user interface configuration settings.
type UI struct {
	EnableMouse bool   `yaml:"enableMouse"`
	Headless    bool   `yaml:"headless"`
	Columns     int    `yaml:"columns"`
	Title       string `yaml:"title"`
}

// Logger represents logging configuration settings.
type Logger struct {
	Level string `yaml:"level"`
	File  string `yaml:"file"`
}

// Source describes where grid rows come from.
type Source struct {
	Kind     string        `yaml:"kind"`
	Path     string        `yaml:"path,omitempty"`
	Bucket   string        `yaml:"bucket,omitempty"`
	Prefix   string        `yaml:"prefix,omitempty"`
	Profile  string        `yaml:"profile,omitempty"`
	Region   string        `yaml:"region,omitempty"`
	Columns  []string      `yaml:"columns,omitempty"`
	Timeout  time.Duration `yaml:"timeout,omitempty"`
	CacheTTL time.Duration `yaml:"cacheTTL,omitempty"`
}
