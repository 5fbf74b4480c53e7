// Package config provides configuration management for the LeapPlot CLI.
//
// This package extends the shared configuration types from internal/config
// (sampling, server, compiler) with CLI-specific fields such as the output
// mode, log level and history store location.
package config

import (
	"log/slog"

	sharedcfg "github.com/leapstack-labs/leapplot/internal/config"
)

// SamplingConfig is an alias for the shared sampling configuration.
type SamplingConfig = sharedcfg.SamplingConfig

// ServerConfig is an alias for the shared server configuration.
type ServerConfig = sharedcfg.ServerConfig

// CompilerConfig is an alias for the shared compiler configuration.
type CompilerConfig = sharedcfg.CompilerConfig

// Config holds all CLI configuration options.
type Config struct {
	OutputFormat string         `koanf:"output"`
	LogLevel     slog.Level     `koanf:"log_level"`
	Verbose      bool           `koanf:"verbose"`
	StatePath    string         `koanf:"state_path"`
	History      bool           `koanf:"history"`
	Sampling     SamplingConfig `koanf:"sampling"`
	Server       ServerConfig   `koanf:"server"`
	Compiler     CompilerConfig `koanf:"compiler"`

	// ProjectRoot is the directory relative paths are resolved against.
	ProjectRoot string `koanf:"-"`
}

// Default configuration values.
const (
	DefaultStateFile = ".leapplot/history.db"
	DefaultOutput    = "auto" // Auto-detect: TTY=text, non-TTY=markdown
	DefaultLogLevel  = "warn"
	EnvPrefix        = "LEAPPLOT_"
)

// Default returns a Config populated with default values only.
func Default() *Config {
	return &Config{
		OutputFormat: DefaultOutput,
		LogLevel:     slog.LevelWarn,
		StatePath:    DefaultStateFile,
		History:      true,
		Sampling:     sharedcfg.DefaultSampling(),
		Server:       sharedcfg.DefaultServer(),
		Compiler:     sharedcfg.DefaultCompiler(),
	}
}
