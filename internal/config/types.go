// Package config provides shared configuration types for LeapPlot.
// This package is decoupled from CLI concerns so the HTTP server and the
// CLI commands can share sampling, server and compiler settings.
package config

import (
	"fmt"
	"time"
)

// SamplingConfig controls how functions are sampled for plotting.
type SamplingConfig struct {
	XMin      float64 `koanf:"x_min"`
	XMax      float64 `koanf:"x_max"`
	Points    int     `koanf:"points"`
	MinPoints int     `koanf:"min_points"`
	MaxPoints int     `koanf:"max_points"`
}

// ServerConfig holds configuration for the HTTP API.
type ServerConfig struct {
	Addr              string        `koanf:"addr"`
	ReadHeaderTimeout time.Duration `koanf:"read_header_timeout"`
	ShutdownTimeout   time.Duration `koanf:"shutdown_timeout"`
	Metrics           bool          `koanf:"metrics"`
}

// CompilerConfig tunes the expression compiler.
type CompilerConfig struct {
	// FractionPasses bounds \frac nesting; deeper input is rejected.
	FractionPasses int `koanf:"fraction_passes"`
}

// Validate checks the sampling bounds and defaults.
func (s *SamplingConfig) Validate() error {
	if s.XMin >= s.XMax {
		return fmt.Errorf("sampling.x_min (%g) must be less than sampling.x_max (%g)", s.XMin, s.XMax)
	}
	if s.MinPoints < 2 {
		return fmt.Errorf("sampling.min_points must be at least 2, got %d", s.MinPoints)
	}
	if s.MaxPoints < s.MinPoints {
		return fmt.Errorf("sampling.max_points (%d) must not be less than sampling.min_points (%d)", s.MaxPoints, s.MinPoints)
	}
	if s.Points < s.MinPoints || s.Points > s.MaxPoints {
		return fmt.Errorf("sampling.points must be within [%d, %d], got %d", s.MinPoints, s.MaxPoints, s.Points)
	}
	return nil
}

// Validate checks the server settings.
func (s *ServerConfig) Validate() error {
	if s.Addr == "" {
		return fmt.Errorf("server.addr is required")
	}
	if s.ShutdownTimeout < 0 || s.ReadHeaderTimeout < 0 {
		return fmt.Errorf("server timeouts must not be negative")
	}
	return nil
}

// Validate checks the compiler settings.
func (c *CompilerConfig) Validate() error {
	if c.FractionPasses < 1 {
		return fmt.Errorf("compiler.fraction_passes must be at least 1, got %d", c.FractionPasses)
	}
	return nil
}
