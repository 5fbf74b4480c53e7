package config

import (
	"time"

	"github.com/leapstack-labs/leapplot/pkg/latex"
)

// Default configuration values.
const (
	DefaultXMin              = -10.0
	DefaultXMax              = 10.0
	DefaultPoints            = 500
	DefaultMinPoints         = 100
	DefaultMaxPoints         = 2000
	DefaultAddr              = "127.0.0.1:8090"
	DefaultReadHeaderTimeout = 5 * time.Second
	DefaultShutdownTimeout   = 10 * time.Second
	DefaultFractionPasses    = latex.MaxFractionPasses
)

// DefaultSampling returns the sampling defaults.
func DefaultSampling() SamplingConfig {
	return SamplingConfig{
		XMin:      DefaultXMin,
		XMax:      DefaultXMax,
		Points:    DefaultPoints,
		MinPoints: DefaultMinPoints,
		MaxPoints: DefaultMaxPoints,
	}
}

// DefaultServer returns the server defaults.
func DefaultServer() ServerConfig {
	return ServerConfig{
		Addr:              DefaultAddr,
		ReadHeaderTimeout: DefaultReadHeaderTimeout,
		ShutdownTimeout:   DefaultShutdownTimeout,
		Metrics:           true,
	}
}

// DefaultCompiler returns the compiler defaults.
func DefaultCompiler() CompilerConfig {
	return CompilerConfig{FractionPasses: DefaultFractionPasses}
}

// DefaultsMap returns the defaults keyed the way koanf stores them,
// for loading through a confmap provider.
func DefaultsMap() map[string]any {
	s, srv, c := DefaultSampling(), DefaultServer(), DefaultCompiler()
	return map[string]any{
		"sampling.x_min":             s.XMin,
		"sampling.x_max":             s.XMax,
		"sampling.points":            s.Points,
		"sampling.min_points":        s.MinPoints,
		"sampling.max_points":        s.MaxPoints,
		"server.addr":                srv.Addr,
		"server.read_header_timeout": srv.ReadHeaderTimeout.String(),
		"server.shutdown_timeout":    srv.ShutdownTimeout.String(),
		"server.metrics":             srv.Metrics,
		"compiler.fraction_passes":   c.FractionPasses,
	}
}
