package config

import (
	"bytes"
	"context"
	"log/slog"
	"path/filepath"
	"testing"
	"time"

	"github.com/leapstack-labs/leapplot/internal/testutil"
	"github.com/spf13/pflag"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// newFlags mirrors the persistent and sampling flags registered by the root command.
func newFlags() *pflag.FlagSet {
	fs := pflag.NewFlagSet("test", pflag.ContinueOnError)
	fs.String("config", "", "")
	fs.String("output", "", "")
	fs.String("log-level", "", "")
	fs.Bool("verbose", false, "")
	fs.String("state", "", "")
	fs.Bool("no-history", false, "")
	fs.String("addr", "", "")
	return fs
}

// inTempDir runs the test from an empty directory so no stray config file is picked up.
func inTempDir(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	t.Chdir(dir)
	ResetConfig()
	t.Cleanup(ResetConfig)
	return dir
}

func TestLoadConfig_Defaults(t *testing.T) {
	dir := inTempDir(t)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, DefaultOutput, cfg.OutputFormat)
	assert.Equal(t, slog.LevelWarn, cfg.LogLevel)
	assert.True(t, cfg.History)
	assert.Equal(t, -10.0, cfg.Sampling.XMin)
	assert.Equal(t, 10.0, cfg.Sampling.XMax)
	assert.Equal(t, 500, cfg.Sampling.Points)
	assert.Equal(t, 5*time.Second, cfg.Server.ReadHeaderTimeout)
	assert.Equal(t, 10, cfg.Compiler.FractionPasses)
	assert.Empty(t, GetConfigFileUsed())
	assert.Same(t, cfg, GetCurrentConfig())

	// Resolve symlinks (macOS /tmp) before comparing.
	wantRoot, _ := filepath.EvalSymlinks(dir)
	gotRoot, _ := filepath.EvalSymlinks(cfg.ProjectRoot)
	assert.Equal(t, wantRoot, gotRoot)
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, DefaultStateFile), cfg.StatePath)
}

func TestLoadConfig_File(t *testing.T) {
	dir := inTempDir(t)
	testutil.WriteFile(t, dir, "leapplot.yaml", `
output: json
log_level: debug
state_path: data/plots.db
sampling:
  x_min: -2.5
  x_max: 2.5
  points: 200
server:
  addr: ":9000"
  shutdown_timeout: 3s
compiler:
  fraction_passes: 4
`)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "json", cfg.OutputFormat)
	assert.Equal(t, slog.LevelDebug, cfg.LogLevel)
	assert.Equal(t, -2.5, cfg.Sampling.XMin)
	assert.Equal(t, 2.5, cfg.Sampling.XMax)
	assert.Equal(t, 200, cfg.Sampling.Points)
	assert.Equal(t, ":9000", cfg.Server.Addr)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.Equal(t, 4, cfg.Compiler.FractionPasses)
	assert.Equal(t, "leapplot.yaml", filepath.Base(GetConfigFileUsed()))
	assert.Equal(t, filepath.Join(cfg.ProjectRoot, "data", "plots.db"), cfg.StatePath)
}

func TestLoadConfig_UpwardSearch(t *testing.T) {
	dir := t.TempDir()
	testutil.WriteFile(t, dir, "leapplot.yml", "output: markdown\n")
	nested := filepath.Join(dir, "a", "b")
	testutil.WriteFile(t, nested, ".keep", "")
	t.Chdir(nested)
	ResetConfig()
	t.Cleanup(ResetConfig)

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, "markdown", cfg.OutputFormat)
	assert.Equal(t, "leapplot.yml", filepath.Base(GetConfigFileUsed()))
}

func TestLoadConfig_ExplicitFile(t *testing.T) {
	dir := inTempDir(t)
	path := testutil.WriteFile(t, filepath.Join(dir, "conf"), "custom.yaml", "output: text\n")

	cfg, err := LoadConfig(path, nil)
	require.NoError(t, err)

	assert.Equal(t, "text", cfg.OutputFormat)
	assert.Equal(t, path, GetConfigFileUsed())
}

func TestLoadConfig_MissingExplicitFile(t *testing.T) {
	dir := inTempDir(t)

	_, err := LoadConfig(filepath.Join(dir, "nope.yaml"), nil)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "error reading config file")
}

func TestLoadConfig_Precedence(t *testing.T) {
	tests := []struct {
		name     string
		file     string
		env      map[string]string
		flags    []string
		expected string
	}{
		{
			name:     "file only",
			file:     "output: json\n",
			expected: "json",
		},
		{
			name:     "env overrides file",
			file:     "output: json\n",
			env:      map[string]string{"LEAPPLOT_OUTPUT": "markdown"},
			expected: "markdown",
		},
		{
			name:     "flag overrides env",
			file:     "output: json\n",
			env:      map[string]string{"LEAPPLOT_OUTPUT": "markdown"},
			flags:    []string{"--output", "text"},
			expected: "text",
		},
		{
			name:     "unset flag does not mask env",
			env:      map[string]string{"LEAPPLOT_OUTPUT": "markdown"},
			flags:    []string{"--verbose"},
			expected: "markdown",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := inTempDir(t)
			if tt.file != "" {
				testutil.WriteFile(t, dir, "leapplot.yaml", tt.file)
			}
			for key, value := range tt.env {
				t.Setenv(key, value)
			}
			fs := newFlags()
			require.NoError(t, fs.Parse(tt.flags))

			cfg, err := LoadConfig("", fs)
			require.NoError(t, err)
			assert.Equal(t, tt.expected, cfg.OutputFormat)
		})
	}
}

func TestLoadConfig_NestedEnv(t *testing.T) {
	inTempDir(t)
	t.Setenv("LEAPPLOT_SAMPLING__X_MIN", "-3")
	t.Setenv("LEAPPLOT_SAMPLING__POINTS", "250")
	t.Setenv("LEAPPLOT_SERVER__READ_HEADER_TIMEOUT", "750ms")

	cfg, err := LoadConfig("", nil)
	require.NoError(t, err)

	assert.Equal(t, -3.0, cfg.Sampling.XMin)
	assert.Equal(t, 250, cfg.Sampling.Points)
	assert.Equal(t, 750*time.Millisecond, cfg.Server.ReadHeaderTimeout)
}

func TestLoadConfig_FlagMappings(t *testing.T) {
	inTempDir(t)
	fs := newFlags()
	require.NoError(t, fs.Parse([]string{
		"--no-history",
		"--log-level", "error",
		"--state", "elsewhere.db",
		"--addr", "0.0.0.0:7000",
	}))

	cfg, err := LoadConfig("", fs)
	require.NoError(t, err)

	assert.False(t, cfg.History)
	assert.Equal(t, slog.LevelError, cfg.LogLevel)
	assert.Equal(t, "0.0.0.0:7000", cfg.Server.Addr)
	assert.Equal(t, "elsewhere.db", filepath.Base(cfg.StatePath))
	assert.True(t, filepath.IsAbs(cfg.StatePath))
}

func TestLoadConfig_Invalid(t *testing.T) {
	tests := []struct {
		name      string
		file      string
		errSubstr string
	}{
		{
			name:      "bad output",
			file:      "output: html\n",
			errSubstr: "output must be one of",
		},
		{
			name:      "inverted range",
			file:      "sampling:\n  x_min: 5\n  x_max: 1\n",
			errSubstr: "must be less than sampling.x_max",
		},
		{
			name:      "points out of bounds",
			file:      "sampling:\n  points: 5000\n",
			errSubstr: "sampling.points must be within",
		},
		{
			name:      "zero fraction passes",
			file:      "compiler:\n  fraction_passes: 0\n",
			errSubstr: "compiler.fraction_passes",
		},
		{
			name:      "bad log level",
			file:      "log_level: loud\n",
			errSubstr: "unable to decode config",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			dir := inTempDir(t)
			testutil.WriteFile(t, dir, "leapplot.yaml", tt.file)

			_, err := LoadConfig("", nil)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errSubstr)
		})
	}
}

func TestConfig_Validate(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	cfg.OutputFormat = "yaml"
	cfg.StatePath = ""
	err := cfg.Validate()
	require.Error(t, err)
	assert.Contains(t, err.Error(), "output must be one of")
	assert.Contains(t, err.Error(), "state_path is required")

	cfg = Default()
	cfg.History = false
	cfg.StatePath = ""
	assert.NoError(t, cfg.Validate())
}

func TestGetLogger(t *testing.T) {
	assert.NotNil(t, GetLogger(context.Background()))

	var buf bytes.Buffer
	logger := NewLogger(&Config{LogLevel: slog.LevelWarn, Verbose: true}, &buf)
	ctx := context.WithValue(context.Background(), LoggerKey(), logger)
	GetLogger(ctx).Debug("debug line")
	assert.Contains(t, buf.String(), "debug line")

	buf.Reset()
	quiet := NewLogger(&Config{LogLevel: slog.LevelWarn}, &buf)
	quiet.Info("hidden")
	assert.Empty(t, buf.String())
}
