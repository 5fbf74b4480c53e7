package config

import (
	"errors"
	"fmt"
	"slices"
)

var validOutputs = []string{"auto", "text", "markdown", "json"}

// Validate checks if the configuration is valid.
func (c *Config) Validate() error {
	var errs []error
	if !slices.Contains(validOutputs, c.OutputFormat) {
		errs = append(errs, fmt.Errorf("output must be one of %v, got %q", validOutputs, c.OutputFormat))
	}
	if c.History && c.StatePath == "" {
		errs = append(errs, fmt.Errorf("state_path is required when history is enabled"))
	}
	if err := c.Sampling.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Server.Validate(); err != nil {
		errs = append(errs, err)
	}
	if err := c.Compiler.Validate(); err != nil {
		errs = append(errs, err)
	}
	return errors.Join(errs...)
}
