// Package examples holds the built-in catalog of sample equations.
package examples

import (
	_ "embed"
	"fmt"

	"gopkg.in/yaml.v3"
)

//go:embed examples.yaml
var catalog []byte

// Example is a sample equation with a short human description.
type Example struct {
	Latex       string `yaml:"latex" json:"latex"`
	Description string `yaml:"description" json:"description"`
}

// Load decodes the embedded catalog.
func Load() ([]Example, error) {
	var out []Example
	if err := yaml.Unmarshal(catalog, &out); err != nil {
		return nil, fmt.Errorf("failed to parse examples catalog: %w", err)
	}
	return out, nil
}
