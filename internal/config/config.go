// Package config loads the optional lox.yaml project file (SPEC_FULL §10.2)
// that configures import search paths and the REPL prompt.
package config

import (
	"os"

	"github.com/goccy/go-yaml"
)

// Config is the decoded contents of lox.yaml. Every field has a usable
// zero value, so a missing file is never an error.
type Config struct {
	ImportPaths []string `yaml:"importPaths"`
	ReplPrompt  string   `yaml:"replPrompt"`
}

// Default returns the configuration used when no lox.yaml is present.
func Default() *Config {
	return &Config{ReplPrompt: "> "}
}

// Load reads and decodes path. A missing file returns Default(), nil —
// absence is not an error (SPEC_FULL §10.2).
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return Default(), nil
		}
		return nil, err
	}

	cfg := Default()
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, err
	}
	return cfg, nil
}
