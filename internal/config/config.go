// Package config loads the parser descriptor file that tells the tool
// which statement parsers to run and where user-supplied ones live.
package config

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"gopkg.in/yaml.v3"
)

// Config is the top-level descriptor file.
type Config struct {
	Parsers []ParserSpec `json:"parsers" yaml:"parsers"`
}

// ParserSpec names one parser and, for user-supplied parsers, the program
// that implements it. Options are passed verbatim to plugin parsers on
// startup.
type ParserSpec struct {
	Type       string         `json:"type" yaml:"type"`
	ModulePath string         `json:"module_path,omitempty" yaml:"module_path,omitempty"`
	Options    map[string]any `json:"options,omitempty" yaml:"options,omitempty"`
}

// Load reads a descriptor file. JSON is the documented format; .yaml/.yml
// files decode the same structure.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading config: %w", err)
	}

	var cfg Config
	switch strings.ToLower(filepath.Ext(path)) {
	case ".yaml", ".yml":
		if err := yaml.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	default:
		if err := json.Unmarshal(data, &cfg); err != nil {
			return nil, fmt.Errorf("parsing config: %w", err)
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

func (c *Config) validate() error {
	if len(c.Parsers) == 0 {
		return fmt.Errorf("config has no parsers")
	}
	for i, p := range c.Parsers {
		if p.Type == "" {
			return fmt.Errorf("parser %d: missing type", i)
		}
	}
	return nil
}
