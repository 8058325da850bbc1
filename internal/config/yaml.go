package config

import (
	"fmt"
	"io"

	"gopkg.in/yaml.v3"
)

// LoadYAML decodes a MachineConfig from r and validates it.
func LoadYAML(r io.Reader) (*MachineConfig, error) {
	var cfg MachineConfig
	dec := yaml.NewDecoder(r)
	dec.KnownFields(true)
	if err := dec.Decode(&cfg); err != nil {
		return nil, fmt.Errorf("config: decode: %w", err)
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}
