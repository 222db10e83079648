package config

import (
	"github.com/pelletier/go-toml"
	"gopkg.in/yaml.v3"
)

// Marshal renders cfg as TOML.
func Marshal(cfg *Config) ([]byte, error) {
	return toml.Marshal(cfg)
}

// MarshalYAML renders cfg as YAML.
func MarshalYAML(cfg *Config) ([]byte, error) {
	return yaml.Marshal(cfg)
}
