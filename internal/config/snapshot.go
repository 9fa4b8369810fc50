package config

import (
	"fmt"

	"gopkg.in/yaml.v3"
)

// SnapshotConfig returns a copy of config safe to print: the API key is
// replaced with source metadata.
func SnapshotConfig(cfg *Config) *Config {
	if cfg == nil {
		return nil
	}
	c := *cfg
	c.APIKey = redactSecret(cfg.APIKey, EnvAPIKey)
	return &c
}

func redactSecret(value, envName string) string {
	if value == "" {
		return ""
	}
	return "<from env " + envName + ">"
}

// MarshalSnapshot renders the redacted config as YAML.
func MarshalSnapshot(cfg *Config) ([]byte, error) {
	snap := SnapshotConfig(cfg)
	if snap == nil {
		return nil, fmt.Errorf("config is nil")
	}
	return yaml.Marshal(snap)
}
