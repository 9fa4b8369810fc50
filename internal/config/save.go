package config

import (
	"bytes"
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// SecretsFile holds secrets written by the settings editor. Load reads it
// before .env.
const SecretsFile = ".env.local"

// Save writes the non-secret fields of cfg to path, as TOML when path ends
// in .toml and YAML otherwise. The API key is written as an env placeholder
// and BaseURL is left to be derived from the residency on the next load.
func Save(cfg Config, path string) error {
	if path == "" {
		path = DefaultConfigPath
	}
	out := cfg
	out.APIKey = "${" + EnvAPIKey + "}"
	out.BaseURL = ""

	var data []byte
	if strings.EqualFold(filepath.Ext(path), ".toml") {
		var buf bytes.Buffer
		if err := toml.NewEncoder(&buf).Encode(out); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
		data = buf.Bytes()
	} else {
		var err error
		if data, err = yaml.Marshal(out); err != nil {
			return fmt.Errorf("encoding %s: %w", path, err)
		}
	}
	if dir := filepath.Dir(path); dir != "." {
		if err := os.MkdirAll(dir, 0o755); err != nil {
			return err
		}
	}
	return os.WriteFile(path, data, 0o600)
}

// LoadSecret reads key from .env.local; missing file or key yields "".
func LoadSecret(key string) (string, error) {
	env, err := godotenv.Read(SecretsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return "", nil
		}
		return "", fmt.Errorf("reading %s: %w", SecretsFile, err)
	}
	return env[key], nil
}

// SaveSecret stores key in .env.local, keeping its other entries, and sets
// it in the process env.
func SaveSecret(key, value string) error {
	env, err := readSecrets()
	if err != nil {
		return err
	}
	env[key] = value
	if err := writeSecrets(env); err != nil {
		return err
	}
	return os.Setenv(key, value)
}

// DeleteSecret removes key from .env.local and unsets it in the process env.
func DeleteSecret(key string) error {
	env, err := readSecrets()
	if err != nil {
		return err
	}
	delete(env, key)
	if err := writeSecrets(env); err != nil {
		return err
	}
	if err := os.Unsetenv(key); err != nil {
		return fmt.Errorf("unsetting %s: %w", key, err)
	}
	return nil
}

func readSecrets() (map[string]string, error) {
	env, err := godotenv.Read(SecretsFile)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return map[string]string{}, nil
		}
		return nil, fmt.Errorf("reading %s: %w", SecretsFile, err)
	}
	return env, nil
}

func writeSecrets(env map[string]string) error {
	if err := godotenv.Write(env, SecretsFile); err != nil {
		return fmt.Errorf("writing %s: %w", SecretsFile, err)
	}
	return os.Chmod(SecretsFile, 0o600)
}
