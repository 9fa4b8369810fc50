package config

import (
	"fmt"
	"os"
	"strings"

	"elevenlabs-mcp/internal/model"
)

// Source records where a field's effective value came from.
type Source string

const (
	SourceDefault    Source = "default"
	SourceConfigFile Source = "config"
	SourceEnv        Source = "env"
)

// FieldInfo is one editable setting with its effective value.
type FieldInfo struct {
	Key       string
	EnvVar    string
	Value     string
	Source    Source
	Sensitive bool
}

type fieldDef struct {
	Key       string
	EnvVar    string
	Sensitive bool
}

var fieldDefs = []fieldDef{
	{Key: "api_key", EnvVar: EnvAPIKey, Sensitive: true},
	{Key: "base_path", EnvVar: EnvBasePath},
	{Key: "output_mode", EnvVar: EnvOutputMode},
	{Key: "api_residency", EnvVar: EnvResidency},
	{Key: "default_voice_id", EnvVar: EnvDefaultVoiceID},
	{Key: "model_id", EnvVar: EnvModelID},
	{Key: "log_level", EnvVar: EnvLogLevel},
}

// EffectiveFields lists every editable field of cfg in display order.
func EffectiveFields(cfg Config) []FieldInfo {
	out := make([]FieldInfo, 0, len(fieldDefs))
	for _, def := range fieldDefs {
		value := fieldValue(cfg, def.Key)
		source := SourceDefault
		switch {
		case strings.TrimSpace(os.Getenv(def.EnvVar)) != "":
			source = SourceEnv
		case value != DefaultValueForField(def.Key):
			source = SourceConfigFile
		}
		out = append(out, FieldInfo{Key: def.Key, EnvVar: def.EnvVar, Value: value, Source: source, Sensitive: def.Sensitive})
	}
	return out
}

// EnvVarForField maps a field key to its environment variable, or "".
func EnvVarForField(key string) string {
	for _, def := range fieldDefs {
		if def.Key == key {
			return def.EnvVar
		}
	}
	return ""
}

// DefaultValueForField returns the built-in default for key, "" when none.
func DefaultValueForField(key string) string {
	return fieldValue(Default(), key)
}

func fieldValue(cfg Config, key string) string {
	switch key {
	case "api_key":
		return cfg.APIKey
	case "base_path":
		return cfg.BasePath
	case "output_mode":
		return string(cfg.OutputMode)
	case "api_residency":
		return cfg.APIResidency
	case "default_voice_id":
		return cfg.DefaultVoiceID
	case "model_id":
		return cfg.ModelID
	case "log_level":
		return cfg.LogLevel
	default:
		return ""
	}
}

// ApplyField sets key on cfg. Unknown keys are ignored.
func ApplyField(cfg *Config, key, value string) {
	value = strings.TrimSpace(value)
	switch key {
	case "api_key":
		cfg.APIKey = value
	case "base_path":
		cfg.BasePath = value
	case "output_mode":
		cfg.OutputMode = model.OutputMode(strings.ToLower(value))
	case "api_residency":
		cfg.APIResidency = strings.ToLower(value)
		cfg.BaseURL = ""
	case "default_voice_id":
		cfg.DefaultVoiceID = value
	case "model_id":
		cfg.ModelID = value
	case "log_level":
		cfg.LogLevel = strings.ToLower(value)
	}
}

// ValidateField checks a single value the way Validate checks the whole config.
func ValidateField(key, value string) error {
	value = strings.TrimSpace(value)
	switch key {
	case "api_key", "base_path":
		return nil
	case "output_mode":
		if _, err := model.ParseOutputMode(value); err != nil {
			return fmt.Errorf("output_mode must be one of: files, resources, both")
		}
	case "api_residency":
		if _, err := APIOrigin(strings.ToLower(value)); err != nil {
			return fmt.Errorf("api_residency must be one of: %s", strings.Join(Residencies, ", "))
		}
	case "default_voice_id", "model_id":
		if value == "" {
			return fmt.Errorf("%s must not be empty", key)
		}
	case "log_level":
		if !validLogLevel(value) {
			return fmt.Errorf("log_level must be one of: %s", strings.Join(logLevels, ", "))
		}
	default:
		return fmt.Errorf("unknown field %q", key)
	}
	return nil
}

