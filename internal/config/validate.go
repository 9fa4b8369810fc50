package config

import (
	"errors"
	"strings"

	"elevenlabs-mcp/internal/model"
)

var logLevels = []string{"debug", "info", "warn", "error", "fatal"}

// Validate checks required fields. All problems are reported together.
func Validate(cfg *Config) error {
	if cfg == nil {
		return configErrorf("config is nil")
	}
	var errs []string

	if strings.TrimSpace(cfg.APIKey) == "" || isPlaceholder(cfg.APIKey) {
		errs = append(errs, "missing "+EnvAPIKey+". Set env "+EnvAPIKey+"=... or add api_key to "+DefaultConfigPath)
	}
	if _, err := model.ParseOutputMode(string(cfg.OutputMode)); err != nil {
		errs = append(errs, "invalid "+EnvOutputMode+" "+quote(string(cfg.OutputMode))+"; must be one of: files, resources, both")
	}
	if _, err := APIOrigin(cfg.APIResidency); err != nil {
		errs = append(errs, strings.TrimPrefix(err.Error(), "CONFIG_INVALID: "))
	}
	if !validLogLevel(cfg.LogLevel) {
		errs = append(errs, "invalid "+EnvLogLevel+" "+quote(cfg.LogLevel)+"; must be one of: "+strings.Join(logLevels, ", "))
	}
	if strings.TrimSpace(cfg.DefaultVoiceID) == "" {
		errs = append(errs, EnvDefaultVoiceID+" must not be empty")
	}

	if len(errs) == 0 {
		return nil
	}
	return &model.Error{
		Kind:    model.KindConfiguration,
		Message: "CONFIG_INVALID: " + strings.Join(errs, "; "),
		Cause:   errors.New(strings.Join(errs, "\n")),
	}
}

func validLogLevel(level string) bool {
	level = strings.ToLower(strings.TrimSpace(level))
	for _, l := range logLevels {
		if l == level {
			return true
		}
	}
	return false
}

func quote(s string) string {
	return "\"" + s + "\""
}
