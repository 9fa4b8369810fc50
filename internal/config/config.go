package config

import (
	"elevenlabs-mcp/internal/model"
)

const (
	DefaultConfigPath = ".elevenlabs-mcp.yaml"
	DefaultVoiceID    = "cgSgspJ2msm6clMCkdW9"
	DefaultModelID    = "eleven_multilingual_v2"
	DefaultResidency  = "us"
	DefaultLogLevel   = "info"
)

// Environment variables read by Load.
const (
	EnvAPIKey         = "ELEVENLABS_API_KEY"
	EnvBasePath       = "ELEVENLABS_MCP_BASE_PATH"
	EnvOutputMode     = "ELEVENLABS_MCP_OUTPUT_MODE"
	EnvDefaultVoiceID = "ELEVENLABS_DEFAULT_VOICE_ID"
	EnvResidency      = "ELEVENLABS_API_RESIDENCY"
	EnvModelID        = "ELEVENLABS_MODEL_ID"
	EnvLogLevel       = "ELEVENLABS_MCP_LOG_LEVEL"
)

// Config is built once at startup and treated as read-only afterwards.
type Config struct {
	APIKey         string           `yaml:"api_key" toml:"api_key"`
	APIResidency   string           `yaml:"api_residency" toml:"api_residency"`
	BaseURL        string           `yaml:"base_url,omitempty" toml:"base_url"`
	BasePath       string           `yaml:"base_path,omitempty" toml:"base_path"`
	OutputMode     model.OutputMode `yaml:"output_mode" toml:"output_mode"`
	DefaultVoiceID string           `yaml:"default_voice_id" toml:"default_voice_id"`
	ModelID        string           `yaml:"model_id" toml:"model_id"`
	LogLevel       string           `yaml:"log_level" toml:"log_level"`
}

func Default() Config {
	return Config{
		APIResidency:   DefaultResidency,
		OutputMode:     model.OutputModeFiles,
		DefaultVoiceID: DefaultVoiceID,
		ModelID:        DefaultModelID,
		LogLevel:       DefaultLogLevel,
	}
}
