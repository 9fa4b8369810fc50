package config

import (
	"os"
	"path/filepath"
	"strings"

	"github.com/BurntSushi/toml"
	"gopkg.in/yaml.v3"

	"elevenlabs-mcp/internal/model"
)

// Options for loading config.
type Options struct {
	// ConfigPath is optional; a missing file at the default path is ignored.
	ConfigPath   string
	SkipValidate bool // if true, do not validate (e.g. for config print)
	// Overrides apply last (flags > env > dotenv > file > defaults). Nil means no CLI overrides.
	Overrides *Overrides
}

// Overrides holds CLI flag values. Only non-nil fields are applied.
type Overrides struct {
	BasePath   *string
	OutputMode *string
	LogLevel   *string
}

// Load builds config with precedence: defaults -> config file -> .env.local/.env
// -> environment -> Overrides. Returns a CONFIGURATION_INVALID error when invalid.
func Load(opts Options) (*Config, error) {
	cfg := Default()

	configPath := opts.ConfigPath
	if configPath == "" {
		configPath = DefaultConfigPath
	}
	if err := loadFile(configPath, &cfg, opts.ConfigPath != ""); err != nil {
		return nil, err
	}

	// Precedence stays: explicit env > .env.local > .env.
	if err := loadDotEnvFiles(SecretsFile, ".env"); err != nil {
		return nil, configErrorf("failed loading dotenv files: %v", err)
	}

	applyEnv(&cfg)
	if opts.Overrides != nil {
		applyOverrides(&cfg, opts.Overrides)
	}
	normalize(&cfg)

	if !opts.SkipValidate {
		if err := Validate(&cfg); err != nil {
			return nil, err
		}
	}
	if cfg.BaseURL == "" {
		if origin, err := APIOrigin(cfg.APIResidency); err == nil {
			cfg.BaseURL = origin
		}
	}
	return &cfg, nil
}

func loadFile(path string, cfg *Config, explicit bool) error {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) && !explicit {
			return nil
		}
		return configErrorf("cannot read config file %s: %v", path, err)
	}

	switch strings.ToLower(filepath.Ext(path)) {
	case ".toml":
		if _, err := toml.Decode(string(data), cfg); err != nil {
			return configErrorf("malformed TOML in %s: %v", path, err)
		}
	default:
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return configErrorf("malformed YAML in %s: %v", path, err)
		}
	}

	// Placeholders such as ${ELEVENLABS_API_KEY} are filled by the env overlay.
	if isPlaceholder(cfg.APIKey) {
		cfg.APIKey = ""
	}
	return nil
}

func applyEnv(cfg *Config) {
	set := func(dst *string, name string) {
		if v := strings.TrimSpace(os.Getenv(name)); v != "" {
			*dst = v
		}
	}
	set(&cfg.APIKey, EnvAPIKey)
	set(&cfg.BasePath, EnvBasePath)
	set(&cfg.DefaultVoiceID, EnvDefaultVoiceID)
	set(&cfg.APIResidency, EnvResidency)
	set(&cfg.ModelID, EnvModelID)
	set(&cfg.LogLevel, EnvLogLevel)
	if v := strings.TrimSpace(os.Getenv(EnvOutputMode)); v != "" {
		cfg.OutputMode = model.OutputMode(v)
	}
}

func applyOverrides(cfg *Config, o *Overrides) {
	if o.BasePath != nil {
		cfg.BasePath = *o.BasePath
	}
	if o.OutputMode != nil {
		cfg.OutputMode = model.OutputMode(*o.OutputMode)
	}
	if o.LogLevel != nil {
		cfg.LogLevel = *o.LogLevel
	}
}

func normalize(cfg *Config) {
	cfg.APIKey = strings.TrimSpace(cfg.APIKey)
	cfg.BasePath = strings.TrimSpace(cfg.BasePath)
	cfg.BaseURL = strings.TrimRight(strings.TrimSpace(cfg.BaseURL), "/")
	cfg.APIResidency = strings.ToLower(strings.TrimSpace(cfg.APIResidency))
	cfg.OutputMode = model.OutputMode(strings.ToLower(strings.TrimSpace(string(cfg.OutputMode))))
	cfg.LogLevel = strings.ToLower(strings.TrimSpace(cfg.LogLevel))
	if cfg.APIResidency == "" {
		cfg.APIResidency = DefaultResidency
	}
}

func isPlaceholder(v string) bool {
	v = strings.TrimSpace(v)
	return strings.HasPrefix(v, "${") && strings.HasSuffix(v, "}")
}

func configErrorf(format string, args ...any) error {
	return model.Errorf(model.KindConfiguration, "CONFIG_INVALID: "+format, args...)
}
