package cli

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/tidwall/gjson"
	"github.com/tidwall/pretty"

	"elevenlabs-mcp/internal/config"
	"elevenlabs-mcp/internal/model"
	"elevenlabs-mcp/internal/protocol"
)

const hostConfigFile = "claude_desktop_config.json"

// hostServer is one entry under "mcpServers" in the desktop host config.
type hostServer struct {
	Command string            `json:"command"`
	Args    []string          `json:"args,omitempty"`
	Env     map[string]string `json:"env"`
}

// hostEntry builds the entry that launches this binary in serve mode.
// basePath is only set when non-empty; the output mode only when it differs
// from the default.
func hostEntry(executable, apiKey, basePath string, mode model.OutputMode) hostServer {
	env := map[string]string{config.EnvAPIKey: apiKey}
	if basePath != "" {
		env[config.EnvBasePath] = basePath
	}
	if mode != "" && mode != model.OutputModeFiles {
		env[config.EnvOutputMode] = string(mode)
	}
	return hostServer{Command: executable, Args: []string{"serve"}, Env: env}
}

// suggestedBasePath keeps the configured base path, else proposes
// ~/Documents/audio when ~/Documents exists.
func suggestedBasePath(configured, home string) string {
	if configured != "" {
		return configured
	}
	if home == "" {
		return ""
	}
	docs := filepath.Join(home, "Documents")
	if info, err := os.Stat(docs); err == nil && info.IsDir() {
		return filepath.Join(docs, "audio")
	}
	return ""
}

// defaultHostDir returns the desktop host's config directory for goos, or ""
// for unsupported platforms.
func defaultHostDir(goos, home string, getenv func(string) string) string {
	switch goos {
	case "windows":
		return filepath.Join(home, "AppData", "Roaming", "Claude")
	case "darwin":
		return filepath.Join(home, "Library", "Application Support", "Claude")
	case "linux":
		base := getenv("XDG_CONFIG_HOME")
		if base == "" {
			base = filepath.Join(home, ".config")
		}
		return filepath.Join(base, "Claude")
	default:
		return ""
	}
}

// hostConfigPath accepts either the config directory or the json file itself.
func hostConfigPath(p string) string {
	if strings.EqualFold(filepath.Ext(p), ".json") {
		return p
	}
	return filepath.Join(p, hostConfigFile)
}

// renderHostConfig renders a fresh config holding only our server.
func renderHostConfig(entry hostServer) ([]byte, error) {
	return mergeHostConfig(nil, entry)
}

// mergeHostConfig sets mcpServers.<ServerName> in existing, keeping every
// other key and server untouched.
func mergeHostConfig(existing []byte, entry hostServer) ([]byte, error) {
	doc := map[string]any{}
	if len(strings.TrimSpace(string(existing))) > 0 {
		if !gjson.ValidBytes(existing) {
			return nil, fmt.Errorf("existing %s is not valid JSON", hostConfigFile)
		}
		if err := json.Unmarshal(existing, &doc); err != nil {
			return nil, fmt.Errorf("existing %s: %w", hostConfigFile, err)
		}
	}

	servers := map[string]any{}
	if raw := gjson.GetBytes(existing, "mcpServers"); raw.Exists() {
		if !raw.IsObject() {
			return nil, fmt.Errorf("existing %s: mcpServers must be an object", hostConfigFile)
		}
		if m, ok := doc["mcpServers"].(map[string]any); ok {
			servers = m
		}
	}
	servers[protocol.ServerName] = entry
	doc["mcpServers"] = servers

	data, err := json.Marshal(doc)
	if err != nil {
		return nil, err
	}
	return pretty.Pretty(data), nil
}

// writeHostConfig merges entry into the host config at path, creating the
// directory and file as needed.
func writeHostConfig(path string, entry hostServer) error {
	existing, err := os.ReadFile(path)
	if err != nil && !os.IsNotExist(err) {
		return err
	}
	data, err := mergeHostConfig(existing, entry)
	if err != nil {
		return err
	}
	if err := os.MkdirAll(filepath.Dir(path), 0o755); err != nil {
		return err
	}
	return os.WriteFile(path, data, 0o600)
}
