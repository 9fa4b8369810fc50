package settings

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"elevenlabs-mcp/internal/config"
	domain "elevenlabs-mcp/internal/model"
)

func chdirTemp(t *testing.T) string {
	t.Helper()
	dir := t.TempDir()
	wd, err := os.Getwd()
	if err != nil {
		t.Fatalf("getwd: %v", err)
	}
	if err := os.Chdir(dir); err != nil {
		t.Fatalf("chdir temp: %v", err)
	}
	t.Cleanup(func() {
		_ = os.Chdir(wd)
	})
	return dir
}

func clearEnv(t *testing.T) {
	t.Helper()
	for _, name := range []string{config.EnvAPIKey, config.EnvBasePath, config.EnvOutputMode, config.EnvDefaultVoiceID, config.EnvResidency, config.EnvModelID, config.EnvLogLevel} {
		t.Setenv(name, "")
	}
}

func key(s string) tea.KeyMsg {
	switch s {
	case "enter":
		return tea.KeyMsg{Type: tea.KeyEnter}
	case "esc":
		return tea.KeyMsg{Type: tea.KeyEsc}
	case "down":
		return tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		return tea.KeyMsg{Type: tea.KeyUp}
	default:
		return tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(s)}
	}
}

func send(t *testing.T, m model, msgs ...tea.Msg) model {
	t.Helper()
	for _, msg := range msgs {
		next, _ := m.Update(msg)
		m = next.(model)
	}
	return m
}

func cursorTo(t *testing.T, m model, fieldKey string) model {
	t.Helper()
	for i, f := range m.fields {
		if f.Key == fieldKey {
			m.cursor = i
			return m
		}
	}
	t.Fatalf("missing field %q", fieldKey)
	return m
}

func TestEditOutputModeAndSave(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	path := filepath.Join(dir, "settings.yaml")

	m := initialModel(config.Default(), path)
	m = cursorTo(t, m, "output_mode")
	m = send(t, m, key("enter"))
	if m.state != stateEditing {
		t.Fatalf("expected editing state, got %v", m.state)
	}

	m.input.SetValue("both")
	m = send(t, m, key("enter"))
	if m.state != stateBrowsing || !m.dirty {
		t.Fatalf("expected a pending change, state=%v dirty=%v err=%q", m.state, m.dirty, m.errMsg)
	}
	if m.cfg.OutputMode != domain.OutputModeBoth {
		t.Fatalf("config not updated: %q", m.cfg.OutputMode)
	}

	m = send(t, m, key("s"))
	if m.errMsg != "" || m.dirty {
		t.Fatalf("save failed: err=%q dirty=%v", m.errMsg, m.dirty)
	}
	loaded, err := config.Load(config.Options{ConfigPath: path, SkipValidate: true})
	if err != nil {
		t.Fatalf("Load failed: %v", err)
	}
	if loaded.OutputMode != domain.OutputModeBoth {
		t.Fatalf("saved output mode not loaded back: %q", loaded.OutputMode)
	}
}

func TestInvalidValueIsRejected(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	m := initialModel(config.Default(), "settings.yaml")
	m = cursorTo(t, m, "log_level")
	m = send(t, m, key("enter"))
	m.input.SetValue("loud")
	m = send(t, m, key("enter"))
	if m.state != stateEditing || m.errMsg == "" {
		t.Fatalf("invalid value must keep editing with an error, state=%v err=%q", m.state, m.errMsg)
	}
	m = send(t, m, key("esc"))
	if m.state != stateBrowsing || m.dirty {
		t.Fatalf("esc should cancel without changes, state=%v dirty=%v", m.state, m.dirty)
	}
}

func TestSecretGoesToEnvLocal(t *testing.T) {
	dir := chdirTemp(t)
	clearEnv(t)
	path := filepath.Join(dir, "settings.yaml")

	m := initialModel(config.Default(), path)
	m = cursorTo(t, m, "api_key")
	m = send(t, m, key("enter"))
	m.input.SetValue("sk-from-tui")
	m = send(t, m, key("enter"), key("s"))
	if m.errMsg != "" {
		t.Fatalf("save failed: %q", m.errMsg)
	}

	if got, err := config.LoadSecret(config.EnvAPIKey); err != nil || got != "sk-from-tui" {
		t.Fatalf("secret not stored in %s: %q, %v", config.SecretsFile, got, err)
	}
	data, err := os.ReadFile(path)
	if err != nil {
		t.Fatal(err)
	}
	if strings.Contains(string(data), "sk-from-tui") {
		t.Fatalf("secret leaked into config file: %s", data)
	}
	if !strings.Contains(m.View(), "****") {
		t.Fatal("secret should be masked in the view")
	}
}

func TestQuitWithUnsavedChangesAsks(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	m := initialModel(config.Default(), "settings.yaml")
	m = cursorTo(t, m, "model_id")
	m = send(t, m, key("enter"))
	m.input.SetValue("eleven_flash_v2_5")
	m = send(t, m, key("enter"), key("q"))
	if m.state != stateConfirmQuit {
		t.Fatalf("expected confirm state, got %v", m.state)
	}
	if !strings.Contains(m.View(), "eleven_flash_v2_5") {
		t.Fatal("pending change should be listed")
	}

	_, cmd := m.Update(key("n"))
	if cmd == nil {
		t.Fatal("n should quit")
	}
	if _, ok := cmd().(tea.QuitMsg); !ok {
		t.Fatal("expected quit message")
	}
}

func TestResetField(t *testing.T) {
	chdirTemp(t)
	clearEnv(t)

	cfg := config.Default()
	cfg.ModelID = "custom"
	m := initialModel(cfg, "settings.yaml")
	m = cursorTo(t, m, "model_id")
	m = send(t, m, key("r"))
	if m.cfg.ModelID != config.DefaultModelID || !m.dirty {
		t.Fatalf("reset did not apply: %q dirty=%v", m.cfg.ModelID, m.dirty)
	}

	m = cursorTo(t, m, "base_path")
	m = send(t, m, key("r"))
	if m.errMsg == "" {
		t.Fatal("fields without a default cannot be reset")
	}
}
