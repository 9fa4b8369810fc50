// Package settings provides an interactive TUI for editing the server
// configuration. Non-secret fields go to the config file, the API key to
// .env.local.
package settings

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"elevenlabs-mcp/internal/config"
)

type viewState int

const (
	stateBrowsing viewState = iota
	stateEditing
	stateConfirmQuit
)

// model is the bubbletea model for the settings editor.
type model struct {
	cfg        config.Config
	configPath string
	fields     []config.FieldInfo
	baseline   map[string]string
	cursor     int
	state      viewState
	input      textinput.Model
	dirty      bool
	errMsg     string
	statusMsg  string
	width      int
	height     int
	showHelp   bool
}

func initialModel(cfg config.Config, configPath string) model {
	ti := textinput.New()
	ti.CharLimit = 256
	ti.Width = 60

	fields := config.EffectiveFields(cfg)
	return model{
		cfg:        cfg,
		configPath: configPath,
		fields:     fields,
		baseline:   snapshotValues(fields),
		input:      ti,
	}
}

func snapshotValues(fields []config.FieldInfo) map[string]string {
	out := make(map[string]string, len(fields))
	for _, field := range fields {
		out[field.Key] = field.Value
	}
	return out
}

// Run launches the settings TUI and saves to configPath on request.
func Run(cfg config.Config, configPath string) error {
	p := tea.NewProgram(initialModel(cfg, configPath), tea.WithAltScreen())
	_, err := p.Run()
	return err
}

func (m model) Init() tea.Cmd {
	return nil
}

func (m model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height
		m.input.Width = max(contentWidth(msg.Width)-4, 20)
		return m, nil
	case tea.KeyMsg:
		if m.state != stateEditing && msg.String() == "?" {
			m.showHelp = !m.showHelp
			return m, nil
		}
		switch m.state {
		case stateEditing:
			return m.handleEditingKey(msg)
		case stateConfirmQuit:
			return m.handleConfirmQuitKey(msg)
		default:
			return m.handleBrowsingKey(msg)
		}
	}

	if m.state == stateEditing {
		var cmd tea.Cmd
		m.input, cmd = m.input.Update(msg)
		return m, cmd
	}
	return m, nil
}

func (m model) handleBrowsingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "esc":
		if m.dirty {
			m.state = stateConfirmQuit
			m.errMsg = ""
			m.statusMsg = ""
			return m, nil
		}
		return m, tea.Quit
	case "ctrl+c":
		return m, tea.Quit
	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
		m.errMsg = ""
	case "down", "j":
		if m.cursor < len(m.fields)-1 {
			m.cursor++
		}
		m.errMsg = ""
	case "enter":
		m.startEditing()
		return m, m.input.Focus()
	case "r":
		m.resetField()
	case "s":
		m.save()
	}
	return m, nil
}

func (m *model) startEditing() {
	f := m.fields[m.cursor]
	m.state = stateEditing
	m.errMsg = ""
	m.statusMsg = ""
	m.input.SetValue(f.Value)
	m.input.CursorEnd()
	if f.Sensitive {
		m.input.EchoMode = textinput.EchoPassword
	} else {
		m.input.EchoMode = textinput.EchoNormal
	}
	m.input.Placeholder = fmt.Sprintf("Enter value for %s", f.Key)
}

func (m model) handleEditingKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "esc":
		m.state = stateBrowsing
		m.errMsg = ""
		m.input.Blur()
		return m, nil
	case "enter":
		return m.commitEdit()
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	// Live validation feedback.
	if err := config.ValidateField(m.fields[m.cursor].Key, m.input.Value()); err != nil {
		m.errMsg = err.Error()
	} else {
		m.errMsg = ""
	}
	return m, cmd
}

func (m model) commitEdit() (tea.Model, tea.Cmd) {
	f := &m.fields[m.cursor]
	val := strings.TrimSpace(m.input.Value())
	if err := config.ValidateField(f.Key, val); err != nil {
		m.errMsg = err.Error()
		return m, nil
	}

	changed := f.Value != val
	if changed {
		config.ApplyField(&m.cfg, f.Key, val)
		f.Value = val
	}
	m.recomputeDirty()
	m.state = stateBrowsing
	m.errMsg = ""
	if changed {
		m.statusMsg = fmt.Sprintf("Updated %s", f.Key)
	} else {
		m.statusMsg = fmt.Sprintf("No change for %s", f.Key)
	}
	m.input.Blur()
	return m, nil
}

func (m *model) resetField() {
	f := &m.fields[m.cursor]
	def := config.DefaultValueForField(f.Key)
	if def == "" {
		m.errMsg = "No default value for this field"
		return
	}
	config.ApplyField(&m.cfg, f.Key, def)
	f.Value = def
	f.Source = config.SourceDefault
	m.recomputeDirty()
	m.errMsg = ""
	m.statusMsg = fmt.Sprintf("Reset %s to default", f.Key)
}

func (m *model) save() {
	if err := config.Save(m.cfg, m.configPath); err != nil {
		m.errMsg = fmt.Sprintf("Save failed: %v", err)
		return
	}

	for _, f := range m.fields {
		if !f.Sensitive || f.Value == m.baseline[f.Key] {
			continue
		}
		var err error
		if strings.TrimSpace(f.Value) == "" {
			err = config.DeleteSecret(f.EnvVar)
		} else {
			err = config.SaveSecret(f.EnvVar, f.Value)
		}
		if err != nil {
			m.errMsg = fmt.Sprintf("Config saved, but saving %s failed: %v", f.Key, err)
			m.statusMsg = ""
			return
		}
	}

	for i := range m.fields {
		if m.fields[i].Value == m.baseline[m.fields[i].Key] {
			continue
		}
		if m.fields[i].Sensitive {
			m.fields[i].Source = config.SourceEnv
			continue
		}
		m.fields[i].Source = config.SourceConfigFile
	}
	m.baseline = snapshotValues(m.fields)
	m.recomputeDirty()
	m.errMsg = ""
	m.statusMsg = "Settings saved to " + m.configPath
}

func (m model) handleConfirmQuitKey(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "y", "Y":
		m.save()
		if m.errMsg != "" {
			return m, nil
		}
		return m, tea.Quit
	case "n", "N", "ctrl+c":
		return m, tea.Quit
	case "esc", "c":
		m.state = stateBrowsing
		m.statusMsg = ""
	}
	return m, nil
}

func (m *model) recomputeDirty() {
	m.dirty = len(m.pendingChanges()) > 0
}

type pendingChange struct {
	key       string
	oldValue  string
	newValue  string
	sensitive bool
}

func (m *model) pendingChanges() []pendingChange {
	var changes []pendingChange
	for _, field := range m.fields {
		before := m.baseline[field.Key]
		if field.Value == before {
			continue
		}
		changes = append(changes, pendingChange{key: field.Key, oldValue: before, newValue: field.Value, sensitive: field.Sensitive})
	}
	return changes
}

var (
	clrBrand  = lipgloss.Color("214")
	clrGreen  = lipgloss.Color("114")
	clrRed    = lipgloss.Color("203")
	clrYellow = lipgloss.Color("220")
	clrMuted  = lipgloss.Color("245")
	clrSubtle = lipgloss.Color("240")

	titleStyle          = lipgloss.NewStyle().Foreground(clrBrand).Bold(true).Underline(true)
	mutedStyle          = lipgloss.NewStyle().Foreground(clrMuted)
	subtleStyle         = lipgloss.NewStyle().Foreground(clrSubtle)
	errorStyle          = lipgloss.NewStyle().Foreground(clrRed)
	statusStyle         = lipgloss.NewStyle().Foreground(clrGreen)
	warnStyle           = lipgloss.NewStyle().Foreground(clrYellow)
	panelStyle          = lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(clrSubtle).Padding(1, 2).MarginTop(1)
	selectedMarkerStyle = lipgloss.NewStyle().Foreground(clrBrand).Bold(true)
	selectedKeyStyle    = lipgloss.NewStyle().Background(clrBrand).Foreground(lipgloss.Color("0")).Bold(true)
	keyStyle            = lipgloss.NewStyle().Foreground(clrMuted)
	valueStyle          = lipgloss.NewStyle().Foreground(clrSubtle)
	selectedValueStyle  = lipgloss.NewStyle().Foreground(clrBrand).Italic(true)
	sourceStyle         = lipgloss.NewStyle().Foreground(clrMuted).Italic(true)
)

func (m model) View() string {
	width := m.width
	if width <= 0 {
		width = 100
	}
	cw := contentWidth(width)

	lines := []string{
		titleStyle.Render("Settings"),
		mutedStyle.MaxWidth(cw).Render("ElevenLabs MCP server configuration (" + m.configPath + ")"),
	}

	rows := m.fieldRows(cw)
	rows = append(rows, "")
	rows = append(rows, m.stateLines()...)
	lines = append(lines, panelStyle.MaxWidth(cw+6).Render(strings.Join(rows, "\n")))

	if m.showHelp {
		lines = append(lines, panelStyle.Render(helpText()))
	}
	lines = append(lines, subtleStyle.MaxWidth(cw).Render(m.controlsHint()))
	return lipgloss.JoinVertical(lipgloss.Left, lines...)
}

func (m model) fieldRows(cw int) []string {
	keyWidth := clamp(cw/3, 16, 24)
	sourceWidth := 10
	valueWidth := max(cw-keyWidth-sourceWidth-8, 12)

	lines := make([]string, 0, len(m.fields))
	for i, f := range m.fields {
		marker := " "
		keyCell := keyStyle.Width(keyWidth).Render(fitText(f.Key, keyWidth))
		valueCell := valueStyle.Width(valueWidth).Render(fitText(displayValue(f.Value, f.Sensitive), valueWidth))
		if i == m.cursor {
			marker = selectedMarkerStyle.Render(">")
			keyCell = selectedKeyStyle.Width(keyWidth).Render(fitText(f.Key, keyWidth))
			valueCell = selectedValueStyle.Width(valueWidth).Render(fitText(displayValue(f.Value, f.Sensitive), valueWidth))
		}
		sourceCell := sourceStyle.Width(sourceWidth).Render("(" + string(f.Source) + ")")
		lines = append(lines, fmt.Sprintf("%s %s  %s  %s", marker, keyCell, valueCell, sourceCell))
	}
	return lines
}

func (m model) stateLines() []string {
	var lines []string
	switch m.state {
	case stateEditing:
		lines = append(lines, mutedStyle.Render("Editing "+m.fields[m.cursor].Key), "  "+m.input.View())
		if m.errMsg != "" {
			lines = append(lines, errorStyle.Render("  "+m.errMsg))
		}
	case stateConfirmQuit:
		lines = append(lines, warnStyle.Render("Unsaved changes. Save before quitting?"))
		if m.errMsg != "" {
			lines = append(lines, errorStyle.Render(m.errMsg))
		}
		lines = append(lines, m.pendingChangeLines()...)
	default:
		if m.errMsg != "" {
			lines = append(lines, errorStyle.Render(m.errMsg))
		}
		if m.statusMsg != "" {
			lines = append(lines, statusStyle.Render(m.statusMsg))
		}
		lines = append(lines, m.pendingChangeLines()...)
	}
	return lines
}

func (m model) pendingChangeLines() []string {
	changes := m.pendingChanges()
	if len(changes) == 0 {
		return nil
	}
	lines := []string{warnStyle.Render(fmt.Sprintf("Unsaved changes (%d):", len(changes)))}
	for _, ch := range changes {
		lines = append(lines, statusStyle.Render(fmt.Sprintf("  - %s: %s -> %s", ch.key, displayValue(ch.oldValue, ch.sensitive), displayValue(ch.newValue, ch.sensitive))))
	}
	return lines
}

func helpText() string {
	return strings.Join([]string{
		titleStyle.Render("Settings Keymap"),
		mutedStyle.Render("up/down or j/k  move selection"),
		mutedStyle.Render("enter           edit selected value"),
		mutedStyle.Render("r               reset selected value"),
		mutedStyle.Render("s               save changes"),
		mutedStyle.Render("esc/q           quit"),
		mutedStyle.Render("?               toggle this help"),
	}, "\n")
}

func (m model) controlsHint() string {
	switch m.state {
	case stateEditing:
		return "type value · enter confirm · esc cancel"
	case stateConfirmQuit:
		return "y save & quit · n discard & quit · c/esc cancel"
	default:
		return "up/down or j/k move · enter edit · r reset · s save · esc/q quit · ? help"
	}
}

func displayValue(value string, sensitive bool) string {
	if strings.TrimSpace(value) == "" {
		return "(not set)"
	}
	if sensitive {
		return "****"
	}
	return value
}

func contentWidth(viewWidth int) int {
	return clamp(viewWidth-10, 28, 108)
}

func fitText(s string, width int) string {
	r := []rune(strings.TrimSpace(s))
	if len(r) <= width {
		return string(r)
	}
	if width <= 3 {
		return string(r[:width])
	}
	return string(r[:width-3]) + "..."
}

func clamp(v, lo, hi int) int {
	return min(max(v, lo), hi)
}
