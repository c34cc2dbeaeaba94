// Package tui implements the interactive notification settings panel.
package tui

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/claudenotify/claude-notify-go/internal/audio"
	"github.com/claudenotify/claude-notify-go/internal/config"
	"github.com/claudenotify/claude-notify-go/internal/installer"
)

// settingType defines how a row is edited.
type settingType int

const (
	settingBool settingType = iota
	settingEnum
	settingNumber
	settingText
)

// setting describes one editable row.
type setting struct {
	kind    config.Kind // empty for global settings
	field   string      // "enabled", "mode", "voice", "text", "sound", "volume", "cooldown"
	label   string
	typ     settingType
	options []string // enum values
	min     float64  // number range
	max     float64
	step    float64
}

// Deps bundles what the panel needs from main.
type Deps struct {
	Store     *config.Store
	Installer *installer.Installer
	Audio     *audio.System
}

// Model is the Bubble Tea model for the settings panel.
type Model struct {
	cfg   config.Config
	deps  Deps
	items []setting

	cursor   int
	input    textinput.Model
	editing  bool
	showHelp bool
	status   string
	dirty    bool
	width    int
}

// previewDoneMsg reports the outcome of a preview playback.
type previewDoneMsg struct{ err error }

// statusClearMsg clears a transient status line.
type statusClearMsg struct{}

// New builds the panel over the given config. Voice and sound options
// come from the enumerators; empty lists leave those rows cycling over
// just the current value.
func New(cfg config.Config, deps Deps) Model {
	cfg = config.Normalize(cfg)

	voices := voiceNames(deps.Audio.Voices(context.Background()), cfg)
	sounds := soundNames(deps.Audio.Sounds(), cfg)

	input := textinput.New()
	input.CharLimit = 200
	input.Width = 48

	return Model{
		cfg:   cfg,
		deps:  deps,
		items: buildItems(voices, sounds),
		input: input,
		width: 80,
	}
}

func buildItems(voices, sounds []string) []setting {
	items := []setting{
		{field: "enabled", label: "Notifications enabled", typ: settingBool},
		{field: "volume", label: "Volume", typ: settingNumber, min: 0, max: 100, step: 5},
		{field: "cooldown", label: "Cooldown (seconds)", typ: settingNumber, min: 0, max: 30, step: 1},
	}
	labels := map[config.Kind]string{
		config.KindPermissionPrompt:  "Permission prompt",
		config.KindIdlePrompt:        "Idle prompt",
		config.KindElicitationDialog: "Question dialog",
		config.KindResponseComplete:  "Response complete",
	}
	for _, kind := range config.Kinds {
		name := labels[kind]
		items = append(items,
			setting{kind: kind, field: "enabled", label: name + ": enabled", typ: settingBool},
			setting{kind: kind, field: "mode", label: name + ": mode", typ: settingEnum, options: []string{config.ModeTalk, config.ModeSound}},
			setting{kind: kind, field: "voice", label: name + ": voice", typ: settingEnum, options: voices},
			setting{kind: kind, field: "text", label: name + ": spoken text", typ: settingText},
			setting{kind: kind, field: "sound", label: name + ": sound", typ: settingEnum, options: sounds},
		)
	}
	return items
}

// voiceNames returns the enumerated voice names, guaranteeing the
// currently configured voices appear even if enumeration failed.
func voiceNames(voices []audio.Voice, cfg config.Config) []string {
	var names []string
	seen := make(map[string]bool)
	for _, v := range voices {
		if !seen[v.Name] {
			seen[v.Name] = true
			names = append(names, v.Name)
		}
	}
	for _, kind := range config.Kinds {
		if v := cfg.Notifications[kind].Voice; v != "" && !seen[v] {
			seen[v] = true
			names = append(names, v)
		}
	}
	return names
}

func soundNames(sounds []string, cfg config.Config) []string {
	names := sounds
	seen := make(map[string]bool)
	for _, s := range sounds {
		seen[s] = true
	}
	for _, kind := range config.Kinds {
		if s := cfg.Notifications[kind].Sound; s != "" && !seen[s] {
			seen[s] = true
			names = append(names, s)
		}
	}
	return names
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd { return nil }

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		return m, nil

	case previewDoneMsg:
		if msg.err != nil {
			m.status = "Preview failed: " + msg.err.Error()
		} else {
			m.status = "Preview played"
		}
		return m, clearStatusLater()

	case statusClearMsg:
		m.status = ""
		return m, nil

	case tea.KeyMsg:
		if m.editing {
			return m.updateEditing(msg)
		}
		return m.updateBrowsing(msg)
	}
	return m, nil
}

func (m Model) updateEditing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "enter":
		item := m.items[m.cursor]
		m.setText(item, m.input.Value())
		m.editing = false
		m.dirty = true
		return m, nil
	case "esc":
		m.editing = false
		return m, nil
	}
	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

func (m Model) updateBrowsing(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	switch msg.String() {
	case "q", "ctrl+c", "esc":
		if m.showHelp {
			m.showHelp = false
			return m, nil
		}
		return m, tea.Quit

	case "?":
		m.showHelp = !m.showHelp
		return m, nil

	case "up", "k":
		if m.cursor > 0 {
			m.cursor--
		}
	case "down", "j":
		if m.cursor < len(m.items)-1 {
			m.cursor++
		}

	case "enter", " ", "right", "l":
		item := m.items[m.cursor]
		if item.typ == settingText {
			m.input.SetValue(m.currentValue(item))
			m.input.Focus()
			m.editing = true
			return m, textinput.Blink
		}
		m.apply(item, +1)
		m.dirty = true

	case "left", "h":
		item := m.items[m.cursor]
		if item.typ != settingText {
			m.apply(item, -1)
			m.dirty = true
		}

	case "p":
		return m, m.previewCmd()

	case "s":
		return m.save()
	}
	return m, nil
}

// save persists the config and regenerates the scripts when hooks are
// installed, so the live scripts track the saved config.
func (m Model) save() (tea.Model, tea.Cmd) {
	if err := m.deps.Store.Save(m.cfg); err != nil {
		m.status = "Save failed: " + err.Error()
		return m, clearStatusLater()
	}
	if m.deps.Installer.IsInstalled() {
		if err := m.deps.Installer.RegenerateScripts(m.cfg); err != nil {
			m.status = "Saved, but regenerating scripts failed: " + err.Error()
			return m, clearStatusLater()
		}
		m.status = "Saved, hook scripts updated"
	} else {
		m.status = "Saved"
	}
	m.dirty = false
	return m, clearStatusLater()
}

func (m Model) previewCmd() tea.Cmd {
	item := m.items[m.cursor]
	kind := item.kind
	if kind == "" {
		kind = config.KindResponseComplete
	}
	setting := m.cfg.Notifications[kind]
	volume := m.cfg.Volume
	sys := m.deps.Audio
	return func() tea.Msg {
		ctx, cancel := context.WithTimeout(context.Background(), 15*time.Second)
		defer cancel()
		return previewDoneMsg{err: sys.Preview(ctx, setting, volume)}
	}
}

func clearStatusLater() tea.Cmd {
	return tea.Tick(3*time.Second, func(time.Time) tea.Msg { return statusClearMsg{} })
}

// currentValue renders a row's value for display and text editing.
func (m Model) currentValue(item setting) string {
	if item.kind == "" {
		switch item.field {
		case "enabled":
			return fmt.Sprintf("%v", m.cfg.Enabled)
		case "volume":
			return fmt.Sprintf("%.0f", m.cfg.Volume)
		case "cooldown":
			return fmt.Sprintf("%.0f", m.cfg.Cooldown)
		}
		return ""
	}
	s := m.cfg.Notifications[item.kind]
	switch item.field {
	case "enabled":
		return fmt.Sprintf("%v", s.Enabled)
	case "mode":
		return s.Mode
	case "voice":
		return s.Voice
	case "text":
		return s.Text
	case "sound":
		return s.Sound
	}
	return ""
}

// apply toggles, cycles, or steps a row. dir is +1 or -1.
func (m *Model) apply(item setting, dir int) {
	if item.kind == "" {
		switch item.field {
		case "enabled":
			m.cfg.Enabled = !m.cfg.Enabled
		case "volume":
			m.cfg.Volume = clamp(m.cfg.Volume+float64(dir)*item.step, item.min, item.max)
		case "cooldown":
			m.cfg.Cooldown = clamp(m.cfg.Cooldown+float64(dir)*item.step, item.min, item.max)
		}
		return
	}

	s := m.cfg.Notifications[item.kind]
	switch item.field {
	case "enabled":
		s.Enabled = !s.Enabled
	case "mode", "voice", "sound":
		s = cycleField(s, item, dir)
	}
	m.cfg.Notifications[item.kind] = s
}

func (m *Model) setText(item setting, value string) {
	if item.kind == "" {
		return
	}
	s := m.cfg.Notifications[item.kind]
	s.Text = value
	m.cfg.Notifications[item.kind] = s
}

func cycleField(s config.Setting, item setting, dir int) config.Setting {
	options := item.options
	if len(options) == 0 {
		return s
	}
	var current string
	switch item.field {
	case "mode":
		current = s.Mode
	case "voice":
		current = s.Voice
	case "sound":
		current = s.Sound
	}

	next := 0
	for i, opt := range options {
		if opt == current {
			next = (i + len(options) + dir) % len(options)
			break
		}
	}
	switch item.field {
	case "mode":
		s.Mode = options[next]
	case "voice":
		s.Voice = options[next]
	case "sound":
		s.Sound = options[next]
	}
	return s
}

func clamp(v, min, max float64) float64 {
	if v < min {
		return min
	}
	if v > max {
		return max
	}
	return v
}

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Padding(0, 1)
	cursorStyle   = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("212"))
	labelStyle    = lipgloss.NewStyle().Width(34)
	dimStyle      = lipgloss.NewStyle().Faint(true)
	disabledStyle = lipgloss.NewStyle().Faint(true).Strikethrough(true)
	statusStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("114")).Padding(0, 1)
)

// View implements tea.Model.
func (m Model) View() string {
	if m.showHelp {
		return helpView(m.width)
	}

	var b strings.Builder
	b.WriteString(titleStyle.Render("Claude notification settings"))
	if m.dirty {
		b.WriteString(dimStyle.Render(" (unsaved)"))
	}
	b.WriteString("\n\n")

	for i, item := range m.items {
		prefix := "  "
		if i == m.cursor {
			prefix = cursorStyle.Render("> ")
		}

		label := labelStyle.Render(item.label)
		if m.irrelevant(item) {
			label = disabledStyle.Render(item.label)
		}

		value := m.currentValue(item)
		if m.editing && i == m.cursor {
			value = m.input.View()
		}
		fmt.Fprintf(&b, "%s%s %s\n", prefix, label, value)
	}

	b.WriteString("\n")
	if m.status != "" {
		b.WriteString(statusStyle.Render(m.status))
		b.WriteString("\n")
	}
	b.WriteString(dimStyle.Render("↑/↓ move · enter/←/→ change · p preview · s save · ? help · q quit"))
	b.WriteString("\n")
	return b.String()
}

// irrelevant marks rows the current mode ignores (voice/text in sound
// mode, sound in talk mode) so the panel reads honestly.
func (m Model) irrelevant(item setting) bool {
	if item.kind == "" {
		return false
	}
	mode := m.cfg.Notifications[item.kind].Mode
	switch item.field {
	case "voice", "text":
		return mode == config.ModeSound
	case "sound":
		return mode == config.ModeTalk
	}
	return false
}

// Run starts the panel and blocks until it exits.
func Run(cfg config.Config, deps Deps) error {
	_, err := tea.NewProgram(New(cfg, deps), tea.WithAltScreen()).Run()
	return err
}
