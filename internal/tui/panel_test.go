package tui

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/claudenotify/claude-notify-go/internal/config"
)

func testModel() Model {
	return Model{
		cfg:   config.Normalize(config.Default()),
		items: buildItems([]string{"Samantha", "Alex"}, []string{"Glass", "Ping"}),
		width: 80,
	}
}

func TestBuildItemsCoversEveryKindAndField(t *testing.T) {
	items := buildItems(nil, nil)

	// 3 globals plus 5 rows per kind.
	want := 3 + 5*len(config.Kinds)
	if len(items) != want {
		t.Fatalf("got %d items, want %d", len(items), want)
	}

	perKind := make(map[config.Kind]map[string]bool)
	for _, item := range items {
		if item.kind == "" {
			continue
		}
		if perKind[item.kind] == nil {
			perKind[item.kind] = make(map[string]bool)
		}
		perKind[item.kind][item.field] = true
	}
	for _, kind := range config.Kinds {
		for _, field := range []string{"enabled", "mode", "voice", "text", "sound"} {
			if !perKind[kind][field] {
				t.Errorf("kind %s missing %s row", kind, field)
			}
		}
	}
}

func TestApplyTogglesAndCycles(t *testing.T) {
	m := testModel()

	m.apply(setting{field: "enabled", typ: settingBool}, +1)
	if m.cfg.Enabled {
		t.Error("global enabled did not toggle off")
	}

	m.apply(setting{field: "volume", typ: settingNumber, min: 0, max: 100, step: 5}, +1)
	if m.cfg.Volume != 55 {
		t.Errorf("volume = %v, want 55", m.cfg.Volume)
	}

	mode := setting{kind: config.KindIdlePrompt, field: "mode", typ: settingEnum,
		options: []string{config.ModeTalk, config.ModeSound}}
	m.apply(mode, +1)
	if got := m.cfg.Notifications[config.KindIdlePrompt].Mode; got != config.ModeSound {
		t.Errorf("mode = %q, want sound", got)
	}
	m.apply(mode, +1)
	if got := m.cfg.Notifications[config.KindIdlePrompt].Mode; got != config.ModeTalk {
		t.Errorf("mode did not wrap, got %q", got)
	}
}

func TestApplyClampsNumbers(t *testing.T) {
	m := testModel()
	vol := setting{field: "volume", typ: settingNumber, min: 0, max: 100, step: 5}

	m.cfg.Volume = 100
	m.apply(vol, +1)
	if m.cfg.Volume != 100 {
		t.Errorf("volume exceeded max: %v", m.cfg.Volume)
	}
	m.cfg.Volume = 0
	m.apply(vol, -1)
	if m.cfg.Volume != 0 {
		t.Errorf("volume went below min: %v", m.cfg.Volume)
	}
}

func TestCycleVoicePicksFromOptions(t *testing.T) {
	m := testModel()
	voice := setting{kind: config.KindIdlePrompt, field: "voice", typ: settingEnum,
		options: []string{"Samantha", "Alex"}}

	m.apply(voice, +1)
	if got := m.cfg.Notifications[config.KindIdlePrompt].Voice; got != "Alex" {
		t.Errorf("voice = %q, want Alex", got)
	}
}

func TestSetTextUpdatesKind(t *testing.T) {
	m := testModel()
	m.setText(setting{kind: config.KindResponseComplete, field: "text", typ: settingText}, "all done")
	if got := m.cfg.Notifications[config.KindResponseComplete].Text; got != "all done" {
		t.Errorf("text = %q, want %q", got, "all done")
	}
}

func TestCursorNavigationStaysInBounds(t *testing.T) {
	m := testModel()

	up := tea.KeyMsg{Type: tea.KeyUp}
	next, _ := m.Update(up)
	m = next.(Model)
	if m.cursor != 0 {
		t.Errorf("cursor moved above first row: %d", m.cursor)
	}

	down := tea.KeyMsg{Type: tea.KeyDown}
	for range m.items {
		next, _ = m.Update(down)
		m = next.(Model)
	}
	if m.cursor != len(m.items)-1 {
		t.Errorf("cursor = %d, want last row %d", m.cursor, len(m.items)-1)
	}
}

func TestViewRendersValues(t *testing.T) {
	m := testModel()
	view := m.View()

	for _, want := range []string{"Claude notification settings", "Volume", "50", "Samantha"} {
		if !strings.Contains(view, want) {
			t.Errorf("view missing %q", want)
		}
	}
}

func TestViewMarksUnsaved(t *testing.T) {
	m := testModel()
	if strings.Contains(m.View(), "unsaved") {
		t.Error("fresh panel should not show unsaved marker")
	}

	next, _ := m.Update(tea.KeyMsg{Type: tea.KeySpace})
	m = next.(Model)
	if !strings.Contains(m.View(), "unsaved") {
		t.Error("edited panel should show unsaved marker")
	}
}
