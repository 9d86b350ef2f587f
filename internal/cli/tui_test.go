package cli

import (
	"strings"
	"testing"

	tea "github.com/charmbracelet/bubbletea"

	"github.com/dnaconvert/dnaconvert/pkg/format/formats"
)

func press(m FormatListModel, key string) FormatListModel {
	var msg tea.KeyMsg
	switch key {
	case "enter":
		msg = tea.KeyMsg{Type: tea.KeyEnter}
	case "down":
		msg = tea.KeyMsg{Type: tea.KeyDown}
	case "up":
		msg = tea.KeyMsg{Type: tea.KeyUp}
	default:
		msg = tea.KeyMsg{Type: tea.KeyRunes, Runes: []rune(key)}
	}
	next, _ := m.Update(msg)
	return next.(FormatListModel)
}

func TestFormatListModelHidesInternal(t *testing.T) {
	m := NewFormatListModel("Input format", formats.All, "")
	for _, d := range m.Formats {
		if d.Internal {
			t.Errorf("internal format %s listed", d.Name)
		}
	}
	if len(m.Formats) != len(formats.All)-1 {
		t.Errorf("listed %d formats, want %d", len(m.Formats), len(formats.All)-1)
	}
}

func TestFormatListModelNavigation(t *testing.T) {
	m := NewFormatListModel("Output format", formats.Writable(), "nexus")
	if m.Formats[m.Cursor].Name != "nexus" {
		t.Fatalf("cursor starts on %s, want nexus", m.Formats[m.Cursor].Name)
	}

	start := m.Cursor
	m = press(m, "down")
	m = press(m, "j")
	m = press(m, "up")
	if m.Cursor != start+1 {
		t.Errorf("cursor = %d, want %d", m.Cursor, start+1)
	}

	for i := 0; i < 50; i++ {
		m = press(m, "k")
	}
	if m.Cursor != 0 {
		t.Errorf("cursor moved above the list: %d", m.Cursor)
	}

	m = press(m, "enter")
	if m.Selected == nil || m.Selected.Name != m.Formats[0].Name {
		t.Errorf("selected = %v, want %s", m.Selected, m.Formats[0].Name)
	}
}

func TestFormatListModelQuit(t *testing.T) {
	m := press(NewFormatListModel("Input format", formats.Readable(), ""), "q")
	if m.Selected != nil {
		t.Errorf("quit selected %s", m.Selected.Name)
	}
}

func TestFormatListModelView(t *testing.T) {
	view := NewFormatListModel("Input format", formats.Readable(), "").View()
	for _, want := range []string{"Input format", "fasta", "relaxed_phylip", ".nex"} {
		if !strings.Contains(view, want) {
			t.Errorf("view lacks %q", want)
		}
	}
	if strings.Contains(view, "fasta_hapview") {
		t.Error("view lists an internal format")
	}
}
