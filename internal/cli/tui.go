package cli

import (
	"fmt"
	"os"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/dnaconvert/dnaconvert/pkg/errors"
	"github.com/dnaconvert/dnaconvert/pkg/format"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// FormatListModel - Interactive format selection
// =============================================================================

// FormatListModel is the bubbletea model for interactive format selection.
type FormatListModel struct {
	Title    string
	Formats  []*format.Descriptor
	Cursor   int
	Selected *format.Descriptor
}

// NewFormatListModel creates a picker over the formats that are not
// internal, with the cursor on current when it is listed.
func NewFormatListModel(title string, all []*format.Descriptor, current string) FormatListModel {
	m := FormatListModel{Title: title}
	for _, d := range all {
		if d.Internal {
			continue
		}
		if d.Name == current {
			m.Cursor = len(m.Formats)
		}
		m.Formats = append(m.Formats, d)
	}
	return m
}

func (m FormatListModel) Init() tea.Cmd {
	return nil
}

func (m FormatListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	key, ok := msg.(tea.KeyMsg)
	if !ok {
		return m, nil
	}
	switch key.String() {
	case "q", "ctrl+c", "esc":
		return m, tea.Quit
	case "up", "k":
		if m.Cursor > 0 {
			m.Cursor--
		}
	case "down", "j":
		if m.Cursor < len(m.Formats)-1 {
			m.Cursor++
		}
	case "enter":
		if len(m.Formats) > 0 {
			m.Selected = m.Formats[m.Cursor]
		}
		return m, tea.Quit
	}
	return m, nil
}

func (m FormatListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render(m.Title))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ select  q quit"))
	b.WriteString("\n\n")

	rows := make([][]string, len(m.Formats))
	for i, d := range m.Formats {
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		rows[i] = []string{cursor, d.Name, d.Extension, d.Description}
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Format", "Ext", "Description").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}
			if row == m.Cursor {
				return lipgloss.NewStyle().Foreground(colorGreen).Bold(true)
			}
			if col == 3 {
				return listDimStyle
			}
			return lipgloss.NewStyle()
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Formats))))

	return b.String()
}

// pickFormat runs the picker on stderr and returns the chosen format.
func pickFormat(title string, all []*format.Descriptor, current string) (*format.Descriptor, error) {
	model := NewFormatListModel(title, all, current)
	final, err := tea.NewProgram(model, tea.WithOutput(os.Stderr)).Run()
	if err != nil {
		return nil, fmt.Errorf("format picker: %w", err)
	}
	picked := final.(FormatListModel).Selected
	if picked == nil {
		return nil, errors.New(errors.ErrCodeInvalidInput, "no %s selected", strings.ToLower(title))
	}
	return picked, nil
}
