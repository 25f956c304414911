package cli

import (
	"fmt"
	"strings"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"

	"github.com/matzehuels/mockup/pkg/history"
)

// List styles
var (
	listSelectedStyle = lipgloss.NewStyle().Bold(true).Foreground(colorCyan)
	listNormalStyle   = lipgloss.NewStyle().Foreground(colorWhite)
	listDimStyle      = lipgloss.NewStyle().Foreground(colorDim)
	listCurrentStyle  = lipgloss.NewStyle().Foreground(colorGreen)
)

// =============================================================================
// HistoryModel - Interactive history browser
// =============================================================================

// HistoryModel is the bubbletea model for picking a history entry.
type HistoryModel struct {
	Screen   string
	Rows     []timelineRow
	Cursor   int
	Offset   int
	Height   int
	Selected *timelineRow
}

// NewHistoryModel starts the cursor on the current state.
func NewHistoryModel(screen string, st history.Stacks) HistoryModel {
	rows := timeline(st)
	m := HistoryModel{Screen: screen, Rows: rows, Height: 15}
	for i, r := range rows {
		if r.current {
			m.Cursor = i
		}
	}
	m.scroll()
	return m
}

func (m HistoryModel) Init() tea.Cmd {
	return nil
}

func (m HistoryModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			m.Selected = nil
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
			}
		case "down", "j":
			if m.Cursor < len(m.Rows)-1 {
				m.Cursor++
			}
		case "home", "g":
			m.Cursor = 0
		case "end", "G":
			m.Cursor = len(m.Rows) - 1
		case "enter":
			if r := m.Rows[m.Cursor]; !r.current {
				m.Selected = &r
			}
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = max(msg.Height-6, 5)
	}
	m.scroll()
	return m, nil
}

func (m *HistoryModel) scroll() {
	if m.Cursor < m.Offset {
		m.Offset = m.Cursor
	}
	if m.Cursor >= m.Offset+m.Height {
		m.Offset = m.Cursor - m.Height + 1
	}
}

func (m HistoryModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("History of " + m.Screen))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ jump  q quit"))
	b.WriteString("\n\n")

	end := min(m.Offset+m.Height, len(m.Rows))
	for i := m.Offset; i < end; i++ {
		r := m.Rows[i]
		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}
		line := fmt.Sprintf("%s%-10s %-28s %s", cursor, r.ref(), r.label, r.when)
		switch {
		case i == m.Cursor:
			b.WriteString(listSelectedStyle.Render(line))
		case r.current:
			b.WriteString(listCurrentStyle.Render(line))
		case r.stack == history.Future:
			b.WriteString(listDimStyle.Render(line))
		default:
			b.WriteString(listNormalStyle.Render(line))
		}
		b.WriteString("\n")
	}

	b.WriteString("\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Rows))))
	return b.String()
}
