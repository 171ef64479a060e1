package cli

import (
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/charmbracelet/lipgloss/table"

	"github.com/websketch/websketch/pkg/session"
)

// List styles
var (
	listDimStyle = lipgloss.NewStyle().Foreground(colorDim)
)

// =============================================================================
// SessionListModel - Interactive session selection
// =============================================================================

// SessionListModel is the bubbletea model for browsing stored sessions.
type SessionListModel struct {
	Sessions []*session.Session
	Cursor   int
	Selected *session.Session
	Height   int
	Offset   int
}

// NewSessionListModel creates a new session list model.
func NewSessionListModel(sessions []*session.Session) SessionListModel {
	return SessionListModel{
		Sessions: sessions,
		Cursor:   0,
		Height:   15,
		Offset:   0,
	}
}

func (m SessionListModel) Init() tea.Cmd {
	return nil
}

func (m SessionListModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		switch msg.String() {
		case "q", "ctrl+c", "esc":
			return m, tea.Quit
		case "up", "k":
			if m.Cursor > 0 {
				m.Cursor--
				if m.Cursor < m.Offset {
					m.Offset = m.Cursor
				}
			}
		case "down", "j":
			if m.Cursor < len(m.Sessions)-1 {
				m.Cursor++
				if m.Cursor >= m.Offset+m.Height {
					m.Offset = m.Cursor - m.Height + 1
				}
			}
		case "enter":
			m.Selected = m.Sessions[m.Cursor]
			return m, tea.Quit
		}
	case tea.WindowSizeMsg:
		m.Height = msg.Height - 6
		if m.Height < 5 {
			m.Height = 5
		}
	}
	return m, nil
}

func (m SessionListModel) View() string {
	var b strings.Builder

	b.WriteString(StyleTitle.Render("Stored Sessions"))
	b.WriteString("\n")
	b.WriteString(listDimStyle.Render("↑/↓ navigate  ⏎ show  q quit"))
	b.WriteString("\n\n")

	end := m.Offset + m.Height
	if end > len(m.Sessions) {
		end = len(m.Sessions)
	}

	rows := [][]string{}
	for i := m.Offset; i < end; i++ {
		s := m.Sessions[i]

		cursor := "  "
		if i == m.Cursor {
			cursor = "▸ "
		}

		rows = append(rows, []string{
			cursor,
			s.ID,
			fmt.Sprintf("%d", len(s.CurrentSketch)),
			fmt.Sprintf("%d", len(s.OperationHistory)),
			formatRelativeTime(s.UpdatedAt),
		})
	}

	headerStyle := lipgloss.NewStyle().Foreground(colorGray).Bold(true)

	t := table.New().
		Border(lipgloss.RoundedBorder()).
		BorderStyle(lipgloss.NewStyle().Foreground(colorDim)).
		Headers("", "Session", "Components", "Edits", "Updated").
		Rows(rows...).
		StyleFunc(func(row, col int) lipgloss.Style {
			if row == -1 {
				return headerStyle
			}

			actualIdx := m.Offset + row
			if actualIdx >= len(m.Sessions) {
				return lipgloss.NewStyle()
			}

			base := lipgloss.NewStyle()
			if col == 4 {
				base = base.Foreground(colorDim)
			}
			if actualIdx == m.Cursor {
				if col != 4 {
					return base.Foreground(colorCyan).Bold(true)
				}
				return base.Bold(true)
			}
			if col != 4 {
				return base.Foreground(colorWhite)
			}
			return base
		})

	b.WriteString(t.Render())
	b.WriteString("\n\n")
	b.WriteString(listDimStyle.Render(fmt.Sprintf("  [%d/%d]", m.Cursor+1, len(m.Sessions))))

	return b.String()
}

// =============================================================================
// Helpers
// =============================================================================

func formatRelativeTime(t time.Time) string {
	diff := time.Since(t)

	switch {
	case diff < time.Hour:
		return fmt.Sprintf("%dm ago", int(diff.Minutes()))
	case diff < 24*time.Hour:
		return fmt.Sprintf("%dh ago", int(diff.Hours()))
	case diff < 7*24*time.Hour:
		return fmt.Sprintf("%dd ago", int(diff.Hours()/24))
	default:
		return t.Format("Jan 2, 2006")
	}
}
