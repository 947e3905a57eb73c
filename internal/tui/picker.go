// Package tui provides the interactive session picker shown by the
// local command when run on a terminal.
package tui

import (
	"errors"
	"fmt"
	"strings"
	"time"

	tea "github.com/charmbracelet/bubbletea"
	"github.com/charmbracelet/lipgloss"
	"github.com/mattn/go-runewidth"

	"claude-transcripts/internal/data/scanner"
	"claude-transcripts/internal/util"
)

// ErrCancelled reports that the user quit the picker without choosing.
var ErrCancelled = errors.New("selection cancelled")

var (
	titleStyle    = lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("229")).Background(lipgloss.Color("63")).Padding(0, 1)
	selectedStyle = lipgloss.NewStyle().Foreground(lipgloss.Color("212")).Bold(true)
	metaStyle     = lipgloss.NewStyle().Foreground(lipgloss.Color("245"))
	footerStyle   = lipgloss.NewStyle().Foreground(lipgloss.Color("241"))
)

type pickerModel struct {
	sessions []scanner.Session
	cursor   int
	selected string
	width    int
	height   int
}

func (m pickerModel) Init() tea.Cmd {
	return nil
}

func (m pickerModel) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case tea.KeyMsg:
		switch msg.String() {
		case "ctrl+c", "q", "esc":
			return m, tea.Quit

		case "up", "k":
			if m.cursor > 0 {
				m.cursor--
			}

		case "down", "j":
			if m.cursor < len(m.sessions)-1 {
				m.cursor++
			}

		case "enter":
			if m.cursor < len(m.sessions) {
				m.selected = m.sessions[m.cursor].Path
			}
			return m, tea.Quit
		}
	}
	return m, nil
}

func (m pickerModel) View() string {
	var s strings.Builder
	s.WriteString(titleStyle.Render("Select a session to convert") + "\n\n")

	for i, session := range m.sessions {
		cursor := "  "
		if i == m.cursor {
			cursor = "> "
		}

		line := cursor + formatSessionLine(session, m.width)
		if i == m.cursor {
			s.WriteString(selectedStyle.Render(line) + "\n")
		} else {
			s.WriteString(line + "\n")
		}
	}

	s.WriteString("\n" + footerStyle.Render("↑/↓: navigate • enter: select • q: quit"))
	return s.String()
}

func formatSessionLine(session scanner.Session, width int) string {
	date := util.FormatModTime(time.Unix(session.ModTime, 0))
	meta := metaStyle.Render(fmt.Sprintf("%s  %8s", date, util.FormatSizeKB(session.Size)))

	summary := session.Summary
	budget := width - 30
	if budget < 20 {
		budget = 50
	}
	if runewidth.StringWidth(summary) > budget {
		summary = runewidth.Truncate(summary, budget-3, "") + "..."
	}
	return meta + "  " + summary
}

// PickSession shows a cursor-list picker and returns the path of the
// chosen session file.
func PickSession(sessions []scanner.Session) (string, error) {
	if len(sessions) == 0 {
		return "", errors.New("no sessions to pick from")
	}

	p := tea.NewProgram(pickerModel{sessions: sessions})
	finalModel, err := p.Run()
	if err != nil {
		return "", err
	}

	m := finalModel.(pickerModel)
	if m.selected == "" {
		return "", ErrCancelled
	}
	return m.selected, nil
}
