package tui

import (
	"strings"

	"github.com/charmbracelet/lipgloss"
)

const title = "GraceAI - Christian Therapy Assistant"

type styles struct {
	Header  lipgloss.Style
	User    lipgloss.Style
	AI      lipgloss.Style
	Label   lipgloss.Style
	Loading lipgloss.Style
	Input   lipgloss.Style
}

func defaultStyles() styles {
	return styles{
		Header:  lipgloss.NewStyle().Bold(true).Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#6B4E9B")).Padding(0, 1),
		User:    lipgloss.NewStyle().Foreground(lipgloss.Color("#FFFFFF")).Background(lipgloss.Color("#3B82F6")).Padding(0, 1),
		AI:      lipgloss.NewStyle().Foreground(lipgloss.Color("#1F2937")).Background(lipgloss.Color("#E5E7EB")).Padding(0, 1),
		Label:   lipgloss.NewStyle().Bold(true).Faint(true),
		Loading: lipgloss.NewStyle().Faint(true),
		Input:   lipgloss.NewStyle().Border(lipgloss.RoundedBorder()).BorderForeground(lipgloss.Color("#6B4E9B")),
	}
}

// renderTranscript draws every visible message as a bubble, one line per text line.
func (m Model) renderTranscript() string {
	bubbleWidth := m.width * 3 / 4
	if bubbleWidth < minWidth {
		bubbleWidth = minWidth
	}

	var sb strings.Builder
	for _, msg := range m.ctrl.Visible() {
		body := strings.Join(msg.Lines(), "\n")
		if msg.IsUser {
			bubble := m.styles.User.Width(bubbleWidth).Render(body)
			sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, m.styles.Label.Render("You")))
			sb.WriteString("\n")
			sb.WriteString(lipgloss.PlaceHorizontal(m.width, lipgloss.Right, bubble))
		} else {
			sb.WriteString(m.styles.Label.Render("Grace"))
			sb.WriteString("\n")
			sb.WriteString(m.styles.AI.Width(bubbleWidth).Render(body))
		}
		sb.WriteString("\n\n")
	}
	return sb.String()
}

// View renders the header, transcript, loading indicator and input.
func (m Model) View() string {
	var sb strings.Builder
	sb.WriteString(m.styles.Header.Render(title))
	sb.WriteString("\n\n")
	sb.WriteString(m.viewport.View())
	sb.WriteString("\n")
	if m.ctrl.Pending() {
		sb.WriteString(m.styles.Loading.Render(m.spinner.View() + " Grace is typing..."))
	}
	sb.WriteString("\n")
	sb.WriteString(m.styles.Input.Render(m.input.View()))
	return sb.String()
}
