package main

import (
	"fmt"
	"strings"

	"github.com/charmbracelet/lipgloss"

	"nova/pkg/protocol"
)

// chatTail is how many transcript entries the chat panel shows.
const chatTail = 8

// View implements tea.Model.
func (m Model) View() string {
	var b strings.Builder

	b.WriteString(m.renderStatusBar())
	b.WriteString("\n\n")
	b.WriteString(m.renderRemindersPanel())
	b.WriteString("\n")
	b.WriteString(m.renderMemoriesPanel())
	b.WriteString("\n")
	b.WriteString(m.renderChatPanel())

	if m.showHelp {
		b.WriteString("\n")
		b.WriteString(renderHelp(m.focus))
	} else {
		b.WriteString("\n")
		b.WriteString(lipgloss.NewStyle().Foreground(DefaultTheme().Muted).
			Render("tab: switch panel  ?: help  q: quit"))
	}

	return b.String()
}

// renderStatusBar renders stream health and the current assistant state.
func (m Model) renderStatusBar() string {
	theme := DefaultTheme()

	var stream string
	if m.snap.Connected {
		stream = lipgloss.NewStyle().Foreground(theme.Success).Render("stream: live")
	} else {
		stream = lipgloss.NewStyle().Foreground(theme.Error).Render("stream: reconnecting")
	}

	state := lipgloss.NewStyle().
		Foreground(stateColor(theme, m.snap.Status.State)).
		Render(stateLine(m.snap.Status))

	return lipgloss.JoinHorizontal(
		lipgloss.Left,
		stream,
		lipgloss.NewStyle().Render(" | nova: "),
		state,
	)
}

// stateLine formats the assistant state with its variant payload.
func stateLine(st protocol.Status) string {
	switch st.State {
	case protocol.StateThinking:
		if st.Transcript != "" {
			return fmt.Sprintf("thinking about %q", st.Transcript)
		}
		return "thinking"
	case protocol.StateSpeaking:
		if st.Response != "" {
			return "speaking: " + st.Response
		}
		return "speaking"
	case protocol.StateReminder:
		return "reminder: " + st.Message
	case protocol.StateTutorQuestion:
		return fmt.Sprintf("question %d (%s): %s", st.Index, st.Topic, st.Question)
	case protocol.StateTutorFeedback:
		if st.Correct != nil && *st.Correct {
			return "correct!"
		}
		if st.Explanation != "" {
			return "not quite: " + st.Explanation
		}
		return "not quite"
	default:
		return st.State
	}
}

// panelTitle renders a panel heading, highlighted when the panel has focus.
func (m Model) panelTitle(title string, area focusArea) string {
	theme := DefaultTheme()
	style := lipgloss.NewStyle().Foreground(theme.Muted)
	if m.focus == area {
		style = lipgloss.NewStyle().Foreground(theme.Primary).Bold(true)
	}
	return style.Render(title)
}

func (m Model) renderRemindersPanel() string {
	var b strings.Builder
	b.WriteString(m.panelTitle(fmt.Sprintf("Reminders (%d)", len(m.snap.Reminders)), FocusReminders))
	b.WriteString("\n")

	if len(m.snap.Reminders) == 0 {
		b.WriteString("  none scheduled\n")
		return b.String()
	}

	for i, r := range m.snap.Reminders {
		cursor := "  "
		if m.focus == FocusReminders && i == m.reminderCursor {
			cursor = "> "
		}
		fmt.Fprintf(&b, "%s%-12s %-22s %s\n", cursor, r.ID, r.FireAt, r.Message)
	}
	return b.String()
}

func (m Model) renderMemoriesPanel() string {
	var b strings.Builder
	b.WriteString(m.panelTitle(fmt.Sprintf("Memories (%d)", len(m.snap.Memories)), FocusMemories))
	b.WriteString("\n")

	if len(m.snap.Memories) == 0 {
		b.WriteString("  nothing stored\n")
		return b.String()
	}

	for _, mem := range m.snap.Memories {
		pin := " "
		if mem.Pinned {
			pin = "*"
		}
		fmt.Fprintf(&b, " %s %s\n", pin, mem.Text)
	}
	return b.String()
}

func (m Model) renderChatPanel() string {
	theme := DefaultTheme()

	var b strings.Builder
	b.WriteString(m.panelTitle("Chat", FocusChat))
	b.WriteString("\n")

	chat := m.snap.Chat
	if len(chat) > chatTail {
		chat = chat[len(chat)-chatTail:]
	}
	for _, msg := range chat {
		role := msg.Role
		style := lipgloss.NewStyle().Foreground(theme.Secondary)
		if role == protocol.RoleUser {
			role = "you"
			style = lipgloss.NewStyle().Foreground(theme.Primary)
		}
		fmt.Fprintf(&b, "  %s %s\n", style.Render(role+":"), msg.Text)
	}

	if m.chatErr != nil {
		b.WriteString("  ")
		b.WriteString(lipgloss.NewStyle().Foreground(theme.Error).
			Render("send failed, message kept locally"))
		b.WriteString("\n")
	}

	b.WriteString("  ")
	b.WriteString(m.input.View())
	b.WriteString("\n")
	return b.String()
}
