package main

import (
	"context"
	"strings"
	"time"

	"github.com/charmbracelet/bubbles/textinput"
	tea "github.com/charmbracelet/bubbletea"

	"nova/pkg/session"
)

// tickMsg is sent by Bubble Tea on every tick interval.
// The tick is a fallback refresh; most updates arrive through changedMsg.
type tickMsg time.Time

// changedMsg is sent when the session signals that its state changed.
type changedMsg struct{}

// refreshedMsg is sent after a manually requested refresh completes.
type refreshedMsg struct{}

// chatSentMsg carries the outcome of an async chat send.
type chatSentMsg struct {
	err error
}

// tickCmd returns a command that sends a tickMsg after 2 seconds.
func tickCmd() tea.Cmd {
	return tea.Tick(2*time.Second, func(t time.Time) tea.Msg {
		return tickMsg(t)
	})
}

// waitChangeCmd blocks on the session's coalesced change signal. Exactly one
// of these is in flight at a time; the changedMsg handler re-arms it.
func waitChangeCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		<-s.Changed()
		return changedMsg{}
	}
}

// seedHistoryCmd loads the backend conversation into the transcript.
func seedHistoryCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		s.SeedHistory(context.Background())
		return refreshedMsg{}
	}
}

// refreshCmd re-fetches both collections.
func refreshCmd(s *session.Session) tea.Cmd {
	return func() tea.Msg {
		ctx := context.Background()
		s.RefreshReminders(ctx)
		s.RefreshMemories(ctx)
		return refreshedMsg{}
	}
}

// sendChatCmd posts one chat message. The optimistic echo lands in the
// transcript before the request is even sent.
func sendChatCmd(s *session.Session, text string) tea.Cmd {
	return func() tea.Msg {
		_, err := s.SendChat(context.Background(), text)
		return chatSentMsg{err: err}
	}
}

// deleteReminderCmd removes one reminder, locally first.
func deleteReminderCmd(s *session.Session, id string) tea.Cmd {
	return func() tea.Msg {
		s.DeleteReminder(context.Background(), id)
		return refreshedMsg{}
	}
}

// focusArea identifies which dashboard panel receives input.
type focusArea int

const (
	// FocusChat routes keystrokes into the chat input.
	FocusChat focusArea = iota
	// FocusReminders enables reminder navigation and deletion.
	FocusReminders
	// FocusMemories enables memory navigation.
	FocusMemories

	focusCount
)

// Model is the Bubble Tea model for the nova dashboard.
type Model struct {
	sess *session.Session
	snap session.State

	width  int
	height int

	focus          focusArea
	reminderCursor int
	showHelp       bool
	chatErr        error

	input textinput.Model
}

// newModel creates a Model bound to a live session, with the chat input
// focused.
func newModel(s *session.Session) Model {
	ti := textinput.New()
	ti.Placeholder = "Ask Nova anything"
	ti.CharLimit = 512
	ti.Focus()

	return Model{
		sess:  s,
		input: ti,
	}
}

// Init implements tea.Model.
func (m Model) Init() tea.Cmd {
	cmds := []tea.Cmd{tickCmd(), textinput.Blink}
	if m.sess != nil {
		cmds = append(cmds, waitChangeCmd(m.sess), seedHistoryCmd(m.sess))
	}
	return tea.Batch(cmds...)
}

// Update implements tea.Model.
func (m Model) Update(msg tea.Msg) (tea.Model, tea.Cmd) {
	switch msg := msg.(type) {
	case tea.KeyMsg:
		return m.handleKeyPress(msg)

	case tea.WindowSizeMsg:
		m.width = msg.Width
		m.height = msg.Height

	case changedMsg:
		m = m.refreshSnapshot()
		if m.sess != nil {
			return m, waitChangeCmd(m.sess)
		}

	case refreshedMsg:
		m = m.refreshSnapshot()

	case chatSentMsg:
		m.chatErr = msg.err
		m = m.refreshSnapshot()

	case tickMsg:
		m = m.refreshSnapshot()
		return m, tickCmd()
	}

	return m, nil
}

// refreshSnapshot copies the session state into the model and clamps the
// reminder cursor to the new collection bounds.
func (m Model) refreshSnapshot() Model {
	if m.sess == nil {
		return m
	}
	m.snap = m.sess.Snapshot()
	return m.clampCursor()
}

func (m Model) clampCursor() Model {
	if n := len(m.snap.Reminders); m.reminderCursor >= n {
		m.reminderCursor = n - 1
	}
	if m.reminderCursor < 0 {
		m.reminderCursor = 0
	}
	return m
}

// handleKeyPress processes keyboard input and returns updated model with
// optional command.
func (m Model) handleKeyPress(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	key := msg.String()

	if key == "ctrl+c" {
		return m, tea.Quit
	}
	if key == "tab" {
		m.focus = (m.focus + 1) % focusCount
		return m, nil
	}
	if key == "shift+tab" {
		m.focus = (m.focus + focusCount - 1) % focusCount
		return m, nil
	}

	switch m.focus {
	case FocusReminders:
		return m.handleReminderKeys(key)
	case FocusMemories:
		return m.handleListKeys(key)
	default:
		return m.handleChatKeys(msg)
	}
}

// handleChatKeys routes keystrokes into the chat input. Enter sends the
// current line; everything else is text editing.
func (m Model) handleChatKeys(msg tea.KeyMsg) (tea.Model, tea.Cmd) {
	if msg.String() == "enter" {
		text := strings.TrimSpace(m.input.Value())
		if text == "" || m.sess == nil {
			return m, nil
		}
		m.input.Reset()
		m.chatErr = nil
		return m, sendChatCmd(m.sess, text)
	}

	var cmd tea.Cmd
	m.input, cmd = m.input.Update(msg)
	return m, cmd
}

// handleReminderKeys processes keyboard input while the reminders panel has
// focus.
func (m Model) handleReminderKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "j", "down":
		if m.reminderCursor < len(m.snap.Reminders)-1 {
			m.reminderCursor++
		}
	case "k", "up":
		if m.reminderCursor > 0 {
			m.reminderCursor--
		}
	case "d":
		if m.sess != nil && m.reminderCursor < len(m.snap.Reminders) {
			id := m.snap.Reminders[m.reminderCursor].ID
			return m, deleteReminderCmd(m.sess, id)
		}
	case "r":
		if m.sess != nil {
			return m, refreshCmd(m.sess)
		}
	}
	return m.clampCursor(), nil
}

// handleListKeys processes keyboard input for panels without item actions.
func (m Model) handleListKeys(key string) (tea.Model, tea.Cmd) {
	switch key {
	case "q":
		return m, tea.Quit
	case "?":
		m.showHelp = !m.showHelp
	case "r":
		if m.sess != nil {
			return m, refreshCmd(m.sess)
		}
	}
	return m, nil
}
