// Package protocol defines the wire types exchanged with the Nova backend:
// the live-status union pushed over the WebSocket, the REST collection
// payloads (reminders, memories, chat history), and the SQLite schema for
// the client-side event log.
package protocol

import (
	"encoding/json"
	"fmt"
)

// Status state discriminants pushed by the backend on the status WebSocket.
// Exactly one is current at any time; the client never initiates a
// transition.
const (
	StateIdle          = "idle"
	StateListening     = "listening"
	StateThinking      = "thinking"
	StateSpeaking      = "speaking"
	StateReminder      = "reminder"
	StateTutorQuestion = "tutor_question"
	StateTutorFeedback = "tutor_feedback"
)

// Status is one tagged member of the assistant-state union. State carries
// the discriminant; the remaining fields are variant-specific and zero for
// variants that do not use them.
type Status struct {
	State       string `json:"state"`
	Transcript  string `json:"transcript,omitempty"`  // thinking
	Response    string `json:"response,omitempty"`    // speaking
	Message     string `json:"message,omitempty"`     // reminder
	Question    string `json:"question,omitempty"`    // tutor_question
	Topic       string `json:"topic,omitempty"`       // tutor_question
	Index       int    `json:"index,omitempty"`       // tutor_question
	Correct     *bool  `json:"correct,omitempty"`     // tutor_feedback
	Explanation string `json:"explanation,omitempty"` // tutor_feedback
}

// Idle returns the default status, current before the first server push.
func Idle() Status {
	return Status{State: StateIdle}
}

// ValidState reports whether s is one of the seven known state values.
func ValidState(s string) bool {
	switch s {
	case StateIdle, StateListening, StateThinking, StateSpeaking,
		StateReminder, StateTutorQuestion, StateTutorFeedback:
		return true
	default:
		return false
	}
}

// ParseStatus decodes one status WebSocket payload. It returns an error for
// malformed JSON and for payloads whose state discriminant is missing or
// unknown; callers treat either as a no-op and keep the previous status.
func ParseStatus(data []byte) (Status, error) {
	var st Status
	if err := json.Unmarshal(data, &st); err != nil {
		return Status{}, fmt.Errorf("parse status payload: %w", err)
	}
	if !ValidState(st.State) {
		return Status{}, fmt.Errorf("unknown status state %q", st.State)
	}
	return st, nil
}
