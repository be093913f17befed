package protocol

import (
	"encoding/json"
	"fmt"
)

// Chat roles for client-side transcript entries.
const (
	RoleUser = "user"
	RoleNova = "nova"
)

// Reminder is one scheduled reminder as returned by GET /reminders.
// Timestamps are ISO 8601 strings; the client never reinterprets them.
type Reminder struct {
	ID        string `json:"id"`
	Message   string `json:"message"`
	FireAt    string `json:"fire_at"`
	CreatedAt string `json:"created_at"`
}

// Memory is one stored memory as returned by GET /memories.
type Memory struct {
	ID        string `json:"id"`
	Text      string `json:"text"`
	Category  string `json:"category,omitempty"`
	Source    string `json:"source,omitempty"`
	UpdatedAt string `json:"updatedAt,omitempty"`
	Pinned    bool   `json:"pinned,omitempty"`
}

// ChatMessage is one entry in the client-side conversation transcript.
// ID is assigned locally; the backend does not key chat messages.
type ChatMessage struct {
	ID        string `json:"id"`
	Role      string `json:"role"` // user | nova
	Text      string `json:"text"`
	Timestamp string `json:"timestamp"`
}

// HistoryEntry is one entry of GET /history. The backend uses role "model"
// for assistant turns; the client maps it to RoleNova.
type HistoryEntry struct {
	Role      string `json:"role"`
	Content   string `json:"content"`
	Timestamp string `json:"timestamp"`
}

// ChatResponse is the body of a successful POST /chat.
type ChatResponse struct {
	Response  string `json:"response"`
	Timestamp string `json:"timestamp"`
}

// AutomationStep is one step of a generated automation workflow.
type AutomationStep struct {
	ID     string `json:"id"`
	Action string `json:"action"`
	Target string `json:"target"`
}

// Automation is the descriptor returned by POST /automations/generate.
type Automation struct {
	ID          string           `json:"id"`
	Title       string           `json:"title"`
	Description string           `json:"description"`
	Trigger     string           `json:"trigger"`
	Steps       []AutomationStep `json:"steps"`
}

// TutorStartResult is the body of a successful POST /tutor/start.
type TutorStartResult struct {
	SessionID string `json:"session_id"`
	Topic     string `json:"topic"`
	Status    string `json:"status"`
}

// TutorAnswerResult is the body of POST /tutor/answer.
type TutorAnswerResult struct {
	Correct     bool   `json:"correct"`
	Explanation string `json:"explanation"`
}

// TutorScore is the score snapshot of GET /tutor/score; POST /tutor/end
// wraps it as {"status":"ended","score":{...}}.
type TutorScore struct {
	SessionID     string   `json:"session_id"`
	Topic         string   `json:"topic"`
	State         string   `json:"state"`
	Correct       int      `json:"correct"`
	Incorrect     int      `json:"incorrect"`
	WeakTopics    []string `json:"weak_topics,omitempty"`
	StrongTopics  []string `json:"strong_topics,omitempty"`
	QIndex        int      `json:"q_index"`
	TotalConcepts int      `json:"total_concepts"`
}

// TutorEndResult is the body of POST /tutor/end.
type TutorEndResult struct {
	Status string     `json:"status"`
	Score  TutorScore `json:"score"`
}

// Health is the body of GET /health.
type Health struct {
	Status          string `json:"status"`
	Timestamp       string `json:"timestamp"`
	ActiveWSClients int    `json:"active_ws_clients"`
}

// DecodeReminders decodes a GET /reminders body. The backend wraps the
// collection ({"reminders":[...]}) but a bare array is accepted too.
func DecodeReminders(data []byte) ([]Reminder, error) {
	var wrapped struct {
		Reminders []Reminder `json:"reminders"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Reminders != nil {
		return wrapped.Reminders, nil
	}
	var bare []Reminder
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("decode reminders: %w", err)
	}
	return bare, nil
}

// DecodeMemories decodes a GET /memories body, wrapper or bare array.
func DecodeMemories(data []byte) ([]Memory, error) {
	var wrapped struct {
		Memories []Memory `json:"memories"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.Memories != nil {
		return wrapped.Memories, nil
	}
	var bare []Memory
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("decode memories: %w", err)
	}
	return bare, nil
}

// DecodeHistory decodes a GET /history body, wrapper or bare array.
func DecodeHistory(data []byte) ([]HistoryEntry, error) {
	var wrapped struct {
		History []HistoryEntry `json:"history"`
	}
	if err := json.Unmarshal(data, &wrapped); err == nil && wrapped.History != nil {
		return wrapped.History, nil
	}
	var bare []HistoryEntry
	if err := json.Unmarshal(data, &bare); err != nil {
		return nil, fmt.Errorf("decode history: %w", err)
	}
	return bare, nil
}
