package session

import (
	"bytes"
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"
	"time"

	"github.com/google/uuid"

	"nova/pkg/protocol"
)

// The request façade. GET-style refreshers replace collection state on
// success and degrade silently on any failure; action-style operations
// apply their optimistic mutation first and surface failure as an error
// return. Nothing here panics across the package boundary.

// RefreshReminders replaces the reminder collection with the backend's
// current list. Any failure leaves the existing collection unchanged.
func (s *Session) RefreshReminders(ctx context.Context) {
	data, err := s.getBytes(ctx, "/reminders")
	if err != nil {
		s.reportFailure(FailureTransport, "reminders.fetch", err)
		return
	}
	reminders, err := protocol.DecodeReminders(data)
	if err != nil {
		s.reportFailure(FailureDecode, "reminders.fetch", err)
		return
	}
	if !s.alive() {
		return
	}

	s.mu.Lock()
	s.reminders = reminders
	s.mu.Unlock()
	s.markChanged()
}

// RefreshMemories replaces the memory collection, same contract as
// RefreshReminders.
func (s *Session) RefreshMemories(ctx context.Context) {
	data, err := s.getBytes(ctx, "/memories")
	if err != nil {
		s.reportFailure(FailureTransport, "memories.fetch", err)
		return
	}
	memories, err := protocol.DecodeMemories(data)
	if err != nil {
		s.reportFailure(FailureDecode, "memories.fetch", err)
		return
	}
	if !s.alive() {
		return
	}

	s.mu.Lock()
	s.memories = memories
	s.mu.Unlock()
	s.markChanged()
}

// DeleteReminder removes the reminder locally by id, then issues the
// delete request. The local removal stands regardless of the request
// outcome; there is no rollback.
func (s *Session) DeleteReminder(ctx context.Context, id string) {
	s.mu.Lock()
	kept := s.reminders[:0]
	for _, r := range s.reminders {
		if r.ID != id {
			kept = append(kept, r)
		}
	}
	s.reminders = kept
	s.mu.Unlock()
	s.markChanged()

	if err := s.doDelete(ctx, "/reminders/"+id); err != nil {
		s.reportFailure(FailureTransport, "reminders.delete", err)
	}
}

// CreateReminder schedules a reminder. timeSpec is server-interpreted:
// relative ("30m", "1h", "90s") or ISO 8601. On success the backend's
// reminder list is re-fetched in the background.
func (s *Session) CreateReminder(ctx context.Context, message, timeSpec string) (protocol.Reminder, error) {
	var created protocol.Reminder
	body := map[string]string{"message": message, "time": timeSpec}
	if err := s.postJSON(ctx, "/reminders", body, &created); err != nil {
		s.reportFailure(classify(err), "reminders.create", err)
		return protocol.Reminder{}, err
	}

	go s.RefreshReminders(s.ctx)
	return created, nil
}

// SendChat appends the user message to the transcript immediately, then
// posts it. The optimistic echo stays whether or not the network
// cooperates. On success the assistant reply is appended and returned.
func (s *Session) SendChat(ctx context.Context, message string) (string, error) {
	now := s.nowFunc().UTC().Format(time.RFC3339)

	s.mu.Lock()
	s.chat = append(s.chat, protocol.ChatMessage{
		ID:        uuid.NewString(),
		Role:      protocol.RoleUser,
		Text:      message,
		Timestamp: now,
	})
	s.mu.Unlock()
	s.markChanged()

	var resp protocol.ChatResponse
	if err := s.postJSON(ctx, "/chat", map[string]string{"message": message}, &resp); err != nil {
		s.reportFailure(classify(err), "chat.send", err)
		return "", err
	}
	if !s.alive() {
		return resp.Response, nil
	}

	ts := resp.Timestamp
	if ts == "" {
		ts = s.nowFunc().UTC().Format(time.RFC3339)
	}
	s.mu.Lock()
	s.chat = append(s.chat, protocol.ChatMessage{
		ID:        uuid.NewString(),
		Role:      protocol.RoleNova,
		Text:      resp.Response,
		Timestamp: ts,
	})
	s.mu.Unlock()
	s.markChanged()

	return resp.Response, nil
}

// GenerateAutomation posts a natural-language prompt and returns the
// generated automation descriptor.
func (s *Session) GenerateAutomation(ctx context.Context, prompt string) (*protocol.Automation, error) {
	var a protocol.Automation
	if err := s.postJSON(ctx, "/automations/generate", map[string]string{"prompt": prompt}, &a); err != nil {
		s.reportFailure(classify(err), "automations.generate", err)
		return nil, err
	}
	return &a, nil
}

// AddMemory stores a memory on the backend and appends the server-assigned
// entry to the local collection.
func (s *Session) AddMemory(ctx context.Context, m protocol.Memory) (protocol.Memory, error) {
	var created protocol.Memory
	if err := s.postJSON(ctx, "/memories", m, &created); err != nil {
		s.reportFailure(classify(err), "memories.add", err)
		return protocol.Memory{}, err
	}
	if s.alive() {
		s.mu.Lock()
		s.memories = append(s.memories, created)
		s.mu.Unlock()
		s.markChanged()
	}
	return created, nil
}

// History fetches the backend conversation history mapped into transcript
// entries (backend role "model" becomes "nova"). It does not touch the
// session transcript: chat state is append-only for the session lifetime.
func (s *Session) History(ctx context.Context) ([]protocol.ChatMessage, error) {
	data, err := s.getBytes(ctx, "/history")
	if err != nil {
		s.reportFailure(FailureTransport, "history.fetch", err)
		return nil, err
	}
	entries, err := protocol.DecodeHistory(data)
	if err != nil {
		s.reportFailure(FailureDecode, "history.fetch", err)
		return nil, err
	}

	msgs := make([]protocol.ChatMessage, 0, len(entries))
	for _, e := range entries {
		role := protocol.RoleUser
		if e.Role != protocol.RoleUser {
			role = protocol.RoleNova
		}
		msgs = append(msgs, protocol.ChatMessage{
			ID:        uuid.NewString(),
			Role:      role,
			Text:      e.Content,
			Timestamp: e.Timestamp,
		})
	}
	return msgs, nil
}

// SeedHistory loads the backend history into the transcript, but only while
// the transcript is still empty; it never clobbers messages already
// appended this session. Failures degrade silently.
func (s *Session) SeedHistory(ctx context.Context) {
	msgs, err := s.History(ctx)
	if err != nil || !s.alive() {
		return
	}

	s.mu.Lock()
	if len(s.chat) == 0 {
		s.chat = msgs
	}
	s.mu.Unlock()
	s.markChanged()
}

// TutorStart begins a tutoring session on the backend. Questions arrive
// asynchronously on the status stream as tutor_question payloads.
func (s *Session) TutorStart(ctx context.Context, topic, notes string) (protocol.TutorStartResult, error) {
	var res protocol.TutorStartResult
	body := map[string]string{"topic": topic, "notes": notes}
	if err := s.postJSON(ctx, "/tutor/start", body, &res); err != nil {
		s.reportFailure(classify(err), "tutor.start", err)
		return protocol.TutorStartResult{}, err
	}
	return res, nil
}

// TutorAnswer submits a typed answer for the current tutor question.
func (s *Session) TutorAnswer(ctx context.Context, answer string) (protocol.TutorAnswerResult, error) {
	var res protocol.TutorAnswerResult
	if err := s.postJSON(ctx, "/tutor/answer", map[string]string{"answer": answer}, &res); err != nil {
		s.reportFailure(classify(err), "tutor.answer", err)
		return protocol.TutorAnswerResult{}, err
	}
	return res, nil
}

// TutorScore fetches the current tutoring session's score.
func (s *Session) TutorScore(ctx context.Context) (protocol.TutorScore, error) {
	data, err := s.getBytes(ctx, "/tutor/score")
	if err != nil {
		s.reportFailure(classify(err), "tutor.score", err)
		return protocol.TutorScore{}, err
	}
	var score protocol.TutorScore
	if err := json.Unmarshal(data, &score); err != nil {
		err = fmt.Errorf("decode tutor score: %w", err)
		s.reportFailure(FailureDecode, "tutor.score", err)
		return protocol.TutorScore{}, err
	}
	return score, nil
}

// TutorEnd ends the current tutoring session and returns the final score.
func (s *Session) TutorEnd(ctx context.Context) (protocol.TutorEndResult, error) {
	var res protocol.TutorEndResult
	if err := s.postJSON(ctx, "/tutor/end", nil, &res); err != nil {
		s.reportFailure(classify(err), "tutor.end", err)
		return protocol.TutorEndResult{}, err
	}
	return res, nil
}

// Health probes the backend health endpoint.
func (s *Session) Health(ctx context.Context) (protocol.Health, error) {
	data, err := s.getBytes(ctx, "/health")
	if err != nil {
		s.reportFailure(FailureTransport, "health.check", err)
		return protocol.Health{}, err
	}
	var h protocol.Health
	if err := json.Unmarshal(data, &h); err != nil {
		err = fmt.Errorf("decode health: %w", err)
		s.reportFailure(FailureDecode, "health.check", err)
		return protocol.Health{}, err
	}
	return h, nil
}

// statusError is a non-2xx response, kept distinct from network errors so
// explicit server rejections classify as application failures.
type statusError struct {
	status string
	detail string
}

func (e *statusError) Error() string {
	if e.detail != "" {
		return fmt.Sprintf("backend returned %s: %s", e.status, e.detail)
	}
	return "backend returned " + e.status
}

// classify maps an error from a request helper to a failure kind.
func classify(err error) FailureKind {
	var se *statusError
	if errors.As(err, &se) {
		return FailureApplication
	}
	var syn *json.SyntaxError
	var typ *json.UnmarshalTypeError
	if errors.As(err, &syn) || errors.As(err, &typ) {
		return FailureDecode
	}
	return FailureTransport
}

// url joins the configured base origin with an endpoint path.
func (s *Session) url(path string) string {
	return strings.TrimRight(s.cfg.BaseURL, "/") + path
}

// getBytes issues a GET and returns the raw body of a 2xx response.
func (s *Session) getBytes(ctx context.Context, path string) ([]byte, error) {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, s.url(path), nil)
	if err != nil {
		return nil, fmt.Errorf("build GET %s: %w", path, err)
	}
	return s.roundTrip(req)
}

// postJSON issues a POST with a JSON body and decodes a 2xx response into
// out when out is non-nil.
func (s *Session) postJSON(ctx context.Context, path string, body, out any) error {
	var buf io.Reader
	if body != nil {
		data, err := json.Marshal(body)
		if err != nil {
			return fmt.Errorf("encode POST %s body: %w", path, err)
		}
		buf = bytes.NewReader(data)
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodPost, s.url(path), buf)
	if err != nil {
		return fmt.Errorf("build POST %s: %w", path, err)
	}
	req.Header.Set("Content-Type", "application/json")

	data, err := s.roundTrip(req)
	if err != nil {
		return err
	}
	if out == nil {
		return nil
	}
	if err := json.Unmarshal(data, out); err != nil {
		return fmt.Errorf("decode POST %s response: %w", path, err)
	}
	return nil
}

// doDelete issues a DELETE; the response body is ignored beyond the status.
func (s *Session) doDelete(ctx context.Context, path string) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodDelete, s.url(path), nil)
	if err != nil {
		return fmt.Errorf("build DELETE %s: %w", path, err)
	}
	_, err = s.roundTrip(req)
	return err
}

// roundTrip executes the request and returns the body of a 2xx response.
// Non-2xx responses become a *statusError carrying the backend's detail
// field when one is present.
func (s *Session) roundTrip(req *http.Request) ([]byte, error) {
	resp, err := s.cfg.HTTPClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, err)
	}
	defer resp.Body.Close() //nolint:errcheck // best-effort close on read path

	data, err := io.ReadAll(resp.Body)
	if err != nil {
		return nil, fmt.Errorf("read %s %s response: %w", req.Method, req.URL.Path, err)
	}

	if resp.StatusCode < 200 || resp.StatusCode > 299 {
		se := &statusError{status: resp.Status}
		var body struct {
			Detail string `json:"detail"`
		}
		if json.Unmarshal(data, &body) == nil {
			se.detail = body.Detail
		}
		return nil, fmt.Errorf("%s %s: %w", req.Method, req.URL.Path, se)
	}

	return data, nil
}
