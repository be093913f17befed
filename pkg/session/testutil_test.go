package session

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/gorilla/websocket"

	"nova/pkg/protocol"
)

// fakeBackend is an httptest stand-in for the Nova backend: the REST
// surface plus the /ws/status push channel.
type fakeBackend struct {
	t   *testing.T
	srv *httptest.Server

	mu            sync.Mutex
	reminders     []protocol.Reminder
	reminderGets  int
	deletes       []string
	failDeletes   bool
	failReminders bool

	upgrader    websocket.Upgrader
	connMu      sync.Mutex
	conns       []*websocket.Conn
	dials       int
	active      int
	maxConns    int
	pending     int
	upgradeGate chan struct{} // when set, handleWS waits on it before upgrading
}

// newFakeBackend starts a backend double. Callers own srv.Close via
// t.Cleanup registered here.
func newFakeBackend(t *testing.T) *fakeBackend {
	t.Helper()

	b := &fakeBackend{t: t}
	mux := http.NewServeMux()
	mux.HandleFunc("/reminders", b.handleReminders)
	mux.HandleFunc("/reminders/", b.handleReminderDelete)
	mux.HandleFunc("/memories", b.handleMemories)
	mux.HandleFunc("/chat", b.handleChat)
	mux.HandleFunc("/history", b.handleHistory)
	mux.HandleFunc("/automations/generate", b.handleAutomation)
	mux.HandleFunc("/tutor/start", b.handleTutorStart)
	mux.HandleFunc("/tutor/answer", b.handleTutorAnswer)
	mux.HandleFunc("/tutor/score", b.handleTutorScore)
	mux.HandleFunc("/tutor/end", b.handleTutorEnd)
	mux.HandleFunc("/health", b.handleHealth)
	mux.HandleFunc("/ws/status", b.handleWS)

	b.srv = httptest.NewServer(mux)
	t.Cleanup(b.srv.Close)
	return b
}

// config returns a session Config pointed at the fake backend with short
// timers suitable for tests.
func (b *fakeBackend) config() Config {
	return Config{
		BaseURL:        b.srv.URL,
		StatusURL:      "ws" + strings.TrimPrefix(b.srv.URL, "http") + "/ws/status",
		ReconnectDelay: 25 * time.Millisecond,
		PollInterval:   time.Hour, // effectively off unless a test lowers it
	}
}

func (b *fakeBackend) setReminders(rs ...protocol.Reminder) {
	b.mu.Lock()
	b.reminders = rs
	b.mu.Unlock()
}

func (b *fakeBackend) reminderFetchCount() int {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.reminderGets
}

func (b *fakeBackend) deletedIDs() []string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return append([]string(nil), b.deletes...)
}

func (b *fakeBackend) handleReminders(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		b.mu.Lock()
		b.reminderGets++
		fail := b.failReminders
		rs := append([]protocol.Reminder(nil), b.reminders...)
		b.mu.Unlock()

		if fail {
			http.Error(w, `{"detail":"boom"}`, http.StatusInternalServerError)
			return
		}
		writeJSON(w, map[string]any{"reminders": rs})

	case http.MethodPost:
		var req struct {
			Message string `json:"message"`
			Time    string `json:"time"`
		}
		if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Message == "" {
			http.Error(w, `{"detail":"Message cannot be empty."}`, http.StatusBadRequest)
			return
		}
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, protocol.Reminder{
			ID:        "rem-new",
			Message:   req.Message,
			FireAt:    "2026-08-23T20:00:00+00:00",
			CreatedAt: "2026-08-23T10:00:00+00:00",
		})

	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBackend) handleReminderDelete(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodDelete {
		w.WriteHeader(http.StatusMethodNotAllowed)
		return
	}
	id := strings.TrimPrefix(r.URL.Path, "/reminders/")

	b.mu.Lock()
	fail := b.failDeletes
	if !fail {
		b.deletes = append(b.deletes, id)
	}
	b.mu.Unlock()

	if fail {
		http.Error(w, `{"detail":"Reminder not found."}`, http.StatusNotFound)
		return
	}
	writeJSON(w, map[string]string{"status": "deleted", "id": id})
}

func (b *fakeBackend) handleMemories(w http.ResponseWriter, r *http.Request) {
	switch r.Method {
	case http.MethodGet:
		writeJSON(w, map[string]any{"memories": []protocol.Memory{
			{ID: "mem-1", Text: "likes jasmine tea", Category: "preferences"},
		}})
	case http.MethodPost:
		var m protocol.Memory
		if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
			http.Error(w, `{"detail":"bad memory"}`, http.StatusBadRequest)
			return
		}
		m.ID = "mem-assigned"
		w.WriteHeader(http.StatusCreated)
		writeJSON(w, m)
	default:
		w.WriteHeader(http.StatusMethodNotAllowed)
	}
}

func (b *fakeBackend) handleChat(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Message string `json:"message"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || strings.TrimSpace(req.Message) == "" {
		http.Error(w, `{"detail":"Message cannot be empty."}`, http.StatusBadRequest)
		return
	}
	writeJSON(w, protocol.ChatResponse{Response: "hi there", Timestamp: "T"})
}

func (b *fakeBackend) handleHistory(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, map[string]any{"history": []protocol.HistoryEntry{
		{Role: "user", Content: "hello", Timestamp: "T0"},
		{Role: "model", Content: "hi there", Timestamp: "T0"},
	}})
}

func (b *fakeBackend) handleAutomation(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Prompt string `json:"prompt"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.Prompt == "" {
		http.Error(w, `{"detail":"Prompt cannot be empty."}`, http.StatusBadRequest)
		return
	}
	if strings.Contains(req.Prompt, "unparseable") {
		http.Error(w, `{"detail":"Failed to parse automation logic."}`, http.StatusInternalServerError)
		return
	}
	writeJSON(w, protocol.Automation{
		ID:      "auto-1",
		Title:   "Morning routine",
		Trigger: "07:00 daily",
		Steps:   []protocol.AutomationStep{{ID: "s1", Action: "open", Target: "blinds"}},
	})
}

func (b *fakeBackend) handleTutorStart(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, protocol.TutorStartResult{SessionID: "tut-1", Topic: "fractions", Status: "started"})
}

func (b *fakeBackend) handleTutorAnswer(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, protocol.TutorAnswerResult{Correct: true, Explanation: "exactly right"})
}

func (b *fakeBackend) handleTutorScore(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, protocol.TutorScore{SessionID: "tut-1", Topic: "fractions", Correct: 2, Incorrect: 1, QIndex: 3})
}

func (b *fakeBackend) handleTutorEnd(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, protocol.TutorEndResult{Status: "ended", Score: protocol.TutorScore{Correct: 2, Incorrect: 1}})
}

func (b *fakeBackend) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, protocol.Health{Status: "ok", Timestamp: "T", ActiveWSClients: 1})
}

// holdUpgrades makes handleWS park incoming handshakes on gate until the
// test closes it.
func (b *fakeBackend) holdUpgrades(gate chan struct{}) {
	b.connMu.Lock()
	b.upgradeGate = gate
	b.connMu.Unlock()
}

// pendingUpgrades reports how many handshakes are parked on the gate.
func (b *fakeBackend) pendingUpgrades() int {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.pending
}

// handleWS upgrades and parks the connection, tracking dial counts and the
// maximum number of simultaneously open sockets.
func (b *fakeBackend) handleWS(w http.ResponseWriter, r *http.Request) {
	b.connMu.Lock()
	gate := b.upgradeGate
	b.pending++
	b.connMu.Unlock()
	if gate != nil {
		<-gate
	}
	b.connMu.Lock()
	b.pending--
	b.connMu.Unlock()

	conn, err := b.upgrader.Upgrade(w, r, nil)
	if err != nil {
		return
	}

	b.connMu.Lock()
	b.dials++
	b.active++
	if b.active > b.maxConns {
		b.maxConns = b.active
	}
	b.conns = append(b.conns, conn)
	b.connMu.Unlock()

	// Drain client frames (the status channel is push-only from the
	// client's perspective) until the peer goes away.
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			break
		}
	}

	b.connMu.Lock()
	b.active--
	b.connMu.Unlock()
}

// push sends raw on the most recent WS connection.
func (b *fakeBackend) push(raw string) {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	if len(b.conns) == 0 {
		b.t.Fatal("push: no websocket connection established yet")
	}
	conn := b.conns[len(b.conns)-1]
	if err := conn.WriteMessage(websocket.TextMessage, []byte(raw)); err != nil {
		b.t.Logf("push: %v", err)
	}
}

// dropConnections closes every server-side socket, simulating a network
// drop.
func (b *fakeBackend) dropConnections() {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	for _, c := range b.conns {
		_ = c.Close()
	}
	b.conns = nil
}

func (b *fakeBackend) dialCount() int {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.dials
}

func (b *fakeBackend) maxConcurrentConns() int {
	b.connMu.Lock()
	defer b.connMu.Unlock()
	return b.maxConns
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

// waitFor polls cond every 5ms until it holds or the deadline passes.
func waitFor(t *testing.T, d time.Duration, what string, cond func() bool) {
	t.Helper()
	deadline := time.Now().Add(d)
	for time.Now().Before(deadline) {
		if cond() {
			return
		}
		time.Sleep(5 * time.Millisecond)
	}
	t.Fatalf("timed out waiting for %s", what)
}
