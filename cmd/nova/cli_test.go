package main

import (
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"strings"
	"sync"
	"testing"

	"nova/pkg/protocol"
)

// fakeNova serves the backend REST surface the CLI talks to. startFakeNova
// points the CLI at it through env overrides, with NOVA_HOME redirected to a
// temp dir so config and event log never touch the real home.
type fakeNova struct {
	mu        sync.Mutex
	reminders []protocol.Reminder
	memories  []protocol.Memory
	history   []protocol.HistoryEntry
	deleted   []string
	nextID    int

	srv *httptest.Server
}

func startFakeNova(t *testing.T) *fakeNova {
	t.Helper()

	f := &fakeNova{nextID: 1}

	mux := http.NewServeMux()
	mux.HandleFunc("/reminders", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			var body struct {
				Message string `json:"message"`
				Time    string `json:"time"`
			}
			if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			created := protocol.Reminder{
				ID:        fmt.Sprintf("rem-%d", f.nextID),
				Message:   body.Message,
				FireAt:    "2026-08-23T12:30:00Z",
				CreatedAt: "2026-08-23T12:00:00Z",
			}
			f.nextID++
			f.reminders = append(f.reminders, created)
			writeJSON(w, created)
		default:
			writeJSON(w, map[string]any{"reminders": f.reminders})
		}
	})
	mux.HandleFunc("/reminders/", func(w http.ResponseWriter, r *http.Request) {
		id := strings.TrimPrefix(r.URL.Path, "/reminders/")
		f.mu.Lock()
		f.deleted = append(f.deleted, id)
		kept := f.reminders[:0]
		for _, rem := range f.reminders {
			if rem.ID != id {
				kept = append(kept, rem)
			}
		}
		f.reminders = kept
		f.mu.Unlock()
		writeJSON(w, map[string]string{"status": "deleted"})
	})
	mux.HandleFunc("/memories", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		switch r.Method {
		case http.MethodPost:
			var m protocol.Memory
			if err := json.NewDecoder(r.Body).Decode(&m); err != nil {
				http.Error(w, err.Error(), http.StatusBadRequest)
				return
			}
			m.ID = fmt.Sprintf("mem-%d", f.nextID)
			f.nextID++
			f.memories = append(f.memories, m)
			writeJSON(w, m)
		default:
			writeJSON(w, map[string]any{"memories": f.memories})
		}
	})
	mux.HandleFunc("/chat", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Message string `json:"message"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, protocol.ChatResponse{
			Response:  "echo: " + body.Message,
			Timestamp: "2026-08-23T12:00:01Z",
		})
	})
	mux.HandleFunc("/history", func(w http.ResponseWriter, r *http.Request) {
		f.mu.Lock()
		defer f.mu.Unlock()
		writeJSON(w, map[string]any{"history": f.history})
	})
	mux.HandleFunc("/automations/generate", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, protocol.Automation{
			ID:          "auto-1",
			Title:       "Evening lights",
			Description: "Turn on the lights at sunset",
			Trigger:     "sunset",
			Steps: []protocol.AutomationStep{
				{ID: "step-1", Action: "turn_on", Target: "living_room_lights"},
			},
		})
	})
	mux.HandleFunc("/tutor/start", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Topic string `json:"topic"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		writeJSON(w, protocol.TutorStartResult{SessionID: "tut-1", Topic: body.Topic, Status: "started"})
	})
	mux.HandleFunc("/tutor/answer", func(w http.ResponseWriter, r *http.Request) {
		var body struct {
			Answer string `json:"answer"`
		}
		if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		correct := strings.Contains(strings.ToLower(body.Answer), "paris")
		res := protocol.TutorAnswerResult{Correct: correct}
		if !correct {
			res.Explanation = "The capital of France is Paris."
		}
		writeJSON(w, res)
	})
	mux.HandleFunc("/tutor/score", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, protocol.TutorScore{
			SessionID: "tut-1", Topic: "geography", State: "active",
			Correct: 3, Incorrect: 1, QIndex: 4, TotalConcepts: 10,
		})
	})
	mux.HandleFunc("/tutor/end", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, protocol.TutorEndResult{
			Status: "ended",
			Score:  protocol.TutorScore{SessionID: "tut-1", Topic: "geography", Correct: 3, Incorrect: 1},
		})
	})
	mux.HandleFunc("/health", func(w http.ResponseWriter, r *http.Request) {
		writeJSON(w, protocol.Health{Status: "ok", Timestamp: "2026-08-23T12:00:00Z", ActiveWSClients: 2})
	})

	f.srv = httptest.NewServer(mux)
	t.Cleanup(f.srv.Close)

	t.Setenv("NOVA_HOME", t.TempDir())
	t.Setenv("NOVA_BASE_URL", f.srv.URL)
	t.Setenv("NOVA_STATUS_URL", "")
	t.Setenv("NO_COLOR", "1")

	return f
}

func writeJSON(w http.ResponseWriter, v any) {
	w.Header().Set("Content-Type", "application/json")
	_ = json.NewEncoder(w).Encode(v)
}

func (f *fakeNova) setReminders(reminders []protocol.Reminder) {
	f.mu.Lock()
	f.reminders = reminders
	f.mu.Unlock()
}

func (f *fakeNova) setMemories(memories []protocol.Memory) {
	f.mu.Lock()
	f.memories = memories
	f.mu.Unlock()
}

func (f *fakeNova) setHistory(history []protocol.HistoryEntry) {
	f.mu.Lock()
	f.history = history
	f.mu.Unlock()
}

func (f *fakeNova) deletedIDs() []string {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]string(nil), f.deleted...)
}

// runCLI executes the root command with args and returns combined output.
// Fails the test on command error.
func runCLI(t *testing.T, args ...string) string {
	t.Helper()
	out, err := runCLIErr(t, args...)
	if err != nil {
		t.Fatalf("execute %v: %v", args, err)
	}
	return out
}

// runCLIErr executes the root command with args and returns output and the
// execution error.
func runCLIErr(t *testing.T, args ...string) (string, error) {
	t.Helper()
	root := newRootCmd()
	var out strings.Builder
	root.SetOut(&out)
	root.SetErr(&out)
	root.SetArgs(args)
	err := root.Execute()
	return out.String(), err
}
