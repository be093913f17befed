package main

import (
	"path/filepath"
	"strings"
	"testing"

	"nova/pkg/eventlog"
)

// seedEventLog writes a recorded event log under a fresh NOVA_HOME and
// returns that home directory.
func seedEventLog(t *testing.T) string {
	t.Helper()

	home := t.TempDir()
	t.Setenv("NOVA_HOME", home)

	rec, err := eventlog.NewRecorder(filepath.Join(home, "events.db"))
	if err != nil {
		t.Fatalf("new recorder: %v", err)
	}
	defer rec.Close() //nolint:errcheck

	seeds := []struct {
		eventType, op, detail string
	}{
		{"connect", "ws.open", ""},
		{"status", "ws.status", "thinking"},
		{"failure", "reminders.fetch", "transport: connection refused"},
		{"disconnect", "ws.close", ""},
	}
	for _, s := range seeds {
		if err := rec.Record(s.eventType, s.op, s.detail, ""); err != nil {
			t.Fatalf("record %s: %v", s.eventType, err)
		}
	}
	return home
}

func TestLogs_PrintsChronological(t *testing.T) {
	seedEventLog(t)

	out := runCLI(t, "logs")
	for _, needle := range []string{"connect", "ws.status", "thinking", "reminders.fetch", "disconnect"} {
		if !strings.Contains(out, needle) {
			t.Errorf("expected output to contain %q, got:\n%s", needle, out)
		}
	}

	// Oldest first: the connect edge precedes the disconnect edge.
	if strings.Index(out, "ws.open") > strings.Index(out, "ws.close") {
		t.Errorf("expected chronological order, got:\n%s", out)
	}
}

func TestLogs_TailLimitsRows(t *testing.T) {
	seedEventLog(t)

	out := runCLI(t, "logs", "--tail", "1")
	if strings.Contains(out, "ws.open") {
		t.Errorf("tail 1 should drop older events, got:\n%s", out)
	}
	if !strings.Contains(out, "ws.close") {
		t.Errorf("tail 1 should keep the newest event, got:\n%s", out)
	}
}

func TestLogs_TypeFilter(t *testing.T) {
	seedEventLog(t)

	out := runCLI(t, "logs", "--type", "failure")
	if !strings.Contains(out, "reminders.fetch") {
		t.Errorf("expected failure event, got:\n%s", out)
	}
	if strings.Contains(out, "ws.open") || strings.Contains(out, "ws.status") {
		t.Errorf("type filter leaked other events:\n%s", out)
	}
}

func TestLogs_MissingDatabaseErrors(t *testing.T) {
	t.Setenv("NOVA_HOME", t.TempDir())

	if _, err := runCLIErr(t, "logs"); err == nil {
		t.Fatal("expected error when no event log exists")
	}
}
