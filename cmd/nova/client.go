package main

import (
	"net/http"
	"os"
	"time"

	"github.com/mattn/go-isatty"

	"nova/pkg/eventlog"
	"nova/pkg/session"
)

// cliTimeout bounds one-shot CLI requests. The session default carries no
// timeout; the CLI is interactive, so a hung backend should fail visibly.
const cliTimeout = 15 * time.Second

// newSession builds a session for a one-shot CLI invocation: config file +
// env overrides, a bounded HTTP client, and event-log hooks when the log is
// writable. The returned cleanup closes both session and recorder.
func newSession() (*session.Session, func(), error) {
	paths, err := ResolvePaths()
	if err != nil {
		return nil, nil, err
	}

	cfg, err := session.LoadConfig(paths.ConfigPath)
	if err != nil {
		return nil, nil, err
	}
	cfg.HTTPClient = &http.Client{Timeout: cliTimeout}

	closeRec := func() {}
	// Best effort: a read-only home directory must not break the CLI.
	if rec, recErr := eventlog.NewRecorder(paths.EventDBPath); recErr == nil {
		cfg.OnEvent, cfg.OnFailure = rec.Hooks()
		closeRec = func() { _ = rec.Close() }
	}

	s := session.New(cfg)
	cleanup := func() {
		_ = s.Close()
		closeRec()
	}
	return s, cleanup, nil
}

// colorEnabled reports whether stdout wants ANSI color.
func colorEnabled() bool {
	if os.Getenv("NO_COLOR") != "" {
		return false
	}
	return isatty.IsTerminal(os.Stdout.Fd()) || isatty.IsCygwinTerminal(os.Stdout.Fd())
}
