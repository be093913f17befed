// Package main implements the nova-dash interactive dashboard.
package main

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"time"

	tea "github.com/charmbracelet/bubbletea"

	"nova/pkg/protocol"
	"nova/pkg/session"
)

// robotSnapshot fetches the current collections once and returns a JSON
// snapshot for scripting. The status stream is not opened in this mode.
func robotSnapshot(ctx context.Context, s *session.Session) ([]byte, error) {
	s.RefreshReminders(ctx)
	s.RefreshMemories(ctx)
	snap := s.Snapshot()

	snapshot := map[string]any{
		"reminders": snap.Reminders,
		"memories":  snap.Memories,
	}
	if h, err := s.Health(ctx); err == nil {
		snapshot["health"] = h
	}

	data, err := json.Marshal(snapshot)
	if err != nil {
		return nil, fmt.Errorf("failed to marshal snapshot: %w", err)
	}
	return data, nil
}

// defaultConfigPath returns the session config path from env or default.
func defaultConfigPath() string {
	if v := os.Getenv("NOVA_CONFIG"); v != "" {
		return v
	}
	base := os.Getenv("NOVA_HOME")
	if base == "" {
		home, err := os.UserHomeDir()
		if err != nil {
			return ""
		}
		base = filepath.Join(home, protocol.NovaDir)
	}
	return filepath.Join(base, "config.toml")
}

func main() {
	robot := flag.Bool("robot", false, "print a one-shot JSON snapshot and exit")
	flag.Parse()

	cfg, err := session.LoadConfig(defaultConfigPath())
	if err != nil {
		fmt.Fprintf(os.Stderr, "Error loading config: %v\n", err)
		os.Exit(1)
	}

	if *robot {
		cfg.HTTPClient = &http.Client{Timeout: 15 * time.Second}
		s := session.New(cfg)
		defer s.Close() //nolint:errcheck

		data, err := robotSnapshot(context.Background(), s)
		if err != nil {
			fmt.Fprintf(os.Stderr, "Error building snapshot: %v\n", err)
			os.Exit(1)
		}
		fmt.Println(string(data))
		return
	}

	s := session.New(cfg)
	s.Start()
	defer s.Close() //nolint:errcheck

	p := tea.NewProgram(newModel(s), tea.WithAltScreen())
	if _, err := p.Run(); err != nil {
		fmt.Fprintf(os.Stderr, "Error running dashboard: %v\n", err)
		os.Exit(1)
	}
}
