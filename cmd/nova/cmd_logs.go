package main

import (
	"context"
	"fmt"
	"io"
	"path/filepath"
	"time"

	"github.com/fsnotify/fsnotify"
	"github.com/spf13/cobra"

	"nova/pkg/eventlog"
)

// logsConfig holds configuration for the logs command.
type logsConfig struct {
	tail      int
	follow    bool
	eventType string
}

// newLogsCmd creates the "nova logs" subcommand.
func newLogsCmd() *cobra.Command {
	var cfg logsConfig

	cmd := &cobra.Command{
		Use:   "logs",
		Short: "Query and tail the session event log",
		Long:  "Displays events from the local session event log:\nconnectivity edges, status transitions, and swallowed request failures.",
		RunE: func(cmd *cobra.Command, args []string) error {
			paths, err := ResolvePaths()
			if err != nil {
				return fmt.Errorf("resolve paths: %w", err)
			}

			reader, err := eventlog.NewReader(paths.EventDBPath)
			if err != nil {
				return fmt.Errorf("open event log: %w", err)
			}
			defer reader.Close() //nolint:errcheck

			w := cmd.OutOrStdout()

			if cfg.follow {
				return followLogs(cmd.Context(), reader, w, paths.EventDBPath, cfg)
			}
			return printLogs(cmd.Context(), reader, w, cfg)
		},
	}

	cmd.Flags().IntVar(&cfg.tail, "tail", 20, "number of recent events to show")
	cmd.Flags().BoolVarP(&cfg.follow, "follow", "f", false, "wait for and print new events")
	cmd.Flags().StringVar(&cfg.eventType, "type", "", "filter by event type (connect, disconnect, status, failure)")

	return cmd
}

// printLogs queries and displays the last N events, oldest first.
func printLogs(ctx context.Context, reader *eventlog.Reader, w io.Writer, cfg logsConfig) error {
	events, err := reader.Query(ctx, eventlog.QueryOpts{Type: cfg.eventType, Limit: cfg.tail})
	if err != nil {
		return err
	}
	if len(events) == 0 {
		fmt.Fprintln(w, "No events.")
		return nil
	}

	// Query returns newest first; print in chronological order.
	for i := len(events) - 1; i >= 0; i-- {
		printEvent(w, events[i])
	}
	return nil
}

// followLogs prints the current tail and then streams new events until the
// context is cancelled. It wakes on file system changes to the event
// database, with a 1s poll as fallback (WAL writes don't always touch the
// main db file).
func followLogs(ctx context.Context, reader *eventlog.Reader, w io.Writer, dbPath string, cfg logsConfig) error {
	lastID, err := printTailAndLastID(ctx, reader, w, cfg)
	if err != nil {
		return err
	}

	watcher := watchEventDir(dbPath)
	if watcher != nil {
		defer watcher.Close() //nolint:errcheck
	}

	ticker := time.NewTicker(time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
		case <-watcherEvents(watcher):
		}

		events, err := reader.Query(ctx, eventlog.QueryOpts{Type: cfg.eventType})
		if err != nil {
			return err
		}
		for i := len(events) - 1; i >= 0; i-- {
			if events[i].ID > lastID {
				printEvent(w, events[i])
				lastID = events[i].ID
			}
		}
	}
}

func printTailAndLastID(ctx context.Context, reader *eventlog.Reader, w io.Writer, cfg logsConfig) (int64, error) {
	events, err := reader.Query(ctx, eventlog.QueryOpts{Type: cfg.eventType, Limit: cfg.tail})
	if err != nil {
		return 0, err
	}
	var lastID int64
	for i := len(events) - 1; i >= 0; i-- {
		printEvent(w, events[i])
		if events[i].ID > lastID {
			lastID = events[i].ID
		}
	}
	return lastID, nil
}

// watchEventDir watches the event database's directory. Returns nil when a
// watcher can't be set up; the caller falls back to polling alone.
func watchEventDir(dbPath string) *fsnotify.Watcher {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil
	}
	if err := watcher.Add(filepath.Dir(dbPath)); err != nil {
		_ = watcher.Close() // Best effort close
		return nil
	}
	return watcher
}

// watcherEvents returns the watcher's event channel, or a nil channel
// (blocks forever) when no watcher exists.
func watcherEvents(watcher *fsnotify.Watcher) <-chan fsnotify.Event {
	if watcher == nil {
		return nil
	}
	return watcher.Events
}

func printEvent(w io.Writer, e eventlog.Event) {
	ts := e.CreatedAt.Format("15:04:05")
	if e.Detail != "" {
		fmt.Fprintf(w, "%s  %-10s %-18s %s\n", ts, e.Type, e.Op, e.Detail)
		return
	}
	fmt.Fprintf(w, "%s  %-10s %s\n", ts, e.Type, e.Op)
}
