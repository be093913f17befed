package main

import (
	"fmt"

	"github.com/charmbracelet/lipgloss"
	"github.com/spf13/cobra"
)

// newStatusCmd creates the "nova status" subcommand.
func newStatusCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "status",
		Short: "Probe backend health",
		Long:  "Checks the backend health endpoint and prints its status,\ntimestamp, and number of connected status-stream clients.",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()

			h, err := s.Health(cmd.Context())
			if err != nil {
				fmt.Fprintln(w, renderState("offline", false))
				return nil
			}

			fmt.Fprintln(w, renderState(h.Status, true))
			fmt.Fprintf(w, "backend time:   %s\n", h.Timestamp)
			fmt.Fprintf(w, "stream clients: %d\n", h.ActiveWSClients)
			return nil
		},
	}
}

// renderState formats the health state, colored when stdout is a TTY.
func renderState(state string, healthy bool) string {
	if !colorEnabled() {
		return "backend: " + state
	}
	color := lipgloss.Color("9") // red
	if healthy {
		color = lipgloss.Color("10") // green
	}
	return "backend: " + lipgloss.NewStyle().Foreground(color).Render(state)
}
