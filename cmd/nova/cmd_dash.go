package main

import (
	"fmt"
	"os"
	"os/exec"

	"github.com/spf13/cobra"
)

// newDashCmd wires "nova dash", a thin launcher for the nova-dash TUI.
// The dashboard lives in its own binary so the CLI stays scriptable.
func newDashCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "dash",
		Short: "Launch the live dashboard",
		Long: "Hands the terminal over to nova-dash, the full-screen view of\n" +
			"assistant status, reminders, memories, and chat. nova-dash must be\n" +
			"on PATH.",
		RunE: func(cmd *cobra.Command, args []string) error {
			dash := exec.CommandContext(cmd.Context(), "nova-dash")
			dash.Stdin = os.Stdin
			dash.Stdout = os.Stdout
			dash.Stderr = os.Stderr

			if err := dash.Run(); err != nil {
				return fmt.Errorf("run nova-dash: %w", err)
			}

			return nil
		},
	}
}
