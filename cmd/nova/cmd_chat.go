package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"
)

// newChatCmd creates the "nova chat" subcommand.
func newChatCmd() *cobra.Command {
	var showHistory bool

	cmd := &cobra.Command{
		Use:   "chat [message]",
		Short: "Send a message to Nova",
		Long:  "Sends one chat message to the backend and prints the reply.\nWith --history, prints the stored conversation instead.",
		Args:  cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			w := cmd.OutOrStdout()

			if showHistory {
				msgs, err := s.History(cmd.Context())
				if err != nil {
					return fmt.Errorf("fetch history: %w", err)
				}
				if len(msgs) == 0 {
					fmt.Fprintln(w, "No conversation yet.")
					return nil
				}
				for _, m := range msgs {
					fmt.Fprintf(w, "%s: %s\n", m.Role, m.Text)
				}
				return nil
			}

			message := strings.TrimSpace(strings.Join(args, " "))
			if message == "" {
				return fmt.Errorf("message required (or use --history)")
			}

			reply, err := s.SendChat(cmd.Context(), message)
			if err != nil {
				return fmt.Errorf("send chat: %w", err)
			}
			fmt.Fprintln(w, reply)
			return nil
		},
	}

	cmd.Flags().BoolVar(&showHistory, "history", false, "print the stored conversation history")

	return cmd
}
