package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nova/pkg/protocol"
)

// newRemindersCmd creates the "nova reminders" subcommand tree.
func newRemindersCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "reminders",
		Short: "List, add, and delete reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemindersList(cmd)
		},
	}

	cmd.AddCommand(
		newRemindersListCmd(),
		newRemindersAddCmd(),
		newRemindersDeleteCmd(),
	)

	return cmd
}

func newRemindersListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List upcoming reminders",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runRemindersList(cmd)
		},
	}
}

func runRemindersList(cmd *cobra.Command) error {
	s, cleanup, err := newSession()
	if err != nil {
		return err
	}
	defer cleanup()

	s.RefreshReminders(cmd.Context())
	reminders := s.Snapshot().Reminders

	w := cmd.OutOrStdout()
	if len(reminders) == 0 {
		fmt.Fprintln(w, "No upcoming reminders.")
		return nil
	}
	printReminders(cmd, reminders)
	return nil
}

func printReminders(cmd *cobra.Command, reminders []protocol.Reminder) {
	w := cmd.OutOrStdout()
	for _, r := range reminders {
		fmt.Fprintf(w, "%-12s  %-22s  %s\n", r.ID, r.FireAt, r.Message)
	}
}

func newRemindersAddCmd() *cobra.Command {
	var at string

	cmd := &cobra.Command{
		Use:   "add <message>",
		Short: "Schedule a reminder",
		Long:  "Schedules a reminder on the backend.\n--at accepts relative times (\"30m\", \"1h\", \"90s\") or ISO 8601.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			message := strings.Join(args, " ")
			created, err := s.CreateReminder(cmd.Context(), message, at)
			if err != nil {
				return fmt.Errorf("add reminder: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Scheduled %s: %q at %s\n", created.ID, created.Message, created.FireAt)
			return nil
		},
	}

	cmd.Flags().StringVar(&at, "at", "30m", "when the reminder fires (relative or ISO 8601)")

	return cmd
}

func newRemindersDeleteCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "delete <id>",
		Short: "Cancel a reminder",
		Args:  cobra.ExactArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			// Removal is optimistic: the local entry goes regardless of the
			// backend's answer, so this always reports success.
			s.DeleteReminder(cmd.Context(), args[0])
			fmt.Fprintf(cmd.OutOrStdout(), "Deleted %s\n", args[0])
			return nil
		},
	}
}
