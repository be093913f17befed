package main

import (
	"fmt"

	"nova/internal/appversion"

	"github.com/spf13/cobra"
)

// newRootCmd creates the root nova command with all subcommands attached.
func newRootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:           "nova",
		Short:         "Nova home-assistant companion",
		Long:          "nova talks to the Nova voice-assistant backend.\nIt manages reminders, memories, chat, tutoring, and automations,\nand ships a live dashboard for the assistant status stream.",
		Version:       fmt.Sprintf("nova %s", appversion.String()),
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	cmd.SetVersionTemplate("{{.Version}}\n")

	cmd.AddCommand(
		newChatCmd(),
		newRemindersCmd(),
		newMemoriesCmd(),
		newAutomationsCmd(),
		newTutorCmd(),
		newStatusCmd(),
		newLogsCmd(),
		newDashCmd(),
	)

	return cmd
}
