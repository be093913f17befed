package main

import (
	"fmt"
	"strings"

	"github.com/spf13/cobra"

	"nova/pkg/protocol"
)

// newMemoriesCmd creates the "nova memories" subcommand tree.
func newMemoriesCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "memories",
		Short: "List and add stored memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemoriesList(cmd)
		},
	}

	cmd.AddCommand(newMemoriesListCmd(), newMemoriesAddCmd())

	return cmd
}

func newMemoriesListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List stored memories",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runMemoriesList(cmd)
		},
	}
}

func runMemoriesList(cmd *cobra.Command) error {
	s, cleanup, err := newSession()
	if err != nil {
		return err
	}
	defer cleanup()

	s.RefreshMemories(cmd.Context())
	memories := s.Snapshot().Memories

	w := cmd.OutOrStdout()
	if len(memories) == 0 {
		fmt.Fprintln(w, "No memories stored.")
		return nil
	}
	for _, m := range memories {
		pin := " "
		if m.Pinned {
			pin = "*"
		}
		category := m.Category
		if category == "" {
			category = "general"
		}
		fmt.Fprintf(w, "%s %-12s [%s] %s\n", pin, m.ID, category, m.Text)
	}
	return nil
}

func newMemoriesAddCmd() *cobra.Command {
	var category, source string

	cmd := &cobra.Command{
		Use:   "add <text>",
		Short: "Store a new memory",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			created, err := s.AddMemory(cmd.Context(), protocol.Memory{
				Text:     strings.Join(args, " "),
				Category: category,
				Source:   source,
			})
			if err != nil {
				return fmt.Errorf("add memory: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Stored %s\n", created.ID)
			return nil
		},
	}

	cmd.Flags().StringVar(&category, "category", "general", "memory category")
	cmd.Flags().StringVar(&source, "source", "cli", "where the memory came from")

	return cmd
}
