package main

import (
	"encoding/json"
	"fmt"
	"strings"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newAutomationsCmd creates the "nova automations" subcommand tree.
func newAutomationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "automations",
		Short: "Generate automation workflows",
	}

	cmd.AddCommand(newAutomationsGenerateCmd())

	return cmd
}

func newAutomationsGenerateCmd() *cobra.Command {
	var format string

	cmd := &cobra.Command{
		Use:   "generate <prompt>",
		Short: "Generate an automation from a natural-language prompt",
		Long:  "Asks the backend to extract an automation workflow from the prompt\nand prints the generated descriptor.",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			if format != "json" && format != "yaml" {
				return fmt.Errorf("unknown format %q (want json or yaml)", format)
			}

			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			prompt := strings.Join(args, " ")
			auto, err := s.GenerateAutomation(cmd.Context(), prompt)
			if err != nil {
				return fmt.Errorf("generate automation: %w", err)
			}

			var out []byte
			switch format {
			case "yaml":
				out, err = yaml.Marshal(auto)
			default:
				out, err = json.MarshalIndent(auto, "", "  ")
			}
			if err != nil {
				return fmt.Errorf("encode automation: %w", err)
			}

			fmt.Fprintln(cmd.OutOrStdout(), string(out))
			return nil
		},
	}

	cmd.Flags().StringVar(&format, "format", "json", "output format: json or yaml")

	return cmd
}
