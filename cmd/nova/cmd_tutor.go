package main

import (
	"fmt"
	"os"
	"strings"

	"github.com/spf13/cobra"
)

// newTutorCmd creates the "nova tutor" subcommand tree. Questions arrive on
// the status stream (visible in the dashboard); the CLI drives the session
// lifecycle and typed answers.
func newTutorCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "tutor",
		Short: "Drive a tutoring session",
	}

	cmd.AddCommand(
		newTutorStartCmd(),
		newTutorAnswerCmd(),
		newTutorScoreCmd(),
		newTutorEndCmd(),
	)

	return cmd
}

func newTutorStartCmd() *cobra.Command {
	var notesFile string

	cmd := &cobra.Command{
		Use:   "start <topic>",
		Short: "Begin a tutoring session",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			var notes string
			if notesFile != "" {
				data, err := os.ReadFile(notesFile)
				if err != nil {
					return fmt.Errorf("read notes: %w", err)
				}
				notes = string(data)
			}

			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := s.TutorStart(cmd.Context(), strings.Join(args, " "), notes)
			if err != nil {
				return fmt.Errorf("start tutor session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session %s %s on %q\n", res.SessionID, res.Status, res.Topic)
			return nil
		},
	}

	cmd.Flags().StringVar(&notesFile, "notes", "", "path to study notes/syllabus text")

	return cmd
}

func newTutorAnswerCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "answer <text>",
		Short: "Answer the current question",
		Args:  cobra.MinimumNArgs(1),
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := s.TutorAnswer(cmd.Context(), strings.Join(args, " "))
			if err != nil {
				return fmt.Errorf("submit answer: %w", err)
			}

			w := cmd.OutOrStdout()
			if res.Correct {
				fmt.Fprintln(w, "Correct!")
			} else {
				fmt.Fprintln(w, "Not quite.")
			}
			if res.Explanation != "" {
				fmt.Fprintln(w, res.Explanation)
			}
			return nil
		},
	}
}

func newTutorScoreCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "score",
		Short: "Show the current session score",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			score, err := s.TutorScore(cmd.Context())
			if err != nil {
				return fmt.Errorf("fetch score: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "%s: %d correct, %d incorrect (question %d)\n",
				score.Topic, score.Correct, score.Incorrect, score.QIndex)
			return nil
		},
	}
}

func newTutorEndCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "end",
		Short: "End the current session",
		RunE: func(cmd *cobra.Command, args []string) error {
			s, cleanup, err := newSession()
			if err != nil {
				return err
			}
			defer cleanup()

			res, err := s.TutorEnd(cmd.Context())
			if err != nil {
				return fmt.Errorf("end tutor session: %w", err)
			}

			fmt.Fprintf(cmd.OutOrStdout(), "Session %s: %d correct, %d incorrect\n",
				res.Status, res.Score.Correct, res.Score.Incorrect)
			return nil
		},
	}
}
