package cli

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/osse101/ashfall/internal/event"
)

// NewEventsCommand creates the events command with subcommands
func NewEventsCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "events",
		Short: "Inspect published events",
	}
	cmd.AddCommand(newDeadLettersCommand())
	return cmd
}

func newDeadLettersCommand() *cobra.Command {
	var path string
	cmd := &cobra.Command{
		Use:   "dead-letters",
		Short: "List events that exhausted their publish retries",
		Long: `Reads the dead-letter file written by the resilient publisher.

Examples:
  ashfall events dead-letters
  ashfall events dead-letters --file logs/deadletter.jsonl --json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			if path == "" {
				path = appConfig.DeadLetterPath
			}
			entries, err := event.ReadDeadLetters(path)
			if err != nil {
				return err
			}
			if asJSON {
				return printJSON(cmd.OutOrStdout(), entries)
			}
			if len(entries) == 0 {
				fmt.Fprintf(cmd.OutOrStdout(), "No dead letters in %s\n", path)
				return nil
			}

			w := newTable(cmd.OutOrStdout())
			fmt.Fprintln(w, "Time\tType\tAttempts\tLast error")
			fmt.Fprintln(w, "────\t────\t────────\t──────────")
			for _, e := range entries {
				fmt.Fprintf(w, "%s\t%s\t%d\t%s\n", e.Timestamp.Format(time.RFC3339), e.Event.Type, e.Attempts, e.LastError)
			}
			return w.Flush()
		},
	}
	cmd.Flags().StringVar(&path, "file", "", "Dead-letter file (default: dead_letter_path from config)")
	return cmd
}
