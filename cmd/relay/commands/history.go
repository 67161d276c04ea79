package commands

import (
	"fmt"
	"time"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-relay/pkg/facade"
)

func newHistoryCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "history",
		Short: "Show recorded computations",
		Long:  `Lists the computations stored in the journal, oldest first.`,
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			out := cmd.OutOrStdout()

			// Clearing never reads the old file, so an unreadable journal
			// can always be reset.
			if clearAll, _ := cmd.Flags().GetBool("clear"); clearAll {
				if err := s.saveJournal(s.newJournal()); err != nil {
					return err
				}
				fmt.Fprintln(out, "Journal cleared")
				return nil
			}

			j, err := s.openJournal()
			if err != nil {
				return err
			}

			if jsonOutput, _ := cmd.Flags().GetBool("json"); jsonOutput {
				return j.SaveJSON(out)
			}

			records := j.Records()
			if len(records) == 0 {
				fmt.Fprintln(out, "No computations recorded")
				return nil
			}
			for _, r := range records {
				fmt.Fprintf(out, "%s  %d + %d = %d\n", r.At.UTC().Format(time.RFC3339), r.Input, facade.Addend, r.Result)
			}
			return nil
		},
	}

	cmd.Flags().BoolP("json", "j", false, "Output as JSON")
	cmd.Flags().Bool("clear", false, "Remove all recorded computations")
	return cmd
}
