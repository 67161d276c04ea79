package commands

import (
	"errors"
	"fmt"
	"regexp"
	"strconv"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-relay/pkg/journal"
)

func newComputeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "compute X [Y...]",
		Short: "Add 10 to each integer and report the result",
		Long: `Computes X + 10 through the helper for every argument, in order, and
prints "module1: result = <sum>" for each.

Arguments must fit a signed 32-bit integer. Negative values such as -10
are taken as numbers, not flags.`,
		// Flags are parsed in RunE so that -10 is not read as a shorthand flag.
		DisableFlagParsing: true,
		Args:               cobra.ArbitraryArgs,
		RunE: func(cmd *cobra.Command, raw []string) error {
			args, err := parseComputeArgs(cmd, raw)
			if err != nil {
				return cmd.FlagErrorFunc()(cmd, err)
			}
			if help, _ := cmd.Flags().GetBool("help"); help {
				return cmd.Help()
			}
			if len(args) == 0 {
				return fmt.Errorf("requires at least 1 arg(s), only received 0")
			}

			inputs, err := parseInputs(args)
			if err != nil {
				return err
			}

			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			record, _ := cmd.Flags().GetBool("record")
			if !cmd.Flags().Changed("record") {
				record = s.cfg.Record
			}

			if !record {
				f := s.facade()
				for _, x := range inputs {
					if _, err := f.Compute(x); err != nil {
						return err
					}
				}
				return nil
			}

			j, err := s.openJournal()
			if err != nil {
				return err
			}
			rec := journal.NewRecorder(s.facade(), j)

			var computeErr error
			for _, x := range inputs {
				if _, computeErr = rec.Compute(x); computeErr != nil {
					break
				}
			}
			return errors.Join(computeErr, s.saveJournal(j))
		},
	}

	cmd.Flags().BoolP("record", "r", false, "Append results to the journal")
	return cmd
}

var negativeArg = regexp.MustCompile(`^-[0-9]+$`)

// parseComputeArgs parses the command's flags from raw and returns the
// positional arguments in order. Tokens like -10 before "--" are masked
// while flags are parsed and restored afterwards.
func parseComputeArgs(cmd *cobra.Command, raw []string) ([]string, error) {
	masked := make([]string, len(raw))
	negatives := make(map[string]string)
	for i, arg := range raw {
		if arg == "--" {
			copy(masked[i:], raw[i:])
			break
		}
		if negativeArg.MatchString(arg) {
			key := fmt.Sprintf("\x00%d", i)
			negatives[key] = arg
			arg = key
		}
		masked[i] = arg
	}

	if err := cmd.Flags().Parse(masked); err != nil {
		return nil, err
	}

	args := cmd.Flags().Args()
	out := make([]string, len(args))
	for i, arg := range args {
		if n, ok := negatives[arg]; ok {
			arg = n
		}
		out[i] = arg
	}
	return out, nil
}

// parseInputs validates every argument before anything is computed.
func parseInputs(args []string) ([]int32, error) {
	inputs := make([]int32, 0, len(args))
	for _, arg := range args {
		v, err := strconv.ParseInt(arg, 10, 32)
		if err != nil {
			var numErr *strconv.NumError
			if errors.As(err, &numErr) && errors.Is(numErr.Err, strconv.ErrRange) {
				return nil, fmt.Errorf("argument %q is out of the 32-bit integer range", arg)
			}
			return nil, fmt.Errorf("argument %q is not an integer", arg)
		}
		inputs = append(inputs, int32(v))
	}
	return inputs, nil
}
