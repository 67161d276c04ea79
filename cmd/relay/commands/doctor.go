package commands

import (
	"fmt"
	"io"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-relay/internal/healthcheck"
)

func newDoctorCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "doctor",
		Short: "Run health checks on configuration, output and journal",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			s, err := newSession(cmd)
			if err != nil {
				return err
			}

			result, err := healthcheck.Check(s.cfg, s.configPath)
			if err != nil {
				return fmt.Errorf("health check failed: %w", err)
			}

			displayDoctorResult(cmd.OutOrStdout(), result)

			if result.HasError() {
				return fmt.Errorf("health check failed: one or more components are not usable")
			}
			return nil
		},
	}
}

func displayDoctorResult(out io.Writer, result *healthcheck.Result) {
	if result.ConfigPath == "" {
		fmt.Fprintln(out, "Using config: defaults")
	} else {
		fmt.Fprintf(out, "Using config: %s (%s)\n", result.ConfigPath, result.ConfigScope)
	}

	for _, c := range []healthcheck.ComponentStatus{result.Output, result.Journal} {
		fmt.Fprintf(out, "\n%s: %s\n", c.Name, c.Target)
		fmt.Fprintf(out, "  Status: %s %s\n", formatStatusIcon(c.Status), c.Status)
		if c.Detail != "" {
			fmt.Fprintf(out, "  %s\n", c.Detail)
		}
		if c.Error != "" {
			fmt.Fprintf(out, "  Error: %s\n", c.Error)
		}
	}
}

func formatStatusIcon(status string) string {
	switch status {
	case healthcheck.StatusOK:
		return "✓"
	case healthcheck.StatusMissing:
		return "◐"
	case healthcheck.StatusError:
		return "✗"
	default:
		return "?"
	}
}
