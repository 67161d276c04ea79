package commands

import (
	"github.com/spf13/cobra"
)

// RootCmd represents the base command when called without any subcommands
var RootCmd = NewRootCmd()

// NewRootCmd builds the relay command tree.
func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "relay",
		Short: "relay - run and compute through a delegating facade",
		Long: `relay drives a facade that delegates printing and addition to a helper.

Commands:
  run         Print the runner message through the helper
  compute     Add 10 to each integer and report the result
  history     Show recorded computations
  init        Create a configuration file interactively
  doctor      Check configuration, output and journal

Use "relay [command] --help" for more information about a command.`,
		SilenceUsage: true,
	}

	root.PersistentFlags().String("config", "", "Config file path")
	root.PersistentFlags().BoolP("verbose", "v", false, "Verbose logging")
	root.PersistentFlags().Bool("log-json", false, "Log as JSON lines")

	root.SetVersionTemplate(`relay version {{.Version}}
`)

	root.AddCommand(newRunCmd())
	root.AddCommand(newComputeCmd())
	root.AddCommand(newHistoryCmd())
	root.AddCommand(newInitCmd())
	root.AddCommand(newDoctorCmd())

	return root
}

// Execute adds all child commands to the root command and sets flags appropriately
func Execute() error {
	return RootCmd.Execute()
}
