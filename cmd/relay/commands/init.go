package commands

import (
	"fmt"
	"io"
	"os"
	"path/filepath"

	"github.com/charmbracelet/huh"
	"github.com/spf13/cobra"

	"github.com/l3aro/go-relay/internal/config"
	"github.com/l3aro/go-relay/internal/healthcheck"
)

// initAnswers holds the choices collected by the interactive prompt.
type initAnswers struct {
	Output      string
	Record      bool
	JournalPath string
	LogLevel    string
	Location    string // "global" or "project"
}

func newInitCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "init",
		Short: "Initialize relay configuration interactively",
		Long: `Guides you through setting up relay configuration step by step.
Creates a config file with output, journal and logging settings.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			answers, err := promptInit()
			if err != nil {
				return err
			}

			configPath, err := initConfigPath(answers.Location)
			if err != nil {
				return err
			}

			if fileExists(configPath) {
				var overwrite bool
				form := huh.NewForm(
					huh.NewGroup(
						huh.NewConfirm().
							Title("Config file exists").
							Description(fmt.Sprintf("Overwrite existing config at %s?", configPath)).
							Affirmative("Overwrite").
							Negative("Cancel").
							Value(&overwrite),
					),
				)
				if err := form.Run(); err != nil {
					return fmt.Errorf("interactive prompt failed: %w", err)
				}
				if !overwrite {
					fmt.Fprintln(cmd.OutOrStdout(), "Cancelled.")
					return nil
				}
			}

			return writeInitConfig(cmd.OutOrStdout(), answers, configPath)
		},
	}
}

func promptInit() (*initAnswers, error) {
	defaults := config.DefaultConfig()
	answers := &initAnswers{
		Output:      string(defaults.Output),
		Record:      defaults.Record,
		JournalPath: defaults.JournalPath,
		LogLevel:    defaults.LogLevel,
		Location:    "global",
	}

	form := huh.NewForm(
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Output").
				Description("Where run and compute lines are written").
				Options(
					huh.NewOption("Standard output", string(config.OutputStdout)),
					huh.NewOption("Standard error", string(config.OutputStderr)),
				).
				Value(&answers.Output),
			huh.NewConfirm().
				Title("Record computations").
				Description("Append every compute result to the journal?").
				Value(&answers.Record),
		),
		huh.NewGroup(
			huh.NewInput().
				Title("Journal path").
				Placeholder(defaults.JournalPath).
				Value(&answers.JournalPath),
			huh.NewSelect[string]().
				Title("Log level").
				Options(
					huh.NewOption("Debug", "debug"),
					huh.NewOption("Info", "info"),
					huh.NewOption("Warn", "warn"),
					huh.NewOption("Error", "error"),
				).
				Value(&answers.LogLevel),
		),
		huh.NewGroup(
			huh.NewSelect[string]().
				Title("Save Configuration").
				Description("Where to save the configuration file?").
				Options(
					huh.NewOption("Global (~/.relay/config.yaml)", "global"),
					huh.NewOption("Project (./.relay/config.yaml)", "project"),
				).
				Value(&answers.Location),
		),
	)
	if err := form.Run(); err != nil {
		return nil, fmt.Errorf("interactive prompt failed: %w", err)
	}

	if answers.JournalPath == "" {
		answers.JournalPath = defaults.JournalPath
	}
	return answers, nil
}

func initConfigPath(location string) (string, error) {
	if location != "global" {
		return config.ProjectConfigFilePath(), nil
	}
	home, err := os.UserHomeDir()
	if err != nil {
		return "", fmt.Errorf("getting home directory: %w", err)
	}
	return filepath.Join(home, ".relay", "config.yaml"), nil
}

// writeInitConfig validates and saves the answers, then reports a health check.
func writeInitConfig(out io.Writer, answers *initAnswers, configPath string) error {
	cfg := config.DefaultConfig()
	cfg.Output = config.OutputTarget(answers.Output)
	cfg.Record = answers.Record
	cfg.JournalPath = answers.JournalPath
	cfg.LogLevel = answers.LogLevel

	if err := cfg.Validate(); err != nil {
		return fmt.Errorf("config validation failed: %w", err)
	}

	fmt.Fprintln(out, "=== Configuration Preview ===")
	fmt.Fprintf(out, "Config path: %s\n", configPath)
	fmt.Fprintf(out, "Output: %s\n", cfg.Output)
	fmt.Fprintf(out, "Record: %t\n", cfg.Record)
	fmt.Fprintf(out, "Journal: %s\n", cfg.JournalPath)
	fmt.Fprintf(out, "Log level: %s\n", cfg.LogLevel)
	fmt.Fprintln(out, "================================")

	if err := cfg.Save(configPath); err != nil {
		return fmt.Errorf("saving config: %w", err)
	}
	fmt.Fprintf(out, "Configuration saved to: %s\n", configPath)

	loaded, err := config.LoadFromFile(configPath)
	if err != nil {
		return fmt.Errorf("loading saved config: %w", err)
	}

	result, err := healthcheck.Check(loaded, configPath)
	if err != nil {
		return fmt.Errorf("health check failed: %w", err)
	}

	fmt.Fprintln(out, "\n=== Running Health Check ===")
	displayDoctorResult(out, result)
	fmt.Fprintln(out, "\n=== Initialization Complete ===")
	return nil
}
