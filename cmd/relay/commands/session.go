package commands

import (
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"github.com/l3aro/go-relay/internal/config"
	"github.com/l3aro/go-relay/internal/log"
	"github.com/l3aro/go-relay/pkg/facade"
	"github.com/l3aro/go-relay/pkg/helper"
	"github.com/l3aro/go-relay/pkg/journal"
)

// session bundles what a command needs after reading flags and config.
type session struct {
	cfg        *config.Config
	configPath string
	logger     *log.DefaultLogger
	cmd        *cobra.Command
}

func newSession(cmd *cobra.Command) (*session, error) {
	cfg, configPath, err := loadConfigWithPath(cmd)
	if err != nil {
		return nil, err
	}

	if verbose, _ := cmd.Flags().GetBool("verbose"); verbose {
		cfg.Verbose = true
	}
	if logJSON, _ := cmd.Flags().GetBool("log-json"); logJSON {
		cfg.LogJSON = true
	}

	logger := log.New(log.LoggerConfig{
		Level:      cfg.EffectiveLogLevel(),
		JSONOutput: cfg.LogJSON,
		Output:     cmd.ErrOrStderr(),
	})
	if configPath != "" {
		logger.Debug("loaded config", "path", configPath)
	}

	return &session{cfg: cfg, configPath: configPath, logger: logger, cmd: cmd}, nil
}

// loadConfigWithPath honours --config, otherwise layers global and project
// files. The returned path is the most specific file that exists, or empty.
func loadConfigWithPath(cmd *cobra.Command) (*config.Config, string, error) {
	if path, _ := cmd.Flags().GetString("config"); path != "" {
		cfg, err := config.LoadFromFile(path)
		if err != nil {
			return nil, "", fmt.Errorf("loading config: %w", err)
		}
		return cfg, path, nil
	}

	cfg, err := config.Load()
	if err != nil {
		return nil, "", fmt.Errorf("loading config: %w", err)
	}

	effectivePath := ""
	if fileExists(config.ProjectConfigFilePath()) {
		effectivePath = config.ProjectConfigFilePath()
	} else if fileExists(config.GlobalConfigFilePath()) {
		effectivePath = config.GlobalConfigFilePath()
	}
	return cfg, effectivePath, nil
}

func fileExists(path string) bool {
	info, err := os.Stat(path)
	if err != nil {
		return false
	}
	return !info.IsDir()
}

// output returns the stream result lines are written to.
func (s *session) output() io.Writer {
	if s.cfg.Output == config.OutputStderr {
		return s.cmd.ErrOrStderr()
	}
	return s.cmd.OutOrStdout()
}

func (s *session) facade() *facade.Facade {
	out := s.output()
	return facade.New(helper.NewConsole(out), facade.WithOutput(out), facade.WithLogger(s.logger))
}

func (s *session) newJournal() *journal.Journal {
	return journal.New(journal.Options{MaxEntries: s.cfg.MaxJournalEntries})
}

func (s *session) openJournal() (*journal.Journal, error) {
	j := s.newJournal()
	if err := journal.LoadFromFile(j, s.cfg.JournalPath); err != nil {
		return nil, fmt.Errorf("loading journal %s (run 'relay history --clear' to reset it): %w", s.cfg.JournalPath, err)
	}
	return j, nil
}

func (s *session) saveJournal(j *journal.Journal) error {
	if err := journal.PersistToFile(j, s.cfg.JournalPath); err != nil {
		return fmt.Errorf("saving journal: %w", err)
	}
	s.logger.Debug("saved journal", "path", s.cfg.JournalPath, "records", j.Len())
	return nil
}
