package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/l3aro/go-relay/internal/log"
)

// ErrInvalid is wrapped by every validation failure.
var ErrInvalid = errors.New("invalid config")

// OutputTarget names the stream result lines are written to.
type OutputTarget string

const (
	OutputStdout OutputTarget = "stdout"
	OutputStderr OutputTarget = "stderr"
)

// Config holds all configuration for relay
type Config struct {
	// Output is where run and compute lines go
	Output OutputTarget `yaml:"output" env:"RELAY_OUTPUT"`

	// Record appends every compute result to the journal
	Record bool `yaml:"record" env:"RELAY_RECORD"`

	// Journal settings
	JournalPath       string `yaml:"journal_path" env:"RELAY_JOURNAL_PATH"`
	MaxJournalEntries int    `yaml:"max_journal_entries" env:"RELAY_MAX_JOURNAL_ENTRIES"`

	// Logging
	LogLevel string `yaml:"log_level" env:"RELAY_LOG_LEVEL"`
	LogJSON  bool   `yaml:"log_json" env:"RELAY_LOG_JSON"`
	Verbose  bool   `yaml:"verbose" env:"RELAY_VERBOSE"`
}

// DefaultConfig returns a Config with sensible defaults.
func DefaultConfig() *Config {
	return &Config{
		Output:            OutputStdout,
		Record:            false,
		JournalPath:       defaultJournalPath(),
		MaxJournalEntries: 1000,
		LogLevel:          "warn",
		LogJSON:           false,
		Verbose:           false,
	}
}

func defaultJournalPath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".relay", "journal.msgpack")
	}
	return filepath.Join(home, ".relay", "journal.msgpack")
}

// GlobalConfigFilePath returns the global config file path (~/.relay/config.yaml)
func GlobalConfigFilePath() string {
	home, err := os.UserHomeDir()
	if err != nil {
		return filepath.Join(".relay", "config.yaml")
	}
	return filepath.Join(home, ".relay", "config.yaml")
}

// ProjectConfigFilePath returns the project-level config file path (./.relay/config.yaml)
func ProjectConfigFilePath() string {
	return filepath.Join(".relay", "config.yaml")
}

// Load reads configuration with the following priority (highest to lowest):
// 1. Environment variables
// 2. Project-level config (./.relay/config.yaml)
// 3. Global config (~/.relay/config.yaml)
// 4. Defaults
func Load() (*Config, error) {
	cfg := DefaultConfig()

	for _, path := range []string{GlobalConfigFilePath(), ProjectConfigFilePath()} {
		data, err := os.ReadFile(path)
		if err != nil {
			continue
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
		}
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// LoadFromFile reads configuration from a specific YAML file path
func LoadFromFile(path string) (*Config, error) {
	cfg := DefaultConfig()

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file %s: %w", path, err)
	}
	if err := yaml.Unmarshal(data, cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file %s: %w", path, err)
	}

	applyEnvOverrides(cfg)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Save writes the configuration to the specified YAML file path.
// It creates parent directories if they don't exist.
func (c *Config) Save(path string) error {
	dir := filepath.Dir(path)
	if err := os.MkdirAll(dir, 0755); err != nil {
		return fmt.Errorf("failed to create directory %s: %w", dir, err)
	}

	data, err := yaml.Marshal(c)
	if err != nil {
		return fmt.Errorf("failed to marshal config to YAML: %w", err)
	}

	if err := os.WriteFile(path, data, 0644); err != nil {
		return fmt.Errorf("failed to write config file %s: %w", path, err)
	}

	return nil
}

// applyEnvOverrides applies environment variable overrides to the config
func applyEnvOverrides(cfg *Config) {
	if v := os.Getenv("RELAY_OUTPUT"); v != "" {
		cfg.Output = OutputTarget(v)
	}
	if v := os.Getenv("RELAY_RECORD"); v != "" {
		cfg.Record = parseBool(v)
	}
	if v := os.Getenv("RELAY_JOURNAL_PATH"); v != "" {
		cfg.JournalPath = v
	}
	if v := os.Getenv("RELAY_MAX_JOURNAL_ENTRIES"); v != "" {
		if i, ok := parseInt(v); ok && i >= 0 {
			cfg.MaxJournalEntries = i
		}
	}
	if v := os.Getenv("RELAY_LOG_LEVEL"); v != "" {
		cfg.LogLevel = v
	}
	if v := os.Getenv("RELAY_LOG_JSON"); v != "" {
		cfg.LogJSON = parseBool(v)
	}
	if v := os.Getenv("RELAY_VERBOSE"); v != "" {
		cfg.Verbose = parseBool(v)
	}
}

// Validate checks that the configuration has valid required fields
func (c *Config) Validate() error {
	switch c.Output {
	case OutputStdout, OutputStderr:
	default:
		return fmt.Errorf("%w: output must be 'stdout' or 'stderr', got %q", ErrInvalid, c.Output)
	}

	if c.JournalPath == "" {
		return fmt.Errorf("%w: journal_path is required", ErrInvalid)
	}
	if c.MaxJournalEntries < 0 {
		return fmt.Errorf("%w: max_journal_entries must be non-negative", ErrInvalid)
	}

	if _, err := log.ParseLevel(c.LogLevel); err != nil {
		return fmt.Errorf("%w: %v", ErrInvalid, err)
	}

	return nil
}

// EffectiveLogLevel returns the configured level, lowered to debug when
// Verbose is set.
func (c *Config) EffectiveLogLevel() log.Level {
	if c.Verbose {
		return log.DebugLevel
	}
	level, err := log.ParseLevel(c.LogLevel)
	if err != nil {
		return log.WarnLevel
	}
	return level
}

func parseBool(s string) bool {
	return s == "true" || s == "1" || s == "yes"
}

// parseInt attempts to parse a string as int
func parseInt(s string) (int, bool) {
	var i int
	if _, err := fmt.Sscanf(s, "%d", &i); err != nil {
		return 0, false
	}
	return i, true
}
