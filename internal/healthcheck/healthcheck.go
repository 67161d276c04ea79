package healthcheck

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/l3aro/go-relay/internal/config"
	"github.com/l3aro/go-relay/pkg/journal"
)

// Status values reported per component.
const (
	StatusOK      = "ok"
	StatusMissing = "missing"
	StatusError   = "error"
)

// ComponentStatus represents the health of one component.
type ComponentStatus struct {
	Name    string
	Target  string
	Status  string
	Detail  string
	Error   string
	Entries int
}

// Result contains the full health check output for display.
type Result struct {
	ConfigPath  string
	ConfigScope string // "global", "project", or "" when defaults are used
	Output      ComponentStatus
	Journal     ComponentStatus
}

// HasError reports whether any component failed.
func (r *Result) HasError() bool {
	return r.Output.Status == StatusError || r.Journal.Status == StatusError
}

// Check performs a health check against the given config.
// configPath is the config file in use, empty when only defaults apply.
func Check(cfg *config.Config, configPath string) (*Result, error) {
	if cfg == nil {
		return nil, fmt.Errorf("config is nil")
	}

	return &Result{
		ConfigPath:  configPath,
		ConfigScope: ScopeFromPath(configPath),
		Output:      checkOutput(cfg.Output),
		Journal:     checkJournal(cfg.JournalPath, cfg.MaxJournalEntries),
	}, nil
}

// ScopeFromPath determines "global" or "project" scope from a config file path.
// Returns empty string if path is empty.
func ScopeFromPath(path string) string {
	if path == "" {
		return ""
	}

	home, err := os.UserHomeDir()
	if err == nil {
		globalDir := filepath.Join(home, ".relay") + string(filepath.Separator)
		if strings.HasPrefix(filepath.Clean(path), globalDir) {
			return "global"
		}
	}

	return "project"
}

func checkOutput(target config.OutputTarget) ComponentStatus {
	status := ComponentStatus{Name: "output", Target: string(target)}

	var f *os.File
	switch target {
	case config.OutputStdout:
		f = os.Stdout
	case config.OutputStderr:
		f = os.Stderr
	default:
		status.Status = StatusError
		status.Error = fmt.Sprintf("unknown output target %q", target)
		return status
	}

	if _, err := f.Stat(); err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return status
	}

	status.Status = StatusOK
	return status
}

func checkJournal(path string, maxEntries int) ComponentStatus {
	status := ComponentStatus{Name: "journal", Target: path}

	info, err := os.Stat(path)
	if os.IsNotExist(err) {
		status.Status = StatusMissing
		status.Detail = "no computations recorded yet"
		return status
	}
	if err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return status
	}
	if info.IsDir() {
		status.Status = StatusError
		status.Error = "journal path is a directory"
		return status
	}

	j := journal.New(journal.Options{MaxEntries: maxEntries})
	if err := journal.LoadFromFile(j, path); err != nil {
		status.Status = StatusError
		status.Error = err.Error()
		return status
	}

	status.Status = StatusOK
	status.Entries = j.Len()
	status.Detail = fmt.Sprintf("%d records", j.Len())
	return status
}
