package commands

import (
	"bytes"
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/l3aro/go-relay/internal/config"
)

// isolate points HOME and the working directory at fresh temp dirs so no
// real config or journal is read.
func isolate(t *testing.T) string {
	t.Helper()
	home := t.TempDir()
	t.Setenv("HOME", home)
	for _, key := range []string{
		"RELAY_OUTPUT", "RELAY_RECORD", "RELAY_JOURNAL_PATH", "RELAY_MAX_JOURNAL_ENTRIES",
		"RELAY_LOG_LEVEL", "RELAY_LOG_JSON", "RELAY_VERBOSE",
	} {
		t.Setenv(key, "")
	}
	wd, err := os.Getwd()
	if err != nil {
		t.Fatal(err)
	}
	if err := os.Chdir(t.TempDir()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { _ = os.Chdir(wd) })
	return home
}

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	root := NewRootCmd()
	var stdout, stderr bytes.Buffer
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.Execute()
	return stdout.String(), stderr.String(), err
}

func writeConfig(t *testing.T, cfg *config.Config) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, cfg.Save(path))
	return path
}

func TestRunCommand(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "run")
	require.NoError(t, err)
	assert.Equal(t, "called from module1_run()\n", stdout)
}

func TestComputeCommand(t *testing.T) {
	tests := []struct {
		name string
		args []string
		want string
	}{
		{"zero", []string{"compute", "0"}, "module1: result = 10\n"},
		{"five", []string{"compute", "5"}, "module1: result = 15\n"},
		{"negative", []string{"compute", "-10"}, "module1: result = 0\n"},
		{"negative after separator", []string{"compute", "--", "-10"}, "module1: result = 0\n"},
		{"mixed signs in order", []string{"compute", "1", "-2", "3"}, "module1: result = 11\nmodule1: result = 8\nmodule1: result = 13\n"},
		{"min", []string{"compute", "-2147483648"}, "module1: result = -2147483638\n"},
		{"max", []string{"compute", "2147483637"}, "module1: result = 2147483647\n"},
		{"in order", []string{"compute", "1", "2"}, "module1: result = 11\nmodule1: result = 12\n"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			stdout, _, err := execute(t, tt.args...)
			require.NoError(t, err)
			assert.Equal(t, tt.want, stdout)
		})
	}
}

func TestComputeCommand_InvalidInput(t *testing.T) {
	tests := []struct {
		name        string
		args        []string
		errContains string
	}{
		{"not a number", []string{"compute", "abc"}, "not an integer"},
		{"out of range", []string{"compute", "2147483648"}, "out of the 32-bit integer range"},
		{"bad arg after good", []string{"compute", "1", "x"}, "not an integer"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolate(t)

			stdout, _, err := execute(t, tt.args...)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errContains)
			assert.Empty(t, stdout, "nothing is computed when any argument is invalid")
		})
	}
}

func TestComputeCommand_NoArgs(t *testing.T) {
	isolate(t)

	_, _, err := execute(t, "compute")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "requires at least 1 arg")
}

func TestComputeCommand_Help(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "compute", "--help")
	require.NoError(t, err)
	assert.Contains(t, stdout, "compute X [Y...]")
	assert.NotContains(t, stdout, "module1: result")
}

func TestComputeCommand_UnknownFlag(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "compute", "--bogus", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "unknown flag")
	assert.Empty(t, stdout)
}

func TestComputeCommand_NegativeWithFlags(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.msgpack")
	path := writeConfig(t, cfg)

	stdout, stderr, err := execute(t, "-v", "--config", path, "compute", "-r", "-5", "-10")
	require.NoError(t, err)
	assert.Equal(t, "module1: result = 5\nmodule1: result = 0\n", stdout)
	assert.Contains(t, stderr, "compute input=-5 result=5")

	stdout, _, err = execute(t, "--config", path, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "-5 + 10 = 5")
	assert.Contains(t, stdout, "-10 + 10 = 0")
}

func TestComputeCommand_StderrOutput(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.Output = config.OutputStderr
	path := writeConfig(t, cfg)

	stdout, stderr, err := execute(t, "--config", path, "compute", "5")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "module1: result = 15\n", stderr)
}

func TestComputeCommand_VerboseLogsToStderr(t *testing.T) {
	isolate(t)

	stdout, stderr, err := execute(t, "-v", "compute", "3")
	require.NoError(t, err)
	assert.Equal(t, "module1: result = 13\n", stdout)
	assert.Contains(t, stderr, "compute input=3 result=13")
}

func TestComputeAndHistory(t *testing.T) {
	home := isolate(t)

	_, _, err := execute(t, "compute", "--record", "5", "7")
	require.NoError(t, err)

	_, err = os.Stat(filepath.Join(home, ".relay", "journal.msgpack"))
	require.NoError(t, err, "journal should be written under HOME")

	stdout, _, err := execute(t, "history")
	require.NoError(t, err)
	lines := strings.Split(strings.TrimSpace(stdout), "\n")
	require.Len(t, lines, 2)
	assert.True(t, strings.HasSuffix(lines[0], "5 + 10 = 15"), lines[0])
	assert.True(t, strings.HasSuffix(lines[1], "7 + 10 = 17"), lines[1])

	stdout, _, err = execute(t, "history", "--json")
	require.NoError(t, err)
	var records []map[string]interface{}
	require.NoError(t, json.Unmarshal([]byte(stdout), &records))
	require.Len(t, records, 2)
	assert.Equal(t, float64(15), records[0]["result"])

	stdout, _, err = execute(t, "history", "--clear")
	require.NoError(t, err)
	assert.Equal(t, "Journal cleared\n", stdout)

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Equal(t, "No computations recorded\n", stdout)
}

func TestHistoryClear_UnreadableJournal(t *testing.T) {
	tests := []struct {
		name string
		data []byte
	}{
		{"empty file", nil},
		{"corrupt file", []byte{0xc1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			home := isolate(t)
			journalPath := filepath.Join(home, ".relay", "journal.msgpack")
			require.NoError(t, os.MkdirAll(filepath.Dir(journalPath), 0755))
			require.NoError(t, os.WriteFile(journalPath, tt.data, 0644))

			stdout, _, err := execute(t, "history", "--clear")
			require.NoError(t, err)
			assert.Equal(t, "Journal cleared\n", stdout)

			stdout, _, err = execute(t, "history")
			require.NoError(t, err)
			assert.Equal(t, "No computations recorded\n", stdout)
		})
	}
}

func TestHistory_CorruptJournalSuggestsClear(t *testing.T) {
	home := isolate(t)
	journalPath := filepath.Join(home, ".relay", "journal.msgpack")
	require.NoError(t, os.MkdirAll(filepath.Dir(journalPath), 0755))
	require.NoError(t, os.WriteFile(journalPath, []byte{0xc1}, 0644))

	_, _, err := execute(t, "history")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history --clear")

	_, _, err = execute(t, "compute", "--record", "1")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "history --clear")
}

func TestComputeRecord_EmptyJournalFile(t *testing.T) {
	home := isolate(t)
	journalPath := filepath.Join(home, ".relay", "journal.msgpack")
	require.NoError(t, os.MkdirAll(filepath.Dir(journalPath), 0755))
	require.NoError(t, os.WriteFile(journalPath, nil, 0644))

	stdout, _, err := execute(t, "compute", "--record", "4")
	require.NoError(t, err)
	assert.Equal(t, "module1: result = 14\n", stdout)

	stdout, _, err = execute(t, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "4 + 10 = 14")
}

func TestComputeRecordsFromConfig(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.Record = true
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.msgpack")
	path := writeConfig(t, cfg)

	_, _, err := execute(t, "--config", path, "compute", "1")
	require.NoError(t, err)

	stdout, _, err := execute(t, "--config", path, "history")
	require.NoError(t, err)
	assert.Contains(t, stdout, "1 + 10 = 11")

	// --record=false overrides the config
	_, _, err = execute(t, "--config", path, "compute", "--record=false", "2")
	require.NoError(t, err)
	stdout, _, err = execute(t, "--config", path, "history")
	require.NoError(t, err)
	assert.NotContains(t, stdout, "2 + 10 = 12")
}

func TestDoctorCommand(t *testing.T) {
	isolate(t)

	stdout, _, err := execute(t, "doctor")
	require.NoError(t, err)
	assert.Contains(t, stdout, "Using config: defaults")
	assert.Contains(t, stdout, "journal:")
	assert.Contains(t, stdout, "missing")
}

func TestDoctorCommand_CorruptJournal(t *testing.T) {
	isolate(t)
	cfg := config.DefaultConfig()
	cfg.JournalPath = filepath.Join(t.TempDir(), "journal.msgpack")
	require.NoError(t, os.WriteFile(cfg.JournalPath, []byte{0xc1}, 0644))
	path := writeConfig(t, cfg)

	stdout, _, err := execute(t, "--config", path, "doctor")
	require.Error(t, err)
	assert.Contains(t, stdout, "Error:")
}

func TestInvalidConfigFile(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte("output: printer\n"), 0644))

	_, _, err := execute(t, "--config", path, "run")
	require.Error(t, err)
	assert.Contains(t, err.Error(), "loading config")
}

func TestProjectConfigIsUsed(t *testing.T) {
	isolate(t)
	require.NoError(t, os.MkdirAll(".relay", 0755))
	require.NoError(t, os.WriteFile(filepath.Join(".relay", "config.yaml"), []byte("output: stderr\n"), 0644))

	stdout, stderr, err := execute(t, "run")
	require.NoError(t, err)
	assert.Empty(t, stdout)
	assert.Equal(t, "called from module1_run()\n", stderr)
}

func TestWriteInitConfig(t *testing.T) {
	isolate(t)
	path := filepath.Join(t.TempDir(), ".relay", "config.yaml")
	answers := &initAnswers{
		Output:      "stderr",
		Record:      true,
		JournalPath: filepath.Join(t.TempDir(), "journal.msgpack"),
		LogLevel:    "info",
		Location:    "project",
	}

	var out bytes.Buffer
	require.NoError(t, writeInitConfig(&out, answers, path))
	assert.Contains(t, out.String(), "Configuration saved to: "+path)
	assert.Contains(t, out.String(), "Initialization Complete")

	cfg, err := config.LoadFromFile(path)
	require.NoError(t, err)
	assert.Equal(t, config.OutputStderr, cfg.Output)
	assert.True(t, cfg.Record)
}

func TestWriteInitConfig_Invalid(t *testing.T) {
	isolate(t)
	answers := &initAnswers{Output: "printer", JournalPath: "j", LogLevel: "info"}

	var out bytes.Buffer
	err := writeInitConfig(&out, answers, filepath.Join(t.TempDir(), "config.yaml"))
	require.Error(t, err)
	assert.Contains(t, err.Error(), "config validation failed")
}

func TestInitConfigPath(t *testing.T) {
	home := isolate(t)

	got, err := initConfigPath("global")
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(home, ".relay", "config.yaml"), got)

	got, err = initConfigPath("project")
	require.NoError(t, err)
	assert.Equal(t, config.ProjectConfigFilePath(), got)
}

func TestParseInputs(t *testing.T) {
	got, err := parseInputs([]string{"0", "-10", "2147483637", "-2147483648"})
	require.NoError(t, err)
	assert.Equal(t, []int32{0, -10, 2147483637, -2147483648}, got)

	_, err = parseInputs([]string{"1.5"})
	assert.Error(t, err)
}

func TestParseComputeArgs(t *testing.T) {
	tests := []struct {
		name   string
		raw    []string
		want   []string
		record bool
	}{
		{"plain", []string{"1", "2"}, []string{"1", "2"}, false},
		{"negatives", []string{"-1", "5", "-20"}, []string{"-1", "5", "-20"}, false},
		{"flag between", []string{"-3", "--record", "4"}, []string{"-3", "4"}, true},
		{"shorthand", []string{"-r", "-3"}, []string{"-3"}, true},
		{"separator", []string{"--", "-7", "--record"}, []string{"-7", "--record"}, false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cmd := newComputeCmd()
			got, err := parseComputeArgs(cmd, tt.raw)
			require.NoError(t, err)
			assert.Equal(t, tt.want, got)
			record, _ := cmd.Flags().GetBool("record")
			assert.Equal(t, tt.record, record)
		})
	}
}

func TestVersionFlag(t *testing.T) {
	isolate(t)
	root := NewRootCmd()
	root.Version = "1.2.3"
	var out bytes.Buffer
	root.SetOut(&out)
	root.SetArgs([]string{"--version"})

	require.NoError(t, root.Execute())
	assert.Equal(t, "relay version 1.2.3\n", out.String())
}
