package main

import (
	"bytes"
	"fmt"
	"os"
	"path/filepath"
	"testing"

	"rollcall/internal/config"
	"rollcall/internal/testsupport"
)

type cliTestEnv struct {
	baseDir    string
	configPath string
	rosterPath string
	logPath    string
}

const testRoster = `[
  {"phone": "1-555-0001", "displayName": "Ahmed Khan"},
  {"phone": "1-555-0002", "displayName": "Sana Malik"},
  {"phone": "1-555-0003", "displayName": "Bilal Ahmed"}
]`

const testSessionLog = `[
  {"rawLabel": "Ahmed Khan's iPhone", "durationSeconds": 1200},
  {"rawLabel": "ahmed khan", "durationSeconds": 600},
  {"rawLabel": "Sana Malik", "durationSeconds": 900},
  {"rawLabel": "Dad's Galaxy", "durationSeconds": 1500}
]`

func setupCLITestEnv(t *testing.T) *cliTestEnv {
	t.Helper()

	base := t.TempDir()
	homeDir := filepath.Join(base, "home")
	if err := os.MkdirAll(homeDir, 0o755); err != nil {
		t.Fatalf("mkdir home: %v", err)
	}
	t.Setenv("HOME", homeDir)
	t.Setenv(config.DataDirEnv, "")

	env := &cliTestEnv{baseDir: base}
	env.configPath = testsupport.WriteFile(t, filepath.Join(base, "config.toml"), fmt.Sprintf(`[paths]
data_dir = %q

[drafts]
lock_timeout_seconds = 1

[logging]
level = "error"
`, filepath.Join(base, "data")))
	env.rosterPath = testsupport.WriteFile(t, filepath.Join(base, "roster.json"), testRoster)
	env.logPath = testsupport.WriteFile(t, filepath.Join(base, "session.json"), testSessionLog)
	return env
}

func runCLI(t *testing.T, args []string, configPath string) (string, string, error) {
	t.Helper()
	cmd := newRootCommand()
	var stdout, stderr bytes.Buffer
	cmd.SetOut(&stdout)
	cmd.SetErr(&stderr)
	var flags []string
	if configPath != "" {
		flags = append(flags, "--config", configPath)
	}
	cmd.SetArgs(append(flags, args...))
	err := cmd.Execute()
	return stdout.String(), stderr.String(), err
}

func (e *cliTestEnv) run(t *testing.T, args ...string) string {
	t.Helper()
	out, _, err := runCLI(t, args, e.configPath)
	if err != nil {
		t.Fatalf("rollcall %v: %v\noutput: %s", args, err, out)
	}
	return out
}
