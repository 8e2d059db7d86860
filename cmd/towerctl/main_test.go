package main

import (
	"bytes"
	"context"
	"errors"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"
	"testing"

	"github.com/rs/zerolog"
	"github.com/rs/zerolog/log"

	"github.com/3cpo-dev/towerctl/internal/telemetry"
	"github.com/3cpo-dev/towerctl/internal/tower"
)

var runOutput = regexp.MustCompile(`^2, Flight zy99 : \n\d{1,3}:\d{1,3}E;\d{1,3}:\d{1,3}W route\n1, Flight oh101 : \n\d{1,3}:\d{1,3}E;\d{1,3}:\d{1,3}W route\n$`)

func execute(t *testing.T, args ...string) (string, string, error) {
	t.Helper()
	t.Setenv("XDG_CONFIG_HOME", t.TempDir())
	t.Setenv("TOWERCTL_SEED", "")
	t.Setenv("TOWERCTL_JOURNAL", "")
	var stdout, stderr bytes.Buffer
	root := newRootCmd()
	root.SetOut(&stdout)
	root.SetErr(&stderr)
	root.SetArgs(args)
	err := root.ExecuteContext(context.Background())
	return stdout.String(), stderr.String(), err
}

// TestRun tests the sample script end to end
func TestRun(t *testing.T) {
	out, _, err := execute(t, "run", "--seed", "11")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !runOutput.MatchString(out) {
		t.Fatalf("unexpected output:\n%s", out)
	}
	again, _, err := execute(t, "run", "--seed", "11")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if again != out {
		t.Fatalf("seeded runs differ:\n%s\n%s", out, again)
	}
}

func TestRunSummary(t *testing.T) {
	out, summary, err := execute(t, "run", "--seed", "3", "--summary")
	if err != nil {
		t.Fatalf("run: %v", err)
	}
	if !runOutput.MatchString(out) {
		t.Fatalf("summary leaked into stdout:\n%s", out)
	}
	if !strings.Contains(summary, "zy99") || !strings.Contains(summary, "oh101") {
		t.Fatalf("summary missing flights:\n%s", summary)
	}
}

func TestRequestUnknownFlight(t *testing.T) {
	out, _, err := execute(t, "request", "--flight", "ab1")
	if !errors.Is(err, tower.ErrUnknownFlight) {
		t.Fatalf("expected unknown flight, got %v", err)
	}
	if out != "" {
		t.Fatalf("expected no output, got %q", out)
	}
}

func TestRequestBadRoute(t *testing.T) {
	if _, _, err := execute(t, "request", "--flight", "zy99", "--route", "north"); err == nil {
		t.Fatalf("expected error for bad route")
	}
}

func TestRequestKnownFlight(t *testing.T) {
	out, _, err := execute(t, "request", "--flight", "oh132")
	if err != nil {
		t.Fatalf("request: %v", err)
	}
	if !strings.HasPrefix(out, "1, Flight oh132 : \n") {
		t.Fatalf("unexpected output %q", out)
	}
}

func TestRoster(t *testing.T) {
	out, _, err := execute(t, "roster")
	if err != nil {
		t.Fatalf("roster: %v", err)
	}
	for _, want := range []string{"oh101", "London", "oh132", "Roma", "zy99", "Berlin"} {
		if !strings.Contains(out, want) {
			t.Fatalf("roster missing %s:\n%s", want, out)
		}
	}
}

func TestVersion(t *testing.T) {
	out, _, err := execute(t, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "towerctl ") {
		t.Fatalf("unexpected version output %q", out)
	}
}

func TestVersionIgnoresBrokenConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	if err := os.WriteFile(path, []byte("tower: [unterminated\n"), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}
	out, _, err := execute(t, "--config", path, "version")
	if err != nil {
		t.Fatalf("version: %v", err)
	}
	if !strings.HasPrefix(out, "towerctl ") {
		t.Fatalf("unexpected version output %q", out)
	}
	if _, _, err := execute(t, "--config", path, "roster"); err == nil {
		t.Fatalf("expected broken config to fail roster")
	}
}

// TestFailedRequestFlushesTelemetry checks metrics recorded on the error path reach the log
func TestFailedRequestFlushesTelemetry(t *testing.T) {
	dir := t.TempDir()
	t.Setenv("XDG_CONFIG_HOME", dir)
	t.Setenv("TOWERCTL_SEED", "")
	t.Setenv("TOWERCTL_JOURNAL", "")
	path := filepath.Join(dir, "config.yaml")
	content := "log_level: debug\ntelemetry:\n  enabled: true\n"
	if err := os.WriteFile(path, []byte(content), 0644); err != nil {
		t.Fatalf("write: %v", err)
	}

	var logs bytes.Buffer
	prevLogger, prevLevel := log.Logger, zerolog.GlobalLevel()
	log.Logger = zerolog.New(&logs)
	defer func() {
		log.Logger = prevLogger
		zerolog.SetGlobalLevel(prevLevel)
	}()

	if code := run([]string{"--config", path, "request", "--flight", "ab1"}); code != 1 {
		t.Fatalf("expected exit code 1, got %d", code)
	}
	if !strings.Contains(logs.String(), "tower_unknown_flight") {
		t.Fatalf("unknown flight metric not flushed:\n%s", logs.String())
	}
	if n := len(telemetry.GetGlobal().GetMetrics()); n != 0 {
		t.Fatalf("expected flushed collector, got %d metrics", n)
	}
}

// TestExitCode runs the binary in a subprocess to check the process exit status
func TestExitCode(t *testing.T) {
	if args := os.Getenv("TOWERCTL_TEST_ARGS"); args != "" {
		os.Args = append([]string{"towerctl"}, strings.Fields(args)...)
		main()
		return
	}

	cases := []struct {
		args string
		code int
	}{
		{"request --flight ab1", 1},
		{"request --flight zy99 --seed 5", 0},
	}
	for _, tc := range cases {
		cmd := exec.Command(os.Args[0], "-test.run=^TestExitCode$")
		cmd.Env = append(os.Environ(),
			"TOWERCTL_TEST_ARGS="+tc.args,
			"XDG_CONFIG_HOME="+t.TempDir(),
			"TOWERCTL_SEED=",
			"TOWERCTL_JOURNAL=",
		)
		out, err := cmd.CombinedOutput()
		code := 0
		if err != nil {
			var exitErr *exec.ExitError
			if !errors.As(err, &exitErr) {
				t.Fatalf("%s: %v", tc.args, err)
			}
			code = exitErr.ExitCode()
		}
		if code != tc.code {
			t.Fatalf("%s: expected exit code %d, got %d\n%s", tc.args, tc.code, code, out)
		}
	}
}
