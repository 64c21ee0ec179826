package agent_test

import (
	"context"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/arenalab/gauntlet/internal/agent"
)

func writeScript(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "stub-agent")
	script := "#!/bin/sh\n" + body + "\n"
	if err := os.WriteFile(path, []byte(script), 0o755); err != nil {
		t.Fatal(err)
	}
	return path
}

func TestRunSuccess(t *testing.T) {
	logPath := filepath.Join(t.TempDir(), "a.log")
	res := agent.Run(context.Background(), &agent.RunOpts{
		Spec: agent.Spec{
			Name:     "stub-1",
			Type:     "stub",
			Binary:   writeScript(t, `echo "turns=$2 prompt=$3"; echo "state=$GAUNTLET_STATE_DIR"`),
			StateDir: "/tmp/state/stub-1",
		},
		Prompt:   "do the thing",
		MaxTurns: 7,
		LogPath:  logPath,
		Env:      map[string]string{agent.EnvStateDir: "/tmp/state/stub-1"},
	})
	if res.ExitCode != 0 {
		t.Fatalf("exit code: got %d (%s)", res.ExitCode, res.ErrText)
	}
	if res.ErrText != "" {
		t.Errorf("unexpected error text %q", res.ErrText)
	}
	if res.Duration <= 0 {
		t.Error("duration not measured")
	}
	data, err := os.ReadFile(logPath)
	if err != nil {
		t.Fatalf("log file: %v", err)
	}
	out := string(data)
	if !strings.Contains(out, "turns=7") || !strings.Contains(out, "prompt=do the thing") {
		t.Errorf("agent contract args not passed:\n%s", out)
	}
	if !strings.Contains(out, "state=/tmp/state/stub-1") {
		t.Errorf("resource env var not passed:\n%s", out)
	}
}

func TestRunMissingBinaryIsLaunchFailure(t *testing.T) {
	res := agent.Run(context.Background(), &agent.RunOpts{
		Spec:    agent.Spec{Name: "ghost", Binary: "/no/such/binary", StateDir: "/tmp/x"},
		LogPath: filepath.Join(t.TempDir(), "ghost.log"),
	})
	if res.ExitCode != agent.ExitLaunchFailure {
		t.Errorf("exit code: got %d, want %d", res.ExitCode, agent.ExitLaunchFailure)
	}
	if !strings.Contains(res.ErrText, "launch failure") {
		t.Errorf("error text: %q", res.ErrText)
	}
}

func TestRunAbnormalExitPrefersStructuredErrorLine(t *testing.T) {
	res := agent.Run(context.Background(), &agent.RunOpts{
		Spec: agent.Spec{
			Name:     "bad",
			Binary:   writeScript(t, `echo "doing work"; echo "AGENT_ERROR: ran out of budget"; exit 3`),
			StateDir: "/tmp/x",
		},
		LogPath: filepath.Join(t.TempDir(), "bad.log"),
	})
	if res.ExitCode != 3 {
		t.Errorf("exit code: got %d", res.ExitCode)
	}
	if res.ErrText != "ran out of budget" {
		t.Errorf("error text: got %q", res.ErrText)
	}
}

func TestRunAbnormalExitScrapesLegacyLog(t *testing.T) {
	res := agent.Run(context.Background(), &agent.RunOpts{
		Spec: agent.Spec{
			Name:     "legacy",
			Binary:   writeScript(t, `echo "step one ok"; echo "fatal error: no api key"; exit 1`),
			StateDir: "/tmp/x",
		},
		LogPath: filepath.Join(t.TempDir(), "legacy.log"),
	})
	if res.ExitCode != 1 {
		t.Errorf("exit code: got %d", res.ExitCode)
	}
	if !strings.Contains(res.ErrText, "no api key") {
		t.Errorf("error text: got %q", res.ErrText)
	}
	if !strings.Contains(res.ErrText, "abnormal exit") {
		t.Errorf("classification missing: %q", res.ErrText)
	}
}

func TestRunCancelledContextKillsAgent(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	binary := writeScript(t, `sleep 60`)
	logPath := filepath.Join(t.TempDir(), "sleeper.log")

	done := make(chan *agent.Result, 1)
	go func() {
		done <- agent.Run(ctx, &agent.RunOpts{
			Spec:    agent.Spec{Name: "sleeper", Binary: binary, StateDir: "/tmp/x"},
			LogPath: logPath,
		})
	}()

	time.Sleep(200 * time.Millisecond)
	cancel()

	select {
	case res := <-done:
		if res.ExitCode == 0 {
			t.Errorf("killed agent reported clean exit: %+v", res)
		}
	case <-time.After(10 * time.Second):
		t.Fatal("agent was not reaped after context cancellation")
	}
}

func TestRunQuietFailureFallsBackToStatus(t *testing.T) {
	res := agent.Run(context.Background(), &agent.RunOpts{
		Spec:    agent.Spec{Name: "quiet", Binary: writeScript(t, `exit 9`), StateDir: "/tmp/x"},
		LogPath: filepath.Join(t.TempDir(), "quiet.log"),
	})
	if res.ErrText != "abnormal exit: status 9" {
		t.Errorf("error text: got %q", res.ErrText)
	}
}
