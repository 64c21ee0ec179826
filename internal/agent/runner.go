package agent

import (
	"context"
	"fmt"
	"os"
	"os/exec"
	"strconv"
	"strings"
	"time"

	"github.com/arenalab/gauntlet/internal/sandbox"
)

// ExitLaunchFailure distinguishes "the agent process never started" from
// engine-reported failures. 127 follows the shell convention for a missing
// command.
const ExitLaunchFailure = 127

// errorLinePrefix is the structured error channel: an agent may end its log
// with one "AGENT_ERROR: <text>" line, which wins over free-text scraping.
const errorLinePrefix = "AGENT_ERROR:"

type RunOpts struct {
	Spec     Spec
	Prompt   string
	MaxTurns int
	LogPath  string
	// Env is merged over the process environment: the scenario resource
	// variable, secrets, and per-agent overrides.
	Env map[string]string
	// Timeout bounds containerized runs; direct child processes are only
	// bounded by ctx.
	Timeout time.Duration
}

// Result is the full outcome of one agent run. Run never fails outward:
// every failure mode is folded into these fields.
type Result struct {
	Name     string
	Resource string
	ExitCode int
	Duration time.Duration
	ErrText  string
}

// Run spawns the agent, blocks until it exits, and classifies the outcome.
// Output goes to exactly one log file per (race, agent).
func Run(ctx context.Context, opts *RunOpts) *Result {
	res := &Result{Name: opts.Spec.Name, Resource: opts.Spec.Resource()}

	logFile, err := os.Create(opts.LogPath)
	if err != nil {
		res.ExitCode = ExitLaunchFailure
		res.ErrText = fmt.Sprintf("launch failure: creating log file: %v", err)
		return res
	}
	defer logFile.Close()

	start := time.Now()
	if opts.Spec.Image != "" {
		runContainer(ctx, opts, logFile, res)
	} else {
		runProcess(ctx, opts, logFile, res)
	}
	res.Duration = time.Since(start)

	if res.ExitCode != 0 && res.ErrText == "" {
		res.ErrText = errorFromLog(opts.LogPath, res.ExitCode)
	}
	return res
}

func runProcess(ctx context.Context, opts *RunOpts, logFile *os.File, res *Result) {
	cmd := exec.CommandContext(ctx, opts.Spec.Binary, agentArgs(opts)...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	cmd.Env = append(os.Environ(), envSlice(opts.Env)...)

	if err := cmd.Start(); err != nil {
		res.ExitCode = ExitLaunchFailure
		res.ErrText = fmt.Sprintf("launch failure: %v", err)
		return
	}
	if err := cmd.Wait(); err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			res.ExitCode = exit.ExitCode()
		} else {
			res.ExitCode = ExitLaunchFailure
			res.ErrText = fmt.Sprintf("launch failure: %v", err)
		}
	}
}

func runContainer(ctx context.Context, opts *RunOpts, logFile *os.File, res *Result) {
	timeout := opts.Timeout
	if timeout <= 0 {
		timeout = 24 * time.Hour
	}
	env := map[string]string{}
	for k, v := range opts.Env {
		env[k] = v
	}
	var mounts []sandbox.Mount
	if opts.Spec.StateDir != "" {
		mounts = append(mounts, sandbox.Mount{Source: opts.Spec.StateDir, Target: "/state"})
		env[EnvStateDir] = "/state"
	}
	if opts.Spec.Port != 0 {
		// The scenario server runs on the host.
		env[EnvHost] = "host.docker.internal"
	}

	out, err := sandbox.Run(ctx, &sandbox.RunOpts{
		Image:   opts.Spec.Image,
		Command: append([]string{opts.Spec.Binary}, agentArgs(opts)...),
		Env:     env,
		Mounts:  mounts,
		Timeout: timeout,
	})
	if out != nil && len(out.Logs) > 0 {
		logFile.Write(out.Logs)
	}
	if err != nil {
		res.ExitCode = ExitLaunchFailure
		res.ErrText = fmt.Sprintf("launch failure: %v", err)
		return
	}
	res.ExitCode = out.ExitCode
	if out.TimedOut {
		res.ErrText = "abnormal exit: container timed out"
	}
}

func agentArgs(opts *RunOpts) []string {
	args := []string{"--max-turns", strconv.Itoa(opts.MaxTurns)}
	if opts.Spec.Model != "" {
		args = append(args, "--model", opts.Spec.Model)
	}
	return append(args, opts.Prompt)
}

func envSlice(env map[string]string) []string {
	out := make([]string, 0, len(env))
	for k, v := range env {
		out = append(out, k+"="+v)
	}
	return out
}

// errorFromLog extracts a best-effort message for a nonzero exit. A
// trailing structured AGENT_ERROR line wins; otherwise the last log line
// mentioning an error is used; otherwise just the exit code.
func errorFromLog(path string, code int) string {
	fallback := fmt.Sprintf("abnormal exit: status %d", code)
	data, err := os.ReadFile(path)
	if err != nil || len(data) == 0 {
		return fallback
	}
	lines := strings.Split(strings.TrimRight(string(data), "\n"), "\n")
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if strings.HasPrefix(line, errorLinePrefix) {
			return strings.TrimSpace(strings.TrimPrefix(line, errorLinePrefix))
		}
	}
	for i := len(lines) - 1; i >= 0; i-- {
		line := strings.TrimSpace(lines[i])
		if line != "" && strings.Contains(strings.ToLower(line), "error") {
			return fallback + ": " + line
		}
	}
	return fallback
}
