package race

import (
	"context"
	"fmt"
	"io"
	"net/http"
	"os"
	"os/exec"
	"os/signal"
	"sync"
	"syscall"
	"time"

	"github.com/arenalab/gauntlet/internal/agent"
	"github.com/arenalab/gauntlet/internal/record"
	"github.com/arenalab/gauntlet/internal/score"
)

const (
	readinessAttempts = 30
	readinessSpacing  = time.Second
	stopGrace         = 5 * time.Second
)

// runServer is the execution mode for the server-backed scenario family:
// one engine server per agent, each on its own port with its own log. A
// supervisor owns every server's lifetime; the same idempotent teardown
// runs on the normal path, on readiness failure, and on SIGINT/SIGTERM.
func runServer(ctx context.Context, rc *raceContext) ([]record.AgentResultRow, error) {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	sup := &supervisor{}
	defer sup.teardown()
	go func() {
		<-ctx.Done()
		sup.teardown()
	}()

	for _, spec := range rc.specs {
		proc, err := startServer(rc, spec)
		if err != nil {
			return nil, fmt.Errorf("starting server for %s: %w", spec.Name, err)
		}
		sup.add(proc)
	}

	for _, spec := range rc.specs {
		if err := waitReady(ctx, spec.Port); err != nil {
			return nil, err
		}
	}

	opts := make([]*agent.RunOpts, len(rc.specs))
	for i, spec := range rc.specs {
		env := spec.Env
		env[agent.EnvPort] = itoa(spec.Port)
		opts[i] = &agent.RunOpts{
			Spec:     *spec,
			Prompt:   buildPrompt(rc, spec),
			MaxTurns: rc.maxTurns,
			LogPath:  rc.logPath(spec.Name),
			Env:      env,
		}
	}

	results := runAgents(ctx, opts)

	scores := make(map[string]scoreOutcome, len(rc.specs))
	for _, spec := range rc.specs {
		scores[spec.Name] = collectServerScore(ctx, rc, spec)
	}

	sup.teardown()
	return assembleRows(rc, results, scores), nil
}

func startServer(rc *raceContext, spec *agent.Spec) (*serverProc, error) {
	logPath := rc.logPath("server-" + spec.Name)
	logFile, err := os.Create(logPath)
	if err != nil {
		return nil, fmt.Errorf("creating server log: %w", err)
	}

	args := []string{"serve",
		"--port", itoa(spec.Port),
		"--seed", itoa(rc.seed),
		"--duration", itoa(rc.duration),
	}
	if rc.variant != "" {
		args = append(args, "--variant", rc.variant)
	}
	cmd := exec.Command(rc.scenario.Engine, args...)
	cmd.Stdout = logFile
	cmd.Stderr = logFile
	if err := cmd.Start(); err != nil {
		logFile.Close()
		return nil, err
	}
	return &serverProc{port: spec.Port, cmd: cmd, logFile: logFile}, nil
}

// waitReady polls the server's liveness endpoint with a bounded retry
// budget.
func waitReady(ctx context.Context, port int) error {
	client := &http.Client{Timeout: time.Second}
	url := fmt.Sprintf("http://127.0.0.1:%d/healthz", port)
	for attempt := 0; attempt < readinessAttempts; attempt++ {
		if err := ctx.Err(); err != nil {
			return err
		}
		resp, err := client.Get(url)
		if err == nil {
			resp.Body.Close()
			if resp.StatusCode == http.StatusOK {
				return nil
			}
		}
		select {
		case <-ctx.Done():
			return ctx.Err()
		case <-time.After(readinessSpacing):
		}
	}
	return &ReadinessError{Port: port, Attempts: readinessAttempts}
}

// collectServerScore fetches the agent's score over HTTP, with the same
// zero-score fallback semantics as the CLI mode.
func collectServerScore(ctx context.Context, rc *raceContext, spec *agent.Spec) scoreOutcome {
	client := &http.Client{Timeout: rc.collectTimeout()}
	req, err := http.NewRequestWithContext(ctx, http.MethodGet,
		fmt.Sprintf("http://127.0.0.1:%d/score", spec.Port), nil)
	if err != nil {
		return scoreOutcome{err: fmt.Sprintf("score collection failed: %v", err)}
	}
	resp, err := client.Do(req)
	if err != nil {
		return scoreOutcome{err: fmt.Sprintf("score collection failed: %v", err)}
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		return scoreOutcome{err: fmt.Sprintf("score collection failed: server returned %d", resp.StatusCode)}
	}
	body, err := io.ReadAll(resp.Body)
	if err != nil {
		return scoreOutcome{err: fmt.Sprintf("score collection failed: %v", err)}
	}
	return scoreOutcome{row: score.Normalize(score.Decode(body, rc.scenario.Family))}
}

// supervisor owns every server process started for one race. teardown is
// idempotent: it is safe to invoke from the signal path and the normal
// completion path, and a server is never terminated twice.
type supervisor struct {
	mu    sync.Mutex
	procs []*serverProc
}

func (s *supervisor) add(p *serverProc) {
	s.mu.Lock()
	s.procs = append(s.procs, p)
	s.mu.Unlock()
}

func (s *supervisor) teardown() {
	s.mu.Lock()
	procs := make([]*serverProc, len(s.procs))
	copy(procs, s.procs)
	s.mu.Unlock()
	for _, p := range procs {
		p.stop()
	}
}

type serverProc struct {
	port     int
	cmd      *exec.Cmd
	logFile  *os.File
	stopOnce sync.Once
}

// stop terminates gracefully, waits a bounded grace period, then kills.
func (p *serverProc) stop() {
	p.stopOnce.Do(func() {
		if p.cmd.Process != nil {
			p.cmd.Process.Signal(syscall.SIGTERM)
			done := make(chan struct{})
			go func() {
				p.cmd.Wait()
				close(done)
			}()
			select {
			case <-done:
			case <-time.After(stopGrace):
				p.cmd.Process.Kill()
				<-done
			}
		}
		p.logFile.Close()
	})
}
