// Package campaign repeats races across the full scenario registry from a
// single driver process, one fresh OS process per scenario, with a
// resumable progress ledger.
package campaign

import (
	"context"
	"encoding/json"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/config"
)

type Options struct {
	Agents            []string
	Variant           string
	Seed              int
	MaxTurns          int
	ResultsDir        string
	Limit             int
	ContinueOnFailure bool
	DryRun            bool
	Post              bool

	// ConfigPath and Exe reconstruct the child invocation: Exe defaults to
	// the current executable.
	ConfigPath string
	Exe        string
}

type Runner struct {
	cfg  *config.Config
	opts Options
}

func NewRunner(cfg *config.Config, opts Options) *Runner {
	if opts.ResultsDir == "" {
		opts.ResultsDir = filepath.Join(cfg.Results.Dir, "campaign")
	}
	if opts.Exe == "" {
		opts.Exe = os.Args[0]
	}
	return &Runner{cfg: cfg, opts: opts}
}

// Run iterates scenario ids in sorted order, skipping any the ledger
// already records a success for. Default behavior is fail-fast; the
// summary is written regardless of how far the campaign got.
func (r *Runner) Run(ctx context.Context) (err error) {
	resultsDir := r.opts.ResultsDir
	if mkErr := os.MkdirAll(filepath.Join(resultsDir, "logs"), 0o755); mkErr != nil {
		return fmt.Errorf("creating campaign dir: %w", mkErr)
	}

	ledger, lErr := LoadLedger(filepath.Join(resultsDir, "progress.json"))
	if lErr != nil {
		return lErr
	}
	ledger.Config = r.echoConfig()
	events := &EventLog{Path: filepath.Join(resultsDir, "events.jsonl")}

	// Summary and postprocessing run however far the campaign got,
	// including after a fail-fast stop.
	defer func() {
		if sErr := r.writeSummary(ledger); sErr != nil && err == nil {
			err = sErr
		}
		if r.opts.Post {
			r.postprocess(ledger)
		}
	}()

	attempted := 0
	anyFailed := false
	for _, id := range catalog.IDs() {
		if r.opts.Limit > 0 && attempted >= r.opts.Limit {
			break
		}
		if ledger.HasSuccess(id) {
			fmt.Printf("skip %s (already successful)\n", id)
			continue
		}
		attempted++

		resultsFile := filepath.Join(resultsDir, id+".json")
		command := r.raceCommand(id, resultsFile)

		rec := RunRecord{
			Scenario:    id,
			ResultsFile: resultsFile,
			Timestamp:   time.Now().UTC(),
			Command:     command,
		}
		if r.opts.DryRun {
			fmt.Printf("dry-run %s: %s\n", id, strings.Join(command, " "))
		} else {
			fmt.Printf("race %s...\n", id)
			rc, elapsed := SpawnRace(ctx, command, filepath.Join(resultsDir, "logs", id+".log"))
			rec.ReturnCode = rc
			rec.ElapsedS = elapsed.Seconds()
		}

		// Persistence failures propagate: losing the audit trail is worse
		// than stopping the campaign.
		if aErr := ledger.Append(rec); aErr != nil {
			return aErr
		}
		if eErr := events.Append(rec); eErr != nil {
			return eErr
		}

		if rec.ReturnCode != 0 {
			anyFailed = true
			fmt.Printf("  %s failed (rc=%d, %.1fs)\n", id, rec.ReturnCode, rec.ElapsedS)
			if !r.opts.ContinueOnFailure {
				return fmt.Errorf("scenario %s failed (rc=%d)", id, rec.ReturnCode)
			}
		} else if !r.opts.DryRun {
			fmt.Printf("  %s ok (%.1fs)\n", id, rec.ElapsedS)
		}
	}

	if anyFailed {
		return fmt.Errorf("campaign finished with failures")
	}
	return nil
}

// SpawnRace runs one race as a fully isolated child process, its output
// captured to logPath, and returns the exit code and wall-clock elapsed
// time. It never fails outward: inability to spawn is an exit code.
func SpawnRace(ctx context.Context, command []string, logPath string) (int, time.Duration) {
	start := time.Now()
	cmd := exec.CommandContext(ctx, command[0], command[1:]...)
	if logFile, err := os.Create(logPath); err == nil {
		defer logFile.Close()
		cmd.Stdout = logFile
		cmd.Stderr = logFile
	} else {
		log.Printf("warning: creating race log %s: %v", logPath, err)
	}
	if err := cmd.Run(); err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			return exit.ExitCode(), time.Since(start)
		}
		return -1, time.Since(start)
	}
	return 0, time.Since(start)
}

func (r *Runner) raceCommand(scenario, resultsFile string) []string {
	command := []string{r.opts.Exe}
	if r.opts.ConfigPath != "" {
		command = append(command, "--config", r.opts.ConfigPath)
	}
	command = append(command, "race",
		"--agents", strings.Join(r.opts.Agents, ","),
		"--scenario", scenario,
		"--seed", strconv.Itoa(r.opts.Seed),
		"--results-file", resultsFile,
	)
	if r.opts.Variant != "" {
		command = append(command, "--variant", r.opts.Variant)
	}
	if r.opts.MaxTurns > 0 {
		command = append(command, "--max-turns", strconv.Itoa(r.opts.MaxTurns))
	}
	return command
}

func (r *Runner) echoConfig() map[string]string {
	return map[string]string{
		"agents":              strings.Join(r.opts.Agents, ","),
		"variant":             r.opts.Variant,
		"seed":                strconv.Itoa(r.opts.Seed),
		"max_turns":           strconv.Itoa(r.opts.MaxTurns),
		"results_dir":         r.opts.ResultsDir,
		"limit":               strconv.Itoa(r.opts.Limit),
		"continue_on_failure": strconv.FormatBool(r.opts.ContinueOnFailure),
		"dry_run":             strconv.FormatBool(r.opts.DryRun),
	}
}

func (r *Runner) writeSummary(ledger *Ledger) error {
	summary := Summarize(ledger.Runs)
	data, err := json.MarshalIndent(summary, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling summary: %w", err)
	}
	path := filepath.Join(r.opts.ResultsDir, "summary.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing summary: %w", err)
	}
	return nil
}
