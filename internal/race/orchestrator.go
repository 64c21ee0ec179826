// Package race is the orchestration engine: it launches N external agent
// processes against one scenario, collects and normalizes their scores,
// prints the leaderboard, and appends the run to the record store.
package race

import (
	"context"
	"fmt"
	"io"
	"log"
	"os"
	"path/filepath"
	"strconv"
	"time"

	"github.com/google/uuid"

	"github.com/arenalab/gauntlet/internal/agent"
	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/config"
	"github.com/arenalab/gauntlet/internal/record"
	"github.com/arenalab/gauntlet/internal/score"
)

type Opts struct {
	Agents      []string // agent types as requested; duplicates allowed
	Scenario    string
	Seed        int
	Variant     string
	Duration    int    // 0 means the scenario's registry default
	MaxTurns    int    // 0 means the configured default
	ResultsFile string // 0 means <results.dir>/races.json
	WorkDir     string // race-private scratch; derived from the run id when empty
	Out         io.Writer
}

type Orchestrator struct {
	cfg *config.Config
}

func New(cfg *config.Config) *Orchestrator {
	return &Orchestrator{cfg: cfg}
}

// Run executes one race end to end. A returned *FailedError means the race
// ran to completion but at least one agent failed; other errors mean the
// race could not run or could not be recorded.
func (o *Orchestrator) Run(ctx context.Context, opts *Opts) error {
	sc, ok := catalog.ByID(opts.Scenario)
	if !ok {
		return &ConfigError{Reason: fmt.Sprintf("unknown scenario %q", opts.Scenario)}
	}
	if len(opts.Agents) == 0 {
		return &ConfigError{Reason: "no agents requested"}
	}
	entries := make([]config.Agent, len(opts.Agents))
	for i, typ := range opts.Agents {
		entry, ok := o.cfg.AgentByType(typ)
		if !ok {
			return &ConfigError{Reason: fmt.Sprintf("agent type %q not in config", typ)}
		}
		entries[i] = entry
	}

	duration := opts.Duration
	if duration <= 0 {
		duration = sc.DefaultDuration
	}
	maxTurns := opts.MaxTurns
	if maxTurns <= 0 {
		maxTurns = o.cfg.MaxTurns
	}
	resultsFile := opts.ResultsFile
	if resultsFile == "" {
		resultsFile = filepath.Join(o.cfg.Results.Dir, "races.json")
	}
	out := opts.Out
	if out == nil {
		out = os.Stdout
	}

	runID := uuid.NewString()
	workDir := opts.WorkDir
	if workDir == "" {
		workDir = filepath.Join(o.cfg.Results.Dir, "races", runID)
	}
	if err := os.MkdirAll(filepath.Join(workDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating race dir: %w", err)
	}

	secrets := map[string]string{}
	if o.cfg.Secrets.EnvFile != "" {
		loaded, err := config.LoadSecrets(o.cfg.Secrets.EnvFile)
		if err != nil {
			log.Printf("warning: %v", err)
		} else {
			secrets = loaded
		}
	}

	// Names, ports, and state dirs are all assigned before any process is
	// spawned; no two agents in one race share a mutable resource.
	names := agent.DedupNames(opts.Agents)
	specs := make([]*agent.Spec, len(names))
	for i, name := range names {
		spec := &agent.Spec{
			Name:   name,
			Type:   entries[i].Type,
			Binary: entries[i].Binary,
			Image:  entries[i].Image,
			Model:  entries[i].Model,
			Env:    mergeEnv(secrets, entries[i].Env),
		}
		if sc.ServerBacked() {
			spec.Port = o.cfg.PortBase + i
		} else {
			spec.StateDir = filepath.Join(workDir, "state", name)
			if err := os.MkdirAll(spec.StateDir, 0o755); err != nil {
				return fmt.Errorf("creating state dir for %s: %w", name, err)
			}
		}
		specs[i] = spec
	}

	raceCtx := &raceContext{
		cfg:      o.cfg,
		scenario: sc,
		specs:    specs,
		seed:     opts.Seed,
		variant:  opts.Variant,
		duration: duration,
		maxTurns: maxTurns,
		workDir:  workDir,
	}

	var rows []record.AgentResultRow
	var err error
	if sc.ServerBacked() {
		rows, err = runServer(ctx, raceCtx)
	} else {
		rows, err = runLocal(ctx, raceCtx)
	}
	if err != nil {
		return err
	}

	fmt.Fprint(out, score.Leaderboard(rows))

	store := &record.Store{Path: resultsFile}
	run := &record.RaceRun{
		RunID:        runID,
		Scenario:     sc.ID,
		Seed:         opts.Seed,
		Variant:      opts.Variant,
		DurationUnit: sc.DurationUnit,
		Duration:     duration,
		Agents:       names,
		Results:      rows,
		CreatedAt:    time.Now().UTC(),
	}
	if err := store.Append(run); err != nil {
		return err
	}

	failed := 0
	for _, r := range rows {
		if r.Error != "" {
			failed++
		}
	}
	if failed > 0 {
		return &FailedError{Failed: failed, Total: len(rows)}
	}
	return nil
}

// raceContext bundles everything both execution modes need. Immutable once
// built.
type raceContext struct {
	cfg      *config.Config
	scenario catalog.Scenario
	specs    []*agent.Spec
	seed     int
	variant  string
	duration int
	maxTurns int
	workDir  string
}

func (rc *raceContext) logPath(name string) string {
	return filepath.Join(rc.workDir, "logs", name+".log")
}

func (rc *raceContext) collectTimeout() time.Duration {
	return time.Duration(rc.cfg.Collect.TimeoutSeconds) * time.Second
}

// assembleRows pairs arrival-ordered agent results back with launch-ordered
// specs so the leaderboard's tie order is deterministic, then merges in the
// per-agent score rows. Every launched agent gets exactly one row.
func assembleRows(rc *raceContext, results []*agent.Result, scores map[string]scoreOutcome) []record.AgentResultRow {
	byName := make(map[string]*agent.Result, len(results))
	for _, r := range results {
		byName[r.Name] = r
	}
	rows := make([]record.AgentResultRow, 0, len(rc.specs))
	for _, spec := range rc.specs {
		row := record.AgentResultRow{Agent: spec.Name, AgentType: spec.Type}
		if res := byName[spec.Name]; res != nil {
			row.DurationS = res.Duration.Seconds()
			row.Error = res.ErrText
		}
		sc := scores[spec.Name]
		row.CompositeScore = sc.row.Composite
		row.SecondaryMetric = sc.row.Secondary
		if sc.err != "" {
			row.Error = joinErrText(row.Error, sc.err)
		}
		rows = append(rows, row)
	}
	return rows
}

// scoreOutcome is one agent's collected score, or the zero-score fallback
// with the collection error that produced it.
type scoreOutcome struct {
	row score.Row
	err string
}

func mergeEnv(maps ...map[string]string) map[string]string {
	out := map[string]string{}
	for _, m := range maps {
		for k, v := range m {
			out[k] = v
		}
	}
	return out
}

func joinErrText(a, b string) string {
	if a == "" {
		return b
	}
	if b == "" {
		return a
	}
	return a + "; " + b
}

func buildPrompt(rc *raceContext, spec *agent.Spec) string {
	base := fmt.Sprintf("You are %s competing in %q for %d %s (seed %d).",
		spec.Name, rc.scenario.Name, rc.duration, rc.scenario.DurationUnit, rc.seed)
	if rc.variant != "" {
		base += " Variant: " + rc.variant + "."
	}
	if spec.StateDir != "" {
		return base + " Your private simulation state lives in the directory named by " + agent.EnvStateDir + "."
	}
	return base + " Your dedicated simulation server listens on the port named by " + agent.EnvPort + "."
}

func itoa(n int) string { return strconv.Itoa(n) }
