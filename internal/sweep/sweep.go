// Package sweep repeats one scenario's race across a seed list for
// variance and regression analysis, then hands the successful result files
// to an external summarizer and optional regression gate.
package sweep

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/arenalab/gauntlet/internal/campaign"
	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/config"
)

// ManifestSchemaVersion guards manifest compatibility.
const ManifestSchemaVersion = 1

// Manifest records the whole sweep. Written once, at sweep end.
type Manifest struct {
	SchemaVersion int                  `json:"schema_version"`
	Scenario      string               `json:"scenario"`
	Seeds         []int                `json:"seeds"`
	Runs          []campaign.RunRecord `json:"runs"`
	SummarizerRC  *int                 `json:"summarizer_rc"`
	GateRC        *int                 `json:"gate_rc"`
	CreatedAt     time.Time            `json:"created_at"`
}

type Options struct {
	Agents            []string
	Scenario          string
	Seeds             []int
	Variant           string
	Duration          int // 0 means the scenario's registry default
	ResultsDir        string
	BaselineFile      string
	ContinueOnFailure bool

	ConfigPath string
	Exe        string
}

type Runner struct {
	cfg  *config.Config
	opts Options
}

func NewRunner(cfg *config.Config, opts Options) *Runner {
	if opts.ResultsDir == "" {
		opts.ResultsDir = filepath.Join(cfg.Results.Dir, "sweeps", opts.Scenario)
	}
	if opts.Exe == "" {
		opts.Exe = os.Args[0]
	}
	return &Runner{cfg: cfg, opts: opts}
}

// Run races once per seed, one results file per seed, at the scenario's
// registry default duration unless overridden. The regression gate's
// return code becomes the sweep's own outcome.
func (r *Runner) Run(ctx context.Context) error {
	sc, ok := catalog.ByID(r.opts.Scenario)
	if !ok {
		return fmt.Errorf("unknown scenario %q", r.opts.Scenario)
	}
	if len(r.opts.Seeds) == 0 {
		return fmt.Errorf("no seeds given")
	}
	duration := r.opts.Duration
	if duration <= 0 {
		duration = sc.DefaultDuration
	}
	if err := os.MkdirAll(filepath.Join(r.opts.ResultsDir, "logs"), 0o755); err != nil {
		return fmt.Errorf("creating sweep dir: %w", err)
	}

	manifest := &Manifest{
		SchemaVersion: ManifestSchemaVersion,
		Scenario:      sc.ID,
		Seeds:         r.opts.Seeds,
		CreatedAt:     time.Now().UTC(),
	}

	var successFiles []string
	anyFailed := false
	for _, seed := range r.opts.Seeds {
		resultsFile := filepath.Join(r.opts.ResultsDir, fmt.Sprintf("seed-%d.json", seed))
		command := r.raceCommand(seed, duration, resultsFile)

		fmt.Printf("race %s seed %d...\n", sc.ID, seed)
		rc, elapsed := campaign.SpawnRace(ctx, command,
			filepath.Join(r.opts.ResultsDir, "logs", fmt.Sprintf("seed-%d.log", seed)))

		manifest.Runs = append(manifest.Runs, campaign.RunRecord{
			Scenario:    sc.ID,
			ReturnCode:  rc,
			ElapsedS:    elapsed.Seconds(),
			ResultsFile: resultsFile,
			Timestamp:   time.Now().UTC(),
			Command:     command,
		})
		if rc == 0 {
			successFiles = append(successFiles, resultsFile)
		} else {
			anyFailed = true
			fmt.Printf("  seed %d failed (rc=%d)\n", seed, rc)
			if !r.opts.ContinueOnFailure {
				break
			}
		}
	}

	var gateErr error
	if len(successFiles) > 0 {
		summaryPath := filepath.Join(r.opts.ResultsDir, "sweep-summary.json")
		if r.cfg.Summarizer.Command != "" {
			rc := runTool(ctx, r.cfg.Summarizer.Command,
				append([]string{"--out", summaryPath}, successFiles...))
			manifest.SummarizerRC = &rc
		}
		if r.opts.BaselineFile != "" && r.cfg.Summarizer.GateCommand != "" {
			rc := runTool(ctx, r.cfg.Summarizer.GateCommand,
				[]string{summaryPath, r.opts.BaselineFile})
			manifest.GateRC = &rc
			if rc != 0 {
				gateErr = fmt.Errorf("regression gate rejected the sweep (rc=%d)", rc)
			}
		}
	}

	if err := r.writeManifest(manifest); err != nil {
		return err
	}
	if gateErr != nil {
		return gateErr
	}
	if anyFailed {
		return fmt.Errorf("sweep finished with failed seeds")
	}
	return nil
}

func (r *Runner) raceCommand(seed, duration int, resultsFile string) []string {
	command := []string{r.opts.Exe}
	if r.opts.ConfigPath != "" {
		command = append(command, "--config", r.opts.ConfigPath)
	}
	command = append(command, "race",
		"--agents", strings.Join(r.opts.Agents, ","),
		"--scenario", r.opts.Scenario,
		"--seed", strconv.Itoa(seed),
		"--duration", strconv.Itoa(duration),
		"--results-file", resultsFile,
	)
	if r.opts.Variant != "" {
		command = append(command, "--variant", r.opts.Variant)
	}
	return command
}

func (r *Runner) writeManifest(m *Manifest) error {
	data, err := json.MarshalIndent(m, "", "  ")
	if err != nil {
		return fmt.Errorf("marshaling manifest: %w", err)
	}
	path := filepath.Join(r.opts.ResultsDir, "manifest.json")
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return fmt.Errorf("writing manifest: %w", err)
	}
	return nil
}

func runTool(ctx context.Context, command string, args []string) int {
	cmd := exec.CommandContext(ctx, command, args...)
	cmd.Stdout = os.Stdout
	cmd.Stderr = os.Stderr
	if err := cmd.Run(); err != nil {
		if exit, ok := err.(*exec.ExitError); ok {
			return exit.ExitCode()
		}
		return -1
	}
	return 0
}
