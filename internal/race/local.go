package race

import (
	"context"
	"fmt"
	"os"
	"os/exec"

	"github.com/arenalab/gauntlet/internal/agent"
	"github.com/arenalab/gauntlet/internal/record"
	"github.com/arenalab/gauntlet/internal/score"
)

// runLocal is the execution mode for scenarios with no persistent server:
// every agent works against a private state directory, and scores are
// collected afterwards by invoking the engine's score subcommand once per
// agent, scoped to that directory.
func runLocal(ctx context.Context, rc *raceContext) ([]record.AgentResultRow, error) {
	opts := make([]*agent.RunOpts, len(rc.specs))
	for i, spec := range rc.specs {
		env := spec.Env
		env[agent.EnvStateDir] = spec.StateDir
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
		scores[spec.Name] = collectLocalScore(ctx, rc, spec)
	}
	return assembleRows(rc, results, scores), nil
}

// collectLocalScore asks the scenario engine for the agent's full score.
// Any failure (timeout, nonzero exit, unparsable output) yields the
// zero-score fallback with an explicit error string; it never aborts the
// race.
func collectLocalScore(ctx context.Context, rc *raceContext, spec *agent.Spec) scoreOutcome {
	cctx, cancel := context.WithTimeout(ctx, rc.collectTimeout())
	defer cancel()

	cmd := exec.CommandContext(cctx, rc.scenario.Engine, rc.scenario.ScoreArg)
	cmd.Env = append(os.Environ(), agent.EnvStateDir+"="+spec.StateDir)
	out, err := cmd.Output()
	if err != nil {
		return scoreOutcome{err: fmt.Sprintf("score collection failed: %v", err)}
	}
	return scoreOutcome{row: score.Normalize(score.Decode(out, rc.scenario.Family))}
}
