package cmd

import (
	"fmt"
	"strconv"

	"github.com/arenalab/gauntlet/internal/config"
	"github.com/arenalab/gauntlet/internal/sweep"
	"github.com/spf13/cobra"
)

var (
	flagSweepAgents     string
	flagSweepScenario   string
	flagSweepSeeds      string
	flagSweepVariant    string
	flagSweepDuration   int
	flagSweepResultsDir string
	flagSweepBaseline   string
	flagSweepContinue   bool
)

func newSweepCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "sweep",
		Short: "Race one scenario across a seed list, then summarize",
		RunE:  runSweep,
	}
	cmd.Flags().StringVar(&flagSweepAgents, "agents", "", "comma-separated agent types")
	cmd.Flags().StringVar(&flagSweepScenario, "scenario", "", "scenario id")
	cmd.Flags().StringVar(&flagSweepSeeds, "seeds", "", "comma-separated seed list")
	cmd.Flags().StringVar(&flagSweepVariant, "variant", "", "scenario variant")
	cmd.Flags().IntVar(&flagSweepDuration, "duration", 0, "override the scenario's default duration")
	cmd.Flags().StringVar(&flagSweepResultsDir, "results-dir", "", "sweep artifact directory")
	cmd.Flags().StringVar(&flagSweepBaseline, "baseline", "", "baseline file for the regression gate")
	cmd.Flags().BoolVar(&flagSweepContinue, "continue-on-failure", false, "keep sweeping past a failed seed")
	return cmd
}

func runSweep(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	seeds, err := parseSeeds(flagSweepSeeds)
	if err != nil {
		return err
	}
	runner := sweep.NewRunner(cfg, sweep.Options{
		Agents:            splitList(flagSweepAgents),
		Scenario:          flagSweepScenario,
		Seeds:             seeds,
		Variant:           flagSweepVariant,
		Duration:          flagSweepDuration,
		ResultsDir:        flagSweepResultsDir,
		BaselineFile:      flagSweepBaseline,
		ContinueOnFailure: flagSweepContinue,
		ConfigPath:        cfgFile,
	})
	ctx, stop := signalContext()
	defer stop()
	return runner.Run(ctx)
}

func parseSeeds(s string) ([]int, error) {
	var seeds []int
	for _, part := range splitList(s) {
		n, err := strconv.Atoi(part)
		if err != nil {
			return nil, fmt.Errorf("bad seed %q: %w", part, err)
		}
		seeds = append(seeds, n)
	}
	return seeds, nil
}
