package cmd

import (
	"strings"

	"github.com/arenalab/gauntlet/internal/config"
	"github.com/arenalab/gauntlet/internal/race"
	"github.com/spf13/cobra"
)

var (
	flagRaceAgents      string
	flagRaceScenario    string
	flagRaceSeed        int
	flagRaceVariant     string
	flagRaceDuration    int
	flagRaceMaxTurns    int
	flagRaceResultsFile string
)

func newRaceCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "race",
		Short: "Run one race: N agents against one scenario",
		RunE:  runRace,
	}
	cmd.Flags().StringVar(&flagRaceAgents, "agents", "", "comma-separated agent types (duplicates allowed)")
	cmd.Flags().StringVar(&flagRaceScenario, "scenario", "", "scenario id")
	cmd.Flags().IntVar(&flagRaceSeed, "seed", 0, "simulation seed")
	cmd.Flags().StringVar(&flagRaceVariant, "variant", "", "scenario variant")
	cmd.Flags().IntVar(&flagRaceDuration, "duration", 0, "override the scenario's default duration")
	cmd.Flags().IntVar(&flagRaceMaxTurns, "max-turns", 0, "override the configured turn budget")
	cmd.Flags().StringVar(&flagRaceResultsFile, "results-file", "", "race record store file")
	return cmd
}

func runRace(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	ctx, stop := signalContext()
	defer stop()
	return race.New(cfg).Run(ctx, &race.Opts{
		Agents:      splitList(flagRaceAgents),
		Scenario:    flagRaceScenario,
		Seed:        flagRaceSeed,
		Variant:     flagRaceVariant,
		Duration:    flagRaceDuration,
		MaxTurns:    flagRaceMaxTurns,
		ResultsFile: flagRaceResultsFile,
	})
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if p := strings.TrimSpace(part); p != "" {
			out = append(out, p)
		}
	}
	return out
}
