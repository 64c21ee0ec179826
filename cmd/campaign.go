package cmd

import (
	"github.com/arenalab/gauntlet/internal/campaign"
	"github.com/arenalab/gauntlet/internal/config"
	"github.com/spf13/cobra"
)

var (
	flagCampAgents     string
	flagCampVariant    string
	flagCampSeed       int
	flagCampMaxTurns   int
	flagCampResultsDir string
	flagCampLimit      int
	flagCampContinue   bool
	flagCampDryRun     bool
	flagCampPost       bool
)

func newCampaignCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "campaign",
		Short: "Race every scenario in the registry, resumably",
		RunE:  runCampaign,
	}
	cmd.Flags().StringVar(&flagCampAgents, "agents", "", "comma-separated agent types")
	cmd.Flags().StringVar(&flagCampVariant, "variant", "", "scenario variant")
	cmd.Flags().IntVar(&flagCampSeed, "seed", 0, "simulation seed")
	cmd.Flags().IntVar(&flagCampMaxTurns, "max-turns", 0, "override the configured turn budget")
	cmd.Flags().StringVar(&flagCampResultsDir, "results-dir", "", "campaign artifact directory")
	cmd.Flags().IntVar(&flagCampLimit, "limit", 0, "stop after this many attempted scenarios")
	cmd.Flags().BoolVar(&flagCampContinue, "continue-on-failure", false, "keep going past a failed scenario")
	cmd.Flags().BoolVar(&flagCampDryRun, "dry-run", false, "record what would run without spawning anything")
	cmd.Flags().BoolVar(&flagCampPost, "post", false, "write coverage/aggregate/log-scan reports at the end")
	return cmd
}

func runCampaign(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(cfgFile)
	if err != nil {
		return err
	}
	runner := campaign.NewRunner(cfg, campaign.Options{
		Agents:            splitList(flagCampAgents),
		Variant:           flagCampVariant,
		Seed:              flagCampSeed,
		MaxTurns:          flagCampMaxTurns,
		ResultsDir:        flagCampResultsDir,
		Limit:             flagCampLimit,
		ContinueOnFailure: flagCampContinue,
		DryRun:            flagCampDryRun,
		Post:              flagCampPost,
		ConfigPath:        cfgFile,
	})
	ctx, stop := signalContext()
	defer stop()
	return runner.Run(ctx)
}
