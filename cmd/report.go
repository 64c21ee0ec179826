package cmd

import (
	"os"
	"path/filepath"

	"github.com/arenalab/gauntlet/internal/config"
	"github.com/arenalab/gauntlet/internal/record"
	"github.com/arenalab/gauntlet/internal/report"
	"github.com/spf13/cobra"
)

var flagReportFormat string

func newReportCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "report [record-file]",
		Short: "Aggregate stored race records per agent",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			path := filepath.Join(cfg.Results.Dir, "races.json")
			if len(args) > 0 {
				path = args[0]
			}
			return report.Generate(&record.Store{Path: path}, flagReportFormat, os.Stdout)
		},
	}
	cmd.Flags().StringVar(&flagReportFormat, "format", "table", "output format (table, markdown, json)")
	return cmd
}
