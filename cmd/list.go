package cmd

import (
	"fmt"

	"github.com/arenalab/gauntlet/internal/catalog"
	"github.com/arenalab/gauntlet/internal/config"
	"github.com/spf13/cobra"
)

func newListCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "list",
		Short: "List scenarios and configured agents",
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := config.Load(cfgFile)
			if err != nil {
				return err
			}
			fmt.Println("Agents:")
			for _, a := range cfg.Agents {
				if a.Image != "" {
					fmt.Printf("  - %s (image: %s)\n", a.Type, a.Image)
				} else {
					fmt.Printf("  - %s (binary: %s)\n", a.Type, a.Binary)
				}
			}
			fmt.Println("\nScenarios:")
			for _, s := range catalog.All() {
				fmt.Printf("  - %s [%s] %s, default %d %s\n",
					s.ID, s.Family, s.Name, s.DefaultDuration, s.DurationUnit)
			}
			return nil
		},
	}
}
