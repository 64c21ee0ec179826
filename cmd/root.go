package cmd

import (
	"context"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

var cfgFile string

// signalContext is the root context for every command that spawns child
// processes. Cancelling it on interrupt/terminate propagates through the
// CommandContext call sites, so agents, race subprocesses, and scenario
// servers are cleaned up when the driver itself is signaled.
func signalContext() (context.Context, context.CancelFunc) {
	return signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
}

func NewRootCmd() *cobra.Command {
	root := &cobra.Command{
		Use:   "gauntlet",
		Short: "Benchmark harness racing AI agents across scripted scenarios",
	}
	root.PersistentFlags().StringVar(&cfgFile, "config", "gauntlet.yaml", "config file path")
	root.AddCommand(newRaceCmd())
	root.AddCommand(newCampaignCmd())
	root.AddCommand(newSweepCmd())
	root.AddCommand(newListCmd())
	root.AddCommand(newReportCmd())
	return root
}
