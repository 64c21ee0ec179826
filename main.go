package main

import (
	"os"

	"github.com/arenalab/gauntlet/cmd"
)

func main() {
	if err := cmd.NewRootCmd().Execute(); err != nil {
		os.Exit(1)
	}
}
