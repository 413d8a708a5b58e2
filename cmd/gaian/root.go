package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
)

var (
	// Global flags
	cfgFile string
	verbose bool
)

var rootCmd = &cobra.Command{
	Use:   "gaian",
	Short: "Gaian - governance decision pipeline for game telemetry",
	Long: `Gaian evaluates player-submitted telemetry actions and gates
training-data exports for an ecological survival game.

Every action passes through a fixed pipeline:
  - Anti-cheat: a non-short-circuiting battery of plausibility checks
  - Ethics: red-line content detectors composed per biome
  - Novelty: diminishing-returns token scoring for accepted actions

Exports run through an ordered gate of batch-size, buyer-authorization,
biome-access, and clearance checks, with every decision written to an
append-only audit trail.`,
	Version: Version,
}

// Execute runs the root command.
func Execute() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "gaian.yaml", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "verbose output")
}
