package main

import (
	"os"

	"github.com/spf13/cobra"
)

var (
	cfgFile string
	debug   bool
)

var rootCmd = &cobra.Command{
	Use:   "arena",
	Short: "ARENA - ranked trading competition Monte Carlo simulator",
	Long: `ARENA estimates the probability that a maximum-variance strategy reaches a
qualifying placement in a fixed-duration ranked trading competition, by
simulating many independent competitions against configurable opponent
archetypes.`,
}

func init() {
	rootCmd.PersistentFlags().StringVarP(&cfgFile, "config", "c", "", "config file path")
	rootCmd.PersistentFlags().BoolVarP(&debug, "debug", "d", false, "enable debug mode")
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
