// SPDX-License-Identifier: MIT
// Command chronolath runs Bayesian chronological models described in a
// study file and keeps the results in a SQLite archive.
package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
)

var (
	verbose bool
	dbPath  string

	logger *zap.Logger
)

var rootCmd = &cobra.Command{
	Use:   "chronolath",
	Short: "Adaptive MCMC for archaeological chronologies",
	Long: `chronolath fits Bayesian chronological models (events, dates, phases
and phase constraints) with an adaptive Metropolis-Hastings sampler and
reports posterior densities, HPD regions and credibility intervals.`,
	SilenceUsage: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		config := zap.NewProductionConfig()
		if verbose {
			config.Level = zap.NewAtomicLevelAt(zapcore.DebugLevel)
		}
		var err error
		logger, err = config.Build()
		if err != nil {
			return fmt.Errorf("failed to initialize logger: %w", err)
		}
		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		if logger != nil {
			_ = logger.Sync()
		}
	},
}

func init() {
	rootCmd.PersistentFlags().BoolVarP(&verbose, "verbose", "v", false, "Enable debug logging")
	rootCmd.PersistentFlags().StringVar(&dbPath, "db", "chronolath.db", "SQLite run archive")

	rootCmd.AddCommand(runCmd)
	rootCmd.AddCommand(summaryCmd)
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}
