package main

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hydroclim/drought-cli/internal/config"
)

var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "drought-cli",
	Short: "Random-forest drought prediction from tabular climate data",
	Long:  "Trains and evaluates a random-forest classifier for binary drought prediction: load a climate CSV, split, fit, score, rank feature importances, and characterize result stability across seeds.",
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		c, err := config.Load()
		if err != nil {
			return fmt.Errorf("load config: %w", err)
		}
		cfg = c

		if err := config.InitLogger(cfg.Log); err != nil {
			return fmt.Errorf("init logger: %w", err)
		}

		return nil
	},
	PersistentPostRun: func(cmd *cobra.Command, args []string) {
		_ = zap.L().Sync()
	},
}

func main() {
	if err := rootCmd.Execute(); err != nil {
		os.Exit(1)
	}
}
