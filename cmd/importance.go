package main

import (
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/report"
)

var (
	importanceCSV      string
	importanceFraction float64
	importanceTrees    int
	importanceSeed     int64
	importanceFormat   string
	importanceOutput   string
)

var importanceCmd = &cobra.Command{
	Use:   "importance",
	Short: "Rank predictor importances of a trained forest",
	Long: `Trains a random forest and reports per-predictor importance
scores ranked descending, ties keeping original column order.

Examples:
  drought-cli importance --csv climate.csv
  drought-cli importance --csv climate.csv --format xlsx --output importances.xlsx`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		csvPath := importanceCSV
		if csvPath == "" {
			csvPath = cfg.Data.CSVPath
		}
		if csvPath == "" {
			return eris.New("importance: --csv is required (or set data.csv_path)")
		}

		run, err := runPipeline(csvPath, importanceFraction, importanceTrees, importanceSeed)
		if err != nil {
			return eris.Wrap(err, "importance")
		}

		ranking, err := report.Rank(dataset.FeatureNames, run.Forest.FeatureImportances())
		if err != nil {
			return eris.Wrap(err, "importance: rank")
		}
		if ranking.HasNegative {
			zap.L().Warn("importance: negative importance score present")
		}

		switch importanceFormat {
		case "table":
			w, closeFn, err := outputWriter(importanceOutput)
			if err != nil {
				return err
			}
			defer closeFn() //nolint:errcheck
			return report.WriteBarChart(w, ranking)
		case "csv":
			w, closeFn, err := outputWriter(importanceOutput)
			if err != nil {
				return err
			}
			defer closeFn() //nolint:errcheck
			return writeImportanceCSV(w, ranking)
		case "xlsx":
			if importanceOutput == "" {
				return eris.New("--output is required for xlsx format")
			}
			return report.WriteImportancesXLSX(importanceOutput, ranking)
		default:
			return eris.Errorf("unsupported format %q", importanceFormat)
		}
	},
}

func init() {
	importanceCmd.Flags().StringVar(&importanceCSV, "csv", "", "path to climate CSV file")
	importanceCmd.Flags().Float64Var(&importanceFraction, "test-fraction", 0.3, "held-out test fraction in (0,1)")
	importanceCmd.Flags().IntVar(&importanceTrees, "trees", 100, "number of trees in the ensemble")
	importanceCmd.Flags().Int64Var(&importanceSeed, "seed", 42, "split and bootstrap seed")
	importanceCmd.Flags().StringVar(&importanceFormat, "format", "table", "output format: table, csv, or xlsx")
	importanceCmd.Flags().StringVar(&importanceOutput, "output", "", "write output to file (default: stdout)")
	rootCmd.AddCommand(importanceCmd)
}
