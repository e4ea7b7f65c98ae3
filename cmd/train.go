package main

import (
	"context"
	"fmt"
	"os"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/model"
	"github.com/hydroclim/drought-cli/internal/report"
)

var (
	trainCSV      string
	trainFraction float64
	trainTrees    int
	trainSeed     int64
	trainFormat   string
	trainOutput   string
	trainSave     bool
)

var trainCmd = &cobra.Command{
	Use:   "train",
	Short: "Train and evaluate a drought classifier on one split",
	Long: `Loads a climate CSV, holds out a seeded test fraction, fits a
random forest on the remainder, and reports classification metrics and
ranked feature importances.

Examples:
  # Default 70/30 split, 100 trees
  drought-cli train --csv climate.csv

  # Reproducible alternate split, metrics to CSV
  drought-cli train --csv climate.csv --seed 7 --format csv --output metrics.csv

  # Persist the run for later inspection
  drought-cli train --csv climate.csv --save`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		ctx := cmd.Context()

		csvPath := trainCSV
		if csvPath == "" {
			csvPath = cfg.Data.CSVPath
		}
		if csvPath == "" {
			return eris.New("train: --csv is required (or set data.csv_path)")
		}

		run, err := runPipeline(csvPath, trainFraction, trainTrees, trainSeed)
		if err != nil {
			return eris.Wrap(err, "train")
		}

		zap.L().Info("train: pipeline complete",
			zap.Int("rows", run.Dataset.Len()),
			zap.Int("train_rows", run.Train.Len()),
			zap.Int("test_rows", run.Test.Len()),
			zap.Float64("accuracy", run.Result.Metrics.Accuracy),
		)

		fmt.Println(classBalanceNote(run.Dataset.ClassBalance()))
		fmt.Println()

		if err := outputMetrics([]model.MetricRecord{run.Result.Metrics}, trainFormat, trainOutput); err != nil {
			return err
		}

		c := run.Result.Confusion
		fmt.Printf("\nconfusion: tp=%d fp=%d tn=%d fn=%d\n\n", c.TP, c.FP, c.TN, c.FN)

		ranking, err := report.Rank(dataset.FeatureNames, run.Forest.FeatureImportances())
		if err != nil {
			return eris.Wrap(err, "train: rank importances")
		}
		if err := report.WriteBarChart(os.Stdout, ranking); err != nil {
			return eris.Wrap(err, "train: write importances")
		}

		if trainSave {
			return saveRun(ctx, "train", run.Params, []model.MetricRecord{run.Result.Metrics})
		}
		return nil
	},
}

func init() {
	trainCmd.Flags().StringVar(&trainCSV, "csv", "", "path to climate CSV file")
	trainCmd.Flags().Float64Var(&trainFraction, "test-fraction", 0.3, "held-out test fraction in (0,1)")
	trainCmd.Flags().IntVar(&trainTrees, "trees", 100, "number of trees in the ensemble")
	trainCmd.Flags().Int64Var(&trainSeed, "seed", 42, "split and bootstrap seed")
	trainCmd.Flags().StringVar(&trainFormat, "format", "table", "metrics format: table, csv, or xlsx")
	trainCmd.Flags().StringVar(&trainOutput, "output", "", "write metrics to file (default: stdout)")
	trainCmd.Flags().BoolVar(&trainSave, "save", false, "persist the run to the run store")
	rootCmd.AddCommand(trainCmd)
}

// outputMetrics dispatches metric records to the requested format.
func outputMetrics(records []model.MetricRecord, format, outputPath string) error {
	switch format {
	case "table":
		w, closeFn, err := outputWriter(outputPath)
		if err != nil {
			return err
		}
		defer closeFn() //nolint:errcheck
		if len(records) == 1 {
			writeMetricsTable(w, records[0])
			return nil
		}
		return writeMetricsCSV(w, records)
	case "csv":
		w, closeFn, err := outputWriter(outputPath)
		if err != nil {
			return err
		}
		defer closeFn() //nolint:errcheck
		return writeMetricsCSV(w, records)
	case "xlsx":
		if outputPath == "" {
			return eris.New("--output is required for xlsx format")
		}
		return report.WriteMetricsXLSX(outputPath, records)
	default:
		return eris.Errorf("unsupported format %q", format)
	}
}

// saveRun persists a completed run to the configured store.
func saveRun(ctx context.Context, command string, params model.RunParams, metrics []model.MetricRecord) error {
	st, err := initStore(ctx)
	if err != nil {
		return err
	}
	defer st.Close() //nolint:errcheck

	run, err := st.CreateRun(ctx, command, params)
	if err != nil {
		return eris.Wrap(err, "save run")
	}
	if err := st.CompleteRun(ctx, run.ID, metrics); err != nil {
		return eris.Wrap(err, "save run")
	}

	fmt.Printf("\nrun saved: %s\n", run.ID)
	return nil
}
