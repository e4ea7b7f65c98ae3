package main

import (
	"fmt"

	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"

	"github.com/hydroclim/drought-cli/internal/dataset"
)

var (
	predictCSV      string
	predictTrees    int
	predictSeed     int64
	predictFraction float64
)

var predictCmd = &cobra.Command{
	Use:   "predict",
	Short: "Predict drought for one manually entered observation",
	Long: `Trains a forest on the CSV, then classifies a single
observation supplied through one flag per predictor.

Example:
  drought-cli predict --csv climate.csv \
    --P 12.1 --PET 140 --ET 88.3 --SM 0.21 --SM_prev 0.24 \
    --DS 51.7 --NDVI 0.42 --enso -0.5`,
	RunE: func(cmd *cobra.Command, _ []string) error {
		csvPath := predictCSV
		if csvPath == "" {
			csvPath = cfg.Data.CSVPath
		}
		if csvPath == "" {
			return eris.New("predict: --csv is required (or set data.csv_path)")
		}

		features := make([]float64, len(dataset.FeatureNames))
		for i, name := range dataset.FeatureNames {
			v, err := cmd.Flags().GetFloat64(name)
			if err != nil {
				return eris.Wrapf(err, "predict: read --%s", name)
			}
			if !cmd.Flags().Changed(name) {
				return eris.Errorf("predict: --%s is required", name)
			}
			features[i] = v
		}

		run, err := runPipeline(csvPath, predictFraction, predictTrees, predictSeed)
		if err != nil {
			return eris.Wrap(err, "predict")
		}

		X := [][]float64{features}
		label := run.Forest.Predict(X)[0]
		proba := run.Forest.PredictProba(X)[0]

		verdict := "no drought"
		if label == 1 {
			verdict = "drought"
		}
		fmt.Printf("prediction:  %s (class %d)\n", verdict, label)
		fmt.Printf("probability: %.4f\n", proba)
		fmt.Printf("model:       %d trees, seed %d, test accuracy %.4f\n",
			predictTrees, predictSeed, run.Result.Metrics.Accuracy)
		return nil
	},
}

func init() {
	predictCmd.Flags().StringVar(&predictCSV, "csv", "", "path to climate CSV file")
	predictCmd.Flags().IntVar(&predictTrees, "trees", 100, "number of trees in the ensemble")
	predictCmd.Flags().Int64Var(&predictSeed, "seed", 42, "split and bootstrap seed")
	predictCmd.Flags().Float64Var(&predictFraction, "test-fraction", 0.3, "held-out test fraction in (0,1)")
	for _, name := range dataset.FeatureNames {
		predictCmd.Flags().Float64(name, 0, fmt.Sprintf("predictor value for %s (required)", name))
	}
	rootCmd.AddCommand(predictCmd)
}
