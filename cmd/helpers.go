package main

import (
	"context"
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"

	"github.com/rotisserie/eris"

	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/eval"
	"github.com/hydroclim/drought-cli/internal/forest"
	"github.com/hydroclim/drought-cli/internal/model"
	"github.com/hydroclim/drought-cli/internal/report"
	"github.com/hydroclim/drought-cli/internal/store"
)

// initStore opens the configured run-history backend.
func initStore(ctx context.Context) (store.Store, error) {
	st, err := store.Open(ctx, cfg.Store.Driver, cfg.Store.DatabaseURL)
	if err != nil {
		return nil, eris.Wrap(err, "init store")
	}
	if err := st.Migrate(ctx); err != nil {
		_ = st.Close()
		return nil, eris.Wrap(err, "migrate store")
	}
	return st, nil
}

// pipelineRun is one load/split/fit/evaluate execution.
type pipelineRun struct {
	Dataset *dataset.Dataset
	Train   *dataset.Dataset
	Test    *dataset.Dataset
	Forest  *forest.RandomForest
	Result  *eval.Result
	Params  model.RunParams
}

// runPipeline executes the full single-split pipeline.
func runPipeline(csvPath string, testFraction float64, trees int, seed int64) (*pipelineRun, error) {
	ds, err := dataset.Load(csvPath, cfg.Data.TargetColumn)
	if err != nil {
		return nil, err
	}

	train, test, err := dataset.Split(ds, testFraction, seed)
	if err != nil {
		return nil, err
	}

	clf := forest.New(
		forest.WithTrees(trees),
		forest.WithSeed(seed),
		forest.WithThreshold(cfg.Model.Threshold),
	)
	if err := clf.Fit(train.Matrix(), train.Labels()); err != nil {
		return nil, err
	}

	result, err := eval.Evaluate(clf, test)
	if err != nil {
		return nil, err
	}

	return &pipelineRun{
		Dataset: ds,
		Train:   train,
		Test:    test,
		Forest:  clf,
		Result:  result,
		Params: model.RunParams{
			CSVPath:      csvPath,
			TestFraction: testFraction,
			Trees:        trees,
			Seed:         seed,
		},
	}, nil
}

// outputWriter opens the output file, or stdout when path is empty.
// The returned closer is a no-op for stdout.
func outputWriter(path string) (io.Writer, func() error, error) {
	if path == "" {
		return os.Stdout, func() error { return nil }, nil
	}
	f, err := os.Create(path)
	if err != nil {
		return nil, nil, eris.Wrapf(err, "create output file %s", path)
	}
	return f, f.Close, nil
}

// writeMetricsTable prints one metric record in aligned rows.
func writeMetricsTable(w io.Writer, m model.MetricRecord) {
	fmt.Fprintf(w, "%-18s %.4f\n", "accuracy", m.Accuracy)
	fmt.Fprintf(w, "%-18s %.4f\n", "precision", m.Precision)
	fmt.Fprintf(w, "%-18s %.4f\n", "recall", m.Recall)
	fmt.Fprintf(w, "%-18s %.4f\n", "f1", m.F1)
	fmt.Fprintf(w, "%-18s %.4f\n", "balanced_accuracy", m.BalancedAccuracy)
}

// writeMetricsCSV writes per-iteration records plus a mean row.
func writeMetricsCSV(w io.Writer, records []model.MetricRecord) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write(append([]string{"iteration"}, report.MetricOrder...)); err != nil {
		return eris.Wrap(err, "write CSV header")
	}

	row := func(label string, m model.MetricRecord) []string {
		return []string{
			label,
			formatFloat(m.Accuracy),
			formatFloat(m.Precision),
			formatFloat(m.Recall),
			formatFloat(m.F1),
			formatFloat(m.BalancedAccuracy),
		}
	}

	for i, rec := range records {
		if err := cw.Write(row(strconv.Itoa(i), rec)); err != nil {
			return eris.Wrap(err, "write CSV row")
		}
	}
	if err := cw.Write(row("mean", report.Means(records))); err != nil {
		return eris.Wrap(err, "write CSV mean row")
	}
	return nil
}

// writeImportanceCSV writes the ranked importance list.
func writeImportanceCSV(w io.Writer, r *report.Ranking) error {
	cw := csv.NewWriter(w)
	defer cw.Flush()

	if err := cw.Write([]string{"feature", "importance"}); err != nil {
		return eris.Wrap(err, "write CSV header")
	}
	for _, it := range r.Items {
		if err := cw.Write([]string{it.Feature, formatFloat(it.Importance)}); err != nil {
			return eris.Wrap(err, "write CSV row")
		}
	}
	return nil
}

func formatFloat(v float64) string {
	return strconv.FormatFloat(v, 'f', 6, 64)
}

// classBalanceNote describes the label distribution. The 0.1 deviation
// threshold is presentational only.
func classBalanceNote(balance float64) string {
	note := fmt.Sprintf("class 1 proportion: %.3f", balance)
	if balance < 0.4 || balance > 0.6 {
		note += " (imbalanced)"
	}
	return note
}
