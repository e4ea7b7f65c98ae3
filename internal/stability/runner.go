// Package stability characterizes result variability by repeating the
// split/train/evaluate pipeline across deterministic seeds.
package stability

import (
	"context"

	"github.com/rotisserie/eris"
	"go.uber.org/zap"
	"golang.org/x/sync/errgroup"

	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/eval"
	"github.com/hydroclim/drought-cli/internal/forest"
	"github.com/hydroclim/drought-cli/internal/model"
	"github.com/hydroclim/drought-cli/internal/report"
)

// Runner repeats the pipeline across seeds 0..Iterations-1.
type Runner struct {
	Iterations   int
	Trees        int
	TestFraction float64
	// Concurrency bounds parallel iterations. Iterations are
	// independent and each uses seed = iteration index, so results are
	// identical for any concurrency level.
	Concurrency int
}

// Result holds the per-iteration records in seed order plus their means.
type Result struct {
	Records []model.MetricRecord
	Means   model.MetricRecord
}

// Run executes the repeated pipeline on the dataset.
func (r *Runner) Run(ctx context.Context, ds *dataset.Dataset) (*Result, error) {
	if r.Iterations < 1 {
		return nil, eris.Errorf("stability: iterations must be positive, got %d", r.Iterations)
	}

	concurrency := r.Concurrency
	if concurrency < 1 {
		concurrency = 1
	}

	records := make([]model.MetricRecord, r.Iterations)

	g, ctx := errgroup.WithContext(ctx)
	g.SetLimit(concurrency)

	for i := 0; i < r.Iterations; i++ {
		i := i
		g.Go(func() error {
			if err := ctx.Err(); err != nil {
				return err
			}

			seed := int64(i)
			train, test, err := dataset.Split(ds, r.TestFraction, seed)
			if err != nil {
				return eris.Wrapf(err, "stability: iteration %d split", i)
			}

			clf := forest.New(forest.WithTrees(r.Trees), forest.WithSeed(seed))
			if err := clf.Fit(train.Matrix(), train.Labels()); err != nil {
				return eris.Wrapf(err, "stability: iteration %d fit", i)
			}

			res, err := eval.Evaluate(clf, test)
			if err != nil {
				return eris.Wrapf(err, "stability: iteration %d evaluate", i)
			}

			records[i] = res.Metrics
			zap.L().Debug("stability: iteration complete",
				zap.Int("iteration", i),
				zap.Float64("accuracy", res.Metrics.Accuracy),
			)
			return nil
		})
	}

	if err := g.Wait(); err != nil {
		return nil, err
	}

	return &Result{
		Records: records,
		Means:   report.Means(records),
	}, nil
}
