package eval

import (
	"github.com/hydroclim/drought-cli/internal/dataset"
	"github.com/hydroclim/drought-cli/internal/model"
)

// Result is one evaluation of a trained classifier on a test subset.
type Result struct {
	Predictions   []int
	Probabilities []float64 // class-1
	Metrics       model.MetricRecord
	Confusion     Confusion
}

// Evaluate predicts the test subset and scores the predictions.
func Evaluate(clf model.Classifier, test *dataset.Dataset) (*Result, error) {
	X := test.Matrix()
	y := test.Labels()

	preds := clf.Predict(X)
	probs := clf.PredictProba(X)

	conf, err := NewConfusion(y, preds)
	if err != nil {
		return nil, err
	}

	return &Result{
		Predictions:   preds,
		Probabilities: probs,
		Metrics:       conf.Metrics(),
		Confusion:     conf,
	}, nil
}
