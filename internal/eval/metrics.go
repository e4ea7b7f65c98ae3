// Package eval computes classification metrics over held-out data.
package eval

import (
	"github.com/rotisserie/eris"

	"github.com/hydroclim/drought-cli/internal/model"
)

// Confusion holds binary confusion counts (class 1 is positive).
type Confusion struct {
	TP, FP, TN, FN int
}

// NewConfusion tallies the confusion counts of a prediction run.
func NewConfusion(yTrue, yPred []int) (Confusion, error) {
	if len(yTrue) != len(yPred) {
		return Confusion{}, eris.Errorf("eval: %d labels but %d predictions", len(yTrue), len(yPred))
	}
	var c Confusion
	for i := range yTrue {
		switch {
		case yTrue[i] == 1 && yPred[i] == 1:
			c.TP++
		case yTrue[i] == 0 && yPred[i] == 1:
			c.FP++
		case yTrue[i] == 0 && yPred[i] == 0:
			c.TN++
		default:
			c.FN++
		}
	}
	return c, nil
}

// Metrics derives the standard metric record from confusion counts.
// Undefined ratios (zero denominators) report as 0.
func (c Confusion) Metrics() model.MetricRecord {
	var m model.MetricRecord

	total := c.TP + c.FP + c.TN + c.FN
	if total > 0 {
		m.Accuracy = float64(c.TP+c.TN) / float64(total)
	}
	if c.TP+c.FP > 0 {
		m.Precision = float64(c.TP) / float64(c.TP+c.FP)
	}
	if c.TP+c.FN > 0 {
		m.Recall = float64(c.TP) / float64(c.TP+c.FN)
	}
	if m.Precision+m.Recall > 0 {
		m.F1 = 2 * m.Precision * m.Recall / (m.Precision + m.Recall)
	}

	// Balanced accuracy: mean of per-class recall.
	var tnr float64
	if c.TN+c.FP > 0 {
		tnr = float64(c.TN) / float64(c.TN+c.FP)
	}
	m.BalancedAccuracy = (m.Recall + tnr) / 2

	return m
}
