// Package model holds the domain types shared across the pipeline:
// the opaque classifier boundary, metric records, and run bookkeeping.
package model

import "time"

// Classifier is the opaque trained-model boundary. The trainer and
// evaluator depend only on this interface, never on a concrete
// ensemble implementation.
type Classifier interface {
	// Fit trains the model on feature rows X and binary labels y.
	Fit(X [][]float64, y []int) error
	// Predict returns a predicted label per row of X.
	Predict(X [][]float64) []int
	// PredictProba returns the class-1 probability per row of X.
	PredictProba(X [][]float64) []float64
	// FeatureImportances returns one non-negative score per predictor
	// column, normalized to sum to 1 when any split was made.
	FeatureImportances() []float64
}

// MetricRecord holds the standard classification metrics computed from
// one (predictions, true labels) pair. All values lie in [0,1].
type MetricRecord struct {
	Accuracy         float64 `json:"accuracy"`
	Precision        float64 `json:"precision"`
	Recall           float64 `json:"recall"`
	F1               float64 `json:"f1"`
	BalancedAccuracy float64 `json:"balanced_accuracy"`
}

// Importance pairs a predictor name with its importance score.
type Importance struct {
	Feature    string  `json:"feature"`
	Importance float64 `json:"importance"`
}

// RunStatus tracks a persisted run through its lifecycle.
type RunStatus string

const (
	RunStatusRunning  RunStatus = "running"
	RunStatusComplete RunStatus = "complete"
	RunStatusFailed   RunStatus = "failed"
)

// RunParams records the hyperparameters a run was invoked with.
type RunParams struct {
	CSVPath      string  `json:"csv_path"`
	TestFraction float64 `json:"test_fraction"`
	Trees        int     `json:"trees"`
	Seed         int64   `json:"seed"`
	Iterations   int     `json:"iterations,omitempty"`
}

// Run is one persisted train or stability invocation.
type Run struct {
	ID        string         `json:"id"`
	Command   string         `json:"command"`
	Params    RunParams      `json:"params"`
	Status    RunStatus      `json:"status"`
	Metrics   []MetricRecord `json:"metrics,omitempty"`
	Error     string         `json:"error,omitempty"`
	CreatedAt time.Time      `json:"created_at"`
	UpdatedAt time.Time      `json:"updated_at"`
}
