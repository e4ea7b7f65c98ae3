package forest

import (
	"math/rand"
	"sync"

	"github.com/rotisserie/eris"
	"golang.org/x/sync/errgroup"
)

// RandomForest is a bagged ensemble of gini-split decision trees.
// The zero value is not usable; construct with New.
type RandomForest struct {
	trees           int
	seed            int64
	maxDepth        int
	minSamplesSplit int
	maxFeatures     int
	threshold       float64

	mu     sync.Mutex
	fitted []*tree
	nFeat  int
}

// Option configures a RandomForest.
type Option func(*RandomForest)

// WithTrees sets the ensemble size.
func WithTrees(n int) Option { return func(f *RandomForest) { f.trees = n } }

// WithSeed sets the base seed; tree i derives seed+i.
func WithSeed(seed int64) Option { return func(f *RandomForest) { f.seed = seed } }

// WithMaxDepth limits tree depth (0 = unlimited).
func WithMaxDepth(d int) Option { return func(f *RandomForest) { f.maxDepth = d } }

// WithMaxFeatures sets per-split candidate features (0 = sqrt(p)).
func WithMaxFeatures(k int) Option { return func(f *RandomForest) { f.maxFeatures = k } }

// WithThreshold sets the class-1 decision threshold (default 0.5).
func WithThreshold(t float64) Option { return func(f *RandomForest) { f.threshold = t } }

// New returns a forest with sensible defaults.
func New(opts ...Option) *RandomForest {
	f := &RandomForest{
		trees:           100,
		seed:            0,
		minSamplesSplit: 2,
		threshold:       0.5,
	}
	for _, o := range opts {
		o(f)
	}
	return f
}

// Fit trains the ensemble: each tree grows on a bootstrap sample drawn
// from its own deterministic seed, so a fixed base seed reproduces the
// forest exactly regardless of scheduling.
func (f *RandomForest) Fit(X [][]float64, y []int) error {
	if len(X) == 0 {
		return eris.New("forest: empty feature matrix")
	}
	if len(y) != len(X) {
		return eris.Errorf("forest: %d rows but %d labels", len(X), len(y))
	}
	if f.trees < 1 {
		return eris.Errorf("forest: tree count must be positive, got %d", f.trees)
	}
	p := len(X[0])
	for i := range X {
		if len(X[i]) != p {
			return eris.Errorf("forest: row %d has %d features, want %d", i, len(X[i]), p)
		}
	}
	for i, label := range y {
		if label != 0 && label != 1 {
			return eris.Errorf("forest: label %d at row %d is not binary", label, i)
		}
	}

	maxFeatures := f.maxFeatures
	if maxFeatures <= 0 {
		maxFeatures = defaultMaxFeatures(p)
	}
	params := treeParams{
		MaxDepth:        f.maxDepth,
		MinSamplesSplit: f.minSamplesSplit,
		MaxFeatures:     maxFeatures,
	}

	n := len(X)
	fitted := make([]*tree, f.trees)

	var g errgroup.Group
	g.SetLimit(8)
	for i := 0; i < f.trees; i++ {
		i := i
		g.Go(func() error {
			rnd := rand.New(rand.NewSource(f.seed + int64(i)))

			// Bootstrap sample: n draws with replacement, as indices.
			idx := make([]int, n)
			for j := range idx {
				idx[j] = rnd.Intn(n)
			}

			fitted[i] = growTree(X, y, idx, params, rnd)
			return nil
		})
	}
	if err := g.Wait(); err != nil {
		return err
	}

	f.mu.Lock()
	f.fitted = fitted
	f.nFeat = p
	f.mu.Unlock()
	return nil
}

// PredictProba returns the class-1 probability per row, the mean of the
// per-tree leaf probabilities.
func (f *RandomForest) PredictProba(X [][]float64) []float64 {
	f.mu.Lock()
	trees := f.fitted
	f.mu.Unlock()

	out := make([]float64, len(X))
	if len(trees) == 0 {
		return out
	}
	for i, x := range X {
		var sum float64
		for _, t := range trees {
			sum += t.predictProba(x)
		}
		out[i] = sum / float64(len(trees))
	}
	return out
}

// Predict returns the majority-vote label per row.
func (f *RandomForest) Predict(X [][]float64) []int {
	probs := f.PredictProba(X)
	out := make([]int, len(probs))
	for i, p := range probs {
		if p >= f.threshold {
			out[i] = 1
		}
	}
	return out
}

// FeatureImportances returns the mean per-tree impurity decrease per
// feature, normalized to sum to 1. Scores are non-negative by
// construction. Returns nil before Fit.
func (f *RandomForest) FeatureImportances() []float64 {
	f.mu.Lock()
	trees := f.fitted
	p := f.nFeat
	f.mu.Unlock()

	if len(trees) == 0 {
		return nil
	}
	imp := make([]float64, p)
	for _, t := range trees {
		for j, v := range t.importances {
			imp[j] += v
		}
	}
	var total float64
	for _, v := range imp {
		total += v
	}
	if total > 0 {
		for j := range imp {
			imp[j] /= total
		}
	}
	return imp
}
