package stability

import (
	"context"
	"math/rand"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hydroclim/drought-cli/internal/dataset"
)

// fixture builds a small dataset with one separating feature and one
// noise feature.
func fixture(n int) *dataset.Dataset {
	rnd := rand.New(rand.NewSource(11))
	ds := &dataset.Dataset{Observations: make([]dataset.Observation, n)}
	for i := range ds.Observations {
		label := i % 2
		sep := rnd.Float64()
		if label == 1 {
			sep += 10
		}
		ds.Observations[i] = dataset.Observation{
			Month:    i,
			Features: []float64{sep, rnd.Float64()},
			Drought:  label,
		}
	}
	return ds
}

func TestRunProducesRecordAndMeans(t *testing.T) {
	ds := fixture(60)
	r := &Runner{Iterations: 3, Trees: 10, TestFraction: 0.3}

	res, err := r.Run(context.Background(), ds)
	require.NoError(t, err)
	require.Len(t, res.Records, 3)

	wantMean := (res.Records[0].Accuracy + res.Records[1].Accuracy + res.Records[2].Accuracy) / 3
	assert.InDelta(t, wantMean, res.Means.Accuracy, 1e-9)

	for _, rec := range res.Records {
		assert.GreaterOrEqual(t, rec.Accuracy, 0.0)
		assert.LessOrEqual(t, rec.Accuracy, 1.0)
	}
}

func TestRunDeterministicAcrossConcurrency(t *testing.T) {
	ds := fixture(60)

	sequential := &Runner{Iterations: 4, Trees: 8, TestFraction: 0.3, Concurrency: 1}
	parallel := &Runner{Iterations: 4, Trees: 8, TestFraction: 0.3, Concurrency: 4}

	a, err := sequential.Run(context.Background(), ds)
	require.NoError(t, err)
	b, err := parallel.Run(context.Background(), ds)
	require.NoError(t, err)

	assert.Equal(t, a.Records, b.Records)
}

func TestRunInvalidIterations(t *testing.T) {
	r := &Runner{Iterations: 0, Trees: 5, TestFraction: 0.3}
	_, err := r.Run(context.Background(), fixture(10))
	assert.Error(t, err)
}

func TestRunCancelledContext(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	r := &Runner{Iterations: 3, Trees: 5, TestFraction: 0.3}
	_, err := r.Run(ctx, fixture(20))
	assert.Error(t, err)
}
