package dataset

import (
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// synthetic builds n observations with a unique Month per row so subsets
// can be compared by identity.
func synthetic(n int) *Dataset {
	ds := &Dataset{Observations: make([]Observation, n)}
	for i := range ds.Observations {
		ds.Observations[i] = Observation{
			Month:    i,
			Features: []float64{float64(i)},
			Drought:  i % 2,
		}
	}
	return ds
}

func months(d *Dataset) map[int]bool {
	m := make(map[int]bool, d.Len())
	for _, obs := range d.Observations {
		m[obs.Month] = true
	}
	return m
}

func TestSplitDeterministic(t *testing.T) {
	ds := synthetic(100)

	train1, test1, err := Split(ds, 0.3, 5)
	require.NoError(t, err)
	train2, test2, err := Split(ds, 0.3, 5)
	require.NoError(t, err)

	assert.Equal(t, train1.Observations, train2.Observations)
	assert.Equal(t, test1.Observations, test2.Observations)
}

func TestSplitSeedVariesPartition(t *testing.T) {
	ds := synthetic(100)

	_, testA, err := Split(ds, 0.3, 1)
	require.NoError(t, err)
	_, testB, err := Split(ds, 0.3, 2)
	require.NoError(t, err)

	assert.NotEqual(t, months(testA), months(testB))
}

func TestSplitDisjointAndExhaustive(t *testing.T) {
	for _, n := range []int{10, 37, 100} {
		t.Run(fmt.Sprintf("n=%d", n), func(t *testing.T) {
			ds := synthetic(n)
			train, test, err := Split(ds, 0.3, 9)
			require.NoError(t, err)

			assert.Equal(t, n, train.Len()+test.Len())

			trainSet, testSet := months(train), months(test)
			for m := range testSet {
				assert.False(t, trainSet[m], "observation %d in both subsets", m)
			}
		})
	}
}

func TestSplitTestSizeRounding(t *testing.T) {
	tests := []struct {
		n        int
		fraction float64
		want     int
	}{
		{100, 0.3, 30},
		{100, 0.2, 20},
		{10, 0.25, 3}, // half rounds away from zero
		{7, 0.5, 4},
		{3, 0.01, 1}, // clamped to at least one test row
	}
	for _, tt := range tests {
		t.Run(fmt.Sprintf("n=%d f=%v", tt.n, tt.fraction), func(t *testing.T) {
			_, test, err := Split(synthetic(tt.n), tt.fraction, 0)
			require.NoError(t, err)
			assert.Equal(t, tt.want, test.Len())
		})
	}
}

func TestSplitInvalidArgs(t *testing.T) {
	ds := synthetic(10)

	_, _, err := Split(ds, 0, 0)
	assert.Error(t, err)
	_, _, err = Split(ds, 1, 0)
	assert.Error(t, err)
	_, _, err = Split(synthetic(1), 0.5, 0)
	assert.Error(t, err)
}
