package dataset

import (
	"math"
	"math/rand"

	"github.com/rotisserie/eris"
)

// Split partitions the dataset into disjoint train and test subsets.
// The partition is a seeded permutation: repeated calls with the same
// seed yield identical subsets, and |test| = round(fraction * n).
func Split(d *Dataset, testFraction float64, seed int64) (train, test *Dataset, err error) {
	if testFraction <= 0 || testFraction >= 1 {
		return nil, nil, eris.Errorf("dataset: test fraction must be in (0,1), got %v", testFraction)
	}
	n := d.Len()
	if n < 2 {
		return nil, nil, eris.Errorf("dataset: need at least 2 observations to split, got %d", n)
	}

	rnd := rand.New(rand.NewSource(seed))
	perm := rnd.Perm(n)

	nTest := int(math.Round(testFraction * float64(n)))
	if nTest == 0 {
		nTest = 1
	}
	if nTest == n {
		nTest = n - 1
	}

	test = &Dataset{Observations: make([]Observation, 0, nTest)}
	train = &Dataset{Observations: make([]Observation, 0, n-nTest)}
	for i, idx := range perm {
		if i < nTest {
			test.Observations = append(test.Observations, d.Observations[idx])
		} else {
			train.Observations = append(train.Observations, d.Observations[idx])
		}
	}
	return train, test, nil
}
