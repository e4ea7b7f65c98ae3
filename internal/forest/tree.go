// Package forest implements a seeded random-forest classifier for
// binary labels. It satisfies model.Classifier; nothing outside this
// package depends on the tree internals.
package forest

import (
	"math"
	"math/rand"
	"sort"
)

// treeParams are the per-tree growth controls.
type treeParams struct {
	MaxDepth        int // 0 means unlimited
	MinSamplesSplit int
	MaxFeatures     int // number of candidate features per split
}

// node is one CART node. Leaves carry the class-1 probability of the
// training samples that reached them.
type node struct {
	leaf      bool
	feature   int
	threshold float64 // x <= threshold goes left
	left      *node
	right     *node
	proba     float64
	n         int
}

// tree is a single gini-split decision tree over binary labels.
type tree struct {
	root        *node
	importances []float64 // impurity decrease per feature, sample-weighted
}

// growTree builds a tree on the rows of X selected by idx. rnd drives
// the per-split feature subsampling.
func growTree(X [][]float64, y []int, idx []int, p treeParams, rnd *rand.Rand) *tree {
	t := &tree{importances: make([]float64, len(X[0]))}
	t.root = t.build(X, y, idx, 0, len(idx), p, rnd)
	return t
}

func (t *tree) build(X [][]float64, y []int, idx []int, depth, nTotal int, p treeParams, rnd *rand.Rand) *node {
	pos := countPositives(y, idx)
	n := len(idx)
	nd := &node{n: n, proba: float64(pos) / float64(n)}

	pure := pos == 0 || pos == n
	if pure || n < p.MinSamplesSplit || (p.MaxDepth > 0 && depth >= p.MaxDepth) {
		nd.leaf = true
		return nd
	}

	best := t.bestSplit(X, y, idx, p, rnd)
	if best.feature < 0 {
		nd.leaf = true
		return nd
	}

	// Sample-weighted impurity decrease, accumulated per feature.
	t.importances[best.feature] += float64(n) / float64(nTotal) * best.gain

	nd.feature = best.feature
	nd.threshold = best.threshold
	nd.left = t.build(X, y, best.left, depth+1, nTotal, p, rnd)
	nd.right = t.build(X, y, best.right, depth+1, nTotal, p, rnd)
	return nd
}

// split is a candidate partition of idx on one feature.
type split struct {
	gain      float64
	feature   int
	threshold float64
	left      []int
	right     []int
}

// bestSplit scans a random feature subset for the threshold with the
// largest gini gain.
func (t *tree) bestSplit(X [][]float64, y []int, idx []int, p treeParams, rnd *rand.Rand) split {
	nFeatures := len(X[0])
	feats := featureSample(nFeatures, p.MaxFeatures, rnd)

	parent := gini(countPositives(y, idx), len(idx))
	best := split{feature: -1}

	ordered := make([]int, len(idx))
	for _, f := range feats {
		copy(ordered, idx)
		sort.Slice(ordered, func(a, b int) bool { return X[ordered[a]][f] < X[ordered[b]][f] })

		// Sweep thresholds between distinct neighbouring values,
		// tracking left-side label counts incrementally.
		leftPos := 0
		totalPos := countPositives(y, idx)
		n := len(ordered)
		for s := 1; s < n; s++ {
			leftPos += y[ordered[s-1]]
			lo, hi := X[ordered[s-1]][f], X[ordered[s]][f]
			if lo == hi {
				continue
			}

			impL := gini(leftPos, s)
			impR := gini(totalPos-leftPos, n-s)
			weighted := float64(s)/float64(n)*impL + float64(n-s)/float64(n)*impR
			gain := parent - weighted
			if gain > best.gain {
				best = split{
					gain:      gain,
					feature:   f,
					threshold: (lo + hi) / 2,
					left:      append([]int(nil), ordered[:s]...),
					right:     append([]int(nil), ordered[s:]...),
				}
			}
		}
	}
	return best
}

// predictProba walks a single row down to its leaf.
func (t *tree) predictProba(x []float64) float64 {
	nd := t.root
	for !nd.leaf {
		if x[nd.feature] <= nd.threshold {
			nd = nd.left
		} else {
			nd = nd.right
		}
	}
	return nd.proba
}

// featureSample returns k distinct feature indices; k <= 0 or k >= p
// means all features in order.
func featureSample(p, k int, rnd *rand.Rand) []int {
	feats := make([]int, p)
	for i := range feats {
		feats[i] = i
	}
	if k <= 0 || k >= p {
		return feats
	}
	rnd.Shuffle(p, func(i, j int) { feats[i], feats[j] = feats[j], feats[i] })
	return feats[:k]
}

func countPositives(y []int, idx []int) int {
	var pos int
	for _, i := range idx {
		pos += y[i]
	}
	return pos
}

// gini returns the binary gini impurity of a group with pos positives
// out of n.
func gini(pos, n int) float64 {
	if n == 0 {
		return 0
	}
	p := float64(pos) / float64(n)
	return 2 * p * (1 - p)
}

// defaultMaxFeatures is the usual sqrt(p) heuristic.
func defaultMaxFeatures(p int) int {
	k := int(math.Sqrt(float64(p)))
	if k < 1 {
		k = 1
	}
	return k
}
