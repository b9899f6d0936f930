package hazard

import (
	"fmt"
	"math"
	"math/rand"
	"sort"
)

// Forest is a trained random-forest model. It is immutable after Train and
// consumed only through Predict.
type Forest struct {
	trees    []*treeNode
	features int
}

type treeNode struct {
	leaf      bool
	label     int
	feature   int
	threshold float64
	left      *treeNode
	right     *treeNode
}

const (
	maxTreeDepth    = 12
	minSplitSamples = 2
)

// Train fits an ensemble of treeCount decision trees by bootstrap aggregation
// over the sample set. Each split considers a random subset of
// sqrt(#features) features, the standard random-forest construction. The seed
// makes training reproducible; the same seed, samples and treeCount always
// yield the same forest. A sample set that is empty or contains a single
// class cannot produce a trustworthy model and is rejected before any
// classification is attempted.
func Train(samples []Sample, treeCount int, seed int64) (*Forest, error) {
	if len(samples) == 0 {
		return nil, fmt.Errorf("cannot train on an empty sample set")
	}
	if treeCount < 1 {
		return nil, fmt.Errorf("tree count must be at least 1, got %d", treeCount)
	}
	classes := map[int]int{}
	for _, s := range samples {
		classes[s.Label]++
	}
	if len(classes) < 2 {
		return nil, fmt.Errorf("training set is degenerate: all %d samples carry the same label", len(samples))
	}
	featureCount := len(samples[0].Features)
	for _, s := range samples {
		if len(s.Features) != featureCount {
			return nil, fmt.Errorf("inconsistent feature vector length: %d vs %d", len(s.Features), featureCount)
		}
	}

	rng := rand.New(rand.NewSource(seed))
	mtry := int(math.Sqrt(float64(featureCount)))
	if mtry < 1 {
		mtry = 1
	}

	forest := &Forest{features: featureCount}
	for t := 0; t < treeCount; t++ {
		boot := make([]Sample, len(samples))
		for i := range boot {
			boot[i] = samples[rng.Intn(len(samples))]
		}
		forest.trees = append(forest.trees, growTree(boot, mtry, 0, rng))
	}
	return forest, nil
}

// Predict returns the majority-vote label for a feature vector. Ties break
// toward the lowest label so classification is deterministic.
func (f *Forest) Predict(features []float64) (int, error) {
	if len(features) != f.features {
		return 0, fmt.Errorf("feature vector has %d values, model expects %d", len(features), f.features)
	}
	votes := map[int]int{}
	for _, tree := range f.trees {
		votes[tree.predict(features)]++
	}
	best, bestVotes := 0, -1
	labels := make([]int, 0, len(votes))
	for label := range votes {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	for _, label := range labels {
		if votes[label] > bestVotes {
			best, bestVotes = label, votes[label]
		}
	}
	return best, nil
}

func (n *treeNode) predict(features []float64) int {
	for !n.leaf {
		if features[n.feature] <= n.threshold {
			n = n.left
		} else {
			n = n.right
		}
	}
	return n.label
}

func growTree(samples []Sample, mtry, depth int, rng *rand.Rand) *treeNode {
	if depth >= maxTreeDepth || len(samples) < minSplitSamples || pure(samples) {
		return &treeNode{leaf: true, label: majorityLabel(samples)}
	}

	feature, threshold, ok := bestSplit(samples, mtry, rng)
	if !ok {
		return &treeNode{leaf: true, label: majorityLabel(samples)}
	}

	var left, right []Sample
	for _, s := range samples {
		if s.Features[feature] <= threshold {
			left = append(left, s)
		} else {
			right = append(right, s)
		}
	}
	if len(left) == 0 || len(right) == 0 {
		return &treeNode{leaf: true, label: majorityLabel(samples)}
	}
	return &treeNode{
		feature:   feature,
		threshold: threshold,
		left:      growTree(left, mtry, depth+1, rng),
		right:     growTree(right, mtry, depth+1, rng),
	}
}

// bestSplit scans a random feature subset for the threshold with the lowest
// weighted Gini impurity. Candidate thresholds are midpoints between
// consecutive distinct values.
func bestSplit(samples []Sample, mtry int, rng *rand.Rand) (int, float64, bool) {
	featureCount := len(samples[0].Features)
	perm := rng.Perm(featureCount)
	candidates := perm[:mtry]

	bestFeature, bestThreshold := -1, 0.0
	bestImpurity := math.Inf(1)
	values := make([]float64, len(samples))

	for _, feature := range candidates {
		for i, s := range samples {
			values[i] = s.Features[feature]
		}
		sorted := append([]float64(nil), values...)
		sort.Float64s(sorted)
		for i := 0; i < len(sorted)-1; i++ {
			if sorted[i] == sorted[i+1] {
				continue
			}
			threshold := (sorted[i] + sorted[i+1]) / 2
			impurity := splitImpurity(samples, feature, threshold)
			if impurity < bestImpurity {
				bestImpurity = impurity
				bestFeature = feature
				bestThreshold = threshold
			}
		}
	}
	return bestFeature, bestThreshold, bestFeature >= 0
}

func splitImpurity(samples []Sample, feature int, threshold float64) float64 {
	var leftCounts, rightCounts [2]int
	leftTotal, rightTotal := 0, 0
	for _, s := range samples {
		label := s.Label & 1
		if s.Features[feature] <= threshold {
			leftCounts[label]++
			leftTotal++
		} else {
			rightCounts[label]++
			rightTotal++
		}
	}
	total := float64(leftTotal + rightTotal)
	return float64(leftTotal)/total*gini(leftCounts, leftTotal) +
		float64(rightTotal)/total*gini(rightCounts, rightTotal)
}

func gini(counts [2]int, total int) float64 {
	if total == 0 {
		return 0
	}
	g := 1.0
	for _, c := range counts {
		p := float64(c) / float64(total)
		g -= p * p
	}
	return g
}

func pure(samples []Sample) bool {
	for _, s := range samples[1:] {
		if s.Label != samples[0].Label {
			return false
		}
	}
	return true
}

func majorityLabel(samples []Sample) int {
	counts := map[int]int{}
	for _, s := range samples {
		counts[s.Label]++
	}
	best, bestCount := 0, -1
	labels := make([]int, 0, len(counts))
	for label := range counts {
		labels = append(labels, label)
	}
	sort.Ints(labels)
	for _, label := range labels {
		if counts[label] > bestCount {
			best, bestCount = label, counts[label]
		}
	}
	return best
}
