package fasttree

import (
	"math/rand/v2"
)

// SamplingStrategy draws the feature and row subsets used by each tree. The same seed
// always yields the same sequence of subsets.
type SamplingStrategy struct {
	rng             *rand.Rand
	featureFraction float64
	baggingFraction float64
	baggingFreq     int
	lastBag         []int
}

// NewSamplingStrategy creates a sampler seeded from params.Seed.
func NewSamplingStrategy(params Params) *SamplingStrategy {
	return &SamplingStrategy{
		rng:             rand.New(rand.NewPCG(params.Seed, params.Seed^0x9e3779b97f4a7c15)),
		featureFraction: params.FeatureFraction,
		baggingFraction: params.BaggingFraction,
		baggingFreq:     params.BaggingFreq,
	}
}

// SampleFeatures returns the sorted feature indices a tree may split on.
func (s *SamplingStrategy) SampleFeatures(numFeatures int) []int {
	if s.featureFraction >= 1.0 {
		return identity(numFeatures)
	}
	numSample := int(float64(numFeatures) * s.featureFraction)
	return s.sample(numFeatures, numSample)
}

// SampleInstances returns the sorted row indices used to grow the tree at iteration.
// A new bag is drawn every baggingFreq iterations and reused in between.
func (s *SamplingStrategy) SampleInstances(numInstances, iteration int) []int {
	if s.baggingFreq <= 0 || s.baggingFraction >= 1.0 {
		return identity(numInstances)
	}
	if iteration%s.baggingFreq != 0 && s.lastBag != nil {
		return s.lastBag
	}
	numSample := int(float64(numInstances) * s.baggingFraction)
	s.lastBag = s.sample(numInstances, numSample)
	return s.lastBag
}

// sample picks k of n indices with a partial Fisher-Yates shuffle and returns them in
// ascending order.
func (s *SamplingStrategy) sample(n, k int) []int {
	if k < 1 {
		k = 1
	}
	if k > n {
		k = n
	}
	perm := identity(n)
	for i := 0; i < k; i++ {
		j := i + s.rng.IntN(n-i)
		perm[i], perm[j] = perm[j], perm[i]
	}
	picked := perm[:k]
	mark := make([]bool, n)
	for _, idx := range picked {
		mark[idx] = true
	}
	out := make([]int, 0, k)
	for i, ok := range mark {
		if ok {
			out = append(out, i)
		}
	}
	return out
}

func identity(n int) []int {
	out := make([]int, n)
	for i := range out {
		out[i] = i
	}
	return out
}
