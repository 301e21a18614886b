package fasttree

import (
	"math"
	"sort"
)

// binMapper maps raw feature values to histogram bins. upper[i] is the inclusive upper
// bound of bin i and the last bound is +Inf, so bin(v) <= b exactly when v <= upper[b].
type binMapper struct {
	upper []float64
}

// newBinMapper finds bin boundaries for one feature column. With at most maxBin distinct
// values every value gets its own bin; otherwise bins hold roughly equal sample counts.
// Boundaries sit halfway between adjacent distinct values.
func newBinMapper(values []float64, maxBin int) binMapper {
	sorted := make([]float64, 0, len(values))
	for _, v := range values {
		if !math.IsNaN(v) {
			sorted = append(sorted, v)
		}
	}
	if len(sorted) == 0 {
		return binMapper{upper: []float64{math.Inf(1)}}
	}
	sort.Float64s(sorted)

	unique := []float64{sorted[0]}
	counts := []int{1}
	for _, v := range sorted[1:] {
		if v == unique[len(unique)-1] {
			counts[len(counts)-1]++
			continue
		}
		unique = append(unique, v)
		counts = append(counts, 1)
	}

	var upper []float64
	if len(unique) <= maxBin {
		upper = make([]float64, 0, len(unique))
		for i := 0; i < len(unique)-1; i++ {
			upper = append(upper, midpoint(unique[i], unique[i+1]))
		}
	} else {
		binSize := (len(sorted) + maxBin - 2) / (maxBin - 1)
		acc := 0
		for i := 0; i < len(unique)-1; i++ {
			acc += counts[i]
			if acc >= binSize {
				upper = append(upper, midpoint(unique[i], unique[i+1]))
				acc = 0
			}
		}
	}
	upper = append(upper, math.Inf(1))
	return binMapper{upper: upper}
}

func (b binMapper) numBins() int {
	return len(b.upper)
}

// bin returns the bin index of v. NaN goes to the last bin, matching the prediction
// rule that sends NaN right at every split.
func (b binMapper) bin(v float64) int {
	if math.IsNaN(v) {
		return len(b.upper) - 1
	}
	return sort.SearchFloat64s(b.upper, v)
}

// threshold is the split value that keeps bins 0..bin on the left.
func (b binMapper) threshold(bin int) float64 {
	return b.upper[bin]
}

func midpoint(a, b float64) float64 {
	m := a + (b-a)/2
	// a and b adjacent in float64 can round m up to b
	if m >= b {
		return a
	}
	return m
}
