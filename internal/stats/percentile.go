package stats

import (
	"math"
	"slices"
	"sort"
)

const (
	// Below this many samples a single sort beats repeated selection.
	selectionMinSamples = 100
	// Above this many requested percentiles, one sort answers them all
	// more cheaply than one selection pass each.
	selectionMaxPercentiles = 5
)

// Percentiles returns the duration value at each requested percentile
// (0-100). It uses expected-linear-time selection per percentile on
// large inputs, falling back to a single full sort when the input is
// small or many percentiles are requested at once. Empty input yields 0
// for every requested percentile.
func Percentiles(durations []float64, percentiles []float64) []float64 {
	out := make([]float64, len(percentiles))
	if len(durations) == 0 {
		return out
	}

	if len(durations) < selectionMinSamples || len(percentiles) > selectionMaxPercentiles {
		sorted := slices.Clone(durations)
		sort.Float64s(sorted)
		for i, p := range percentiles {
			out[i] = sorted[rank(p, len(sorted))]
		}
		return out
	}

	for i, p := range percentiles {
		// quickselect partitions in place, so each percentile works on
		// its own copy.
		data := slices.Clone(durations)
		out[i] = quickselect(data, rank(p, len(data)))
	}
	return out
}

// rank maps a percentile to its 0-indexed rank: ceil(p/100*n)-1,
// clamped into [0, n).
func rank(p float64, n int) int {
	r := int(math.Ceil(p/100*float64(n))) - 1
	if r < 0 {
		r = 0
	}
	if r >= n {
		r = n - 1
	}
	return r
}

// quickselect returns the k-th smallest element of a, partitioning
// around a pivot and recursing only into the side containing k.
func quickselect(a []float64, k int) float64 {
	lo, hi := 0, len(a)-1
	for lo < hi {
		p := partition(a, lo, hi)
		switch {
		case k == p:
			return a[k]
		case k < p:
			hi = p - 1
		default:
			lo = p + 1
		}
	}
	return a[k]
}

// partition uses the middle element as pivot, placing it at its final
// sorted index and returning that index.
func partition(a []float64, lo, hi int) int {
	mid := lo + (hi-lo)/2
	a[mid], a[hi] = a[hi], a[mid]
	pivot := a[hi]

	i := lo
	for j := lo; j < hi; j++ {
		if a[j] < pivot {
			a[i], a[j] = a[j], a[i]
			i++
		}
	}
	a[i], a[hi] = a[hi], a[i]
	return i
}
