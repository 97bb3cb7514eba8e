package stats

import (
	"slices"
	"sort"
)

// TopN returns the k items with the largest key values, descending.
// It keeps a size-k working set ordered ascending and replaces its
// minimum when a larger candidate arrives, so candidate sets much bigger
// than k never pay for a full sort. For k at or above the candidate
// count this reduces to a plain descending sort.
func TopN[T any](items []T, k int, key func(T) float64) []T {
	if k <= 0 {
		return nil
	}

	working := make([]T, 0, min(k, len(items)))
	for _, item := range items {
		if len(working) < k {
			working = append(working, item)
			sortAscending(working, key)
			continue
		}
		// working[0] holds the current minimum.
		if key(item) > key(working[0]) {
			working[0] = item
			sortAscending(working, key)
		}
	}

	slices.Reverse(working)
	return working
}

func sortAscending[T any](working []T, key func(T) float64) {
	sort.SliceStable(working, func(i, j int) bool {
		return key(working[i]) < key(working[j])
	})
}
