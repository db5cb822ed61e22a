package domain

import (
	"slices"
)

// Ordered index sets are plain ascending, duplicate-free int slices.
// All helpers return new slices and never modify their inputs.

// Normalize returns a sorted, de-duplicated copy of indices.
func Normalize(indices []int) []int {
	out := slices.Clone(indices)
	slices.Sort(out)
	return slices.Compact(out)
}

// Contains reports whether index is in the ordered set.
func Contains(set []int, index int) bool {
	_, found := slices.BinarySearch(set, index)
	return found
}

// Union merges two ordered sets.
func Union(a, b []int) []int {
	out := make([]int, 0, len(a)+len(b))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			out = append(out, a[i])
			i++
		case a[i] > b[j]:
			out = append(out, b[j])
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	out = append(out, a[i:]...)
	return append(out, b[j:]...)
}

// Intersect returns the elements present in both ordered sets.
func Intersect(a, b []int) []int {
	out := make([]int, 0, min(len(a), len(b)))
	i, j := 0, 0
	for i < len(a) && j < len(b) {
		switch {
		case a[i] < b[j]:
			i++
		case a[i] > b[j]:
			j++
		default:
			out = append(out, a[i])
			i++
			j++
		}
	}
	return out
}

// Difference returns the elements of a that are not in b.
func Difference(a, b []int) []int {
	out := make([]int, 0, len(a))
	j := 0
	for _, v := range a {
		for j < len(b) && b[j] < v {
			j++
		}
		if j < len(b) && b[j] == v {
			continue
		}
		out = append(out, v)
	}
	return out
}

// IsSubset reports whether every element of candidate is in container.
// An empty candidate is a subset of anything.
func IsSubset(candidate, container []int) bool {
	if len(candidate) > len(container) {
		return false
	}
	return len(Intersect(candidate, container)) == len(candidate)
}
