package utils

import (
	"sort"

	"golang.org/x/exp/constraints"
)

// GetSortedKeys returns the sorted keys of a map.
func GetSortedKeys[K constraints.Ordered, V any](m map[K]V) (keys []K) {
	keys = make([]K, 0, len(m))
	for key := range m {
		keys = append(keys, key)
	}
	SortSlice(keys)
	return
}

// SortSlice sorts a slice in place.
func SortSlice[T constraints.Ordered](s []T) {
	sort.Slice(s, func(i, j int) bool {
		return s[i] < s[j]
	})
}

// SwapHalves exchanges the first and second half of a slice of even length.
func SwapHalves[V any](s []V) {
	h := len(s) >> 1
	for i := 0; i < h; i++ {
		s[i], s[i+h] = s[h+i], s[i]
	}
}

// BitReverseInPlaceSlice applies an in-place bit-reverse permutation on the input slice.
func BitReverseInPlaceSlice[V any](slice []V, N int) {

	var bit, j int

	for i := 1; i < N; i++ {

		bit = N >> 1

		for j >= bit {
			j -= bit
			bit >>= 1
		}

		j += bit

		if i < j {
			slice[i], slice[j] = slice[j], slice[i]
		}
	}
}
