package regiontest

import "sort"

// BenjaminiHochberg computes FDR q-values for a set of p-values from
// independent tests, following the step-up procedure of Benjamini &
// Hochberg (1995), the same algorithm as fdr_n in
// original_source/utils/src/lib.rs: sort ascending, then from the
// largest p-value down, track the running minimum of n*p_(i)/i.
//
// There is no third-party implementation of Benjamini-Hochberg in the
// example pack or its dependency surface; this is a dozen lines of
// well-specified arithmetic, so it is implemented directly rather than
// pulled in as a dependency.
func BenjaminiHochberg(p []float64) []float64 {
	n := len(p)
	idx := make([]int, n)
	for i := range idx {
		idx[i] = i
	}
	sort.Slice(idx, func(a, b int) bool { return p[idx[a]] < p[idx[b]] })

	q := make([]float64, n)
	minP := 1.0
	nf := float64(n)
	for rank := n - 1; rank >= 0; rank-- {
		k := idx[rank]
		candidate := nf / float64(rank+1) * p[k]
		if candidate < minP {
			minP = candidate
		}
		q[k] = minP
	}
	return q
}
