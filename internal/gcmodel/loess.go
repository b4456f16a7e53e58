package gcmodel

import (
	"sort"

	"gonum.org/v1/gonum/mat"
)

// loessSpan is the fraction of populated strata considered "local" at any
// evaluation point.
const loessSpan = 0.3

// loessMinNeighbors is the floor on the local window size regardless of
// span.
const loessMinNeighbors = 10

// smoothStrata fits a tricube-weighted local linear regression at every
// stratum center 0..nStrata-1 from the supported stratum medians, the way
// original_source/src/normalize.rs fits a local regression per GC bin,
// adapted here to a degree-1 fit over a span-based neighbor window rather
// than normalize.rs's fixed-radius degree-2 fit. Strata outside the
// supported range take the boundary's fitted value (constant
// extrapolation).
func smoothStrata(medians map[int]float64) []float64 {
	support := make([]int, 0, len(medians))
	for k := range medians {
		support = append(support, k)
	}
	sort.Ints(support)

	out := make([]float64, nStrata)
	if len(support) == 0 {
		return out
	}

	window := int(loessSpan * float64(len(support)))
	if window < loessMinNeighbors {
		window = loessMinNeighbors
	}
	if window > len(support) {
		window = len(support)
	}

	lo, hi := support[0], support[len(support)-1]
	for k := 0; k < nStrata; k++ {
		evalAt := k
		if evalAt < lo {
			evalAt = lo
		}
		if evalAt > hi {
			evalAt = hi
		}
		out[k] = fitLocal(support, medians, evalAt, window)
	}
	return out
}

// fitLocal fits a weighted degree-1 regression using the window nearest
// supported strata to x, then evaluates it at x.
func fitLocal(support []int, medians map[int]float64, x, window int) float64 {
	type neighbor struct {
		k    int
		dist int
	}
	neighbors := make([]neighbor, len(support))
	for i, k := range support {
		d := k - x
		if d < 0 {
			d = -d
		}
		neighbors[i] = neighbor{k, d}
	}
	sort.Slice(neighbors, func(i, j int) bool { return neighbors[i].dist < neighbors[j].dist })
	neighbors = neighbors[:window]

	bandwidth := float64(neighbors[len(neighbors)-1].dist) + 1
	var sw, swx, swy, swxx, swxy float64
	for _, nb := range neighbors {
		u := float64(nb.dist) / bandwidth
		w := tricube(u)
		xi := float64(nb.k)
		yi := medians[nb.k]
		sw += w
		swx += w * xi
		swy += w * yi
		swxx += w * xi * xi
		swxy += w * xi * yi
	}
	if sw == 0 {
		return medians[neighbors[0].k]
	}

	// Solve the 2x2 weighted normal equations for y = a + b*x.
	A := mat.NewDense(2, 2, []float64{sw, swx, swx, swxx})
	b := mat.NewVecDense(2, []float64{swy, swxy})
	var coef mat.VecDense
	if err := coef.SolveVec(A, b); err != nil {
		return swy / sw
	}
	a, slope := coef.AtVec(0), coef.AtVec(1)
	return a + slope*float64(x)
}

// tricube is the weight kernel (1-u^3)^3 used by LOESS, zero outside [0,1].
func tricube(u float64) float64 {
	if u < 0 {
		u = -u
	}
	if u >= 1 {
		return 0
	}
	c := 1 - u*u*u
	return c * c * c
}
