package gcmodel

import "sort"

// nStrata is the number of equal-width GC buckets spanning [0,1].
const nStrata = 128

// minStratumCount is the minimum number of bins a GC stratum needs before
// its median is trusted.
const minStratumCount = 10

// minSupportedStrata is the floor below which the whole per-stratum model
// is abandoned in favor of a single global median.
const minSupportedStrata = 20

// stratumOf returns the GC stratum index for a fraction in [0,1]. Stratum
// k covers [k/128, (k+1)/128); the last stratum is right-closed.
func stratumOf(gc float64) int {
	k := int(gc * nStrata)
	if k >= nStrata {
		k = nStrata - 1
	}
	if k < 0 {
		k = 0
	}
	return k
}

// median returns the median of vals, which is mutated (sorted) in place.
func median(vals []float64) float64 {
	sort.Float64s(vals)
	n := len(vals)
	if n == 0 {
		return 0
	}
	if n%2 == 1 {
		return vals[n/2]
	}
	return (vals[n/2-1] + vals[n/2]) / 2
}

// stratumMedians buckets (gc, coverage) observations into the 128 GC
// strata and returns each populated stratum's median coverage, keyed by
// stratum index. Strata with fewer than minStratumCount observations are
// dropped.
func stratumMedians(gcs, coverages []float64) map[int]float64 {
	buckets := make(map[int][]float64)
	for i, gc := range gcs {
		k := stratumOf(gc)
		buckets[k] = append(buckets[k], coverages[i])
	}
	medians := make(map[int]float64, len(buckets))
	for k, vals := range buckets {
		if len(vals) >= minStratumCount {
			medians[k] = median(vals)
		}
	}
	return medians
}
