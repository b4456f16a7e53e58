package gcmodel

import (
	"math"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
)

// BinInput is one bin's coverage/GC pair as consumed by the model, shared
// across all of a sample's valid bins across all contigs.
type BinInput struct {
	Contig       string
	Mid          int
	Length       int
	GC           float64
	GCValid      bool
	UseForGC     bool
	MeanCoverage float64
	Valid        bool // coverage validity, from coverage.BinResult.Valid
}

// Model is a fitted GC-bias curve plus the rescale factor needed to turn
// normalized coverage into copy number, ready to be applied to every bin
// of a sample, training and non-training contigs alike.
type Model struct {
	smoothed   []float64 // per-stratum fitted coverage, len == nStrata
	global     bool      // true when falling back to a single global median
	rescale    float64
	degenerate bool // true when the autosomal sum is zero
}

// Fit builds a GC model from a sample's bins: bucket autosomal bins into
// GC strata, take each stratum's median coverage, smooth across strata,
// then anchor the smoothed curve to CN=2 via a length-weighted rescale
// factor over the same autosomal bins.
func Fit(bins []BinInput) *Model {
	var gcs, covs []float64
	for _, b := range bins {
		if b.UseForGC && b.Valid && b.GCValid {
			gcs = append(gcs, b.GC)
			covs = append(covs, b.MeanCoverage)
		}
	}

	medians := stratumMedians(gcs, covs)
	m := &Model{}
	if len(medians) < minSupportedStrata {
		m.global = true
		var all []float64
		for _, v := range medians {
			all = append(all, v)
		}
		if len(all) == 0 {
			all = covs
		}
		g := median(append([]float64{}, all...))
		m.smoothed = make([]float64, nStrata)
		for i := range m.smoothed {
			m.smoothed[i] = g
		}
	} else {
		m.smoothed = smoothStrata(medians)
	}

	var lengthSum, weightedSum float64
	for _, b := range bins {
		if !b.UseForGC || !b.Valid || !b.GCValid {
			continue
		}
		g := m.ghat(b.GC)
		if g == 0 {
			continue
		}
		norm := b.MeanCoverage / g
		lengthSum += float64(b.Length)
		weightedSum += float64(b.Length) * norm
	}
	if lengthSum == 0 {
		m.degenerate = true
		return m
	}
	m.rescale = weightedSum / lengthSum
	return m
}

// ghat returns the fitted baseline coverage for a GC fraction.
func (m *Model) ghat(gc float64) float64 {
	return m.smoothed[stratumOf(gc)]
}

// CN returns the copy-number estimate for a bin given its mean coverage
// and GC fraction. It is defined for every bin, including contigs
// excluded from training, and is NaN when the model could not be
// anchored (degenerate autosomal sum).
func (m *Model) CN(meanCoverage, gc float64) float64 {
	if m.degenerate || m.rescale == 0 {
		return math.NaN()
	}
	g := m.ghat(gc)
	if g == 0 {
		return math.NaN()
	}
	norm := meanCoverage / g
	return 2 * norm / m.rescale
}

// Degenerate reports whether the autosomal anchor could not be computed,
// in which case every bin's CN is emitted as NaN with a warning-class
// error.
func (m *Model) Degenerate() bool { return m.degenerate }

// FromCoverage adapts coverage.BinResult slices (one per contig) into the
// flat BinInput slice Fit consumes.
func FromCoverage(contig string, useForGC bool, results []coverage.BinResult) []BinInput {
	out := make([]BinInput, len(results))
	for i, r := range results {
		out[i] = BinInput{
			Contig:       contig,
			Mid:          r.Mid,
			Length:       r.Length,
			GC:           r.GC,
			GCValid:      r.GCValid,
			UseForGC:     useForGC,
			MeanCoverage: r.MeanCoverage,
			Valid:        r.Valid,
		}
	}
	return out
}
