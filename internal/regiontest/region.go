package regiontest

import (
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
)

// regionCN returns the mean CN of a sample's bins falling inside a
// region. PredictCN's output format does not carry bin length, so every
// qualifying bin is weighted equally; this coincides with a proper
// length-weighted mean whenever a region's bins share one block size,
// the common case since both tools are run with the same --block-size.
// blacklist may be nil, matching WisecondorX's
// own --blacklist flag this run parameter is adapted from: bins it
// covers are excluded from both the control distribution and the test
// estimate for any region they intersect.
func regionCN(bins []cnBin, region inputs.RegionSpec, blacklist *coverage.Mask) (float64, bool) {
	var sum float64
	var n int
	for _, b := range bins {
		if b.Contig != region.Contig {
			continue
		}
		if !region.Contains(b.Mid) {
			continue
		}
		if blacklist.Excludes(b.Contig, b.Mid) {
			continue
		}
		sum += b.CN
		n++
	}
	if n == 0 {
		return 0, false
	}
	return sum / float64(n), true
}
