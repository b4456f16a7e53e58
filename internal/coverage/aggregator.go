// Package coverage implements the Coverage Aggregator: per (sample,
// contig) accumulation of filtered, quality-checked,
// mate-overlap-deduplicated reference base coverage into fixed-width
// bins.
package coverage

import (
	"sort"

	"github.com/biogo/hts/sam"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/refgenome"
)

// span is a half-open range of reference positions already credited to a
// fragment by its first-seen mate, kept so the second mate does not
// double-count the overlap between mate reads.
type span struct{ start, end int }

func (s span) contains(pos int) bool { return pos >= s.start && pos < s.end }

type fragmentState struct {
	spans []span
}

func (fs *fragmentState) contains(pos int) bool {
	i := sort.Search(len(fs.spans), func(i int) bool { return fs.spans[i].end > pos })
	return i < len(fs.spans) && fs.spans[i].contains(pos)
}

func (fs *fragmentState) add(start, end int) {
	fs.spans = append(fs.spans, span{start, end})
}

// Aggregator accumulates per-bin base coverage for one (sample, contig)
// instance. It owns its counters exclusively; nothing else may write to
// them.
type Aggregator struct {
	Contig    *refgenome.Contig
	bins      []refgenome.Bin
	blockSize int
	filters   Filters
	mask      *Mask

	basesCovered []int
	fragments    map[string]*fragmentState
}

// NewAggregator constructs an Aggregator for one contig's bins. mask may
// be nil, the default of no declared exclusion mask.
func NewAggregator(contig *refgenome.Contig, bins []refgenome.Bin, blockSize int, filters Filters, mask *Mask) *Aggregator {
	return &Aggregator{
		Contig:       contig,
		bins:         bins,
		blockSize:    blockSize,
		filters:      filters,
		mask:         mask,
		basesCovered: make([]int, len(bins)),
		fragments:    make(map[string]*fragmentState),
	}
}

// qualityPasses reports whether a query base's quality clears the
// threshold. Missing quality strings (SAM '*') are treated as always
// passing, since there is nothing to filter on.
func (a *Aggregator) qualityPasses(r *sam.Record, queryPos int) bool {
	if len(r.Qual) == 0 || queryPos >= len(r.Qual) {
		return true
	}
	q := r.Qual[queryPos]
	if q == 0xff {
		return true
	}
	return q >= a.filters.QualThreshold
}

func (a *Aggregator) binIndex(refPos int) int {
	idx := refPos / a.blockSize
	if idx >= len(a.bins) {
		idx = len(a.bins) - 1
	}
	return idx
}

// Add processes one alignment record belonging to this aggregator's
// contig, applying every admission filter and crediting qualifying
// reference bases to their bins.
func (a *Aggregator) Add(r *sam.Record) {
	if !a.filters.admitRecord(r) {
		return
	}

	var frag *fragmentState
	dedupe := qualifiesFragmentOverlap(r)
	isSecondMate := false
	if dedupe {
		if existing, ok := a.fragments[r.Name]; ok {
			frag = existing
			isSecondMate = true
			delete(a.fragments, r.Name) // a fragment has exactly two mates
		} else {
			frag = &fragmentState{}
			a.fragments[r.Name] = frag
		}
	}

	queryPos := 0
	refPos := r.Pos
	var newSpanStart, newSpanEnd int
	haveNewSpan := false
	flushSpan := func() {
		if haveNewSpan {
			// The second mate only reads frag.contains; recording its own
			// spans would append out of .end order and break the binary
			// search invariant, and the entry is discarded right after.
			if dedupe && !isSecondMate {
				frag.add(newSpanStart, newSpanEnd)
			}
			haveNewSpan = false
		}
	}

	for _, co := range r.Cigar {
		t := co.Type()
		con := t.Consumes()
		n := co.Len()
		if con.Query == 1 && con.Reference == 1 {
			for i := 0; i < n; i++ {
				if a.qualityPasses(r, queryPos) && !a.mask.Excludes(a.Contig.Name, refPos) {
					if !dedupe || frag == nil || !frag.contains(refPos) {
						a.basesCovered[a.binIndex(refPos)]++
						if haveNewSpan && newSpanEnd == refPos {
							newSpanEnd = refPos + 1
						} else {
							flushSpan()
							newSpanStart, newSpanEnd = refPos, refPos+1
							haveNewSpan = true
						}
					}
				}
				queryPos++
				refPos++
			}
		} else {
			flushSpan()
			queryPos += con.Query * n
			refPos += con.Reference * n
		}
	}
	flushSpan()
}

// BinResult is one finalized bin's coverage, ready for GC normalization.
type BinResult struct {
	Mid          int
	Length       int
	GC           float64
	GCValid      bool
	UsableBases  int
	MeanCoverage float64
	Valid        bool // false when UsableBases == 0
}

// Finalize computes mean coverage for every bin and releases the raw
// counters. usable_bases is the bin's unambiguous reference base count,
// minus any bases the exclusion mask covers.
func (a *Aggregator) Finalize() []BinResult {
	results := make([]BinResult, len(a.bins))
	for i, bin := range a.bins {
		usable := bin.NUnambig - a.mask.excludedCount(a.Contig.Name, bin.Start, bin.End)
		if usable < 0 {
			usable = 0
		}
		r := BinResult{
			Mid:         bin.Mid,
			Length:      bin.NRefLen,
			GC:          bin.GC,
			GCValid:     bin.Valid,
			UsableBases: usable,
		}
		if usable > 0 {
			r.Valid = true
			r.MeanCoverage = float64(a.basesCovered[i]) / float64(usable)
		}
		results[i] = r
	}
	a.basesCovered = nil
	a.fragments = nil
	return results
}
