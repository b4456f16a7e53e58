package coverage

import (
	"testing"

	"github.com/biogo/hts/sam"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/refgenome"
)

func newBins(contig *refgenome.Contig, blockSize int) []refgenome.Bin {
	n := (contig.Length + blockSize - 1) / blockSize
	bins := make([]refgenome.Bin, n)
	for i := range bins {
		start := i * blockSize
		end := start + blockSize
		if end > contig.Length {
			end = contig.Length
		}
		bins[i] = refgenome.Bin{
			Contig: contig, Start: start, End: end, Mid: (start + end) / 2,
			GC: 0.5, Valid: true, NRefLen: end - start, NUnambig: end - start,
		}
	}
	return bins
}

func mustRef(t *testing.T, name string, length int) *sam.Reference {
	ref, err := sam.NewReference(name, "", "", length, nil, nil)
	if err != nil {
		t.Fatalf("NewReference: %v", err)
	}
	return ref
}

func simpleRecord(t *testing.T, ref *sam.Reference, pos int, seqLen int, mapq byte, flags sam.Flags) *sam.Record {
	r := &sam.Record{
		Name:  "r1",
		Ref:   ref,
		Pos:   pos,
		MapQ:  mapq,
		Flags: flags,
		Cigar: []sam.CigarOp{sam.NewCigarOp(sam.CigarMatch, seqLen)},
		Qual:  make([]byte, seqLen),
	}
	for i := range r.Qual {
		r.Qual[i] = 40
	}
	return r
}

func TestAggregatorCountsMatchedBases(t *testing.T) {
	contig := &refgenome.Contig{Name: "chrA", Length: 100}
	bins := newBins(contig, 50)
	agg := NewAggregator(contig, bins, 50, Filters{MapQThreshold: 0, QualThreshold: 0}, nil)

	ref := mustRef(t, "chrA", 100)
	r := simpleRecord(t, ref, 10, 20, 30, 0)
	agg.Add(r)

	results := agg.Finalize()
	if results[0].MeanCoverage == 0 {
		t.Fatalf("expected nonzero coverage in bin 0")
	}
	if results[1].MeanCoverage != 0 {
		t.Fatalf("expected zero coverage in bin 1, got %v", results[1].MeanCoverage)
	}
}

func TestFilterMonotonicityOnMapQ(t *testing.T) {
	contig := &refgenome.Contig{Name: "chrA", Length: 100}
	bins := newBins(contig, 100)
	ref := mustRef(t, "chrA", 100)

	countAt := func(thresh byte) int {
		agg := NewAggregator(contig, bins, 100, Filters{MapQThreshold: thresh}, nil)
		agg.Add(simpleRecord(t, ref, 0, 50, 20, 0))
		return agg.Finalize()[0].UsableBases
	}
	_ = countAt // usable bases doesn't depend on mapq; check basesCovered directly below

	run := func(thresh byte) int {
		agg := NewAggregator(contig, bins, 100, Filters{MapQThreshold: thresh}, nil)
		agg.Add(simpleRecord(t, ref, 0, 50, 20, 0))
		r := agg.Finalize()
		return int(r[0].MeanCoverage * float64(r[0].UsableBases))
	}

	low := run(0)
	high := run(30)
	if high > low {
		t.Fatalf("raising mapq_threshold must not increase bases_covered: low=%d high=%d", low, high)
	}
}

func TestDuplicateFlagRejectedByDefault(t *testing.T) {
	contig := &refgenome.Contig{Name: "chrA", Length: 100}
	bins := newBins(contig, 100)
	ref := mustRef(t, "chrA", 100)

	agg := NewAggregator(contig, bins, 100, Filters{}, nil)
	agg.Add(simpleRecord(t, ref, 0, 50, 30, sam.Duplicate))
	r := agg.Finalize()
	if r[0].MeanCoverage != 0 {
		t.Fatalf("expected duplicate record to be rejected, got coverage %v", r[0].MeanCoverage)
	}
}

func TestKeepDuplicatesFlag(t *testing.T) {
	contig := &refgenome.Contig{Name: "chrA", Length: 100}
	bins := newBins(contig, 100)
	ref := mustRef(t, "chrA", 100)

	agg := NewAggregator(contig, bins, 100, Filters{KeepDuplicates: true}, nil)
	agg.Add(simpleRecord(t, ref, 0, 50, 30, sam.Duplicate))
	r := agg.Finalize()
	if r[0].MeanCoverage == 0 {
		t.Fatalf("expected duplicate record to be kept when KeepDuplicates is set")
	}
}

func TestMateOverlapDeduplication(t *testing.T) {
	contig := &refgenome.Contig{Name: "chrA", Length: 100}
	bins := newBins(contig, 100)
	ref := mustRef(t, "chrA", 100)

	flags := sam.Paired | sam.ProperPair
	mate1 := simpleRecord(t, ref, 0, 30, 30, flags)
	mate1.MateRef = ref
	mate2 := simpleRecord(t, ref, 10, 30, 30, flags) // overlaps [10,30) with mate1
	mate2.MateRef = ref

	agg := NewAggregator(contig, bins, 100, Filters{}, nil)
	agg.Add(mate1)
	agg.Add(mate2)
	r := agg.Finalize()

	// mate1 covers [0,30), mate2 covers [10,40); union is [0,40) = 40 bases,
	// not 60, because the [10,30) overlap must be counted once.
	covered := int(r[0].MeanCoverage * float64(r[0].UsableBases))
	if covered != 40 {
		t.Fatalf("expected 40 deduplicated bases, got %d", covered)
	}
}
