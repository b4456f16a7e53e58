package coverage

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/refgenome"
)

func writeBed(t *testing.T, lines ...string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "exclude.bed")
	content := ""
	for _, l := range lines {
		content += l + "\n"
	}
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func TestLoadMaskExcludesCoveredRange(t *testing.T) {
	path := writeBed(t, "chrA\t10\t20")
	mask, err := LoadMask(path)
	if err != nil {
		t.Fatalf("LoadMask: %v", err)
	}
	if !mask.Excludes("chrA", 15) {
		t.Fatalf("expected position 15 to be excluded")
	}
	if mask.Excludes("chrA", 20) {
		t.Fatalf("expected end position 20 (half-open) to not be excluded")
	}
	if mask.Excludes("chrB", 15) {
		t.Fatalf("expected position on a different contig to not be excluded")
	}
}

func TestNilMaskExcludesNothing(t *testing.T) {
	var mask *Mask
	if mask.Excludes("chrA", 5) {
		t.Fatalf("nil mask must exclude nothing")
	}
	if mask.excludedCount("chrA", 0, 100) != 0 {
		t.Fatalf("nil mask must contribute zero excluded bases")
	}
}

func TestAggregatorHonorsExclusionMask(t *testing.T) {
	contig := &refgenome.Contig{Name: "chrA", Length: 100}
	bins := newBins(contig, 100)
	ref := mustRef(t, "chrA", 100)

	path := writeBed(t, "chrA\t0\t10")
	mask, err := LoadMask(path)
	if err != nil {
		t.Fatalf("LoadMask: %v", err)
	}

	agg := NewAggregator(contig, bins, 100, Filters{}, mask)
	agg.Add(simpleRecord(t, ref, 0, 50, 30, 0))
	r := agg.Finalize()

	if r[0].UsableBases != 90 {
		t.Fatalf("expected 90 usable bases after excluding [0,10), got %d", r[0].UsableBases)
	}
	covered := int(r[0].MeanCoverage * float64(r[0].UsableBases))
	if covered != 40 {
		t.Fatalf("expected 40 bases credited (50 aligned minus 10 masked), got %d", covered)
	}
}
