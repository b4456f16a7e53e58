package inputs

import (
	"os"
	"path/filepath"
	"testing"
)

func writeTemp(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "input.tsv")
	if err := os.WriteFile(path, []byte(content), 0o644); err != nil {
		t.Fatalf("writeTemp: %v", err)
	}
	return path
}

func TestParsePredictSampleListSkipsCommentsAndBlanks(t *testing.T) {
	path := writeTemp(t, "# comment\n\nsampleA\t/a.bam\nsampleB\t/b.bam\t/b2.bam\n")
	samples, err := ParsePredictSampleList(path)
	if err != nil {
		t.Fatalf("ParsePredictSampleList: %v", err)
	}
	if len(samples) != 2 {
		t.Fatalf("expected 2 samples, got %d", len(samples))
	}
	if samples[1].Name != "sampleB" || len(samples[1].Paths) != 2 {
		t.Fatalf("unexpected sampleB: %+v", samples[1])
	}
}

func TestParsePredictSampleListRejectsSingleColumn(t *testing.T) {
	path := writeTemp(t, "sampleA\n")
	if _, err := ParsePredictSampleList(path); err == nil {
		t.Fatalf("expected error for single-column line")
	}
}

func TestParseContigListDefaultsUseForGCTrue(t *testing.T) {
	path := writeTemp(t, "chr1\nchr2\tfalse\nchrM\tNo\n")
	specs, err := ParseContigList(path)
	if err != nil {
		t.Fatalf("ParseContigList: %v", err)
	}
	if !specs[0].UseForGC {
		t.Fatalf("expected default UseForGC true")
	}
	if specs[1].UseForGC || specs[2].UseForGC {
		t.Fatalf("expected false/No to parse falsy")
	}
}

func TestParseContigListRejectsUnknownBool(t *testing.T) {
	path := writeTemp(t, "chr1\tmaybe\n")
	if _, err := ParseContigList(path); err == nil {
		t.Fatalf("expected error for unrecognized use_for_gc value")
	}
}

func TestParseRegionSampleListPrefixMatchesGroup(t *testing.T) {
	path := writeTemp(t, "s1\tControl\ns2\tTestSample\n")
	samples, err := ParseRegionSampleList(path)
	if err != nil {
		t.Fatalf("ParseRegionSampleList: %v", err)
	}
	if samples[0].Role != RoleControl || samples[1].Role != RoleTest {
		t.Fatalf("unexpected roles: %+v", samples)
	}
}

func TestParseRegionListRangesAreHalfOpenAndMerged(t *testing.T) {
	path := writeTemp(t, "r1\tchr1\t1-100,50-150\t-1\n")
	regions, err := ParseRegionList(path)
	if err != nil {
		t.Fatalf("ParseRegionList: %v", err)
	}
	r := regions[0]
	if len(r.Ranges) != 1 || r.Ranges[0].Start != 0 || r.Ranges[0].End != 150 {
		t.Fatalf("expected merged range [0,150), got %+v", r.Ranges)
	}
	if !r.HasDelta || r.ExpectedDeltaCN != -1 {
		t.Fatalf("expected delta -1, got %+v", r)
	}
	if !r.Contains(0) || r.Contains(150) || !r.Contains(149) {
		t.Fatalf("half-open containment check failed")
	}
}

func TestParseRegionListWithoutDelta(t *testing.T) {
	path := writeTemp(t, "r1\tchr1\t10-20\n")
	regions, err := ParseRegionList(path)
	if err != nil {
		t.Fatalf("ParseRegionList: %v", err)
	}
	if regions[0].HasDelta {
		t.Fatalf("expected no delta when column is absent")
	}
}

func TestParseBoolVocabulary(t *testing.T) {
	truthy := []string{"true", "Yes", "1", "T", "y"}
	falsy := []string{"false", "No", "0", "F", "n"}
	for _, s := range truthy {
		v, ok := ParseBool(s)
		if !ok || !v {
			t.Fatalf("expected %q truthy", s)
		}
	}
	for _, s := range falsy {
		v, ok := ParseBool(s)
		if !ok || v {
			t.Fatalf("expected %q falsy", s)
		}
	}
	if _, ok := ParseBool("maybe"); ok {
		t.Fatalf("expected unrecognized value to report !ok")
	}
}
