package regiontest

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
)

func mustRegion(t *testing.T, label, contig string, start, end int) inputs.RegionSpec {
	t.Helper()
	regions, err := inputs.ParseRegionList(writeRegionList(t, label, contig, start, end))
	if err != nil {
		t.Fatalf("ParseRegionList: %v", err)
	}
	return regions[0]
}

func writeRegionList(t *testing.T, label, contig string, start, end int) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "regions.tsv")
	line := label + "\t" + contig + "\t" + itoa(start) + "-" + itoa(end) + "\t\n"
	if err := os.WriteFile(path, []byte(line), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	return path
}

func itoa(n int) string {
	if n == 0 {
		return "0"
	}
	neg := n < 0
	if neg {
		n = -n
	}
	var buf [20]byte
	i := len(buf)
	for n > 0 {
		i--
		buf[i] = byte('0' + n%10)
		n /= 10
	}
	if neg {
		i--
		buf[i] = '-'
	}
	return string(buf[i:])
}

func TestRegionCNAveragesQualifyingBins(t *testing.T) {
	region := mustRegion(t, "r1", "chrA", 1, 100)
	bins := []cnBin{
		{Contig: "chrA", Mid: 10, CN: 2.0},
		{Contig: "chrA", Mid: 20, CN: 4.0},
		{Contig: "chrB", Mid: 10, CN: 100.0}, // different contig, excluded
	}
	cn, ok := regionCN(bins, region, nil)
	if !ok || cn != 3.0 {
		t.Fatalf("expected mean CN 3.0, got %v (ok=%v)", cn, ok)
	}
}

func TestRegionCNExcludesBlacklistedBins(t *testing.T) {
	region := mustRegion(t, "r1", "chrA", 1, 100)
	bins := []cnBin{
		{Contig: "chrA", Mid: 10, CN: 2.0},
		{Contig: "chrA", Mid: 20, CN: 4.0},
	}
	path := filepath.Join(t.TempDir(), "blacklist.bed")
	if err := os.WriteFile(path, []byte("chrA\t15\t25\n"), 0o644); err != nil {
		t.Fatalf("WriteFile: %v", err)
	}
	blacklist, err := coverage.LoadMask(path)
	if err != nil {
		t.Fatalf("LoadMask: %v", err)
	}

	cn, ok := regionCN(bins, region, blacklist)
	if !ok || cn != 2.0 {
		t.Fatalf("expected only the non-blacklisted bin (CN=2.0), got %v (ok=%v)", cn, ok)
	}
}
