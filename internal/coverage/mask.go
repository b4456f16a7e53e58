package coverage

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
)

// Mask is a declared exclusion mask over reference positions, excluded
// from usable_bases when present (none by default). Ranges are half-open
// and unsorted within a contig; lookups are linear, acceptable given
// masks are small relative to a genome.
type Mask struct {
	byContig map[string][]span
}

// Excludes reports whether a reference position on contig is masked out.
func (m *Mask) Excludes(contig string, pos int) bool {
	if m == nil {
		return false
	}
	for _, s := range m.byContig[contig] {
		if s.contains(pos) {
			return true
		}
	}
	return false
}

// excludedCount returns how many positions in [start, end) on contig the
// mask covers, clamping each masked span to the query range.
func (m *Mask) excludedCount(contig string, start, end int) int {
	if m == nil {
		return 0
	}
	total := 0
	for _, s := range m.byContig[contig] {
		lo, hi := s.start, s.end
		if lo < start {
			lo = start
		}
		if hi > end {
			hi = end
		}
		if hi > lo {
			total += hi - lo
		}
	}
	return total
}

// LoadMask parses a 3-column BED (chrom, start, end; 0-based half-open) via
// the same xopen-backed line reader the rest of internal/inputs uses, so a
// mask can be gzip/bgzf/xz/zstd/bzip2 compressed transparently.
func LoadMask(path string) (*Mask, error) {
	m := &Mask{byContig: make(map[string][]span)}
	err := inputs.EachLine(path, func(lineNo int, fields []string) error {
		if len(fields) < 3 {
			return errs.WrapLine(errs.InputFormat, path, lineNo,
				fmt.Errorf("expected at least 3 BED columns, got %d", len(fields)))
		}
		start, err := strconv.Atoi(fields[1])
		if err != nil {
			return errs.WrapLine(errs.InputFormat, path, lineNo, fmt.Errorf("bad start: %w", err))
		}
		end, err := strconv.Atoi(fields[2])
		if err != nil {
			return errs.WrapLine(errs.InputFormat, path, lineNo, fmt.Errorf("bad end: %w", err))
		}
		chrom := strings.TrimSpace(fields[0])
		m.byContig[chrom] = append(m.byContig[chrom], span{start, end})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return m, nil
}
