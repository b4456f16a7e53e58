package inputs

import (
	"fmt"
	"sort"
	"strconv"
	"strings"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// Range is a half-open [Start, End) sub-range of a region.
type Range struct {
	Start, End int
}

// RegionSpec is one line of a RegionTest region list.
type RegionSpec struct {
	Label           string
	Contig          string
	Ranges          []Range
	ExpectedDeltaCN int
	HasDelta        bool
}

// ParseRegionList reads the region list format
// "label<TAB>contig<TAB>ranges[<TAB>expected_delta_cn]", 3-4 columns.
// ranges is a comma-separated list of 1-based inclusive "start-end" pairs,
// converted here to sorted, non-overlapping half-open ranges.
func ParseRegionList(path string) ([]RegionSpec, error) {
	var out []RegionSpec
	err := EachLine(path, func(lineNo int, fields []string) error {
		if len(fields) < 3 {
			return errs.WrapLine(errs.InputFormat, path, lineNo,
				fmt.Errorf("expected at least 3 columns, got %d", len(fields)))
		}
		ranges, err := parseRanges(fields[2])
		if err != nil {
			return errs.WrapLine(errs.InputFormat, path, lineNo, err)
		}
		spec := RegionSpec{Label: fields[0], Contig: fields[1], Ranges: ranges}
		if len(fields) >= 4 && strings.TrimSpace(fields[3]) != "" {
			d, err := strconv.Atoi(strings.TrimSpace(fields[3]))
			if err != nil {
				return errs.WrapLine(errs.InputFormat, path, lineNo,
					fmt.Errorf("invalid expected_delta_cn %q: %w", fields[3], err))
			}
			spec.ExpectedDeltaCN = d
			spec.HasDelta = d != 0
		}
		out = append(out, spec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errs.WrapFile(errs.InputFormat, path, fmt.Errorf("no regions found"))
	}
	return out, nil
}

// parseRanges parses "start-end,start-end,..." (1-based inclusive) and
// returns sorted, merged, half-open ranges.
func parseRanges(s string) ([]Range, error) {
	var ranges []Range
	for _, tok := range strings.Split(s, ",") {
		tok = strings.TrimSpace(tok)
		if tok == "" {
			continue
		}
		parts := strings.SplitN(tok, "-", 2)
		if len(parts) != 2 {
			return nil, fmt.Errorf("illegal range %q", tok)
		}
		a, err := strconv.Atoi(strings.TrimSpace(parts[0]))
		if err != nil {
			return nil, fmt.Errorf("illegal range %q: %w", tok, err)
		}
		b, err := strconv.Atoi(strings.TrimSpace(parts[1]))
		if err != nil {
			return nil, fmt.Errorf("illegal range %q: %w", tok, err)
		}
		if b < a {
			return nil, fmt.Errorf("range error - %d > %d", a, b)
		}
		// 1-based inclusive -> half-open.
		ranges = append(ranges, Range{Start: a - 1, End: b})
	}
	if len(ranges) == 0 {
		return nil, fmt.Errorf("no valid ranges found in %q", s)
	}
	sort.Slice(ranges, func(i, j int) bool { return ranges[i].Start < ranges[j].Start })
	merged := ranges[:1]
	for _, r := range ranges[1:] {
		last := &merged[len(merged)-1]
		if r.Start <= last.End {
			if r.End > last.End {
				last.End = r.End
			}
			continue
		}
		merged = append(merged, r)
	}
	return merged, nil
}

// Contains reports whether pos falls within any of the region's ranges.
func (r RegionSpec) Contains(pos int) bool {
	for _, rng := range r.Ranges {
		if pos >= rng.Start && pos < rng.End {
			return true
		}
	}
	return false
}
