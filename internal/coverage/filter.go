package coverage

import "github.com/biogo/hts/sam"

// Filters holds the per-record admission criteria for a Coverage
// Aggregator instance.
type Filters struct {
	MapQThreshold       byte
	QualThreshold       byte
	KeepDuplicates      bool
	IgnoreDuplicateFlag bool
	MinTemplateLen      int
	MaxTemplateLen      int
}

// admitRecord applies every per-record filter that does not require
// mate-overlap bookkeeping. Overlap de-duplication is handled separately
// by the fragment tracker in aggregator.go, since it needs state shared
// across both reads of a pair.
func (f Filters) admitRecord(r *sam.Record) bool {
	if r.MapQ < f.MapQThreshold {
		return false
	}
	if r.Flags&(sam.Secondary|sam.Supplementary|sam.Unmapped) != 0 {
		return false
	}
	if !f.KeepDuplicates && !f.IgnoreDuplicateFlag && r.Flags&sam.Duplicate != 0 {
		return false
	}
	if f.MinTemplateLen > 0 || f.MaxTemplateLen > 0 {
		tlen := r.TempLen
		if tlen < 0 {
			tlen = -tlen
		}
		if f.MinTemplateLen > 0 && tlen < f.MinTemplateLen {
			return false
		}
		if f.MaxTemplateLen > 0 && tlen > f.MaxTemplateLen {
			return false
		}
	}
	return true
}

// qualifiesFragmentOverlap reports whether r is part of a properly-paired
// fragment whose mate lands on the same reference, the precondition for
// overlap de-duplication: both endpoints of the fragment must be
// available before the second mate can dedupe against the first.
func qualifiesFragmentOverlap(r *sam.Record) bool {
	return r.Flags&sam.Paired != 0 && r.Flags&sam.ProperPair != 0 &&
		r.Flags&sam.MateUnmapped == 0 && r.MateRef != nil && r.Ref != nil &&
		r.MateRef.ID() == r.Ref.ID()
}
