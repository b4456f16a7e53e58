package inputs

import (
	"fmt"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// ContigSpec is one line of a PredictCN/RegionTest contig list.
type ContigSpec struct {
	Name     string
	UseForGC bool
}

// ParseContigList reads the contig list format
// "contig_name[<TAB>use_for_gc]", 1-2 columns, no header. A missing
// use_for_gc column defaults to truthy.
func ParseContigList(path string) ([]ContigSpec, error) {
	var out []ContigSpec
	err := EachLine(path, func(lineNo int, fields []string) error {
		spec := ContigSpec{Name: fields[0], UseForGC: true}
		if len(fields) >= 2 && fields[1] != "" {
			v, ok := ParseBool(fields[1])
			if !ok {
				return errs.WrapLine(errs.InputFormat, path, lineNo,
					fmt.Errorf("unrecognized use_for_gc value %q", fields[1]))
			}
			spec.UseForGC = v
		}
		out = append(out, spec)
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errs.WrapFile(errs.InputFormat, path, fmt.Errorf("no contigs found"))
	}
	return out, nil
}
