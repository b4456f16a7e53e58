package inputs

import (
	"fmt"
	"strings"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// PredictSample is one line of a PredictCN sample list: a name and one or
// more input alignment paths.
type PredictSample struct {
	Name  string
	Paths []string
}

// ParsePredictSampleList reads the PredictCN sample list format
// "sample_name<TAB>path[<TAB>...]", no header, comments/blank lines
// ignored.
func ParsePredictSampleList(path string) ([]PredictSample, error) {
	var out []PredictSample
	err := EachLine(path, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return errs.WrapLine(errs.InputFormat, path, lineNo,
				fmt.Errorf("expected at least 2 columns, got %d", len(fields)))
		}
		out = append(out, PredictSample{Name: fields[0], Paths: append([]string{}, fields[1:]...)})
		return nil
	})
	if err != nil {
		return nil, err
	}
	if len(out) == 0 {
		return nil, errs.WrapFile(errs.InputFormat, path, fmt.Errorf("no samples found"))
	}
	return out, nil
}

// Role is a RegionTest sample's group membership.
type Role int

const (
	RoleControl Role = iota
	RoleTest
)

// RegionSample is one line of a RegionTest sample list: a name and a role.
type RegionSample struct {
	Name string
	Role Role
}

// ParseRegionSampleList reads the RegionTest sample list format
// "sample_name<TAB>group", group prefix-matching (case insensitive)
// "test" or "control".
func ParseRegionSampleList(path string) ([]RegionSample, error) {
	var out []RegionSample
	err := EachLine(path, func(lineNo int, fields []string) error {
		if len(fields) < 2 {
			return errs.WrapLine(errs.InputFormat, path, lineNo,
				fmt.Errorf("expected 2 columns, got %d", len(fields)))
		}
		group := strings.ToLower(strings.TrimSpace(fields[1]))
		var role Role
		switch {
		case strings.HasPrefix(group, "test"):
			role = RoleTest
		case strings.HasPrefix(group, "control"):
			role = RoleControl
		default:
			return errs.WrapLine(errs.InputFormat, path, lineNo,
				fmt.Errorf("unknown group %q, expected a test/control prefix", fields[1]))
		}
		out = append(out, RegionSample{Name: fields[0], Role: role})
		return nil
	})
	if err != nil {
		return nil, err
	}
	return out, nil
}
