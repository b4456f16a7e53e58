// Package inputs parses the small TSV control files shared by predictcn and
// regiontest: sample lists, contig lists, and region lists.
package inputs

import (
	"io"
	"strings"

	"github.com/brentp/xopen"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// EachLine opens path with xopen (transparent gzip/bgzf/xz/zstd/bzip2
// decompression) and calls fn for every non-blank, non-comment line with
// its 1-based line number and its tab-split fields. Exported so other
// packages (e.g. coverage's BED mask loader) can reuse the same parsing
// conventions as the sample/contig/region list readers below.
func EachLine(path string, fn func(lineNo int, fields []string) error) error {
	rdr, err := xopen.Ropen(path)
	if err != nil {
		return errs.WrapFile(errs.IO, path, err)
	}
	defer rdr.Close()

	lineNo := 0
	for {
		raw, err := rdr.ReadString('\n')
		if err != nil && err != io.EOF {
			return errs.WrapFile(errs.IO, path, err)
		}
		done := err == io.EOF
		line := strings.TrimRight(raw, "\r\n")
		if line == "" && done {
			break
		}
		lineNo++
		if line != "" && !strings.HasPrefix(line, "#") {
			fields := strings.Split(line, "\t")
			if ferr := fn(lineNo, fields); ferr != nil {
				return ferr
			}
		}
		if done {
			break
		}
	}
	return nil
}

// ParseBool implements spec's truthy/falsy vocabulary for the contig list's
// use_for_gc column: true|yes|1|T|Y vs false|no|0|F|N, case-insensitive.
func ParseBool(s string) (bool, bool) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "true", "yes", "1", "t", "y":
		return true, true
	case "false", "no", "0", "f", "n":
		return false, true
	default:
		return false, false
	}
}
