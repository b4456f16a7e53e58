package refgenome

import (
	"bufio"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// readFaiLengths parses the ".fai"-style index adjacent to a reference
// FASTA and returns contig name -> length in bases. Columns are NAME,
// LENGTH, OFFSET, LINEBASES, LINEWIDTH (samtools faidx format); only the
// first two are needed here.
func readFaiLengths(fastaPath string) (map[string]int, error) {
	faiPath := fastaPath + ".fai"
	f, err := os.Open(faiPath)
	if err != nil {
		return nil, errs.WrapFile(errs.Config, faiPath, fmt.Errorf("missing reference index: %w", err))
	}
	defer f.Close()

	lengths := make(map[string]int)
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		fields := strings.Split(sc.Text(), "\t")
		if len(fields) < 2 {
			continue
		}
		n, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errs.WrapLine(errs.Config, faiPath, lineNo, fmt.Errorf("bad length column: %w", err))
		}
		lengths[fields[0]] = n
	}
	if err := sc.Err(); err != nil {
		return nil, errs.WrapFile(errs.IO, faiPath, err)
	}
	return lengths, nil
}
