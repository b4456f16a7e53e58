package regiontest

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// cnBin is one parsed line of a PredictCN output file.
type cnBin struct {
	Contig string
	Mid    int
	CN     float64
}

// LoadSampleCN reads every "<prefix>_<contig>.txt" file under
// "<dir>/<sample>/", the layout PredictCN writes, returning all of the
// sample's bins across every contig found.
func LoadSampleCN(dir, sample, prefix string) ([]cnBin, error) {
	sampleDir := filepath.Join(dir, sample)
	entries, err := os.ReadDir(sampleDir)
	if err != nil {
		return nil, errs.WrapFile(errs.Config, sampleDir, fmt.Errorf("reading sample output directory: %w", err))
	}

	var bins []cnBin
	wantPrefix := prefix + "_"
	for _, e := range entries {
		if e.IsDir() || !strings.HasPrefix(e.Name(), wantPrefix) || !strings.HasSuffix(e.Name(), ".txt") {
			continue
		}
		path := filepath.Join(sampleDir, e.Name())
		parsed, err := parseCNFile(path)
		if err != nil {
			return nil, err
		}
		bins = append(bins, parsed...)
	}
	if len(bins) == 0 {
		return nil, errs.WrapFile(errs.Config, sampleDir, fmt.Errorf("no %s* output files found", wantPrefix))
	}
	return bins, nil
}

func parseCNFile(path string) ([]cnBin, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, errs.WrapFile(errs.IO, path, err)
	}
	defer f.Close()

	var out []cnBin
	sc := bufio.NewScanner(f)
	lineNo := 0
	for sc.Scan() {
		lineNo++
		line := sc.Text()
		if line == "" {
			continue
		}
		fields := strings.Split(line, "\t")
		if len(fields) != 4 {
			return nil, errs.WrapLine(errs.InputFormat, path, lineNo,
				fmt.Errorf("expected 4 columns, got %d", len(fields)))
		}
		mid, err := strconv.Atoi(fields[1])
		if err != nil {
			return nil, errs.WrapLine(errs.InputFormat, path, lineNo, fmt.Errorf("bad bin_mid: %w", err))
		}
		cn, err := strconv.ParseFloat(fields[2], 64)
		if err != nil {
			return nil, errs.WrapLine(errs.InputFormat, path, lineNo, fmt.Errorf("bad cn_estimate: %w", err))
		}
		out = append(out, cnBin{Contig: fields[0], Mid: mid, CN: cn})
	}
	if err := sc.Err(); err != nil {
		return nil, errs.WrapFile(errs.IO, path, err)
	}
	return out, nil
}
