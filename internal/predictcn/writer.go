package predictcn

import (
	"bufio"
	"fmt"
	"os"
	"path/filepath"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/gcmodel"
)

// WriteContig writes one sample's one contig output file atomically: the
// full contents are staged at "<path>.tmp" and renamed into place only on
// success, so a crash mid-write never leaves a partial file visible.
func WriteContig(dir, sample, prefix, contig string, bins []gcmodel.BinInput, model *gcmodel.Model) error {
	sampleDir := filepath.Join(dir, sample)
	if err := os.MkdirAll(sampleDir, 0o755); err != nil {
		return errs.WrapFile(errs.IO, sampleDir, err)
	}
	finalPath := filepath.Join(sampleDir, fmt.Sprintf("%s_%s.txt", prefix, contig))
	tmpPath := finalPath + ".tmp"

	f, err := os.Create(tmpPath)
	if err != nil {
		return errs.WrapFile(errs.IO, tmpPath, err)
	}
	w := bufio.NewWriter(f)
	for _, b := range bins {
		if !b.Valid || !b.GCValid {
			continue
		}
		cn := model.CN(b.MeanCoverage, b.GC)
		if _, err := fmt.Fprintf(w, "%s\t%d\t%.4f\t%.4f\n", contig, b.Mid, cn, b.MeanCoverage); err != nil {
			f.Close()
			os.Remove(tmpPath)
			return errs.WrapFile(errs.IO, tmpPath, err)
		}
	}
	if err := w.Flush(); err != nil {
		f.Close()
		os.Remove(tmpPath)
		return errs.WrapFile(errs.IO, tmpPath, err)
	}
	if err := f.Close(); err != nil {
		os.Remove(tmpPath)
		return errs.WrapFile(errs.IO, tmpPath, err)
	}
	if err := os.Rename(tmpPath, finalPath); err != nil {
		os.Remove(tmpPath)
		return errs.WrapFile(errs.IO, finalPath, err)
	}
	return nil
}
