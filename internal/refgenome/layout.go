package refgenome

import (
	"fmt"
	"sync"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
)

// unambigThreshold is the minimum fraction of a bin's reference length
// that must be unambiguous for the bin's GC fraction to be considered
// meaningful.
const unambigThreshold = 0.5

// Layout is the read-only, shared reference/bin geometry built once per
// run and consulted by every sample's Coverage Aggregator.
type Layout struct {
	BlockSize int
	Contigs   []Contig
	bins      map[string][]Bin
}

// Contig looks up a contig by name.
func (l *Layout) Contig(name string) (*Contig, bool) {
	for i := range l.Contigs {
		if l.Contigs[i].Name == name {
			return &l.Contigs[i], true
		}
	}
	return nil, false
}

// Bins returns the ordered, contiguous, non-overlapping bins for a contig.
func (l *Layout) Bins(contig string) []Bin {
	return l.bins[contig]
}

// Build constructs the Layout: contig lengths come from the FASTA's .fai
// index, bins tile [0, length) in blockSize windows (the last bin may be
// shorter), and each bin's GC fraction is computed by streaming reference
// bases through the indexed FASTA reader. nt controls how many contigs are
// processed concurrently, each through its own FastaReader handle, mirroring
// original_source/src/gc.rs's choice between single- and multi-threaded
// reference reading.
func Build(specs []inputs.ContigSpec, fastaPath string, blockSize int, nt int, open func() (FastaReader, error)) (*Layout, error) {
	if blockSize <= 0 {
		return nil, errs.New(errs.Config, "block size must be positive")
	}
	lengths, err := readFaiLengths(fastaPath)
	if err != nil {
		return nil, err
	}

	l := &Layout{BlockSize: blockSize, bins: make(map[string][]Bin, len(specs))}
	l.Contigs = make([]Contig, len(specs))
	for i, spec := range specs {
		length, ok := lengths[spec.Name]
		if !ok {
			return nil, errs.New(errs.Config, fmt.Sprintf("contig %q not found in reference index", spec.Name))
		}
		l.Contigs[i] = Contig{Name: spec.Name, Length: length, UseForGC: spec.UseForGC}
	}

	if nt < 1 {
		nt = 1
	}
	if nt > len(l.Contigs) {
		nt = len(l.Contigs)
	}

	jobs := make(chan int, len(l.Contigs))
	for i := range l.Contigs {
		jobs <- i
	}
	close(jobs)

	results := make([][]Bin, len(l.Contigs))
	errCh := make(chan error, nt)
	var wg sync.WaitGroup
	for w := 0; w < nt; w++ {
		fa, err := open()
		if err != nil {
			return nil, errs.WrapFile(errs.Config, fastaPath, err)
		}
		wg.Add(1)
		go func(fa FastaReader) {
			defer wg.Done()
			for idx := range jobs {
				ctg := &l.Contigs[idx]
				bins, err := buildContigBins(fa, ctg, blockSize)
				if err != nil {
					errCh <- err
					return
				}
				results[idx] = bins
			}
		}(fa)
	}
	wg.Wait()
	close(errCh)
	if err, ok := <-errCh; ok {
		return nil, err
	}

	for i, ctg := range l.Contigs {
		l.bins[ctg.Name] = results[i]
	}
	return l, nil
}

func buildContigBins(fa FastaReader, ctg *Contig, blockSize int) ([]Bin, error) {
	n := (ctg.Length + blockSize - 1) / blockSize
	bins := make([]Bin, n)
	for i := 0; i < n; i++ {
		start := i * blockSize
		end := start + blockSize
		if end > ctg.Length {
			end = ctg.Length
		}
		seq, err := fa.Get(ctg.Name, start, end)
		if err != nil {
			return nil, errs.WrapFile(errs.IO, ctg.Name, fmt.Errorf("fetching reference bases [%d,%d): %w", start, end, err))
		}
		nUnambig, gcBases := countBases(seq)
		length := end - start
		valid := float64(nUnambig) >= unambigThreshold*float64(length)
		gc := 0.0
		if valid && nUnambig > 0 {
			gc = float64(gcBases) / float64(nUnambig)
		}
		bins[i] = Bin{
			Contig:   ctg,
			Start:    start,
			End:      end,
			Mid:      (start + end) / 2,
			GC:       gc,
			Valid:    valid,
			NRefLen:  length,
			NUnambig: nUnambig,
		}
	}
	return bins, nil
}
