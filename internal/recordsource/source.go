// Package recordsource is the htslib-equivalent collaborator responsible
// for alignment record iteration, with its own internal decompression
// threading. It wraps biogo/hts for SAM/BAM, and shells out to samtools
// for CRAM, since biogo/hts has no native CRAM reader.
package recordsource

import (
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"strings"

	"github.com/biogo/hts/bam"
	"github.com/biogo/hts/sam"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// Source reads the alignment records of one sample file in file order. It
// applies no filter and does not restrict iteration to one contig.
// Closing the source releases the underlying file handle (and, for
// CRAM, the samtools subprocess).
type Source struct {
	header *sam.Header
	read   func() (*sam.Record, error)
	close  func() error
}

// Header returns the alignment file's header, giving access to the
// reference dictionary for sanity-checking against the contig list.
func (s *Source) Header() *sam.Header { return s.header }

// Next returns the next record, or io.EOF when exhausted.
func (s *Source) Next() (*sam.Record, error) { return s.read() }

// Close releases resources held by the source.
func (s *Source) Close() error {
	if s.close == nil {
		return nil
	}
	return s.close()
}

type cramPipe struct {
	io.ReadCloser
	cmd *exec.Cmd
}

func (p *cramPipe) Close() error {
	if err := p.ReadCloser.Close(); err != nil {
		return err
	}
	return p.cmd.Wait()
}

// Open opens a SAM, BAM, or CRAM file and returns a Source that iterates
// its records. htsThreads sets the number of decompression helper threads
// biogo/hts/bam spins up internally.
func Open(path string, reference string, htsThreads int) (*Source, error) {
	switch strings.ToLower(filepath.Ext(path)) {
	case ".bam":
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.WrapFile(errs.IO, path, err)
		}
		br, err := bam.NewReader(f, htsThreads)
		if err != nil {
			f.Close()
			return nil, errs.WrapFile(errs.Data, path, err)
		}
		return &Source{
			header: br.Header(),
			read:   br.Read,
			close: func() error {
				br.Close()
				return f.Close()
			},
		}, nil
	case ".cram":
		if reference == "" {
			return nil, errs.New(errs.Config, "a reference FASTA is required for CRAM input "+path)
		}
		cmd := exec.Command("samtools", "view", "-T", reference, "-b", "-u", "-h", path)
		cmd.Stderr = os.Stderr
		pipe, err := cmd.StdoutPipe()
		if err != nil {
			return nil, errs.WrapFile(errs.IO, path, err)
		}
		if err := cmd.Start(); err != nil {
			pipe.Close()
			return nil, errs.WrapFile(errs.IO, path, err)
		}
		cp := &cramPipe{ReadCloser: pipe, cmd: cmd}
		br, err := bam.NewReader(cp, htsThreads)
		if err != nil {
			cp.Close()
			return nil, errs.WrapFile(errs.Data, path, err)
		}
		return &Source{
			header: br.Header(),
			read:   br.Read,
			close: func() error {
				br.Close()
				return cp.Close()
			},
		}, nil
	case ".sam":
		f, err := os.Open(path)
		if err != nil {
			return nil, errs.WrapFile(errs.IO, path, err)
		}
		sr, err := sam.NewReader(f)
		if err != nil {
			f.Close()
			return nil, errs.WrapFile(errs.Data, path, err)
		}
		return &Source{
			header: sr.Header(),
			read:   sr.Read,
			close:  f.Close,
		}, nil
	default:
		return nil, errs.New(errs.Config, fmt.Sprintf("unrecognized alignment file extension for %s", path))
	}
}
