package refgenome

import "github.com/brentp/faidx"

// FastaReader is the indexed-random-access collaborator for reference
// FASTA lookups, backed in production by *faidx.Faidx and kept as an
// interface so tests can supply an in-memory fake.
type FastaReader interface {
	// Get returns the reference bases in [start, end) for chrom, 0-based
	// half-open, the same convention brentp/faidx uses for Stats (see
	// brentp-goleft/dcnv/dcnv.go's fa.Stats(chrom, s, e) calls).
	Get(chrom string, start, end int) (string, error)
}

// OpenFasta opens a block-gzip or plain FASTA with an adjacent samtools
// faidx index for indexed random access, grounded on
// brentp-goleft/dcnv/dcnv.go's use of the same package.
func OpenFasta(path string) (FastaReader, error) {
	return faidx.New(path)
}
