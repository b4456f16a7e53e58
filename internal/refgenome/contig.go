package refgenome

// Contig is one reference sequence eligible for binning.
//
// UseForGC marks the contig as an "autosome" for the purposes of GC-model
// training and the CN=2 rescale anchor.
type Contig struct {
	Name     string
	Length   int
	UseForGC bool
}

// Bin is a fixed-size, half-open window of a Contig. Bins are immutable
// once the Layout is built.
type Bin struct {
	Contig   *Contig
	Start    int
	End      int
	Mid      int
	GC       float64 // fraction of G/C among unambiguous bases; meaningless if !Valid
	Valid    bool    // false when fewer than half the bin's bases are unambiguous
	NRefLen  int     // End - Start, the reference length of the bin
	NUnambig int     // count of unambiguous (A/C/G/T) reference bases in the bin
}
