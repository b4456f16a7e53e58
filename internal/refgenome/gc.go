package refgenome

// baseClass classifies a FASTA sequence byte: 0 = ambiguous (N and friends),
// 1 = A/T, 2 = G/C. Built once, grounded on the classification table in
// original_source/src/gc.rs (a [256]byte lookup rather than a switch per
// byte), extended here to treat lower-case bases identically to upper-case.
var baseClass = func() [256]byte {
	var t [256]byte
	for _, b := range []byte("AaTt") {
		t[b] = 1
	}
	for _, b := range []byte("GgCc") {
		t[b] = 2
	}
	return t
}()

// countBases returns the number of unambiguous bases and the number of
// G/C bases among them.
func countBases(seq string) (nUnambig, gcBases int) {
	for i := 0; i < len(seq); i++ {
		switch baseClass[seq[i]] {
		case 1:
			nUnambig++
		case 2:
			nUnambig++
			gcBases++
		}
	}
	return
}
