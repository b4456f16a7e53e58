package predictcn

import (
	"runtime"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// Config holds every PredictCN run parameter: the external CLI interface
// plus the concurrency bounds governing the read/finalize pipeline.
type Config struct {
	FastaPath string
	BlockSize int
	OutDir    string
	Prefix    string

	// Mask is the parsed --exclude-bed exclusion mask, nil by default
	// (no declared exclusion mask).
	Mask *coverage.Mask

	MapQThreshold       byte
	QualThreshold       byte
	KeepDuplicates      bool
	IgnoreDuplicateFlag bool
	MinTemplateLen      int
	MaxTemplateLen      int

	Threads    int // T: worker slots
	Readers    int // R: reader slots
	HTSThreads int // per-reader decompression helper threads
}

// DefaultConfig returns the default run parameters before flag overrides
// are applied.
func DefaultConfig() Config {
	t := runtime.GOMAXPROCS(0)
	return Config{
		BlockSize:  10000,
		Prefix:     "cov",
		OutDir:     ".",
		Threads:    t,
		Readers:    (t + 3) / 4,
		HTSThreads: t,
	}
}

// Filters adapts the run configuration into coverage.Filters.
func (c Config) Filters() coverage.Filters {
	return coverage.Filters{
		MapQThreshold:       c.MapQThreshold,
		QualThreshold:       c.QualThreshold,
		KeepDuplicates:      c.KeepDuplicates,
		IgnoreDuplicateFlag: c.IgnoreDuplicateFlag,
		MinTemplateLen:      c.MinTemplateLen,
		MaxTemplateLen:      c.MaxTemplateLen,
	}
}

// Validate checks the run configuration, warning (not failing) when
// readers*hts_threads would oversubscribe the configured worker threads.
func (c Config) Validate(warn func(string)) error {
	if c.BlockSize <= 0 {
		return errs.New(errs.Config, "block size must be positive")
	}
	if c.Threads < 1 || c.Readers < 1 {
		return errs.New(errs.Config, "threads and readers must be at least 1")
	}
	if c.Readers*c.HTSThreads > c.Threads && warn != nil {
		warn("readers * hts-threads exceeds worker threads; this run may oversubscribe the machine")
	}
	return nil
}
