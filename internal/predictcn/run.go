package predictcn

import (
	"io"
	"log/slog"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/gcmodel"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/pipeline"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/recordsource"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/refgenome"
)

// Run executes one PredictCN invocation end to end: given the shared
// reference/bin layout, built once by the caller, it schedules a (sample, contig) read job
// per sample per contig, finalizing each sample's GC model and writing
// its output files as soon as all of its contigs have been aggregated.
func Run(cfg Config, layout *refgenome.Layout, samples []inputs.PredictSample, logger *slog.Logger) error {
	if logger == nil {
		logger = slog.New(slog.NewTextHandler(io.Discard, nil))
	}
	if err := cfg.Validate(func(msg string) { logger.Warn(msg) }); err != nil {
		return err
	}

	contigNames := make([]string, len(layout.Contigs))
	for i, c := range layout.Contigs {
		contigNames[i] = c.Name
	}

	contigsBySample := make([][]string, len(samples))
	contigsPerSample := make(map[int]int, len(samples))
	for i := range samples {
		contigsBySample[i] = contigNames
		contigsPerSample[i] = len(contigNames)
	}
	jobs := pipeline.Interleave(contigsBySample)

	filters := cfg.Filters()

	read := func(job pipeline.ReadJob) (any, error) {
		sample := samples[job.SampleIdx]
		contig, ok := layout.Contig(job.Contig)
		if !ok {
			return nil, errs.New(errs.Config, "unknown contig "+job.Contig)
		}
		bins := layout.Bins(job.Contig)
		agg := coverage.NewAggregator(contig, bins, layout.BlockSize, filters, cfg.Mask)

		for _, path := range sample.Paths {
			src, err := recordsource.Open(path, cfg.FastaPath, cfg.HTSThreads)
			if err != nil {
				return nil, err
			}
			for {
				rec, err := src.Next()
				if err != nil {
					if err == io.EOF {
						break
					}
					src.Close()
					return nil, errs.WrapFile(errs.Data, path, err)
				}
				if rec.Ref == nil || rec.Ref.Name() != job.Contig {
					continue
				}
				agg.Add(rec)
			}
			src.Close()
		}
		logger.Debug("aggregated contig", "sample", sample.Name, "contig", job.Contig)
		return agg.Finalize(), nil
	}

	finalize := func(sampleIdx int, results map[string]any) error {
		sample := samples[sampleIdx]
		var allBins []gcmodel.BinInput
		perContig := make(map[string][]gcmodel.BinInput, len(results))
		for _, c := range layout.Contigs {
			res, ok := results[c.Name].([]coverage.BinResult)
			if !ok {
				continue
			}
			bins := gcmodel.FromCoverage(c.Name, c.UseForGC, res)
			perContig[c.Name] = bins
			allBins = append(allBins, bins...)
		}

		model := gcmodel.Fit(allBins)
		if model.Degenerate() {
			logger.Warn("degenerate GC model; emitting NaN copy numbers", "sample", sample.Name)
		}
		for _, c := range layout.Contigs {
			if err := WriteContig(cfg.OutDir, sample.Name, cfg.Prefix, c.Name, perContig[c.Name], model); err != nil {
				return err
			}
		}
		logger.Info("finished sample", "sample", sample.Name)
		return nil
	}

	sched := pipeline.New(cfg.Readers, cfg.Threads, read, finalize)
	return sched.Run(jobs, contigsPerSample)
}
