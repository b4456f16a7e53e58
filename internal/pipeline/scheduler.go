// Package pipeline implements the reader/worker scheduler that turns a
// set of (sample, contig) read jobs into finalized per-sample output,
// adapted from the job-request/job-response protocol in
// original_source/src/controller.rs (ReadData / NormalizeSample /
// OutputSampleCtg jobs coordinated by a single controller) into a
// channel-and-goroutine shape idiomatic to Go, in the style already
// established by refgenome.Build's worker pool.
package pipeline

import (
	"sync"
	"sync/atomic"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
)

// ReadJob is one (sample, contig) unit of read work.
type ReadJob struct {
	SampleIdx int
	Contig    string
}

// Reader performs one ReadJob, producing an opaque per-contig result that
// is later handed to Finalize once every contig for a sample has arrived.
type Reader func(job ReadJob) (any, error)

// Finalizer runs once per sample, after all of that sample's ReadJobs
// have completed, observing only that sample's collected results: the
// GC model fit for sample S must observe all of S's contig results and
// nothing else.
type Finalizer func(sampleIdx int, results map[string]any) error

// Scheduler interleaves (sample, contig) read jobs across R reader slots
// and hands each sample to one of T worker slots as soon as every one of
// its contigs has been read.
type Scheduler struct {
	readers  int
	workers  int
	read     Reader
	finalize Finalizer
}

// New constructs a Scheduler. readers and workers are the R and T slot
// counts; both are clamped to at least 1.
func New(readers, workers int, read Reader, finalize Finalizer) *Scheduler {
	if readers < 1 {
		readers = 1
	}
	if workers < 1 {
		workers = 1
	}
	return &Scheduler{readers: readers, workers: workers, read: read, finalize: finalize}
}

// Run executes every ReadJob in jobs, grouped by SampleIdx, finalizing
// each sample as soon as its contigs are complete. Jobs for different
// samples are interleaved across the reader pool by construction: the
// caller supplies jobs pre-interleaved (e.g. round-robin across samples)
// and Run preserves that order when admitting work to reader slots, so
// I/O for multiple samples is smoothed rather than serialized. A single
// error from any reader or finalizer cancels the remaining work and is
// returned; partially-finalized samples are the finalizer's
// responsibility to avoid publishing (atomic temp-file-then-rename).
func (s *Scheduler) Run(jobs []ReadJob, contigsPerSample map[int]int) error {
	type readOutcome struct {
		job ReadJob
		res any
		err error
	}

	jobCh := make(chan ReadJob, len(jobs))
	for _, j := range jobs {
		jobCh <- j
	}
	close(jobCh)

	// halted is set by the first error; later jobs and finalizes are skipped.
	var halted atomic.Bool

	outcomes := make(chan readOutcome, len(jobs))
	var readersWG sync.WaitGroup
	for i := 0; i < s.readers; i++ {
		readersWG.Add(1)
		go func() {
			defer readersWG.Done()
			for job := range jobCh {
				if halted.Load() {
					continue
				}
				res, err := s.read(job)
				outcomes <- readOutcome{job, res, err}
			}
		}()
	}
	go func() {
		readersWG.Wait()
		close(outcomes)
	}()

	pending := make(map[int]int, len(contigsPerSample))
	for idx, n := range contigsPerSample {
		pending[idx] = n
	}
	collected := make(map[int]map[string]any, len(contigsPerSample))

	type finalizeJob struct {
		sampleIdx int
		results   map[string]any
	}
	finalizeCh := make(chan finalizeJob, len(contigsPerSample))
	var workersWG sync.WaitGroup
	errCh := make(chan error, s.workers+1)
	for i := 0; i < s.workers; i++ {
		workersWG.Add(1)
		go func() {
			defer workersWG.Done()
			for fj := range finalizeCh {
				if halted.Load() {
					continue
				}
				if err := s.finalize(fj.sampleIdx, fj.results); err != nil {
					halted.Store(true)
					errCh <- err
				}
			}
		}()
	}

	var firstErr error
	for o := range outcomes {
		if o.err != nil {
			halted.Store(true)
			if firstErr == nil {
				firstErr = o.err
			}
			continue
		}
		m, ok := collected[o.job.SampleIdx]
		if !ok {
			m = make(map[string]any, pending[o.job.SampleIdx])
			collected[o.job.SampleIdx] = m
		}
		m[o.job.Contig] = o.res
		pending[o.job.SampleIdx]--
		if pending[o.job.SampleIdx] == 0 {
			delete(collected, o.job.SampleIdx)
			finalizeCh <- finalizeJob{sampleIdx: o.job.SampleIdx, results: m}
		}
	}
	close(finalizeCh)
	workersWG.Wait()
	close(errCh)

	for err := range errCh {
		if firstErr == nil {
			firstErr = err
		}
	}
	if firstErr != nil {
		return errs.Wrap(errs.Data, firstErr)
	}
	return nil
}

// Interleave reorders per-sample contig lists into a single job slice
// that visits sample 0's first contig, sample 1's first contig, ..., then
// each sample's second contig, and so on, so that multiple samples
// progress concurrently instead of being processed strictly in order.
func Interleave(contigsBySample [][]string) []ReadJob {
	var jobs []ReadJob
	max := 0
	for _, cs := range contigsBySample {
		if len(cs) > max {
			max = len(cs)
		}
	}
	for round := 0; round < max; round++ {
		for sampleIdx, cs := range contigsBySample {
			if round < len(cs) {
				jobs = append(jobs, ReadJob{SampleIdx: sampleIdx, Contig: cs[round]})
			}
		}
	}
	return jobs
}
