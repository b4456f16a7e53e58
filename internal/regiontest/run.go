package regiontest

import (
	"fmt"
	"io"

	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/coverage"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/errs"
	"github.com/CenterForMedicalGeneticsGhent/liquidbin/internal/inputs"
)

// Config holds one RegionTest run's parameters.
type Config struct {
	InputDir    string
	InputPrefix string

	// Blacklist excludes bins from both the control distribution and the
	// test estimate for any region they intersect, nil by default.
	Blacklist *coverage.Mask
}

// Run loads every sample's PredictCN output, evaluates each region for
// each test sample against its matched control distribution, applies
// Benjamini-Hochberg correction across every (sample, region) pair
// tested in the run, and writes the TSV report to w.
func Run(cfg Config, samples []inputs.RegionSample, regions []inputs.RegionSpec, w io.Writer) error {
	sampleBins := make(map[string][]cnBin, len(samples))
	for _, s := range samples {
		bins, err := LoadSampleCN(cfg.InputDir, s.Name, cfg.InputPrefix)
		if err != nil {
			return err
		}
		sampleBins[s.Name] = bins
	}

	var controls, tests []inputs.RegionSample
	for _, s := range samples {
		if s.Role == inputs.RoleControl {
			controls = append(controls, s)
		} else {
			tests = append(tests, s)
		}
	}

	var stats []RegionStat
	for _, region := range regions {
		var controlCNs []float64
		for _, c := range controls {
			if cn, ok := regionCN(sampleBins[c.Name], region, cfg.Blacklist); ok {
				controlCNs = append(controlCNs, cn)
			}
		}
		if len(controlCNs) == 0 {
			return errs.New(errs.Numeric, "no control samples have bins in region "+region.Label)
		}
		for _, t := range tests {
			cn, ok := regionCN(sampleBins[t.Name], region, cfg.Blacklist)
			if !ok {
				continue
			}
			stats = append(stats, Evaluate(t.Name, region.Label, cn, controlCNs, region.ExpectedDeltaCN, region.HasDelta))
		}
	}

	pvalues := make([]float64, len(stats))
	for i, s := range stats {
		pvalues[i] = s.PValue
	}
	qvalues := BenjaminiHochberg(pvalues)

	return writeReport(w, stats, qvalues)
}

func writeReport(w io.Writer, stats []RegionStat, qvalues []float64) error {
	header := "sample\tregion_label\tn_controls\tsd_controls\tcn_estimate\tctDNA_fraction\tctDNA_CI_low\tctDNA_CI_high\tp_value\tq_value\n"
	if _, err := io.WriteString(w, header); err != nil {
		return errs.Wrap(errs.IO, err)
	}
	for i, s := range stats {
		fraction, ciLow, ciHigh := "", "", ""
		if s.HasDelta {
			fraction = fmt.Sprintf("%.4f", s.CtDNAFraction)
			ciLow = fmt.Sprintf("%.4f", s.CtDNACILow)
			ciHigh = fmt.Sprintf("%.4f", s.CtDNACIHigh)
		}
		line := fmt.Sprintf("%s\t%s\t%d\t%.4f\t%.4f\t%s\t%s\t%s\t%.6g\t%.6g\n",
			s.Sample, s.RegionLabel, s.NControls, s.SDControls, s.CNEstimate,
			fraction, ciLow, ciHigh, s.PValue, qvalues[i])
		if _, err := io.WriteString(w, line); err != nil {
			return errs.Wrap(errs.IO, err)
		}
	}
	return nil
}
