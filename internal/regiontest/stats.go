// Package regiontest implements the one-sample t-test and ctDNA-fraction
// inversion used to score a test sample's regions against a control group.
package regiontest

import (
	"math"

	"gonum.org/v1/gonum/floats"
	"gonum.org/v1/gonum/stat/distuv"
)

// RegionStat is one (sample, region) row, computed before FDR correction
// is applied across the whole run.
type RegionStat struct {
	Sample        string
	RegionLabel   string
	NControls     int
	SDControls    float64
	CNEstimate    float64
	HasDelta      bool
	CtDNAFraction float64
	CtDNACILow    float64
	CtDNACIHigh   float64
	PValue        float64
}

func mean(v []float64) float64 {
	return floats.Sum(v) / float64(len(v))
}

func sampleSD(v []float64, m float64) float64 {
	if len(v) < 2 {
		return 0
	}
	var ss float64
	for _, x := range v {
		d := x - m
		ss += d * d
	}
	return math.Sqrt(ss / float64(len(v)-1))
}

// Evaluate computes the t-statistic, p-value, and (when delta is
// nonzero) the ctDNA-fraction estimate and 95% CI for one test sample in
// one region against its matched control distribution.
func Evaluate(sample, regionLabel string, testCN float64, controlCNs []float64, delta int, hasDelta bool) RegionStat {
	n := len(controlCNs)
	mu := mean(controlCNs)
	sigma := sampleSD(controlCNs, mu)

	stat := RegionStat{
		Sample:      sample,
		RegionLabel: regionLabel,
		NControls:   n,
		SDControls:  sigma,
		CNEstimate:  testCN,
		HasDelta:    hasDelta && delta != 0,
	}

	df := float64(n - 1)
	se := sigma * math.Sqrt(1+1/float64(n))
	var t float64
	if se > 0 && df > 0 {
		t = (testCN - mu) / se
		dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
		stat.PValue = 2 * (1 - dist.CDF(math.Abs(t)))
	} else {
		stat.PValue = math.NaN()
	}

	if stat.HasDelta {
		d := float64(delta)
		fhat := (testCN - mu) / d
		stat.CtDNAFraction = clip01(fhat)
		if se > 0 && df > 0 {
			dist := distuv.StudentsT{Mu: 0, Sigma: 1, Nu: df}
			crit := dist.Quantile(0.975)
			margin := crit * se / math.Abs(d)
			stat.CtDNACILow = clip01(fhat - margin)
			stat.CtDNACIHigh = clip01(fhat + margin)
		}
	}
	return stat
}

func clip01(v float64) float64 {
	if v < 0 {
		return 0
	}
	if v > 1 {
		return 1
	}
	return v
}
