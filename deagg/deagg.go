/*
Copyright © 2026 the nshmp-haz-go authors.
This file is part of nshmp-haz-go.

nshmp-haz-go is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

nshmp-haz-go is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with nshmp-haz-go.  If not, see <http://www.gnu.org/licenses/>.
*/

package deagg

import (
	"context"
	"math"

	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/hazard"
	"github.com/usgs/nshmp-haz-go/site"
	"github.com/usgs/nshmp-haz-go/source"
	"github.com/usgs/nshmp-haz-go/tree"
	"github.com/usgs/nshmp-haz-go/xy"
)

// Result is one site's finished deaggregation: the IML the bins were
// computed at, the histogram itself, and every warning recorded while
// re-traversing the pipeline.
type Result struct {
	Iml      float64
	Histogram *Histogram
	Warnings []*hazard.HazardError
}

// Deaggregate implements C8: resolves the IML corresponding to
// returnPeriodYears on totalCurve by log-log interpolation, then
// re-traverses reg exactly as hazard.ComputeSiteCurve does, but instead of
// summing exceedance contributions across the IML grid it evaluates each
// rupture's contribution at the single deagg IML and bins it by
// (distance, magnitude, epsilon) and source type.
func Deaggregate(ctx context.Context, reg *source.Registry, s site.Site, imt gmm.Imt, totalCurve *xy.Sequence, returnPeriodYears float64, cfg BinConfig, trunc hazard.Truncation) (*Result, error) {
	if err := cfg.Validate(); err != nil {
		return nil, &hazard.HazardError{Kind: hazard.InputValidation, Op: "C8", Err: err}
	}

	targetRate := 1 / returnPeriodYears
	iml, err := totalCurve.InterpolateXLogLog(targetRate)
	if err != nil {
		return nil, &hazard.HazardError{Kind: hazard.InputOutOfRange, Op: "C8", Err: err}
	}

	hist := NewHistogram(cfg)
	res := &Result{Iml: iml, Histogram: hist}

	for _, ss := range reg.SourceSets() {
		select {
		case <-ctx.Done():
			return nil, &hazard.HazardError{Kind: hazard.TimedOut, Op: "C8", Err: ctx.Err()}
		default:
		}

		gmms, ok := ss.Gmms[imt]
		if !ok {
			continue
		}
		sourceType := ss.Type.String()

		for _, src := range ss.Filter(s.Location, hazard.PadKm) {
			if cs, ok := src.(source.ClusterSourceIface); ok {
				res.Warnings = append(res.Warnings, deaggCluster(hist, cs, gmms, s, ss.CutoffKm, ss.Weight, sourceType, iml, trunc)...)
				continue
			}
			rs, ok := src.(source.RuptureSource)
			if !ok {
				return nil, &hazard.HazardError{Kind: hazard.ModelIntegrity, Op: "C8",
					Err: unsupportedSourceDeaggError{id: src.ID()}}
			}
			ruptures, rerr := rs.Ruptures()
			if rerr != nil {
				return nil, &hazard.HazardError{Kind: hazard.ModelIntegrity, Op: "C8", Err: rerr}
			}
			inputs, w := hazard.BuildInputs(ruptures, s, ss.CutoffKm)
			res.Warnings = append(res.Warnings, w...)

			for _, br := range gmms.Branches() {
				for _, ri := range inputs {
					gm, err := br.Value.Calc(ri.Input)
					if err != nil {
						res.Warnings = append(res.Warnings, &hazard.HazardError{Kind: hazard.ArithmeticDegenerate, Op: "C8", Err: err})
						continue
					}
					contribution := ss.Weight * br.Weight * ri.Rate * hazard.ExceedanceProbability(iml, gm.Mean, gm.Sigma, trunc)
					if contribution == 0 {
						continue
					}
					eps := epsilonOf(iml, gm.Mean, gm.Sigma)
					hist.Add(sourceType, ri.Input.RRup, ri.Input.Mag, eps, contribution)
				}
			}
		}
	}

	return res, nil
}

// epsilonOf computes (ln(iml) - mu) / sigma, the normalized deviation the
// bin's epsilon axis is defined over. A zero or negative sigma (a
// degenerate model) has no well-defined epsilon; it is mapped to zero so
// the contribution still lands somewhere rather than being silently lost.
func epsilonOf(iml, mu, sigma float64) float64 {
	if sigma <= 0 {
		return 0
	}
	return (math.Log(iml) - mu) / sigma
}

// deaggCluster bins one cluster source's contribution at iml, apportioning
// each alternative's joint contribution across its ruptures in proportion
// to each rupture's own marginal exceedance probability: the source
// material is ambiguous between "average rupture" and "per-rupture then
// combine" binning for clusters, and the spec resolves this in favor of
// per-rupture binning using the same combinatorics as the curve
// calculation, so the alternative's total contribution (computed with the
// cluster's joint nonexceedance formula) is preserved and only its
// distribution across ruptures is apportioned.
func deaggCluster(hist *Histogram, cs source.ClusterSourceIface, gmms *tree.Tree[gmm.Gmm], s site.Site, cutoffKm, setWeight float64, sourceType string, iml float64, trunc hazard.Truncation) []*hazard.HazardError {
	var warnings []*hazard.HazardError
	totalRate := cs.TotalRate()

	for _, br := range gmms.Branches() {
		for _, alt := range cs.Alternatives() {
			inputs, w := hazard.BuildInputs(alt.Ruptures, s, cutoffKm)
			warnings = append(warnings, w...)
			if len(inputs) != len(alt.Ruptures) {
				continue // a rupture fell outside cutoff or was degenerate; skip the alternative (see ClusterCurve).
			}

			type ruptureEval struct {
				prob, eps, r, m float64
			}
			evals := make([]ruptureEval, 0, len(inputs))
			nonExceed := 1.0
			for _, ri := range inputs {
				gm, err := br.Value.Calc(ri.Input)
				if err != nil {
					warnings = append(warnings, &hazard.HazardError{Kind: hazard.ArithmeticDegenerate, Op: "C8", Err: err})
					continue
				}
				p := hazard.ExceedanceProbability(iml, gm.Mean, gm.Sigma, trunc)
				nonExceed *= 1 - p
				evals = append(evals, ruptureEval{
					prob: p,
					eps:  epsilonOf(iml, gm.Mean, gm.Sigma),
					r:    ri.Input.RRup,
					m:    ri.Input.Mag,
				})
			}
			if len(evals) == 0 {
				continue
			}

			altContribution := setWeight * br.Weight * alt.Weight * totalRate * (1 - nonExceed)
			if altContribution == 0 {
				continue
			}
			var probSum float64
			for _, e := range evals {
				probSum += e.prob
			}
			if probSum == 0 {
				continue
			}
			for _, e := range evals {
				hist.Add(sourceType, e.r, e.m, e.eps, altContribution*e.prob/probSum)
			}
		}
	}
	return warnings
}

type unsupportedSourceDeaggError struct{ id string }

func (e unsupportedSourceDeaggError) Error() string {
	return "source " + e.id + " implements neither RuptureSource nor ClusterSourceIface"
}
