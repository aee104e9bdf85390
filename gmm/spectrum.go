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

package gmm

import (
	"fmt"
	"sort"
)

// Spectrum is a response spectrum: parallel Periods/Means/Sigmas arrays,
// one entry per SA period the evaluated model set supports in common.
type Spectrum struct {
	Periods []float64
	Means   []float64
	Sigmas  []float64
}

// ResponseSpectrum evaluates every model in models at in, at every SA
// period the models support in common (the intersection of each model's
// SupportedIMTs, when implemented; models that don't implement
// SupportedIMTs are assumed to support only their bound IMT). Models not
// bound to an SA IMT are an error, since a spectrum is meaningless
// without a period axis.
func ResponseSpectrum(models []Gmm, in GmmInput) (Spectrum, error) {
	if len(models) == 0 {
		return Spectrum{}, fmt.Errorf("gmm: ResponseSpectrum: no models given")
	}

	periods := commonSAPeriods(models)
	if len(periods) == 0 {
		return Spectrum{}, fmt.Errorf("gmm: ResponseSpectrum: models share no common SA periods")
	}

	spec := Spectrum{
		Periods: periods,
		Means:   make([]float64, len(periods)),
		Sigmas:  make([]float64, len(periods)),
	}
	for i, p := range periods {
		imt := SA(p)
		var meanSum, sigmaSum float64
		for _, m := range models {
			mm, err := modelAt(m, imt, in)
			if err != nil {
				return Spectrum{}, fmt.Errorf("gmm: ResponseSpectrum at %s: %w", imt, err)
			}
			meanSum += mm.Mean
			sigmaSum += mm.Sigma
		}
		n := float64(len(models))
		spec.Means[i] = meanSum / n
		spec.Sigmas[i] = sigmaSum / n
	}
	return spec, nil
}

// modelAt evaluates m at imt: if m is already bound to imt, it calculates
// directly; otherwise this is an error, since Gmm instances are bound to
// one IMT at construction (§4.5) and ResponseSpectrum operates over a set
// of per-period model instances, not one reconfigurable model.
func modelAt(m Gmm, imt Imt, in GmmInput) (ScalarGroundMotion, error) {
	if m.IMT() != imt {
		return ScalarGroundMotion{}, fmt.Errorf("model bound to %s, want %s", m.IMT(), imt)
	}
	return m.Calc(in)
}

// commonSAPeriods intersects the SA periods every model in models
// supports, via SupportedIMTs when implemented, falling back to the
// model's own bound IMT (if it is SA) otherwise.
func commonSAPeriods(models []Gmm) []float64 {
	var sets [][]float64
	for _, m := range models {
		sets = append(sets, saPeriodsOf(m))
	}
	if len(sets) == 0 {
		return nil
	}
	counts := map[float64]int{}
	for _, s := range sets {
		seen := map[float64]bool{}
		for _, p := range s {
			if !seen[p] {
				seen[p] = true
				counts[p]++
			}
		}
	}
	var common []float64
	for p, c := range counts {
		if c == len(sets) {
			common = append(common, p)
		}
	}
	sort.Float64s(common)
	return common
}

func saPeriodsOf(m Gmm) []float64 {
	if s, ok := m.(SupportedIMTs); ok {
		var periods []float64
		for _, imt := range s.SupportedIMTs() {
			if imt.Name == "SA" {
				periods = append(periods, imt.Period)
			}
		}
		return periods
	}
	if m.IMT().Name == "SA" {
		return []float64{m.IMT().Period}
	}
	return nil
}
