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

// Package hazard implements the hazard-curve pipeline: S1 (source
// filtering, in the source package), S2 (GmmInput construction), S3/S4
// (ground-motion evaluation and curve construction), and S5/S6
// (SourceSet and total aggregation), plus the worker-pool concurrency
// that fans the per-SourceSet work out and reduces it back.
package hazard

import (
	"math"

	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/rupture"
	"github.com/usgs/nshmp-haz-go/site"
)

// RateInput pairs one rupture's annual rate with the GmmInput derived
// from it, so S4 can scale a Gmm's ground motion by the right rate after
// S2 has already dropped out-of-cutoff and degenerate ruptures.
type RateInput struct {
	Rate  float64
	Input gmm.GmmInput
}

// BuildInputs implements S2: for each rupture, compute (rJB, rRup, rX)
// against the site, derive dip/width/zTop/zHyp, and copy the site's Vs30/
// vsInferred/z1p0/z2p5, producing one GmmInput per rupture. Ruptures
// whose rJB exceeds cutoffKm are skipped (an empty result is permitted).
// A rupture whose distance computation produces NaN is skipped as
// ARITHMETIC_DEGENERATE rather than aborting the whole source.
func BuildInputs(ruptures []rupture.Rupture, s site.Site, cutoffKm float64) ([]RateInput, []*HazardError) {
	inputs := make([]RateInput, 0, len(ruptures))
	var warnings []*HazardError
	for _, r := range ruptures {
		in, skip, err := inputFor(r, s, cutoffKm)
		if err != nil {
			warnings = append(warnings, err)
			continue
		}
		if skip {
			continue
		}
		inputs = append(inputs, RateInput{Rate: r.Rate, Input: in})
	}
	return inputs, warnings
}

func inputFor(r rupture.Rupture, s site.Site, cutoffKm float64) (gmm.GmmInput, bool, *HazardError) {
	d := r.Surface.DistanceTo(s.Location)
	if math.IsNaN(d.RJB) || math.IsNaN(d.RRup) || math.IsNaN(d.RX) {
		return gmm.GmmInput{}, false, newError(ArithmeticDegenerate, "S2", errDistanceNaN)
	}
	if d.RJB > cutoffKm {
		return gmm.GmmInput{}, true, nil
	}

	dip := r.Surface.Dip
	width := r.Surface.Width
	zTop := r.Surface.ZTop
	zHyp := zTop + math.Sin(dip*math.Pi/180)*width/2

	in := gmm.GmmInput{
		Mag: r.Mag, RJB: d.RJB, RRup: d.RRup, RX: d.RX,
		Dip: dip, Width: width, ZTop: zTop, ZHyp: zHyp,
		Rake: r.Rake,
		Vs30: s.Vs30, VsInferred: s.VsInferred,
		Z1p0: s.Z1p0, Z2p5: s.Z2p5,
	}
	return in, false, nil
}

var errDistanceNaN = distanceNaNError{}

type distanceNaNError struct{}

func (distanceNaNError) Error() string { return "distance computation produced NaN" }
