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

package rupture

import (
	"fmt"

	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/mfd"
)

// Rupture is a single earthquake rupture: magnitude, rake, annual rate,
// and the gridded surface it occurs on (§3). Rate is always >= 0;
// magnitude is always within [mfd.MinMagnitude, mfd.MaxMagnitude].
type Rupture struct {
	Mag     float64
	Rake    float64
	Rate    float64
	Surface *geo.GriddedSurface
}

// Validate checks the Rupture invariants.
func (r Rupture) Validate() error {
	if r.Mag < mfd.MinMagnitude || r.Mag > mfd.MaxMagnitude {
		return fmt.Errorf("rupture: magnitude %g out of range [%g, %g]", r.Mag, mfd.MinMagnitude, mfd.MaxMagnitude)
	}
	if r.Rate < 0 {
		return fmt.Errorf("rupture: negative rate %g", r.Rate)
	}
	return nil
}

// BuildFromMFD floats every MFD bin's magnitude against a parent surface
// per mode/scaling and emits one Rupture per resulting floater, with rate
// bin rate times floater weight. Zero-rate bins still produce
// (zero-rate) ruptures, preserving alignment with the MFD (§4.2).
func BuildFromMFD(parent *geo.GriddedSurface, m mfd.MFD, rake float64, mode Mode, scaling Scaling, areaSigma float64) ([]Rupture, error) {
	var out []Rupture
	for _, bin := range m.Bins() {
		floaters, err := Float(parent, bin.Mag, mode, scaling, areaSigma)
		if err != nil {
			return nil, fmt.Errorf("rupture: floating M=%g: %w", bin.Mag, err)
		}
		if err := checkFloaterWeights(floaters); err != nil {
			return nil, err
		}
		for _, f := range floaters {
			out = append(out, Rupture{
				Mag: bin.Mag, Rake: rake,
				Rate:    bin.Rate * f.Weight,
				Surface: f.Surface,
			})
		}
	}
	return out, nil
}

// floaterWeightTolerance bounds how far a floater set's total weight may
// drift from 1 (§3 invariant, §8 testable property #4).
const floaterWeightTolerance = 1e-6

func checkFloaterWeights(floaters []Floater) error {
	if len(floaters) == 0 {
		return nil // e.g. NSHM mode skipped this magnitude (zTop > 1 km).
	}
	var sum float64
	for _, f := range floaters {
		sum += f.Weight
	}
	if d := sum - 1; d < -floaterWeightTolerance || d > floaterWeightTolerance {
		return fmt.Errorf("rupture: floater weights sum to %g, want 1 (+/- %g)", sum, floaterWeightTolerance)
	}
	return nil
}
