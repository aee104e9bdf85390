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

// Package mfd implements magnitude-frequency distributions: finite ordered
// (magnitude, annual-rate) sequences produced by four families —
// incremental, truncated Gutenberg-Richter, single-magnitude
// characteristic, and Youngs-Coppersmith.
package mfd

import "fmt"

// MinMagnitude and MaxMagnitude bound the valid magnitude range (§3
// Rupture invariant); an MFD that produces a bin outside this range is an
// INPUT_VALIDATION error.
const (
	MinMagnitude = -2.0
	MaxMagnitude = 9.7
)

// Bin is one (magnitude, annual rate) pair of an MFD.
type Bin struct {
	Mag  float64
	Rate float64
}

// MFD is a finite ordered sequence of (magnitude, rate) bins with strictly
// increasing magnitudes. Rate-zero bins are retained deliberately: the
// rupture-building stage (§4.7.2) iterates MFD bins 1:1 with geometry
// alternatives, and dropping a zero-rate bin would desynchronize that
// correspondence.
type MFD interface {
	// Bins returns the ordered (magnitude, rate) sequence.
	Bins() []Bin
}

// Validate checks the MFD invariant (strictly increasing magnitudes, all
// magnitudes within [MinMagnitude, MaxMagnitude], all rates >= 0).
func Validate(m MFD) error {
	bins := m.Bins()
	for i, b := range bins {
		if b.Mag < MinMagnitude || b.Mag > MaxMagnitude {
			return fmt.Errorf("mfd: magnitude %g out of range [%g, %g]", b.Mag, MinMagnitude, MaxMagnitude)
		}
		if b.Rate < 0 {
			return fmt.Errorf("mfd: negative rate %g at M=%g", b.Rate, b.Mag)
		}
		if i > 0 && b.Mag <= bins[i-1].Mag {
			return fmt.Errorf("mfd: magnitudes not strictly increasing at index %d (%g <= %g)", i, b.Mag, bins[i-1].Mag)
		}
	}
	return nil
}

// TotalRate sums the rates of every bin.
func TotalRate(m MFD) float64 {
	var total float64
	for _, b := range m.Bins() {
		total += b.Rate
	}
	return total
}

// Incremental is an MFD of explicit, caller-supplied (M, rate) pairs — the
// identity operation: Bins() returns exactly what was built.
type Incremental struct {
	bins []Bin
}

// NewIncremental builds an Incremental MFD from parallel mag/rate slices.
func NewIncremental(mags, rates []float64) (*Incremental, error) {
	if len(mags) != len(rates) {
		return nil, fmt.Errorf("mfd: len(mags)=%d != len(rates)=%d", len(mags), len(rates))
	}
	bins := make([]Bin, len(mags))
	for i := range mags {
		bins[i] = Bin{Mag: mags[i], Rate: rates[i]}
	}
	inc := &Incremental{bins: bins}
	if err := Validate(inc); err != nil {
		return nil, err
	}
	return inc, nil
}

// Bins implements MFD.
func (m *Incremental) Bins() []Bin { return m.bins }
