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

package mfd

import (
	"fmt"
	"math"
)

// GutenbergRichter is a truncated Gutenberg-Richter MFD: log10(rate) = a -
// b*M, summed within each bin of width binWidth between Mmin and Mmax
// (inclusive), clipped at Mmax.
type GutenbergRichter struct {
	A, B           float64
	Mmin, Mmax     float64
	BinWidth       float64
	bins           []Bin
}

// NewGutenbergRichter builds a truncated GR MFD and pre-computes its bins.
func NewGutenbergRichter(a, b, mMin, mMax, binWidth float64) (*GutenbergRichter, error) {
	if binWidth <= 0 {
		return nil, fmt.Errorf("mfd: binWidth must be positive, got %g", binWidth)
	}
	if mMax <= mMin {
		return nil, fmt.Errorf("mfd: mMax (%g) must exceed mMin (%g)", mMax, mMin)
	}
	g := &GutenbergRichter{A: a, B: b, Mmin: mMin, Mmax: mMax, BinWidth: binWidth}
	g.bins = g.computeBins()
	if err := Validate(g); err != nil {
		return nil, err
	}
	return g, nil
}

// computeBins discretizes the continuous GR relation into binWidth-wide
// bins, summing the rate between successive magnitudes into each bin's
// midpoint. N(>=M) = 10^(a - b*M); a bin [M, M+dM) gets rate N(M) - N(M+dM).
func (g *GutenbergRichter) computeBins() []Bin {
	n := int(math.Round((g.Mmax-g.Mmin)/g.BinWidth)) + 1
	bins := make([]Bin, 0, n)
	cumAt := func(m float64) float64 {
		if m > g.Mmax {
			m = g.Mmax
		}
		return math.Pow(10, g.A-g.B*m)
	}
	for i := 0; i < n-1; i++ {
		lo := g.Mmin + float64(i)*g.BinWidth
		hi := lo + g.BinWidth
		mid := lo + g.BinWidth/2
		rate := cumAt(lo) - cumAt(hi)
		if rate < 0 {
			rate = 0
		}
		bins = append(bins, Bin{Mag: mid, Rate: rate})
	}
	return bins
}

// Bins implements MFD.
func (g *GutenbergRichter) Bins() []Bin { return g.bins }
