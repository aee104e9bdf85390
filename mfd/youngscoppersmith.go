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

// YoungsCoppersmith is the Youngs & Coppersmith (1985) characteristic
// MFD: an exponential (Gutenberg-Richter) tail from Mmin up to Mc - dm/2,
// plus a characteristic "box" of constant rate-per-bin spanning
// [Mc-dm/2, Mmax], parameterized by the total moment rate so the two
// pieces balance.
type YoungsCoppersmith struct {
	B              float64 // GR b-value for the exponential part.
	Mmin, Mc, Mmax float64 // Mc is the characteristic magnitude.
	BinWidth       float64
	MomentRate     float64 // total moment rate budget, N*m/yr.
	bins           []Bin
}

// NewYoungsCoppersmith builds the MFD and pre-computes its bins.
func NewYoungsCoppersmith(b, mMin, mC, mMax, binWidth, momentRate float64) (*YoungsCoppersmith, error) {
	if binWidth <= 0 {
		return nil, fmt.Errorf("mfd: binWidth must be positive, got %g", binWidth)
	}
	if !(mMin < mC && mC <= mMax) {
		return nil, fmt.Errorf("mfd: require Mmin < Mc <= Mmax, got %g, %g, %g", mMin, mC, mMax)
	}
	y := &YoungsCoppersmith{B: b, Mmin: mMin, Mc: mC, Mmax: mMax, BinWidth: binWidth, MomentRate: momentRate}
	var err error
	y.bins, err = y.computeBins()
	if err != nil {
		return nil, err
	}
	if err := Validate(y); err != nil {
		return nil, err
	}
	return y, nil
}

// computeBins implements the 1985 formulation: the exponential part below
// the characteristic box follows beta = b*ln(10), with its amplitude
// fixed by beta and the requirement that the box plus tail together
// exhaust momentRate; the box itself distributes its share of the moment
// budget uniformly across its bins by count (equal annual rate per bin,
// which is the "characteristic" assumption).
func (y *YoungsCoppersmith) computeBins() ([]Bin, error) {
	beta := y.B * math.Ln10
	boxLo := y.Mc - y.BinWidth/2
	if boxLo < y.Mmin {
		boxLo = y.Mmin
	}
	nExp := int(math.Round((boxLo - y.Mmin) / y.BinWidth))
	nBox := int(math.Round((y.Mmax - boxLo) / y.BinWidth))
	if nBox < 1 {
		nBox = 1
	}

	// Moment released per unit exponential amplitude (a0, events/yr at
	// M=Mmin per bin) and per unit box amplitude (b0, events/yr per box
	// bin), so that a0*expMomentUnit + b0*boxMomentUnit == MomentRate,
	// with the two amplitudes tied together through the continuity of
	// the cumulative rate at boxLo (standard Youngs-Coppersmith closure).
	var expMoment, expRateUnitSum float64
	for i := 0; i < nExp; i++ {
		mid := y.Mmin + (float64(i)+0.5)*y.BinWidth
		w := math.Exp(-beta * (mid - y.Mmin))
		expRateUnitSum += w
		expMoment += w * hanksKanamoriMoment(mid)
	}
	var boxMoment float64
	for i := 0; i < nBox; i++ {
		mid := boxLo + (float64(i)+0.5)*y.BinWidth
		boxMoment += hanksKanamoriMoment(mid)
	}
	// Continuity: rate(boxLo-) from the exponential with amplitude a0 at
	// Mmin is a0*exp(-beta*(boxLo-Mmin)); each box bin gets that same
	// rate (the "characteristic" plateau). So b0 (per-bin box rate) =
	// a0*exp(-beta*(boxLo-Mmin)).
	contWeight := math.Exp(-beta * (boxLo - y.Mmin))
	// MomentRate = a0*expMoment + a0*contWeight*boxMoment
	denom := expMoment + contWeight*boxMoment
	if denom <= 0 {
		return nil, fmt.Errorf("mfd: youngs-coppersmith moment closure degenerate (denom=%g)", denom)
	}
	a0 := y.MomentRate / denom

	bins := make([]Bin, 0, nExp+nBox)
	for i := 0; i < nExp; i++ {
		mid := y.Mmin + (float64(i)+0.5)*y.BinWidth
		w := math.Exp(-beta * (mid - y.Mmin))
		bins = append(bins, Bin{Mag: mid, Rate: a0 * w})
	}
	boxRate := a0 * contWeight
	for i := 0; i < nBox; i++ {
		mid := boxLo + (float64(i)+0.5)*y.BinWidth
		bins = append(bins, Bin{Mag: mid, Rate: boxRate})
	}
	return bins, nil
}

// Bins implements MFD.
func (y *YoungsCoppersmith) Bins() []Bin { return y.bins }
