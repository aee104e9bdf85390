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

// Package rupture builds gridded fault surfaces and enumerates "floating"
// sub-ruptures of a parent surface, per a RuptureScaling relation and one
// of the five floating modes in §4.3.
package rupture

import "math"

// Scaling maps magnitude to rupture length and width (km), the family of
// log-linear mag<->area/length fits referenced in §4.3. Implementations
// are pure functions of magnitude.
type Scaling interface {
	// Length returns the along-strike rupture length for the given
	// magnitude, in km.
	Length(mag float64) float64
	// Width returns the down-dip rupture width for the given magnitude
	// and the parent surface's available width, in km; the result is
	// clamped to parentWidth by callers.
	Width(mag, parentWidth float64) float64
}

// WellsCoppersmith1994 implements the Wells & Coppersmith (1994)
// all-fault-types log-linear area/length scaling:
//
//	log10(length) = a + b*mag
//	log10(width)  = c + d*mag
type WellsCoppersmith1994 struct {
	ALen, BLen float64
	CWid, DWid float64
}

// DefaultWellsCoppersmith1994 is the all-slip-types regression from the
// original paper (Table 2A, "All" rows): log10(L) = -3.22 + 0.69*M,
// log10(W) = -1.01 + 0.32*M.
var DefaultWellsCoppersmith1994 = WellsCoppersmith1994{
	ALen: -3.22, BLen: 0.69,
	CWid: -1.01, DWid: 0.32,
}

// Length implements Scaling.
func (s WellsCoppersmith1994) Length(mag float64) float64 {
	return math.Pow(10, s.ALen+s.BLen*mag)
}

// Width implements Scaling.
func (s WellsCoppersmith1994) Width(mag, parentWidth float64) float64 {
	w := math.Pow(10, s.CWid+s.DWid*mag)
	if w > parentWidth {
		return parentWidth
	}
	return w
}
