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

// Package gmm implements ground-motion models: pure functions from a
// GmmInput and an intensity measure type to a lognormal
// ScalarGroundMotion. Coefficients are loaded from gmm/table CSVs behind
// a compute-once barrier; the models themselves hold no mutable state.
package gmm

import (
	"fmt"
	"math"
)

// Imt identifies an intensity measure type: PGA, PGV, or spectral
// acceleration at a period (seconds).
type Imt struct {
	Name   string // "PGA", "PGV", or "SA"
	Period float64 // seconds; meaningful only when Name == "SA"
}

// PGA and PGV are the two non-spectral intensity measure types.
var (
	PGA = Imt{Name: "PGA"}
	PGV = Imt{Name: "PGV"}
)

// SA returns the spectral-acceleration Imt at the given period, in seconds.
func SA(period float64) Imt { return Imt{Name: "SA", Period: period} }

// String renders the IMT the way coefficient-table directory names key it:
// "PGA", "PGV", or "SA0P200" for a 0.2 s period.
func (i Imt) String() string {
	if i.Name != "SA" {
		return i.Name
	}
	return "SA" + periodToken(i.Period)
}

func periodToken(period float64) string {
	whole := int(period)
	frac := int(math.Round((period - float64(whole)) * 1000))
	return fmt.Sprintf("%dP%03d", whole, frac)
}

// GmmInput is the source-site parameter record consumed by a GMM. Any
// field may be absent (NaN for floats), meaning "model default"; models
// apply their own defaulting rules rather than rejecting NaN inputs.
type GmmInput struct {
	Mag        float64
	RJB        float64
	RRup       float64
	RX         float64
	Dip        float64
	Width      float64
	ZTop       float64
	ZHyp       float64
	Rake       float64
	Vs30       float64
	VsInferred bool
	Z1p0       float64 // km; NaN if unknown
	Z2p5       float64 // km; NaN if unknown
}

// ScalarGroundMotion is a lognormal ground-motion estimate: Mean is the
// natural log of the median ground motion in g; Sigma is the
// log-standard-deviation.
type ScalarGroundMotion struct {
	Mean  float64
	Sigma float64
}

// FieldRanges documents a model's recommended input ranges, used only
// for optional out-of-range warnings, never to reject a calculation.
type FieldRanges struct {
	MagMin, MagMax   float64
	RRupMax          float64
	Vs30Min, Vs30Max float64
}

// Gmm is the ground-motion-model contract: a pure function of GmmInput
// bound to one IMT, plus the field ranges it was developed over.
type Gmm interface {
	// Calc returns the ground motion at the model's bound IMT.
	Calc(in GmmInput) (ScalarGroundMotion, error)
	// IMT returns the intensity measure type this instance is bound to.
	IMT() Imt
	// Constraints returns the model's documented input ranges.
	Constraints() FieldRanges
}

// SupportedIMTs is implemented by models (or families) that can report
// every IMT they have coefficients for, used by Spectrum to intersect
// supported periods across a set of models.
type SupportedIMTs interface {
	SupportedIMTs() []Imt
}
