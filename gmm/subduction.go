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
	"math"

	"github.com/usgs/nshmp-haz-go/gmm/table"
)

// subductionKind distinguishes the two subduction rupture settings that
// share a common functional form (interface vs. intraslab), with
// intraslab adding a hypocentral-depth term; both attenuate on rRup.
type subductionKind int

const (
	interfaceKind subductionKind = iota
	slabKind
)

// SubductionInterface models interplate thrust ruptures on the
// subduction interface.
type SubductionInterface struct {
	base subduction
}

// SubductionSlab models intraslab ruptures within the subducting plate,
// sensitive to hypocentral depth in addition to distance and magnitude.
type SubductionSlab struct {
	base subduction
}

// subduction holds the shared functional form for interface/slab models,
// distinguished only by kind (which toggles the depth term).
type subduction struct {
	imt  Imt
	coef table.Row
	kind subductionKind
}

// NewSubductionInterface loads "coef.csv" from dir for imt.
func NewSubductionInterface(dir string, imt Imt) (*SubductionInterface, error) {
	coef, err := table.Load(dir + "/coef.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: SubductionInterface(%s): %w", imt, err)
	}
	return &SubductionInterface{base: subduction{imt: imt, coef: coef, kind: interfaceKind}}, nil
}

// NewSubductionSlab loads "coef.csv" from dir for imt.
func NewSubductionSlab(dir string, imt Imt) (*SubductionSlab, error) {
	coef, err := table.Load(dir + "/coef.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: SubductionSlab(%s): %w", imt, err)
	}
	return &SubductionSlab{base: subduction{imt: imt, coef: coef, kind: slabKind}}, nil
}

// IMT implements Gmm.
func (s *SubductionInterface) IMT() Imt { return s.base.imt }

// IMT implements Gmm.
func (s *SubductionSlab) IMT() Imt { return s.base.imt }

// Constraints implements Gmm.
func (s *SubductionInterface) Constraints() FieldRanges {
	return FieldRanges{MagMin: 5.0, MagMax: 9.5, RRupMax: 300, Vs30Min: 150, Vs30Max: 1500}
}

// Constraints implements Gmm.
func (s *SubductionSlab) Constraints() FieldRanges {
	return FieldRanges{MagMin: 5.0, MagMax: 8.0, RRupMax: 300, Vs30Min: 150, Vs30Max: 1500}
}

// Calc implements Gmm.
func (s *SubductionInterface) Calc(in GmmInput) (ScalarGroundMotion, error) {
	return s.base.calc(in)
}

// Calc implements Gmm.
func (s *SubductionSlab) Calc(in GmmInput) (ScalarGroundMotion, error) {
	return s.base.calc(in)
}

func (s subduction) calc(in GmmInput) (ScalarGroundMotion, error) {
	b1 := s.coef.MustGet("b1")
	b2 := s.coef.MustGet("b2")
	b3 := s.coef.MustGet("b3")
	b4 := s.coef.MustGet("b4")
	vLin := s.coef.MustGet("vLin")
	sigma := s.coef.MustGet("sigma")

	rRup := math.Max(in.RRup, 1)
	mean := b1 + b2*in.Mag + b3*math.Log(rRup+b4*math.Exp(in.Mag))

	if s.kind == slabKind {
		depthCoef := s.coef.MustGet("depthCoef")
		zHyp := in.ZHyp
		if zHyp <= 0 {
			zHyp = 50 // model-default slab depth, km.
		}
		mean += depthCoef * zHyp
	}

	if vs30Known(in.Vs30) && in.Vs30 < vLin {
		siteCoef := s.coef.MustGet("siteCoef")
		mean += siteCoef * math.Log(in.Vs30/vLin)
	}
	return ScalarGroundMotion{Mean: mean, Sigma: sigma}, nil
}
