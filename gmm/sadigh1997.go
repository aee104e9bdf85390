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

// Sadigh1997 is a shallow-crustal strike-slip/reverse model in the style
// of Sadigh et al. (1997): a magnitude-saturating, distance-attenuating
// form with a low-magnitude/high-magnitude coefficient split at M 6.5
// and an additive soil adjustment for sites below a Vs30 rock threshold.
type Sadigh1997 struct {
	imt  Imt
	lo   table.Row // M <= 6.5 coefficients
	hi   table.Row // M > 6.5 coefficients
	site table.Row // site term coefficients (rock vs soil threshold, sigma)
}

// NewSadigh1997 loads the low-magnitude, high-magnitude, and site
// coefficient tables for imt from dir (one CSV per table, named
// "lo.csv", "hi.csv", "site.csv") and returns a bound Gmm.
func NewSadigh1997(dir string, imt Imt) (*Sadigh1997, error) {
	lo, err := table.Load(dir + "/lo.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: Sadigh1997(%s): %w", imt, err)
	}
	hi, err := table.Load(dir + "/hi.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: Sadigh1997(%s): %w", imt, err)
	}
	site, err := table.Load(dir + "/site.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: Sadigh1997(%s): %w", imt, err)
	}
	return &Sadigh1997{imt: imt, lo: lo, hi: hi, site: site}, nil
}

// IMT implements Gmm.
func (s *Sadigh1997) IMT() Imt { return s.imt }

// Constraints implements Gmm.
func (s *Sadigh1997) Constraints() FieldRanges {
	return FieldRanges{MagMin: 4.0, MagMax: 8.0, RRupMax: 200, Vs30Min: 150, Vs30Max: 1500}
}

// Calc implements Gmm.
func (s *Sadigh1997) Calc(in GmmInput) (ScalarGroundMotion, error) {
	coef := s.lo
	if in.Mag > 6.5 {
		coef = s.hi
	}
	a1, err := coef.Get("a1")
	if err != nil {
		return ScalarGroundMotion{}, err
	}
	a2 := coef.MustGet("a2")
	a3 := coef.MustGet("a3")
	a4 := coef.MustGet("a4")
	a5 := coef.MustGet("a5")
	a6 := coef.MustGet("a6")
	a7 := coef.MustGet("a7")

	rockThreshold := s.site.MustGet("vs30RockThreshold")
	soilAdjust := s.site.MustGet("soilAdjust")
	sigma := s.site.MustGet("sigma")

	rRup := in.RRup
	if rRup < 0 {
		rRup = 0
	}
	mean := a1 + a2*in.Mag + a3*math.Pow(8.5-in.Mag, 2.5) +
		a4*math.Log(rRup+math.Exp(a5+a6*in.Mag)) + a7*math.Log(rRup+2)

	if vs30Known(in.Vs30) && in.Vs30 < rockThreshold {
		mean += soilAdjust
	}
	return ScalarGroundMotion{Mean: mean, Sigma: sigma}, nil
}

func vs30Known(vs30 float64) bool { return !math.IsNaN(vs30) }
