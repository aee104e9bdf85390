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

// CeusHardRock is a single-corner-frequency stochastic-point-source
// stand-in for central-and-eastern-US hard-rock shallow-crustal sources:
// no basin term, geometric + anelastic attenuation on rRup, a
// magnitude-dependent corner-frequency-derived scaling term.
type CeusHardRock struct {
	imt   Imt
	coef  table.Row
}

// NewCeusHardRock loads the single coefficient table "coef.csv" for imt
// from dir and returns a bound Gmm.
func NewCeusHardRock(dir string, imt Imt) (*CeusHardRock, error) {
	coef, err := table.Load(dir + "/coef.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: CeusHardRock(%s): %w", imt, err)
	}
	return &CeusHardRock{imt: imt, coef: coef}, nil
}

// IMT implements Gmm.
func (c *CeusHardRock) IMT() Imt { return c.imt }

// Constraints implements Gmm.
func (c *CeusHardRock) Constraints() FieldRanges {
	return FieldRanges{MagMin: 4.0, MagMax: 8.0, RRupMax: 1000, Vs30Min: 2000, Vs30Max: 3000}
}

// Calc implements Gmm.
func (c *CeusHardRock) Calc(in GmmInput) (ScalarGroundMotion, error) {
	c1 := c.coef.MustGet("c1")
	c2 := c.coef.MustGet("c2")
	c3 := c.coef.MustGet("c3")
	cornerSlope := c.coef.MustGet("cornerSlope")
	anelastic := c.coef.MustGet("anelastic")
	sigma := c.coef.MustGet("sigma")

	rRup := math.Max(in.RRup, 1)
	cornerFreq := 1.0 / (1.0 + cornerSlope*(in.Mag-6.0))
	mean := c1 + c2*in.Mag + c3*cornerFreq - math.Log(rRup) - anelastic*rRup
	return ScalarGroundMotion{Mean: mean, Sigma: sigma}, nil
}
