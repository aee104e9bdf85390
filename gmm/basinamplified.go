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

// BasinAmplified wraps a baseline Gmm and adds a z1p0-driven basin
// amplification term: amplification grows with how much deeper the
// site's z1p0 is than the model-default z1p0 at the site's Vs30. When the
// site's z1p0 is unknown (NaN), the term is skipped and the baseline
// result passes through unchanged, per the basin-depth default rule.
type BasinAmplified struct {
	base Gmm
	coef table.Row
}

// NewBasinAmplified wraps base with a basin term loaded from
// dir+"/basin.csv".
func NewBasinAmplified(base Gmm, dir string) (*BasinAmplified, error) {
	coef, err := table.Load(dir + "/basin.csv")
	if err != nil {
		return nil, fmt.Errorf("gmm: BasinAmplified(%s): %w", base.IMT(), err)
	}
	return &BasinAmplified{base: base, coef: coef}, nil
}

// IMT implements Gmm.
func (b *BasinAmplified) IMT() Imt { return b.base.IMT() }

// Constraints implements Gmm.
func (b *BasinAmplified) Constraints() FieldRanges { return b.base.Constraints() }

// Calc implements Gmm.
func (b *BasinAmplified) Calc(in GmmInput) (ScalarGroundMotion, error) {
	out, err := b.base.Calc(in)
	if err != nil {
		return out, err
	}
	if math.IsNaN(in.Z1p0) {
		return out, nil
	}

	z1Ref := b.defaultZ1p0(in.Vs30)
	coefZ1 := b.coef.MustGet("coefZ1")
	ampCap := b.coef.MustGet("cap")

	amp := coefZ1 * math.Log((in.Z1p0+0.01)/(z1Ref+0.01))
	if amp > ampCap {
		amp = ampCap
	} else if amp < -ampCap {
		amp = -ampCap
	}
	out.Mean += amp
	return out, nil
}

// defaultZ1p0 returns the model-default z1p0 (km) for a given Vs30, a
// simple log-linear proxy in the absence of a measured basin depth.
func (b *BasinAmplified) defaultZ1p0(vs30 float64) float64 {
	a := b.coef.MustGet("z1DefaultA")
	c := b.coef.MustGet("z1DefaultB")
	if !vs30Known(vs30) {
		vs30 = 760 // generic rock reference velocity, m/s.
	}
	return math.Exp(a + c*math.Log(vs30))
}
