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

package hazard

import (
	"math"

	"gonum.org/v1/gonum/stat/distuv"

	"github.com/usgs/nshmp-haz-go/xy"
)

// standardNormal is the Φ used by ExceedanceProbability; distuv.Normal's
// CDF is used rather than a hand-rolled erf approximation, since Φ needs
// to match the reference PEER scenario outputs (§8) to 1% tolerance.
var standardNormal = distuv.Normal{Mu: 0, Sigma: 1}

// Truncation bounds the normal distribution used by ExceedanceProbability
// to +/- N sigma; N == 0 disables truncation (§8 boundary behaviour:
// "Truncation=0 disables tail truncation, not: treat as zero
// probability").
type Truncation struct {
	N float64
}

// NoTruncation is the default: no tail truncation.
var NoTruncation = Truncation{N: 0}

// ExceedanceProbability returns P(ln IML >= ln x | mu, sigma), truncated
// at +/- trunc.N standard deviations if trunc.N > 0, renormalized so the
// truncated distribution's range is exactly [0, 1] (§4.7.3).
func ExceedanceProbability(x, mu, sigma float64, trunc Truncation) float64 {
	if sigma <= 0 {
		if math.Log(x) >= mu {
			return 0
		}
		return 1
	}
	z := (math.Log(x) - mu) / sigma
	if trunc.N <= 0 {
		return 1 - standardNormal.CDF(z)
	}

	lo, hi := -trunc.N, trunc.N
	if z <= lo {
		return 1
	}
	if z >= hi {
		return 0
	}
	pLo := standardNormal.CDF(lo)
	pHi := standardNormal.CDF(hi)
	pZ := standardNormal.CDF(z)
	// Renormalize the truncated-tail probability so it spans [0, 1]
	// exactly over [lo, hi].
	return (pHi - pZ) / (pHi - pLo)
}

// CurveForGmm implements S4 for one Gmm: sums each rupture's rate-scaled
// exceedance contribution onto the IML grid xs.
func CurveForGmm(xs []float64, ruptureRatesAndGMs []RupturePrediction, trunc Truncation) (*xy.Sequence, error) {
	ys := make([]float64, len(xs))
	for _, rp := range ruptureRatesAndGMs {
		if rp.Rate == 0 {
			continue // treat zero-rate ruptures as a no-op, per §4.7.3.
		}
		for i, x := range xs {
			ys[i] += rp.Rate * ExceedanceProbability(x, rp.Mean, rp.Sigma, trunc)
		}
	}
	return xy.NewSequence(xs, ys)
}

// RupturePrediction pairs one rupture's annual rate with the
// ScalarGroundMotion a bound Gmm produced for it (S3's per-rupture
// output, aligned back with its rate for S4).
type RupturePrediction struct {
	Rate  float64
	Mean  float64
	Sigma float64
}
