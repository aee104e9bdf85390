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
	"context"
	"math"
	"testing"

	"github.com/GaryBoone/GoStats/stats"

	"github.com/usgs/nshmp-haz-go/gmm"
)

// TestComputeSiteCurveMaxOrdinateIsAtLowestIml cross-checks the
// non-increasing property (§8 testable property) with an independent
// statistic rather than re-reading Curve.Y directly: since exceedance
// rate falls monotonically with IML, the curve's maximum ordinate must
// be its first one.
func TestComputeSiteCurveMaxOrdinateIsAtLowestIml(t *testing.T) {
	reg := buildRegistryWithOnePointSource(t, 1.0, 300)
	s := testSiteAt(t, -122.0, 38.01)
	xs := []float64{0.01, 0.05, 0.1, 0.5, 1.0}

	res, err := ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}

	ys := res.Curve.Ys()
	max := stats.StatsMax(ys)
	if math.Abs(max-ys[0]) > 1e-12 {
		t.Errorf("max ordinate = %g, want curve's first ordinate %g", max, ys[0])
	}
}
