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
	"testing"

	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/tree"
	"github.com/usgs/nshmp-haz-go/xy"
)

func TestAggregateSourceSetWeightsBranches(t *testing.T) {
	xs := []float64{0.1, 0.2}
	a := constantGmm{mean: math.Log(0.3), sigma: 0.5}
	b := constantGmm{mean: math.Log(0.6), sigma: 0.5}
	gmms, err := tree.NewBuilder[gmm.Gmm]().Add("a", 0.4, a).Add("b", 0.6, b).Build()
	if err != nil {
		t.Fatal(err)
	}

	curveA := xy.EmptyWithX(xs)
	curveA.AddScalar(1.0)
	curveB := xy.EmptyWithX(xs)
	curveB.AddScalar(2.0)

	out := AggregateSourceSet(xs, map[string]*xy.Sequence{"a": curveA, "b": curveB}, gmms)
	want := 0.4*1.0 + 0.6*2.0
	for i := range xs {
		if math.Abs(out.Y(i)-want) > 1e-12 {
			t.Errorf("out.Y(%d) = %g, want %g", i, out.Y(i), want)
		}
	}
}

func TestAggregateSourceSetMissingBranchContributesZero(t *testing.T) {
	xs := []float64{0.1}
	a := constantGmm{mean: math.Log(0.3), sigma: 0.5}
	gmms := tree.Single("a", gmm.Gmm(a))

	out := AggregateSourceSet(xs, map[string]*xy.Sequence{}, gmms)
	if out.Y(0) != 0 {
		t.Errorf("out.Y(0) = %g, want 0 when no branch curve is present", out.Y(0))
	}
}

func TestTotalCurveSumsWeightedSourceSets(t *testing.T) {
	xs := []float64{0.1}
	c1 := xy.EmptyWithX(xs)
	c1.AddScalar(1.0)
	c2 := xy.EmptyWithX(xs)
	c2.AddScalar(3.0)

	out := TotalCurve(xs, []WeightedCurve{
		{Weight: 1.0, Curve: c1},
		{Weight: 0.5, Curve: c2},
	})
	want := 1.0*1.0 + 0.5*3.0
	if math.Abs(out.Y(0)-want) > 1e-12 {
		t.Errorf("out.Y(0) = %g, want %g", out.Y(0), want)
	}
}
