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

package deagg

import (
	"context"
	"math"
	"testing"

	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/hazard"
	"github.com/usgs/nshmp-haz-go/mfd"
	"github.com/usgs/nshmp-haz-go/site"
	"github.com/usgs/nshmp-haz-go/source"
	"github.com/usgs/nshmp-haz-go/tree"
)

type constantGmm struct{ mean, sigma float64 }

func (c constantGmm) Calc(gmm.GmmInput) (gmm.ScalarGroundMotion, error) {
	return gmm.ScalarGroundMotion{Mean: c.mean, Sigma: c.sigma}, nil
}
func (c constantGmm) IMT() gmm.Imt                 { return gmm.PGA }
func (c constantGmm) Constraints() gmm.FieldRanges { return gmm.FieldRanges{} }

func defaultBinConfig() BinConfig {
	return BinConfig{
		RMin: 0, RMax: 300, DeltaR: 10,
		MMin: 4, MMax: 9, DeltaM: 0.1,
		EpsMin: -3, EpsMax: 3, DeltaEps: 0.5,
	}
}

func buildOneSourceRegistry(t *testing.T, rate float64) *source.Registry {
	t.Helper()
	loc, err := geo.NewLocation(-122.0, 38.0, 5)
	if err != nil {
		t.Fatal(err)
	}
	m, err := mfd.NewIncremental([]float64{6.5}, []float64{rate})
	if err != nil {
		t.Fatal(err)
	}
	ps := source.NewPointSource("pt-1", loc, m, 0, 90, 10)
	gmms := tree.Single[gmm.Gmm]("only", constantGmm{mean: math.Log(0.3), sigma: 0.5})
	ss := source.NewSourceSet("grid-1", source.Grid, 1, 300, map[gmm.Imt]*tree.Tree[gmm.Gmm]{gmm.PGA: gmms})
	ss.Add(ps)
	reg := source.NewRegistry()
	reg.AddSourceSet(ss)
	return reg
}

func testSite(t *testing.T) site.Site {
	t.Helper()
	loc, err := geo.NewLocation(-122.0, 38.01, 0)
	if err != nil {
		t.Fatal(err)
	}
	return site.NewSite("test", loc, 400, true, math.NaN(), math.NaN())
}

func TestDeaggregateBinSumMatchesCurveRateAtIml(t *testing.T) {
	reg := buildOneSourceRegistry(t, 1e-3)
	s := testSite(t)
	xs := []float64{0.01, 0.05, 0.1, 0.2, 0.5, 1.0}

	res, err := hazard.ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, hazard.NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}

	returnPeriod := 1 / res.Curve.Y(2) // pick an IML on the grid so there is no interpolation error
	deaggRes, err := Deaggregate(context.Background(), reg, s, gmm.PGA, res.Curve, returnPeriod, defaultBinConfig(), hazard.NoTruncation)
	if err != nil {
		t.Fatal(err)
	}

	sum := deaggRes.Histogram.Sum()
	want := res.Curve.Y(2)
	if math.Abs(sum-want)/want > 1e-6 {
		t.Errorf("histogram sum = %g, want %g (+/- 1e-6 relative)", sum, want)
	}
}

func TestDeaggregateOutOfRangeReturnPeriodIsInputOutOfRange(t *testing.T) {
	reg := buildOneSourceRegistry(t, 1e-3)
	s := testSite(t)
	xs := []float64{0.01, 0.05, 0.1}

	res, err := hazard.ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, hazard.NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}

	_, err = Deaggregate(context.Background(), reg, s, gmm.PGA, res.Curve, 1e12, defaultBinConfig(), hazard.NoTruncation)
	if err == nil {
		t.Fatal("expected an error for a return period outside the curve's range")
	}
	var herr *hazard.HazardError
	if !asHazardError(err, &herr) {
		t.Fatalf("error is not a *hazard.HazardError: %v", err)
	}
	if herr.Kind != hazard.InputOutOfRange {
		t.Errorf("Kind = %s, want INPUT_OUT_OF_RANGE", herr.Kind)
	}
}

func asHazardError(err error, out **hazard.HazardError) bool {
	he, ok := err.(*hazard.HazardError)
	if ok {
		*out = he
	}
	return ok
}

func TestBinConfigValidateRejectsEmptyRange(t *testing.T) {
	cfg := defaultBinConfig()
	cfg.RMax = cfg.RMin
	if err := cfg.Validate(); err == nil {
		t.Error("expected an error for an empty r range")
	}
}

func TestHistogramAddDropsContributionsOutsideBins(t *testing.T) {
	hist := NewHistogram(defaultBinConfig())
	hist.Add("GRID", 1000, 6.5, 0, 1e-3) // distance far outside RMax
	if sum := hist.Sum(); sum != 0 {
		t.Errorf("Sum() = %g, want 0 for an out-of-range contribution", sum)
	}
}
