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

	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/mfd"
	"github.com/usgs/nshmp-haz-go/rupture"
	"github.com/usgs/nshmp-haz-go/site"
	"github.com/usgs/nshmp-haz-go/source"
	"github.com/usgs/nshmp-haz-go/tree"
)

func gmmTree(t *testing.T, models ...struct {
	id     string
	weight float64
	model  gmm.Gmm
}) *tree.Tree[gmm.Gmm] {
	t.Helper()
	b := tree.NewBuilder[gmm.Gmm]()
	for _, m := range models {
		b.Add(m.id, m.weight, m.model)
	}
	tr, err := b.Build()
	if err != nil {
		t.Fatal(err)
	}
	return tr
}

func buildRegistryWithOnePointSource(t *testing.T, weight, cutoffKm float64) *source.Registry {
	t.Helper()
	loc, err := geo.NewLocation(-122.0, 38.0, 5)
	if err != nil {
		t.Fatal(err)
	}
	m, err := mfd.NewIncremental([]float64{6.5}, []float64{1e-3})
	if err != nil {
		t.Fatal(err)
	}
	ps := source.NewPointSource("pt-1", loc, m, 0, 90, 10)

	gmms := gmmTree(t, struct {
		id     string
		weight float64
		model  gmm.Gmm
	}{"only", 1, constantGmm{mean: math.Log(0.3), sigma: 0.5}})

	ss := source.NewSourceSet("grid-1", source.Grid, weight, cutoffKm, map[gmm.Imt]*tree.Tree[gmm.Gmm]{gmm.PGA: gmms})
	ss.Add(ps)

	reg := source.NewRegistry()
	reg.AddSourceSet(ss)
	return reg
}

func testSiteAt(t *testing.T, lon, lat float64) site.Site {
	t.Helper()
	loc, err := geo.NewLocation(lon, lat, 0)
	if err != nil {
		t.Fatal(err)
	}
	return site.NewSite("test", loc, 400, true, math.NaN(), math.NaN())
}

func TestComputeSiteCurveSingleSourceSetProducesNonIncreasingCurve(t *testing.T) {
	reg := buildRegistryWithOnePointSource(t, 1.0, 300)
	s := testSiteAt(t, -122.0, 38.01)
	xs := []float64{0.01, 0.05, 0.1, 0.5}

	res, err := ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != Done {
		t.Fatalf("State = %s, want DONE", res.State)
	}
	if !res.Curve.NonIncreasing() {
		t.Error("total curve is not non-increasing")
	}

	rate := 1e-3
	want := rate * ExceedanceProbability(xs[0], math.Log(0.3), 0.5, NoTruncation)
	if math.Abs(res.Curve.Y(0)-want) > 1e-9 {
		t.Errorf("Curve.Y(0) = %g, want %g", res.Curve.Y(0), want)
	}
}

func TestComputeSiteCurveDropsSourceSetBeyondCutoff(t *testing.T) {
	reg := buildRegistryWithOnePointSource(t, 1.0, 10) // cutoff much smaller than the site distance
	s := testSiteAt(t, -110.0, 30.0)
	xs := []float64{0.01, 0.1}

	res, err := ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range xs {
		if res.Curve.Y(i) != 0 {
			t.Errorf("Curve.Y(%d) = %g, want 0 (source outside cutoff+pad)", i, res.Curve.Y(i))
		}
	}
}

func TestComputeSiteCurveMissingImtYieldsZeroCurve(t *testing.T) {
	reg := buildRegistryWithOnePointSource(t, 1.0, 300)
	s := testSiteAt(t, -122.0, 38.01)
	xs := []float64{0.01, 0.1}

	res, err := ComputeSiteCurve(context.Background(), reg, s, gmm.SA(1.0), xs, NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}
	for i := range xs {
		if res.Curve.Y(i) != 0 {
			t.Errorf("Curve.Y(%d) = %g, want 0 for an unmodeled IMT", i, res.Curve.Y(i))
		}
	}
}

func TestComputeSiteCurveEmptyRegistryIsZeroCurve(t *testing.T) {
	reg := source.NewRegistry()
	s := testSiteAt(t, -122.0, 38.0)
	xs := []float64{0.01, 0.1}

	res, err := ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}
	if res.State != Done {
		t.Fatalf("State = %s, want DONE", res.State)
	}
	for i := range xs {
		if res.Curve.Y(i) != 0 {
			t.Errorf("Curve.Y(%d) = %g, want 0", i, res.Curve.Y(i))
		}
	}
}

func TestComputeSiteCurveClusterSourceUsesClusterCombinatorics(t *testing.T) {
	loc, err := geo.NewLocation(-122.0, 38.0, 5)
	if err != nil {
		t.Fatal(err)
	}
	surf := geo.NewGriddedSurfaceFromGrid([]geo.Location{loc}, 1, 1, 90, 0, 5, 0, 0)
	alt := source.ClusterAlternative{
		Weight: 1,
		Ruptures: []rupture.Rupture{
			{Mag: 7, Rake: 0, Rate: 0, Surface: surf},
			{Mag: 7, Rake: 0, Rate: 0, Surface: surf},
		},
	}
	cs := source.NewClusterSource("cl-1", loc, 1e-3, []source.ClusterAlternative{alt})

	gmms := gmmTree(t, struct {
		id     string
		weight float64
		model  gmm.Gmm
	}{"only", 1, constantGmm{mean: math.Log(0.3), sigma: 0.5}})
	ss := source.NewSourceSet("cluster-1", source.Cluster, 1, 300, map[gmm.Imt]*tree.Tree[gmm.Gmm]{gmm.PGA: gmms})
	ss.Add(cs)

	reg := source.NewRegistry()
	reg.AddSourceSet(ss)

	s := testSiteAt(t, -122.0, 38.01)
	xs := []float64{0.1}

	res, err := ComputeSiteCurve(context.Background(), reg, s, gmm.PGA, xs, NoTruncation, 0)
	if err != nil {
		t.Fatal(err)
	}
	p := ExceedanceProbability(xs[0], math.Log(0.3), 0.5, NoTruncation)
	want := 1e-3 * (1 - (1-p)*(1-p))
	if math.Abs(res.Curve.Y(0)-want) > 1e-9 {
		t.Errorf("Curve.Y(0) = %g, want %g", res.Curve.Y(0), want)
	}
}

func TestComputeSiteCurveRespectsContextCancellation(t *testing.T) {
	reg := buildRegistryWithOnePointSource(t, 1.0, 300)
	s := testSiteAt(t, -122.0, 38.01)
	xs := []float64{0.1}

	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	res, err := ComputeSiteCurve(ctx, reg, s, gmm.PGA, xs, NoTruncation, 0)
	if err == nil {
		t.Fatal("expected an error from a pre-cancelled context")
	}
	if res.State != StateTimedOut {
		t.Errorf("State = %s, want TIMED_OUT", res.State)
	}
}
