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

package output

import (
	"encoding/csv"
	"math"
	"os"
	"path/filepath"
	"testing"

	"github.com/usgs/nshmp-haz-go/deagg"
	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/hazard"
	"github.com/usgs/nshmp-haz-go/site"
	"github.com/usgs/nshmp-haz-go/xy"
)

func testSite(t *testing.T, name string, lon, lat float64) site.Site {
	t.Helper()
	loc, err := geo.NewLocation(lon, lat, 0)
	if err != nil {
		t.Fatal(err)
	}
	return site.NewSite(name, loc, 400, true, math.NaN(), math.NaN())
}

func TestAddCurveFlushesAtLimitAndWritesHeader(t *testing.T) {
	dir := t.TempDir()
	w, err := NewWriter(dir, 2)
	if err != nil {
		t.Fatal(err)
	}
	xs := []float64{0.1, 0.2, 0.3}
	for i := 0; i < 3; i++ {
		res := &hazard.Result{
			Site:  testSite(t, "site", -122.0, 38.0+float64(i)*0.1),
			Imt:   gmm.PGA,
			Curve: xy.MustNewSequence(xs, []float64{0.01, 0.005, 0.001}),
		}
		if err := w.AddCurve("PGA", res); err != nil {
			t.Fatal(err)
		}
	}
	if err := w.Flush(); err != nil {
		t.Fatal(err)
	}

	f, err := os.Open(filepath.Join(dir, "curves-PGA.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 4 { // header + 3 sites
		t.Fatalf("got %d rows, want 4 (1 header + 3 sites)", len(rows))
	}
	if rows[0][0] != "name" {
		t.Errorf("header[0] = %q, want \"name\"", rows[0][0])
	}
}

func TestWriteMapProducesOneRowPerSite(t *testing.T) {
	dir := t.TempDir()
	err := WriteMap(dir, "PGA", []MapPoint{
		{Name: "a", Lon: -122, Lat: 38, Iml: 0.3},
		{Name: "b", Lon: -121, Lat: 37, Iml: 0.5},
	})
	if err != nil {
		t.Fatal(err)
	}
	f, err := os.Open(filepath.Join(dir, "map-PGA.csv"))
	if err != nil {
		t.Fatal(err)
	}
	defer f.Close()
	rows, err := csv.NewReader(f).ReadAll()
	if err != nil {
		t.Fatal(err)
	}
	if len(rows) != 3 {
		t.Fatalf("got %d rows, want 3 (1 header + 2 sites)", len(rows))
	}
}

func TestWriteConfigProducesValidJSON(t *testing.T) {
	dir := t.TempDir()
	type sample struct {
		Truncation float64 `json:"truncation"`
	}
	if err := WriteConfig(dir, sample{Truncation: 3.0}); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "config.json")); err != nil {
		t.Fatal(err)
	}
}

func TestWriteDeaggWritesNonzeroBinsOnly(t *testing.T) {
	dir := t.TempDir()
	cfg := deagg.BinConfig{
		RMin: 0, RMax: 100, DeltaR: 50,
		MMin: 5, MMax: 7, DeltaM: 1,
		EpsMin: -1, EpsMax: 1, DeltaEps: 1,
	}
	hist := deagg.NewHistogram(cfg)
	hist.Add("GRID", 10, 5.5, 0, 1e-4)
	res := &deagg.Result{Iml: 0.3, Histogram: hist}

	if err := WriteDeagg(dir, "test-site", "PGA", res); err != nil {
		t.Fatal(err)
	}
	if _, err := os.Stat(filepath.Join(dir, "deagg", "test-site", "PGA.json")); err != nil {
		t.Fatal(err)
	}
}
