package source

import (
	"testing"

	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/mfd"
	"github.com/usgs/nshmp-haz-go/rupture"
)

func mustLoc(t *testing.T, lon, lat, depth float64) geo.Location {
	t.Helper()
	l, err := geo.NewLocation(lon, lat, depth)
	if err != nil {
		t.Fatal(err)
	}
	return l
}

func TestSourceTypeString(t *testing.T) {
	cases := map[SourceType]string{
		Fault: "FAULT", Grid: "GRID", Cluster: "CLUSTER",
		Interface: "INTERFACE", Slab: "SLAB", Area: "AREA",
	}
	for typ, want := range cases {
		if got := typ.String(); got != want {
			t.Errorf("SourceType(%d).String() = %q, want %q", typ, got, want)
		}
	}
}

func TestSourceSetFilterByDistance(t *testing.T) {
	ss := NewSourceSet("near-fault-sources", Fault, 1.0, 100, nil)
	near := NewPointSource("near", mustLoc(t, -120, 35, 5), nil, 0, 90, 10)
	far := NewPointSource("far", mustLoc(t, -110, 35, 5), nil, 0, 90, 10)
	ss.Add(near)
	ss.Add(far)

	site := mustLoc(t, -120, 35, 0)
	filtered := ss.Filter(site, 10)
	if len(filtered) != 1 || filtered[0].ID() != "near" {
		t.Errorf("Filter should keep only 'near', got %v", ids(filtered))
	}
}

func ids(srcs []Source) []string {
	out := make([]string, len(srcs))
	for i, s := range srcs {
		out[i] = s.ID()
	}
	return out
}

func TestRegistryResolvesSourceSetOf(t *testing.T) {
	reg := NewRegistry()
	ss := NewSourceSet("ss1", Grid, 1.0, 100, nil)
	src := NewPointSource("p1", mustLoc(t, -120, 35, 5), nil, 0, 90, 10)
	ss.Add(src)
	reg.AddSourceSet(ss)

	got, err := reg.SourceSetOf(src)
	if err != nil {
		t.Fatal(err)
	}
	if got != ss {
		t.Error("SourceSetOf did not resolve back to the owning SourceSet")
	}
}

func TestRegistrySourceSetOfUnregisteredSourceErrors(t *testing.T) {
	reg := NewRegistry()
	orphan := NewPointSource("orphan", mustLoc(t, -120, 35, 5), nil, 0, 90, 10)
	if _, err := reg.SourceSetOf(orphan); err == nil {
		t.Error("expected error resolving an unregistered source's SourceSet")
	}
}

func TestGriddedSourceCentroidIsGridMean(t *testing.T) {
	trace := []geo.Location{mustLoc(t, -120, 35, 0), mustLoc(t, -119.5, 35, 0)}
	surf, err := geo.NewGriddedSurface(trace, 90, 10, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	m, err := mfd.NewGutenbergRichter(4.0, 0.9, 5.0, 7.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	src := NewGriddedSource("f1", surf, m, 90, rupture.Off, rupture.DefaultWellsCoppersmith1994, 0)
	c := src.Centroid()
	if c.Lon() < -120 || c.Lon() > -119.5 {
		t.Errorf("centroid longitude %g out of expected trace bounds", c.Lon())
	}
}

func TestGriddedSourceRuptures(t *testing.T) {
	trace := []geo.Location{mustLoc(t, -120, 35, 0), mustLoc(t, -119.5, 35, 0)}
	surf, err := geo.NewGriddedSurface(trace, 90, 10, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	m, err := mfd.NewGutenbergRichter(4.0, 0.9, 5.0, 7.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	src := NewGriddedSource("f1", surf, m, 90, rupture.Off, rupture.DefaultWellsCoppersmith1994, 0)
	rs, err := src.Ruptures()
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != len(m.Bins()) {
		t.Errorf("OFF mode: expected %d ruptures (one per bin), got %d", len(m.Bins()), len(rs))
	}
}

func TestPointSourceRuptures(t *testing.T) {
	m, err := mfd.NewGutenbergRichter(4.0, 0.9, 5.0, 7.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	src := NewPointSource("p1", mustLoc(t, -120, 35, 10), m, 0, 90, 10)
	rs, err := src.Ruptures()
	if err != nil {
		t.Fatal(err)
	}
	if len(rs) != len(m.Bins()) {
		t.Fatalf("expected %d ruptures, got %d", len(m.Bins()), len(rs))
	}
	for _, r := range rs {
		if r.Surface.Rows != 1 || r.Surface.Cols != 1 {
			t.Error("point source rupture surface should be a 1x1 grid")
		}
	}
}

func TestClusterSourceAlternativesAndTotalRate(t *testing.T) {
	surf := geo.NewGriddedSurfaceFromGrid([]geo.Location{mustLoc(t, -120, 35, 5)}, 1, 1, 90, 10, 5, 0, 0)
	alt1 := ClusterAlternative{Weight: 0.6, Ruptures: []rupture.Rupture{{Mag: 7.0, Rate: 0.01, Surface: surf}}}
	alt2 := ClusterAlternative{Weight: 0.4, Ruptures: []rupture.Rupture{{Mag: 7.2, Rate: 0.01, Surface: surf}, {Mag: 6.8, Rate: 0.01, Surface: surf}}}
	centroid := ClusterCentroid([]ClusterAlternative{alt1, alt2})

	cs := NewClusterSource("cluster1", centroid, 0.01, []ClusterAlternative{alt1, alt2})
	if cs.TotalRate() != 0.01 {
		t.Errorf("TotalRate() = %g, want 0.01", cs.TotalRate())
	}
	alts := cs.Alternatives()
	if len(alts) != 2 {
		t.Fatalf("expected 2 alternatives, got %d", len(alts))
	}
	var weightSum float64
	for _, a := range alts {
		weightSum += a.Weight
	}
	if weightSum != 1.0 {
		t.Errorf("alternative weights sum to %g, want 1", weightSum)
	}
}

func TestClusterSourceImplementsClusterSourceIface(t *testing.T) {
	var _ ClusterSourceIface = (*ClusterSource)(nil)
	var _ RuptureSource = (*GriddedSource)(nil)
	var _ RuptureSource = (*PointSource)(nil)
}
