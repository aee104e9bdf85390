package geo

import (
	"math"
	"testing"
)

func mustLoc(t *testing.T, lon, lat, depth float64) Location {
	t.Helper()
	l, err := NewLocation(lon, lat, depth)
	if err != nil {
		t.Fatalf("NewLocation(%g,%g,%g): %v", lon, lat, depth, err)
	}
	return l
}

func TestNewLocationValidation(t *testing.T) {
	if _, err := NewLocation(0, 91, 0); err == nil {
		t.Error("expected error for latitude > 90")
	}
	if _, err := NewLocation(181, 0, 0); err == nil {
		t.Error("expected error for longitude > 180")
	}
	if _, err := NewLocation(0, 0, 800); err == nil {
		t.Error("expected error for depth > 700")
	}
}

func TestSurfaceDistanceZero(t *testing.T) {
	a := mustLoc(t, -120, 35, 0)
	if d := SurfaceDistance(a, a); d > 1e-9 {
		t.Errorf("distance to self = %g, want ~0", d)
	}
}

func TestSurfaceDistanceKnown(t *testing.T) {
	// One degree of latitude is about 111.2 km.
	a := mustLoc(t, 0, 0, 0)
	b := mustLoc(t, 0, 1, 0)
	d := SurfaceDistance(a, b)
	if math.Abs(d-111.19) > 0.5 {
		t.Errorf("1 deg latitude = %g km, want ~111.2", d)
	}
}

func TestGriddedSurfaceVerticalFaultOnTrace(t *testing.T) {
	trace := []Location{
		mustLoc(t, -120.1, 35.0, 0),
		mustLoc(t, -119.9, 35.0, 0),
	}
	surf, err := NewGriddedSurface(trace, 90, 10, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	mid := mustLoc(t, -120.0, 35.0, 0)
	dist := surf.DistanceTo(mid)
	if dist.RJB > 1.0 {
		t.Errorf("rJB on trace midpoint = %g, want near 0", dist.RJB)
	}
	if dist.RRup > 1.0 {
		t.Errorf("rRup on trace midpoint = %g, want near 0", dist.RRup)
	}
}

func TestRXSignHangingWall(t *testing.T) {
	trace := []Location{
		mustLoc(t, -120.1, 35.0, 0),
		mustLoc(t, -119.9, 35.0, 0),
	}
	// Dipping fault (not vertical) so there is a genuine hanging-wall side.
	surf, err := NewGriddedSurface(trace, 45, 10, 0, 1)
	if err != nil {
		t.Fatal(err)
	}
	north := mustLoc(t, -120.0, 35.1, 0)
	south := mustLoc(t, -120.0, 34.9, 0)
	rxNorth := surf.rX(north)
	rxSouth := surf.rX(south)
	if (rxNorth > 0) == (rxSouth > 0) {
		t.Errorf("expected opposite-sign rX on opposite sides of trace, got %g and %g", rxNorth, rxSouth)
	}
}

func TestTranslateRoundTrip(t *testing.T) {
	origin := mustLoc(t, -120, 35, 0)
	moved := Translate(origin, 90, 100, 0)
	back := Translate(moved, 270, 100, 0)
	if d := SurfaceDistance(origin, back); d > 0.1 {
		t.Errorf("round-trip translate drift = %g km, want ~0", d)
	}
}
