package site

import (
	"bytes"
	"math"
	"strings"
	"testing"

	"github.com/usgs/nshmp-haz-go/geo"
)

func TestParseTripletMinimal(t *testing.T) {
	s, err := ParseTriplet("LosAngeles,-118.2,34.0")
	if err != nil {
		t.Fatal(err)
	}
	if s.Name != "LosAngeles" || s.Location.Lon() != -118.2 || s.Location.Lat() != 34.0 {
		t.Errorf("got %+v", s)
	}
	if !math.IsNaN(s.Vs30) {
		t.Errorf("Vs30 should default to NaN, got %g", s.Vs30)
	}
}

func TestParseTripletFull(t *testing.T) {
	s, err := ParseTriplet("Site1,-120,35,400,1,0.5,1.2")
	if err != nil {
		t.Fatal(err)
	}
	if s.Vs30 != 400 || !s.VsInferred || s.Z1p0 != 0.5 || s.Z2p5 != 1.2 {
		t.Errorf("got %+v", s)
	}
}

func TestParseTripletRejectsBadFieldCount(t *testing.T) {
	if _, err := ParseTriplet("Site1,-120"); err == nil {
		t.Error("expected error for too few fields")
	}
}

func TestCSVRoundTrip(t *testing.T) {
	sites := Sites{
		NewSite("A", mustLocT(t, -120, 35, 0), 400, true, 0.3, 1.0),
		NewSite("B", mustLocT(t, -119, 36, 0), math.NaN(), false, math.NaN(), math.NaN()),
	}
	var buf bytes.Buffer
	if err := WriteCSV(&buf, sites); err != nil {
		t.Fatal(err)
	}
	got, err := ReadCSV(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(sites) {
		t.Errorf("round-trip mismatch:\nwant %+v\ngot  %+v", sites, got)
	}
}

func TestCSVIgnoresComments(t *testing.T) {
	r := strings.NewReader("# a comment\nname,lon,lat\nSite1,-120,35\n")
	got, err := ReadCSV(r)
	if err != nil {
		t.Fatal(err)
	}
	if len(got) != 1 || got[0].Name != "Site1" {
		t.Errorf("got %+v", got)
	}
}

func TestGeoJSONRoundTrip(t *testing.T) {
	sites := Sites{
		NewSite("A", mustLocT(t, -120, 35, 0), 400, true, 0.3, 1.0),
		NewSite("B", mustLocT(t, -119, 36, 0), math.NaN(), false, math.NaN(), math.NaN()),
	}
	var buf bytes.Buffer
	if err := WriteGeoJSON(&buf, sites); err != nil {
		t.Fatal(err)
	}
	got, err := ReadGeoJSON(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if !got.Equal(sites) {
		t.Errorf("round-trip mismatch:\nwant %+v\ngot  %+v", sites, got)
	}
}

func mustLocT(t *testing.T, lon, lat, depth float64) geo.Location {
	t.Helper()
	l, err := geo.NewLocation(lon, lat, depth)
	if err != nil {
		t.Fatal(err)
	}
	return l
}
