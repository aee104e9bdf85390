package rupture

import (
	"testing"

	"github.com/usgs/nshmp-haz-go/mfd"
)

func TestRuptureValidateMagnitudeRange(t *testing.T) {
	cases := []struct {
		mag     float64
		wantErr bool
	}{
		{mfd.MinMagnitude, false},
		{mfd.MaxMagnitude, false},
		{mfd.MinMagnitude - 0.1, true},
		{mfd.MaxMagnitude + 0.1, true},
	}
	for _, c := range cases {
		r := Rupture{Mag: c.mag, Rate: 1}
		err := r.Validate()
		if (err != nil) != c.wantErr {
			t.Errorf("Validate(mag=%g) error = %v, wantErr %v", c.mag, err, c.wantErr)
		}
	}
}

func TestRuptureValidateRejectsNegativeRate(t *testing.T) {
	r := Rupture{Mag: 6.0, Rate: -1}
	if err := r.Validate(); err == nil {
		t.Error("expected error for negative rate, got nil")
	}
}

func TestCheckFloaterWeightsToleratesSmallDrift(t *testing.T) {
	floaters := []Floater{{Weight: 0.5}, {Weight: 0.5 + 1e-9}}
	if err := checkFloaterWeights(floaters); err != nil {
		t.Errorf("unexpected error for near-1 weight sum: %v", err)
	}
}

func TestCheckFloaterWeightsRejectsBadSum(t *testing.T) {
	floaters := []Floater{{Weight: 0.5}, {Weight: 0.3}}
	if err := checkFloaterWeights(floaters); err == nil {
		t.Error("expected error for weight sum 0.8, got nil")
	}
}

func TestCheckFloaterWeightsAllowsEmpty(t *testing.T) {
	if err := checkFloaterWeights(nil); err != nil {
		t.Errorf("unexpected error for empty floater set: %v", err)
	}
}

func TestBuildFromMFDPreservesBinAlignment(t *testing.T) {
	parent := buildParent(t, 50, 15)
	m, err := mfd.NewGutenbergRichter(4.0, 0.9, 5.0, 7.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	ruptures, err := BuildFromMFD(parent, m, 90, Off, DefaultWellsCoppersmith1994, 0)
	if err != nil {
		t.Fatal(err)
	}
	if len(ruptures) != len(m.Bins()) {
		t.Errorf("OFF mode should produce 1 rupture per bin: got %d ruptures for %d bins", len(ruptures), len(m.Bins()))
	}
	for i, r := range ruptures {
		want := m.Bins()[i]
		if r.Mag != want.Mag {
			t.Errorf("rupture %d magnitude = %g, want %g", i, r.Mag, want.Mag)
		}
		if r.Rate != want.Rate {
			t.Errorf("rupture %d rate = %g, want %g", i, r.Rate, want.Rate)
		}
		if err := r.Validate(); err != nil {
			t.Errorf("rupture %d failed validation: %v", i, err)
		}
	}
}
