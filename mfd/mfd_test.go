package mfd

import (
	"math"
	"testing"
)

func TestIncrementalValidation(t *testing.T) {
	if _, err := NewIncremental([]float64{5, 5}, []float64{1, 1}); err == nil {
		t.Error("expected error for non-increasing magnitudes")
	}
	if _, err := NewIncremental([]float64{5}, []float64{-1}); err == nil {
		t.Error("expected error for negative rate")
	}
}

func TestGutenbergRichterMonotonic(t *testing.T) {
	g, err := NewGutenbergRichter(4.0, 0.9, 5.0, 7.0, 0.1)
	if err != nil {
		t.Fatal(err)
	}
	bins := g.Bins()
	if len(bins) == 0 {
		t.Fatal("expected non-empty bins")
	}
	for i := 1; i < len(bins); i++ {
		if bins[i].Rate > bins[i-1].Rate {
			t.Errorf("GR rate should decrease with magnitude: bin %d rate %g > bin %d rate %g",
				i, bins[i].Rate, i-1, bins[i-1].Rate)
		}
	}
}

func TestGutenbergRichterRetainsZeroBins(t *testing.T) {
	// A very steep b-value drives high-magnitude bins to (near) zero rate;
	// they must still be present in Bins(), not dropped.
	g, err := NewGutenbergRichter(1.0, 3.0, 4.0, 7.0, 0.5)
	if err != nil {
		t.Fatal(err)
	}
	wantBins := int(math.Round((7.0-4.0)/0.5)) // last bin dropped at boundary
	if len(g.Bins()) < wantBins-1 {
		t.Errorf("expected bins to be retained across the full range, got %d bins", len(g.Bins()))
	}
}

func TestCharacteristicSingleBin(t *testing.T) {
	c, err := NewCharacteristic(7.0, 1e-3)
	if err != nil {
		t.Fatal(err)
	}
	if len(c.Bins()) != 1 {
		t.Fatalf("expected 1 bin, got %d", len(c.Bins()))
	}
}

func TestYoungsCoppersmithSumsToMomentBudget(t *testing.T) {
	yc, err := NewYoungsCoppersmith(0.9, 5.0, 6.8, 7.2, 0.1, 1e17)
	if err != nil {
		t.Fatal(err)
	}
	var moment float64
	for _, b := range yc.Bins() {
		moment += b.Rate * hanksKanamoriMoment(b.Mag)
	}
	if rel := math.Abs(moment-yc.MomentRate) / yc.MomentRate; rel > 1e-6 {
		t.Errorf("moment budget not conserved: got %g, want %g (rel err %g)", moment, yc.MomentRate, rel)
	}
}

func TestValidateRejectsOutOfRangeMagnitude(t *testing.T) {
	bad := &Incremental{bins: []Bin{{Mag: 10.0, Rate: 1e-3}}}
	if err := Validate(bad); err == nil {
		t.Error("expected INPUT_VALIDATION-class error for magnitude outside [-2, 9.7]")
	}
}
