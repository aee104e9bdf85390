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
	"errors"
	"math"
	"testing"

	"github.com/usgs/nshmp-haz-go/gmm"
)

// constantGmm always returns the same ScalarGroundMotion, or an error if
// errOn is non-nil, regardless of input. Used to exercise EvaluateGmm
// without a real coefficient-backed model.
type constantGmm struct {
	mean, sigma float64
	errOn       error
}

func (c constantGmm) Calc(gmm.GmmInput) (gmm.ScalarGroundMotion, error) {
	if c.errOn != nil {
		return gmm.ScalarGroundMotion{}, c.errOn
	}
	return gmm.ScalarGroundMotion{Mean: c.mean, Sigma: c.sigma}, nil
}
func (c constantGmm) IMT() gmm.Imt               { return gmm.PGA }
func (c constantGmm) Constraints() gmm.FieldRanges { return gmm.FieldRanges{} }

func TestEvaluateGmmPairsRateWithGroundMotion(t *testing.T) {
	model := constantGmm{mean: -1.5, sigma: 0.6}
	inputs := []RateInput{
		{Rate: 1e-3, Input: gmm.GmmInput{Mag: 6}},
		{Rate: 2e-3, Input: gmm.GmmInput{Mag: 7}},
	}
	preds, warnings := EvaluateGmm(model, inputs)
	if len(warnings) != 0 {
		t.Fatalf("unexpected warnings: %v", warnings)
	}
	if len(preds) != 2 {
		t.Fatalf("got %d predictions, want 2", len(preds))
	}
	for i, p := range preds {
		if p.Rate != inputs[i].Rate {
			t.Errorf("prediction %d rate = %g, want %g", i, p.Rate, inputs[i].Rate)
		}
		if p.Mean != model.mean || p.Sigma != model.sigma {
			t.Errorf("prediction %d = (%g, %g), want (%g, %g)", i, p.Mean, p.Sigma, model.mean, model.sigma)
		}
	}
}

func TestEvaluateGmmDropsErroringRuptureAsWarning(t *testing.T) {
	model := constantGmm{errOn: errors.New("out of range")}
	inputs := []RateInput{{Rate: 1e-3, Input: gmm.GmmInput{Mag: 6}}}
	preds, warnings := EvaluateGmm(model, inputs)
	if len(preds) != 0 {
		t.Fatalf("got %d predictions, want 0", len(preds))
	}
	if len(warnings) != 1 || warnings[0].Kind != ArithmeticDegenerate {
		t.Fatalf("warnings = %v, want one ArithmeticDegenerate", warnings)
	}
}

func TestEvaluateGmmDropsNaNMeanAsWarning(t *testing.T) {
	model := constantGmm{mean: math.NaN(), sigma: 0.5}
	inputs := []RateInput{{Rate: 1e-3, Input: gmm.GmmInput{Mag: 6}}}
	preds, warnings := EvaluateGmm(model, inputs)
	if len(preds) != 0 {
		t.Fatalf("got %d predictions, want 0", len(preds))
	}
	if len(warnings) != 1 || warnings[0].Kind != ArithmeticDegenerate {
		t.Fatalf("warnings = %v, want one ArithmeticDegenerate", warnings)
	}
}

func TestEvaluateGmmEmptyInputsProducesEmptyOutput(t *testing.T) {
	preds, warnings := EvaluateGmm(constantGmm{mean: -1, sigma: 0.5}, nil)
	if len(preds) != 0 || len(warnings) != 0 {
		t.Fatalf("got (%v, %v), want both empty", preds, warnings)
	}
}
