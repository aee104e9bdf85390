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
)

func TestClusterCurveSingleAlternativeSingleRuptureMatchesIndependent(t *testing.T) {
	xs := []float64{0.1, 0.2}
	totalRate := 1e-3
	alt := ClusterAlternativePrediction{
		Weight:      1,
		Predictions: []ScalarPrediction{{Mean: math.Log(0.3), Sigma: 0.5}},
	}
	curve, err := ClusterCurve(xs, totalRate, []ClusterAlternativePrediction{alt}, NoTruncation)
	if err != nil {
		t.Fatal(err)
	}
	for i, x := range xs {
		want := totalRate * ExceedanceProbability(x, alt.Predictions[0].Mean, alt.Predictions[0].Sigma, NoTruncation)
		if math.Abs(curve.Y(i)-want) > 1e-12 {
			t.Errorf("curve.Y(%d) = %g, want %g", i, curve.Y(i), want)
		}
	}
}

func TestClusterCurveMultiRupturAlternativeIsMultiplicative(t *testing.T) {
	xs := []float64{0.1}
	totalRate := 1.0
	alt := ClusterAlternativePrediction{
		Weight: 1,
		Predictions: []ScalarPrediction{
			{Mean: math.Log(0.3), Sigma: 0.5},
			{Mean: math.Log(0.3), Sigma: 0.5},
		},
	}
	curve, err := ClusterCurve(xs, totalRate, []ClusterAlternativePrediction{alt}, NoTruncation)
	if err != nil {
		t.Fatal(err)
	}
	p := ExceedanceProbability(xs[0], alt.Predictions[0].Mean, alt.Predictions[0].Sigma, NoTruncation)
	want := totalRate * (1 - (1-p)*(1-p))
	if math.Abs(curve.Y(0)-want) > 1e-12 {
		t.Errorf("curve.Y(0) = %g, want %g (multiplicative non-exceedance)", curve.Y(0), want)
	}
}

func TestClusterCurveAlternativesAreWeightedSum(t *testing.T) {
	xs := []float64{0.1}
	totalRate := 1.0
	altA := ClusterAlternativePrediction{Weight: 0.25, Predictions: []ScalarPrediction{{Mean: math.Log(0.3), Sigma: 0.5}}}
	altB := ClusterAlternativePrediction{Weight: 0.75, Predictions: []ScalarPrediction{{Mean: math.Log(1.0), Sigma: 0.5}}}
	curve, err := ClusterCurve(xs, totalRate, []ClusterAlternativePrediction{altA, altB}, NoTruncation)
	if err != nil {
		t.Fatal(err)
	}
	pA := ExceedanceProbability(xs[0], altA.Predictions[0].Mean, altA.Predictions[0].Sigma, NoTruncation)
	pB := ExceedanceProbability(xs[0], altB.Predictions[0].Mean, altB.Predictions[0].Sigma, NoTruncation)
	nonExceed := altA.Weight*(1-pA) + altB.Weight*(1-pB)
	want := totalRate * (1 - nonExceed)
	if math.Abs(curve.Y(0)-want) > 1e-12 {
		t.Errorf("curve.Y(0) = %g, want %g", curve.Y(0), want)
	}
}
