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

import "github.com/usgs/nshmp-haz-go/xy"

// ScalarPrediction is one rupture's ground-motion prediction within a
// cluster alternative: no rate, since a cluster's ruptures share the
// cluster's single total rate Lambda rather than each carrying its own.
type ScalarPrediction struct {
	Mean, Sigma float64
}

// ClusterAlternativePrediction is one geometry alternative's branch
// weight plus the ground-motion prediction for every rupture in it.
type ClusterAlternativePrediction struct {
	Weight      float64
	Predictions []ScalarPrediction
}

// ClusterCurve implements §4.7.4's cluster combinatorics: non-exceedance
// within one alternative is multiplicative across its ruptures (every
// rupture must fail to exceed x for the alternative not to exceed it);
// alternatives combine by weighted sum. The result is scaled by the
// cluster's total rate Lambda, distinct from the independent-Poisson
// per-rupture-rate treatment CurveForGmm uses.
func ClusterCurve(xs []float64, totalRate float64, alternatives []ClusterAlternativePrediction, trunc Truncation) (*xy.Sequence, error) {
	ys := make([]float64, len(xs))
	for i, x := range xs {
		var nonExceedance float64
		for _, alt := range alternatives {
			prod := 1.0
			for _, p := range alt.Predictions {
				prod *= 1 - ExceedanceProbability(x, p.Mean, p.Sigma, trunc)
			}
			nonExceedance += alt.Weight * prod
		}
		ys[i] = totalRate * (1 - nonExceedance)
	}
	return xy.NewSequence(xs, ys)
}
