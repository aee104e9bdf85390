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

import "github.com/usgs/nshmp-haz-go/gmm"

// EvaluateGmm implements S3 for one Gmm: calls model.Calc on every input,
// pairing each result back with its rupture's rate. A per-rupture
// arithmetic error (NaN/Inf mean or sigma) is recorded as a warning and
// that rupture is dropped, per §7's ARITHMETIC_DEGENERATE recovery rule;
// it never aborts the rest of the source.
func EvaluateGmm(model gmm.Gmm, inputs []RateInput) ([]RupturePrediction, []*HazardError) {
	out := make([]RupturePrediction, 0, len(inputs))
	var warnings []*HazardError
	for _, ri := range inputs {
		gm, err := model.Calc(ri.Input)
		if err != nil {
			warnings = append(warnings, newError(ArithmeticDegenerate, "S3", err))
			continue
		}
		if isDegenerate(gm.Mean) || isDegenerate(gm.Sigma) {
			warnings = append(warnings, newError(ArithmeticDegenerate, "S3", errDegenerateOutput))
			continue
		}
		out = append(out, RupturePrediction{Rate: ri.Rate, Mean: gm.Mean, Sigma: gm.Sigma})
	}
	return out, warnings
}

var errDegenerateOutput = degenerateOutputError{}

type degenerateOutputError struct{}

func (degenerateOutputError) Error() string { return "Gmm produced a NaN or infinite mean/sigma" }

func isDegenerate(f float64) bool { return f != f || f > 1e300 || f < -1e300 }
