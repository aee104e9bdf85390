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
	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/tree"
	"github.com/usgs/nshmp-haz-go/xy"
)

// AggregateSourceSet implements S5: combines one curve per Gmm branch
// into a single SourceSet curve, weighted by the branch's logic-tree
// weight. curvesByBranchID must have an entry for every branch in gmms;
// a missing entry means that Gmm produced no ruptures within cutoff and
// contributes a zero curve.
func AggregateSourceSet(xs []float64, curvesByBranchID map[string]*xy.Sequence, gmms *tree.Tree[gmm.Gmm]) *xy.Sequence {
	out := xy.EmptyWithX(xs)
	for _, br := range gmms.Branches() {
		c, ok := curvesByBranchID[br.ID]
		if !ok {
			continue
		}
		scaled := c.Clone()
		scaled.MultiplyScalar(br.Weight)
		out.AddY(scaled)
	}
	return out
}

// WeightedCurve pairs a SourceSet's aggregate curve with its SourceSet
// weight, the unit TotalCurve sums over (S6).
type WeightedCurve struct {
	Weight float64
	Curve  *xy.Sequence
}

// TotalCurve implements S6: sums every SourceSet's weighted curve.
// Independent-Poisson rates are additive, so this is a plain weighted
// sum, with no renormalization (§4.7.5).
func TotalCurve(xs []float64, curves []WeightedCurve) *xy.Sequence {
	out := xy.EmptyWithX(xs)
	for _, c := range curves {
		scaled := c.Curve.Clone()
		scaled.MultiplyScalar(c.Weight)
		out.AddY(scaled)
	}
	return out
}
