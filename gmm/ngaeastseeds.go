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

package gmm

import (
	"fmt"
	"math"

	"github.com/usgs/nshmp-haz-go/tree"
)

// NGAEastSeeds is a logic-tree-aggregate GMM: several CeusHardRock-family
// "seed" models, each a CEUS corner-frequency variant, combined as
// weighted logic-tree branches. CalcTree evaluates every seed and returns
// a tree.Tree[ScalarGroundMotion] with the same branch ids/weights as the
// seed tree, for callers that need the full epistemic spread; Calc
// collapses that tree to a single weighted-mean ScalarGroundMotion for
// callers that only want one GMM-shaped answer.
type NGAEastSeeds struct {
	imt   Imt
	seeds *tree.Tree[Gmm]
}

// NGAEastSeed names one seed model and the corner-frequency coefficient
// directory it loads from.
type NGAEastSeed struct {
	ID     string
	Weight float64
	Dir    string
}

// NewNGAEastSeeds builds an NGAEastSeeds aggregate from a set of seed
// coefficient directories, each loaded as a CeusHardRock model.
func NewNGAEastSeeds(imt Imt, seeds []NGAEastSeed) (*NGAEastSeeds, error) {
	if len(seeds) == 0 {
		return nil, fmt.Errorf("gmm: NGAEastSeeds(%s): no seeds given", imt)
	}
	b := tree.NewBuilder[Gmm]()
	for _, s := range seeds {
		m, err := NewCeusHardRock(s.Dir, imt)
		if err != nil {
			return nil, fmt.Errorf("gmm: NGAEastSeeds(%s): seed %q: %w", imt, s.ID, err)
		}
		b.Add(s.ID, s.Weight, Gmm(m))
	}
	t, err := b.Build()
	if err != nil {
		return nil, fmt.Errorf("gmm: NGAEastSeeds(%s): %w", imt, err)
	}
	return &NGAEastSeeds{imt: imt, seeds: t}, nil
}

// IMT implements Gmm.
func (n *NGAEastSeeds) IMT() Imt { return n.imt }

// Constraints implements Gmm.
func (n *NGAEastSeeds) Constraints() FieldRanges {
	return n.seeds.Branches()[0].Value.Constraints()
}

// CalcTree evaluates every seed and returns a tree with the same
// ids/weights as the seed logic tree, one ScalarGroundMotion per branch.
func (n *NGAEastSeeds) CalcTree(in GmmInput) (*tree.Tree[ScalarGroundMotion], error) {
	b := tree.NewBuilder[ScalarGroundMotion]()
	for _, br := range n.seeds.Branches() {
		gm, err := br.Value.Calc(in)
		if err != nil {
			return nil, fmt.Errorf("gmm: NGAEastSeeds(%s): seed %q: %w", n.imt, br.ID, err)
		}
		b.Add(br.ID, br.Weight, gm)
	}
	return b.Build()
}

// Calc implements Gmm by collapsing the seed tree to a single
// weighted-mean ScalarGroundMotion: the weighted mean of ln-medians, and
// a sigma that is the square root of the weighted mean of the seed
// variances plus the inter-seed variance of the means (a total-variance
// combination across epistemic branches).
func (n *NGAEastSeeds) Calc(in GmmInput) (ScalarGroundMotion, error) {
	t, err := n.CalcTree(in)
	if err != nil {
		return ScalarGroundMotion{}, err
	}
	var meanSum, sigmaSqSum float64
	for _, br := range t.Branches() {
		meanSum += br.Weight * br.Value.Mean
	}
	for _, br := range t.Branches() {
		d := br.Value.Mean - meanSum
		sigmaSqSum += br.Weight * (br.Value.Sigma*br.Value.Sigma + d*d)
	}
	if sigmaSqSum < 0 {
		sigmaSqSum = 0
	}
	return ScalarGroundMotion{Mean: meanSum, Sigma: math.Sqrt(sigmaSqSum)}, nil
}
