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

// Package tree implements weighted logic trees: ordered lists of
// (id, weight, value) branches whose weights always sum to 1, with
// sampling by cumulative weight. Logic trees underlie GMM-set
// alternatives (tree.Tree[gmm.Gmm]); cluster-source rupture-geometry
// alternatives are a plain []source.ClusterAlternative slice, not a tree.
package tree

import "fmt"

// Branch is one alternative in a logic tree.
type Branch[T any] struct {
	ID     string
	Weight float64
	Value  T
}

// Tree is a frozen, validated logic tree over values of type T. The zero
// value is not valid; build one with a Builder.
type Tree[T any] struct {
	branches []Branch[T]
	cumWeight []float64 // cumWeight[i] = sum of weights[0..i], cumWeight[last] == 1
}

// Branches returns the tree's branches in insertion order.
func (t *Tree[T]) Branches() []Branch[T] { return t.branches }

// Len returns the number of branches.
func (t *Tree[T]) Len() int { return len(t.branches) }

// Sample returns the branch whose cumulative-weight upper edge first
// exceeds p, for p in [0, 1). Ties break to the lower index. p >= 1
// returns the last branch (§4.6, §8 boundary behaviour, §9 open question
// resolved in favor of strict '<' with a tail-branch fallback).
func (t *Tree[T]) Sample(p float64) Branch[T] {
	if p >= 1 {
		return t.branches[len(t.branches)-1]
	}
	for i, cum := range t.cumWeight {
		if p < cum {
			return t.branches[i]
		}
	}
	return t.branches[len(t.branches)-1]
}

// SampleAll returns the branch for each p in ps, index-aligned.
func (t *Tree[T]) SampleAll(ps []float64) []Branch[T] {
	out := make([]Branch[T], len(ps))
	for i, p := range ps {
		out[i] = t.Sample(p)
	}
	return out
}

// Builder accumulates (id, weight, value) branches and validates them on
// Build.
type Builder[T any] struct {
	branches []Branch[T]
}

// NewBuilder returns an empty Builder.
func NewBuilder[T any]() *Builder[T] { return &Builder[T]{} }

// Add appends a branch.
func (b *Builder[T]) Add(id string, weight float64, value T) *Builder[T] {
	b.branches = append(b.branches, Branch[T]{ID: id, Weight: weight, Value: value})
	return b
}

// weightTolerance is the allowed deviation of the total branch weight
// from 1 (§8 testable property #1).
const weightTolerance = 1e-4

// Build validates that all weights are positive and sum to 1 (within
// weightTolerance) and freezes the tree. A single-branch tree is built as
// a degenerate Tree whose Sample always returns the sole branch,
// regardless of p (§4.6).
func (b *Builder[T]) Build() (*Tree[T], error) {
	if len(b.branches) == 0 {
		return nil, fmt.Errorf("tree: no branches added")
	}
	var sum float64
	for _, br := range b.branches {
		if br.Weight <= 0 {
			return nil, fmt.Errorf("tree: branch %q has non-positive weight %g", br.ID, br.Weight)
		}
		sum += br.Weight
	}
	if d := sum - 1; d < -weightTolerance || d > weightTolerance {
		return nil, fmt.Errorf("tree: branch weights sum to %g, want 1 (+/- %g)", sum, weightTolerance)
	}

	cum := make([]float64, len(b.branches))
	running := 0.0
	for i, br := range b.branches {
		running += br.Weight
		cum[i] = running
	}
	// Clamp the final cumulative weight to exactly 1 so that Sample's
	// strict '<' comparison never spuriously misses the last branch due
	// to float64 summation drift.
	cum[len(cum)-1] = 1

	branches := make([]Branch[T], len(b.branches))
	copy(branches, b.branches)
	return &Tree[T]{branches: branches, cumWeight: cum}, nil
}

// Single builds a degenerate, always-valid single-branch tree: Sample(p)
// returns the sole value for any p.
func Single[T any](id string, value T) *Tree[T] {
	return &Tree[T]{
		branches:  []Branch[T]{{ID: id, Weight: 1, Value: value}},
		cumWeight: []float64{1},
	}
}
