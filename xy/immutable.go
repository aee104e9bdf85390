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

package xy

import (
	"math"
	"sync"
)

// xGrid is an interned, immutable x-array. Every model run shares one grid
// per IMT, so interning lets SameX checks in the hot summation loop (S4)
// degrade to a pointer comparison instead of an O(n) scan.
type xGrid struct {
	xs   []float64
	hash uint64
}

var (
	internMu sync.Mutex
	interned = map[uint64]*xGrid{}
)

func hashXs(xs []float64) uint64 {
	// FNV-1a over the float64 bit patterns. Collisions are resolved by a
	// full slice comparison in intern, so this only needs to be a good
	// scramble, not cryptographic.
	var h uint64 = 14695981039346656037
	for _, x := range xs {
		bits := math.Float64bits(x)
		for i := 0; i < 8; i++ {
			h ^= (bits >> (8 * uint(i))) & 0xff
			h *= 1099511628211
		}
	}
	return h
}

func intern(xs []float64) *xGrid {
	h := hashXs(xs)
	internMu.Lock()
	defer internMu.Unlock()
	if g, ok := interned[h]; ok && equalFloats(g.xs, xs) {
		return g
	}
	g := &xGrid{xs: append([]float64(nil), xs...), hash: h}
	interned[h] = g
	return g
}

func equalFloats(a, b []float64) bool {
	if len(a) != len(b) {
		return false
	}
	for i := range a {
		if a[i] != b[i] {
			return false
		}
	}
	return true
}

// Immutable is an XySequence whose x-grid is interned and whose y values
// cannot be changed in place; arithmetic returns a new Immutable. It is the
// representation used for IML grids and any curve handed across a stage
// boundary that must not be mutated by its consumer (e.g. a SourceSet's
// per-Gmm curve published to the S5 reducer).
type Immutable struct {
	grid *xGrid
	ys   []float64
}

// NewImmutable builds an Immutable, interning xs and validating it the same
// way NewSequence does.
func NewImmutable(xs, ys []float64) (*Immutable, error) {
	if _, err := NewSequence(xs, ys); err != nil {
		return nil, err
	}
	ysCopy := append([]float64(nil), ys...)
	return &Immutable{grid: intern(xs), ys: ysCopy}, nil
}

// Len returns the number of points.
func (im *Immutable) Len() int { return len(im.grid.xs) }

// Xs returns the shared, interned x array. Callers must not mutate it.
func (im *Immutable) Xs() []float64 { return im.grid.xs }

// Ys returns the y array. Callers must not mutate it.
func (im *Immutable) Ys() []float64 { return im.ys }

// SameX reports whether im and o are on the same interned grid.
func (im *Immutable) SameX(o *Immutable) bool { return im.grid == o.grid }

// Plus returns a new Immutable whose y values are the point-wise sum of im
// and o. Panics (INTERNAL class) if they are not on the same grid.
func (im *Immutable) Plus(o *Immutable) *Immutable {
	if !im.SameX(o) {
		panic("xy: Plus called on Immutables with different x-grids")
	}
	ys := make([]float64, len(im.ys))
	for i := range ys {
		ys[i] = im.ys[i] + o.ys[i]
	}
	return &Immutable{grid: im.grid, ys: ys}
}

// Scaled returns a new Immutable with every y value multiplied by c.
func (im *Immutable) Scaled(c float64) *Immutable {
	ys := make([]float64, len(im.ys))
	for i, y := range im.ys {
		ys[i] = y * c
	}
	return &Immutable{grid: im.grid, ys: ys}
}

// Mutable returns a mutable Sequence view backed by a copy of im's y
// values, sharing the interned x array.
func (im *Immutable) Mutable() *Sequence {
	ys := append([]float64(nil), im.ys...)
	return &Sequence{xs: im.grid.xs, ys: ys}
}
