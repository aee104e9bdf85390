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

// Package xy implements immutable and mutable numeric (x, y) sequences used
// throughout the hazard pipeline: IML grids, hazard curves, and response
// spectra are all XySequences sharing a common x-grid.
package xy

import (
	"fmt"
	"math"
)

// Sequence is an aligned pair of strictly-increasing x values and
// corresponding y values. The zero value is not valid; use NewSequence or
// MustNewSequence.
type Sequence struct {
	xs []float64
	ys []float64
}

// NewSequence builds a Sequence from xs and ys, validating that xs is
// strictly increasing and that the two slices are the same length. The
// backing arrays are not copied; callers should not mutate xs/ys after
// passing them in unless they own the returned Sequence exclusively.
func NewSequence(xs, ys []float64) (*Sequence, error) {
	if len(xs) != len(ys) {
		return nil, fmt.Errorf("xy: len(xs)=%d != len(ys)=%d", len(xs), len(ys))
	}
	for i := 1; i < len(xs); i++ {
		if xs[i] <= xs[i-1] {
			return nil, fmt.Errorf("xy: xs not strictly increasing at index %d (%g <= %g)", i, xs[i], xs[i-1])
		}
	}
	return &Sequence{xs: xs, ys: ys}, nil
}

// MustNewSequence is like NewSequence but panics on error. Intended for
// package-level IML grids and other values known to be valid at init time.
func MustNewSequence(xs, ys []float64) *Sequence {
	s, err := NewSequence(xs, ys)
	if err != nil {
		panic(err)
	}
	return s
}

// EmptyWithX returns a new Sequence sharing xs (by reference) with ys all
// zero. This is the usual way to start accumulating a hazard curve on a
// model's IML grid.
func EmptyWithX(xs []float64) *Sequence {
	return &Sequence{xs: xs, ys: make([]float64, len(xs))}
}

// Len returns the number of points in the sequence.
func (s *Sequence) Len() int { return len(s.xs) }

// Xs returns the backing x array. Callers must not mutate it.
func (s *Sequence) Xs() []float64 { return s.xs }

// Ys returns the backing y array. Callers must not mutate it unless they
// hold exclusive ownership of the Sequence.
func (s *Sequence) Ys() []float64 { return s.ys }

// X returns the x value at index i.
func (s *Sequence) X(i int) float64 { return s.xs[i] }

// Y returns the y value at index i.
func (s *Sequence) Y(i int) float64 { return s.ys[i] }

// SameX reports whether s and o share the same x-grid, by length and value
// rather than by pointer identity (two sequences built from equal literal
// grids are "the same" for arithmetic purposes).
func (s *Sequence) SameX(o *Sequence) bool {
	if len(s.xs) != len(o.xs) {
		return false
	}
	for i := range s.xs {
		if s.xs[i] != o.xs[i] {
			return false
		}
	}
	return true
}

// Clone returns a deep copy of s.
func (s *Sequence) Clone() *Sequence {
	ys := make([]float64, len(s.ys))
	copy(ys, s.ys)
	return &Sequence{xs: s.xs, ys: ys}
}

// AddY adds o's y values into s in place, index by index. Panics if the two
// sequences do not share an x-grid (an INTERNAL-class invariant violation:
// callers are responsible for only ever combining curves computed on the
// same IML grid).
func (s *Sequence) AddY(o *Sequence) {
	if !s.SameX(o) {
		panic("xy: AddY called on sequences with different x-grids")
	}
	for i := range s.ys {
		s.ys[i] += o.ys[i]
	}
}

// AddScalar adds c to every y value in place.
func (s *Sequence) AddScalar(c float64) {
	for i := range s.ys {
		s.ys[i] += c
	}
}

// MultiplyY multiplies s's y values by o's, index by index, in place.
func (s *Sequence) MultiplyY(o *Sequence) {
	if !s.SameX(o) {
		panic("xy: MultiplyY called on sequences with different x-grids")
	}
	for i := range s.ys {
		s.ys[i] *= o.ys[i]
	}
}

// MultiplyScalar multiplies every y value by c in place.
func (s *Sequence) MultiplyScalar(c float64) {
	for i := range s.ys {
		s.ys[i] *= c
	}
}

// NonIncreasing reports whether y is non-increasing in x, which every
// hazard curve must be (testable property #2).
func (s *Sequence) NonIncreasing() bool {
	for i := 1; i < len(s.ys); i++ {
		if s.ys[i] > s.ys[i-1] {
			return false
		}
	}
	return true
}

// InterpolateY returns the linearly-interpolated y value at x. x outside
// the sequence's range is clamped to the nearest endpoint.
func (s *Sequence) InterpolateY(x float64) float64 {
	n := len(s.xs)
	if n == 0 {
		return math.NaN()
	}
	if x <= s.xs[0] {
		return s.ys[0]
	}
	if x >= s.xs[n-1] {
		return s.ys[n-1]
	}
	i := upperBound(s.xs, x)
	x0, x1 := s.xs[i-1], s.xs[i]
	y0, y1 := s.ys[i-1], s.ys[i]
	f := (x - x0) / (x1 - x0)
	return y0 + f*(y1-y0)
}

// InterpolateXLogLog returns the x value at which the curve, interpolated
// in log-log space, equals y. Used to find the IML corresponding to a
// given return period on a (decreasing-in-x) hazard curve. Returns an
// error if y lies outside the curve's y-range (edge case called out for
// deaggregation's return-period lookup).
func (s *Sequence) InterpolateXLogLog(y float64) (float64, error) {
	n := len(s.xs)
	if n < 2 {
		return 0, fmt.Errorf("xy: need at least 2 points to interpolate, have %d", n)
	}
	// ys are expected non-increasing (exceedance curve); locate the bracket
	// where ys[i] >= y >= ys[i+1].
	if y > s.ys[0] || y < s.ys[n-1] {
		return 0, fmt.Errorf("xy: y=%g outside curve range [%g, %g]", y, s.ys[n-1], s.ys[0])
	}
	for i := 0; i < n-1; i++ {
		y0, y1 := s.ys[i], s.ys[i+1]
		if y1 <= y && y <= y0 {
			if y0 == y1 {
				return s.xs[i], nil
			}
			lx0, lx1 := math.Log(s.xs[i]), math.Log(s.xs[i+1])
			ly0, ly1 := math.Log(y0), math.Log(y1)
			ly := math.Log(y)
			f := (ly - ly0) / (ly1 - ly0)
			return math.Exp(lx0 + f*(lx1-lx0)), nil
		}
	}
	return 0, fmt.Errorf("xy: y=%g not found within curve range", y)
}

// upperBound returns the index of the first element of xs strictly greater
// than x, assuming xs is strictly increasing and x is within (xs[0], xs[n-1]).
func upperBound(xs []float64, x float64) int {
	lo, hi := 0, len(xs)
	for lo < hi {
		mid := (lo + hi) / 2
		if xs[mid] <= x {
			lo = mid + 1
		} else {
			hi = mid
		}
	}
	return lo
}
