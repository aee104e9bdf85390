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

// Package deagg re-traverses the hazard pipeline at a single IML,
// distributing each rupture's contribution into a 3-D (R, M, epsilon)
// histogram, kept separately per source type.
package deagg

import (
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// BinConfig describes a histogram's edges along each of its three axes:
// distance (km), magnitude, and epsilon (standard-normal deviate units).
type BinConfig struct {
	RMin, RMax, DeltaR       float64
	MMin, MMax, DeltaM       float64
	EpsMin, EpsMax, DeltaEps float64
}

func (c BinConfig) nR() int   { return int(math.Ceil((c.RMax - c.RMin) / c.DeltaR)) }
func (c BinConfig) nM() int   { return int(math.Ceil((c.MMax - c.MMin) / c.DeltaM)) }
func (c BinConfig) nEps() int { return int(math.Ceil((c.EpsMax - c.EpsMin) / c.DeltaEps)) }

// Validate checks that every axis has a positive width and step.
func (c BinConfig) Validate() error {
	for _, axis := range []struct {
		name             string
		min, max, dStep float64
	}{
		{"r", c.RMin, c.RMax, c.DeltaR},
		{"m", c.MMin, c.MMax, c.DeltaM},
		{"eps", c.EpsMin, c.EpsMax, c.DeltaEps},
	} {
		if axis.dStep <= 0 {
			return fmt.Errorf("deagg: %s bin width must be positive, got %g", axis.name, axis.dStep)
		}
		if axis.max <= axis.min {
			return fmt.Errorf("deagg: %s range [%g, %g] is empty", axis.name, axis.min, axis.max)
		}
	}
	return nil
}

// index returns the bin index of x along an axis spanning [min, max) in
// steps of step, or ok=false if x falls outside the range.
func index(x, min, max, step float64) (int, bool) {
	if x < min || x >= max {
		return 0, false
	}
	return int((x - min) / step), true
}

// indexOf locates the (r, m, eps) bin for one contribution.
func (c BinConfig) indexOf(r, m, eps float64) (ri, mi, ei int, ok bool) {
	ri, ok = index(r, c.RMin, c.RMax, c.DeltaR)
	if !ok {
		return
	}
	mi, ok = index(m, c.MMin, c.MMax, c.DeltaM)
	if !ok {
		return
	}
	ei, ok = index(eps, c.EpsMin, c.EpsMax, c.DeltaEps)
	return
}

// Histogram accumulates rate contributions into (R, M, epsilon) bins, one
// sparse.DenseArray per source type, since most bins are zero for any
// single site (the same regime the teacher uses sparse.DenseArray for
// grid-cell pollutant fields).
type Histogram struct {
	Config       BinConfig
	BySourceType map[string]*sparse.DenseArray
}

// NewHistogram returns an empty Histogram over cfg's bin edges.
func NewHistogram(cfg BinConfig) *Histogram {
	return &Histogram{Config: cfg, BySourceType: make(map[string]*sparse.DenseArray)}
}

// Add accumulates rate into the (r, m, eps) bin for sourceType, allocating
// that source type's array lazily. A contribution outside every axis's
// range is dropped silently: deaggregation only characterizes rate within
// the configured bins, it does not require them to cover the whole model.
func (h *Histogram) Add(sourceType string, r, m, eps, rate float64) {
	ri, mi, ei, ok := h.Config.indexOf(r, m, eps)
	if !ok {
		return
	}
	arr, ok := h.BySourceType[sourceType]
	if !ok {
		arr = sparse.ZerosDense(h.Config.nR(), h.Config.nM(), h.Config.nEps())
		h.BySourceType[sourceType] = arr
	}
	arr.Set(arr.Get(ri, mi, ei)+rate, ri, mi, ei)
}

// Sum returns the total rate accumulated across every bin and source
// type, used to check the §8 "bins sum to the total curve's deagg-IML
// rate" invariant.
func (h *Histogram) Sum() float64 {
	var sum float64
	for _, arr := range h.BySourceType {
		for _, v := range arr.Elements {
			sum += v
		}
	}
	return sum
}
