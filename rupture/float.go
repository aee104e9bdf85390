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

package rupture

import (
	"fmt"
	"math"

	"github.com/usgs/nshmp-haz-go/geo"
)

// Mode selects how a parent gridded surface is decomposed into floating
// sub-ruptures, per §4.3.
type Mode int

const (
	Off Mode = iota
	On
	StrikeOnly
	NSHM
	Triangular
)

// Floater is one floating sub-rupture of a parent GriddedSurface: a
// contiguous row/column window, its own gridded surface, and the fraction
// of the parent rate it carries.
type Floater struct {
	RowStart, ColStart int
	RowSpan, ColSpan   int
	Surface            *geo.GriddedSurface
	Weight             float64 // fraction of parent rate; sums to 1 across all floaters.
}

// Float decomposes parent into floating sub-ruptures for a rupture of the
// given magnitude, using scaling to size the sub-surface and mode to
// choose how positions (and, for NSHM/TRIANGULAR, hypocentral depth) are
// enumerated. areaSigma, if positive, passes the ON mode's along-strike
// weights through broadenWeights (ON mode only); the position set is not
// extended, and because those weights are uniform the broadened weights
// equal the unbroadened ones up to rounding.
func Float(parent *geo.GriddedSurface, mag float64, mode Mode, scaling Scaling, areaSigma float64) ([]Floater, error) {
	if parent.Rows < 1 || parent.Cols < 1 {
		return nil, fmt.Errorf("rupture: parent surface has no grid points")
	}

	switch mode {
	case Off:
		return []Floater{{
			RowStart: 0, ColStart: 0,
			RowSpan: parent.Rows, ColSpan: parent.Cols,
			Surface: subSurface(parent, 0, 0, parent.Rows, parent.Cols),
			Weight:  1,
		}}, nil

	case StrikeOnly:
		colSpan := spanCount(scaling.Length(mag), parent.ColSpace, parent.Cols)
		colWeights := uniformWeights(numPositions(parent.Cols, colSpan))
		return assemble(parent, parent.Rows, colSpan, uniformWeights(1), colWeights), nil

	case On:
		rowSpan := spanCount(scaling.Width(mag, parent.Width), parent.RowSpace, parent.Rows)
		colSpan := spanCount(scaling.Length(mag), parent.ColSpace, parent.Cols)
		colWeights := uniformWeights(numPositions(parent.Cols, colSpan))
		if areaSigma > 0 {
			colWeights = broadenWeights(colWeights)
		}
		rowWeights := uniformWeights(numPositions(parent.Rows, rowSpan))
		return assemble(parent, rowSpan, colSpan, rowWeights, colWeights), nil

	case NSHM:
		if parent.ZTop > 1 {
			return nil, nil // per §4.3: NSHM floating is skipped when zTop > 1 km.
		}
		rowSpan := spanCount(scaling.Width(mag, parent.Width), parent.RowSpace, parent.Rows)
		colSpan := spanCount(scaling.Length(mag), parent.ColSpace, parent.Cols)
		colWeights := uniformWeights(numPositions(parent.Cols, colSpan))
		rowStarts := nshmDepthOffsets(mag, parent.RowSpace, parent.Rows, rowSpan)
		rowWeights := make(map[int]float64, len(rowStarts))
		w := 1.0 / float64(len(rowStarts))
		for _, r := range rowStarts {
			rowWeights[r] = w
		}
		return assembleSparse(parent, rowSpan, colSpan, rowWeights, colWeights), nil

	case Triangular:
		rowSpan := spanCount(scaling.Width(mag, parent.Width), parent.RowSpace, parent.Rows)
		colSpan := spanCount(scaling.Length(mag), parent.ColSpace, parent.Cols)
		colWeights := uniformWeights(numPositions(parent.Cols, colSpan))
		nRowPos := numPositions(parent.Rows, rowSpan)
		rowWeights := triangularWeights(nRowPos, parent.Rows, rowSpan)
		return assemble(parent, rowSpan, colSpan, rowWeights, colWeights), nil
	}
	return nil, fmt.Errorf("rupture: unknown floating mode %d", mode)
}

// spanCount converts a physical dimension (km) to a grid-point span via
// the parent's spacing, per §4.3: "rint(dim/spacing + 1)", clamped to the
// parent's dimension.
func spanCount(dimKm, spacing float64, parentCount int) int {
	if spacing <= 0 {
		return parentCount
	}
	n := int(math.Round(dimKm/spacing + 1))
	if n < 1 {
		n = 1
	}
	if n > parentCount {
		n = parentCount
	}
	return n
}

// numPositions returns how many sliding-window start positions fit a span
// of size span within a dimension of size total.
func numPositions(total, span int) int {
	n := total - span + 1
	if n < 1 {
		return 1
	}
	return n
}

func uniformWeights(n int) []float64 {
	w := make([]float64, n)
	for i := range w {
		w[i] = 1.0 / float64(n)
	}
	return w
}

// broadenWeights spreads 50% of each position's weight onto its
// immediate neighbors (wrapped at the ends onto themselves), representing
// a rupture-area sigma broadening the along-strike position set.
func broadenWeights(w []float64) []float64 {
	if len(w) < 3 {
		return w
	}
	out := make([]float64, len(w))
	for i, wi := range w {
		lo, hi := i-1, i+1
		if lo < 0 {
			lo = i
		}
		if hi >= len(w) {
			hi = i
		}
		out[i] += wi * 0.5
		out[lo] += wi * 0.25
		out[hi] += wi * 0.25
	}
	return normalize(out)
}

func normalize(w []float64) []float64 {
	var sum float64
	for _, v := range w {
		sum += v
	}
	if sum == 0 {
		return w
	}
	out := make([]float64, len(w))
	for i, v := range w {
		out[i] = v / sum
	}
	return out
}

// nshmDepthOffsets returns the row-start indices corresponding to the
// NSHM floating mode's fixed down-dip offsets (0, 2, 4, 6 km), limited to
// the count dictated by magnitude: M>7 -> 1 offset, M>6.75 -> 2,
// M>6.5 -> 3, else -> 4.
func nshmDepthOffsets(mag, rowSpace float64, parentRows, rowSpan int) []int {
	count := 4
	switch {
	case mag > 7:
		count = 1
	case mag > 6.75:
		count = 2
	case mag > 6.5:
		count = 3
	}
	offsetsKm := []float64{0, 2, 4, 6}[:count]
	maxStart := parentRows - rowSpan
	if maxStart < 0 {
		maxStart = 0
	}
	seen := map[int]bool{}
	var starts []int
	for _, km := range offsetsKm {
		r := 0
		if rowSpace > 0 {
			r = int(math.Round(km / rowSpace))
		}
		if r > maxStart {
			r = maxStart
		}
		if !seen[r] {
			seen[r] = true
			starts = append(starts, r)
		}
	}
	if len(starts) == 0 {
		starts = []int{0}
	}
	return starts
}

// triangularWeights assigns each row position a weight from a triangular
// probability density in hypocentral depth, peaking at 1/3 of the parent
// width, normalized to sum to 1.
func triangularWeights(n, parentRows, rowSpan int) []float64 {
	if n == 1 {
		return []float64{1}
	}
	peak := float64(parentRows-1) / 3.0
	raw := make([]float64, n)
	for i := 0; i < n; i++ {
		// Use the window's center row as its representative depth index.
		center := float64(i) + float64(rowSpan-1)/2.0
		raw[i] = triangularPDF(center, 0, peak, float64(parentRows-1))
	}
	return normalize(raw)
}

// triangularPDF evaluates the unnormalized triangular density with
// support [lo, hi] and mode peak at x.
func triangularPDF(x, lo, peak, hi float64) float64 {
	if x <= lo || x >= hi {
		return 0
	}
	if x <= peak {
		if peak == lo {
			return 1
		}
		return (x - lo) / (peak - lo)
	}
	if hi == peak {
		return 1
	}
	return (hi - x) / (hi - peak)
}

// assemble builds floaters for every combination of row/col positions,
// zero-weight combinations included, with rowWeights/colWeights index-aligned
// to row/col start positions 0..n-1.
func assemble(parent *geo.GriddedSurface, rowSpan, colSpan int, rowWeights, colWeights []float64) []Floater {
	rw := make(map[int]float64, len(rowWeights))
	for i, w := range rowWeights {
		rw[i] = w
	}
	return assembleSparse(parent, rowSpan, colSpan, rw, colWeights)
}

// assembleSparse is like assemble but takes rowWeights as a sparse
// row-start -> weight map, used by the NSHM mode's discrete depth offsets.
func assembleSparse(parent *geo.GriddedSurface, rowSpan, colSpan int, rowWeights map[int]float64, colWeights []float64) []Floater {
	var floaters []Floater
	for rowStart, rw := range rowWeights {
		for colStart, cw := range colWeights {
			floaters = append(floaters, Floater{
				RowStart: rowStart, ColStart: colStart,
				RowSpan: rowSpan, ColSpan: colSpan,
				Surface: subSurface(parent, rowStart, colStart, rowSpan, colSpan),
				Weight:  rw * cw,
			})
		}
	}
	return floaters
}

// subSurface extracts the row/col window [rowStart, rowStart+rowSpan) x
// [colStart, colStart+colSpan) from parent as an independent
// GriddedSurface, recomputing its top-edge trace from the window's row 0.
func subSurface(parent *geo.GriddedSurface, rowStart, colStart, rowSpan, colSpan int) *geo.GriddedSurface {
	grid := make([]geo.Location, rowSpan*colSpan)
	for r := 0; r < rowSpan; r++ {
		for c := 0; c < colSpan; c++ {
			grid[r*colSpan+c] = parent.At(rowStart+r, colStart+c)
		}
	}
	zTop := parent.ZTop + float64(rowStart)*parent.RowSpace*math.Sin(parent.Dip*math.Pi/180)
	width := float64(rowSpan-1) * parent.RowSpace
	if rowSpan == 1 {
		width = parent.RowSpace
	}
	return geo.NewGriddedSurfaceFromGrid(grid, rowSpan, colSpan, parent.Dip, width, zTop, parent.RowSpace, parent.ColSpace)
}
