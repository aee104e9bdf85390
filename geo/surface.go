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

package geo

import (
	"fmt"
	"math"
)

// Distances holds the source-to-site distance triplet computed from a
// rupture surface.
type Distances struct {
	RJB  float64 // Joyner-Boore distance (horizontal), km.
	RRup float64 // closest 3-D distance to the rupture surface, km.
	RX   float64 // signed perpendicular distance from the top-edge trace, km.
}

// GriddedSurface is a row-major lattice of Locations: row 0 is the fault
// trace projected to zTop, and each subsequent row is the previous one
// translated down-dip by one grid spacing. Rows run along dip, columns
// along strike.
type GriddedSurface struct {
	Rows, Cols int
	Grid       []Location // row-major, length Rows*Cols

	Dip       float64 // degrees from horizontal
	Width     float64 // down-dip width, km
	ZTop      float64 // depth to the top of the surface, km
	RowSpace  float64 // km between rows (down-dip)
	ColSpace  float64 // km between columns (along strike)

	// traceStart/traceEnd are the first and last points of row 0, used to
	// resolve the rX sign and the hanging-wall tie-break.
	traceStart, traceEnd Location
}

// At returns the Location at (row, col).
func (g *GriddedSurface) At(row, col int) Location {
	return g.Grid[row*g.Cols+col]
}

// NewGriddedSurfaceFromGrid builds a GriddedSurface directly from a
// pre-computed row-major grid (e.g. a window extracted from another
// surface by the rupture package's floating logic), deriving the
// top-edge trace endpoints from row 0.
func NewGriddedSurfaceFromGrid(grid []Location, rows, cols int, dip, width, zTop, rowSpace, colSpace float64) *GriddedSurface {
	return &GriddedSurface{
		Rows: rows, Cols: cols, Grid: grid,
		Dip: dip, Width: width, ZTop: zTop,
		RowSpace: rowSpace, ColSpace: colSpace,
		traceStart: grid[0], traceEnd: grid[cols-1],
	}
}

// NewGriddedSurface builds a GriddedSurface from a polyline trace (at the
// surface), a dip angle, a down-dip width, a depth to the top of rupture,
// and a target grid spacing. Row 0 is the trace itself (translated to
// zTop); each subsequent row is offset along the dip direction by
// rowSpacing, until the full width is covered.
func NewGriddedSurface(trace []Location, dipDeg, width, zTop, spacing float64) (*GriddedSurface, error) {
	if len(trace) < 2 {
		return nil, fmt.Errorf("geo: trace must have at least 2 points, got %d", len(trace))
	}
	if spacing <= 0 {
		return nil, fmt.Errorf("geo: grid spacing must be positive, got %g", spacing)
	}

	cols := traceColumns(trace, spacing)
	traceRow := resampleTrace(trace, cols, zTop)

	rows := int(math.Round(width/spacing)) + 1
	if rows < 1 {
		rows = 1
	}
	rowSpace := width / float64(rows-1)
	if rows == 1 {
		rowSpace = 0
	}

	// Down-dip direction is perpendicular to the trace direction, rotated
	// into the dip plane: its horizontal component has azimuth
	// (strike + 90) and its vertical component is width*sin(dip) over the
	// full down-dip run, i.e. each row step moves rowSpace*cos(dip)
	// horizontally and rowSpace*sin(dip) in depth.
	strike := Azimuth(trace[0], trace[len(trace)-1])
	dipDirAz := math.Mod(strike+90, 360)
	dipRad := toRadians(dipDeg)

	grid := make([]Location, rows*cols)
	copy(grid[0:cols], traceRow)
	for r := 1; r < rows; r++ {
		for c := 0; c < cols; c++ {
			prev := grid[(r-1)*cols+c]
			horiz := rowSpace * math.Cos(dipRad)
			vert := rowSpace * math.Sin(dipRad)
			grid[r*cols+c] = Translate(prev, dipDirAz, horiz, vert)
		}
	}

	return &GriddedSurface{
		Rows: rows, Cols: cols, Grid: grid,
		Dip: dipDeg, Width: width, ZTop: zTop,
		RowSpace: rowSpace, ColSpace: spacing,
		traceStart: traceRow[0], traceEnd: traceRow[cols-1],
	}, nil
}

// traceColumns returns the number of along-strike grid columns needed to
// cover trace at the given spacing.
func traceColumns(trace []Location, spacing float64) int {
	length := 0.0
	for i := 1; i < len(trace); i++ {
		length += SurfaceDistance(trace[i-1], trace[i])
	}
	cols := int(math.Round(length/spacing)) + 1
	if cols < 2 {
		cols = 2
	}
	return cols
}

// resampleTrace linearly resamples trace into exactly n evenly-spaced
// points (by along-trace distance), setting their depth to zTop.
func resampleTrace(trace []Location, n int, zTop float64) []Location {
	segLens := make([]float64, len(trace)-1)
	total := 0.0
	for i := range segLens {
		segLens[i] = SurfaceDistance(trace[i], trace[i+1])
		total += segLens[i]
	}
	out := make([]Location, n)
	out[0] = Location{Point: trace[0].Point, Depth: zTop}
	if n == 1 {
		return out
	}
	step := total / float64(n-1)
	segIdx, segPos := 0, 0.0
	for i := 1; i < n-1; i++ {
		target := step * float64(i)
		for segIdx < len(segLens) && segPos+segLens[segIdx] < target {
			segPos += segLens[segIdx]
			segIdx++
		}
		if segIdx >= len(segLens) {
			out[i] = Location{Point: trace[len(trace)-1].Point, Depth: zTop}
			continue
		}
		f := 0.0
		if segLens[segIdx] > 0 {
			f = (target - segPos) / segLens[segIdx]
		}
		az := Azimuth(trace[segIdx], trace[segIdx+1])
		out[i] = Translate(Location{Point: trace[segIdx].Point, Depth: zTop}, az, f*segLens[segIdx], 0)
	}
	out[n-1] = Location{Point: trace[len(trace)-1].Point, Depth: zTop}
	return out
}

// DistanceTo computes (rJB, rRup, rX) from the surface to site, per §4.1:
// rRup is the minimum 3-D distance over all grid points; rJB is the
// minimum horizontal distance over all grid points; rX is the signed
// perpendicular distance from the top-edge trace, positive on the
// hanging-wall side, with a tie-break to the right-hand side of the
// first-to-last trace vector for a perfectly vertical fault.
func (g *GriddedSurface) DistanceTo(site Location) Distances {
	rRup := math.Inf(1)
	rJB := math.Inf(1)
	for _, p := range g.Grid {
		d3 := Distance3D(p, site)
		if d3 < rRup {
			rRup = d3
		}
		dh := SurfaceDistance(Location{Point: p.Point, Depth: 0}, Location{Point: site.Point, Depth: 0})
		if dh < rJB {
			rJB = dh
		}
	}
	return Distances{RJB: rJB, RRup: rRup, RX: g.rX(site)}
}

// rX computes the signed perpendicular distance from site to the line
// through traceStart->traceEnd, positive on the hanging-wall (right-hand)
// side of the trace direction.
func (g *GriddedSurface) rX(site Location) float64 {
	// Work in a local planar approximation (km) centered on traceStart:
	// this is the standard small-region treatment used for rX, which is
	// only ever evaluated near the fault.
	toXY := func(l Location) (float64, float64) {
		meanLat := toRadians(g.traceStart.Lat())
		dLat := toRadians(l.Lat() - g.traceStart.Lat())
		dLon := toRadians(l.Lon() - g.traceStart.Lon())
		return dLon * EarthRadiusKm * math.Cos(meanLat), dLat * EarthRadiusKm
	}
	sx, sy := toXY(site)
	ex, ey := toXY(g.traceEnd)
	// Cross product of trace vector (ex,ey) and site vector (sx,sy):
	// positive means site is to the left of the trace direction in a
	// standard (east, north) frame. The hanging wall lies to the right
	// (the dip direction is strike+90), so the sign is flipped.
	cross := ex*sy - ey*sx
	traceLen := math.Hypot(ex, ey)
	if traceLen == 0 {
		return 0
	}
	return -cross / traceLen
}
