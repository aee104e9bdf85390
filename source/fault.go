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

package source

import (
	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/mfd"
	"github.com/usgs/nshmp-haz-go/rupture"
)

// GriddedSource is a single gridded-surface source: a fault, subduction
// interface, or subduction slab rupture surface with one MFD, floated
// per a RuptureScaling relation and Mode. FAULT, INTERFACE, and SLAB
// SourceSets all use this type; only the SourceSet's Type tag and the
// surface's own geometry (dip, depth range) differentiate them.
type GriddedSource struct {
	sourceBase
	Surface   *geo.GriddedSurface
	MFD       mfd.MFD
	Rake      float64
	Mode      rupture.Mode
	Scaling   rupture.Scaling
	AreaSigma float64
}

// NewGriddedSource builds a GriddedSource.
func NewGriddedSource(id string, surface *geo.GriddedSurface, m mfd.MFD, rake float64, mode rupture.Mode, scaling rupture.Scaling, areaSigma float64) *GriddedSource {
	return &GriddedSource{
		sourceBase: newSourceBase(id),
		Surface:    surface, MFD: m, Rake: rake,
		Mode: mode, Scaling: scaling, AreaSigma: areaSigma,
	}
}

// Centroid implements Source: the mean of the surface's grid points.
func (g *GriddedSource) Centroid() geo.Location {
	return surfaceCentroid(g.Surface)
}

// Ruptures implements RuptureSource.
func (g *GriddedSource) Ruptures() ([]rupture.Rupture, error) {
	return rupture.BuildFromMFD(g.Surface, g.MFD, g.Rake, g.Mode, g.Scaling, g.AreaSigma)
}

// surfaceCentroid averages a gridded surface's grid-point locations; used
// as the cheap location-filtering proxy for every surface-backed source.
func surfaceCentroid(s *geo.GriddedSurface) geo.Location {
	var lon, lat, depth float64
	n := float64(len(s.Grid))
	for _, p := range s.Grid {
		lon += p.Lon()
		lat += p.Lat()
		depth += p.Depth
	}
	loc, err := geo.NewLocation(lon/n, lat/n, depth/n)
	if err != nil {
		// A centroid of valid grid points is always itself valid; a
		// non-nil error here means the surface was built with corrupt
		// coordinates, a programmer error rather than a runtime condition.
		panic(err)
	}
	return loc
}
