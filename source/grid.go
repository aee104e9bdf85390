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

// PointSource is a single grid or area cell: a point location with its
// own MFD and a fixed focal mechanism, with no finite rupture surface.
// Each rupture is modeled as a single-point GriddedSurface (a 1x1 grid)
// so it still carries a well-defined rX/rRup/rJB distance to a site.
// GRID and AREA SourceSets are both collections of PointSources.
type PointSource struct {
	sourceBase
	Location geo.Location
	MFD      mfd.MFD
	Rake     float64
	Dip      float64
	Width    float64
}

// NewPointSource builds a PointSource.
func NewPointSource(id string, loc geo.Location, m mfd.MFD, rake, dip, width float64) *PointSource {
	return &PointSource{sourceBase: newSourceBase(id), Location: loc, MFD: m, Rake: rake, Dip: dip, Width: width}
}

// Centroid implements Source.
func (p *PointSource) Centroid() geo.Location { return p.Location }

// Ruptures implements RuptureSource: one Rupture per MFD bin, each on a
// degenerate 1x1 gridded surface at Location.
func (p *PointSource) Ruptures() ([]rupture.Rupture, error) {
	surf := geo.NewGriddedSurfaceFromGrid([]geo.Location{p.Location}, 1, 1, p.Dip, p.Width, p.Location.Depth, 0, 0)
	out := make([]rupture.Rupture, 0, len(p.MFD.Bins()))
	for _, bin := range p.MFD.Bins() {
		out = append(out, rupture.Rupture{Mag: bin.Mag, Rake: p.Rake, Rate: bin.Rate, Surface: surf})
	}
	return out, nil
}
