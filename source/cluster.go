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
	"github.com/usgs/nshmp-haz-go/rupture"
)

// ClusterSource is a set of ruptures treated jointly: its geometry
// alternatives (e.g. distinct fault-segmentation hypotheses) share one
// total occurrence rate Lambda and are combined with cluster
// combinatorics (§4.7.4), not independent-Poisson summation.
type ClusterSource struct {
	sourceBase
	centroid     geo.Location
	alternatives []ClusterAlternative
	totalRate    float64
}

// NewClusterSource builds a ClusterSource from its geometry alternatives.
// centroid is the location used for pre-filtering (typically the mean
// centroid across all alternatives' ruptures).
func NewClusterSource(id string, centroid geo.Location, totalRate float64, alternatives []ClusterAlternative) *ClusterSource {
	return &ClusterSource{
		sourceBase:   newSourceBase(id),
		centroid:     centroid,
		alternatives: alternatives,
		totalRate:    totalRate,
	}
}

// Centroid implements Source.
func (c *ClusterSource) Centroid() geo.Location { return c.centroid }

// Alternatives implements ClusterSourceIface.
func (c *ClusterSource) Alternatives() []ClusterAlternative { return c.alternatives }

// TotalRate implements ClusterSourceIface.
func (c *ClusterSource) TotalRate() float64 { return c.totalRate }

// ClusterCentroid averages the centroids of every rupture across every
// alternative, weighted equally; a convenience for callers building a
// ClusterSource from raw alternatives without computing their own
// pre-filtering proxy.
func ClusterCentroid(alternatives []ClusterAlternative) geo.Location {
	var lon, lat, depth, n float64
	for _, alt := range alternatives {
		for _, r := range alt.Ruptures {
			c := surfaceCentroid(r.Surface)
			lon += c.Lon()
			lat += c.Lat()
			depth += c.Depth
			n++
		}
	}
	if n == 0 {
		return geo.Location{}
	}
	loc, err := geo.NewLocation(lon/n, lat/n, depth/n)
	if err != nil {
		panic(err)
	}
	return loc
}
