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

// Package site holds the Site/Sites data model and its CSV and GeoJSON
// serializations (§6's sites-specification CLI input).
package site

import (
	"fmt"
	"math"

	"github.com/usgs/nshmp-haz-go/geo"
)

// Site is a named location plus its ground characterization: Vs30,
// whether Vs30 was measured or inferred, and optional basin depths.
// NaN in Z1p0/Z2p5 means "use the GMM's model default" (§3).
type Site struct {
	Name       string
	Location   geo.Location
	Vs30       float64
	VsInferred bool
	Z1p0       float64
	Z2p5       float64
}

// NewSite builds a Site, defaulting unset basin depths to NaN.
func NewSite(name string, loc geo.Location, vs30 float64, vsInferred bool, z1p0, z2p5 float64) Site {
	return Site{Name: name, Location: loc, Vs30: vs30, VsInferred: vsInferred, Z1p0: z1p0, Z2p5: z2p5}
}

// Equal reports whether s and o are equal, treating NaN == NaN for Vs30
// and the basin-depth fields (the round-trip invariant, §8 property 7, is stated
// modulo NaN equality since float64 NaN != NaN under ==).
func (s Site) Equal(o Site) bool {
	return s.Name == o.Name &&
		s.Location.Lon() == o.Location.Lon() &&
		s.Location.Lat() == o.Location.Lat() &&
		s.Location.Depth == o.Location.Depth &&
		nanEqual(s.Vs30, o.Vs30) &&
		s.VsInferred == o.VsInferred &&
		nanEqual(s.Z1p0, o.Z1p0) &&
		nanEqual(s.Z2p5, o.Z2p5)
}

func nanEqual(a, b float64) bool {
	if math.IsNaN(a) && math.IsNaN(b) {
		return true
	}
	return a == b
}

// Sites is an ordered collection of Site.
type Sites []Site

// Equal reports whether two Sites slices are element-wise Equal.
func (ss Sites) Equal(o Sites) bool {
	if len(ss) != len(o) {
		return false
	}
	for i := range ss {
		if !ss[i].Equal(o[i]) {
			return false
		}
	}
	return true
}

// ParseTriplet parses the CLI's compact site string: "name,lon,lat" or
// "name,lon,lat,vs30,vsInf[,z1p0,z2p5]" (§6).
func ParseTriplet(s string) (Site, error) {
	fields, err := splitCSVLine(s)
	if err != nil {
		return Site{}, fmt.Errorf("site: parsing %q: %w", s, err)
	}
	if len(fields) != 3 && len(fields) != 5 && len(fields) != 7 {
		return Site{}, fmt.Errorf("site: %q: want 3, 5, or 7 comma-separated fields, got %d", s, len(fields))
	}

	name := fields[0]
	lon, err := parseFloatField(fields[1], "lon")
	if err != nil {
		return Site{}, err
	}
	lat, err := parseFloatField(fields[2], "lat")
	if err != nil {
		return Site{}, err
	}
	loc, err := geo.NewLocation(lon, lat, 0)
	if err != nil {
		return Site{}, fmt.Errorf("site: %q: %w", s, err)
	}

	vs30 := math.NaN()
	var vsInferred bool
	z1p0, z2p5 := math.NaN(), math.NaN()
	if len(fields) >= 5 {
		vs30, err = parseFloatField(fields[3], "vs30")
		if err != nil {
			return Site{}, err
		}
		vsInferred = fields[4] == "1" || fields[4] == "true"
	}
	if len(fields) == 7 {
		z1p0, err = parseFloatField(fields[5], "z1p0")
		if err != nil {
			return Site{}, err
		}
		z2p5, err = parseFloatField(fields[6], "z2p5")
		if err != nil {
			return Site{}, err
		}
	}
	return NewSite(name, loc, vs30, vsInferred, z1p0, z2p5), nil
}
