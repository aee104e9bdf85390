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

// Package geo implements the spherical-Earth geodesy used to turn a site
// and a rupture's gridded surface into the source-to-site distance triplet
// (rJB, rRup, rX) that feeds every GMM.
package geo

import (
	"fmt"
	"math"

	"github.com/ctessum/geom"
)

// EarthRadiusKm is the mean spherical Earth radius used for all distance
// and azimuth calculations in this package.
const EarthRadiusKm = 6371.0

// Location is a point on (or under) the Earth's surface: longitude and
// latitude in degrees, depth in km, positive down.
type Location struct {
	geom.Point
	Depth float64
}

// NewLocation builds a Location, validating the invariants from the data
// model: lat in [-90, 90], lon in [-180, 180], depth in [-5, 700] km.
func NewLocation(lon, lat, depth float64) (Location, error) {
	if lat < -90 || lat > 90 {
		return Location{}, fmt.Errorf("geo: latitude %g out of range [-90, 90]", lat)
	}
	if lon < -180 || lon > 180 {
		return Location{}, fmt.Errorf("geo: longitude %g out of range [-180, 180]", lon)
	}
	if depth < -5 || depth > 700 {
		return Location{}, fmt.Errorf("geo: depth %g out of range [-5, 700]", depth)
	}
	return Location{Point: geom.Point{X: lon, Y: lat}, Depth: depth}, nil
}

// Lon returns the longitude in degrees.
func (l Location) Lon() float64 { return l.X }

// Lat returns the latitude in degrees.
func (l Location) Lat() float64 { return l.Y }

func toRadians(deg float64) float64 { return deg * math.Pi / 180.0 }
func toDegrees(rad float64) float64 { return rad * 180.0 / math.Pi }

// SurfaceDistance returns the great-circle surface distance between a and
// b, in km, using the haversine formula on a spherical Earth.
func SurfaceDistance(a, b Location) float64 {
	lat1, lat2 := toRadians(a.Lat()), toRadians(b.Lat())
	dLat := lat2 - lat1
	dLon := toRadians(b.Lon()) - toRadians(a.Lon())

	sinDLat2 := math.Sin(dLat / 2)
	sinDLon2 := math.Sin(dLon / 2)
	h := sinDLat2*sinDLat2 + math.Cos(lat1)*math.Cos(lat2)*sinDLon2*sinDLon2
	h = math.Min(1, math.Max(0, h))
	return 2 * EarthRadiusKm * math.Asin(math.Sqrt(h))
}

// Azimuth returns the initial bearing from a to b, in degrees clockwise
// from north, in [0, 360).
func Azimuth(a, b Location) float64 {
	lat1, lat2 := toRadians(a.Lat()), toRadians(b.Lat())
	dLon := toRadians(b.Lon()) - toRadians(a.Lon())
	y := math.Sin(dLon) * math.Cos(lat2)
	x := math.Cos(lat1)*math.Sin(lat2) - math.Sin(lat1)*math.Cos(lat2)*math.Cos(dLon)
	brng := toDegrees(math.Atan2(y, x))
	return math.Mod(brng+360, 360)
}

// LinearDistance3D returns a small-angle-approximation 3-D distance between
// a and b, in km. It is cheaper than SurfaceDistance+depth-Pythagoras and
// is accurate enough for the location-based pre-filtering pass (S1), which
// tolerates a conservative pad; it should not be used for the final rJB/
// rRup/rX computation against a gridded surface.
func LinearDistance3D(a, b Location) float64 {
	meanLat := toRadians((a.Lat() + b.Lat()) / 2)
	dLat := toRadians(b.Lat() - a.Lat())
	dLon := toRadians(b.Lon() - a.Lon())
	dNorth := dLat * EarthRadiusKm
	dEast := dLon * EarthRadiusKm * math.Cos(meanLat)
	dDepth := b.Depth - a.Depth
	return math.Sqrt(dNorth*dNorth + dEast*dEast + dDepth*dDepth)
}

// Distance3D returns the true 3-D distance between a and b, in km: the
// great-circle SurfaceDistance combined with their depth difference by
// Pythagoras. Use this (not LinearDistance3D) for the final rJB/rRup/rX
// computation against a gridded surface.
func Distance3D(a, b Location) float64 {
	horiz := SurfaceDistance(a, b)
	dDepth := b.Depth - a.Depth
	return math.Hypot(horiz, dDepth)
}

// Translate returns the Location reached by moving horizontal km along
// azimuth (degrees from north) and vertical km in depth from origin.
func Translate(origin Location, azimuthDeg, horizontalKm, verticalKm float64) Location {
	lat1 := toRadians(origin.Lat())
	lon1 := toRadians(origin.Lon())
	brng := toRadians(azimuthDeg)
	angularDist := horizontalKm / EarthRadiusKm

	lat2 := math.Asin(math.Sin(lat1)*math.Cos(angularDist) +
		math.Cos(lat1)*math.Sin(angularDist)*math.Cos(brng))
	lon2 := lon1 + math.Atan2(
		math.Sin(brng)*math.Sin(angularDist)*math.Cos(lat1),
		math.Cos(angularDist)-math.Sin(lat1)*math.Sin(lat2))

	lon2deg := toDegrees(lon2)
	// wrap to [-180, 180]
	lon2deg = math.Mod(lon2deg+540, 360) - 180

	return Location{
		Point: geom.Point{X: lon2deg, Y: toDegrees(lat2)},
		Depth: origin.Depth + verticalKm,
	}
}
