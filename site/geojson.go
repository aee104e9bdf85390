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

package site

import (
	"encoding/json"
	"fmt"
	"io"
	"math"

	"github.com/usgs/nshmp-haz-go/geo"
)

// ctessum/geom's encoding/geojson package only round-trips bare
// Geometry values, not a Feature's properties object; sites need the
// properties (vs30, vsInf, z1p0, z2p5) carried alongside the point, so
// this is a minimal hand-rolled FeatureCollection, keyed to the same
// four optional properties the CSV schema uses (§6).
type featureCollection struct {
	Type     string    `json:"type"`
	Features []feature `json:"features"`
}

type feature struct {
	Type       string           `json:"type"`
	Geometry   pointGeometry    `json:"geometry"`
	Properties featureProperties `json:"properties"`
}

type pointGeometry struct {
	Type        string     `json:"type"`
	Coordinates [2]float64 `json:"coordinates"`
}

type featureProperties struct {
	Name  string   `json:"name"`
	Vs30  *float64 `json:"vs30,omitempty"`
	VsInf *bool    `json:"vsInf,omitempty"`
	Z1p0  *float64 `json:"z1p0,omitempty"`
	Z2p5  *float64 `json:"z2p5,omitempty"`
}

// ReadGeoJSON reads a sites FeatureCollection: each Feature's geometry
// must be a Point (lon, lat); properties carry the same optional keys
// as the CSV schema.
func ReadGeoJSON(r io.Reader) (Sites, error) {
	var fc featureCollection
	if err := json.NewDecoder(r).Decode(&fc); err != nil {
		return nil, fmt.Errorf("site: decoding GeoJSON: %w", err)
	}
	out := make(Sites, 0, len(fc.Features))
	for _, f := range fc.Features {
		if f.Geometry.Type != "Point" {
			return nil, fmt.Errorf("site: feature %q: unsupported geometry type %q", f.Properties.Name, f.Geometry.Type)
		}
		loc, err := geo.NewLocation(f.Geometry.Coordinates[0], f.Geometry.Coordinates[1], 0)
		if err != nil {
			return nil, fmt.Errorf("site: feature %q: %w", f.Properties.Name, err)
		}
		s := NewSite(f.Properties.Name, loc, math.NaN(), false, math.NaN(), math.NaN())
		if f.Properties.Vs30 != nil {
			s.Vs30 = *f.Properties.Vs30
		}
		if f.Properties.VsInf != nil {
			s.VsInferred = *f.Properties.VsInf
		}
		if f.Properties.Z1p0 != nil {
			s.Z1p0 = *f.Properties.Z1p0
		}
		if f.Properties.Z2p5 != nil {
			s.Z2p5 = *f.Properties.Z2p5
		}
		out = append(out, s)
	}
	return out, nil
}

// WriteGeoJSON writes sites as a FeatureCollection of Points, omitting
// any basin-depth/vs30 property that is NaN/unset.
func WriteGeoJSON(w io.Writer, sites Sites) error {
	fc := featureCollection{Type: "FeatureCollection", Features: make([]feature, len(sites))}
	for i, s := range sites {
		props := featureProperties{Name: s.Name}
		if !math.IsNaN(s.Vs30) {
			v := s.Vs30
			props.Vs30 = &v
			vi := s.VsInferred
			props.VsInf = &vi
		}
		if !math.IsNaN(s.Z1p0) {
			v := s.Z1p0
			props.Z1p0 = &v
		}
		if !math.IsNaN(s.Z2p5) {
			v := s.Z2p5
			props.Z2p5 = &v
		}
		fc.Features[i] = feature{
			Type:       "Feature",
			Geometry:   pointGeometry{Type: "Point", Coordinates: [2]float64{s.Location.Lon(), s.Location.Lat()}},
			Properties: props,
		}
	}
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	if err := enc.Encode(fc); err != nil {
		return fmt.Errorf("site: encoding GeoJSON: %w", err)
	}
	return nil
}
