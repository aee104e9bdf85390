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
	"encoding/csv"
	"fmt"
	"io"
	"math"
	"strconv"
	"strings"

	"github.com/usgs/nshmp-haz-go/geo"
)

// csvHeader is the fixed column order ReadCSV/WriteCSV use (§6's sites
// CSV schema): name, lon, lat, then optional vs30/vsInf/z1p0/z2p5.
var csvHeader = []string{"name", "lon", "lat", "vs30", "vsInf", "z1p0", "z2p5"}

// ReadCSV reads a sites CSV: first column name, then lon, lat, and
// optional vs30, vsInf (0/1), z1p0, z2p5. Lines starting with '#' are
// comments.
func ReadCSV(r io.Reader) (Sites, error) {
	reader := csv.NewReader(r)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true
	reader.FieldsPerRecord = -1

	records, err := reader.ReadAll()
	if err != nil {
		return nil, fmt.Errorf("site: reading CSV: %w", err)
	}
	if len(records) == 0 {
		return nil, nil
	}

	// Skip a header row if present (first column literally "name").
	start := 0
	if len(records[0]) > 0 && strings.EqualFold(records[0][0], "name") {
		start = 1
	}

	var out Sites
	for _, rec := range records[start:] {
		s, err := recordToSite(rec)
		if err != nil {
			return nil, err
		}
		out = append(out, s)
	}
	return out, nil
}

func recordToSite(rec []string) (Site, error) {
	if len(rec) < 3 {
		return Site{}, fmt.Errorf("site: CSV row %v: need at least name, lon, lat", rec)
	}
	lon, err := parseFloatField(rec[1], "lon")
	if err != nil {
		return Site{}, err
	}
	lat, err := parseFloatField(rec[2], "lat")
	if err != nil {
		return Site{}, err
	}
	loc, err := geo.NewLocation(lon, lat, 0)
	if err != nil {
		return Site{}, fmt.Errorf("site: row %v: %w", rec, err)
	}

	vs30, vsInferred := math.NaN(), false
	z1p0, z2p5 := math.NaN(), math.NaN()
	if len(rec) > 3 && rec[3] != "" {
		vs30, err = parseFloatField(rec[3], "vs30")
		if err != nil {
			return Site{}, err
		}
	}
	if len(rec) > 4 && rec[4] != "" {
		vsInferred = rec[4] == "1" || strings.EqualFold(rec[4], "true")
	}
	if len(rec) > 5 && rec[5] != "" {
		z1p0, err = parseFloatField(rec[5], "z1p0")
		if err != nil {
			return Site{}, err
		}
	}
	if len(rec) > 6 && rec[6] != "" {
		z2p5, err = parseFloatField(rec[6], "z2p5")
		if err != nil {
			return Site{}, err
		}
	}
	return NewSite(rec[0], loc, vs30, vsInferred, z1p0, z2p5), nil
}

// WriteCSV writes sites in the same schema ReadCSV accepts, with a
// header row, so the two round-trip (§8 property 7).
func WriteCSV(w io.Writer, sites Sites) error {
	writer := csv.NewWriter(w)
	if err := writer.Write(csvHeader); err != nil {
		return fmt.Errorf("site: writing CSV header: %w", err)
	}
	for _, s := range sites {
		rec := []string{
			s.Name,
			formatFloat(s.Location.Lon()),
			formatFloat(s.Location.Lat()),
			formatFloatOrEmpty(s.Vs30),
			boolField(s.VsInferred),
			formatFloatOrEmpty(s.Z1p0),
			formatFloatOrEmpty(s.Z2p5),
		}
		if err := writer.Write(rec); err != nil {
			return fmt.Errorf("site: writing CSV row for %q: %w", s.Name, err)
		}
	}
	writer.Flush()
	return writer.Error()
}

func boolField(b bool) string {
	if b {
		return "1"
	}
	return "0"
}

func formatFloat(f float64) string { return strconv.FormatFloat(f, 'g', -1, 64) }

func formatFloatOrEmpty(f float64) string {
	if math.IsNaN(f) {
		return ""
	}
	return formatFloat(f)
}

func parseFloatField(s, field string) (float64, error) {
	v, err := strconv.ParseFloat(strings.TrimSpace(s), 64)
	if err != nil {
		return 0, fmt.Errorf("site: invalid %s %q: %w", field, s, err)
	}
	return v, nil
}

// splitCSVLine splits a single compact site-triplet line using the csv
// package so quoted fields are handled the same way as the file format.
func splitCSVLine(s string) ([]string, error) {
	r := csv.NewReader(strings.NewReader(s))
	r.TrimLeadingSpace = true
	rec, err := r.Read()
	if err != nil {
		return nil, err
	}
	return rec, nil
}
