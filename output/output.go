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

// Package output writes a run's results to the directory layout
// config.OutputDirectory names: one curves-<imt>.csv and map-<imt>.csv per
// IMT, a config.json capturing the resolved run configuration, and a
// deagg/<site>/<imt>.json per deaggregated site, mirroring the teacher's
// io.go Outputter in CSV/JSON form rather than shapefile form.
package output

import (
	"encoding/csv"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/usgs/nshmp-haz-go/deagg"
	"github.com/usgs/nshmp-haz-go/hazard"
)

// Writer accumulates curve rows before flushing them to disk, batching
// writes the way the teacher's Outputter buffers result rows per layer
// before a single shapefile write; flushLimit bounds how many site curves
// are buffered before an automatic flush.
type Writer struct {
	dir         string
	flushLimit  int
	byImt       map[string]*curveBuffer
}

type curveBuffer struct {
	xs   []float64
	rows []curveRow
}

type curveRow struct {
	siteName        string
	lon, lat         float64
	ordinates        []float64
}

// NewWriter returns a Writer rooted at dir, creating dir if it does not
// already exist.
func NewWriter(dir string, flushLimit int) (*Writer, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("output: creating directory %s: %w", dir, err)
	}
	if flushLimit <= 0 {
		flushLimit = 50
	}
	return &Writer{dir: dir, flushLimit: flushLimit, byImt: make(map[string]*curveBuffer)}, nil
}

// AddCurve buffers one site's hazard curve for imt, flushing that IMT's
// buffer to curves-<imt>.csv once flushLimit rows have accumulated.
func (w *Writer) AddCurve(imt string, res *hazard.Result) error {
	buf, ok := w.byImt[imt]
	if !ok {
		buf = &curveBuffer{xs: res.Curve.Xs()}
		w.byImt[imt] = buf
	}
	buf.rows = append(buf.rows, curveRow{
		siteName:  res.Site.Name,
		lon:       res.Site.Location.Lon(),
		lat:       res.Site.Location.Lat(),
		ordinates: res.Curve.Ys(),
	})
	if len(buf.rows) >= w.flushLimit {
		return w.flushCurves(imt)
	}
	return nil
}

// Flush writes every IMT's remaining buffered curve rows to disk. Call
// this once at the end of a run to capture any rows left under
// flushLimit.
func (w *Writer) Flush() error {
	for imt := range w.byImt {
		if err := w.flushCurves(imt); err != nil {
			return err
		}
	}
	return nil
}

func (w *Writer) flushCurves(imt string) error {
	buf := w.byImt[imt]
	if len(buf.rows) == 0 {
		return nil
	}
	path := filepath.Join(w.dir, fmt.Sprintf("curves-%s.csv", imt))
	appendRows := fileExists(path)

	f, err := os.OpenFile(path, os.O_CREATE|os.O_WRONLY|os.O_APPEND, 0o644)
	if err != nil {
		return fmt.Errorf("output: opening %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if !appendRows {
		header := append([]string{"name", "longitude", "latitude"}, formatXs(buf.xs)...)
		if err := cw.Write(header); err != nil {
			return err
		}
	}
	for _, row := range buf.rows {
		record := make([]string, 0, 3+len(row.ordinates))
		record = append(record, row.siteName, strconv.FormatFloat(row.lon, 'g', -1, 64), strconv.FormatFloat(row.lat, 'g', -1, 64))
		for _, y := range row.ordinates {
			record = append(record, strconv.FormatFloat(y, 'g', -1, 64))
		}
		if err := cw.Write(record); err != nil {
			return err
		}
	}
	cw.Flush()
	buf.rows = buf.rows[:0]
	return cw.Error()
}

func formatXs(xs []float64) []string {
	out := make([]string, len(xs))
	for i, x := range xs {
		out[i] = strconv.FormatFloat(x, 'g', -1, 64)
	}
	return out
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// WriteMap writes a map-<imt>.csv file: one row per site giving the IML at
// which each site's curve crosses a fixed target rate, the companion table
// to curves-<imt>.csv (§6's "map" output).
func WriteMap(dir, imt string, sites []MapPoint) error {
	path := filepath.Join(dir, fmt.Sprintf("map-%s.csv", imt))
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("output: creating %s: %w", path, err)
	}
	defer f.Close()

	cw := csv.NewWriter(f)
	if err := cw.Write([]string{"name", "longitude", "latitude", "iml"}); err != nil {
		return err
	}
	for _, p := range sites {
		if err := cw.Write([]string{
			p.Name,
			strconv.FormatFloat(p.Lon, 'g', -1, 64),
			strconv.FormatFloat(p.Lat, 'g', -1, 64),
			strconv.FormatFloat(p.Iml, 'g', -1, 64),
		}); err != nil {
			return err
		}
	}
	cw.Flush()
	return cw.Error()
}

// MapPoint is one row of a map-<imt>.csv file.
type MapPoint struct {
	Name     string
	Lon, Lat float64
	Iml      float64
}

// WriteConfig writes the resolved run configuration to config.json, the
// record of exactly what was run kept alongside the results.
func WriteConfig(dir string, cfg interface{}) error {
	path := filepath.Join(dir, "config.json")
	b, err := json.MarshalIndent(cfg, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling config: %w", err)
	}
	return os.WriteFile(path, b, 0o644)
}

// deaggEntry is the JSON shape written to deagg/<site>/<imt>.json.
type deaggEntry struct {
	SiteName string             `json:"siteName"`
	Imt      string             `json:"imt"`
	Iml      float64            `json:"iml"`
	Bins     []deaggBinEntry    `json:"bins"`
}

type deaggBinEntry struct {
	SourceType string  `json:"sourceType"`
	RIndex     int     `json:"rIndex"`
	MIndex     int     `json:"mIndex"`
	EpsIndex   int     `json:"epsIndex"`
	Rate       float64 `json:"rate"`
}

// WriteDeagg writes one site's deaggregation result to
// deagg/<siteName>/<imt>.json.
func WriteDeagg(dir, siteName, imt string, res *deagg.Result) error {
	siteDir := filepath.Join(dir, "deagg", siteName)
	if err := os.MkdirAll(siteDir, 0o755); err != nil {
		return fmt.Errorf("output: creating %s: %w", siteDir, err)
	}

	entry := deaggEntry{SiteName: siteName, Imt: imt, Iml: res.Iml}
	for sourceType, arr := range res.Histogram.BySourceType {
		shape := arr.Shape
		for idx, rate := range arr.Elements {
			if rate == 0 {
				continue
			}
			ri, mi, ei := unflattenIndex(idx, shape)
			entry.Bins = append(entry.Bins, deaggBinEntry{
				SourceType: sourceType,
				RIndex:     ri,
				MIndex:     mi,
				EpsIndex:   ei,
				Rate:       rate,
			})
		}
	}

	path := filepath.Join(siteDir, fmt.Sprintf("%s.json", imt))
	b, err := json.MarshalIndent(entry, "", "  ")
	if err != nil {
		return fmt.Errorf("output: marshaling deagg result for %s/%s: %w", siteName, imt, err)
	}
	return os.WriteFile(path, b, 0o644)
}

// unflattenIndex converts a sparse.DenseArray's row-major linear index
// back into (r, m, eps) bin coordinates.
func unflattenIndex(idx int, shape []int) (r, m, e int) {
	e = idx % shape[2]
	idx /= shape[2]
	m = idx % shape[1]
	idx /= shape[1]
	r = idx
	return
}
