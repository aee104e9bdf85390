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

// Package table reads ground-motion-model coefficient tables: plain CSV
// files, one per (Gmm identifier, IMT), with a header row of coefficient
// names and a single data row of values. Loads are cached behind a
// compute-once barrier keyed by file path, per the coefficient tables
// loaded lazily invariant.
package table

import (
	"encoding/csv"
	"fmt"
	"io"
	"os"
	"strconv"
	"sync"
)

// Row is one loaded coefficient table: column name -> value.
type Row map[string]float64

// Get returns the named coefficient, erroring if the table has no such
// column.
func (r Row) Get(name string) (float64, error) {
	v, ok := r[name]
	if !ok {
		return 0, fmt.Errorf("table: missing coefficient column %q", name)
	}
	return v, nil
}

// MustGet returns the named coefficient, panicking if absent. Intended
// for use inside a model's package-init-time coefficient binding, where
// a missing column is a programming error, not a runtime condition.
func (r Row) MustGet(name string) float64 {
	v, err := r.Get(name)
	if err != nil {
		panic(err)
	}
	return v
}

var (
	cacheMu sync.Mutex
	cache   = map[string]*loadResult{}
)

type loadResult struct {
	once sync.Once
	row  Row
	err  error
}

// Load reads the single-row coefficient CSV at path, caching the result
// behind a sync.Once keyed by path so concurrent callers for the same
// (Gmm, IMT) table block on one read instead of racing the filesystem.
func Load(path string) (Row, error) {
	cacheMu.Lock()
	res, ok := cache[path]
	if !ok {
		res = &loadResult{}
		cache[path] = res
	}
	cacheMu.Unlock()

	res.once.Do(func() {
		res.row, res.err = readCSV(path)
	})
	return res.row, res.err
}

func readCSV(path string) (Row, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("table: opening %s: %w", path, err)
	}
	defer f.Close()

	reader := csv.NewReader(f)
	reader.Comment = '#'
	reader.TrimLeadingSpace = true

	header, err := reader.Read()
	if err != nil {
		return nil, fmt.Errorf("table: reading header of %s: %w", path, err)
	}
	values, err := reader.Read()
	if err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("table: %s has no data row", path)
		}
		return nil, fmt.Errorf("table: reading data row of %s: %w", path, err)
	}
	if len(header) != len(values) {
		return nil, fmt.Errorf("table: %s header/value column count mismatch (%d vs %d)", path, len(header), len(values))
	}

	row := make(Row, len(header))
	for i, name := range header {
		v, err := strconv.ParseFloat(values[i], 64)
		if err != nil {
			return nil, fmt.Errorf("table: %s column %q: %w", path, name, err)
		}
		row[name] = v
	}
	return row, nil
}
