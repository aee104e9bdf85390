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

// Package model loads a hazard model directory: config.toml, one
// source.Registry built from sources/*.json, and the Gmm logic trees each
// SourceSet references, with per-IMT coefficients resolved through
// gmm/table from the CSV files in gmm/<gmm-id>/<imt>/. The JSON schema here is
// intentionally simple relative to the real NSHM formats: FAULT,
// INTERFACE, and SLAB sources are loaded as a single degenerate gridded
// surface rather than a multi-row trace, since source-model file parsing
// proper is treated as an external collaborator and this loader exists
// only so the pipeline has something concrete to run end to end.
package model

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/usgs/nshmp-haz-go/config"
	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/mfd"
	"github.com/usgs/nshmp-haz-go/modelsource"
	"github.com/usgs/nshmp-haz-go/rupture"
	"github.com/usgs/nshmp-haz-go/source"
	"github.com/usgs/nshmp-haz-go/tree"
)

// Model is a fully-loaded hazard model: its resolved configuration and
// the source registry built from it.
type Model struct {
	Config   *config.Config
	Registry *source.Registry
}

// GmmFactory builds a gmm.Gmm from a logic-tree branch's configured
// identifier, resolving any coefficient table the Gmm needs from
// gmmDir/<gmm-id>/<imt>/ (gmmDir is the model's gmm directory; <imt> is
// the Imt.String form). Concrete Gmm constructors
// (gmm.Sadigh1997, gmm.CeusHardRock, ...) are registered by the caller
// rather than discovered by the loader, since a JSON model file names a
// Gmm only by a short id string.
type GmmFactory func(id, gmmDir string, imt gmm.Imt) (gmm.Gmm, error)

// sourceSetFile is sources/<name>.json's top-level shape.
type sourceSetFile struct {
	ID       string                     `json:"id"`
	Type     string                     `json:"type"`
	Weight   float64                    `json:"weight"`
	CutoffKm float64                    `json:"cutoffKm"`
	Gmms     map[string][]gmmBranchFile `json:"gmms"` // keyed by IMT string, e.g. "PGA", "SA0P200"
	Sources  []sourceFile               `json:"sources"`
}

type gmmBranchFile struct {
	ID     string  `json:"id"`
	Weight float64 `json:"weight"`
}

type sourceFile struct {
	ID    string  `json:"id"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Depth float64 `json:"depth"`
	Rake  float64 `json:"rake"`
	Dip   float64 `json:"dip"`
	Width float64 `json:"width"`
	MFD   mfdFile `json:"mfd"`

	// Cluster-only: when non-empty, this entry is a cluster source and
	// MFD/Rake/Dip/Width above are ignored in favor of Alternatives.
	Alternatives []alternativeFile `json:"alternatives"`
}

type mfdFile struct {
	Magnitudes []float64 `json:"magnitudes"`
	Rates      []float64 `json:"rates"`
}

type alternativeFile struct {
	Weight   float64       `json:"weight"`
	Ruptures []ruptureFile `json:"ruptures"`
}

type ruptureFile struct {
	Mag   float64 `json:"mag"`
	Rake  float64 `json:"rake"`
	Rate  float64 `json:"rate"`
	Lon   float64 `json:"lon"`
	Lat   float64 `json:"lat"`
	Depth float64 `json:"depth"`
	Dip   float64 `json:"dip"`
	Width float64 `json:"width"`
}

// Load resolves dir (a local path or, via resolver, a remote model
// bundle), reads its config.toml, and builds a Registry from every file
// in its sources/ subdirectory, wiring each SourceSet's Gmm logic tree
// through factory.
func Load(ctx context.Context, dir string, resolver *modelsource.Resolver, factory GmmFactory) (*Model, error) {
	localDir, err := resolver.Resolve(ctx, dir)
	if err != nil {
		return nil, fmt.Errorf("model: resolving model directory %s: %w", dir, err)
	}

	cfg, err := config.Load(filepath.Join(localDir, "config.toml"))
	if err != nil {
		return nil, fmt.Errorf("model: loading config: %w", err)
	}

	sourceFiles, err := filepath.Glob(filepath.Join(localDir, "sources", "*.json"))
	if err != nil {
		return nil, fmt.Errorf("model: listing sources directory: %w", err)
	}

	gmmDir := filepath.Join(localDir, "gmm")
	reg := source.NewRegistry()
	for _, path := range sourceFiles {
		ss, err := loadSourceSet(path, gmmDir, factory)
		if err != nil {
			return nil, fmt.Errorf("model: loading %s: %w", path, err)
		}
		reg.AddSourceSet(ss)
	}

	return &Model{Config: cfg, Registry: reg}, nil
}

func loadSourceSet(path, gmmDir string, factory GmmFactory) (*source.SourceSet, error) {
	b, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("reading %s: %w", path, err)
	}
	var raw sourceSetFile
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}

	typ, err := parseSourceType(raw.Type)
	if err != nil {
		return nil, err
	}

	gmms, err := buildGmmTrees(raw.Gmms, gmmDir, factory)
	if err != nil {
		return nil, fmt.Errorf("source set %s: %w", raw.ID, err)
	}

	ss := source.NewSourceSet(raw.ID, typ, raw.Weight, raw.CutoffKm, gmms)
	for _, sf := range raw.Sources {
		src, err := buildSource(typ, sf)
		if err != nil {
			return nil, fmt.Errorf("source set %s, source %s: %w", raw.ID, sf.ID, err)
		}
		ss.Add(src)
	}
	return ss, nil
}

func parseSourceType(raw string) (source.SourceType, error) {
	switch strings.ToUpper(raw) {
	case "FAULT":
		return source.Fault, nil
	case "GRID":
		return source.Grid, nil
	case "CLUSTER":
		return source.Cluster, nil
	case "INTERFACE":
		return source.Interface, nil
	case "SLAB":
		return source.Slab, nil
	case "AREA":
		return source.Area, nil
	default:
		return 0, fmt.Errorf(`unrecognized source type %q (want FAULT, GRID, CLUSTER, INTERFACE, SLAB, or AREA)`, raw)
	}
}

func buildGmmTrees(raw map[string][]gmmBranchFile, gmmDir string, factory GmmFactory) (map[gmm.Imt]*tree.Tree[gmm.Gmm], error) {
	out := make(map[gmm.Imt]*tree.Tree[gmm.Gmm], len(raw))
	for imtName, branches := range raw {
		imt, err := ParseImt(imtName)
		if err != nil {
			return nil, err
		}
		b := tree.NewBuilder[gmm.Gmm]()
		for _, branch := range branches {
			g, err := factory(branch.ID, gmmDir, imt)
			if err != nil {
				return nil, fmt.Errorf("building gmm %s for %s: %w", branch.ID, imtName, err)
			}
			b.Add(branch.ID, branch.Weight, g)
		}
		t, err := b.Build()
		if err != nil {
			return nil, fmt.Errorf("gmm logic tree for %s: %w", imtName, err)
		}
		out[imt] = t
	}
	return out, nil
}

// ParseImt recovers a gmm.Imt from its file-name token: "PGA", "PGV", or
// "SA<whole>P<frac>" (e.g. "SA0P200" for a 0.2 s period), the inverse of
// gmm.Imt.String. Exported so the CLI layer can resolve the same
// config.Config.Imts tokens that name a SourceSet's Gmms map keys.
func ParseImt(s string) (gmm.Imt, error) {
	switch s {
	case "PGA":
		return gmm.PGA, nil
	case "PGV":
		return gmm.PGV, nil
	}
	if !strings.HasPrefix(s, "SA") {
		return gmm.Imt{}, fmt.Errorf("unrecognized imt %q", s)
	}
	rest := s[2:]
	parts := strings.SplitN(rest, "P", 2)
	if len(parts) != 2 {
		return gmm.Imt{}, fmt.Errorf("unrecognized imt %q", s)
	}
	period := parts[0] + "." + parts[1]
	var whole, frac int
	if _, err := fmt.Sscanf(period, "%d.%d", &whole, &frac); err != nil {
		return gmm.Imt{}, fmt.Errorf("unrecognized imt %q: %w", s, err)
	}
	fracDigits := len(parts[1])
	scale := 1.0
	for i := 0; i < fracDigits; i++ {
		scale *= 10
	}
	return gmm.SA(float64(whole) + float64(frac)/scale), nil
}

func buildSource(typ source.SourceType, sf sourceFile) (source.Source, error) {
	switch typ {
	case source.Grid, source.Area:
		return buildPointSource(sf)
	case source.Fault, source.Interface, source.Slab:
		return buildGriddedSource(sf)
	case source.Cluster:
		return buildClusterSource(sf)
	default:
		return nil, fmt.Errorf("unsupported source type %s", typ)
	}
}

func buildPointSource(sf sourceFile) (source.Source, error) {
	loc, err := geo.NewLocation(sf.Lon, sf.Lat, sf.Depth)
	if err != nil {
		return nil, err
	}
	m, err := buildMFD(sf.MFD)
	if err != nil {
		return nil, err
	}
	return source.NewPointSource(sf.ID, loc, m, sf.Rake, sf.Dip, sf.Width), nil
}

// buildGriddedSource loads a FAULT/INTERFACE/SLAB source as a single-cell
// gridded surface at (Lon, Lat, Depth), the same degenerate construction
// PointSource uses internally. Rupture.Mode is fixed at rupture.Off: full
// multi-row trace geometry, and the floating it would enable, is out of
// scope for this loader.
func buildGriddedSource(sf sourceFile) (source.Source, error) {
	loc, err := geo.NewLocation(sf.Lon, sf.Lat, sf.Depth)
	if err != nil {
		return nil, err
	}
	m, err := buildMFD(sf.MFD)
	if err != nil {
		return nil, err
	}
	surf := geo.NewGriddedSurfaceFromGrid([]geo.Location{loc}, 1, 1, sf.Dip, sf.Width, loc.Depth, 0, 0)
	return source.NewGriddedSource(sf.ID, surf, m, sf.Rake, rupture.Off, rupture.DefaultWellsCoppersmith1994, 0), nil
}

func buildClusterSource(sf sourceFile) (source.Source, error) {
	loc, err := geo.NewLocation(sf.Lon, sf.Lat, sf.Depth)
	if err != nil {
		return nil, err
	}
	alts := make([]source.ClusterAlternative, 0, len(sf.Alternatives))
	var totalRate float64
	for _, af := range sf.Alternatives {
		ruptures := make([]rupture.Rupture, 0, len(af.Ruptures))
		for _, rf := range af.Ruptures {
			rloc, err := geo.NewLocation(rf.Lon, rf.Lat, rf.Depth)
			if err != nil {
				return nil, err
			}
			surf := geo.NewGriddedSurfaceFromGrid([]geo.Location{rloc}, 1, 1, rf.Dip, rf.Width, rloc.Depth, 0, 0)
			ruptures = append(ruptures, rupture.Rupture{Mag: rf.Mag, Rake: rf.Rake, Rate: rf.Rate, Surface: surf})
			totalRate += rf.Rate * af.Weight
		}
		alts = append(alts, source.ClusterAlternative{Weight: af.Weight, Ruptures: ruptures})
	}
	centroid := loc
	if len(alts) > 0 {
		centroid = source.ClusterCentroid(alts)
	}
	return source.NewClusterSource(sf.ID, centroid, totalRate, alts), nil
}

func buildMFD(mf mfdFile) (mfd.MFD, error) {
	return mfd.NewIncremental(mf.Magnitudes, mf.Rates)
}
