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

// Command hazard computes hazard curves for a set of sites against a
// hazard model directory, writing curves-<imt>.csv and config.json under
// the configured output directory; it does not write map-<imt>.csv files.
package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/sirupsen/logrus"
	"github.com/spf13/cobra"

	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/hazard"
	"github.com/usgs/nshmp-haz-go/internal/hash"
	"github.com/usgs/nshmp-haz-go/model"
	"github.com/usgs/nshmp-haz-go/modelsource"
	"github.com/usgs/nshmp-haz-go/output"
	"github.com/usgs/nshmp-haz-go/site"
)

var log = logrus.StandardLogger()

func main() {
	var modelDir, sitesPath, outDir string

	root := &cobra.Command{
		Use:   "hazard",
		Short: "Compute hazard curves for a set of sites against a hazard model.",
		RunE: func(cmd *cobra.Command, args []string) error {
			return run(cmd.Context(), modelDir, sitesPath, outDir)
		},
	}
	flags := root.Flags()
	flags.StringVar(&modelDir, "model", "", "model directory or URL (local path, http(s)://, gs://, s3://)")
	flags.StringVar(&sitesPath, "sites", "", "site list (CSV or GeoJSON)")
	flags.StringVar(&outDir, "out", "", "output directory (overrides the model's output.directory)")
	root.MarkFlagRequired("model")
	root.MarkFlagRequired("sites")

	if err := root.ExecuteContext(context.Background()); err != nil {
		log.WithError(err).Fatal("hazard: run failed")
	}
}

func run(ctx context.Context, modelDir, sitesPath, outDirOverride string) error {
	resolver := modelsource.NewResolver()

	m, err := model.Load(ctx, modelDir, resolver, gmmFactory)
	if err != nil {
		return fmt.Errorf("loading model: %w", err)
	}
	log.WithField("config_hash", hash.Hash(m.Config)).Info("hazard: model loaded")

	sites, err := readSites(ctx, sitesPath, resolver)
	if err != nil {
		return fmt.Errorf("loading sites: %w", err)
	}

	outDir := m.Config.OutputDirectory
	if outDirOverride != "" {
		outDir = outDirOverride
	}
	writer, err := output.NewWriter(outDir, m.Config.OutputFlushLimit)
	if err != nil {
		return fmt.Errorf("creating output writer: %w", err)
	}

	nworkers := m.Config.ThreadCount.Resolve()
	trunc := hazard.Truncation{N: m.Config.Truncation}

	for _, imtName := range m.Config.Imts {
		imt, err := model.ParseImt(imtName)
		if err != nil {
			return fmt.Errorf("imt %s: %w", imtName, err)
		}
		xs, ok := m.Config.Iml[imtName]
		if !ok || len(xs) == 0 {
			return fmt.Errorf("imt %s: no iml grid configured", imtName)
		}

		for _, s := range sites {
			fields := logrus.Fields{"site": s.Name, "imt": imtName, "stage": "hazard"}
			res, err := hazard.ComputeSiteCurve(ctx, m.Registry, s, imt, xs, trunc, nworkers)
			if err != nil {
				log.WithFields(fields).WithError(err).Error("hazard: site curve failed")
				continue
			}
			for _, w := range res.Warnings {
				log.WithFields(fields).Warn(w.Error())
			}
			if err := writer.AddCurve(imtName, res); err != nil {
				return fmt.Errorf("writing curve for %s/%s: %w", s.Name, imtName, err)
			}
			log.WithFields(fields).Info("hazard: site curve complete")
		}
	}

	if err := writer.Flush(); err != nil {
		return fmt.Errorf("flushing output: %w", err)
	}
	return output.WriteConfig(outDir, m.Config)
}

func readSites(ctx context.Context, path string, resolver *modelsource.Resolver) (site.Sites, error) {
	localPath, err := resolver.Resolve(ctx, path)
	if err != nil {
		return nil, err
	}
	f, err := os.Open(localPath)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	if isGeoJSON(localPath) {
		return site.ReadGeoJSON(f)
	}
	return site.ReadCSV(f)
}

func isGeoJSON(path string) bool {
	return len(path) > 8 && path[len(path)-8:] == ".geojson"
}

// gmmFactory wires a model's "id" string for a logic-tree branch to the
// concrete Gmm implementation it names, loading coefficients from
// gmmDir/<id>/<imt> (the IMT in its String form) where the model requires
// them. Two ids compose rather than naming a
// single coefficient table directly: "basin-amplified:<base-id>" wraps
// the named base model (itself resolved through gmmFactory, so any
// registered id can be basin-amplified) with a basin term loaded from
// gmmDir/basin-amplified, and "ngaeast-seeds" builds a seed-weighted
// aggregate from the manifest at gmmDir/ngaeast-seeds/seeds.json.
func gmmFactory(id, gmmDir string, imt gmm.Imt) (gmm.Gmm, error) {
	if baseID, ok := strings.CutPrefix(id, "basin-amplified:"); ok {
		base, err := gmmFactory(baseID, gmmDir, imt)
		if err != nil {
			return nil, fmt.Errorf("gmm %s: building base: %w", id, err)
		}
		return gmm.NewBasinAmplified(base, filepath.Join(gmmDir, "basin-amplified"))
	}
	dir := filepath.Join(gmmDir, id, imt.String())
	switch id {
	case "sadigh1997":
		return gmm.NewSadigh1997(dir, imt)
	case "ceus-hard-rock":
		return gmm.NewCeusHardRock(dir, imt)
	case "subduction-interface":
		return gmm.NewSubductionInterface(dir, imt)
	case "subduction-slab":
		return gmm.NewSubductionSlab(dir, imt)
	case "ngaeast-seeds":
		return ngaEastSeedsFromManifest(gmmDir, imt)
	default:
		return nil, fmt.Errorf("unrecognized gmm id %q", id)
	}
}

// ngaEastSeedsFromManifest builds a gmm.NGAEastSeeds aggregate from the
// JSON seed list at gmmDir/ngaeast-seeds/seeds.json: an array of
// {"id", "weight", "dir"} objects, each dir resolved relative to
// gmmDir/ngaeast-seeds and loaded as a CeusHardRock coefficient set.
func ngaEastSeedsFromManifest(gmmDir string, imt gmm.Imt) (gmm.Gmm, error) {
	seedsDir := filepath.Join(gmmDir, "ngaeast-seeds")
	manifestPath := filepath.Join(seedsDir, "seeds.json")
	b, err := os.ReadFile(manifestPath)
	if err != nil {
		return nil, fmt.Errorf("gmm ngaeast-seeds: reading %s: %w", manifestPath, err)
	}
	var raw []struct {
		ID     string  `json:"id"`
		Weight float64 `json:"weight"`
		Dir    string  `json:"dir"`
	}
	if err := json.Unmarshal(b, &raw); err != nil {
		return nil, fmt.Errorf("gmm ngaeast-seeds: parsing %s: %w", manifestPath, err)
	}
	seeds := make([]gmm.NGAEastSeed, len(raw))
	for i, s := range raw {
		seeds[i] = gmm.NGAEastSeed{ID: s.ID, Weight: s.Weight, Dir: filepath.Join(seedsDir, s.Dir)}
	}
	return gmm.NewNGAEastSeeds(imt, seeds)
}
