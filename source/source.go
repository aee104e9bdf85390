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

// Package source models the seismic source tree: SourceSets of a single
// SourceType, each holding Sources that yield Ruptures (or, for cluster
// sources, rupture-geometry alternatives evaluated jointly). The tree
// navigates Source -> SourceSet -> Gmm logic tree as owned composition:
// back-references are indices into a flat Registry, never pointers, so
// there is no cycle between a Source and the SourceSet that owns it.
package source

import (
	"fmt"

	"github.com/usgs/nshmp-haz-go/geo"
	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/rupture"
	"github.com/usgs/nshmp-haz-go/tree"
)

// SourceType discriminates a SourceSet's member sources.
type SourceType int

const (
	Fault SourceType = iota
	Grid
	Cluster
	Interface
	Slab
	Area
)

func (t SourceType) String() string {
	switch t {
	case Fault:
		return "FAULT"
	case Grid:
		return "GRID"
	case Cluster:
		return "CLUSTER"
	case Interface:
		return "INTERFACE"
	case Slab:
		return "SLAB"
	case Area:
		return "AREA"
	default:
		return fmt.Sprintf("SourceType(%d)", int(t))
	}
}

// Source is the contract every source type shares: an identity and a
// cheap location proxy used by the pre-filtering pass (S1). Most callers
// want the narrower RuptureSource or ClusterSourceIface capability
// interfaces, selected by type assertion, per the "dynamic dispatch for
// GMMs and sources" design note: tagged variants where possible, a small
// capability-set interface where extensibility matters.
type Source interface {
	ID() string
	// Centroid is the location used for location-based pre-filtering: the
	// mean of a gridded source's surface grid points (fault/interface/slab),
	// the cell location (grid/area), or a cluster's supplied centroid,
	// never requiring the full rupture set to be built.
	Centroid() geo.Location
	// sourceSetIndex returns the owning SourceSet's position in a
	// Registry, or -1 if the source has not been added to one yet.
	sourceSetIndex() int
}

// RuptureSource is a Source whose occurrence is modeled as an
// independent Poisson process: its ruptures sum additively with every
// other independent source (§4.7.5). Fault, Grid, Interface, Slab, and
// Area sources all implement this.
type RuptureSource interface {
	Source
	// Ruptures returns every rupture the source contributes, including
	// floaters, with their final (MFD-bin-rate * floater-weight) rates.
	Ruptures() ([]rupture.Rupture, error)
}

// ClusterAlternative is one rupture-geometry alternative of a cluster
// source: a branch weight and the ruptures that occur jointly under it.
type ClusterAlternative struct {
	Weight    float64
	Ruptures  []rupture.Rupture
}

// ClusterSourceIface is a Source whose exceedance must be computed with
// cluster combinatorics (§4.7.4) rather than independent-Poisson
// summation: ruptures within one alternative are multiplicative,
// alternatives are weighted-additive.
type ClusterSourceIface interface {
	Source
	Alternatives() []ClusterAlternative
	// TotalRate is the cluster's total occurrence rate Lambda, shared
	// across every geometry alternative.
	TotalRate() float64
}

// sourceBase is embedded by every concrete source type to provide the
// unexported sourceSetIndex back-reference without requiring each type
// to duplicate the bookkeeping.
type sourceBase struct {
	id    string
	setIx int
}

func newSourceBase(id string) sourceBase { return sourceBase{id: id, setIx: -1} }

func (b *sourceBase) ID() string                { return b.id }
func (b *sourceBase) sourceSetIndex() int        { return b.setIx }
func (b *sourceBase) setSourceSetIndex(i int)    { b.setIx = i }

// SourceSet is a collection of Sources of a single SourceType, with a
// weight, a per-IMT Gmm logic tree, and a cutoff distance beyond which
// member sources are not evaluated for a given site.
type SourceSet struct {
	ID       string
	Type     SourceType
	Weight   float64
	CutoffKm float64
	Gmms     map[gmm.Imt]*tree.Tree[gmm.Gmm]

	sources []Source
	regIx   int
}

// NewSourceSet builds an empty SourceSet.
func NewSourceSet(id string, typ SourceType, weight, cutoffKm float64, gmms map[gmm.Imt]*tree.Tree[gmm.Gmm]) *SourceSet {
	return &SourceSet{ID: id, Type: typ, Weight: weight, CutoffKm: cutoffKm, Gmms: gmms, regIx: -1}
}

// Add appends src to the set, recording this set's registry index (if
// any) as the source's back-reference.
func (s *SourceSet) Add(src Source) {
	if setter, ok := src.(interface{ setSourceSetIndex(int) }); ok {
		setter.setSourceSetIndex(s.regIx)
	}
	s.sources = append(s.sources, src)
}

// Sources returns every source in the set, in insertion order.
func (s *SourceSet) Sources() []Source { return s.sources }

// Filter returns the subset of sources whose centroid lies within
// CutoffKm+pad of site, per §4.4's "cheap proxy with a conservative
// pad" pre-filtering rule. padKm should exceed the largest expected
// rupture half-length, since the centroid proxy underestimates distance
// to a large rupture's near edge.
func (s *SourceSet) Filter(site geo.Location, padKm float64) []Source {
	var out []Source
	for _, src := range s.sources {
		if geo.LinearDistance3D(src.Centroid(), site) <= s.CutoffKm+padKm {
			out = append(out, src)
		}
	}
	return out
}

// Registry owns every SourceSet in a model as a flat slice; Sources hold
// only an integer index into it, never a pointer back to their
// SourceSet, avoiding the Source<->SourceSet ownership cycle.
type Registry struct {
	sourceSets []*SourceSet
}

// NewRegistry returns an empty Registry.
func NewRegistry() *Registry { return &Registry{} }

// AddSourceSet appends ss to the registry and stamps its back-reference
// index onto every source already added to it.
func (r *Registry) AddSourceSet(ss *SourceSet) int {
	idx := len(r.sourceSets)
	ss.regIx = idx
	for _, src := range ss.sources {
		if setter, ok := src.(interface{ setSourceSetIndex(int) }); ok {
			setter.setSourceSetIndex(idx)
		}
	}
	r.sourceSets = append(r.sourceSets, ss)
	return idx
}

// SourceSets returns every registered SourceSet, in registration order.
func (r *Registry) SourceSets() []*SourceSet { return r.sourceSets }

// SourceSetOf returns the SourceSet that owns src, resolved through the
// registry index rather than a stored pointer.
func (r *Registry) SourceSetOf(src Source) (*SourceSet, error) {
	idx := src.sourceSetIndex()
	if idx < 0 || idx >= len(r.sourceSets) {
		return nil, fmt.Errorf("source: %q has no owning SourceSet in this registry", src.ID())
	}
	return r.sourceSets[idx], nil
}
