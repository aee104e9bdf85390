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

package hazard

import (
	"context"
	"runtime"
	"sync"

	"github.com/usgs/nshmp-haz-go/gmm"
	"github.com/usgs/nshmp-haz-go/site"
	"github.com/usgs/nshmp-haz-go/source"
	"github.com/usgs/nshmp-haz-go/tree"
	"github.com/usgs/nshmp-haz-go/xy"
)

// State is a site calculation's position in the INIT -> FILTERING ->
// DISPATCHING <-> REDUCING -> DONE/FAILED/TIMED_OUT state machine (§7).
type State int

const (
	Init State = iota
	Filtering
	Dispatching
	Reducing
	Done
	Failed
	StateTimedOut
)

func (s State) String() string {
	switch s {
	case Init:
		return "INIT"
	case Filtering:
		return "FILTERING"
	case Dispatching:
		return "DISPATCHING"
	case Reducing:
		return "REDUCING"
	case Done:
		return "DONE"
	case Failed:
		return "FAILED"
	case StateTimedOut:
		return "TIMED_OUT"
	default:
		return "UNKNOWN"
	}
}

// PadKm is the default pre-filter pad added to a SourceSet's CutoffKm
// before comparing against a source's centroid (§4.4): large enough to
// cover a fault source's half-length without requiring the full
// rupture set to be built just to test relevance.
const PadKm = 100

// Result is one site's finished calculation: the total curve plus every
// warning recorded along the way. A non-fatal warning (ArithmeticDegenerate,
// InputOutOfRange) does not prevent Curve from being populated; a fatal
// one (ModelIntegrity, TimedOut, Internal) does, and is also returned as
// err.
type Result struct {
	Site     site.Site
	Imt      gmm.Imt
	State    State
	Curve    *xy.Sequence
	Warnings []*HazardError
}

// ComputeSiteCurve runs S1 through S6 for one site and IMT: filters every
// SourceSet's sources against the site (S1), builds per-rupture GmmInputs
// (S2), evaluates every Gmm logic-tree branch (S3), builds one curve per
// branch (S4), aggregates per SourceSet (S5), then sums across SourceSets
// (S6). SourceSets are processed concurrently by a fixed worker pool sized
// from nworkers (performance.threadCount resolved by the caller; 0 falls
// back to runtime.GOMAXPROCS), adapted from the teacher's per-cell
// round-robin dispatch in run.go's Calculations to a channel-fed task
// queue so a single-owner reducer goroutine can assemble results as they
// complete instead of waiting on a synchronized barrier per stage.
func ComputeSiteCurve(ctx context.Context, reg *source.Registry, s site.Site, imt gmm.Imt, xs []float64, trunc Truncation, nworkers int) (*Result, error) {
	res := &Result{Site: s, Imt: imt, State: Init}

	sourceSets := reg.SourceSets()
	if len(sourceSets) == 0 {
		res.State = Done
		res.Curve = xy.EmptyWithX(xs)
		return res, nil
	}

	res.State = Dispatching
	if nworkers <= 0 {
		nworkers = runtime.GOMAXPROCS(0)
	}
	if nworkers > len(sourceSets) {
		nworkers = len(sourceSets)
	}

	type setResult struct {
		weighted WeightedCurve
		warnings []*HazardError
		err      *HazardError
	}

	tasks := make(chan *source.SourceSet)
	results := make(chan setResult)
	var wg sync.WaitGroup
	wg.Add(nworkers)
	for w := 0; w < nworkers; w++ {
		go func() {
			defer wg.Done()
			for ss := range tasks {
				select {
				case <-ctx.Done():
					results <- setResult{err: newError(TimedOut, "S1-S5", ctx.Err())}
					continue
				default:
				}
				wc, warnings, err := computeSourceSetCurve(ctx, ss, s, imt, xs, trunc)
				results <- setResult{weighted: wc, warnings: warnings, err: err}
			}
		}()
	}

	go func() {
		defer close(tasks)
		for _, ss := range sourceSets {
			select {
			case <-ctx.Done():
				return
			case tasks <- ss:
			}
		}
	}()

	go func() {
		wg.Wait()
		close(results)
	}()

	res.State = Reducing
	var curves []WeightedCurve
	var fatal *HazardError
	for r := range results {
		if r.err != nil {
			res.Warnings = append(res.Warnings, r.err)
			if r.err.Kind.Fatal() && fatal == nil {
				fatal = r.err
			}
			continue
		}
		res.Warnings = append(res.Warnings, r.warnings...)
		curves = append(curves, r.weighted)
	}

	if fatal == nil && ctx.Err() != nil {
		// The context was cancelled before any SourceSet task reported back
		// (e.g. it was already done when ComputeSiteCurve was called), so
		// the per-task TimedOut errors above never had a chance to fire.
		fatal = newError(TimedOut, "S1-S5", ctx.Err())
	}

	if fatal != nil {
		if fatal.Kind == TimedOut {
			res.State = StateTimedOut
		} else {
			res.State = Failed
		}
		return res, fatal
	}

	res.Curve = TotalCurve(xs, curves)
	res.State = Done
	return res, nil
}

// computeSourceSetCurve implements S1 through S5 for a single SourceSet.
func computeSourceSetCurve(ctx context.Context, ss *source.SourceSet, s site.Site, imt gmm.Imt, xs []float64, trunc Truncation) (WeightedCurve, []*HazardError, *HazardError) {
	gmms, ok := ss.Gmms[imt]
	if !ok {
		return WeightedCurve{Weight: ss.Weight, Curve: xy.EmptyWithX(xs)}, nil, nil
	}

	filtered := ss.Filter(s.Location, PadKm)
	var warnings []*HazardError
	curvesByBranchID := make(map[string]*xy.Sequence, gmms.Len())

	for _, br := range gmms.Branches() {
		curvesByBranchID[br.ID] = xy.EmptyWithX(xs)
	}

	for _, src := range filtered {
		select {
		case <-ctx.Done():
			return WeightedCurve{}, nil, newError(TimedOut, "S1-S5", ctx.Err())
		default:
		}

		if cs, ok := src.(source.ClusterSourceIface); ok {
			c, w, err := clusterSourceCurve(cs, gmms, s, ss.CutoffKm, xs, trunc)
			if err != nil {
				return WeightedCurve{}, nil, err
			}
			warnings = append(warnings, w...)
			for id, seq := range c {
				curvesByBranchID[id].AddY(seq)
			}
			continue
		}

		rs, ok := src.(source.RuptureSource)
		if !ok {
			return WeightedCurve{}, nil, newError(ModelIntegrity, "S1", unsupportedSourceError{id: src.ID()})
		}

		ruptures, rerr := rs.Ruptures()
		if rerr != nil {
			return WeightedCurve{}, nil, newError(ModelIntegrity, "S1", rerr)
		}

		inputs, w := BuildInputs(ruptures, s, ss.CutoffKm)
		warnings = append(warnings, w...)
		if len(inputs) == 0 {
			continue
		}

		for _, br := range gmms.Branches() {
			preds, w := EvaluateGmm(br.Value, inputs)
			warnings = append(warnings, w...)
			if len(preds) == 0 {
				continue
			}
			branchCurve, cerr := CurveForGmm(xs, preds, trunc)
			if cerr != nil {
				return WeightedCurve{}, nil, newError(Internal, "S4", cerr)
			}
			curvesByBranchID[br.ID].AddY(branchCurve)
		}
	}

	curve := AggregateSourceSet(xs, curvesByBranchID, gmms)
	return WeightedCurve{Weight: ss.Weight, Curve: curve}, warnings, nil
}

// clusterSourceCurve evaluates one cluster source against every Gmm
// branch, returning a per-branch curve since a cluster's combinatorics
// (ClusterCurve) still need to be combined across the SourceSet's Gmm
// logic tree the same way an independent source's curves are.
func clusterSourceCurve(cs source.ClusterSourceIface, gmms *tree.Tree[gmm.Gmm], s site.Site, cutoffKm float64, xs []float64, trunc Truncation) (map[string]*xy.Sequence, []*HazardError, *HazardError) {
	alternatives := cs.Alternatives()
	out := make(map[string]*xy.Sequence, gmms.Len())
	var warnings []*HazardError

	for _, br := range gmms.Branches() {
		altPredictions := make([]ClusterAlternativePrediction, 0, len(alternatives))
		for _, alt := range alternatives {
			inputs, w := BuildInputs(alt.Ruptures, s, cutoffKm)
			warnings = append(warnings, w...)
			if len(inputs) != len(alt.Ruptures) {
				// A rupture fell outside cutoff or was degenerate: the
				// alternative's joint-occurrence ruptures no longer line
				// up one-to-one, so the alternative is dropped rather
				// than silently computed against a partial rupture set.
				continue
			}
			preds, w := EvaluateGmm(br.Value, inputs)
			warnings = append(warnings, w...)
			if len(preds) != len(inputs) {
				continue
			}
			scalars := make([]ScalarPrediction, len(preds))
			for i, p := range preds {
				scalars[i] = ScalarPrediction{Mean: p.Mean, Sigma: p.Sigma}
			}
			altPredictions = append(altPredictions, ClusterAlternativePrediction{Weight: alt.Weight, Predictions: scalars})
		}
		curve, err := ClusterCurve(xs, cs.TotalRate(), altPredictions, trunc)
		if err != nil {
			return nil, nil, newError(Internal, "S4", err)
		}
		out[br.ID] = curve
	}
	return out, warnings, nil
}

type unsupportedSourceError struct{ id string }

func (e unsupportedSourceError) Error() string {
	return "source " + e.id + " implements neither RuptureSource nor ClusterSourceIface"
}
