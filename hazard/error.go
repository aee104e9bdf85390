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

import "fmt"

// Kind classifies a HazardError by how the caller should respond to it,
// not by which Go type raised it (§7).
type Kind int

const (
	// InputValidation is a bad argument at a public contract boundary.
	// Raised; never retried.
	InputValidation Kind = iota
	// ModelIntegrity means model files are missing or inconsistent.
	// Fatal for the run.
	ModelIntegrity
	// ArithmeticDegenerate is a NaN/Inf from a per-rupture computation.
	// Recovered: the rupture is dropped and a warning logged.
	ArithmeticDegenerate
	// InputOutOfRange means a GMM was invoked outside its declared
	// parameter domain. Recoverable: computed anyway, flagged in output.
	InputOutOfRange
	// TimedOut means the reducer's wall-clock bound was exceeded.
	// Surfaced to the caller; partial results are discarded.
	TimedOut
	// Internal is an invariant violation (e.g. weights not summing to 1
	// post-build). Fatal; indicates a bug.
	Internal
)

func (k Kind) String() string {
	switch k {
	case InputValidation:
		return "INPUT_VALIDATION"
	case ModelIntegrity:
		return "MODEL_INTEGRITY"
	case ArithmeticDegenerate:
		return "ARITHMETIC_DEGENERATE"
	case InputOutOfRange:
		return "INPUT_OUT_OF_RANGE"
	case TimedOut:
		return "TIMED_OUT"
	case Internal:
		return "INTERNAL"
	default:
		return fmt.Sprintf("Kind(%d)", int(k))
	}
}

// HazardError wraps an underlying error with the Kind that determines
// whether the pipeline recovers from it (skip-and-continue) or aborts
// the site (fatal).
type HazardError struct {
	Kind Kind
	Op   string // stage or function where the error originated, e.g. "S2"
	Err  error
}

func (e *HazardError) Error() string {
	if e.Err == nil {
		return fmt.Sprintf("hazard: %s: %s", e.Op, e.Kind)
	}
	return fmt.Sprintf("hazard: %s: %s: %v", e.Op, e.Kind, e.Err)
}

func (e *HazardError) Unwrap() error { return e.Err }

// Fatal reports whether errors of this kind abort the site calculation,
// per §7's propagation rule: only MODEL_INTEGRITY, TIMED_OUT, and
// INTERNAL propagate to the reducer and abort; the rest are recovered as
// sentinel skips.
func (k Kind) Fatal() bool {
	switch k {
	case ModelIntegrity, TimedOut, Internal:
		return true
	default:
		return false
	}
}

// newError builds a HazardError.
func newError(kind Kind, op string, err error) *HazardError {
	return &HazardError{Kind: kind, Op: op, Err: err}
}
