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
	"errors"
	"testing"
)

func TestKindFatalMatchesPropagationRule(t *testing.T) {
	fatal := []Kind{ModelIntegrity, TimedOut, Internal}
	recoverable := []Kind{InputValidation, ArithmeticDegenerate, InputOutOfRange}
	for _, k := range fatal {
		if !k.Fatal() {
			t.Errorf("%s.Fatal() = false, want true", k)
		}
	}
	for _, k := range recoverable {
		if k.Fatal() {
			t.Errorf("%s.Fatal() = true, want false", k)
		}
	}
}

func TestHazardErrorUnwrap(t *testing.T) {
	inner := errors.New("boom")
	he := newError(ArithmeticDegenerate, "S2", inner)
	if !errors.Is(he, inner) {
		t.Error("errors.Is did not find the wrapped error")
	}
	if he.Error() == "" {
		t.Error("Error() returned empty string")
	}
}
