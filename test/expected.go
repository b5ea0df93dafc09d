// This file is part of Gopher2600.
//
// Gopher2600 is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gopher2600 is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gopher2600.  If not, see <https://www.gnu.org/licenses/>.

// Package test collects small assertion helpers shared by unit tests
// across the module. It deliberately avoids a third-party assertion
// library so that the core module's test-only dependency surface stays
// equal to its runtime dependency surface.
package test

import (
	"math"
	"testing"
)

// isFailure understands bool and error, the two shapes a "did this
// succeed" value naturally takes in this codebase.
func isFailure(v interface{}) bool {
	switch r := v.(type) {
	case bool:
		return !r
	case error:
		return r != nil
	case nil:
		return false
	default:
		return false
	}
}

// ExpectFailure fails the test unless v represents failure (false, or a
// non-nil error).
func ExpectFailure(t *testing.T, v interface{}) {
	t.Helper()
	if !isFailure(v) {
		t.Errorf("expected failure, got %v", v)
	}
}

// ExpectSuccess fails the test unless v represents success (true, nil
// error, or untyped nil).
func ExpectSuccess(t *testing.T, v interface{}) {
	t.Helper()
	if isFailure(v) {
		t.Errorf("expected success, got %v", v)
	}
}

// Equate is an alias of ExpectEquality retained for call sites that
// predate that name.
func Equate(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	ExpectEquality(t, a, b)
}

// ExpectEquality fails the test if a and b are not equal.
func ExpectEquality(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a != b {
		t.Errorf("expected equality: %v != %v", a, b)
	}
}

// ExpectInequality fails the test if a and b are equal.
func ExpectInequality(t *testing.T, a interface{}, b interface{}) {
	t.Helper()
	if a == b {
		t.Errorf("expected inequality: %v == %v", a, b)
	}
}

// ExpectApproximate fails the test if a and b differ by more than tolerance.
func ExpectApproximate(t *testing.T, a float64, b float64, tolerance float64) {
	t.Helper()
	if math.Abs(a-b) > tolerance {
		t.Errorf("expected %v to be within %v of %v", a, tolerance, b)
	}
}
