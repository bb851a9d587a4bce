/*
Copyright © 2026 the Derive authors.
This file is part of Derive.

Derive is free software: you can redistribute it and/or modify
it under the terms of the GNU General Public License as published by
the Free Software Foundation, either version 3 of the License, or
(at your option) any later version.

Derive is distributed in the hope that it will be useful,
but WITHOUT ANY WARRANTY; without even the implied warranty of
MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
GNU General Public License for more details.

You should have received a copy of the GNU General Public License
along with Derive.  If not, see <http://www.gnu.org/licenses/>.
*/

package derive

import (
	"errors"
	"math"
	"testing"

	"github.com/ctessum/sparse"
)

func denseFrom(t *testing.T, rows, cols int, vals ...float64) *DenseArray2D {
	t.Helper()
	d := sparse.ZerosDense(rows, cols)
	copy(d.Elements, vals)
	a, err := NewDenseArray2D(d)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestDenseArray2D(t *testing.T) {
	a := denseFrom(t, 2, 3, 1, 2, 3, 4, 5, 6)
	rows, cols := a.Dims()
	if rows != 2 || cols != 3 {
		t.Fatalf("have %d×%d, want 2×3", rows, cols)
	}
	if v := a.Get(1, 2); v != 6 {
		t.Errorf("have %g, want 6", v)
	}
	if err := a.Set(-1, 0, 1); err != nil {
		t.Fatal(err)
	}
	if v := a.Get(0, 1); v != -1 {
		t.Errorf("have %g, want -1", v)
	}
}

func TestDenseArray2DLeading(t *testing.T) {
	d := sparse.ZerosDense(2, 3, 4)
	d.Set(9, 1, 2, 3)
	a, err := NewDenseArray2D(d, 1)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := a.Dims()
	if rows != 3 || cols != 4 {
		t.Fatalf("have %d×%d, want 3×4", rows, cols)
	}
	if v := a.Get(2, 3); v != 9 {
		t.Errorf("have %g, want 9", v)
	}
	if _, err := NewDenseArray2D(d); err == nil {
		t.Error("missing leading index should be an error")
	}
	if _, err := NewDenseArray2D(d, 5); err == nil {
		t.Error("out-of-range leading index should be an error")
	}
}

func TestDerivedArray(t *testing.T) {
	s := newSumPlugin(t, "u", "v")
	u := denseFrom(t, 2, 2, 1, 2, 3, 4)
	v := denseFrom(t, 2, 2, 10, 20, math.NaN(), 40)

	a, err := s.Array("uvsum", u, v)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := a.Dims()
	if rows != 2 || cols != 2 {
		t.Fatalf("have %d×%d, want 2×2", rows, cols)
	}
	if got := a.Get(0, 0); got != 11 {
		t.Errorf("have %g, want 11", got)
	}
	if got := a.Get(1, 1); got != 44 {
		t.Errorf("have %g, want 44", got)
	}
	// Missing data in any source propagates per position.
	if got := a.Get(1, 0); !math.IsNaN(got) {
		t.Errorf("have %g, want NaN", got)
	}

	if err := a.Set(1, 0, 0); !errors.Is(err, ErrImmutableArray) {
		t.Errorf("have %v, want ErrImmutableArray", err)
	}
	// The view reads through to the sources: no caching.
	if err := u.Set(100, 0, 0); err != nil {
		t.Fatal(err)
	}
	if got := a.Get(0, 0); got != 110 {
		t.Errorf("have %g, want 110 after source update", got)
	}
}

func TestDerivedArrayArity(t *testing.T) {
	s := newSumPlugin(t, "u", "v")
	u := denseFrom(t, 1, 1, 1)
	if _, err := s.Array("uvsum", u); !errors.Is(err, ErrArityMismatch) {
		t.Errorf("have %v, want ErrArityMismatch", err)
	}
}
