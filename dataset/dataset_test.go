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

package dataset

import (
	"errors"
	"math"
	"path/filepath"
	"testing"
	"time"

	"github.com/spatialgrid/derive"
)

const testTolerance = 1.e-4

func openSynthetic(t *testing.T) *GridDataset {
	t.Helper()
	path := filepath.Join(t.TempDir(), "test.nc")
	if err := WriteSynthetic(path); err != nil {
		t.Fatal(err)
	}
	d, err := OpenFile(path)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { d.Close() })
	return d
}

func TestOpenSynthetic(t *testing.T) {
	d := openSynthetic(t)

	lats, lons, depths, times := d.Axes()
	if len(lats) != synthNLat || len(lons) != synthNLon || len(depths) != synthNDepth || len(times) != synthNTime {
		t.Fatalf("axis lengths %d %d %d %d, want %d %d %d %d",
			len(lats), len(lons), len(depths), len(times),
			synthNLat, synthNLon, synthNDepth, synthNTime)
	}
	if lats[0] != -90 || lats[len(lats)-1] != 90 {
		t.Errorf("latitude range [%g, %g], want [-90, 90]", lats[0], lats[len(lats)-1])
	}
	if lons[0] != -180 || lons[len(lons)-1] != 170 {
		t.Errorf("longitude range [%g, %g], want [-180, 170]", lons[0], lons[len(lons)-1])
	}
	want := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	if !times[0].Equal(want) {
		t.Errorf("first time %v, want %v", times[0], want)
	}
	if !times[1].Equal(want.AddDate(0, 0, 1)) {
		t.Errorf("second time %v, want one day later", times[1])
	}
	if step := d.TimeStep().Value(); step != 86400 {
		t.Errorf("time step %g s, want 86400", step)
	}

	ids := d.VariableIDs()
	if len(ids) != 12 {
		t.Errorf("have %d variables %v, want 12", len(ids), ids)
	}
}

func TestMetadataDomains(t *testing.T) {
	d := openSynthetic(t)

	m, err := d.Metadata("vLon")
	if err != nil {
		t.Fatal(err)
	}
	b := m.Horizontal.Bounds
	if b.Min.X != -180 || b.Max.X != 170 || b.Min.Y != -90 || b.Max.Y != 90 {
		t.Errorf("have [%g %g %g %g], want [-180 170 -90 90]", b.Min.X, b.Max.X, b.Min.Y, b.Max.Y)
	}
	if m.Vertical.Low != 0 || m.Vertical.High != 100 {
		t.Errorf("have (%g, %g), want (0, 100)", m.Vertical.Low, m.Vertical.High)
	}
	if m.Vertical.CRS.PositiveUp {
		t.Error("depth axis is positive-down")
	}
	if m.Vertical.CRS.Units != "m" {
		t.Errorf("have units %q, want m", m.Vertical.CRS.Units)
	}
	if m.Temporal.Calendar != "gregorian" {
		t.Errorf("have calendar %q, want gregorian", m.Temporal.Calendar)
	}
	if m.Parent() != d.Root() {
		t.Error("raw variables should be parented under the dataset root")
	}

	if _, err := d.Metadata("nope"); !errors.Is(err, derive.ErrUnknownVariable) {
		t.Errorf("have %v, want ErrUnknownVariable", err)
	}
}

func TestReadArray(t *testing.T) {
	d := openSynthetic(t)

	a, err := d.ReadArray("vLon", 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	rows, cols := a.Dims()
	if rows != synthNLat || cols != synthNLon {
		t.Fatalf("have %d×%d, want %d×%d", rows, cols, synthNLat, synthNLon)
	}
	// vLon ramps 0–100 along the longitude dimension at every
	// latitude, depth, and time.
	if v := a.Get(0, 0); math.Abs(v) > testTolerance {
		t.Errorf("have %g, want 0", v)
	}
	if v := a.Get(5, synthNLon-1); math.Abs(v-100) > testTolerance {
		t.Errorf("have %g, want 100", v)
	}
	wantMid := 100 * 7 / float64(synthNLon-1)
	if v := a.Get(3, 7); math.Abs(v-wantMid) > testTolerance {
		t.Errorf("have %g, want %g", v, wantMid)
	}

	// The slab position matters: vTime at the last time step is 100.
	at, err := d.ReadArray("vTime", synthNTime-1, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v := at.Get(0, 0); math.Abs(v-100) > testTolerance {
		t.Errorf("have %g, want 100", v)
	}

	if _, err := d.ReadArray("vLon", synthNTime, 0); err == nil {
		t.Error("out-of-range time index should be an error")
	}
	if _, err := d.ReadArray("nope", 0, 0); !errors.Is(err, derive.ErrUnknownVariable) {
		t.Errorf("have %v, want ErrUnknownVariable", err)
	}
}

func TestDerivedVariables(t *testing.T) {
	d := openSynthetic(t)

	p, err := derive.NewVectorPlugin("northEastEComp", "northEastNComp", "northeastward flow")
	if err != nil {
		t.Fatal(err)
	}
	if err := d.AddPlugin(p); err != nil {
		t.Fatal(err)
	}
	// Registration is one-shot.
	if err := d.AddPlugin(p); !errors.Is(err, derive.ErrAlreadyProcessed) {
		t.Errorf("have %v, want ErrAlreadyProcessed", err)
	}

	magID := p.FullID(derive.MagnitudeSuffix)
	dirID := p.FullID(derive.DirectionSuffix)

	ids := d.VariableIDs()
	found := 0
	for _, id := range ids {
		if id == magID || id == dirID {
			found++
		}
	}
	if found != 2 {
		t.Errorf("derived variables missing from %v", ids)
	}

	// The components point northeast with unit components everywhere.
	a, err := d.ReadArray(magID, 0, 0)
	if err != nil {
		t.Fatal(err)
	}
	if v := a.Get(9, 17); math.Abs(v-math.Sqrt2) > testTolerance {
		t.Errorf("have %g, want √2", v)
	}
	if err := a.Set(0, 0, 0); !errors.Is(err, derive.ErrImmutableArray) {
		t.Errorf("have %v, want ErrImmutableArray", err)
	}

	pos := derive.HorizontalPosition{X: 0, Y: 0, SR: derive.WGS84()}
	if v, err := d.ReadPoint(dirID, pos, 0, 0); err != nil || math.Abs(v-45) > testTolerance {
		t.Errorf("have %g (%v), want 45", v, err)
	}

	// Metadata was restructured: the components now live under the
	// plugin's group node.
	em, err := d.Metadata("northEastEComp")
	if err != nil {
		t.Fatal(err)
	}
	if em.Parent() == d.Root() {
		t.Error("component should have moved under the plugin group")
	}
	if em.Parent().ID() != p.FullID("-group") {
		t.Errorf("component parent is %s, want %s", em.Parent().ID(), p.FullID("-group"))
	}

	mm, err := d.Metadata(magID)
	if err != nil {
		t.Fatal(err)
	}
	if mm.Parameter.Units != "" && mm.Parameter.Units != "m/s" {
		t.Logf("magnitude units %q inherited from component", mm.Parameter.Units)
	}
	if mm.Temporal.Calendar != "gregorian" {
		t.Errorf("have calendar %q, want gregorian", mm.Temporal.Calendar)
	}
}

func TestNearestIndex(t *testing.T) {
	axis := []float64{-90, -80, -70, -60}
	for _, c := range []struct {
		v    float64
		want int
	}{{-91, 0}, {-86, 0}, {-84, 1}, {-60, 3}, {0, 3}} {
		if got := nearestIndex(axis, c.v); got != c.want {
			t.Errorf("nearestIndex(%g) = %d, want %d", c.v, got, c.want)
		}
	}
}
