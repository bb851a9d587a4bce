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

package graphics

import (
	"bytes"
	"image"
	"image/color"
	"image/png"
	"math"
	"testing"

	"github.com/ctessum/sparse"

	"github.com/spatialgrid/derive"
)

func testArray(t *testing.T) derive.Array2D {
	t.Helper()
	d := sparse.ZerosDense(2, 3)
	copy(d.Elements, []float64{0, 50, 100, 25, math.NaN(), 75})
	a, err := derive.NewDenseArray2D(d)
	if err != nil {
		t.Fatal(err)
	}
	return a
}

func TestValueRange(t *testing.T) {
	min, max := ValueRange(testArray(t))
	if min != 0 || max != 100 {
		t.Errorf("have (%g, %g), want (0, 100)", min, max)
	}

	d := sparse.ZerosDense(1, 2)
	d.Elements[0], d.Elements[1] = math.NaN(), math.NaN()
	a, err := derive.NewDenseArray2D(d)
	if err != nil {
		t.Fatal(err)
	}
	min, max = ValueRange(a)
	if !math.IsNaN(min) || !math.IsNaN(max) {
		t.Errorf("have (%g, %g), want NaN for all-missing data", min, max)
	}
}

func TestRasterize(t *testing.T) {
	pal := DefaultPalette(64)
	img := Rasterize(testArray(t), 0, 100, pal)

	if b := img.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Fatalf("have %v, want 3×2", b)
	}
	// Row 0 of the array is the bottom row of the image.
	if c := img.NRGBAAt(0, 1); c != pal[0].(color.NRGBA) {
		t.Errorf("minimum value has color %v, want %v", c, pal[0])
	}
	if c := img.NRGBAAt(2, 1); c != pal[len(pal)-1].(color.NRGBA) {
		t.Errorf("maximum value has color %v, want %v", c, pal[len(pal)-1])
	}
	// Missing data is transparent: array position (1,1) is image (1,0).
	if c := img.NRGBAAt(1, 0); c.A != 0 {
		t.Errorf("missing value has alpha %d, want 0", c.A)
	}
}

func TestFormats(t *testing.T) {
	img := Rasterize(testArray(t), 0, 100, DefaultPalette(64))
	frames := []image.Image{img}

	for _, name := range []string{"png", "jpeg", "gif"} {
		f, err := FormatByName(name)
		if err != nil {
			t.Fatal(err)
		}
		var buf bytes.Buffer
		if err := f.Write(&buf, frames); err != nil {
			t.Errorf("%s: %v", name, err)
		}
		if buf.Len() == 0 {
			t.Errorf("%s: empty output", name)
		}
	}

	if _, err := FormatByName("bmp"); err == nil {
		t.Error("unknown format should be an error")
	}
}

func TestPNGRoundTrip(t *testing.T) {
	img := Rasterize(testArray(t), 0, 100, DefaultPalette(64))
	var buf bytes.Buffer
	if err := (PNG{}).Write(&buf, []image.Image{img}); err != nil {
		t.Fatal(err)
	}
	decoded, err := png.Decode(&buf)
	if err != nil {
		t.Fatal(err)
	}
	if b := decoded.Bounds(); b.Dx() != 3 || b.Dy() != 2 {
		t.Errorf("have %v, want 3×2", b)
	}
}

func TestMultipleFrames(t *testing.T) {
	img := Rasterize(testArray(t), 0, 100, DefaultPalette(64))
	frames := []image.Image{img, img}

	if err := (JPEG{}).Write(&bytes.Buffer{}, frames); err == nil {
		t.Error("JPEG should refuse multiple frames")
	}
	if err := (PNG{}).Write(&bytes.Buffer{}, frames); err == nil {
		t.Error("PNG should refuse multiple frames")
	}
	var buf bytes.Buffer
	if err := (GIF{DelayCentiseconds: 10}).Write(&buf, frames); err != nil {
		t.Errorf("GIF animation: %v", err)
	}
}
