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
	"image"
	"image/color"
	"math"

	"gonum.org/v1/gonum/floats"

	"github.com/spatialgrid/derive"
)

// palettedColors is the quantization palette used for GIF encoding:
// the default raster palette plus transparent and white.
var palettedColors color.Palette

func init() {
	palettedColors = append(color.Palette{color.Transparent, color.White}, DefaultPalette(64)...)
}

// DefaultPalette returns a blue-to-red palette with n entries.
func DefaultPalette(n int) color.Palette {
	pal := make(color.Palette, n)
	for i := range pal {
		frac := float64(i) / float64(n-1)
		pal[i] = color.NRGBA{
			R: uint8(255 * frac),
			G: 0,
			B: uint8(255 * (1 - frac)),
			A: 255,
		}
	}
	return pal
}

// ValueRange returns the minimum and maximum values in data, ignoring
// positions with no value. If data holds no values at all, both
// returns are NaN.
func ValueRange(data derive.Array2D) (min, max float64) {
	rows, cols := data.Dims()
	vals := make([]float64, 0, rows*cols)
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			if v := data.Get(j, i); !math.IsNaN(v) {
				vals = append(vals, v)
			}
		}
	}
	if len(vals) == 0 {
		return math.NaN(), math.NaN()
	}
	return floats.Min(vals), floats.Max(vals)
}

// Rasterize converts data to an image, mapping values from min to max
// linearly onto pal and leaving positions with no value fully
// transparent. Row 0 of the array becomes the bottom row of the
// image. Values outside [min, max] are clamped.
func Rasterize(data derive.Array2D, min, max float64, pal color.Palette) *image.NRGBA {
	rows, cols := data.Dims()
	img := image.NewNRGBA(image.Rect(0, 0, cols, rows))
	span := max - min
	for j := 0; j < rows; j++ {
		for i := 0; i < cols; i++ {
			v := data.Get(j, i)
			if math.IsNaN(v) {
				continue // zero value is transparent
			}
			frac := 0.0
			if span > 0 {
				frac = (v - min) / span
			}
			frac = math.Max(0, math.Min(1, frac))
			idx := int(math.Round(frac * float64(len(pal)-1)))
			img.Set(i, rows-1-j, pal[idx])
		}
	}
	return img
}
