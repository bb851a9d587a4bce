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
	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

// HorizontalPosition is the position of a point in the horizontal
// plane. The first coordinate of the spatial reference is X and the
// second is Y; for geographic references X is longitude and Y is
// latitude [degrees].
type HorizontalPosition struct {
	X, Y float64
	SR   *proj.SR
}

// Point returns the position as a geometry point.
func (p HorizontalPosition) Point() geom.Point { return geom.Point{X: p.X, Y: p.Y} }

// VerticalPosition is the position of a point on a vertical axis.
type VerticalPosition struct {
	Z   float64
	CRS *VerticalCRS
}
