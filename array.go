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
	"fmt"
	"math"

	"github.com/ctessum/sparse"
)

// Array2D provides access to a two-dimensional array of values.
// Positions with no data hold NaN.
type Array2D interface {
	// Dims returns the number of rows and columns in the array.
	Dims() (rows, cols int)

	// Get returns the value at the given position, or NaN if there is
	// no value there.
	Get(row, col int) float64

	// Set sets the value at the given position. Read-only arrays
	// return an error wrapping ErrImmutableArray.
	Set(v float64, row, col int) error
}

// DenseArray2D is a two-dimensional slice of a sparse.DenseArray that
// implements Array2D. For arrays with more than two dimensions, the
// leading indices fix the slice and the trailing two dimensions
// become the rows and columns.
type DenseArray2D struct {
	data    *sparse.DenseArray
	leading []int
}

// NewDenseArray2D creates an Array2D view of data. The number of
// leading indices must equal len(data.Shape)-2.
func NewDenseArray2D(data *sparse.DenseArray, leading ...int) (*DenseArray2D, error) {
	if len(data.Shape) != len(leading)+2 {
		return nil, fmt.Errorf("derive: array with shape %v requires %d leading indices but %d were supplied",
			data.Shape, len(data.Shape)-2, len(leading))
	}
	for i, l := range leading {
		if l < 0 || l >= data.Shape[i] {
			return nil, fmt.Errorf("derive: leading index %d out of range for dimension of length %d", l, data.Shape[i])
		}
	}
	return &DenseArray2D{data: data, leading: append([]int(nil), leading...)}, nil
}

// Dims returns the lengths of the trailing two dimensions.
func (a *DenseArray2D) Dims() (rows, cols int) {
	n := len(a.data.Shape)
	return a.data.Shape[n-2], a.data.Shape[n-1]
}

// Get returns the value at the given position.
func (a *DenseArray2D) Get(row, col int) float64 {
	return a.data.Get(append(append([]int(nil), a.leading...), row, col)...)
}

// Set sets the value at the given position.
func (a *DenseArray2D) Set(v float64, row, col int) error {
	a.data.Set(v, append(append([]int(nil), a.leading...), row, col)...)
	return nil
}

// derivedArray is a read-only view that recomputes each value from the
// corresponding positions of the source arrays on every access. It
// holds references to the sources and never copies them.
type derivedArray struct {
	impl       PluginImpl
	suffix     string
	sources    []Array2D
	rows, cols int
}

func (a *derivedArray) Dims() (rows, cols int) { return a.rows, a.cols }

// Get reads the given position from every source array in order and
// passes the values to the plugin's value function. If any source has
// no value at the position, the result is NaN.
func (a *derivedArray) Get(row, col int) float64 {
	vals := make([]float64, len(a.sources))
	for i, src := range a.sources {
		v := src.Get(row, col)
		if math.IsNaN(v) {
			return math.NaN()
		}
		vals[i] = v
	}
	return a.impl.DeriveValue(a.suffix, vals)
}

func (a *derivedArray) Set(v float64, row, col int) error {
	return fmt.Errorf("derive: writing to a derived array: %w", ErrImmutableArray)
}
