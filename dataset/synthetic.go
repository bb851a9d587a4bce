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
	"fmt"
	"os"
	"time"

	"github.com/ctessum/cdf"
	"gonum.org/v1/gonum/floats"
)

// Synthetic grid size.
const (
	synthNLon   = 36
	synthNLat   = 19
	synthNDepth = 11
	synthNTime  = 10
)

// WriteSynthetic writes a small 4-D NetCDF file with predictable
// contents for use as test data. It contains four ramp variables
// (vLon, vLat, vDepth, vTime), each varying from 0 to 100 along a
// single dimension, and four pairs of vector component variables
// pointing northeast, southeast, southwest, and northwest. The grid
// is global at 10° resolution with 11 depths and 10 daily time steps
// starting 2000-01-01.
func WriteSynthetic(path string) error {
	dims4 := []string{timeDim, depthDim, latDim, lonDim}

	h := cdf.NewHeader(
		[]string{latDim, lonDim, depthDim, timeDim},
		[]int{synthNLat, synthNLon, synthNDepth, synthNTime})

	h.AddVariable(latDim, []string{latDim}, []float32{0})
	h.AddAttribute(latDim, "units", "degrees_north")
	h.AddAttribute(latDim, "long_name", "latitude")
	h.AddAttribute(latDim, "standard_name", "latitude")

	h.AddVariable(lonDim, []string{lonDim}, []float32{0})
	h.AddAttribute(lonDim, "units", "degrees_east")
	h.AddAttribute(lonDim, "long_name", "longitude")
	h.AddAttribute(lonDim, "standard_name", "longitude")

	h.AddVariable(depthDim, []string{depthDim}, []float32{0})
	h.AddAttribute(depthDim, "units", "m")
	h.AddAttribute(depthDim, "positive", "down")
	h.AddAttribute(depthDim, "long_name", "depth")
	h.AddAttribute(depthDim, "standard_name", "depth")

	h.AddVariable(timeDim, []string{timeDim}, []int32{0})
	h.AddAttribute(timeDim, "standard_name", "time")
	h.AddAttribute(timeDim, "units", "seconds since 1970-01-01 00:00:00")
	h.AddAttribute(timeDim, "calendar", "gregorian")

	// Ramp variables, each varying along one dimension only.
	for _, v := range []string{"vLon", "vLat", "vDepth", "vTime"} {
		h.AddVariable(v, dims4, []float32{0})
	}

	// Vector component pairs pointing toward each diagonal.
	comps := []struct {
		north, east  string
		nVal, eVal   float32
		standardBase string
	}{
		{"northEastNComp", "northEastEComp", 1, 1, "NE"},
		{"southEastNComp", "southEastEComp", -1, 1, "SE"},
		{"southWestNComp", "southWestEComp", -1, -1, "SW"},
		{"northWestNComp", "northWestEComp", 1, -1, "NW"},
	}
	for _, c := range comps {
		h.AddVariable(c.north, dims4, []float32{0})
		h.AddAttribute(c.north, "standard_name", "northward_"+c.standardBase)
		h.AddVariable(c.east, dims4, []float32{0})
		h.AddAttribute(c.east, "standard_name", "eastward_"+c.standardBase)
	}

	h.Define()
	for _, err := range h.Check() {
		return fmt.Errorf("dataset: creating synthetic NetCDF header: %v", err)
	}

	ff, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("dataset: creating synthetic NetCDF file: %v", err)
	}
	defer ff.Close()
	f, err := cdf.Create(ff, h)
	if err != nil {
		return fmt.Errorf("dataset: creating synthetic NetCDF file: %v", err)
	}

	// Coordinate axes.
	lats := make([]float64, synthNLat)
	lons := make([]float64, synthNLon)
	depths := make([]float64, synthNDepth)
	floats.Span(lats, -90, 90)
	floats.Span(lons, -180, 170)
	floats.Span(depths, 0, 100)
	if err := writeFloats(f, latDim, lats); err != nil {
		return err
	}
	if err := writeFloats(f, lonDim, lons); err != nil {
		return err
	}
	if err := writeFloats(f, depthDim, depths); err != nil {
		return err
	}

	t0 := time.Date(2000, 1, 1, 0, 0, 0, 0, time.UTC)
	times := make([]int32, synthNTime)
	for i := range times {
		times[i] = int32(t0.AddDate(0, 0, i).Unix())
	}
	w := f.Writer(timeDim, []int{0}, []int{len(times)})
	if _, err := w.Write(times); err != nil {
		return fmt.Errorf("dataset: writing synthetic time axis: %v", err)
	}

	// Data variables. The ramps progress 0–100 along their dimension.
	n := synthNTime * synthNDepth * synthNLat * synthNLon
	ramps := map[string][]float32{
		"vLon":   make([]float32, n),
		"vLat":   make([]float32, n),
		"vDepth": make([]float32, n),
		"vTime":  make([]float32, n),
	}
	compData := make(map[string][]float32)
	for _, c := range comps {
		nc := make([]float32, n)
		ec := make([]float32, n)
		for i := range nc {
			nc[i] = c.nVal
			ec[i] = c.eVal
		}
		compData[c.north] = nc
		compData[c.east] = ec
	}
	idx := 0
	for l := 0; l < synthNTime; l++ {
		for k := 0; k < synthNDepth; k++ {
			for j := 0; j < synthNLat; j++ {
				for i := 0; i < synthNLon; i++ {
					ramps["vTime"][idx] = 100 * float32(l) / (synthNTime - 1)
					ramps["vDepth"][idx] = 100 * float32(k) / (synthNDepth - 1)
					ramps["vLat"][idx] = 100 * float32(j) / (synthNLat - 1)
					ramps["vLon"][idx] = 100 * float32(i) / (synthNLon - 1)
					idx++
				}
			}
		}
	}
	for v, data := range ramps {
		if err := write4D(f, v, data); err != nil {
			return err
		}
	}
	for v, data := range compData {
		if err := write4D(f, v, data); err != nil {
			return err
		}
	}
	return nil
}

func writeFloats(f *cdf.File, v string, data []float64) error {
	data32 := make([]float32, len(data))
	for i, val := range data {
		data32[i] = float32(val)
	}
	w := f.Writer(v, []int{0}, []int{len(data32)})
	if _, err := w.Write(data32); err != nil {
		return fmt.Errorf("dataset: writing synthetic variable %s: %v", v, err)
	}
	return nil
}

func write4D(f *cdf.File, v string, data []float32) error {
	end := f.Header.Lengths(v)
	start := make([]int, len(end))
	w := f.Writer(v, start, end)
	if _, err := w.Write(data); err != nil {
		return fmt.Errorf("dataset: writing synthetic variable %s: %v", v, err)
	}
	return nil
}
