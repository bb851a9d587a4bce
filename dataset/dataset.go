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

// Package dataset reads gridded variables from NetCDF files and
// serves derived variables through registered plugins.
package dataset

import (
	"fmt"
	"math"
	"os"
	"sort"
	"sync"
	"time"

	"github.com/ctessum/cdf"
	"github.com/ctessum/sparse"
	"github.com/ctessum/unit"

	"github.com/spatialgrid/derive"
)

// Dimension names expected in the files this package reads.
const (
	latDim   = "latitude"
	lonDim   = "longitude"
	depthDim = "depth"
	timeDim  = "time"
)

// Plugin is the part of a derived-variable plugin that a dataset
// needs: registration-time metadata processing and read-time value
// and array derivation. *derive.Plugin and the concrete plugins
// embedding it satisfy this interface.
type Plugin interface {
	UsesVariables() []string
	ProvidesVariables() []string
	Provides(varID string) bool
	ProcessMetadata(sources ...*derive.VariableMetadata) ([]*derive.VariableMetadata, error)
	Value(varID string, sourceValues ...float64) (float64, error)
	Array(varID string, sources ...derive.Array2D) (derive.Array2D, error)
}

// Dataset provides read access to a set of gridded variables.
type Dataset interface {
	// VariableIDs returns the IDs of all readable variables,
	// including derived ones.
	VariableIDs() []string

	// Metadata returns the metadata node for the given variable.
	Metadata(varID string) (*derive.VariableMetadata, error)

	// ReadArray returns the horizontal slice of the given variable at
	// the given time and depth indices.
	ReadArray(varID string, tIndex, zIndex int) (derive.Array2D, error)

	// ReadPoint returns the value of the given variable at the grid
	// position nearest pos, at the given depth and time indices.
	ReadPoint(varID string, pos derive.HorizontalPosition, zIndex, tIndex int) (float64, error)
}

// GridDataset reads 4-D (time, depth, latitude, longitude) variables
// from a NetCDF file. Reads are serialized internally, so a
// GridDataset may be shared between goroutines.
type GridDataset struct {
	f  *cdf.File
	ff *os.File // non-nil when opened with OpenFile

	mu sync.Mutex // guards reads from f

	lats, lons, depths []float64
	times              []time.Time
	calendar           string
	zCRS               *derive.VerticalCRS

	root    *derive.VariableMetadata
	meta    map[string]*derive.VariableMetadata
	vars    []string // raw data variables
	plugins []Plugin
}

// Open creates a GridDataset reading from r. The file must have
// latitude, longitude, depth, and time coordinate variables; every
// variable with those four dimensions becomes a readable variable.
func Open(r cdf.ReaderWriterAt) (*GridDataset, error) {
	f, err := cdf.Open(r)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening NetCDF file: %v", err)
	}
	d := &GridDataset{
		f:    f,
		meta: make(map[string]*derive.VariableMetadata),
	}
	if err := d.readAxes(); err != nil {
		return nil, err
	}
	if err := d.buildMetadata(); err != nil {
		return nil, err
	}
	return d, nil
}

// OpenFile creates a GridDataset reading from the file at path. The
// returned dataset must be closed after use.
func OpenFile(path string) (*GridDataset, error) {
	ff, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("dataset: opening %s: %v", path, err)
	}
	d, err := Open(ff)
	if err != nil {
		ff.Close()
		return nil, fmt.Errorf("dataset: opening %s: %v", path, err)
	}
	d.ff = ff
	return d, nil
}

// Close closes the underlying file if the dataset was created with
// OpenFile.
func (d *GridDataset) Close() error {
	if d.ff != nil {
		return d.ff.Close()
	}
	return nil
}

// readFloatVar reads a whole floating-point variable, converting any
// _FillValue entries to NaN.
func (d *GridDataset) readFloatVar(v string) ([]float64, error) {
	r := d.f.Reader(v, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return nil, fmt.Errorf("dataset: reading variable %s: %v", v, err)
	}
	var data []float64
	switch b := buf.(type) {
	case []float64:
		data = b
	case []float32:
		data = make([]float64, len(b))
		for i, val := range b {
			data[i] = float64(val)
		}
	default:
		return nil, fmt.Errorf("dataset: variable %s is not floating point", v)
	}
	if noData, ok := d.fillValue(v); ok {
		for i, val := range data {
			if val == noData {
				data[i] = math.NaN()
			}
		}
	}
	return data, nil
}

func (d *GridDataset) fillValue(v string) (float64, bool) {
	a := d.f.Header.GetAttribute(v, "_FillValue")
	if a == nil {
		return 0, false
	}
	switch fill := a.(type) {
	case []float32:
		return float64(fill[0]), true
	case []float64:
		return fill[0], true
	}
	return 0, false
}

func (d *GridDataset) stringAttribute(v, name string) string {
	a := d.f.Header.GetAttribute(v, name)
	if a == nil {
		return ""
	}
	if s, ok := a.(string); ok {
		return s
	}
	return ""
}

func (d *GridDataset) readAxes() error {
	var err error
	if d.lats, err = d.readFloatVar(latDim); err != nil {
		return err
	}
	if d.lons, err = d.readFloatVar(lonDim); err != nil {
		return err
	}
	if d.depths, err = d.readFloatVar(depthDim); err != nil {
		return err
	}

	r := d.f.Reader(timeDim, nil, nil)
	buf := r.Zero(-1)
	if _, err := r.Read(buf); err != nil {
		return fmt.Errorf("dataset: reading time axis: %v", err)
	}
	secs, ok := buf.([]int32)
	if !ok {
		return fmt.Errorf("dataset: time axis must hold seconds since 1970-01-01 as integers, but is %T", buf)
	}
	d.times = make([]time.Time, len(secs))
	for i, s := range secs {
		d.times[i] = time.Unix(int64(s), 0).UTC()
	}
	d.calendar = d.stringAttribute(timeDim, "calendar")

	d.zCRS = &derive.VerticalCRS{
		Units:      d.stringAttribute(depthDim, "units"),
		PositiveUp: d.stringAttribute(depthDim, "positive") != "down",
	}
	return nil
}

func (d *GridDataset) buildMetadata() error {
	d.root = derive.NewVariableMetadata("dataset", derive.Parameter{Name: "dataset"}, false)

	hd := derive.NewHorizontalDomain(
		floatsMin(d.lons), floatsMin(d.lats),
		floatsMax(d.lons), floatsMax(d.lats), derive.WGS84())
	vd := &derive.VerticalDomain{
		Low:  floatsMin(d.depths),
		High: floatsMax(d.depths),
		CRS:  d.zCRS,
	}
	td := &derive.TemporalDomain{
		Start:    d.times[0],
		End:      d.times[len(d.times)-1],
		Calendar: d.calendar,
	}

	for _, v := range d.f.Header.Variables() {
		dims := d.f.Header.Dimensions(v)
		if len(dims) != 4 || dims[0] != timeDim || dims[1] != depthDim ||
			dims[2] != latDim || dims[3] != lonDim {
			continue
		}
		m := derive.NewVariableMetadata(v, derive.Parameter{
			Name:        d.stringAttribute(v, "standard_name"),
			Description: d.stringAttribute(v, "long_name"),
			Units:       d.stringAttribute(v, "units"),
		}, true)
		m.Horizontal, m.Vertical, m.Temporal = hd, vd, td
		m.SetParent(d.root)
		d.meta[v] = m
		d.vars = append(d.vars, v)
	}
	sort.Strings(d.vars)
	if len(d.vars) == 0 {
		return fmt.Errorf("dataset: no variables with dimensions (%s, %s, %s, %s)",
			timeDim, depthDim, latDim, lonDim)
	}
	return nil
}

// AddPlugin registers a derived-variable plugin. The plugin's
// metadata transformation runs here, exactly once, restructuring the
// dataset's variable tree; the new nodes it returns become part of
// the dataset and the variables the plugin provides become readable.
func (d *GridDataset) AddPlugin(p Plugin) error {
	uses := p.UsesVariables()
	sources := make([]*derive.VariableMetadata, len(uses))
	for i, id := range uses {
		m, ok := d.meta[id]
		if !ok {
			return fmt.Errorf("dataset: plugin source variable %s is not in this dataset: %w",
				id, derive.ErrUnknownVariable)
		}
		sources[i] = m
	}
	created, err := p.ProcessMetadata(sources...)
	if err != nil {
		return err
	}
	for _, m := range created {
		if m.Parent() == nil {
			m.SetParent(d.root)
		}
		d.meta[m.ID()] = m
	}
	d.plugins = append(d.plugins, p)
	return nil
}

func (d *GridDataset) pluginFor(varID string) Plugin {
	for _, p := range d.plugins {
		if p.Provides(varID) {
			return p
		}
	}
	return nil
}

// VariableIDs returns the IDs of all readable variables: the raw data
// variables plus everything provided by registered plugins.
func (d *GridDataset) VariableIDs() []string {
	ids := append([]string(nil), d.vars...)
	for _, p := range d.plugins {
		ids = append(ids, p.ProvidesVariables()...)
	}
	sort.Strings(ids)
	return ids
}

// Root returns the root of the variable metadata tree.
func (d *GridDataset) Root() *derive.VariableMetadata { return d.root }

// Metadata returns the metadata node for the given variable.
func (d *GridDataset) Metadata(varID string) (*derive.VariableMetadata, error) {
	m, ok := d.meta[varID]
	if !ok {
		return nil, fmt.Errorf("dataset: variable %s: %w", varID, derive.ErrUnknownVariable)
	}
	return m, nil
}

// Axes returns the latitude, longitude, and depth coordinate values
// and the time steps of the dataset grid.
func (d *GridDataset) Axes() (lats, lons, depths []float64, times []time.Time) {
	return append([]float64(nil), d.lats...),
		append([]float64(nil), d.lons...),
		append([]float64(nil), d.depths...),
		append([]time.Time(nil), d.times...)
}

// TimeStep returns the spacing of the time axis.
func (d *GridDataset) TimeStep() *unit.Unit {
	if len(d.times) < 2 {
		return unit.New(0, unit.Second)
	}
	return unit.New(d.times[1].Sub(d.times[0]).Seconds(), unit.Second)
}

func (d *GridDataset) checkIndices(tIndex, zIndex int) error {
	if tIndex < 0 || tIndex >= len(d.times) {
		return fmt.Errorf("dataset: time index %d out of range [0, %d)", tIndex, len(d.times))
	}
	if zIndex < 0 || zIndex >= len(d.depths) {
		return fmt.Errorf("dataset: depth index %d out of range [0, %d)", zIndex, len(d.depths))
	}
	return nil
}

// ReadArray returns the horizontal slice of the given variable at the
// given time and depth indices. Raw variables are read from the file;
// derived variables are lazy views over their sources.
func (d *GridDataset) ReadArray(varID string, tIndex, zIndex int) (derive.Array2D, error) {
	if err := d.checkIndices(tIndex, zIndex); err != nil {
		return nil, err
	}
	if p := d.pluginFor(varID); p != nil {
		uses := p.UsesVariables()
		arrays := make([]derive.Array2D, len(uses))
		for i, src := range uses {
			var err error
			if arrays[i], err = d.ReadArray(src, tIndex, zIndex); err != nil {
				return nil, err
			}
		}
		return p.Array(varID, arrays...)
	}
	if _, ok := d.meta[varID]; !ok {
		return nil, fmt.Errorf("dataset: variable %s: %w", varID, derive.ErrUnknownVariable)
	}

	nlat, nlon := len(d.lats), len(d.lons)
	start := []int{tIndex, zIndex, 0, 0}
	end := []int{tIndex + 1, zIndex + 1, 0, 0}

	d.mu.Lock()
	r := d.f.Reader(varID, start, end)
	buf := r.Zero(nlat * nlon)
	_, err := r.Read(buf)
	d.mu.Unlock()
	if err != nil {
		return nil, fmt.Errorf("dataset: reading variable %s: %v", varID, err)
	}

	data := sparse.ZerosDense(nlat, nlon)
	switch b := buf.(type) {
	case []float32:
		for i, val := range b {
			data.Elements[i] = float64(val)
		}
	case []float64:
		copy(data.Elements, b)
	default:
		return nil, fmt.Errorf("dataset: variable %s is not floating point", varID)
	}
	if noData, ok := d.fillValue(varID); ok {
		for i, val := range data.Elements {
			if val == noData {
				data.Elements[i] = math.NaN()
			}
		}
	}
	return derive.NewDenseArray2D(data)
}

// nearestIndex returns the index of the axis value closest to v.
func nearestIndex(axis []float64, v float64) int {
	best, bestDist := 0, math.Inf(1)
	for i, a := range axis {
		if dist := math.Abs(a - v); dist < bestDist {
			best, bestDist = i, dist
		}
	}
	return best
}

// ReadPoint returns the value of the given variable at the grid
// position nearest pos. Positions must be geographic (longitude X,
// latitude Y).
func (d *GridDataset) ReadPoint(varID string, pos derive.HorizontalPosition, zIndex, tIndex int) (float64, error) {
	if err := d.checkIndices(tIndex, zIndex); err != nil {
		return math.NaN(), err
	}
	if p := d.pluginFor(varID); p != nil {
		uses := p.UsesVariables()
		vals := make([]float64, len(uses))
		for i, src := range uses {
			var err error
			if vals[i], err = d.ReadPoint(src, pos, zIndex, tIndex); err != nil {
				return math.NaN(), err
			}
		}
		return p.Value(varID, vals...)
	}
	arr, err := d.ReadArray(varID, tIndex, zIndex)
	if err != nil {
		return math.NaN(), err
	}
	return arr.Get(nearestIndex(d.lats, pos.Y), nearestIndex(d.lons, pos.X)), nil
}

func floatsMin(s []float64) float64 {
	min := math.Inf(1)
	for _, v := range s {
		if v < min {
			min = v
		}
	}
	return min
}

func floatsMax(s []float64) float64 {
	max := math.Inf(-1)
	for _, v := range s {
		if v > max {
			max = v
		}
	}
	return max
}
