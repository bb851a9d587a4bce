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
	"sync"
	"time"

	"github.com/ctessum/geom"
	"github.com/ctessum/geom/proj"
)

var (
	wgs84     *proj.SR
	wgs84Once sync.Once
)

// WGS84 returns the spatial reference used for the output of
// horizontal domain unions.
func WGS84() *proj.SR {
	wgs84Once.Do(func() {
		var err error
		wgs84, err = proj.Parse("+proj=longlat +datum=WGS84 +no_defs")
		if err != nil {
			panic(err)
		}
	})
	return wgs84
}

// HorizontalDomain is the geographic extent of a variable.
type HorizontalDomain struct {
	// Bounds is the geographic bounding box, where X is longitude and
	// Y is latitude [degrees].
	Bounds *geom.Bounds

	// SR is the native spatial reference of the variable's grid.
	SR *proj.SR
}

// NewHorizontalDomain creates a horizontal domain from the western,
// southern, eastern, and northern bounds [degrees].
func NewHorizontalDomain(west, south, east, north float64, sr *proj.SR) *HorizontalDomain {
	return &HorizontalDomain{
		Bounds: &geom.Bounds{
			Min: geom.Point{X: west, Y: south},
			Max: geom.Point{X: east, Y: north},
		},
		SR: sr,
	}
}

// VerticalCRS describes the reference for a vertical coordinate.
// Two VerticalCRSs are compatible when their values are equal.
type VerticalCRS struct {
	Units      string
	PositiveUp bool
	Pressure   bool
}

// Equal reports whether c and o describe the same reference. Two nil
// references are considered equal.
func (c *VerticalCRS) Equal(o *VerticalCRS) bool {
	if c == nil || o == nil {
		return c == nil && o == nil
	}
	return *c == *o
}

// VerticalDomain is the vertical extent of a variable.
type VerticalDomain struct {
	Low, High float64
	CRS       *VerticalCRS
}

// TemporalDomain is the time extent of a variable. Calendar is the
// CF calendar name the extent is expressed in (e.g. "gregorian").
type TemporalDomain struct {
	Start, End time.Time
	Calendar   string
}

// UnionHorizontalDomains combines the given domains into a single
// domain covering the area where valid values can be found in all of
// them; despite the name, the resulting bounding box is the
// intersection of the input boxes. The result is expressed in WGS84
// regardless of the inputs' native spatial references. If the inputs
// do not overlap the resulting bounds will be crossed (minimum greater
// than maximum); no correction is applied.
func UnionHorizontalDomains(domains ...*HorizontalDomain) (*HorizontalDomain, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("derive: horizontal domain union: %w", ErrNoDomains)
	}
	minLat, maxLat := -90.0, 90.0
	minLon, maxLon := -180.0, 180.0
	for _, d := range domains {
		b := d.Bounds
		if b.Max.X < maxLon {
			maxLon = b.Max.X
		}
		if b.Min.X > minLon {
			minLon = b.Min.X
		}
		if b.Max.Y < maxLat {
			maxLat = b.Max.Y
		}
		if b.Min.Y > minLat {
			minLat = b.Min.Y
		}
	}
	return NewHorizontalDomain(minLon, minLat, maxLon, maxLat, WGS84()), nil
}

// UnionVerticalDomains combines the given domains into a single
// domain covering the extent where valid values can be found in all
// of them (an intersection, as for UnionHorizontalDomains). All
// domains must share an equal vertical CRS.
func UnionVerticalDomains(domains ...*VerticalDomain) (*VerticalDomain, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("derive: vertical domain union: %w", ErrNoDomains)
	}
	crs := domains[0].CRS
	low, high := -math.MaxFloat64, math.MaxFloat64
	for _, d := range domains {
		if !d.CRS.Equal(crs) {
			return nil, fmt.Errorf("derive: vertical domain union: %w", ErrIncompatibleCRS)
		}
		if d.Low > low {
			low = d.Low
		}
		if d.High < high {
			high = d.High
		}
	}
	return &VerticalDomain{Low: low, High: high, CRS: crs}, nil
}

// UnionTemporalDomains combines the given domains into a single
// domain covering the window where valid values can be found in all
// of them (an intersection, as for UnionHorizontalDomains), using the
// first domain's calendar. The window is clamped below at the Unix
// epoch.
func UnionTemporalDomains(domains ...*TemporalDomain) (*TemporalDomain, error) {
	if len(domains) == 0 {
		return nil, fmt.Errorf("derive: temporal domain union: %w", ErrNoDomains)
	}
	calendar := domains[0].Calendar
	start := time.UnixMilli(0).UTC()
	end := time.UnixMilli(math.MaxInt64).UTC()
	for _, d := range domains {
		if d.Start.After(start) {
			start = d.Start
		}
		if d.End.Before(end) {
			end = d.End
		}
	}
	return &TemporalDomain{Start: start, End: end, Calendar: calendar}, nil
}
