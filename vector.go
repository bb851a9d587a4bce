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
)

// Suffixes of the variables provided by VectorPlugin.
const (
	MagnitudeSuffix = "mag"
	DirectionSuffix = "dir"
)

// VectorPlugin groups the eastward and northward components of a
// vector quantity and provides derived magnitude and direction
// variables. The components are re-parented under a new group node
// together with the derived variables during metadata processing.
type VectorPlugin struct {
	*Plugin
	title string
}

// NewVectorPlugin creates a plugin deriving magnitude and direction
// from the vector component variables eastID and northID. title is a
// human-readable name for the vector quantity (e.g. "sea water
// velocity") used to label the derived variables.
func NewVectorPlugin(eastID, northID, title string) (*VectorPlugin, error) {
	v := &VectorPlugin{title: title}
	p, err := NewPlugin(v, []string{eastID, northID}, []string{MagnitudeSuffix, DirectionSuffix})
	if err != nil {
		return nil, err
	}
	v.Plugin = p
	return v, nil
}

// TransformMetadata groups the two component variables and the
// derived magnitude and direction variables under a new non-scalar
// node, which takes the components' place in the tree. The derived
// variables are valid over the combined domains of the components.
func (v *VectorPlugin) TransformMetadata(sources []*VariableMetadata) ([]*VariableMetadata, error) {
	east, north := sources[0], sources[1]

	hd, err := UnionHorizontalDomains(east.Horizontal, north.Horizontal)
	if err != nil {
		return nil, fmt.Errorf("derive: vector plugin %s: %w", v.title, err)
	}
	var vd *VerticalDomain
	if east.Vertical != nil && north.Vertical != nil {
		vd, err = UnionVerticalDomains(east.Vertical, north.Vertical)
		if err != nil {
			return nil, fmt.Errorf("derive: vector plugin %s: %w", v.title, err)
		}
	}
	var td *TemporalDomain
	if east.Temporal != nil && north.Temporal != nil {
		td, err = UnionTemporalDomains(east.Temporal, north.Temporal)
		if err != nil {
			return nil, fmt.Errorf("derive: vector plugin %s: %w", v.title, err)
		}
	}

	group := NewVariableMetadata(v.FullID("-group"), Parameter{
		Name:        v.title,
		Description: fmt.Sprintf("Vector fields of %s", v.title),
	}, false)
	group.Horizontal, group.Vertical, group.Temporal = hd, vd, td
	group.SetParent(east.Parent())
	east.SetParent(group)
	north.SetParent(group)

	mag := NewVariableMetadata(v.FullID(MagnitudeSuffix), Parameter{
		Name:        fmt.Sprintf("Magnitude of %s", v.title),
		Description: fmt.Sprintf("Magnitude of the vector (%s, %s)", east.ID(), north.ID()),
		Units:       east.Parameter.Units,
	}, true)
	mag.Horizontal, mag.Vertical, mag.Temporal = hd, vd, td
	mag.SetParent(group)

	dir := NewVariableMetadata(v.FullID(DirectionSuffix), Parameter{
		Name:        fmt.Sprintf("Direction of %s", v.title),
		Description: fmt.Sprintf("Direction of the vector (%s, %s), clockwise from north", east.ID(), north.ID()),
		Units:       "degrees",
	}, true)
	dir.Horizontal, dir.Vertical, dir.Temporal = hd, vd, td
	dir.SetParent(group)

	return []*VariableMetadata{group, mag, dir}, nil
}

// DeriveValue computes the magnitude or direction of the vector with
// the given eastward and northward components. Direction is the
// bearing in degrees clockwise from north, in (-180, 180].
func (v *VectorPlugin) DeriveValue(suffix string, sourceValues []float64) float64 {
	east, north := sourceValues[0], sourceValues[1]
	switch suffix {
	case MagnitudeSuffix:
		return math.Hypot(east, north)
	case DirectionSuffix:
		return math.Atan2(east, north) * 180 / math.Pi
	}
	return math.NaN()
}
