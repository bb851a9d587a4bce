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

// Parameter describes what a variable measures.
type Parameter struct {
	Name        string
	Description string
	Units       string
}

// VariableMetadata describes a variable's domains and its position in
// a tree of variables. Nodes are owned by the dataset that created
// them; plugins may re-parent existing nodes and create new ones
// during metadata processing, but never copy or discard them.
type VariableMetadata struct {
	id string

	Parameter Parameter

	// The domains over which the variable is valid. Any of these may
	// be nil for variables without the corresponding axis.
	Horizontal *HorizontalDomain
	Vertical   *VerticalDomain
	Temporal   *TemporalDomain

	scalar   bool
	parent   *VariableMetadata
	children []*VariableMetadata
}

// NewVariableMetadata creates a metadata node. Non-scalar nodes group
// other variables and have no data of their own.
func NewVariableMetadata(id string, param Parameter, scalar bool) *VariableMetadata {
	return &VariableMetadata{id: id, Parameter: param, scalar: scalar}
}

// ID returns the identifier of the variable this node describes.
func (m *VariableMetadata) ID() string { return m.id }

// Scalar reports whether this node describes a variable with data, as
// opposed to a grouping of other variables.
func (m *VariableMetadata) Scalar() bool { return m.scalar }

// Parent returns the node this node is grouped under, or nil for a
// root node.
func (m *VariableMetadata) Parent() *VariableMetadata { return m.parent }

// Children returns the nodes grouped under this node.
func (m *VariableMetadata) Children() []*VariableMetadata {
	return append([]*VariableMetadata(nil), m.children...)
}

// SetParent moves this node (and implicitly the subtree below it)
// under the given parent, detaching it from its current parent first.
// A nil parent makes the node a root.
func (m *VariableMetadata) SetParent(parent *VariableMetadata) {
	if m.parent != nil {
		siblings := m.parent.children
		for i, c := range siblings {
			if c == m {
				m.parent.children = append(siblings[:i], siblings[i+1:]...)
				break
			}
		}
	}
	m.parent = parent
	if parent != nil {
		parent.children = append(parent.children, m)
	}
}
