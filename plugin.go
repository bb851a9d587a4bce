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

// Package derive generates new variables on the fly from existing
// ones without materializing the derived data.
//
// A plugin is constructed from a list of source variable IDs it uses
// and a list of suffixes it provides. The full IDs of the variables
// the plugin provides are obtained by combining the source IDs into a
// single name and appending each suffix. A concrete plugin supplies
// the behavior through the PluginImpl interface: a one-time metadata
// transformation and a pure value function. See VectorPlugin for an
// example, which groups two vector components and provides magnitude
// and direction variables.
package derive

import (
	"fmt"
	"math"
	"strings"
	"sync"
)

// PluginImpl is implemented by concrete derived-variable plugins.
type PluginImpl interface {
	// TransformMetadata modifies the variable metadata tree to
	// reflect the changes the plugin implements and returns any new
	// nodes it added. The sources are supplied in the order they were
	// given to NewPlugin. Implementations may restructure the tree by
	// calling SetParent on the source nodes, and must assign IDs to
	// any nodes they create using Plugin.FullID. The engine
	// guarantees this is called at most once.
	TransformMetadata(sources []*VariableMetadata) ([]*VariableMetadata, error)

	// DeriveValue returns the value of the variable with the given
	// suffix, computed from the source values supplied in the order
	// they were given to NewPlugin. The suffix is one of the suffixes
	// the plugin was constructed with, not a full variable ID.
	// Implementations must be pure: deterministic, side-effect-free
	// functions of their arguments.
	DeriveValue(suffix string, sourceValues []float64) float64
}

// IDCombiner may optionally be implemented by a PluginImpl that
// requires a specific format for the combined variable name. The
// default combination concatenates the source IDs in order. The
// result is computed once at construction and cached for the life of
// the plugin.
type IDCombiner interface {
	CombineIDs(ids []string) string
}

// Plugin derives new variables from a fixed, ordered set of source
// variables. All fields except the one-shot metadata flag are
// immutable after construction, so Value and Array may be called
// concurrently.
type Plugin struct {
	impl     PluginImpl
	uses     []string
	provides []string

	// combinedName prefixes every provided variable ID.
	combinedName string

	mu                sync.Mutex
	metadataProcessed bool
}

// NewPlugin creates a plugin deriving variables with the given
// suffixes from the given source variables. The order of
// usesVariables is significant: metadata, values, and arrays are
// supplied to the hooks in that order.
func NewPlugin(impl PluginImpl, usesVariables, providesSuffixes []string) (*Plugin, error) {
	if len(usesVariables) == 0 {
		return nil, fmt.Errorf("derive: %w", ErrNoSources)
	}
	p := &Plugin{
		impl: impl,
		uses: append([]string(nil), usesVariables...),
	}
	if c, ok := impl.(IDCombiner); ok {
		p.combinedName = c.CombineIDs(p.UsesVariables())
	} else {
		p.combinedName = strings.Join(p.uses, "")
	}
	p.provides = make([]string, len(providesSuffixes))
	for i, suffix := range providesSuffixes {
		p.provides[i] = p.FullID(suffix)
	}
	return p, nil
}

// UsesVariables returns the IDs of the variables this plugin uses, in
// the order it needs them.
func (p *Plugin) UsesVariables() []string {
	return append([]string(nil), p.uses...)
}

// ProvidesVariables returns the IDs of the variables this plugin
// provides.
func (p *Plugin) ProvidesVariables() []string {
	return append([]string(nil), p.provides...)
}

// Provides reports whether varID is one of the variables this plugin
// provides.
func (p *Plugin) Provides(varID string) bool {
	for _, id := range p.provides {
		if id == varID {
			return true
		}
	}
	return false
}

// FullID returns the ID formed from the combined name of all source
// variables and the given suffix. Concrete plugins should use it to
// name any metadata nodes they create in TransformMetadata.
func (p *Plugin) FullID(suffix string) string {
	return p.combinedName + suffix
}

func (p *Plugin) arityErr(kind string, got int) error {
	return fmt.Errorf("derive: plugin %s needs %d %s sources but %d were supplied: %w",
		p.combinedName, len(p.uses), kind, got, ErrArityMismatch)
}

// ProcessMetadata runs the plugin's metadata transformation on the
// ordered source metadata and returns the newly created nodes, which
// the caller is responsible for inserting into its variable tree.
// The transformation runs at most once per plugin: repeating the tree
// surgery could duplicate nodes or corrupt parent links, so any call
// after the first successful one returns ErrAlreadyProcessed. When
// called concurrently, exactly one caller runs the transformation and
// the others fail.
func (p *Plugin) ProcessMetadata(sources ...*VariableMetadata) ([]*VariableMetadata, error) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if p.metadataProcessed {
		return nil, fmt.Errorf("derive: plugin %s: %w", p.combinedName, ErrAlreadyProcessed)
	}
	if len(sources) != len(p.uses) {
		return nil, p.arityErr("metadata", len(sources))
	}
	created, err := p.impl.TransformMetadata(sources)
	if err != nil {
		return nil, err
	}
	p.metadataProcessed = true
	return created, nil
}

// Value derives the value of the variable varID from the ordered
// source values. NaN source values represent missing data; only the
// first two source values are checked for missing data here,
// regardless of how many sources the plugin declares, so plugins
// where further sources are missing-significant must check those in
// DeriveValue.
func (p *Plugin) Value(varID string, sourceValues ...float64) (float64, error) {
	if !p.Provides(varID) {
		return math.NaN(), fmt.Errorf("derive: plugin %s does not provide variable %s: %w",
			p.combinedName, varID, ErrUnknownVariable)
	}
	if len(sourceValues) != len(p.uses) {
		return math.NaN(), p.arityErr("value", len(sourceValues))
	}
	for i := 0; i < 2 && i < len(sourceValues); i++ {
		if math.IsNaN(sourceValues[i]) {
			return math.NaN(), nil
		}
	}
	return p.impl.DeriveValue(strings.TrimPrefix(varID, p.combinedName), sourceValues), nil
}

// Array returns a read-only view deriving the variable varID from the
// ordered source arrays. The view has the shape of the first source
// array, recomputes each value on access, and propagates missing data
// from every source per position. It holds references to the source
// arrays, which remain owned by the caller.
func (p *Plugin) Array(varID string, sources ...Array2D) (Array2D, error) {
	if len(sources) != len(p.uses) {
		return nil, p.arityErr("data", len(sources))
	}
	rows, cols := sources[0].Dims()
	return &derivedArray{
		impl:    p.impl,
		suffix:  strings.TrimPrefix(varID, p.combinedName),
		sources: append([]Array2D(nil), sources...),
		rows:    rows,
		cols:    cols,
	}, nil
}
