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

import "errors"

// These errors report contract violations by callers of the plugin
// engine and the domain-union helpers. They are returned wrapped with
// additional context and should be tested for with errors.Is.
var (
	// ErrNoSources is returned when a plugin is constructed with an
	// empty list of source variables.
	ErrNoSources = errors.New("plugin must use at least one source variable")

	// ErrArityMismatch is returned when the number of supplied
	// metadata objects, values, or arrays does not match the number of
	// source variables the plugin was constructed with.
	ErrArityMismatch = errors.New("wrong number of sources supplied")

	// ErrAlreadyProcessed is returned when ProcessMetadata is called
	// more than once on the same plugin.
	ErrAlreadyProcessed = errors.New("metadata has already been processed for this plugin")

	// ErrUnknownVariable is returned when a value is requested for a
	// variable ID the plugin does not provide.
	ErrUnknownVariable = errors.New("variable is not provided by this plugin")

	// ErrImmutableArray is returned by Set on derived arrays.
	ErrImmutableArray = errors.New("array is immutable")

	// ErrNoDomains is returned when a domain union is requested for
	// zero domains.
	ErrNoDomains = errors.New("must provide at least one domain to get a union")

	// ErrIncompatibleCRS is returned when vertical domains with
	// differing coordinate reference systems are combined.
	ErrIncompatibleCRS = errors.New("vertical domain CRSs must match to calculate their union")
)
