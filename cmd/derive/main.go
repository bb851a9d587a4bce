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

// Command derive is a command-line interface for computing and
// rendering derived variables from gridded geophysical data.
package main

import "github.com/spatialgrid/derive/deriveutil"

func main() {
	deriveutil.Execute()
}
