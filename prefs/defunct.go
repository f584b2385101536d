// This file is part of Gophercast.
//
// Gophercast is free software: you can redistribute it and/or modify
// it under the terms of the GNU General Public License as published by
// the Free Software Foundation, either version 3 of the License, or
// (at your option) any later version.
//
// Gophercast is distributed in the hope that it will be useful,
// but WITHOUT ANY WARRANTY; without even the implied warranty of
// MERCHANTABILITY or FITNESS FOR A PARTICULAR PURPOSE.  See the
// GNU General Public License for more details.
//
// You should have received a copy of the GNU General Public License
// along with Gophercast.  If not, see <https://www.gnu.org/licenses/>.

package prefs

// preference keys that have been used in the past but are no longer
// meaningful. they are dropped silently on load rather than being carried
// forward in the preferences file forever.
var defunct = []string{}

func isDefunct(key string) bool {
	for _, d := range defunct {
		if d == key {
			return true
		}
	}
	return false
}
