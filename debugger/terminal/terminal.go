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

// Package terminal defines the interface between the debugger and its
// user interface. Implementations live in the plainterm and colorterm
// sub-packages.
package terminal

// Terminal is the debugger's user interface. ReadLine blocks on the
// terminal goroutine; Print may be called from the emulation goroutine.
type Terminal interface {
	// ReadLine returns the next command line from the user
	ReadLine(prompt string) (string, error)

	// Print writes to the terminal
	Print(s string)

	// End restores the host terminal to its original state
	End()
}
