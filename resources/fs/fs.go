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

// Package fs is a thin shim over the file-access functions in the os
// package. It exists so that every part of the emulation that touches host
// files does so through one narrow gate.
package fs

import "os"

// File is an abstraction of os.File.
type File interface {
	Close() error
	Read(p []byte) (n int, err error)
	Write(p []byte) (n int, err error)
}

// Create is an abstraction of os.Create.
func Create(name string) (File, error) {
	return os.Create(name)
}

// Open is an abstraction of os.Open.
func Open(name string) (File, error) {
	return os.Open(name)
}
