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

// Package resources contains functions to prepare paths for gophercast
// resources. Resources are the preferences file, the flash image, the
// real-time clock state, VMU images, etc.
//
// All resources live under a single base directory. The base directory is
// relative to the working directory, meaning that a user can keep several
// distinct sets of state by running the emulator from different directories.
package resources

import (
	"os"
	"path/filepath"
)

// the directory that all gophercast resources are kept in.
const baseDir = ".gophercast"

// JoinPath creates a full path of the supplied path elements, prepended with
// the resources base path. The base path is created if it does not exist.
func JoinPath(path ...string) (string, error) {
	p := filepath.Join(baseDir, filepath.Join(path...))

	if err := os.MkdirAll(filepath.Dir(p), 0700); err != nil {
		return "", err
	}

	return p, nil
}
