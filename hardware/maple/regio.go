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

package maple

import (
	"github.com/gophercast/gophercast/hardware/fault"
)

// the maple register block is 32-bit only.

func (m *Maple) badWidth(addr uint32, length int) {
	panic(fault.Record{
		Kind:           fault.Integrity,
		Address:        addr,
		Length:         length,
		ExpectedLength: 4,
		Feature:        "maple registers are 32-bit only",
		Context:        "maple",
	})
}

// Read8 implements the memorymap.DeviceIO interface.
func (m *Maple) Read8(addr uint32) uint8 {
	m.badWidth(addr, 1)
	return 0
}

// Read16 implements the memorymap.DeviceIO interface.
func (m *Maple) Read16(addr uint32) uint16 {
	m.badWidth(addr, 2)
	return 0
}

// Read32 implements the memorymap.DeviceIO interface.
func (m *Maple) Read32(addr uint32) uint32 {
	return m.read(addr)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (m *Maple) ReadFloat(addr uint32) float32 {
	m.badWidth(addr, 4)
	return 0
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (m *Maple) ReadDouble(addr uint32) float64 {
	m.badWidth(addr, 8)
	return 0
}

// Write8 implements the memorymap.DeviceIO interface.
func (m *Maple) Write8(addr uint32, val uint8) {
	m.badWidth(addr, 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (m *Maple) Write16(addr uint32, val uint16) {
	m.badWidth(addr, 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (m *Maple) Write32(addr uint32, val uint32) {
	m.write(addr, val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (m *Maple) WriteFloat(addr uint32, val float32) {
	m.badWidth(addr, 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (m *Maple) WriteDouble(addr uint32, val float64) {
	m.badWidth(addr, 8)
}
