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

package memory

import (
	"encoding/binary"
	"math"

	"github.com/gophercast/gophercast/logger"
)

// RegisterFile is a plain block of 32-bit registers with no behaviour:
// writes are stored, reads return what was written. It stands in for the
// register windows whose contents matter to the guest but not to the
// emulation (the G1 and G2 bus controllers' wait-state configuration, the
// modem, the expansion port).
type RegisterFile struct {
	// a name for logging
	Label string

	// window size in bytes
	data []byte

	// log the first few unhandled accesses; after that stay quiet
	logBudget int
}

// NewRegisterFile is the preferred method of initialisation for the
// RegisterFile type.
func NewRegisterFile(label string, size int) *RegisterFile {
	return &RegisterFile{
		Label:     label,
		data:      make([]byte, size),
		logBudget: 10,
	}
}

func (rf *RegisterFile) note(addr uint32) {
	if rf.logBudget > 0 {
		rf.logBudget--
		logger.Logf(logger.Allow, rf.Label, "unmodelled register access at offset %03x", addr)
	}
}

func (rf *RegisterFile) offset(addr uint32) uint32 {
	return addr % uint32(len(rf.data))
}

// Read8 implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) Read8(addr uint32) uint8 {
	return rf.data[rf.offset(addr)]
}

// Read16 implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) Read16(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(rf.data[rf.offset(addr):])
}

// Read32 implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) Read32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(rf.data[rf.offset(addr):])
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(rf.Read32(addr))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) ReadDouble(addr uint32) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(rf.data[rf.offset(addr):]))
}

// Write8 implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) Write8(addr uint32, val uint8) {
	rf.note(addr)
	rf.data[rf.offset(addr)] = val
}

// Write16 implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) Write16(addr uint32, val uint16) {
	rf.note(addr)
	binary.LittleEndian.PutUint16(rf.data[rf.offset(addr):], val)
}

// Write32 implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) Write32(addr uint32, val uint32) {
	rf.note(addr)
	binary.LittleEndian.PutUint32(rf.data[rf.offset(addr):], val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) WriteFloat(addr uint32, val float32) {
	rf.Write32(addr, math.Float32bits(val))
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (rf *RegisterFile) WriteDouble(addr uint32, val float64) {
	rf.note(addr)
	binary.LittleEndian.PutUint64(rf.data[rf.offset(addr):], math.Float64bits(val))
}
