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

// Package memory implements the memory devices that do not belong to any
// one peripheral: main RAM, the boot ROM and the flash. Each satisfies the
// memorymap.DeviceIO interface; the machine construction code in the
// hardware package decides where in the address space they appear.
package memory

import (
	"encoding/binary"
	"math"

	"github.com/gophercast/gophercast/hardware/memory/addresses"
)

// RAM is the console's 16MiB of main memory. Accesses are always little
// endian. Use NewRAM() to initialise.
type RAM struct {
	Data []byte
}

// NewRAM is the preferred method of initialisation for the RAM type.
func NewRAM() *RAM {
	return &RAM{
		Data: make([]byte, addresses.RAMSize),
	}
}

// Snapshot creates a copy of RAM in its current state.
func (ram *RAM) Snapshot() *RAM {
	n := *ram
	n.Data = make([]byte, len(ram.Data))
	copy(n.Data, ram.Data)
	return &n
}

// Reset zeroes the contents of RAM.
func (ram *RAM) Reset() {
	for i := range ram.Data {
		ram.Data[i] = 0
	}
}

// WriteBlock copies data into RAM starting at offset. Used by the boot
// process to preload images and by the DMA controller.
func (ram *RAM) WriteBlock(offset uint32, data []byte) {
	copy(ram.Data[offset:], data)
}

// ReadBlock copies data out of RAM starting at offset.
func (ram *RAM) ReadBlock(offset uint32, data []byte) {
	copy(data, ram.Data[offset:])
}

// Read8 implements the memorymap.DeviceIO interface.
func (ram *RAM) Read8(addr uint32) uint8 {
	return ram.Data[addr]
}

// Read16 implements the memorymap.DeviceIO interface.
func (ram *RAM) Read16(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(ram.Data[addr:])
}

// Read32 implements the memorymap.DeviceIO interface.
func (ram *RAM) Read32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(ram.Data[addr:])
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (ram *RAM) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(ram.Read32(addr))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (ram *RAM) ReadDouble(addr uint32) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(ram.Data[addr:]))
}

// Write8 implements the memorymap.DeviceIO interface.
func (ram *RAM) Write8(addr uint32, val uint8) {
	ram.Data[addr] = val
}

// Write16 implements the memorymap.DeviceIO interface.
func (ram *RAM) Write16(addr uint32, val uint16) {
	binary.LittleEndian.PutUint16(ram.Data[addr:], val)
}

// Write32 implements the memorymap.DeviceIO interface.
func (ram *RAM) Write32(addr uint32, val uint32) {
	binary.LittleEndian.PutUint32(ram.Data[addr:], val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (ram *RAM) WriteFloat(addr uint32, val float32) {
	ram.Write32(addr, math.Float32bits(val))
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (ram *RAM) WriteDouble(addr uint32, val float64) {
	binary.LittleEndian.PutUint64(ram.Data[addr:], math.Float64bits(val))
}
