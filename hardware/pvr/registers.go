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

package pvr

import (
	"math"

	"github.com/gophercast/gophercast/hardware/fault"
)

// registers the firmware reads during boot.
const (
	regID       = 0x0000
	regRevision = 0x0004
	regSPGStatus = 0x0010c
)

// Registers is the PVR2 control register window. Most registers are plain
// storage consumed by the (external) renderer; the few the core itself
// must answer are handled specially.
type Registers struct {
	spg *SPG

	// plain storage for everything the core doesn't answer itself. the
	// window is 8KiB of 32-bit registers
	regs [0x2000 / 4]uint32
}

// NewRegisters is the preferred method of initialisation for the
// Registers type.
func NewRegisters(spg *SPG) *Registers {
	return &Registers{
		spg: spg,
	}
}

func (r *Registers) read(addr uint32) uint32 {
	switch addr {
	case regID:
		return 0x17fd11db
	case regRevision:
		return 0x00000011
	case regSPGStatus:
		status := uint32(r.spg.Line())
		if r.spg.Line() >= vblankInLine {
			status |= 1 << 13
		}
		return status
	}

	return r.regs[addr/4]
}

func (r *Registers) write(addr uint32, val uint32) {
	r.regs[addr/4] = val
}

func (r *Registers) badWidth(addr uint32, length int) {
	panic(fault.Record{
		Kind:           fault.Integrity,
		Address:        addr,
		Length:         length,
		ExpectedLength: 4,
		Feature:        "PVR2 registers are 32-bit only",
		Context:        "pvr",
	})
}

// Read8 implements the memorymap.DeviceIO interface.
func (r *Registers) Read8(addr uint32) uint8 {
	r.badWidth(addr, 1)
	return 0
}

// Read16 implements the memorymap.DeviceIO interface.
func (r *Registers) Read16(addr uint32) uint16 {
	r.badWidth(addr, 2)
	return 0
}

// Read32 implements the memorymap.DeviceIO interface.
func (r *Registers) Read32(addr uint32) uint32 {
	return r.read(addr & 0x1fff)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (r *Registers) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(r.read(addr & 0x1fff))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (r *Registers) ReadDouble(addr uint32) float64 {
	r.badWidth(addr, 8)
	return 0
}

// Write8 implements the memorymap.DeviceIO interface.
func (r *Registers) Write8(addr uint32, val uint8) {
	r.badWidth(addr, 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (r *Registers) Write16(addr uint32, val uint16) {
	r.badWidth(addr, 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (r *Registers) Write32(addr uint32, val uint32) {
	r.write(addr&0x1fff, val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (r *Registers) WriteFloat(addr uint32, val float32) {
	r.write(addr&0x1fff, math.Float32bits(val))
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (r *Registers) WriteDouble(addr uint32, val float64) {
	r.badWidth(addr, 8)
}
