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

// Package sysblock implements the Holly system block: the interrupt
// controller that funnels every peripheral interrupt into the SH4's
// external interrupt pins, and the block of system registers at 0x005f6800.
package sysblock

import (
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/logger"
)

// Normal interrupt bits in ISTNRM.
const (
	IntVBlankIn uint32 = 1 << iota
	IntVBlankOut
	IntHBlank
	IntOpaqueComplete
	IntOpaqueModComplete
	IntTransComplete
	IntTransModComplete
	IntMapleDMAComplete = 1 << 12
	IntGDROMDMAComplete = 1 << 14
	IntAICADMAComplete  = 1 << 15
	IntPVRDMAComplete   = 1 << 11
	IntPunchThruComplete = 1 << 21
)

// register offsets into the system block window.
const (
	regISTNRM = 0x100
	regISTEXT = 0x104
	regISTERR = 0x108
	regIML2NRM = 0x110
	regIML2EXT = 0x114
	regIML2ERR = 0x118
	regIML4NRM = 0x120
	regIML4EXT = 0x124
	regIML4ERR = 0x128
	regIML6NRM = 0x130
	regIML6EXT = 0x134
	regIML6ERR = 0x138
)

// SysBlock is the Holly system block and interrupt controller. Use
// NewSysBlock() to initialise.
type SysBlock struct {
	cpu *sh4.SH4

	// interrupt status
	istNrm uint32
	istExt uint32
	istErr uint32

	// per-level interrupt enable masks. index 0 = IRL2, 1 = IRL4, 2 = IRL6
	imlNrm [3]uint32
	imlExt [3]uint32
	imlErr [3]uint32

	// everything else in the window that the emulation doesn't interpret
	misc [0x200 / 4]uint32
}

// NewSysBlock is the preferred method of initialisation for the SysBlock
// type.
func NewSysBlock(cpu *sh4.SH4) *SysBlock {
	return &SysBlock{
		cpu: cpu,
	}
}

// RaiseNormal asserts a bit in the normal interrupt status register and
// updates the SH4 interrupt pins.
func (sb *SysBlock) RaiseNormal(bit uint32) {
	sb.istNrm |= bit
	sb.refresh()
}

// RaiseExternal asserts a bit in the external interrupt status register.
func (sb *SysBlock) RaiseExternal(bit uint32) {
	sb.istExt |= bit
	sb.refresh()
}

// refresh recomputes the level encoded on the SH4's IRL pins from the
// status and mask registers. Holly signals three priority levels; the
// highest asserted one wins. Active low: 0xf means idle.
func (sb *SysBlock) refresh() {
	encoded := uint32(0xf)

	for i, level := range [3]uint32{2, 4, 6} {
		if sb.istNrm&sb.imlNrm[i] != 0 ||
			sb.istExt&sb.imlExt[i] != 0 ||
			sb.istErr&sb.imlErr[i] != 0 {
			encoded = 15 - level
		}
	}

	sb.cpu.SetIRL(encoded)
}

func (sb *SysBlock) read(addr uint32) uint32 {
	switch addr {
	case regISTNRM:
		return sb.istNrm
	case regISTEXT:
		return sb.istExt
	case regISTERR:
		return sb.istErr
	case regIML2NRM:
		return sb.imlNrm[0]
	case regIML2EXT:
		return sb.imlExt[0]
	case regIML2ERR:
		return sb.imlErr[0]
	case regIML4NRM:
		return sb.imlNrm[1]
	case regIML4EXT:
		return sb.imlExt[1]
	case regIML4ERR:
		return sb.imlErr[1]
	case regIML6NRM:
		return sb.imlNrm[2]
	case regIML6EXT:
		return sb.imlExt[2]
	case regIML6ERR:
		return sb.imlErr[2]
	}

	return sb.misc[addr/4]
}

func (sb *SysBlock) write(addr uint32, val uint32) {
	switch addr {
	case regISTNRM:
		// write-one-to-clear
		sb.istNrm &^= val
	case regISTEXT:
		// external interrupts clear at the source, not here
	case regISTERR:
		sb.istErr &^= val
	case regIML2NRM:
		sb.imlNrm[0] = val
	case regIML2EXT:
		sb.imlExt[0] = val
	case regIML2ERR:
		sb.imlErr[0] = val
	case regIML4NRM:
		sb.imlNrm[1] = val
	case regIML4EXT:
		sb.imlExt[1] = val
	case regIML4ERR:
		sb.imlErr[1] = val
	case regIML6NRM:
		sb.imlNrm[2] = val
	case regIML6EXT:
		sb.imlExt[2] = val
	case regIML6ERR:
		sb.imlErr[2] = val
	default:
		logger.Logf(logger.Allow, "sysblock", "unhandled register write %03x <- %08x", addr, val)
		sb.misc[addr/4] = val
		return
	}

	sb.refresh()
}

// Read8 implements the memorymap.DeviceIO interface.
func (sb *SysBlock) Read8(addr uint32) uint8 {
	sb.badWidth(addr, 1)
	return 0
}

// Read16 implements the memorymap.DeviceIO interface.
func (sb *SysBlock) Read16(addr uint32) uint16 {
	sb.badWidth(addr, 2)
	return 0
}

// Read32 implements the memorymap.DeviceIO interface.
func (sb *SysBlock) Read32(addr uint32) uint32 {
	return sb.read(addr & 0x1ff)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (sb *SysBlock) ReadFloat(addr uint32) float32 {
	sb.badWidth(addr, 4)
	return 0
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (sb *SysBlock) ReadDouble(addr uint32) float64 {
	sb.badWidth(addr, 8)
	return 0
}

// Write8 implements the memorymap.DeviceIO interface.
func (sb *SysBlock) Write8(addr uint32, val uint8) {
	sb.badWidth(addr, 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (sb *SysBlock) Write16(addr uint32, val uint16) {
	sb.badWidth(addr, 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (sb *SysBlock) Write32(addr uint32, val uint32) {
	sb.write(addr&0x1ff, val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (sb *SysBlock) WriteFloat(addr uint32, val float32) {
	sb.badWidth(addr, 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (sb *SysBlock) WriteDouble(addr uint32, val float64) {
	sb.badWidth(addr, 8)
}

func (sb *SysBlock) badWidth(addr uint32, length int) {
	panic(fault.Record{
		Kind:           fault.Integrity,
		Address:        addr,
		Length:         length,
		ExpectedLength: 4,
		Feature:        "system block registers are 32-bit only",
		Context:        "sysblock",
	})
}
