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

// Package addresses enumerates the Dreamcast physical memory map. The
// console has a 29-bit physical address space; the SH4 sees it mirrored
// four times through its P0 to P3 windows, with the remaining top-of-memory
// window (P4) reserved for the CPU's own on-chip registers.
package addresses

// masks for the mirrored areas of the physical address space.
const (
	// the physical address space is 29 bits wide
	Area0Mask = 0x1fffffff

	// area 3 (main RAM) is 16MiB mirrored four times through the 64MiB
	// area 3 window
	Area3Mask = 0x00ffffff

	// AICA wave memory is 2MiB
	AICAWaveMask = 0x001fffff
)

// main RAM (area 3).
const (
	Area3First = 0x0c000000
	Area3Last  = 0x0fffffff
	RAMSize    = 0x01000000 // 16MiB
)

// area 0 devices.
const (
	BIOSFirst  = 0x00000000
	BIOSLast   = 0x001fffff
	BIOSSize   = 0x00200000
	FlashFirst = 0x00200000
	FlashLast  = 0x0021ffff
	FlashSize  = 0x00020000

	SysBlockFirst = 0x005f6800
	SysBlockLast  = 0x005f69ff

	MapleFirst = 0x005f6c00
	MapleLast  = 0x005f6fff

	G1First = 0x005f7000
	G1Last  = 0x005f70ff

	GDROMFirst = 0x005f7080
	GDROMLast  = 0x005f70ff

	G2First = 0x005f7400
	G2Last  = 0x005f74ff

	PVR2First = 0x005f8000
	PVR2Last  = 0x005f9fff

	AICAWaveFirst = 0x00800000
	AICAWaveLast  = 0x009fffff

	AICASysFirst = 0x00700000
	AICASysLast  = 0x00707fff

	AICARTCFirst = 0x00710000
	AICARTCLast  = 0x0071000b
)

// PVR2 core registers sit in area 4.
const (
	PVR2CoreFirst = 0x10000000
	PVR2CoreLast  = 0x107fffff
)

// the SH4 P4 window. the discriminator is the top three address bits all
// being ones.
const (
	SH4P4First = 0xe0000000
	SH4P4Last  = 0xffffffff

	// the SH4 operand-cache RAM area, usable as 8KiB of scratch when the
	// cache is in RAM mode
	SH4OCRAMFirst = 0x7c000000
	SH4OCRAMLast  = 0x7fffffff
)

// well-known load addresses used by the boot process.
const (
	Syscalls   = 0x8c000000
	IPBin      = 0x8c008000
	Bootstrap  = 0x8c008300
	FirstRead  = 0x8c010000
	BootVBR    = 0x8c00f400
	BootStack  = 0x8c00f400
	LenSyscall = 0x8000
)

// the ARM7 sees AICA memory at the bottom of its own bus.
const (
	ARM7WaveFirst = 0x00000000
	ARM7WaveLast  = 0x001fffff
	ARM7SysFirst  = 0x00800000
	ARM7SysLast   = 0x00807fff
)
