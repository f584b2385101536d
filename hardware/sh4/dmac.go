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

package sh4

import (
	"encoding/binary"

	"github.com/gophercast/gophercast/hardware/memory/addresses"
)

// DMA transfer helpers. The peripheral buses (maple in particular) move
// data in and out of guest RAM through the SH4's DMA controller. Transfers
// are performed instantaneously; the caller is responsible for modelling
// any completion latency with a scheduler event.

// DMACTransferToMem copies host bytes into guest memory at addr.
func (sh4 *SH4) DMACTransferToMem(addr uint32, data []byte) {
	if a, ok := sh4.ramAddr(addr); ok {
		sh4.RAM.WriteBlock(a, data)
		return
	}

	for i, b := range data {
		sh4.Mem.Write8(addr+uint32(i), b)
	}
}

// DMACTransferFromMem copies guest memory at addr into host bytes.
func (sh4 *SH4) DMACTransferFromMem(addr uint32, data []byte) {
	if a, ok := sh4.ramAddr(addr); ok {
		sh4.RAM.ReadBlock(a, data)
		return
	}

	for i := range data {
		data[i] = sh4.Mem.Read8(addr + uint32(i))
	}
}

// DMACTransferWordsToMem copies 32-bit words into guest memory.
func (sh4 *SH4) DMACTransferWordsToMem(addr uint32, words []uint32) {
	for i, w := range words {
		a := addr + uint32(i*4)
		if ra, ok := sh4.ramAddr(a); ok {
			sh4.RAM.Write32(ra, w)
		} else {
			sh4.Mem.Write32(a, w)
		}
	}
}

// DMACTransferWordsFromMem copies 32-bit words out of guest memory.
func (sh4 *SH4) DMACTransferWordsFromMem(addr uint32, words []uint32) {
	for i := range words {
		a := addr + uint32(i*4)
		if ra, ok := sh4.ramAddr(a); ok {
			words[i] = sh4.RAM.Read32(ra)
		} else {
			words[i] = sh4.Mem.Read32(a)
		}
	}
}

// LoadImage copies a host file image into guest RAM at a physical address.
// Used by the boot process for IP.BIN, 1ST_READ.BIN and the syscall image.
func (sh4 *SH4) LoadImage(addr uint32, data []byte) {
	sh4.RAM.WriteBlock(addr&addresses.Area3Mask, data)
}

// PeekWord reads a 32-bit word from guest memory without side effects
// (beyond what the memory map does). Used by the debugger.
func (sh4 *SH4) PeekWord(addr uint32) uint32 {
	if a, ok := sh4.ramAddr(addr); ok {
		var b [4]byte
		sh4.RAM.ReadBlock(a, b[:])
		return binary.LittleEndian.Uint32(b[:])
	}
	return sh4.Mem.Read32(addr)
}
