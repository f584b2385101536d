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
	"encoding/binary"
	"os"

	"github.com/gophercast/gophercast/logger"
)

// VMU geometry: 256 blocks of 512 bytes, written in four 128-byte phases.
const (
	vmuBlockSize  = 512
	vmuBlockCount = 256
	vmuPhaseSize  = vmuBlockSize / 4
)

// VMU is the visual memory unit: the memory card that slots into a
// controller. Storage is 128KiB of block-addressed flash backed by a host
// file. The LCD and buzzer functions are accepted but not rendered.
type VMU struct {
	data [vmuBlockSize * vmuBlockCount]byte

	path  string
	dirty bool
}

// NewVMU is the preferred method of initialisation for the VMU type. The
// image at path is loaded if it exists; a fresh card is blank.
func NewVMU(path string) *VMU {
	v := &VMU{path: path}

	if d, err := os.ReadFile(path); err == nil {
		if len(d) == len(v.data) {
			copy(v.data[:], d)
			logger.Logf(logger.Allow, "vmu", "loaded image from %s", path)
		} else {
			logger.Logf(logger.Allow, "vmu", "image at %s is the wrong size; starting blank", path)
		}
	}

	return v
}

// TypeName implements the Device interface.
func (v *VMU) TypeName() string {
	return "vmu"
}

// Info implements the Device interface.
func (v *VMU) Info() DevInfo {
	return DevInfo{
		Func:         FuncMemCard | FuncLCD | FuncClock,
		FuncData:     [3]uint32{0x403f7e7e, 0x00100500, 0x00410f00},
		AreaCode:     0xff,
		Dir:          0,
		Name:         "Visual Memory",
		License:      "Produced By or Under License From SEGA ENTERPRISES,LTD.",
		StandbyPower: 0x007c,
		MaxPower:     0x0082,
	}
}

// the location word of a block access: block number in the high half,
// phase and partition below it.
func vmuLoc(loc uint32) (block uint32, phase uint32) {
	block = loc >> 24 & 0xff
	block |= loc >> 8 & 0xff00
	phase = loc >> 8 & 0xff
	return block, phase
}

// BRead implements the BlockReader interface. Reads return a whole block.
func (v *VMU) BRead(loc uint32) []byte {
	block, _ := vmuLoc(loc)
	if block >= vmuBlockCount {
		logger.Logf(logger.Allow, "vmu", "read of nonexistent block %d", block)
		return make([]byte, vmuBlockSize)
	}

	out := make([]byte, vmuBlockSize)
	copy(out, v.data[block*vmuBlockSize:])
	return out
}

// BWrite implements the BlockWriter interface. The first word selects the
// function; storage writes carry one phase (a quarter block) at a time.
func (v *VMU) BWrite(data []uint32) {
	if len(data) < 2 {
		return
	}

	switch data[0] {
	case FuncMemCard:
		if len(data) < 2+vmuPhaseSize/4 {
			logger.Log(logger.Allow, "vmu", "short storage write")
			return
		}

		block, phase := vmuLoc(data[1])
		if block >= vmuBlockCount || phase >= 4 {
			logger.Logf(logger.Allow, "vmu", "write to nonexistent block %d phase %d", block, phase)
			return
		}

		offset := block*vmuBlockSize + phase*vmuPhaseSize
		for i, w := range data[2 : 2+vmuPhaseSize/4] {
			binary.LittleEndian.PutUint32(v.data[offset+uint32(i*4):], w)
		}
		v.dirty = true

	case FuncLCD:
		// the 48x32 mono framebuffer. accepted and dropped
	case FuncClock:
		// buzzer control. accepted and dropped
	}
}

// BSync implements the BlockSyncer interface: the guest has finished a
// write burst, flush to the host file.
func (v *VMU) BSync() {
	if !v.dirty || v.path == "" {
		return
	}
	v.dirty = false

	if err := os.WriteFile(v.path, v.data[:], 0644); err != nil {
		logger.Logf(logger.Allow, "vmu", "save failed: %v", err)
	}
}

// MemInfo implements the MemInfoProvider interface: the card's geometry
// as the MEMINFO command reports it.
func (v *VMU) MemInfo() []byte {
	var info [24]byte

	binary.LittleEndian.PutUint16(info[0:], vmuBlockCount-1) // total size in blocks, minus one
	binary.LittleEndian.PutUint16(info[2:], 0)               // partition
	binary.LittleEndian.PutUint16(info[4:], vmuBlockCount-1) // system block
	binary.LittleEndian.PutUint16(info[6:], vmuBlockCount-2) // FAT block
	binary.LittleEndian.PutUint16(info[8:], 1)               // FAT size
	binary.LittleEndian.PutUint16(info[10:], vmuBlockCount-15) // directory block
	binary.LittleEndian.PutUint16(info[12:], 13)             // directory size
	binary.LittleEndian.PutUint16(info[14:], 0)              // icon
	binary.LittleEndian.PutUint16(info[16:], 200)            // user blocks
	return info[:]
}

// Save flushes the card image regardless of the dirty flag. Called at
// shutdown.
func (v *VMU) Save() {
	v.dirty = true
	v.BSync()
}
