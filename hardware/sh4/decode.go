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
	"math"
	"sync"
)

// group is the pipeline group of an instruction, which decides whether it
// can co-issue with its neighbour. See countCycles().
type group int

const (
	groupNone group = iota
	groupMT         // register-register transfers; pair with anything
	groupEX         // arithmetic/logic on the EX pipe
	groupBR         // branches
	groupLS         // loads, stores, and LS-pipe register moves
	groupFE         // floating point arithmetic
	groupCO         // co-processor/system; never pairs
)

// Opcode describes one instruction in the decode table.
type Opcode struct {
	// assembly mnemonic, with operand placeholders in the style of the
	// Hitachi manual
	Mnemonic string

	// a 16-bit instruction word matches this opcode when
	// inst&Mask == Pattern
	Mask    uint16
	Pattern uint16

	// semantic function
	Exec func(sh4 *SH4, inst uint16)

	// pipeline group and issue cost in cycles
	Group group
	Issue uint

	// IsBranch marks instructions that are illegal in a delay slot
	IsBranch bool
}

// the decode table maps every possible instruction word to its opcode
// definition. 64K pointers (512KiB on a 64-bit host); built once, shared by every CPU instance.
var decodeTable [65536]*Opcode

var buildDecodeOnce sync.Once

// opIllegal is the catch-all for instruction words that match nothing in
// the opcode list. A guest-visible exception, not an emulator fault:
// real hardware raises general-illegal for these too.
var opIllegal = Opcode{
	Mnemonic: "(illegal)",
	Exec: func(sh4 *SH4, inst uint16) {
		sh4.SetException(ExcpGeneralIllegal)
	},
	Group: groupCO,
	Issue: 1,
}

func buildDecodeTable() {
	buildDecodeOnce.Do(func() {
		for i := range decodeTable {
			decodeTable[i] = &opIllegal
			for j := range opcodes {
				op := &opcodes[j]
				if uint16(i)&op.Mask == op.Pattern {
					decodeTable[i] = op
					break
				}
			}
		}
	})
}

// Decode returns the opcode definition for an instruction word.
func Decode(inst uint16) *Opcode {
	return decodeTable[inst]
}

// field accessors for the register and immediate fields of an instruction
// word.

func rn(inst uint16) RegIdx {
	return RegIdx((inst >> 8) & 0xf)
}

func rm(inst uint16) RegIdx {
	return RegIdx((inst >> 4) & 0xf)
}

func imm8(inst uint16) uint32 {
	// sign extended
	return uint32(int32(int8(inst & 0xff)))
}

func uimm8(inst uint16) uint32 {
	return uint32(inst & 0xff)
}

func disp4(inst uint16) uint32 {
	return uint32(inst & 0xf)
}

func disp8(inst uint16) uint32 {
	return uint32(inst & 0xff)
}

func disp12(inst uint16) uint32 {
	// sign extended
	d := uint32(inst & 0xfff)
	if d&0x800 != 0 {
		d |= 0xfffff000
	}
	return d
}

// fn and fm are the FPU register fields.

func fn(inst uint16) int {
	return int((inst >> 8) & 0xf)
}

func fm(inst uint16) int {
	return int((inst >> 4) & 0xf)
}

// bit-pattern moves between the integer and FPU register files.

func floatBits(v float32) uint32 {
	return math.Float32bits(v)
}

func floatFromBits(v uint32) float32 {
	return math.Float32frombits(v)
}
