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

// Package jit is the block-translation layer for the SH4. "JIT" is a
// little generous: the portable back-end pre-decodes basic blocks into
// opcode lists and replays them, which removes the per-instruction fetch
// and table lookup without generating native code. The contract is what
// matters: given a PC, the cache returns a block with a pre-computed
// cycle count and an entry function that runs it and returns the next PC.
// A native code generating back-end slots in behind the same contract.
package jit

import (
	"github.com/gophercast/gophercast/hardware/sh4"
)

// Block is one translated basic block: the instructions from the block's
// start address up to and including its first branch and delay slot.
type Block struct {
	// guest address of the first instruction
	Addr uint32

	insts []uint16
	ops   []*sh4.Opcode

	// CycleCount is the issue cost of the whole block, computed at
	// translation time
	CycleCount uint

	// Valid is set once the block has been translated. invalidating the
	// cache discards blocks rather than clearing this flag; a discarded
	// address is re-translated before its next execution
	Valid bool
}

// the longest block the translator will build. blocks almost always end
// at a branch long before this
const maxBlockLen = 64

// compileBlock translates the basic block starting at addr.
func compileBlock(cpu *sh4.SH4, blk *Block, addr uint32) {
	blk.Addr = addr
	blk.insts = blk.insts[:0]
	blk.ops = blk.ops[:0]
	blk.CycleCount = 0

	pc := addr
	branchSeen := false

	for len(blk.insts) < maxBlockLen {
		inst := cpu.PeekInstruction(pc)
		op := sh4.Decode(inst)

		blk.insts = append(blk.insts, inst)
		blk.ops = append(blk.ops, op)
		blk.CycleCount += op.Issue
		pc += 2

		if branchSeen {
			// that was the delay slot; the block ends here
			break
		}
		if op.IsBranch {
			branchSeen = true
		}
	}

	blk.Valid = true
}

// Execute runs the block and returns the next PC. Interrupts are only
// accepted at the block boundary, which bounds their latency at one basic
// block.
func (blk *Block) Execute(cpu *sh4.SH4) uint32 {
	if cpu.Interruptible() {
		cpu.ServiceInterrupts()
	}

	if cpu.Asleep() {
		return blk.Addr
	}

	if cpu.Reg[sh4.RegPC] != blk.Addr {
		// an interrupt redirected us; the dispatch loop will look up the
		// right block
		return cpu.Reg[sh4.RegPC]
	}

	for i := range blk.insts {
		cpu.ExecuteOp(blk.insts[i], blk.ops[i])
	}

	return cpu.Reg[sh4.RegPC]
}
