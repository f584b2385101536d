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

package jit

import (
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/logger"
)

// the cache is cleared outright once it holds this many blocks. crude,
// but it bounds memory without the bookkeeping of an LRU, and a full
// re-translation pass is cheap
const cacheMaxBlocks = 32768

// Cache is the translated-block cache, keyed on guest PC. Use NewCache()
// to initialise.
type Cache struct {
	cpu *sh4.SH4

	blocks map[uint32]*Block

	// invalidation is deferred to the next GC so that a guest write
	// to CCR from inside a translated block doesn't pull the rug out
	invalidate bool
}

// NewCache is the preferred method of initialisation for the Cache type.
// The cache registers itself for invalidation on guest cache flushes.
func NewCache(cpu *sh4.SH4) *Cache {
	c := &Cache{
		cpu:    cpu,
		blocks: make(map[uint32]*Block),
	}

	cpu.OnChip.InvalidateCodeCache = c.Invalidate

	return c
}

// Invalidate marks every translated block stale. Called when the guest
// flushes the instruction cache (a CCR write) or loads new code.
func (c *Cache) Invalidate() {
	c.invalidate = true
}

// GC runs between timeslices: it applies any deferred invalidation and
// keeps the cache within bounds.
func (c *Cache) GC() {
	if c.invalidate {
		c.invalidate = false
		c.blocks = make(map[uint32]*Block)
		logger.Log(logger.Allow, "jit", "code cache invalidated")
		return
	}

	if len(c.blocks) > cacheMaxBlocks {
		c.blocks = make(map[uint32]*Block)
		logger.Logf(logger.Allow, "jit", "code cache flushed at %d blocks", cacheMaxBlocks)
	}
}

// Find returns the block starting at addr, translating it if necessary.
func (c *Cache) Find(addr uint32) *Block {
	blk, ok := c.blocks[addr]
	if !ok {
		blk = &Block{}
		c.blocks[addr] = blk
	}

	if !blk.Valid {
		compileBlock(c.cpu, blk, addr)
	}

	return blk
}

// Dispatch is the JIT form of the sched.DispatchFunc contract: the same
// run-until-target loop as the interpreter but advancing a block at a
// time using each block's pre-computed cycle count.
func (c *Cache) Dispatch() bool {
	clk := c.cpu.Clk
	tgt := clk.TargetStamp()
	pc := c.cpu.Reg[sh4.RegPC]

	for tgt > clk.Stamp() {
		blk := c.Find(pc)
		pc = blk.Execute(c.cpu)

		clk.SetStamp(clk.Stamp() + sched.CycleStamp(blk.CycleCount*clocks.SH4Scale))
		tgt = clk.TargetStamp()
	}

	// blocks are coarser than instructions so the stamp can overshoot;
	// clamp it the same way the interpreter does
	if clk.Stamp() > tgt {
		clk.SetStamp(tgt)
	}

	return false
}
