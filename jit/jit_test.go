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

package jit_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/jit"
	"github.com/gophercast/gophercast/test"
)

const progBase = 0x8c000000

func newTestCPU() (*sh4.SH4, *sched.Clock) {
	clk := sched.NewClock("test")
	cpu := sh4.NewSH4(clk, memory.NewRAM())
	return cpu, clk
}

func poke(cpu *sh4.SH4, prog []uint16) {
	for i, inst := range prog {
		cpu.RAM.Write16(uint32(i*2), inst)
	}
	cpu.Reg[sh4.RegPC] = progBase
}

// a translated block executes with the same result as stepping the
// interpreter, and returns the next PC
func TestBlockExecution(t *testing.T) {
	cpu, _ := newTestCPU()
	cache := jit.NewCache(cpu)

	poke(cpu, []uint16{
		0xe10a, // MOV #10,R1
		0xe214, // MOV #20,R2
		0x312c, // ADD R2,R1
		0xafff, // BRA (target progBase+8)
		0x0009, // NOP (delay slot)
	})

	blk := cache.Find(progBase)
	if blk.CycleCount == 0 {
		t.Fatalf("block has no cycle count")
	}

	next := blk.Execute(cpu)

	test.ExpectEquality(t, cpu.Reg[sh4.RegR1], uint32(30))
	test.ExpectEquality(t, next, uint32(progBase+8))
}

// the same address returns the same block until the cache is invalidated
func TestCacheInvalidation(t *testing.T) {
	cpu, _ := newTestCPU()
	cache := jit.NewCache(cpu)

	poke(cpu, []uint16{
		0xe101, // MOV #1,R1
		0x000b, // RTS
		0x0009, // NOP
	})

	blk := cache.Find(progBase)
	test.ExpectEquality(t, cache.Find(progBase), blk)

	// a guest write to CCR flushes the cache at the next GC
	cpu.OnChip.Write32(0xff00001c, 0x808)
	cache.GC()

	if cache.Find(progBase) == blk {
		t.Errorf("stale block survived cache invalidation")
	}
}

// the JIT dispatch honours the target stamp like the interpreter does
func TestDispatchHonoursTarget(t *testing.T) {
	cpu, clk := newTestCPU()
	cache := jit.NewCache(cpu)

	var ev sched.Event
	ev.When = 10000
	ev.Handler = func(e *sched.Event) {}
	clk.Schedule(&ev)

	poke(cpu, []uint16{
		0x0009, // NOP
		0xaffd, // BRA (back to start)
		0x0009, // NOP (delay slot)
	})

	clk.AttachDispatcher(cache.Dispatch)

	for i := 0; i < 10 && clk.Stamp() < 10000; i++ {
		clk.RunTimeslice()
		if clk.Stamp() > clk.TargetStamp() {
			t.Fatalf("cycle stamp %d overran target %d", clk.Stamp(), clk.TargetStamp())
		}
	}
}
