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

package sh4_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/test"
)

// a program base in the P1 window, backed by main RAM.
const progBase = 0x8c000000

// poke assembles a program into RAM and points PC at it.
func poke(cpu *sh4.SH4, prog []uint16) {
	for i, inst := range prog {
		cpu.RAM.Write16(uint32(i*2), inst)
	}
	cpu.Reg[sh4.RegPC] = progBase
}

func TestImmediateAndALU(t *testing.T) {
	cpu, _ := newTestCPU()

	poke(cpu, []uint16{
		0xe10a, // MOV #10,R1
		0xe214, // MOV #20,R2
		0x312c, // ADD R2,R1
		0x0009, // NOP
	})

	for i := 0; i < 4; i++ {
		cpu.ExecuteInstruction()
	}

	test.ExpectEquality(t, cpu.Reg[sh4.RegR1], uint32(30))
	test.ExpectEquality(t, cpu.Reg[sh4.RegR2], uint32(20))
	test.ExpectEquality(t, cpu.Reg[sh4.RegPC], uint32(progBase+8))
}

func TestLoadStore(t *testing.T) {
	cpu, _ := newTestCPU()

	poke(cpu, []uint16{
		0xe37f, // MOV #127,R3
		0x2432, // MOV.L R3,@R4
		0x6542, // MOV.L @R4,R5
	})
	cpu.Reg[sh4.RegR4] = progBase + 0x100

	for i := 0; i < 3; i++ {
		cpu.ExecuteInstruction()
	}

	test.ExpectEquality(t, cpu.RAM.Read32(0x100), uint32(127))
	test.ExpectEquality(t, cpu.Reg[sh4.RegR5], uint32(127))
}

// a delayed branch and its slot instruction execute as a pair: the slot
// runs before the branch takes effect, and the result is the same as
// stepping the pair on real hardware
func TestDelaySlot(t *testing.T) {
	cpu, _ := newTestCPU()

	poke(cpu, []uint16{
		0xe101, // MOV #1,R1
		0xa001, // BRA (target is the MOV #4)
		0xe202, // MOV #2,R2   <- delay slot
		0xe303, // MOV #3,R3   <- skipped
		0xe404, // MOV #4,R4
	})

	cpu.ExecuteInstruction() // MOV #1,R1
	cpu.ExecuteInstruction() // BRA
	cpu.ExecuteInstruction() // delay slot; branch applied after

	// the slot instruction has executed and PC is at the branch target
	test.ExpectEquality(t, cpu.Reg[sh4.RegR2], uint32(2))
	test.ExpectEquality(t, cpu.Reg[sh4.RegPC], uint32(progBase+8))

	cpu.ExecuteInstruction()
	test.ExpectEquality(t, cpu.Reg[sh4.RegR3], uint32(0))
	test.ExpectEquality(t, cpu.Reg[sh4.RegR4], uint32(4))
}

// no scheduler event may fire between a branch and its delay slot, even
// when the event falls due mid-pair
func TestDelaySlotAtomicity(t *testing.T) {
	cpu, clk := newTestCPU()

	fired := -1

	var ev sched.Event
	ev.When = 1 // in the past almost immediately
	ev.Handler = func(e *sched.Event) {
		fired = int(cpu.Reg[sh4.RegR4])
	}
	clk.Schedule(&ev)

	poke(cpu, []uint16{
		0xa001, // BRA (target is the final NOP)
		0xe401, // MOV #1,R4   <- delay slot
		0x0009, // NOP
		0x0009, // NOP (branch target)
	})

	// run one timeslice. the event falls due during the branch pair but
	// must not split it: by the time the handler runs, the delay slot
	// has executed
	clk.AttachDispatcher(cpu.Dispatch)
	clk.RunTimeslice()

	test.ExpectEquality(t, fired, 1)
}

func TestBranchAndLink(t *testing.T) {
	cpu, _ := newTestCPU()

	poke(cpu, []uint16{
		0xb002, // BSR +2 (target progBase+8)
		0x0009, // NOP (delay slot)
		0x0009, // NOP
		0x0009, // NOP
		0x000b, // RTS (at progBase+8)
		0x0009, // NOP (delay slot)
	})

	cpu.ExecuteInstruction() // BSR
	cpu.ExecuteInstruction() // slot; branch applied

	test.ExpectEquality(t, cpu.Reg[sh4.RegPC], uint32(progBase+8))
	test.ExpectEquality(t, cpu.Reg[sh4.RegPR], uint32(progBase+4))

	cpu.ExecuteInstruction() // RTS
	cpu.ExecuteInstruction() // slot; return applied

	test.ExpectEquality(t, cpu.Reg[sh4.RegPC], uint32(progBase+4))
}

func TestConditionalBranch(t *testing.T) {
	cpu, _ := newTestCPU()

	poke(cpu, []uint16{
		0xe105, // MOV #5,R1
		0x4110, // DT R1
		0x8bfd, // BF -3 (back to the DT)
		0x0009, // NOP
	})

	// the loop runs until R1 reaches zero
	for i := 0; i < 32; i++ {
		cpu.ExecuteInstruction()
		if cpu.Reg[sh4.RegPC] == progBase+6 {
			break
		}
	}

	test.ExpectEquality(t, cpu.Reg[sh4.RegR1], uint32(0))
	test.ExpectEquality(t, cpu.Reg[sh4.RegPC], uint32(progBase+6))
}

// after any single call to the dispatch function the cycle stamp is at or
// before the target stamp
func TestDispatchHonoursTarget(t *testing.T) {
	cpu, clk := newTestCPU()

	var ev sched.Event
	ev.When = 1000
	ev.Handler = func(e *sched.Event) {}
	clk.Schedule(&ev)

	// an endless loop of NOPs
	poke(cpu, []uint16{
		0x0009,
		0xaffd, // BRA -3 (back to start)
		0x0009,
	})

	clk.AttachDispatcher(cpu.Dispatch)

	for i := 0; i < 100; i++ {
		clk.RunTimeslice()
		if clk.Stamp() > clk.TargetStamp() {
			t.Fatalf("cycle stamp %d overran target %d", clk.Stamp(), clk.TargetStamp())
		}
	}
}

// the firmware detects the video cable by writing a sequence to PDTRA
// and reading back; the read must fold the output bits with the
// composite-NTSC response table or the boot hangs at pc=0x8c00b94e
func TestPDTRACableDetect(t *testing.T) {
	cpu, _ := newTestCPU()
	oc := cpu.OnChip

	const addrPCTRA = 0xff80002c
	const addrPDTRA = 0xff800030

	// all pins inputs
	oc.Write32(addrPCTRA, 0)

	v := oc.Read16(addrPDTRA)

	// cable type bits: composite
	test.ExpectEquality(t, v&0x0300, uint16(0x0300))
	// the constant upper response byte
	test.ExpectEquality(t, v&0x00f0, uint16(0x00e0))

	// output bits read back as last written
	oc.Write32(addrPCTRA, 0x00000001) // pin 0 is an output
	oc.Write16(addrPDTRA, 0x0001)
	v = oc.Read16(addrPDTRA)
	test.ExpectEquality(t, v&0x0001, uint16(0x0001))
}

func TestOnChipWidthFault(t *testing.T) {
	cpu, _ := newTestCPU()

	defer func() {
		if recover() == nil {
			t.Errorf("wrong-width register access did not panic")
		}
	}()

	// TCNT0 is strictly 32 bits wide
	cpu.OnChip.Read8(0xffd8000c)
}

func TestSleepUntilInterrupt(t *testing.T) {
	cpu, _ := newTestCPU()

	poke(cpu, []uint16{
		0x001b, // SLEEP
		0x0009, // NOP
	})

	cpu.ExecuteInstruction()
	test.ExpectSuccess(t, cpu.Asleep())

	// time passes but nothing executes
	pc := cpu.Reg[sh4.RegPC]
	cpu.ExecuteInstruction()
	test.ExpectEquality(t, cpu.Reg[sh4.RegPC], pc)

	// an unmasked interrupt wakes the CPU. the vector table lives in RAM
	cpu.Reg[sh4.RegVBR] = 0x8c004000
	cpu.OnChip.Write16(0xffd00004, 0xf000)
	cpu.Reg[sh4.RegSR] &^= sh4.SRIMask | sh4.SRBLMask
	cpu.SetInterrupt(sh4.IRQTMU0, sh4.ExcpTMU0TUNI0)

	cpu.ExecuteInstruction()
	test.ExpectFailure(t, cpu.Asleep())
	test.ExpectEquality(t, cpu.Reg[sh4.RegINTEVT], uint32(sh4.ExcpTMU0TUNI0))
}
