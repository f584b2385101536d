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

// Package arm7 implements the ARM7DI housed in the AICA sound system. The
// SH4 uploads a program into AICA wave memory and releases the ARM7 from
// reset by writing the AICA nReset register; from then on the ARM7 runs in
// its own clock domain at 45MHz.
//
// One oddity of the ARM7 compared to saner CPUs is that the three-stage
// pipeline is not hidden from software: R15 reads as the address of the
// instruction being fetched, eight bytes ahead of the one being executed.
// The emulation buffers two fetched instructions so that the visible
// behaviour matches.
package arm7

import (
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/memory/memorymap"
	"github.com/gophercast/gophercast/hardware/sched"
)

// register indices. the banked copies live after R15/CPSR.
type regIdx int

const (
	regR0 regIdx = iota
	regR1
	regR2
	regR3
	regR4
	regR5
	regR6
	regR7
	regR8
	regR9
	regR10
	regR11
	regR12
	regR13
	regR14

	// R15 is the program counter
	regR15

	// banked registers. FIQ mode has its own R8-R14; the other exception
	// modes bank R13 and R14 only
	regR8FIQ
	regR9FIQ
	regR10FIQ
	regR11FIQ
	regR12FIQ
	regR13FIQ
	regR14FIQ
	regR13SVC
	regR14SVC
	regR13ABT
	regR14ABT
	regR13IRQ
	regR14IRQ
	regR13UND
	regR14UND

	regCPSR

	regSPSRFIQ
	regSPSRSVC
	regSPSRABT
	regSPSRIRQ
	regSPSRUND

	regCount
)

// bits in CPSR.
const (
	cpsrN = 1 << 31
	cpsrZ = 1 << 30
	cpsrC = 1 << 29
	cpsrV = 1 << 28
	cpsrI = 1 << 7
	cpsrF = 1 << 6

	cpsrModeMask = 0x1f
)

// processor modes.
const (
	ModeUser = 0x10
	ModeFIQ  = 0x11
	ModeIRQ  = 0x12
	ModeSVC  = 0x13
	ModeABT  = 0x17
	ModeUND  = 0x1b
)

// Exception is a pending ARM7 exception, expressed as a bit set so that
// more than one can be outstanding.
type Exception int

// List of exceptions, in priority order.
const (
	ExcpNone      Exception = 0
	ExcpReset     Exception = 1
	ExcpDataAbort Exception = 2
	ExcpFIQ       Exception = 4
	ExcpIRQ       Exception = 8
	ExcpPrefAbort Exception = 16
	ExcpSWI       Exception = 32
)

// ARM7 is the AICA's CPU. Use NewARM7() to initialise.
type ARM7 struct {
	Reg [regCount]uint32

	Clk *sched.Clock
	Mem *memorymap.Map

	// the SH4 holds the ARM7 in reset through an AICA register. while held
	// in reset the ARM7's clock still advances (devices in its time domain
	// must not fall behind) but no instructions execute
	enabled bool

	excp Exception

	// the visible pipeline. pipeline[0] holds the instruction at R15-4
	// (decode stage); pipeline[1] is the slot a newly fetched word lands
	// in before it moves to pipeline[0]. the instruction at R15-8 (execute
	// stage) is the one fetch() returns. refilled after every branch
	pipeline    [2]uint32
	pipelineLen int

	// FetchCount is the total number of instructions executed
	FetchCount uint64
}

// NewARM7 is the preferred method of initialisation for the ARM7 type.
func NewARM7(clk *sched.Clock) *ARM7 {
	arm := &ARM7{
		Clk: clk,
	}
	arm.Reset()
	return arm
}

// SetMemMap attaches the memory map that routes the CPU's loads and
// stores. The ARM7 sees AICA wave memory at address zero.
func (arm *ARM7) SetMemMap(mem *memorymap.Map) {
	arm.Mem = mem
}

// Reset puts the CPU into its power-on state: supervisor mode, interrupts
// disabled, PC at the reset vector. The CPU stays halted until the SH4
// releases it with SetEnabled(true).
func (arm *ARM7) Reset() {
	for i := range arm.Reg {
		arm.Reg[i] = 0
	}
	arm.Reg[regCPSR] = ModeSVC | cpsrI | cpsrF
	arm.enabled = false
	arm.excp = ExcpNone
	arm.pipelineLen = 0
}

// Enabled returns true if the ARM7 is out of reset.
func (arm *ARM7) Enabled() bool {
	return arm.enabled
}

// SetEnabled releases the CPU from reset or puts it back. Going into reset
// preserves nothing; coming out starts execution at address zero.
//
// The real chip keeps incrementing PC while held in reset, which software
// could in principle observe through R14_svc after release. Nothing is
// known to depend on it so the quirk is not modelled.
func (arm *ARM7) SetEnabled(enable bool) {
	if arm.enabled == enable {
		return
	}
	arm.enabled = enable

	if enable {
		arm.Reg[regR15] = 0
		arm.Reg[regCPSR] = ModeSVC | cpsrI | cpsrF
		arm.pipelineLen = 0
	}
}

// mode returns the current processor mode.
func (arm *ARM7) mode() uint32 {
	return arm.Reg[regCPSR] & cpsrModeMask
}

// reg maps an architectural register number to the register file slot for
// the current mode.
func (arm *ARM7) reg(n int) regIdx {
	switch arm.mode() {
	case ModeFIQ:
		if n >= 8 && n <= 14 {
			return regR8FIQ + regIdx(n-8)
		}
	case ModeSVC:
		if n == 13 || n == 14 {
			return regR13SVC + regIdx(n-13)
		}
	case ModeABT:
		if n == 13 || n == 14 {
			return regR13ABT + regIdx(n-13)
		}
	case ModeIRQ:
		if n == 13 || n == 14 {
			return regR13IRQ + regIdx(n-13)
		}
	case ModeUND:
		if n == 13 || n == 14 {
			return regR13UND + regIdx(n-13)
		}
	}
	return regR0 + regIdx(n)
}

// getReg reads an architectural register. R15 reads as the fetch-stage
// address: eight bytes ahead of the executing instruction.
func (arm *ARM7) getReg(n int) uint32 {
	if n == 15 {
		return arm.Reg[regR15]
	}
	return arm.Reg[arm.reg(n)]
}

func (arm *ARM7) setReg(n int, val uint32) {
	if n == 15 {
		arm.branchTo(val)
		return
	}
	arm.Reg[arm.reg(n)] = val
}

// Register reads an architectural register as the current mode sees it,
// taking register banking into account. For the debugger and tests.
func (arm *ARM7) Register(n int) uint32 {
	return arm.getReg(n)
}

// spsr returns the SPSR slot for the current mode. User mode has none;
// reads of it return CPSR.
func (arm *ARM7) spsr() regIdx {
	switch arm.mode() {
	case ModeFIQ:
		return regSPSRFIQ
	case ModeSVC:
		return regSPSRSVC
	case ModeABT:
		return regSPSRABT
	case ModeIRQ:
		return regSPSRIRQ
	case ModeUND:
		return regSPSRUND
	}
	return regCPSR
}

// branchTo redirects execution. The pipeline is flushed and refills from
// the target.
func (arm *ARM7) branchTo(addr uint32) {
	arm.Reg[regR15] = addr &^ 3
	arm.pipelineLen = 0
}

// fetch returns the next instruction to execute, maintaining the visible
// two-slot pipeline. R15 is left pointing at the fetch stage, eight bytes
// past the instruction returned.
func (arm *ARM7) fetch() uint32 {
	if arm.pipelineLen == 0 {
		// refill after a branch. R15 holds the branch target; once both
		// pipeline slots are full it points two instructions ahead, which
		// is the value software sees
		arm.pipeline[0] = arm.Mem.Read32(arm.Reg[regR15])
		arm.pipeline[1] = arm.Mem.Read32(arm.Reg[regR15] + 4)
		arm.Reg[regR15] += 8

		inst := arm.pipeline[0]
		arm.pipeline[0] = arm.pipeline[1]
		arm.pipelineLen = 1
		return inst
	}

	// steady state: pipeline[0] is the instruction at R15-4. fetch one
	// more and advance
	arm.pipeline[1] = arm.Mem.Read32(arm.Reg[regR15])
	arm.Reg[regR15] += 4

	inst := arm.pipeline[0]
	arm.pipeline[0] = arm.pipeline[1]
	arm.pipelineLen = 1
	return inst
}

// executingPC returns the address of the instruction currently in the
// execute stage.
func (arm *ARM7) executingPC() uint32 {
	return arm.Reg[regR15] - 8
}

// enterException switches mode, banks the return address and jumps to a
// low-memory vector.
func (arm *ARM7) enterException(mode uint32, vector uint32, ret uint32) {
	oldCPSR := arm.Reg[regCPSR]

	arm.Reg[regCPSR] = (oldCPSR &^ cpsrModeMask) | mode | cpsrI

	arm.Reg[arm.spsr()] = oldCPSR
	arm.Reg[arm.reg(14)] = ret
	arm.branchTo(vector)
}

// AssertIRQ raises or clears the IRQ input. The AICA interrupt controller
// drives this.
func (arm *ARM7) AssertIRQ(assert bool) {
	if assert {
		arm.excp |= ExcpIRQ
	} else {
		arm.excp &^= ExcpIRQ
	}
}

// checkExceptions services the highest-priority pending exception.
func (arm *ARM7) checkExceptions() {
	if arm.excp == ExcpNone {
		return
	}

	switch {
	case arm.excp&ExcpIRQ != 0:
		if arm.Reg[regCPSR]&cpsrI != 0 {
			return
		}
		arm.excp &^= ExcpIRQ
		arm.enterException(ModeIRQ, 0x18, arm.executingPC()+4)
	case arm.excp&ExcpSWI != 0:
		arm.excp &^= ExcpSWI
		arm.enterException(ModeSVC, 0x08, arm.executingPC()+4)
	}
}

// ExecuteInstruction fetches, decodes and executes one instruction,
// returning its cycle cost.
func (arm *ARM7) ExecuteInstruction() uint {
	arm.checkExceptions()

	inst := arm.fetch()
	arm.FetchCount++

	if !arm.condPassed(inst >> 28) {
		return 1
	}

	return arm.execute(inst)
}

// Dispatch runs the CPU forward to the clock's target stamp; the
// interpreter form of the sched.DispatchFunc contract.
//
// When the ARM7 is held in reset the cycle stamp still advances to the
// target each quantum so that devices in this clock domain do not fall
// behind; instruction execution is simply skipped.
func (arm *ARM7) Dispatch() bool {
	tgt := arm.Clk.TargetStamp()

	if !arm.enabled {
		arm.Clk.SetStamp(tgt)
		return false
	}

	for tgt > arm.Clk.Stamp() {
		cycles := arm.ExecuteInstruction()

		after := arm.Clk.Stamp() + sched.CycleStamp(cycles*clocks.ARM7Scale)

		tgt = arm.Clk.TargetStamp()
		if after > tgt {
			after = tgt
		}
		arm.Clk.SetStamp(after)
	}

	return false
}
