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

// Package sh4 implements the Hitachi SH7750 found in the Dreamcast: the
// register file, the interpreter dispatch loop, the interrupt controller,
// the on-chip register block, the timer unit and the DMA transfer helpers
// used by the peripheral buses.
//
// Instruction-set emulation is driven by a 64k-entry decode table mapping
// every possible 16-bit instruction word to its opcode definition. The
// table is built once, the first time a CPU is created.
package sh4

import (
	"fmt"

	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/hardware/memory/memorymap"
	"github.com/gophercast/gophercast/hardware/sched"
)

// SH4 is the console's main CPU. Use NewSH4() to initialise.
type SH4 struct {
	// the register file. indexed by RegIdx
	Reg [RegCount]uint32

	// the FPU register file. FR0-FR15 as currently banked in, XF0-XF15 as
	// the alternates
	Freg [32]float32

	Clk *sched.Clock
	Mem *memorymap.Map

	// main RAM, kept separately from the memory map so that instruction
	// fetch and DMA have a fast path that skips region lookup
	RAM *memory.RAM

	Intc Intc
	TMU  TMU

	// the on-chip register block visible through the P4 window
	OnChip *OnChip

	// ExecState is the sleep/standby state. entered by the SLEEP
	// instruction, left when an interrupt is accepted
	ExecState ExecState

	// a delayed branch is pending: the next instruction executed is the
	// delay slot and the branch is taken immediately after it
	delayedBranch     bool
	delayedBranchAddr uint32

	// the pipeline group of the previously issued instruction, for the
	// dual-issue pairing rule in countCycles()
	lastGroup group

	// FetchCount is the total number of instructions executed. used by the
	// performance report
	FetchCount uint64

	// Hook, if non-nil, sees every data-memory access the CPU makes. the
	// debugger attaches one to implement watchpoints
	Hook MemHook

	// SCIF state. see scif.go
	serialPeer SerialPeer
	txFIFO     []uint8
	rxFIFO     []uint8
}

// MemHook is notified of every data-memory access made by the CPU.
type MemHook interface {
	CheckWatch(addr uint32, length int, write bool)
}

// NewSH4 is the preferred method of initialisation for the SH4 type. The
// memory map is attached later with SetMemMap(), after the machine has
// built it.
func NewSH4(clk *sched.Clock, ram *memory.RAM) *SH4 {
	sh4 := &SH4{
		Clk: clk,
		RAM: ram,
	}

	buildDecodeTable()

	sh4.OnChip = newOnChip(sh4)
	sh4.TMU.init(sh4)
	sh4.Reset()

	return sh4
}

// SetMemMap attaches the memory map that routes the CPU's loads and stores.
func (sh4 *SH4) SetMemMap(mem *memorymap.Map) {
	sh4.Mem = mem
}

// Reset the CPU to its power-on state. PC starts at the top of the boot
// ROM in the P2 (uncached) window.
func (sh4 *SH4) Reset() {
	for i := range sh4.Reg {
		sh4.Reg[i] = 0
	}

	sh4.Reg[RegPC] = 0xa0000000
	sh4.Reg[RegSR] = SRReset
	sh4.Reg[RegEXPEVT] = uint32(ExcpPowerOnReset)
	sh4.Reg[RegFPSCR] = 0x00040001
	sh4.Reg[RegTOCR] = 1

	// power-on values for the memory-mapped registers
	if sh4.OnChip != nil {
		for i := range sh4.OnChip.regs {
			r := &sh4.OnChip.regs[i]
			if r.slot >= 0 && r.resetVal != 0 {
				sh4.Reg[r.slot] = r.resetVal
			}
		}
	}

	sh4.ExecState = ExecNorm
	sh4.Intc.irlLine = 0xf
	sh4.delayedBranch = false
	sh4.lastGroup = groupNone
}

func (sh4 *SH4) String() string {
	return fmt.Sprintf("PC=%08x SR=%08x PR=%08x R15=%08x",
		sh4.Reg[RegPC], sh4.Reg[RegSR], sh4.Reg[RegPR], sh4.Reg[RegR15])
}

// Cycles returns the number of native SH4 cycles the CPU's clock has
// advanced through.
func (sh4 *SH4) Cycles() uint64 {
	return uint64(sh4.Clk.Stamp()) / clocks.SH4Scale
}

// FetchInstruction reads the 16-bit instruction at PC. Fetches from RAM
// skip the memory map; everything else (in practice, only the boot ROM and
// flash) goes through it.
func (sh4 *SH4) FetchInstruction() uint16 {
	addr := sh4.Reg[RegPC] & addresses.Area0Mask
	if addr >= addresses.Area3First && addr <= addresses.Area3Last {
		return sh4.RAM.Read16(addr & addresses.Area3Mask)
	}
	return sh4.Mem.Read16(sh4.Reg[RegPC])
}

// PeekInstruction reads the instruction word at an arbitrary address
// without touching PC. The block translator uses it.
func (sh4 *SH4) PeekInstruction(addr uint32) uint16 {
	p := addr & addresses.Area0Mask
	if p >= addresses.Area3First && p <= addresses.Area3Last {
		return sh4.RAM.Read16(p & addresses.Area3Mask)
	}
	return sh4.Mem.Read16(addr)
}

// ExecuteInstruction fetches, decodes and executes the instruction at PC,
// returning the number of native cycles it took to issue.
//
// A branch and its delay slot are executed as an atomic pair with respect
// to interrupts: the interrupt check is skipped when a delayed branch is
// pending and re-run immediately after the branch is taken.
func (sh4 *SH4) ExecuteInstruction() uint {
	if !sh4.delayedBranch {
		sh4.checkInterrupts()
	}

	if sh4.ExecState != ExecNorm {
		// asleep. time passes but nothing executes
		return 1
	}

	inst := sh4.FetchInstruction()
	op := Decode(inst)

	return sh4.ExecuteOp(inst, op)
}

// ExecuteOp runs an already-decoded instruction. The JIT-backed dispatch
// loop pre-decodes whole basic blocks and replays them through here.
func (sh4 *SH4) ExecuteOp(inst uint16, op *Opcode) uint {
	cycles := sh4.countCycles(op)

	sh4.FetchCount++

	if sh4.delayedBranch && op.IsBranch {
		// a branch in a delay slot is illegal
		sh4.delayedBranch = false
		sh4.SetException(ExcpSlotIllegal)
		return cycles
	}

	branch := sh4.delayedBranch
	branchAddr := sh4.delayedBranchAddr

	pc := sh4.Reg[RegPC]
	op.Exec(sh4, inst)

	// opcodes that change the flow of the program (non-delayed branches,
	// TRAPA, exceptions) adjust PC themselves; for everything else move on
	// to the next instruction
	if sh4.Reg[RegPC] == pc {
		sh4.Reg[RegPC] += 2
	}

	if branch {
		sh4.Reg[RegPC] = branchAddr
		sh4.delayedBranch = false

		// interrupts raised during the delay slot were deferred. accept
		// them now, before the branch target executes
		sh4.checkInterrupts()
	}

	return cycles
}

// Interruptible returns true when the CPU is at a boundary where an
// interrupt may be accepted: never between a branch and its delay slot.
// ServiceInterrupts accepts a pending interrupt if there is one. Both are
// for dispatch back-ends that drive the CPU without going through
// ExecuteInstruction.
func (sh4 *SH4) Interruptible() bool {
	return !sh4.delayedBranch
}

// ServiceInterrupts accepts a pending interrupt if there is one.
func (sh4 *SH4) ServiceInterrupts() {
	sh4.checkInterrupts()
}

// MidDelaySlot returns true when a delayed branch is pending: the next
// instruction executed will be the delay slot.
func (sh4 *SH4) MidDelaySlot() bool {
	return sh4.delayedBranch
}

// Asleep returns true while the CPU is in the sleep or standby state.
func (sh4 *SH4) Asleep() bool {
	return sh4.ExecState != ExecNorm
}

// countCycles returns the issue cost of the opcode given the instruction
// that went before it. The SH4 is dual-issue: two adjacent instructions
// co-issue when their pipeline groups are compatible, so the second one is
// free.
func (sh4 *SH4) countCycles(op *Opcode) uint {
	if op.Group == groupCO {
		// CO-group instructions never pair
		sh4.lastGroup = groupNone
		return op.Issue
	}

	paired := false
	switch sh4.lastGroup {
	case groupNone, groupCO:
		// previous instruction consumed the pairing opportunity
	case groupMT:
		paired = true
	default:
		paired = sh4.lastGroup != op.Group
	}

	if paired {
		sh4.lastGroup = groupNone
		return 0
	}

	sh4.lastGroup = op.Group
	return op.Issue
}

// Dispatch runs the CPU forward to the clock's target stamp. It is the
// interpreter form of the sched.DispatchFunc contract: the cycle stamp
// never advances past the target, and the target is re-read every
// iteration because event handlers may shorten it.
func (sh4 *SH4) Dispatch() bool {
	tgt := sh4.Clk.TargetStamp()

	for tgt > sh4.Clk.Stamp() {
		cycles := sh4.ExecuteInstruction()

		after := sh4.Clk.Stamp() + sched.CycleStamp(cycles*clocks.SH4Scale)

		// if this instruction would take us past the target then the next
		// event is due mid-instruction. the instruction has already
		// executed in full so clamp the stamp: the CPU appears
		// infinitesimally fast but virtual time never lags
		tgt = sh4.Clk.TargetStamp()
		if after > tgt {
			after = tgt
		}
		sh4.Clk.SetStamp(after)
	}

	// never leave a branch/delay-slot pair straddling the quantum
	// boundary. events serviced after dispatch returns would otherwise
	// fire between the two
	for sh4.delayedBranch {
		sh4.ExecuteInstruction()
	}

	return false
}
