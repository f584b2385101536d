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

// Package debugger implements hardware-level debugging of the emulated
// machine: breakpoints on the SH4's PC, read and write watchpoints on its
// data accesses, single stepping, and the state machine that sequences a
// watchpoint hit through to resumption.
//
// The debugger runs on the emulation goroutine, woven into a
// debugger-aware dispatch function. The terminal runs on its own
// goroutine and communicates through atomic request flags, never by
// touching machine state directly.
package debugger

import (
	"sync/atomic"

	"github.com/gophercast/gophercast/hardware"
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/logger"
)

// State is the debugger's own state, distinct from the machine's run
// state.
type State int

// List of valid State values.
//
// A watchpoint hit is noticed mid-instruction, while the access that
// matched is still in flight. The debugger cannot stop there, so the hit
// sequences through three states: PreWatch (hit noticed, instruction
// still executing), Watch (stopped, under user control), and PostWatch
// (resumed, but suppressing the watchpoint for exactly one instruction so
// the same access doesn't re-trigger).
const (
	Norm State = iota
	Step
	Break
	PreWatch
	Watch
	PostWatch
)

func (s State) String() string {
	switch s {
	case Norm:
		return "norm"
	case Step:
		return "step"
	case Break:
		return "break"
	case PreWatch:
		return "pre-watch"
	case Watch:
		return "watch"
	case PostWatch:
		return "post-watch"
	}
	return "unknown"
}

// the number of breakpoint and watchpoint slots. fixed so the hot-path
// scans are bounded.
const (
	BreakpointCount = 16
	WatchpointCount = 16
)

type breakpoint struct {
	addr    uint32
	enabled bool
}

type watchpoint struct {
	addr    uint32
	length  uint32
	enabled bool
}

// Frontend is the user interface attached to the debugger. Callbacks
// arrive on the emulation goroutine; implementations must return
// promptly.
type Frontend interface {
	// OnBreak is called when the machine stops under debugger control:
	// a breakpoint, a completed watchpoint or a finished step
	OnBreak(state State, pc uint32)
}

// Debugger attaches to a machine. Use NewDebugger() to initialise.
type Debugger struct {
	dc *hardware.Dreamcast

	state State

	breakpoints [BreakpointCount]breakpoint
	rWatch      [WatchpointCount]watchpoint
	wWatch      [WatchpointCount]watchpoint

	// details of the most recent watchpoint hit
	WatchAddr  uint32
	WatchWrite bool

	frontend Frontend

	// request flags set by the terminal goroutine, consumed at
	// instruction boundaries by the emulation goroutine
	reqBreak    atomic.Bool
	reqStep     atomic.Bool
	reqContinue atomic.Bool
	reqDetach   atomic.Bool

	// idle is polled by the terminal goroutine to decide whether the
	// machine is stopped at a prompt
	idle atomic.Bool
}

// NewDebugger is the preferred method of initialisation for the Debugger
// type. The debugger installs itself as the machine's memory hook.
func NewDebugger(dc *hardware.Dreamcast) *Debugger {
	dbg := &Debugger{dc: dc}
	dc.CPU.Hook = dbg
	return dbg
}

// Attach a frontend.
func (dbg *Debugger) Attach(fe Frontend) {
	dbg.frontend = fe
}

// State returns the debugger state. Emulation goroutine only.
func (dbg *Debugger) State() State {
	return dbg.state
}

// Stopped returns true while the machine is held at a debugger prompt.
// Safe from any goroutine.
func (dbg *Debugger) Stopped() bool {
	return dbg.idle.Load()
}

// request entry points, safe from any goroutine.

// RequestBreak asks the machine to stop at the next instruction.
func (dbg *Debugger) RequestBreak() {
	dbg.reqBreak.Store(true)
}

// RequestStep resumes for exactly one instruction.
func (dbg *Debugger) RequestStep() {
	dbg.reqStep.Store(true)
}

// RequestContinue resumes the machine.
func (dbg *Debugger) RequestContinue() {
	dbg.reqContinue.Store(true)
}

// RequestDetach removes all debugger involvement and resumes.
func (dbg *Debugger) RequestDetach() {
	dbg.reqDetach.Store(true)
}

// CheckWatch implements the sh4.MemHook interface: every data access the
// CPU makes passes through here.
func (dbg *Debugger) CheckWatch(addr uint32, length int, write bool) {
	// one instruction's grace after resuming from a watchpoint
	if dbg.state == PostWatch {
		return
	}

	table := &dbg.rWatch
	if write {
		table = &dbg.wWatch
	}

	end := addr + uint32(length)
	for i := range table {
		w := &table[i]
		if !w.enabled {
			continue
		}
		if addr < w.addr+w.length && end > w.addr {
			dbg.WatchAddr = addr
			dbg.WatchWrite = write
			if dbg.state == Norm || dbg.state == Step {
				dbg.state = PreWatch
			}
			return
		}
	}
}

// breakpointHit returns true if an enabled breakpoint covers the address.
func (dbg *Debugger) breakpointHit(pc uint32) bool {
	for i := range dbg.breakpoints {
		b := &dbg.breakpoints[i]
		if b.enabled && b.addr == pc {
			return true
		}
	}
	return false
}

// notifyInst is called before every instruction by the debugger-aware
// dispatch loop. It advances the debug state machine and, when the
// machine should stop, holds it in the debug loop until the user resumes.
// Returns true if the emulation should exit entirely.
func (dbg *Debugger) notifyInst() bool {
	switch dbg.state {
	case PostWatch:
		// the one-instruction suppression window has passed
		dbg.state = Norm
	case PreWatch:
		// the instruction that touched the watchpoint has completed
		dbg.state = Watch
		return dbg.stop()
	case Step:
		dbg.state = Break
		return dbg.stop()
	}

	if dbg.breakpointHit(dbg.dc.CPU.Reg[sh4.RegPC]) && dbg.state == Norm {
		dbg.state = Break
		return dbg.stop()
	}

	if dbg.reqBreak.CompareAndSwap(true, false) && dbg.state == Norm {
		dbg.state = Break
		return dbg.stop()
	}

	return false
}

// stop parks the emulation goroutine until a resume request arrives.
func (dbg *Debugger) stop() bool {
	if dbg.dc.Gov.State() == govern.Running {
		dbg.dc.Gov.Transition(govern.Debug, govern.Running)
	}

	if dbg.frontend != nil {
		dbg.frontend.OnBreak(dbg.state, dbg.dc.CPU.Reg[sh4.RegPC])
	}

	dbg.idle.Store(true)
	defer dbg.idle.Store(false)

	for dbg.dc.Gov.EmuThreadRunning() {
		switch {
		case dbg.reqDetach.CompareAndSwap(true, false):
			dbg.clearAll()
			dbg.resume(Norm)
			return false
		case dbg.reqContinue.CompareAndSwap(true, false):
			if dbg.state == Watch {
				// suppress the watchpoint for one instruction so the
				// resumed access doesn't immediately re-trigger
				dbg.resume(PostWatch)
			} else {
				dbg.resume(Norm)
			}
			return false
		case dbg.reqStep.CompareAndSwap(true, false):
			if dbg.state == Watch {
				dbg.resume(PostWatch)
			} else {
				dbg.resume(Step)
			}
			return false
		}

		sleepQuantum()
	}

	return true
}

func (dbg *Debugger) resume(next State) {
	dbg.state = next
	dbg.dc.Gov.Transition(govern.Running, govern.Debug)
}

func (dbg *Debugger) clearAll() {
	for i := range dbg.breakpoints {
		dbg.breakpoints[i].enabled = false
	}
	for i := range dbg.rWatch {
		dbg.rWatch[i].enabled = false
	}
	for i := range dbg.wWatch {
		dbg.wWatch[i].enabled = false
	}
	logger.Log(logger.Allow, "debugger", "detached: all break and watch points cleared")
}

// DispatchSH4 is the debugger-aware form of the SH4 dispatch function:
// the interpreter loop with the debug state machine polled before every
// instruction.
func (dbg *Debugger) DispatchSH4() bool {
	cpu := dbg.dc.CPU
	clk := dbg.dc.SH4Clock
	tgt := clk.TargetStamp()

	for tgt > clk.Stamp() {
		if dbg.notifyInst() {
			return true
		}

		cycles := cpu.ExecuteInstruction()

		after := clk.Stamp() + sched.CycleStamp(cycles*clocks.SH4Scale)
		tgt = clk.TargetStamp()
		if after > tgt {
			after = tgt
		}
		clk.SetStamp(after)
	}

	// as with the plain interpreter loop: never leave a branch/delay-slot
	// pair straddling the quantum boundary
	for cpu.MidDelaySlot() {
		cpu.ExecuteInstruction()
	}

	return false
}
