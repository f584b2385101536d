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

package debugger_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gophercast/gophercast/debugger"
	"github.com/gophercast/gophercast/hardware"
	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/hardware/preferences"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/test"
)

// states reported to the frontend.
type stateRecorder struct {
	states []debugger.State
	dbg    *debugger.Debugger

	// queued resume actions, consumed one per stop
	actions []func()
}

func (r *stateRecorder) OnBreak(state debugger.State, pc uint32) {
	r.states = append(r.states, state)

	if len(r.actions) > 0 {
		act := r.actions[0]
		r.actions = r.actions[1:]
		act()
	} else {
		r.dbg.RequestContinue()
	}
}

func newTestMachine(t *testing.T) *hardware.Dreamcast {
	t.Helper()

	wd, err := os.Getwd()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	dir := t.TempDir()

	bios := make([]byte, addresses.BIOSSize)
	test.ExpectSuccess(t, os.WriteFile(filepath.Join(dir, "bios.bin"), bios, 0644))
	syscalls := make([]byte, addresses.LenSyscall)
	test.ExpectSuccess(t, os.WriteFile(filepath.Join(dir, "syscalls.bin"), syscalls, 0644))
	exec := []byte{0x09, 0x00}
	test.ExpectSuccess(t, os.WriteFile(filepath.Join(dir, "exec.bin"), exec, 0644))

	prefs, err := preferences.NewPreferences()
	test.ExpectSuccess(t, err)
	prefs.BootMode.Set(preferences.BootDirect)
	prefs.BIOSPath.Set(filepath.Join(dir, "bios.bin"))
	prefs.FlashPath.Set(filepath.Join(dir, "flash.bin"))
	prefs.RTCPath.Set(filepath.Join(dir, "rtc.txt"))
	prefs.SyscallPath.Set(filepath.Join(dir, "syscalls.bin"))
	prefs.ExecBinPath.Set(filepath.Join(dir, "exec.bin"))

	dc, err := hardware.NewDreamcast(prefs)
	test.ExpectSuccess(t, err)

	dc.Gov.Transition(govern.Running, govern.NotRunning)

	return dc
}

// a 4-byte write watchpoint and a 2-byte store that overlaps it: the
// debugger walks Norm -> PreWatch -> Watch on the store, and a continue
// resumes through PostWatch for exactly one instruction before settling
// back to Norm
func TestWatchpointSequence(t *testing.T) {
	dc := newTestMachine(t)
	dbg := debugger.NewDebugger(dc)

	rec := &stateRecorder{dbg: dbg}
	dbg.Attach(rec)

	test.ExpectSuccess(t, dbg.SetWatchpoint(0x8c00f000, 4, true))

	// MOV #1,R1 / MOV.W R1,@R2 / NOP / NOP with R2 pointing into the
	// watched window
	prog := []uint16{0xe101, 0x2211, 0x0009, 0x0009}
	for i, inst := range prog {
		dc.CPU.RAM.Write16(uint32(0x10000+i*2), inst)
	}
	dc.CPU.Reg[sh4.RegPC] = 0x8c010000
	dc.CPU.Reg[sh4.RegR2] = 0x8c00f002

	test.ExpectEquality(t, dbg.State(), debugger.Norm)

	// MOV #1,R1: no watch activity
	dc.CPU.ExecuteInstruction()
	test.ExpectEquality(t, dbg.State(), debugger.Norm)

	// the store: the hit is noticed mid-instruction
	dc.CPU.ExecuteInstruction()
	test.ExpectEquality(t, dbg.State(), debugger.PreWatch)
	test.ExpectEquality(t, dbg.WatchAddr, uint32(0x8c00f002))
	test.ExpectSuccess(t, dbg.WatchWrite)

	// resume with continue when the stop happens
	rec.actions = append(rec.actions, func() { dbg.RequestContinue() })

	// drive the debugger-aware dispatch for a few instructions. the stop
	// and resume happen inside
	dbg.DispatchSH4()

	// the frontend saw the Watch stop
	test.ExpectEquality(t, len(rec.states), 1)
	test.ExpectEquality(t, rec.states[0], debugger.Watch)

	// and the machine settled back to Norm after its one PostWatch
	// instruction
	test.ExpectEquality(t, dbg.State(), debugger.Norm)
	test.ExpectEquality(t, dc.Gov.State(), govern.Running)
}

func TestBreakpoint(t *testing.T) {
	dc := newTestMachine(t)
	dbg := debugger.NewDebugger(dc)

	rec := &stateRecorder{dbg: dbg}
	dbg.Attach(rec)

	prog := []uint16{0x0009, 0x0009, 0x0009, 0x0009}
	for i, inst := range prog {
		dc.CPU.RAM.Write16(uint32(0x10000+i*2), inst)
	}
	dc.CPU.Reg[sh4.RegPC] = 0x8c010000

	test.ExpectSuccess(t, dbg.SetBreakpoint(0x8c010004))

	dbg.DispatchSH4()

	test.ExpectEquality(t, len(rec.states), 1)
	test.ExpectEquality(t, rec.states[0], debugger.Break)
}

func TestStepping(t *testing.T) {
	dc := newTestMachine(t)
	dbg := debugger.NewDebugger(dc)

	rec := &stateRecorder{dbg: dbg}
	dbg.Attach(rec)

	prog := []uint16{0xe101, 0xe202, 0xe303, 0x0009}
	for i, inst := range prog {
		dc.CPU.RAM.Write16(uint32(0x10000+i*2), inst)
	}
	dc.CPU.Reg[sh4.RegPC] = 0x8c010000

	test.ExpectSuccess(t, dbg.SetBreakpoint(0x8c010000))

	// on the breakpoint stop: step; on the step stop: step again; then
	// continue
	rec.actions = append(rec.actions,
		func() { dbg.RequestStep() },
		func() { dbg.RequestStep() },
		func() { dbg.RequestContinue() },
	)

	dbg.DispatchSH4()

	// break at the first instruction, then two single steps
	test.ExpectEquality(t, len(rec.states), 3)
	test.ExpectEquality(t, rec.states[0], debugger.Break)
	test.ExpectEquality(t, rec.states[1], debugger.Break)
	test.ExpectEquality(t, rec.states[2], debugger.Break)

	test.ExpectEquality(t, dc.CPU.Reg[sh4.RegR1], uint32(1))
}
