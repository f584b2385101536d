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

package hardware

import (
	"time"

	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/logger"
)

// the period of the housekeeping event on the SH4 clock. It services the
// serial port; suspend requests are taken between frames by Run. SCHED_FREQUENCY/100
// rather than /10: programs that use the serial port (KallistiOS
// toolchains) time out if replies take too long.
const periodicEventPeriod = clocks.SchedFrequency / 100

// the frame driver keeps per-run bookkeeping separate from the machine.
type runState struct {
	periodicEvent sched.Event

	// wall-clock and virtual time of the previous frame for rate
	// reporting
	lastFrameReal time.Time
	lastFrameVirt sched.CycleStamp

	startReal time.Time

	// most recently computed rates
	hostFPS float64
	virtFPS float64
}

// AttachDispatchers selects and attaches the dispatch back-ends for both
// clock domains according to the preferences: interpreter or JIT for the
// SH4, interpreter for the ARM7. Called once at run start.
func (dc *Dreamcast) AttachDispatchers() {
	if dc.Prefs.UseJIT() {
		if dc.Prefs.NativeJIT.Get().(bool) || dc.Prefs.InlineMem.Get().(bool) {
			logger.Log(logger.Allow, "dreamcast", "no native code generation in this build; using the portable back-end")
		}
		dc.SH4Clock.AttachDispatcher(dc.CodeCache.Dispatch)
		logger.Log(logger.Allow, "dreamcast", "sh4: block-translation dispatcher")
	} else {
		dc.SH4Clock.AttachDispatcher(dc.CPU.Dispatch)
		logger.Log(logger.Allow, "dreamcast", "sh4: interpreter dispatcher")
	}

	dc.ARM7Clock.AttachDispatcher(dc.ARM.Dispatch)
}

// Run is the main loop of the emulation goroutine: frames are run until
// the governor's running flag clears. The suspendCheck callback is polled
// while the machine is suspended; it should service whatever front-end
// the suspension came from and sleep briefly.
func (dc *Dreamcast) Run(suspendCheck func()) error {
	rs := &runState{
		startReal:     time.Now(),
		lastFrameReal: time.Now(),
	}

	rs.periodicEvent.Handler = dc.periodic
	rs.periodicEvent.When = dc.SH4Clock.Stamp() + periodicEventPeriod
	dc.SH4Clock.Schedule(&rs.periodicEvent)

	var runErr error

	for dc.Gov.EmuThreadRunning() {
		if err := dc.runOneFrame(rs); err != nil {
			dc.Gov.Term = govern.TermError
			dc.Gov.Kill()
			runErr = err
			break
		}

		if dc.Gov.TakeFrameStop() {
			if dc.Gov.State() == govern.Running {
				dc.Gov.Transition(govern.Suspend, govern.Running)
				dc.suspendLoop(suspendCheck)
			} else {
				logger.Log(logger.Allow, "dreamcast", "cannot suspend: system is not running")
			}
		}
	}

	// tell the i/o goroutine to unwind
	dc.Gov.SignalExit()

	switch dc.Gov.Term {
	case govern.TermNorm:
		logger.Log(logger.Allow, "dreamcast", "program execution ended normally")
	case govern.TermSigInt:
		logger.Log(logger.Allow, "dreamcast", "program execution ended by user interruption")
	case govern.TermError:
		logger.Log(logger.Allow, "dreamcast", "program execution ended by an unrecoverable error")
	}

	dc.printPerfStats(rs)
	dc.End()

	return runErr
}

// runOneFrame interleaves the two clock domains a timeslice at a time
// until the display device raises the end-of-frame flag. Cross-domain
// ordering is only frame-granular; the divergence is bounded by one
// timeslice.
//
// Faults panicking out of device handlers and opcodes are caught here and
// terminate the frame with an error.
func (dc *Dreamcast) runOneFrame(rs *runState) (rerr error) {
	defer func() {
		if r := recover(); r != nil {
			if rec, ok := r.(fault.Record); ok {
				rerr = rec
				return
			}
			panic(r)
		}
	}()

	for !dc.Gov.TakeEndOfFrame() {
		if dc.SH4Clock.RunTimeslice() {
			return nil
		}
		if dc.ARM7Clock.RunTimeslice() {
			return nil
		}
		if dc.Prefs.UseJIT() {
			dc.CodeCache.GC()
		}
	}

	dc.endFrame(rs)

	return nil
}

// endFrame finalises a frame: rate accounting, flash flush, audio top-up
// and the renderer call.
func (dc *Dreamcast) endFrame(rs *runState) {
	now := time.Now()
	virt := dc.SH4Clock.Stamp()

	rs.hostFPS = 1.0 / now.Sub(rs.lastFrameReal).Seconds()
	rs.virtFPS = float64(clocks.SchedFrequency) / float64(virt-rs.lastFrameVirt)
	rs.lastFrameReal = now
	rs.lastFrameVirt = virt
	dc.HostFPS = rs.hostFPS
	dc.VirtFPS = rs.virtFPS

	dc.AICA.EndFrame()

	if err := dc.Flash.Flush(); err != nil {
		logger.Log(logger.Allow, "dreamcast", err)
	}

	if dc.Renderer != nil {
		dc.Renderer.Render()
	}
}

// periodic is the housekeeping event handler: serial servicing and
// anything else with soft timing requirements. Its timing is technically
// deterministic but nothing should rely on that.
func (dc *Dreamcast) periodic(ev *sched.Event) {
	dc.CPU.ServiceSerial()

	ev.When = dc.SH4Clock.Stamp() + periodicEventPeriod
	dc.SH4Clock.Schedule(ev)
}

// suspendLoop parks the emulation goroutine until the state leaves
// Suspend or shutdown is requested.
func (dc *Dreamcast) suspendLoop(suspendCheck func()) {
	logger.Log(logger.Allow, "dreamcast", "execution suspended")

	for dc.Gov.EmuThreadRunning() && dc.Gov.State() == govern.Suspend {
		if suspendCheck != nil {
			suspendCheck()
		}
		time.Sleep(time.Second / 60)
	}

	if dc.Gov.EmuThreadRunning() {
		logger.Log(logger.Allow, "dreamcast", "execution resumed")
	}
}

// printPerfStats logs the achieved emulation rate for the whole run.
func (dc *Dreamcast) printPerfStats(rs *runState) {
	elapsed := time.Since(rs.startReal).Seconds()
	if elapsed <= 0 {
		return
	}

	cycles := dc.CPU.Cycles()
	hz := float64(cycles) / elapsed
	ratio := hz / float64(clocks.SH4Frequency)

	logger.Logf(logger.Allow, "performance", "total elapsed time: %.2fs", elapsed)
	logger.Logf(logger.Allow, "performance", "%d sh4 cycles executed", cycles)
	logger.Logf(logger.Allow, "performance", "%.2fMHz (%.1f%% of full speed)", hz/1e6, ratio*100)
}
