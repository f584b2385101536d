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

// Package govern holds the process-wide run state of the emulated console
// and the atomic flags through which the other goroutines ask the
// emulation goroutine to do things.
//
// The state enum itself is only ever written from the emulation
// goroutine, and only through the Transition function, which takes the
// expected old state and panics when reality disagrees; every state
// change in the program is explicit and audited. Other goroutines
// communicate via the flag set: set-and-forget booleans the emulation
// polls at instruction or frame boundaries. No locks are held across the
// emulation boundary.
package govern

import (
	"sync/atomic"

	"github.com/gophercast/gophercast/hardware/fault"
)

// State describes what the emulated console is doing.
type State int

// List of valid State values.
const (
	// created but not yet executing. a remote command session can hold
	// the console here until the user asks for execution to begin
	NotRunning State = iota

	// the dispatch loop is running
	Running

	// stopped under debugger control
	Debug

	// paused at a frame boundary, waiting for resume-execution
	Suspend
)

func (s State) String() string {
	switch s {
	case NotRunning:
		return "not running"
	case Running:
		return "running"
	case Debug:
		return "debug"
	case Suspend:
		return "suspend"
	}
	return "unknown"
}

// TermReason records why execution stopped.
type TermReason int

// List of valid TermReason values.
const (
	TermNorm TermReason = iota
	TermSigInt
	TermError
)

// Governor is the shared run state. One instance per emulated console;
// it lives as long as the process. Use NewGovernor() to initialise.
type Governor struct {
	// only the emulation goroutine reads or writes the state enum
	state State

	// TermReason is set by whoever decides execution must stop
	Term TermReason

	// flags readable and writable from any goroutine
	running    atomic.Bool // cleared to request total shutdown
	endOfFrame atomic.Bool // set by the display device at vblank
	frameStop  atomic.Bool // request a suspend at the next frame boundary
	signalExit atomic.Bool // tells the i/o goroutine to unwind
}

// NewGovernor is the preferred method of initialisation for the Governor
// type. The console starts in the NotRunning state with the running flag
// set.
func NewGovernor() *Governor {
	g := &Governor{}
	g.running.Store(true)
	return g
}

// State returns the current run state. Emulation goroutine only.
func (g *Governor) State() State {
	return g.state
}

// Transition moves the run state from old to new. The transition table is
// small and explicit; a transition from any state other than the expected
// one is an invariant violation.
func (g *Governor) Transition(new State, old State) {
	if g.state != old {
		panic(fault.Record{
			Kind:    fault.Integrity,
			Feature: "state transition from " + old.String() + " to " + new.String() + " while actually " + g.state.String(),
			Context: "govern",
		})
	}
	g.state = new
}

// EmuThreadRunning returns true while the emulation thread should keep
// going. Cleared by Kill().
func (g *Governor) EmuThreadRunning() bool {
	return g.running.Load()
}

// Kill requests that everything stop as soon as possible. Safe from any
// goroutine; the signal handler uses it.
func (g *Governor) Kill() {
	g.running.Store(false)
}

// IsRunning returns false once shutdown has been signalled to the i/o
// goroutine.
func (g *Governor) IsRunning() bool {
	return !g.signalExit.Load()
}

// SignalExit tells the i/o goroutine to unwind its event loop.
func (g *Governor) SignalExit() {
	g.signalExit.Store(true)
}

// RaiseEndOfFrame marks the current frame finished. Called from the
// display device's vertical blank handler.
func (g *Governor) RaiseEndOfFrame() {
	g.endOfFrame.Store(true)
}

// TakeEndOfFrame consumes the end-of-frame flag, returning true at most
// once per raise.
func (g *Governor) TakeEndOfFrame() bool {
	return g.endOfFrame.CompareAndSwap(true, false)
}

// RequestFrameStop asks the dispatch loop to suspend at the next frame
// boundary. Safe from any goroutine.
func (g *Governor) RequestFrameStop() {
	g.frameStop.Store(true)
}

// TakeFrameStop consumes a pending frame-stop request.
func (g *Governor) TakeFrameStop() bool {
	return g.frameStop.CompareAndSwap(true, false)
}
