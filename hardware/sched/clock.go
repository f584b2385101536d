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

package sched

// DispatchFunc runs a CPU forward. It must advance the clock's cycle stamp
// to, but not past, the clock's target stamp. The return value is true only
// if the emulation should exit.
//
// The dispatch function is chosen once at run start: interpreter, JIT backed
// or debugger aware.
type DispatchFunc func() bool

// Clock pairs a scheduler with a monotonic cycle counter. Each CPU is
// attached to exactly one Clock. Use NewClock() to initialise.
type Clock struct {
	Sched *Sched

	// a name for the clock domain. used for logging
	Label string

	stamp CycleStamp

	dispatch DispatchFunc
}

// NewClock is the preferred method of initialisation for the Clock type.
func NewClock(label string) *Clock {
	return &Clock{
		Sched: NewSched(),
		Label: label,
	}
}

// Stamp returns the current value of the cycle counter.
func (clk *Clock) Stamp() CycleStamp {
	return clk.stamp
}

// SetStamp records how far the CPU attached to this clock has advanced.
func (clk *Clock) SetStamp(stamp CycleStamp) {
	clk.stamp = stamp
}

// TargetStamp returns the deadline the dispatch loop should run the CPU to:
// the stamp of the next pending event or, when the queue is empty, a short
// distance ahead of the current stamp so the CPU keeps moving.
func (clk *Clock) TargetStamp() CycleStamp {
	if clk.Sched.head == nil {
		return clk.stamp + emptyQueueEpsilon
	}
	return clk.Sched.target
}

// Schedule books an event against this clock's scheduler.
func (clk *Clock) Schedule(ev *Event) {
	clk.Sched.Schedule(clk.stamp, ev)
}

// Cancel removes an event from this clock's scheduler.
func (clk *Clock) Cancel(ev *Event) {
	clk.Sched.Cancel(clk.stamp, ev)
}

// Pop removes and returns the next pending event, or nil.
func (clk *Clock) Pop() *Event {
	return clk.Sched.Pop(clk.stamp)
}

// AttachDispatcher assigns the dispatch function for this clock domain.
// Called once at run start.
func (clk *Clock) AttachDispatcher(dispatch DispatchFunc) {
	clk.dispatch = dispatch
}

// RunTimeslice runs the attached dispatch function until the current target
// stamp is reached and then services every event that has fallen due.
// Returns true if the emulation should exit.
func (clk *Clock) RunTimeslice() bool {
	if clk.dispatch() {
		return true
	}

	// service every event that has fallen due. a handler may schedule new
	// events, including at stamps that have already passed, so the queue
	// head is re-read on every iteration
	for ev := clk.Sched.Peek(); ev != nil && ev.When <= clk.stamp; ev = clk.Sched.Peek() {
		clk.Pop()
		ev.Handler(ev)
	}

	return false
}
