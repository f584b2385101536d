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

// Package sched implements the discrete-event scheduler that paces the
// emulation, and the Clock type that pairs a scheduler with a cycle counter.
//
// There are two instances of the Clock type in the emulated console: one for
// the SH4 and one for the ARM7. Devices book events against the clock of the
// CPU whose time domain they live in and the dispatch loop runs each CPU
// forward to the stamp of its next pending event.
//
// Events are owned by the caller, never by the scheduler. A device keeps its
// Event instances for the lifetime of the machine and re-inserts them from
// inside its own handler when it wants periodic behaviour. Nothing is
// allocated on the schedule/cancel/pop path.
package sched

import (
	"github.com/gophercast/gophercast/logger"
)

// CycleStamp counts scheduler ticks. See the clocks package for the tick
// frequency and per-CPU scale factors.
type CycleStamp uint64

// EventHandler is a function called when the stamp of a scheduled event is
// reached. Handlers run to completion on the emulation goroutine; they must
// not block and may only mutate device state and schedule further events.
type EventHandler func(ev *Event)

// Event is a single entry in a Sched queue. The caller owns the Event and is
// responsible for making sure it is not linked into a queue before
// scheduling it (the same Event may be re-scheduled from inside its own
// handler, which is how periodic events work).
type Event struct {
	// When the event should fire, in scheduler ticks
	When CycleStamp

	// Handler to run when the event fires
	Handler EventHandler

	// Ctxt is an opaque reference for the convenience of the handler
	Ctxt any

	// linked list. only the scheduler gets to touch these
	next  *Event
	pprev **Event
}

// linked returns true if the event is currently in a queue.
func (ev *Event) linked() bool {
	return ev.pprev != nil
}

// the number of ticks of progress allowed when the queue is empty. in
// practice the queue should never be empty because the SPG and the RTC are
// always booked, but if it does happen the CPU still has to make forward
// progress somehow.
const emptyQueueEpsilon = 16

// log the empty-queue fallback the first time it fires and never again. it
// is not known whether the condition can arise in practice.
var emptyQueueLogged bool

// Sched is a min-ordered queue of pending events keyed on cycle stamp. Use
// NewSched() to initialise.
//
// The queue is an intrusive singly-headed doubly-linked list. Walking a list
// is O(n) but n is bounded by the number of active devices, which is small.
type Sched struct {
	head *Event

	// the stamp of the head event, cached so the dispatch loop can poll it
	// without chasing pointers. when the queue is empty the target is a
	// short distance ahead of current so the CPU keeps moving.
	target CycleStamp
}

// NewSched is the preferred method of initialisation for the Sched type.
func NewSched() *Sched {
	return &Sched{}
}

func (s *Sched) updateTarget(current CycleStamp) {
	if s.head != nil {
		s.target = s.head.When
		return
	}

	if !emptyQueueLogged {
		emptyQueueLogged = true
		logger.Log(logger.Allow, "sched", "event queue empty: falling back to epsilon progress")
	}
	s.target = current + emptyQueueEpsilon
}

// Schedule inserts the event into the queue. Events with equal stamps fire
// in the order they were scheduled.
//
// Scheduling an event with a stamp in the past is allowed; it fires at the
// next dispatch boundary. Scheduling an event that is already linked is a
// programming error and the function panics.
func (s *Sched) Schedule(current CycleStamp, ev *Event) {
	if ev.linked() {
		panic("sched: scheduling an already linked event")
	}

	next := s.head
	pprev := &s.head
	for next != nil && next.When <= ev.When {
		pprev = &next.next
		next = next.next
	}

	*pprev = ev
	if next != nil {
		next.pprev = &ev.next
	}
	ev.next = next
	ev.pprev = pprev

	s.updateTarget(current)
}

// Cancel unlinks the event from the queue. Cancelling an event that is not
// linked is a no-op.
func (s *Sched) Cancel(current CycleStamp, ev *Event) {
	if !ev.linked() {
		return
	}

	if ev.next != nil {
		ev.next.pprev = ev.pprev
	}
	*ev.pprev = ev.next

	ev.next = nil
	ev.pprev = nil

	s.updateTarget(current)
}

// Pop removes and returns the head of the queue, or nil if the queue is
// empty.
func (s *Sched) Pop(current CycleStamp) *Event {
	ev := s.head

	if ev != nil {
		s.head = ev.next
		if s.head != nil {
			s.head.pprev = &s.head
		}
		ev.next = nil
		ev.pprev = nil
	}

	s.updateTarget(current)

	return ev
}

// Peek returns the head of the queue without removing it, or nil if the
// queue is empty.
func (s *Sched) Peek() *Event {
	return s.head
}
