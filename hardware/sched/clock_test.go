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

package sched_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/test"
)

// with an empty queue the target stays a short distance ahead of the
// current stamp so the CPU still makes forward progress; with a queued
// event the target is the event's stamp
func TestTargetStamp(t *testing.T) {
	clk := sched.NewClock("test")

	if clk.TargetStamp() <= clk.Stamp() {
		t.Errorf("empty-queue target %d is not ahead of stamp %d", clk.TargetStamp(), clk.Stamp())
	}

	var ev sched.Event
	ev.When = 500
	ev.Handler = func(e *sched.Event) {}
	clk.Schedule(&ev)
	test.ExpectEquality(t, clk.TargetStamp(), sched.CycleStamp(500))

	clk.Cancel(&ev)
	if clk.TargetStamp() <= clk.Stamp() {
		t.Errorf("empty-queue target %d is not ahead of stamp %d", clk.TargetStamp(), clk.Stamp())
	}
}

// the timeslice services every event that has fallen due, in order, and
// leaves later events alone
func TestRunTimeslice(t *testing.T) {
	clk := sched.NewClock("test")

	var order []int

	mk := func(n int, when sched.CycleStamp) *sched.Event {
		ev := &sched.Event{When: when}
		ev.Handler = func(e *sched.Event) {
			order = append(order, n)
		}
		return ev
	}

	clk.Schedule(mk(1, 100))
	clk.Schedule(mk(2, 200))
	clk.Schedule(mk(3, 900))

	clk.AttachDispatcher(func() bool {
		clk.SetStamp(clk.TargetStamp())
		return false
	})

	clk.RunTimeslice() // runs to 100, fires event 1
	clk.RunTimeslice() // runs to 200, fires event 2

	test.ExpectEquality(t, len(order), 2)
	test.ExpectEquality(t, order[0], 1)
	test.ExpectEquality(t, order[1], 2)
	test.ExpectEquality(t, clk.TargetStamp(), sched.CycleStamp(900))
}
