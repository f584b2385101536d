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
	"math/rand"
	"testing"

	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/test"
)

func TestPopOrder(t *testing.T) {
	s := sched.NewSched()

	var evs [3]sched.Event
	evs[0].When = 100
	evs[1].When = 100
	evs[2].When = 50

	for i := range evs {
		s.Schedule(0, &evs[i])
	}

	// earliest stamp first; equal stamps in order of scheduling
	test.ExpectEquality(t, s.Pop(0), &evs[2])
	test.ExpectEquality(t, s.Pop(0), &evs[0])
	test.ExpectEquality(t, s.Pop(0), &evs[1])
	if s.Pop(0) != nil {
		t.Errorf("pop of empty queue did not return nil")
	}
}

func TestCancel(t *testing.T) {
	s := sched.NewSched()

	var a, b, c sched.Event
	a.When = 10
	b.When = 20
	c.When = 30

	s.Schedule(0, &a)
	s.Schedule(0, &b)
	s.Schedule(0, &c)

	// cancelling an event in the middle of the queue leaves the rest alone
	s.Cancel(0, &b)
	test.ExpectEquality(t, s.Pop(0), &a)
	test.ExpectEquality(t, s.Pop(0), &c)

	// cancelling the head updates the target stamp
	s.Schedule(0, &a)
	s.Schedule(0, &b)
	s.Cancel(0, &a)
	test.ExpectEquality(t, s.Peek(), &b)
}

func TestRescheduleFromHandler(t *testing.T) {
	s := sched.NewSched()

	ct := 0

	var ev sched.Event
	ev.When = 10
	ev.Handler = func(e *sched.Event) {
		ct++
		e.When += 10
		s.Schedule(e.When, e)
	}

	s.Schedule(0, &ev)

	// an event re-inserting itself from inside its own handler is how every
	// periodic device event works
	for i := 0; i < 5; i++ {
		e := s.Pop(0)
		e.Handler(e)
	}

	test.ExpectEquality(t, ct, 5)
	test.ExpectEquality(t, ev.When, sched.CycleStamp(60))
}

func TestScheduleLinkedPanics(t *testing.T) {
	s := sched.NewSched()

	var ev sched.Event
	ev.When = 10
	s.Schedule(0, &ev)

	defer func() {
		if recover() == nil {
			t.Errorf("scheduling a linked event did not panic")
		}
	}()
	s.Schedule(0, &ev)
}

// for any interleaving of schedule/cancel/pop the sequence of popped stamps
// is non-decreasing and cancelled events never appear
func TestPopMonotonic(t *testing.T) {
	s := sched.NewSched()

	var evs [20]sched.Event
	linked := make(map[*sched.Event]bool)
	cancelled := make(map[*sched.Event]bool)

	rnd := rand.New(rand.NewSource(1))

	var lastPopped sched.CycleStamp

	for i := 0; i < 10000; i++ {
		ev := &evs[rnd.Intn(len(evs))]

		switch rnd.Intn(3) {
		case 0:
			if !linked[ev] {
				// stamps never fall below the most recently popped stamp,
				// mirroring how devices only ever book events in the future
				ev.When = lastPopped + sched.CycleStamp(rnd.Int63n(10000))
				s.Schedule(0, ev)
				linked[ev] = true
				cancelled[ev] = false
			}
		case 1:
			if linked[ev] {
				s.Cancel(0, ev)
				linked[ev] = false
				cancelled[ev] = true
			}
		case 2:
			p := s.Pop(0)
			if p != nil {
				if cancelled[p] {
					t.Fatalf("cancelled event appeared in pop output")
				}
				if p.When < lastPopped {
					t.Fatalf("pop output is not non-decreasing: %d after %d", p.When, lastPopped)
				}
				lastPopped = p.When
				linked[p] = false
			}
		}
	}
}
