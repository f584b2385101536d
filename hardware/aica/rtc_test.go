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

package aica_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gophercast/gophercast/hardware/aica"
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/test"
)

// RTC register addresses as the SH4 sees them.
const (
	rtcHigh   = 0x00710000
	rtcLow    = 0x00710004
	rtcEnable = 0x00710008
)

// run the clock forward, firing events as they fall due.
func advance(clk *sched.Clock, to sched.CycleStamp) {
	for {
		ev := clk.Sched.Peek()
		if ev == nil || ev.When > to {
			break
		}
		clk.SetStamp(ev.When)
		clk.Pop()
		ev.Handler(ev)
	}
	clk.SetStamp(to)
}

func TestTick(t *testing.T) {
	clk := sched.NewClock("test")
	rtc := aica.NewRTC(clk, "")

	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(0))

	// one second of virtual time
	advance(clk, clocks.SchedFrequency)
	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(1))

	advance(clk, 10*clocks.SchedFrequency)
	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(10))
}

func TestWriteEnable(t *testing.T) {
	clk := sched.NewClock("test")
	rtc := aica.NewRTC(clk, "")

	// writes without the enable bit are ignored
	rtc.Write32(rtcLow, 0x1234)
	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(0))

	rtc.Write32(rtcEnable, 1)
	rtc.Write32(rtcHigh, 0x0001)
	rtc.Write32(rtcLow, 0x1234)

	test.ExpectEquality(t, rtc.Read32(rtcHigh), uint32(0x0001))
	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(0x1234))
	test.ExpectEquality(t, rtc.Seconds(), uint32(0x00011234))
}

// a write to the low word restarts the countdown: the written value
// stands for a full second before the next tick
func TestWriteRestartsTick(t *testing.T) {
	clk := sched.NewClock("test")
	rtc := aica.NewRTC(clk, "")

	// half a second in, write a new value
	advance(clk, clocks.SchedFrequency/2)
	rtc.Write32(rtcEnable, 1)
	rtc.Write32(rtcLow, 100)

	// half a second later the old tick would have fired; the value must
	// not have moved
	advance(clk, clocks.SchedFrequency)
	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(100))

	// a full second after the write, it ticks
	advance(clk, clocks.SchedFrequency/2+clocks.SchedFrequency)
	test.ExpectEquality(t, rtc.Read32(rtcLow), uint32(101))
}

func TestPersistence(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rtc.txt")

	clk := sched.NewClock("test")
	rtc := aica.NewRTC(clk, path)

	advance(clk, 5*clocks.SchedFrequency)
	test.ExpectSuccess(t, rtc.Save())

	// a single ASCII decimal integer followed by whitespace
	d, err := os.ReadFile(path)
	test.ExpectSuccess(t, err)
	test.ExpectEquality(t, string(d), "5\n")

	// a fresh RTC picks the value up
	clk2 := sched.NewClock("test")
	rtc2 := aica.NewRTC(clk2, path)
	test.ExpectEquality(t, rtc2.Seconds(), uint32(5))
}
