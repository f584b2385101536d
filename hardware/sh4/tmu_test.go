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

package sh4_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/test"
)

// TMU register addresses in the P4 window.
const (
	addrTSTR  = 0xffd80004
	addrTCOR0 = 0xffd80008
	addrTCNT0 = 0xffd8000c
	addrTCR0  = 0xffd80010
)

func newTestCPU() (*sh4.SH4, *sched.Clock) {
	clk := sched.NewClock("test")
	cpu := sh4.NewSH4(clk, memory.NewRAM())
	return cpu, clk
}

// advance the clock, firing any events that fall due. the dispatch
// function stands in for a CPU that consumes cycles without executing
// anything.
func advance(clk *sched.Clock, to sched.CycleStamp) {
	clk.AttachDispatcher(func() bool {
		tgt := clk.TargetStamp()
		if tgt > to {
			tgt = to
		}
		clk.SetStamp(tgt)
		return false
	})

	for clk.Stamp() < to {
		clk.RunTimeslice()
	}
}

func TestUnderflow(t *testing.T) {
	cpu, clk := newTestCPU()
	oc := cpu.OnChip

	// let the timer interrupt through: highest priority for TMU0, no
	// masking in SR
	oc.Write16(0xffd00004, 0xf000)
	cpu.Reg[sh4.RegSR] &^= sh4.SRIMask | sh4.SRBLMask

	// channel 0: count 3, reload 3, divisor 4, interrupts on
	oc.Write32(addrTCNT0, 0x00000003)
	oc.Write32(addrTCOR0, 0x00000003)
	oc.Write16(addrTCR0, 0x0020) // UNIE, TPSC=0 (divide by 4)
	oc.Write8(addrTSTR, 0x01)

	// 16 SH4 cycles is more than enough for the three-count channel to
	// drain
	advance(clk, 16*clocks.SH4Scale)

	test.ExpectEquality(t, oc.Read16(addrTCR0)&0x0100, uint16(0x0100))
	test.ExpectEquality(t, oc.Read32(addrTCNT0), uint32(0x00000003))

	// the underflow interrupt reached the CPU: INTEVT holds the TUNI0
	// code after acceptance
	cpu.ServiceInterrupts()
	test.ExpectEquality(t, cpu.Reg[sh4.RegINTEVT], uint32(sh4.ExcpTMU0TUNI0))
}

// a full count-down: the counter spends N*D cycles reaching zero and
// underflows on the tick after, reloading and setting the flag exactly
// once
func TestUnderflowRoundTrip(t *testing.T) {
	const n = 100
	const d = 16 // TPSC=1

	cpu, clk := newTestCPU()
	oc := cpu.OnChip

	oc.Write32(addrTCNT0, n)
	oc.Write32(addrTCOR0, n)
	oc.Write16(addrTCR0, 0x0001) // divide by 16, no interrupt
	oc.Write8(addrTSTR, 0x01)

	advance(clk, (n+1)*d*clocks.SH4Scale)

	test.ExpectEquality(t, oc.Read16(addrTCR0)&0x0100, uint16(0x0100))
	test.ExpectEquality(t, oc.Read32(addrTCNT0), uint32(n))

	_ = cpu
}

func TestCountdownVisible(t *testing.T) {
	cpu, clk := newTestCPU()
	oc := cpu.OnChip

	oc.Write32(addrTCNT0, 1000)
	oc.Write32(addrTCOR0, 1000)
	oc.Write16(addrTCR0, 0x0000) // divide by 4
	oc.Write8(addrTSTR, 0x01)

	// 40 cycles = 10 channel ticks
	advance(clk, 40*clocks.SH4Scale)
	test.ExpectEquality(t, oc.Read32(addrTCNT0), uint32(990))

	// a read mid-interval never sees a stale count
	advance(clk, 42*clocks.SH4Scale)
	test.ExpectEquality(t, oc.Read32(addrTCNT0), uint32(990))
	advance(clk, 44*clocks.SH4Scale)
	test.ExpectEquality(t, oc.Read32(addrTCNT0), uint32(989))

	_ = cpu
}

func TestDisabledChannelHolds(t *testing.T) {
	cpu, clk := newTestCPU()
	oc := cpu.OnChip

	oc.Write32(addrTCNT0, 500)
	oc.Write16(addrTCR0, 0x0000)

	// channel never started; the count holds
	advance(clk, 10000*clocks.SH4Scale)
	test.ExpectEquality(t, oc.Read32(addrTCNT0), uint32(500))

	_ = cpu
}
