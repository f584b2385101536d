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

package sh4

import (
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/hardware/sched"
)

// The timer unit: three independent down-counters driven by a
// software-selected division of the peripheral clock. Rather than ticking
// the counters per cycle, each channel keeps an accumulated residue and is
// synchronised on demand: before any observable register access and from
// its own scheduled underflow event. No register read or write can ever see
// a stale counter.

// tmuCycle counts the TMU's input clock, which ticks once per SH4 cycle;
// the per-channel divisor does the rest.
type tmuCycle uint64

// TMU is the SH4's three-channel timer unit. Initialised with init() from
// NewSH4().
type TMU struct {
	sh4 *SH4

	// residue of input-clock cycles not yet applied to each counter, in
	// units of the channel's divisor
	accum [3]tmuCycle

	// the TMU timestamp each channel was last synchronised at
	lastSync [3]tmuCycle

	// set by sync() when the counter wrapped; consumed by the event
	// handler which raises the interrupt
	unf [3]bool

	// guards against double-booking a channel's event
	scheduled [3]bool

	events [3]sched.Event
}

// register index lookup tables, indexed by channel.
var tmuTCR = [3]RegIdx{RegTCR0, RegTCR1, RegTCR2}
var tmuTCNT = [3]RegIdx{RegTCNT0, RegTCNT1, RegTCNT2}
var tmuTCOR = [3]RegIdx{RegTCOR0, RegTCOR1, RegTCOR2}

var tmuIRQ = [3]IRQLine{IRQTMU0, IRQTMU1, IRQTMU2}
var tmuCode = [3]ExceptionCode{ExcpTMU0TUNI0, ExcpTMU1TUNI1, ExcpTMU2TUNI2}

func (tmu *TMU) init(sh4 *SH4) {
	tmu.sh4 = sh4
	for ch := 0; ch < 3; ch++ {
		tmu.events[ch].Ctxt = ch
		tmu.events[ch].Handler = tmu.eventHandler
	}
}

func (tmu *TMU) stamp() tmuCycle {
	return tmuCycle(tmu.sh4.Cycles())
}

func (tmu *TMU) chanEnabled(ch int) bool {
	return tmu.sh4.Reg[RegTSTR]&(1<<ch) != 0
}

func (tmu *TMU) chanIntEnabled(ch int) bool {
	return tmu.sh4.Reg[tmuTCR[ch]]&TCRUNIEMask != 0
}

// the number of SH4 cycles in one channel tick.
func (tmu *TMU) chanDiv(ch int) tmuCycle {
	switch tmu.sh4.Reg[tmuTCR[ch]] & TCRTPSCMask {
	case 0:
		return 4
	case 1:
		return 16
	case 2:
		return 64
	case 3:
		return 256
	case 4:
		return 1024
	}

	// external and RTC clock sources aren't wired to anything
	panic(fault.Record{
		Kind:    fault.InvalidParam,
		Feature: "TMU clock source other than the peripheral clock",
		Context: "sh4 tmu",
	})
}

// sync brings a channel's counter up to date with the current clock stamp.
// It updates TCNT and sets the unf flag on underflow; it does not raise
// interrupts. Must be called before any observable access to the channel's
// registers.
func (tmu *TMU) sync(ch int) {
	cur := tmu.stamp()
	elapsed := cur - tmu.lastSync[ch]
	tmu.lastSync[ch] = cur

	if elapsed == 0 {
		return
	}

	if !tmu.chanEnabled(ch) {
		return
	}

	div := tmu.chanDiv(ch)
	tmu.accum[ch] += elapsed

	if tmu.accum[ch] >= div {
		ticks := tmu.accum[ch] / div
		tcnt := tmuCycle(tmu.sh4.Reg[tmuTCNT[ch]])

		// the counter underflows on the tick after it drains
		if ticks > tcnt {
			tmu.unf[ch] = true
			tmu.sh4.Reg[tmuTCNT[ch]] = tmu.sh4.Reg[tmuTCOR[ch]]
			tmu.sh4.Reg[tmuTCR[ch]] |= TCRUNFMask
		} else {
			tmu.sh4.Reg[tmuTCNT[ch]] = uint32(tcnt - ticks)
		}
		tmu.accum[ch] %= div
	}
}

// nextEvent returns the number of TMU cycles until the channel's next
// underflow, assuming current conditions hold. Callers must sync first.
func (tmu *TMU) nextEvent(ch int) tmuCycle {
	div := tmu.chanDiv(ch)

	n := (tmuCycle(tmu.sh4.Reg[tmuTCNT[ch]]) + 1) * div
	if n <= tmu.accum[ch] {
		return 1
	}
	return n - tmu.accum[ch]
}

// scheduleNext books the channel's next underflow event. The event is
// booked even when the channel's interrupt is masked: an underflow still
// has to reload TCNT and set the flag on time.
func (tmu *TMU) scheduleNext(ch int) {
	if !tmu.chanEnabled(ch) {
		tmu.scheduled[ch] = false
		return
	}

	ev := &tmu.events[ch]
	ev.When = sched.CycleStamp(
		(uint64(tmu.nextEvent(ch)) +
			uint64(tmu.sh4.Clk.Stamp())/clocks.SH4Scale) *
			clocks.SH4Scale)
	tmu.scheduled[ch] = true
	tmu.sh4.Clk.Schedule(ev)
}

func (tmu *TMU) unschedule(ch int) {
	tmu.sh4.Clk.Cancel(&tmu.events[ch])
	tmu.scheduled[ch] = false
}

func (tmu *TMU) eventHandler(ev *sched.Event) {
	ch := ev.Ctxt.(int)
	tmu.scheduled[ch] = false

	tmu.sync(ch)
	tmu.scheduleNext(ch)

	if tmu.unf[ch] {
		tmu.unf[ch] = false
		tmu.sh4.Reg[tmuTCR[ch]] |= TCRUNFMask

		if tmu.chanIntEnabled(ch) {
			tmu.sh4.SetInterrupt(tmuIRQ[ch], tmuCode[ch])
		}
	}
}

// on-chip register handlers. each one syncs before the access so no stale
// counter value is ever observable, and re-books the channel's event after
// anything that could change when the next underflow is due.

func regTOCRRead(sh4 *SH4, reg *onChipReg) uint32 {
	// TCLK is not connected as an output on the Dreamcast
	return 1
}

func regTOCRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	sh4.Reg[RegTOCR] = 1
}

func regTSTRRead(sh4 *SH4, reg *onChipReg) uint32 {
	return sh4.Reg[RegTSTR]
}

func regTSTRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	tmu := &sh4.TMU
	next := val & 7

	// sync each channel whose start bit is changing before TSTR takes its
	// new value. without this the next sync would apply the whole elapsed
	// period as if the new start state had been in effect throughout
	for ch := 0; ch < 3; ch++ {
		mask := uint32(1) << ch
		if (sh4.Reg[RegTSTR]&mask)^(next&mask) == 0 {
			continue
		}

		tmu.sync(ch)
		tmu.accum[ch] = 0
	}

	sh4.Reg[RegTSTR] = next

	for ch := 0; ch < 3; ch++ {
		tmu.sync(ch)
		if tmu.scheduled[ch] {
			tmu.unschedule(ch)
		}
		tmu.scheduleNext(ch)
	}
}

func tmuChanForReg(idx RegIdx) int {
	switch idx {
	case RegTCR0, RegTCNT0, RegTCOR0:
		return 0
	case RegTCR1, RegTCNT1, RegTCOR1:
		return 1
	case RegTCR2, RegTCNT2, RegTCOR2:
		return 2
	}

	panic(fault.Record{
		Kind:    fault.InvalidParam,
		Feature: "TMU handler attached to a non-TMU register",
		Context: "sh4 tmu",
	})
}

func regTCRRead(sh4 *SH4, reg *onChipReg) uint32 {
	ch := tmuChanForReg(reg.slot)
	sh4.TMU.sync(ch)
	return sh4.Reg[reg.slot]
}

func regTCRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	tmu := &sh4.TMU
	ch := tmuChanForReg(reg.slot)

	tmu.sync(ch)

	old := sh4.Reg[reg.slot]
	next := val

	// the flag bits can be cleared by software but never set
	if next&TCRUNFMask != 0 && old&TCRUNFMask == 0 {
		next &^= TCRUNFMask
	}
	if next&TCRICPFMask != 0 && old&TCRICPFMask == 0 {
		next &^= TCRICPFMask
	}

	if old&TCRTPSCMask != next&TCRTPSCMask {
		// changing clock source; accumulated ticks are meaningless
		tmu.accum[ch] = 0
	}

	sh4.Reg[reg.slot] = next

	tmu.sync(ch)

	if tmu.scheduled[ch] {
		tmu.unschedule(ch)
	}
	tmu.scheduleNext(ch)
}

func regTCNTRead(sh4 *SH4, reg *onChipReg) uint32 {
	ch := tmuChanForReg(reg.slot)
	sh4.TMU.sync(ch)
	return sh4.Reg[reg.slot]
}

func regTCNTWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	tmu := &sh4.TMU
	ch := tmuChanForReg(reg.slot)

	tmu.sync(ch)
	sh4.Reg[reg.slot] = val
	tmu.sync(ch)

	if tmu.scheduled[ch] {
		tmu.unschedule(ch)
	}
	tmu.scheduleNext(ch)
}
