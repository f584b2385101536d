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

package aica

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/logger"
)

// register offsets within the RTC window.
const (
	rtcAddrHigh   = 0x0
	rtcAddrLow    = 0x4
	rtcAddrEnable = 0x8
)

// RTC is the AICA's battery-backed clock: a 32-bit seconds counter since
// the Dreamcast epoch, exposed as two 16-bit halves plus a write-enable
// register. A single scheduler event with a one second period drives it.
//
// The value is persisted across runs in a text file holding one ASCII
// decimal integer.
type RTC struct {
	clk *sched.Clock

	// seconds since the Dreamcast epoch (1st January 1950)
	seconds uint32

	// writes to the count registers are ignored unless the guest has set
	// the write-enable bit
	writeEnable bool

	path string

	event sched.Event
}

// NewRTC is the preferred method of initialisation for the RTC type. The
// clock state is loaded from the file at path; a missing or malformed
// file starts the clock at zero.
func NewRTC(clk *sched.Clock, path string) *RTC {
	rtc := &RTC{
		clk:  clk,
		path: path,
	}
	rtc.event.Handler = rtc.tick

	if d, err := os.ReadFile(path); err == nil {
		s := strings.Fields(string(d))
		if len(s) > 0 {
			if v, err := strconv.ParseUint(s[0], 10, 32); err == nil {
				rtc.seconds = uint32(v)
			}
		}
	}

	if rtc.seconds == 0 {
		logger.Log(logger.Allow, "rtc", "no saved clock state; starting at zero")
	}

	rtc.schedule()

	return rtc
}

// Save persists the clock state. Called at shutdown.
func (rtc *RTC) Save() error {
	if rtc.path == "" {
		return nil
	}
	return os.WriteFile(rtc.path, []byte(fmt.Sprintf("%d\n", rtc.seconds)), 0644)
}

// Seconds returns the current counter value.
func (rtc *RTC) Seconds() uint32 {
	return rtc.seconds
}

func (rtc *RTC) tick(ev *sched.Event) {
	rtc.seconds++
	rtc.schedule()
}

func (rtc *RTC) schedule() {
	rtc.event.When = rtc.clk.Stamp() + clocks.SchedFrequency
	rtc.clk.Schedule(&rtc.event)
}

func (rtc *RTC) read(addr uint32) uint32 {
	switch addr & 0xf {
	case rtcAddrHigh:
		return rtc.seconds >> 16
	case rtcAddrLow:
		return rtc.seconds & 0xffff
	case rtcAddrEnable:
		if rtc.writeEnable {
			return 1
		}
		return 0
	}

	panic(fault.Record{
		Kind:    fault.Integrity,
		Address: addr,
		Feature: "access to nonexistent RTC register",
		Context: "aica rtc",
	})
}

func (rtc *RTC) write(addr uint32, val uint32) {
	switch addr & 0xf {
	case rtcAddrHigh:
		if !rtc.writeEnable {
			return
		}
		rtc.seconds = val<<16 | rtc.seconds&0xffff
	case rtcAddrLow:
		if !rtc.writeEnable {
			return
		}
		rtc.seconds = val&0xffff | rtc.seconds&^uint32(0xffff)

		// restart the countdown so the just-written value stands for a
		// full second
		rtc.clk.Cancel(&rtc.event)
		rtc.schedule()
	case rtcAddrEnable:
		rtc.writeEnable = val&1 != 0
	default:
		panic(fault.Record{
			Kind:    fault.Integrity,
			Address: addr,
			Feature: "access to nonexistent RTC register",
			Context: "aica rtc",
		})
	}
}

func (rtc *RTC) badWidth(addr uint32, length int) {
	panic(fault.Record{
		Kind:           fault.Integrity,
		Address:        addr,
		Length:         length,
		ExpectedLength: 4,
		Feature:        "RTC registers are 32-bit only",
		Context:        "aica rtc",
	})
}

// Read8 implements the memorymap.DeviceIO interface.
func (rtc *RTC) Read8(addr uint32) uint8 {
	rtc.badWidth(addr, 1)
	return 0
}

// Read16 implements the memorymap.DeviceIO interface.
func (rtc *RTC) Read16(addr uint32) uint16 {
	rtc.badWidth(addr, 2)
	return 0
}

// Read32 implements the memorymap.DeviceIO interface.
func (rtc *RTC) Read32(addr uint32) uint32 {
	return rtc.read(addr)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (rtc *RTC) ReadFloat(addr uint32) float32 {
	rtc.badWidth(addr, 4)
	return 0
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (rtc *RTC) ReadDouble(addr uint32) float64 {
	rtc.badWidth(addr, 8)
	return 0
}

// Write8 implements the memorymap.DeviceIO interface.
func (rtc *RTC) Write8(addr uint32, val uint8) {
	rtc.badWidth(addr, 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (rtc *RTC) Write16(addr uint32, val uint16) {
	rtc.badWidth(addr, 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (rtc *RTC) Write32(addr uint32, val uint32) {
	rtc.write(addr, val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (rtc *RTC) WriteFloat(addr uint32, val float32) {
	rtc.badWidth(addr, 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (rtc *RTC) WriteDouble(addr uint32, val float64) {
	rtc.badWidth(addr, 8)
}
