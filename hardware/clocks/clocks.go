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

// Package clocks defines the constant values that define the speed of the
// clocks in the Dreamcast console.
//
// The scheduler frequency is the least common multiple of the SH4 clock
// (200MHz) and the SPG pixel clock (13.5MHz). It also divides cleanly by the
// ARM7 clock (45MHz). Scheduler events are stamped at this frequency; each
// CPU advances its clock by a whole number of scheduler ticks per native
// cycle.
package clocks

// SchedFrequency is the frequency of the cycle-stamp counter used by the
// event schedulers. 5.4GHz.
const SchedFrequency = 5400000000

// native clock frequencies of the two CPUs.
const (
	SH4Frequency  = 200000000
	ARM7Frequency = 45000000
)

// the number of scheduler ticks in one native CPU cycle.
const (
	SH4Scale  = SchedFrequency / SH4Frequency  // 27
	ARM7Scale = SchedFrequency / ARM7Frequency // 120
)
