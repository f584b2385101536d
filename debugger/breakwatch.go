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

package debugger

import (
	"fmt"
	"strings"
	"time"

	"github.com/gophercast/gophercast/curated"
)

// how long the parked emulation goroutine sleeps between polls of the
// resume flags.
func sleepQuantum() {
	time.Sleep(time.Second / 100)
}

// SetBreakpoint installs a PC breakpoint in a free slot. Installing the
// same address twice is a no-op.
func (dbg *Debugger) SetBreakpoint(addr uint32) error {
	for i := range dbg.breakpoints {
		b := &dbg.breakpoints[i]
		if b.enabled && b.addr == addr {
			return nil
		}
	}

	for i := range dbg.breakpoints {
		b := &dbg.breakpoints[i]
		if !b.enabled {
			b.addr = addr
			b.enabled = true
			return nil
		}
	}

	return curated.Errorf("debugger: no free breakpoint slots")
}

// ClearBreakpoint removes the breakpoint at the address.
func (dbg *Debugger) ClearBreakpoint(addr uint32) {
	for i := range dbg.breakpoints {
		b := &dbg.breakpoints[i]
		if b.enabled && b.addr == addr {
			b.enabled = false
		}
	}
}

// SetWatchpoint installs a watchpoint covering length bytes from addr.
// The write argument selects the write table, otherwise reads are
// watched.
func (dbg *Debugger) SetWatchpoint(addr uint32, length uint32, write bool) error {
	table := &dbg.rWatch
	if write {
		table = &dbg.wWatch
	}

	for i := range table {
		w := &table[i]
		if !w.enabled {
			w.addr = addr
			w.length = length
			w.enabled = true
			return nil
		}
	}

	return curated.Errorf("debugger: no free watchpoint slots")
}

// ClearWatchpoint removes the watchpoint at the address.
func (dbg *Debugger) ClearWatchpoint(addr uint32, write bool) {
	table := &dbg.rWatch
	if write {
		table = &dbg.wWatch
	}

	for i := range table {
		w := &table[i]
		if w.enabled && w.addr == addr {
			w.enabled = false
		}
	}
}

// List prints the installed break and watch points.
func (dbg *Debugger) List() string {
	s := strings.Builder{}

	for i, b := range dbg.breakpoints {
		if b.enabled {
			s.WriteString(fmt.Sprintf("break %2d: %08x\n", i, b.addr))
		}
	}
	for i, w := range dbg.rWatch {
		if w.enabled {
			s.WriteString(fmt.Sprintf("rwatch %2d: %08x +%d\n", i, w.addr, w.length))
		}
	}
	for i, w := range dbg.wWatch {
		if w.enabled {
			s.WriteString(fmt.Sprintf("wwatch %2d: %08x +%d\n", i, w.addr, w.length))
		}
	}

	if s.Len() == 0 {
		return "no break or watch points\n"
	}
	return s.String()
}
