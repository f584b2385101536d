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

// Package pvr models the slice of the PVR2 graphics chip that the core
// needs: the sync pulse generator that turns the pixel clock into
// scanline and vertical-blank events, and the two register windows.
// Rasterisation is an external collaborator reached through the
// hardware.FramebufferRenderer interface.
package pvr

import (
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sysblock"
)

// NTSC timing: 525 lines per frame at a 13.5MHz pixel clock, 858 pixel
// clocks per line.
const (
	linesPerFrame  = 525
	pixelClock     = 13500000
	clocksPerLine  = 858
	ticksPerPixel  = clocks.SchedFrequency / pixelClock
	ticksPerLine   = ticksPerPixel * clocksPerLine

	// the line at which vertical blank begins
	vblankInLine  = 480
	vblankOutLine = 508
)

// PreVBlankNotifiee is told shortly before each vertical blank. The maple
// bus uses this to start vblank-triggered DMA so that responses are ready
// before the guest's vblank handler runs.
type PreVBlankNotifiee interface {
	NotifyPreVBlank()
}

// SPG is the sync pulse generator: a per-scanline scheduler event that
// raises the blanking interrupts and ends the frame. Use NewSPG() to
// initialise.
type SPG struct {
	clk *sched.Clock
	sb  *sysblock.SysBlock

	// current scanline, 0 to linesPerFrame-1
	line int

	// frame count since power on
	frame uint64

	preVBlank []PreVBlankNotifiee

	// EndOfFrame is called from the vblank-in handler. the frame driver
	// uses it to raise the end-of-frame flag
	EndOfFrame func()

	event sched.Event
}

// NewSPG is the preferred method of initialisation for the SPG type.
// Scanline events begin immediately.
func NewSPG(clk *sched.Clock, sb *sysblock.SysBlock) *SPG {
	spg := &SPG{
		clk: clk,
		sb:  sb,
	}
	spg.event.Handler = spg.scanline
	spg.schedule()
	return spg
}

// AddPreVBlankNotifiee registers for the pre-vblank notification.
func (spg *SPG) AddPreVBlankNotifiee(n PreVBlankNotifiee) {
	spg.preVBlank = append(spg.preVBlank, n)
}

// Line returns the current scanline.
func (spg *SPG) Line() int {
	return spg.line
}

// Frame returns the number of completed frames.
func (spg *SPG) Frame() uint64 {
	return spg.frame
}

func (spg *SPG) schedule() {
	spg.event.When = spg.clk.Stamp() + ticksPerLine
	spg.clk.Schedule(&spg.event)
}

func (spg *SPG) scanline(ev *sched.Event) {
	spg.line++
	if spg.line >= linesPerFrame {
		spg.line = 0
	}

	switch spg.line {
	case vblankInLine - 1:
		for _, n := range spg.preVBlank {
			n.NotifyPreVBlank()
		}
	case vblankInLine:
		spg.frame++
		spg.sb.RaiseNormal(sysblock.IntVBlankIn)
		if spg.EndOfFrame != nil {
			spg.EndOfFrame()
		}
	case vblankOutLine:
		spg.sb.RaiseNormal(sysblock.IntVBlankOut)
	}

	spg.sb.RaiseNormal(sysblock.IntHBlank)

	spg.schedule()
}
