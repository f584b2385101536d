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

package maple

import (
	"encoding/binary"
	"sync/atomic"
)

// Button bit positions in the controller's button mask.
const (
	ButtonC uint16 = 1 << iota
	ButtonB
	ButtonA
	ButtonStart
	ButtonDpadUp
	ButtonDpadDown
	ButtonDpadLeft
	ButtonDpadRight
	ButtonZ
	ButtonY
	ButtonX
	ButtonD
	ButtonDpad2Up
	ButtonDpad2Down
	ButtonDpad2Left
	ButtonDpad2Right
)

// Axis identifiers for SetAxis.
const (
	AxisTrigR = iota
	AxisTrigL
	AxisJoyX
	AxisJoyY
	AxisJoy2X
	AxisJoy2Y
	AxisCount
)

// Controller is the standard Dreamcast pad: sixteen buttons (active low
// on the wire) and six analogue axes.
//
// Host input arrives on a different goroutine to the emulation, so the
// whole condition is packed into one atomic word: buttons in the low
// sixteen bits, the six axes in the rest. The GETCOND handler reads a
// single consistent snapshot.
type Controller struct {
	// bits 0-15 buttons (1 = pressed), 16-23 trigR, 24-31 trigL,
	// 32-39 jsX, 40-47 jsY, 48-55 jsX2, 56-63 jsY2
	state atomic.Uint64
}

// NewController is the preferred method of initialisation for the
// Controller type.
func NewController() *Controller {
	c := &Controller{}

	// sticks centred
	c.state.Store(uint64(0x80)<<32 | uint64(0x80)<<40 | uint64(0x80)<<48 | uint64(0x80)<<56)

	return c
}

// TypeName implements the Device interface.
func (c *Controller) TypeName() string {
	return "controller"
}

// Info implements the Device interface.
func (c *Controller) Info() DevInfo {
	return DevInfo{
		Func:         FuncController,
		FuncData:     [3]uint32{0xfe060f00, 0, 0},
		AreaCode:     0xff,
		Dir:          0,
		Name:         "Dreamcast Controller",
		License:      "Produced By or Under License From SEGA ENTERPRISES,LTD.",
		StandbyPower: 0x01ae,
		MaxPower:     0x01f4,
	}
}

// Cond implements the CondReader interface. Buttons are active low on the
// wire.
func (c *Controller) Cond() (uint32, []byte) {
	s := c.state.Load()

	var cond [8]byte
	binary.LittleEndian.PutUint16(cond[0:], ^uint16(s))
	cond[2] = uint8(s >> 16) // right trigger
	cond[3] = uint8(s >> 24) // left trigger
	cond[4] = uint8(s >> 32) // stick x
	cond[5] = uint8(s >> 40) // stick y
	cond[6] = uint8(s >> 48)
	cond[7] = uint8(s >> 56)

	return FuncController, cond[:]
}

// PressButtons sets bits in the button mask.
func (c *Controller) PressButtons(mask uint16) {
	for {
		old := c.state.Load()
		if c.state.CompareAndSwap(old, old|uint64(mask)) {
			return
		}
	}
}

// ReleaseButtons clears bits in the button mask.
func (c *Controller) ReleaseButtons(mask uint16) {
	for {
		old := c.state.Load()
		if c.state.CompareAndSwap(old, old&^uint64(mask)) {
			return
		}
	}
}

// SetAxis sets an analogue axis. Sticks centre at 0x80; triggers rest at
// zero.
func (c *Controller) SetAxis(axis int, value uint8) {
	if axis < 0 || axis >= AxisCount {
		return
	}
	shift := uint(16 + axis*8)

	for {
		old := c.state.Load()
		next := (old &^ (uint64(0xff) << shift)) | uint64(value)<<shift
		if c.state.CompareAndSwap(old, next) {
			return
		}
	}
}
