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

// Package sdlinput translates SDL keyboard events into Dreamcast
// controller state. A window is required for SDL to deliver keyboard
// focus; the caller owns it.
package sdlinput

import (
	"github.com/veandco/go-sdl2/sdl"

	"github.com/gophercast/gophercast/hardware"
	"github.com/gophercast/gophercast/hardware/maple"
)

// keyboard layout for the port-A controller.
var keyMap = map[sdl.Keycode]uint16{
	sdl.K_RETURN: maple.ButtonStart,
	sdl.K_z:      maple.ButtonA,
	sdl.K_x:      maple.ButtonB,
	sdl.K_a:      maple.ButtonX,
	sdl.K_s:      maple.ButtonY,
	sdl.K_UP:     maple.ButtonDpadUp,
	sdl.K_DOWN:   maple.ButtonDpadDown,
	sdl.K_LEFT:   maple.ButtonDpadLeft,
	sdl.K_RIGHT:  maple.ButtonDpadRight,
}

// Input polls SDL events and forwards them to the machine's input entry
// points. Service() must be called from the main OS thread, as SDL
// requires.
type Input struct {
	dc *hardware.Dreamcast
}

// NewInput is the preferred method of initialisation for the Input type.
func NewInput(dc *hardware.Dreamcast) (*Input, error) {
	if err := sdl.InitSubSystem(sdl.INIT_EVENTS); err != nil {
		return nil, err
	}
	return &Input{dc: dc}, nil
}

// Service drains the SDL event queue. Returns false when the user has
// asked to quit.
func (inp *Input) Service() bool {
	for ev := sdl.PollEvent(); ev != nil; ev = sdl.PollEvent() {
		switch ev := ev.(type) {
		case *sdl.QuitEvent:
			return false

		case *sdl.KeyboardEvent:
			mask, ok := keyMap[ev.Keysym.Sym]
			if !ok {
				// triggers ride on the shift keys
				switch ev.Keysym.Sym {
				case sdl.K_q:
					inp.axis(maple.AxisTrigL, ev.State == sdl.PRESSED)
				case sdl.K_w:
					inp.axis(maple.AxisTrigR, ev.State == sdl.PRESSED)
				}
				continue
			}

			if ev.State == sdl.PRESSED {
				inp.dc.PressButtons(0, mask)
			} else {
				inp.dc.ReleaseButtons(0, mask)
			}
		}
	}

	return true
}

func (inp *Input) axis(axis int, pressed bool) {
	v := uint8(0)
	if pressed {
		v = 0xff
	}
	inp.dc.SetAxis(0, axis, v)
}
