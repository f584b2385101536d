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
	"sync/atomic"
)

// PuruPuru is the rumble pack that slots into a controller. Games drive it
// with SETCOND (and some with BWRITE); the emulated pack just records the
// most recent rumble word for a host front-end to poll.
type PuruPuru struct {
	// the last rumble control word received. zero means idle
	rumble atomic.Uint32
}

// NewPuruPuru is the preferred method of initialisation for the PuruPuru
// type.
func NewPuruPuru() *PuruPuru {
	return &PuruPuru{}
}

// TypeName implements the Device interface.
func (p *PuruPuru) TypeName() string {
	return "purupuru"
}

// Info implements the Device interface.
func (p *PuruPuru) Info() DevInfo {
	return DevInfo{
		Func:         FuncPuruPuru,
		FuncData:     [3]uint32{0x00000101, 0, 0},
		AreaCode:     0xff,
		Dir:          0,
		Name:         "Puru Puru Pack",
		License:      "Produced By or Under License From SEGA ENTERPRISES,LTD.",
		StandbyPower: 0x00c8,
		MaxPower:     0x0640,
	}
}

// SetCond implements the CondWriter interface. The first word is the
// function code; the second carries the vibration parameters.
func (p *PuruPuru) SetCond(data []uint32) {
	if len(data) >= 2 && data[0] == FuncPuruPuru {
		p.rumble.Store(data[1])
	}
}

// BWrite implements the BlockWriter interface. Some games configure the
// pack through block writes instead of SETCOND.
func (p *PuruPuru) BWrite(data []uint32) {
	if len(data) >= 3 && data[0] == FuncPuruPuru {
		p.rumble.Store(data[2])
	}
}

// Rumble returns the most recent rumble control word. For host front-ends
// with force feedback.
func (p *PuruPuru) Rumble() uint32 {
	return p.rumble.Load()
}
