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
	"sync"
)

// Keyboard is the Dreamcast keyboard: six-key rollover plus a modifier
// byte, reported through GETCOND. Key values are the usual USB-style
// usage codes.
type Keyboard struct {
	crit sync.Mutex

	mods uint8
	leds uint8
	keys [6]uint8
}

// NewKeyboard is the preferred method of initialisation for the Keyboard
// type.
func NewKeyboard() *Keyboard {
	return &Keyboard{}
}

// TypeName implements the Device interface.
func (k *Keyboard) TypeName() string {
	return "keyboard"
}

// Info implements the Device interface.
func (k *Keyboard) Info() DevInfo {
	return DevInfo{
		Func:         FuncKeyboard,
		FuncData:     [3]uint32{0x80000502, 0, 0},
		AreaCode:     0x01,
		Dir:          0,
		Name:         "Keyboard",
		License:      "Produced By or Under License From SEGA ENTERPRISES,LTD.",
		StandbyPower: 0x012c,
		MaxPower:     0x0190,
	}
}

// Cond implements the CondReader interface.
func (k *Keyboard) Cond() (uint32, []byte) {
	k.crit.Lock()
	defer k.crit.Unlock()

	var cond [8]byte
	cond[0] = k.mods
	cond[1] = k.leds
	copy(cond[2:], k.keys[:])

	return FuncKeyboard, cond[:]
}

// KeyDown adds a key to the rollover set. With all six slots full the new
// key is dropped, as on the real peripheral.
func (k *Keyboard) KeyDown(code uint8) {
	k.crit.Lock()
	defer k.crit.Unlock()

	for _, c := range k.keys {
		if c == code {
			return
		}
	}
	for i, c := range k.keys {
		if c == 0 {
			k.keys[i] = code
			return
		}
	}
}

// KeyUp removes a key from the rollover set.
func (k *Keyboard) KeyUp(code uint8) {
	k.crit.Lock()
	defer k.crit.Unlock()

	for i, c := range k.keys {
		if c == code {
			k.keys[i] = 0
		}
	}
}

// SetModifiers replaces the modifier byte.
func (k *Keyboard) SetModifiers(mods uint8) {
	k.crit.Lock()
	defer k.crit.Unlock()
	k.mods = mods
}
