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
)

// function codes identifying device capabilities in DEVINFO responses and
// function-addressed commands.
const (
	FuncController = 0x01000000
	FuncMemCard    = 0x02000000
	FuncLCD        = 0x04000000
	FuncClock      = 0x08000000
	FuncKeyboard   = 0x40000000
	FuncPuruPuru   = 0x00010000
)

// DevInfo is a device's answer to the DEVINFO command.
type DevInfo struct {
	Func     uint32
	FuncData [3]uint32
	AreaCode uint8
	Dir      uint8

	// padded with spaces on the wire, not NULs
	Name    string
	License string

	StandbyPower uint16
	MaxPower     uint16
}

// wire sizes.
const (
	devInfoSize = 4 + 4*3 + 1 + 1 + devNameLen + devLicenseLen + 2 + 2

	devNameLen    = 30
	devLicenseLen = 60
)

// compile serialises the DevInfo into its wire form.
func (di *DevInfo) compile(out []byte) int {
	binary.LittleEndian.PutUint32(out[0:], di.Func)
	for i, fd := range di.FuncData {
		binary.LittleEndian.PutUint32(out[4+i*4:], fd)
	}
	out[16] = di.AreaCode
	out[17] = di.Dir

	padString(out[18:18+devNameLen], di.Name)
	padString(out[48:48+devLicenseLen], di.License)

	binary.LittleEndian.PutUint16(out[108:], di.StandbyPower)
	binary.LittleEndian.PutUint16(out[110:], di.MaxPower)

	return devInfoSize
}

func padString(out []byte, s string) {
	for i := range out {
		if i < len(s) {
			out[i] = s[i]
		} else {
			out[i] = ' '
		}
	}
}

// Device is a peripheral plugged into a maple port. Every device answers
// DEVINFO; everything beyond that is an optional capability expressed as a
// further interface. A command arriving for a capability the device does
// not implement is logged and answered with zeroed data rather than
// treated as an error, matching how the real bus tolerates half-hearted
// third-party peripherals.
type Device interface {
	// TypeName is used for logging only
	TypeName() string

	Info() DevInfo
}

// CondReader is implemented by devices that answer GETCOND (controllers,
// keyboards).
type CondReader interface {
	// Cond returns the function code and the function-specific condition
	// words
	Cond() (uint32, []byte)
}

// CondWriter is implemented by devices that accept SETCOND (the rumble
// pack).
type CondWriter interface {
	SetCond(data []uint32)
}

// BlockWriter is implemented by devices with writable block storage or
// write-addressed functions (VMU storage and LCD, rumble).
type BlockWriter interface {
	BWrite(data []uint32)
}

// BlockReader is implemented by devices with readable block storage (VMU).
// The location word is passed through as the guest sent it; the device
// knows its own partition/phase/block packing.
type BlockReader interface {
	BRead(loc uint32) []byte
}

// BlockSyncer is implemented by storage devices that want to know when the
// guest has finished a write burst (VMU flushes to its host file).
type BlockSyncer interface {
	BSync()
}

// MemInfoProvider is implemented by storage devices that answer MEMINFO.
type MemInfoProvider interface {
	MemInfo() []byte
}
