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

package memory

import (
	"encoding/binary"
	"math"
	"os"

	"github.com/gophercast/gophercast/curated"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/logger"
)

// Flash is the 128KiB flash image holding the console's settings and the
// save data the firmware manages. Unlike the boot ROM it is writeable.
//
// The image is the user's property so it is flushed back to the host file
// whenever the guest writes to it, not just at shutdown. The flush is
// lazy: at most one per frame (see the Flush function).
type Flash struct {
	Data []byte

	path  string
	dirty bool
}

// NewFlash loads the flash image from the host file at path. A missing file
// is not an error; the flash starts out blank (all 0xff, as erased flash
// reads on real hardware).
func NewFlash(path string) (*Flash, error) {
	f := &Flash{
		path: path,
		Data: make([]byte, addresses.FlashSize),
	}

	for i := range f.Data {
		f.Data[i] = 0xff
	}

	d, err := os.ReadFile(path)
	if err != nil {
		logger.Logf(logger.Allow, "flash", "no flash image at %s; starting blank", path)
		return f, nil
	}

	if len(d) != addresses.FlashSize {
		return nil, curated.Errorf("flash: %v",
			curated.Errorf("file is %d bytes; expected %d", len(d), addresses.FlashSize))
	}

	copy(f.Data, d)
	logger.Logf(logger.Allow, "flash", "loaded %d bytes from %s", len(d), path)

	return f, nil
}

// Flush writes the flash image back to the host file if the guest has
// written to it since the last flush. Called at frame boundaries and at
// shutdown; also called on the error path because the image is the user's
// property.
func (f *Flash) Flush() error {
	if !f.dirty || f.path == "" {
		return nil
	}
	f.dirty = false

	if err := os.WriteFile(f.path, f.Data, 0644); err != nil {
		return curated.Errorf("flash: %v", err)
	}

	return nil
}

// Read8 implements the memorymap.DeviceIO interface.
func (f *Flash) Read8(addr uint32) uint8 {
	return f.Data[addr]
}

// Read16 implements the memorymap.DeviceIO interface.
func (f *Flash) Read16(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(f.Data[addr:])
}

// Read32 implements the memorymap.DeviceIO interface.
func (f *Flash) Read32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(f.Data[addr:])
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (f *Flash) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(f.Read32(addr))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (f *Flash) ReadDouble(addr uint32) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(f.Data[addr:]))
}

// Write8 implements the memorymap.DeviceIO interface.
func (f *Flash) Write8(addr uint32, val uint8) {
	f.Data[addr] = val
	f.dirty = true
}

// Write16 implements the memorymap.DeviceIO interface.
func (f *Flash) Write16(addr uint32, val uint16) {
	binary.LittleEndian.PutUint16(f.Data[addr:], val)
	f.dirty = true
}

// Write32 implements the memorymap.DeviceIO interface.
func (f *Flash) Write32(addr uint32, val uint32) {
	binary.LittleEndian.PutUint32(f.Data[addr:], val)
	f.dirty = true
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (f *Flash) WriteFloat(addr uint32, val float32) {
	f.Write32(addr, math.Float32bits(val))
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (f *Flash) WriteDouble(addr uint32, val float64) {
	binary.LittleEndian.PutUint64(f.Data[addr:], math.Float64bits(val))
	f.dirty = true
}
