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
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/logger"
)

// BootROM is the 2MiB firmware image at the bottom of area 0. It is
// strictly read-only; a guest write is an invariant violation rather than a
// guest-visible error because nothing legitimate ever stores to it.
type BootROM struct {
	Data []byte
}

// NewBootROM loads the firmware image from the host file at path.
func NewBootROM(path string) (*BootROM, error) {
	d, err := os.ReadFile(path)
	if err != nil {
		return nil, curated.Errorf("bootrom: %v", err)
	}

	if len(d) != addresses.BIOSSize {
		return nil, curated.Errorf("bootrom: %v",
			curated.Errorf("file is %d bytes; expected %d", len(d), addresses.BIOSSize))
	}

	logger.Logf(logger.Allow, "bootrom", "loaded %d bytes from %s", len(d), path)

	return &BootROM{Data: d}, nil
}

func (rom *BootROM) write(addr uint32, length int) {
	panic(fault.Record{
		Kind:    fault.Integrity,
		Address: addr,
		Length:  length,
		Feature: "write to read-only boot ROM",
		Context: "bootrom",
	})
}

// Read8 implements the memorymap.DeviceIO interface.
func (rom *BootROM) Read8(addr uint32) uint8 {
	return rom.Data[addr]
}

// Read16 implements the memorymap.DeviceIO interface.
func (rom *BootROM) Read16(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(rom.Data[addr:])
}

// Read32 implements the memorymap.DeviceIO interface.
func (rom *BootROM) Read32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(rom.Data[addr:])
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (rom *BootROM) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(rom.Read32(addr))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (rom *BootROM) ReadDouble(addr uint32) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(rom.Data[addr:]))
}

// Write8 implements the memorymap.DeviceIO interface.
func (rom *BootROM) Write8(addr uint32, _ uint8) {
	rom.write(addr, 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (rom *BootROM) Write16(addr uint32, _ uint16) {
	rom.write(addr, 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (rom *BootROM) Write32(addr uint32, _ uint32) {
	rom.write(addr, 4)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (rom *BootROM) WriteFloat(addr uint32, _ float32) {
	rom.write(addr, 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (rom *BootROM) WriteDouble(addr uint32, _ float64) {
	rom.write(addr, 8)
}
