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

// Package gdrom implements the GD-ROM drive's ATA-style register block.
// The drive consumes a disc through the narrow Disc interface; parsing
// GDI file sets into tracks is someone else's job.
package gdrom

import (
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/logger"
)

// Disc is a mounted disc image. Sectors are 2048-byte mode-1 payloads
// addressed by absolute FAD.
type Disc interface {
	// ReadSector fills buf with the 2048-byte payload of the sector at
	// fad
	ReadSector(fad uint32, buf []byte) error

	// TrackCount returns the number of tracks across both sessions
	TrackCount() int

	// LeadOut returns the FAD of the lead-out area
	LeadOut() uint32
}

// ATA-ish register offsets relative to the GD-ROM window base.
const (
	regAltStatus   = 0x18
	regData        = 0x80
	regError       = 0x84
	regIntReason   = 0x84
	regSectNum     = 0x88
	regByteCountLo = 0x90
	regByteCountHi = 0x94
	regDriveSel    = 0x98
	regStatus      = 0x9c
	regCommand     = 0x9c
)

// status bits.
const (
	statusCheck = 1 << 0
	statusDRQ   = 1 << 3
	statusDSC   = 1 << 4
	statusDRDY  = 1 << 6
	statusBSY   = 1 << 7
)

// GDROM is the drive: register state plus the mounted disc. Use
// NewGDROM() to initialise.
type GDROM struct {
	disc Disc

	// register state
	status    uint8
	intReason uint8
	sectNum   uint8
	byteCount uint16
	driveSel  uint8

	// the data-transfer buffer for packet commands
	xfer    []byte
	xferPos int
}

// NewGDROM is the preferred method of initialisation for the GDROM type.
// A nil disc means an empty drive tray.
func NewGDROM(disc Disc) *GDROM {
	g := &GDROM{
		disc:   disc,
		status: statusDRDY | statusDSC,
	}

	// sector-number register holds the disc type and tray status
	if disc != nil {
		g.sectNum = 0x80 | 0x02 // GD-ROM, standby
	} else {
		g.sectNum = 0x06 // tray open
	}

	return g
}

func (g *GDROM) read(addr uint32, length int) uint32 {
	switch addr & 0xff {
	case regAltStatus:
		return uint32(g.status)
	case regStatus:
		return uint32(g.status)
	case regIntReason:
		return uint32(g.intReason)
	case regSectNum:
		return uint32(g.sectNum)
	case regByteCountLo:
		return uint32(g.byteCount & 0xff)
	case regByteCountHi:
		return uint32(g.byteCount >> 8)
	case regDriveSel:
		return uint32(g.driveSel)
	case regData:
		if g.xferPos+1 < len(g.xfer) {
			v := uint32(g.xfer[g.xferPos]) | uint32(g.xfer[g.xferPos+1])<<8
			g.xferPos += 2
			if g.xferPos >= len(g.xfer) {
				g.status &^= statusDRQ
			}
			return v
		}
		return 0
	}

	logger.Logf(logger.Allow, "gdrom", "read from unhandled register %02x", addr&0xff)
	return 0
}

func (g *GDROM) write(addr uint32, val uint32, length int) {
	switch addr & 0xff {
	case regCommand:
		g.command(uint8(val))
	case regDriveSel:
		g.driveSel = uint8(val)
	case regByteCountLo:
		g.byteCount = g.byteCount&0xff00 | uint16(val&0xff)
	case regByteCountHi:
		g.byteCount = g.byteCount&0x00ff | uint16(val&0xff)<<8
	case regData:
		// packet bytes. the packet layer is not modelled; accepted and
		// dropped with the busy flag never raised
	default:
		logger.Logf(logger.Allow, "gdrom", "write to unhandled register %02x <- %08x", addr&0xff, val)
	}
}

func (g *GDROM) command(cmd uint8) {
	switch cmd {
	case 0x08: // soft reset
		g.status = statusDRDY | statusDSC
	case 0xa0: // packet command follows on the data register
		g.intReason = 1
	case 0xef: // set features
		g.status = statusDRDY | statusDSC
	default:
		logger.Logf(logger.Allow, "gdrom", "unhandled ATA command %02x", cmd)
		g.status = statusDRDY | statusCheck
	}
}

func (g *GDROM) badWidth(addr uint32, length int) {
	panic(fault.Record{
		Kind:    fault.Integrity,
		Address: addr,
		Length:  length,
		Feature: "unsupported access width for GD-ROM register",
		Context: "gdrom",
	})
}

// Read8 implements the memorymap.DeviceIO interface.
func (g *GDROM) Read8(addr uint32) uint8 {
	return uint8(g.read(addr, 1))
}

// Read16 implements the memorymap.DeviceIO interface.
func (g *GDROM) Read16(addr uint32) uint16 {
	return uint16(g.read(addr, 2))
}

// Read32 implements the memorymap.DeviceIO interface.
func (g *GDROM) Read32(addr uint32) uint32 {
	return g.read(addr, 4)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (g *GDROM) ReadFloat(addr uint32) float32 {
	g.badWidth(addr, 4)
	return 0
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (g *GDROM) ReadDouble(addr uint32) float64 {
	g.badWidth(addr, 8)
	return 0
}

// Write8 implements the memorymap.DeviceIO interface.
func (g *GDROM) Write8(addr uint32, val uint8) {
	g.write(addr, uint32(val), 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (g *GDROM) Write16(addr uint32, val uint16) {
	g.write(addr, uint32(val), 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (g *GDROM) Write32(addr uint32, val uint32) {
	g.write(addr, val, 4)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (g *GDROM) WriteFloat(addr uint32, val float32) {
	g.badWidth(addr, 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (g *GDROM) WriteDouble(addr uint32, val float64) {
	g.badWidth(addr, 8)
}
