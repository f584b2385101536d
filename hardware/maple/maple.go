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

// Package maple implements the Dreamcast's peripheral bus: the DMA frame
// processor that walks command lists in guest RAM, the address packing
// that selects a port and sub-unit, and the devices themselves
// (controller, keyboard, rumble pack, visual memory unit).
package maple

import (
	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/hardware/sysblock"
	"github.com/gophercast/gophercast/logger"
)

// the bus has four ports, each with a main unit and up to five sub-units.
const (
	PortCount = 4
	UnitCount = 6
)

// commands.
const (
	CmdDevInfo  = 0x01
	CmdAllInfo  = 0x02
	CmdReset    = 0x03
	CmdShutdown = 0x04
	CmdGetCond  = 0x09
	CmdMemInfo  = 0x0a
	CmdBRead    = 0x0b
	CmdBWrite   = 0x0c
	CmdBSync    = 0x0d
	CmdSetCond  = 0x0e
)

// response codes.
const (
	RespNone     = 0xff // nothing plugged in
	RespDevInfo  = 0x05
	RespAllInfo  = 0x06
	RespAck      = 0x07
	RespDataTrf  = 0x08
	RespMemInfo  = RespDataTrf
)

// DMACompleteDelay is how long after processing a DMA list the completion
// interrupt is raised, in scheduler ticks. Measurement on real hardware
// suggests around 1ms for a DEVINFO round but using that value breaks
// several games (Namco Museum, Sonic Adventure 2), so zero it is.
const DMACompleteDelay = 0

// register offsets into the maple window.
const (
	regMDSTAR = 0x04 // DMA command list start address
	regMDTSEL = 0x10 // trigger select (1 = vblank initiation)
	regMDEN   = 0x14 // DMA enable
	regMDST   = 0x18 // DMA start / status
	regMSYS   = 0x80 // system control
	regMDAPRO = 0x8c // DMA address protection
	regMMSEL  = 0x90
)

// Maple is the bus: register block, frame processor and attached devices.
// Use NewMaple() to initialise.
type Maple struct {
	cpu *sh4.SH4
	sb  *sysblock.SysBlock
	clk *sched.Clock

	devs [PortCount][UnitCount]Device

	// register state
	dmaCmdStart uint32
	dmaEnabled  bool
	trigSelect  uint32
	sysCtrl     uint32

	// DMA protection bounds. reset values allow everything interesting
	protBot uint32
	protTop uint32

	// a software write to MDST initiates DMA immediately; a pre-vblank
	// notification initiates it when the trigger select says so
	vblankAutoInit     bool
	vblankInitUnlocked bool

	completeEvent     sched.Event
	completeScheduled bool
}

// NewMaple is the preferred method of initialisation for the Maple type.
func NewMaple(cpu *sh4.SH4, sb *sysblock.SysBlock, clk *sched.Clock) *Maple {
	m := &Maple{
		cpu:     cpu,
		sb:      sb,
		clk:     clk,
		protBot: 0,
		protTop: 0x1<<27 | 0x7f<<20,
	}
	m.completeEvent.Handler = m.completeHandler
	m.completeEvent.Ctxt = m
	return m
}

// Plug attaches a device to a port/unit. A nil device unplugs.
func (m *Maple) Plug(port int, unit int, dev Device) {
	if port < 0 || port >= PortCount || unit < 0 || unit >= UnitCount {
		panic(fault.Record{
			Kind:    fault.InvalidParam,
			Feature: "maple port/unit out of range",
			Context: "maple",
		})
	}
	m.devs[port][unit] = dev
}

// Device returns the device at a port/unit, or nil.
func (m *Maple) Device(port int, unit int) Device {
	return m.devs[port][unit]
}

// AddrPack encodes a port and unit into the wire address byte: bits 6-7
// carry the port, the low bits identify the unit as a bit set (the main
// unit is 0x20, sub-units are one-hot 1<<(unit-1)).
func AddrPack(port, unit int) uint8 {
	if port < 0 || port >= PortCount || unit < 0 || unit >= UnitCount {
		panic(fault.Record{
			Kind:    fault.Integrity,
			Feature: "maple address pack out of range",
			Context: "maple",
		})
	}

	var addr uint8
	if unit > 0 {
		addr = 1 << (unit - 1) & 0x1f
	} else {
		addr = 0x20
	}

	return addr | uint8(port)<<6
}

// AddrUnpack decodes a wire address byte into port and unit. Any low-bit
// pattern other than the six valid ones is an invariant error.
func AddrUnpack(addr uint8) (int, int) {
	var unit int

	switch {
	case addr&0x3f == 0x20:
		unit = 0
	case addr&0x1f == 1:
		unit = 1
	case addr&0x1f == 2:
		unit = 2
	case addr&0x1f == 4:
		unit = 3
	case addr&0x1f == 8:
		unit = 4
	case addr&0x1f == 16:
		unit = 5
	default:
		panic(fault.Record{
			Kind:    fault.Integrity,
			Feature: "malformed maple device address",
			Context: "maple",
		})
	}

	return int(addr>>6) & 3, unit
}

// NotifyPreVBlank is called by the display generator just before vertical
// blank. If the guest has armed vblank-triggered DMA, the command list is
// processed now.
func (m *Maple) NotifyPreVBlank() {
	if (m.vblankInitUnlocked || m.vblankAutoInit) && m.dmaEnabled {
		m.ProcessDMA(m.dmaCmdStart)
		if !m.vblankAutoInit {
			m.vblankInitUnlocked = false
		}
	}
}

// completion interrupt, deferred through the scheduler.
func (m *Maple) dmaComplete() {
	if m.completeScheduled {
		return
	}
	m.completeScheduled = true
	m.completeEvent.When = m.clk.Stamp() + DMACompleteDelay
	m.clk.Schedule(&m.completeEvent)
}

func (m *Maple) completeHandler(ev *sched.Event) {
	m.completeScheduled = false
	m.sb.RaiseNormal(sysblock.IntMapleDMAComplete)
}

// register block access. all registers are 32 bits wide.

func (m *Maple) read(addr uint32) uint32 {
	switch addr & 0xff {
	case regMDSTAR:
		return m.dmaCmdStart
	case regMDTSEL:
		return m.trigSelect
	case regMDEN:
		if m.dmaEnabled {
			return 1
		}
		return 0
	case regMDST:
		// DMA is instantaneous; the start bit always reads back clear
		return 0
	case regMSYS:
		return m.sysCtrl
	case regMDAPRO:
		return m.protTop | m.protBot
	}

	logger.Logf(logger.Allow, "maple", "read from unhandled register %02x", addr&0xff)
	return 0
}

func (m *Maple) write(addr uint32, val uint32) {
	switch addr & 0xff {
	case regMDSTAR:
		m.dmaCmdStart = val &^ 0x1f
	case regMDTSEL:
		m.trigSelect = val
		m.vblankAutoInit = val&1 != 0
	case regMDEN:
		m.dmaEnabled = val&1 != 0
	case regMDST:
		if val&1 != 0 && m.dmaEnabled {
			if m.trigSelect&1 != 0 {
				// vblank-triggered mode: a write to MDST arms one
				// initiation rather than starting it now
				m.vblankInitUnlocked = true
			} else {
				m.ProcessDMA(m.dmaCmdStart)
			}
		}
	case regMSYS:
		m.sysCtrl = val
	case regMDAPRO:
		m.protBot = val & 0x0000ff00 << 12
		m.protTop = val&0xff | 0x1<<27
	default:
		logger.Logf(logger.Allow, "maple", "write to unhandled register %02x <- %08x", addr&0xff, val)
	}
}
