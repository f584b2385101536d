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

package sh4

import (
	"math"
	"sort"

	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/logger"
)

// regReadHandler reads the current value of an on-chip register.
type regReadHandler func(sh4 *SH4, reg *onChipReg) uint32

// regWriteHandler applies a write to an on-chip register.
type regWriteHandler func(sh4 *SH4, reg *onChipReg, val uint32)

// onChipReg describes one register in the P4 window.
type onChipReg struct {
	name string
	addr uint32

	// declared access width in bytes. accesses of any other width are an
	// invariant violation
	length int

	// storage slot in the register file, or -1 for registers that don't
	// need storage
	slot RegIdx

	read  regReadHandler
	write regWriteHandler

	// value established at power-on reset
	resetVal uint32
}

// OnChip is the SH4's memory-mapped on-chip register block, visible through
// the P4 window. Registers are looked up by exact address in a sorted
// table; the two SDMR registers, which use address-encoded data across a
// 64KiB mirror each, are handled as a special case after lookup fails.
type OnChip struct {
	sh4 *SH4

	// sorted by address for binary search. built once at init
	regs []onChipReg

	// InvalidateCodeCache is called when the guest writes to CCR. a cache
	// flush means previously translated code may be stale
	InvalidateCodeCache func()
}

// read/write handlers. the default pair stores through to the register
// file slot.

func regDefaultRead(sh4 *SH4, reg *onChipReg) uint32 {
	return sh4.Reg[reg.slot]
}

func regDefaultWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	sh4.Reg[reg.slot] = val
}

// for registers that are safe to ignore entirely (bus-state controller and
// the like). reads return the stored value so that guest read-after-write
// sequences behave.
func regIgnoreWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	if reg.slot >= 0 {
		sh4.Reg[reg.slot] = val
	}
}

func regReadOnlyWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	panic(fault.Record{
		Kind:    fault.Integrity,
		Address: reg.addr,
		Feature: "write to read-only on-chip register " + reg.name,
		Context: "sh4 onchip",
	})
}

func regWriteOnlyRead(sh4 *SH4, reg *onChipReg) uint32 {
	panic(fault.Record{
		Kind:    fault.Integrity,
		Address: reg.addr,
		Feature: "read from write-only on-chip register " + reg.name,
		Context: "sh4 onchip",
	})
}

// the three DMA channel-0 registers must only ever hold zero; the channel
// is reserved for external requests that the Dreamcast doesn't wire up.
func regZeroOnlyWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	if val != 0 {
		panic(fault.Record{
			Kind:    fault.Unimplemented,
			Address: reg.addr,
			Feature: "non-zero write to " + reg.name,
			Context: "sh4 onchip",
		})
	}
	sh4.Reg[reg.slot] = 0
}

// writing 1 bits to EXPEVT is how the firmware distinguishes power-on from
// manual reset. only the defined codes are accepted.
func regExpevtWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	if val != uint32(ExcpPowerOnReset) && val != uint32(ExcpManualReset) {
		logger.Logf(logger.Allow, "sh4", "odd value %08x written to EXPEVT", val)
	}
	sh4.Reg[RegEXPEVT] = val
}

func regMMUCRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	if val&1 != 0 {
		// address translation is not supported. almost no software enables
		// it so this is a hard stop rather than a guest exception
		panic(fault.Record{
			Kind:    fault.Unimplemented,
			Address: reg.addr,
			Feature: "MMU address translation (MMUCR.AT)",
			Context: "sh4 onchip",
		})
	}
	sh4.Reg[RegMMUCR] = val
}

func regCCRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	sh4.Reg[RegCCR] = val

	// a cache flush invalidates any translated code
	if sh4.OnChip.InvalidateCodeCache != nil {
		sh4.OnChip.InvalidateCodeCache()
	}
}

// the version registers identify the silicon. values from an SH7750 stepping.
func regPVRRead(sh4 *SH4, reg *onChipReg) uint32 {
	return 0x040205c1
}

func regPRRRead(sh4 *SH4, reg *onChipReg) uint32 {
	return 0
}

// PDTRA is the port-A data register, used by the firmware early in boot to
// detect the video cable. The read value folds together the bits last
// written as outputs (per PCTRA) with a magic table that matches what an
// NTSC console with a composite cable returns. Without this the firmware
// spins forever at pc=0x8c00b94e.
func regPDTRARead(sh4 *SH4, reg *onChipReg) uint32 {
	pctra := sh4.Reg[RegPCTRA]

	var nInputMask uint32
	for bit := 0; bit < 16; bit++ {
		nInput := (pctra >> (bit * 2)) & 1
		nInputMask |= nInput << bit
	}

	// the upper byte is always 0xe0 on real hardware; bits 9:8 encode the
	// cable type (3 = composite)
	outVal := uint32(0xe0)
	outVal |= 0x0300

	// the low 2 bits respond to the value last written to PDTRA and the
	// low bits of PCTRA. dumped from an NTSC-U console on composite video
	tbl := [16][4]uint32{
		{0x03, 0x03, 0x03, 0x03},
		{0x00, 0x03, 0x00, 0x03},
		{0x03, 0x03, 0x03, 0x03},
		{0x00, 0x03, 0x00, 0x03},
		{0x00, 0x00, 0x03, 0x03},
		{0x00, 0x01, 0x02, 0x03},
		{0x00, 0x00, 0x03, 0x03},
		{0x00, 0x01, 0x02, 0x03},
		{0x03, 0x03, 0x03, 0x03},
		{0x00, 0x03, 0x00, 0x03},
		{0x03, 0x03, 0x03, 0x03},
		{0x00, 0x03, 0x00, 0x03},
		{0x00, 0x00, 0x03, 0x03},
		{0x00, 0x01, 0x02, 0x03},
		{0x00, 0x00, 0x03, 0x03},
		{0x00, 0x01, 0x02, 0x03},
	}
	outVal |= tbl[pctra&0xf][sh4.Reg[RegPDTRA]&3]

	// output bits read back as the value last written to them
	return (outVal &^ nInputMask) | (sh4.Reg[RegPDTRA] & nInputMask)
}

func regPDTRAWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	sh4.Reg[RegPDTRA] = val
}

// IPR writes change interrupt priorities, which may unmask a pending
// interrupt.
func regIPRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	sh4.Reg[reg.slot] = val
	sh4.Intc.refresh(sh4)
}

// SDMR2/SDMR3 occupy a 64KiB mirror each and encode their data in the
// address. The registers configure SDRAM mode and are safe to ignore.
const (
	sdmr2Base = 0xff900000
	sdmr3Base = 0xff940000
	sdmrMask  = 0xffff0000
)

func newOnChip(sh4 *SH4) *OnChip {
	oc := &OnChip{sh4: sh4}

	oc.regs = []onChipReg{
		{name: "EXPEVT", addr: 0xff000024, length: 4, slot: RegEXPEVT, read: regDefaultRead, write: regExpevtWrite, resetVal: uint32(ExcpPowerOnReset)},
		{name: "INTEVT", addr: 0xff000028, length: 4, slot: RegINTEVT, read: regDefaultRead, write: regDefaultWrite},
		{name: "PTEH", addr: 0xff000000, length: 4, slot: RegPTEH, read: regDefaultRead, write: regDefaultWrite},
		{name: "PTEL", addr: 0xff000004, length: 4, slot: RegPTEL, read: regDefaultRead, write: regDefaultWrite},
		{name: "TTB", addr: 0xff000008, length: 4, slot: RegTTB, read: regDefaultRead, write: regDefaultWrite},
		{name: "TEA", addr: 0xff00000c, length: 4, slot: RegTEA, read: regDefaultRead, write: regDefaultWrite},
		{name: "MMUCR", addr: 0xff000010, length: 4, slot: RegMMUCR, read: regDefaultRead, write: regMMUCRWrite},
		{name: "PTEA", addr: 0xff000034, length: 4, slot: RegPTEA, read: regDefaultRead, write: regDefaultWrite},
		{name: "CCR", addr: 0xff00001c, length: 4, slot: RegCCR, read: regDefaultRead, write: regCCRWrite},
		{name: "QACR0", addr: 0xff000038, length: 4, slot: RegQACR0, read: regDefaultRead, write: regDefaultWrite},
		{name: "QACR1", addr: 0xff00003c, length: 4, slot: RegQACR1, read: regDefaultRead, write: regDefaultWrite},
		{name: "TRA", addr: 0xff000020, length: 4, slot: RegTRA, read: regDefaultRead, write: regDefaultWrite},
		{name: "PVR", addr: 0xff000030, length: 4, slot: -1, read: regPVRRead, write: regReadOnlyWrite},
		{name: "PRR", addr: 0xff000044, length: 4, slot: -1, read: regPRRRead, write: regReadOnlyWrite},

		// interrupt controller
		{name: "ICR", addr: 0xffd00000, length: 2, slot: RegICR, read: regDefaultRead, write: regDefaultWrite},
		{name: "IPRA", addr: 0xffd00004, length: 2, slot: RegIPRA, read: regDefaultRead, write: regIPRWrite},
		{name: "IPRB", addr: 0xffd00008, length: 2, slot: RegIPRB, read: regDefaultRead, write: regIPRWrite},
		{name: "IPRC", addr: 0xffd0000c, length: 2, slot: RegIPRC, read: regDefaultRead, write: regIPRWrite},

		// timer unit. see tmu.go for the handlers
		{name: "TOCR", addr: 0xffd80000, length: 1, slot: RegTOCR, read: regTOCRRead, write: regTOCRWrite},
		{name: "TSTR", addr: 0xffd80004, length: 1, slot: RegTSTR, read: regTSTRRead, write: regTSTRWrite},
		{name: "TCOR0", addr: 0xffd80008, length: 4, slot: RegTCOR0, read: regDefaultRead, write: regDefaultWrite, resetVal: 0xffffffff},
		{name: "TCNT0", addr: 0xffd8000c, length: 4, slot: RegTCNT0, read: regTCNTRead, write: regTCNTWrite, resetVal: 0xffffffff},
		{name: "TCR0", addr: 0xffd80010, length: 2, slot: RegTCR0, read: regTCRRead, write: regTCRWrite},
		{name: "TCOR1", addr: 0xffd80014, length: 4, slot: RegTCOR1, read: regDefaultRead, write: regDefaultWrite, resetVal: 0xffffffff},
		{name: "TCNT1", addr: 0xffd80018, length: 4, slot: RegTCNT1, read: regTCNTRead, write: regTCNTWrite, resetVal: 0xffffffff},
		{name: "TCR1", addr: 0xffd8001c, length: 2, slot: RegTCR1, read: regTCRRead, write: regTCRWrite},
		{name: "TCOR2", addr: 0xffd80020, length: 4, slot: RegTCOR2, read: regDefaultRead, write: regDefaultWrite, resetVal: 0xffffffff},
		{name: "TCNT2", addr: 0xffd80024, length: 4, slot: RegTCNT2, read: regTCNTRead, write: regTCNTWrite, resetVal: 0xffffffff},
		{name: "TCR2", addr: 0xffd80028, length: 2, slot: RegTCR2, read: regTCRRead, write: regTCRWrite},
		{name: "TCPR2", addr: 0xffd8002c, length: 4, slot: RegTCPR2, read: regDefaultRead, write: regReadOnlyWrite},

		// bus state controller. low-level SDRAM configuration that the
		// emulation has no use for
		{name: "BCR1", addr: 0xff800000, length: 4, slot: RegBCR1, read: regDefaultRead, write: regIgnoreWrite},
		{name: "BCR2", addr: 0xff800004, length: 2, slot: RegBCR2, read: regDefaultRead, write: regIgnoreWrite, resetVal: 0x3ffc},
		{name: "WCR1", addr: 0xff800008, length: 4, slot: RegWCR1, read: regDefaultRead, write: regIgnoreWrite, resetVal: 0x77777777},
		{name: "WCR2", addr: 0xff80000c, length: 4, slot: RegWCR2, read: regDefaultRead, write: regIgnoreWrite, resetVal: 0xfffeefff},
		{name: "WCR3", addr: 0xff800010, length: 4, slot: RegWCR3, read: regDefaultRead, write: regIgnoreWrite, resetVal: 0x07777777},
		{name: "MCR", addr: 0xff800014, length: 4, slot: RegMCR, read: regDefaultRead, write: regIgnoreWrite},
		{name: "RTCSR", addr: 0xff80001c, length: 2, slot: RegRTCSR, read: regDefaultRead, write: regIgnoreWrite},
		{name: "RTCNT", addr: 0xff800020, length: 2, slot: RegRTCNT, read: regDefaultRead, write: regIgnoreWrite},
		{name: "RTCOR", addr: 0xff800024, length: 2, slot: RegRTCOR, read: regDefaultRead, write: regIgnoreWrite},
		{name: "RFCR", addr: 0xff800028, length: 2, slot: RegRFCR, read: regDefaultRead, write: regIgnoreWrite},

		// i/o ports
		{name: "PCTRA", addr: 0xff80002c, length: 4, slot: RegPCTRA, read: regDefaultRead, write: regDefaultWrite},
		{name: "PDTRA", addr: 0xff800030, length: 2, slot: RegPDTRA, read: regPDTRARead, write: regPDTRAWrite},
		{name: "PCTRB", addr: 0xff800040, length: 4, slot: RegPCTRB, read: regDefaultRead, write: regDefaultWrite},
		{name: "PDTRB", addr: 0xff800044, length: 2, slot: RegPDTRB, read: regDefaultRead, write: regDefaultWrite},
		{name: "GPIOIC", addr: 0xff800048, length: 2, slot: RegGPIOIC, read: regDefaultRead, write: regDefaultWrite},

		// DMA controller. channel 0 is reserved for external requests on
		// the Dreamcast and must stay zeroed
		{name: "SAR0", addr: 0xffa00000, length: 4, slot: RegSAR0, read: regDefaultRead, write: regZeroOnlyWrite},
		{name: "DAR0", addr: 0xffa00004, length: 4, slot: RegDAR0, read: regDefaultRead, write: regZeroOnlyWrite},
		{name: "DMATCR0", addr: 0xffa00008, length: 4, slot: RegDMATCR0, read: regDefaultRead, write: regZeroOnlyWrite},
		{name: "CHCR0", addr: 0xffa0000c, length: 4, slot: RegCHCR0, read: regDefaultRead, write: regDefaultWrite},
		{name: "SAR1", addr: 0xffa00010, length: 4, slot: RegSAR1, read: regDefaultRead, write: regDefaultWrite},
		{name: "DAR1", addr: 0xffa00014, length: 4, slot: RegDAR1, read: regDefaultRead, write: regDefaultWrite},
		{name: "DMATCR1", addr: 0xffa00018, length: 4, slot: RegDMATCR1, read: regDefaultRead, write: regDefaultWrite},
		{name: "CHCR1", addr: 0xffa0001c, length: 4, slot: RegCHCR1, read: regDefaultRead, write: regDefaultWrite},
		{name: "SAR2", addr: 0xffa00020, length: 4, slot: RegSAR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "DAR2", addr: 0xffa00024, length: 4, slot: RegDAR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "DMATCR2", addr: 0xffa00028, length: 4, slot: RegDMATCR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "CHCR2", addr: 0xffa0002c, length: 4, slot: RegCHCR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "SAR3", addr: 0xffa00030, length: 4, slot: RegSAR3, read: regDefaultRead, write: regDefaultWrite},
		{name: "DAR3", addr: 0xffa00034, length: 4, slot: RegDAR3, read: regDefaultRead, write: regDefaultWrite},
		{name: "DMATCR3", addr: 0xffa00038, length: 4, slot: RegDMATCR3, read: regDefaultRead, write: regDefaultWrite},
		{name: "CHCR3", addr: 0xffa0003c, length: 4, slot: RegCHCR3, read: regDefaultRead, write: regDefaultWrite},
		{name: "DMAOR", addr: 0xffa00040, length: 4, slot: RegDMAOR, read: regDefaultRead, write: regDefaultWrite},

		// serial (SCIF). see scif.go for the handlers
		{name: "SCSMR2", addr: 0xffe80000, length: 2, slot: RegSCSMR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "SCBRR2", addr: 0xffe80004, length: 1, slot: RegSCBRR2, read: regDefaultRead, write: regDefaultWrite, resetVal: 0xff},
		{name: "SCSCR2", addr: 0xffe80008, length: 2, slot: RegSCSCR2, read: regDefaultRead, write: regSCSCRWrite},
		{name: "SCFTDR2", addr: 0xffe8000c, length: 1, slot: RegSCFTDR2, read: regWriteOnlyRead, write: regSCFTDRWrite},
		{name: "SCFSR2", addr: 0xffe80010, length: 2, slot: RegSCFSR2, read: regSCFSRRead, write: regSCFSRWrite, resetVal: 0x0060},
		{name: "SCFRDR2", addr: 0xffe80014, length: 1, slot: RegSCFRDR2, read: regSCFRDRRead, write: regReadOnlyWrite},
		{name: "SCFCR2", addr: 0xffe80018, length: 2, slot: RegSCFCR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "SCFDR2", addr: 0xffe8001c, length: 2, slot: RegSCFDR2, read: regSCFDRRead, write: regReadOnlyWrite},
		{name: "SCSPTR2", addr: 0xffe80020, length: 2, slot: RegSCSPTR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "SCLSR2", addr: 0xffe80024, length: 2, slot: RegSCLSR2, read: regDefaultRead, write: regDefaultWrite},

		// clock and power management
		{name: "FRQCR", addr: 0xffc00000, length: 2, slot: RegFRQCR, read: regDefaultRead, write: regDefaultWrite},
		{name: "STBCR", addr: 0xffc00004, length: 1, slot: RegSTBCR, read: regDefaultRead, write: regDefaultWrite},
		{name: "STBCR2", addr: 0xffc00010, length: 1, slot: RegSTBCR2, read: regDefaultRead, write: regDefaultWrite},
		{name: "WTCNT", addr: 0xffc00008, length: 1, slot: RegWTCNT, read: regDefaultRead, write: regIgnoreWrite},
		{name: "WTCSR", addr: 0xffc0000c, length: 1, slot: RegWTCSR, read: regDefaultRead, write: regIgnoreWrite},
	}

	sort.Slice(oc.regs, func(i, j int) bool {
		return oc.regs[i].addr < oc.regs[j].addr
	})

	return oc
}

// find returns the register at addr, or nil. The SDMR mirrors are checked
// only after exact lookup fails.
func (oc *OnChip) find(addr uint32) *onChipReg {
	i := sort.Search(len(oc.regs), func(i int) bool {
		return oc.regs[i].addr >= addr
	})
	if i < len(oc.regs) && oc.regs[i].addr == addr {
		return &oc.regs[i]
	}
	return nil
}

// sdmr returns true if the address falls in the SDMR2/SDMR3 mirror ranges.
// the write data is encoded in the address and discarded.
func (oc *OnChip) sdmr(addr uint32) bool {
	base := addr & sdmrMask
	return base == sdmr2Base || base == sdmr3Base
}

func (oc *OnChip) access(addr uint32, length int, write bool) *onChipReg {
	reg := oc.find(addr)
	if reg == nil {
		if oc.sdmr(addr) {
			return nil
		}
		panic(fault.Record{
			Kind:    fault.UnmappedAddress,
			Address: addr,
			Length:  length,
			Feature: "access to unknown on-chip register",
			Context: "sh4 onchip",
		})
	}

	if length != reg.length {
		panic(fault.Record{
			Kind:           fault.Integrity,
			Address:        addr,
			Length:         length,
			ExpectedLength: reg.length,
			Feature:        "wrong-width access to on-chip register " + reg.name,
			Context:        "sh4 onchip",
		})
	}

	return reg
}

func (oc *OnChip) read(addr uint32, length int) uint32 {
	reg := oc.access(addr, length, false)
	if reg == nil {
		// SDMR is write-only; a read is meaningless
		panic(fault.Record{
			Kind:    fault.Integrity,
			Address: addr,
			Feature: "read from write-only register SDMR",
			Context: "sh4 onchip",
		})
	}
	return reg.read(oc.sh4, reg)
}

func (oc *OnChip) write(addr uint32, val uint32, length int) {
	reg := oc.access(addr, length, true)
	if reg == nil {
		// SDMR write: data is in the address. ignored
		return
	}
	reg.write(oc.sh4, reg, val)
}

// Read8 implements the memorymap.DeviceIO interface.
func (oc *OnChip) Read8(addr uint32) uint8 {
	return uint8(oc.read(addr, 1))
}

// Read16 implements the memorymap.DeviceIO interface.
func (oc *OnChip) Read16(addr uint32) uint16 {
	return uint16(oc.read(addr, 2))
}

// Read32 implements the memorymap.DeviceIO interface.
func (oc *OnChip) Read32(addr uint32) uint32 {
	return oc.read(addr, 4)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (oc *OnChip) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(oc.read(addr, 4))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (oc *OnChip) ReadDouble(addr uint32) float64 {
	panic(fault.Record{
		Kind:    fault.Unimplemented,
		Address: addr,
		Length:  8,
		Feature: "64-bit access to on-chip registers",
		Context: "sh4 onchip",
	})
}

// Write8 implements the memorymap.DeviceIO interface.
func (oc *OnChip) Write8(addr uint32, val uint8) {
	oc.write(addr, uint32(val), 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (oc *OnChip) Write16(addr uint32, val uint16) {
	oc.write(addr, uint32(val), 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (oc *OnChip) Write32(addr uint32, val uint32) {
	oc.write(addr, val, 4)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (oc *OnChip) WriteFloat(addr uint32, val float32) {
	oc.write(addr, math.Float32bits(val), 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (oc *OnChip) WriteDouble(addr uint32, val float64) {
	panic(fault.Record{
		Kind:    fault.Unimplemented,
		Address: addr,
		Length:  8,
		Feature: "64-bit access to on-chip registers",
		Context: "sh4 onchip",
	})
}
