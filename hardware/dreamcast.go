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

// Package hardware is the container for the emulated Dreamcast: the two
// CPUs with their clock domains, the memory maps that bind every device
// into the address space, and the frame driver that runs it all.
//
// Components are created leaf first: clocks, then memory devices, then
// CPUs, then the peripheral devices that schedule events, and finally the
// memory maps that tie them together. Teardown happens in reverse.
package hardware

import (
	"os"

	"github.com/gophercast/gophercast/curated"
	"github.com/gophercast/gophercast/hardware/aica"
	"github.com/gophercast/gophercast/hardware/arm7"
	"github.com/gophercast/gophercast/hardware/gdrom"
	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/hardware/maple"
	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/hardware/memory/memorymap"
	"github.com/gophercast/gophercast/hardware/pvr"
	"github.com/gophercast/gophercast/hardware/preferences"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/hardware/sysblock"
	"github.com/gophercast/gophercast/jit"
	"github.com/gophercast/gophercast/logger"
	"github.com/gophercast/gophercast/resources"
)

// FramebufferRenderer presents a finished frame to the host. The actual
// rasteriser is pluggable; the core only promises to call Render once per
// emulated frame.
type FramebufferRenderer interface {
	Render()
}

// Dreamcast is the main container for the emulated components of the
// console. Use NewDreamcast() to initialise.
type Dreamcast struct {
	Prefs *preferences.Preferences
	Gov   *govern.Governor

	// the two clock domains
	SH4Clock  *sched.Clock
	ARM7Clock *sched.Clock

	// memory devices
	RAM     *memory.RAM
	BootROM *memory.BootROM
	Flash   *memory.Flash

	// CPUs
	CPU *sh4.SH4
	ARM *arm7.ARM7

	// devices
	SysBlock *sysblock.SysBlock
	SPG      *pvr.SPG
	PVRRegs  *pvr.Registers
	AICA     *aica.AICA
	WaveMem  *aica.WaveMem
	Maple    *maple.Maple
	GDROM    *gdrom.GDROM

	// the controller in port A. further devices are plugged through
	// Maple.Plug
	Controller *maple.Controller

	// memory maps, one per CPU
	SH4Map  *memorymap.Map
	ARM7Map *memorymap.Map

	// translated-block cache, used when the JIT dispatch back-end is
	// selected
	CodeCache *jit.Cache

	// Renderer is told to present once per frame. may be nil
	Renderer FramebufferRenderer

	// most recent host and virtual frame rates, updated once per frame.
	// read by overlays and the performance monitor
	HostFPS float64
	VirtFPS float64
}

// NewDreamcast creates the console and loads the images named in the
// preferences. The returned machine is ready for Run().
func NewDreamcast(prefs *preferences.Preferences) (*Dreamcast, error) {
	dc := &Dreamcast{
		Prefs: prefs,
		Gov:   govern.NewGovernor(),
	}

	var err error

	// clocks first; everything else hangs off them
	dc.SH4Clock = sched.NewClock("sh4")
	dc.ARM7Clock = sched.NewClock("arm7")

	// memory devices
	dc.RAM = memory.NewRAM()

	dc.BootROM, err = memory.NewBootROM(prefs.BIOSPath.Get().(string))
	if err != nil {
		return nil, curated.Errorf("dreamcast: %v", err)
	}

	dc.Flash, err = memory.NewFlash(prefs.FlashPath.Get().(string))
	if err != nil {
		return nil, curated.Errorf("dreamcast: %v", err)
	}

	// CPUs
	dc.CPU = sh4.NewSH4(dc.SH4Clock, dc.RAM)
	dc.ARM = arm7.NewARM7(dc.ARM7Clock)

	// devices. each books its own events against the clock it lives on
	dc.SysBlock = sysblock.NewSysBlock(dc.CPU)
	dc.SPG = pvr.NewSPG(dc.SH4Clock, dc.SysBlock)
	dc.PVRRegs = pvr.NewRegisters(dc.SPG)
	dc.WaveMem = aica.NewWaveMem()
	dc.AICA = aica.NewAICA(dc.WaveMem, dc.ARM, dc.ARM7Clock)
	dc.AICA.RTC = aica.NewRTC(dc.SH4Clock, prefs.RTCPath.Get().(string))
	dc.Maple = maple.NewMaple(dc.CPU, dc.SysBlock, dc.SH4Clock)

	// the GDI file-set parser is a separate subsystem; until one is
	// attached the drive tray is empty
	if prefs.GDIImage.Get().(string) != "" {
		logger.Logf(logger.Allow, "dreamcast", "no GDI parser attached; ignoring %s", prefs.GDIImage.Get().(string))
	}
	dc.GDROM = gdrom.NewGDROM(nil)

	dc.SPG.AddPreVBlankNotifiee(dc.Maple)
	dc.SPG.EndOfFrame = dc.Gov.RaiseEndOfFrame

	// a controller in port A with a VMU in its first slot, as most
	// consoles are actually set up
	dc.Controller = maple.NewController()
	dc.Maple.Plug(0, 0, dc.Controller)

	if vmuPath, err := resources.JoinPath("vmu", "port_a_1.bin"); err == nil {
		dc.Maple.Plug(0, 1, maple.NewVMU(vmuPath))
	} else {
		logger.Log(logger.Allow, "dreamcast", err)
	}

	// memory maps
	dc.SH4Map = memorymap.NewMap("sh4")
	dc.buildSH4Map()
	dc.CPU.SetMemMap(dc.SH4Map)

	dc.ARM7Map = memorymap.NewMap("arm7")
	dc.buildARM7Map()
	dc.ARM.SetMemMap(dc.ARM7Map)

	dc.CodeCache = jit.NewCache(dc.CPU)

	if err := dc.boot(); err != nil {
		return nil, curated.Errorf("dreamcast: %v", err)
	}

	return dc, nil
}

// buildSH4Map lays out the SH4's view of the console.
//
// The P4 window has to come first: its only distinction from everything
// else is the top three address bits being all ones, and every other
// region's range mask would otherwise swallow its addresses. RAM comes
// second for hit rate. The regions carrying the area-0 mirror mask stay
// at the end so the mirroring cannot capture addresses that belong to
// other windows.
func (dc *Dreamcast) buildSH4Map() {
	m := dc.SH4Map

	m.Add(memorymap.Region{
		Name: "sh4 onchip", First: addresses.SH4P4First, Last: addresses.SH4P4Last,
		RangeMask: 0xffffffff, Mask: 0xffffffff,
		Kind: memorymap.KindMMIO, IO: dc.CPU.OnChip,
	})
	m.Add(memorymap.Region{
		Name: "ram", First: addresses.Area3First, Last: addresses.Area3Last,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area3Mask,
		Kind: memorymap.KindRAM, IO: dc.RAM,
	})
	m.Add(memorymap.Region{
		Name: "pvr2 core", First: addresses.PVR2CoreFirst, Last: addresses.PVR2CoreLast,
		RangeMask: addresses.Area0Mask, Mask: 0x1fffffff,
		Kind: memorymap.KindMMIO, IO: dc.PVRRegs,
	})
	m.Add(memorymap.Region{
		Name: "boot rom", First: addresses.BIOSFirst, Last: addresses.BIOSLast,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: dc.BootROM,
	})
	m.Add(memorymap.Region{
		Name: "flash", First: addresses.FlashFirst, Last: addresses.FlashLast,
		RangeMask: addresses.Area0Mask, Mask: 0x0001ffff,
		Kind: memorymap.KindMMIO, IO: dc.Flash,
	})
	m.Add(memorymap.Region{
		Name: "gdrom", First: addresses.GDROMFirst, Last: addresses.GDROMLast,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: dc.GDROM,
	})
	m.Add(memorymap.Region{
		Name: "g1 bus", First: addresses.G1First, Last: addresses.G1Last,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: memory.NewRegisterFile("g1", 0x100),
	})
	m.Add(memorymap.Region{
		Name: "g2 bus", First: addresses.G2First, Last: addresses.G2Last,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: memory.NewRegisterFile("g2", 0x100),
	})
	m.Add(memorymap.Region{
		Name: "sys block", First: addresses.SysBlockFirst, Last: addresses.SysBlockLast,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: dc.SysBlock,
	})
	m.Add(memorymap.Region{
		Name: "maple", First: addresses.MapleFirst, Last: addresses.MapleLast,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: dc.Maple,
	})
	m.Add(memorymap.Region{
		Name: "pvr2 regs", First: addresses.PVR2First, Last: addresses.PVR2Last,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: dc.PVRRegs,
	})
	m.Add(memorymap.Region{
		Name: "aica wave", First: addresses.AICAWaveFirst, Last: addresses.AICAWaveLast,
		RangeMask: addresses.Area0Mask, Mask: addresses.AICAWaveMask,
		Kind: memorymap.KindMMIO, IO: dc.WaveMem,
	})
	m.Add(memorymap.Region{
		Name: "aica sys", First: addresses.AICASysFirst, Last: addresses.AICASysLast,
		RangeMask: addresses.Area0Mask, Mask: 0xffffffff,
		Kind: memorymap.KindMMIO, IO: dc.AICA,
	})
	m.Add(memorymap.Region{
		Name: "aica rtc", First: addresses.AICARTCFirst, Last: addresses.AICARTCLast,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area0Mask,
		Kind: memorymap.KindMMIO, IO: dc.AICA.RTC,
	})
}

// buildARM7Map lays out the ARM7's view: wave memory at the bottom, the
// AICA system registers above it.
func (dc *Dreamcast) buildARM7Map() {
	m := dc.ARM7Map

	m.Add(memorymap.Region{
		Name: "aica wave", First: addresses.ARM7WaveFirst, Last: addresses.ARM7WaveLast,
		RangeMask: 0xffffffff, Mask: addresses.AICAWaveMask,
		Kind: memorymap.KindRAM, IO: dc.WaveMem,
	})
	m.Add(memorymap.Region{
		Name: "aica sys", First: addresses.ARM7SysFirst, Last: addresses.ARM7SysLast,
		RangeMask: 0xffffffff, Mask: 0xffffffff,
		Kind: memorymap.KindMMIO, IO: dc.AICA,
	})
}

// boot prepares the initial machine state for the configured boot mode.
func (dc *Dreamcast) boot() error {
	mode := dc.Prefs.BootMode.Get().(string)

	if mode == preferences.BootFirmware {
		// power-on reset state is already correct: PC at the top of the
		// boot ROM
		logger.Log(logger.Allow, "dreamcast", "booting into firmware")
		return nil
	}

	// both other boot modes synthesise the after-firmware environment:
	// syscall vectors in low RAM, VBR and stack where the firmware leaves
	// them
	load := func(path string, addr uint32, required bool) error {
		if path == "" {
			if required {
				return curated.Errorf("boot: %v", "no file configured")
			}
			return nil
		}
		d, err := os.ReadFile(path)
		if err != nil {
			return curated.Errorf("boot: %v", err)
		}
		dc.CPU.LoadImage(addr, d)
		logger.Logf(logger.Allow, "dreamcast", "loaded %s at %08x (%d bytes)", path, addr, len(d))
		return nil
	}

	if err := load(dc.Prefs.SyscallPath.Get().(string), addresses.Syscalls, true); err != nil {
		return err
	}
	if err := load(dc.Prefs.IPBinPath.Get().(string), addresses.IPBin, mode == preferences.BootIPBin); err != nil {
		return err
	}
	if err := load(dc.Prefs.ExecBinPath.Get().(string), addresses.FirstRead, mode == preferences.BootDirect); err != nil {
		return err
	}

	switch mode {
	case preferences.BootIPBin:
		dc.CPU.Reg[sh4.RegPC] = addresses.Bootstrap
	case preferences.BootDirect:
		dc.CPU.Reg[sh4.RegPC] = addresses.FirstRead
	default:
		return curated.Errorf("boot: unknown boot mode (%s)", mode)
	}

	// obtained empirically from a real console immediately after the
	// firmware hands over
	dc.CPU.Reg[sh4.RegVBR] = addresses.BootVBR
	dc.CPU.Reg[sh4.RegR15] = addresses.BootStack

	return nil
}

// End cleans up and persists everything the user would miss: flash, the
// real-time clock, any VMU images.
func (dc *Dreamcast) End() {
	if err := dc.Flash.Flush(); err != nil {
		logger.Log(logger.Allow, "dreamcast", err)
	}
	if err := dc.AICA.RTC.Save(); err != nil {
		logger.Log(logger.Allow, "dreamcast", err)
	}

	for port := 0; port < maple.PortCount; port++ {
		for unit := 0; unit < maple.UnitCount; unit++ {
			if v, ok := dc.Maple.Device(port, unit).(*maple.VMU); ok {
				v.Save()
			}
		}
	}
}

// host input entry points. safe to call from any goroutine; the
// controller state is an atomic snapshot.

// PressButtons presses buttons on the controller in the given port.
func (dc *Dreamcast) PressButtons(port int, mask uint16) {
	if c, ok := dc.Maple.Device(port, 0).(*maple.Controller); ok {
		c.PressButtons(mask)
	}
}

// ReleaseButtons releases buttons on the controller in the given port.
func (dc *Dreamcast) ReleaseButtons(port int, mask uint16) {
	if c, ok := dc.Maple.Device(port, 0).(*maple.Controller); ok {
		c.ReleaseButtons(mask)
	}
}

// SetAxis sets an analogue axis on the controller in the given port.
func (dc *Dreamcast) SetAxis(port int, axis int, value uint8) {
	if c, ok := dc.Maple.Device(port, 0).(*maple.Controller); ok {
		c.SetAxis(axis, value)
	}
}
