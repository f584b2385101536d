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

package hardware_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/gophercast/gophercast/hardware"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/hardware/preferences"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/test"
)

// newTestMachine builds a console around synthetic images. The boot ROM
// is filled with a recognisable pattern so fetches can be traced back to
// it.
func newTestMachine(t *testing.T, mode string) *hardware.Dreamcast {
	t.Helper()

	// everything, including the preferences file, lives in the test
	// directory
	wd, err := os.Getwd()
	test.ExpectSuccess(t, err)
	test.ExpectSuccess(t, os.Chdir(t.TempDir()))
	t.Cleanup(func() { os.Chdir(wd) })

	dir := t.TempDir()

	bios := make([]byte, addresses.BIOSSize)
	for i := range bios {
		bios[i] = byte(i)
	}
	biosPath := filepath.Join(dir, "bios.bin")
	test.ExpectSuccess(t, os.WriteFile(biosPath, bios, 0644))

	syscalls := make([]byte, addresses.LenSyscall)
	syscallPath := filepath.Join(dir, "syscalls.bin")
	test.ExpectSuccess(t, os.WriteFile(syscallPath, syscalls, 0644))

	exec := []byte{0x0b, 0x00, 0x09, 0x00} // RTS; NOP
	execPath := filepath.Join(dir, "1st_read.bin")
	test.ExpectSuccess(t, os.WriteFile(execPath, exec, 0644))

	prefs, err := preferences.NewPreferences()
	test.ExpectSuccess(t, err)

	prefs.BootMode.Set(mode)
	prefs.BIOSPath.Set(biosPath)
	prefs.FlashPath.Set(filepath.Join(dir, "flash.bin"))
	prefs.RTCPath.Set(filepath.Join(dir, "rtc.txt"))
	prefs.SyscallPath.Set(syscallPath)
	prefs.ExecBinPath.Set(execPath)

	dc, err := hardware.NewDreamcast(prefs)
	test.ExpectSuccess(t, err)

	return dc
}

// with a firmware boot the first fetch must read the first two bytes of
// the boot ROM
func TestBootFirmware(t *testing.T) {
	dc := newTestMachine(t, preferences.BootFirmware)

	test.ExpectEquality(t, dc.CPU.Reg[sh4.RegPC], uint32(0xa0000000))

	inst := dc.CPU.FetchInstruction()
	test.ExpectEquality(t, inst, uint16(0x0100)) // bytes 0x00, 0x01, little endian
}

// a direct boot synthesises the after-firmware environment and starts in
// the program image
func TestBootDirect(t *testing.T) {
	dc := newTestMachine(t, preferences.BootDirect)

	test.ExpectEquality(t, dc.CPU.Reg[sh4.RegPC], uint32(0x8c010000))
	test.ExpectEquality(t, dc.CPU.Reg[sh4.RegVBR], uint32(0x8c00f400))
	test.ExpectEquality(t, dc.CPU.Reg[sh4.RegR15], uint32(0x8c00f400))

	// the first fetch reads the first two bytes of 1ST_READ.BIN
	inst := dc.CPU.FetchInstruction()
	test.ExpectEquality(t, inst, uint16(0x000b)) // RTS
}

// the machine runs: instructions execute, scanline events fire, a frame
// completes
func TestRunsToEndOfFrame(t *testing.T) {
	dc := newTestMachine(t, preferences.BootDirect)

	// a tight loop at the start of the program image
	dc.CPU.RAM.Write16(0x10000, 0xaffe) // BRA -2 (to itself)
	dc.CPU.RAM.Write16(0x10002, 0x0009) // NOP

	dc.AttachDispatchers()

	for i := 0; i < 1000000; i++ {
		if dc.SH4Clock.RunTimeslice() {
			t.Fatalf("dispatch requested exit")
		}
		if dc.ARM7Clock.RunTimeslice() {
			t.Fatalf("dispatch requested exit")
		}
		if dc.Gov.TakeEndOfFrame() {
			return
		}
	}

	t.Fatalf("no end of frame after a million timeslices")
}

// the ARM7 starts held in reset; its clock must still keep up with its
// scheduler so devices in that domain don't fall behind
func TestARM7HeldInReset(t *testing.T) {
	dc := newTestMachine(t, preferences.BootDirect)

	test.ExpectFailure(t, dc.ARM.Enabled())

	dc.AttachDispatchers()

	for i := 0; i < 10; i++ {
		dc.ARM7Clock.RunTimeslice()
	}

	if dc.ARM7Clock.Stamp() == 0 {
		t.Errorf("arm7 clock did not advance while held in reset")
	}
	test.ExpectEquality(t, dc.ARM.FetchCount, uint64(0))
}

// releasing the ARM7 from reset through the AICA register starts
// execution at address zero
func TestARM7Release(t *testing.T) {
	dc := newTestMachine(t, preferences.BootDirect)

	// a small ARM program: MOV R0,#42 then B .
	dc.WaveMem.Write32(0, 0xe3a0002a) // MOV R0,#42
	dc.WaveMem.Write32(4, 0xeafffffe) // B .

	// the SH4 writes the AICA reset register to release the ARM7
	dc.SH4Map.Write32(0x00702c00, 0)
	test.ExpectSuccess(t, dc.ARM.Enabled())

	dc.AttachDispatchers()
	for i := 0; i < 100; i++ {
		dc.ARM7Clock.RunTimeslice()
	}

	test.ExpectEquality(t, dc.ARM.Reg[0], uint32(42))
}
