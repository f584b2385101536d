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

// Package preferences is the configuration surface of the emulated
// console: which images to boot, which dispatch back-end to use, which
// host services to start. Values persist to disk through the prefs
// package.
package preferences

import (
	"github.com/gophercast/gophercast/curated"
	"github.com/gophercast/gophercast/prefs"
	"github.com/gophercast/gophercast/resources"
)

// BootMode values for the BootMode preference.
const (
	BootFirmware = "firmware"
	BootIPBin    = "ip_bin"
	BootDirect   = "direct"
)

// Preferences for the emulated console.
type Preferences struct {
	dsk *prefs.Disk

	// how the console starts: through the firmware, from IP.BIN's
	// bootstrap, or straight into 1ST_READ.BIN
	BootMode prefs.String

	// dispatch back-end selection. NativeJIT forces JIT
	JIT       prefs.Bool
	NativeJIT prefs.Bool
	InlineMem prefs.Bool

	// host services
	DbgEnable    prefs.Bool
	SerSrvEnable prefs.Bool
	EnableCmdTCP prefs.Bool

	// paths to images and persistent state
	BIOSPath    prefs.String
	FlashPath   prefs.String
	RTCPath     prefs.String
	SyscallPath prefs.String
	IPBinPath   prefs.String
	ExecBinPath prefs.String
	GDIImage    prefs.String
}

// NewPreferences is the preferred method of initialisation for the
// Preferences type.
func NewPreferences() (*Preferences, error) {
	p := &Preferences{}
	p.SetDefaults()

	pth, err := resources.JoinPath(prefs.DefaultPrefsFile)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	p.dsk, err = prefs.NewDisk(pth)
	if err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	for _, e := range []struct {
		key string
		p   interface {
			Set(prefs.Value) error
			Get() prefs.Value
			Reset() error
			String() string
		}
	}{
		{"dc.bootmode", &p.BootMode},
		{"dc.jit", &p.JIT},
		{"dc.nativejit", &p.NativeJIT},
		{"dc.inlinemem", &p.InlineMem},
		{"dc.dbg", &p.DbgEnable},
		{"dc.serial", &p.SerSrvEnable},
		{"dc.cmdtcp", &p.EnableCmdTCP},
		{"dc.bios", &p.BIOSPath},
		{"dc.flash", &p.FlashPath},
		{"dc.rtc", &p.RTCPath},
		{"dc.syscalls", &p.SyscallPath},
		{"dc.ipbin", &p.IPBinPath},
		{"dc.execbin", &p.ExecBinPath},
		{"dc.gdi", &p.GDIImage},
	} {
		if err := p.dsk.Add(e.key, e.p); err != nil {
			return nil, curated.Errorf("preferences: %v", err)
		}
	}

	if err := p.dsk.Load(true); err != nil {
		return nil, curated.Errorf("preferences: %v", err)
	}

	return p, nil
}

// SetDefaults puts every preference into its newly-installed state.
func (p *Preferences) SetDefaults() {
	p.BootMode.Set(BootFirmware)
	p.JIT.Set(false)
	p.NativeJIT.Set(false)
	p.InlineMem.Set(false)
	p.DbgEnable.Set(false)
	p.SerSrvEnable.Set(false)
	p.EnableCmdTCP.Set(false)
	p.BIOSPath.Set("dc_bios.bin")
	p.FlashPath.Set("dc_flash.bin")
	p.RTCPath.Set("rtc.txt")
	p.SyscallPath.Set("syscalls.bin")
	p.IPBinPath.Set("")
	p.ExecBinPath.Set("")
	p.GDIImage.Set("")
}

// UseJIT resolves the dispatch back-end selection: NativeJIT implies JIT.
func (p *Preferences) UseJIT() bool {
	return p.JIT.Get().(bool) || p.NativeJIT.Get().(bool)
}

// Save current preference values to disk.
func (p *Preferences) Save() error {
	return p.dsk.Save()
}

// Load preference values from disk.
func (p *Preferences) Load() error {
	return p.dsk.Load(false)
}
