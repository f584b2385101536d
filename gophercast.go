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

package main

import (
	"flag"
	"fmt"
	"os"
	"os/signal"
	"runtime"
	"strings"
	"time"

	"github.com/gophercast/gophercast/debugger"
	"github.com/gophercast/gophercast/debugger/terminal"
	"github.com/gophercast/gophercast/debugger/terminal/colorterm"
	"github.com/gophercast/gophercast/debugger/terminal/plainterm"
	"github.com/gophercast/gophercast/gui/sdlaudio"
	"github.com/gophercast/gophercast/gui/sdlinput"
	"github.com/gophercast/gophercast/hardware"
	"github.com/gophercast/gophercast/hardware/aica"
	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/hardware/preferences"
	"github.com/gophercast/gophercast/io"
	"github.com/gophercast/gophercast/logger"
	"github.com/gophercast/gophercast/performance"
	"github.com/gophercast/gophercast/version"
)

func main() {
	ver, rev := version.Version()
	logger.Logf(logger.Allow, version.ApplicationName, "%s (%s)", ver, rev)
	logger.Logf(logger.Allow, version.ApplicationName, "number of cores available: %d", runtime.NumCPU())

	// the execution mode is the first argument; everything after belongs
	// to the mode
	mode := "RUN"
	args := os.Args[1:]
	if len(args) > 0 {
		switch strings.ToUpper(args[0]) {
		case "RUN", "DEBUG", "PERFORMANCE", "VERSION":
			mode = strings.ToUpper(args[0])
			args = args[1:]
		}
	}

	var err error

	switch mode {
	case "RUN":
		err = emulate(false, args)
	case "DEBUG":
		err = emulate(true, args)
	case "PERFORMANCE":
		err = perform(args)
	case "VERSION":
		fmt.Printf("%s %s (%s)\n", version.ApplicationName, ver, rev)
	}

	if err != nil {
		// print the log so far followed by the error itself
		logger.Write(os.Stderr)
		fmt.Fprintf(os.Stderr, "%s: %v\n", version.ApplicationName, err)
		os.Exit(1)
	}
}

// frameService is the per-frame hook into the host platform: input
// polling now, and the place a rasterising renderer would slot in.
type frameService struct {
	inp *sdlinput.Input
	dc  *hardware.Dreamcast
}

// Render implements the hardware.FramebufferRenderer interface.
func (f *frameService) Render() {
	if !f.inp.Service() {
		f.dc.Gov.Kill()
	}
}

// loadPrefs builds the preferences and applies command-line overrides.
func loadPrefs(flgs *flag.FlagSet, args []string) (*preferences.Preferences, error) {
	prefs, err := preferences.NewPreferences()
	if err != nil {
		return nil, err
	}

	bootMode := flgs.String("boot", "", "boot mode: firmware, ip_bin or direct")
	bios := flgs.String("bios", "", "path to boot ROM image")
	flash := flgs.String("flash", "", "path to flash image")
	syscalls := flgs.String("syscalls", "", "path to syscall image (non-firmware boots)")
	ipBin := flgs.String("ipbin", "", "path to IP.BIN")
	execBin := flgs.String("exec", "", "path to 1ST_READ.BIN")
	gdi := flgs.String("gdi", "", "path to GDI image")
	useJIT := flgs.Bool("jit", false, "use the block-translation dispatcher")
	serial := flgs.Bool("serial", false, "start the serial port server")
	cmdTCP := flgs.Bool("cmdtcp", false, "start the remote command channel")

	if err := flgs.Parse(args); err != nil {
		return nil, err
	}

	if *bootMode != "" {
		prefs.BootMode.Set(*bootMode)
	}
	if *bios != "" {
		prefs.BIOSPath.Set(*bios)
	}
	if *flash != "" {
		prefs.FlashPath.Set(*flash)
	}
	if *syscalls != "" {
		prefs.SyscallPath.Set(*syscalls)
	}
	if *ipBin != "" {
		prefs.IPBinPath.Set(*ipBin)
		prefs.BootMode.Set(preferences.BootIPBin)
	}
	if *execBin != "" {
		prefs.ExecBinPath.Set(*execBin)
		if *bootMode == "" {
			prefs.BootMode.Set(preferences.BootDirect)
		}
	}
	if *gdi != "" {
		prefs.GDIImage.Set(*gdi)
	}
	if *useJIT {
		prefs.JIT.Set(true)
	}
	if *serial {
		prefs.SerSrvEnable.Set(true)
	}
	if *cmdTCP {
		prefs.EnableCmdTCP.Set(true)
	}

	return prefs, nil
}

// emulate runs the machine, with or without the debugger attached.
func emulate(withDebugger bool, args []string) error {
	flgs := flag.NewFlagSet("emulate", flag.ContinueOnError)
	wavCapture := flgs.String("wav", "", "capture audio output to a WAV file")
	prefs, err := loadPrefs(flgs, args)
	if err != nil {
		return err
	}
	if withDebugger {
		prefs.DbgEnable.Set(true)
	}

	dc, err := hardware.NewDreamcast(prefs)
	if err != nil {
		return err
	}

	// echo the log as it happens
	logger.SetEcho(os.Stderr, true)

	// ctrl-c requests a clean shutdown
	intChan := make(chan os.Signal, 1)
	signal.Notify(intChan, os.Interrupt)
	go func() {
		<-intChan
		dc.Gov.Term = govern.TermSigInt
		dc.Gov.Kill()
	}()

	// i/o goroutine and its services
	iot := io.NewIOThread(dc.Gov)

	if prefs.SerSrvEnable.Get().(bool) {
		srv, err := io.NewSerialServer()
		if err != nil {
			return err
		}
		iot.AddService(srv)
		dc.CPU.ConnectSerial(srv)
	}

	var cmdSrv *io.CmdServer
	if prefs.EnableCmdTCP.Get().(bool) {
		cmdSrv, err = io.NewCmdServer(dc.Gov)
		if err != nil {
			return err
		}
		iot.AddService(cmdSrv)
	}

	go iot.Run()
	defer iot.Kick()

	// host audio. failure is not fatal; the console just runs silent
	if aud, err := sdlaudio.NewAudio(dc.AICA.Ring); err != nil {
		logger.Log(logger.Allow, "gophercast", err)
	} else {
		if *wavCapture != "" {
			if rec, err := aica.NewRecorder(*wavCapture); err != nil {
				logger.Log(logger.Allow, "gophercast", err)
			} else {
				aud.AttachRecorder(rec)
				defer rec.End()
			}
		}
		defer aud.End()
	}

	// host input is polled at frame boundaries, piggy-backing on the
	// per-frame render call
	if inp, err := sdlinput.NewInput(dc); err != nil {
		logger.Log(logger.Allow, "gophercast", err)
	} else {
		dc.Renderer = &frameService{inp: inp, dc: dc}
	}

	// the debugger and its terminal
	var dbg *debugger.Debugger
	if prefs.DbgEnable.Get().(bool) {
		dbg = debugger.NewDebugger(dc)

		var term terminal.Terminal
		if ct, err := colorterm.NewColorTerminal(); err == nil {
			term = ct
		} else {
			term = plainterm.NewPlainTerminal()
		}
		go dbg.RunTerminal(term)
	}

	// with a remote command session attached, hold in NotRunning until
	// the begin-execution command
	if cmdSrv != nil {
		for dc.Gov.EmuThreadRunning() && cmdSrv.TakeRequest() != io.ReqBegin {
			time.Sleep(time.Second / 10)
		}
	}
	if !dc.Gov.EmuThreadRunning() {
		return nil
	}

	dc.Gov.Transition(govern.Running, govern.NotRunning)

	dc.AttachDispatchers()
	if dbg != nil {
		dc.SH4Clock.AttachDispatcher(dbg.DispatchSH4)
	}

	suspendCheck := func() {
		if cmdSrv != nil && cmdSrv.TakeRequest() == io.ReqResume {
			dc.Gov.Transition(govern.Running, govern.Suspend)
		}
	}

	return dc.Run(suspendCheck)
}

// perform runs the machine flat out for a fixed period and reports the
// achieved emulation rate.
func perform(args []string) error {
	flgs := flag.NewFlagSet("performance", flag.ContinueOnError)
	duration := flgs.Duration("duration", 5*time.Second, "run length")
	stats := flgs.Bool("statsview", false, "run live statistics server")

	prefs, err := loadPrefs(flgs, args)
	if err != nil {
		return err
	}

	dc, err := hardware.NewDreamcast(prefs)
	if err != nil {
		return err
	}

	dc.Gov.Transition(govern.Running, govern.NotRunning)

	return performance.RunProfiled(dc, *duration, os.Stdout, *stats)
}
