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

// Package performance measures how fast the emulation is running
// relative to a real console, and optionally starts a live statistics
// server for watching the Go runtime while it does so.
package performance

import (
	"fmt"
	"io"
	"time"

	"github.com/go-echarts/statsview"
	"github.com/go-echarts/statsview/viewer"

	"github.com/gophercast/gophercast/hardware"
	"github.com/gophercast/gophercast/hardware/clocks"
	"github.com/gophercast/gophercast/logger"
)

// RunProfiled runs the machine for the given wall-clock duration and
// writes a report of the achieved emulation rate.
func RunProfiled(dc *hardware.Dreamcast, duration time.Duration, output io.Writer, stats bool) error {
	if stats {
		if err := StartStatsServer(); err != nil {
			return err
		}
	}

	go func() {
		<-time.After(duration)
		dc.Gov.Kill()
	}()

	start := time.Now()
	startCycles := dc.CPU.Cycles()

	dc.AttachDispatchers()
	if err := dc.Run(nil); err != nil {
		return err
	}

	elapsed := time.Since(start).Seconds()
	cycles := dc.CPU.Cycles() - startCycles

	hz := float64(cycles) / elapsed
	ratio := hz / float64(clocks.SH4Frequency)

	fmt.Fprintf(output, "%d SH4 cycles in %.2fs\n", cycles, elapsed)
	fmt.Fprintf(output, "%.2fMHz: %.1f%% of a real console\n", hz/1e6, ratio*100)

	return nil
}

// StartStatsServer starts the statsview live statistics server. The
// address is logged; point a browser at it.
func StartStatsServer() error {
	viewer.SetConfiguration(viewer.WithAddr("localhost:12600"))
	mgr := statsview.New()

	go func() {
		mgr.Start()
	}()

	logger.Log(logger.Allow, "performance", "live statistics at http://localhost:12600/debug/statsview")

	return nil
}
