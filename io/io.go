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

// Package io runs the network services of the emulator on a goroutine of
// their own: the serial-port server that exposes the guest's SCIF to the
// host network, and the remote command channel.
//
// Nothing in this package ever touches machine state. Communication with
// the emulation goroutine is entirely through byte rings and the
// governor's atomic flags. Shutdown is cooperative: the goroutine
// observes the governor on every wakeup and unwinds when told to.
package io

import (
	"time"

	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/logger"
)

// service is anything the i/o goroutine polls.
type service interface {
	// poll does a bounded amount of non-blocking work
	poll()

	// end closes listeners and connections
	end()
}

// IOThread owns the network listeners. Use NewIOThread() to initialise
// and run Run() as a goroutine.
type IOThread struct {
	gov *govern.Governor

	services []service

	// kick wakes the goroutine out of its sleep early
	kick chan struct{}
}

// NewIOThread is the preferred method of initialisation for the IOThread
// type.
func NewIOThread(gov *govern.Governor) *IOThread {
	return &IOThread{
		gov:  gov,
		kick: make(chan struct{}, 1),
	}
}

// AddService registers a service before Run() starts.
func (iot *IOThread) AddService(s service) {
	iot.services = append(iot.services, s)
}

// Kick wakes the i/o goroutine immediately. Used at shutdown so the
// goroutine notices the governor without waiting out its sleep.
func (iot *IOThread) Kick() {
	select {
	case iot.kick <- struct{}{}:
	default:
	}
}

// Run is the i/o goroutine's main loop.
func (iot *IOThread) Run() {
	defer func() {
		for _, s := range iot.services {
			s.end()
		}
		logger.Log(logger.Allow, "io", "i/o thread finished")
	}()

	for iot.gov.IsRunning() {
		for _, s := range iot.services {
			s.poll()
		}

		// sleep until the next poll, or until something kicks us
		select {
		case <-iot.kick:
		case <-time.After(time.Second / 100):
		}
	}
}
