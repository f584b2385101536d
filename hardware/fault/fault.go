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

// Package fault defines the structured record used for conditions that are
// impossible without a bug in the emulator: scheduling a linked event, an
// unknown state transition, a wrong-width access to a strictly sized
// register, and the like.
//
// A fault is raised with panic() from deep inside a device handler or
// opcode implementation and recovered at the top of the dispatch loop,
// which terminates the frame. There is no try-to-recover path; the record
// exists so the failure is reported with enough context to debug it.
//
// Guest-visible SH4 exceptions are not faults. They are CPU state, raised
// and serviced through the sh4 package's exception mechanism.
package fault

import (
	"fmt"
	"strings"
)

// Kind classifies the fault.
type Kind int

// List of fault kinds.
const (
	Integrity Kind = iota
	Unimplemented
	UnmappedAddress
	InvalidParam
	FileIO
)

func (k Kind) String() string {
	switch k {
	case Integrity:
		return "integrity"
	case Unimplemented:
		return "unimplemented"
	case UnmappedAddress:
		return "unmapped address"
	case InvalidParam:
		return "invalid parameter"
	case FileIO:
		return "file i/o"
	}
	return "unknown"
}

// Record carries everything known about the fault at the point it was
// raised. Only Kind is mandatory; zero values elsewhere mean "not
// applicable".
type Record struct {
	Kind Kind

	// the guest address involved, if any
	Address uint32

	// actual and expected access lengths, in bytes
	Length         int
	ExpectedLength int

	// the hardware feature that would need to be implemented, or a
	// description of the violated invariant
	Feature string

	// which part of the emulation raised the fault
	Context string
}

func (r Record) Error() string {
	s := strings.Builder{}
	s.WriteString(fmt.Sprintf("%s fault", r.Kind))
	if r.Context != "" {
		s.WriteString(fmt.Sprintf(" in %s", r.Context))
	}
	if r.Feature != "" {
		s.WriteString(fmt.Sprintf(": %s", r.Feature))
	}
	if r.Address != 0 {
		s.WriteString(fmt.Sprintf(" (address %08x)", r.Address))
	}
	if r.Length != 0 {
		s.WriteString(fmt.Sprintf(" (length %d)", r.Length))
	}
	if r.ExpectedLength != 0 {
		s.WriteString(fmt.Sprintf(" (expected length %d)", r.ExpectedLength))
	}
	return s.String()
}
