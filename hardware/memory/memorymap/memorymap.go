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

// Package memorymap routes every CPU memory reference to the device that
// owns the address. A Map is an ordered list of address-range to device
// bindings; the order regions are added in is significant.
//
// Each region carries two masks. The range mask is applied to the incoming
// address before the range check, which is how the 29-bit physical space
// mirrors into the SH4's P0/P1/P2/P3 windows. The access mask is applied
// after a region is selected, so a device only ever sees offsets into its
// own window.
//
// The Map must not allocate at access time. It is built once at machine
// creation and never modified afterwards.
package memorymap

import (
	"github.com/gophercast/gophercast/hardware/fault"
)

// DeviceIO is implemented by every device that can be the target of a
// memory access. The width-typed pairs mirror the access types the SH4 and
// ARM7 can generate, including the FPU move widths.
type DeviceIO interface {
	Read8(addr uint32) uint8
	Read16(addr uint32) uint16
	Read32(addr uint32) uint32
	ReadFloat(addr uint32) float32
	ReadDouble(addr uint32) float64

	Write8(addr uint32, val uint8)
	Write16(addr uint32, val uint16)
	Write32(addr uint32, val uint32)
	WriteFloat(addr uint32, val float32)
	WriteDouble(addr uint32, val float64)
}

// RegionKind classifies a region for fast-path decisions. The dispatch loop
// fetches instructions directly from RAM-kind regions without going through
// the interface.
type RegionKind int

// List of valid RegionKind values.
const (
	KindUnknown RegionKind = iota
	KindRAM
	KindMMIO
)

// Region binds an address range to a device.
type Region struct {
	// a name for the region. used for logging and fault records
	Name string

	// the range check is inclusive at both ends and applied after RangeMask
	First uint32
	Last  uint32

	// RangeMask is ANDed with the address before the range check
	RangeMask uint32

	// Mask is ANDed with the address after selection, before the device
	// interface is called
	Mask uint32

	Kind RegionKind

	IO DeviceIO
}

// Map is an ordered list of regions. Use NewMap() to initialise.
type Map struct {
	// a name for the map. used for logging and fault records
	Label string

	Regions []Region
}

// NewMap is the preferred method of initialisation for the Map type.
func NewMap(label string) *Map {
	return &Map{
		Label:   label,
		Regions: make([]Region, 0, 16),
	}
}

// Add a region to the end of the map. Regions added early take precedence
// over regions added later.
func (m *Map) Add(r Region) {
	m.Regions = append(m.Regions, r)
}

// Lookup returns the first region that matches the address and the masked
// address to hand to the region's device. The boolean return value is false
// if no region matches.
func (m *Map) Lookup(addr uint32) (*Region, uint32, bool) {
	for i := range m.Regions {
		r := &m.Regions[i]
		a := addr & r.RangeMask
		if a >= r.First && a <= r.Last {
			return r, addr & r.Mask, true
		}
	}
	return nil, 0, false
}

func (m *Map) unmapped(addr uint32, length int, write bool) {
	ctx := "read"
	if write {
		ctx = "write"
	}
	panic(fault.Record{
		Kind:    fault.UnmappedAddress,
		Address: addr,
		Length:  length,
		Feature: "memory access to an address with no device",
		Context: m.Label + " " + ctx,
	})
}

// Read8 routes an 8-bit read.
func (m *Map) Read8(addr uint32) uint8 {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 1, false)
	}
	return r.IO.Read8(a)
}

// Read16 routes a 16-bit read.
func (m *Map) Read16(addr uint32) uint16 {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 2, false)
	}
	return r.IO.Read16(a)
}

// Read32 routes a 32-bit read.
func (m *Map) Read32(addr uint32) uint32 {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 4, false)
	}
	return r.IO.Read32(a)
}

// ReadFloat routes a 32-bit FPU read.
func (m *Map) ReadFloat(addr uint32) float32 {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 4, false)
	}
	return r.IO.ReadFloat(a)
}

// ReadDouble routes a 64-bit FPU read.
func (m *Map) ReadDouble(addr uint32) float64 {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 8, false)
	}
	return r.IO.ReadDouble(a)
}

// Write8 routes an 8-bit write.
func (m *Map) Write8(addr uint32, val uint8) {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 1, true)
	}
	r.IO.Write8(a, val)
}

// Write16 routes a 16-bit write.
func (m *Map) Write16(addr uint32, val uint16) {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 2, true)
	}
	r.IO.Write16(a, val)
}

// Write32 routes a 32-bit write.
func (m *Map) Write32(addr uint32, val uint32) {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 4, true)
	}
	r.IO.Write32(a, val)
}

// WriteFloat routes a 32-bit FPU write.
func (m *Map) WriteFloat(addr uint32, val float32) {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 4, true)
	}
	r.IO.WriteFloat(a, val)
}

// WriteDouble routes a 64-bit FPU write.
func (m *Map) WriteDouble(addr uint32, val float64) {
	r, a, ok := m.Lookup(addr)
	if !ok {
		m.unmapped(addr, 8, true)
	}
	r.IO.WriteDouble(a, val)
}
