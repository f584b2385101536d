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

package memorymap_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/memory/addresses"
	"github.com/gophercast/gophercast/hardware/memory/memorymap"
	"github.com/gophercast/gophercast/test"
)

// recorder is a DeviceIO that remembers the address it was called with.
type recorder struct {
	memory.RegisterFile
	lastAddr uint32
}

func (r *recorder) Read32(addr uint32) uint32 {
	r.lastAddr = addr
	return 0
}

func (r *recorder) Write32(addr uint32, val uint32) {
	r.lastAddr = addr
}

func newTestMap() (*memorymap.Map, *memory.RAM, *recorder) {
	ram := memory.NewRAM()
	rec := &recorder{}

	m := memorymap.NewMap("test")

	// the same shape as the real SH4 map: a P4-style region first, RAM
	// second, a mirrored device window last
	m.Add(memorymap.Region{
		Name: "p4", First: 0xe0000000, Last: 0xffffffff,
		RangeMask: 0xffffffff, Mask: 0xffffffff,
		Kind: memorymap.KindMMIO, IO: rec,
	})
	m.Add(memorymap.Region{
		Name: "ram", First: addresses.Area3First, Last: addresses.Area3Last,
		RangeMask: addresses.Area0Mask, Mask: addresses.Area3Mask,
		Kind: memorymap.KindRAM, IO: ram,
	})
	m.Add(memorymap.Region{
		Name: "dev", First: 0x00700000, Last: 0x00707fff,
		RangeMask: addresses.Area0Mask, Mask: 0x00007fff,
		Kind: memorymap.KindMMIO, IO: rec,
	})

	return m, ram, rec
}

// the routed device receives addr&mask exactly
func TestMaskApplied(t *testing.T) {
	m, _, rec := newTestMap()

	m.Write32(0x00700010, 1)
	test.ExpectEquality(t, rec.lastAddr, uint32(0x10))

	// the device window mirrors through P1
	m.Write32(0x80700014, 1)
	test.ExpectEquality(t, rec.lastAddr, uint32(0x14))
}

// P0/P1/P2/P3 mirrored addresses route to the same underlying RAM cell
func TestRAMMirrors(t *testing.T) {
	m, ram, _ := newTestMap()

	m.Write32(0x0c000040, 0xdeadbeef) // P0
	test.ExpectEquality(t, m.Read32(0x8c000040), uint32(0xdeadbeef)) // P1
	test.ExpectEquality(t, m.Read32(0xac000040), uint32(0xdeadbeef)) // P2
	test.ExpectEquality(t, m.Read32(0xcc000040), uint32(0xdeadbeef)) // P3

	// and the 16MiB image mirrors through the 64MiB area 3 window
	test.ExpectEquality(t, m.Read32(0x0d000040), uint32(0xdeadbeef))

	test.ExpectEquality(t, ram.Read32(0x40), uint32(0xdeadbeef))
}

// P4 (top three bits all ones) routes exclusively to the first region,
// never to RAM, even though the RAM range mask would otherwise match
func TestP4Exclusive(t *testing.T) {
	m, _, rec := newTestMap()

	// this address would alias into area 3 under the 29-bit mask
	m.Write32(0xec000040, 1)
	test.ExpectEquality(t, rec.lastAddr, uint32(0xec000040))
}

func TestUnmappedPanics(t *testing.T) {
	m, _, _ := newTestMap()

	defer func() {
		if recover() == nil {
			t.Errorf("unmapped access did not panic")
		}
	}()
	m.Read32(0x00500000)
}
