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

package maple_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/maple"
	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/hardware/sysblock"
	"github.com/gophercast/gophercast/test"
)

func newTestBus() (*maple.Maple, *sh4.SH4, *sysblock.SysBlock, *sched.Clock) {
	clk := sched.NewClock("test")
	cpu := sh4.NewSH4(clk, memory.NewRAM())
	sb := sysblock.NewSysBlock(cpu)
	m := maple.NewMaple(cpu, sb, clk)
	return m, cpu, sb, clk
}

func TestAddrPackRoundTrip(t *testing.T) {
	for port := 0; port < maple.PortCount; port++ {
		for unit := 0; unit < maple.UnitCount; unit++ {
			p, u := maple.AddrUnpack(maple.AddrPack(port, unit))
			test.ExpectEquality(t, p, port)
			test.ExpectEquality(t, u, unit)
		}
	}
}

func TestAddrUnpackBadPattern(t *testing.T) {
	defer func() {
		if recover() == nil {
			t.Errorf("malformed device address did not panic")
		}
	}()
	maple.AddrUnpack(0x03) // two unit bits set at once
}

// build a one-frame DMA command list in guest RAM.
func buildFrame(cpu *sh4.SH4, listAddr uint32, recvAddr uint32, cmd uint8, addr uint8, payload []uint32) {
	ram := listAddr & 0x00ffffff

	hdr0 := uint32(len(payload)) | 1<<31 // last frame, pattern 0
	cpu.RAM.Write32(ram, hdr0)
	cpu.RAM.Write32(ram+4, recvAddr)
	cpu.RAM.Write32(ram+8, uint32(cmd)|uint32(addr)<<8|uint32(len(payload))<<24)

	for i, w := range payload {
		cpu.RAM.Write32(ram+12+uint32(i*4), w)
	}
}

func TestDevInfoEmptyPort(t *testing.T) {
	m, cpu, sb, clk := newTestBus()

	const listAddr = 0x8c001000
	const recvAddr = 0x8c002000

	// nothing plugged into port 3
	buildFrame(cpu, listAddr, recvAddr, maple.CmdDevInfo, maple.AddrPack(3, 0), nil)

	m.ProcessDMA(listAddr)

	// response: code NONE, no payload
	resp := cpu.RAM.Read32(recvAddr & 0x00ffffff)
	test.ExpectEquality(t, resp&0xff, uint32(maple.RespNone))
	test.ExpectEquality(t, resp>>24, uint32(0))

	// the completion interrupt is deferred through the scheduler and
	// raised in the holly interrupt controller
	for ev := clk.Pop(); ev != nil; ev = clk.Pop() {
		ev.Handler(ev)
	}
	test.ExpectEquality(t, sb.Read32(0x5f6900)&sysblock.IntMapleDMAComplete, sysblock.IntMapleDMAComplete)
}

func TestDevInfoController(t *testing.T) {
	m, cpu, _, _ := newTestBus()
	m.Plug(0, 0, maple.NewController())

	const listAddr = 0x8c001000
	const recvAddr = 0x8c002000

	buildFrame(cpu, listAddr, recvAddr, maple.CmdDevInfo, maple.AddrPack(0, 0), nil)
	m.ProcessDMA(listAddr)

	resp := cpu.RAM.Read32(recvAddr & 0x00ffffff)
	test.ExpectEquality(t, resp&0xff, uint32(maple.RespDevInfo))

	// function code in the first payload word
	fn := cpu.RAM.Read32((recvAddr + 4) & 0x00ffffff)
	test.ExpectEquality(t, fn, uint32(maple.FuncController))
}

func TestGetCondButtons(t *testing.T) {
	m, cpu, _, _ := newTestBus()

	cont := maple.NewController()
	m.Plug(0, 0, cont)
	cont.PressButtons(maple.ButtonA | maple.ButtonStart)

	const listAddr = 0x8c001000
	const recvAddr = 0x8c002000

	buildFrame(cpu, listAddr, recvAddr, maple.CmdGetCond, maple.AddrPack(0, 0),
		[]uint32{maple.FuncController})
	m.ProcessDMA(listAddr)

	resp := cpu.RAM.Read32(recvAddr & 0x00ffffff)
	test.ExpectEquality(t, resp&0xff, uint32(maple.RespDataTrf))

	// buttons are active low on the wire
	cond := cpu.RAM.Read32((recvAddr + 8) & 0x00ffffff)
	btn := uint16(cond)
	test.ExpectEquality(t, btn&maple.ButtonA, uint16(0))
	test.ExpectEquality(t, btn&maple.ButtonStart, uint16(0))
	test.ExpectEquality(t, btn&maple.ButtonB, maple.ButtonB)

	// sticks rest centred
	test.ExpectEquality(t, cpu.RAM.Read8((recvAddr+8+4)&0x00ffffff), uint8(0x80))
}

func TestControllerInputSnapshot(t *testing.T) {
	cont := maple.NewController()

	cont.PressButtons(maple.ButtonA)
	cont.SetAxis(maple.AxisJoyX, 0x20)

	_, cond := cont.Cond()
	test.ExpectEquality(t, cond[4], uint8(0x20))

	cont.ReleaseButtons(maple.ButtonA)
	_, cond = cont.Cond()
	test.ExpectEquality(t, uint16(cond[0])&maple.ButtonA, maple.ButtonA)
}

func TestVMUBlockRoundTrip(t *testing.T) {
	v := maple.NewVMU("")

	// write the four phases of block 7
	for phase := uint32(0); phase < 4; phase++ {
		payload := make([]uint32, 2+32)
		payload[0] = maple.FuncMemCard
		payload[1] = phase<<8 | 7<<24
		for i := range payload[2:] {
			payload[2+i] = phase*1000 + uint32(i)
		}
		v.BWrite(payload)
	}

	data := v.BRead(7 << 24)
	test.ExpectEquality(t, len(data), 512)

	// first word of phase 0 and phase 3
	test.ExpectEquality(t, uint32(data[0]), uint32(0))
	test.ExpectEquality(t, uint32(data[3*128+4]), uint32(3001&0xff))
}
