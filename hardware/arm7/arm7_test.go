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

package arm7_test

import (
	"testing"

	"github.com/gophercast/gophercast/hardware/arm7"
	"github.com/gophercast/gophercast/hardware/memory"
	"github.com/gophercast/gophercast/hardware/memory/memorymap"
	"github.com/gophercast/gophercast/hardware/sched"
	"github.com/gophercast/gophercast/test"
)

// newTestARM builds an ARM7 over a 1MiB flat RAM at address zero.
func newTestARM() (*arm7.ARM7, *memory.RAM) {
	clk := sched.NewClock("test")
	arm := arm7.NewARM7(clk)

	ram := memory.NewRAM()
	m := memorymap.NewMap("arm7-test")
	m.Add(memorymap.Region{
		Name: "ram", First: 0x00000000, Last: 0x00ffffff,
		RangeMask: 0xffffffff, Mask: 0x00ffffff,
		Kind: memorymap.KindRAM, IO: ram,
	})
	arm.SetMemMap(m)

	arm.SetEnabled(true)
	return arm, ram
}

func poke(ram *memory.RAM, prog []uint32) {
	for i, inst := range prog {
		ram.Write32(uint32(i*4), inst)
	}
}

func run(arm *arm7.ARM7, n int) {
	for i := 0; i < n; i++ {
		arm.ExecuteInstruction()
	}
}

func TestDataProcessing(t *testing.T) {
	arm, ram := newTestARM()

	poke(ram, []uint32{
		0xe3a00007, // MOV R0,#7
		0xe3a01003, // MOV R1,#3
		0xe0802001, // ADD R2,R0,R1
		0xe0403001, // SUB R3,R0,R1
		0xe0204001, // EOR R4,R0,R1
	})
	run(arm, 5)

	test.ExpectEquality(t, arm.Reg[2], uint32(10))
	test.ExpectEquality(t, arm.Reg[3], uint32(4))
	test.ExpectEquality(t, arm.Reg[4], uint32(4))
}

// R15 reads eight bytes ahead of the executing instruction, exactly as
// the real chip's visible pipeline behaves
func TestVisiblePipeline(t *testing.T) {
	arm, ram := newTestARM()

	poke(ram, []uint32{
		0xe1a0000f, // MOV R0,R15
		0xe1a0100f, // MOV R1,R15
	})
	run(arm, 2)

	test.ExpectEquality(t, arm.Reg[0], uint32(8))
	test.ExpectEquality(t, arm.Reg[1], uint32(12))
}

func TestBranchAndLink(t *testing.T) {
	arm, ram := newTestARM()

	poke(ram, []uint32{
		0xeb000001, // BL +1 (target 0xc)
		0xe3a00001, // MOV R0,#1 (skipped)
		0xe3a00002, // MOV R0,#2 (skipped)
		0xe3a00003, // MOV R0,#3 (branch target)
	})
	run(arm, 2)

	test.ExpectEquality(t, arm.Reg[0], uint32(3))
	// the link register holds the instruction after the branch
	test.ExpectEquality(t, arm.Register(14), uint32(4))
}

func TestLoadStore(t *testing.T) {
	arm, ram := newTestARM()

	poke(ram, []uint32{
		0xe3a00c01, // MOV R0,#0x100
		0xe3a0102a, // MOV R1,#42
		0xe5801000, // STR R1,[R0]
		0xe5902000, // LDR R2,[R0]
		0xe5d03000, // LDRB R3,[R0]
	})
	run(arm, 5)

	test.ExpectEquality(t, ram.Read32(0x100), uint32(42))
	test.ExpectEquality(t, arm.Reg[2], uint32(42))
	test.ExpectEquality(t, arm.Reg[3], uint32(42))
}

func TestConditionalExecution(t *testing.T) {
	arm, ram := newTestARM()

	poke(ram, []uint32{
		0xe3a00005, // MOV R0,#5
		0xe3500005, // CMP R0,#5
		0x03a01001, // MOVEQ R1,#1
		0x13a01002, // MOVNE R1,#2
	})
	run(arm, 4)

	test.ExpectEquality(t, arm.Reg[1], uint32(1))
}

func TestBlockTransfer(t *testing.T) {
	arm, ram := newTestARM()

	poke(ram, []uint32{
		0xe3a00001, // MOV R0,#1
		0xe3a01002, // MOV R1,#2
		0xe3a0dc02, // MOV R13,#0x200
		0xe92d0003, // STMDB R13!,{R0,R1}
		0xe3a00000, // MOV R0,#0
		0xe3a01000, // MOV R1,#0
		0xe8bd0003, // LDMIA R13!,{R0,R1}
	})
	run(arm, 7)

	test.ExpectEquality(t, arm.Reg[0], uint32(1))
	test.ExpectEquality(t, arm.Reg[1], uint32(2))
}

// while held in reset, only time passes
func TestResetHold(t *testing.T) {
	clk := sched.NewClock("test")
	arm := arm7.NewARM7(clk)

	test.ExpectFailure(t, arm.Enabled())

	arm.Dispatch()

	if clk.Stamp() == 0 {
		t.Errorf("clock did not advance during reset hold")
	}
	test.ExpectEquality(t, arm.FetchCount, uint64(0))
}
