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

package sh4

import (
	"github.com/gophercast/gophercast/hardware/memory/addresses"
)

// memory access helpers. loads and stores go through the memory map except
// for the main-RAM fast path. the optional hook sees every data access and
// is how the debugger implements watchpoints.

func (sh4 *SH4) ramAddr(addr uint32) (uint32, bool) {
	p := addr & addresses.Area0Mask
	if p >= addresses.Area3First && p <= addresses.Area3Last {
		return p & addresses.Area3Mask, true
	}
	return 0, false
}

func (sh4 *SH4) read8(addr uint32) uint8 {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 1, false)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		return sh4.RAM.Read8(a)
	}
	return sh4.Mem.Read8(addr)
}

func (sh4 *SH4) read16(addr uint32) uint16 {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 2, false)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		return sh4.RAM.Read16(a)
	}
	return sh4.Mem.Read16(addr)
}

func (sh4 *SH4) read32(addr uint32) uint32 {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 4, false)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		return sh4.RAM.Read32(a)
	}
	return sh4.Mem.Read32(addr)
}

func (sh4 *SH4) readFloat(addr uint32) float32 {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 4, false)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		return sh4.RAM.ReadFloat(a)
	}
	return sh4.Mem.ReadFloat(addr)
}

func (sh4 *SH4) write8(addr uint32, val uint8) {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 1, true)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		sh4.RAM.Write8(a, val)
		return
	}
	sh4.Mem.Write8(addr, val)
}

func (sh4 *SH4) write16(addr uint32, val uint16) {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 2, true)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		sh4.RAM.Write16(a, val)
		return
	}
	sh4.Mem.Write16(addr, val)
}

func (sh4 *SH4) write32(addr uint32, val uint32) {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 4, true)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		sh4.RAM.Write32(a, val)
		return
	}
	sh4.Mem.Write32(addr, val)
}

func (sh4 *SH4) writeFloat(addr uint32, val float32) {
	if sh4.Hook != nil {
		sh4.Hook.CheckWatch(addr, 4, true)
	}
	if a, ok := sh4.ramAddr(addr); ok {
		sh4.RAM.WriteFloat(a, val)
		return
	}
	sh4.Mem.WriteFloat(addr, val)
}

// condition flag helpers.

func (sh4 *SH4) setT(v bool) {
	if v {
		sh4.Reg[RegSR] |= SRTMask
	} else {
		sh4.Reg[RegSR] &^= SRTMask
	}
}

func (sh4 *SH4) getT() bool {
	return sh4.Reg[RegSR]&SRTMask != 0
}

// delayedBranchTo books a branch to be taken after the next instruction
// (the delay slot).
func (sh4 *SH4) delayedBranchTo(addr uint32) {
	sh4.delayedBranch = true
	sh4.delayedBranchAddr = addr
}

// the opcode list. ordering only matters where an instruction word could
// match more than one entry, which the masks are chosen to avoid.
var opcodes = []Opcode{
	// system and flag instructions
	{Mnemonic: "NOP", Mask: 0xffff, Pattern: 0x0009, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {}},
	{Mnemonic: "CLRT", Mask: 0xffff, Pattern: 0x0008, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(false) }},
	{Mnemonic: "SETT", Mask: 0xffff, Pattern: 0x0018, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(true) }},
	{Mnemonic: "CLRS", Mask: 0xffff, Pattern: 0x0048, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegSR] &^= SRSMask }},
	{Mnemonic: "SETS", Mask: 0xffff, Pattern: 0x0058, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegSR] |= SRSMask }},
	{Mnemonic: "CLRMAC", Mask: 0xffff, Pattern: 0x0028, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegMACH] = 0
			sh4.Reg[RegMACL] = 0
		}},
	{Mnemonic: "SLEEP", Mask: 0xffff, Pattern: 0x001b, Group: groupCO, Issue: 4,
		Exec: func(sh4 *SH4, inst uint16) {
			if sh4.Reg[RegSTBCR]&0x80 != 0 {
				sh4.ExecState = ExecStandby
			} else {
				sh4.ExecState = ExecSleep
			}
		}},
	{Mnemonic: "RTS", Mask: 0xffff, Pattern: 0x000b, Group: groupCO, Issue: 2, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) { sh4.delayedBranchTo(sh4.Reg[RegPR]) }},
	{Mnemonic: "RTE", Mask: 0xffff, Pattern: 0x002b, Group: groupCO, Issue: 5, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.delayedBranchTo(sh4.Reg[RegSPC])
			sh4.setSR(sh4.Reg[RegSSR])
		}},
	{Mnemonic: "TRAPA #imm", Mask: 0xff00, Pattern: 0xc300, Group: groupCO, Issue: 7,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegTRA] = uimm8(inst) << 2
			sh4.Reg[RegPC] += 2
			sh4.enterException(ExcpTrap, vectorGeneral)
		}},

	// branches
	{Mnemonic: "BT disp", Mask: 0xff00, Pattern: 0x8900, Group: groupBR, Issue: 1, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			if sh4.getT() {
				sh4.Reg[RegPC] += 4 + imm8(inst)<<1
			}
		}},
	{Mnemonic: "BF disp", Mask: 0xff00, Pattern: 0x8b00, Group: groupBR, Issue: 1, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			if !sh4.getT() {
				sh4.Reg[RegPC] += 4 + imm8(inst)<<1
			}
		}},
	{Mnemonic: "BT/S disp", Mask: 0xff00, Pattern: 0x8d00, Group: groupBR, Issue: 1, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			if sh4.getT() {
				sh4.delayedBranchTo(sh4.Reg[RegPC] + 4 + imm8(inst)<<1)
			}
		}},
	{Mnemonic: "BF/S disp", Mask: 0xff00, Pattern: 0x8f00, Group: groupBR, Issue: 1, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			if !sh4.getT() {
				sh4.delayedBranchTo(sh4.Reg[RegPC] + 4 + imm8(inst)<<1)
			}
		}},
	{Mnemonic: "BRA disp", Mask: 0xf000, Pattern: 0xa000, Group: groupBR, Issue: 1, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.delayedBranchTo(sh4.Reg[RegPC] + 4 + disp12(inst)<<1)
		}},
	{Mnemonic: "BSR disp", Mask: 0xf000, Pattern: 0xb000, Group: groupBR, Issue: 1, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegPR] = sh4.Reg[RegPC] + 4
			sh4.delayedBranchTo(sh4.Reg[RegPC] + 4 + disp12(inst)<<1)
		}},
	{Mnemonic: "BRAF Rn", Mask: 0xf0ff, Pattern: 0x0023, Group: groupCO, Issue: 2, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.delayedBranchTo(sh4.Reg[RegPC] + 4 + sh4.Reg[rn(inst)])
		}},
	{Mnemonic: "BSRF Rn", Mask: 0xf0ff, Pattern: 0x0003, Group: groupCO, Issue: 2, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegPR] = sh4.Reg[RegPC] + 4
			sh4.delayedBranchTo(sh4.Reg[RegPC] + 4 + sh4.Reg[rn(inst)])
		}},
	{Mnemonic: "JMP @Rn", Mask: 0xf0ff, Pattern: 0x402b, Group: groupCO, Issue: 2, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) { sh4.delayedBranchTo(sh4.Reg[rn(inst)]) }},
	{Mnemonic: "JSR @Rn", Mask: 0xf0ff, Pattern: 0x400b, Group: groupCO, Issue: 2, IsBranch: true,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegPR] = sh4.Reg[RegPC] + 4
			sh4.delayedBranchTo(sh4.Reg[rn(inst)])
		}},

	// data transfer
	{Mnemonic: "MOV #imm,Rn", Mask: 0xf000, Pattern: 0xe000, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = imm8(inst) }},
	{Mnemonic: "MOV Rm,Rn", Mask: 0xf00f, Pattern: 0x6003, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[rm(inst)] }},
	{Mnemonic: "MOVT Rn", Mask: 0xf0ff, Pattern: 0x0029, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = sh4.Reg[RegSR] & SRTMask
		}},
	{Mnemonic: "MOVA @(disp,PC),R0", Mask: 0xff00, Pattern: 0xc700, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegR0] = (sh4.Reg[RegPC] &^ 3) + 4 + disp8(inst)<<2
		}},
	{Mnemonic: "MOV.W @(disp,PC),Rn", Mask: 0xf000, Pattern: 0x9000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			addr := sh4.Reg[RegPC] + 4 + disp8(inst)<<1
			sh4.Reg[rn(inst)] = uint32(int32(int16(sh4.read16(addr))))
		}},
	{Mnemonic: "MOV.L @(disp,PC),Rn", Mask: 0xf000, Pattern: 0xd000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			addr := (sh4.Reg[RegPC] &^ 3) + 4 + disp8(inst)<<2
			sh4.Reg[rn(inst)] = sh4.read32(addr)
		}},

	{Mnemonic: "MOV.B @Rm,Rn", Mask: 0xf00f, Pattern: 0x6000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int8(sh4.read8(sh4.Reg[rm(inst)]))))
		}},
	{Mnemonic: "MOV.W @Rm,Rn", Mask: 0xf00f, Pattern: 0x6001, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int16(sh4.read16(sh4.Reg[rm(inst)]))))
		}},
	{Mnemonic: "MOV.L @Rm,Rn", Mask: 0xf00f, Pattern: 0x6002, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = sh4.read32(sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "MOV.B Rm,@Rn", Mask: 0xf00f, Pattern: 0x2000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write8(sh4.Reg[rn(inst)], uint8(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MOV.W Rm,@Rn", Mask: 0xf00f, Pattern: 0x2001, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write16(sh4.Reg[rn(inst)], uint16(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MOV.L Rm,@Rn", Mask: 0xf00f, Pattern: 0x2002, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write32(sh4.Reg[rn(inst)], sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "MOV.B @Rm+,Rn", Mask: 0xf00f, Pattern: 0x6004, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int8(sh4.read8(sh4.Reg[rm(inst)]))))
			if rn(inst) != rm(inst) {
				sh4.Reg[rm(inst)]++
			}
		}},
	{Mnemonic: "MOV.W @Rm+,Rn", Mask: 0xf00f, Pattern: 0x6005, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int16(sh4.read16(sh4.Reg[rm(inst)]))))
			if rn(inst) != rm(inst) {
				sh4.Reg[rm(inst)] += 2
			}
		}},
	{Mnemonic: "MOV.L @Rm+,Rn", Mask: 0xf00f, Pattern: 0x6006, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = sh4.read32(sh4.Reg[rm(inst)])
			if rn(inst) != rm(inst) {
				sh4.Reg[rm(inst)] += 4
			}
		}},
	{Mnemonic: "MOV.B Rm,@-Rn", Mask: 0xf00f, Pattern: 0x2004, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)]--
			sh4.write8(sh4.Reg[rn(inst)], uint8(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MOV.W Rm,@-Rn", Mask: 0xf00f, Pattern: 0x2005, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] -= 2
			sh4.write16(sh4.Reg[rn(inst)], uint16(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MOV.L Rm,@-Rn", Mask: 0xf00f, Pattern: 0x2006, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] -= 4
			sh4.write32(sh4.Reg[rn(inst)], sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "MOV.B @(R0,Rm),Rn", Mask: 0xf00f, Pattern: 0x000c, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int8(sh4.read8(sh4.Reg[RegR0] + sh4.Reg[rm(inst)]))))
		}},
	{Mnemonic: "MOV.W @(R0,Rm),Rn", Mask: 0xf00f, Pattern: 0x000d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int16(sh4.read16(sh4.Reg[RegR0] + sh4.Reg[rm(inst)]))))
		}},
	{Mnemonic: "MOV.L @(R0,Rm),Rn", Mask: 0xf00f, Pattern: 0x000e, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = sh4.read32(sh4.Reg[RegR0] + sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "MOV.B Rm,@(R0,Rn)", Mask: 0xf00f, Pattern: 0x0004, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write8(sh4.Reg[RegR0]+sh4.Reg[rn(inst)], uint8(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MOV.W Rm,@(R0,Rn)", Mask: 0xf00f, Pattern: 0x0005, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write16(sh4.Reg[RegR0]+sh4.Reg[rn(inst)], uint16(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MOV.L Rm,@(R0,Rn)", Mask: 0xf00f, Pattern: 0x0006, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write32(sh4.Reg[RegR0]+sh4.Reg[rn(inst)], sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "MOV.L Rm,@(disp,Rn)", Mask: 0xf000, Pattern: 0x1000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write32(sh4.Reg[rn(inst)]+disp4(inst)<<2, sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "MOV.L @(disp,Rm),Rn", Mask: 0xf000, Pattern: 0x5000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = sh4.read32(sh4.Reg[rm(inst)] + disp4(inst)<<2)
		}},
	{Mnemonic: "MOV.B R0,@(disp,Rn)", Mask: 0xff00, Pattern: 0x8000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write8(sh4.Reg[rm(inst)]+disp4(inst), uint8(sh4.Reg[RegR0]))
		}},
	{Mnemonic: "MOV.W R0,@(disp,Rn)", Mask: 0xff00, Pattern: 0x8100, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write16(sh4.Reg[rm(inst)]+disp4(inst)<<1, uint16(sh4.Reg[RegR0]))
		}},
	{Mnemonic: "MOV.B @(disp,Rm),R0", Mask: 0xff00, Pattern: 0x8400, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegR0] = uint32(int32(int8(sh4.read8(sh4.Reg[rm(inst)] + disp4(inst)))))
		}},
	{Mnemonic: "MOV.W @(disp,Rm),R0", Mask: 0xff00, Pattern: 0x8500, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegR0] = uint32(int32(int16(sh4.read16(sh4.Reg[rm(inst)] + disp4(inst)<<1))))
		}},
	{Mnemonic: "MOV.B R0,@(disp,GBR)", Mask: 0xff00, Pattern: 0xc000, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write8(sh4.Reg[RegGBR]+disp8(inst), uint8(sh4.Reg[RegR0]))
		}},
	{Mnemonic: "MOV.W R0,@(disp,GBR)", Mask: 0xff00, Pattern: 0xc100, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write16(sh4.Reg[RegGBR]+disp8(inst)<<1, uint16(sh4.Reg[RegR0]))
		}},
	{Mnemonic: "MOV.L R0,@(disp,GBR)", Mask: 0xff00, Pattern: 0xc200, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.write32(sh4.Reg[RegGBR]+disp8(inst)<<2, sh4.Reg[RegR0])
		}},
	{Mnemonic: "MOV.B @(disp,GBR),R0", Mask: 0xff00, Pattern: 0xc400, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegR0] = uint32(int32(int8(sh4.read8(sh4.Reg[RegGBR] + disp8(inst)))))
		}},
	{Mnemonic: "MOV.W @(disp,GBR),R0", Mask: 0xff00, Pattern: 0xc500, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegR0] = uint32(int32(int16(sh4.read16(sh4.Reg[RegGBR] + disp8(inst)<<1))))
		}},
	{Mnemonic: "MOV.L @(disp,GBR),R0", Mask: 0xff00, Pattern: 0xc600, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegR0] = sh4.read32(sh4.Reg[RegGBR] + disp8(inst)<<2)
		}},

	// arithmetic
	{Mnemonic: "ADD Rm,Rn", Mask: 0xf00f, Pattern: 0x300c, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] += sh4.Reg[rm(inst)] }},
	{Mnemonic: "ADD #imm,Rn", Mask: 0xf000, Pattern: 0x7000, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] += imm8(inst) }},
	{Mnemonic: "ADDC Rm,Rn", Mask: 0xf00f, Pattern: 0x300e, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			a := uint64(sh4.Reg[rn(inst)])
			b := uint64(sh4.Reg[rm(inst)])
			t := uint64(0)
			if sh4.getT() {
				t = 1
			}
			sum := a + b + t
			sh4.Reg[rn(inst)] = uint32(sum)
			sh4.setT(sum > 0xffffffff)
		}},
	{Mnemonic: "ADDV Rm,Rn", Mask: 0xf00f, Pattern: 0x300f, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			a := int32(sh4.Reg[rn(inst)])
			b := int32(sh4.Reg[rm(inst)])
			sum := a + b
			sh4.Reg[rn(inst)] = uint32(sum)
			sh4.setT((a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0))
		}},
	{Mnemonic: "SUB Rm,Rn", Mask: 0xf00f, Pattern: 0x3008, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] -= sh4.Reg[rm(inst)] }},
	{Mnemonic: "SUBC Rm,Rn", Mask: 0xf00f, Pattern: 0x300a, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			a := uint64(sh4.Reg[rn(inst)])
			b := uint64(sh4.Reg[rm(inst)])
			t := uint64(0)
			if sh4.getT() {
				t = 1
			}
			diff := a - b - t
			sh4.Reg[rn(inst)] = uint32(diff)
			sh4.setT(a < b+t)
		}},
	{Mnemonic: "NEG Rm,Rn", Mask: 0xf00f, Pattern: 0x600b, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = -sh4.Reg[rm(inst)] }},
	{Mnemonic: "NEGC Rm,Rn", Mask: 0xf00f, Pattern: 0x600a, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			t := uint32(0)
			if sh4.getT() {
				t = 1
			}
			v := sh4.Reg[rm(inst)]
			sh4.Reg[rn(inst)] = -v - t
			sh4.setT(v != 0 || t != 0)
		}},
	{Mnemonic: "DT Rn", Mask: 0xf0ff, Pattern: 0x4010, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)]--
			sh4.setT(sh4.Reg[rn(inst)] == 0)
		}},
	{Mnemonic: "MUL.L Rm,Rn", Mask: 0xf00f, Pattern: 0x0007, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegMACL] = sh4.Reg[rn(inst)] * sh4.Reg[rm(inst)]
		}},
	{Mnemonic: "MULU.W Rm,Rn", Mask: 0xf00f, Pattern: 0x200e, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegMACL] = uint32(uint16(sh4.Reg[rn(inst)])) * uint32(uint16(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "MULS.W Rm,Rn", Mask: 0xf00f, Pattern: 0x200f, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegMACL] = uint32(int32(int16(sh4.Reg[rn(inst)])) * int32(int16(sh4.Reg[rm(inst)])))
		}},
	{Mnemonic: "DMULU.L Rm,Rn", Mask: 0xf00f, Pattern: 0x3005, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			prod := uint64(sh4.Reg[rn(inst)]) * uint64(sh4.Reg[rm(inst)])
			sh4.Reg[RegMACH] = uint32(prod >> 32)
			sh4.Reg[RegMACL] = uint32(prod)
		}},
	{Mnemonic: "DMULS.L Rm,Rn", Mask: 0xf00f, Pattern: 0x300d, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			prod := int64(int32(sh4.Reg[rn(inst)])) * int64(int32(sh4.Reg[rm(inst)]))
			sh4.Reg[RegMACH] = uint32(uint64(prod) >> 32)
			sh4.Reg[RegMACL] = uint32(uint64(prod))
		}},
	{Mnemonic: "DIV0U", Mask: 0xffff, Pattern: 0x0019, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegSR] &^= SRQMask | SRMMask | SRTMask
		}},
	{Mnemonic: "DIV0S Rm,Rn", Mask: 0xf00f, Pattern: 0x2007, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			q := sh4.Reg[rn(inst)]&0x80000000 != 0
			m := sh4.Reg[rm(inst)]&0x80000000 != 0
			sh4.Reg[RegSR] &^= SRQMask | SRMMask
			if q {
				sh4.Reg[RegSR] |= SRQMask
			}
			if m {
				sh4.Reg[RegSR] |= SRMMask
			}
			sh4.setT(q != m)
		}},
	{Mnemonic: "DIV1 Rm,Rn", Mask: 0xf00f, Pattern: 0x3004, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.div1(rm(inst), rn(inst)) }},

	// comparison
	{Mnemonic: "CMP/EQ #imm,R0", Mask: 0xff00, Pattern: 0x8800, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(sh4.Reg[RegR0] == imm8(inst)) }},
	{Mnemonic: "CMP/EQ Rm,Rn", Mask: 0xf00f, Pattern: 0x3000, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(sh4.Reg[rn(inst)] == sh4.Reg[rm(inst)]) }},
	{Mnemonic: "CMP/HS Rm,Rn", Mask: 0xf00f, Pattern: 0x3002, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(sh4.Reg[rn(inst)] >= sh4.Reg[rm(inst)]) }},
	{Mnemonic: "CMP/GE Rm,Rn", Mask: 0xf00f, Pattern: 0x3003, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(int32(sh4.Reg[rn(inst)]) >= int32(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "CMP/HI Rm,Rn", Mask: 0xf00f, Pattern: 0x3006, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(sh4.Reg[rn(inst)] > sh4.Reg[rm(inst)]) }},
	{Mnemonic: "CMP/GT Rm,Rn", Mask: 0xf00f, Pattern: 0x3007, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(int32(sh4.Reg[rn(inst)]) > int32(sh4.Reg[rm(inst)]))
		}},
	{Mnemonic: "CMP/PZ Rn", Mask: 0xf0ff, Pattern: 0x4011, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(int32(sh4.Reg[rn(inst)]) >= 0) }},
	{Mnemonic: "CMP/PL Rn", Mask: 0xf0ff, Pattern: 0x4015, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(int32(sh4.Reg[rn(inst)]) > 0) }},
	{Mnemonic: "CMP/STR Rm,Rn", Mask: 0xf00f, Pattern: 0x200c, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			d := sh4.Reg[rn(inst)] ^ sh4.Reg[rm(inst)]
			sh4.setT(d&0xff000000 == 0 || d&0x00ff0000 == 0 || d&0x0000ff00 == 0 || d&0x000000ff == 0)
		}},

	// logic
	{Mnemonic: "TST Rm,Rn", Mask: 0xf00f, Pattern: 0x2008, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(sh4.Reg[rn(inst)]&sh4.Reg[rm(inst)] == 0) }},
	{Mnemonic: "TST #imm,R0", Mask: 0xff00, Pattern: 0xc800, Group: groupMT, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setT(sh4.Reg[RegR0]&uimm8(inst) == 0) }},
	{Mnemonic: "AND Rm,Rn", Mask: 0xf00f, Pattern: 0x2009, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] &= sh4.Reg[rm(inst)] }},
	{Mnemonic: "AND #imm,R0", Mask: 0xff00, Pattern: 0xc900, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegR0] &= uimm8(inst) }},
	{Mnemonic: "OR Rm,Rn", Mask: 0xf00f, Pattern: 0x200b, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] |= sh4.Reg[rm(inst)] }},
	{Mnemonic: "OR #imm,R0", Mask: 0xff00, Pattern: 0xcb00, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegR0] |= uimm8(inst) }},
	{Mnemonic: "XOR Rm,Rn", Mask: 0xf00f, Pattern: 0x200a, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] ^= sh4.Reg[rm(inst)] }},
	{Mnemonic: "XOR #imm,R0", Mask: 0xff00, Pattern: 0xca00, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegR0] ^= uimm8(inst) }},
	{Mnemonic: "NOT Rm,Rn", Mask: 0xf00f, Pattern: 0x6007, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = ^sh4.Reg[rm(inst)] }},
	{Mnemonic: "XTRCT Rm,Rn", Mask: 0xf00f, Pattern: 0x200d, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = sh4.Reg[rn(inst)]>>16 | sh4.Reg[rm(inst)]<<16
		}},
	{Mnemonic: "SWAP.B Rm,Rn", Mask: 0xf00f, Pattern: 0x6008, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.Reg[rm(inst)]
			sh4.Reg[rn(inst)] = v&0xffff0000 | v>>8&0xff | v<<8&0xff00
		}},
	{Mnemonic: "SWAP.W Rm,Rn", Mask: 0xf00f, Pattern: 0x6009, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.Reg[rm(inst)]
			sh4.Reg[rn(inst)] = v>>16 | v<<16
		}},
	{Mnemonic: "EXTU.B Rm,Rn", Mask: 0xf00f, Pattern: 0x600c, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[rm(inst)] & 0xff }},
	{Mnemonic: "EXTU.W Rm,Rn", Mask: 0xf00f, Pattern: 0x600d, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[rm(inst)] & 0xffff }},
	{Mnemonic: "EXTS.B Rm,Rn", Mask: 0xf00f, Pattern: 0x600e, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int8(sh4.Reg[rm(inst)])))
		}},
	{Mnemonic: "EXTS.W Rm,Rn", Mask: 0xf00f, Pattern: 0x600f, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] = uint32(int32(int16(sh4.Reg[rm(inst)])))
		}},
	{Mnemonic: "TAS.B @Rn", Mask: 0xf0ff, Pattern: 0x401b, Group: groupCO, Issue: 5,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.read8(sh4.Reg[rn(inst)])
			sh4.setT(v == 0)
			sh4.write8(sh4.Reg[rn(inst)], v|0x80)
		}},

	// shifts
	{Mnemonic: "SHLL Rn", Mask: 0xf0ff, Pattern: 0x4000, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(sh4.Reg[rn(inst)]&0x80000000 != 0)
			sh4.Reg[rn(inst)] <<= 1
		}},
	{Mnemonic: "SHLR Rn", Mask: 0xf0ff, Pattern: 0x4001, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(sh4.Reg[rn(inst)]&1 != 0)
			sh4.Reg[rn(inst)] >>= 1
		}},
	{Mnemonic: "SHAL Rn", Mask: 0xf0ff, Pattern: 0x4020, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(sh4.Reg[rn(inst)]&0x80000000 != 0)
			sh4.Reg[rn(inst)] <<= 1
		}},
	{Mnemonic: "SHAR Rn", Mask: 0xf0ff, Pattern: 0x4021, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(sh4.Reg[rn(inst)]&1 != 0)
			sh4.Reg[rn(inst)] = uint32(int32(sh4.Reg[rn(inst)]) >> 1)
		}},
	{Mnemonic: "SHLL2 Rn", Mask: 0xf0ff, Pattern: 0x4008, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] <<= 2 }},
	{Mnemonic: "SHLR2 Rn", Mask: 0xf0ff, Pattern: 0x4009, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] >>= 2 }},
	{Mnemonic: "SHLL8 Rn", Mask: 0xf0ff, Pattern: 0x4018, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] <<= 8 }},
	{Mnemonic: "SHLR8 Rn", Mask: 0xf0ff, Pattern: 0x4019, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] >>= 8 }},
	{Mnemonic: "SHLL16 Rn", Mask: 0xf0ff, Pattern: 0x4028, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] <<= 16 }},
	{Mnemonic: "SHLR16 Rn", Mask: 0xf0ff, Pattern: 0x4029, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] >>= 16 }},
	{Mnemonic: "SHAD Rm,Rn", Mask: 0xf00f, Pattern: 0x400c, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			s := sh4.Reg[rm(inst)]
			if int32(s) >= 0 {
				sh4.Reg[rn(inst)] <<= s & 0x1f
			} else if s&0x1f == 0 {
				sh4.Reg[rn(inst)] = uint32(int32(sh4.Reg[rn(inst)]) >> 31)
			} else {
				sh4.Reg[rn(inst)] = uint32(int32(sh4.Reg[rn(inst)]) >> (32 - s&0x1f))
			}
		}},
	{Mnemonic: "SHLD Rm,Rn", Mask: 0xf00f, Pattern: 0x400d, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			s := sh4.Reg[rm(inst)]
			if int32(s) >= 0 {
				sh4.Reg[rn(inst)] <<= s & 0x1f
			} else if s&0x1f == 0 {
				sh4.Reg[rn(inst)] = 0
			} else {
				sh4.Reg[rn(inst)] >>= 32 - s&0x1f
			}
		}},
	{Mnemonic: "ROTL Rn", Mask: 0xf0ff, Pattern: 0x4004, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.Reg[rn(inst)]
			sh4.setT(v&0x80000000 != 0)
			sh4.Reg[rn(inst)] = v<<1 | v>>31
		}},
	{Mnemonic: "ROTR Rn", Mask: 0xf0ff, Pattern: 0x4005, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.Reg[rn(inst)]
			sh4.setT(v&1 != 0)
			sh4.Reg[rn(inst)] = v>>1 | v<<31
		}},
	{Mnemonic: "ROTCL Rn", Mask: 0xf0ff, Pattern: 0x4024, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.Reg[rn(inst)]
			t := uint32(0)
			if sh4.getT() {
				t = 1
			}
			sh4.setT(v&0x80000000 != 0)
			sh4.Reg[rn(inst)] = v<<1 | t
		}},
	{Mnemonic: "ROTCR Rn", Mask: 0xf0ff, Pattern: 0x4025, Group: groupEX, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			v := sh4.Reg[rn(inst)]
			t := uint32(0)
			if sh4.getT() {
				t = 0x80000000
			}
			sh4.setT(v&1 != 0)
			sh4.Reg[rn(inst)] = v>>1 | t
		}},

	// control register transfers
	{Mnemonic: "STC SR,Rn", Mask: 0xf0ff, Pattern: 0x0002, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegSR] }},
	{Mnemonic: "STC GBR,Rn", Mask: 0xf0ff, Pattern: 0x0012, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegGBR] }},
	{Mnemonic: "STC VBR,Rn", Mask: 0xf0ff, Pattern: 0x0022, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegVBR] }},
	{Mnemonic: "STC SSR,Rn", Mask: 0xf0ff, Pattern: 0x0032, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegSSR] }},
	{Mnemonic: "STC SPC,Rn", Mask: 0xf0ff, Pattern: 0x0042, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegSPC] }},
	{Mnemonic: "STC SGR,Rn", Mask: 0xf0ff, Pattern: 0x003a, Group: groupCO, Issue: 3,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegSGR] }},
	{Mnemonic: "STC DBR,Rn", Mask: 0xf0ff, Pattern: 0x00fa, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegDBR] }},
	{Mnemonic: "LDC Rm,SR", Mask: 0xf0ff, Pattern: 0x400e, Group: groupCO, Issue: 4,
		Exec: func(sh4 *SH4, inst uint16) { sh4.setSR(sh4.Reg[rn(inst)]) }},
	{Mnemonic: "LDC Rm,GBR", Mask: 0xf0ff, Pattern: 0x401e, Group: groupCO, Issue: 3,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegGBR] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDC Rm,VBR", Mask: 0xf0ff, Pattern: 0x402e, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegVBR] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDC Rm,SSR", Mask: 0xf0ff, Pattern: 0x403e, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegSSR] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDC Rm,SPC", Mask: 0xf0ff, Pattern: 0x404e, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegSPC] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDC Rm,DBR", Mask: 0xf0ff, Pattern: 0x40fa, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegDBR] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDC Rm,Rn_BANK", Mask: 0xf08f, Pattern: 0x408e, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			bank := int(inst>>4) & 7
			sh4.Reg[sh4.bankedReg(bank, 1)] = sh4.Reg[rn(inst)]
		}},
	{Mnemonic: "STC Rm_BANK,Rn", Mask: 0xf08f, Pattern: 0x0082, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			bank := int(inst>>4) & 7
			sh4.Reg[rn(inst)] = sh4.Reg[sh4.bankedReg(bank, 1)]
		}},
	{Mnemonic: "STC.L SR,@-Rn", Mask: 0xf0ff, Pattern: 0x4003, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] -= 4
			sh4.write32(sh4.Reg[rn(inst)], sh4.Reg[RegSR])
		}},
	{Mnemonic: "LDC.L @Rm+,SR", Mask: 0xf0ff, Pattern: 0x4007, Group: groupCO, Issue: 4,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setSR(sh4.read32(sh4.Reg[rn(inst)]))
			sh4.Reg[rn(inst)] += 4
		}},
	{Mnemonic: "STS MACH,Rn", Mask: 0xf0ff, Pattern: 0x000a, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegMACH] }},
	{Mnemonic: "STS MACL,Rn", Mask: 0xf0ff, Pattern: 0x001a, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegMACL] }},
	{Mnemonic: "STS PR,Rn", Mask: 0xf0ff, Pattern: 0x002a, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegPR] }},
	{Mnemonic: "LDS Rm,MACH", Mask: 0xf0ff, Pattern: 0x400a, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegMACH] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDS Rm,MACL", Mask: 0xf0ff, Pattern: 0x401a, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegMACL] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "LDS Rm,PR", Mask: 0xf0ff, Pattern: 0x402a, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegPR] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "STS.L PR,@-Rn", Mask: 0xf0ff, Pattern: 0x4022, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] -= 4
			sh4.write32(sh4.Reg[rn(inst)], sh4.Reg[RegPR])
		}},
	{Mnemonic: "LDS.L @Rm+,PR", Mask: 0xf0ff, Pattern: 0x4026, Group: groupCO, Issue: 2,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegPR] = sh4.read32(sh4.Reg[rn(inst)])
			sh4.Reg[rn(inst)] += 4
		}},
	{Mnemonic: "LDS Rm,FPUL", Mask: 0xf0ff, Pattern: 0x405a, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegFPUL] = sh4.Reg[rn(inst)] }},
	{Mnemonic: "STS FPUL,Rn", Mask: 0xf0ff, Pattern: 0x005a, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegFPUL] }},
	{Mnemonic: "LDS Rm,FPSCR", Mask: 0xf0ff, Pattern: 0x406a, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegFPSCR] = sh4.Reg[rn(inst)] & 0x003fffff }},
	{Mnemonic: "STS FPSCR,Rn", Mask: 0xf0ff, Pattern: 0x006a, Group: groupCO, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[rn(inst)] = sh4.Reg[RegFPSCR] }},

	// cache/queue hints. OCBI/OCBP/OCBWB/PREF have no architectural effect
	// in this emulation beyond the store-queue burst for PREF, which is not
	// modelled either (store queues write through directly)
	{Mnemonic: "OCBI @Rn", Mask: 0xf0ff, Pattern: 0x0093, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {}},
	{Mnemonic: "OCBP @Rn", Mask: 0xf0ff, Pattern: 0x00a3, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {}},
	{Mnemonic: "OCBWB @Rn", Mask: 0xf0ff, Pattern: 0x00b3, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {}},
	{Mnemonic: "PREF @Rn", Mask: 0xf0ff, Pattern: 0x0083, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {}},

	// floating point (single precision only; the Dreamcast firmware and
	// most games run with PR=0)
	{Mnemonic: "FLDI0 FRn", Mask: 0xf0ff, Pattern: 0xf08d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] = 0.0 }},
	{Mnemonic: "FLDI1 FRn", Mask: 0xf0ff, Pattern: 0xf09d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] = 1.0 }},
	{Mnemonic: "FMOV FRm,FRn", Mask: 0xf00f, Pattern: 0xf00c, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] = sh4.Freg[fm(inst)] }},
	{Mnemonic: "FMOV.S @Rm,FRn", Mask: 0xf00f, Pattern: 0xf008, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Freg[fn(inst)] = sh4.readFloat(sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "FMOV.S FRm,@Rn", Mask: 0xf00f, Pattern: 0xf00a, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.writeFloat(sh4.Reg[rn(inst)], sh4.Freg[fm(inst)])
		}},
	{Mnemonic: "FMOV.S @Rm+,FRn", Mask: 0xf00f, Pattern: 0xf009, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Freg[fn(inst)] = sh4.readFloat(sh4.Reg[rm(inst)])
			sh4.Reg[rm(inst)] += 4
		}},
	{Mnemonic: "FMOV.S FRm,@-Rn", Mask: 0xf00f, Pattern: 0xf00b, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[rn(inst)] -= 4
			sh4.writeFloat(sh4.Reg[rn(inst)], sh4.Freg[fm(inst)])
		}},
	{Mnemonic: "FMOV.S @(R0,Rm),FRn", Mask: 0xf00f, Pattern: 0xf006, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Freg[fn(inst)] = sh4.readFloat(sh4.Reg[RegR0] + sh4.Reg[rm(inst)])
		}},
	{Mnemonic: "FMOV.S FRm,@(R0,Rn)", Mask: 0xf00f, Pattern: 0xf007, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.writeFloat(sh4.Reg[RegR0]+sh4.Reg[rn(inst)], sh4.Freg[fm(inst)])
		}},
	{Mnemonic: "FADD FRm,FRn", Mask: 0xf00f, Pattern: 0xf000, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] += sh4.Freg[fm(inst)] }},
	{Mnemonic: "FSUB FRm,FRn", Mask: 0xf00f, Pattern: 0xf001, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] -= sh4.Freg[fm(inst)] }},
	{Mnemonic: "FMUL FRm,FRn", Mask: 0xf00f, Pattern: 0xf002, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] *= sh4.Freg[fm(inst)] }},
	{Mnemonic: "FDIV FRm,FRn", Mask: 0xf00f, Pattern: 0xf003, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] /= sh4.Freg[fm(inst)] }},
	{Mnemonic: "FCMP/EQ FRm,FRn", Mask: 0xf00f, Pattern: 0xf004, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(sh4.Freg[fn(inst)] == sh4.Freg[fm(inst)])
		}},
	{Mnemonic: "FCMP/GT FRm,FRn", Mask: 0xf00f, Pattern: 0xf005, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.setT(sh4.Freg[fn(inst)] > sh4.Freg[fm(inst)])
		}},
	{Mnemonic: "FLDS FRm,FPUL", Mask: 0xf0ff, Pattern: 0xf01d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegFPUL] = floatBits(sh4.Freg[fn(inst)])
		}},
	{Mnemonic: "FSTS FPUL,FRn", Mask: 0xf0ff, Pattern: 0xf00d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Freg[fn(inst)] = floatFromBits(sh4.Reg[RegFPUL])
		}},
	{Mnemonic: "FLOAT FPUL,FRn", Mask: 0xf0ff, Pattern: 0xf02d, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Freg[fn(inst)] = float32(int32(sh4.Reg[RegFPUL]))
		}},
	{Mnemonic: "FTRC FRm,FPUL", Mask: 0xf0ff, Pattern: 0xf03d, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			sh4.Reg[RegFPUL] = uint32(int32(sh4.Freg[fn(inst)]))
		}},
	{Mnemonic: "FNEG FRn", Mask: 0xf0ff, Pattern: 0xf04d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Freg[fn(inst)] = -sh4.Freg[fn(inst)] }},
	{Mnemonic: "FABS FRn", Mask: 0xf0ff, Pattern: 0xf05d, Group: groupLS, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) {
			if sh4.Freg[fn(inst)] < 0 {
				sh4.Freg[fn(inst)] = -sh4.Freg[fn(inst)]
			}
		}},
	{Mnemonic: "FSCHG", Mask: 0xffff, Pattern: 0xf3fd, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegFPSCR] ^= 0x00100000 }},
	{Mnemonic: "FRCHG", Mask: 0xffff, Pattern: 0xfbfd, Group: groupFE, Issue: 1,
		Exec: func(sh4 *SH4, inst uint16) { sh4.Reg[RegFPSCR] ^= 0x00200000 }},
}

// div1 is the divide-step instruction. one bit of quotient per execution;
// software strings 32 of them together after DIV0U/DIV0S.
func (sh4 *SH4) div1(m, n RegIdx) {
	sr := sh4.Reg[RegSR]
	q := sr&SRQMask != 0
	mFlag := sr&SRMMask != 0
	t := sr&SRTMask != 0

	oldQ := q
	q = sh4.Reg[n]&0x80000000 != 0

	var tBit uint32
	if t {
		tBit = 1
	}
	sh4.Reg[n] = sh4.Reg[n]<<1 | tBit

	old := sh4.Reg[n]
	if oldQ == mFlag {
		sh4.Reg[n] -= sh4.Reg[m]
		q = q != (sh4.Reg[n] > old)
	} else {
		sh4.Reg[n] += sh4.Reg[m]
		q = q != (sh4.Reg[n] < old)
	}

	sh4.Reg[RegSR] &^= SRQMask | SRTMask
	if q {
		sh4.Reg[RegSR] |= SRQMask
	}
	if q == mFlag {
		sh4.Reg[RegSR] |= SRTMask
	}
}
