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

package arm7

import (
	"math/bits"

	"github.com/gophercast/gophercast/hardware/fault"
)

// condPassed evaluates an instruction's condition field against the CPSR
// flags.
func (arm *ARM7) condPassed(cond uint32) bool {
	cpsr := arm.Reg[regCPSR]
	n := cpsr&cpsrN != 0
	z := cpsr&cpsrZ != 0
	c := cpsr&cpsrC != 0
	v := cpsr&cpsrV != 0

	switch cond & 0xf {
	case 0x0: // EQ
		return z
	case 0x1: // NE
		return !z
	case 0x2: // CS
		return c
	case 0x3: // CC
		return !c
	case 0x4: // MI
		return n
	case 0x5: // PL
		return !n
	case 0x6: // VS
		return v
	case 0x7: // VC
		return !v
	case 0x8: // HI
		return c && !z
	case 0x9: // LS
		return !c || z
	case 0xa: // GE
		return n == v
	case 0xb: // LT
		return n != v
	case 0xc: // GT
		return !z && n == v
	case 0xd: // LE
		return z || n != v
	case 0xe: // AL
		return true
	}

	// 0xf is unpredictable on ARM7DI; treat as never
	return false
}

// execute decodes and runs one instruction whose condition has already
// passed. Returns the cycle cost.
func (arm *ARM7) execute(inst uint32) uint {
	switch {
	case inst&0x0fc000f0 == 0x00000090:
		return arm.execMultiply(inst)
	case inst&0x0fb00ff0 == 0x01000090:
		return arm.execSwap(inst)
	case inst&0x0fbf0fff == 0x010f0000:
		return arm.execMRS(inst)
	case inst&0x0db0f000 == 0x0120f000:
		return arm.execMSR(inst)
	case inst&0x0c000000 == 0x00000000:
		return arm.execDataProc(inst)
	case inst&0x0c000000 == 0x04000000:
		return arm.execSingleTransfer(inst)
	case inst&0x0e000000 == 0x08000000:
		return arm.execBlockTransfer(inst)
	case inst&0x0e000000 == 0x0a000000:
		return arm.execBranch(inst)
	case inst&0x0f000000 == 0x0f000000:
		arm.excp |= ExcpSWI
		arm.checkExceptions()
		return 3
	}

	panic(fault.Record{
		Kind:    fault.Unimplemented,
		Address: arm.executingPC(),
		Feature: "arm7 instruction encoding",
		Context: "arm7 execute",
	})
}

func (arm *ARM7) execBranch(inst uint32) uint {
	offs := inst & 0x00ffffff
	if offs&0x00800000 != 0 {
		offs |= 0xff000000
	}
	offs <<= 2

	if inst&0x01000000 != 0 {
		// BL: the return address is the instruction after the branch
		arm.setReg(14, arm.Reg[regR15]-4)
	}

	arm.branchTo(arm.Reg[regR15] + offs)
	return 3
}

// barrel shifter. returns the operand and the shifter carry out.
func (arm *ARM7) shifterOperand(inst uint32) (uint32, bool) {
	carry := arm.Reg[regCPSR]&cpsrC != 0

	if inst&0x02000000 != 0 {
		// rotated immediate
		imm := inst & 0xff
		rot := ((inst >> 8) & 0xf) * 2
		val := bits.RotateLeft32(imm, -int(rot))
		if rot != 0 {
			carry = val&0x80000000 != 0
		}
		return val, carry
	}

	val := arm.getReg(int(inst & 0xf))

	var amount uint32
	if inst&0x10 != 0 {
		// shift amount in a register. R15 reads 4 bytes further ahead in
		// this case on the real chip; not modelled
		amount = arm.getReg(int(inst>>8&0xf)) & 0xff
		if amount == 0 {
			return val, carry
		}
	} else {
		amount = inst >> 7 & 0x1f
	}

	switch inst >> 5 & 3 {
	case 0: // LSL
		if amount == 0 {
			return val, carry
		}
		if amount > 32 {
			return 0, false
		}
		carry = val&(1<<(32-amount)) != 0
		if amount == 32 {
			return 0, carry
		}
		return val << amount, carry
	case 1: // LSR
		if amount == 0 || amount == 32 {
			// LSR #0 encodes LSR #32
			return 0, val&0x80000000 != 0
		}
		if amount > 32 {
			return 0, false
		}
		carry = val&(1<<(amount-1)) != 0
		return val >> amount, carry
	case 2: // ASR
		if amount == 0 || amount >= 32 {
			// ASR #0 encodes ASR #32
			if val&0x80000000 != 0 {
				return 0xffffffff, true
			}
			return 0, false
		}
		carry = val&(1<<(amount-1)) != 0
		return uint32(int32(val) >> amount), carry
	default: // ROR / RRX
		if amount == 0 {
			// ROR #0 encodes RRX
			c := uint32(0)
			if carry {
				c = 0x80000000
			}
			return val>>1 | c, val&1 != 0
		}
		amount &= 31
		if amount == 0 {
			return val, val&0x80000000 != 0
		}
		out := bits.RotateLeft32(val, -int(amount))
		return out, out&0x80000000 != 0
	}
}

func (arm *ARM7) setNZ(val uint32) {
	cpsr := arm.Reg[regCPSR] &^ (cpsrN | cpsrZ)
	if val&0x80000000 != 0 {
		cpsr |= cpsrN
	}
	if val == 0 {
		cpsr |= cpsrZ
	}
	arm.Reg[regCPSR] = cpsr
}

func (arm *ARM7) setC(c bool) {
	if c {
		arm.Reg[regCPSR] |= cpsrC
	} else {
		arm.Reg[regCPSR] &^= cpsrC
	}
}

func (arm *ARM7) setV(v bool) {
	if v {
		arm.Reg[regCPSR] |= cpsrV
	} else {
		arm.Reg[regCPSR] &^= cpsrV
	}
}

func (arm *ARM7) execDataProc(inst uint32) uint {
	opcode := inst >> 21 & 0xf
	setFlags := inst&0x00100000 != 0
	rnVal := arm.getReg(int(inst >> 16 & 0xf))
	rd := int(inst >> 12 & 0xf)

	op2, shiftCarry := arm.shifterOperand(inst)

	carryIn := uint32(0)
	if arm.Reg[regCPSR]&cpsrC != 0 {
		carryIn = 1
	}

	var result uint32
	write := true
	logical := false

	switch opcode {
	case 0x0: // AND
		result = rnVal & op2
		logical = true
	case 0x1: // EOR
		result = rnVal ^ op2
		logical = true
	case 0x2: // SUB
		result = rnVal - op2
		if setFlags {
			arm.setC(rnVal >= op2)
			arm.setV((rnVal^op2)&(rnVal^result)&0x80000000 != 0)
		}
	case 0x3: // RSB
		result = op2 - rnVal
		if setFlags {
			arm.setC(op2 >= rnVal)
			arm.setV((op2^rnVal)&(op2^result)&0x80000000 != 0)
		}
	case 0x4: // ADD
		result = rnVal + op2
		if setFlags {
			arm.setC(result < rnVal)
			arm.setV(^(rnVal^op2)&(rnVal^result)&0x80000000 != 0)
		}
	case 0x5: // ADC
		result = rnVal + op2 + carryIn
		if setFlags {
			arm.setC(uint64(rnVal)+uint64(op2)+uint64(carryIn) > 0xffffffff)
			arm.setV(^(rnVal^op2)&(rnVal^result)&0x80000000 != 0)
		}
	case 0x6: // SBC
		result = rnVal - op2 - (1 - carryIn)
		if setFlags {
			arm.setC(uint64(rnVal) >= uint64(op2)+uint64(1-carryIn))
			arm.setV((rnVal^op2)&(rnVal^result)&0x80000000 != 0)
		}
	case 0x7: // RSC
		result = op2 - rnVal - (1 - carryIn)
		if setFlags {
			arm.setC(uint64(op2) >= uint64(rnVal)+uint64(1-carryIn))
			arm.setV((op2^rnVal)&(op2^result)&0x80000000 != 0)
		}
	case 0x8: // TST
		result = rnVal & op2
		logical = true
		write = false
	case 0x9: // TEQ
		result = rnVal ^ op2
		logical = true
		write = false
	case 0xa: // CMP
		result = rnVal - op2
		write = false
		if setFlags {
			arm.setC(rnVal >= op2)
			arm.setV((rnVal^op2)&(rnVal^result)&0x80000000 != 0)
		}
	case 0xb: // CMN
		result = rnVal + op2
		write = false
		if setFlags {
			arm.setC(result < rnVal)
			arm.setV(^(rnVal^op2)&(rnVal^result)&0x80000000 != 0)
		}
	case 0xc: // ORR
		result = rnVal | op2
		logical = true
	case 0xd: // MOV
		result = op2
		logical = true
	case 0xe: // BIC
		result = rnVal &^ op2
		logical = true
	default: // MVN
		result = ^op2
		logical = true
	}

	if setFlags {
		if rd == 15 {
			// S-bit with Rd==15 restores CPSR from SPSR; how exception
			// handlers return
			arm.Reg[regCPSR] = arm.Reg[arm.spsr()]
		} else {
			arm.setNZ(result)
			if logical {
				arm.setC(shiftCarry)
			}
		}
	}

	if write {
		arm.setReg(rd, result)
		if rd == 15 {
			return 3
		}
	}

	return 1
}

func (arm *ARM7) execMultiply(inst uint32) uint {
	rd := int(inst >> 16 & 0xf)
	rn := int(inst >> 12 & 0xf)
	rs := int(inst >> 8 & 0xf)
	rm := int(inst & 0xf)

	result := arm.getReg(rm) * arm.getReg(rs)
	if inst&0x00200000 != 0 {
		// MLA
		result += arm.getReg(rn)
	}
	arm.setReg(rd, result)

	if inst&0x00100000 != 0 {
		arm.setNZ(result)
	}

	return 4
}

func (arm *ARM7) execSwap(inst uint32) uint {
	rn := int(inst >> 16 & 0xf)
	rd := int(inst >> 12 & 0xf)
	rm := int(inst & 0xf)
	addr := arm.getReg(rn)

	if inst&0x00400000 != 0 {
		old := arm.Mem.Read8(addr)
		arm.Mem.Write8(addr, uint8(arm.getReg(rm)))
		arm.setReg(rd, uint32(old))
	} else {
		old := arm.Mem.Read32(addr &^ 3)
		arm.Mem.Write32(addr&^3, arm.getReg(rm))
		arm.setReg(rd, old)
	}

	return 4
}

func (arm *ARM7) execMRS(inst uint32) uint {
	rd := int(inst >> 12 & 0xf)
	if inst&0x00400000 != 0 {
		arm.setReg(rd, arm.Reg[arm.spsr()])
	} else {
		arm.setReg(rd, arm.Reg[regCPSR])
	}
	return 1
}

func (arm *ARM7) execMSR(inst uint32) uint {
	var val uint32
	if inst&0x02000000 != 0 {
		imm := inst & 0xff
		rot := ((inst >> 8) & 0xf) * 2
		val = bits.RotateLeft32(imm, -int(rot))
	} else {
		val = arm.getReg(int(inst & 0xf))
	}

	// only the flag field is writable when the mask bit for it is set;
	// mode changes come through the control field
	var mask uint32
	if inst&0x00080000 != 0 {
		mask |= 0xf0000000
	}
	if inst&0x00010000 != 0 && arm.mode() != ModeUser {
		mask |= 0x000000ff
	}

	if inst&0x00400000 != 0 {
		s := arm.spsr()
		arm.Reg[s] = (arm.Reg[s] &^ mask) | (val & mask)
	} else {
		arm.Reg[regCPSR] = (arm.Reg[regCPSR] &^ mask) | (val & mask)
	}

	return 1
}

func (arm *ARM7) execSingleTransfer(inst uint32) uint {
	rn := int(inst >> 16 & 0xf)
	rd := int(inst >> 12 & 0xf)

	var offset uint32
	if inst&0x02000000 != 0 {
		offset, _ = arm.shifterOperand(inst &^ 0x02000000)
	} else {
		offset = inst & 0xfff
	}

	base := arm.getReg(rn)
	addr := base
	up := inst&0x00800000 != 0
	pre := inst&0x01000000 != 0
	writeback := inst&0x00200000 != 0
	byteAccess := inst&0x00400000 != 0
	load := inst&0x00100000 != 0

	offAddr := base + offset
	if !up {
		offAddr = base - offset
	}
	if pre {
		addr = offAddr
	}

	if load {
		var val uint32
		if byteAccess {
			val = uint32(arm.Mem.Read8(addr))
		} else {
			val = arm.Mem.Read32(addr &^ 3)
		}
		if !pre || writeback {
			arm.setReg(rn, offAddr)
		}
		arm.setReg(rd, val)
		if rd == 15 {
			return 5
		}
		return 3
	}

	val := arm.getReg(rd)
	if rd == 15 {
		// stores of R15 see the fetch address plus one more word
		val += 4
	}
	if byteAccess {
		arm.Mem.Write8(addr, uint8(val))
	} else {
		arm.Mem.Write32(addr&^3, val)
	}
	if !pre || writeback {
		arm.setReg(rn, offAddr)
	}

	return 2
}

func (arm *ARM7) execBlockTransfer(inst uint32) uint {
	rn := int(inst >> 16 & 0xf)
	pre := inst&0x01000000 != 0
	up := inst&0x00800000 != 0
	writeback := inst&0x00200000 != 0
	load := inst&0x00100000 != 0

	regList := inst & 0xffff
	count := uint32(bits.OnesCount32(regList))

	base := arm.getReg(rn)

	// normalise to an ascending transfer. lowest register always goes to
	// the lowest address
	var addr uint32
	if up {
		addr = base
		if pre {
			addr += 4
		}
	} else {
		addr = base - count*4
		if !pre {
			addr += 4
		}
	}

	var newBase uint32
	if up {
		newBase = base + count*4
	} else {
		newBase = base - count*4
	}

	for r := 0; r < 16; r++ {
		if regList&(1<<r) == 0 {
			continue
		}

		if load {
			arm.setReg(r, arm.Mem.Read32(addr&^3))
		} else {
			val := arm.getReg(r)
			if r == 15 {
				val += 4
			}
			arm.Mem.Write32(addr&^3, val)
		}
		addr += 4
	}

	if writeback {
		arm.setReg(rn, newBase)
	}

	return uint(count) + 2
}
