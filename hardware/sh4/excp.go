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

// ExceptionCode is the value stored to EXPEVT or INTEVT when an exception
// or interrupt is accepted. Values follow the SH7750 hardware manual.
type ExceptionCode uint32

// List of exception codes.
const (
	ExcpPowerOnReset      ExceptionCode = 0x000
	ExcpManualReset       ExceptionCode = 0x020
	ExcpDataTLBWriteMiss  ExceptionCode = 0x060
	ExcpDataTLBReadMiss   ExceptionCode = 0x040
	ExcpUserBreak         ExceptionCode = 0x1e0
	ExcpGeneralIllegal    ExceptionCode = 0x180
	ExcpSlotIllegal       ExceptionCode = 0x1a0
	ExcpGeneralFPUDisable ExceptionCode = 0x800
	ExcpSlotFPUDisable    ExceptionCode = 0x820
	ExcpTrap              ExceptionCode = 0x160
	ExcpReadAddressError  ExceptionCode = 0x0e0
	ExcpWriteAddressError ExceptionCode = 0x100

	// interrupt codes
	ExcpTMU0TUNI0 ExceptionCode = 0x400
	ExcpTMU1TUNI1 ExceptionCode = 0x420
	ExcpTMU2TUNI2 ExceptionCode = 0x440
	ExcpRTCATI    ExceptionCode = 0x480
	ExcpSCIFTXI   ExceptionCode = 0x720
	ExcpSCIFRXI   ExceptionCode = 0x700
	ExcpDMTE0     ExceptionCode = 0x640
	ExcpGPIO      ExceptionCode = 0x620

	// the sixteen IRL interrupt levels have codes 0x200 + 0x20*level
	ExcpIRL0 ExceptionCode = 0x200
)

// exception vector offsets relative to VBR.
const (
	vectorGeneral   = 0x100
	vectorTLBMiss   = 0x400
	vectorInterrupt = 0x600
)

// IRQLine identifies one of the interrupt sources the interrupt controller
// arbitrates between.
type IRQLine int

// List of IRQ lines.
const (
	IRQIRL IRQLine = iota
	IRQHitachiUDI
	IRQGPIO
	IRQDMTE0
	IRQDMTE1
	IRQDMTE2
	IRQDMTE3
	IRQDMAE
	IRQTMU0
	IRQTMU1
	IRQTMU2
	IRQTICPI2
	IRQRTCATI
	IRQRTCPRI
	IRQRTCCUI
	IRQSCIERI
	IRQSCIRXI
	IRQSCITXI
	IRQSCITEI
	IRQSCIFERI
	IRQSCIFRXI
	IRQSCIFBRI
	IRQSCIFTXI
	IRQWDTITI
	IRQRCMI
	IRQROVI
	IRQLineCount
)

// the priority of each IRQ line is software-controlled through IPRA/B/C.
// this table maps each line to its register and bit field. lines not in the
// table have a fixed priority.
type iprField struct {
	reg   RegIdx
	shift uint
}

var iprFields = map[IRQLine]iprField{
	IRQTMU0:    {RegIPRA, 12},
	IRQTMU1:    {RegIPRA, 8},
	IRQTMU2:    {RegIPRA, 4},
	IRQRTCATI:  {RegIPRA, 0},
	IRQGPIO:    {RegIPRC, 12},
	IRQDMTE0:   {RegIPRC, 8},
	IRQSCIFERI: {RegIPRC, 4},
	IRQSCIFRXI: {RegIPRC, 4},
	IRQSCIFTXI: {RegIPRC, 4},
}

// Intc is the SH4's interrupt controller. Devices assert a line with a
// code; the controller decides when the CPU accepts it based on the
// priority fields in IPRA/B/C and the interrupt mask in SR.
type Intc struct {
	// asserted lines. zero means not asserted
	irqLines [IRQLineCount]ExceptionCode

	// the IRL lines encode a level on four external pins, active low. 0xf
	// means no interrupt
	irlLine uint32

	// set when an interrupt is ready to be accepted at the next
	// instruction boundary
	pending     bool
	pendingCode ExceptionCode
	pendingLine IRQLine
	pendingIRL  bool
}

// SetInterrupt asserts an interrupt line. The line stays asserted until the
// interrupt is accepted by the CPU.
func (sh4 *SH4) SetInterrupt(line IRQLine, code ExceptionCode) {
	sh4.Intc.irqLines[line] = code
	sh4.Intc.refresh(sh4)
}

// SetIRL sets the level encoded on the external IRL pins. The Holly
// interrupt controller is the only caller. Active low: 0xf means idle.
func (sh4 *SH4) SetIRL(level uint32) {
	sh4.Intc.irlLine = level & 0xf
	sh4.Intc.refresh(sh4)
}

// refresh recomputes which interrupt, if any, should be accepted at the
// next instruction boundary.
func (intc *Intc) refresh(sh4 *SH4) {
	intc.pending = false

	if sh4.Reg[RegSR]&SRBLMask != 0 {
		return
	}

	mask := (sh4.Reg[RegSR] & SRIMask) >> SRIShift

	// IRL first: priority is (15 - level) on a scale where the SR mask is
	// directly comparable
	if intc.irlLine != 0xf {
		prio := 15 - intc.irlLine
		if prio > mask {
			intc.pending = true
			intc.pendingCode = ExcpIRL0 + ExceptionCode(0x20*intc.irlLine)
			intc.pendingIRL = true
			return
		}
	}

	for line := IRQLine(0); line < IRQLineCount; line++ {
		if intc.irqLines[line] == 0 {
			continue
		}

		prio := uint32(0)
		if f, ok := iprFields[line]; ok {
			prio = (sh4.Reg[f.reg] >> f.shift) & 0xf
		}

		if prio > mask {
			intc.pending = true
			intc.pendingCode = intc.irqLines[line]
			intc.pendingLine = line
			intc.pendingIRL = false
			return
		}
	}
}

// enterException saves the CPU context and jumps to the exception vector.
func (sh4 *SH4) enterException(code ExceptionCode, vector uint32) {
	sh4.Reg[RegSSR] = sh4.Reg[RegSR]
	sh4.Reg[RegSPC] = sh4.Reg[RegPC]
	sh4.Reg[RegSGR] = sh4.Reg[RegR15]
	sh4.Reg[RegEXPEVT] = uint32(code)

	sh4.setSR(sh4.Reg[RegSR] | SRMDMask | SRRBMask | SRBLMask)

	sh4.Reg[RegPC] = sh4.Reg[RegVBR] + vector
}

// SetException raises a guest-visible CPU exception. The exception is
// serviced immediately: the handler address is loaded into PC and execution
// continues from there on the next fetch.
func (sh4 *SH4) SetException(code ExceptionCode) {
	sh4.enterException(code, vectorGeneral)
}

// checkInterrupts accepts a pending interrupt if there is one. Never called
// between a branch and its delay slot; the pair is atomic.
func (sh4 *SH4) checkInterrupts() {
	if !sh4.Intc.pending {
		return
	}
	sh4.acceptInterrupt()
}

func (sh4 *SH4) acceptInterrupt() {
	intc := &sh4.Intc

	sh4.Reg[RegINTEVT] = uint32(intc.pendingCode)

	sh4.Reg[RegSSR] = sh4.Reg[RegSR]
	sh4.Reg[RegSPC] = sh4.Reg[RegPC]
	sh4.Reg[RegSGR] = sh4.Reg[RegR15]
	sh4.setSR(sh4.Reg[RegSR] | SRMDMask | SRRBMask | SRBLMask)
	sh4.Reg[RegPC] = sh4.Reg[RegVBR] + vectorInterrupt

	if intc.pendingIRL {
		intc.irlLine = 0xf
	} else {
		intc.irqLines[intc.pendingLine] = 0
	}
	intc.pending = false

	// an accepted interrupt wakes the CPU from sleep/standby
	sh4.ExecState = ExecNorm

	intc.refresh(sh4)
}
