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

// RegIdx indexes the SH4 register file. The file holds the sixteen general
// purpose registers as currently banked in, the eight alternates of R0-R7,
// the system and control registers, and a storage slot for every on-chip
// register that needs one.
type RegIdx int

// The register file. General purpose registers first so that the decoder
// can use the instruction's register fields directly as indices.
const (
	RegR0 RegIdx = iota
	RegR1
	RegR2
	RegR3
	RegR4
	RegR5
	RegR6
	RegR7
	RegR8
	RegR9
	RegR10
	RegR11
	RegR12
	RegR13
	RegR14
	RegR15

	// the bank of R0-R7 not currently selected by SR.RB
	RegR0Alt
	RegR1Alt
	RegR2Alt
	RegR3Alt
	RegR4Alt
	RegR5Alt
	RegR6Alt
	RegR7Alt

	// control registers
	RegPC
	RegPR
	RegSR
	RegSSR
	RegSPC
	RegGBR
	RegVBR
	RegSGR
	RegDBR
	RegMACH
	RegMACL
	RegFPSCR
	RegFPUL

	// exception registers
	RegTRA
	RegEXPEVT
	RegINTEVT

	// MMU and cache
	RegPTEH
	RegPTEL
	RegPTEA
	RegTTB
	RegTEA
	RegMMUCR
	RegCCR
	RegQACR0
	RegQACR1

	// interrupt controller
	RegICR
	RegIPRA
	RegIPRB
	RegIPRC

	// timer unit
	RegTOCR
	RegTSTR
	RegTCOR0
	RegTCNT0
	RegTCR0
	RegTCOR1
	RegTCNT1
	RegTCR1
	RegTCOR2
	RegTCNT2
	RegTCR2
	RegTCPR2

	// bus state controller and i/o ports
	RegBCR1
	RegBCR2
	RegWCR1
	RegWCR2
	RegWCR3
	RegMCR
	RegRTCSR
	RegRTCNT
	RegRTCOR
	RegRFCR
	RegPCTRA
	RegPDTRA
	RegPCTRB
	RegPDTRB
	RegGPIOIC

	// DMA controller
	RegSAR0
	RegDAR0
	RegDMATCR0
	RegCHCR0
	RegSAR1
	RegDAR1
	RegDMATCR1
	RegCHCR1
	RegSAR2
	RegDAR2
	RegDMATCR2
	RegCHCR2
	RegSAR3
	RegDAR3
	RegDMATCR3
	RegCHCR3
	RegDMAOR

	// serial ports
	RegSCSMR1
	RegSCBRR1
	RegSCSCR1
	RegSCSMR2
	RegSCBRR2
	RegSCSCR2
	RegSCFTDR2
	RegSCFSR2
	RegSCFRDR2
	RegSCFCR2
	RegSCFDR2
	RegSCSPTR2
	RegSCLSR2

	// clock and power
	RegFRQCR
	RegSTBCR
	RegSTBCR2
	RegWTCNT
	RegWTCSR

	RegCount
)

// bits in the status register.
const (
	SRTMask  = 0x00000001 // the T condition flag
	SRSMask  = 0x00000002 // the S flag (MAC saturation)
	SRIMask  = 0x000000f0 // interrupt mask level
	SRQMask  = 0x00000100 // divide-step state
	SRMMask  = 0x00000200 // divide-step state
	SRFDMask = 0x00008000 // FPU disable
	SRBLMask = 0x10000000 // exception/interrupt block
	SRRBMask = 0x20000000 // register bank select
	SRMDMask = 0x40000000 // processor mode (1 = privileged)

	SRIShift = 4
)

// the value of SR after a reset.
const SRReset = 0x700000f0

// bits in the TMU control registers.
const (
	TCRTPSCMask = 0x0007 // timer prescaler
	TCRCKEGMask = 0x0018 // clock edge (external clock only)
	TCRUNIEMask = 0x0020 // underflow interrupt enable
	TCRICPEMask = 0x00c0 // input capture control (channel 2 only)
	TCRUNFMask  = 0x0100 // underflow flag
	TCRICPFMask = 0x0200 // input capture flag (channel 2 only)
)

// ExecState is the sleep/standby execution state of the CPU.
type ExecState int

// List of valid ExecState values. The CPU leaves the sleep states when an
// interrupt is accepted.
const (
	ExecNorm ExecState = iota
	ExecSleep
	ExecStandby
)

// setSR assigns a new value to the status register, handling the register
// bank switch implied by a change to the RB or MD bits. The alternate bank
// of R0-R7 is swapped into place when the bank selection changes.
func (sh4 *SH4) setSR(val uint32) {
	old := sh4.Reg[RegSR]
	sh4.Reg[RegSR] = val

	oldBank := (old&SRMDMask != 0) && (old&SRRBMask != 0)
	newBank := (val&SRMDMask != 0) && (val&SRRBMask != 0)

	if oldBank != newBank {
		for i := 0; i < 8; i++ {
			r := sh4.Reg[RegR0+RegIdx(i)]
			sh4.Reg[RegR0+RegIdx(i)] = sh4.Reg[RegR0Alt+RegIdx(i)]
			sh4.Reg[RegR0Alt+RegIdx(i)] = r
		}
	}

	// a lowered interrupt mask may unblock a pending interrupt
	sh4.Intc.refresh(sh4)
}

// bankedReg returns the index of Rn in the bank selected by the bank
// argument, taking into account which bank is currently swapped in.
func (sh4 *SH4) bankedReg(n int, bank int) RegIdx {
	curBank := 0
	sr := sh4.Reg[RegSR]
	if (sr&SRMDMask != 0) && (sr&SRRBMask != 0) {
		curBank = 1
	}

	if n > 7 || bank == curBank {
		return RegR0 + RegIdx(n)
	}
	return RegR0Alt + RegIdx(n)
}
