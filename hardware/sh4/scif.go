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

// The SCIF serial port. On a retail Dreamcast this is the serial port on
// the back of the console; homebrew toolchains use it as a console and for
// file transfer. The emulated FIFO is bridged to a pair of byte queues
// that the io package's serial server drains and fills from its own
// goroutine.

// SerialPeer is the far end of the serial cable. Send is called with each
// byte the guest transmits; Recv returns a pending byte for the guest if
// one is available. Both are called from the emulation goroutine only; the
// implementation is responsible for its own thread safety.
type SerialPeer interface {
	Send(b uint8)
	Recv() (uint8, bool)
}

// ConnectSerial attaches a peer to the SCIF. A nil peer disconnects.
func (sh4 *SH4) ConnectSerial(peer SerialPeer) {
	sh4.serialPeer = peer
}

// ServiceSerial moves pending bytes between the SCIF FIFOs and the
// attached peer. Called from the periodic housekeeping event; the transfer
// rate of the real cable is not modelled.
func (sh4 *SH4) ServiceSerial() {
	if sh4.serialPeer == nil {
		return
	}

	// drain the transmit FIFO
	for len(sh4.txFIFO) > 0 {
		sh4.serialPeer.Send(sh4.txFIFO[0])
		sh4.txFIFO = sh4.txFIFO[1:]
	}

	// TDFE/TEND: transmit FIFO empty
	sh4.Reg[RegSCFSR2] |= scfsrTDFE | scfsrTEND

	// fill the receive FIFO
	for len(sh4.rxFIFO) < scifFIFOLen {
		b, ok := sh4.serialPeer.Recv()
		if !ok {
			break
		}
		sh4.rxFIFO = append(sh4.rxFIFO, b)
	}

	if len(sh4.rxFIFO) > 0 {
		sh4.Reg[RegSCFSR2] |= scfsrRDF | scfsrDR
		if sh4.Reg[RegSCSCR2]&scscrRIE != 0 {
			sh4.SetInterrupt(IRQSCIFRXI, ExcpSCIFRXI)
		}
	}
}

const scifFIFOLen = 16

// bits in SCFSR2.
const (
	scfsrDR   = 0x0001
	scfsrRDF  = 0x0002
	scfsrTDFE = 0x0020
	scfsrTEND = 0x0040
)

// bits in SCSCR2.
const (
	scscrRIE = 0x0040
	scscrTIE = 0x0080
)

func regSCSCRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	sh4.Reg[RegSCSCR2] = val

	// transmit interrupts can be raised immediately; the FIFO never stays
	// full for longer than the next housekeeping event
	if val&scscrTIE != 0 {
		sh4.SetInterrupt(IRQSCIFTXI, ExcpSCIFTXI)
	}
}

func regSCFTDRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	if len(sh4.txFIFO) < scifFIFOLen {
		sh4.txFIFO = append(sh4.txFIFO, uint8(val))
	}
	// an overflowing transmit FIFO drops bytes, as the real part does
}

func regSCFSRRead(sh4 *SH4, reg *onChipReg) uint32 {
	v := sh4.Reg[RegSCFSR2]

	// transmit side always looks ready; see ServiceSerial
	v |= scfsrTDFE | scfsrTEND

	if len(sh4.rxFIFO) > 0 {
		v |= scfsrRDF | scfsrDR
	} else {
		v &^= scfsrRDF | scfsrDR
	}

	sh4.Reg[RegSCFSR2] = v
	return v
}

func regSCFSRWrite(sh4 *SH4, reg *onChipReg, val uint32) {
	// flag bits can only be cleared by software, never set
	sh4.Reg[RegSCFSR2] &= val
}

func regSCFRDRRead(sh4 *SH4, reg *onChipReg) uint32 {
	if len(sh4.rxFIFO) == 0 {
		return 0
	}

	b := sh4.rxFIFO[0]
	sh4.rxFIFO = sh4.rxFIFO[1:]
	return uint32(b)
}

func regSCFDRRead(sh4 *SH4, reg *onChipReg) uint32 {
	// receive count in the low bits. the transmit count in the high byte
	// always reads zero: transmitted bytes never queue
	return uint32(len(sh4.rxFIFO)) & 0x1f
}
