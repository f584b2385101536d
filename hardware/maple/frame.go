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

package maple

import (
	"encoding/binary"

	"github.com/gophercast/gophercast/hardware/fault"
	"github.com/gophercast/gophercast/logger"
)

// fields of the first frame header word.
const (
	frameLengthMask = 0x000000ff
	framePortShift  = 16
	framePortMask   = 0x3 << framePortShift
	framePtrnShift  = 8
	framePtrnMask   = 0x7 << framePtrnShift
	frameLastMask   = 0x80000000
)

// fields of the third frame header word.
const (
	frameCmdMask      = 0x000000ff
	frameAddrShift    = 8
	frameAddrMask     = 0xff << frameAddrShift
	framePackLenShift = 24
	framePackLenMask  = 0xff << framePackLenShift
)

const frameDataLen = 1024

// frame is one transfer in a DMA command list: three header words and an
// optional payload, plus the response being assembled.
type frame struct {
	port      int
	ptrn      uint32
	recvAddr  uint32
	lastFrame bool

	cmd       uint8
	mapleAddr uint8
	packLen   uint32

	inputLen  int
	inputData [frameDataLen]byte

	outputLen  int
	outputData [frameDataLen]byte
}

// decode unpacks the three header words.
func (f *frame) decode(hdr [3]uint32) {
	f.inputLen = int(hdr[0]&frameLengthMask) * 4
	f.port = int(hdr[0]&framePortMask) >> framePortShift
	f.ptrn = (hdr[0] & framePtrnMask) >> framePtrnShift
	f.lastFrame = hdr[0]&frameLastMask != 0

	f.recvAddr = hdr[1]

	f.cmd = uint8(hdr[2] & frameCmdMask)
	f.mapleAddr = uint8((hdr[2] & frameAddrMask) >> frameAddrShift)
	f.packLen = (hdr[2] & framePackLenMask) >> framePackLenShift

	if f.inputLen != int(f.packLen)*4 {
		panic(fault.Record{
			Kind:    fault.Unimplemented,
			Feature: "maple frame with differing length fields",
			Context: "maple frame",
		})
	}
}

// inputWords returns the payload as 32-bit words.
func (f *frame) inputWords() []uint32 {
	words := make([]uint32, f.inputLen/4)
	for i := range words {
		words[i] = binary.LittleEndian.Uint32(f.inputData[i*4:])
	}
	return words
}

// ProcessDMA walks a command list in guest RAM, dispatching each frame to
// its device and writing responses back through the DMA controller.
func (m *Maple) ProcessDMA(srcAddr uint32) {
	var f frame
	var hdr [3]uint32

	for {
		var word [1]uint32
		m.cpu.DMACTransferWordsFromMem(srcAddr, word[:])
		hdr[0] = word[0]

		last := hdr[0]&frameLastMask != 0
		ptrn := (hdr[0] & framePtrnMask) >> framePtrnShift

		srcAddr += 4

		switch ptrn {
		case 0:
			// a command frame
		case 7:
			// NOP frame: header word only
			if last {
				return
			}
			continue
		default:
			panic(fault.Record{
				Kind:    fault.Unimplemented,
				Feature: "maple frame pattern",
				Context: "maple frame",
			})
		}

		var rest [2]uint32
		m.cpu.DMACTransferWordsFromMem(srcAddr, rest[:])
		hdr[1] = rest[0]
		hdr[2] = rest[1]
		f.decode(hdr)

		srcAddr += 8

		if f.inputLen > 0 {
			if f.inputLen > frameDataLen {
				panic(fault.Record{
					Kind:    fault.Unimplemented,
					Length:  f.inputLen,
					Feature: "maple frame payload larger than the input buffer",
					Context: "maple frame",
				})
			}
			m.cpu.DMACTransferFromMem(srcAddr, f.inputData[:f.inputLen])
		}

		srcAddr += uint32(f.inputLen)

		m.handleFrame(&f)

		if last {
			return
		}
	}
}

func (m *Maple) handleFrame(f *frame) {
	switch f.cmd {
	case CmdDevInfo:
		m.handleDevInfo(f)
	case CmdGetCond:
		m.handleGetCond(f)
	case CmdBWrite:
		m.handleBWrite(f)
	case CmdSetCond:
		m.handleSetCond(f)
	case CmdBRead:
		m.handleBRead(f)
	case CmdBSync:
		m.handleBSync(f)
	case CmdMemInfo:
		m.handleMemInfo(f)
	default:
		panic(fault.Record{
			Kind:    fault.Unimplemented,
			Feature: "maple command",
			Length:  int(f.cmd),
			Context: "maple frame",
		})
	}
}

// deviceFor returns the addressed device, or nil if the port/unit is
// empty.
func (m *Maple) deviceFor(f *frame) Device {
	port, unit := AddrUnpack(f.mapleAddr)
	return m.devs[port][unit]
}

func (m *Maple) handleDevInfo(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		di := dev.Info()
		f.outputLen = di.compile(f.outputData[:])
		m.writeResponse(f, RespDevInfo)
	} else {
		// nothing plugged in
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

func (m *Maple) handleGetCond(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		if cr, ok := dev.(CondReader); ok {
			fn, cond := cr.Cond()
			binary.LittleEndian.PutUint32(f.outputData[0:], fn)
			copy(f.outputData[4:], cond)
			f.outputLen = 4 + len(cond)
		} else {
			logger.Logf(logger.Allow, "maple", "%s does not answer GETCOND", dev.TypeName())
			f.outputLen = 0
		}
		m.writeResponse(f, RespDataTrf)
	} else {
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

func (m *Maple) handleBWrite(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		if bw, ok := dev.(BlockWriter); ok {
			bw.BWrite(f.inputWords())
		} else {
			logger.Logf(logger.Allow, "maple", "%s does not answer BWRITE", dev.TypeName())
		}
		f.outputLen = 0
		m.writeResponse(f, RespAck)
	} else {
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

func (m *Maple) handleSetCond(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		if cw, ok := dev.(CondWriter); ok {
			cw.SetCond(f.inputWords())
		} else {
			logger.Logf(logger.Allow, "maple", "%s does not answer SETCOND", dev.TypeName())
		}
		f.outputLen = 0
		m.writeResponse(f, RespAck)
	} else {
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

func (m *Maple) handleBRead(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		f.outputLen = 0
		if br, ok := dev.(BlockReader); ok {
			in := f.inputWords()
			if len(in) >= 2 {
				data := br.BRead(in[1])

				binary.LittleEndian.PutUint32(f.outputData[0:], in[0])
				binary.LittleEndian.PutUint32(f.outputData[4:], in[1])
				copy(f.outputData[8:], data)
				f.outputLen = 8 + len(data)
			}
		} else {
			logger.Logf(logger.Allow, "maple", "%s does not answer BREAD", dev.TypeName())
		}
		m.writeResponse(f, RespDataTrf)
	} else {
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

func (m *Maple) handleBSync(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		if bs, ok := dev.(BlockSyncer); ok {
			bs.BSync()
		}
		f.outputLen = 0
		m.writeResponse(f, RespAck)
	} else {
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

func (m *Maple) handleMemInfo(f *frame) {
	dev := m.deviceFor(f)

	if dev != nil {
		f.outputLen = 0
		if mi, ok := dev.(MemInfoProvider); ok {
			info := mi.MemInfo()
			binary.LittleEndian.PutUint32(f.outputData[0:], FuncMemCard)
			copy(f.outputData[4:], info)
			f.outputLen = 4 + len(info)
		} else {
			logger.Logf(logger.Allow, "maple", "%s does not answer MEMINFO", dev.TypeName())
		}
		m.writeResponse(f, RespDataTrf)
	} else {
		f.outputLen = 0
		m.writeResponse(f, RespNone)
	}

	m.dmaComplete()
}

// writeResponse assembles the response header and writes the response
// frame to the caller's receive address through the DMA controller.
func (m *Maple) writeResponse(f *frame, respCode uint8) {
	// the main unit reports which sub-units are present in the port bits
	// of its responses; that is how the firmware discovers VMUs
	var subdevs uint32
	port, unit := AddrUnpack(f.mapleAddr)
	if unit == 0 {
		for u := 1; u < UnitCount; u++ {
			if m.devs[port][u] != nil {
				subdevs |= 1 << (u - 1)
			}
		}
	}

	respLen := uint32(f.outputLen / 4)
	hdr := uint32(respCode)&frameCmdMask |
		uint32(f.mapleAddr)<<frameAddrShift |
		respLen<<framePackLenShift |
		subdevs<<framePortShift

	m.cpu.DMACTransferWordsToMem(f.recvAddr, []uint32{hdr})
	if respLen > 0 {
		m.cpu.DMACTransferToMem(f.recvAddr+4, f.outputData[:f.outputLen])
	}
}
