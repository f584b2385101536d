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

// Package aica implements the AICA sound system: two megabytes of wave
// memory shared between the SH4 and the ARM7, the block of system
// registers through which the SH4 controls the ARM7's reset line, the
// real-time clock, and the sample ring that carries audio out to the host.
//
// Wavetable synthesis itself is an external collaborator: a Synthesiser
// implementation renders samples into the ring. Without one the console
// is silent but everything else behaves.
package aica

import (
	"encoding/binary"
	"math"

	"github.com/gophercast/gophercast/hardware/arm7"
	"github.com/gophercast/gophercast/hardware/sched"
)

// wave memory is 2MiB.
const WaveMemSize = 0x200000

// the ARM7 reset register, relative to the AICA system register block.
const regARMRst = 0x2c00

// WaveMem is the AICA's sample memory. Both CPUs and the synthesiser see
// the same backing array.
type WaveMem struct {
	Data []byte
}

// NewWaveMem is the preferred method of initialisation for the WaveMem
// type.
func NewWaveMem() *WaveMem {
	return &WaveMem{
		Data: make([]byte, WaveMemSize),
	}
}

// Read8 implements the memorymap.DeviceIO interface.
func (w *WaveMem) Read8(addr uint32) uint8 {
	return w.Data[addr]
}

// Read16 implements the memorymap.DeviceIO interface.
func (w *WaveMem) Read16(addr uint32) uint16 {
	return binary.LittleEndian.Uint16(w.Data[addr:])
}

// Read32 implements the memorymap.DeviceIO interface.
func (w *WaveMem) Read32(addr uint32) uint32 {
	return binary.LittleEndian.Uint32(w.Data[addr:])
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (w *WaveMem) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(w.Read32(addr))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (w *WaveMem) ReadDouble(addr uint32) float64 {
	return math.Float64frombits(binary.LittleEndian.Uint64(w.Data[addr:]))
}

// Write8 implements the memorymap.DeviceIO interface.
func (w *WaveMem) Write8(addr uint32, val uint8) {
	w.Data[addr] = val
}

// Write16 implements the memorymap.DeviceIO interface.
func (w *WaveMem) Write16(addr uint32, val uint16) {
	binary.LittleEndian.PutUint16(w.Data[addr:], val)
}

// Write32 implements the memorymap.DeviceIO interface.
func (w *WaveMem) Write32(addr uint32, val uint32) {
	binary.LittleEndian.PutUint32(w.Data[addr:], val)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (w *WaveMem) WriteFloat(addr uint32, val float32) {
	w.Write32(addr, math.Float32bits(val))
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (w *WaveMem) WriteDouble(addr uint32, val float64) {
	binary.LittleEndian.PutUint64(w.Data[addr:], math.Float64bits(val))
}

// Synthesiser renders audio from the AICA's register state and wave
// memory. Render is called from the emulation goroutine; it should append
// up to n stereo sample pairs to the ring.
type Synthesiser interface {
	Render(a *AICA, n int)
}

// AICA is the sound system: system registers, the ARM7 reset line, and the
// sample ring. Use NewAICA() to initialise.
type AICA struct {
	Mem *WaveMem
	ARM *arm7.ARM7

	clk *sched.Clock

	// raw backing store for the system registers. most of them only
	// matter to the synthesiser, which reads them through this array
	regs [0x8000]byte

	// the ring carrying rendered samples to the host audio callback
	Ring *SampleRing

	synth Synthesiser

	// RTC is initialised separately; see rtc.go
	RTC *RTC
}

// NewAICA is the preferred method of initialisation for the AICA type.
func NewAICA(mem *WaveMem, arm *arm7.ARM7, clk *sched.Clock) *AICA {
	a := &AICA{
		Mem:  mem,
		ARM:  arm,
		clk:  clk,
		Ring: NewSampleRing(ringSamples),
	}

	// the ARM7 starts held in reset
	a.regs[regARMRst] = 1

	return a
}

// AttachSynthesiser plugs in an audio renderer. A nil synthesiser leaves
// the console silent.
func (a *AICA) AttachSynthesiser(s Synthesiser) {
	a.synth = s
}

func (a *AICA) read(addr uint32, length int) uint32 {
	addr &= 0x7fff

	var v uint32
	switch length {
	case 1:
		v = uint32(a.regs[addr])
	case 2:
		v = uint32(binary.LittleEndian.Uint16(a.regs[addr:]))
	default:
		v = binary.LittleEndian.Uint32(a.regs[addr:])
	}

	return v
}

func (a *AICA) write(addr uint32, val uint32, length int) {
	addr &= 0x7fff

	switch length {
	case 1:
		a.regs[addr] = uint8(val)
	case 2:
		binary.LittleEndian.PutUint16(a.regs[addr:], uint16(val))
	default:
		binary.LittleEndian.PutUint32(a.regs[addr:], val)
	}

	// the SH4 holds the ARM7 in reset through bit 0 of the ARM reset
	// register
	if addr&^3 == regARMRst {
		a.ARM.SetEnabled(a.regs[regARMRst]&1 == 0)
	}
}

// Read8 implements the memorymap.DeviceIO interface.
func (a *AICA) Read8(addr uint32) uint8 {
	return uint8(a.read(addr, 1))
}

// Read16 implements the memorymap.DeviceIO interface.
func (a *AICA) Read16(addr uint32) uint16 {
	return uint16(a.read(addr, 2))
}

// Read32 implements the memorymap.DeviceIO interface.
func (a *AICA) Read32(addr uint32) uint32 {
	return a.read(addr, 4)
}

// ReadFloat implements the memorymap.DeviceIO interface.
func (a *AICA) ReadFloat(addr uint32) float32 {
	return math.Float32frombits(a.read(addr, 4))
}

// ReadDouble implements the memorymap.DeviceIO interface.
func (a *AICA) ReadDouble(addr uint32) float64 {
	return float64(math.Float32frombits(a.read(addr, 4)))
}

// Write8 implements the memorymap.DeviceIO interface.
func (a *AICA) Write8(addr uint32, val uint8) {
	a.write(addr, uint32(val), 1)
}

// Write16 implements the memorymap.DeviceIO interface.
func (a *AICA) Write16(addr uint32, val uint16) {
	a.write(addr, uint32(val), 2)
}

// Write32 implements the memorymap.DeviceIO interface.
func (a *AICA) Write32(addr uint32, val uint32) {
	a.write(addr, val, 4)
}

// WriteFloat implements the memorymap.DeviceIO interface.
func (a *AICA) WriteFloat(addr uint32, val float32) {
	a.write(addr, math.Float32bits(val), 4)
}

// WriteDouble implements the memorymap.DeviceIO interface.
func (a *AICA) WriteDouble(addr uint32, val float64) {
	a.write(addr, math.Float32bits(float32(val)), 4)
}

// EndFrame is called once per video frame: the synthesiser tops the ring
// up to a frame's worth of audio.
func (a *AICA) EndFrame() {
	want := samplesPerFrame - a.Ring.Len()
	if want <= 0 {
		return
	}

	if a.synth != nil {
		a.synth.Render(a, want)
		return
	}

	// no synthesiser attached; feed silence so the host callback never
	// starves
	for i := 0; i < want; i++ {
		a.Ring.Push(0, 0)
	}
}
