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

// Package sdlaudio plays the AICA's output through SDL. The SDL audio
// device runs a callback on a thread SDL owns; the callback only ever
// reads from the sample ring, which is safe by the ring's construction.
package sdlaudio

import (
	"math"

	"github.com/veandco/go-sdl2/sdl"

	"github.com/gophercast/gophercast/curated"
	"github.com/gophercast/gophercast/hardware/aica"
	"github.com/gophercast/gophercast/logger"
)

// samples per callback. smaller is lower latency but more overhead.
const bufferSize = 1024

// Audio opens the host audio device and streams the sample ring to it.
// Use NewAudio() to initialise.
type Audio struct {
	id   sdl.AudioDeviceID
	ring *aica.SampleRing

	spec sdl.AudioSpec

	// reused between callbacks
	buf []float32

	// optional WAV capture of the output stream
	rec *aica.Recorder
}

// NewAudio is the preferred method of initialisation for the Audio type.
func NewAudio(ring *aica.SampleRing) (*Audio, error) {
	if err := sdl.InitSubSystem(sdl.INIT_AUDIO); err != nil {
		return nil, curated.Errorf("sdlaudio: %v", err)
	}

	aud := &Audio{
		ring: ring,
		buf:  make([]float32, bufferSize*2),
	}

	request := sdl.AudioSpec{
		Freq:     aica.SampleRate,
		Format:   sdl.AUDIO_F32SYS,
		Channels: 2,
		Samples:  bufferSize,
	}

	id, err := sdl.OpenAudioDevice("", false, &request, &aud.spec, 0)
	if err != nil {
		return nil, curated.Errorf("sdlaudio: %v", err)
	}
	aud.id = id

	logger.Logf(logger.Allow, "sdlaudio", "opened device: %dHz %d channels", aud.spec.Freq, aud.spec.Channels)

	sdl.PauseAudioDevice(aud.id, false)

	// feed the device from a goroutine using the queue API. SDL's pull
	// callback into Go is awkward through cgo; queueing from our own
	// loop behaves identically for this workload
	go aud.queueLoop()

	return aud, nil
}

// AttachRecorder copies everything queued to the device into a capture
// file as well. Attach before the first samples flow.
func (aud *Audio) AttachRecorder(rec *aica.Recorder) {
	aud.rec = rec
}

func (aud *Audio) queueLoop() {
	for {
		queued := sdl.GetQueuedAudioSize(aud.id)
		if queued < bufferSize*2*4 {
			aud.ring.Pop(aud.buf)
			if err := sdl.QueueAudio(aud.id, f32bytes(aud.buf)); err != nil {
				logger.Logf(logger.Allow, "sdlaudio", "queue: %v", err)
				return
			}
			if aud.rec != nil {
				if err := aud.rec.Write(aud.buf); err != nil {
					logger.Log(logger.Allow, "sdlaudio", err)
					aud.rec = nil
				}
			}
		}
		sdl.Delay(5)
	}
}

// f32bytes reinterprets a float32 slice as raw bytes for the SDL queue.
func f32bytes(f []float32) []byte {
	out := make([]byte, 0, len(f)*4)
	for _, v := range f {
		bits := math.Float32bits(v)
		out = append(out, byte(bits), byte(bits>>8), byte(bits>>16), byte(bits>>24))
	}
	return out
}

// End closes the audio device.
func (aud *Audio) End() {
	sdl.CloseAudioDevice(aud.id)
}
