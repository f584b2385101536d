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

package aica

import (
	"os"

	"github.com/go-audio/audio"
	"github.com/go-audio/wav"

	"github.com/gophercast/gophercast/curated"
)

// Recorder captures the AICA output stream to a WAV file. Useful when
// debugging sound problems: the captured file is the exact sample stream
// handed to the host audio device.
type Recorder struct {
	f   *os.File
	enc *wav.Encoder

	// reused between Write calls to keep allocation off the audio path
	buf audio.IntBuffer
}

// NewRecorder is the preferred method of initialisation for the Recorder
// type.
func NewRecorder(path string) (*Recorder, error) {
	f, err := os.Create(path)
	if err != nil {
		return nil, curated.Errorf("aica recorder: %v", err)
	}

	rec := &Recorder{
		f:   f,
		enc: wav.NewEncoder(f, SampleRate, 16, 2, 1),
		buf: audio.IntBuffer{
			Format: &audio.Format{
				NumChannels: 2,
				SampleRate:  SampleRate,
			},
		},
	}

	return rec, nil
}

// Write appends interleaved stereo float samples to the capture file.
func (rec *Recorder) Write(samples []float32) error {
	if cap(rec.buf.Data) < len(samples) {
		rec.buf.Data = make([]int, len(samples))
	}
	rec.buf.Data = rec.buf.Data[:len(samples)]

	for i, s := range samples {
		if s > 1.0 {
			s = 1.0
		} else if s < -1.0 {
			s = -1.0
		}
		rec.buf.Data[i] = int(s * 32767)
	}

	if err := rec.enc.Write(&rec.buf); err != nil {
		return curated.Errorf("aica recorder: %v", err)
	}
	return nil
}

// End finalises the WAV header and closes the file.
func (rec *Recorder) End() error {
	if err := rec.enc.Close(); err != nil {
		rec.f.Close()
		return curated.Errorf("aica recorder: %v", err)
	}
	if err := rec.f.Close(); err != nil {
		return curated.Errorf("aica recorder: %v", err)
	}
	return nil
}
