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

package io

import "sync/atomic"

// ByteRing is a single-producer single-consumer byte queue. One side
// lives on the i/o goroutine, the other on the emulation goroutine; each
// touches only its own index and reads the other's atomically, so no lock
// is ever held across the emulation boundary.
type ByteRing struct {
	buf []byte

	read  atomic.Uint64
	write atomic.Uint64
}

// NewByteRing is the preferred method of initialisation for the ByteRing
// type.
func NewByteRing(capacity int) *ByteRing {
	return &ByteRing{
		buf: make([]byte, capacity),
	}
}

// Push appends a byte. Returns false if the ring is full.
func (r *ByteRing) Push(b byte) bool {
	w := r.write.Load()
	if w-r.read.Load() >= uint64(len(r.buf)) {
		return false
	}

	r.buf[w%uint64(len(r.buf))] = b
	r.write.Store(w + 1)
	return true
}

// Pop removes and returns the oldest byte. The second return value is
// false if the ring is empty.
func (r *ByteRing) Pop() (byte, bool) {
	rd := r.read.Load()
	if rd == r.write.Load() {
		return 0, false
	}

	b := r.buf[rd%uint64(len(r.buf))]
	r.read.Store(rd + 1)
	return b, true
}

// Len returns the number of bytes waiting.
func (r *ByteRing) Len() int {
	return int(r.write.Load() - r.read.Load())
}
