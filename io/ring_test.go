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

package io_test

import (
	"testing"

	"github.com/gophercast/gophercast/io"
	"github.com/gophercast/gophercast/test"
)

func TestByteRing(t *testing.T) {
	r := io.NewByteRing(4)

	_, ok := r.Pop()
	test.ExpectFailure(t, ok)

	test.ExpectSuccess(t, r.Push(1))
	test.ExpectSuccess(t, r.Push(2))
	test.ExpectSuccess(t, r.Push(3))
	test.ExpectSuccess(t, r.Push(4))

	// full
	test.ExpectFailure(t, r.Push(5))

	b, ok := r.Pop()
	test.ExpectSuccess(t, ok)
	test.ExpectEquality(t, b, byte(1))

	// space again
	test.ExpectSuccess(t, r.Push(5))

	for _, want := range []byte{2, 3, 4, 5} {
		b, ok := r.Pop()
		test.ExpectSuccess(t, ok)
		test.ExpectEquality(t, b, want)
	}

	test.ExpectEquality(t, r.Len(), 0)
}

// one goroutine pushing, one popping; every byte arrives in order
func TestByteRingSPSC(t *testing.T) {
	r := io.NewByteRing(16)

	const n = 100000

	done := make(chan bool)
	go func() {
		expect := byte(0)
		for i := 0; i < n; {
			if b, ok := r.Pop(); ok {
				if b != expect {
					t.Errorf("out of order: got %d, wanted %d", b, expect)
					break
				}
				expect++
				i++
			}
		}
		done <- true
	}()

	for i := 0; i < n; {
		if r.Push(byte(i)) {
			i++
		}
	}

	<-done
}
