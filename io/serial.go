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

import (
	"net"
	"time"

	"github.com/gophercast/gophercast/logger"
)

// the serial server listens here. homebrew toolchains connect to talk to
// the program running on the emulated console.
const SerialServerAddr = ":1998"

// ring capacity. generous compared to the SCIF FIFO so the network side
// never stalls the emulation side.
const serialRingLen = 4096

// SerialServer bridges the guest's SCIF to a TCP connection. The server
// side of the guest serial cable, in effect. One client at a time.
//
// The emulation goroutine reaches the server only through the two byte
// rings, via the Send/Recv methods, which satisfy the SH4's SerialPeer
// interface.
type SerialServer struct {
	listener net.Listener
	conn     net.Conn

	// guest to host and host to guest
	tx *ByteRing
	rx *ByteRing
}

// NewSerialServer is the preferred method of initialisation for the
// SerialServer type.
func NewSerialServer() (*SerialServer, error) {
	l, err := net.Listen("tcp", SerialServerAddr)
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "serial", "listening on %s", SerialServerAddr)

	return &SerialServer{
		listener: l,
		tx:       NewByteRing(serialRingLen),
		rx:       NewByteRing(serialRingLen),
	}, nil
}

// Send implements the sh4.SerialPeer interface. Emulation goroutine.
func (srv *SerialServer) Send(b uint8) {
	srv.tx.Push(b)
}

// Recv implements the sh4.SerialPeer interface. Emulation goroutine.
func (srv *SerialServer) Recv() (uint8, bool) {
	return srv.rx.Pop()
}

// poll implements the service interface. I/O goroutine.
func (srv *SerialServer) poll() {
	// accept a waiting client
	if srv.conn == nil {
		if tl, ok := srv.listener.(*net.TCPListener); ok {
			tl.SetDeadline(time.Now().Add(time.Millisecond))
		}
		conn, err := srv.listener.Accept()
		if err == nil {
			logger.Logf(logger.Allow, "serial", "client connected from %s", conn.RemoteAddr())
			srv.conn = conn
		}
	}

	if srv.conn == nil {
		return
	}

	// guest to host
	var out []byte
	for {
		b, ok := srv.tx.Pop()
		if !ok {
			break
		}
		out = append(out, b)
	}
	if len(out) > 0 {
		if _, err := srv.conn.Write(out); err != nil {
			srv.dropClient(err)
			return
		}
	}

	// host to guest
	srv.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	var in [256]byte
	n, err := srv.conn.Read(in[:])
	for i := 0; i < n; i++ {
		srv.rx.Push(in[i])
	}
	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		srv.dropClient(err)
	}
}

func (srv *SerialServer) dropClient(err error) {
	logger.Logf(logger.Allow, "serial", "client disconnected: %v", err)
	srv.conn.Close()
	srv.conn = nil
}

// end implements the service interface.
func (srv *SerialServer) end() {
	if srv.conn != nil {
		srv.conn.Close()
	}
	srv.listener.Close()
}
