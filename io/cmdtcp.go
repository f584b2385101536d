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
	"strings"
	"time"

	"github.com/gophercast/gophercast/hardware/govern"
	"github.com/gophercast/gophercast/logger"
)

// the remote command channel listens here.
const CmdServerAddr = ":2000"

// CmdServer accepts a remote command session: a line-oriented text
// protocol for controlling the run state of the console from outside.
// With a session attached the console waits in NotRunning until the
// begin-execution command arrives.
type CmdServer struct {
	gov *govern.Governor

	listener net.Listener
	conn     net.Conn
	partial  strings.Builder

	// requests consumed by the emulation goroutine
	begin *ByteRing
}

// NewCmdServer is the preferred method of initialisation for the
// CmdServer type.
func NewCmdServer(gov *govern.Governor) (*CmdServer, error) {
	l, err := net.Listen("tcp", CmdServerAddr)
	if err != nil {
		return nil, err
	}

	logger.Logf(logger.Allow, "cmd", "listening on %s", CmdServerAddr)

	return &CmdServer{
		gov:   gov,
		listener: l,
		begin: NewByteRing(16),
	}, nil
}

// run-state requests from the remote session.
const (
	ReqNone = iota
	ReqBegin
	ReqResume
)

// TakeRequest consumes the oldest pending run-state request, if any.
// Emulation goroutine.
func (srv *CmdServer) TakeRequest() int {
	b, ok := srv.begin.Pop()
	if !ok {
		return ReqNone
	}
	return int(b)
}

func (srv *CmdServer) reply(s string) {
	if srv.conn != nil {
		srv.conn.Write([]byte(s))
	}
}

func (srv *CmdServer) command(line string) {
	switch strings.TrimSpace(line) {
	case "":
	case "begin-execution":
		srv.begin.Push(1)
		srv.reply("ok\n")
	case "suspend-execution":
		srv.gov.RequestFrameStop()
		srv.reply("ok\n")
	case "resume-execution":
		// the emulation goroutine owns the state enum; it picks this up
		// in its suspend loop through the resume ring
		srv.begin.Push(2)
		srv.reply("ok\n")
	case "exit":
		srv.gov.Kill()
		srv.reply("ok\n")
	default:
		srv.reply("unknown command\n")
	}
}

// poll implements the service interface.
func (srv *CmdServer) poll() {
	if srv.conn == nil {
		if tl, ok := srv.listener.(*net.TCPListener); ok {
			tl.SetDeadline(time.Now().Add(time.Millisecond))
		}
		conn, err := srv.listener.Accept()
		if err == nil {
			logger.Logf(logger.Allow, "cmd", "session attached from %s", conn.RemoteAddr())
			srv.conn = conn
			srv.reply("gophercast remote command session\n")
		}
	}

	if srv.conn == nil {
		return
	}

	srv.conn.SetReadDeadline(time.Now().Add(time.Millisecond))
	var in [256]byte
	n, err := srv.conn.Read(in[:])

	for i := 0; i < n; i++ {
		if in[i] == '\n' {
			srv.command(srv.partial.String())
			srv.partial.Reset()
		} else {
			srv.partial.WriteByte(in[i])
		}
	}

	if err != nil {
		if ne, ok := err.(net.Error); ok && ne.Timeout() {
			return
		}
		logger.Logf(logger.Allow, "cmd", "session detached: %v", err)
		srv.conn.Close()
		srv.conn = nil
	}
}

// end implements the service interface.
func (srv *CmdServer) end() {
	if srv.conn != nil {
		srv.conn.Close()
	}
	srv.listener.Close()
}
