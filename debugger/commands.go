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

package debugger

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bradleyjkemp/memviz"

	"github.com/gophercast/gophercast/debugger/terminal"
	"github.com/gophercast/gophercast/hardware/sh4"
	"github.com/gophercast/gophercast/logger"
)

const helpText = `commands:
  BREAK <addr>            set PC breakpoint
  CLEAR <addr>            clear PC breakpoint
  WATCH [R|W] <addr> [n]  set watchpoint over n bytes (default 4)
  LIST                    list break and watch points
  STEP                    execute one instruction
  CONTINUE                resume execution
  HALT                    stop at the next instruction
  REGS                    show SH4 registers
  MEM <addr>              show memory at address
  LOG                     show recent log entries
  MEMVIZ <file>           dump the machine object graph to a dot file
  DETACH                  remove all debugger involvement and resume
  QUIT                    end the emulation
`

// RunTerminal services the debugger terminal until the session ends. Runs
// on its own goroutine; it never touches machine state while the machine
// is running.
func (dbg *Debugger) RunTerminal(term terminal.Terminal) {
	defer term.End()

	for dbg.dc.Gov.IsRunning() {
		line, err := term.ReadLine("(gophercast) ")
		if err != nil {
			return
		}

		if !dbg.command(term, strings.Fields(strings.ToUpper(strings.TrimSpace(line)))) {
			return
		}
	}
}

func parseAddr(s string) (uint32, error) {
	v, err := strconv.ParseUint(strings.TrimPrefix(strings.ToLower(s), "0x"), 16, 32)
	return uint32(v), err
}

// command runs one terminal command. Returns false when the session
// should end.
func (dbg *Debugger) command(term terminal.Terminal, tokens []string) bool {
	if len(tokens) == 0 {
		return true
	}

	switch tokens[0] {
	case "HELP":
		term.Print(helpText)

	case "BREAK":
		if len(tokens) < 2 {
			term.Print("BREAK requires an address\n")
			break
		}
		addr, err := parseAddr(tokens[1])
		if err != nil {
			term.Print(fmt.Sprintf("bad address: %v\n", err))
			break
		}
		if err := dbg.SetBreakpoint(addr); err != nil {
			term.Print(fmt.Sprintf("%v\n", err))
		}

	case "CLEAR":
		if len(tokens) < 2 {
			term.Print("CLEAR requires an address\n")
			break
		}
		addr, err := parseAddr(tokens[1])
		if err != nil {
			term.Print(fmt.Sprintf("bad address: %v\n", err))
			break
		}
		dbg.ClearBreakpoint(addr)

	case "WATCH":
		write := true
		i := 1
		if len(tokens) > 1 && (tokens[1] == "R" || tokens[1] == "W") {
			write = tokens[1] == "W"
			i = 2
		}
		if len(tokens) <= i {
			term.Print("WATCH requires an address\n")
			break
		}
		addr, err := parseAddr(tokens[i])
		if err != nil {
			term.Print(fmt.Sprintf("bad address: %v\n", err))
			break
		}
		length := uint32(4)
		if len(tokens) > i+1 {
			if v, err := strconv.ParseUint(tokens[i+1], 10, 32); err == nil {
				length = uint32(v)
			}
		}
		if err := dbg.SetWatchpoint(addr, length, write); err != nil {
			term.Print(fmt.Sprintf("%v\n", err))
		}

	case "LIST":
		term.Print(dbg.List())

	case "STEP", "S":
		dbg.RequestStep()

	case "CONTINUE", "C":
		dbg.RequestContinue()

	case "HALT", "H":
		dbg.RequestBreak()

	case "REGS":
		if !dbg.Stopped() {
			term.Print("machine is running; HALT first\n")
			break
		}
		term.Print(dbg.regs())

	case "MEM":
		if !dbg.Stopped() {
			term.Print("machine is running; HALT first\n")
			break
		}
		if len(tokens) < 2 {
			term.Print("MEM requires an address\n")
			break
		}
		addr, err := parseAddr(tokens[1])
		if err != nil {
			term.Print(fmt.Sprintf("bad address: %v\n", err))
			break
		}
		term.Print(dbg.mem(addr))

	case "LOG":
		s := strings.Builder{}
		logger.Tail(&s, 20)
		term.Print(s.String())

	case "MEMVIZ":
		if len(tokens) < 2 {
			term.Print("MEMVIZ requires a filename\n")
			break
		}
		f, err := os.Create(strings.ToLower(tokens[1]))
		if err != nil {
			term.Print(fmt.Sprintf("%v\n", err))
			break
		}
		memviz.Map(f, dbg.dc)
		f.Close()
		term.Print(fmt.Sprintf("object graph written to %s\n", strings.ToLower(tokens[1])))

	case "DETACH":
		dbg.RequestDetach()
		return false

	case "QUIT", "Q":
		dbg.dc.Gov.Kill()
		// unpark the emulation goroutine if it's at a prompt
		dbg.RequestContinue()
		return false

	default:
		term.Print(fmt.Sprintf("unknown command: %s (try HELP)\n", tokens[0]))
	}

	return true
}

// regs formats the SH4 register file. Only called while the machine is
// stopped.
func (dbg *Debugger) regs() string {
	cpu := dbg.dc.CPU
	s := strings.Builder{}

	for i := 0; i < 16; i++ {
		s.WriteString(fmt.Sprintf("R%-2d=%08x", i, cpu.Reg[sh4.RegR0+sh4.RegIdx(i)]))
		if i%4 == 3 {
			s.WriteString("\n")
		} else {
			s.WriteString(" ")
		}
	}

	s.WriteString(fmt.Sprintf("PC =%08x PR =%08x SR =%08x GBR=%08x\n",
		cpu.Reg[sh4.RegPC], cpu.Reg[sh4.RegPR], cpu.Reg[sh4.RegSR], cpu.Reg[sh4.RegGBR]))
	s.WriteString(fmt.Sprintf("VBR=%08x MACH=%08x MACL=%08x\n",
		cpu.Reg[sh4.RegVBR], cpu.Reg[sh4.RegMACH], cpu.Reg[sh4.RegMACL]))

	return s.String()
}

// mem formats a few lines of memory around an address. Only called while
// the machine is stopped.
func (dbg *Debugger) mem(addr uint32) string {
	s := strings.Builder{}

	for line := 0; line < 4; line++ {
		a := addr + uint32(line*16)
		s.WriteString(fmt.Sprintf("%08x:", a))
		for w := 0; w < 4; w++ {
			s.WriteString(fmt.Sprintf(" %08x", dbg.dc.CPU.PeekWord(a+uint32(w*4))))
		}
		s.WriteString("\n")
	}

	return s.String()
}
