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

// Package colorterm implements the debugger terminal on a real posix
// terminal: cbreak input through the easyterm wrapper around pkg/term,
// minimal line editing and an ANSI-coloured prompt.
package colorterm

import (
	"fmt"
	"os"
	"strings"

	"github.com/gophercast/gophercast/debugger/terminal/colorterm/easyterm"
)

// ANSI pens.
const (
	penPrompt = "\033[1;34m"
	penReset  = "\033[0m"
)

// ColorTerminal implements the terminal.Terminal interface.
type ColorTerminal struct {
	easyterm.EasyTerm

	// the line being edited
	line strings.Builder
}

// NewColorTerminal is the preferred method of initialisation for the
// ColorTerminal type.
func NewColorTerminal() (*ColorTerminal, error) {
	ct := &ColorTerminal{}

	if err := ct.Initialise(os.Stdin, os.Stdout); err != nil {
		return nil, err
	}
	ct.UpdateGeometry()

	return ct, nil
}

// ReadLine implements the terminal.Terminal interface.
func (ct *ColorTerminal) ReadLine(prompt string) (string, error) {
	ct.CBreakMode()
	defer ct.CanonicalMode()

	ct.TermPrint(fmt.Sprintf("%s%s%s", penPrompt, prompt, penReset))

	ct.line.Reset()

	buf := make([]byte, 1)
	for {
		n, err := os.Stdin.Read(buf)
		if err != nil {
			return "", err
		}
		if n == 0 {
			continue
		}

		switch buf[0] {
		case '\n', '\r':
			ct.TermPrint("\r\n")
			return ct.line.String(), nil

		case 0x7f, 0x08: // backspace
			s := ct.line.String()
			if len(s) > 0 {
				ct.line.Reset()
				ct.line.WriteString(s[:len(s)-1])
				ct.TermPrint("\b \b")
			}

		case 0x03: // ctrl-c reads as an empty quit-ish line
			ct.TermPrint("\r\n")
			return "", nil

		default:
			if buf[0] >= 0x20 && buf[0] < 0x7f {
				ct.line.WriteByte(buf[0])
				ct.TermPrint(string(buf[0:1]))
			}
		}
	}
}

// Print implements the terminal.Terminal interface.
func (ct *ColorTerminal) Print(s string) {
	ct.TermPrint(s)
}

// End implements the terminal.Terminal interface.
func (ct *ColorTerminal) End() {
	ct.CanonicalMode()
	ct.CleanUp()
}
