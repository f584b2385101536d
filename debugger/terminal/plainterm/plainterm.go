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

// Package plainterm implements the debugger terminal in the dumbest way
// possible: lines in, lines out, no ANSI. The right choice when the
// session is not a real terminal (a pipe, an editor integration).
package plainterm

import (
	"bufio"
	"fmt"
	"io"
	"os"
)

// PlainTerminal implements the terminal.Terminal interface.
type PlainTerminal struct {
	input  *bufio.Reader
	output io.Writer
}

// NewPlainTerminal is the preferred method of initialisation for the
// PlainTerminal type.
func NewPlainTerminal() *PlainTerminal {
	return &PlainTerminal{
		input:  bufio.NewReader(os.Stdin),
		output: os.Stdout,
	}
}

// ReadLine implements the terminal.Terminal interface.
func (pt *PlainTerminal) ReadLine(prompt string) (string, error) {
	fmt.Fprint(pt.output, prompt)

	s, err := pt.input.ReadString('\n')
	if err != nil {
		return "", err
	}
	return s, nil
}

// Print implements the terminal.Terminal interface.
func (pt *PlainTerminal) Print(s string) {
	io.WriteString(pt.output, s)
}

// End implements the terminal.Terminal interface.
func (pt *PlainTerminal) End() {
}
