/*
 * LAPU-128 - Interactive step REPL.
 *
 * Copyright 2024, Richard Cornwell
 *
 * Permission is hereby granted, free of charge, to any person obtaining a copy
 * of this software and associated documentation files (the "Software"), to deal
 * in the Software without restriction, including without limitation the rights
 * to use, copy, modify, merge, publish, distribute, sublicense, and/or sell
 * copies of the Software, and to permit persons to whom the Software is
 * furnished to do so, subject to the following conditions:
 *
 * The above copyright notice and this permission notice shall be included in
 * all copies or substantial portions of the Software.
 *
 * THE SOFTWARE IS PROVIDED "AS IS", WITHOUT WARRANTY OF ANY KIND, EXPRESS OR
 * IMPLIED, INCLUDING BUT NOT LIMITED TO THE WARRANTIES OF MERCHANTABILITY,
 * FITNESS FOR A PARTICULAR PURPOSE AND NONINFRINGEMENT. IN NO EVENT SHALL THE
 * AUTHORS OR COPYRIGHT HOLDERS BE LIABLE FOR ANY CLAIM, DAMAGES OR OTHER
 * LIABILITY, WHETHER IN AN ACTION OF CONTRACT, TORT OR OTHERWISE, ARISING FROM,
 * OUT OF OR IN CONNECTION WITH THE SOFTWARE OR THE USE OR OTHER DEALINGS IN THE
 * SOFTWARE.
 *
 */

// Package repl is a liner-backed console for stepping a loaded program
// one instruction, or a handful, at a time. It drives the same
// Machine.Step the batch runner uses; there is no second execution
// path.
package repl

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"strconv"
	"strings"

	"github.com/peterh/liner"

	"github.com/PanScout/LAPU/internal/codec"
	"github.com/PanScout/LAPU/internal/machine"
)

// Session owns the machine, the loaded program, and where trace/register
// output goes.
type Session struct {
	Machine *machine.Machine
	Program []codec.Word
	Out     io.Writer
	Opts    machine.TraceOptions
}

// Run drops into the prompt loop. It returns when the user quits or
// closes input; a runtime error from Step is reported but does not end
// the session, matching a debugger's expectation that you can inspect
// state after a fault.
func (s *Session) Run() error {
	line := liner.NewLiner()
	defer line.Close()
	line.SetCtrlCAborts(true)

	for {
		input, err := line.Prompt("lapu> ")
		if err != nil {
			if errors.Is(err, liner.ErrPromptAborted) {
				return nil
			}
			slog.Error("error reading line: " + err.Error())
			return nil
		}
		line.AppendHistory(input)

		quit, err := s.dispatch(strings.TrimSpace(input))
		if err != nil {
			fmt.Fprintln(s.Out, "Error:", err)
		}
		if quit {
			return nil
		}
	}
}

func (s *Session) dispatch(input string) (bool, error) {
	fields := strings.Fields(input)
	if len(fields) == 0 {
		return false, nil
	}
	cmd, args := fields[0], fields[1:]

	switch {
	case matches(cmd, "step"):
		n := 1
		if len(args) > 0 {
			v, err := strconv.Atoi(args[0])
			if err != nil {
				return false, fmt.Errorf("bad step count %q", args[0])
			}
			n = v
		}
		return false, s.step(n)
	case matches(cmd, "run"):
		return false, s.step(len(s.Program))
	case matches(cmd, "regs"):
		s.Machine.PrintRegisters(s.Out)
		return false, nil
	case matches(cmd, "bank"):
		if len(args) == 0 {
			return false, errors.New("usage: bank <id>")
		}
		id, err := strconv.Atoi(args[0])
		if err != nil {
			return false, fmt.Errorf("bad bank id %q", args[0])
		}
		return false, s.Machine.PrintBank(s.Out, id)
	case matches(cmd, "quit"):
		return true, nil
	default:
		return false, fmt.Errorf("command not found: %s", cmd)
	}
}

// matches does a prefix match against name, mirroring the abbreviated
// command matching a line-oriented console expects ("s" for "step").
func matches(input, name string) bool {
	return len(input) > 0 && strings.HasPrefix(name, input)
}

func (s *Session) step(n int) error {
	for i := 0; i < n; i++ {
		if s.Machine.PC < 0 || s.Machine.PC >= len(s.Program) {
			fmt.Fprintln(s.Out, "program counter out of range, halted")
			return nil
		}
		word := s.Program[s.Machine.PC]
		pc := s.Machine.PC
		if err := s.Machine.Step(word); err != nil {
			return err
		}
		s.Machine.Steps++
		s.Machine.Trace(s.Out, pc, word, s.Opts)
	}
	return nil
}
