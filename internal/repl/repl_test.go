package repl

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

import (
	"bytes"
	"strings"
	"testing"

	"github.com/PanScout/LAPU/internal/assembler"
	"github.com/PanScout/LAPU/internal/machine"
)

func newTestSession(t *testing.T) *Session {
	t.Helper()
	words, err := assembler.Assemble("cloadi s2, c(1,0)\ncloadi s3, c(0,1)\ncmul s4, s2, s3\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	m, err := machine.New(8, 2, false)
	if err != nil {
		t.Fatalf("New failed: %v", err)
	}
	var out bytes.Buffer
	return &Session{Machine: m, Program: words, Out: &out}
}

func TestStepAdvancesOneInstructionAtATime(t *testing.T) {
	s := newTestSession(t)
	if err := s.step(1); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if s.Machine.PC != 1 {
		t.Errorf("PC = %d, want 1 after one step", s.Machine.PC)
	}
}

func TestStepHaltsAtProgramEnd(t *testing.T) {
	s := newTestSession(t)
	if err := s.step(10); err != nil {
		t.Fatalf("step failed: %v", err)
	}
	if s.Machine.PC != len(s.Program) {
		t.Errorf("PC = %d, want %d at program end", s.Machine.PC, len(s.Program))
	}
	out := s.Out.(*bytes.Buffer).String()
	if !strings.Contains(out, "halted") {
		t.Errorf("expected halted message once PC runs off the end")
	}
}

func TestDispatchQuitSignalsExit(t *testing.T) {
	s := newTestSession(t)
	quit, err := s.dispatch("quit")
	if err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !quit {
		t.Errorf("expected quit to signal exit")
	}
}

func TestDispatchAcceptsAbbreviatedCommand(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.dispatch("s"); err != nil {
		t.Fatalf("abbreviated step failed: %v", err)
	}
	if s.Machine.PC != 1 {
		t.Errorf("PC = %d, want 1 after abbreviated step", s.Machine.PC)
	}
}

func TestDispatchUnknownCommandReturnsError(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.dispatch("frobnicate"); err == nil {
		t.Errorf("expected error for unknown command")
	}
}

func TestDispatchBankRequiresArgument(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.dispatch("bank"); err == nil {
		t.Errorf("expected error when bank id is missing")
	}
}

func TestDispatchRegsPrintsState(t *testing.T) {
	s := newTestSession(t)
	if _, err := s.dispatch("regs"); err != nil {
		t.Fatalf("dispatch failed: %v", err)
	}
	if !strings.Contains(s.Out.(*bytes.Buffer).String(), "s0:") {
		t.Errorf("expected register dump to include s0")
	}
}
