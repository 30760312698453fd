/*
 * LAPU-128 - Architectural machine state.
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

// Package machine holds the LAPU-128 architectural state (scalar and vector
// register files, matrix banks, program counter) as a single owned value,
// and executes decoded instructions against it. No package-level mutable
// state is used; every entry point takes a *Machine receiver.
package machine

import (
	"io"

	"github.com/PanScout/LAPU/internal/asmerr"
	"github.com/PanScout/LAPU/internal/codec"
	"github.com/PanScout/LAPU/internal/fpk"
)

// Machine is the complete architectural state of one LAPU-128 run.
type Machine struct {
	VLEN          int
	N             int
	PredicateImag bool

	PC    int
	Steps int

	Scalars [8]fpk.Complex
	Vectors [8][]fpk.Complex
	Banks   [4][][]fpk.Complex
}

// New builds a zero-initialized Machine. vlen must be positive; n must be
// at least 2 (each bank is (n*vlen) x (n*vlen)).
func New(vlen, n int, predicateImag bool) (*Machine, error) {
	if vlen <= 0 {
		return nil, asmerr.Run("vlen must be positive, got %d", vlen)
	}
	if n < 2 {
		return nil, asmerr.Run("n-mult must be at least 2, got %d", n)
	}
	m := &Machine{VLEN: vlen, N: n, PredicateImag: predicateImag}
	for i := range m.Vectors {
		m.Vectors[i] = make([]fpk.Complex, vlen)
	}
	dim := n * vlen
	for b := range m.Banks {
		bank := make([][]fpk.Complex, dim)
		for r := range bank {
			bank[r] = make([]fpk.Complex, dim)
		}
		m.Banks[b] = bank
	}
	return m, nil
}

// ReadScalar returns the value of scalar register i; register 0 always
// reads as complex zero.
func (m *Machine) ReadScalar(i uint8) fpk.Complex {
	if i == 0 {
		return fpk.Zero
	}
	return m.Scalars[i]
}

// WriteScalar writes v to scalar register i; writing register 0 is a
// hard runtime error.
func (m *Machine) WriteScalar(i uint8, v fpk.Complex) error {
	if i == 0 {
		return asmerr.Run("write to reserved register s0 is not permitted")
	}
	m.Scalars[i] = v
	return nil
}

// ReadVector returns a fresh copy of vector register i's lanes; register 0
// always reads as a vector of complex zeros.
func (m *Machine) ReadVector(i uint8) []fpk.Complex {
	out := make([]fpk.Complex, m.VLEN)
	if i != 0 {
		copy(out, m.Vectors[i])
	}
	return out
}

// WriteVector copies v into vector register i's lanes; writing register 0
// is a hard runtime error.
func (m *Machine) WriteVector(i uint8, v []fpk.Complex) error {
	if i == 0 {
		return asmerr.Run("write to reserved register v0 is not permitted")
	}
	copy(m.Vectors[i], v)
	return nil
}

// bank returns the bank indexed by id, rejecting the reserved ids 4-15.
func (m *Machine) bank(id uint8) ([][]fpk.Complex, error) {
	if id > 3 {
		return nil, asmerr.Run("bank id %d is reserved", id)
	}
	return m.Banks[id], nil
}

// predicate reports whether scalar register 1 (the implicit jrel
// predicate) is true: its real part is non-zero, or (with PredicateImag)
// either part is non-zero.
func (m *Machine) predicate() bool {
	s1 := m.ReadScalar(1)
	if s1.Re != 0 {
		return true
	}
	return m.PredicateImag && s1.Im != 0
}

// Step decodes and executes one instruction word, advancing PC. A jrel
// sets PC itself (relative to its own pc); every other family advances PC
// by one.
func (m *Machine) Step(word codec.Word) error {
	instr, err := codec.Decode(word)
	if err != nil {
		return asmerr.Run("%v", err)
	}
	switch v := instr.(type) {
	case codec.RInstr:
		if err := m.execR(v); err != nil {
			return err
		}
		m.PC++
	case codec.IInstr:
		if err := m.execI(v); err != nil {
			return err
		}
		m.PC++
	case codec.JInstr:
		if err := m.execJ(v); err != nil {
			return err
		}
	case codec.SInstr:
		if err := m.execS(v); err != nil {
			return err
		}
		m.PC++
	default:
		return asmerr.Run("unknown instruction variant %T", instr)
	}
	return nil
}

// TraceOptions controls the optional per-step matrix window.
type TraceOptions struct {
	ShowMatrix bool
	Rows, Cols int
}

// Run fetches and executes program[m.PC] in a loop, printing a trace line
// after each step, until PC escapes the program range or maxSteps steps
// have been retired. Both endings are normal termination (exit 0); only an
// execution error aborts the run.
func (m *Machine) Run(program []codec.Word, maxSteps int, w io.Writer, opts TraceOptions) error {
	for m.PC >= 0 && m.PC < len(program) && m.Steps < maxSteps {
		word := program[m.PC]
		pcBefore := m.PC
		if err := m.Step(word); err != nil {
			return err
		}
		m.Steps++
		if w != nil {
			m.trace(w, pcBefore, word, opts)
		}
	}
	return nil
}
