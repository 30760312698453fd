/*
 * LAPU-128 - Per-step trace printer.
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

package machine

import (
	"fmt"
	"io"

	"github.com/PanScout/LAPU/internal/asmerr"
	"github.com/PanScout/LAPU/internal/codec"
	"github.com/PanScout/LAPU/internal/fpk"
	"github.com/PanScout/LAPU/internal/hexword"
)

func formatComplex(c fpk.Complex) string {
	re := float64(c.Re) / float64(fpk.One)
	im := float64(c.Im) / float64(fpk.One)
	return fmt.Sprintf("(%+.6f %+.6fi)", re, im)
}

// Trace prints one step's header, register, and optional matrix dump. It
// is exported so the interactive REPL can reuse the exact batch-mode
// format.
func (m *Machine) Trace(w io.Writer, pc int, word codec.Word, opts TraceOptions) {
	m.trace(w, pc, word, opts)
}

// PrintRegisters dumps all scalar and vector registers without a step
// header, for the REPL's "regs" command.
func (m *Machine) PrintRegisters(w io.Writer) {
	for i := 0; i < 8; i++ {
		fmt.Fprintf(w, "  s%d: %s", i, formatComplex(m.ReadScalar(uint8(i))))
	}
	fmt.Fprintln(w)
	for i := 0; i < 8; i++ {
		lane := m.ReadVector(uint8(i))
		fmt.Fprintf(w, "  v%d: [", i)
		for k, c := range lane {
			if k > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, formatComplex(c))
		}
		fmt.Fprintf(w, "] (vlen=%d)\n", m.VLEN)
	}
}

// PrintBank dumps the full contents of bank id, for the REPL's "bank"
// command.
func (m *Machine) PrintBank(w io.Writer, id int) error {
	if id < 0 || id > 3 {
		return asmerr.Run("bank id %d is reserved", id)
	}
	bank := m.Banks[id]
	fmt.Fprintf(w, "bank%d:\n", id)
	for r := range bank {
		fmt.Fprint(w, "  ")
		for c, v := range bank[r] {
			if c > 0 {
				fmt.Fprint(w, ", ")
			}
			fmt.Fprint(w, formatComplex(v))
		}
		fmt.Fprintln(w)
	}
	return nil
}

func (m *Machine) trace(w io.Writer, pc int, word codec.Word, opts TraceOptions) {
	fmt.Fprintf(w, "--- step %04d pc=%04d instr=%s ---\n", m.Steps, pc, hexword.FormatWord(word))
	m.PrintRegisters(w)

	if opts.ShowMatrix {
		bank := m.Banks[0]
		rows, cols := opts.Rows, opts.Cols
		if rows > len(bank) {
			rows = len(bank)
		}
		if rows > 0 && cols > len(bank[0]) {
			cols = len(bank[0])
		}
		fmt.Fprintf(w, "  bank0[0:%d,0:%d]:\n", rows, cols)
		for r := 0; r < rows; r++ {
			fmt.Fprint(w, "    ")
			for c := 0; c < cols; c++ {
				if c > 0 {
					fmt.Fprint(w, ", ")
				}
				fmt.Fprint(w, formatComplex(bank[r][c]))
			}
			fmt.Fprintln(w)
		}
	}
}
