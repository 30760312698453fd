/*
 * LAPU-128 - S-type (matrix load/store) execution.
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
	"github.com/PanScout/LAPU/internal/asmerr"
	"github.com/PanScout/LAPU/internal/codec"
	"github.com/PanScout/LAPU/internal/fpk"
)

func (m *Machine) execS(s codec.SInstr) error {
	switch s.Sub {
	case 0x00:
		return m.execVld(s)
	case 0x01:
		return m.execVst(s)
	case 0x02:
		return m.execSld(s)
	case 0x03:
		return m.execSst(s)
	default:
		return asmerr.Run("unknown matrix sub-opcode 0x%02x", s.Sub)
	}
}

func (m *Machine) execVld(s codec.SInstr) error {
	bank, err := m.bank(s.MBID)
	if err != nil {
		return err
	}
	dim := len(bank)
	i, j := int(s.I16), int(s.J16)
	lane := make([]fpk.Complex, m.VLEN)
	for k := range lane {
		var row, col int
		if s.Orientation == codec.OrientRowMajor {
			row, col = i, j+k
		} else {
			row, col = i+k, j
		}
		if row < 0 || row >= dim || col < 0 || col >= dim {
			return asmerr.Run("matrix index (%d,%d) out of range for bank %d", row, col, s.MBID)
		}
		lane[k] = bank[row][col]
	}
	return m.WriteVector(s.Reg, lane)
}

func (m *Machine) execVst(s codec.SInstr) error {
	bank, err := m.bank(s.MBID)
	if err != nil {
		return err
	}
	dim := len(bank)
	i, j := int(s.I16), int(s.J16)
	lane := m.ReadVector(s.Reg)
	for k, v := range lane {
		var row, col int
		if s.Orientation == codec.OrientRowMajor {
			row, col = i, j+k
		} else {
			row, col = i+k, j
		}
		if row < 0 || row >= dim || col < 0 || col >= dim {
			return asmerr.Run("matrix index (%d,%d) out of range for bank %d", row, col, s.MBID)
		}
		bank[row][col] = v
	}
	return nil
}

func (m *Machine) execSld(s codec.SInstr) error {
	bank, err := m.bank(s.MBID)
	if err != nil {
		return err
	}
	dim := len(bank)
	x, y := int(s.I16), int(s.J16)
	if x < 0 || x >= dim || y < 0 || y >= dim {
		return asmerr.Run("matrix index (%d,%d) out of range for bank %d", x, y, s.MBID)
	}
	return m.WriteScalar(s.Reg, bank[y][x])
}

func (m *Machine) execSst(s codec.SInstr) error {
	bank, err := m.bank(s.MBID)
	if err != nil {
		return err
	}
	dim := len(bank)
	x, y := int(s.I16), int(s.J16)
	if x < 0 || x >= dim || y < 0 || y >= dim {
		return asmerr.Run("matrix index (%d,%d) out of range for bank %d", x, y, s.MBID)
	}
	bank[y][x] = m.ReadScalar(s.Reg)
	return nil
}
