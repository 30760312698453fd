/*
 * LAPU-128 - I-type (complex immediate) execution.
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

// q2223ToQ3232 widens a Q22.23 immediate half (45-bit signed, scale 2^23)
// to Q32.32 (scale 2^32) by multiplying by 2^9, per spec.md §4.5. The
// 45+9=54 result bits always fit in int64, so no saturation can trigger.
func q2223ToQ3232(v int64) int64 {
	return v << 9
}

func (m *Machine) execI(ii codec.IInstr) error {
	imm := fpk.Complex{Re: q2223ToQ3232(ii.ImmRe), Im: q2223ToQ3232(ii.ImmIm)}

	if ii.Sub == 0x00 { // cloadi
		return m.WriteScalar(ii.Rd, imm)
	}

	a := m.ReadScalar(ii.Rs1)
	switch ii.Sub {
	case 0x01: // cadd_i
		return m.WriteScalar(ii.Rd, fpk.CAdd(a, imm))
	case 0x02: // csub_i
		return m.WriteScalar(ii.Rd, fpk.CSub(a, imm))
	case 0x03: // cmul_i
		return m.WriteScalar(ii.Rd, fpk.CMul(a, imm))
	case 0x04: // cdiv_i
		return m.WriteScalar(ii.Rd, fpk.CDiv(a, imm))
	case 0x05: // cmaxabs_i
		return m.WriteScalar(ii.Rd, pickByAbs2(a, imm, true))
	case 0x06: // cminabs_i
		return m.WriteScalar(ii.Rd, pickByAbs2(a, imm, false))
	default:
		return asmerr.Run("unknown immediate sub-opcode 0x%02x", ii.Sub)
	}
}
