/*
 * LAPU-128 - R-type (register-to-register) execution.
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

func (m *Machine) execR(r codec.RInstr) error {
	switch r.Mapping {
	case codec.MapScalarScalar:
		return m.execScalar(r)
	case codec.MapVectorVector:
		return m.execVectorLane(r)
	case codec.MapVectorScalar:
		return m.execReduction(r)
	case codec.MapBroadcast:
		return m.execBroadcast(r)
	default:
		return asmerr.Run("unknown R-type mapping code %d", r.Mapping)
	}
}

func recip(a fpk.Complex) fpk.Complex {
	return fpk.CDiv(fpk.Complex{Re: fpk.One}, a)
}

func pickByAbs2(a, b fpk.Complex, wantLarger bool) fpk.Complex {
	aa, ba := fpk.CAbs2(a), fpk.CAbs2(b)
	if wantLarger {
		if aa >= ba {
			return a
		}
		return b
	}
	if aa <= ba {
		return a
	}
	return b
}

func boolComplex(v bool) fpk.Complex {
	if v {
		return fpk.Complex{Re: fpk.One}
	}
	return fpk.Zero
}

func (m *Machine) execScalar(r codec.RInstr) error {
	a := m.ReadScalar(r.Rs1)
	switch r.Sub {
	case 0x00: // cneg
		return m.WriteScalar(r.Rd, fpk.CNeg(a))
	case 0x01: // conj
		return m.WriteScalar(r.Rd, fpk.CConj(a))
	case 0x02: // csqrt
		return m.WriteScalar(r.Rd, fpk.CSqrt(a))
	case 0x03: // cabs2
		return m.WriteScalar(r.Rd, fpk.Complex{Re: fpk.CAbs2(a)})
	case 0x04: // cabs
		return m.WriteScalar(r.Rd, fpk.Complex{Re: fpk.CAbs(a)})
	case 0x05: // creal
		return m.WriteScalar(r.Rd, fpk.Complex{Re: a.Re})
	case 0x06: // cimag
		return m.WriteScalar(r.Rd, fpk.Complex{Re: a.Im})
	case 0x07: // crecip
		return m.WriteScalar(r.Rd, recip(a))
	}

	b := m.ReadScalar(r.Rs2)
	switch r.Sub {
	case 0x08: // cadd
		return m.WriteScalar(r.Rd, fpk.CAdd(a, b))
	case 0x09: // csub
		return m.WriteScalar(r.Rd, fpk.CSub(a, b))
	case 0x0A: // cmul
		return m.WriteScalar(r.Rd, fpk.CMul(a, b))
	case 0x0B: // cdiv
		return m.WriteScalar(r.Rd, fpk.CDiv(a, b))
	case 0x0C: // cmaxabs
		return m.WriteScalar(r.Rd, pickByAbs2(a, b, true))
	case 0x0D: // cminabs
		return m.WriteScalar(r.Rd, pickByAbs2(a, b, false))
	case 0x0E: // cmplt.re
		return m.WriteScalar(r.Rd, boolComplex(a.Re < b.Re))
	case 0x0F: // cmpgt.re
		return m.WriteScalar(r.Rd, boolComplex(a.Re > b.Re))
	case 0x10: // cmple.re
		return m.WriteScalar(r.Rd, boolComplex(a.Re <= b.Re))
	default:
		return asmerr.Run("unknown scalar sub-opcode 0x%02x", r.Sub)
	}
}

func (m *Machine) execVectorLane(r codec.RInstr) error {
	a := m.ReadVector(r.Rs1)
	if r.Sub == 0x05 { // vconj, unary
		out := make([]fpk.Complex, m.VLEN)
		for i, lane := range a {
			out[i] = fpk.CConj(lane)
		}
		return m.WriteVector(r.Rd, out)
	}

	b := m.ReadVector(r.Rs2)
	out := make([]fpk.Complex, m.VLEN)
	switch r.Sub {
	case 0x00: // vadd
		for i := range out {
			out[i] = fpk.CAdd(a[i], b[i])
		}
	case 0x01: // vsub
		for i := range out {
			out[i] = fpk.CSub(a[i], b[i])
		}
	case 0x02: // vmul
		for i := range out {
			out[i] = fpk.CMul(a[i], b[i])
		}
	case 0x03: // vmac, destination read before write
		d := m.ReadVector(r.Rd)
		for i := range out {
			out[i] = fpk.CAdd(d[i], fpk.CMul(a[i], b[i]))
		}
	case 0x04: // vdiv
		for i := range out {
			out[i] = fpk.CDiv(a[i], b[i])
		}
	default:
		return asmerr.Run("unknown vector lane sub-opcode 0x%02x", r.Sub)
	}
	return m.WriteVector(r.Rd, out)
}

func (m *Machine) execReduction(r codec.RInstr) error {
	a := m.ReadVector(r.Rs1)
	switch r.Sub {
	case 0x00: // dotc: conjugate dot product, accumulated in lane order
		acc := fpk.Zero
		b := m.ReadVector(r.Rs2)
		for i := range a {
			acc = fpk.CAdd(acc, fpk.CMul(fpk.CConj(a[i]), b[i]))
		}
		return m.WriteScalar(r.Rd, acc)
	case 0x01: // dotu
		acc := fpk.Zero
		b := m.ReadVector(r.Rs2)
		for i := range a {
			acc = fpk.CAdd(acc, fpk.CMul(a[i], b[i]))
		}
		return m.WriteScalar(r.Rd, acc)
	case 0x02: // iamax
		best := 0
		bestAbs2 := fpk.CAbs2(a[0])
		for i := 1; i < len(a); i++ {
			if v := fpk.CAbs2(a[i]); v > bestAbs2 {
				bestAbs2 = v
				best = i
			}
		}
		return m.WriteScalar(r.Rd, fpk.Complex{Re: int64(best) * fpk.One})
	case 0x03: // sum
		acc := fpk.Zero
		for _, lane := range a {
			acc = fpk.CAdd(acc, lane)
		}
		return m.WriteScalar(r.Rd, acc)
	case 0x04: // asum
		acc := int64(0)
		for _, lane := range a {
			acc = fpk.Add(acc, fpk.CAbs(lane))
		}
		return m.WriteScalar(r.Rd, fpk.Complex{Re: acc})
	default:
		return asmerr.Run("unknown reduction sub-opcode 0x%02x", r.Sub)
	}
}

func (m *Machine) execBroadcast(r codec.RInstr) error {
	a := m.ReadVector(r.Rs1)
	s := m.ReadScalar(r.Rs2)
	out := make([]fpk.Complex, m.VLEN)
	switch r.Sub {
	case 0x18: // vsadd
		for i := range out {
			out[i] = fpk.CAdd(a[i], s)
		}
	case 0x19: // vssub
		for i := range out {
			out[i] = fpk.CSub(a[i], s)
		}
	case 0x1A: // vsmul
		for i := range out {
			out[i] = fpk.CMul(a[i], s)
		}
	case 0x1B: // vsdiv
		for i := range out {
			out[i] = fpk.CDiv(a[i], s)
		}
	default:
		return asmerr.Run("unknown broadcast sub-opcode 0x%02x", r.Sub)
	}
	return m.WriteVector(r.Rd, out)
}
