/*
 * LAPU-128 - Fixed-point arithmetic kernel.
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

// Package fpk implements the LAPU-128 saturating Q32.32 fixed-point
// arithmetic kernel and the complex operations built on top of it.
//
// A Q32.32 value is a signed 64-bit integer whose low 32 bits are the
// fractional part; the represented real value is raw/2^32. All operations
// saturate to the full int64 range and truncate toward zero, never round.
package fpk

import (
	"math/big"
	"math/cmplx"
)

// FracBits is the number of fractional bits in a Q32.32 value.
const FracBits = 32

// One is the Q32.32 encoding of the real value 1.0.
const One int64 = 1 << FracBits

var (
	bigMax = big.NewInt(1<<63 - 1)
	bigMin = new(big.Int).Neg(new(big.Int).Lsh(big.NewInt(1), 63))
)

// satBig clamps a big.Int to the signed 64-bit range and returns an int64.
func satBig(x *big.Int) int64 {
	if x.Cmp(bigMax) > 0 {
		return bigMax.Int64()
	}
	if x.Cmp(bigMin) < 0 {
		return bigMin.Int64()
	}
	return x.Int64()
}

// Add returns sat(a+b).
func Add(a, b int64) int64 {
	sum := a + b
	// Overflow happened iff operands share a sign and the result's sign differs.
	if (a >= 0) == (b >= 0) && (sum >= 0) != (a >= 0) {
		if a < 0 {
			return bigMin.Int64()
		}
		return bigMax.Int64()
	}
	return sum
}

// Sub returns sat(a-b).
func Sub(a, b int64) int64 {
	diff := a - b
	if (a >= 0) != (b >= 0) && (diff >= 0) != (a >= 0) {
		if a < 0 {
			return bigMin.Int64()
		}
		return bigMax.Int64()
	}
	return diff
}

// truncShiftRight shifts a non-negative-magnitude big.Int right by n bits,
// truncating toward zero (not floor), preserving the sign of x.
func truncShiftRight(x *big.Int, n uint) *big.Int {
	if x.Sign() >= 0 {
		return new(big.Int).Rsh(x, n)
	}
	mag := new(big.Int).Neg(x)
	mag.Rsh(mag, n)
	return mag.Neg(mag)
}

// Mul returns sat(trunc((a*b) >> 32)).
func Mul(a, b int64) int64 {
	wide := new(big.Int).Mul(big.NewInt(a), big.NewInt(b))
	return satBig(truncShiftRight(wide, FracBits))
}

// Div returns sat(trunc((n<<32)/d)); division by zero yields 0, not an error.
func Div(n, d int64) int64 {
	if d == 0 {
		return 0
	}
	wide := new(big.Int).Lsh(big.NewInt(n), FracBits)
	q := new(big.Int).Quo(wide, big.NewInt(d)) // Quo truncates toward zero.
	return satBig(q)
}

// Recip returns sat(div(1.0, a)); a == 0 yields 0.
func Recip(a int64) int64 {
	if a == 0 {
		return 0
	}
	return Div(One, a)
}

// Abs returns the saturating absolute value of a.
func Abs(a int64) int64 {
	if a >= 0 {
		return a
	}
	return Sub(0, a)
}

// Complex is a pair of Q32.32 values (Re, Im).
type Complex struct {
	Re, Im int64
}

// Zero is the complex zero value.
var Zero = Complex{}

// CAdd returns lane-parallel saturating addition.
func CAdd(a, b Complex) Complex {
	return Complex{Add(a.Re, b.Re), Add(a.Im, b.Im)}
}

// CSub returns lane-parallel saturating subtraction.
func CSub(a, b Complex) Complex {
	return Complex{Sub(a.Re, b.Re), Sub(a.Im, b.Im)}
}

// CNeg returns the saturating negation of a.
func CNeg(a Complex) Complex {
	return Complex{Sub(0, a.Re), Sub(0, a.Im)}
}

// CMul returns the saturating complex product.
func CMul(a, b Complex) Complex {
	re := Sub(Mul(a.Re, b.Re), Mul(a.Im, b.Im))
	im := Add(Mul(a.Re, b.Im), Mul(a.Im, b.Re))
	return Complex{re, im}
}

// CConj returns (re, sat(-im)).
func CConj(a Complex) Complex {
	return Complex{a.Re, Sub(0, a.Im)}
}

// CAbs2 returns |a|^2 = mul(re,re) + mul(im,im), saturating.
func CAbs2(a Complex) int64 {
	return Add(Mul(a.Re, a.Re), Mul(a.Im, a.Im))
}

// CDiv returns a/b; if |b|^2 == 0 it returns complex zero (no error).
func CDiv(a, b Complex) Complex {
	denom := CAbs2(b)
	if denom == 0 {
		return Zero
	}
	num := CMul(a, CConj(b))
	return Complex{Div(num.Re, denom), Div(num.Im, denom)}
}

// CAbs returns isqrt(c_abs2(a) << 32), the Q32.32 magnitude of a.
func CAbs(a Complex) int64 {
	mag2 := CAbs2(a)
	if mag2 <= 0 {
		return 0
	}
	wide := new(big.Int).Lsh(big.NewInt(mag2), FracBits)
	root := new(big.Int).Sqrt(wide)
	return satBig(root)
}

// CSqrt returns the principal complex square root of a, computed via a
// float64 intermediate and truncated (never rounded) back to Q32.32. This
// is the sole permitted use of floating point in the kernel; results are
// reproducible across any host following IEEE-754 double precision.
func CSqrt(a Complex) Complex {
	re := float64(a.Re) / float64(One)
	im := float64(a.Im) / float64(One)
	w := cmplx.Sqrt(complex(re, im))
	return Complex{fromFloat(real(w)), fromFloat(imag(w))}
}

// fromFloat truncates (toward zero) a float64 real value into Q32.32,
// saturating on overflow.
func fromFloat(x float64) int64 {
	scaled := x * float64(One)
	if scaled >= 9223372036854775807.0 {
		return bigMax.Int64()
	}
	if scaled <= -9223372036854775808.0 {
		return bigMin.Int64()
	}
	return int64(scaled) // int64() conversion truncates toward zero.
}
