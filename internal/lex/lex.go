/*
 * LAPU-128 - Source line tokenizer and literal classification.
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

// Package lex tokenizes LAPU-128 source lines and classifies the
// resulting tokens as registers, bank ids, integers, and complex
// immediates. It knows nothing of mnemonics, opcodes, or label tables;
// the assembler package owns those.
package lex

import (
	"fmt"
	"math/big"
	"strconv"
	"strings"
	"unicode"

	"github.com/PanScout/LAPU/internal/codec"
)

// q2223FracBits is the fractional-bit count of the Q22.23 immediate
// format; literals are scaled by 2^23 before being range-checked and
// handed to codec as Q22.23 halves.
const q2223FracBits = 23

// RegClass distinguishes scalar from vector register tokens.
type RegClass int

const (
	RegScalar RegClass = iota
	RegVector
)

// StripComment returns line with everything from the first ';' or '#'
// outside parentheses removed, and trailing whitespace trimmed.
func StripComment(line string) string {
	depth := 0
	for i := 0; i < len(line); i++ {
		switch line[i] {
		case '(':
			depth++
		case ')':
			if depth > 0 {
				depth--
			}
		case ';', '#':
			if depth == 0 {
				return strings.TrimRight(line[:i], " \t\r\n")
			}
		}
	}
	return strings.TrimRight(line, " \t\r\n")
}

// Tokenize splits line on whitespace and commas, treating both as
// equivalent separators, except inside one level of parentheses where
// both are preserved verbatim. "c(1,0)" and "(0.5, 0.25)" each come back
// as a single token.
func Tokenize(line string) []string {
	var tokens []string
	var cur strings.Builder
	depth := 0

	flush := func() {
		if cur.Len() > 0 {
			tokens = append(tokens, cur.String())
			cur.Reset()
		}
	}

	for _, r := range line {
		switch {
		case r == '(':
			depth++
			cur.WriteRune(r)
		case r == ')':
			if depth > 0 {
				depth--
			}
			cur.WriteRune(r)
		case depth > 0:
			cur.WriteRune(r)
		case unicode.IsSpace(r) || r == ',':
			flush()
		default:
			cur.WriteRune(r)
		}
	}
	flush()
	return tokens
}

// ParseRegister classifies a `[sv][0-7]` token, case-insensitively.
func ParseRegister(tok string) (class RegClass, index int, ok bool) {
	if len(tok) != 2 {
		return 0, 0, false
	}
	switch tok[0] {
	case 's', 'S':
		class = RegScalar
	case 'v', 'V':
		class = RegVector
	default:
		return 0, 0, false
	}
	if tok[1] < '0' || tok[1] > '7' {
		return 0, 0, false
	}
	return class, int(tok[1] - '0'), true
}

// ParseBankID classifies "mb0".."mb3" or a plain integer in 0..3.
func ParseBankID(tok string) (id int, ok bool) {
	low := strings.ToLower(tok)
	if strings.HasPrefix(low, "mb") {
		if len(low) != 3 || low[2] < '0' || low[2] > '3' {
			return 0, false
		}
		return int(low[2] - '0'), true
	}
	n, ok := ParseInt(tok)
	if !ok || n < 0 || n > 3 {
		return 0, false
	}
	return int(n), true
}

// ParseInt parses a decimal or 0x-prefixed hex integer literal, with an
// optional leading '-'.
func ParseInt(tok string) (int64, bool) {
	s := tok
	neg := false
	if strings.HasPrefix(s, "-") {
		neg = true
		s = s[1:]
	}
	var v int64
	var err error
	switch {
	case strings.HasPrefix(s, "0x"), strings.HasPrefix(s, "0X"):
		v, err = strconv.ParseInt(s[2:], 16, 64)
	default:
		v, err = strconv.ParseInt(s, 10, 64)
	}
	if err != nil {
		return 0, false
	}
	if neg {
		v = -v
	}
	return v, true
}

// ParseReal parses a signed decimal real literal, with optional
// fractional part and exponent, as an exact rational — no float64
// rounding is introduced at this stage.
func ParseReal(tok string) (*big.Rat, bool) {
	return new(big.Rat).SetString(tok)
}

// ParseComplexImmediate parses either complex-immediate form:
//
//	c(RE,IM)  — RE, IM are signed integers in units of 1.0
//	(re,im)   — re, im are signed reals, exactly representable in Q22.23
//
// and returns the two halves already scaled into the Q22.23 domain
// (value * 2^23), sign-extended into int64 and range-checked against the
// codec's 45-bit field width. Non-exact real literals are a hard error:
// the assembler never rounds an immediate.
func ParseComplexImmediate(tok string) (re, im int64, err error) {
	lower := strings.ToLower(tok)
	unitsForm := strings.HasPrefix(lower, "c(")

	var inner string
	switch {
	case unitsForm:
		if !strings.HasSuffix(tok, ")") {
			return 0, 0, fmt.Errorf("lex: malformed complex immediate %q", tok)
		}
		inner = tok[2 : len(tok)-1]
	case strings.HasPrefix(tok, "(") && strings.HasSuffix(tok, ")"):
		inner = tok[1 : len(tok)-1]
	default:
		return 0, 0, fmt.Errorf("lex: %q is not a complex immediate", tok)
	}

	parts := strings.SplitN(inner, ",", 2)
	if len(parts) != 2 {
		return 0, 0, fmt.Errorf("lex: complex immediate %q needs two comma-separated parts", tok)
	}
	reStr := strings.TrimSpace(parts[0])
	imStr := strings.TrimSpace(parts[1])

	if unitsForm {
		reUnits, ok := ParseInt(reStr)
		if !ok {
			return 0, 0, fmt.Errorf("lex: bad real unit %q in %q", reStr, tok)
		}
		imUnits, ok := ParseInt(imStr)
		if !ok {
			return 0, 0, fmt.Errorf("lex: bad imaginary unit %q in %q", imStr, tok)
		}
		if reUnits > codec.Imm45Max>>q2223FracBits || reUnits < codec.Imm45Min>>q2223FracBits {
			return 0, 0, fmt.Errorf("lex: real part of %q out of 45-bit range", tok)
		}
		if imUnits > codec.Imm45Max>>q2223FracBits || imUnits < codec.Imm45Min>>q2223FracBits {
			return 0, 0, fmt.Errorf("lex: imaginary part of %q out of 45-bit range", tok)
		}
		re = reUnits << q2223FracBits
		im = imUnits << q2223FracBits
	} else {
		re, err = scaleExact(reStr)
		if err != nil {
			return 0, 0, fmt.Errorf("lex: real part of %q: %w", tok, err)
		}
		im, err = scaleExact(imStr)
		if err != nil {
			return 0, 0, fmt.Errorf("lex: imaginary part of %q: %w", tok, err)
		}
	}

	if re > codec.Imm45Max || re < codec.Imm45Min {
		return 0, 0, fmt.Errorf("lex: real part of %q out of 45-bit range", tok)
	}
	if im > codec.Imm45Max || im < codec.Imm45Min {
		return 0, 0, fmt.Errorf("lex: imaginary part of %q out of 45-bit range", tok)
	}
	return re, im, nil
}

// scaleExact converts a decimal real literal to its Q22.23-scaled
// integer value, failing if the literal is not exactly representable
// (i.e. scaling by 2^23 does not land on an integer).
func scaleExact(s string) (int64, error) {
	r, ok := new(big.Rat).SetString(s)
	if !ok {
		return 0, fmt.Errorf("%q is not a real number", s)
	}
	scale := new(big.Rat).SetInt64(1 << q2223FracBits)
	r.Mul(r, scale)
	if !r.IsInt() {
		return 0, fmt.Errorf("%q is not exactly representable in Q22.23", s)
	}
	if !r.Num().IsInt64() {
		return 0, fmt.Errorf("%q is out of 45-bit range", s)
	}
	return r.Num().Int64(), nil
}

// IsIdentifier reports whether tok matches the label grammar
// [A-Za-z_][A-Za-z_0-9]*.
func IsIdentifier(tok string) bool {
	if tok == "" {
		return false
	}
	for i, r := range tok {
		switch {
		case r == '_', r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z':
		case i > 0 && r >= '0' && r <= '9':
		default:
			return false
		}
	}
	return true
}
