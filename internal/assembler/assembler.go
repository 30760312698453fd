/*
 * LAPU-128 - Two-pass assembler.
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

// Package assembler is the two-pass LAPU-128 assembler: pass 1 resolves
// labels and an optional ORG directive into instruction indices, pass 2
// encodes each instruction chunk via codec, using lex for tokens and
// literal classification.
package assembler

import (
	"strings"

	"github.com/PanScout/LAPU/internal/asmerr"
	"github.com/PanScout/LAPU/internal/codec"
	"github.com/PanScout/LAPU/internal/lex"
)

// encodeFunc encodes one instruction chunk's operand tokens (mnemonic
// already consumed) into a Word. pc is the chunk's own instruction index;
// labels is the immutable label map built in pass 1.
type encodeFunc func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error)

type instrChunk struct {
	Line   int
	PC     int
	Tokens []string // Tokens[0] is the mnemonic, Tokens[1:] are operands.
}

// Assemble runs both passes over src and returns the encoded program.
func Assemble(src string) ([]codec.Word, error) {
	lines := strings.Split(src, "\n")
	labels, chunks, err := pass1(lines)
	if err != nil {
		return nil, err
	}
	return pass2(chunks, labels)
}

func pass1(lines []string) (map[string]int, []instrChunk, error) {
	labels := map[string]int{}
	var chunks []instrChunk
	pc := 0

	for i, raw := range lines {
		lineNo := i + 1
		stripped := strings.TrimSpace(lex.StripComment(raw))
		if stripped == "" {
			continue
		}
		tokens := lex.Tokenize(stripped)

		for len(tokens) > 0 && strings.HasSuffix(tokens[0], ":") {
			label := strings.TrimSuffix(tokens[0], ":")
			if !lex.IsIdentifier(label) {
				return nil, nil, asmerr.Lex(lineNo, "invalid label %q", label)
			}
			if _, exists := labels[label]; exists {
				return nil, nil, asmerr.Sem(lineNo, "duplicate label %q", label)
			}
			labels[label] = pc
			tokens = tokens[1:]
		}
		if len(tokens) == 0 {
			continue
		}

		if strings.EqualFold(tokens[0], "ORG") {
			if len(tokens) != 2 {
				return nil, nil, asmerr.Sem(lineNo, "ORG requires exactly one operand")
			}
			n, ok := lex.ParseInt(tokens[1])
			if !ok || n < 0 {
				return nil, nil, asmerr.Sem(lineNo, "ORG operand %q is not a non-negative integer", tokens[1])
			}
			pc = int(n)
			continue
		}

		lineChunks, err := splitChunks(tokens, lineNo)
		if err != nil {
			return nil, nil, err
		}
		for _, toks := range lineChunks {
			chunks = append(chunks, instrChunk{Line: lineNo, PC: pc, Tokens: toks})
			pc++
		}
	}
	return labels, chunks, nil
}

// splitChunks breaks a line's token stream into one chunk per recognized
// mnemonic, so that "cloadi s2, c(1,0) cmul s4, s2, s3" becomes two chunks.
func splitChunks(tokens []string, line int) ([][]string, error) {
	var result [][]string
	var cur []string
	for _, tok := range tokens {
		if _, ok := mnemonics[strings.ToLower(tok)]; ok {
			if cur != nil {
				result = append(result, cur)
			}
			cur = []string{tok}
			continue
		}
		if cur == nil {
			return nil, asmerr.Lex(line, "expected a mnemonic, got %q", tok)
		}
		cur = append(cur, tok)
	}
	if cur != nil {
		result = append(result, cur)
	}
	if len(result) == 0 {
		return nil, asmerr.Lex(line, "empty instruction line")
	}
	return result, nil
}

func pass2(chunks []instrChunk, labels map[string]int) ([]codec.Word, error) {
	words := make([]codec.Word, len(chunks))
	for i, c := range chunks {
		enc := mnemonics[strings.ToLower(c.Tokens[0])]
		w, err := enc(c.Tokens[1:], c.Line, c.PC, labels)
		if err != nil {
			return nil, err
		}
		words[i] = w
	}
	return words, nil
}

func wrapCodecErr(line int, err error) error {
	if err == nil {
		return nil
	}
	return asmerr.Sem(line, "%v", err)
}

func parseReg(class lex.RegClass, tok string, line int, isDest bool) (uint8, error) {
	want := "scalar"
	zeroName := "s0"
	if class == lex.RegVector {
		want, zeroName = "vector", "v0"
	}
	c, idx, ok := lex.ParseRegister(tok)
	if !ok {
		return 0, asmerr.Lex(line, "expected %s register, got %q", want, tok)
	}
	if c != class {
		got := "scalar"
		if c == lex.RegVector {
			got = "vector"
		}
		return 0, asmerr.Sem(line, "expected %s register, got %s register %q", want, got, tok)
	}
	if isDest && idx == 0 {
		return 0, asmerr.Sem(line, "write to reserved register %s is not permitted", zeroName)
	}
	return uint8(idx), nil
}

func parseScalarDest(tok string, line int) (uint8, error) { return parseReg(lex.RegScalar, tok, line, true) }
func parseScalarSrc(tok string, line int) (uint8, error)  { return parseReg(lex.RegScalar, tok, line, false) }
func parseVectorDest(tok string, line int) (uint8, error) { return parseReg(lex.RegVector, tok, line, true) }
func parseVectorSrc(tok string, line int) (uint8, error)  { return parseReg(lex.RegVector, tok, line, false) }

func parseU16(tok string, line int) (uint16, error) {
	n, ok := lex.ParseInt(tok)
	if !ok || n < 0 || n > 0xFFFF {
		return 0, asmerr.Sem(line, "value %q out of 16-bit unsigned range", tok)
	}
	return uint16(n), nil
}

func mustEncodeR(sub, mapping, rd, rs1, rs2 uint8, line int) (codec.Word, error) {
	w, err := codec.EncodeR(sub, mapping, rd, rs1, rs2)
	return w, wrapCodecErr(line, err)
}

func expectOperands(tokens []string, n int, line int) error {
	if len(tokens) != n {
		return asmerr.Lex(line, "expected %d operand(s), got %d", n, len(tokens))
	}
	return nil
}

// rUnary handles "sD, sA" scalar unary ops (mapping 00).
func rUnary(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 2, line); err != nil {
			return codec.Word{}, err
		}
		sd, err := parseScalarDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		sa, err := parseScalarSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapScalarScalar, sd, sa, 0, line)
	}
}

// rBinary handles "sD, sA, sB" scalar binary ops (mapping 00).
func rBinary(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 3, line); err != nil {
			return codec.Word{}, err
		}
		sd, err := parseScalarDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		sa, err := parseScalarSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		sb, err := parseScalarSrc(tokens[2], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapScalarScalar, sd, sa, sb, line)
	}
}

// rVectorLane handles "vD, vA, vB" per-lane vector ops (mapping 01),
// including vmac whose read-before-write accumulation is an EMU concern.
func rVectorLane(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 3, line); err != nil {
			return codec.Word{}, err
		}
		vd, err := parseVectorDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		va, err := parseVectorSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		vb, err := parseVectorSrc(tokens[2], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapVectorVector, vd, va, vb, line)
	}
}

// rVectorUnary handles "vD, vA" (mapping 01).
func rVectorUnary(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 2, line); err != nil {
			return codec.Word{}, err
		}
		vd, err := parseVectorDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		va, err := parseVectorSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapVectorVector, vd, va, 0, line)
	}
}

// rReduction handles "sD, vA, vB" reductions (mapping 10).
func rReduction(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 3, line); err != nil {
			return codec.Word{}, err
		}
		sd, err := parseScalarDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		va, err := parseVectorSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		vb, err := parseVectorSrc(tokens[2], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapVectorScalar, sd, va, vb, line)
	}
}

// rReductionUnary handles "sD, vA" (iamax, sum — mapping 10).
func rReductionUnary(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 2, line); err != nil {
			return codec.Word{}, err
		}
		sd, err := parseScalarDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		va, err := parseVectorSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapVectorScalar, sd, va, 0, line)
	}
}

// rBroadcast handles "vD, vA, sB" (mapping 11).
func rBroadcast(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 3, line); err != nil {
			return codec.Word{}, err
		}
		vd, err := parseVectorDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		va, err := parseVectorSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		sb, err := parseScalarSrc(tokens[2], line)
		if err != nil {
			return codec.Word{}, err
		}
		return mustEncodeR(sub, codec.MapBroadcast, vd, va, sb, line)
	}
}

// encodeCloadi handles "sD, cIMM".
func encodeCloadi(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
	if err := expectOperands(tokens, 2, line); err != nil {
		return codec.Word{}, err
	}
	rd, err := parseScalarDest(tokens[0], line)
	if err != nil {
		return codec.Word{}, err
	}
	re, im, err := lex.ParseComplexImmediate(tokens[1])
	if err != nil {
		return codec.Word{}, asmerr.Sem(line, "%v", err)
	}
	w, err := codec.EncodeI(0x00, rd, 0, re, im)
	return w, wrapCodecErr(line, err)
}

// cArithI handles "sD, sA, cIMM".
func cArithI(sub uint8) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 3, line); err != nil {
			return codec.Word{}, err
		}
		rd, err := parseScalarDest(tokens[0], line)
		if err != nil {
			return codec.Word{}, err
		}
		rs1, err := parseScalarSrc(tokens[1], line)
		if err != nil {
			return codec.Word{}, err
		}
		re, im, err := lex.ParseComplexImmediate(tokens[2])
		if err != nil {
			return codec.Word{}, asmerr.Sem(line, "%v", err)
		}
		w, err := codec.EncodeI(sub, rd, rs1, re, im)
		return w, wrapCodecErr(line, err)
	}
}

// encodeJrel handles "label|offset"; rs1 is architecturally fixed to s1.
func encodeJrel(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
	if err := expectOperands(tokens, 1, line); err != nil {
		return codec.Word{}, err
	}
	var offs int64
	if lex.IsIdentifier(tokens[0]) {
		target, ok := labels[tokens[0]]
		if !ok {
			return codec.Word{}, asmerr.Sem(line, "undefined label %q", tokens[0])
		}
		offs = int64(target - pc)
	} else {
		n, ok := lex.ParseInt(tokens[0])
		if !ok {
			return codec.Word{}, asmerr.Lex(line, "invalid jump target %q", tokens[0])
		}
		offs = n
	}
	w, err := codec.EncodeJ(0x00, offs)
	return w, wrapCodecErr(line, err)
}

// sVector handles "vX, mbid, i16, j16" for vld/vst.
func sVector(sub, orient uint8, isLoad bool) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 4, line); err != nil {
			return codec.Word{}, err
		}
		var reg uint8
		var err error
		if isLoad {
			reg, err = parseVectorDest(tokens[0], line)
		} else {
			reg, err = parseVectorSrc(tokens[0], line)
		}
		if err != nil {
			return codec.Word{}, err
		}
		mbid, ok := lex.ParseBankID(tokens[1])
		if !ok {
			return codec.Word{}, asmerr.Sem(line, "invalid bank id %q", tokens[1])
		}
		i16, err := parseU16(tokens[2], line)
		if err != nil {
			return codec.Word{}, err
		}
		j16, err := parseU16(tokens[3], line)
		if err != nil {
			return codec.Word{}, err
		}
		w, err := codec.EncodeS(sub, orient, reg, uint8(mbid), i16, j16)
		return w, wrapCodecErr(line, err)
	}
}

// sScalar handles "sD, mbid, x, y" for sld.xy/sst.xy. sst.xy from s0 is
// permitted (it stores zero); sld.xy into s0 is rejected.
func sScalar(sub uint8, isLoad bool) encodeFunc {
	return func(tokens []string, line, pc int, labels map[string]int) (codec.Word, error) {
		if err := expectOperands(tokens, 4, line); err != nil {
			return codec.Word{}, err
		}
		var reg uint8
		var err error
		if isLoad {
			reg, err = parseScalarDest(tokens[0], line)
		} else {
			reg, err = parseScalarSrc(tokens[0], line)
		}
		if err != nil {
			return codec.Word{}, err
		}
		mbid, ok := lex.ParseBankID(tokens[1])
		if !ok {
			return codec.Word{}, asmerr.Sem(line, "invalid bank id %q", tokens[1])
		}
		x, err := parseU16(tokens[2], line)
		if err != nil {
			return codec.Word{}, err
		}
		y, err := parseU16(tokens[3], line)
		if err != nil {
			return codec.Word{}, err
		}
		w, err := codec.EncodeS(sub, codec.OrientRowMajor, reg, uint8(mbid), x, y)
		return w, wrapCodecErr(line, err)
	}
}

// mnemonics is the single dispatch table driving both splitChunks'
// mnemonic recognition and pass2's encoding, mirroring the teacher's
// opMap table-of-opcode-metadata pattern.
var mnemonics = map[string]encodeFunc{
	"cneg":   rUnary(0x00),
	"conj":   rUnary(0x01),
	"csqrt":  rUnary(0x02),
	"cabs2":  rUnary(0x03),
	"cabs":   rUnary(0x04),
	"creal":  rUnary(0x05),
	"cimag":  rUnary(0x06),
	"crecip": rUnary(0x07),

	"cadd":     rBinary(0x08),
	"csub":     rBinary(0x09),
	"cmul":     rBinary(0x0A),
	"cdiv":     rBinary(0x0B),
	"cmaxabs":  rBinary(0x0C),
	"cminabs":  rBinary(0x0D),
	"cmplt.re": rBinary(0x0E),
	"cmpgt.re": rBinary(0x0F),
	"cmple.re": rBinary(0x10),

	"vadd": rVectorLane(0x00),
	"vsub": rVectorLane(0x01),
	"vmul": rVectorLane(0x02),
	"vmac": rVectorLane(0x03),
	"vdiv": rVectorLane(0x04),

	"vconj": rVectorUnary(0x05),

	"dotc":  rReduction(0x00),
	"dotu":  rReduction(0x01),
	"iamax": rReductionUnary(0x02),
	"sum":   rReductionUnary(0x03),
	"asum":  rReductionUnary(0x04),

	"vsadd": rBroadcast(0x18),
	"vssub": rBroadcast(0x19),
	"vsmul": rBroadcast(0x1A),
	"vsdiv": rBroadcast(0x1B),

	"cloadi":    encodeCloadi,
	"cadd_i":    cArithI(0x01),
	"csub_i":    cArithI(0x02),
	"cmul_i":    cArithI(0x03),
	"cdiv_i":    cArithI(0x04),
	"cmaxabs_i": cArithI(0x05),
	"cminabs_i": cArithI(0x06),

	"jrel": encodeJrel,

	"vld":    sVector(0x00, codec.OrientRowMajor, true),
	"vld.rm": sVector(0x00, codec.OrientRowMajor, true),
	"vld.cm": sVector(0x00, codec.OrientColMajor, true),
	"vst":    sVector(0x01, codec.OrientRowMajor, false),
	"vst.rm": sVector(0x01, codec.OrientRowMajor, false),
	"vst.cm": sVector(0x01, codec.OrientColMajor, false),

	"sld.xy": sScalar(0x02, true),
	"sst.xy": sScalar(0x03, false),
}
