/*
 * LAPU-128 - Instruction word encoder/decoder.
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

// Package codec packs and unpacks the 128-bit LAPU-128 instruction word.
//
// A Word holds bits 127:64 in Hi and bits 63:0 in Lo. Each opcode family
// has its own field layout below the shared 32-bit header (opcode,
// sub-opcode, flags16); Encode/Decode dispatch on the opcode byte to the
// per-family EncodeR/EncodeI/EncodeJ/EncodeS and DecodeR/DecodeI/DecodeJ/
// DecodeS functions.
package codec

import "fmt"

// Word is the 128-bit instruction word, Hi = bits 127:64, Lo = bits 63:0.
type Word struct {
	Hi, Lo uint64
}

// Opcode family tags (bits 127:120).
const (
	OpR uint8 = 1
	OpI uint8 = 2
	OpJ uint8 = 3
	OpS uint8 = 4
)

// Mapping codes for R-type flags16 bits 1:0.
const (
	MapScalarScalar uint8 = 0x0 // scalar -> scalar
	MapVectorVector uint8 = 0x1 // vector -> vector
	MapVectorScalar uint8 = 0x2 // vector -> scalar (reductions)
	MapBroadcast    uint8 = 0x3 // vector + scalar -> vector
)

// Orientation codes for S-type flags16 bit 15.
const (
	OrientRowMajor uint8 = 0
	OrientColMajor uint8 = 1
)

const (
	regMask   = 0x7  // 3-bit register field
	mbidMask  = 0xF  // 4-bit bank-id field
	subMask   = 0xFF // 8-bit sub-opcode field
	imm45Bits = 45
)

// Imm45Max and Imm45Min bound the signed 45-bit range of each Q22.23
// immediate half (used by the lexer to validate literals before encoding).
const (
	Imm45Max = 1<<44 - 1
	Imm45Min = -(1 << 44)
)

// Offs33Max and Offs33Min bound the signed 33-bit jump-offset range.
const (
	Offs33Max = 1<<32 - 1
	Offs33Min = -(1 << 32)
)

// Instruction is the tagged sum type produced by Decode and consumed by
// Encode. Concrete variants are RInstr, IInstr, JInstr and SInstr.
type Instruction interface {
	opcode() uint8
}

// RInstr is a register-to-register instruction (scalar, vector, reduction
// or broadcast, selected by Mapping).
type RInstr struct {
	Sub          uint8
	Mapping      uint8
	Rd, Rs1, Rs2 uint8
}

func (RInstr) opcode() uint8 { return OpR }

// IInstr carries a complex immediate (Q22.23, stored sign-extended as two
// Q22.23-domain int64 halves in units of 1/2^23).
type IInstr struct {
	Sub          uint8
	Rd, Rs1      uint8
	ImmRe, ImmIm int64
}

func (IInstr) opcode() uint8 { return OpI }

// JInstr is the relative jump. Rs1 is architecturally fixed to register 1
// and is not separately encoded.
type JInstr struct {
	Sub  uint8
	Offs int64
}

func (JInstr) opcode() uint8 { return OpJ }

// SInstr is a matrix load/store. Reg is the vector or scalar register
// operand (rd for loads, the source register for stores).
type SInstr struct {
	Sub         uint8
	Orientation uint8
	Reg         uint8
	MBID        uint8
	I16, J16    uint16
}

func (SInstr) opcode() uint8 { return OpS }

func header(opcode, sub uint8, flags16 uint16) Word {
	var w Word
	w.Hi = uint64(opcode)<<56 | uint64(sub)<<48 | uint64(flags16)<<32
	return w
}

func checkReg(name string, r uint8) error {
	if r&^regMask != 0 {
		return fmt.Errorf("codec: %s register %d out of 3-bit range", name, r)
	}
	return nil
}

// EncodeR packs an R-type instruction word.
func EncodeR(sub, mapping, rd, rs1, rs2 uint8) (Word, error) {
	if mapping&^0x3 != 0 {
		return Word{}, fmt.Errorf("codec: mapping code %d out of 2-bit range", mapping)
	}
	if err := checkReg("rd", rd); err != nil {
		return Word{}, err
	}
	if err := checkReg("rs1", rs1); err != nil {
		return Word{}, err
	}
	if err := checkReg("rs2", rs2); err != nil {
		return Word{}, err
	}
	w := header(OpR, sub, uint16(mapping))
	w.Hi |= uint64(rd&regMask) << 29
	w.Hi |= uint64(rs1&regMask) << 26
	w.Hi |= uint64(rs2&regMask) << 23
	return w, nil
}

// DecodeR unpacks an R-type instruction word.
func DecodeR(w Word) RInstr {
	flags16 := uint16(w.Hi >> 32)
	return RInstr{
		Sub:     uint8(w.Hi >> 48 & subMask),
		Mapping: uint8(flags16 & 0x3),
		Rd:      uint8(w.Hi >> 29 & regMask),
		Rs1:     uint8(w.Hi >> 26 & regMask),
		Rs2:     uint8(w.Hi >> 23 & regMask),
	}
}

func checkImm45(name string, v int64) error {
	if v > Imm45Max || v < Imm45Min {
		return fmt.Errorf("codec: %s value %d exceeds 45-bit signed range", name, v)
	}
	return nil
}

// EncodeI packs an I-type instruction word. immRe and immIm are the
// Q22.23 halves, each in the 45-bit signed range.
func EncodeI(sub, rd, rs1 uint8, immRe, immIm int64) (Word, error) {
	if err := checkReg("rd", rd); err != nil {
		return Word{}, err
	}
	if err := checkReg("rs1", rs1); err != nil {
		return Word{}, err
	}
	if err := checkImm45("real immediate", immRe); err != nil {
		return Word{}, err
	}
	if err := checkImm45("imaginary immediate", immIm); err != nil {
		return Word{}, err
	}
	w := header(OpI, sub, 0)
	w.Hi |= uint64(rd&regMask) << 29
	w.Hi |= uint64(rs1&regMask) << 26

	reRaw := uint64(immRe) & (1<<imm45Bits - 1)
	imRaw := uint64(immIm) & (1<<imm45Bits - 1)

	w.Lo = reRaw // bits 44:0 of Lo carry the real half verbatim.
	w.Hi |= imRaw >> 19 // top 26 bits of the imaginary half (global 89:64).
	w.Lo |= (imRaw & 0x7FFFF) << 45 // low 19 bits of the imaginary half (global 63:45).
	return w, nil
}

func signExtend(v uint64, bits uint) int64 {
	shift := 64 - bits
	return int64(v<<shift) >> shift
}

// DecodeI unpacks an I-type instruction word.
func DecodeI(w Word) IInstr {
	reRaw := w.Lo & (1<<imm45Bits - 1)
	imRaw := (w.Hi&(1<<26-1))<<19 | (w.Lo>>45)&0x7FFFF
	return IInstr{
		Sub:   uint8(w.Hi >> 48 & subMask),
		Rd:    uint8(w.Hi >> 29 & regMask),
		Rs1:   uint8(w.Hi >> 26 & regMask),
		ImmRe: signExtend(reRaw, imm45Bits),
		ImmIm: signExtend(imRaw, imm45Bits),
	}
}

// EncodeJ packs a J-type instruction word. offs is signed, 33-bit range,
// measured in instruction units relative to the jump instruction's own pc.
func EncodeJ(sub uint8, offs int64) (Word, error) {
	if offs > Offs33Max || offs < Offs33Min {
		return Word{}, fmt.Errorf("codec: jump offset %d exceeds 33-bit signed range", offs)
	}
	w := header(OpJ, sub, 0)
	raw := uint64(offs) & (1<<33 - 1)
	w.Hi |= raw >> 4     // top 29 bits (global 92:64).
	w.Lo |= (raw & 0xF) << 60 // low 4 bits (global 63:60).
	return w, nil
}

// DecodeJ unpacks a J-type instruction word.
func DecodeJ(w Word) JInstr {
	raw := (w.Hi&(1<<29-1))<<4 | (w.Lo>>60)&0xF
	return JInstr{
		Sub:  uint8(w.Hi >> 48 & subMask),
		Offs: signExtend(raw, 33),
	}
}

// EncodeS packs an S-type instruction word.
func EncodeS(sub, orientation, reg, mbid uint8, i16, j16 uint16) (Word, error) {
	if orientation&^0x1 != 0 {
		return Word{}, fmt.Errorf("codec: orientation %d out of 1-bit range", orientation)
	}
	if err := checkReg("reg", reg); err != nil {
		return Word{}, err
	}
	if mbid&^mbidMask != 0 {
		return Word{}, fmt.Errorf("codec: bank id %d out of 4-bit range", mbid)
	}
	flags16 := uint16(orientation) << 15
	w := header(OpS, sub, flags16)
	w.Hi |= uint64(reg&regMask) << 29
	w.Hi |= uint64(mbid&mbidMask) << 25
	w.Hi |= uint64(i16) << 9
	w.Hi |= uint64(j16) >> 7
	w.Lo |= (uint64(j16) & 0x7F) << 57
	return w, nil
}

// DecodeS unpacks an S-type instruction word.
func DecodeS(w Word) SInstr {
	flags16 := uint16(w.Hi >> 32)
	i16 := uint16(w.Hi >> 9 & 0xFFFF)
	j16 := uint16((w.Hi&0x1FF)<<7 | (w.Lo>>57)&0x7F)
	return SInstr{
		Sub:         uint8(w.Hi >> 48 & subMask),
		Orientation: uint8(flags16 >> 15 & 0x1),
		Reg:         uint8(w.Hi >> 29 & regMask),
		MBID:        uint8(w.Hi >> 25 & mbidMask),
		I16:         i16,
		J16:         j16,
	}
}

// Encode dispatches on the concrete Instruction variant.
func Encode(instr Instruction) (Word, error) {
	switch v := instr.(type) {
	case RInstr:
		return EncodeR(v.Sub, v.Mapping, v.Rd, v.Rs1, v.Rs2)
	case IInstr:
		return EncodeI(v.Sub, v.Rd, v.Rs1, v.ImmRe, v.ImmIm)
	case JInstr:
		return EncodeJ(v.Sub, v.Offs)
	case SInstr:
		return EncodeS(v.Sub, v.Orientation, v.Reg, v.MBID, v.I16, v.J16)
	default:
		return Word{}, fmt.Errorf("codec: unknown instruction variant %T", instr)
	}
}

// Decode unpacks a Word into its tagged Instruction variant, dispatching
// on the opcode byte (bits 127:120).
func Decode(w Word) (Instruction, error) {
	switch uint8(w.Hi >> 56) {
	case OpR:
		return DecodeR(w), nil
	case OpI:
		return DecodeI(w), nil
	case OpJ:
		return DecodeJ(w), nil
	case OpS:
		return DecodeS(w), nil
	default:
		return nil, fmt.Errorf("codec: unknown opcode %d", uint8(w.Hi>>56))
	}
}
