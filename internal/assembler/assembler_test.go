package assembler

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

import (
	"testing"

	"github.com/PanScout/LAPU/internal/codec"
)

func TestAssembleScalarMultiply(t *testing.T) {
	src := "cloadi s1, c(2,0)\ncloadi s2, c(3,0)\ncmul s3, s1, s2\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("got %d words, expected 3", len(words))
	}
	instr, err := codec.Decode(words[2])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	r, ok := instr.(codec.RInstr)
	if !ok {
		t.Fatalf("expected RInstr, got %T", instr)
	}
	if r.Sub != 0x0A || r.Rd != 3 || r.Rs1 != 1 || r.Rs2 != 2 {
		t.Errorf("cmul decoded wrong: %+v", r)
	}
}

func TestAssembleVectorBroadcastAdd(t *testing.T) {
	src := "vsadd v2, v1, s3\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	instr, err := codec.Decode(words[0])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	r := instr.(codec.RInstr)
	if r.Mapping != codec.MapBroadcast || r.Sub != 0x18 {
		t.Errorf("vsadd decoded wrong: %+v", r)
	}
}

func TestAssembleRejectsWriteToZeroRegister(t *testing.T) {
	src := "cneg s0, s1\n"
	if _, err := Assemble(src); err == nil {
		t.Errorf("expected error writing to s0, got none")
	}
}

func TestAssembleRejectsRegisterClassMismatch(t *testing.T) {
	src := "cadd s1, v2, s3\n"
	if _, err := Assemble(src); err == nil {
		t.Errorf("expected error mixing vector operand into scalar op, got none")
	}
}

func TestAssembleLabelOnOwnLine(t *testing.T) {
	src := "loop:\njrel loop\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	j, err := codec.Decode(words[0])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	jr := j.(codec.JInstr)
	if jr.Offs != 0 {
		t.Errorf("jrel loop got offs %d, expected 0 (self-relative)", jr.Offs)
	}
}

func TestAssembleLabelSharesLineWithInstruction(t *testing.T) {
	src := "cloadi s1, c(1,0)\nloop: cadd s2, s1, s1\njrel loop\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 3 {
		t.Fatalf("got %d words, expected 3", len(words))
	}
	j, err := codec.Decode(words[2])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	jr := j.(codec.JInstr)
	if jr.Offs != -1 {
		t.Errorf("jrel loop got offs %d, expected -1", jr.Offs)
	}
}

func TestAssembleDuplicateLabelFails(t *testing.T) {
	src := "loop:\ncneg s1, s1\nloop:\ncneg s1, s1\n"
	if _, err := Assemble(src); err == nil {
		t.Errorf("expected duplicate label error, got none")
	}
}

func TestAssembleUndefinedLabelFails(t *testing.T) {
	src := "jrel nowhere\n"
	if _, err := Assemble(src); err == nil {
		t.Errorf("expected undefined label error, got none")
	}
}

func TestAssembleOrgDirective(t *testing.T) {
	src := "ORG 4\ncneg s1, s1\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 1 {
		t.Fatalf("got %d words, expected 1", len(words))
	}
}

func TestAssembleMultiInstructionLine(t *testing.T) {
	src := "cloadi s2, c(1,0) cmul s4, s2, s3\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 2 {
		t.Fatalf("got %d words, expected 2 from one multi-instruction line", len(words))
	}
}

func TestAssembleMatrixStoreLoad(t *testing.T) {
	src := "vst v1, mb0, 0, 0\nvld v2, mb0, 0, 0\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	st, err := codec.Decode(words[0])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	s := st.(codec.SInstr)
	if s.Sub != 0x01 || s.Reg != 1 || s.MBID != 0 {
		t.Errorf("vst decoded wrong: %+v", s)
	}
}

func TestAssembleIamaxUnary(t *testing.T) {
	src := "iamax s1, v2\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	instr, err := codec.Decode(words[0])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	r := instr.(codec.RInstr)
	if r.Sub != 0x02 || r.Mapping != codec.MapVectorScalar {
		t.Errorf("iamax decoded wrong: %+v", r)
	}
}

func TestAssembleScalarLoadStoreXY(t *testing.T) {
	src := "sld.xy s1, mb0, 3, 5\nsst.xy s1, mb0, 3, 5\n"
	words, err := Assemble(src)
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	ld, err := codec.Decode(words[0])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	s := ld.(codec.SInstr)
	if s.Sub != 0x02 || s.Reg != 1 || s.MBID != 0 || s.I16 != 3 || s.J16 != 5 {
		t.Errorf("sld.xy decoded wrong: %+v", s)
	}
	st, err := codec.Decode(words[1])
	if err != nil {
		t.Fatalf("Decode failed: %v", err)
	}
	s = st.(codec.SInstr)
	if s.Sub != 0x03 || s.Reg != 1 || s.MBID != 0 || s.I16 != 3 || s.J16 != 5 {
		t.Errorf("sst.xy decoded wrong: %+v", s)
	}
}

func TestAssembleBadBankIDRejected(t *testing.T) {
	src := "vld v1, mb4, 0, 0\n"
	if _, err := Assemble(src); err == nil {
		t.Errorf("expected error for out-of-range bank id, got none")
	}
}

func TestAssembleEmptyProgram(t *testing.T) {
	words, err := Assemble("; just a comment\n\n")
	if err != nil {
		t.Fatalf("Assemble failed: %v", err)
	}
	if len(words) != 0 {
		t.Errorf("got %d words, expected 0", len(words))
	}
}
