package codec

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

import "testing"

func TestEncodeDecodeR(t *testing.T) {
	w, err := EncodeR(0x08, MapScalarScalar, 4, 2, 3)
	if err != nil {
		t.Fatalf("EncodeR failed: %v", err)
	}
	if uint8(w.Hi>>56) != OpR {
		t.Errorf("opcode got: %d expected: %d", uint8(w.Hi>>56), OpR)
	}
	r := DecodeR(w)
	want := RInstr{Sub: 0x08, Mapping: MapScalarScalar, Rd: 4, Rs1: 2, Rs2: 3}
	if r != want {
		t.Errorf("DecodeR got: %+v expected: %+v", r, want)
	}
}

func TestEncodeRRejectsBadRegister(t *testing.T) {
	if _, err := EncodeR(0, 0, 8, 0, 0); err == nil {
		t.Errorf("EncodeR with rd=8 did not fail")
	}
}

func TestEncodeDecodeI(t *testing.T) {
	w, err := EncodeI(0x00, 5, 0, 1<<23, -(1 << 22))
	if err != nil {
		t.Fatalf("EncodeI failed: %v", err)
	}
	i := DecodeI(w)
	if i.Rd != 5 || i.ImmRe != 1<<23 || i.ImmIm != -(1<<22) {
		t.Errorf("DecodeI got: %+v", i)
	}
}

func TestEncodeINegativeBoth(t *testing.T) {
	w, err := EncodeI(0x01, 3, 2, -1, -2)
	if err != nil {
		t.Fatalf("EncodeI failed: %v", err)
	}
	i := DecodeI(w)
	if i.ImmRe != -1 || i.ImmIm != -2 {
		t.Errorf("DecodeI sign-extension got: re=%d im=%d expected: re=-1 im=-2", i.ImmRe, i.ImmIm)
	}
}

func TestEncodeIRejectsOutOfRange(t *testing.T) {
	if _, err := EncodeI(0, 1, 0, 1<<44, 0); err == nil {
		t.Errorf("EncodeI with overflowing real immediate did not fail")
	}
}

func TestEncodeDecodeJ(t *testing.T) {
	for _, offs := range []int64{0, 1, -1, 100, -100, Offs33Max, Offs33Min} {
		w, err := EncodeJ(0x00, offs)
		if err != nil {
			t.Fatalf("EncodeJ(%d) failed: %v", offs, err)
		}
		j := DecodeJ(w)
		if j.Offs != offs {
			t.Errorf("DecodeJ got: %d expected: %d", j.Offs, offs)
		}
	}
}

func TestEncodeJRejectsOutOfRange(t *testing.T) {
	if _, err := EncodeJ(0, Offs33Max+1); err == nil {
		t.Errorf("EncodeJ with overflowing offset did not fail")
	}
}

func TestEncodeDecodeS(t *testing.T) {
	w, err := EncodeS(0x00, OrientColMajor, 6, 3, 1234, 5678)
	if err != nil {
		t.Fatalf("EncodeS failed: %v", err)
	}
	s := DecodeS(w)
	want := SInstr{Sub: 0x00, Orientation: OrientColMajor, Reg: 6, MBID: 3, I16: 1234, J16: 5678}
	if s != want {
		t.Errorf("DecodeS got: %+v expected: %+v", s, want)
	}
}

func TestEncodeSReservedBitsZero(t *testing.T) {
	w, err := EncodeS(0x00, OrientRowMajor, 0, 0, 0xFFFF, 0xFFFF)
	if err != nil {
		t.Fatalf("EncodeS failed: %v", err)
	}
	// bits 56:41 (len16) must stay zero regardless of i16/j16 contents.
	if reserved := w.Lo >> 41 & 0xFFFF; reserved != 0 {
		t.Errorf("len16 reserved field not zero, got: %#x", reserved)
	}
	if low := w.Lo & (1<<41 - 1); low != 0 {
		t.Errorf("low reserved bits not zero, got: %#x", low)
	}
}

func TestDispatchEncodeDecode(t *testing.T) {
	instrs := []Instruction{
		RInstr{Sub: 0x00, Mapping: MapScalarScalar, Rd: 1, Rs1: 2},
		IInstr{Sub: 0x00, Rd: 3, ImmRe: 42, ImmIm: -7},
		JInstr{Sub: 0x00, Offs: -3},
		SInstr{Sub: 0x01, Orientation: OrientRowMajor, Reg: 2, MBID: 1, I16: 9, J16: 0},
	}
	for _, in := range instrs {
		w, err := Encode(in)
		if err != nil {
			t.Fatalf("Encode(%+v) failed: %v", in, err)
		}
		out, err := Decode(w)
		if err != nil {
			t.Fatalf("Decode failed: %v", err)
		}
		if out != in {
			t.Errorf("round trip got: %+v expected: %+v", out, in)
		}
	}
}

func TestDecodeUnknownOpcode(t *testing.T) {
	var w Word
	w.Hi = uint64(0xFF) << 56
	if _, err := Decode(w); err == nil {
		t.Errorf("Decode with unknown opcode did not fail")
	}
}
