package hexword

/*
 * LAPU-128 - 128-bit word hex/binary formatting.
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

func TestFormatParseRoundTrip(t *testing.T) {
	w := codec.Word{Hi: 0x0102030405060708, Lo: 0x090A0B0C0D0E0F10}
	line := FormatWord(w)
	if len(line) != 32 {
		t.Fatalf("FormatWord produced %d digits, want 32", len(line))
	}
	got, err := ParseWord(line)
	if err != nil {
		t.Fatalf("ParseWord failed: %v", err)
	}
	if got != w {
		t.Errorf("round trip got: %+v expected: %+v", got, w)
	}
}

func TestFormatWordIsUppercase(t *testing.T) {
	w := codec.Word{Hi: 0xabcdef0000000000, Lo: 0}
	line := FormatWord(w)
	want := "ABCDEF0000000000" + "0000000000000000"
	if line != want {
		t.Errorf("FormatWord got: %q expected: %q", line, want)
	}
}

func TestParseWordRejectsWrongLength(t *testing.T) {
	if _, err := ParseWord("ABCD"); err == nil {
		t.Errorf("expected error for short line")
	}
}

func TestParseWordRejectsBadDigit(t *testing.T) {
	bad := "GGGGGGGGGGGGGGGGGGGGGGGGGGGGGGGG"
	if _, err := ParseWord(bad); err == nil {
		t.Errorf("expected error for invalid hex digit")
	}
}

func TestParseLinesSkipsBlankLines(t *testing.T) {
	a := codec.Word{Hi: 1, Lo: 2}
	b := codec.Word{Hi: 3, Lo: 4}
	text := FormatWord(a) + "\n\n" + FormatWord(b) + "\n"
	words, err := ParseLines(text)
	if err != nil {
		t.Fatalf("ParseLines failed: %v", err)
	}
	if len(words) != 2 || words[0] != a || words[1] != b {
		t.Errorf("ParseLines = %+v, want [%+v %+v]", words, a, b)
	}
}

func TestParseLinesRejectsBadLine(t *testing.T) {
	if _, err := ParseLines("not hex\n"); err == nil {
		t.Errorf("expected error for malformed line")
	}
}

func TestWriteBinaryLittleEndian(t *testing.T) {
	w := codec.Word{Hi: 0x0102030405060708, Lo: 0x090A0B0C0D0E0F10}
	b := WriteBinary([]codec.Word{w})
	if len(b) != 16 {
		t.Fatalf("got %d bytes, want 16", len(b))
	}
	if b[0] != 0x10 || b[15] != 0x01 {
		t.Errorf("WriteBinary not little-endian: %x", b)
	}
}
