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

// Package hexword formats and parses the 128-bit instruction word in the
// two on-disk representations the emulator and assembler exchange: a
// 32-digit uppercase hex line, and a raw little-endian 16-byte binary word.
package hexword

import (
	"encoding/binary"
	"fmt"
	"strings"

	"github.com/PanScout/LAPU/internal/codec"
)

var hexMap = "0123456789ABCDEF"

// FormatWord renders w as 32 uppercase hex digits, big-endian (Hi then Lo).
func FormatWord(w codec.Word) string {
	var b strings.Builder
	b.Grow(32)
	writeHex64(&b, w.Hi)
	writeHex64(&b, w.Lo)
	return b.String()
}

func writeHex64(b *strings.Builder, v uint64) {
	shift := 60
	for range 16 {
		b.WriteByte(hexMap[(v>>shift)&0xf])
		shift -= 4
	}
}

// ParseWord parses a 32-digit hex line (case-insensitive, no whitespace)
// into a Word.
func ParseWord(line string) (codec.Word, error) {
	if len(line) != 32 {
		return codec.Word{}, fmt.Errorf("hexword: line has %d hex digits, want 32", len(line))
	}
	hi, err := parseHex64(line[:16])
	if err != nil {
		return codec.Word{}, err
	}
	lo, err := parseHex64(line[16:])
	if err != nil {
		return codec.Word{}, err
	}
	return codec.Word{Hi: hi, Lo: lo}, nil
}

func parseHex64(s string) (uint64, error) {
	var v uint64
	for i := 0; i < len(s); i++ {
		d, ok := hexDigit(s[i])
		if !ok {
			return 0, fmt.Errorf("hexword: invalid hex digit %q", s[i])
		}
		v = v<<4 | uint64(d)
	}
	return v, nil
}

func hexDigit(c byte) (uint8, bool) {
	switch {
	case c >= '0' && c <= '9':
		return c - '0', true
	case c >= 'A' && c <= 'F':
		return c - 'A' + 10, true
	case c >= 'a' && c <= 'f':
		return c - 'a' + 10, true
	default:
		return 0, false
	}
}

// ParseLines parses a hex file's worth of lines, skipping blank lines, into
// a program. Each surviving line must be exactly 32 hex digits.
func ParseLines(text string) ([]codec.Word, error) {
	var words []codec.Word
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" {
			continue
		}
		w, err := ParseWord(line)
		if err != nil {
			return nil, err
		}
		words = append(words, w)
	}
	return words, nil
}

// WriteBinary appends the little-endian 16-byte encoding of each word to a
// freshly allocated byte slice, with no framing.
func WriteBinary(words []codec.Word) []byte {
	out := make([]byte, 0, len(words)*16)
	var buf [16]byte
	for _, w := range words {
		binary.LittleEndian.PutUint64(buf[0:8], w.Lo)
		binary.LittleEndian.PutUint64(buf[8:16], w.Hi)
		out = append(out, buf[:]...)
	}
	return out
}
