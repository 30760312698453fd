package asmerr

/*
 * LAPU-128 - Shared assembler/emulator error result type.
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

func TestErrorFormatsWithLine(t *testing.T) {
	e := Sem(12, "undefined label %q", "loop")
	want := `Line 12: undefined label "loop"`
	if got := e.Error(); got != want {
		t.Errorf("Error() got: %q expected: %q", got, want)
	}
}

func TestErrorFormatsWithoutLine(t *testing.T) {
	e := Run("unknown opcode %d", 7)
	want := "unknown opcode 7"
	if got := e.Error(); got != want {
		t.Errorf("Error() got: %q expected: %q", got, want)
	}
}

func TestKindString(t *testing.T) {
	cases := map[Kind]string{Lexical: "lexical", Semantic: "semantic", Runtime: "runtime"}
	for k, want := range cases {
		if got := k.String(); got != want {
			t.Errorf("Kind.String() got: %q expected: %q", got, want)
		}
	}
}
