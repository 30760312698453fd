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

// Package asmerr is the single error result type shared by the assembler
// and the emulator: every fallible entry point returns one of these
// instead of an ad hoc error string, so the CLI layer can print and exit
// uniformly.
package asmerr

import "fmt"

// Kind classifies where in the pipeline an Error originated.
type Kind int

const (
	// Lexical marks a malformed token: a bad register, an unparseable
	// literal, or similar.
	Lexical Kind = iota
	// Semantic marks a structurally valid but architecturally invalid
	// program: wrong operand class, write to a reserved register, an
	// out-of-range immediate, a duplicate or unknown label.
	Semantic
	// Runtime marks a failure during emulation: unknown opcode, matrix
	// index out of range.
	Runtime
)

func (k Kind) String() string {
	switch k {
	case Lexical:
		return "lexical"
	case Semantic:
		return "semantic"
	case Runtime:
		return "runtime"
	default:
		return "unknown"
	}
}

// Error is the {kind, line, message} result carried by every assembler
// and emulator entry point. Line is 1-based; zero means no source line
// applies (e.g. a runtime error during emulation has no assembly line).
type Error struct {
	Kind Kind
	Line int
	Msg  string
}

func (e *Error) Error() string {
	if e.Line > 0 {
		return fmt.Sprintf("Line %d: %s", e.Line, e.Msg)
	}
	return e.Msg
}

// New builds an Error of the given kind at the given source line.
func New(kind Kind, line int, format string, args ...any) *Error {
	return &Error{Kind: kind, Line: line, Msg: fmt.Sprintf(format, args...)}
}

// Lex builds a Lexical error at line.
func Lex(line int, format string, args ...any) *Error {
	return New(Lexical, line, format, args...)
}

// Sem builds a Semantic error at line.
func Sem(line int, format string, args ...any) *Error {
	return New(Semantic, line, format, args...)
}

// Run builds a Runtime error with no source line (execution-time failure).
func Run(format string, args ...any) *Error {
	return New(Runtime, 0, format, args...)
}
