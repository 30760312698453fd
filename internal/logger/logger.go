/*
 * LAPU-128 - slog.Handler writing to stderr and an optional log file.
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

// Package logger provides a slog.Handler that duplicates records to an
// optional log file and to stderr, with stderr gated by a debug flag
// so that a non-debug run only sees warnings and errors there.
package logger

import (
	"context"
	"io"
	"log/slog"
	"sync"
)

// Handler writes every record to file (if non-nil) and mirrors records
// at or above slog.LevelWarn, or all records when debug is true, to
// stderr. A single mutex guards both writers so interleaved goroutines
// never tear a record in half.
type Handler struct {
	file  io.Writer
	err   io.Writer
	inner slog.Handler
	mu    *sync.Mutex
	debug *bool
}

// NewHandler builds a Handler. file may be nil to disable file output.
// debug is read on every Handle call, so flipping it at runtime (e.g.
// from a REPL command) takes effect immediately.
func NewHandler(file io.Writer, errw io.Writer, opts *slog.HandlerOptions, debug *bool) *Handler {
	h := &Handler{
		file:  file,
		err:   errw,
		mu:    &sync.Mutex{},
		debug: debug,
	}
	if file != nil {
		h.inner = slog.NewTextHandler(file, opts)
	}
	return h
}

func (h *Handler) Enabled(ctx context.Context, level slog.Level) bool {
	if h.debug != nil && *h.debug {
		return true
	}
	return level >= slog.LevelInfo
}

func (h *Handler) Handle(ctx context.Context, r slog.Record) error {
	h.mu.Lock()
	defer h.mu.Unlock()

	if h.inner != nil {
		if err := h.inner.Handle(ctx, r); err != nil {
			return err
		}
	}

	showStderr := r.Level >= slog.LevelWarn
	if h.debug != nil && *h.debug {
		showStderr = true
	}
	if showStderr && h.err != nil {
		line := r.Time.Format("15:04:05") + " " + r.Level.String() + " " + r.Message + "\n"
		_, err := io.WriteString(h.err, line)
		return err
	}
	return nil
}

func (h *Handler) WithAttrs(attrs []slog.Attr) slog.Handler {
	if h.inner == nil {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithAttrs(attrs)
	return &clone
}

func (h *Handler) WithGroup(name string) slog.Handler {
	if h.inner == nil {
		return h
	}
	clone := *h
	clone.inner = h.inner.WithGroup(name)
	return &clone
}
