/*
 * LAPU-128 - Assembler CLI.
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

package main

import (
	"log/slog"
	"os"
	"path/filepath"
	"strings"

	getopt "github.com/pborman/getopt/v2"

	"github.com/PanScout/LAPU/internal/assembler"
	"github.com/PanScout/LAPU/internal/hexword"
	"github.com/PanScout/LAPU/internal/logger"
)

func main() {
	optOutput := getopt.StringLong("output", 'o', "", "Output prefix (defaults to the input file's base name)")
	optBin := getopt.BoolLong("bin", 0, "Also emit prefix.bin (raw little-endian words)")
	optLog := getopt.StringLong("log", 'l', "", "Log file")
	optDebug := getopt.BoolLong("debug", 'd', "Verbose logging to stderr")
	optHelp := getopt.BoolLong("help", 'h', "Help")
	getopt.Parse()

	if *optHelp {
		getopt.Usage()
		os.Exit(0)
	}

	args := getopt.Args()
	if len(args) != 1 {
		getopt.Usage()
		os.Exit(1)
	}
	input := args[0]

	var file *os.File
	if *optLog != "" {
		var err error
		file, err = os.Create(*optLog)
		if err != nil {
			os.Stderr.WriteString("lapu-as: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	debug := *optDebug
	handler := logger.NewHandler(file, os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}, &debug)
	log := slog.New(handler)
	slog.SetDefault(log)

	source, err := os.ReadFile(input)
	if err != nil {
		log.Error("reading source failed", "file", input, "error", err)
		os.Exit(1)
	}

	log.Info("assembling", "file", input)
	words, err := assembler.Assemble(string(source))
	if err != nil {
		log.Error("assembly failed", "error", err)
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log.Info("assembled", "instructions", len(words))

	prefix := *optOutput
	if prefix == "" {
		base := filepath.Base(input)
		prefix = strings.TrimSuffix(base, filepath.Ext(base))
	}

	var b strings.Builder
	for _, w := range words {
		b.WriteString(hexword.FormatWord(w))
		b.WriteByte('\n')
	}
	if err := os.WriteFile(prefix+".hex", []byte(b.String()), 0o644); err != nil {
		log.Error("writing hex output failed", "error", err)
		os.Exit(1)
	}

	if *optBin {
		if err := os.WriteFile(prefix+".bin", hexword.WriteBinary(words), 0o644); err != nil {
			log.Error("writing binary output failed", "error", err)
			os.Exit(1)
		}
	}
}
