/*
 * LAPU-128 - Emulator CLI.
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

	getopt "github.com/pborman/getopt/v2"

	"github.com/PanScout/LAPU/internal/config"
	"github.com/PanScout/LAPU/internal/hexword"
	"github.com/PanScout/LAPU/internal/logger"
	"github.com/PanScout/LAPU/internal/machine"
	"github.com/PanScout/LAPU/internal/repl"
)

func main() {
	optConfig := getopt.StringLong("config", 'c', "", "TOML machine configuration file")
	optVLEN := getopt.IntLong("vlen", 0, 0, "Vector lane count (overrides config, default 8)")
	optNMult := getopt.IntLong("n-mult", 0, 0, "Matrix dimension multiplier (overrides config, default 2)")
	optMaxSteps := getopt.IntLong("max-steps", 0, 0, "Step ceiling (overrides config, default 10000)")
	optPredicateImag := getopt.BoolLong("predicate-imag", 0, "jrel predicate also tests the imaginary part")
	optPPMatrix := getopt.BoolLong("pp-matrix", 0, "Print a bank-0 window after each step")
	optPPRows := getopt.IntLong("pp-rows", 0, 0, "Matrix window row count (overrides config, default 8)")
	optPPCols := getopt.IntLong("pp-cols", 0, 0, "Matrix window column count (overrides config, default 8)")
	optInteractive := getopt.BoolLong("interactive", 'i', "Drop into a step-by-step REPL instead of batch execution")
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
	hexfile := args[0]

	var file *os.File
	if *optLog != "" {
		var err error
		file, err = os.Create(*optLog)
		if err != nil {
			os.Stderr.WriteString("lapu-emu: " + err.Error() + "\n")
			os.Exit(1)
		}
	}
	debug := *optDebug
	handler := logger.NewHandler(file, os.Stderr, &slog.HandlerOptions{Level: slog.LevelDebug}, &debug)
	log := slog.New(handler)
	slog.SetDefault(log)

	cfg, err := config.LoadFrom(*optConfig)
	if err != nil {
		log.Error("loading config failed", "error", err)
		os.Exit(1)
	}
	applyOverrides(cfg, *optVLEN, *optNMult, *optMaxSteps, *optPredicateImag, *optPPMatrix, *optPPRows, *optPPCols)

	text, err := os.ReadFile(hexfile)
	if err != nil {
		log.Error("reading hex file failed", "file", hexfile, "error", err)
		os.Exit(1)
	}
	program, err := hexword.ParseLines(string(text))
	if err != nil {
		log.Error("parsing hex file failed", "error", err)
		os.Exit(1)
	}
	log.Info("loaded program", "instructions", len(program))

	m, err := machine.New(cfg.Machine.VLEN, cfg.Machine.NMult, cfg.Run.PredicateImag)
	if err != nil {
		log.Error("machine init failed", "error", err)
		os.Exit(1)
	}

	opts := machine.TraceOptions{
		ShowMatrix: cfg.Print.PPMatrix,
		Rows:       cfg.Print.PPRows,
		Cols:       cfg.Print.PPCols,
	}

	if *optInteractive {
		session := &repl.Session{Machine: m, Program: program, Out: os.Stdout, Opts: opts}
		if err := session.Run(); err != nil {
			log.Error("repl exited with error", "error", err)
			os.Exit(1)
		}
		return
	}

	if err := m.Run(program, cfg.Run.MaxSteps, os.Stdout, opts); err != nil {
		log.Error("run aborted", "error", err)
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	log.Info("run finished", "pc", m.PC, "steps", m.Steps)
}

// applyOverrides layers explicit non-zero flag values over the config
// defaults, matching the override order documented for TOML machine
// configuration: flags win when given.
func applyOverrides(cfg *config.Config, vlen, nMult, maxSteps int, predicateImag, ppMatrix bool, ppRows, ppCols int) {
	if vlen != 0 {
		cfg.Machine.VLEN = vlen
	}
	if nMult != 0 {
		cfg.Machine.NMult = nMult
	}
	if maxSteps != 0 {
		cfg.Run.MaxSteps = maxSteps
	}
	if predicateImag {
		cfg.Run.PredicateImag = true
	}
	if ppMatrix {
		cfg.Print.PPMatrix = true
	}
	if ppRows != 0 {
		cfg.Print.PPRows = ppRows
	}
	if ppCols != 0 {
		cfg.Print.PPCols = ppCols
	}
}
