//go:build linux || darwin || freebsd || netbsd || openbsd

// Package main implements a CHIP-8 player that runs in a terminal.
package main

import (
	"bufio"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"time"

	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/internal/clock"
	"github.com/chip8vm/chip8/internal/config"
	"github.com/chip8vm/chip8/internal/debugger"
	"github.com/chip8vm/chip8/internal/trace"
	"github.com/retroenv/retrogolib/app"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	os.Exit(chip8Term())
}

func chip8Term() int {
	opts, err := config.ParseFlags("chip8-term", os.Args[1:], true)
	if err != nil {
		var usageErr *config.UsageError
		if errors.As(err, &usageErr) {
			usageErr.ShowUsage(os.Stderr)
			return 2
		}
		fmt.Fprintln(os.Stderr, err)
		return 1
	}

	logger := config.CreateLogger(opts.Debug, opts.Quiet)

	seed := opts.Seed
	if seed == 0 {
		seed = time.Now().UTC().UnixNano()
	}

	vm := chip8.NewWithRandom(chip8.NewRandomSource(seed))
	dbg := debugger.New(logger, vm, trace.DefaultCapacity)

	if err := dbg.LoadFile(opts.File); err != nil {
		logger.Error("Loading program failed", log.Err(err))
		return 1
	}

	clk := clock.New(opts.Speed)
	clk.Paused = opts.Paused

	term, err := enterRawTerm(int(os.Stdin.Fd()))
	if err != nil {
		logger.Error("Terminal setup failed", log.Err(err))
		return 1
	}

	out := bufio.NewWriter(os.Stdout)
	fmt.Fprint(out, ansiHideCursor+ansiClear)

	halted := play(app.Context(), out, dbg, clk)

	fmt.Fprint(out, ansiShowCursor+"\r\n")
	out.Flush()

	if err := term.exit(); err != nil {
		logger.Error("Terminal restore failed", log.Err(err))
	}

	// logging is only readable once the terminal is restored
	var bp *debugger.BreakpointError
	if halted != nil && !errors.As(halted, &bp) {
		dbg.Report(halted, 16)
		return 1
	}
	return 0
}

// play runs the machine until the user quits or ctx is cancelled. It
// returns the error that last halted emulation, if any.
func play(ctx context.Context, out *bufio.Writer, dbg *debugger.Debugger, clk *clock.Clock) error {
	input := make(chan byte, 16)
	go readInput(os.Stdin, input)

	keys := &keypad{machine: dbg.VM}

	frame := time.NewTicker(time.Second / 60)
	defer frame.Stop()

	var halted error
	tone := false

	for {
		select {
		case <-ctx.Done():
			return halted

		case b, ok := <-input:
			if !ok {
				return halted
			}

			switch b {
			case 0x1B, 0x03:
				return halted
			case ' ':
				halted = togglePause(dbg, clk, halted)
			case 0x7F, 0x08:
				dbg.Reset()
				clk.Reset()
				clk.Paused = false
				halted = nil
			case '[':
				clk.Slower()
			case ']':
				clk.Faster()
			default:
				keys.press(b, time.Now())
			}

		case now := <-frame.C:
			keys.update(now)

			if halted == nil {
				if _, err := clk.Process(dbg); err != nil {
					halted = err
					clk.Paused = true
				}
			}

			// the terminal bell stands in for the tone
			if dbg.VM.Tone() && !tone {
				out.WriteString("\a")
			}
			tone = dbg.VM.Tone()

			out.WriteString(renderFrame(dbg.VM.Framebuffer()))
			out.WriteString(renderStatus(clk.Speed, clk.Paused, halted))
			if err := out.Flush(); err != nil {
				return err
			}
		}
	}
}

// togglePause pauses or resumes emulation and returns what still halts it.
// A breakpoint halt is cleared, a fault is not.
func togglePause(dbg *debugger.Debugger, clk *clock.Clock, halted error) error {
	var bp *debugger.BreakpointError

	switch {
	case errors.As(halted, &bp):
		dbg.Resume()

		// nothing ran while halted, don't catch up on that time
		clk.Reset()
		clk.Paused = false
		return nil
	case halted == nil:
		if clk.Paused {
			dbg.Resume()
			clk.Reset()
		}
		clk.Paused = !clk.Paused
	}
	return halted
}

// readInput forwards bytes from r until it fails.
func readInput(r io.Reader, input chan<- byte) {
	defer close(input)

	br := bufio.NewReader(r)
	for {
		b, err := br.ReadByte()
		if err != nil {
			return
		}
		input <- b
	}
}
