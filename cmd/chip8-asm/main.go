// Package main implements the CHIP-8 assembler and disassembler command.
package main

import (
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/internal/config"
	"github.com/retroenv/retrogolib/log"
)

func main() {
	os.Exit(chip8Asm(os.Args[1:], os.Stdout))
}

func chip8Asm(args []string, stdout io.Writer) int {
	opts, err := config.ParseFlags("chip8-asm", args, true)
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

	data, err := os.ReadFile(opts.File)
	if err != nil {
		logger.Error("Reading input failed", log.Err(err))
		return 1
	}

	if opts.Disassemble {
		if err := writeListing(stdout, data); err != nil {
			logger.Error("Writing listing failed", log.Err(err))
			return 1
		}
		return 0
	}

	asm, err := chip8.Assemble(data)
	if err != nil {
		logger.Error("Assembling failed",
			log.String("file", filepath.Base(opts.File)),
			log.Err(err))
		return 1
	}

	if len(asm.ROM) > chip8.MemorySize-chip8.ProgramStart {
		logger.Error("Program does not fit in memory", log.Int("size", len(asm.ROM)))
		return 1
	}

	output := opts.Output
	if output == "" {
		output = strings.TrimSuffix(opts.File, filepath.Ext(opts.File)) + ".ch8"
	}

	if err := os.WriteFile(output, asm.ROM, 0o644); err != nil {
		logger.Error("Writing output failed", log.Err(err))
		return 1
	}

	logger.Info("Assembled program",
		log.String("output", output),
		log.Int("size", len(asm.ROM)))

	for _, bp := range asm.Breakpoints {
		logger.Debug("Breakpoint", log.Hex("address", bp.Address), log.String("reason", bp.Reason))
	}

	labels := make([]string, 0, len(asm.Labels))
	for label := range asm.Labels {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	for _, label := range labels {
		logger.Debug("Label", log.String("name", label), log.Hex("value", asm.Labels[label]))
	}

	return 0
}

// writeListing prints one line per word of a ROM: address, opcode and
// mnemonic in aligned columns.
func writeListing(w io.Writer, rom []byte) error {
	tw := tabwriter.NewWriter(w, 0, 8, 2, ' ', 0)

	for _, l := range chip8.DisassembleROM(rom) {
		text := "??"
		if l.Valid {
			text = l.Inst.String()
		}

		if _, err := fmt.Fprintf(tw, "%04X\t%04X\t%s\n", l.Address, l.Opcode, text); err != nil {
			return err
		}
	}

	return tw.Flush()
}
