// Package debugger wraps a CHIP-8 virtual machine with breakpoints and an
// instruction trace. It is the machine the hosts hand to the clock.
package debugger

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strings"

	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/internal/trace"
	"github.com/retroenv/retrogolib/log"
)

// BreakpointError is returned by Step when execution reaches a breakpoint.
// The instruction at the breakpoint has not executed yet.
type BreakpointError struct {
	chip8.Breakpoint
}

func (e *BreakpointError) Error() string {
	if e.Reason == "" {
		return fmt.Sprintf("breakpoint at %04X", e.Address)
	}
	return fmt.Sprintf("breakpoint at %04X - %s", e.Address, e.Reason)
}

// Debugger drives a virtual machine one instruction at a time, recording
// each one in a trace and stopping at breakpoints.
type Debugger struct {
	VM    *chip8.CHIP_8
	Trace *trace.Log

	logger      *log.Logger
	breakpoints map[uint16]chip8.Breakpoint

	// rom is the last program loaded, kept so Reset can reload it
	rom []byte

	// resume skips the breakpoint at the current PC once
	resume bool
}

// New returns a debugger for vm. Trace lines are kept up to capacity.
func New(logger *log.Logger, vm *chip8.CHIP_8, capacity int) *Debugger {
	return &Debugger{
		VM:          vm,
		Trace:       trace.New(capacity),
		logger:      logger,
		breakpoints: make(map[uint16]chip8.Breakpoint),
	}
}

// ReadProgram reads a ROM file. Files ending in .asm are assembled and
// their breakpoints returned.
func ReadProgram(path string) ([]byte, []chip8.Breakpoint, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, nil, fmt.Errorf("reading program: %w", err)
	}

	if !strings.EqualFold(filepath.Ext(path), ".asm") {
		return data, nil, nil
	}

	asm, err := chip8.Assemble(data)
	if err != nil {
		return nil, nil, fmt.Errorf("assembling %s: %w", filepath.Base(path), err)
	}
	return asm.ROM, asm.Breakpoints, nil
}

// Load resets the machine, loads rom and replaces all breakpoints. If rom
// does not fit, the current program keeps running untouched.
func (d *Debugger) Load(rom []byte, breakpoints []chip8.Breakpoint) error {
	if free := chip8.MemorySize - chip8.ProgramStart; len(rom) > free {
		return fmt.Errorf("loading program: %w", &chip8.CapacityError{Size: len(rom), Free: free})
	}

	d.VM.Reset()
	if err := d.VM.Load(rom); err != nil {
		return fmt.Errorf("loading program: %w", err)
	}

	d.rom = rom
	d.resume = false
	d.ClearBreakpoints()
	for _, bp := range breakpoints {
		d.SetBreakpoint(bp)
	}

	d.Trace.Logln(fmt.Sprintf("Loaded %d bytes", len(rom)))
	d.logger.Debug("Program loaded",
		log.Int("size", len(rom)),
		log.Int("breakpoints", len(breakpoints)))
	return nil
}

// LoadFile reads, optionally assembles, and loads a program.
func (d *Debugger) LoadFile(path string) error {
	rom, breakpoints, err := ReadProgram(path)
	if err != nil {
		return err
	}

	if err := d.Load(rom, breakpoints); err != nil {
		return err
	}

	d.logger.Info("Loaded program", log.String("file", path))
	return nil
}

// Reset reboots the machine and reloads the current program. Breakpoints
// are kept.
func (d *Debugger) Reset() {
	d.VM.Reset()

	// the program already fit once
	_ = d.VM.Load(d.rom)

	d.resume = false
	d.Trace.Logln("Reset")
}

// Step executes one instruction unless a breakpoint is set on it.
func (d *Debugger) Step() error {
	pc := d.VM.PC

	if bp, ok := d.breakpoints[pc]; ok && !d.resume {
		d.Trace.Logln(fmt.Sprintf("Break at %04X %s", pc, bp.Reason))
		return &BreakpointError{Breakpoint: bp}
	}
	d.resume = false

	// a key poll re-executes the same instruction, only trace it once
	if !d.VM.Waiting {
		d.Trace.Log(d.VM.Disassemble(pc))
	}

	if err := d.VM.Step(); err != nil {
		d.Trace.Logln(err.Error())
		return err
	}
	return nil
}

// StepOver executes the instruction at PC even if it has a breakpoint.
func (d *Debugger) StepOver() error {
	d.resume = true
	return d.Step()
}

// Resume lets the next Step run past a breakpoint at the current PC.
func (d *Debugger) Resume() {
	d.resume = true
}

// TickTimers counts the machine's timers down.
func (d *Debugger) TickTimers() bool {
	return d.VM.TickTimers()
}

// Waiting reports whether the machine is polling for a key.
func (d *Debugger) Waiting() bool {
	return d.VM.Waiting
}

// SetBreakpoint adds or replaces a breakpoint.
func (d *Debugger) SetBreakpoint(bp chip8.Breakpoint) {
	d.breakpoints[bp.Address] = bp
}

// ToggleBreakpoint sets a breakpoint at address or clears the one there.
// It returns true if a breakpoint is now set.
func (d *Debugger) ToggleBreakpoint(address uint16) bool {
	if _, ok := d.breakpoints[address]; ok {
		delete(d.breakpoints, address)
		d.Trace.Logln(fmt.Sprintf("Breakpoint cleared at %04X", address))
		return false
	}

	d.breakpoints[address] = chip8.Breakpoint{Address: address, Reason: "user"}
	d.Trace.Logln(fmt.Sprintf("Breakpoint set at %04X", address))
	return true
}

// ClearBreakpoints removes every breakpoint.
func (d *Debugger) ClearBreakpoints() {
	for address := range d.breakpoints {
		delete(d.breakpoints, address)
	}
}

// Breakpoints returns all breakpoints ordered by address.
func (d *Debugger) Breakpoints() []chip8.Breakpoint {
	bps := make([]chip8.Breakpoint, 0, len(d.breakpoints))
	for _, bp := range d.breakpoints {
		bps = append(bps, bp)
	}

	sort.Slice(bps, func(i, j int) bool {
		return bps[i].Address < bps[j].Address
	})
	return bps
}

// Report logs an error from Step. Breakpoints are informational, anything
// else is logged along with the most recent trace lines.
func (d *Debugger) Report(err error, lines int) {
	var bp *BreakpointError
	if errors.As(err, &bp) {
		d.logger.Info("Breakpoint hit",
			log.Hex("address", bp.Address),
			log.String("reason", bp.Reason))
		return
	}

	d.logger.Error("Emulation halted", log.Err(err), log.Hex("pc", d.VM.PC))
	for _, line := range d.Trace.Tail(lines) {
		d.logger.Error(line)
	}
}
