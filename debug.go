package main

import (
	"fmt"
	"os"

	"github.com/chip8vm/chip8/chip8"
	"github.com/retroenv/retrogolib/log"
)

/// Show the HELP text in the trace and on the console.
///
func DebugHelp() {
	help := []string{
		"Virtual keys:",
		"  1-2-3-4",
		"  Q-W-E-R",
		"  A-S-D-F",
		"  Z-X-C-V",
		"",
		"Emulation keys:",
		"  ESC       - Quit",
		"  BS        - Reboot (CTRL reboots paused)",
		"  F2        - Reload program",
		"  F3        - Load program",
		"  [ ]       - Slower/faster",
		"  Up/Dn     - Scroll trace",
		"  Home/End  - Trace start/end",
		"  SPACE/F5  - Pause",
		"  F6/F10    - Step",
		"  F9        - Toggle breakpoint",
	}

	Debug.Trace.Log("")
	for _, line := range help {
		Debug.Trace.Log(line)
		fmt.Fprintln(os.Stdout, line)
	}

	Debug.Trace.End()
}

/// DebugStep executes a single instruction while paused.
///
func DebugStep() {
	if err := Debug.StepOver(); err != nil {
		Debug.Report(err, TraceLines)
	}

	Logger.Debug(VM.Disassemble(VM.PC),
		log.Hex("i", VM.I),
		log.Uint8("sp", uint8(VM.SP)),
		log.Uint8("dt", VM.DT),
		log.Uint8("st", VM.ST))

	UpdateTitle()
}

/// DebugTrace prints the trace window at the current scroll position.
///
func DebugTrace() {
	fmt.Fprintf(os.Stdout, "-- trace %d/%d --\n", Debug.Trace.Pos(), Debug.Trace.Len())

	for _, line := range Debug.Trace.Window(TraceLines) {
		fmt.Fprintln(os.Stdout, line)
	}
}

/// Reload the current program, keeping the pause state.
///
func Reload() {
	paused := Clock.Paused

	if err := Load(File); err != nil {
		Logger.Error("Reloading program failed", log.Err(err))
		return
	}

	Pause(paused)
}

/// PanelField is one register shown in the panel. Row and Col are in
/// glyph cells.
///
type PanelField struct {
	Value  uint
	Digits int
	Row    int32
	Col    int32
}

/// PanelFields lays out the registers: V0-VF on the first row, then PC,
/// I, SP, DT and ST. SP counts up to 16 so it needs two digits.
///
func PanelFields(vm *chip8.CHIP_8) []PanelField {
	fields := make([]PanelField, 0, 21)

	for i, v := range vm.V {
		fields = append(fields, PanelField{Value: uint(v), Digits: 2, Col: int32(i) * 3})
	}

	return append(fields,
		PanelField{Value: uint(vm.PC), Digits: 4, Row: 1, Col: 0},
		PanelField{Value: uint(vm.I), Digits: 4, Row: 1, Col: 5},
		PanelField{Value: vm.SP, Digits: 2, Row: 1, Col: 10},
		PanelField{Value: uint(vm.DT), Digits: 2, Row: 1, Col: 14},
		PanelField{Value: uint(vm.ST), Digits: 2, Row: 1, Col: 18},
	)
}

/// Show the current value of all the CHIP-8 registers with the font
/// glyphs.
///
func DebugRegisters(x, y int32) {
	const scale = 2

	// one glyph cell, including spacing
	cw := int32(5 * scale)

	for _, f := range PanelFields(VM) {
		DrawHex(f.Value, f.Digits, x+f.Col*cw, y+f.Row*8*scale, scale)
	}
}
