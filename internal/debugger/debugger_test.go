package debugger

import (
	"errors"
	"os"
	"path/filepath"
	"testing"

	"github.com/chip8vm/chip8/chip8"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

func newTestDebugger(t *testing.T, rom []byte, bps ...chip8.Breakpoint) *Debugger {
	t.Helper()

	d := New(log.NewTestLogger(t), chip8.NewWithRandom(chip8.NewRandomSource(1)), 100)
	assert.NoError(t, d.Load(rom, bps))
	return d
}

func TestBreakpoint(t *testing.T) {
	d := newTestDebugger(t, []byte{
		0x60, 0x01, // LD V0, 1
		0x61, 0x02, // LD V1, 2
		0x62, 0x03, // LD V2, 3
	}, chip8.Breakpoint{Address: 0x202, Reason: "second"})

	assert.NoError(t, d.Step())

	err := d.Step()
	var bp *BreakpointError
	assert.True(t, errors.As(err, &bp))
	assert.Equal(t, uint16(0x202), bp.Address)
	assert.Equal(t, "breakpoint at 0202 - second", err.Error())
	assert.Equal(t, uint16(0x202), d.VM.PC)

	// stopping again without resuming
	assert.Error(t, d.Step())

	d.Resume()
	assert.NoError(t, d.Step())
	assert.NoError(t, d.Step())
	assert.Equal(t, byte(3), d.VM.V[2])
}

func TestStepOver(t *testing.T) {
	d := newTestDebugger(t, []byte{0x60, 0x07}, chip8.Breakpoint{Address: 0x200})

	assert.NoError(t, d.StepOver())
	assert.Equal(t, byte(7), d.VM.V[0])
}

func TestToggleBreakpoint(t *testing.T) {
	d := newTestDebugger(t, nil)

	assert.True(t, d.ToggleBreakpoint(0x210))
	assert.True(t, d.ToggleBreakpoint(0x204))
	assert.Equal(t, []chip8.Breakpoint{
		{Address: 0x204, Reason: "user"},
		{Address: 0x210, Reason: "user"},
	}, d.Breakpoints())

	assert.False(t, d.ToggleBreakpoint(0x210))
	assert.Equal(t, 1, len(d.Breakpoints()))

	d.ClearBreakpoints()
	assert.Equal(t, 0, len(d.Breakpoints()))
}

func TestTrace(t *testing.T) {
	d := newTestDebugger(t, []byte{
		0x60, 0x01, // LD V0, 1
		0xF1, 0x0A, // LD V1, K
	})

	assert.NoError(t, d.Step())
	assert.NoError(t, d.Step())
	assert.NoError(t, d.Step())
	assert.True(t, d.Waiting())

	// the key poll is traced once
	assert.Equal(t, []string{"0200 - LD     V0, #01", "0202 - LD     V1, K"}, d.Trace.Tail(2))
}

func TestFaultIsTraced(t *testing.T) {
	d := newTestDebugger(t, []byte{0x00, 0xEE}) // RET

	err := d.Step()

	var underflow *chip8.StackUnderflowError
	assert.True(t, errors.As(err, &underflow))
	assert.Equal(t, err.Error(), d.Trace.Tail(1)[0])
	assert.Equal(t, "0200 - RET", d.Trace.Tail(3)[0])
}

func TestReset(t *testing.T) {
	d := newTestDebugger(t, []byte{0x60, 0x05}, chip8.Breakpoint{Address: 0x300})

	assert.NoError(t, d.Step())
	d.Reset()

	assert.Equal(t, uint16(chip8.ProgramStart), d.VM.PC)
	assert.Equal(t, byte(0), d.VM.V[0])
	assert.Equal(t, byte(0x60), d.VM.Memory[chip8.ProgramStart])
	assert.Equal(t, 1, len(d.Breakpoints()))
}

func TestLoadFile(t *testing.T) {
	dir := t.TempDir()

	source := filepath.Join(dir, "test.asm")
	assert.NoError(t, os.WriteFile(source, []byte("    LD V0, 9\n    BREAK\n    CLS\n"), 0o644))

	d := newTestDebugger(t, nil)
	assert.NoError(t, d.LoadFile(source))
	assert.Equal(t, []chip8.Breakpoint{{Address: 0x202}}, d.Breakpoints())
	assert.Equal(t, byte(0x60), d.VM.Memory[chip8.ProgramStart])
	assert.Equal(t, byte(0x09), d.VM.Memory[chip8.ProgramStart+1])

	rom := filepath.Join(dir, "test.ch8")
	assert.NoError(t, os.WriteFile(rom, []byte{0x00, 0xE0}, 0o644))
	assert.NoError(t, d.LoadFile(rom))
	assert.Equal(t, 0, len(d.Breakpoints()))

	bad := filepath.Join(dir, "bad.asm")
	assert.NoError(t, os.WriteFile(bad, []byte("    LD V0\n"), 0o644))
	assert.ErrorContains(t, d.LoadFile(bad), "assembling bad.asm: line 1")

	assert.Error(t, d.LoadFile(filepath.Join(dir, "missing.ch8")))

	big := filepath.Join(dir, "big.ch8")
	assert.NoError(t, os.WriteFile(big, make([]byte, chip8.MemorySize), 0o644))

	var capacity *chip8.CapacityError
	assert.True(t, errors.As(d.LoadFile(big), &capacity))
}

func TestReport(t *testing.T) {
	d := newTestDebugger(t, []byte{0x00, 0xEE}, chip8.Breakpoint{Address: 0x200, Reason: "entry"})

	// breakpoints are reported at info level
	err := d.Step()
	var bp *BreakpointError
	assert.True(t, errors.As(err, &bp))
	d.Report(err, 4)

	// faults go to the error level, which the test logger treats as failure
	d.logger = log.NewWithConfig(log.DefaultConfig())

	err = d.StepOver()
	assert.Error(t, err)
	d.Report(err, 100)
	assert.Equal(t, "0200 - RET", d.Trace.Tail(3)[0])
}

func TestLoadTooLargeKeepsProgram(t *testing.T) {
	d := newTestDebugger(t, []byte{0x60, 0x05, 0x61, 0x06}, chip8.Breakpoint{Address: 0x202})
	assert.NoError(t, d.Step())

	err := d.Load(make([]byte, chip8.MemorySize), nil)
	var capacity *chip8.CapacityError
	assert.True(t, errors.As(err, &capacity))

	// the running program and its breakpoints are untouched
	assert.Equal(t, uint16(0x202), d.VM.PC)
	assert.Equal(t, byte(5), d.VM.V[0])
	assert.Equal(t, 1, len(d.Breakpoints()))

	d.Reset()
	assert.Equal(t, byte(0x61), d.VM.Memory[chip8.ProgramStart+2])
}
