//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"errors"
	"strings"
	"testing"
	"time"

	"github.com/chip8vm/chip8/chip8"
	"github.com/chip8vm/chip8/internal/clock"
	"github.com/chip8vm/chip8/internal/debugger"
	"github.com/retroenv/retrogolib/assert"
	"github.com/retroenv/retrogolib/log"
)

type keyState [16]bool

func (k *keyState) SetKey(key uint, pressed bool) { k[key] = pressed }

func TestKeyFor(t *testing.T) {
	key, ok := keyFor('1')
	assert.True(t, ok)
	assert.Equal(t, uint(0x1), key)

	key, ok = keyFor('V')
	assert.True(t, ok)
	assert.Equal(t, uint(0xF), key)

	key, ok = keyFor('x')
	assert.True(t, ok)
	assert.Equal(t, uint(0x0), key)

	_, ok = keyFor('5')
	assert.False(t, ok)
}

func TestKeypadAutoRelease(t *testing.T) {
	var state keyState
	k := &keypad{machine: &state}
	start := time.Unix(100, 0)

	assert.True(t, k.press('w', start))
	assert.False(t, k.press('!', start))
	assert.True(t, state[0x5])

	k.update(start.Add(holdTime / 2))
	assert.True(t, state[0x5])

	// a repeated byte extends the hold
	k.press('w', start.Add(holdTime/2))
	k.update(start.Add(holdTime))
	assert.True(t, state[0x5])

	k.update(start.Add(2 * holdTime))
	assert.False(t, state[0x5])
}

func TestRenderFrame(t *testing.T) {
	vm := chip8.New()
	assert.NoError(t, vm.Load([]byte{
		0xD0, 0x02, // DRW V0, V0, 2
	}))
	vm.I = 0x200 // sprite rows D0 (11010000) and 02 (00000010)
	assert.NoError(t, vm.Step())

	frame := renderFrame(vm.Framebuffer())
	assert.True(t, strings.HasPrefix(frame, ansiHome))

	lines := strings.Split(strings.TrimPrefix(frame, ansiHome), "\r\n")
	assert.Equal(t, chip8.Height/2+1, len(lines))

	first := []rune(lines[0])
	assert.Equal(t, chip8.Width, len(first))
	assert.Equal(t, "▀▀ ▀  ▄ ", string(first[:8]))
	assert.Equal(t, strings.Repeat(" ", chip8.Width), lines[1])
}

func TestRenderStatus(t *testing.T) {
	assert.Contains(t, renderStatus(500, false, nil), "500 Hz - running")
	assert.Contains(t, renderStatus(500, true, nil), "paused")
	assert.Contains(t, renderStatus(625, true, errors.New("stack overflow")), "625 Hz - stack overflow")
}

func TestTogglePauseAfterBreakpoint(t *testing.T) {
	dbg := debugger.New(log.NewTestLogger(t), chip8.NewWithRandom(chip8.NewRandomSource(1)), 100)
	assert.NoError(t, dbg.Load([]byte{
		0x70, 0x01, // ADD V0, 1
		0x71, 0x01, // ADD V1, 1
		0x12, 0x04, // JP #204
	}, []chip8.Breakpoint{{Address: 0x202}}))

	now := time.Unix(100, 0)
	clk := clock.NewWithTime(clock.DefaultSpeed, func() time.Time { return now })

	now = now.Add(10 * time.Millisecond)
	_, halted := clk.Process(dbg)

	var bp *debugger.BreakpointError
	assert.True(t, errors.As(halted, &bp))

	// sitting at the breakpoint for a while
	now = now.Add(time.Second)
	halted = togglePause(dbg, clk, halted)
	assert.NoError(t, halted)
	assert.False(t, clk.Paused)

	// one frame later only a frame of work is due
	now = now.Add(10 * time.Millisecond)
	r, err := clk.Process(dbg)
	assert.NoError(t, err)
	assert.Equal(t, 5, r.Steps)
}

func TestTogglePauseKeepsFault(t *testing.T) {
	dbg := debugger.New(log.NewTestLogger(t), chip8.NewWithRandom(chip8.NewRandomSource(1)), 100)
	clk := clock.New(clock.DefaultSpeed)
	clk.Paused = true

	fault := errors.New("stack underflow at 0200")
	assert.Equal(t, fault, togglePause(dbg, clk, fault))
	assert.True(t, clk.Paused)

	assert.NoError(t, togglePause(dbg, clk, nil))
	assert.False(t, clk.Paused)
	assert.NoError(t, togglePause(dbg, clk, nil))
	assert.True(t, clk.Paused)
}
