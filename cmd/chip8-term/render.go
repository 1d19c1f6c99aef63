//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"fmt"
	"strings"

	"github.com/chip8vm/chip8/chip8"
)

const (
	ansiHome       = "\033[H"
	ansiClear      = "\033[2J"
	ansiHideCursor = "\033[?25l"
	ansiShowCursor = "\033[?25h"
	ansiClearLine  = "\033[K"
)

// halfBlocks is indexed by top pixel | bottom pixel<<1.
var halfBlocks = [4]string{" ", "▀", "▄", "█"}

// renderFrame draws the framebuffer with two pixel rows per text line,
// starting at the top left of the terminal.
func renderFrame(fb [chip8.Width * chip8.Height]bool) string {
	var sb strings.Builder
	sb.Grow(chip8.Width * chip8.Height * 2)
	sb.WriteString(ansiHome)

	for y := 0; y < chip8.Height; y += 2 {
		for x := 0; x < chip8.Width; x++ {
			i := 0
			if fb[y*chip8.Width+x] {
				i |= 1
			}
			if fb[(y+1)*chip8.Width+x] {
				i |= 2
			}
			sb.WriteString(halfBlocks[i])
		}
		sb.WriteString("\r\n")
	}

	return sb.String()
}

// renderStatus is the line shown under the screen.
func renderStatus(speed int, paused bool, err error) string {
	state := "running"
	switch {
	case err != nil:
		state = err.Error()
	case paused:
		state = "paused"
	}

	return fmt.Sprintf("%d Hz - %s - space pause, backspace reset, [ ] speed, esc quit%s\r\n",
		speed, state, ansiClearLine)
}
