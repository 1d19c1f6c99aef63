//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"fmt"

	"golang.org/x/sys/unix"
)

// rawTerm restores the terminal to the state it was in before raw mode.
type rawTerm struct {
	fd      int
	restore unix.Termios
}

// enterRawTerm puts the terminal into raw mode: no echo, no line
// buffering, reads return as soon as one byte is available.
func enterRawTerm(fd int) (*rawTerm, error) {
	termios, err := unix.IoctlGetTermios(fd, ioctlGetTermios)
	if err != nil {
		return nil, fmt.Errorf("reading terminal state: %w", err)
	}

	t := &rawTerm{fd: fd, restore: *termios}
	termstate := *termios

	termstate.Iflag &^= unix.IGNBRK | unix.BRKINT | unix.INLCR | unix.ICRNL | unix.IXON
	termstate.Lflag &^= unix.ECHO | unix.ECHONL | unix.ICANON | unix.IEXTEN
	termstate.Cflag &^= unix.CSIZE | unix.PARENB
	termstate.Cflag |= unix.CS8

	termstate.Cc[unix.VMIN] = 1
	termstate.Cc[unix.VTIME] = 0

	if err := unix.IoctlSetTermios(fd, ioctlSetTermios, &termstate); err != nil {
		return nil, fmt.Errorf("entering raw mode: %w", err)
	}
	return t, nil
}

func (t *rawTerm) exit() error {
	if err := unix.IoctlSetTermios(t.fd, ioctlSetTermios, &t.restore); err != nil {
		return fmt.Errorf("restoring terminal: %w", err)
	}
	return nil
}
