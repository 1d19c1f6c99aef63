/* Copyright (c) 2017 Jeffrey Massung
 *
 * This software is provided 'as-is', without any express or implied
 * warranty.  In no event will the authors be held liable for any damages
 * arising from the use of this software.
 *
 * Permission is granted to anyone to use this software for any purpose,
 * including commercial applications, and to alter it and redistribute it
 * freely, subject to the following restrictions:
 *
 * 1. The origin of this software must not be misrepresented; you must not
 *    claim that you wrote the original software. If you use this software
 *    in a product, an acknowledgment in the product documentation would be
 *    appreciated but is not required.
 *
 * 2. Altered source versions must be plainly marked as such, and must not be
 *    misrepresented as being the original software.
 *
 * 3. This notice may not be removed or altered from any source distribution.
 */

// Package trace keeps a scrollable history of executed instructions and
// debugger messages.
package trace

import (
	"strings"
)

// DefaultCapacity is the number of lines kept when none is given.
const DefaultCapacity = 4096

// Log is a bounded list of text lines with a read position. While the
// read position is at the end, new lines keep it there.
type Log struct {
	// buf contains each line of logged text, oldest first.
	buf []string

	// pos is the current user read position within the log. The window
	// shown ends just before it.
	pos int

	// capacity is the maximum number of lines kept.
	capacity int
}

// New creates a new Log holding at most capacity lines.
func New(capacity int) *Log {
	if capacity <= 0 {
		capacity = DefaultCapacity
	}

	return &Log{
		buf:      make([]string, 0, 100),
		capacity: capacity,
	}
}

// Log outputs a new line to the log.
func (l *Log) Log(s ...string) {
	l.append(strings.Join(s, " "))
}

// Logln outputs a new line to the log, with an empty line prefixed.
func (l *Log) Logln(s ...string) {
	l.append("", strings.Join(s, " "))
}

func (l *Log) append(lines ...string) {
	scroll := l.pos == len(l.buf)

	l.buf = append(l.buf, lines...)

	// drop the oldest lines once over capacity
	if n := len(l.buf) - l.capacity; n > 0 {
		l.buf = append(l.buf[:0], l.buf[n:]...)

		if l.pos -= n; l.pos < 0 {
			l.pos = 0
		}
	}

	if scroll {
		l.pos = len(l.buf)
	}
}

// Len returns the number of lines held.
func (l *Log) Len() int {
	return len(l.buf)
}

// Pos returns the current read position.
func (l *Log) Pos() int {
	return l.pos
}

// Window returns up to n lines ending at the read position.
func (l *Log) Window(n int) []string {
	start := l.pos - n

	// don't scroll past the beginning
	if start < 0 {
		start = 0
	}

	if start+n >= len(l.buf) {
		return l.buf[start:]
	}

	return l.buf[start : start+n]
}

// Tail returns the last n lines, ignoring the read position.
func (l *Log) Tail(n int) []string {
	if n > len(l.buf) {
		n = len(l.buf)
	}

	return l.buf[len(l.buf)-n:]
}

// Home scrolls the log to the beginning.
func (l *Log) Home() {
	l.pos = 0
}

// End scrolls the log to the end.
func (l *Log) End() {
	l.pos = len(l.buf)
}

// ScrollUp scrolls the log back one position.
func (l *Log) ScrollUp() {
	l.pos--

	// clamp to home
	if l.pos < 0 {
		l.Home()
	}
}

// ScrollDown scrolls the log forward one position.
func (l *Log) ScrollDown(windowSize int) {
	l.pos++

	// if less than the window size, drop to it
	if l.pos <= windowSize {
		l.pos = windowSize + 1
	}

	// clamp to the end
	if l.pos >= len(l.buf) {
		l.End()
	}
}

// Clear removes every line.
func (l *Log) Clear() {
	l.buf = l.buf[:0]
	l.pos = 0
}
