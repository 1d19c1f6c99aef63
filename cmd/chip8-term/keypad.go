//go:build linux || darwin || freebsd || netbsd || openbsd

package main

import (
	"time"
)

// holdTime is how long a key stays down after its last byte arrived.
// Terminals send no key up events, auto repeat keeps held keys down.
const holdTime = 150 * time.Millisecond

// keyMap lays the CHIP-8 hex keypad over the left of a keyboard.
var keyMap = map[byte]uint{
	'1': 0x1, '2': 0x2, '3': 0x3, '4': 0xC,
	'q': 0x4, 'w': 0x5, 'e': 0x6, 'r': 0xD,
	'a': 0x7, 's': 0x8, 'd': 0x9, 'f': 0xE,
	'z': 0xA, 'x': 0x0, 'c': 0xB, 'v': 0xF,
}

// keySetter is the part of the machine the keypad drives.
type keySetter interface {
	SetKey(key uint, pressed bool)
}

// keypad presses keys as bytes arrive and releases them once they have
// not been seen for holdTime.
type keypad struct {
	machine keySetter
	release [16]time.Time
}

// keyFor maps a typed byte to a CHIP-8 key, ignoring case.
func keyFor(b byte) (uint, bool) {
	if b >= 'A' && b <= 'Z' {
		b += 'a' - 'A'
	}
	key, ok := keyMap[b]
	return key, ok
}

// press handles a typed byte. It returns false if the byte is not a key.
func (k *keypad) press(b byte, now time.Time) bool {
	key, ok := keyFor(b)
	if !ok {
		return false
	}

	k.machine.SetKey(key, true)
	k.release[key] = now.Add(holdTime)
	return true
}

// update releases every key whose hold time has run out.
func (k *keypad) update(now time.Time) {
	for key, at := range k.release {
		if !at.IsZero() && !now.Before(at) {
			k.machine.SetKey(uint(key), false)
			k.release[key] = time.Time{}
		}
	}
}
