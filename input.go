package main

import (
	"github.com/veandco/go-sdl2/sdl"
)

var (
	/// Mapping of modern keyboard to CHIP-8 keys.
	///
	KeyMap = map[sdl.Scancode]uint{
		sdl.SCANCODE_X: 0x0,
		sdl.SCANCODE_1: 0x1,
		sdl.SCANCODE_2: 0x2,
		sdl.SCANCODE_3: 0x3,
		sdl.SCANCODE_Q: 0x4,
		sdl.SCANCODE_W: 0x5,
		sdl.SCANCODE_E: 0x6,
		sdl.SCANCODE_A: 0x7,
		sdl.SCANCODE_S: 0x8,
		sdl.SCANCODE_D: 0x9,
		sdl.SCANCODE_Z: 0xA,
		sdl.SCANCODE_C: 0xB,
		sdl.SCANCODE_4: 0xC,
		sdl.SCANCODE_R: 0xD,
		sdl.SCANCODE_F: 0xE,
		sdl.SCANCODE_V: 0xF,
	}
)

/// ProcessEvents from SDL and map keys to the CHIP-8 VM. Returns false
/// once the user quits.
///
func ProcessEvents() bool {
	for e := sdl.PollEvent(); e != nil; e = sdl.PollEvent() {
		switch ev := e.(type) {
		case *sdl.QuitEvent:
			return false
		case *sdl.KeyboardEvent:
			key, mapped := KeyMap[ev.Keysym.Scancode]

			if ev.Type == sdl.KEYUP {
				if mapped {
					VM.ReleaseKey(key)
				}
				continue
			}

			if mapped {
				VM.PressKey(key)
				continue
			}

			// debug keys do not auto-repeat
			if ev.Repeat != 0 {
				continue
			}

			if !DebugKey(ev.Keysym) {
				return false
			}
		}
	}

	return true
}

/// DebugKey handles an emulator key. Returns false if it quits.
///
func DebugKey(sym sdl.Keysym) bool {
	switch sym.Scancode {
	case sdl.SCANCODE_ESCAPE:
		return false
	case sdl.SCANCODE_BACKSPACE:
		Debug.Reset()
		Clock.Reset()

		// holding control during reset will reboot paused
		Pause(sym.Mod&sdl.KMOD_CTRL != 0)
	case sdl.SCANCODE_UP, sdl.SCANCODE_PAGEUP:
		Debug.Trace.ScrollUp()
		DebugTrace()
	case sdl.SCANCODE_DOWN, sdl.SCANCODE_PAGEDOWN:
		Debug.Trace.ScrollDown(TraceLines)
		DebugTrace()
	case sdl.SCANCODE_HOME:
		Debug.Trace.Home()
		DebugTrace()
	case sdl.SCANCODE_END:
		Debug.Trace.End()
		DebugTrace()
	case sdl.SCANCODE_F2:
		if File != "" {
			Reload()
		}
	case sdl.SCANCODE_F3:
		LoadDialog()
	case sdl.SCANCODE_H, sdl.SCANCODE_F1:
		DebugHelp()
	case sdl.SCANCODE_LEFTBRACKET:
		Clock.Slower()
		UpdateTitle()
	case sdl.SCANCODE_RIGHTBRACKET:
		Clock.Faster()
		UpdateTitle()
	case sdl.SCANCODE_F5, sdl.SCANCODE_SPACE:
		Pause(!Clock.Paused)
	case sdl.SCANCODE_F6, sdl.SCANCODE_F10:
		if Clock.Paused {
			DebugStep()
		}
	case sdl.SCANCODE_F9:
		if Clock.Paused {
			Debug.ToggleBreakpoint(VM.PC)
		}
	}

	return true
}
