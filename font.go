package main

import (
	"github.com/chip8vm/chip8/chip8"
	"github.com/veandco/go-sdl2/sdl"
)

/// DrawGlyph draws one hex digit using the CHIP-8 font. Each glyph is
/// 4 pixels wide and 5 tall, every pixel becomes a scale x scale block.
///
func DrawGlyph(digit uint, x, y, scale int32) {
	glyph := chip8.Font[(digit&0xF)*5 : (digit&0xF)*5+5]

	for row, bits := range glyph {
		for col := int32(0); col < 4; col++ {
			if bits&(0x80>>uint(col)) == 0 {
				continue
			}

			Renderer.FillRect(&sdl.Rect{
				X: x + col*scale,
				Y: y + int32(row)*scale,
				W: scale,
				H: scale,
			})
		}
	}
}

/// DrawHex draws the low digits of a value, most significant first.
///
func DrawHex(value uint, digits int, x, y, scale int32) {
	Renderer.SetDrawColor(143, 145, 133, 255)

	for _, digit := range HexDigits(value, digits) {
		DrawGlyph(digit, x, y, scale)

		// advance
		x += 5 * scale
	}
}

/// HexDigits splits the low digits of a value, most significant first.
///
func HexDigits(value uint, digits int) []uint {
	out := make([]uint, digits)

	for i := range out {
		out[i] = value >> (uint(digits-1-i) * 4) & 0xF
	}

	return out
}
