package chip8

import (
	"testing"

	"github.com/retroenv/retrogolib/assert"
)

func TestDecode(t *testing.T) {
	tests := []struct {
		opcode uint16
		op     Op
		text   string
	}{
		{0x0000, OpNOP, "NOP"},
		{0x00E0, OpCLS, "CLS"},
		{0x00EE, OpRET, "RET"},
		{0x1234, OpJP, "JP     #234"},
		{0x2ABC, OpCALL, "CALL   #ABC"},
		{0x3A42, OpSEByte, "SE     VA, #42"},
		{0x4B07, OpSNEByte, "SNE    VB, #07"},
		{0x5120, OpSE, "SE     V1, V2"},
		{0x6CFF, OpLDByte, "LD     VC, #FF"},
		{0x7D01, OpADDByte, "ADD    VD, #01"},
		{0x8120, OpLD, "LD     V1, V2"},
		{0x8121, OpOR, "OR     V1, V2"},
		{0x8122, OpAND, "AND    V1, V2"},
		{0x8123, OpXOR, "XOR    V1, V2"},
		{0x8124, OpADD, "ADD    V1, V2"},
		{0x8125, OpSUB, "SUB    V1, V2"},
		{0x8126, OpSHR, "SHR    V1"},
		{0x8127, OpSUBN, "SUBN   V1, V2"},
		{0x812E, OpSHL, "SHL    V1"},
		{0x9EF0, OpSNE, "SNE    VE, VF"},
		{0xA3FF, OpLDI, "LD     I, #3FF"},
		{0xB200, OpJPV0, "JP     V0, #200"},
		{0xC30F, OpRND, "RND    V3, #0F"},
		{0xD125, OpDRW, "DRW    V1, V2, 5"},
		{0xE49E, OpSKP, "SKP    V4"},
		{0xE5A1, OpSKNP, "SKNP   V5"},
		{0xF607, OpLDVxDT, "LD     V6, DT"},
		{0xF70A, OpLDVxK, "LD     V7, K"},
		{0xF815, OpLDDTVx, "LD     DT, V8"},
		{0xF918, OpLDSTVx, "LD     ST, V9"},
		{0xFA1E, OpADDI, "ADD    I, VA"},
		{0xFB29, OpLDF, "LD     F, VB"},
		{0xFC33, OpLDB, "LD     B, VC"},
		{0xFD55, OpLDIVx, "LD     [I], VD"},
		{0xFE65, OpLDVxI, "LD     VE, [I]"},
	}

	for _, tt := range tests {
		t.Run(tt.text, func(t *testing.T) {
			inst, ok := Decode(tt.opcode)

			assert.True(t, ok)
			assert.Equal(t, tt.op, inst.Op)
			assert.Equal(t, tt.opcode, inst.Opcode)
			assert.Equal(t, tt.text, inst.String())
		})
	}
}

func TestDecodeFields(t *testing.T) {
	inst, ok := Decode(0xD5A7)

	assert.True(t, ok)
	assert.Equal(t, byte(0x5), inst.X)
	assert.Equal(t, byte(0xA), inst.Y)
	assert.Equal(t, byte(0x7), inst.N)
	assert.Equal(t, byte(0xA7), inst.KK)
	assert.Equal(t, uint16(0x5A7), inst.Addr)
}

func TestDecodeInvalid(t *testing.T) {
	invalid := []uint16{
		0x0001, 0x00E1, 0x00FF, 0x0200, 0x0FFF,
		0x5121, 0x512F,
		0x8128, 0x8129, 0x812A, 0x812D, 0x812F,
		0x9121, 0x912E,
		0xE19F, 0xE1A0, 0xE100,
		0xF100, 0xF108, 0xF130, 0xF175, 0xF185,
	}

	for _, opcode := range invalid {
		_, ok := Decode(opcode)
		assert.False(t, ok)

		assert.Equal(t, "0200 - ??", DisassembleWord(ProgramStart, opcode))
	}
}
