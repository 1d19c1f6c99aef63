package chip8

import (
	"strings"
	"testing"

	"github.com/google/go-cmp/cmp"
	"github.com/retroenv/retrogolib/assert"
)

const testSource = `; bounce a sprite across the screen
.START
    CLS
    LD      V0, #0A
    LD      I, SPRITE
.LOOP
    DRW     V0, V1, 5
    ADD     V0, 1
    SE      V0, 20
    JP      LOOP
    BREAK   done drawing
    CALL    SUBR
    JP      START
.SUBR
    ret                 ; lower case is accepted
.SPRITE
    BYTE    $1111...., $1..1....
`

func TestAssemble(t *testing.T) {
	asm, err := Assemble([]byte(testSource))
	assert.NoError(t, err)

	expected := []byte{
		0x00, 0xE0,
		0x60, 0x0A,
		0xA2, 0x14,
		0xD0, 0x15,
		0x70, 0x01,
		0x30, 0x14,
		0x12, 0x06,
		0x22, 0x12,
		0x12, 0x00,
		0x00, 0xEE,
		0xF0, 0x90,
	}
	if diff := cmp.Diff(expected, asm.ROM); diff != "" {
		t.Errorf("rom: (-want, +got)\n%s", diff)
	}

	assert.Equal(t, 0x200, asm.Labels["START"])
	assert.Equal(t, 0x206, asm.Labels["LOOP"])
	assert.Equal(t, 0x212, asm.Labels["SUBR"])
	assert.Equal(t, 0x214, asm.Labels["SPRITE"])

	assert.Equal(t, []Breakpoint{{Address: 0x20E, Reason: "DONE DRAWING"}}, asm.Breakpoints)
}

func TestAssembleRuns(t *testing.T) {
	asm, err := Assemble([]byte(testSource))
	assert.NoError(t, err)

	vm := newTestVM(t, asm.ROM...)
	for vm.PC != 0x20E {
		assert.NoError(t, vm.Step())
	}

	assert.Equal(t, byte(20), vm.V[0])
	assert.Equal(t, uint16(0x214), vm.I)
}

func TestAssembleDirectives(t *testing.T) {
	source := strings.Join([]string{
		".SPEED EQU 5",
		".ZERO  EQU #0",
		"    LD      V3, SPEED",
		"    JP      V0, TABLE",
		"    BYTE    'HI', -1, ZERO",
		"    ALIGN",
		".TABLE",
		"    WORD    TABLE, #1234",
		"    PAD     3",
		"    ALIGN",
		"    SHR     V1, V2",
		"    LD      V4, [I]",
		"    LD      [I], V4",
		"    ADD     I, V2",
		"    SNE     V1, VF",
	}, "\n")

	asm, err := Assemble([]byte(source))
	assert.NoError(t, err)

	expected := []byte{
		0x63, 0x05,
		0xB2, 0x08,
		'H', 'I', 0xFF, 0x00,
		0x02, 0x08, 0x12, 0x34,
		0x00, 0x00, 0x00,
		0x00,
		0x81, 0x26,
		0xF4, 0x65,
		0xF4, 0x55,
		0xF2, 0x1E,
		0x91, 0xF0,
	}
	if diff := cmp.Diff(expected, asm.ROM); diff != "" {
		t.Errorf("rom: (-want, +got)\n%s", diff)
	}
	assert.Equal(t, 5, asm.Labels["SPEED"])
}

func TestAssembleErrors(t *testing.T) {
	tests := []struct {
		name   string
		source string
		err    string
	}{
		{name: "missing operand", source: "    CLS\n    LD V0", err: "line 2 - illegal instruction"},
		{name: "unknown label", source: "    JP NOWHERE", err: "unresolved label: NOWHERE"},
		{name: "undefined constant", source: "    LD V0, NOWHERE", err: "line 1 - undefined constant: NOWHERE"},
		{name: "duplicate label", source: ".A\n.A", err: "line 2 - duplicate label"},
		{name: "label expected", source: "CLS", err: "line 1 - expected .label"},
		{name: "byte range", source: "    LD V0, 256", err: "line 1 - byte out of range"},
		{name: "address range", source: "    JP 4096", err: "line 1 - address out of range"},
		{name: "sprite height", source: "    DRW V0, V1, 16", err: "line 1 - sprite height out of range"},
		{name: "unterminated string", source: "    BYTE \"ABC", err: "line 1 - unterminated string"},
		{name: "jump through V1", source: "    JP V1, #200", err: "line 1 - illegal instruction"},
		{name: "mnemonic as label", source: ".SUB\n    RET", err: "line 1 - reserved word used as label: SUB"},
		{name: "register as label", source: ".VA EQU 1", err: "line 1 - reserved word used as label: VA"},
		{name: "call a mnemonic", source: "    CALL SUB", err: "line 1 - illegal instruction"},
		{name: "missing comma", source: "    LD V0 V1", err: "line 1 - expected comma"},
		{name: "dangling comma", source: "    LD V0,", err: "line 1 - expected operand"},
		{name: "bad indirection", source: "    LD [V0], V1", err: "line 1 - illegal indirection"},
		{name: "bad literal", source: "    LD V0, #", err: "line 1 - illegal literal: #"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			asm, err := Assemble([]byte(tt.source))

			assert.ErrorContains(t, err, tt.err)
			assert.Nil(t, asm)
		})
	}
}

func TestAssembleRoundTrip(t *testing.T) {
	opcodes := []uint16{
		0x0000, 0x00E0, 0x00EE, 0x1234, 0x2ABC, 0x3A42, 0x4B07, 0x5120,
		0x6CFF, 0x7D01, 0x8120, 0x8121, 0x8122, 0x8123, 0x8124, 0x8125,
		0x8106, 0x8127, 0x810E, 0x9EF0, 0xA3FF, 0xB200, 0xC30F, 0xD12F,
		0xE49E, 0xE5A1, 0xF607, 0xF70A, 0xF815, 0xF918, 0xFA1E, 0xFB29,
		0xFC33, 0xFD55, 0xFE65,
	}

	for _, opcode := range opcodes {
		inst, ok := Decode(opcode)
		assert.True(t, ok)

		asm, err := Assemble([]byte("\t" + inst.String()))
		assert.NoError(t, err, inst.String())
		assert.Equal(t, []byte{byte(opcode >> 8), byte(opcode)}, asm.ROM, inst.String())
	}
}
