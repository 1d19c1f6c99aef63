package chip8

import "fmt"

/// Op identifies a decoded CHIP-8 instruction.
///
type Op uint8

const (
	OpNOP     Op = iota // 0000
	OpCLS               // 00E0
	OpRET               // 00EE
	OpJP                // 1nnn
	OpCALL              // 2nnn
	OpSEByte            // 3xkk
	OpSNEByte           // 4xkk
	OpSE                // 5xy0
	OpLDByte            // 6xkk
	OpADDByte           // 7xkk
	OpLD                // 8xy0
	OpOR                // 8xy1
	OpAND               // 8xy2
	OpXOR               // 8xy3
	OpADD               // 8xy4
	OpSUB               // 8xy5
	OpSHR               // 8xy6
	OpSUBN              // 8xy7
	OpSHL               // 8xyE
	OpSNE               // 9xy0
	OpLDI               // Annn
	OpJPV0              // Bnnn
	OpRND               // Cxkk
	OpDRW               // Dxyn
	OpSKP               // Ex9E
	OpSKNP              // ExA1
	OpLDVxDT            // Fx07
	OpLDVxK             // Fx0A
	OpLDDTVx            // Fx15
	OpLDSTVx            // Fx18
	OpADDI              // Fx1E
	OpLDF               // Fx29
	OpLDB               // Fx33
	OpLDIVx             // Fx55
	OpLDVxI             // Fx65
)

/// Instruction is a decoded opcode along with all of its operand fields.
/// Which fields are meaningful depends on Op.
///
type Instruction struct {
	Op     Op
	Opcode uint16

	/// X and Y are register indices, N is the low nibble.
	///
	X, Y, N byte

	/// KK is the low byte literal.
	///
	KK byte

	/// Addr is the 12-bit address literal.
	///
	Addr uint16
}

/// Decode splits an opcode into its nibbles and matches it against the
/// instruction table. It returns false if nothing matches.
///
func Decode(opcode uint16) (Instruction, bool) {
	inst := Instruction{
		Opcode: opcode,
		X:      byte(opcode >> 8 & 0xF),
		Y:      byte(opcode >> 4 & 0xF),
		N:      byte(opcode & 0xF),
		KK:     byte(opcode & 0xFF),
		Addr:   opcode & 0x0FFF,
	}

	switch opcode >> 12 {
	case 0x0:
		switch opcode {
		case 0x0000:
			inst.Op = OpNOP
		case 0x00E0:
			inst.Op = OpCLS
		case 0x00EE:
			inst.Op = OpRET
		default:
			return inst, false
		}
	case 0x1:
		inst.Op = OpJP
	case 0x2:
		inst.Op = OpCALL
	case 0x3:
		inst.Op = OpSEByte
	case 0x4:
		inst.Op = OpSNEByte
	case 0x5:
		if inst.N != 0 {
			return inst, false
		}
		inst.Op = OpSE
	case 0x6:
		inst.Op = OpLDByte
	case 0x7:
		inst.Op = OpADDByte
	case 0x8:
		switch inst.N {
		case 0x0:
			inst.Op = OpLD
		case 0x1:
			inst.Op = OpOR
		case 0x2:
			inst.Op = OpAND
		case 0x3:
			inst.Op = OpXOR
		case 0x4:
			inst.Op = OpADD
		case 0x5:
			inst.Op = OpSUB
		case 0x6:
			inst.Op = OpSHR
		case 0x7:
			inst.Op = OpSUBN
		case 0xE:
			inst.Op = OpSHL
		default:
			return inst, false
		}
	case 0x9:
		if inst.N != 0 {
			return inst, false
		}
		inst.Op = OpSNE
	case 0xA:
		inst.Op = OpLDI
	case 0xB:
		inst.Op = OpJPV0
	case 0xC:
		inst.Op = OpRND
	case 0xD:
		inst.Op = OpDRW
	case 0xE:
		switch inst.KK {
		case 0x9E:
			inst.Op = OpSKP
		case 0xA1:
			inst.Op = OpSKNP
		default:
			return inst, false
		}
	case 0xF:
		switch inst.KK {
		case 0x07:
			inst.Op = OpLDVxDT
		case 0x0A:
			inst.Op = OpLDVxK
		case 0x15:
			inst.Op = OpLDDTVx
		case 0x18:
			inst.Op = OpLDSTVx
		case 0x1E:
			inst.Op = OpADDI
		case 0x29:
			inst.Op = OpLDF
		case 0x33:
			inst.Op = OpLDB
		case 0x55:
			inst.Op = OpLDIVx
		case 0x65:
			inst.Op = OpLDVxI
		default:
			return inst, false
		}
	}

	return inst, true
}

/// String returns the assembly mnemonic for the instruction, in the same
/// syntax Assemble accepts.
///
func (i Instruction) String() string {
	switch i.Op {
	case OpNOP:
		return "NOP"
	case OpCLS:
		return "CLS"
	case OpRET:
		return "RET"
	case OpJP:
		return fmt.Sprintf("JP     #%03X", i.Addr)
	case OpCALL:
		return fmt.Sprintf("CALL   #%03X", i.Addr)
	case OpSEByte:
		return fmt.Sprintf("SE     V%X, #%02X", i.X, i.KK)
	case OpSNEByte:
		return fmt.Sprintf("SNE    V%X, #%02X", i.X, i.KK)
	case OpSE:
		return fmt.Sprintf("SE     V%X, V%X", i.X, i.Y)
	case OpLDByte:
		return fmt.Sprintf("LD     V%X, #%02X", i.X, i.KK)
	case OpADDByte:
		return fmt.Sprintf("ADD    V%X, #%02X", i.X, i.KK)
	case OpLD:
		return fmt.Sprintf("LD     V%X, V%X", i.X, i.Y)
	case OpOR:
		return fmt.Sprintf("OR     V%X, V%X", i.X, i.Y)
	case OpAND:
		return fmt.Sprintf("AND    V%X, V%X", i.X, i.Y)
	case OpXOR:
		return fmt.Sprintf("XOR    V%X, V%X", i.X, i.Y)
	case OpADD:
		return fmt.Sprintf("ADD    V%X, V%X", i.X, i.Y)
	case OpSUB:
		return fmt.Sprintf("SUB    V%X, V%X", i.X, i.Y)
	case OpSHR:
		return fmt.Sprintf("SHR    V%X", i.X)
	case OpSUBN:
		return fmt.Sprintf("SUBN   V%X, V%X", i.X, i.Y)
	case OpSHL:
		return fmt.Sprintf("SHL    V%X", i.X)
	case OpSNE:
		return fmt.Sprintf("SNE    V%X, V%X", i.X, i.Y)
	case OpLDI:
		return fmt.Sprintf("LD     I, #%03X", i.Addr)
	case OpJPV0:
		return fmt.Sprintf("JP     V0, #%03X", i.Addr)
	case OpRND:
		return fmt.Sprintf("RND    V%X, #%02X", i.X, i.KK)
	case OpDRW:
		return fmt.Sprintf("DRW    V%X, V%X, %d", i.X, i.Y, i.N)
	case OpSKP:
		return fmt.Sprintf("SKP    V%X", i.X)
	case OpSKNP:
		return fmt.Sprintf("SKNP   V%X", i.X)
	case OpLDVxDT:
		return fmt.Sprintf("LD     V%X, DT", i.X)
	case OpLDVxK:
		return fmt.Sprintf("LD     V%X, K", i.X)
	case OpLDDTVx:
		return fmt.Sprintf("LD     DT, V%X", i.X)
	case OpLDSTVx:
		return fmt.Sprintf("LD     ST, V%X", i.X)
	case OpADDI:
		return fmt.Sprintf("ADD    I, V%X", i.X)
	case OpLDF:
		return fmt.Sprintf("LD     F, V%X", i.X)
	case OpLDB:
		return fmt.Sprintf("LD     B, V%X", i.X)
	case OpLDIVx:
		return fmt.Sprintf("LD     [I], V%X", i.X)
	case OpLDVxI:
		return fmt.Sprintf("LD     V%X, [I]", i.X)
	}

	return "??"
}
