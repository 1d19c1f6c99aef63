package chip8

import "fmt"

/// Disassemble the CHIP-8 instruction at an address in memory.
///
func (vm *CHIP_8) Disassemble(address uint16) string {
	if int(address) >= len(vm.Memory)-1 {
		return ""
	}

	// fetch the instruction at this location
	opcode := uint16(vm.Memory[address])<<8 | uint16(vm.Memory[address+1])

	return DisassembleWord(address, opcode)
}

/// DisassembleWord formats a single opcode as a listing line.
///
func DisassembleWord(address, opcode uint16) string {
	if inst, ok := Decode(opcode); ok {
		return fmt.Sprintf("%04X - %v", address, inst)
	}

	// unknown instruction, most likely data
	return fmt.Sprintf("%04X - ??", address)
}

/// Listing is one decoded word of a program.
///
type Listing struct {
	Address uint16
	Opcode  uint16
	Inst    Instruction
	Valid   bool
}

/// DisassembleROM decodes every word of a program as it would sit in
/// memory at ProgramStart. A trailing odd byte is listed on its own.
///
func DisassembleROM(program []byte) []Listing {
	out := make([]Listing, 0, (len(program)+1)/2)

	for i := 0; i < len(program); i += 2 {
		opcode := uint16(program[i]) << 8
		if i+1 < len(program) {
			opcode |= uint16(program[i+1])
		}

		inst, ok := Decode(opcode)

		out = append(out, Listing{
			Address: uint16(ProgramStart + i),
			Opcode:  opcode,
			Inst:    inst,
			Valid:   ok,
		})
	}

	return out
}
