package chip8

import "fmt"

/// CapacityError is returned by Load when a program does not fit in
/// memory between ProgramStart and the end of memory.
///
type CapacityError struct {
	Size int
	Free int
}

func (e *CapacityError) Error() string {
	return fmt.Sprintf("program too large to fit in memory (size: %d, free: %d)", e.Size, e.Free)
}

/// UnimplementedOpcodeError is returned by Step when the fetched word
/// matches no instruction. It is fatal: the VM stays faulted until Reset.
///
type UnimplementedOpcodeError struct {
	Address uint16
	Opcode  uint16
}

func (e *UnimplementedOpcodeError) Error() string {
	return fmt.Sprintf("invalid opcode %04X at %04X", e.Opcode, e.Address)
}

/// StackOverflowError is returned when CALL is executed with a full stack.
///
type StackOverflowError struct {
	Address uint16
}

func (e *StackOverflowError) Error() string {
	return fmt.Sprintf("stack overflow at %04X", e.Address)
}

/// StackUnderflowError is returned when RET is executed with an empty stack.
///
type StackUnderflowError struct {
	Address uint16
}

func (e *StackUnderflowError) Error() string {
	return fmt.Sprintf("stack underflow at %04X", e.Address)
}

/// MemoryAccessError is returned when an instruction reads or writes
/// outside of the 4K address space.
///
type MemoryAccessError struct {
	Address uint
	Length  uint
}

func (e *MemoryAccessError) Error() string {
	return fmt.Sprintf("memory access out of range (address: %04X, length: %d)", e.Address, e.Length)
}
