package chip8

import (
	"fmt"
	"time"
)

const (
	/// MemorySize is the number of addressable bytes.
	///
	MemorySize = 0x1000

	/// ProgramStart is where programs are loaded and where PC begins.
	///
	ProgramStart = 0x200

	/// StackDepth is the maximum number of nested subroutine calls.
	///
	StackDepth = 16

	/// Width and Height of the display in pixels.
	///
	Width  = 64
	Height = 32

	/// KeyCount is the number of keys on the hex keypad.
	///
	KeyCount = 16
)

/// CHIP_8 virtual machine emulator.
///
type CHIP_8 struct {
	/// Memory addressable by CHIP-8. The first 80 bytes hold the font
	/// glyphs and programs are loaded at ProgramStart.
	///
	Memory [MemorySize]byte

	/// V are the 16 virtual registers. VF doubles as the carry, borrow
	/// and collision flag.
	///
	V [16]byte

	/// I is the address register.
	///
	I uint16

	/// PC is the program counter. All programs begin at 0x200.
	///
	PC uint16

	/// SP is the stack pointer. It is the index of the next free entry
	/// in Stack, so 0 means the stack is empty.
	///
	SP uint

	/// Stack holds the return addresses of active subroutine calls.
	///
	Stack [StackDepth]uint16

	/// The delay and sound timer registers. Both count down by one on
	/// every call to TickTimers until they reach zero.
	///
	DT byte
	ST byte

	/// Cycles is how many instructions have been executed since the
	/// last reset.
	///
	Cycles int64

	/// Waiting is true while a LD Vx, K instruction is polling for a
	/// key. The instruction re-executes on every Step until a key is down.
	///
	Waiting bool

	/// Rand is the source of bytes for RND.
	///
	Rand RandomSource

	// video is the 64x32 display, one bool per pixel, row-major.
	video [Width * Height]bool

	// keys hold the current state for the 16-key pad keys.
	keys [KeyCount]bool

	// fault is set once an invalid opcode has been executed.
	fault error
}

/// New returns a CHIP-8 virtual machine ready to load a program. The
/// RND instruction uses a generator seeded from the current time.
///
func New() *CHIP_8 {
	return NewWithRandom(NewRandomSource(time.Now().UTC().UnixNano()))
}

/// NewWithRandom returns a CHIP-8 virtual machine that draws random
/// bytes from src. A nil src falls back to a time seeded generator.
///
func NewWithRandom(src RandomSource) *CHIP_8 {
	if src == nil {
		src = NewRandomSource(time.Now().UTC().UnixNano())
	}

	vm := &CHIP_8{Rand: src}
	vm.Reset()

	return vm
}

/// Reset the CHIP-8 virtual machine to its power-on state. Memory is
/// cleared, so a program must be loaded again afterwards.
///
func (vm *CHIP_8) Reset() {
	vm.Memory = [MemorySize]byte{}

	// copy the font glyphs into low memory
	copy(vm.Memory[:FontSize], Font[:])

	// reset video memory
	vm.video = [Width * Height]bool{}

	// reset keys
	vm.keys = [KeyCount]bool{}

	// reset program counter and stack pointer
	vm.PC = ProgramStart
	vm.SP = 0
	vm.Stack = [StackDepth]uint16{}

	// reset address register
	vm.I = 0

	// reset virtual registers
	vm.V = [16]byte{}

	// reset timer registers
	vm.DT = 0
	vm.ST = 0

	// reset the cycles executed
	vm.Cycles = 0

	// not waiting for a key
	vm.Waiting = false

	vm.fault = nil
}

/// Load copies a program into memory at ProgramStart. Nothing is written
/// if the program does not fit.
///
func (vm *CHIP_8) Load(program []byte) error {
	if len(program) > MemorySize-ProgramStart {
		return &CapacityError{
			Size: len(program),
			Free: MemorySize - ProgramStart,
		}
	}

	copy(vm.Memory[ProgramStart:], program)

	return nil
}

/// Fault returns the error that halted the virtual machine, or nil.
///
func (vm *CHIP_8) Fault() error {
	return vm.fault
}

/// SetKey sets the state of a key on the hex keypad. Keys outside of
/// 0x0-0xF are ignored.
///
func (vm *CHIP_8) SetKey(key uint, pressed bool) {
	if key < KeyCount {
		vm.keys[key] = pressed
	}
}

/// PressKey emulates a CHIP-8 key being pressed.
///
func (vm *CHIP_8) PressKey(key uint) {
	vm.SetKey(key, true)
}

/// ReleaseKey emulates a CHIP-8 key being released.
///
func (vm *CHIP_8) ReleaseKey(key uint) {
	vm.SetKey(key, false)
}

/// Key returns true if the key is currently held down.
///
func (vm *CHIP_8) Key(key uint) bool {
	return key < KeyCount && vm.keys[key]
}

/// Framebuffer returns a copy of the display, row-major, 64 pixels per row.
///
func (vm *CHIP_8) Framebuffer() [Width * Height]bool {
	return vm.video
}

/// Pixel returns the state of the pixel at x, y. Coordinates wrap.
///
func (vm *CHIP_8) Pixel(x, y int) bool {
	x = (x%Width + Width) % Width
	y = (y%Height + Height) % Height

	return vm.video[y*Width+x]
}

/// DelayTimer returns the current value of the delay timer.
///
func (vm *CHIP_8) DelayTimer() byte {
	return vm.DT
}

/// SoundTimer returns the current value of the sound timer.
///
func (vm *CHIP_8) SoundTimer() byte {
	return vm.ST
}

/// Tone is true while the sound timer is running and a tone should play.
///
func (vm *CHIP_8) Tone() bool {
	return vm.ST > 0
}

/// TickTimers counts both timers down by one. It must be called at 60 Hz.
/// The return value is true when the sound timer just expired and the
/// tone should stop.
///
func (vm *CHIP_8) TickTimers() bool {
	if vm.DT > 0 {
		vm.DT--
	}

	stop := false

	if vm.ST > 0 {
		stop = vm.ST == 1
		vm.ST--
	}

	return stop
}

/// Step the CHIP-8 virtual machine a single instruction. If an error is
/// returned the program counter is left on the failing instruction.
///
func (vm *CHIP_8) Step() error {
	if vm.fault != nil {
		return vm.fault
	}

	pc := vm.PC

	// the whole instruction must be addressable
	if uint(pc)+1 >= MemorySize {
		return &MemoryAccessError{Address: uint(pc), Length: 2}
	}

	// fetch the next instruction
	opcode := vm.fetch()

	inst, ok := Decode(opcode)
	if !ok {
		vm.PC = pc
		vm.fault = &UnimplementedOpcodeError{Address: pc, Opcode: opcode}

		return vm.fault
	}

	if err := vm.execute(inst); err != nil {
		vm.PC = pc

		return err
	}

	// increment the cycle count
	vm.Cycles++

	return nil
}

/// Fetch the next 16-bit instruction to execute.
///
func (vm *CHIP_8) fetch() uint16 {
	i := vm.PC

	// advance the program counter
	vm.PC += 2

	// return the 16-bit instruction
	return uint16(vm.Memory[i])<<8 | uint16(vm.Memory[i+1])
}

/// Execute a decoded instruction. PC already points past it.
///
func (vm *CHIP_8) execute(inst Instruction) error {
	x, y := inst.X, inst.Y

	vm.Waiting = false

	switch inst.Op {
	case OpNOP:
	case OpCLS:
		vm.cls()
	case OpRET:
		return vm.ret()
	case OpJP:
		vm.jump(inst.Addr)
	case OpCALL:
		return vm.call(inst.Addr)
	case OpSEByte:
		vm.skipIf(vm.V[x] == inst.KK)
	case OpSNEByte:
		vm.skipIf(vm.V[x] != inst.KK)
	case OpSE:
		vm.skipIf(vm.V[x] == vm.V[y])
	case OpLDByte:
		vm.V[x] = inst.KK
	case OpADDByte:
		vm.V[x] += inst.KK
	case OpLD:
		vm.V[x] = vm.V[y]
	case OpOR:
		vm.V[x] |= vm.V[y]
	case OpAND:
		vm.V[x] &= vm.V[y]
	case OpXOR:
		vm.V[x] ^= vm.V[y]
	case OpADD:
		vm.addXY(x, y)
	case OpSUB:
		vm.subXY(x, y)
	case OpSHR:
		vm.shr(x)
	case OpSUBN:
		vm.subYX(x, y)
	case OpSHL:
		vm.shl(x)
	case OpSNE:
		vm.skipIf(vm.V[x] != vm.V[y])
	case OpLDI:
		vm.I = inst.Addr
	case OpJPV0:
		vm.jump(inst.Addr + uint16(vm.V[0]))
	case OpRND:
		vm.V[x] = vm.Rand.Byte() & inst.KK
	case OpDRW:
		return vm.drw(x, y, inst.N)
	case OpSKP:
		vm.skipIf(vm.keys[vm.V[x]&0xF])
	case OpSKNP:
		vm.skipIf(!vm.keys[vm.V[x]&0xF])
	case OpLDVxDT:
		vm.V[x] = vm.DT
	case OpLDVxK:
		vm.loadXK(x)
	case OpLDDTVx:
		vm.DT = vm.V[x]
	case OpLDSTVx:
		vm.ST = vm.V[x]
	case OpADDI:
		vm.I += uint16(vm.V[x])
	case OpLDF:
		vm.I = uint16(vm.V[x]) * 5
	case OpLDB:
		return vm.loadB(x)
	case OpLDIVx:
		return vm.saveRegs(x)
	case OpLDVxI:
		return vm.loadRegs(x)
	default:
		return fmt.Errorf("unhandled instruction: %v", inst)
	}

	return nil
}

/// Check that n bytes starting at I are addressable.
///
func (vm *CHIP_8) checkI(n uint) error {
	if uint(vm.I)+n > MemorySize {
		return &MemoryAccessError{Address: uint(vm.I), Length: n}
	}

	return nil
}

/// Clear the video display memory.
///
func (vm *CHIP_8) cls() {
	vm.video = [Width * Height]bool{}
}

/// call a subroutine at address.
///
func (vm *CHIP_8) call(address uint16) error {
	if vm.SP >= StackDepth {
		return &StackOverflowError{Address: vm.PC - 2}
	}

	// push program counter onto stack, post-increment
	vm.Stack[vm.SP] = vm.PC
	vm.SP++

	// jump to address
	vm.PC = address

	return nil
}

/// return from subroutine.
///
func (vm *CHIP_8) ret() error {
	if vm.SP == 0 {
		return &StackUnderflowError{Address: vm.PC - 2}
	}

	// pre-decrement and restore program counter
	vm.SP--
	vm.PC = vm.Stack[vm.SP]

	return nil
}

/// jump to address.
///
func (vm *CHIP_8) jump(address uint16) {
	vm.PC = address
}

/// skip the next instruction if the condition holds.
///
func (vm *CHIP_8) skipIf(cond bool) {
	if cond {
		vm.PC += 2
	}
}

/// load vx with the lowest key down, or poll again next step.
///
func (vm *CHIP_8) loadXK(x byte) {
	for k, down := range vm.keys {
		if down {
			vm.V[x] = byte(k)
			return
		}
	}

	// rewind so this instruction executes again
	vm.PC -= 2
	vm.Waiting = true
}

/// add vy to vx and set carry.
///
func (vm *CHIP_8) addXY(x, y byte) {
	sum := uint(vm.V[x]) + uint(vm.V[y])

	vm.V[x] = byte(sum)

	if sum > 0xFF {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// subtract vy from vx, set carry if no borrow.
///
func (vm *CHIP_8) subXY(x, y byte) {
	noBorrow := vm.V[x] >= vm.V[y]

	vm.V[x] -= vm.V[y]

	if noBorrow {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// subtract vx from vy and store in vx, set carry if a borrow occurred.
///
func (vm *CHIP_8) subYX(x, y byte) {
	borrow := vm.V[y] < vm.V[x]

	vm.V[x] = vm.V[y] - vm.V[x]

	if borrow {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}
}

/// shr vx 1 bit, set carry to LSB of vx before shift.
///
func (vm *CHIP_8) shr(x byte) {
	vm.V[0xF] = vm.V[x] & 1
	vm.V[x] >>= 1
}

/// shl vx 1 bit, set carry to MSB of vx before shift.
///
func (vm *CHIP_8) shl(x byte) {
	vm.V[0xF] = vm.V[x] >> 7 & 1
	vm.V[x] <<= 1
}

/// draw a sprite at I to video memory at vx, vy.
///
func (vm *CHIP_8) drw(x, y, n byte) error {
	if err := vm.checkI(uint(n)); err != nil {
		return err
	}

	ox := uint(vm.V[x])
	oy := uint(vm.V[y])

	collision := false

	// draw each row of the sprite
	for row, s := range vm.Memory[vm.I : uint(vm.I)+uint(n)] {
		py := (oy + uint(row)) % Height

		for col := uint(0); col < 8; col++ {
			if s&(0x80>>col) == 0 {
				continue
			}

			px := (ox + col) % Width
			p := &vm.video[py*Width+px]

			// was this pixel turned off?
			if *p {
				collision = true
			}

			*p = !*p
		}
	}

	// set carry flag if any collision occurred
	if collision {
		vm.V[0xF] = 1
	} else {
		vm.V[0xF] = 0
	}

	return nil
}

/// load address with BCD of vx.
///
func (vm *CHIP_8) loadB(x byte) error {
	if err := vm.checkI(3); err != nil {
		return err
	}

	n := vm.V[x]

	// write to memory
	vm.Memory[vm.I+0] = n / 100
	vm.Memory[vm.I+1] = n / 10 % 10
	vm.Memory[vm.I+2] = n % 10

	return nil
}

/// save registers v0..vx to I.
///
func (vm *CHIP_8) saveRegs(x byte) error {
	if err := vm.checkI(uint(x) + 1); err != nil {
		return err
	}

	copy(vm.Memory[vm.I:], vm.V[:x+1])

	return nil
}

/// load registers v0..vx from I.
///
func (vm *CHIP_8) loadRegs(x byte) error {
	if err := vm.checkI(uint(x) + 1); err != nil {
		return err
	}

	copy(vm.V[:x+1], vm.Memory[vm.I:])

	return nil
}
