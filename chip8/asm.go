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

package chip8

import (
	"bufio"
	"bytes"
	"fmt"
	"sort"
)

/// Breakpoint is an address the debugger should stop at.
///
type Breakpoint struct {
	Address uint16
	Reason  string
}

/// Assembly is a completely assembled source file.
///
type Assembly struct {
	/// ROM is the final, assembled bytes to load at ProgramStart.
	///
	ROM []byte

	/// Breakpoints is a list of addresses.
	///
	Breakpoints []Breakpoint

	/// Labels maps label and constant names to their values.
	///
	Labels map[string]int

	/// Addresses with unresolved labels.
	///
	unresolved map[int]string
}

/// Assemble an input CHIP-8 source code file.
///
func Assemble(program []byte) (out *Assembly, err error) {
	var line int

	out = &Assembly{
		ROM:         make([]byte, ProgramStart, MemorySize),
		Breakpoints: make([]Breakpoint, 0, 10),
		Labels:      make(map[string]int),
		unresolved:  make(map[int]string),
	}

	// handle panics during assembly
	defer func() {
		if r := recover(); r != nil {
			if line > 0 {
				err = fmt.Errorf("line %d - %v", line, r)
			} else {
				err = fmt.Errorf("%v", r)
			}

			out = nil
		}
	}()

	// create simple line scanner over the file
	reader := bytes.NewReader(bytes.ToUpper(program))
	scanner := bufio.NewScanner(reader)

	// parse and assemble
	for line = 1; scanner.Scan(); line++ {
		out.assemble(&lineScanner{line: scanner.Bytes()})

		if len(out.ROM) > MemorySize {
			panic("program too large")
		}
	}

	// clear the line number as we're done assembling
	line = 0

	out.resolve()

	// drop the reserved bytes from the rom
	out.ROM = out.ROM[ProgramStart:]

	return out, nil
}

/// Patch every forward reference now that all labels are known.
///
func (a *Assembly) resolve() {
	addresses := make([]int, 0, len(a.unresolved))
	for address := range a.unresolved {
		addresses = append(addresses, address)
	}

	// report the first unresolved label in source order
	sort.Ints(addresses)

	for _, address := range addresses {
		label := a.unresolved[address]

		v, ok := a.Labels[label]
		if !ok {
			panic(fmt.Errorf("unresolved label: %s", label))
		}

		if v < 0 || v > 0xFFF {
			panic(fmt.Errorf("label does not resolve to an address: %s", label))
		}

		// only the low 12 bits of the word hold the address
		a.ROM[address] = byte(v>>8) | (a.ROM[address] & 0xF0)
		a.ROM[address+1] = byte(v & 0xFF)
	}

	a.unresolved = map[int]string{}
}


/// Operand classes an instruction form can require.
///
type operand uint8

const (
	opV        operand = iota // any V register
	opV0                      // only V0, for JP V0, addr
	opByte                    // literal or a constant defined earlier
	opAddr                    // literal or a label that may come later
	opIndirect                // [I]
	opI
	opDT
	opST
	opK
	opF
	opB
)

/// Names of the special registers. D and S are short for DT and ST.
///
var keywords = map[string]operand{
	"I":  opI,
	"DT": opDT,
	"D":  opDT,
	"ST": opST,
	"S":  opST,
	"K":  opK,
	"F":  opF,
	"B":  opB,
}

/// Data directives, assembled without an instruction form.
///
var directives = map[string]bool{
	"BYTE":  true,
	"WORD":  true,
	"ALIGN": true,
	"PAD":   true,
}

/// A form is one operand layout a mnemonic accepts and its encoding.
/// Operand values are passed to encode in order; special registers and
/// [I] pass 0.
///
type form struct {
	operands []operand
	encode   func(v []int) int
}

/// Every mnemonic of the base instruction set and its forms.
///
var forms = map[string][]form{
	"NOP":  {{nil, fixed(0x0000)}},
	"CLS":  {{nil, fixed(0x00E0)}},
	"RET":  {{nil, fixed(0x00EE)}},
	"JP":   {{[]operand{opAddr}, nnn(0x1000, 0)}, {[]operand{opV0, opAddr}, nnn(0xB000, 1)}},
	"CALL": {{[]operand{opAddr}, nnn(0x2000, 0)}},
	"SE":   {{[]operand{opV, opV}, xy(0x5000)}, {[]operand{opV, opByte}, xkk(0x3000)}},
	"SNE":  {{[]operand{opV, opV}, xy(0x9000)}, {[]operand{opV, opByte}, xkk(0x4000)}},
	"SKP":  {{[]operand{opV}, regX(0xE09E, 0)}},
	"SKNP": {{[]operand{opV}, regX(0xE0A1, 0)}},
	"OR":   {{[]operand{opV, opV}, xy(0x8001)}},
	"AND":  {{[]operand{opV, opV}, xy(0x8002)}},
	"XOR":  {{[]operand{opV, opV}, xy(0x8003)}},
	"SUB":  {{[]operand{opV, opV}, xy(0x8005)}},
	"SUBN": {{[]operand{opV, opV}, xy(0x8007)}},
	"SHR":  {{[]operand{opV}, regX(0x8006, 0)}, {[]operand{opV, opV}, xy(0x8006)}},
	"SHL":  {{[]operand{opV}, regX(0x800E, 0)}, {[]operand{opV, opV}, xy(0x800E)}},
	"RND":  {{[]operand{opV, opByte}, xkk(0xC000)}},
	"DRW":  {{[]operand{opV, opV, opByte}, encodeDRW}},
	"ADD": {
		{[]operand{opV, opV}, xy(0x8004)},
		{[]operand{opV, opByte}, xkk(0x7000)},
		{[]operand{opI, opV}, regX(0xF01E, 1)},
	},
	"LD": {
		{[]operand{opV, opV}, xy(0x8000)},
		{[]operand{opV, opByte}, xkk(0x6000)},
		{[]operand{opI, opAddr}, nnn(0xA000, 1)},
		{[]operand{opV, opDT}, regX(0xF007, 0)},
		{[]operand{opV, opK}, regX(0xF00A, 0)},
		{[]operand{opDT, opV}, regX(0xF015, 1)},
		{[]operand{opST, opV}, regX(0xF018, 1)},
		{[]operand{opF, opV}, regX(0xF029, 1)},
		{[]operand{opB, opV}, regX(0xF033, 1)},
		{[]operand{opIndirect, opV}, regX(0xF055, 1)},
		{[]operand{opV, opIndirect}, regX(0xF065, 0)},
	},
}

func fixed(op int) func([]int) int {
	return func([]int) int { return op }
}

/// Register operand i in bits 8-11.
///
func regX(op, i int) func([]int) int {
	return func(v []int) int { return op | v[i]<<8 }
}

func xy(op int) func([]int) int {
	return func(v []int) int { return op | v[0]<<8 | v[1]<<4 }
}

func xkk(op int) func([]int) int {
	return func(v []int) int { return op | v[0]<<8 | immediate(v[1]) }
}

/// Address operand i in the low 12 bits.
///
func nnn(op, i int) func([]int) int {
	return func(v []int) int { return op | address(v[i]) }
}

func encodeDRW(v []int) int {
	if v[2] < 0 || v[2] > 0xF {
		panic("sprite height out of range")
	}

	return 0xD000 | v[0]<<8 | v[1]<<4 | v[2]
}

/// Validate a 12-bit address.
///
func address(n int) int {
	if n >= 0 && n < 0x1000 {
		return n
	}

	panic("address out of range")
}

/// Validate a byte. Negative values are two's complement.
///
func immediate(n int) int {
	if n >= -128 && n < 0x100 {
		return n & 0xFF
	}

	panic("byte out of range")
}

/// Encode a 16-bit opcode.
///
func word(op int) []byte {
	return []byte{byte(op >> 8), byte(op & 0xFF)}
}

/// True for mnemonics and directives.
///
func mnemonic(name string) bool {
	_, ok := forms[name]

	return ok || directives[name]
}

/// True for names that can't be used as labels or constants.
///
func reserved(name string) bool {
	if _, ok := keywords[name]; ok {
		return true
	}

	if _, ok := register(name); ok {
		return true
	}

	return mnemonic(name) || name == "EQU" || name == "BREAK"
}

/// True if a token can fill an operand slot.
///
func matches(t token, op operand) bool {
	switch op {
	case opV:
		return t.kind == tokReg
	case opV0:
		return t.kind == tokReg && t.num == 0
	case opIndirect:
		return t.kind == tokIndirect
	case opByte, opAddr:
		return t.kind == tokNum || t.kind == tokIdent && !reserved(t.text)
	}

	kw, ok := keywords[t.text]

	return t.kind == tokIdent && ok && kw == op
}

/// Compile a single line into the assembly.
///
func (a *Assembly) assemble(s *lineScanner) {
	t := s.next()

	// assign labels
	if t.kind == tokLabel {
		t = a.assembleLabel(t.text, s)
	}

	switch {
	case t.kind == tokEnd:
	case t.kind == tokIdent && t.text == "BREAK":
		a.Breakpoints = append(a.Breakpoints, Breakpoint{
			Address: uint16(len(a.ROM)),
			Reason:  s.rest(),
		})
	case t.kind == tokIdent && mnemonic(t.text):
		a.assembleInstruction(t.text, s.operands())
	default:
		panic("unexpected token")
	}
}

/// Define a label at the current address, or with EQU, as a constant.
/// Returns the token following the label.
///
func (a *Assembly) assembleLabel(label string, s *lineScanner) token {
	if reserved(label) {
		panic(fmt.Errorf("reserved word used as label: %s", label))
	}

	if _, exists := a.Labels[label]; exists {
		panic("duplicate label")
	}

	a.Labels[label] = len(a.ROM)

	t := s.next()
	if t.kind != tokIdent || t.text != "EQU" {
		return t
	}

	v, ok := a.assembleOperands(s.operands(), opByte)
	if !ok {
		panic("illegal label assignment")
	}

	a.Labels[label] = v[0]

	return token{kind: tokEnd}
}

/// Compile a single instruction or directive into the assembly.
///
func (a *Assembly) assembleInstruction(name string, tokens []token) {
	switch name {
	case "BYTE":
		a.ROM = append(a.ROM, a.assembleBYTE(tokens)...)
	case "WORD":
		a.ROM = append(a.ROM, a.assembleWORD(tokens)...)
	case "ALIGN":
		a.ROM = append(a.ROM, a.assembleALIGN(tokens)...)
	case "PAD":
		a.ROM = append(a.ROM, a.assemblePAD(tokens)...)
	default:
		for _, f := range forms[name] {
			if v, ok := a.assembleOperands(tokens, f.operands...); ok {
				a.ROM = append(a.ROM, word(f.encode(v))...)
				return
			}
		}

		panic("illegal instruction")
	}
}

/// Match tokens against the operand classes of a form and return their
/// values. Nothing is recorded unless every operand matches.
///
func (a *Assembly) assembleOperands(tokens []token, m ...operand) ([]int, bool) {
	if len(tokens) != len(m) {
		return nil, false
	}

	for i, op := range m {
		if !matches(tokens[i], op) {
			return nil, false
		}
	}

	v := make([]int, len(m))
	for i, op := range m {
		v[i] = a.value(tokens[i], op, len(a.ROM))
	}

	return v, true
}

/// The value of a matched operand. A label not defined yet is recorded
/// for patching at ROM offset at.
///
func (a *Assembly) value(t token, op operand, at int) int {
	if t.kind != tokIdent {
		return t.num
	}

	if _, ok := keywords[t.text]; ok {
		return 0
	}

	if v, ok := a.Labels[t.text]; ok {
		return v
	}

	if op != opAddr {
		panic(fmt.Errorf("undefined constant: %s", t.text))
	}

	a.unresolved[at] = t.text

	return ProgramStart
}

/// Assemble a BYTE directive of literals, constants and strings.
///
func (a *Assembly) assembleBYTE(tokens []token) []byte {
	if len(tokens) == 0 {
		panic("expected operand")
	}

	b := make([]byte, 0, len(tokens))

	for _, t := range tokens {
		switch {
		case t.kind == tokText:
			b = append(b, t.text...)
		case matches(t, opByte):
			b = append(b, byte(immediate(a.value(t, opByte, 0))))
		default:
			panic("illegal byte")
		}
	}

	return b
}

/// Assemble a WORD directive of literals and addresses.
///
func (a *Assembly) assembleWORD(tokens []token) []byte {
	if len(tokens) == 0 {
		panic("expected operand")
	}

	b := make([]byte, 0, len(tokens)*2)

	for _, t := range tokens {
		if !matches(t, opAddr) {
			panic("illegal word")
		}

		// each word is patched in place at its own address
		n := a.value(t, opAddr, len(a.ROM)+len(b))

		if n < -0x8000 || n > 0xFFFF {
			panic("word out of range")
		}

		b = append(b, byte(n>>8), byte(n&0xFF))
	}

	return b
}

/// Align the ROM to an even address so instructions can follow data.
///
func (a *Assembly) assembleALIGN(tokens []token) []byte {
	if len(tokens) != 0 {
		panic("unexpected operand")
	}

	if len(a.ROM)&1 == 1 {
		return []byte{0}
	}

	return nil
}

/// Reserve a number of zero bytes.
///
func (a *Assembly) assemblePAD(tokens []token) []byte {
	if v, ok := a.assembleOperands(tokens, opByte); ok {
		if v[0] >= 0 && v[0] <= MemorySize {
			return make([]byte, v[0])
		}
	}

	panic("illegal pad")
}
