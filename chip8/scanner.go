package chip8

import (
	"fmt"
	"strconv"
	"strings"
)

/// Lexical classes of an assembly line. Mnemonics, directives and the
/// special registers (I, DT, ST, K, F, B) are all scanned as identifiers
/// and told apart by the assembler.
///
type tokenKind uint8

const (
	tokEnd      tokenKind = iota // end of line or comment
	tokLabel                     // .NAME in the first column
	tokIdent                     // mnemonic, keyword or label reference
	tokReg                       // V0-VF, num is the register index
	tokIndirect                  // [I]
	tokNum                       // numeric literal
	tokText                      // quoted string
)

/// A scanned token. Which field is set depends on kind.
///
type token struct {
	kind tokenKind
	text string
	num  int
}

/// Scanner over a single, upper cased, line of assembly source.
///
type lineScanner struct {
	line []byte
	pos  int
}

/// Advance past blanks and control characters.
///
func (s *lineScanner) skipSpace() {
	for s.pos < len(s.line) && s.line[s.pos] <= ' ' {
		s.pos++
	}
}

/// True if the scanner is out of tokens for this line.
///
func (s *lineScanner) atEnd() bool {
	s.skipSpace()

	return s.pos >= len(s.line) || s.line[s.pos] == ';'
}

/// Scan the next token. Only a label may start in the first column.
///
func (s *lineScanner) next() token {
	if s.atEnd() {
		s.pos = len(s.line)
		return token{kind: tokEnd}
	}

	c := s.line[s.pos]

	switch {
	case s.pos == 0:
		return s.label()
	case c == '[':
		return s.indirect()
	case c == '"' || c == '\'':
		return s.text(c)
	case c == '#' || c == '$' || c == '-' || isDigit(c):
		return token{kind: tokNum, num: s.literal()}
	case isAlpha(c):
		return s.word()
	}

	panic(fmt.Errorf("unexpected character: %c", c))
}

/// Scan a comma-separated operand list through the end of the line.
///
func (s *lineScanner) operands() []token {
	var ops []token

	if s.atEnd() {
		return ops
	}

	for {
		t := s.next()
		if t.kind == tokEnd {
			panic("expected operand")
		}

		ops = append(ops, t)

		if s.atEnd() {
			return ops
		}

		// anything else between operands is an error
		if s.line[s.pos] != ',' {
			panic("expected comma")
		}

		s.pos++
	}
}

/// Return what is left of the line, trimmed.
///
func (s *lineScanner) rest() string {
	text := strings.TrimSpace(string(s.line[s.pos:]))
	s.pos = len(s.line)

	return text
}

/// Scan a label definition.
///
func (s *lineScanner) label() token {
	if s.line[s.pos] != '.' {
		panic("expected .label")
	}

	s.pos++

	// labels must start with a letter
	if s.pos >= len(s.line) || !isAlpha(s.line[s.pos]) {
		panic("expected label")
	}

	return token{kind: tokLabel, text: s.identifier()}
}

/// Scan an identifier or a V register.
///
func (s *lineScanner) word() token {
	id := s.identifier()

	if n, ok := register(id); ok {
		return token{kind: tokReg, text: id, num: n}
	}

	return token{kind: tokIdent, text: id}
}

/// Scan the [I] operand of LD.
///
func (s *lineScanner) indirect() token {
	s.pos++
	s.skipSpace()

	if s.pos >= len(s.line) || s.identifier() != "I" {
		panic("illegal indirection")
	}

	s.skipSpace()

	if s.pos >= len(s.line) || s.line[s.pos] != ']' {
		panic("illegal indirection")
	}

	s.pos++

	return token{kind: tokIndirect, text: "[I]"}
}

/// Scan a quoted string.
///
func (s *lineScanner) text(quote byte) token {
	s.pos++
	start := s.pos

	for s.pos < len(s.line) && s.line[s.pos] != quote {
		s.pos++
	}

	if s.pos >= len(s.line) {
		panic("unterminated string")
	}

	s.pos++

	return token{kind: tokText, text: string(s.line[start : s.pos-1])}
}

/// Scan a number: decimal with an optional minus sign, #hex, or $binary
/// where '.' may stand in for 0 so sprites can be drawn in the source.
///
func (s *lineScanner) literal() int {
	start := s.pos

	base, digits := 10, "0123456789"
	neg := false

	switch s.line[s.pos] {
	case '#':
		base, digits = 16, "0123456789ABCDEF"
		s.pos++
	case '$':
		base, digits = 2, ".01"
		s.pos++
	case '-':
		neg = true
		s.pos++
	}

	from := s.pos

	for s.pos < len(s.line) && strings.IndexByte(digits, s.line[s.pos]) >= 0 {
		s.pos++
	}

	v := strings.ReplaceAll(string(s.line[from:s.pos]), ".", "0")

	n, err := strconv.ParseInt(v, base, 32)
	if err != nil {
		panic(fmt.Errorf("illegal literal: %s", string(s.line[start:s.pos])))
	}

	if neg {
		n = -n
	}

	return int(n)
}

/// Scan letters, digits and underscores.
///
func (s *lineScanner) identifier() string {
	start := s.pos

	for s.pos < len(s.line) && (isAlpha(s.line[s.pos]) || isDigit(s.line[s.pos])) {
		s.pos++
	}

	return string(s.line[start:s.pos])
}

/// Parse V0-VF.
///
func register(id string) (int, bool) {
	if len(id) != 2 || id[0] != 'V' {
		return 0, false
	}

	n, err := strconv.ParseUint(id[1:], 16, 8)
	if err != nil {
		return 0, false
	}

	return int(n), true
}

func isAlpha(c byte) bool {
	return c >= 'A' && c <= 'Z' || c == '_'
}

func isDigit(c byte) bool {
	return c >= '0' && c <= '9'
}
