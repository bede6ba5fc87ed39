// Package lexer tokenizes the ISO 10303-21 clear-text encoding.
//
// The lexer is a forward-only scanner over a byte slice; create a new Lexer
// to restart from the beginning. Line breaks are ordinary whitespace except
// inside quoted strings, where they are preserved as content.
package lexer

import (
	"strconv"
	"strings"
)

// Lexer scans Part-21 source into tokens.
type Lexer struct {
	src  []byte
	off  int
	line int
	col  int
}

// New returns a lexer positioned at the start of src.
func New(src []byte) *Lexer {
	return &Lexer{src: src, line: 1, col: 1}
}

func (l *Lexer) pos() Position {
	return Position{Line: l.line, Column: l.col, Offset: l.off}
}

func (l *Lexer) peek() (byte, bool) {
	if l.off >= len(l.src) {
		return 0, false
	}
	return l.src[l.off], true
}

func (l *Lexer) peekAt(n int) (byte, bool) {
	if l.off+n >= len(l.src) {
		return 0, false
	}
	return l.src[l.off+n], true
}

// advance consumes one byte, tracking line and column.
func (l *Lexer) advance() byte {
	c := l.src[l.off]
	l.off++
	if c == '\n' {
		l.line++
		l.col = 1
	} else {
		l.col++
	}
	return c
}

func isDigit(c byte) bool  { return c >= '0' && c <= '9' }
func isLetter(c byte) bool { return c >= 'A' && c <= 'Z' || c >= 'a' && c <= 'z' }

// Keywords continue with letters, digits, underscores and hyphens; hyphens
// occur only in the file wrapper keywords (ISO-10303-21) but are harmless to
// accept generally since a sign token never follows a keyword character.
func isKeywordPart(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_' || c == '-'
}

func isEnumPart(c byte) bool {
	return isLetter(c) || isDigit(c) || c == '_'
}

// skipBlank consumes whitespace and comments. Comments do not nest.
func (l *Lexer) skipBlank() error {
	for {
		c, ok := l.peek()
		if !ok {
			return nil
		}
		switch {
		case c == ' ' || c == '\t' || c == '\r' || c == '\n':
			l.advance()
		case c == '/':
			next, ok := l.peekAt(1)
			if !ok || next != '*' {
				return &Error{Kind: ErrUnexpectedCharacter, Pos: l.pos(), Detail: "'/'"}
			}
			start := l.pos()
			l.advance()
			l.advance()
			for {
				c, ok := l.peek()
				if !ok {
					return &Error{Kind: ErrUnterminatedComment, Pos: start}
				}
				l.advance()
				if c == '*' {
					if next, ok := l.peek(); ok && next == '/' {
						l.advance()
						break
					}
				}
			}
		default:
			return nil
		}
	}
}

// Next returns the next token, or a *Error on invalid input. After the input
// is exhausted it returns a token of KindEOF.
func (l *Lexer) Next() (Token, error) {
	if err := l.skipBlank(); err != nil {
		return Token{}, err
	}
	pos := l.pos()
	c, ok := l.peek()
	if !ok {
		return Token{Kind: KindEOF, Pos: pos}, nil
	}

	switch {
	case c == '(':
		l.advance()
		return Token{Kind: KindLParen, Text: "(", Pos: pos}, nil
	case c == ')':
		l.advance()
		return Token{Kind: KindRParen, Text: ")", Pos: pos}, nil
	case c == ',':
		l.advance()
		return Token{Kind: KindComma, Text: ",", Pos: pos}, nil
	case c == ';':
		l.advance()
		return Token{Kind: KindSemicolon, Text: ";", Pos: pos}, nil
	case c == '=':
		l.advance()
		return Token{Kind: KindEquals, Text: "=", Pos: pos}, nil
	case c == '$':
		l.advance()
		return Token{Kind: KindOmitted, Text: "$", Pos: pos}, nil
	case c == '*':
		l.advance()
		return Token{Kind: KindRedeclared, Text: "*", Pos: pos}, nil
	case c == '#':
		return l.lexEntityID(pos)
	case c == '\'':
		return l.lexString(pos)
	case c == '"':
		return l.lexBinary(pos)
	case c == '.':
		if next, ok := l.peekAt(1); ok && isDigit(next) {
			return l.lexNumber(pos)
		}
		return l.lexEnum(pos)
	case c == '+' || c == '-' || isDigit(c):
		return l.lexNumber(pos)
	case isLetter(c):
		return l.lexKeyword(pos)
	}
	return Token{}, &Error{Kind: ErrUnexpectedCharacter, Pos: pos, Detail: strconv.QuoteRune(rune(c))}
}

func (l *Lexer) lexEntityID(pos Position) (Token, error) {
	l.advance() // '#'
	start := l.off
	for {
		c, ok := l.peek()
		if !ok || !isDigit(c) {
			break
		}
		l.advance()
	}
	if l.off == start {
		return Token{}, &Error{Kind: ErrDanglingReferenceMarker, Pos: pos}
	}
	text := string(l.src[start:l.off])
	id, err := strconv.ParseUint(text, 10, 64)
	if err != nil {
		return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos, Detail: "#" + text}
	}
	return Token{Kind: KindEntityID, Text: text, ID: id, Pos: pos}, nil
}

func (l *Lexer) lexString(pos Position) (Token, error) {
	l.advance() // opening quote
	var sb strings.Builder
	for {
		c, ok := l.peek()
		if !ok {
			return Token{}, &Error{Kind: ErrUnterminatedString, Pos: pos}
		}
		l.advance()
		if c != '\'' {
			sb.WriteByte(c)
			continue
		}
		// A doubled quote is an escaped quote; a lone quote terminates.
		if next, ok := l.peek(); ok && next == '\'' {
			l.advance()
			sb.WriteByte('\'')
			continue
		}
		return Token{Kind: KindString, Text: sb.String(), Pos: pos}, nil
	}
}

func (l *Lexer) lexBinary(pos Position) (Token, error) {
	l.advance() // opening '"'
	start := l.off
	for {
		c, ok := l.peek()
		if !ok {
			return Token{}, &Error{Kind: ErrUnterminatedString, Pos: pos}
		}
		if c == '"' {
			text := string(l.src[start:l.off])
			l.advance()
			return Token{Kind: KindBinary, Text: text, Pos: pos}, nil
		}
		l.advance()
	}
}

func (l *Lexer) lexEnum(pos Position) (Token, error) {
	l.advance() // leading '.'
	start := l.off
	for {
		c, ok := l.peek()
		if !ok || !isEnumPart(c) {
			break
		}
		l.advance()
	}
	if l.off == start {
		// A lone '.' is a broken numeric literal, not an enumeration.
		return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos, Detail: "'.'"}
	}
	if c, ok := l.peek(); !ok || c != '.' {
		return Token{}, &Error{Kind: ErrUnexpectedCharacter, Pos: pos,
			Detail: "enumeration missing closing '.'"}
	}
	text := string(l.src[start:l.off])
	l.advance() // closing '.'
	return Token{Kind: KindEnum, Text: text, Pos: pos}, nil
}

func (l *Lexer) lexNumber(pos Position) (Token, error) {
	start := l.off
	if c, ok := l.peek(); ok && (c == '+' || c == '-') {
		l.advance()
		if c, ok := l.peek(); !ok || !(isDigit(c) || c == '.') {
			return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos,
				Detail: "sign without digits"}
		}
	}
	digits := l.consumeDigits()
	isReal := false
	if c, ok := l.peek(); ok && c == '.' {
		isReal = true
		l.advance()
		digits += l.consumeDigits()
	}
	if digits == 0 {
		return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos, Detail: "'.'"}
	}
	if c, ok := l.peek(); ok && (c == 'e' || c == 'E') {
		isReal = true
		l.advance()
		if c, ok := l.peek(); ok && (c == '+' || c == '-') {
			l.advance()
		}
		if l.consumeDigits() == 0 {
			return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos,
				Detail: "dangling exponent"}
		}
	}

	text := string(l.src[start:l.off])
	if isReal {
		v, err := strconv.ParseFloat(text, 64)
		if err != nil {
			return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos, Detail: text}
		}
		return Token{Kind: KindReal, Text: text, Real: v, Pos: pos}, nil
	}
	v, err := strconv.ParseInt(text, 10, 64)
	if err != nil {
		return Token{}, &Error{Kind: ErrMalformedNumber, Pos: pos, Detail: text}
	}
	return Token{Kind: KindInteger, Text: text, Int: v, Pos: pos}, nil
}

func (l *Lexer) consumeDigits() int {
	n := 0
	for {
		c, ok := l.peek()
		if !ok || !isDigit(c) {
			return n
		}
		l.advance()
		n++
	}
}

func (l *Lexer) lexKeyword(pos Position) (Token, error) {
	start := l.off
	for {
		c, ok := l.peek()
		if !ok || !isKeywordPart(c) {
			break
		}
		l.advance()
	}
	return Token{Kind: KindKeyword, Text: string(l.src[start:l.off]), Pos: pos}, nil
}
