package lexer

import "fmt"

// Kind identifies the lexical class of a token.
type Kind int

const (
	// KindKeyword is an entity or section keyword such as CARTESIAN_POINT,
	// HEADER, or the file wrapper ISO-10303-21.
	KindKeyword Kind = iota
	// KindEntityID is an instance name: '#' followed by an unsigned integer.
	KindEntityID
	// KindInteger is a signed integer literal.
	KindInteger
	// KindReal is a signed real literal, optionally with an exponent.
	KindReal
	// KindString is a quoted string; Text holds the decoded content.
	KindString
	// KindEnum is an enumeration literal .NAME. ; Text holds NAME.
	KindEnum
	// KindBinary is a binary literal "..." ; Text holds the hex content.
	KindBinary
	// KindOmitted is the unset-attribute marker '$'.
	KindOmitted
	// KindRedeclared is the derived-attribute marker '*'.
	KindRedeclared
	KindLParen
	KindRParen
	KindComma
	KindSemicolon
	KindEquals
	// KindEOF marks the end of input.
	KindEOF
)

func (k Kind) String() string {
	switch k {
	case KindKeyword:
		return "keyword"
	case KindEntityID:
		return "entity id"
	case KindInteger:
		return "integer"
	case KindReal:
		return "real"
	case KindString:
		return "string"
	case KindEnum:
		return "enumeration"
	case KindBinary:
		return "binary"
	case KindOmitted:
		return "'$'"
	case KindRedeclared:
		return "'*'"
	case KindLParen:
		return "'('"
	case KindRParen:
		return "')'"
	case KindComma:
		return "','"
	case KindSemicolon:
		return "';'"
	case KindEquals:
		return "'='"
	case KindEOF:
		return "end of input"
	}
	return "unknown"
}

// Position is a location in the source, 1-based line and column plus the
// 0-based byte offset.
type Position struct {
	Line   int
	Column int
	Offset int
}

func (p Position) String() string {
	return fmt.Sprintf("%d:%d", p.Line, p.Column)
}

// Token is one lexical unit of a Part-21 file.
//
// Text carries the payload: decoded content for strings, the name for
// keywords and enumerations, the literal as written for numbers. Numeric
// tokens additionally carry the parsed value in Int or Real, entity-id
// tokens in ID.
type Token struct {
	Kind Kind
	Text string
	Int  int64
	Real float64
	ID   uint64
	Pos  Position
}
