package lexer

import "fmt"

// ErrKind classifies lexical errors.
type ErrKind int

const (
	// ErrUnterminatedString: input ended inside a quoted string or binary
	// literal.
	ErrUnterminatedString ErrKind = iota
	// ErrUnterminatedComment: input ended inside a /* */ comment.
	ErrUnterminatedComment
	// ErrMalformedNumber: a numeric literal with invalid syntax, e.g. a bare
	// sign or a dangling exponent.
	ErrMalformedNumber
	// ErrDanglingReferenceMarker: '#' not followed by digits.
	ErrDanglingReferenceMarker
	// ErrUnexpectedCharacter: a byte with no place in the grammar.
	ErrUnexpectedCharacter
)

func (k ErrKind) String() string {
	switch k {
	case ErrUnterminatedString:
		return "unterminated string"
	case ErrUnterminatedComment:
		return "unterminated comment"
	case ErrMalformedNumber:
		return "malformed number"
	case ErrDanglingReferenceMarker:
		return "dangling reference marker"
	case ErrUnexpectedCharacter:
		return "unexpected character"
	}
	return "lex error"
}

// Error is a lexical error with its source position.
type Error struct {
	Kind   ErrKind
	Pos    Position
	Detail string
}

func (e *Error) Error() string {
	if e.Detail != "" {
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Detail)
	}
	return fmt.Sprintf("%s at %s", e.Kind, e.Pos)
}
