package parser

import (
	"fmt"

	"github.com/leapstack-labs/stepkit/internal/lexer"
)

// ErrKind classifies structural parse errors.
type ErrKind int

const (
	// ErrUnbalancedParens: a '(' without its matching ')'.
	ErrUnbalancedParens ErrKind = iota
	// ErrMissingTerminator: a statement without its ';' or a section without
	// its ENDSEC.
	ErrMissingTerminator
	// ErrUnexpectedToken: a token with no place in the grammar at this
	// position.
	ErrUnexpectedToken
	// ErrDuplicateEntityID: two records defining the same #id.
	ErrDuplicateEntityID
)

func (k ErrKind) String() string {
	switch k {
	case ErrUnbalancedParens:
		return "unbalanced parentheses"
	case ErrMissingTerminator:
		return "missing terminator"
	case ErrUnexpectedToken:
		return "unexpected token"
	case ErrDuplicateEntityID:
		return "duplicate entity id"
	}
	return "parse error"
}

// Error is a structural parse error with its source position. For duplicate
// ids, ID carries the offending entity id.
type Error struct {
	Kind   ErrKind
	Pos    lexer.Position
	ID     uint64
	Detail string
}

func (e *Error) Error() string {
	switch {
	case e.Kind == ErrDuplicateEntityID:
		return fmt.Sprintf("%s #%d at %s", e.Kind, e.ID, e.Pos)
	case e.Detail != "":
		return fmt.Sprintf("%s at %s: %s", e.Kind, e.Pos, e.Detail)
	default:
		return fmt.Sprintf("%s at %s", e.Kind, e.Pos)
	}
}
