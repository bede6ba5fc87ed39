// Package parser builds the raw structural model of a Part-21 file: the
// header block and the ordered data-section record table. References are
// recorded as plain ids; resolution against the full table is a separate
// pass, since STEP files routinely reference later-defined instances.
package parser

import (
	"github.com/leapstack-labs/stepkit/internal/ast"
	"github.com/leapstack-labs/stepkit/internal/lexer"
)

// Section and wrapper keywords (ISO 10303-21 clause 5).
const (
	kwFileStart = "ISO-10303-21"
	kwFileEnd   = "END-ISO-10303-21"
	kwHeader    = "HEADER"
	kwData      = "DATA"
	kwEndsec    = "ENDSEC"
)

// Parser consumes the token stream of a single file. It is single-use; each
// Parse call uses a fresh Parser.
type Parser struct {
	lx   *lexer.Lexer
	tok  lexer.Token
	seen map[uint64]bool
}

// Parse lexes and parses src in one forward pass, returning the header block
// and the data-section records in file order. Files without the outer
// ISO-10303-21 wrapper are accepted as long as the HEADER and DATA sections
// are present; missing section terminators are fatal.
func Parse(src []byte) (ast.HeaderBlock, []*ast.EntityRecord, error) {
	p := &Parser{lx: lexer.New(src), seen: make(map[uint64]bool)}
	return p.parseFile()
}

// next advances the cursor by one token.
func (p *Parser) next() error {
	tok, err := p.lx.Next()
	if err != nil {
		return err
	}
	p.tok = tok
	return nil
}

func (p *Parser) expect(kind lexer.Kind) error {
	if p.tok.Kind != kind {
		return p.unexpected("expected " + kind.String())
	}
	return p.next()
}

func (p *Parser) unexpected(detail string) error {
	return &Error{Kind: ErrUnexpectedToken, Pos: p.tok.Pos,
		Detail: detail + ", got " + p.tok.Kind.String()}
}

func (p *Parser) atKeyword(name string) bool {
	return p.tok.Kind == lexer.KindKeyword && p.tok.Text == name
}

// expectStatementKeyword consumes `NAME ;`.
func (p *Parser) expectStatementKeyword(name string) error {
	if !p.atKeyword(name) {
		return p.unexpected("expected " + name)
	}
	if err := p.next(); err != nil {
		return err
	}
	return p.expect(lexer.KindSemicolon)
}

func (p *Parser) parseFile() (ast.HeaderBlock, []*ast.EntityRecord, error) {
	var header ast.HeaderBlock

	if err := p.next(); err != nil {
		return header, nil, err
	}

	wrapped := p.atKeyword(kwFileStart)
	if wrapped {
		if err := p.expectStatementKeyword(kwFileStart); err != nil {
			return header, nil, err
		}
	}

	if err := p.expectStatementKeyword(kwHeader); err != nil {
		return header, nil, err
	}
	header, err := p.parseHeaderSection()
	if err != nil {
		return header, nil, err
	}

	if err := p.expectStatementKeyword(kwData); err != nil {
		return header, nil, err
	}
	records, err := p.parseDataSection()
	if err != nil {
		return header, nil, err
	}

	// The closing wrapper is required when the file opened with one, and
	// tolerated when it did not.
	if p.atKeyword(kwFileEnd) {
		if err := p.expectStatementKeyword(kwFileEnd); err != nil {
			return header, nil, err
		}
	} else if wrapped {
		return header, nil, &Error{Kind: ErrMissingTerminator, Pos: p.tok.Pos,
			Detail: "expected " + kwFileEnd}
	}

	if p.tok.Kind != lexer.KindEOF {
		return header, nil, p.unexpected("expected end of file")
	}
	return header, records, nil
}

// parseHeaderSection parses header entities up to the section's ENDSEC.
func (p *Parser) parseHeaderSection() (ast.HeaderBlock, error) {
	var header ast.HeaderBlock
	for {
		if p.atKeyword(kwEndsec) {
			return header, p.expectStatementKeyword(kwEndsec)
		}
		if p.tok.Kind == lexer.KindEOF {
			return header, &Error{Kind: ErrMissingTerminator, Pos: p.tok.Pos,
				Detail: "header section not closed with ENDSEC"}
		}
		if p.tok.Kind != lexer.KindKeyword {
			return header, p.unexpected("expected a header entity name")
		}
		name := p.tok.Text
		if err := p.next(); err != nil {
			return header, err
		}
		params, err := p.parseParamList()
		if err != nil {
			return header, err
		}
		if err := p.expect(lexer.KindSemicolon); err != nil {
			return header, err
		}
		header.Entities = append(header.Entities, ast.HeaderEntity{Name: name, Params: params})
	}
}

// parseDataSection parses entity records up to the section's ENDSEC,
// rejecting duplicate ids as it goes so a later definition can never
// silently shadow an earlier one.
func (p *Parser) parseDataSection() ([]*ast.EntityRecord, error) {
	var records []*ast.EntityRecord
	for {
		if p.atKeyword(kwEndsec) {
			return records, p.expectStatementKeyword(kwEndsec)
		}
		if p.tok.Kind == lexer.KindEOF {
			return records, &Error{Kind: ErrMissingTerminator, Pos: p.tok.Pos,
				Detail: "data section not closed with ENDSEC"}
		}
		rec, err := p.parseRecord()
		if err != nil {
			return records, err
		}
		records = append(records, rec)
	}
}

// parseRecord parses `#id = TYPE(params);`, the complex internal mapping
// `#id = TYPE1(params1) TYPE2(params2) ...;`, or the complex external
// mapping `#id = (TYPE1(params1)TYPE2(params2)...);`.
func (p *Parser) parseRecord() (*ast.EntityRecord, error) {
	if p.tok.Kind != lexer.KindEntityID {
		return nil, p.unexpected("expected an entity id")
	}
	id := p.tok.ID
	idPos := p.tok.Pos
	if p.seen[id] {
		return nil, &Error{Kind: ErrDuplicateEntityID, Pos: idPos, ID: id}
	}
	p.seen[id] = true
	if err := p.next(); err != nil {
		return nil, err
	}
	if err := p.expect(lexer.KindEquals); err != nil {
		return nil, err
	}

	var subtypes []ast.Subtype
	switch p.tok.Kind {
	case lexer.KindKeyword:
		// Further subtype blocks before the ';' are the internal mapping.
		for p.tok.Kind == lexer.KindKeyword {
			st, err := p.parseSubtype()
			if err != nil {
				return nil, err
			}
			subtypes = append(subtypes, st)
		}
	case lexer.KindLParen:
		open := p.tok.Pos
		if err := p.next(); err != nil {
			return nil, err
		}
		for p.tok.Kind == lexer.KindKeyword {
			st, err := p.parseSubtype()
			if err != nil {
				return nil, err
			}
			subtypes = append(subtypes, st)
		}
		if p.tok.Kind != lexer.KindRParen {
			if p.tok.Kind == lexer.KindEOF {
				return nil, &Error{Kind: ErrUnbalancedParens, Pos: open}
			}
			return nil, p.unexpected("expected a subtype keyword or ')'")
		}
		if len(subtypes) == 0 {
			return nil, p.unexpected("expected at least one subtype")
		}
		if err := p.next(); err != nil {
			return nil, err
		}
	default:
		return nil, p.unexpected("expected a type name or '('")
	}

	if p.tok.Kind != lexer.KindSemicolon {
		return nil, &Error{Kind: ErrMissingTerminator, Pos: p.tok.Pos,
			Detail: "entity record not closed with ';'"}
	}
	if err := p.next(); err != nil {
		return nil, err
	}
	return &ast.EntityRecord{ID: id, Subtypes: subtypes}, nil
}

// parseSubtype parses `TYPE(params)` with the cursor on the type keyword.
func (p *Parser) parseSubtype() (ast.Subtype, error) {
	name := p.tok.Text
	if err := p.next(); err != nil {
		return ast.Subtype{}, err
	}
	params, err := p.parseParamList()
	if err != nil {
		return ast.Subtype{}, err
	}
	return ast.Subtype{Name: name, Params: params}, nil
}

// parseParamList parses `( v, v, ... )` with the cursor on '('. An empty
// list `()` is legal.
func (p *Parser) parseParamList() ([]ast.Value, error) {
	if p.tok.Kind != lexer.KindLParen {
		return nil, p.unexpected("expected '('")
	}
	open := p.tok.Pos
	if err := p.next(); err != nil {
		return nil, err
	}
	if p.tok.Kind == lexer.KindRParen {
		return []ast.Value{}, p.next()
	}
	var params []ast.Value
	for {
		v, err := p.parseValue()
		if err != nil {
			return nil, err
		}
		params = append(params, v)
		switch p.tok.Kind {
		case lexer.KindComma:
			if err := p.next(); err != nil {
				return nil, err
			}
		case lexer.KindRParen:
			return params, p.next()
		case lexer.KindEOF:
			return nil, &Error{Kind: ErrUnbalancedParens, Pos: open}
		default:
			return nil, p.unexpected("expected ',' or ')'")
		}
	}
}

// parseValue parses one parameter value. A keyword directly followed by a
// parenthesized value is a typed (select) wrapper and recurses.
func (p *Parser) parseValue() (ast.Value, error) {
	tok := p.tok
	switch tok.Kind {
	case lexer.KindInteger:
		return ast.Integer(tok.Int), p.next()
	case lexer.KindReal:
		return ast.Real(tok.Real, tok.Text), p.next()
	case lexer.KindString:
		return ast.String(tok.Text), p.next()
	case lexer.KindEnum:
		return ast.Enum(tok.Text), p.next()
	case lexer.KindBinary:
		return ast.Binary(tok.Text), p.next()
	case lexer.KindEntityID:
		return ast.Ref(tok.ID), p.next()
	case lexer.KindOmitted:
		return ast.Omitted(), p.next()
	case lexer.KindRedeclared:
		return ast.Redeclared(), p.next()
	case lexer.KindLParen:
		vs, err := p.parseParamList()
		if err != nil {
			return ast.Value{}, err
		}
		return ast.ListOf(vs...), nil
	case lexer.KindKeyword:
		name := tok.Text
		if err := p.next(); err != nil {
			return ast.Value{}, err
		}
		if p.tok.Kind != lexer.KindLParen {
			return ast.Value{}, p.unexpected("expected '(' after select type " + name)
		}
		open := p.tok.Pos
		if err := p.next(); err != nil {
			return ast.Value{}, err
		}
		inner, err := p.parseValue()
		if err != nil {
			return ast.Value{}, err
		}
		if p.tok.Kind != lexer.KindRParen {
			if p.tok.Kind == lexer.KindEOF {
				return ast.Value{}, &Error{Kind: ErrUnbalancedParens, Pos: open}
			}
			return ast.Value{}, p.unexpected("expected ')' closing select type " + name)
		}
		return ast.Typed(name, inner), p.next()
	}
	return ast.Value{}, p.unexpected("expected a parameter value")
}
