// Package resolver links a parsed record table into an entity graph by
// validating that every reference points at a defined instance. Links stay
// id-based lookups rather than pointers, so reference cycles between
// entities (legal in STEP) cannot cause non-termination: the walk only
// inspects literal parameter trees, never a live object graph.
package resolver

import (
	"fmt"

	"github.com/leapstack-labs/stepkit/internal/ast"
)

// UnresolvedReferenceError reports the first reference whose target id has
// no defining record.
type UnresolvedReferenceError struct {
	ReferencingID uint64
	MissingID     uint64
}

func (e *UnresolvedReferenceError) Error() string {
	return fmt.Sprintf("entity #%d references undefined entity #%d",
		e.ReferencingID, e.MissingID)
}

// Resolve builds the id-keyed record table and walks every parameter tree,
// descending through lists and typed values, confirming each referenced id
// is defined. It fails fast on the first unresolved reference; no partial
// graph is returned. The parser has already rejected duplicate ids.
func Resolve(header ast.HeaderBlock, records []*ast.EntityRecord) (*ast.EntityGraph, error) {
	table := make(map[uint64]*ast.EntityRecord, len(records))
	for _, r := range records {
		table[r.ID] = r
	}

	for _, r := range records {
		err := r.WalkRefs(func(id uint64) error {
			if _, ok := table[id]; !ok {
				return &UnresolvedReferenceError{ReferencingID: r.ID, MissingID: id}
			}
			return nil
		})
		if err != nil {
			return nil, err
		}
	}

	return &ast.EntityGraph{Header: header, Records: table}, nil
}

// ResolveGraph re-validates an already assembled graph, typically one built
// programmatically. Same contract as Resolve.
func ResolveGraph(g *ast.EntityGraph) error {
	for _, id := range g.IDs() {
		r := g.Records[id]
		err := r.WalkRefs(func(ref uint64) error {
			if _, ok := g.Records[ref]; !ok {
				return &UnresolvedReferenceError{ReferencingID: r.ID, MissingID: ref}
			}
			return nil
		})
		if err != nil {
			return err
		}
	}
	return nil
}
