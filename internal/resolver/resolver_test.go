package resolver

import (
	"errors"
	"testing"

	"github.com/leapstack-labs/stepkit/internal/ast"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func rec(id uint64, typeName string, params ...ast.Value) *ast.EntityRecord {
	return &ast.EntityRecord{ID: id, Subtypes: []ast.Subtype{{Name: typeName, Params: params}}}
}

func TestResolve_Closure(t *testing.T) {
	records := []*ast.EntityRecord{
		rec(1, "A", ast.Ref(2), ast.ListOf(ast.Ref(3))),
		rec(2, "B"),
		rec(3, "C", ast.Typed("WRAP", ast.Ref(1))),
	}
	g, err := Resolve(ast.HeaderBlock{}, records)
	require.NoError(t, err)
	require.Equal(t, 3, g.Len())

	// Every reference anywhere in the graph has a defining record.
	for _, id := range g.IDs() {
		err := g.Records[id].WalkRefs(func(ref uint64) error {
			_, ok := g.Record(ref)
			assert.True(t, ok, "reference #%d unresolved", ref)
			return nil
		})
		require.NoError(t, err)
	}
}

func TestResolve_CyclesAreLegal(t *testing.T) {
	records := []*ast.EntityRecord{
		rec(1, "A", ast.Ref(2)),
		rec(2, "B", ast.Ref(1)),
		rec(3, "SELF", ast.Ref(3)),
	}
	_, err := Resolve(ast.HeaderBlock{}, records)
	require.NoError(t, err)
}

func TestResolve_DanglingReference(t *testing.T) {
	records := []*ast.EntityRecord{
		rec(1, "A", ast.Ref(99)),
	}
	_, err := Resolve(ast.HeaderBlock{}, records)
	require.Error(t, err)

	var unres *UnresolvedReferenceError
	require.ErrorAs(t, err, &unres)
	assert.Equal(t, uint64(1), unres.ReferencingID)
	assert.Equal(t, uint64(99), unres.MissingID)
}

func TestResolve_DanglingReferenceDeepInNesting(t *testing.T) {
	records := []*ast.EntityRecord{
		rec(1, "A", ast.ListOf(ast.ListOf(ast.Typed("WRAP", ast.Ref(42))))),
	}
	_, err := Resolve(ast.HeaderBlock{}, records)

	var unres *UnresolvedReferenceError
	require.ErrorAs(t, err, &unres)
	assert.Equal(t, uint64(42), unres.MissingID)
}

func TestResolve_NoPartialGraphOnFailure(t *testing.T) {
	records := []*ast.EntityRecord{
		rec(1, "A"),
		rec(2, "B", ast.Ref(5)),
	}
	g, err := Resolve(ast.HeaderBlock{}, records)
	require.Error(t, err)
	assert.Nil(t, g)
}

func TestResolve_ComplexRecordParamsWalked(t *testing.T) {
	records := []*ast.EntityRecord{
		{ID: 1, Subtypes: []ast.Subtype{
			{Name: "NAMED_UNIT", Params: []ast.Value{ast.Redeclared()}},
			{Name: "SI_UNIT", Params: []ast.Value{ast.Ref(9), ast.Enum("METRE")}},
		}},
	}
	_, err := Resolve(ast.HeaderBlock{}, records)
	var unres *UnresolvedReferenceError
	require.ErrorAs(t, err, &unres)
	assert.Equal(t, uint64(9), unres.MissingID)
}

func TestResolveGraph_ValidatesBuiltGraphs(t *testing.T) {
	b := ast.NewGraphBuilder(nil)
	id := b.Add("A", ast.Ref(99))
	g := b.Graph()

	err := ResolveGraph(g)
	var unres *UnresolvedReferenceError
	require.ErrorAs(t, err, &unres)
	assert.Equal(t, id, unres.ReferencingID)

	// Adding the target makes the same graph valid.
	g.Records[99] = &ast.EntityRecord{ID: 99, Subtypes: []ast.Subtype{{Name: "B"}}}
	require.NoError(t, ResolveGraph(g))
}

func TestResolve_ErrorMessage(t *testing.T) {
	err := &UnresolvedReferenceError{ReferencingID: 17, MissingID: 99}
	assert.Equal(t, "entity #17 references undefined entity #99", err.Error())
	assert.False(t, errors.Is(err, errors.New("entity")))
}
