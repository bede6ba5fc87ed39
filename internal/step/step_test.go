package step

import (
	"bytes"
	"os"
	"path/filepath"
	"testing"

	"github.com/leapstack-labs/stepkit/internal/ast"
	"github.com/leapstack-labs/stepkit/internal/lexer"
	"github.com/leapstack-labs/stepkit/internal/parser"
	"github.com/leapstack-labs/stepkit/internal/resolver"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func readCube(t *testing.T) []byte {
	t.Helper()
	src, err := os.ReadFile(filepath.Join("testdata", "cube.step"))
	require.NoError(t, err)
	return src
}

func TestDecode_CubeFixture(t *testing.T) {
	g, err := DecodeBytes(readCube(t))
	require.NoError(t, err)

	assert.Equal(t, 182, g.Len())

	counts := g.TypeCounts()
	assert.Equal(t, 8, counts["VERTEX_POINT"], "a cube has eight corners")
	assert.Equal(t, 6, counts["ADVANCED_FACE"], "a cube has six faces")
	assert.Equal(t, 1, counts["MANIFOLD_SOLID_BREP"])
	assert.GreaterOrEqual(t, counts["CARTESIAN_POINT"], 8)

	desc, ok := g.Header.Find(ast.FileDescriptionName)
	require.True(t, ok)
	require.NotEmpty(t, desc.Params)
	_, ok = g.Header.Find(ast.FileSchemaName)
	assert.True(t, ok)

	// The unit context is a complex instance with its written subtype order.
	units, ok := g.Record(166)
	require.True(t, ok)
	require.False(t, units.Simple())
	assert.Equal(t, "LENGTH_UNIT", units.Subtypes[0].Name)
	assert.Equal(t, "SI_UNIT", units.Subtypes[2].Name)
}

func TestRoundTrip_CubeGraphEquality(t *testing.T) {
	original, err := DecodeBytes(readCube(t))
	require.NoError(t, err)

	reparsed, err := DecodeBytes(EncodeBytes(original))
	require.NoError(t, err)

	assert.True(t, original.Equal(reparsed),
		"graph parsed from written output differs from the input graph")
}

func TestRoundTrip_IdempotentAfterOnePass(t *testing.T) {
	g, err := DecodeBytes(readCube(t))
	require.NoError(t, err)
	first := EncodeBytes(g)

	g2, err := DecodeBytes(first)
	require.NoError(t, err)
	second := EncodeBytes(g2)

	require.True(t, bytes.Equal(first, second),
		"second write is not byte-identical to the first")
}

func TestRoundTrip_NumericFidelity(t *testing.T) {
	src := []byte("HEADER;\nENDSEC;\nDATA;\n#1 = A(1.0E+02);\nENDSEC;\n")
	g, err := DecodeBytes(src)
	require.NoError(t, err)

	v := g.Records[1].Subtypes[0].Params[0]
	require.Equal(t, ast.RealKind, v.Kind)
	assert.Equal(t, 100.0, v.Real)

	g2, err := DecodeBytes(EncodeBytes(g))
	require.NoError(t, err)
	assert.Equal(t, 100.0, g2.Records[1].Subtypes[0].Params[0].Real)
}

func TestRoundTrip_StringEscaping(t *testing.T) {
	src := []byte("HEADER;\nENDSEC;\nDATA;\n#1 = A('it''s a test');\nENDSEC;\n")
	g, err := DecodeBytes(src)
	require.NoError(t, err)
	assert.Equal(t, "it's a test", g.Records[1].Subtypes[0].Params[0].Text)

	out := EncodeBytes(g)
	assert.Contains(t, string(out), "'it''s a test'")
}

func TestRoundTrip_InternalMappingNormalized(t *testing.T) {
	src := []byte("HEADER;\nENDSEC;\nDATA;\n" +
		"#1 = LENGTH_UNIT() NAMED_UNIT(*) SI_UNIT(.MILLI.,.METRE.);\n" +
		"ENDSEC;\n")
	g, err := DecodeBytes(src)
	require.NoError(t, err)

	out := EncodeBytes(g)
	assert.Contains(t, string(out), "#1=(LENGTH_UNIT()NAMED_UNIT(*)SI_UNIT(.MILLI.,.METRE.));")

	g2, err := DecodeBytes(out)
	require.NoError(t, err)
	assert.True(t, g.Equal(g2))
}

func TestDecode_DanglingReference(t *testing.T) {
	src := []byte("HEADER;\nENDSEC;\nDATA;\n#1 = A(#99);\nENDSEC;\n")
	_, err := DecodeBytes(src)
	var unres *resolver.UnresolvedReferenceError
	require.ErrorAs(t, err, &unres)
	assert.Equal(t, uint64(99), unres.MissingID)
}

func TestDecode_DuplicateID(t *testing.T) {
	src := []byte("HEADER;\nENDSEC;\nDATA;\n#1 = A();\n#1 = B();\nENDSEC;\n")
	_, err := DecodeBytes(src)
	var perr *parser.Error
	require.ErrorAs(t, err, &perr)
	assert.Equal(t, parser.ErrDuplicateEntityID, perr.Kind)
}

func TestDecode_LexErrorCarriesPosition(t *testing.T) {
	src := []byte("HEADER;\nENDSEC;\nDATA;\n#1 = A('open);\nENDSEC;\n")
	_, err := DecodeBytes(src)
	var lerr *lexer.Error
	require.ErrorAs(t, err, &lerr)
	assert.Equal(t, lexer.ErrUnterminatedString, lerr.Kind)
	assert.Equal(t, 4, lerr.Pos.Line)
}

func TestDecodeFile_WrapsPathIntoError(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "broken.step")
	require.NoError(t, os.WriteFile(path, []byte("HEADER;\nENDSEC;\nDATA;\n#1 = A(;\nENDSEC;\n"), 0o644))

	_, err := DecodeFile(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "broken.step")
}

func TestDecodeFile_MissingFile(t *testing.T) {
	_, err := DecodeFile(filepath.Join(t.TempDir(), "nope.step"))
	require.Error(t, err)
	assert.True(t, os.IsNotExist(err))
}

func TestEncodeFile_WritesReadableFile(t *testing.T) {
	g, err := DecodeBytes(readCube(t))
	require.NoError(t, err)

	path := filepath.Join(t.TempDir(), "out.step")
	require.NoError(t, EncodeFile(path, g))

	again, err := DecodeFile(path)
	require.NoError(t, err)
	assert.True(t, g.Equal(again))
}

func TestDecode_ConcurrentPipelinesIndependent(t *testing.T) {
	src := readCube(t)
	done := make(chan error, 8)
	for i := 0; i < 8; i++ {
		go func() {
			g, err := DecodeBytes(src)
			if err == nil && g.Len() != 182 {
				err = assert.AnError
			}
			done <- err
		}()
	}
	for i := 0; i < 8; i++ {
		require.NoError(t, <-done)
	}
}
