// Package step is the front door to the Part-21 pipeline: bytes in, entity
// graph out, and back. Each call runs the full lex → parse → resolve chain
// for one file; a failure at any stage aborts that file's pipeline with the
// stage's error and no partial graph. Pipelines share no mutable state, so
// distinct files may be processed concurrently.
package step

import (
	"fmt"
	"io"
	"os"

	"github.com/leapstack-labs/stepkit/internal/ast"
	"github.com/leapstack-labs/stepkit/internal/parser"
	"github.com/leapstack-labs/stepkit/internal/resolver"
	"github.com/leapstack-labs/stepkit/internal/writer"
)

// DecodeBytes parses and resolves a complete exchange file held in memory.
func DecodeBytes(src []byte) (*ast.EntityGraph, error) {
	header, records, err := parser.Parse(src)
	if err != nil {
		return nil, err
	}
	return resolver.Resolve(header, records)
}

// Decode reads r to the end and decodes the content. Parse cost is bounded
// by input size, and resolution needs the complete instance table, so there
// is no streaming mode.
func Decode(r io.Reader) (*ast.EntityGraph, error) {
	src, err := io.ReadAll(r)
	if err != nil {
		return nil, err
	}
	return DecodeBytes(src)
}

// DecodeFile opens, reads and decodes one file. The handle is released on
// every path, including parse failure.
func DecodeFile(path string) (*ast.EntityGraph, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()

	g, err := Decode(f)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", path, err)
	}
	return g, nil
}

// Encode serializes the graph to w in canonical form.
func Encode(w io.Writer, g *ast.EntityGraph) error {
	return writer.New().Write(w, g)
}

// EncodeBytes serializes the graph to a byte slice in canonical form.
func EncodeBytes(g *ast.EntityGraph) []byte {
	return writer.New().Bytes(g)
}

// EncodeFile serializes the graph to the named file, creating or truncating
// it.
func EncodeFile(path string, g *ast.EntityGraph) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	if err := Encode(f, g); err != nil {
		f.Close()
		return fmt.Errorf("%s: %w", path, err)
	}
	if err := f.Close(); err != nil {
		return fmt.Errorf("%s: %w", path, err)
	}
	return nil
}
