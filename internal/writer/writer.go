// Package writer serializes an entity graph back into canonical Part-21
// text. Output is deterministic regardless of how the graph was produced or
// how its map iterates: records are emitted in ascending id order and value
// rendering is the exact inverse of the lexer's grammar. Comments are never
// emitted.
package writer

import (
	"bufio"
	"bytes"
	"io"
	"strconv"
	"strings"

	"github.com/leapstack-labs/stepkit/internal/ast"
	"github.com/leapstack-labs/stepkit/internal/registry"
)

// Writer renders entity graphs. The registry is optional; it only supplies
// per-type precision for reals that carry no canonical source text. Digits,
// when non-zero, is the significant-digit count used for such reals under
// types the registry has no entry for; zero means minimal digits.
type Writer struct {
	Registry *registry.Registry
	Digits   int
}

// New returns a writer backed by the default registry.
func New() *Writer {
	return &Writer{Registry: registry.Default()}
}

// Bytes serializes the graph to a byte slice.
func (wr *Writer) Bytes(g *ast.EntityGraph) []byte {
	var buf bytes.Buffer
	// Writing to a bytes.Buffer cannot fail.
	_ = wr.Write(&buf, g)
	return buf.Bytes()
}

// Write serializes the graph to w as one complete exchange file, wrapper
// keywords included.
func (wr *Writer) Write(w io.Writer, g *ast.EntityGraph) error {
	bw := bufio.NewWriter(w)

	bw.WriteString("ISO-10303-21;\n")
	bw.WriteString("HEADER;\n")
	for _, e := range g.Header.Entities {
		bw.WriteString(e.Name)
		wr.writeParamList(bw, e.Params, 0)
		bw.WriteString(";\n")
	}
	bw.WriteString("ENDSEC;\n")

	bw.WriteString("DATA;\n")
	for _, id := range g.IDs() {
		wr.writeRecord(bw, g.Records[id])
	}
	bw.WriteString("ENDSEC;\n")
	bw.WriteString("END-ISO-10303-21;\n")

	return bw.Flush()
}

func (wr *Writer) writeRecord(bw *bufio.Writer, r *ast.EntityRecord) {
	bw.WriteByte('#')
	bw.WriteString(strconv.FormatUint(r.ID, 10))
	bw.WriteByte('=')
	if r.Simple() {
		st := r.Subtypes[0]
		bw.WriteString(st.Name)
		wr.writeParamList(bw, st.Params, wr.precision(st.Name))
	} else {
		bw.WriteByte('(')
		for _, st := range r.Subtypes {
			bw.WriteString(st.Name)
			wr.writeParamList(bw, st.Params, wr.precision(st.Name))
		}
		bw.WriteByte(')')
	}
	bw.WriteString(";\n")
}

func (wr *Writer) precision(typeName string) int {
	if wr.Registry != nil {
		if d := wr.Registry.Precision(typeName); d > 0 {
			return d
		}
	}
	return wr.Digits
}

func (wr *Writer) writeParamList(bw *bufio.Writer, params []ast.Value, digits int) {
	bw.WriteByte('(')
	for i, v := range params {
		if i > 0 {
			bw.WriteByte(',')
		}
		wr.writeValue(bw, v, digits)
	}
	bw.WriteByte(')')
}

func (wr *Writer) writeValue(bw *bufio.Writer, v ast.Value, digits int) {
	switch v.Kind {
	case ast.IntegerKind:
		bw.WriteString(strconv.FormatInt(v.Int, 10))
	case ast.RealKind:
		if v.Text != "" {
			bw.WriteString(v.Text)
		} else {
			bw.WriteString(FormatReal(v.Real, digits))
		}
	case ast.StringKind:
		bw.WriteByte('\'')
		bw.WriteString(strings.ReplaceAll(v.Text, "'", "''"))
		bw.WriteByte('\'')
	case ast.EnumKind:
		bw.WriteByte('.')
		bw.WriteString(v.Text)
		bw.WriteByte('.')
	case ast.BinaryKind:
		bw.WriteByte('"')
		bw.WriteString(v.Text)
		bw.WriteByte('"')
	case ast.ReferenceKind:
		bw.WriteByte('#')
		bw.WriteString(strconv.FormatUint(v.Ref, 10))
	case ast.OmittedKind:
		bw.WriteByte('$')
	case ast.RedeclaredKind:
		bw.WriteByte('*')
	case ast.ListKind:
		wr.writeParamList(bw, v.List, digits)
	case ast.TypedKind:
		bw.WriteString(v.TypeName)
		bw.WriteByte('(')
		wr.writeValue(bw, *v.Inner, digits)
		bw.WriteByte(')')
	}
}

// FormatReal renders a float as a Part-21 real literal: minimal digits when
// digits is 0, otherwise the given number of significant digits. The
// rendered form always carries a decimal point so it re-lexes as a real, and
// exponents use an upper-case E.
func FormatReal(v float64, digits int) string {
	prec := -1
	if digits > 0 {
		prec = digits
	}
	s := strconv.FormatFloat(v, 'G', prec, 64)
	// Part-21 requires a '.' in the mantissa; Go's shortest form may omit it
	// ("100", "1E-07").
	mantissa, exp := s, ""
	if i := strings.IndexByte(s, 'E'); i >= 0 {
		mantissa, exp = s[:i], s[i:]
	}
	if !strings.ContainsRune(mantissa, '.') {
		mantissa += "."
	}
	return mantissa + exp
}
