// Package ast holds the structural model of a Part-21 exchange file: nested
// parameter values, entity records, the header block, and the resolved
// entity graph. The model is shared by the parser and the writer and carries
// no schema semantics.
package ast

import "strconv"

// ValueKind tags the variant held by a Value.
type ValueKind int

const (
	IntegerKind ValueKind = iota
	RealKind
	StringKind
	EnumKind
	BinaryKind
	ReferenceKind
	OmittedKind
	RedeclaredKind
	ListKind
	TypedKind
)

// Value is one parameter in an entity's parameter list.
//
// The active fields depend on Kind: Int for integers; Real plus Text (the
// literal as written, kept so the writer can reproduce the source's
// precision) for reals; Text for strings, enumerations and binaries; Ref for
// references; List for aggregates; TypeName plus Inner for typed (select)
// values. Values are immutable once built.
type Value struct {
	Kind     ValueKind
	Int      int64
	Real     float64
	Text     string
	Ref      uint64
	List     []Value
	TypeName string
	Inner    *Value
}

// Integer returns an integer value.
func Integer(v int64) Value { return Value{Kind: IntegerKind, Int: v} }

// Real returns a real value carrying its canonical source text. An empty
// text is allowed for programmatically built values; the writer then falls
// back to a minimal-digit rendering.
func Real(v float64, text string) Value {
	return Value{Kind: RealKind, Real: v, Text: text}
}

// String returns a string value holding the decoded content.
func String(s string) Value { return Value{Kind: StringKind, Text: s} }

// Enum returns an enumeration value; name is without the surrounding dots.
func Enum(name string) Value { return Value{Kind: EnumKind, Text: name} }

// Binary returns a binary value holding the hex content without quotes.
func Binary(hex string) Value { return Value{Kind: BinaryKind, Text: hex} }

// Ref returns a reference to the entity with the given id.
func Ref(id uint64) Value { return Value{Kind: ReferenceKind, Ref: id} }

// Omitted returns the '$' unset-attribute marker.
func Omitted() Value { return Value{Kind: OmittedKind} }

// Redeclared returns the '*' derived-attribute marker.
func Redeclared() Value { return Value{Kind: RedeclaredKind} }

// ListOf returns an aggregate value.
func ListOf(vs ...Value) Value { return Value{Kind: ListKind, List: vs} }

// Typed wraps a value in a select-type tag, e.g. LENGTH_MEASURE(1.E-07).
func Typed(typeName string, inner Value) Value {
	return Value{Kind: TypedKind, TypeName: typeName, Inner: &inner}
}

// Equal reports structural equality. Reals compare by numeric value, not by
// source text, so a re-rendered literal that parses to the same float is
// equal to the original.
func (v Value) Equal(o Value) bool {
	if v.Kind != o.Kind {
		return false
	}
	switch v.Kind {
	case IntegerKind:
		return v.Int == o.Int
	case RealKind:
		return v.Real == o.Real
	case StringKind, EnumKind, BinaryKind:
		return v.Text == o.Text
	case ReferenceKind:
		return v.Ref == o.Ref
	case OmittedKind, RedeclaredKind:
		return true
	case ListKind:
		if len(v.List) != len(o.List) {
			return false
		}
		for i := range v.List {
			if !v.List[i].Equal(o.List[i]) {
				return false
			}
		}
		return true
	case TypedKind:
		return v.TypeName == o.TypeName && v.Inner.Equal(*o.Inner)
	}
	return false
}

func (v Value) String() string {
	switch v.Kind {
	case IntegerKind:
		return strconv.FormatInt(v.Int, 10)
	case RealKind:
		if v.Text != "" {
			return v.Text
		}
		return strconv.FormatFloat(v.Real, 'G', -1, 64)
	case StringKind:
		return "'" + v.Text + "'"
	case EnumKind:
		return "." + v.Text + "."
	case BinaryKind:
		return "\"" + v.Text + "\""
	case ReferenceKind:
		return "#" + strconv.FormatUint(v.Ref, 10)
	case OmittedKind:
		return "$"
	case RedeclaredKind:
		return "*"
	case ListKind:
		return "(...)"
	case TypedKind:
		return v.TypeName + "(...)"
	}
	return "?"
}

// WalkRefs calls fn for every Reference value reachable from v, descending
// into lists and typed values to arbitrary depth. It stops early and returns
// fn's error if fn fails.
func (v Value) WalkRefs(fn func(id uint64) error) error {
	switch v.Kind {
	case ReferenceKind:
		return fn(v.Ref)
	case ListKind:
		for _, e := range v.List {
			if err := e.WalkRefs(fn); err != nil {
				return err
			}
		}
	case TypedKind:
		return v.Inner.WalkRefs(fn)
	}
	return nil
}
