package ast

import "sort"

// Subtype is one (type name, parameter list) block of an entity record.
type Subtype struct {
	Name   string
	Params []Value
}

// EntityRecord is one data-section instance. A simple instance has exactly
// one subtype; a complex (multiply-typed) instance has several, in the order
// they were written or built. Records are created once and never mutated.
type EntityRecord struct {
	ID       uint64
	Subtypes []Subtype
}

// Simple reports whether the record instantiates a single type.
func (r *EntityRecord) Simple() bool { return len(r.Subtypes) == 1 }

// Type returns the first subtype's name, which for simple records is the
// record's type.
func (r *EntityRecord) Type() string {
	if len(r.Subtypes) == 0 {
		return ""
	}
	return r.Subtypes[0].Name
}

// Equal reports structural equality of id, subtype names and parameters.
func (r *EntityRecord) Equal(o *EntityRecord) bool {
	if r.ID != o.ID || len(r.Subtypes) != len(o.Subtypes) {
		return false
	}
	for i := range r.Subtypes {
		a, b := r.Subtypes[i], o.Subtypes[i]
		if a.Name != b.Name || len(a.Params) != len(b.Params) {
			return false
		}
		for j := range a.Params {
			if !a.Params[j].Equal(b.Params[j]) {
				return false
			}
		}
	}
	return true
}

// WalkRefs calls fn for every reference in any of the record's parameter
// lists.
func (r *EntityRecord) WalkRefs(fn func(id uint64) error) error {
	for _, st := range r.Subtypes {
		for _, p := range st.Params {
			if err := p.WalkRefs(fn); err != nil {
				return err
			}
		}
	}
	return nil
}

// HeaderEntity is one record of the header section, e.g. FILE_NAME(...).
type HeaderEntity struct {
	Name   string
	Params []Value
}

// Conventional header entity names.
const (
	FileDescriptionName = "FILE_DESCRIPTION"
	FileNameName        = "FILE_NAME"
	FileSchemaName      = "FILE_SCHEMA"
)

// HeaderBlock is the ordered header section. It is kept structurally, not
// interpreted.
type HeaderBlock struct {
	Entities []HeaderEntity
}

// Find returns the first header entity with the given name.
func (h HeaderBlock) Find(name string) (HeaderEntity, bool) {
	for _, e := range h.Entities {
		if e.Name == name {
			return e, true
		}
	}
	return HeaderEntity{}, false
}

// Equal reports structural equality of the two header blocks.
func (h HeaderBlock) Equal(o HeaderBlock) bool {
	if len(h.Entities) != len(o.Entities) {
		return false
	}
	for i := range h.Entities {
		a, b := h.Entities[i], o.Entities[i]
		if a.Name != b.Name || len(a.Params) != len(b.Params) {
			return false
		}
		for j := range a.Params {
			if !a.Params[j].Equal(b.Params[j]) {
				return false
			}
		}
	}
	return true
}

// EntityGraph is the terminal artifact of a successful parse and resolution:
// the header block plus the id-keyed record table. Every reference occurring
// in any record is guaranteed to exist as a key. References stay graph-local
// ids resolved by lookup; reference cycles are legal.
type EntityGraph struct {
	Header  HeaderBlock
	Records map[uint64]*EntityRecord
}

// Record looks up an entity by id.
func (g *EntityGraph) Record(id uint64) (*EntityRecord, bool) {
	r, ok := g.Records[id]
	return r, ok
}

// Len returns the number of entity records.
func (g *EntityGraph) Len() int { return len(g.Records) }

// IDs returns all entity ids in ascending order.
func (g *EntityGraph) IDs() []uint64 {
	ids := make([]uint64, 0, len(g.Records))
	for id := range g.Records {
		ids = append(ids, id)
	}
	sort.Slice(ids, func(i, j int) bool { return ids[i] < ids[j] })
	return ids
}

// TypeCounts returns the number of records per type name. Complex records
// count once under each of their subtype names.
func (g *EntityGraph) TypeCounts() map[string]int {
	counts := make(map[string]int)
	for _, r := range g.Records {
		for _, st := range r.Subtypes {
			counts[st.Name]++
		}
	}
	return counts
}

// Equal reports structural equality of headers and all records.
func (g *EntityGraph) Equal(o *EntityGraph) bool {
	if !g.Header.Equal(o.Header) || len(g.Records) != len(o.Records) {
		return false
	}
	for id, r := range g.Records {
		or, ok := o.Records[id]
		if !ok || !r.Equal(or) {
			return false
		}
	}
	return true
}
