package ast

import "sort"

// TypeOrder decides the canonical ordering of subtype names in a complex
// record. Compare follows the strings.Compare contract; returning 0 leaves
// the given relative order untouched.
type TypeOrder interface {
	Compare(a, b string) int
}

// GraphBuilder assembles an entity table programmatically, allocating ids in
// sequence. Parsed files never go through the builder; it exists so
// producers can construct graphs that serialize deterministically.
type GraphBuilder struct {
	header  HeaderBlock
	records []*EntityRecord
	order   TypeOrder
	next    uint64
}

// NewGraphBuilder returns a builder. order may be nil, in which case complex
// records keep the subtype order they were added with.
func NewGraphBuilder(order TypeOrder) *GraphBuilder {
	return &GraphBuilder{order: order, next: 1}
}

// SetHeader installs the header block.
func (b *GraphBuilder) SetHeader(h HeaderBlock) { b.header = h }

// AddHeaderEntity appends one header record.
func (b *GraphBuilder) AddHeaderEntity(name string, params ...Value) {
	b.header.Entities = append(b.header.Entities, HeaderEntity{Name: name, Params: params})
}

// Add appends a simple record and returns its id.
func (b *GraphBuilder) Add(typeName string, params ...Value) uint64 {
	return b.AddComplex(Subtype{Name: typeName, Params: params})
}

// AddComplex appends a record with the given subtype blocks and returns its
// id. At least one subtype is required; a record without any has no
// serializable form. When a TypeOrder is configured the blocks are put into
// canonical order; names the order does not know keep their relative
// position.
func (b *GraphBuilder) AddComplex(subtypes ...Subtype) uint64 {
	if len(subtypes) == 0 {
		panic("ast: AddComplex requires at least one subtype")
	}
	if b.order != nil && len(subtypes) > 1 {
		sort.SliceStable(subtypes, func(i, j int) bool {
			return b.order.Compare(subtypes[i].Name, subtypes[j].Name) < 0
		})
	}
	id := b.next
	b.next++
	b.records = append(b.records, &EntityRecord{ID: id, Subtypes: subtypes})
	return id
}

// Records returns the records added so far, in insertion order.
func (b *GraphBuilder) Records() []*EntityRecord { return b.records }

// Graph returns the assembled graph. The builder performs no reference
// validation; run the result through the resolver to obtain the closure
// guarantee.
func (b *GraphBuilder) Graph() *EntityGraph {
	records := make(map[uint64]*EntityRecord, len(b.records))
	for _, r := range b.records {
		records[r.ID] = r
	}
	return &EntityGraph{Header: b.header, Records: records}
}
