// Package registry is a minimal, optional lookup of known entity type
// names. It stabilizes canonical subtype ordering for programmatically built
// complex records and supplies per-type real-literal precision hints for the
// writer's fallback formatting. Structural parsing and writing never depend
// on it; unknown names degrade to insertion order and minimal-digit reals.
//
// The default registry is process-wide, read-only after init, and safe to
// share across concurrent pipelines. Alternate registries can be passed
// explicitly where one is accepted.
package registry

import "strings"

// Registry holds known entity type names and formatting hints.
type Registry struct {
	known     map[string]struct{}
	precision map[string]int
}

// New returns a registry over the given type names.
func New(names ...string) *Registry {
	r := &Registry{
		known:     make(map[string]struct{}, len(names)),
		precision: make(map[string]int),
	}
	for _, n := range names {
		r.known[strings.ToUpper(n)] = struct{}{}
	}
	return r
}

// Known reports whether the type name is registered.
func (r *Registry) Known(name string) bool {
	_, ok := r.known[strings.ToUpper(name)]
	return ok
}

// SetPrecision installs a fixed decimal-digit count for reals written under
// the given type, used only when a real carries no canonical source text.
func (r *Registry) SetPrecision(name string, digits int) {
	r.precision[strings.ToUpper(name)] = digits
}

// Precision returns the decimal-digit count for the type, or 0 meaning
// minimal-digit formatting.
func (r *Registry) Precision(name string) int {
	return r.precision[strings.ToUpper(name)]
}

// Compare orders two subtype names canonically: names known to the registry
// sort alphabetically (the external-mapping convention); if either name is
// unknown the pair keeps its given order. Implements ast.TypeOrder.
func (r *Registry) Compare(a, b string) int {
	if !r.Known(a) || !r.Known(b) {
		return 0
	}
	return strings.Compare(strings.ToUpper(a), strings.ToUpper(b))
}

// defaultRegistry covers the entity types of the AP203/AP214 B-rep subset
// this tool is exercised against. Initialized once, never mutated.
var defaultRegistry = func() *Registry {
	r := New(
		"ADVANCED_BREP_SHAPE_REPRESENTATION",
		"ADVANCED_FACE",
		"APPLICATION_CONTEXT",
		"APPLICATION_PROTOCOL_DEFINITION",
		"AXIS2_PLACEMENT_3D",
		"CARTESIAN_POINT",
		"CIRCLE",
		"CLOSED_SHELL",
		"COLOUR_RGB",
		"CURVE_STYLE",
		"CYLINDRICAL_SURFACE",
		"DIRECTION",
		"DRAUGHTING_PRE_DEFINED_CURVE_FONT",
		"EDGE_CURVE",
		"EDGE_LOOP",
		"FACE_BOUND",
		"FACE_OUTER_BOUND",
		"FILL_AREA_STYLE",
		"FILL_AREA_STYLE_COLOUR",
		"GEOMETRIC_REPRESENTATION_CONTEXT",
		"GLOBAL_UNCERTAINTY_ASSIGNED_CONTEXT",
		"GLOBAL_UNIT_ASSIGNED_CONTEXT",
		"LENGTH_UNIT",
		"LINE",
		"MANIFOLD_SOLID_BREP",
		"MECHANICAL_DESIGN_GEOMETRIC_PRESENTATION_REPRESENTATION",
		"NAMED_UNIT",
		"ORIENTED_EDGE",
		"PLANE",
		"PLANE_ANGLE_UNIT",
		"PRESENTATION_STYLE_ASSIGNMENT",
		"PRODUCT",
		"PRODUCT_CONTEXT",
		"PRODUCT_DEFINITION",
		"PRODUCT_DEFINITION_CONTEXT",
		"PRODUCT_DEFINITION_FORMATION",
		"PRODUCT_DEFINITION_SHAPE",
		"PRODUCT_RELATED_PRODUCT_CATEGORY",
		"REPRESENTATION_CONTEXT",
		"SHAPE_DEFINITION_REPRESENTATION",
		"SI_UNIT",
		"SOLID_ANGLE_UNIT",
		"STYLED_ITEM",
		"SURFACE_SIDE_STYLE",
		"SURFACE_STYLE_FILL_AREA",
		"SURFACE_STYLE_USAGE",
		"UNCERTAINTY_MEASURE_WITH_UNIT",
		"VECTOR",
		"VERTEX_POINT",
	)
	// FreeCAD and Open CASCADE emit colour components with 12 significant
	// digits; match that when building colour records from floats.
	r.SetPrecision("COLOUR_RGB", 12)
	return r
}()

// Default returns the process-wide registry.
func Default() *Registry { return defaultRegistry }
