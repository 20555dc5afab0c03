package store

import "github.com/c360/semschema/iri"

// Graph name suffixes. Two named graphs exist per project: the constraint
// graph holding SHACL shapes and the inference graph holding the OWL
// ontology. These names are the on-the-wire contract with existing stored
// data and must not change.
const (
	constraintSuffix = ":shacl"
	inferenceSuffix  = ":onto"
)

// ShapeSuffix is appended to a property or class identifier to name its
// node in the constraint graph. It is applied and stripped only at this
// boundary; the suffixed form never enters the in-memory model.
const ShapeSuffix = "Shape"

// ConstraintGraph returns the constraint graph name for a project.
func ConstraintGraph(project string) string {
	return project + constraintSuffix
}

// InferenceGraph returns the inference graph name for a project.
func InferenceGraph(project string) string {
	return project + inferenceSuffix
}

// ShapeName returns the constraint-graph node name for an identifier.
func ShapeName(i iri.Iri) iri.Iri {
	return i.WithSuffix(ShapeSuffix)
}

// UnshapeName strips the shape suffix, reporting whether it was present.
func UnshapeName(i iri.Iri) (iri.Iri, bool) {
	return i.TrimSuffix(ShapeSuffix)
}
