package model

import (
	"sort"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/xsd"
)

// ResourceClass is a named entity type: an ordered collection of property
// bindings, an optional single superclass, and a closed-world flag.
// Binding order is significant for display only. Cross-entity invariants
// (superclass resolution, cycles, inherited narrowing) are enforced by the
// datamodel aggregate.
type ResourceClass struct {
	ID         iri.Iri
	SuperClass iri.Iri
	// Closed means instances may use no predicates beyond the declared
	// bindings plus the system predicates.
	Closed  bool
	Label   xsd.LangString
	Comment xsd.LangString

	Bindings []HasProperty
	// PrivateProps holds the properties owned exclusively by this class,
	// keyed by identifier. Each one also has a binding.
	PrivateProps map[iri.Iri]*Property
}

// NewResourceClass builds an empty resource class.
func NewResourceClass(id iri.Iri) (*ResourceClass, error) {
	if id.IsZero() {
		return nil, errors.NewSchemaError(errors.KindModelInconsistent, "",
			"resource class needs an identifier")
	}
	return &ResourceClass{ID: id, PrivateProps: map[iri.Iri]*Property{}}, nil
}

// Binding returns the binding for the property, if present.
func (rc *ResourceClass) Binding(property iri.Iri) (HasProperty, bool) {
	for _, h := range rc.Bindings {
		if h.Property == property {
			return h, true
		}
	}
	return HasProperty{}, false
}

// AddBinding appends or replaces the binding for its property.
func (rc *ResourceClass) AddBinding(h HasProperty) {
	for i, existing := range rc.Bindings {
		if existing.Property == h.Property {
			rc.Bindings[i] = h
			return
		}
	}
	rc.Bindings = append(rc.Bindings, h)
}

// RemoveBinding drops the binding for the property, reporting whether it
// existed. A private property owned by this class is dropped with it.
func (rc *ResourceClass) RemoveBinding(property iri.Iri) bool {
	for i, h := range rc.Bindings {
		if h.Property == property {
			rc.Bindings = append(rc.Bindings[:i], rc.Bindings[i+1:]...)
			delete(rc.PrivateProps, property)
			return true
		}
	}
	return false
}

// References reports whether any binding uses the property.
func (rc *ResourceClass) References(property iri.Iri) bool {
	_, ok := rc.Binding(property)
	return ok
}

// DisplayBindings returns the bindings sorted by order value (unordered
// bindings last, declaration order preserved among equals).
func (rc *ResourceClass) DisplayBindings() []HasProperty {
	out := make([]HasProperty, len(rc.Bindings))
	copy(out, rc.Bindings)
	sort.SliceStable(out, func(i, j int) bool {
		oi, oj := out[i].Order, out[j].Order
		if oi == nil {
			return false
		}
		if oj == nil {
			return true
		}
		return *oi < *oj
	})
	return out
}

// Clone returns an independent deep copy.
func (rc *ResourceClass) Clone() *ResourceClass {
	if rc == nil {
		return nil
	}
	out := &ResourceClass{
		ID:           rc.ID,
		SuperClass:   rc.SuperClass,
		Closed:       rc.Closed,
		Label:        rc.Label.Clone(),
		Comment:      rc.Comment.Clone(),
		Bindings:     make([]HasProperty, 0, len(rc.Bindings)),
		PrivateProps: make(map[iri.Iri]*Property, len(rc.PrivateProps)),
	}
	for _, h := range rc.Bindings {
		out.Bindings = append(out.Bindings, h.Clone())
	}
	for id, p := range rc.PrivateProps {
		out.PrivateProps[id] = p.Clone()
	}
	return out
}

// Equal compares two resource classes attribute by attribute. Bindings
// are matched by property: binding order carries no meaning beyond
// display, so two classes with the same bindings in different slice
// order are equal.
func (rc *ResourceClass) Equal(o *ResourceClass) bool {
	if rc == nil || o == nil {
		return rc == o
	}
	if rc.ID != o.ID || rc.SuperClass != o.SuperClass || rc.Closed != o.Closed {
		return false
	}
	if !rc.Label.Equal(o.Label) || !rc.Comment.Equal(o.Comment) {
		return false
	}
	if len(rc.Bindings) != len(o.Bindings) || len(rc.PrivateProps) != len(o.PrivateProps) {
		return false
	}
	for _, h := range rc.Bindings {
		oh, ok := o.Binding(h.Property)
		if !ok || !h.Equal(oh) {
			return false
		}
	}
	for id, p := range rc.PrivateProps {
		if !p.Equal(o.PrivateProps[id]) {
			return false
		}
	}
	return true
}
