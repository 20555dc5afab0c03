package model

import (
	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/xsd"
)

// Origin flags whether a property is reusable across resource classes or
// bound to exactly one.
type Origin int

// Property origins.
const (
	// Standalone properties are defined at data-model level and may be
	// bound by any number of resource classes.
	Standalone Origin = iota
	// Private properties exist inside exactly one resource class and are
	// not reusable.
	Private
)

// String returns the origin name.
func (o Origin) String() string {
	if o == Private {
		return "private"
	}
	return "standalone"
}

// Property is a named, constrained predicate.
type Property struct {
	ID            iri.Iri
	Restrictions  Restrictions
	Name          xsd.LangString
	Description   xsd.LangString
	SubPropertyOf iri.Iri
	Origin        Origin
}

// NewProperty builds a standalone property, validating the restriction set.
func NewProperty(id iri.Iri, r Restrictions) (*Property, error) {
	if id.IsZero() {
		return nil, errors.NewSchemaError(errors.KindInconsistentRestrictions, "",
			"property needs an identifier")
	}
	if err := r.Validate(id.String()); err != nil {
		return nil, err
	}
	return &Property{ID: id, Restrictions: r}, nil
}

// NewPrivateProperty builds a property bound to a single resource class.
// Ownership is established when the property is attached.
func NewPrivateProperty(id iri.Iri, r Restrictions) (*Property, error) {
	p, err := NewProperty(id, r)
	if err != nil {
		return nil, err
	}
	p.Origin = Private
	return p, nil
}

// SetRestrictions replaces the restriction set after validating the whole
// resulting set, not just the changed facets. On error the property is
// left unmodified.
func (p *Property) SetRestrictions(r Restrictions) error {
	if err := r.Validate(p.ID.String()); err != nil {
		return err
	}
	p.Restrictions = r
	return nil
}

// IsObjectProperty reports whether the property references entities rather
// than literal values, which decides its inference-graph typing.
func (p *Property) IsObjectProperty() bool {
	return !p.Restrictions.TargetClass.IsZero()
}

// Clone returns an independent deep copy.
func (p *Property) Clone() *Property {
	if p == nil {
		return nil
	}
	return &Property{
		ID:            p.ID,
		Restrictions:  p.Restrictions.Clone(),
		Name:          p.Name.Clone(),
		Description:   p.Description.Clone(),
		SubPropertyOf: p.SubPropertyOf,
		Origin:        p.Origin,
	}
}

// Equal compares two properties attribute by attribute.
func (p *Property) Equal(o *Property) bool {
	if p == nil || o == nil {
		return p == o
	}
	return p.ID == o.ID &&
		p.Restrictions.Equal(o.Restrictions) &&
		p.Name.Equal(o.Name) &&
		p.Description.Equal(o.Description) &&
		p.SubPropertyOf == o.SubPropertyOf &&
		p.Origin == o.Origin
}
