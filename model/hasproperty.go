package model

import (
	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
)

// HasProperty associates a property with a resource class and carries the
// resource-local facets: cardinality bounds and display order. The binding
// is owned by its resource class; detaching it never deletes the property.
type HasProperty struct {
	Property iri.Iri
	MinCount *int
	MaxCount *int
	// Order is advisory display ordering. Duplicates across bindings of
	// one class are permitted; last declared wins in display.
	Order *float64
}

// NewHasProperty builds a binding for the given property identifier.
func NewHasProperty(property iri.Iri, minCount, maxCount *int, order *float64) (HasProperty, error) {
	h := HasProperty{
		Property: property,
		MinCount: cloneInt(minCount),
		MaxCount: cloneInt(maxCount),
		Order:    cloneFloat(order),
	}
	if h.MinCount != nil && *h.MinCount < 0 {
		return HasProperty{}, errors.NewSchemaError(errors.KindCardinalityConflict,
			property.String(), "minCount %d is negative", *h.MinCount)
	}
	if h.MaxCount != nil && *h.MaxCount < 0 {
		return HasProperty{}, errors.NewSchemaError(errors.KindCardinalityConflict,
			property.String(), "maxCount %d is negative", *h.MaxCount)
	}
	if h.MinCount != nil && h.MaxCount != nil && *h.MinCount > *h.MaxCount {
		return HasProperty{}, errors.NewSchemaError(errors.KindCardinalityConflict,
			property.String(), "minCount %d exceeds maxCount %d", *h.MinCount, *h.MaxCount)
	}
	return h, nil
}

// CheckAgainstProperty rejects local bounds that widen a standalone
// property's own cardinality: the local override may tighten but never
// contradict the property-level bounds.
func (h HasProperty) CheckAgainstProperty(p *Property) error {
	if p == nil || p.Origin == Private {
		return nil
	}
	own := p.Restrictions
	if own.MaxCount != nil && h.MaxCount != nil && *h.MaxCount > *own.MaxCount {
		return errors.NewSchemaError(errors.KindCardinalityConflict, p.ID.String(),
			"local maxCount %d exceeds property maxCount %d", *h.MaxCount, *own.MaxCount)
	}
	if own.MinCount != nil && h.MinCount != nil && *h.MinCount < *own.MinCount {
		return errors.NewSchemaError(errors.KindCardinalityConflict, p.ID.String(),
			"local minCount %d is below property minCount %d", *h.MinCount, *own.MinCount)
	}
	if own.MaxCount != nil && h.MinCount != nil && *h.MinCount > *own.MaxCount {
		return errors.NewSchemaError(errors.KindCardinalityConflict, p.ID.String(),
			"local minCount %d exceeds property maxCount %d", *h.MinCount, *own.MaxCount)
	}
	return nil
}

// CheckNarrowing rejects a subclass binding that loosens the cardinality
// inherited from an ancestor binding of the same property.
func (h HasProperty) CheckNarrowing(inherited HasProperty) error {
	if inherited.MinCount != nil && (h.MinCount == nil || *h.MinCount < *inherited.MinCount) {
		return errors.NewSchemaError(errors.KindInheritedCardinality, h.Property.String(),
			"minCount loosened below inherited %d", *inherited.MinCount)
	}
	if inherited.MaxCount != nil && (h.MaxCount == nil || *h.MaxCount > *inherited.MaxCount) {
		return errors.NewSchemaError(errors.KindInheritedCardinality, h.Property.String(),
			"maxCount loosened above inherited %d", *inherited.MaxCount)
	}
	return nil
}

// Clone returns an independent copy.
func (h HasProperty) Clone() HasProperty {
	return HasProperty{
		Property: h.Property,
		MinCount: cloneInt(h.MinCount),
		MaxCount: cloneInt(h.MaxCount),
		Order:    cloneFloat(h.Order),
	}
}

// Equal compares bindings facet by facet.
func (h HasProperty) Equal(o HasProperty) bool {
	return h.Property == o.Property &&
		intEqual(h.MinCount, o.MinCount) &&
		intEqual(h.MaxCount, o.MaxCount) &&
		floatEqual(h.Order, o.Order)
}

func cloneFloat(p *float64) *float64 {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func floatEqual(a, b *float64) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}
