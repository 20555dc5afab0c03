// Package model provides the in-memory schema model: restriction sets,
// properties, resource classes and the property-to-resource binding. All
// types are value-like; cross-entity invariants are enforced by the
// datamodel package.
package model

import (
	"fmt"
	"regexp"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/xsd"
)

// Restrictions is the set of constraint facets attached to a property.
// A nil pointer or zero Iri means the facet is absent. The set must be
// internally consistent; Validate enforces the cross-checks at mutation
// time, never deferred to store validation.
type Restrictions struct {
	Datatype    xsd.Datatype
	TargetClass iri.Iri

	MinCount *int
	MaxCount *int

	MinLength *int
	MaxLength *int
	Pattern   string

	MinInclusive *xsd.Literal
	MinExclusive *xsd.Literal
	MaxInclusive *xsd.Literal
	MaxExclusive *xsd.Literal

	In         []xsd.Literal
	LanguageIn []string
	UniqueLang bool

	LessThan         iri.Iri
	LessThanOrEquals iri.Iri
}

// Int returns a pointer to v, for building count facets.
func Int(v int) *int { return &v }

// Float returns a pointer to v, for building order values.
func Float(v float64) *float64 { return &v }

// Lit returns a pointer to l, for building bound facets.
func Lit(l xsd.Literal) *xsd.Literal { return &l }

// Validate checks the internal consistency of the restriction set. It
// returns an InconsistentRestrictions schema error naming the subject on
// the first violation found.
func (r Restrictions) Validate(subject string) error {
	fail := func(format string, args ...any) error {
		return errors.NewSchemaError(errors.KindInconsistentRestrictions, subject, format, args...)
	}

	if r.Datatype != "" && !r.TargetClass.IsZero() {
		return fail("datatype %s and target class %s are mutually exclusive", r.Datatype, r.TargetClass)
	}
	if r.Datatype != "" {
		if _, err := xsd.ParseDatatype(string(r.Datatype)); err != nil {
			return fail("unknown datatype %s", r.Datatype)
		}
	}

	if r.MinCount != nil && *r.MinCount < 0 {
		return fail("minCount %d is negative", *r.MinCount)
	}
	if r.MaxCount != nil && *r.MaxCount < 0 {
		return fail("maxCount %d is negative", *r.MaxCount)
	}
	if r.MinCount != nil && r.MaxCount != nil && *r.MinCount > *r.MaxCount {
		return fail("minCount %d exceeds maxCount %d", *r.MinCount, *r.MaxCount)
	}

	if r.MinLength != nil || r.MaxLength != nil {
		if !r.Datatype.IsStringLike() {
			return fail("length bounds require a string-like datatype, have %s", r.datatypeName())
		}
		if r.MinLength != nil && *r.MinLength < 0 {
			return fail("minLength %d is negative", *r.MinLength)
		}
		if r.MinLength != nil && r.MaxLength != nil && *r.MinLength > *r.MaxLength {
			return fail("minLength %d exceeds maxLength %d", *r.MinLength, *r.MaxLength)
		}
	}

	if r.Pattern != "" {
		if !r.Datatype.IsStringLike() {
			return fail("pattern requires a string-like datatype, have %s", r.datatypeName())
		}
		if _, err := regexp.Compile(r.Pattern); err != nil {
			return fail("invalid pattern %q: %v", r.Pattern, err)
		}
	}

	for _, bound := range []struct {
		name string
		lit  *xsd.Literal
	}{
		{"minInclusive", r.MinInclusive},
		{"minExclusive", r.MinExclusive},
		{"maxInclusive", r.MaxInclusive},
		{"maxExclusive", r.MaxExclusive},
	} {
		if bound.lit == nil {
			continue
		}
		if !r.Datatype.IsNumeric() {
			return fail("%s requires a numeric datatype, have %s", bound.name, r.datatypeName())
		}
		if !bound.lit.Datatype.IsNumeric() {
			return fail("%s bound %s is not numeric", bound.name, bound.lit)
		}
	}
	if err := r.checkBoundOrder(fail); err != nil {
		return err
	}

	if len(r.LanguageIn) > 0 || r.UniqueLang {
		if !r.Datatype.IsLangTagged() {
			return fail("language facets require rdf:langString, have %s", r.datatypeName())
		}
		for _, tag := range r.LanguageIn {
			if _, err := xsd.ParseLanguageTag(tag); err != nil {
				return fail("invalid language tag %q in languageIn", tag)
			}
		}
	}

	if r.Datatype != "" {
		for _, member := range r.In {
			if member.Datatype != r.Datatype && !(member.Datatype.IsNumeric() && r.Datatype.IsNumeric()) {
				return fail("enumeration member %s does not match datatype %s", member, r.Datatype)
			}
		}
	}

	if (!r.LessThan.IsZero() || !r.LessThanOrEquals.IsZero()) &&
		r.Datatype != "" && !r.Datatype.IsComparable() {
		return fail("ordering comparison requires a comparable datatype, have %s", r.Datatype)
	}

	return nil
}

// checkBoundOrder rejects lower bounds above upper bounds. Every declared
// lower bound is checked against every declared upper bound.
func (r Restrictions) checkBoundOrder(fail func(string, ...any) error) error {
	lowers := []struct {
		name string
		lit  *xsd.Literal
	}{
		{"minInclusive", r.MinInclusive},
		{"minExclusive", r.MinExclusive},
	}
	uppers := []struct {
		name string
		lit  *xsd.Literal
	}{
		{"maxInclusive", r.MaxInclusive},
		{"maxExclusive", r.MaxExclusive},
	}
	for _, lower := range lowers {
		if lower.lit == nil {
			continue
		}
		for _, upper := range uppers {
			if upper.lit == nil {
				continue
			}
			c, err := xsd.Compare(*lower.lit, *upper.lit)
			if err != nil {
				continue // non-numeric bounds were already rejected
			}
			if c > 0 {
				return fail("%s %s exceeds %s %s", lower.name, lower.lit, upper.name, upper.lit)
			}
		}
	}
	return nil
}

func (r Restrictions) datatypeName() string {
	if r.Datatype == "" {
		return "no datatype"
	}
	return string(r.Datatype)
}

// DatatypeIri expands the prefixed datatype name to its absolute
// identifier for the inference graph.
func (r Restrictions) DatatypeIri() (iri.Iri, bool) {
	if r.Datatype == "" {
		return iri.Iri{}, false
	}
	i, err := iri.Parse(string(r.Datatype), stdPrefixes)
	if err != nil {
		return iri.Iri{}, false
	}
	return i, true
}

var stdPrefixes = iri.NewPrefixMap()

// Clone returns an independent deep copy.
func (r Restrictions) Clone() Restrictions {
	out := r
	out.MinCount = cloneInt(r.MinCount)
	out.MaxCount = cloneInt(r.MaxCount)
	out.MinLength = cloneInt(r.MinLength)
	out.MaxLength = cloneInt(r.MaxLength)
	out.MinInclusive = cloneLit(r.MinInclusive)
	out.MinExclusive = cloneLit(r.MinExclusive)
	out.MaxInclusive = cloneLit(r.MaxInclusive)
	out.MaxExclusive = cloneLit(r.MaxExclusive)
	out.In = append([]xsd.Literal(nil), r.In...)
	out.LanguageIn = append([]string(nil), r.LanguageIn...)
	return out
}

// Equal reports whether two restriction sets are identical facet by facet.
func (r Restrictions) Equal(o Restrictions) bool {
	if r.Datatype != o.Datatype || r.TargetClass != o.TargetClass ||
		r.Pattern != o.Pattern || r.UniqueLang != o.UniqueLang ||
		r.LessThan != o.LessThan || r.LessThanOrEquals != o.LessThanOrEquals {
		return false
	}
	if !intEqual(r.MinCount, o.MinCount) || !intEqual(r.MaxCount, o.MaxCount) ||
		!intEqual(r.MinLength, o.MinLength) || !intEqual(r.MaxLength, o.MaxLength) {
		return false
	}
	if !litEqual(r.MinInclusive, o.MinInclusive) || !litEqual(r.MinExclusive, o.MinExclusive) ||
		!litEqual(r.MaxInclusive, o.MaxInclusive) || !litEqual(r.MaxExclusive, o.MaxExclusive) {
		return false
	}
	if len(r.In) != len(o.In) || len(r.LanguageIn) != len(o.LanguageIn) {
		return false
	}
	for i := range r.In {
		if r.In[i] != o.In[i] {
			return false
		}
	}
	for i := range r.LanguageIn {
		if r.LanguageIn[i] != o.LanguageIn[i] {
			return false
		}
	}
	return true
}

func cloneInt(p *int) *int {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func cloneLit(p *xsd.Literal) *xsd.Literal {
	if p == nil {
		return nil
	}
	v := *p
	return &v
}

func intEqual(a, b *int) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

func litEqual(a, b *xsd.Literal) bool {
	if (a == nil) != (b == nil) {
		return false
	}
	return a == nil || *a == *b
}

// String summarizes the set for diagnostics.
func (r Restrictions) String() string {
	return fmt.Sprintf("Restrictions{datatype=%s targetClass=%s}", r.datatypeName(), r.TargetClass)
}
