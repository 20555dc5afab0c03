// Package store defines the gateway contract between the schema engine and
// the remote graph store: statements, deltas, graph naming, and the
// Shape-suffix boundary transform. No store internals are assumed beyond
// this contract.
package store

import (
	"encoding/json"
	"fmt"
	"sort"
	"strings"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/xsd"
)

// ObjectKind discriminates statement objects.
type ObjectKind int

// Object kinds.
const (
	ObjectIRI ObjectKind = iota
	ObjectLiteral
)

// Object is the object position of a statement: an identifier or a typed
// literal. The zero value is an invalid IRI object.
type Object struct {
	Kind    ObjectKind
	IRI     iri.Iri
	Literal xsd.Literal
}

// IriObject wraps an identifier as a statement object.
func IriObject(i iri.Iri) Object {
	return Object{Kind: ObjectIRI, IRI: i}
}

// LiteralObject wraps a typed literal as a statement object.
func LiteralObject(l xsd.Literal) Object {
	return Object{Kind: ObjectLiteral, Literal: l}
}

// Term renders the canonical wire term.
func (o Object) Term() string {
	if o.Kind == ObjectLiteral {
		return o.Literal.Term()
	}
	return o.IRI.Term()
}

// MarshalJSON encodes the object as its canonical term string.
func (o Object) MarshalJSON() ([]byte, error) {
	return json.Marshal(o.Term())
}

// UnmarshalJSON decodes a canonical term string.
func (o *Object) UnmarshalJSON(data []byte) error {
	var s string
	if err := json.Unmarshal(data, &s); err != nil {
		return err
	}
	parsed, err := ParseObjectTerm(s)
	if err != nil {
		return err
	}
	*o = parsed
	return nil
}

// ParseObjectTerm parses a canonical object term: <iri> or a literal form.
func ParseObjectTerm(s string) (Object, error) {
	s = strings.TrimSpace(s)
	switch {
	case strings.HasPrefix(s, "<"):
		i, err := iri.Parse(s, nil)
		if err != nil {
			return Object{}, err
		}
		return IriObject(i), nil
	case strings.HasPrefix(s, `"`):
		l, err := xsd.ParseTerm(s)
		if err != nil {
			return Object{}, err
		}
		return LiteralObject(l), nil
	default:
		return Object{}, errors.WrapInvalid(
			fmt.Errorf("unrecognized object term %q", s), "Object", "ParseObjectTerm", "parse")
	}
}

// Statement is one subject-predicate-object triple within a named graph.
// Statements are comparable values; equality is term-level equality.
type Statement struct {
	Subject   iri.Iri `json:"subject"`
	Predicate iri.Iri `json:"predicate"`
	Object    Object  `json:"object"`
}

// String renders the statement in N-Triples-like form.
func (s Statement) String() string {
	return fmt.Sprintf("%s %s %s .", s.Subject.Term(), s.Predicate.Term(), s.Object.Term())
}

// Sort orders statements canonically by subject, predicate, object term.
func Sort(statements []Statement) {
	sort.Slice(statements, func(i, j int) bool {
		a, b := statements[i], statements[j]
		if a.Subject != b.Subject {
			return a.Subject.Less(b.Subject)
		}
		if a.Predicate != b.Predicate {
			return a.Predicate.Less(b.Predicate)
		}
		return a.Object.Term() < b.Object.Term()
	})
}

// Delta is an ordered set of removals and additions for one named graph.
// Removals are applied before additions, giving replace semantics for
// statements sharing a subject+predicate key.
type Delta struct {
	Removals  []Statement `json:"removals,omitempty"`
	Additions []Statement `json:"additions,omitempty"`
}

// Empty reports whether the delta carries no work.
func (d Delta) Empty() bool {
	return len(d.Removals) == 0 && len(d.Additions) == 0
}

// Size returns the total number of statements touched.
func (d Delta) Size() int {
	return len(d.Removals) + len(d.Additions)
}

// Inverse returns the compensating delta that undoes this one.
func (d Delta) Inverse() Delta {
	return Delta{
		Removals:  append([]Statement(nil), d.Additions...),
		Additions: append([]Statement(nil), d.Removals...),
	}
}

// Normalize sorts both sides canonically.
func (d *Delta) Normalize() {
	Sort(d.Removals)
	Sort(d.Additions)
}

// Diff computes the delta that transforms the statement set `from` into
// `to`. Both sides of the result are canonically sorted.
func Diff(from, to []Statement) Delta {
	have := make(map[Statement]bool, len(from))
	for _, s := range from {
		have[s] = true
	}
	want := make(map[Statement]bool, len(to))
	for _, s := range to {
		want[s] = true
	}

	var d Delta
	for _, s := range from {
		if !want[s] {
			d.Removals = append(d.Removals, s)
		}
	}
	for _, s := range to {
		if !have[s] {
			d.Additions = append(d.Additions, s)
		}
	}
	d.Normalize()
	return d
}
