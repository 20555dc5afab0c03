// Package iri provides the identifier layer: immutable absolute IRIs,
// prefixed-name expansion and compression. Two identifiers that normalize
// to the same absolute form denote the same entity.
package iri

import (
	"fmt"
	"regexp"
	"strings"

	"github.com/c360/semschema/errors"
)

// Iri is an immutable absolute identifier. The zero value is invalid;
// equality and ordering are by the normalized absolute form.
type Iri struct {
	value string
}

var prefixedNameRe = regexp.MustCompile(`^([A-Za-z_][A-Za-z0-9_.-]*):([A-Za-z_][A-Za-z0-9_.-]*)$`)

// Parse builds an Iri from an absolute IRI or a prefixed name. Prefixed
// names are expanded through the given prefix map; pass nil to accept only
// absolute forms.
func Parse(s string, prefixes *PrefixMap) (Iri, error) {
	s = strings.TrimSpace(s)
	if s == "" {
		return Iri{}, errors.WrapInvalid(
			fmt.Errorf("empty identifier"), "Iri", "Parse", "normalize")
	}

	// Angle brackets are accepted and stripped, as in Turtle/SPARQL text.
	if strings.HasPrefix(s, "<") && strings.HasSuffix(s, ">") {
		s = s[1 : len(s)-1]
	}

	if isAbsolute(s) {
		return Iri{value: s}, nil
	}

	m := prefixedNameRe.FindStringSubmatch(s)
	if m == nil {
		return Iri{}, errors.WrapInvalid(
			fmt.Errorf("identifier %q is neither absolute nor a prefixed name", s),
			"Iri", "Parse", "normalize")
	}
	if prefixes == nil {
		return Iri{}, errors.WrapInvalid(
			fmt.Errorf("prefixed name %q without a prefix map", s),
			"Iri", "Parse", "expand prefix")
	}
	ns, ok := prefixes.Namespace(m[1])
	if !ok {
		return Iri{}, errors.WrapInvalid(
			fmt.Errorf("unregistered prefix %q in %q", m[1], s),
			"Iri", "Parse", "expand prefix")
	}
	return Iri{value: ns + m[2]}, nil
}

// MustParse is Parse that panics on error, for static initializers.
func MustParse(s string, prefixes *PrefixMap) Iri {
	i, err := Parse(s, prefixes)
	if err != nil {
		panic(err)
	}
	return i
}

func isAbsolute(s string) bool {
	if strings.ContainsAny(s, " \t\n\"<>") {
		return false
	}
	if strings.HasPrefix(s, "urn:") {
		return true
	}
	idx := strings.Index(s, "://")
	return idx > 0
}

// IsZero reports whether the Iri is the invalid zero value.
func (i Iri) IsZero() bool {
	return i.value == ""
}

// String returns the normalized absolute form.
func (i Iri) String() string {
	return i.value
}

// Term renders the wire term form, <iri>.
func (i Iri) Term() string {
	return "<" + i.value + ">"
}

// Equal reports whether two Iris have the same absolute form.
func (i Iri) Equal(other Iri) bool {
	return i.value == other.value
}

// Less orders Iris by absolute form.
func (i Iri) Less(other Iri) bool {
	return i.value < other.value
}

// WithSuffix returns the identifier with the given string appended to its
// absolute form. Used only at the store boundary.
func (i Iri) WithSuffix(suffix string) Iri {
	return Iri{value: i.value + suffix}
}

// TrimSuffix removes the given suffix if present, reporting whether it was.
func (i Iri) TrimSuffix(suffix string) (Iri, bool) {
	if suffix != "" && strings.HasSuffix(i.value, suffix) {
		return Iri{value: strings.TrimSuffix(i.value, suffix)}, true
	}
	return i, false
}
