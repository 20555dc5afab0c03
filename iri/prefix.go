package iri

import (
	"fmt"
	"regexp"
	"sort"
	"strings"

	"github.com/c360/semschema/errors"
)

// Well-known namespaces. These bindings are fixed by the RDF standards and
// are present in every prefix map.
const (
	RDFNamespace  = "http://www.w3.org/1999/02/22-rdf-syntax-ns#"
	RDFSNamespace = "http://www.w3.org/2000/01/rdf-schema#"
	OWLNamespace  = "http://www.w3.org/2002/07/owl#"
	SHNamespace   = "http://www.w3.org/ns/shacl#"
	XSDNamespace  = "http://www.w3.org/2001/XMLSchema#"
)

var prefixRe = regexp.MustCompile(`^[A-Za-z_][A-Za-z0-9_.-]*$`)

// PrefixMap maps prefixes to namespace IRIs. Not safe for concurrent
// mutation; build it up front and share read-only.
type PrefixMap struct {
	byPrefix map[string]string
}

// NewPrefixMap returns a prefix map pre-loaded with the well-known
// standard bindings (rdf, rdfs, owl, sh, xsd).
func NewPrefixMap() *PrefixMap {
	return &PrefixMap{byPrefix: map[string]string{
		"rdf":  RDFNamespace,
		"rdfs": RDFSNamespace,
		"owl":  OWLNamespace,
		"sh":   SHNamespace,
		"xsd":  XSDNamespace,
	}}
}

// Register binds a prefix to a namespace IRI. Rebinding one of the
// standard prefixes is rejected.
func (pm *PrefixMap) Register(prefix, namespace string) error {
	if !prefixRe.MatchString(prefix) {
		return errors.WrapInvalid(
			fmt.Errorf("invalid prefix %q", prefix), "PrefixMap", "Register", "validate prefix")
	}
	if !isAbsolute(namespace) {
		return errors.WrapInvalid(
			fmt.Errorf("namespace %q is not an absolute IRI", namespace),
			"PrefixMap", "Register", "validate namespace")
	}
	switch prefix {
	case "rdf", "rdfs", "owl", "sh", "xsd":
		if pm.byPrefix[prefix] != namespace {
			return errors.WrapInvalid(
				fmt.Errorf("prefix %q is reserved", prefix), "PrefixMap", "Register", "validate prefix")
		}
		return nil
	}
	pm.byPrefix[prefix] = namespace
	return nil
}

// Namespace returns the namespace bound to the prefix.
func (pm *PrefixMap) Namespace(prefix string) (string, bool) {
	ns, ok := pm.byPrefix[prefix]
	return ns, ok
}

// Prefixes returns the registered prefixes in sorted order.
func (pm *PrefixMap) Prefixes() []string {
	out := make([]string, 0, len(pm.byPrefix))
	for p := range pm.byPrefix {
		out = append(out, p)
	}
	sort.Strings(out)
	return out
}

// Compress returns the shortest prefixed form of the Iri, or the absolute
// form when no registered namespace matches. Display use only; the
// absolute form stays canonical for equality.
func (pm *PrefixMap) Compress(i Iri) string {
	abs := i.String()
	bestPrefix, bestNS := "", ""
	for prefix, ns := range pm.byPrefix {
		if strings.HasPrefix(abs, ns) && len(ns) > len(bestNS) {
			local := abs[len(ns):]
			if local != "" && prefixedNameRe.MatchString(prefix+":"+local) {
				bestPrefix, bestNS = prefix, ns
			}
		}
	}
	if bestNS == "" {
		return abs
	}
	return bestPrefix + ":" + abs[len(bestNS):]
}
