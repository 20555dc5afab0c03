// Package vocabulary defines the RDF predicate and class vocabulary the
// schema layer reads and writes: the SHACL facet predicates for the
// constraint graph and the OWL/RDFS terms for the inference graph.
//
// Every identifier here is a fully expanded IRI parsed against the fixed
// standard namespaces, so vocabulary terms compare equal to identifiers
// read back from the store regardless of the prefix form they were written
// in.
package vocabulary

import "github.com/c360/semschema/iri"

var std = iri.NewPrefixMap()

// Core RDF/RDFS terms.
var (
	RDFType         = iri.MustParse("rdf:type", std)
	RDFSLabel       = iri.MustParse("rdfs:label", std)
	RDFSComment     = iri.MustParse("rdfs:comment", std)
	RDFSSubClassOf  = iri.MustParse("rdfs:subClassOf", std)
	RDFSSubPropOf   = iri.MustParse("rdfs:subPropertyOf", std)
	RDFSRange       = iri.MustParse("rdfs:range", std)
)

// SHACL shape classes and structural predicates (constraint graph).
var (
	SHPropertyShape = iri.MustParse("sh:PropertyShape", std)
	SHNodeShape     = iri.MustParse("sh:NodeShape", std)
	SHProperty      = iri.MustParse("sh:property", std)
	SHPath          = iri.MustParse("sh:path", std)
	SHNode          = iri.MustParse("sh:node", std)
	SHName          = iri.MustParse("sh:name", std)
	SHDescription   = iri.MustParse("sh:description", std)
	SHOrder         = iri.MustParse("sh:order", std)
	SHGroup         = iri.MustParse("sh:group", std)
	SHClosed        = iri.MustParse("sh:closed", std)
	SHTargetClass   = iri.MustParse("sh:targetClass", std)
)

// SHACL constraint facet predicates (constraint graph).
var (
	SHDatatype       = iri.MustParse("sh:datatype", std)
	SHClass          = iri.MustParse("sh:class", std)
	SHMinCount       = iri.MustParse("sh:minCount", std)
	SHMaxCount       = iri.MustParse("sh:maxCount", std)
	SHMinLength      = iri.MustParse("sh:minLength", std)
	SHMaxLength      = iri.MustParse("sh:maxLength", std)
	SHPattern        = iri.MustParse("sh:pattern", std)
	SHMinInclusive   = iri.MustParse("sh:minInclusive", std)
	SHMinExclusive   = iri.MustParse("sh:minExclusive", std)
	SHMaxInclusive   = iri.MustParse("sh:maxInclusive", std)
	SHMaxExclusive   = iri.MustParse("sh:maxExclusive", std)
	SHIn             = iri.MustParse("sh:in", std)
	SHLanguageIn     = iri.MustParse("sh:languageIn", std)
	SHUniqueLang     = iri.MustParse("sh:uniqueLang", std)
	SHLessThan       = iri.MustParse("sh:lessThan", std)
	SHLessThanOrEq   = iri.MustParse("sh:lessThanOrEquals", std)
)

// OWL terms (inference graph).
var (
	OWLClass                   = iri.MustParse("owl:Class", std)
	OWLDatatypeProperty        = iri.MustParse("owl:DatatypeProperty", std)
	OWLObjectProperty          = iri.MustParse("owl:ObjectProperty", std)
	OWLRestriction             = iri.MustParse("owl:Restriction", std)
	OWLOnProperty              = iri.MustParse("owl:onProperty", std)
	OWLQualifiedCardinality    = iri.MustParse("owl:qualifiedCardinality", std)
	OWLMinQualifiedCardinality = iri.MustParse("owl:minQualifiedCardinality", std)
	OWLMaxQualifiedCardinality = iri.MustParse("owl:maxQualifiedCardinality", std)
)
