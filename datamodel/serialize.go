package datamodel

import (
	"net/url"
	"strconv"

	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/model"
	"github.com/c360/semschema/store"
	"github.com/c360/semschema/vocabulary"
	"github.com/c360/semschema/xsd"
)

// serialize renders the in-memory model as its canonical statement sets
// for the constraint graph and the inference graph. Both slices come back
// canonically sorted so equal models always serialize byte-identically,
// which is what makes snapshot diffing exact.
//
// Constraint graph layout: one sh:PropertyShape node per standalone
// property (subject = identifier + "Shape") carrying the facet statements
// and sh:name/sh:description, and one sh:NodeShape node per resource
// class with one anonymous-style binding node per property binding. A
// binding node references a standalone property's shape via sh:node;
// a private property has no shape of its own and its facets sit inline
// on the binding node, so the absence of sh:node is what marks private
// ownership on the wire.
//
// Inference graph layout: every property (standalone and private) is
// typed owl:DatatypeProperty or owl:ObjectProperty with rdfs:range and
// optional rdfs:subPropertyOf; every resource class is an owl:Class with
// rdfs:subClassOf, rdfs:label/rdfs:comment, and one owl:Restriction node
// per binding that carries cardinality bounds. Equal minimum and maximum
// collapse to a single owl:qualifiedCardinality statement.
func (m *DataModel) serialize() (constraint, inference []store.Statement) {
	for _, id := range m.PropertyIDs() {
		p := m.properties[id]
		constraint = append(constraint, propertyShapeStatements(p)...)
		inference = append(inference, propertyInferenceStatements(p)...)
	}
	for _, id := range m.ResourceClassIDs() {
		rc := m.resources[id]
		constraint = append(constraint, classShapeStatements(rc)...)
		inference = append(inference, classInferenceStatements(rc)...)
		for _, pid := range sortedKeys(rc.PrivateProps) {
			inference = append(inference, propertyInferenceStatements(rc.PrivateProps[pid])...)
		}
	}
	store.Sort(constraint)
	store.Sort(inference)
	return constraint, inference
}

// propertyShapeStatements renders a standalone property's sh:PropertyShape.
func propertyShapeStatements(p *model.Property) []store.Statement {
	shape := store.ShapeName(p.ID)
	out := []store.Statement{
		stmtIRI(shape, vocabulary.RDFType, vocabulary.SHPropertyShape),
		stmtIRI(shape, vocabulary.SHPath, p.ID),
	}
	return append(out, facetStatements(shape, p)...)
}

// facetStatements renders the constraint facets plus display name and
// description for the given subject node.
func facetStatements(subject iri.Iri, p *model.Property) []store.Statement {
	r := p.Restrictions
	var out []store.Statement

	if dt, ok := r.DatatypeIri(); ok {
		out = append(out, stmtIRI(subject, vocabulary.SHDatatype, dt))
	}
	if !r.TargetClass.IsZero() {
		out = append(out, stmtIRI(subject, vocabulary.SHClass, r.TargetClass))
	}
	if r.MinCount != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMinCount, intLiteral(*r.MinCount)))
	}
	if r.MaxCount != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMaxCount, intLiteral(*r.MaxCount)))
	}
	if r.MinLength != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMinLength, intLiteral(*r.MinLength)))
	}
	if r.MaxLength != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMaxLength, intLiteral(*r.MaxLength)))
	}
	if r.Pattern != "" {
		out = append(out, stmtLit(subject, vocabulary.SHPattern, stringLiteral(r.Pattern)))
	}
	if r.MinInclusive != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMinInclusive, *r.MinInclusive))
	}
	if r.MinExclusive != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMinExclusive, *r.MinExclusive))
	}
	if r.MaxInclusive != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMaxInclusive, *r.MaxInclusive))
	}
	if r.MaxExclusive != nil {
		out = append(out, stmtLit(subject, vocabulary.SHMaxExclusive, *r.MaxExclusive))
	}
	for _, lit := range r.In {
		out = append(out, stmtLit(subject, vocabulary.SHIn, lit))
	}
	for _, tag := range r.LanguageIn {
		out = append(out, stmtLit(subject, vocabulary.SHLanguageIn, xsd.Literal{Lexical: tag, Datatype: xsd.Language}))
	}
	if r.UniqueLang {
		out = append(out, stmtLit(subject, vocabulary.SHUniqueLang, boolLiteral(true)))
	}
	if !r.LessThan.IsZero() {
		out = append(out, stmtIRI(subject, vocabulary.SHLessThan, r.LessThan))
	}
	if !r.LessThanOrEquals.IsZero() {
		out = append(out, stmtIRI(subject, vocabulary.SHLessThanOrEq, r.LessThanOrEquals))
	}

	for _, lit := range p.Name.Literals() {
		out = append(out, stmtLit(subject, vocabulary.SHName, lit))
	}
	for _, lit := range p.Description.Literals() {
		out = append(out, stmtLit(subject, vocabulary.SHDescription, lit))
	}
	return out
}

// propertyInferenceStatements renders the OWL side of a property.
func propertyInferenceStatements(p *model.Property) []store.Statement {
	kind := vocabulary.OWLDatatypeProperty
	if p.IsObjectProperty() {
		kind = vocabulary.OWLObjectProperty
	}
	out := []store.Statement{
		stmtIRI(p.ID, vocabulary.RDFType, kind),
	}
	if !p.SubPropertyOf.IsZero() {
		out = append(out, stmtIRI(p.ID, vocabulary.RDFSSubPropOf, p.SubPropertyOf))
	}
	if !p.Restrictions.TargetClass.IsZero() {
		out = append(out, stmtIRI(p.ID, vocabulary.RDFSRange, p.Restrictions.TargetClass))
	} else if dt, ok := p.Restrictions.DatatypeIri(); ok {
		out = append(out, stmtIRI(p.ID, vocabulary.RDFSRange, dt))
	}
	return out
}

// bindingNode derives the deterministic constraint-graph node for one
// property binding of a class. The full property identifier is escaped
// into the node name: two properties from different namespaces that share
// a local name must not collapse onto one node.
func bindingNode(classID, propertyID iri.Iri) iri.Iri {
	return classID.WithSuffix("Shape/prop/" + url.PathEscape(propertyID.String()))
}

// restrictionNode derives the deterministic inference-graph owl:Restriction
// node for one property binding of a class.
func restrictionNode(classID, propertyID iri.Iri) iri.Iri {
	return classID.WithSuffix("/restriction/" + url.PathEscape(propertyID.String()))
}

// classShapeStatements renders a resource class's sh:NodeShape with one
// binding node per property binding.
func classShapeStatements(rc *model.ResourceClass) []store.Statement {
	shape := store.ShapeName(rc.ID)
	out := []store.Statement{
		stmtIRI(shape, vocabulary.RDFType, vocabulary.SHNodeShape),
		stmtIRI(shape, vocabulary.SHTargetClass, rc.ID),
	}
	if rc.Closed {
		out = append(out, stmtLit(shape, vocabulary.SHClosed, boolLiteral(true)))
	}

	for _, h := range rc.Bindings {
		node := bindingNode(rc.ID, h.Property)
		out = append(out,
			stmtIRI(shape, vocabulary.SHProperty, node),
			stmtIRI(node, vocabulary.SHPath, h.Property),
		)
		if private, ok := rc.PrivateProps[h.Property]; ok {
			out = append(out, facetStatements(node, private)...)
		} else {
			out = append(out, stmtIRI(node, vocabulary.SHNode, store.ShapeName(h.Property)))
		}
		if h.MinCount != nil {
			out = append(out, stmtLit(node, vocabulary.SHMinCount, intLiteral(*h.MinCount)))
		}
		if h.MaxCount != nil {
			out = append(out, stmtLit(node, vocabulary.SHMaxCount, intLiteral(*h.MaxCount)))
		}
		if h.Order != nil {
			out = append(out, stmtLit(node, vocabulary.SHOrder, decimalLiteral(*h.Order)))
		}
	}
	return out
}

// classInferenceStatements renders the OWL side of a resource class.
func classInferenceStatements(rc *model.ResourceClass) []store.Statement {
	out := []store.Statement{
		stmtIRI(rc.ID, vocabulary.RDFType, vocabulary.OWLClass),
	}
	if !rc.SuperClass.IsZero() {
		out = append(out, stmtIRI(rc.ID, vocabulary.RDFSSubClassOf, rc.SuperClass))
	}
	for _, lit := range rc.Label.Literals() {
		out = append(out, stmtLit(rc.ID, vocabulary.RDFSLabel, lit))
	}
	for _, lit := range rc.Comment.Literals() {
		out = append(out, stmtLit(rc.ID, vocabulary.RDFSComment, lit))
	}

	for _, h := range rc.Bindings {
		if h.MinCount == nil && h.MaxCount == nil {
			continue
		}
		node := restrictionNode(rc.ID, h.Property)
		out = append(out,
			stmtIRI(rc.ID, vocabulary.RDFSSubClassOf, node),
			stmtIRI(node, vocabulary.RDFType, vocabulary.OWLRestriction),
			stmtIRI(node, vocabulary.OWLOnProperty, h.Property),
		)
		switch {
		case h.MinCount != nil && h.MaxCount != nil && *h.MinCount == *h.MaxCount:
			out = append(out, stmtLit(node, vocabulary.OWLQualifiedCardinality, cardLiteral(*h.MinCount)))
		default:
			if h.MinCount != nil {
				out = append(out, stmtLit(node, vocabulary.OWLMinQualifiedCardinality, cardLiteral(*h.MinCount)))
			}
			if h.MaxCount != nil {
				out = append(out, stmtLit(node, vocabulary.OWLMaxQualifiedCardinality, cardLiteral(*h.MaxCount)))
			}
		}
	}
	return out
}

func stmtIRI(s, p, o iri.Iri) store.Statement {
	return store.Statement{Subject: s, Predicate: p, Object: store.IriObject(o)}
}

func stmtLit(s, p iri.Iri, l xsd.Literal) store.Statement {
	return store.Statement{Subject: s, Predicate: p, Object: store.LiteralObject(l)}
}

func intLiteral(v int) xsd.Literal {
	return xsd.Literal{Lexical: strconv.Itoa(v), Datatype: xsd.Integer}
}

func cardLiteral(v int) xsd.Literal {
	return xsd.Literal{Lexical: strconv.Itoa(v), Datatype: xsd.NonNegativeInt}
}

func boolLiteral(v bool) xsd.Literal {
	return xsd.Literal{Lexical: strconv.FormatBool(v), Datatype: xsd.Boolean}
}

func decimalLiteral(v float64) xsd.Literal {
	return xsd.Literal{Lexical: strconv.FormatFloat(v, 'f', -1, 64), Datatype: xsd.Decimal}
}

func stringLiteral(s string) xsd.Literal {
	return xsd.Literal{Lexical: s, Datatype: xsd.String}
}
