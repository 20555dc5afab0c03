package datamodel

import (
	"context"
	"fmt"
	"sort"
	"strconv"
	"time"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/model"
	"github.com/c360/semschema/store"
	"github.com/c360/semschema/vocabulary"
	"github.com/c360/semschema/xsd"
)

var loadPrefixes = iri.NewPrefixMap()

// Load reads both project graphs from the store, reconstructs the
// in-memory model, records the snapshot marker, and moves the instance to
// the clean state. Any staged changes are discarded.
func (m *DataModel) Load(ctx context.Context) error {
	start := time.Now()

	constraint, err := m.gateway.ReadGraph(ctx, store.ConstraintGraph(m.project))
	if err != nil {
		m.recordLoad("store_error")
		return errors.NewSchemaError(errors.KindStoreUnavailable, m.project,
			"read constraint graph: %v", err)
	}
	inference, err := m.gateway.ReadGraph(ctx, store.InferenceGraph(m.project))
	if err != nil {
		m.recordLoad("store_error")
		return errors.NewSchemaError(errors.KindStoreUnavailable, m.project,
			"read inference graph: %v", err)
	}
	marker, err := m.gateway.SnapshotMarker(ctx, m.project)
	if err != nil {
		m.recordLoad("store_error")
		return errors.NewSchemaError(errors.KindStoreUnavailable, m.project,
			"read snapshot marker: %v", err)
	}

	properties, resources, err := parseGraphs(constraint, inference)
	if err != nil {
		m.recordLoad("parse_error")
		return err
	}

	m.properties = properties
	m.resources = resources
	m.marker = marker
	m.log.clear()
	m.state = StateClean
	// The snapshot is the canonical re-serialization of the parsed model,
	// not the raw statements read. Commit diffs stay exact against it even
	// when the store returned statements in a non-canonical form.
	m.takeSnapshot()

	if m.metrics != nil {
		m.metrics.RecordLoad(m.project, "ok")
		m.metrics.RecordLoadDuration(m.project, time.Since(start))
	}
	m.logger.Debug("data model loaded",
		"properties", len(m.properties),
		"resources", len(m.resources),
		"marker", marker,
		"duration", time.Since(start))
	return nil
}

func (m *DataModel) recordLoad(status string) {
	if m.metrics != nil {
		m.metrics.RecordLoad(m.project, status)
	}
}

// nodeIndex groups one graph's statements by subject, then predicate.
type nodeIndex map[iri.Iri]map[iri.Iri][]store.Object

func indexStatements(statements []store.Statement) nodeIndex {
	idx := nodeIndex{}
	for _, s := range statements {
		node, ok := idx[s.Subject]
		if !ok {
			node = map[iri.Iri][]store.Object{}
			idx[s.Subject] = node
		}
		node[s.Predicate] = append(node[s.Predicate], s.Object)
	}
	return idx
}

func (idx nodeIndex) objects(subject, predicate iri.Iri) []store.Object {
	return idx[subject][predicate]
}

func (idx nodeIndex) firstIRI(subject, predicate iri.Iri) (iri.Iri, bool) {
	for _, o := range idx[subject][predicate] {
		if o.Kind == store.ObjectIRI {
			return o.IRI, true
		}
	}
	return iri.Iri{}, false
}

func (idx nodeIndex) firstLiteral(subject, predicate iri.Iri) (xsd.Literal, bool) {
	for _, o := range idx[subject][predicate] {
		if o.Kind == store.ObjectLiteral {
			return o.Literal, true
		}
	}
	return xsd.Literal{}, false
}

func (idx nodeIndex) hasType(subject, class iri.Iri) bool {
	for _, o := range idx[subject][vocabulary.RDFType] {
		if o.Kind == store.ObjectIRI && o.IRI == class {
			return true
		}
	}
	return false
}

func (idx nodeIndex) subjectsOfType(class iri.Iri) []iri.Iri {
	var out []iri.Iri
	for subject := range idx {
		if idx.hasType(subject, class) {
			out = append(out, subject)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// parseGraphs reconstructs the model entities from the two graphs and
// cross-checks that every entity is present and consistently typed in
// both.
func parseGraphs(constraint, inference []store.Statement) (
	map[iri.Iri]*model.Property, map[iri.Iri]*model.ResourceClass, error) {

	cIdx := indexStatements(constraint)
	iIdx := indexStatements(inference)

	properties := map[iri.Iri]*model.Property{}
	for _, shape := range cIdx.subjectsOfType(vocabulary.SHPropertyShape) {
		id, ok := store.UnshapeName(shape)
		if !ok {
			return nil, nil, parseFailure("property shape %s lacks the shape suffix", shape)
		}
		if path, ok := cIdx.firstIRI(shape, vocabulary.SHPath); !ok || path != id {
			return nil, nil, parseFailure("property shape %s has missing or mismatched path", shape)
		}
		r, name, desc, err := parseFacets(cIdx, shape, true)
		if err != nil {
			return nil, nil, err
		}
		properties[id] = &model.Property{
			ID:           id,
			Restrictions: r,
			Name:         name,
			Description:  desc,
			Origin:       model.Standalone,
		}
	}

	resources := map[iri.Iri]*model.ResourceClass{}
	for _, shape := range cIdx.subjectsOfType(vocabulary.SHNodeShape) {
		target, ok := cIdx.firstIRI(shape, vocabulary.SHTargetClass)
		if !ok {
			return nil, nil, parseFailure("node shape %s has no target class", shape)
		}
		rc := &model.ResourceClass{
			ID:           target,
			PrivateProps: map[iri.Iri]*model.Property{},
		}
		if closed, ok := cIdx.firstLiteral(shape, vocabulary.SHClosed); ok {
			rc.Closed = closed.Lexical == "true" || closed.Lexical == "1"
		}

		for _, node := range sortedIRIObjects(cIdx.objects(shape, vocabulary.SHProperty)) {
			h, private, err := parseBinding(cIdx, node)
			if err != nil {
				return nil, nil, err
			}
			if private != nil {
				rc.PrivateProps[private.ID] = private
			}
			rc.Bindings = append(rc.Bindings, h)
		}
		resources[target] = rc
	}

	// Super-property references live only in the inference graph.
	applyInference := func(p *model.Property) {
		if super, ok := iIdx.firstIRI(p.ID, vocabulary.RDFSSubPropOf); ok {
			p.SubPropertyOf = super
		}
	}
	for _, p := range properties {
		applyInference(p)
	}
	for _, rc := range resources {
		for _, p := range rc.PrivateProps {
			applyInference(p)
		}
		// rdfs:subClassOf points at both the superclass and the per-binding
		// owl:Restriction nodes; the restriction nodes are skipped here.
		for _, o := range iIdx.objects(rc.ID, vocabulary.RDFSSubClassOf) {
			if o.Kind == store.ObjectIRI && !iIdx.hasType(o.IRI, vocabulary.OWLRestriction) {
				rc.SuperClass = o.IRI
				break
			}
		}
		label, comment, err := parseLangPairs(iIdx, rc.ID)
		if err != nil {
			return nil, nil, err
		}
		rc.Label, rc.Comment = label, comment
	}

	if err := crossCheck(iIdx, properties, resources); err != nil {
		return nil, nil, err
	}
	return properties, resources, nil
}

// parseBinding reconstructs one property binding of a node shape. A
// binding node without sh:node holds a private property inline; the
// reconstructed property is returned alongside the binding.
func parseBinding(idx nodeIndex, node iri.Iri) (model.HasProperty, *model.Property, error) {
	path, ok := idx.firstIRI(node, vocabulary.SHPath)
	if !ok {
		return model.HasProperty{}, nil, parseFailure("binding node %s has no path", node)
	}
	h := model.HasProperty{Property: path}

	if v, ok, err := intFacet(idx, node, vocabulary.SHMinCount); err != nil {
		return model.HasProperty{}, nil, err
	} else if ok {
		h.MinCount = model.Int(v)
	}
	if v, ok, err := intFacet(idx, node, vocabulary.SHMaxCount); err != nil {
		return model.HasProperty{}, nil, err
	} else if ok {
		h.MaxCount = model.Int(v)
	}
	if lit, ok := idx.firstLiteral(node, vocabulary.SHOrder); ok {
		f, valid := lit.Float()
		if !valid {
			return model.HasProperty{}, nil, parseFailure("binding node %s has non-numeric order %q", node, lit.Lexical)
		}
		h.Order = model.Float(f)
	}

	if ref, ok := idx.firstIRI(node, vocabulary.SHNode); ok {
		if ref != store.ShapeName(path) {
			return model.HasProperty{}, nil, parseFailure(
				"binding node %s references shape %s for path %s", node, ref, path)
		}
		return h, nil, nil
	}

	r, name, desc, err := parseFacets(idx, node, false)
	if err != nil {
		return model.HasProperty{}, nil, err
	}
	private := &model.Property{
		ID:           path,
		Restrictions: r,
		Name:         name,
		Description:  desc,
		Origin:       model.Private,
	}
	return h, private, nil
}

// parseFacets reads the constraint facets and display texts of a subject
// node. Count facets are skipped for binding nodes, where they belong to
// the binding rather than the property.
func parseFacets(idx nodeIndex, subject iri.Iri, includeCounts bool) (
	model.Restrictions, xsd.LangString, xsd.LangString, error) {

	var r model.Restrictions
	fail := func(format string, args ...any) (model.Restrictions, xsd.LangString, xsd.LangString, error) {
		return model.Restrictions{}, nil, nil, parseFailure(format, args...)
	}

	if dt, ok := idx.firstIRI(subject, vocabulary.SHDatatype); ok {
		parsed, err := xsd.ParseDatatype(loadPrefixes.Compress(dt))
		if err != nil {
			return fail("node %s has unsupported datatype %s", subject, dt)
		}
		r.Datatype = parsed
	}
	if class, ok := idx.firstIRI(subject, vocabulary.SHClass); ok {
		r.TargetClass = class
	}

	if includeCounts {
		if v, ok, err := intFacet(idx, subject, vocabulary.SHMinCount); err != nil {
			return model.Restrictions{}, nil, nil, err
		} else if ok {
			r.MinCount = model.Int(v)
		}
		if v, ok, err := intFacet(idx, subject, vocabulary.SHMaxCount); err != nil {
			return model.Restrictions{}, nil, nil, err
		} else if ok {
			r.MaxCount = model.Int(v)
		}
	}

	if v, ok, err := intFacet(idx, subject, vocabulary.SHMinLength); err != nil {
		return model.Restrictions{}, nil, nil, err
	} else if ok {
		r.MinLength = model.Int(v)
	}
	if v, ok, err := intFacet(idx, subject, vocabulary.SHMaxLength); err != nil {
		return model.Restrictions{}, nil, nil, err
	} else if ok {
		r.MaxLength = model.Int(v)
	}
	if lit, ok := idx.firstLiteral(subject, vocabulary.SHPattern); ok {
		r.Pattern = lit.Lexical
	}

	for pred, dst := range map[iri.Iri]**xsd.Literal{
		vocabulary.SHMinInclusive: &r.MinInclusive,
		vocabulary.SHMinExclusive: &r.MinExclusive,
		vocabulary.SHMaxInclusive: &r.MaxInclusive,
		vocabulary.SHMaxExclusive: &r.MaxExclusive,
	} {
		if lit, ok := idx.firstLiteral(subject, pred); ok {
			*dst = model.Lit(lit)
		}
	}

	for _, o := range idx.objects(subject, vocabulary.SHIn) {
		if o.Kind != store.ObjectLiteral {
			return fail("node %s has non-literal sh:in member", subject)
		}
		r.In = append(r.In, o.Literal)
	}
	sort.Slice(r.In, func(i, j int) bool { return r.In[i].Term() < r.In[j].Term() })

	for _, o := range idx.objects(subject, vocabulary.SHLanguageIn) {
		if o.Kind != store.ObjectLiteral {
			return fail("node %s has non-literal language tag", subject)
		}
		r.LanguageIn = append(r.LanguageIn, o.Literal.Lexical)
	}
	sort.Strings(r.LanguageIn)

	if lit, ok := idx.firstLiteral(subject, vocabulary.SHUniqueLang); ok {
		r.UniqueLang = lit.Lexical == "true" || lit.Lexical == "1"
	}
	if target, ok := idx.firstIRI(subject, vocabulary.SHLessThan); ok {
		r.LessThan = target
	}
	if target, ok := idx.firstIRI(subject, vocabulary.SHLessThanOrEq); ok {
		r.LessThanOrEquals = target
	}

	name, err := mergeLangObjects(idx.objects(subject, vocabulary.SHName), subject)
	if err != nil {
		return model.Restrictions{}, nil, nil, err
	}
	desc, err := mergeLangObjects(idx.objects(subject, vocabulary.SHDescription), subject)
	if err != nil {
		return model.Restrictions{}, nil, nil, err
	}
	return r, name, desc, nil
}

// parseLangPairs reads rdfs:label and rdfs:comment of a class node.
func parseLangPairs(idx nodeIndex, subject iri.Iri) (xsd.LangString, xsd.LangString, error) {
	label, err := mergeLangObjects(idx.objects(subject, vocabulary.RDFSLabel), subject)
	if err != nil {
		return nil, nil, err
	}
	comment, err := mergeLangObjects(idx.objects(subject, vocabulary.RDFSComment), subject)
	if err != nil {
		return nil, nil, err
	}
	return label, comment, nil
}

func mergeLangObjects(objects []store.Object, subject iri.Iri) (xsd.LangString, error) {
	if len(objects) == 0 {
		return nil, nil
	}
	ls := xsd.LangString{}
	for _, o := range objects {
		if o.Kind != store.ObjectLiteral {
			return nil, parseFailure("node %s has non-literal language text", subject)
		}
		if err := ls.MergeLangLiteral(o.Literal); err != nil {
			return nil, parseFailure("node %s: %v", subject, err)
		}
	}
	return ls, nil
}

func intFacet(idx nodeIndex, subject, predicate iri.Iri) (int, bool, error) {
	lit, ok := idx.firstLiteral(subject, predicate)
	if !ok {
		return 0, false, nil
	}
	v, err := strconv.Atoi(lit.Lexical)
	if err != nil {
		return 0, false, parseFailure("node %s has non-integer %s value %q",
			subject, predicate, lit.Lexical)
	}
	return v, true, nil
}

func sortedIRIObjects(objects []store.Object) []iri.Iri {
	var out []iri.Iri
	for _, o := range objects {
		if o.Kind == store.ObjectIRI {
			out = append(out, o.IRI)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

func parseFailure(format string, args ...any) error {
	return errors.WrapInvalid(fmt.Errorf(format, args...),
		"DataModel", "Load", "parse stored graphs")
}

// crossCheck verifies that every entity exists consistently in both
// graphs: properties typed as the matching OWL property kind, classes
// typed owl:Class, and no OWL subject unknown to the constraint graph.
func crossCheck(iIdx nodeIndex,
	properties map[iri.Iri]*model.Property,
	resources map[iri.Iri]*model.ResourceClass) error {

	checkProperty := func(p *model.Property) error {
		wantKind := vocabulary.OWLDatatypeProperty
		if p.IsObjectProperty() {
			wantKind = vocabulary.OWLObjectProperty
		}
		if !iIdx.hasType(p.ID, wantKind) {
			return errors.NewSchemaError(errors.KindCrossGraphMismatch, p.ID.String(),
				"constraint graph defines the property but the inference graph lacks the %s typing",
				loadPrefixes.Compress(wantKind))
		}
		return nil
	}

	known := map[iri.Iri]bool{}
	for _, p := range properties {
		known[p.ID] = true
		if err := checkProperty(p); err != nil {
			return err
		}
	}
	for _, rc := range resources {
		known[rc.ID] = true
		for _, p := range rc.PrivateProps {
			known[p.ID] = true
			if err := checkProperty(p); err != nil {
				return err
			}
		}
		if !iIdx.hasType(rc.ID, vocabulary.OWLClass) {
			return errors.NewSchemaError(errors.KindCrossGraphMismatch, rc.ID.String(),
				"constraint graph defines the resource class but the inference graph lacks the owl:Class typing")
		}
	}

	for _, kind := range []iri.Iri{
		vocabulary.OWLClass, vocabulary.OWLDatatypeProperty, vocabulary.OWLObjectProperty,
	} {
		for _, subject := range iIdx.subjectsOfType(kind) {
			if !known[subject] {
				return errors.NewSchemaError(errors.KindCrossGraphMismatch, subject.String(),
					"inference graph defines %s but the constraint graph has no shape for it",
					loadPrefixes.Compress(kind))
			}
		}
	}
	return nil
}
