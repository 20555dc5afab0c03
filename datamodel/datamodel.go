// Package datamodel provides the aggregate of all standalone properties
// and resource classes belonging to one project, and the read/diff/write
// protocol that keeps the constraint graph and the inference graph of the
// remote store continuously consistent with the in-memory model.
//
// A DataModel instance is not internally synchronized; one logical caller
// mutates it at a time (for example, one instance per request).
package datamodel

import (
	"fmt"
	"log/slog"
	"sort"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/metric"
	"github.com/c360/semschema/model"
	"github.com/c360/semschema/store"
	"github.com/c360/semschema/xsd"
)

// State is the lifecycle state of a DataModel instance.
type State int

// Lifecycle states.
const (
	// StateUnloaded is a freshly created instance: empty, no snapshot
	// marker. Mutating it follows the created-empty path and moves it to
	// StateDirty.
	StateUnloaded State = iota
	// StateClean mirrors exactly the last-read store state.
	StateClean
	// StateDirty holds accumulated mutations not yet written.
	StateDirty
	// StateCommitting is transient while Commit runs.
	StateCommitting
)

// String returns the state name.
func (s State) String() string {
	switch s {
	case StateUnloaded:
		return "unloaded"
	case StateClean:
		return "clean"
	case StateDirty:
		return "dirty"
	case StateCommitting:
		return "committing"
	default:
		return "unknown"
	}
}

// snapshot is the last-read (or last-committed) store state: deep copies
// of the entities and their canonical serializations per graph.
type snapshot struct {
	properties map[iri.Iri]*model.Property
	resources  map[iri.Iri]*model.ResourceClass
	constraint []store.Statement
	inference  []store.Statement
}

// DataModel aggregates the schema of one project and owns the
// read/diff/write protocol against the store gateway.
type DataModel struct {
	project string
	gateway store.Gateway
	logger  *slog.Logger
	metrics *metric.Metrics

	properties map[iri.Iri]*model.Property
	resources  map[iri.Iri]*model.ResourceClass

	state  State
	marker string
	snap   *snapshot
	log    changeLog
}

// Option configures a DataModel.
type Option func(*DataModel)

// WithLogger sets the logger; the default discards nothing and uses
// slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(m *DataModel) { m.logger = l }
}

// WithMetrics attaches commit/load instrumentation.
func WithMetrics(mt *metric.Metrics) Option {
	return func(m *DataModel) { m.metrics = mt }
}

// New creates an empty, unloaded DataModel for the project.
func New(gateway store.Gateway, project string, opts ...Option) *DataModel {
	m := &DataModel{
		project:    project,
		gateway:    gateway,
		logger:     slog.Default(),
		properties: map[iri.Iri]*model.Property{},
		resources:  map[iri.Iri]*model.ResourceClass{},
		state:      StateUnloaded,
	}
	for _, opt := range opts {
		opt(m)
	}
	m.logger = m.logger.With("component", "DataModel", "project", project)
	return m
}

// Project returns the owning project identifier.
func (m *DataModel) Project() string { return m.project }

// State returns the lifecycle state.
func (m *DataModel) State() State { return m.state }

// Marker returns the snapshot marker recorded at load time, empty when
// the model was created empty and never loaded.
func (m *DataModel) Marker() string { return m.marker }

// PendingChanges returns the ordered change log accumulated since the
// last load, commit or discard.
func (m *DataModel) PendingChanges() []Change { return m.log.Entries() }

// Property returns a copy of the standalone property, if present.
func (m *DataModel) Property(id iri.Iri) (*model.Property, bool) {
	p, ok := m.properties[id]
	if !ok {
		return nil, false
	}
	return p.Clone(), true
}

// ResourceClass returns a copy of the resource class, if present.
func (m *DataModel) ResourceClass(id iri.Iri) (*model.ResourceClass, bool) {
	rc, ok := m.resources[id]
	if !ok {
		return nil, false
	}
	return rc.Clone(), true
}

// PropertyIDs returns the standalone property identifiers in sorted order.
func (m *DataModel) PropertyIDs() []iri.Iri {
	return sortedKeys(m.properties)
}

// ResourceClassIDs returns the resource class identifiers in sorted order.
func (m *DataModel) ResourceClassIDs() []iri.Iri {
	return sortedKeys(m.resources)
}

func sortedKeys[V any](mp map[iri.Iri]V) []iri.Iri {
	out := make([]iri.Iri, 0, len(mp))
	for id := range mp {
		out = append(out, id)
	}
	sort.Slice(out, func(i, j int) bool { return out[i].Less(out[j]) })
	return out
}

// markDirty records a change and advances the state machine.
func (m *DataModel) markDirty(op Op, subject, target iri.Iri) {
	m.log.record(op, subject, target)
	m.state = StateDirty
}

// identifierInUse reports whether the identifier already names a
// standalone property or a private property of any resource class.
func (m *DataModel) identifierInUse(id iri.Iri) bool {
	if _, ok := m.properties[id]; ok {
		return true
	}
	for _, rc := range m.resources {
		if _, ok := rc.PrivateProps[id]; ok {
			return true
		}
	}
	return false
}

// AddProperty stages a new standalone property. The restriction set must
// be internally consistent and the identifier unused.
func (m *DataModel) AddProperty(p *model.Property) error {
	if p == nil || p.ID.IsZero() {
		return errors.WrapInvalid(fmt.Errorf("nil or unnamed property"),
			"DataModel", "AddProperty", "validate input")
	}
	if p.Origin != model.Standalone {
		return errors.WrapInvalid(fmt.Errorf("private property %s must be attached to its resource class", p.ID),
			"DataModel", "AddProperty", "validate input")
	}
	if err := p.Restrictions.Validate(p.ID.String()); err != nil {
		return err
	}
	if m.identifierInUse(p.ID) {
		return errors.NewSchemaError(errors.KindDuplicateIdentifier, p.ID.String(),
			"identifier already names a property in this data model")
	}
	if _, ok := m.resources[p.ID]; ok {
		return errors.NewSchemaError(errors.KindDuplicateIdentifier, p.ID.String(),
			"identifier already names a resource class in this data model")
	}
	m.properties[p.ID] = p.Clone()
	m.markDirty(OpAddProperty, p.ID, iri.Iri{})
	return nil
}

// SetPropertyRestrictions replaces a standalone property's restriction
// set. The whole resulting set is validated; on failure nothing mutates.
func (m *DataModel) SetPropertyRestrictions(id iri.Iri, r model.Restrictions) error {
	p, ok := m.properties[id]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown property %s", id),
			"DataModel", "SetPropertyRestrictions", "lookup")
	}
	if err := r.Validate(id.String()); err != nil {
		return err
	}
	p.Restrictions = r.Clone()
	m.markDirty(OpUpdateProperty, id, iri.Iri{})
	return nil
}

// SetPropertyName replaces the per-language display name.
func (m *DataModel) SetPropertyName(id iri.Iri, name xsd.LangString) error {
	p, ok := m.properties[id]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown property %s", id),
			"DataModel", "SetPropertyName", "lookup")
	}
	p.Name = name.Clone()
	m.markDirty(OpUpdateProperty, id, iri.Iri{})
	return nil
}

// SetPropertyDescription replaces the per-language description.
func (m *DataModel) SetPropertyDescription(id iri.Iri, desc xsd.LangString) error {
	p, ok := m.properties[id]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown property %s", id),
			"DataModel", "SetPropertyDescription", "lookup")
	}
	p.Description = desc.Clone()
	m.markDirty(OpUpdateProperty, id, iri.Iri{})
	return nil
}

// SetPropertySuper sets or clears (zero Iri) the super-property
// reference. The referenced property must exist in this data model.
func (m *DataModel) SetPropertySuper(id, super iri.Iri) error {
	p, ok := m.properties[id]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown property %s", id),
			"DataModel", "SetPropertySuper", "lookup")
	}
	if !super.IsZero() {
		if _, ok := m.properties[super]; !ok {
			return errors.WrapInvalid(fmt.Errorf("unknown super-property %s", super),
				"DataModel", "SetPropertySuper", "lookup")
		}
	}
	p.SubPropertyOf = super
	m.markDirty(OpUpdateProperty, id, super)
	return nil
}

// RemoveProperty stages deletion of a standalone property. It fails while
// any resource class binding or super-property reference still uses it.
func (m *DataModel) RemoveProperty(id iri.Iri) error {
	if _, ok := m.properties[id]; !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown property %s", id),
			"DataModel", "RemoveProperty", "lookup")
	}
	for _, rc := range m.resources {
		if rc.References(id) {
			return errors.NewSchemaError(errors.KindPropertyInUse, id.String(),
				"still bound by resource class %s", rc.ID)
		}
	}
	for _, other := range m.properties {
		if other.SubPropertyOf == id {
			return errors.NewSchemaError(errors.KindPropertyInUse, id.String(),
				"still referenced as super-property of %s", other.ID)
		}
	}
	delete(m.properties, id)
	m.markDirty(OpRemoveProperty, id, iri.Iri{})
	return nil
}

// AddResourceClass stages a new resource class. Its superclass, if set,
// must already exist; its bindings must resolve and respect property and
// inherited bounds.
func (m *DataModel) AddResourceClass(rc *model.ResourceClass) error {
	if rc == nil || rc.ID.IsZero() {
		return errors.WrapInvalid(fmt.Errorf("nil or unnamed resource class"),
			"DataModel", "AddResourceClass", "validate input")
	}
	if _, ok := m.resources[rc.ID]; ok {
		return errors.NewSchemaError(errors.KindDuplicateIdentifier, rc.ID.String(),
			"identifier already names a resource class in this data model")
	}
	if m.identifierInUse(rc.ID) {
		return errors.NewSchemaError(errors.KindDuplicateIdentifier, rc.ID.String(),
			"identifier already names a property in this data model")
	}
	for id, p := range rc.PrivateProps {
		if m.identifierInUse(id) {
			return errors.NewSchemaError(errors.KindDuplicateIdentifier, id.String(),
				"private property identifier already in use")
		}
		if _, bound := rc.Binding(id); !bound {
			return errors.NewSchemaError(errors.KindModelInconsistent, id.String(),
				"private property has no binding on %s", rc.ID)
		}
		if err := p.Restrictions.Validate(id.String()); err != nil {
			return err
		}
	}
	if !rc.SuperClass.IsZero() {
		if _, ok := m.resources[rc.SuperClass]; !ok {
			return errors.NewSchemaError(errors.KindUnknownSuperclass, rc.ID.String(),
				"superclass %s not found in data model", rc.SuperClass)
		}
	}
	staged := rc.Clone()
	m.resources[rc.ID] = staged
	if err := m.checkClassBindings(staged); err != nil {
		delete(m.resources, rc.ID)
		return err
	}
	m.markDirty(OpAddResource, rc.ID, rc.SuperClass)
	return nil
}

// checkClassBindings verifies each binding of the class against the
// referenced property and the inherited bindings of the superclass chain.
func (m *DataModel) checkClassBindings(rc *model.ResourceClass) error {
	for _, h := range rc.Bindings {
		p, err := m.resolveProperty(rc, h.Property)
		if err != nil {
			return err
		}
		if err := h.CheckAgainstProperty(p); err != nil {
			return err
		}
	}
	return m.checkNarrowingAgainstChain(rc, rc.SuperClass)
}

// resolveProperty finds the property a binding references: a private of
// the class itself or a standalone of the model.
func (m *DataModel) resolveProperty(rc *model.ResourceClass, id iri.Iri) (*model.Property, error) {
	if p, ok := rc.PrivateProps[id]; ok {
		return p, nil
	}
	if p, ok := m.properties[id]; ok {
		return p, nil
	}
	for _, other := range m.resources {
		if other.ID == rc.ID {
			continue
		}
		if _, ok := other.PrivateProps[id]; ok {
			return nil, errors.NewSchemaError(errors.KindPropertyNotReusable, id.String(),
				"private property owned by %s", other.ID)
		}
	}
	return nil, errors.NewSchemaError(errors.KindModelInconsistent, id.String(),
		"binding references unknown property")
}

// checkNarrowingAgainstChain rejects bindings of rc that loosen a
// cardinality inherited from the given superclass chain.
func (m *DataModel) checkNarrowingAgainstChain(rc *model.ResourceClass, super iri.Iri) error {
	chain, err := m.superChain(super)
	if err != nil {
		return err
	}
	for _, h := range rc.Bindings {
		for _, ancestorID := range chain {
			ancestor := m.resources[ancestorID]
			if inherited, ok := ancestor.Binding(h.Property); ok {
				if err := h.CheckNarrowing(inherited); err != nil {
					return err
				}
				break // nearest ancestor binding governs
			}
		}
	}
	return nil
}

// superChain walks from the given class up the superclass chain,
// returning the visited identifiers nearest-first. A dangling reference
// or a cycle is reported.
func (m *DataModel) superChain(from iri.Iri) ([]iri.Iri, error) {
	var chain []iri.Iri
	seen := map[iri.Iri]bool{}
	for cur := from; !cur.IsZero(); {
		if seen[cur] {
			return nil, errors.NewSchemaError(errors.KindCyclicInheritance, cur.String(),
				"superclass chain loops")
		}
		seen[cur] = true
		rc, ok := m.resources[cur]
		if !ok {
			return nil, errors.NewSchemaError(errors.KindUnknownSuperclass, cur.String(),
				"superclass not found in data model")
		}
		chain = append(chain, cur)
		cur = rc.SuperClass
	}
	return chain, nil
}

// SetSuperclass attaches (or, with a zero Iri, clears) the superclass of
// a resource class, refusing dangling references, cycles, and inherited
// cardinality loosening.
func (m *DataModel) SetSuperclass(classID, superID iri.Iri) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "SetSuperclass", "lookup")
	}
	if !superID.IsZero() {
		if _, ok := m.resources[superID]; !ok {
			return errors.NewSchemaError(errors.KindUnknownSuperclass, classID.String(),
				"superclass %s not found in data model", superID)
		}
		// Walk up from the proposed superclass: reaching classID means
		// classID is already an ancestor and the attach would close a
		// cycle.
		chain, err := m.superChain(superID)
		if err != nil {
			return err
		}
		for _, ancestor := range chain {
			if ancestor == classID {
				return errors.NewSchemaError(errors.KindCyclicInheritance, classID.String(),
					"%s is already a descendant of %s", superID, classID)
			}
		}
		if err := m.checkNarrowingAgainstChain(rc, superID); err != nil {
			return err
		}
	}
	rc.SuperClass = superID
	m.markDirty(OpSetSuperclass, classID, superID)
	return nil
}

// SetClosed toggles the closed-world flag. Always permitted at model
// level; existing instance data is the constraint checker's concern.
func (m *DataModel) SetClosed(classID iri.Iri, closed bool) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "SetClosed", "lookup")
	}
	rc.Closed = closed
	m.markDirty(OpSetClosed, classID, iri.Iri{})
	return nil
}

// SetClassLabel replaces the per-language label.
func (m *DataModel) SetClassLabel(classID iri.Iri, label xsd.LangString) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "SetClassLabel", "lookup")
	}
	rc.Label = label.Clone()
	m.markDirty(OpUpdateResource, classID, iri.Iri{})
	return nil
}

// SetClassComment replaces the per-language comment.
func (m *DataModel) SetClassComment(classID iri.Iri, comment xsd.LangString) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "SetClassComment", "lookup")
	}
	rc.Comment = comment.Clone()
	m.markDirty(OpUpdateResource, classID, iri.Iri{})
	return nil
}

// RemoveResourceClass stages deletion of a resource class and its private
// properties. It fails while another class declares it as superclass.
func (m *DataModel) RemoveResourceClass(id iri.Iri) error {
	if _, ok := m.resources[id]; !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", id),
			"DataModel", "RemoveResourceClass", "lookup")
	}
	for _, other := range m.resources {
		if other.ID != id && other.SuperClass == id {
			return errors.NewSchemaError(errors.KindResourceClassInUse, id.String(),
				"declared as superclass of %s", other.ID)
		}
	}
	delete(m.resources, id)
	m.markDirty(OpRemoveResource, id, iri.Iri{})
	return nil
}

// AttachProperty binds a standalone property to a resource class with
// optional local cardinality overrides and display order.
func (m *DataModel) AttachProperty(classID iri.Iri, h model.HasProperty) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "AttachProperty", "lookup")
	}
	p, err := m.resolveProperty(rc, h.Property)
	if err != nil {
		return err
	}
	if err := h.CheckAgainstProperty(p); err != nil {
		return err
	}
	chain, err := m.superChain(rc.SuperClass)
	if err != nil {
		return err
	}
	for _, ancestorID := range chain {
		if inherited, ok := m.resources[ancestorID].Binding(h.Property); ok {
			if err := h.CheckNarrowing(inherited); err != nil {
				return err
			}
			break
		}
	}
	rc.AddBinding(h.Clone())
	m.markDirty(OpAttachProperty, classID, h.Property)
	return nil
}

// AttachPrivateProperty creates a resource-bound property and binds it in
// one step. The property is owned exclusively by the class and destroyed
// with the binding.
func (m *DataModel) AttachPrivateProperty(classID iri.Iri, p *model.Property, h model.HasProperty) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "AttachPrivateProperty", "lookup")
	}
	if p == nil || p.ID.IsZero() || p.ID != h.Property {
		return errors.WrapInvalid(fmt.Errorf("binding does not reference the given property"),
			"DataModel", "AttachPrivateProperty", "validate input")
	}
	if p.Restrictions.MinCount != nil || p.Restrictions.MaxCount != nil {
		// A private property shares its constraint node with the binding,
		// so cardinality bounds live on the binding alone.
		return errors.WrapInvalid(fmt.Errorf("cardinality of a private property belongs on its binding"),
			"DataModel", "AttachPrivateProperty", "validate input")
	}
	if err := p.Restrictions.Validate(p.ID.String()); err != nil {
		return err
	}
	for _, other := range m.resources {
		if other.ID == classID {
			continue
		}
		if _, owned := other.PrivateProps[p.ID]; owned {
			return errors.NewSchemaError(errors.KindPropertyNotReusable, p.ID.String(),
				"private property owned by %s", other.ID)
		}
	}
	if m.identifierInUse(p.ID) {
		if _, own := rc.PrivateProps[p.ID]; !own {
			return errors.NewSchemaError(errors.KindDuplicateIdentifier, p.ID.String(),
				"identifier already names a property in this data model")
		}
	}
	private := p.Clone()
	private.Origin = model.Private
	rc.PrivateProps[private.ID] = private
	rc.AddBinding(h.Clone())
	m.markDirty(OpAttachProperty, classID, p.ID)
	return nil
}

// DetachProperty removes the binding for the property. Always permitted;
// a standalone property survives, a private one is destroyed with its
// binding.
func (m *DataModel) DetachProperty(classID, propertyID iri.Iri) error {
	rc, ok := m.resources[classID]
	if !ok {
		return errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "DetachProperty", "lookup")
	}
	if !rc.RemoveBinding(propertyID) {
		return errors.WrapInvalid(fmt.Errorf("no binding for %s on %s", propertyID, classID),
			"DataModel", "DetachProperty", "lookup")
	}
	m.markDirty(OpDetachProperty, classID, propertyID)
	return nil
}

// EffectiveBindings computes the effective property set of a class: its
// own bindings plus those inherited from the full superclass chain, with
// a subclass binding for the same property overriding the inherited one.
// Own bindings come first in declaration order, then inherited ones
// nearest ancestor first.
func (m *DataModel) EffectiveBindings(classID iri.Iri) ([]model.HasProperty, error) {
	if _, ok := m.resources[classID]; !ok {
		return nil, errors.WrapInvalid(fmt.Errorf("unknown resource class %s", classID),
			"DataModel", "EffectiveBindings", "lookup")
	}
	chain, err := m.superChain(classID)
	if err != nil {
		return nil, err
	}

	var out []model.HasProperty
	seen := map[iri.Iri]bool{}
	for _, id := range chain {
		for _, h := range m.resources[id].Bindings {
			if seen[h.Property] {
				continue
			}
			seen[h.Property] = true
			out = append(out, h.Clone())
		}
	}
	return out, nil
}

// validate checks the whole model for the structural invariants: no
// dangling or cyclic superclass chains, no orphaned bindings, no
// cardinality violations, consistent restriction sets, resolvable
// comparison targets. The first violation is reported as
// ModelInconsistent.
func (m *DataModel) validate() error {
	inconsistent := func(subject iri.Iri, format string, args ...any) error {
		return errors.NewSchemaError(errors.KindModelInconsistent, subject.String(), format, args...)
	}

	for _, id := range m.PropertyIDs() {
		p := m.properties[id]
		if err := p.Restrictions.Validate(id.String()); err != nil {
			return inconsistent(id, "restriction set invalid: %v", err)
		}
		if !p.SubPropertyOf.IsZero() {
			if _, ok := m.properties[p.SubPropertyOf]; !ok {
				return inconsistent(id, "dangling super-property %s", p.SubPropertyOf)
			}
		}
		if err := m.checkComparisonTarget(p, m.standaloneLookup()); err != nil {
			return err
		}
	}

	for _, id := range m.ResourceClassIDs() {
		rc := m.resources[id]
		if _, err := m.superChain(id); err != nil {
			return inconsistent(id, "superclass chain invalid: %v", err)
		}
		for pid, p := range rc.PrivateProps {
			if _, bound := rc.Binding(pid); !bound {
				return inconsistent(pid, "private property owned by %s has no binding", rc.ID)
			}
			if err := p.Restrictions.Validate(pid.String()); err != nil {
				return inconsistent(pid, "restriction set invalid: %v", err)
			}
			if err := m.checkComparisonTarget(p, m.classLookup(rc)); err != nil {
				return err
			}
		}
		if err := m.checkClassBindings(rc); err != nil {
			return inconsistent(id, "binding invalid: %v", err)
		}
	}
	return nil
}

// standaloneLookup resolves comparison targets among the standalone
// properties only.
func (m *DataModel) standaloneLookup() func(iri.Iri) (*model.Property, bool) {
	return func(id iri.Iri) (*model.Property, bool) {
		p, ok := m.properties[id]
		return p, ok
	}
}

// classLookup resolves comparison targets in class scope: the class's own
// private properties first, then the standalone properties.
func (m *DataModel) classLookup(rc *model.ResourceClass) func(iri.Iri) (*model.Property, bool) {
	return func(id iri.Iri) (*model.Property, bool) {
		if p, ok := rc.PrivateProps[id]; ok {
			return p, true
		}
		p, ok := m.properties[id]
		return p, ok
	}
}

// checkComparisonTarget verifies that lessThan / lessThanOrEquals point
// at a property sharing a comparable datatype.
func (m *DataModel) checkComparisonTarget(p *model.Property, lookup func(iri.Iri) (*model.Property, bool)) error {
	for _, target := range []iri.Iri{p.Restrictions.LessThan, p.Restrictions.LessThanOrEquals} {
		if target.IsZero() {
			continue
		}
		other, ok := lookup(target)
		if !ok {
			return errors.NewSchemaError(errors.KindModelInconsistent, p.ID.String(),
				"comparison target %s not found in data model", target)
		}
		a, b := p.Restrictions.Datatype, other.Restrictions.Datatype
		if a == "" || b == "" {
			continue
		}
		comparable := a == b || (a.IsNumeric() && b.IsNumeric())
		if !comparable || !a.IsComparable() {
			return errors.NewSchemaError(errors.KindModelInconsistent, p.ID.String(),
				"comparison target %s has incomparable datatype %s vs %s", target, b, a)
		}
	}
	return nil
}

// takeSnapshot records the current entities and serializations as the
// new clean baseline.
func (m *DataModel) takeSnapshot() {
	constraint, inference := m.serialize()
	snap := &snapshot{
		properties: map[iri.Iri]*model.Property{},
		resources:  map[iri.Iri]*model.ResourceClass{},
		constraint: constraint,
		inference:  inference,
	}
	for id, p := range m.properties {
		snap.properties[id] = p.Clone()
	}
	for id, rc := range m.resources {
		snap.resources[id] = rc.Clone()
	}
	m.snap = snap
}

// Discard reverts the in-memory state to the last snapshot and clears the
// change log. This is the only way to leave the dirty state without a
// network round trip.
func (m *DataModel) Discard() {
	if m.snap != nil {
		m.properties = map[iri.Iri]*model.Property{}
		m.resources = map[iri.Iri]*model.ResourceClass{}
		for id, p := range m.snap.properties {
			m.properties[id] = p.Clone()
		}
		for id, rc := range m.snap.resources {
			m.resources[id] = rc.Clone()
		}
		m.state = StateClean
	} else {
		m.properties = map[iri.Iri]*model.Property{}
		m.resources = map[iri.Iri]*model.ResourceClass{}
		m.state = StateUnloaded
	}
	m.log.clear()
}
