package datamodel

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/model"
	"github.com/c360/semschema/xsd"
)

func addProperty(t *testing.T, m *DataModel, id string, r model.Restrictions) {
	t.Helper()
	p, err := model.NewProperty(mustIri(t, id), r)
	require.NoError(t, err)
	require.NoError(t, m.AddProperty(p))
}

func addClass(t *testing.T, m *DataModel, id string) {
	t.Helper()
	rc, err := model.NewResourceClass(mustIri(t, id))
	require.NoError(t, err)
	require.NoError(t, m.AddResourceClass(rc))
}

func attach(t *testing.T, m *DataModel, class, prop string, minCount, maxCount *int) {
	t.Helper()
	h, err := model.NewHasProperty(mustIri(t, prop), minCount, maxCount, nil)
	require.NoError(t, err)
	require.NoError(t, m.AttachProperty(mustIri(t, class), h))
}

func TestAddPropertyDuplicate(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})

	p, err := model.NewProperty(mustIri(t, "ex:title"), model.Restrictions{Datatype: xsd.Integer})
	require.NoError(t, err)
	err = m.AddProperty(p)
	assert.ErrorIs(t, err, serrors.ErrDuplicateIdentifier)

	// The staged property is untouched.
	got, ok := m.Property(mustIri(t, "ex:title"))
	require.True(t, ok)
	assert.Equal(t, xsd.String, got.Restrictions.Datatype)
}

func TestAddPropertyRejectsInconsistentRestrictions(t *testing.T) {
	m := New(nil, "books")
	p := &model.Property{
		ID: mustIri(t, "ex:broken"),
		Restrictions: model.Restrictions{
			Datatype: xsd.Integer,
			Pattern:  "[0-9]+", // string facet on a numeric datatype
		},
		Origin: model.Standalone,
	}
	err := m.AddProperty(p)
	assert.ErrorIs(t, err, serrors.ErrInconsistentRestrictions)
	assert.Equal(t, StateUnloaded, m.State())
}

func TestSetPropertyRestrictionsNoMutationOnFailure(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:pages", model.Restrictions{Datatype: xsd.Integer})

	err := m.SetPropertyRestrictions(mustIri(t, "ex:pages"), model.Restrictions{
		Datatype:  xsd.Integer,
		MinLength: model.Int(3),
	})
	assert.ErrorIs(t, err, serrors.ErrInconsistentRestrictions)

	got, ok := m.Property(mustIri(t, "ex:pages"))
	require.True(t, ok)
	assert.Nil(t, got.Restrictions.MinLength)
}

func TestRemovePropertyInUse(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})
	addClass(t, m, "ex:Book")
	attach(t, m, "ex:Book", "ex:title", model.Int(1), model.Int(1))

	err := m.RemoveProperty(mustIri(t, "ex:title"))
	assert.ErrorIs(t, err, serrors.ErrPropertyInUse)

	// Detaching frees it.
	require.NoError(t, m.DetachProperty(mustIri(t, "ex:Book"), mustIri(t, "ex:title")))
	assert.NoError(t, m.RemoveProperty(mustIri(t, "ex:title")))
}

func TestRemovePropertyReferencedAsSuper(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:name", model.Restrictions{Datatype: xsd.String})
	addProperty(t, m, "ex:shortName", model.Restrictions{Datatype: xsd.String})
	require.NoError(t, m.SetPropertySuper(mustIri(t, "ex:shortName"), mustIri(t, "ex:name")))

	err := m.RemoveProperty(mustIri(t, "ex:name"))
	assert.ErrorIs(t, err, serrors.ErrPropertyInUse)
}

func TestAttachCardinalityConflict(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:isbn", model.Restrictions{
		Datatype: xsd.String,
		MaxCount: model.Int(1),
	})
	addClass(t, m, "ex:Book")

	// Local minimum above the property's own maximum.
	h, err := model.NewHasProperty(mustIri(t, "ex:isbn"), model.Int(2), model.Int(2), nil)
	require.NoError(t, err)
	err = m.AttachProperty(mustIri(t, "ex:Book"), h)
	assert.ErrorIs(t, err, serrors.ErrCardinalityConflict)

	// Nothing staged.
	rc, ok := m.ResourceClass(mustIri(t, "ex:Book"))
	require.True(t, ok)
	assert.Empty(t, rc.Bindings)
}

func TestPrivatePropertyNotReusable(t *testing.T) {
	m := New(nil, "books")
	addClass(t, m, "ex:Book")
	addClass(t, m, "ex:Journal")

	shelf, err := model.NewPrivateProperty(mustIri(t, "ex:shelfMark"), model.Restrictions{Datatype: xsd.Token})
	require.NoError(t, err)
	h, err := model.NewHasProperty(mustIri(t, "ex:shelfMark"), nil, model.Int(1), nil)
	require.NoError(t, err)
	require.NoError(t, m.AttachPrivateProperty(mustIri(t, "ex:Book"), shelf, h))

	// Another class cannot bind it.
	err = m.AttachProperty(mustIri(t, "ex:Journal"), h)
	assert.ErrorIs(t, err, serrors.ErrPropertyNotReusable)

	// Its identifier is taken model-wide.
	dup, err := model.NewProperty(mustIri(t, "ex:shelfMark"), model.Restrictions{Datatype: xsd.String})
	require.NoError(t, err)
	assert.ErrorIs(t, m.AddProperty(dup), serrors.ErrDuplicateIdentifier)
}

func TestAddResourceClassRejectsUnboundPrivateProperty(t *testing.T) {
	m := New(nil, "books")

	// A private property with no binding would serialize to nothing: no
	// binding node means no reload path for it.
	rc, err := model.NewResourceClass(mustIri(t, "ex:Book"))
	require.NoError(t, err)
	shelf, err := model.NewPrivateProperty(mustIri(t, "ex:shelfMark"), model.Restrictions{Datatype: xsd.Token})
	require.NoError(t, err)
	rc.PrivateProps[mustIri(t, "ex:shelfMark")] = shelf

	err = m.AddResourceClass(rc)
	assert.ErrorIs(t, err, serrors.ErrModelInconsistent)
	_, ok := m.ResourceClass(mustIri(t, "ex:Book"))
	assert.False(t, ok)
}

func TestDetachDestroysPrivateProperty(t *testing.T) {
	m := New(nil, "books")
	addClass(t, m, "ex:Book")

	shelf, err := model.NewPrivateProperty(mustIri(t, "ex:shelfMark"), model.Restrictions{Datatype: xsd.Token})
	require.NoError(t, err)
	h, err := model.NewHasProperty(mustIri(t, "ex:shelfMark"), nil, nil, nil)
	require.NoError(t, err)
	require.NoError(t, m.AttachPrivateProperty(mustIri(t, "ex:Book"), shelf, h))

	require.NoError(t, m.DetachProperty(mustIri(t, "ex:Book"), mustIri(t, "ex:shelfMark")))

	rc, ok := m.ResourceClass(mustIri(t, "ex:Book"))
	require.True(t, ok)
	assert.Empty(t, rc.PrivateProps)

	// The identifier is free again.
	fresh, err := model.NewProperty(mustIri(t, "ex:shelfMark"), model.Restrictions{Datatype: xsd.String})
	require.NoError(t, err)
	assert.NoError(t, m.AddProperty(fresh))
}

func TestSetSuperclassUnknown(t *testing.T) {
	m := New(nil, "books")
	addClass(t, m, "ex:Book")

	err := m.SetSuperclass(mustIri(t, "ex:Book"), mustIri(t, "ex:Publication"))
	assert.ErrorIs(t, err, serrors.ErrUnknownSuperclass)
}

func TestSetSuperclassCycle(t *testing.T) {
	m := New(nil, "books")
	addClass(t, m, "ex:A")
	addClass(t, m, "ex:B")
	addClass(t, m, "ex:C")

	require.NoError(t, m.SetSuperclass(mustIri(t, "ex:B"), mustIri(t, "ex:A")))
	require.NoError(t, m.SetSuperclass(mustIri(t, "ex:C"), mustIri(t, "ex:B")))

	err := m.SetSuperclass(mustIri(t, "ex:A"), mustIri(t, "ex:C"))
	assert.ErrorIs(t, err, serrors.ErrCyclicInheritance)

	// A is still root.
	rc, ok := m.ResourceClass(mustIri(t, "ex:A"))
	require.True(t, ok)
	assert.True(t, rc.SuperClass.IsZero())

	// Self-reference is also a cycle.
	err = m.SetSuperclass(mustIri(t, "ex:A"), mustIri(t, "ex:A"))
	assert.ErrorIs(t, err, serrors.ErrCyclicInheritance)
}

func TestInheritedCardinalityNotLoosened(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})
	addClass(t, m, "ex:Publication")
	addClass(t, m, "ex:Book")
	attach(t, m, "ex:Publication", "ex:title", model.Int(1), model.Int(1))
	require.NoError(t, m.SetSuperclass(mustIri(t, "ex:Book"), mustIri(t, "ex:Publication")))

	// Dropping the inherited maximum loosens the bound.
	h, err := model.NewHasProperty(mustIri(t, "ex:title"), model.Int(1), nil, nil)
	require.NoError(t, err)
	err = m.AttachProperty(mustIri(t, "ex:Book"), h)
	assert.ErrorIs(t, err, serrors.ErrInheritedCardinality)

	// Narrowing is allowed: the same bounds restated.
	h, err = model.NewHasProperty(mustIri(t, "ex:title"), model.Int(1), model.Int(1), nil)
	require.NoError(t, err)
	assert.NoError(t, m.AttachProperty(mustIri(t, "ex:Book"), h))
}

func TestSetSuperclassRechecksNarrowing(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})
	addClass(t, m, "ex:Publication")
	addClass(t, m, "ex:Book")
	attach(t, m, "ex:Publication", "ex:title", model.Int(1), model.Int(1))
	attach(t, m, "ex:Book", "ex:title", model.Int(0), model.Int(1))

	// Attaching the superclass now would loosen the inherited minimum.
	err := m.SetSuperclass(mustIri(t, "ex:Book"), mustIri(t, "ex:Publication"))
	assert.ErrorIs(t, err, serrors.ErrInheritedCardinality)
}

func TestRemoveResourceClassInUse(t *testing.T) {
	m := New(nil, "books")
	addClass(t, m, "ex:Publication")
	addClass(t, m, "ex:Book")
	require.NoError(t, m.SetSuperclass(mustIri(t, "ex:Book"), mustIri(t, "ex:Publication")))

	err := m.RemoveResourceClass(mustIri(t, "ex:Publication"))
	assert.ErrorIs(t, err, serrors.ErrResourceClassInUse)

	require.NoError(t, m.SetSuperclass(mustIri(t, "ex:Book"), iri.Iri{}))
	assert.NoError(t, m.RemoveResourceClass(mustIri(t, "ex:Publication")))
}

func TestEffectiveBindings(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})
	addProperty(t, m, "ex:issn", model.Restrictions{Datatype: xsd.String})
	addClass(t, m, "ex:Publication")
	addClass(t, m, "ex:Book")
	attach(t, m, "ex:Publication", "ex:title", model.Int(0), model.Int(1))
	attach(t, m, "ex:Publication", "ex:issn", nil, model.Int(1))
	require.NoError(t, m.SetSuperclass(mustIri(t, "ex:Book"), mustIri(t, "ex:Publication")))
	attach(t, m, "ex:Book", "ex:title", model.Int(1), model.Int(1))

	effective, err := m.EffectiveBindings(mustIri(t, "ex:Book"))
	require.NoError(t, err)
	require.Len(t, effective, 2)

	// Own binding overrides the inherited one.
	assert.Equal(t, mustIri(t, "ex:title"), effective[0].Property)
	require.NotNil(t, effective[0].MinCount)
	assert.Equal(t, 1, *effective[0].MinCount)

	assert.Equal(t, mustIri(t, "ex:issn"), effective[1].Property)
}

func TestChangeLogAndDiscard(t *testing.T) {
	m := New(nil, "books")
	assert.Equal(t, StateUnloaded, m.State())

	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})
	addClass(t, m, "ex:Book")
	attach(t, m, "ex:Book", "ex:title", nil, nil)

	assert.Equal(t, StateDirty, m.State())
	changes := m.PendingChanges()
	require.Len(t, changes, 3)
	assert.Equal(t, OpAddProperty, changes[0].Op)
	assert.Equal(t, OpAddResource, changes[1].Op)
	assert.Equal(t, OpAttachProperty, changes[2].Op)

	m.Discard()
	assert.Equal(t, StateUnloaded, m.State())
	assert.Empty(t, m.PendingChanges())
	assert.Empty(t, m.PropertyIDs())
	assert.Empty(t, m.ResourceClassIDs())
}

func TestAccessorsReturnCopies(t *testing.T) {
	m := New(nil, "books")
	addProperty(t, m, "ex:title", model.Restrictions{Datatype: xsd.String})

	got, ok := m.Property(mustIri(t, "ex:title"))
	require.True(t, ok)
	got.Restrictions.Datatype = xsd.Integer

	again, ok := m.Property(mustIri(t, "ex:title"))
	require.True(t, ok)
	assert.Equal(t, xsd.String, again.Restrictions.Datatype)
}
