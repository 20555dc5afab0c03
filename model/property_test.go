package model

import (
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	schemaerrors "github.com/c360/semschema/errors"
	"github.com/c360/semschema/iri"
	"github.com/c360/semschema/xsd"
)

func TestNewProperty(t *testing.T) {
	id := mustIri(t, "ex:title")
	p, err := NewProperty(id, Restrictions{Datatype: xsd.String, MinLength: Int(1), MaxLength: Int(200)})
	require.NoError(t, err)
	assert.Equal(t, id, p.ID)
	assert.Equal(t, Standalone, p.Origin)
	assert.False(t, p.IsObjectProperty())
}

func TestNewPropertyRejectsInconsistentRestrictions(t *testing.T) {
	_, err := NewProperty(mustIri(t, "ex:title"),
		Restrictions{Datatype: xsd.Integer, Pattern: "x"})
	require.Error(t, err)
	assert.True(t, errors.Is(err, schemaerrors.ErrInconsistentRestrictions))
}

func TestNewPropertyNeedsIdentifier(t *testing.T) {
	_, err := NewProperty(iri.Iri{}, Restrictions{})
	assert.Error(t, err)
}

func TestNewPrivateProperty(t *testing.T) {
	p, err := NewPrivateProperty(mustIri(t, "ex:internalNote"), Restrictions{Datatype: xsd.String})
	require.NoError(t, err)
	assert.Equal(t, Private, p.Origin)
	assert.Equal(t, "private", p.Origin.String())
}

func TestSetRestrictionsValidatesWholeSet(t *testing.T) {
	p, err := NewProperty(mustIri(t, "ex:pages"), Restrictions{Datatype: xsd.Integer})
	require.NoError(t, err)

	// The new set is validated as a whole; on failure nothing mutates.
	bad := Restrictions{Datatype: xsd.Integer, MinLength: Int(1)}
	err = p.SetRestrictions(bad)
	require.Error(t, err)
	assert.True(t, errors.Is(err, schemaerrors.ErrInconsistentRestrictions))
	assert.True(t, p.Restrictions.Equal(Restrictions{Datatype: xsd.Integer}))

	good := Restrictions{Datatype: xsd.Integer, MinInclusive: Lit(xsd.MustLiteral("1", xsd.Integer))}
	require.NoError(t, p.SetRestrictions(good))
	assert.True(t, p.Restrictions.Equal(good))
}

func TestIsObjectProperty(t *testing.T) {
	p, err := NewProperty(mustIri(t, "ex:author"),
		Restrictions{TargetClass: mustIri(t, "ex:Person")})
	require.NoError(t, err)
	assert.True(t, p.IsObjectProperty())
}

func TestPropertyCloneAndEqual(t *testing.T) {
	p, err := NewProperty(mustIri(t, "ex:title"), Restrictions{Datatype: xsd.String})
	require.NoError(t, err)
	p.Name = xsd.LangString{"en": "Title"}

	c := p.Clone()
	require.True(t, p.Equal(c))

	c.Name["en"] = "Changed"
	assert.Equal(t, "Title", p.Name["en"])
	assert.False(t, p.Equal(c))

	assert.True(t, (*Property)(nil).Equal(nil))
	assert.False(t, p.Equal(nil))
}
