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

func mustIri(t *testing.T, s string) iri.Iri {
	t.Helper()
	pm := iri.NewPrefixMap()
	require.NoError(t, pm.Register("ex", "http://example.org/books#"))
	return iri.MustParse(s, pm)
}

func TestRestrictionsValidate(t *testing.T) {
	tests := []struct {
		name    string
		r       Restrictions
		wantErr bool
	}{
		{
			name: "string with length bounds",
			r:    Restrictions{Datatype: xsd.String, MinLength: Int(1), MaxLength: Int(200)},
		},
		{
			name: "datatype and target class are exclusive",
			r: Restrictions{Datatype: xsd.String,
				TargetClass: iri.MustParse("http://example.org/books#Book", nil)},
			wantErr: true,
		},
		{
			name:    "minCount above maxCount",
			r:       Restrictions{MinCount: Int(3), MaxCount: Int(1)},
			wantErr: true,
		},
		{
			name:    "negative minCount",
			r:       Restrictions{MinCount: Int(-1)},
			wantErr: true,
		},
		{
			name:    "length bounds need string-like datatype",
			r:       Restrictions{Datatype: xsd.Integer, MinLength: Int(1)},
			wantErr: true,
		},
		{
			name:    "minLength above maxLength",
			r:       Restrictions{Datatype: xsd.String, MinLength: Int(10), MaxLength: Int(2)},
			wantErr: true,
		},
		{
			name: "pattern on string",
			r:    Restrictions{Datatype: xsd.String, Pattern: `^[A-Z].*`},
		},
		{
			name:    "pattern needs string-like datatype",
			r:       Restrictions{Datatype: xsd.Decimal, Pattern: `^[0-9]+`},
			wantErr: true,
		},
		{
			name:    "invalid pattern syntax",
			r:       Restrictions{Datatype: xsd.String, Pattern: `([`},
			wantErr: true,
		},
		{
			name: "numeric bounds on integer",
			r: Restrictions{Datatype: xsd.Integer,
				MinInclusive: Lit(xsd.MustLiteral("0", xsd.Integer)),
				MaxInclusive: Lit(xsd.MustLiteral("100", xsd.Integer))},
		},
		{
			name: "numeric bounds need numeric datatype",
			r: Restrictions{Datatype: xsd.String,
				MinInclusive: Lit(xsd.MustLiteral("0", xsd.Integer))},
			wantErr: true,
		},
		{
			name: "lower bound above upper bound",
			r: Restrictions{Datatype: xsd.Integer,
				MinInclusive: Lit(xsd.MustLiteral("10", xsd.Integer)),
				MaxExclusive: Lit(xsd.MustLiteral("5", xsd.Integer))},
			wantErr: true,
		},
		{
			name: "all four value bounds consistent",
			r: Restrictions{Datatype: xsd.Integer,
				MinInclusive: Lit(xsd.MustLiteral("0", xsd.Integer)),
				MinExclusive: Lit(xsd.MustLiteral("1", xsd.Integer)),
				MaxInclusive: Lit(xsd.MustLiteral("100", xsd.Integer)),
				MaxExclusive: Lit(xsd.MustLiteral("101", xsd.Integer))},
		},
		{
			name: "exclusive lower above upper with inclusive lower fine",
			r: Restrictions{Datatype: xsd.Integer,
				MinInclusive: Lit(xsd.MustLiteral("0", xsd.Integer)),
				MinExclusive: Lit(xsd.MustLiteral("50", xsd.Integer)),
				MaxInclusive: Lit(xsd.MustLiteral("10", xsd.Integer))},
			wantErr: true,
		},
		{
			name: "inclusive lower above exclusive upper with inclusive upper fine",
			r: Restrictions{Datatype: xsd.Integer,
				MinInclusive: Lit(xsd.MustLiteral("10", xsd.Integer)),
				MaxInclusive: Lit(xsd.MustLiteral("100", xsd.Integer)),
				MaxExclusive: Lit(xsd.MustLiteral("5", xsd.Integer))},
			wantErr: true,
		},
		{
			name: "languageIn on langString",
			r:    Restrictions{Datatype: xsd.LangStringType, LanguageIn: []string{"en", "de"}},
		},
		{
			name:    "languageIn needs langString",
			r:       Restrictions{Datatype: xsd.String, LanguageIn: []string{"en"}},
			wantErr: true,
		},
		{
			name:    "uniqueLang needs langString",
			r:       Restrictions{Datatype: xsd.String, UniqueLang: true},
			wantErr: true,
		},
		{
			name:    "invalid tag in languageIn",
			r:       Restrictions{Datatype: xsd.LangStringType, LanguageIn: []string{"no such tag"}},
			wantErr: true,
		},
		{
			name: "enumeration matching datatype",
			r: Restrictions{Datatype: xsd.String,
				In: []xsd.Literal{xsd.MustLiteral("hardcover", xsd.String), xsd.MustLiteral("paperback", xsd.String)}},
		},
		{
			name: "enumeration member of wrong datatype",
			r: Restrictions{Datatype: xsd.String,
				In: []xsd.Literal{xsd.MustLiteral("1", xsd.Integer)}},
			wantErr: true,
		},
		{
			name: "lessThan on comparable datatype",
			r: Restrictions{Datatype: xsd.Integer,
				LessThan: iri.MustParse("http://example.org/books#pages", nil)},
		},
		{
			name: "lessThan on non-comparable datatype",
			r: Restrictions{Datatype: xsd.Boolean,
				LessThan: iri.MustParse("http://example.org/books#pages", nil)},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.r.Validate("ex:test")
			if tt.wantErr {
				require.Error(t, err)
				assert.True(t, errors.Is(err, schemaerrors.ErrInconsistentRestrictions),
					"expected InconsistentRestrictions, got %v", err)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestRestrictionsCloneIsIndependent(t *testing.T) {
	r := Restrictions{Datatype: xsd.String, MinCount: Int(1), In: []xsd.Literal{xsd.MustLiteral("a", xsd.String)}}
	c := r.Clone()
	require.True(t, r.Equal(c))

	*c.MinCount = 5
	c.In[0] = xsd.MustLiteral("b", xsd.String)
	assert.Equal(t, 1, *r.MinCount)
	assert.Equal(t, "a", r.In[0].Lexical)
	assert.False(t, r.Equal(c))
}

func TestRestrictionsEqual(t *testing.T) {
	a := Restrictions{Datatype: xsd.String, MinLength: Int(1)}
	b := Restrictions{Datatype: xsd.String, MinLength: Int(1)}
	assert.True(t, a.Equal(b))

	b.MinLength = nil
	assert.False(t, a.Equal(b))

	c := Restrictions{Datatype: xsd.Integer, MinCount: Int(1)}
	d := Restrictions{Datatype: xsd.Integer, MinCount: Int(2)}
	assert.False(t, c.Equal(d))
}

func TestDatatypeIri(t *testing.T) {
	r := Restrictions{Datatype: xsd.Integer}
	i, ok := r.DatatypeIri()
	require.True(t, ok)
	assert.Equal(t, iri.XSDNamespace+"integer", i.String())

	_, ok = Restrictions{}.DatatypeIri()
	assert.False(t, ok)
}
