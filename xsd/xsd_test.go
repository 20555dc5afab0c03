package xsd

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDatatypeClassification(t *testing.T) {
	tests := []struct {
		dt         Datatype
		stringLike bool
		numeric    bool
		comparable bool
	}{
		{String, true, false, true},
		{Token, true, false, false},
		{AnyURI, true, false, false},
		{Integer, false, true, true},
		{Decimal, false, true, true},
		{Double, false, true, true},
		{Boolean, false, false, false},
		{DateTime, false, false, true},
		{LangStringType, false, false, false},
	}
	for _, tt := range tests {
		t.Run(string(tt.dt), func(t *testing.T) {
			assert.Equal(t, tt.stringLike, tt.dt.IsStringLike(), "IsStringLike")
			assert.Equal(t, tt.numeric, tt.dt.IsNumeric(), "IsNumeric")
			assert.Equal(t, tt.comparable, tt.dt.IsComparable(), "IsComparable")
		})
	}
	assert.True(t, LangStringType.IsLangTagged())
	assert.False(t, String.IsLangTagged())
}

func TestParseDatatype(t *testing.T) {
	dt, err := ParseDatatype("xsd:integer")
	require.NoError(t, err)
	assert.Equal(t, Integer, dt)

	_, err = ParseDatatype("xsd:nope")
	assert.Error(t, err)
}

func TestNewLiteralValidation(t *testing.T) {
	_, err := NewLiteral("abc", Integer)
	assert.Error(t, err, "non-numeric lexical form for xsd:integer")

	_, err = NewLiteral("maybe", Boolean)
	assert.Error(t, err)

	_, err = NewLiteral("hello", LangStringType)
	assert.Error(t, err, "langString requires NewLangLiteral")

	l, err := NewLiteral("42", Integer)
	require.NoError(t, err)
	assert.Equal(t, `"42"^^xsd:integer`, l.Term())
}

func TestLangLiteral(t *testing.T) {
	l, err := NewLangLiteral("Buch", "DE")
	require.NoError(t, err)
	assert.Equal(t, "de", l.Lang, "tag is canonicalized")
	assert.Equal(t, `"Buch"@de`, l.Term())

	_, err = NewLangLiteral("x", "not a tag!!")
	assert.Error(t, err)
}

func TestTermRoundTrip(t *testing.T) {
	literals := []Literal{
		{Lexical: "plain string", Datatype: String},
		{Lexical: `quoted "inner" text`, Datatype: String},
		{Lexical: "42", Datatype: Integer},
		{Lexical: "3.14", Datatype: Decimal},
		{Lexical: "true", Datatype: Boolean},
		{Lexical: "Buch", Datatype: LangStringType, Lang: "de"},
	}
	for _, l := range literals {
		got, err := ParseTerm(l.Term())
		require.NoError(t, err, "term %s", l.Term())
		assert.Equal(t, l, got)
	}
}

func TestParseTermRejectsGarbage(t *testing.T) {
	for _, term := range []string{"", "ex:foo", `"open`, `"x"^^xsd:nope`, `"x"trailing`} {
		_, err := ParseTerm(term)
		assert.Error(t, err, "term %q", term)
	}
}

func TestCompare(t *testing.T) {
	i := MustLiteral("10", Integer)
	d := MustLiteral("9.5", Decimal)

	// Numeric comparison crosses numeric datatypes.
	c, err := Compare(d, i)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	a := MustLiteral("apple", String)
	b := MustLiteral("banana", String)
	c, err = Compare(a, b)
	require.NoError(t, err)
	assert.Equal(t, -1, c)

	_, err = Compare(a, i)
	assert.Error(t, err, "string vs integer has no ordering")

	t1 := MustLiteral("true", Boolean)
	t2 := MustLiteral("false", Boolean)
	_, err = Compare(t1, t2)
	assert.Error(t, err, "boolean has no ordering")
}

func TestLangString(t *testing.T) {
	ls, err := NewLangString(map[string]string{"en": "Book", "de": "Buch"})
	require.NoError(t, err)

	got, ok := ls.Get("EN")
	assert.True(t, ok)
	assert.Equal(t, "Book", got)

	// One string per tag: Set replaces.
	require.NoError(t, ls.Set("en", "The Book"))
	got, _ = ls.Get("en")
	assert.Equal(t, "The Book", got)

	assert.Equal(t, []string{"de", "en"}, ls.Tags())

	lits := ls.Literals()
	require.Len(t, lits, 2)
	assert.Equal(t, `"Buch"@de`, lits[0].Term())

	clone := ls.Clone()
	assert.True(t, ls.Equal(clone))
	clone.Remove("de")
	assert.False(t, ls.Equal(clone))

	err = ls.MergeLangLiteral(Literal{Lexical: "Livre", Datatype: LangStringType, Lang: "fr"})
	require.NoError(t, err)
	err = ls.MergeLangLiteral(Literal{Lexical: "Le Livre", Datatype: LangStringType, Lang: "fr"})
	assert.Error(t, err, "second string for the same tag")
}
