package xsd

import (
	"fmt"
	"strconv"
	"strings"

	"golang.org/x/text/language"

	"github.com/c360/semschema/errors"
)

// Literal is an immutable typed literal value. The lexical form is kept
// verbatim; Lang is set only for rdf:langString.
type Literal struct {
	Lexical  string
	Datatype Datatype
	Lang     string
}

// NewLiteral builds a typed literal, validating the lexical form for the
// datatypes the schema layer computes with (booleans and numerics). Other
// lexical spaces are the typed-value collaborator's concern and are kept
// verbatim.
func NewLiteral(lexical string, dt Datatype) (Literal, error) {
	if !knownDatatypes[dt] {
		return Literal{}, errors.WrapInvalid(
			fmt.Errorf("unknown datatype %q", dt), "Literal", "NewLiteral", "validate datatype")
	}
	if dt == LangStringType {
		return Literal{}, errors.WrapInvalid(
			fmt.Errorf("rdf:langString literal needs a language tag, use NewLangLiteral"),
			"Literal", "NewLiteral", "validate datatype")
	}
	switch {
	case dt == Boolean:
		if lexical != "true" && lexical != "false" && lexical != "0" && lexical != "1" {
			return Literal{}, errors.WrapInvalid(
				fmt.Errorf("invalid boolean lexical form %q", lexical),
				"Literal", "NewLiteral", "validate lexical form")
		}
	case dt.IsNumeric():
		if _, err := strconv.ParseFloat(lexical, 64); err != nil {
			return Literal{}, errors.WrapInvalid(
				fmt.Errorf("invalid numeric lexical form %q for %s", lexical, dt),
				"Literal", "NewLiteral", "validate lexical form")
		}
	}
	return Literal{Lexical: lexical, Datatype: dt}, nil
}

// NewLangLiteral builds a language-tagged string literal. The tag must be a
// well-formed BCP 47 tag.
func NewLangLiteral(s, lang string) (Literal, error) {
	tag, err := ParseLanguageTag(lang)
	if err != nil {
		return Literal{}, err
	}
	return Literal{Lexical: s, Datatype: LangStringType, Lang: tag}, nil
}

// MustLiteral is NewLiteral that panics on error, for static initializers.
func MustLiteral(lexical string, dt Datatype) Literal {
	l, err := NewLiteral(lexical, dt)
	if err != nil {
		panic(err)
	}
	return l
}

// ParseLanguageTag validates and canonicalizes a BCP 47 language tag
// (lowercased primary subtag, e.g. "en", "de-CH").
func ParseLanguageTag(lang string) (string, error) {
	if lang == "" {
		return "", errors.WrapInvalid(
			fmt.Errorf("empty language tag"), "Literal", "ParseLanguageTag", "validate tag")
	}
	tag, err := language.Parse(lang)
	if err != nil {
		return "", errors.WrapInvalid(
			fmt.Errorf("invalid language tag %q: %w", lang, err),
			"Literal", "ParseLanguageTag", "validate tag")
	}
	return tag.String(), nil
}

// Term renders the canonical RDF term form used on the wire and for
// statement equality: "lex"^^xsd:type, "lex"@tag, or a bare quoted string
// for xsd:string.
func (l Literal) Term() string {
	quoted := strconv.Quote(l.Lexical)
	switch {
	case l.Lang != "":
		return quoted + "@" + l.Lang
	case l.Datatype == String || l.Datatype == "":
		return quoted
	default:
		return quoted + "^^" + string(l.Datatype)
	}
}

// String returns the term form.
func (l Literal) String() string {
	return l.Term()
}

// ParseTerm parses the canonical term form produced by Term.
func ParseTerm(term string) (Literal, error) {
	if !strings.HasPrefix(term, `"`) {
		return Literal{}, errors.WrapInvalid(
			fmt.Errorf("not a literal term: %q", term), "Literal", "ParseTerm", "parse")
	}
	end := closingQuote(term)
	if end < 0 {
		return Literal{}, errors.WrapInvalid(
			fmt.Errorf("unterminated literal term: %q", term), "Literal", "ParseTerm", "parse")
	}
	lexical, err := strconv.Unquote(term[:end+1])
	if err != nil {
		return Literal{}, errors.WrapInvalid(
			fmt.Errorf("bad literal quoting in %q: %w", term, err), "Literal", "ParseTerm", "parse")
	}
	rest := term[end+1:]
	switch {
	case rest == "":
		return Literal{Lexical: lexical, Datatype: String}, nil
	case strings.HasPrefix(rest, "@"):
		return NewLangLiteral(lexical, rest[1:])
	case strings.HasPrefix(rest, "^^"):
		dt, err := ParseDatatype(rest[2:])
		if err != nil {
			return Literal{}, err
		}
		return Literal{Lexical: lexical, Datatype: dt}, nil
	default:
		return Literal{}, errors.WrapInvalid(
			fmt.Errorf("trailing garbage in literal term %q", term), "Literal", "ParseTerm", "parse")
	}
}

// closingQuote finds the index of the unescaped closing quote.
func closingQuote(term string) int {
	for i := 1; i < len(term); i++ {
		switch term[i] {
		case '\\':
			i++
		case '"':
			return i
		}
	}
	return -1
}

// Float returns the numeric value for numeric datatypes.
func (l Literal) Float() (float64, bool) {
	if !l.Datatype.IsNumeric() {
		return 0, false
	}
	f, err := strconv.ParseFloat(l.Lexical, 64)
	if err != nil {
		return 0, false
	}
	return f, true
}

// Compare orders two literals of a shared comparable datatype family.
// Returns -1, 0, or +1. Numeric datatypes compare numerically, everything
// else lexically.
func Compare(a, b Literal) (int, error) {
	if a.Datatype.IsNumeric() && b.Datatype.IsNumeric() {
		af, _ := a.Float()
		bf, _ := b.Float()
		switch {
		case af < bf:
			return -1, nil
		case af > bf:
			return 1, nil
		default:
			return 0, nil
		}
	}
	if a.Datatype != b.Datatype {
		return 0, errors.WrapInvalid(
			fmt.Errorf("cannot compare %s with %s", a.Datatype, b.Datatype),
			"Literal", "Compare", "datatype check")
	}
	if !a.Datatype.IsComparable() {
		return 0, errors.WrapInvalid(
			fmt.Errorf("datatype %s has no ordering", a.Datatype),
			"Literal", "Compare", "datatype check")
	}
	return strings.Compare(a.Lexical, b.Lexical), nil
}
