// Package xsd provides the typed literal layer: XSD datatypes, literal
// values, and language-tagged strings as pure value objects.
package xsd

import (
	"fmt"

	"github.com/c360/semschema/errors"
)

// Datatype identifies an XSD datatype in prefixed notation. The prefixed
// form is the canonical representation throughout the library; the xsd and
// rdf prefixes are fixed by the RDF standards and never remapped.
type Datatype string

// Supported datatypes.
const (
	String           Datatype = "xsd:string"
	LangStringType   Datatype = "rdf:langString"
	Boolean          Datatype = "xsd:boolean"
	Decimal          Datatype = "xsd:decimal"
	Integer          Datatype = "xsd:integer"
	Int              Datatype = "xsd:int"
	Long             Datatype = "xsd:long"
	Short            Datatype = "xsd:short"
	Byte             Datatype = "xsd:byte"
	NonNegativeInt   Datatype = "xsd:nonNegativeInteger"
	PositiveInteger  Datatype = "xsd:positiveInteger"
	Float            Datatype = "xsd:float"
	Double           Datatype = "xsd:double"
	Date             Datatype = "xsd:date"
	DateTime         Datatype = "xsd:dateTime"
	DateTimeStamp    Datatype = "xsd:dateTimeStamp"
	Time             Datatype = "xsd:time"
	GYear            Datatype = "xsd:gYear"
	GYearMonth       Datatype = "xsd:gYearMonth"
	AnyURI           Datatype = "xsd:anyURI"
	NCName           Datatype = "xsd:NCName"
	QNameType        Datatype = "xsd:QName"
	NormalizedString Datatype = "xsd:normalizedString"
	Token            Datatype = "xsd:token"
	Language         Datatype = "xsd:language"
)

var knownDatatypes = map[Datatype]bool{
	String: true, LangStringType: true, Boolean: true, Decimal: true,
	Integer: true, Int: true, Long: true, Short: true, Byte: true,
	NonNegativeInt: true, PositiveInteger: true, Float: true, Double: true,
	Date: true, DateTime: true, DateTimeStamp: true, Time: true,
	GYear: true, GYearMonth: true, AnyURI: true, NCName: true,
	QNameType: true, NormalizedString: true, Token: true, Language: true,
}

// ParseDatatype validates a prefixed datatype name.
func ParseDatatype(s string) (Datatype, error) {
	dt := Datatype(s)
	if !knownDatatypes[dt] {
		return "", errors.WrapInvalid(
			fmt.Errorf("unknown datatype %q", s), "Datatype", "ParseDatatype", "lookup")
	}
	return dt, nil
}

// String returns the prefixed name.
func (d Datatype) String() string {
	return string(d)
}

// IsStringLike reports whether length and pattern facets apply.
func (d Datatype) IsStringLike() bool {
	switch d {
	case String, NormalizedString, Token, NCName, QNameType, AnyURI, Language:
		return true
	default:
		return false
	}
}

// IsNumeric reports whether numeric bound facets apply.
func (d Datatype) IsNumeric() bool {
	switch d {
	case Decimal, Integer, Int, Long, Short, Byte, NonNegativeInt,
		PositiveInteger, Float, Double:
		return true
	default:
		return false
	}
}

// IsLangTagged reports whether language facets (languageIn, uniqueLang) apply.
func (d Datatype) IsLangTagged() bool {
	return d == LangStringType
}

// IsComparable reports whether values of this datatype have a total order,
// which lessThan / lessThanOrEquals restrictions require.
func (d Datatype) IsComparable() bool {
	if d.IsNumeric() {
		return true
	}
	switch d {
	case Date, DateTime, DateTimeStamp, Time, GYear, GYearMonth, String:
		return true
	default:
		return false
	}
}
