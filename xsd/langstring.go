package xsd

import (
	"fmt"
	"sort"

	"github.com/c360/semschema/errors"
)

// LangString maps canonical language tags to strings, at most one string
// per tag. It backs human-readable names, descriptions, labels and comments.
type LangString map[string]string

// NewLangString builds a LangString from tag/value pairs.
func NewLangString(pairs map[string]string) (LangString, error) {
	ls := LangString{}
	for tag, s := range pairs {
		if err := ls.Set(tag, s); err != nil {
			return nil, err
		}
	}
	return ls, nil
}

// Set stores the string for the tag, replacing any previous value. The tag
// is canonicalized, so "EN" and "en" address the same entry.
func (ls LangString) Set(tag, s string) error {
	canonical, err := ParseLanguageTag(tag)
	if err != nil {
		return err
	}
	ls[canonical] = s
	return nil
}

// Get returns the string for the tag, if present.
func (ls LangString) Get(tag string) (string, bool) {
	canonical, err := ParseLanguageTag(tag)
	if err != nil {
		return "", false
	}
	s, ok := ls[canonical]
	return s, ok
}

// Remove deletes the entry for the tag.
func (ls LangString) Remove(tag string) {
	canonical, err := ParseLanguageTag(tag)
	if err != nil {
		return
	}
	delete(ls, canonical)
}

// Tags returns the tags in sorted order.
func (ls LangString) Tags() []string {
	tags := make([]string, 0, len(ls))
	for tag := range ls {
		tags = append(tags, tag)
	}
	sort.Strings(tags)
	return tags
}

// Literals renders the entries as language-tagged literals in tag order.
func (ls LangString) Literals() []Literal {
	lits := make([]Literal, 0, len(ls))
	for _, tag := range ls.Tags() {
		lits = append(lits, Literal{Lexical: ls[tag], Datatype: LangStringType, Lang: tag})
	}
	return lits
}

// Clone returns an independent copy.
func (ls LangString) Clone() LangString {
	if ls == nil {
		return nil
	}
	out := make(LangString, len(ls))
	for tag, s := range ls {
		out[tag] = s
	}
	return out
}

// Equal reports whether two LangStrings carry the same entries.
func (ls LangString) Equal(other LangString) bool {
	if len(ls) != len(other) {
		return false
	}
	for tag, s := range ls {
		if o, ok := other[tag]; !ok || o != s {
			return false
		}
	}
	return true
}

// MergeLangLiteral folds a parsed language-tagged literal into the set,
// rejecting a second string for the same tag.
func (ls LangString) MergeLangLiteral(l Literal) error {
	if l.Lang == "" {
		return errors.WrapInvalid(
			fmt.Errorf("literal %s carries no language tag", l), "LangString", "MergeLangLiteral", "validate")
	}
	if existing, ok := ls[l.Lang]; ok && existing != l.Lexical {
		return errors.WrapInvalid(
			fmt.Errorf("conflicting strings for language %q", l.Lang),
			"LangString", "MergeLangLiteral", "validate")
	}
	ls[l.Lang] = l.Lexical
	return nil
}
