package errors

import (
	"errors"
	"fmt"
)

// Schema error kinds. These are the sentinel values the model and datamodel
// packages report; callers match them with errors.Is.
var (
	// Structural errors, detected before any network access. The in-memory
	// model is never left mutated when one of these is returned.
	ErrInconsistentRestrictions = errors.New("inconsistent restriction set")
	ErrDuplicateIdentifier      = errors.New("identifier already in use")
	ErrPropertyInUse            = errors.New("property is still referenced")
	ErrPropertyNotReusable      = errors.New("private property owned by another resource class")
	ErrCardinalityConflict      = errors.New("cardinality override conflicts with property bounds")
	ErrUnknownSuperclass        = errors.New("superclass not found in data model")
	ErrCyclicInheritance        = errors.New("superclass chain would form a cycle")
	ErrInheritedCardinality     = errors.New("inherited cardinality loosened by subclass")
	ErrResourceClassInUse       = errors.New("resource class is declared as a superclass")
	ErrModelInconsistent        = errors.New("data model failed whole-model validation")

	// Store-state errors, detected by comparing against the remote store.
	ErrConcurrentModification = errors.New("snapshot marker changed since load")
	ErrCrossGraphMismatch     = errors.New("entity present in only one graph")

	// Commit-outcome errors.
	ErrPartialCommitRolledBack    = errors.New("partial commit rolled back")
	ErrPartialCommitUnrecoverable = errors.New("partial commit left live, rollback failed")
	ErrStoreUnavailable           = errors.New("store unavailable")
)

// SchemaKind identifies one entry of the schema error taxonomy.
type SchemaKind int

// Taxonomy kinds, in taxonomy order.
const (
	KindInconsistentRestrictions SchemaKind = iota
	KindDuplicateIdentifier
	KindPropertyInUse
	KindPropertyNotReusable
	KindCardinalityConflict
	KindUnknownSuperclass
	KindCyclicInheritance
	KindInheritedCardinality
	KindResourceClassInUse
	KindModelInconsistent
	KindConcurrentModification
	KindCrossGraphMismatch
	KindPartialCommitRolledBack
	KindPartialCommitUnrecoverable
	KindStoreUnavailable
)

// sentinel returns the sentinel error for the kind.
func (k SchemaKind) sentinel() error {
	switch k {
	case KindInconsistentRestrictions:
		return ErrInconsistentRestrictions
	case KindDuplicateIdentifier:
		return ErrDuplicateIdentifier
	case KindPropertyInUse:
		return ErrPropertyInUse
	case KindPropertyNotReusable:
		return ErrPropertyNotReusable
	case KindCardinalityConflict:
		return ErrCardinalityConflict
	case KindUnknownSuperclass:
		return ErrUnknownSuperclass
	case KindCyclicInheritance:
		return ErrCyclicInheritance
	case KindInheritedCardinality:
		return ErrInheritedCardinality
	case KindResourceClassInUse:
		return ErrResourceClassInUse
	case KindModelInconsistent:
		return ErrModelInconsistent
	case KindConcurrentModification:
		return ErrConcurrentModification
	case KindCrossGraphMismatch:
		return ErrCrossGraphMismatch
	case KindPartialCommitRolledBack:
		return ErrPartialCommitRolledBack
	case KindPartialCommitUnrecoverable:
		return ErrPartialCommitUnrecoverable
	case KindStoreUnavailable:
		return ErrStoreUnavailable
	default:
		return ErrInvalidData
	}
}

// String returns the taxonomy name of the kind.
func (k SchemaKind) String() string {
	switch k {
	case KindInconsistentRestrictions:
		return "InconsistentRestrictions"
	case KindDuplicateIdentifier:
		return "DuplicateIdentifier"
	case KindPropertyInUse:
		return "PropertyInUse"
	case KindPropertyNotReusable:
		return "PropertyNotReusable"
	case KindCardinalityConflict:
		return "CardinalityConflict"
	case KindUnknownSuperclass:
		return "UnknownSuperclass"
	case KindCyclicInheritance:
		return "CyclicInheritance"
	case KindInheritedCardinality:
		return "InheritedCardinalityViolation"
	case KindResourceClassInUse:
		return "ResourceClassInUse"
	case KindModelInconsistent:
		return "ModelInconsistent"
	case KindConcurrentModification:
		return "ConcurrentModification"
	case KindCrossGraphMismatch:
		return "CrossGraphMismatch"
	case KindPartialCommitRolledBack:
		return "PartialCommitRolledBack"
	case KindPartialCommitUnrecoverable:
		return "PartialCommitUnrecoverable"
	case KindStoreUnavailable:
		return "StoreUnavailable"
	default:
		return "Unknown"
	}
}

// Class maps a schema kind onto the retry classification. Structural and
// store-comparison failures need a changed input or a fresh load before a
// retry can succeed, so they are invalid rather than transient.
func (k SchemaKind) Class() ErrorClass {
	switch k {
	case KindPartialCommitRolledBack, KindStoreUnavailable:
		return ErrorTransient
	case KindPartialCommitUnrecoverable:
		return ErrorFatal
	default:
		return ErrorInvalid
	}
}

// SchemaError reports a schema-consistency failure. Subject names the
// property or resource class the failure is about, in prefixed form where
// one exists.
type SchemaError struct {
	Kind    SchemaKind
	Subject string
	Detail  string
}

// NewSchemaError builds a SchemaError for the given kind and subject.
func NewSchemaError(kind SchemaKind, subject, format string, args ...any) *SchemaError {
	return &SchemaError{
		Kind:    kind,
		Subject: subject,
		Detail:  fmt.Sprintf(format, args...),
	}
}

// Error implements the error interface
func (se *SchemaError) Error() string {
	if se.Subject == "" {
		return fmt.Sprintf("%s: %s", se.Kind, se.Detail)
	}
	return fmt.Sprintf("%s: %s: %s", se.Kind, se.Subject, se.Detail)
}

// Unwrap returns the kind's sentinel so errors.Is works against the
// taxonomy variables above.
func (se *SchemaError) Unwrap() error {
	return se.Kind.sentinel()
}
