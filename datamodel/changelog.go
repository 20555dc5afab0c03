package datamodel

import (
	"time"

	"github.com/c360/semschema/iri"
)

// Op names one kind of model mutation in the change log.
type Op string

// Change operations.
const (
	OpAddProperty    Op = "add_property"
	OpUpdateProperty Op = "update_property"
	OpRemoveProperty Op = "remove_property"
	OpAddResource    Op = "add_resource"
	OpUpdateResource Op = "update_resource"
	OpRemoveResource Op = "remove_resource"
	OpAttachProperty Op = "attach_property"
	OpDetachProperty Op = "detach_property"
	OpSetSuperclass  Op = "set_superclass"
	OpSetClosed      Op = "set_closed"
)

// Change is one entry of the ordered change log. The log is the auditable
// record of everything mutated since the last load or commit; it is
// cleared on commit success and discard.
type Change struct {
	Op      Op        `json:"op"`
	Subject iri.Iri   `json:"subject"`
	Target  iri.Iri   `json:"target,omitempty"`
	At      time.Time `json:"at"`
}

// changeLog accumulates changes in mutation order.
type changeLog struct {
	entries []Change
}

func (cl *changeLog) record(op Op, subject, target iri.Iri) {
	cl.entries = append(cl.entries, Change{
		Op:      op,
		Subject: subject,
		Target:  target,
		At:      time.Now().UTC(),
	})
}

func (cl *changeLog) clear() {
	cl.entries = nil
}

// Entries returns a copy of the pending changes in order.
func (cl *changeLog) Entries() []Change {
	out := make([]Change, len(cl.entries))
	copy(out, cl.entries)
	return out
}
