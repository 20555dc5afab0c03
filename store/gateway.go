package store

import "context"

// Gateway is the contract the schema engine consumes against the remote
// graph store. Implementations execute reads and apply statement deltas to
// named graphs; there is no multi-graph transaction, which is why the
// engine sequences and compensates writes itself.
//
// ApplyDelta must apply removals before additions and must be atomic per
// graph: either the whole delta lands or none of it does.
type Gateway interface {
	// ReadGraph returns every statement of the named graph.
	ReadGraph(ctx context.Context, graph string) ([]Statement, error)

	// ApplyDelta applies removals then additions to the named graph.
	ApplyDelta(ctx context.Context, graph string, delta Delta) error

	// SnapshotMarker returns the opaque version token for the project.
	// The token changes whenever either of the project's graphs changes
	// through a committed mutation.
	SnapshotMarker(ctx context.Context, project string) (string, error)

	// AdvanceMarker moves the project's snapshot marker forward and
	// returns the new token.
	AdvanceMarker(ctx context.Context, project string) (string, error)
}
