package datamodel

import (
	"context"
	stderrors "errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/google/uuid"

	"github.com/c360/semschema/errors"
	"github.com/c360/semschema/store"
)

// PartialCommitError reports a commit that failed after the first graph
// write landed. Kind is PartialCommitRolledBack when the compensating
// write restored the store, PartialCommitUnrecoverable when it did not;
// in the latter case AppliedDeltas names exactly what is live so an
// operator can repair the store by hand.
type PartialCommitError struct {
	Kind     errors.SchemaKind
	CommitID string
	// Graph is the graph whose write or marker advance failed.
	Graph string
	// AppliedDeltas maps graph name to the delta still live in that graph.
	// Empty after a successful rollback.
	AppliedDeltas map[string]store.Delta
	Cause         error
	RollbackErr   error
}

// Error implements the error interface
func (e *PartialCommitError) Error() string {
	if e.Kind == errors.KindPartialCommitUnrecoverable {
		return fmt.Sprintf("PartialCommitUnrecoverable: commit %s failed at %s and rollback failed: %v (rollback: %v)",
			e.CommitID, e.Graph, e.Cause, e.RollbackErr)
	}
	return fmt.Sprintf("PartialCommitRolledBack: commit %s failed at %s, store restored: %v",
		e.CommitID, e.Graph, e.Cause)
}

// Unwrap returns the kind's sentinel so errors.Is works against the
// taxonomy variables.
func (e *PartialCommitError) Unwrap() error {
	switch e.Kind {
	case errors.KindPartialCommitUnrecoverable:
		return errors.ErrPartialCommitUnrecoverable
	default:
		return errors.ErrPartialCommitRolledBack
	}
}

// Commit writes the staged changes to the store as one logical unit.
//
// The store offers no transaction spanning both graphs, so the commit is
// sequenced: validate the whole model, diff both graphs against the load
// snapshot, verify the snapshot marker, write the constraint graph, write
// the inference graph, advance the marker. A failure before the first
// write aborts with the store untouched and the instance still dirty. A
// failure after the first write triggers a compensating write of the
// inverse delta; the result is reported as PartialCommitRolledBack or
// PartialCommitUnrecoverable.
//
// Once the first graph write has started the remaining steps run to
// completion even if ctx is cancelled, so the store is never abandoned
// half-written.
func (m *DataModel) Commit(ctx context.Context) error {
	if m.state == StateCommitting {
		return errors.WrapInvalid(fmt.Errorf("commit already in progress"),
			"DataModel", "Commit", "check state")
	}
	commitID := uuid.NewString()
	start := time.Now()
	logger := m.logger.With("commit_id", commitID)

	prior := m.state
	m.state = StateCommitting
	fail := func(outcome string, err error) error {
		m.state = prior
		if m.metrics != nil {
			m.metrics.RecordCommit(m.project, outcome)
		}
		return err
	}

	// Step 1: whole-model validation, before any network access.
	if err := m.validate(); err != nil {
		logger.Warn("commit rejected by validation", "error", err)
		if m.metrics != nil {
			m.metrics.RecordValidationError(m.project, schemaKindName(err))
		}
		return fail("validation_failed", err)
	}

	// Step 2: diff both graphs against the snapshot.
	constraint, inference := m.serialize()
	var snapConstraint, snapInference []store.Statement
	if m.snap != nil {
		snapConstraint, snapInference = m.snap.constraint, m.snap.inference
	}
	constraintDelta := store.Diff(snapConstraint, constraint)
	inferenceDelta := store.Diff(snapInference, inference)

	if constraintDelta.Empty() && inferenceDelta.Empty() {
		// Mutations cancelled out; nothing to write and nothing to verify.
		m.log.clear()
		m.state = StateClean
		if m.metrics != nil {
			m.metrics.RecordCommit(m.project, "noop")
		}
		logger.Debug("commit was a no-op")
		return nil
	}

	// Step 3: optimistic concurrency check. A model created empty has no
	// marker to compare yet.
	if m.marker != "" {
		current, err := m.gateway.SnapshotMarker(ctx, m.project)
		if err != nil {
			return fail("store_error", errors.NewSchemaError(
				errors.KindStoreUnavailable, m.project, "read snapshot marker: %v", err))
		}
		if current != m.marker {
			return fail("conflict", errors.NewSchemaError(
				errors.KindConcurrentModification, m.project,
				"marker is %q, loaded at %q; reload and re-apply", current, m.marker))
		}
	}

	constraintGraph := store.ConstraintGraph(m.project)
	inferenceGraph := store.InferenceGraph(m.project)

	// From here on the write sequence must not be torn apart by caller
	// cancellation.
	wctx := context.WithoutCancel(ctx)

	// Step 4: constraint graph. Atomic per graph, so a failure here means
	// the store is untouched.
	if !constraintDelta.Empty() {
		if err := m.gateway.ApplyDelta(wctx, constraintGraph, constraintDelta); err != nil {
			logger.Warn("constraint graph write failed, store untouched", "error", err)
			return fail("store_error", errors.NewSchemaError(
				errors.KindStoreUnavailable, m.project, "write constraint graph: %v", err))
		}
	}

	applied := []appliedDelta{}
	if !constraintDelta.Empty() {
		applied = append(applied, appliedDelta{constraintGraph, constraintDelta})
	}

	// Step 5: inference graph. With no constraint delta landed there is
	// nothing to compensate, so a failure here is a plain abort; otherwise
	// it is a partial commit and the constraint write is compensated.
	if !inferenceDelta.Empty() {
		if err := m.gateway.ApplyDelta(wctx, inferenceGraph, inferenceDelta); err != nil {
			if len(applied) == 0 {
				logger.Warn("inference graph write failed, store untouched", "error", err)
				return fail("store_error", errors.NewSchemaError(
					errors.KindStoreUnavailable, m.project, "write inference graph: %v", err))
			}
			return fail("partial", m.rollback(wctx, logger, commitID, inferenceGraph, err, applied))
		}
		applied = append(applied, appliedDelta{inferenceGraph, inferenceDelta})
	}

	// Step 6: advance the marker. A failure here leaves both graphs
	// written against an unverifiable version, so both are compensated.
	newMarker, err := m.gateway.AdvanceMarker(wctx, m.project)
	if err != nil {
		return fail("partial", m.rollback(wctx, logger, commitID, "marker", err, applied))
	}

	m.marker = newMarker
	m.takeSnapshot()
	m.log.clear()
	m.state = StateClean

	if m.metrics != nil {
		m.metrics.RecordCommit(m.project, "clean")
		m.metrics.RecordCommitDuration(m.project, time.Since(start))
		m.metrics.RecordDeltaSize(m.project, constraintGraph, constraintDelta.Size())
		m.metrics.RecordDeltaSize(m.project, inferenceGraph, inferenceDelta.Size())
	}
	logger.Info("commit succeeded",
		"constraint_statements", constraintDelta.Size(),
		"inference_statements", inferenceDelta.Size(),
		"marker", newMarker,
		"duration", time.Since(start))
	return nil
}

// appliedDelta records one graph write that already landed, in
// application order.
type appliedDelta struct {
	graph string
	delta store.Delta
}

// rollback applies the inverse of every already-applied delta, newest
// first, and builds the partial-commit report. The change log is kept
// intact either way so the caller can reload and re-apply.
func (m *DataModel) rollback(ctx context.Context, logger *slog.Logger,
	commitID, failedGraph string, cause error, applied []appliedDelta) error {

	remaining := map[string]store.Delta{}
	for _, a := range applied {
		remaining[a.graph] = a.delta
	}

	var rollbackErr error
	for i := len(applied) - 1; i >= 0; i-- {
		a := applied[i]
		if err := m.gateway.ApplyDelta(ctx, a.graph, a.delta.Inverse()); err != nil {
			rollbackErr = fmt.Errorf("rollback of %s: %w", a.graph, err)
			break
		}
		delete(remaining, a.graph)
	}

	if rollbackErr != nil {
		logger.Error("partial commit left live, rollback failed",
			"failed_at", failedGraph, "cause", cause, "rollback_error", rollbackErr)
		if m.metrics != nil {
			m.metrics.RecordRollback(m.project, "failed")
		}
		return &PartialCommitError{
			Kind:          errors.KindPartialCommitUnrecoverable,
			CommitID:      commitID,
			Graph:         failedGraph,
			AppliedDeltas: remaining,
			Cause:         cause,
			RollbackErr:   rollbackErr,
		}
	}

	logger.Warn("partial commit rolled back, store restored",
		"failed_at", failedGraph, "cause", cause)
	if m.metrics != nil {
		m.metrics.RecordRollback(m.project, "ok")
	}
	return &PartialCommitError{
		Kind:     errors.KindPartialCommitRolledBack,
		CommitID: commitID,
		Graph:    failedGraph,
		Cause:    cause,
	}
}

// schemaKindName extracts the taxonomy name from a schema error for
// metric labels.
func schemaKindName(err error) string {
	var se *errors.SchemaError
	if stderrors.As(err, &se) {
		return se.Kind.String()
	}
	return "Unknown"
}
