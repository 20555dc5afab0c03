package datamodel

import (
	"context"
	"fmt"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	serrors "github.com/c360/semschema/errors"
	"github.com/c360/semschema/model"
	"github.com/c360/semschema/store"
	"github.com/c360/semschema/store/memstore"
	"github.com/c360/semschema/xsd"
)

// seedStore commits the worked book model into a fresh in-memory store
// and returns the store.
func seedStore(t *testing.T) *memstore.Store {
	t.Helper()
	gw := memstore.New()
	m := bookModel(t)
	m.gateway = gw
	require.NoError(t, m.Commit(context.Background()))
	return gw
}

func TestCommitAndReload(t *testing.T) {
	gw := memstore.New()
	ctx := context.Background()

	m := bookModel(t)
	m.gateway = gw
	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, StateClean, m.State())
	assert.Empty(t, m.PendingChanges())
	assert.NotEmpty(t, m.Marker())

	// A second instance loads the identical model.
	loaded := New(gw, "books")
	require.NoError(t, loaded.Load(ctx))
	assert.Equal(t, StateClean, loaded.State())
	assert.Equal(t, m.Marker(), loaded.Marker())

	require.Equal(t, m.PropertyIDs(), loaded.PropertyIDs())
	require.Equal(t, m.ResourceClassIDs(), loaded.ResourceClassIDs())
	for _, id := range m.PropertyIDs() {
		want, _ := m.Property(id)
		got, ok := loaded.Property(id)
		require.True(t, ok)
		assert.True(t, want.Equal(got), "property %s differs after reload", id)
	}
	for _, id := range m.ResourceClassIDs() {
		want, _ := m.ResourceClass(id)
		got, ok := loaded.ResourceClass(id)
		require.True(t, ok)
		assert.True(t, want.Equal(got), "resource class %s differs after reload", id)
	}
}

func TestCommitIsIdempotent(t *testing.T) {
	gw := memstore.New()
	ctx := context.Background()

	m := bookModel(t)
	m.gateway = gw
	require.NoError(t, m.Commit(ctx))

	writes := gw.Calls("apply_delta")

	// A clean model committed again touches nothing.
	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, writes, gw.Calls("apply_delta"))
	assert.Equal(t, StateClean, m.State())
}

func TestCommitNoopWhenChangesCancelOut(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))

	// Toggle closed off and back on; the serializations now match the
	// snapshot exactly.
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), true))
	assert.Equal(t, StateDirty, m.State())

	writes := gw.Calls("apply_delta")
	advances := gw.Calls("advance_marker")
	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, writes, gw.Calls("apply_delta"))
	assert.Equal(t, advances, gw.Calls("advance_marker"))
	assert.Equal(t, StateClean, m.State())
	assert.Empty(t, m.PendingChanges())
}

func TestCommitValidationFailure(t *testing.T) {
	gw := memstore.New()
	ctx := context.Background()

	m := New(gw, "books")
	addProperty(t, m, "ex:issued", model.Restrictions{Datatype: xsd.Date})
	addProperty(t, m, "ex:retired", model.Restrictions{Datatype: xsd.Date})
	require.NoError(t, m.SetPropertyRestrictions(mustIri(t, "ex:issued"), model.Restrictions{
		Datatype: xsd.Date,
		LessThan: mustIri(t, "ex:retired"),
	}))

	// Removing the comparison target passes the per-operation checks but
	// leaves the model inconsistent as a whole.
	require.NoError(t, m.RemoveProperty(mustIri(t, "ex:retired")))

	err := m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrModelInconsistent)
	assert.Equal(t, StateDirty, m.State())
	assert.Equal(t, 0, gw.Calls("apply_delta"))
}

func TestCommitRejectsUnboundPrivateProperty(t *testing.T) {
	gw := memstore.New()
	ctx := context.Background()

	m := bookModel(t)
	m.gateway = gw

	// A private property whose binding went missing must never reach the
	// store: there would be no node to reload it from.
	note, err := model.NewPrivateProperty(mustIri(t, "ex:note"), model.Restrictions{Datatype: xsd.String})
	require.NoError(t, err)
	m.resources[mustIri(t, "ex:Book")].PrivateProps[mustIri(t, "ex:note")] = note

	err = m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrModelInconsistent)
	assert.Equal(t, 0, gw.Calls("apply_delta"))
}

func TestCommitChecksPrivateComparisonTargets(t *testing.T) {
	gw := memstore.New()
	ctx := context.Background()

	m := New(gw, "books")
	addClass(t, m, "ex:Book")

	issued, err := model.NewPrivateProperty(mustIri(t, "ex:issued"), model.Restrictions{
		Datatype: xsd.Date,
		LessThan: mustIri(t, "ex:retired"),
	})
	require.NoError(t, err)
	hIssued, err := model.NewHasProperty(mustIri(t, "ex:issued"), nil, model.Int(1), nil)
	require.NoError(t, err)
	require.NoError(t, m.AttachPrivateProperty(mustIri(t, "ex:Book"), issued, hIssued))

	// The comparison target exists nowhere in the model.
	err = m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrModelInconsistent)
	assert.Equal(t, 0, gw.Calls("apply_delta"))

	// A sibling private property of the same class satisfies it.
	retired, err := model.NewPrivateProperty(mustIri(t, "ex:retired"), model.Restrictions{Datatype: xsd.Date})
	require.NoError(t, err)
	hRetired, err := model.NewHasProperty(mustIri(t, "ex:retired"), nil, model.Int(1), nil)
	require.NoError(t, err)
	require.NoError(t, m.AttachPrivateProperty(mustIri(t, "ex:Book"), retired, hRetired))
	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, StateClean, m.State())
}

func TestCommitConcurrentModification(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))

	// Another writer advances the marker behind our back.
	gw.BumpMarker("books")

	writes := gw.Calls("apply_delta")
	err := m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrConcurrentModification)
	assert.Equal(t, StateDirty, m.State())
	assert.Equal(t, writes, gw.Calls("apply_delta"))
	assert.NotEmpty(t, m.PendingChanges())
}

func TestCommitFirstWriteFailureAborts(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))

	constraintSize := gw.GraphSize(store.ConstraintGraph("books"))
	gw.SetHook(func(op, name string) error {
		if op == "apply_delta" {
			return fmt.Errorf("wire down")
		}
		return nil
	})

	err := m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrStoreUnavailable)
	assert.True(t, serrors.IsTransient(err))
	assert.Equal(t, StateDirty, m.State())
	assert.Equal(t, constraintSize, gw.GraphSize(store.ConstraintGraph("books")))
	assert.NotEmpty(t, m.PendingChanges())
}

func TestCommitInferenceOnlyWriteFailureAborts(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))

	// Only the inference graph changes: labels never touch the constraint
	// graph. A write failure here finds the store untouched, so it is a
	// plain abort, not a partial commit.
	label, err := xsd.NewLangString(map[string]string{"en": "Printed Book"})
	require.NoError(t, err)
	require.NoError(t, m.SetClassLabel(mustIri(t, "ex:Book"), label))

	inferenceBefore, err := gw.ReadGraph(ctx, store.InferenceGraph("books"))
	require.NoError(t, err)

	gw.SetHook(func(op, name string) error {
		if op == "apply_delta" {
			return fmt.Errorf("wire down")
		}
		return nil
	})

	err = m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrStoreUnavailable)
	assert.NotErrorIs(t, err, serrors.ErrPartialCommitRolledBack)
	assert.NotErrorIs(t, err, serrors.ErrPartialCommitUnrecoverable)

	gw.SetHook(nil)
	inferenceAfter, err := gw.ReadGraph(ctx, store.InferenceGraph("books"))
	require.NoError(t, err)
	assert.Equal(t, inferenceBefore, inferenceAfter)
	assert.Equal(t, StateDirty, m.State())
	assert.NotEmpty(t, m.PendingChanges())
}

func TestPartialCommitRolledBack(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))

	// Change both graphs: label lives in the inference graph, closed in
	// the constraint graph.
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))
	label, err := xsd.NewLangString(map[string]string{"en": "Printed Book"})
	require.NoError(t, err)
	require.NoError(t, m.SetClassLabel(mustIri(t, "ex:Book"), label))

	constraintBefore, err := gw.ReadGraph(ctx, store.ConstraintGraph("books"))
	require.NoError(t, err)
	inferenceBefore, err := gw.ReadGraph(ctx, store.InferenceGraph("books"))
	require.NoError(t, err)

	// The inference write fails; the constraint write is compensated.
	gw.SetHook(func(op, name string) error {
		if op == "apply_delta" && name == store.InferenceGraph("books") {
			return fmt.Errorf("wire down")
		}
		return nil
	})

	err = m.Commit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrPartialCommitRolledBack)
	assert.True(t, serrors.IsTransient(err))

	var pce *PartialCommitError
	require.ErrorAs(t, err, &pce)
	assert.Empty(t, pce.AppliedDeltas)
	assert.NotEmpty(t, pce.CommitID)

	// Store restored, instance still dirty with the log intact.
	gw.SetHook(nil)
	constraintAfter, err := gw.ReadGraph(ctx, store.ConstraintGraph("books"))
	require.NoError(t, err)
	inferenceAfter, err := gw.ReadGraph(ctx, store.InferenceGraph("books"))
	require.NoError(t, err)
	assert.Equal(t, constraintBefore, constraintAfter)
	assert.Equal(t, inferenceBefore, inferenceAfter)
	assert.Equal(t, StateDirty, m.State())
	assert.NotEmpty(t, m.PendingChanges())

	// A retry with the fault gone succeeds.
	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, StateClean, m.State())
}

func TestPartialCommitUnrecoverable(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))
	label, err := xsd.NewLangString(map[string]string{"en": "Printed Book"})
	require.NoError(t, err)
	require.NoError(t, m.SetClassLabel(mustIri(t, "ex:Book"), label))

	// The first constraint write lands, then the connection dies for good:
	// the inference write and the compensating write both fail.
	applies := 0
	gw.SetHook(func(op, name string) error {
		if op != "apply_delta" {
			return nil
		}
		applies++
		if applies > 1 {
			return fmt.Errorf("wire down")
		}
		return nil
	})

	err = m.Commit(ctx)
	require.Error(t, err)
	assert.ErrorIs(t, err, serrors.ErrPartialCommitUnrecoverable)
	assert.True(t, serrors.IsFatal(err))

	// The report names exactly what is live.
	var pce *PartialCommitError
	require.ErrorAs(t, err, &pce)
	require.Contains(t, pce.AppliedDeltas, store.ConstraintGraph("books"))
	assert.False(t, pce.AppliedDeltas[store.ConstraintGraph("books")].Empty())
	assert.Error(t, pce.RollbackErr)
	assert.Equal(t, StateDirty, m.State())
}

func TestCommitMarkerAdvanceFailureRollsBackBothGraphs(t *testing.T) {
	gw := seedStore(t)
	ctx := context.Background()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))
	label, err := xsd.NewLangString(map[string]string{"en": "Printed Book"})
	require.NoError(t, err)
	require.NoError(t, m.SetClassLabel(mustIri(t, "ex:Book"), label))

	constraintBefore, err := gw.ReadGraph(ctx, store.ConstraintGraph("books"))
	require.NoError(t, err)
	inferenceBefore, err := gw.ReadGraph(ctx, store.InferenceGraph("books"))
	require.NoError(t, err)

	gw.SetHook(func(op, name string) error {
		if op == "advance_marker" {
			return fmt.Errorf("wire down")
		}
		return nil
	})

	err = m.Commit(ctx)
	assert.ErrorIs(t, err, serrors.ErrPartialCommitRolledBack)

	gw.SetHook(nil)
	constraintAfter, err := gw.ReadGraph(ctx, store.ConstraintGraph("books"))
	require.NoError(t, err)
	inferenceAfter, err := gw.ReadGraph(ctx, store.InferenceGraph("books"))
	require.NoError(t, err)
	assert.Equal(t, constraintBefore, constraintAfter)
	assert.Equal(t, inferenceBefore, inferenceAfter)
	assert.Equal(t, StateDirty, m.State())
}

func TestCommitCompletesAfterCancellation(t *testing.T) {
	gw := seedStore(t)
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	m := New(gw, "books")
	require.NoError(t, m.Load(ctx))
	require.NoError(t, m.SetClosed(mustIri(t, "ex:Book"), false))
	label, err := xsd.NewLangString(map[string]string{"en": "Printed Book"})
	require.NoError(t, err)
	require.NoError(t, m.SetClassLabel(mustIri(t, "ex:Book"), label))

	// The caller gives up as soon as the first write starts; the commit
	// still runs to completion instead of leaving the store half-written.
	gw.SetHook(func(op, name string) error {
		if op == "apply_delta" {
			cancel()
		}
		return nil
	})

	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, StateClean, m.State())
}

func TestCreatedEmptyCommitSkipsMarkerCheck(t *testing.T) {
	gw := memstore.New()
	ctx := context.Background()

	m := bookModel(t)
	m.gateway = gw
	assert.Empty(t, m.Marker())

	require.NoError(t, m.Commit(ctx))
	assert.Equal(t, 0, gw.Calls("snapshot_marker"))
	assert.Equal(t, 1, gw.Calls("advance_marker"))
	assert.NotEmpty(t, m.Marker())
}

func TestLoadStoreUnavailable(t *testing.T) {
	gw := memstore.New()
	gw.SetHook(func(op, name string) error {
		return fmt.Errorf("wire down")
	})

	m := New(gw, "books")
	err := m.Load(context.Background())
	assert.ErrorIs(t, err, serrors.ErrStoreUnavailable)
	assert.True(t, serrors.IsTransient(err))
	assert.Equal(t, StateUnloaded, m.State())
}
