package ingestion

import (
	"context"
	"errors"
	"testing"

	"github.com/opsgrid/faultline/core"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func incidents(ids ...string) []*core.IncidentRecord {
	records := make([]*core.IncidentRecord, len(ids))
	for i, id := range ids {
		records[i] = &core.IncidentRecord{IncidentID: id, IncidentDescription: "desc"}
	}
	return records
}

func TestPartition(t *testing.T) {
	existing := map[string]struct{}{"INC002": {}}
	records := incidents("INC001", "INC002", "INC003")

	batch := Partition(existing, records)

	assert.Equal(t, incidents("INC001", "INC003"), batch.Inserts)
	assert.Equal(t, incidents("INC002"), batch.Updates)

	// Every record lands in exactly one partition.
	assert.Equal(t, len(records), len(batch.Inserts)+len(batch.Updates))
}

func TestPartition_EmptySnapshot(t *testing.T) {
	batch := Partition(map[string]struct{}{}, incidents("INC001"))

	assert.Len(t, batch.Inserts, 1)
	assert.Empty(t, batch.Updates)
}

func TestReconcile(t *testing.T) {
	table := newFakeTableStore()
	table.ids["INC002"] = struct{}{}

	r, err := NewReconciler(table)
	require.NoError(t, err)

	inserted, updated, err := r.Reconcile(context.Background(), incidents("INC001", "INC002", "INC003"))
	require.NoError(t, err)

	assert.Equal(t, 2, inserted)
	assert.Equal(t, 1, updated)
	assert.Equal(t, 1, table.snapshotCalls, "snapshot is read once per batch, not per record")
}

func TestReconcile_SnapshotFailure(t *testing.T) {
	table := newFakeTableStore()
	table.idsErr = errors.New("connection refused")

	r, err := NewReconciler(table)
	require.NoError(t, err)

	_, _, err = r.Reconcile(context.Background(), incidents("INC001"))

	var pErr *core.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "snapshot", pErr.Op)
	assert.ErrorIs(t, err, table.idsErr)
}

func TestReconcile_MergeFailureKeepsInsertCount(t *testing.T) {
	table := newFakeTableStore()
	table.ids["INC002"] = struct{}{}
	table.mergeErr = errors.New("deadlock")

	r, err := NewReconciler(table)
	require.NoError(t, err)

	inserted, updated, err := r.Reconcile(context.Background(), incidents("INC001", "INC002"))

	var pErr *core.PersistenceError
	require.ErrorAs(t, err, &pErr)
	assert.Equal(t, "merge", pErr.Op)

	// The inserts already applied are reported; there is no rollback.
	assert.Equal(t, 1, inserted)
	assert.Equal(t, 0, updated)
	assert.Len(t, table.inserted, 1)
}

func TestNewReconciler_RequiresStore(t *testing.T) {
	_, err := NewReconciler(nil)
	assert.ErrorIs(t, err, ErrTableStoreRequired)
}
