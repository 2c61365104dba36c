package ingestion

import (
	"context"
	"log/slog"

	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/store"
)

// Reconciler partitions incoming records against a snapshot of the table
// store and applies inserts and merges. It reads the key snapshot once per
// batch; records whose keys arrive concurrently between the snapshot and the
// write follow the store's merge semantics rather than failing.
type Reconciler struct {
	table  store.TableStore
	logger *slog.Logger
}

// ReconcilerOption configures a Reconciler.
type ReconcilerOption func(*Reconciler)

// WithReconcilerLogger sets a custom logger. Default is slog.Default().
func WithReconcilerLogger(logger *slog.Logger) ReconcilerOption {
	return func(r *Reconciler) {
		if logger != nil {
			r.logger = logger
		}
	}
}

// NewReconciler creates a reconciler backed by the given table store.
func NewReconciler(table store.TableStore, opts ...ReconcilerOption) (*Reconciler, error) {
	if table == nil {
		return nil, ErrTableStoreRequired
	}

	r := &Reconciler{
		table:  table,
		logger: slog.Default().With("component", "reconciler"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r, nil
}

// Partition splits records by membership of their incident_id in the
// snapshot. Every record lands in exactly one partition; input order is
// preserved within each.
func Partition(existing map[string]struct{}, records []*core.IncidentRecord) *core.ReconciliationBatch {
	batch := &core.ReconciliationBatch{}
	for _, record := range records {
		if _, ok := existing[record.IncidentID]; ok {
			batch.Updates = append(batch.Updates, record)
		} else {
			batch.Inserts = append(batch.Inserts, record)
		}
	}
	return batch
}

// Reconcile snapshots the persisted keys, partitions the batch, inserts the
// new records and merges the known ones. It returns the attempted insert and
// update counts. A store failure surfaces as a *core.PersistenceError naming
// the failed operation; nothing already applied is rolled back.
func (r *Reconciler) Reconcile(ctx context.Context, records []*core.IncidentRecord) (inserted, updated int, err error) {
	existing, err := r.table.IncidentIDs(ctx)
	if err != nil {
		return 0, 0, &core.PersistenceError{Op: "snapshot", Err: err}
	}

	batch := Partition(existing, records)

	if len(batch.Inserts) > 0 {
		if err := r.table.InsertRecords(ctx, batch.Inserts); err != nil {
			return 0, 0, &core.PersistenceError{Op: "insert", Err: err}
		}
	}

	if len(batch.Updates) > 0 {
		if err := r.table.MergeRecords(ctx, batch.Updates); err != nil {
			return len(batch.Inserts), 0, &core.PersistenceError{Op: "merge", Err: err}
		}
	}

	r.logger.Info("batch reconciled",
		"inserted", len(batch.Inserts),
		"updated", len(batch.Updates))
	return len(batch.Inserts), len(batch.Updates), nil
}
