package store

import (
	"context"

	"github.com/opsgrid/faultline/core"
)

// TableStore is the persisted tabular store that owns incident record
// durability. It must support a primary-key-only scan, a bulk append, and a
// bulk merge-by-key. Implementations own their staging objects: any staging
// table created for a bulk load is dropped before the call returns, even on
// failure.
type TableStore interface {
	// IncidentIDs returns a snapshot of all primary keys currently in the
	// table. It is read once per reconciliation, not per record.
	IncidentIDs(ctx context.Context) (map[string]struct{}, error)

	// InsertRecords bulk-appends records. All-or-nothing is not guaranteed
	// across the whole batch; atomicity is per chunk at best.
	InsertRecords(ctx context.Context, records []*core.IncidentRecord) error

	// MergeRecords overwrites existing rows by incident_id. Every non-key
	// field is fully replaced; there are no partial-field patch semantics.
	MergeRecords(ctx context.Context, records []*core.IncidentRecord) error

	// Close releases the underlying connection pool.
	Close() error
}

// IndexFailure describes a single document that failed during a bulk index
// operation, with enough detail for a caller-driven retry.
type IndexFailure struct {
	IncidentID string
	Reason     string
}

// DocumentStore is the document index with hybrid (keyword + vector) search
// capability.
type DocumentStore interface {
	// BulkUpsert indexes documents using their incident_id as the document
	// identifier, overwriting any existing document with the same ID.
	// Returns the number successfully indexed plus per-document failures.
	BulkUpsert(ctx context.Context, docs []map[string]any) (int, []IndexFailure, error)

	// Search executes a combined keyword + nearest-neighbor request and
	// returns ranked hits, fused by the store's native hybrid ranking.
	Search(ctx context.Context, req *SearchRequest) ([]Hit, error)

	// Close releases the underlying client.
	Close() error
}
