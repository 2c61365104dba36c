package ingestion

import (
	"context"

	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/store"
)

// fakeTableStore is a stateful in-memory store.TableStore. Inserted and
// merged keys accumulate so re-ingestion scenarios behave like a real table.
type fakeTableStore struct {
	ids map[string]struct{}

	idsErr    error
	insertErr error
	mergeErr  error

	snapshotCalls int
	inserted      []*core.IncidentRecord
	merged        []*core.IncidentRecord
}

func newFakeTableStore() *fakeTableStore {
	return &fakeTableStore{ids: make(map[string]struct{})}
}

func (f *fakeTableStore) IncidentIDs(ctx context.Context) (map[string]struct{}, error) {
	f.snapshotCalls++
	if f.idsErr != nil {
		return nil, f.idsErr
	}
	snapshot := make(map[string]struct{}, len(f.ids))
	for id := range f.ids {
		snapshot[id] = struct{}{}
	}
	return snapshot, nil
}

func (f *fakeTableStore) InsertRecords(ctx context.Context, records []*core.IncidentRecord) error {
	if f.insertErr != nil {
		return f.insertErr
	}
	for _, r := range records {
		f.ids[r.IncidentID] = struct{}{}
	}
	f.inserted = append(f.inserted, records...)
	return nil
}

func (f *fakeTableStore) MergeRecords(ctx context.Context, records []*core.IncidentRecord) error {
	if f.mergeErr != nil {
		return f.mergeErr
	}
	f.merged = append(f.merged, records...)
	return nil
}

func (f *fakeTableStore) Close() error { return nil }

// fakeDocStore is a store.DocumentStore double recording bulk calls.
type fakeDocStore struct {
	// bulkFunc overrides the all-success default if set.
	bulkFunc func(docs []map[string]any) (int, []store.IndexFailure, error)

	bulkCalls [][]map[string]any
}

func (f *fakeDocStore) BulkUpsert(ctx context.Context, docs []map[string]any) (int, []store.IndexFailure, error) {
	f.bulkCalls = append(f.bulkCalls, docs)
	if f.bulkFunc != nil {
		return f.bulkFunc(docs)
	}
	return len(docs), nil, nil
}

func (f *fakeDocStore) Search(ctx context.Context, req *store.SearchRequest) ([]store.Hit, error) {
	return nil, nil
}

func (f *fakeDocStore) Close() error { return nil }
