package ingestion

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/store"
)

// DefaultChunkSize is the number of documents sent per bulk request.
const DefaultChunkSize = 100

// IndexReport summarizes one indexing pass over a batch.
type IndexReport struct {
	Succeeded int
	Failures  []store.IndexFailure
}

// Failed returns the number of documents that did not index.
func (r *IndexReport) Failed() int { return len(r.Failures) }

// Indexer writes enriched records to the document store in fixed-size
// chunks. Partial failure is carried as data in the report, never as an
// error, and the indexer itself does not retry; retrying a failed batch is
// the caller's decision.
type Indexer struct {
	docs      store.DocumentStore
	chunkSize int
	logger    *slog.Logger
}

// IndexerOption configures an Indexer.
type IndexerOption func(*Indexer)

// WithChunkSize sets the bulk chunk size. Default is DefaultChunkSize.
func WithChunkSize(size int) IndexerOption {
	return func(ix *Indexer) {
		if size > 0 {
			ix.chunkSize = size
		}
	}
}

// WithIndexerLogger sets a custom logger. Default is slog.Default().
func WithIndexerLogger(logger *slog.Logger) IndexerOption {
	return func(ix *Indexer) {
		if logger != nil {
			ix.logger = logger
		}
	}
}

// NewIndexer creates an indexer backed by the given document store.
func NewIndexer(docs store.DocumentStore, opts ...IndexerOption) (*Indexer, error) {
	if docs == nil {
		return nil, ErrDocumentStoreRequired
	}

	ix := &Indexer{
		docs:      docs,
		chunkSize: DefaultChunkSize,
		logger:    slog.Default().With("component", "indexer"),
	}
	for _, opt := range opts {
		opt(ix)
	}
	return ix, nil
}

// Index upserts the records chunk by chunk and reports per-document
// outcomes. A transport-level failure on one chunk marks every document in
// that chunk failed and moves on to the next chunk.
func (ix *Indexer) Index(ctx context.Context, records []*core.EnrichedRecord) *IndexReport {
	report := &IndexReport{}

	for start := 0; start < len(records); start += ix.chunkSize {
		end := start + ix.chunkSize
		if end > len(records) {
			end = len(records)
		}
		chunk := records[start:end]

		docs := make([]map[string]any, len(chunk))
		for i, record := range chunk {
			docs[i] = record.Document()
		}

		flushed, failures, err := ix.docs.BulkUpsert(ctx, docs)
		if err != nil {
			ix.logger.Error("bulk request failed, chunk skipped",
				"from", start, "size", len(chunk), "error", err)
			for _, record := range chunk {
				report.Failures = append(report.Failures, store.IndexFailure{
					IncidentID: record.IncidentID,
					Reason:     fmt.Sprintf("bulk request failed: %v", err),
				})
			}
			continue
		}

		report.Succeeded += flushed
		report.Failures = append(report.Failures, failures...)
	}

	ix.logger.Info("batch indexed",
		"succeeded", report.Succeeded, "failed", report.Failed())
	return report
}
