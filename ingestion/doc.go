// Package ingestion implements the incident ingestion pipeline.
//
// A raw tabular batch flows through four stages:
//   - Normalizer: canonical records with derived temporal fields
//   - Reconciler: insert/update partitioning against the table store
//   - Enricher: embedding vectors for the configured text fields
//   - Indexer: bulk upsert into the document index
//
// Validation failures reject the batch before any external side effect.
// Later stages are per-stage fatal but do not roll back earlier stages;
// there is no cross-stage transaction. The Pipeline aggregates stage
// results into a single human-readable status.
package ingestion
