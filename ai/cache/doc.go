// Package cache provides a BadgerDB-backed embedding cache.
//
// The cache wraps any ai.Embedder and stores generated vectors keyed by a
// BLAKE2b content hash of (model namespace, text). Identical incident text
// re-ingested later is served from disk instead of the embedding service.
// The cache degrades gracefully: any cache error falls through to the
// wrapped embedder.
package cache
