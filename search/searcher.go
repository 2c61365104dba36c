// Copyright 2025 Poiesic Systems
//
// Licensed under the Apache License, Version 2.0 (the "License");
// you may not use this file except in compliance with the License.
// You may obtain a copy of the License at
//
//     http://www.apache.org/licenses/LICENSE-2.0
//
// Unless required by applicable law or agreed to in writing, software
// distributed under the License is distributed on an "AS IS" BASIS,
// WITHOUT WARRANTIES OR CONDITIONS OF ANY KIND, either express or implied.
// See the License for the specific language governing permissions and
// limitations under the License.


package search

import (
	"context"
	"log/slog"
	"strings"

	"github.com/opsgrid/faultline/ai"
	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/schema"
	"github.com/opsgrid/faultline/store"
)

// Mode selects which clauses a search request carries.
type Mode string

const (
	// ModeHybrid sends both the keyword clause and the kNN clauses.
	ModeHybrid Mode = "hybrid"
	// ModeVector sends only the kNN clauses.
	ModeVector Mode = "vector"
	// ModeKeyword sends only the keyword clause; the query is not embedded.
	ModeKeyword Mode = "keyword"
)

const (
	// DefaultSize is the number of results returned.
	DefaultSize = 10
	// DefaultK is the nearest-neighbor count per vector field.
	DefaultK = 10
	// DefaultNumCandidates is the per-shard candidate pool per kNN clause.
	DefaultNumCandidates = 50
)

// Searcher runs hybrid incident searches. An unreachable index degrades to
// an empty result set with a logged warning rather than an error, so
// interactive callers keep working through an index outage.
type Searcher struct {
	docs     store.DocumentStore
	embedder ai.Embedder
	registry schema.Registry

	size          int
	k             int
	numCandidates int
	logger        *slog.Logger
}

// Option configures a Searcher.
type Option func(*Searcher)

// WithSize sets the number of results returned. Default is DefaultSize.
func WithSize(size int) Option {
	return func(s *Searcher) {
		if size > 0 {
			s.size = size
		}
	}
}

// WithKNN sets the per-field nearest-neighbor count and candidate pool.
// Defaults are DefaultK and DefaultNumCandidates.
func WithKNN(k, numCandidates int) Option {
	return func(s *Searcher) {
		if k > 0 {
			s.k = k
		}
		if numCandidates > 0 {
			s.numCandidates = numCandidates
		}
	}
}

// WithLogger sets a custom logger. Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *Searcher) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New creates a searcher over the given document store and embedder.
func New(docs store.DocumentStore, embedder ai.Embedder, registry schema.Registry, opts ...Option) (*Searcher, error) {
	if docs == nil {
		return nil, ErrDocumentStoreRequired
	}
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	s := &Searcher{
		docs:          docs,
		embedder:      embedder,
		registry:      registry,
		size:          DefaultSize,
		k:             DefaultK,
		numCandidates: DefaultNumCandidates,
		logger:        slog.Default().With("component", "searcher"),
	}
	for _, opt := range opts {
		opt(s)
	}
	return s, nil
}

// Search runs one query in the given mode and returns ranked, stripped
// results. The query is embedded exactly once regardless of how many vector
// fields are searched. In hybrid mode an embedding failure degrades to a
// keyword-only search; in vector mode it is fatal.
func (s *Searcher) Search(ctx context.Context, query string, mode Mode) ([]core.SearchResult, error) {
	query = strings.TrimSpace(query)
	if query == "" {
		return nil, ErrEmptyQuery
	}

	req, err := s.buildRequest(ctx, query, mode)
	if err != nil {
		return nil, err
	}

	hits, err := s.docs.Search(ctx, req)
	if err != nil {
		s.logger.Warn("document index unreachable, returning no results", "error", err)
		return []core.SearchResult{}, nil
	}

	results := make([]core.SearchResult, len(hits))
	for i, hit := range hits {
		results[i] = stripHit(hit)
	}
	return results, nil
}

func (s *Searcher) buildRequest(ctx context.Context, query string, mode Mode) (*store.SearchRequest, error) {
	switch mode {
	case ModeHybrid, ModeVector, ModeKeyword:
	default:
		return nil, ErrUnknownMode
	}

	req := &store.SearchRequest{Size: s.size}

	if mode != ModeVector {
		req.Keyword = &store.KeywordClause{
			Query:  query,
			Fields: s.registry.KeywordFields,
		}
	}

	if mode == ModeKeyword {
		return req, nil
	}

	vector, err := s.embedder.EmbedText(ctx, query)
	if err != nil {
		if mode == ModeVector {
			return nil, &core.EmbeddingServiceError{Err: err}
		}
		s.logger.Warn("query embedding failed, degrading to keyword search", "error", err)
		return req, nil
	}

	req.KNN = make([]store.KNNClause, len(s.registry.VectorFields))
	for i, field := range s.registry.VectorFields {
		req.KNN[i] = store.KNNClause{
			Field:         field,
			Vector:        vector,
			K:             s.k,
			NumCandidates: s.numCandidates,
		}
	}
	return req, nil
}

// stripHit converts an index hit into a SearchResult, dropping vector
// fields and any non-scalar value.
func stripHit(hit store.Hit) core.SearchResult {
	fields := make(map[string]any, len(hit.Source))
	for name, value := range hit.Source {
		if strings.HasSuffix(name, core.VectorSuffix) {
			continue
		}
		switch value.(type) {
		case string, float64, bool:
			fields[name] = value
		}
	}
	return core.SearchResult{
		IncidentID: hit.IncidentID,
		Score:      hit.Score,
		Fields:     fields,
	}
}
