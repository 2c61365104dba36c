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


// Package elastic implements store.DocumentStore on Elasticsearch.
//
// Documents are upserted by incident_id via the bulk API, so re-indexing a
// record overwrites rather than duplicates. Hybrid search sends the keyword
// and knn clauses in a single request and relies on the cluster's native
// rank fusion.
package elastic

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"sync"
	"time"

	"github.com/elastic/go-elasticsearch/v8"
	"github.com/elastic/go-elasticsearch/v8/esutil"
	"github.com/opsgrid/faultline/store"
)

// Config holds connection settings for the document store.
type Config struct {
	Addresses []string
	Username  string
	Password  string
	Index     string

	// BulkTimeout bounds each bulk request. Default 60s.
	BulkTimeout time.Duration
}

// DocumentStore implements store.DocumentStore on an Elasticsearch index.
type DocumentStore struct {
	client      *elasticsearch.Client
	index       string
	bulkTimeout time.Duration
	logger      *slog.Logger
}

var _ store.DocumentStore = (*DocumentStore)(nil)

// New creates a document store client for the configured index.
func New(cfg Config) (*DocumentStore, error) {
	if cfg.Index == "" {
		return nil, fmt.Errorf("index name required")
	}
	if cfg.BulkTimeout <= 0 {
		cfg.BulkTimeout = 60 * time.Second
	}

	client, err := elasticsearch.NewClient(elasticsearch.Config{
		Addresses: cfg.Addresses,
		Username:  cfg.Username,
		Password:  cfg.Password,
	})
	if err != nil {
		return nil, fmt.Errorf("creating elasticsearch client: %w", err)
	}

	return &DocumentStore{
		client:      client,
		index:       cfg.Index,
		bulkTimeout: cfg.BulkTimeout,
		logger:      slog.Default().With("component", "elastic-document"),
	}, nil
}

// BulkUpsert indexes documents using their incident_id as the document ID.
// Returns the number of documents flushed successfully plus per-document
// failure detail. The operation itself is not retried here.
func (s *DocumentStore) BulkUpsert(ctx context.Context, docs []map[string]any) (int, []store.IndexFailure, error) {
	if len(docs) == 0 {
		return 0, nil, nil
	}

	var (
		mu        sync.Mutex
		failures  []store.IndexFailure
		failedIDs = make(map[string]struct{})
		succeeded = make(map[string]struct{})
		flushErr  error
	)
	recordFailure := func(id, reason string) {
		mu.Lock()
		defer mu.Unlock()
		failures = append(failures, store.IndexFailure{IncidentID: id, Reason: reason})
		failedIDs[id] = struct{}{}
	}

	indexer, err := esutil.NewBulkIndexer(esutil.BulkIndexerConfig{
		Client:  s.client,
		Index:   s.index,
		Timeout: s.bulkTimeout,
		// A transport-level flush failure never reaches the per-item
		// callbacks; capture it here so unflushed documents can be
		// accounted for after Close.
		OnError: func(_ context.Context, err error) {
			mu.Lock()
			defer mu.Unlock()
			if flushErr == nil {
				flushErr = err
			}
		},
	})
	if err != nil {
		return 0, nil, fmt.Errorf("creating bulk indexer: %w", err)
	}

	var queued []string
	for _, doc := range docs {
		id, _ := doc["incident_id"].(string)
		if id == "" {
			recordFailure("", "document has no incident_id")
			continue
		}

		payload, err := json.Marshal(doc)
		if err != nil {
			recordFailure(id, fmt.Sprintf("encoding document: %v", err))
			continue
		}

		err = indexer.Add(ctx, esutil.BulkIndexerItem{
			Action:     "index",
			DocumentID: id,
			Body:       bytes.NewReader(payload),
			OnSuccess: func(_ context.Context, item esutil.BulkIndexerItem, _ esutil.BulkIndexerResponseItem) {
				mu.Lock()
				defer mu.Unlock()
				succeeded[item.DocumentID] = struct{}{}
			},
			OnFailure: func(_ context.Context, item esutil.BulkIndexerItem, res esutil.BulkIndexerResponseItem, err error) {
				reason := res.Error.Reason
				if err != nil {
					reason = err.Error()
				}
				recordFailure(item.DocumentID, reason)
			},
		})
		if err != nil {
			recordFailure(id, fmt.Sprintf("queueing document: %v", err))
			continue
		}
		queued = append(queued, id)
	}

	if err := indexer.Close(ctx); err != nil {
		return 0, failures, fmt.Errorf("flushing bulk indexer: %w", err)
	}

	// Any queued document that neither succeeded nor failed item-by-item was
	// lost to a failed flush; report it rather than counting it as clean.
	for _, id := range queued {
		if _, ok := succeeded[id]; ok {
			continue
		}
		if _, ok := failedIDs[id]; ok {
			continue
		}
		reason := "bulk request was not flushed"
		if flushErr != nil {
			reason = fmt.Sprintf("bulk request failed: %v", flushErr)
		}
		failures = append(failures, store.IndexFailure{IncidentID: id, Reason: reason})
	}

	stats := indexer.Stats()
	if flushErr != nil {
		s.logger.Warn("bulk flush failed", "error", flushErr, "failed", len(failures))
	}
	s.logger.Debug("bulk upsert complete", "flushed", stats.NumFlushed, "failed", len(failures))
	return int(stats.NumFlushed), failures, nil
}

// Search executes one combined keyword + knn request and decodes the hits.
func (s *DocumentStore) Search(ctx context.Context, req *store.SearchRequest) ([]store.Hit, error) {
	var buf bytes.Buffer
	if err := json.NewEncoder(&buf).Encode(searchBody(req)); err != nil {
		return nil, fmt.Errorf("encoding search body: %w", err)
	}

	res, err := s.client.Search(
		s.client.Search.WithContext(ctx),
		s.client.Search.WithIndex(s.index),
		s.client.Search.WithBody(&buf),
		s.client.Search.WithSize(req.Size),
	)
	if err != nil {
		return nil, fmt.Errorf("executing search: %w", err)
	}
	defer res.Body.Close()

	if res.IsError() {
		msg, _ := io.ReadAll(res.Body)
		return nil, fmt.Errorf("search returned %s: %s", res.Status(), msg)
	}

	return decodeHits(res.Body)
}

// decodeHits parses the hits section of a search response.
func decodeHits(body io.Reader) ([]store.Hit, error) {
	var response struct {
		Hits struct {
			Hits []struct {
				ID     string         `json:"_id"`
				Score  float64        `json:"_score"`
				Source map[string]any `json:"_source"`
			} `json:"hits"`
		} `json:"hits"`
	}
	if err := json.NewDecoder(body).Decode(&response); err != nil {
		return nil, fmt.Errorf("decoding search response: %w", err)
	}

	hits := make([]store.Hit, len(response.Hits.Hits))
	for i, h := range response.Hits.Hits {
		hits[i] = store.Hit{
			IncidentID: h.ID,
			Score:      h.Score,
			Source:     h.Source,
		}
	}
	return hits, nil
}

// Close is a no-op; the underlying HTTP client needs no explicit cleanup.
func (s *DocumentStore) Close() error {
	return nil
}
