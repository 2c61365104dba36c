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


package ingestion

import (
	"context"
	"log/slog"
	"runtime"
	"sync"

	"github.com/opsgrid/faultline/ai"
	"github.com/opsgrid/faultline/core"
	"github.com/panjf2000/ants/v2"
)

// embedJob identifies one (record, field) pair to embed.
type embedJob struct {
	record int
	field  string
	text   string
}

// Enricher attaches embedding vectors to records for the configured text
// fields. Empty fields are skipped without a vector and without an error.
// Per-field failures degrade gracefully: the record keeps its remaining
// vectors and the failure is logged. Only a batch where every attempted
// embedding fails is treated as a service outage.
type Enricher struct {
	embedder ai.Embedder
	fields   []string
	pool     *ants.Pool
	logger   *slog.Logger
}

// EnricherOption configures an Enricher.
type EnricherOption func(*Enricher) error

// WithPoolSize sets the worker pool size for per-field embedding calls.
// Default is runtime.NumCPU() / 2, with a minimum of 1.
func WithPoolSize(size int) EnricherOption {
	return func(e *Enricher) error {
		if size < 1 {
			size = 1
		}

		if e.pool != nil {
			e.pool.Release()
		}

		pool, err := ants.NewPool(size)
		if err != nil {
			return err
		}
		e.pool = pool
		return nil
	}
}

// WithEnricherLogger sets a custom logger. Default is slog.Default().
func WithEnricherLogger(logger *slog.Logger) EnricherOption {
	return func(e *Enricher) error {
		if logger != nil {
			e.logger = logger
		}
		return nil
	}
}

// NewEnricher creates an enricher that embeds the named text fields.
func NewEnricher(embedder ai.Embedder, fields []string, opts ...EnricherOption) (*Enricher, error) {
	if embedder == nil {
		return nil, ErrEmbedderRequired
	}

	poolSize := runtime.NumCPU() / 2
	if poolSize < 1 {
		poolSize = 1
	}
	pool, err := ants.NewPool(poolSize)
	if err != nil {
		return nil, err
	}

	e := &Enricher{
		embedder: embedder,
		fields:   fields,
		pool:     pool,
		logger:   slog.Default().With("component", "enricher"),
	}
	for _, opt := range opts {
		if optErr := opt(e); optErr != nil {
			e.Release()
			return nil, optErr
		}
	}
	return e, nil
}

// Enrich returns one enriched record per input record, in input order. It
// first attempts a single batch embedding call; if that fails it falls back
// to concurrent per-field calls so that one bad value cannot sink the whole
// batch. Returns a *core.EmbeddingServiceError only when every attempted
// embedding failed.
func (e *Enricher) Enrich(ctx context.Context, records []*core.IncidentRecord) ([]*core.EnrichedRecord, error) {
	enriched := make([]*core.EnrichedRecord, len(records))
	for i, record := range records {
		enriched[i] = &core.EnrichedRecord{
			IncidentRecord: *record,
			Vectors:        make(map[string][]float32, len(e.fields)),
		}
	}

	jobs := e.collectJobs(records)
	if len(jobs) == 0 {
		return enriched, nil
	}

	batchErr := e.embedBatch(ctx, jobs, enriched)
	if batchErr == nil {
		return enriched, nil
	}
	e.logger.Warn("batch embedding failed, falling back to per-field calls", "error", batchErr)

	failed, lastErr := e.embedEach(ctx, jobs, enriched)
	if failed == len(jobs) {
		return nil, &core.EmbeddingServiceError{Err: lastErr}
	}
	if failed > 0 {
		e.logger.Warn("some embeddings failed, records degraded",
			"attempted", len(jobs), "failed", failed)
	}
	return enriched, nil
}

// collectJobs lists the non-empty (record, field) pairs to embed.
func (e *Enricher) collectJobs(records []*core.IncidentRecord) []embedJob {
	var jobs []embedJob
	for i, record := range records {
		for _, field := range e.fields {
			text, ok := record.TextField(field)
			if !ok || text == "" {
				continue
			}
			jobs = append(jobs, embedJob{record: i, field: field, text: text})
		}
	}
	return jobs
}

// embedBatch embeds all job texts in one call and assigns the vectors.
func (e *Enricher) embedBatch(ctx context.Context, jobs []embedJob, enriched []*core.EnrichedRecord) error {
	texts := make([]string, len(jobs))
	for i, job := range jobs {
		texts[i] = job.text
	}

	vectors, err := e.embedder.EmbedTexts(ctx, texts)
	if err != nil {
		return err
	}

	for i, job := range jobs {
		enriched[job.record].Vectors[job.field] = vectors[i]
	}
	return nil
}

// embedEach embeds each job independently on the worker pool. Returns the
// number of failed jobs and the last error seen.
func (e *Enricher) embedEach(ctx context.Context, jobs []embedJob, enriched []*core.EnrichedRecord) (int, error) {
	var (
		wg      sync.WaitGroup
		mu      sync.Mutex
		failed  int
		lastErr error
	)

	for _, job := range jobs {
		job := job
		wg.Add(1)
		submitErr := e.pool.Submit(func() {
			defer wg.Done()

			vector, err := e.embedder.EmbedText(ctx, job.text)
			mu.Lock()
			defer mu.Unlock()
			if err != nil {
				failed++
				lastErr = err
				e.logger.Debug("embedding failed",
					"incident_id", enriched[job.record].IncidentID,
					"field", job.field, "error", err)
				return
			}
			enriched[job.record].Vectors[job.field] = vector
		})
		if submitErr != nil {
			wg.Done()
			mu.Lock()
			failed++
			lastErr = submitErr
			mu.Unlock()
		}
	}

	wg.Wait()
	return failed, lastErr
}

// Release releases the worker pool. The enricher should not be used after
// calling Release.
func (e *Enricher) Release() {
	if e.pool != nil {
		e.pool.Release()
	}
}
