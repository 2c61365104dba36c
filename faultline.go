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


// Package faultline wires the incident system together: the Postgres table
// store, the Elasticsearch document index and the AI services, configured
// from a single AppConfig. It is the entry point for embedding the system
// in another program; the CLI under cmd/faultline is a thin shell over it.
package faultline

import (
	"context"
	"log/slog"

	"github.com/opsgrid/faultline/ai"
	"github.com/opsgrid/faultline/ai/cache"
	"github.com/opsgrid/faultline/ai/openai"
	"github.com/opsgrid/faultline/config"
	"github.com/opsgrid/faultline/ingestion"
	"github.com/opsgrid/faultline/resolve"
	"github.com/opsgrid/faultline/schema"
	"github.com/opsgrid/faultline/search"
	"github.com/opsgrid/faultline/store/elastic"
	"github.com/opsgrid/faultline/store/postgres"
)

// System holds the connected stores and AI services.
type System struct {
	cfg      *config.AppConfig
	registry schema.Registry

	table        *postgres.TableStore
	docs         *elastic.DocumentStore
	provider     ai.AIProvider
	cacheBackend *cache.Backend
	embedder     ai.Embedder
	logger       *slog.Logger
}

// Open connects to both stores and the AI services. The embedding cache is
// opened only when the configuration names a cache path.
func Open(ctx context.Context, cfg *config.AppConfig) (*System, error) {
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	table, err := postgres.New(ctx, cfg.Postgres.DSN, cfg.Postgres.Table)
	if err != nil {
		return nil, err
	}

	docs, err := elastic.New(elastic.Config{
		Addresses:   cfg.Elasticsearch.Addresses,
		Username:    cfg.Elasticsearch.Username,
		Password:    cfg.ElasticPassword(),
		Index:       cfg.Elasticsearch.Index,
		BulkTimeout: cfg.Elasticsearch.BulkTimeout(),
	})
	if err != nil {
		table.Close()
		return nil, err
	}

	provider, err := openai.NewProvider(ai.NewConfig(
		ai.WithEmbeddingHost(cfg.AI.EmbeddingHost),
		ai.WithGenerationHost(cfg.AI.GenerationHost),
		ai.WithEmbeddingModel(cfg.AI.EmbeddingModel),
		ai.WithGenerationModel(cfg.AI.GenerationModel),
		ai.WithTemperature(cfg.AI.Temperature),
	))
	if err != nil {
		docs.Close()
		table.Close()
		return nil, err
	}

	embedder := provider.Embedder()
	var backend *cache.Backend
	if cfg.AI.CachePath != "" {
		backend, err = cache.OpenBackend(cfg.AI.CachePath, false)
		if err != nil {
			provider.Close()
			docs.Close()
			table.Close()
			return nil, err
		}
		embedder, err = cache.NewEmbedder(provider.Embedder(), backend, cfg.AI.EmbeddingModel)
		if err != nil {
			backend.Close()
			provider.Close()
			docs.Close()
			table.Close()
			return nil, err
		}
	}

	return &System{
		cfg:          cfg,
		registry:     schema.Default(),
		table:        table,
		docs:         docs,
		provider:     provider,
		cacheBackend: backend,
		embedder:     embedder,
		logger:       slog.Default(),
	}, nil
}

// Close releases every connection the system holds.
func (s *System) Close() error {
	if err := s.provider.Close(); err != nil {
		s.logger.Error("error closing AI provider", "err", err)
	}

	if s.cacheBackend != nil {
		if err := s.cacheBackend.Close(); err != nil {
			s.logger.Error("error closing embedding cache", "err", err)
		}
	}

	if err := s.docs.Close(); err != nil {
		s.logger.Error("error closing document store", "err", err)
		return err
	}
	if err := s.table.Close(); err != nil {
		s.logger.Error("error closing table store", "err", err)
		return err
	}
	return nil
}

// NewIngestionPipeline builds a pipeline over the system's stores. The
// caller owns the returned pipeline and must Release it.
func (s *System) NewIngestionPipeline(opts ...ingestion.PipelineOption) (*ingestion.Pipeline, error) {
	reconciler, err := ingestion.NewReconciler(s.table)
	if err != nil {
		return nil, err
	}

	var enricherOpts []ingestion.EnricherOption
	if s.cfg.Ingestion.PoolSize > 0 {
		enricherOpts = append(enricherOpts, ingestion.WithPoolSize(s.cfg.Ingestion.PoolSize))
	}
	enricher, err := ingestion.NewEnricher(s.embedder, s.registry.FieldsToEmbed, enricherOpts...)
	if err != nil {
		return nil, err
	}

	indexer, err := ingestion.NewIndexer(s.docs, ingestion.WithChunkSize(s.cfg.Ingestion.ChunkSize))
	if err != nil {
		enricher.Release()
		return nil, err
	}

	pipeline, err := ingestion.NewPipeline(
		ingestion.NewNormalizer(s.registry), reconciler, enricher, indexer, opts...)
	if err != nil {
		enricher.Release()
		return nil, err
	}
	return pipeline, nil
}

// NewSearcher builds a searcher with the configured size and kNN settings.
func (s *System) NewSearcher(opts ...search.Option) (*search.Searcher, error) {
	base := []search.Option{
		search.WithSize(s.cfg.Search.Size),
		search.WithKNN(s.cfg.Search.K, s.cfg.Search.NumCandidates),
	}
	return search.New(s.docs, s.embedder, s.registry, append(base, opts...)...)
}

// NewResolver builds a resolver over a configured searcher and the
// generation model.
func (s *System) NewResolver(opts ...resolve.Option) (*resolve.Resolver, error) {
	searcher, err := s.NewSearcher()
	if err != nil {
		return nil, err
	}
	return resolve.New(searcher, s.provider.Generator(), opts...)
}
