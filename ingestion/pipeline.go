package ingestion

import (
	"context"
	"log/slog"

	"github.com/opsgrid/faultline/tabular"
)

// Pipeline runs a raw batch through normalize, reconcile, enrich and index
// in order. Each stage must finish before the next starts. A stage failure
// stops the run; completed stages are not rolled back.
type Pipeline struct {
	normalizer *Normalizer
	reconciler *Reconciler
	enricher   *Enricher
	indexer    *Indexer
	logger     *slog.Logger
}

// PipelineOption configures a Pipeline.
type PipelineOption func(*Pipeline)

// WithPipelineLogger sets a custom logger. Default is slog.Default().
func WithPipelineLogger(logger *slog.Logger) PipelineOption {
	return func(p *Pipeline) {
		if logger != nil {
			p.logger = logger
		}
	}
}

// NewPipeline wires the four stages into a pipeline.
func NewPipeline(
	normalizer *Normalizer,
	reconciler *Reconciler,
	enricher *Enricher,
	indexer *Indexer,
	opts ...PipelineOption,
) (*Pipeline, error) {
	if normalizer == nil {
		return nil, ErrNormalizerRequired
	}
	if reconciler == nil {
		return nil, ErrReconcilerRequired
	}
	if enricher == nil {
		return nil, ErrEnricherRequired
	}
	if indexer == nil {
		return nil, ErrIndexerRequired
	}

	p := &Pipeline{
		normalizer: normalizer,
		reconciler: reconciler,
		enricher:   enricher,
		indexer:    indexer,
		logger:     slog.Default().With("component", "pipeline"),
	}
	for _, opt := range opts {
		opt(p)
	}
	return p, nil
}

// Run ingests one batch end to end and always returns a Result; failures
// are carried in the result rather than as a second return value so callers
// get the partial counts alongside the error.
func (p *Pipeline) Run(ctx context.Context, batch *tabular.Batch) *Result {
	result := &Result{}

	records, err := p.normalizer.Normalize(batch)
	if err != nil {
		result.FailedStage = StageNormalize
		result.Err = err
		return result
	}
	result.Records = len(records)

	result.Inserted, result.Updated, err = p.reconciler.Reconcile(ctx, records)
	if err != nil {
		result.FailedStage = StageReconcile
		result.Err = err
		return result
	}

	enriched, err := p.enricher.Enrich(ctx, records)
	if err != nil {
		result.FailedStage = StageEnrich
		result.Err = err
		return result
	}

	report := p.indexer.Index(ctx, enriched)
	result.Indexed = report.Succeeded
	result.IndexFailures = report.Failures

	p.logger.Info("pipeline run complete", "status", result.String())
	return result
}

// Release releases the enricher's worker pool. The pipeline should not be
// used after calling Release.
func (p *Pipeline) Release() {
	p.enricher.Release()
}
