package cache

import (
	"context"
	"errors"
	"log/slog"

	"github.com/opsgrid/faultline/ai"
)

// Embedder wraps another ai.Embedder with a persistent cache. Re-ingesting
// unchanged incident text does not re-pay the embedding service.
//
// Cache failures are never fatal: reads and writes that fail are logged and
// the call falls through to the wrapped embedder.
type Embedder struct {
	inner     ai.Embedder
	backend   *Backend
	namespace string
	logger    *slog.Logger
}

var _ ai.Embedder = (*Embedder)(nil)

// NewEmbedder creates a caching embedder. The namespace should identify the
// embedding model, so that switching models never serves stale vectors.
func NewEmbedder(inner ai.Embedder, backend *Backend, namespace string) (*Embedder, error) {
	if inner == nil {
		return nil, errors.New("inner embedder required")
	}
	if backend == nil {
		return nil, errors.New("cache backend required")
	}
	return &Embedder{
		inner:     inner,
		backend:   backend,
		namespace: namespace,
		logger:    slog.Default().With("component", "embedding-cache"),
	}, nil
}

// EmbedText returns the cached vector for text, or embeds and caches it.
func (e *Embedder) EmbedText(ctx context.Context, text string) ([]float32, error) {
	key := Key(e.namespace, text)

	if vector, ok := e.lookup(key); ok {
		return vector, nil
	}

	vector, err := e.inner.EmbedText(ctx, text)
	if err != nil {
		return nil, err
	}

	e.store(key, vector)
	return vector, nil
}

// EmbedTexts embeds a batch, serving cached entries and forwarding only the
// misses to the wrapped embedder in a single batch call. The returned slice
// is in input order.
func (e *Embedder) EmbedTexts(ctx context.Context, texts []string) ([][]float32, error) {
	result := make([][]float32, len(texts))

	var missIdx []int
	var missTexts []string
	for i, text := range texts {
		if vector, ok := e.lookup(Key(e.namespace, text)); ok {
			result[i] = vector
			continue
		}
		missIdx = append(missIdx, i)
		missTexts = append(missTexts, text)
	}

	if len(missTexts) == 0 {
		return result, nil
	}

	embedded, err := e.inner.EmbedTexts(ctx, missTexts)
	if err != nil {
		return nil, err
	}
	if len(embedded) != len(missTexts) {
		return nil, errors.New("embedding result count mismatch")
	}

	for j, i := range missIdx {
		result[i] = embedded[j]
		e.store(Key(e.namespace, texts[i]), embedded[j])
	}

	return result, nil
}

func (e *Embedder) lookup(key []byte) ([]float32, bool) {
	data, ok, err := e.backend.Get(key)
	if err != nil {
		e.logger.Warn("cache read failed", "err", err)
		return nil, false
	}
	if !ok {
		return nil, false
	}
	vector, err := UnmarshalVector(data)
	if err != nil {
		e.logger.Warn("cache entry corrupt, ignoring", "err", err)
		return nil, false
	}
	return vector, true
}

func (e *Embedder) store(key []byte, vector []float32) {
	if err := e.backend.Set(key, MarshalVector(vector)); err != nil {
		e.logger.Warn("cache write failed", "err", err)
	}
}
