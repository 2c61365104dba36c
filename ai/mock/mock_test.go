package mock

import (
	"context"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// The enricher calls EmbedText from pool workers, so the mock must hold up
// under concurrent use like any other ai.Embedder.
func TestMockEmbedder_ConcurrentCalls(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	const calls = 64
	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := m.EmbedText(ctx, fmt.Sprintf("incident %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, calls, m.CallCount())
}

func TestMockEmbedder_DeterministicVectors(t *testing.T) {
	m := NewMockEmbedder()
	ctx := context.Background()

	a, err := m.EmbedText(ctx, "fiber cut")
	require.NoError(t, err)
	b, err := m.EmbedText(ctx, "fiber cut")
	require.NoError(t, err)

	assert.Equal(t, a, b)
	assert.Len(t, a, 384)
}

func TestMockGenerator_ConcurrentCalls(t *testing.T) {
	m := NewMockGenerator()
	ctx := context.Background()

	const calls = 64
	var wg sync.WaitGroup
	wg.Add(calls)
	for i := 0; i < calls; i++ {
		go func(n int) {
			defer wg.Done()
			_, err := m.Generate(ctx, fmt.Sprintf("prompt %d", n))
			assert.NoError(t, err)
		}(i)
	}
	wg.Wait()

	assert.Equal(t, calls, m.CallCount())
	assert.Contains(t, m.LastPrompt(), "prompt ")
}
