package ingestion

import (
	"context"
	"errors"
	"fmt"
	"testing"

	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/store"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func enrichedRecords(n int) []*core.EnrichedRecord {
	records := make([]*core.EnrichedRecord, n)
	for i := range records {
		records[i] = &core.EnrichedRecord{
			IncidentRecord: core.IncidentRecord{
				IncidentID:          fmt.Sprintf("INC%03d", i+1),
				IncidentDescription: "desc",
			},
			Vectors: map[string][]float32{"incident_description": {0.1}},
		}
	}
	return records
}

func TestIndex_Chunks(t *testing.T) {
	docs := &fakeDocStore{}
	ix, err := NewIndexer(docs, WithChunkSize(2))
	require.NoError(t, err)

	report := ix.Index(context.Background(), enrichedRecords(5))

	assert.Equal(t, 5, report.Succeeded)
	assert.Zero(t, report.Failed())
	require.Len(t, docs.bulkCalls, 3)
	assert.Len(t, docs.bulkCalls[0], 2)
	assert.Len(t, docs.bulkCalls[2], 1)

	// Documents carry the vector fields.
	assert.Contains(t, docs.bulkCalls[0][0], "incident_description_vector")
}

func TestIndex_PartialFailureIsData(t *testing.T) {
	docs := &fakeDocStore{
		bulkFunc: func(batch []map[string]any) (int, []store.IndexFailure, error) {
			failure := store.IndexFailure{
				IncidentID: batch[0]["incident_id"].(string),
				Reason:     "mapping conflict",
			}
			return len(batch) - 1, []store.IndexFailure{failure}, nil
		},
	}
	ix, err := NewIndexer(docs)
	require.NoError(t, err)

	report := ix.Index(context.Background(), enrichedRecords(3))

	assert.Equal(t, 2, report.Succeeded)
	require.Equal(t, 1, report.Failed())
	assert.Equal(t, "INC001", report.Failures[0].IncidentID)
}

func TestIndex_TransportFailureSkipsChunk(t *testing.T) {
	var call int
	docs := &fakeDocStore{
		bulkFunc: func(batch []map[string]any) (int, []store.IndexFailure, error) {
			call++
			if call == 1 {
				return 0, nil, errors.New("connection reset")
			}
			return len(batch), nil, nil
		},
	}
	ix, err := NewIndexer(docs, WithChunkSize(2))
	require.NoError(t, err)

	report := ix.Index(context.Background(), enrichedRecords(4))

	// First chunk fails wholesale, second still runs.
	assert.Equal(t, 2, report.Succeeded)
	require.Equal(t, 2, report.Failed())
	assert.Equal(t, "INC001", report.Failures[0].IncidentID)
	assert.Contains(t, report.Failures[0].Reason, "connection reset")
}

func TestIndex_Empty(t *testing.T) {
	docs := &fakeDocStore{}
	ix, err := NewIndexer(docs)
	require.NoError(t, err)

	report := ix.Index(context.Background(), nil)
	assert.Zero(t, report.Succeeded)
	assert.Zero(t, report.Failed())
	assert.Empty(t, docs.bulkCalls)
}

func TestNewIndexer_RequiresStore(t *testing.T) {
	_, err := NewIndexer(nil)
	assert.ErrorIs(t, err, ErrDocumentStoreRequired)
}
