package elastic

import (
	"context"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func newTestStore(t *testing.T, handler http.HandlerFunc) *DocumentStore {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	s, err := New(Config{
		Addresses: []string{srv.URL},
		Index:     "network-incidents",
	})
	require.NoError(t, err)
	return s
}

func bulkDocs(ids ...string) []map[string]any {
	docs := make([]map[string]any, len(ids))
	for i, id := range ids {
		docs[i] = map[string]any{
			"incident_id":          id,
			"incident_description": "fiber cut on the metro ring",
		}
	}
	return docs
}

func TestBulkUpsert(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_bulk") {
			_, _ = w.Write([]byte(`{"took":1,"errors":false,"items":[` +
				`{"index":{"_id":"INC001","status":201}},` +
				`{"index":{"_id":"INC002","status":201}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	succeeded, failures, err := s.BulkUpsert(context.Background(), bulkDocs("INC001", "INC002"))

	require.NoError(t, err)
	assert.Equal(t, 2, succeeded)
	assert.Empty(t, failures)
}

func TestBulkUpsert_ItemFailureCarriesReason(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.Header().Set("Content-Type", "application/json")
		if strings.HasSuffix(r.URL.Path, "/_bulk") {
			_, _ = w.Write([]byte(`{"took":1,"errors":true,"items":[` +
				`{"index":{"_id":"INC001","status":201}},` +
				`{"index":{"_id":"INC002","status":400,"error":{"type":"mapper_parsing_exception","reason":"failed to parse field"}}}]}`))
			return
		}
		_, _ = w.Write([]byte(`{}`))
	})

	succeeded, failures, err := s.BulkUpsert(context.Background(), bulkDocs("INC001", "INC002"))

	require.NoError(t, err)
	assert.Equal(t, 1, succeeded)
	require.Len(t, failures, 1)
	assert.Equal(t, "INC002", failures[0].IncidentID)
	assert.Equal(t, "failed to parse field", failures[0].Reason)
}

// A failed flush never reaches the per-item callbacks, so every queued
// document must still be reported as a failure rather than counted as a
// clean zero-document success.
func TestBulkUpsert_FlushFailureReportsEveryDocument(t *testing.T) {
	s := newTestStore(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("X-Elastic-Product", "Elasticsearch")
		w.WriteHeader(http.StatusBadGateway)
	})

	succeeded, failures, err := s.BulkUpsert(context.Background(), bulkDocs("INC001", "INC002"))

	require.NoError(t, err)
	assert.Zero(t, succeeded)
	require.Len(t, failures, 2)
	ids := []string{failures[0].IncidentID, failures[1].IncidentID}
	assert.ElementsMatch(t, []string{"INC001", "INC002"}, ids)
	for _, f := range failures {
		assert.NotEmpty(t, f.Reason)
	}
}

func TestBulkUpsert_UnreachableClusterReportsEveryDocument(t *testing.T) {
	s, err := New(Config{
		Addresses: []string{"http://127.0.0.1:1"},
		Index:     "network-incidents",
	})
	require.NoError(t, err)

	succeeded, failures, err := s.BulkUpsert(context.Background(), bulkDocs("INC001", "INC002"))

	require.NoError(t, err)
	assert.Zero(t, succeeded)
	require.Len(t, failures, 2)
	for _, f := range failures {
		assert.NotEmpty(t, f.Reason)
	}
}
