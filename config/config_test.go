package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingFileYieldsDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)

	assert.Equal(t, "incidents", cfg.Postgres.Table)
	assert.Equal(t, []string{"http://localhost:9200"}, cfg.Elasticsearch.Addresses)
	assert.Equal(t, "network-incidents", cfg.Elasticsearch.Index)
	assert.Equal(t, 60*time.Second, cfg.Elasticsearch.BulkTimeout())
	assert.Equal(t, 0.1, cfg.AI.Temperature)
	assert.Equal(t, 100, cfg.Ingestion.ChunkSize)
	assert.Equal(t, 10, cfg.Search.Size)
	assert.Equal(t, 50, cfg.Search.NumCandidates)
}

func TestLoad_FileOverridesAndDefaultsFillGaps(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
postgres:
  dsn: postgres://localhost/faultline
  table: incidents_test
elasticsearch:
  index: incidents-test
search:
  size: 3
`), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "incidents_test", cfg.Postgres.Table)
	assert.Equal(t, "incidents-test", cfg.Elasticsearch.Index)
	assert.Equal(t, 3, cfg.Search.Size)

	// Unset fields still get defaults.
	assert.Equal(t, 10, cfg.Search.K)
	assert.Equal(t, "embeddinggemma", cfg.AI.EmbeddingModel)
}

func TestLoad_DSNFromEnvironment(t *testing.T) {
	t.Setenv("FAULTLINE_POSTGRES_DSN", "postgres://env/faultline")

	cfg, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.Equal(t, "postgres://env/faultline", cfg.Postgres.DSN)
}

func TestValidate(t *testing.T) {
	base := func() *AppConfig {
		cfg := defaultConfig()
		cfg.Postgres.DSN = "postgres://localhost/faultline"
		return cfg
	}

	t.Run("valid", func(t *testing.T) {
		assert.NoError(t, base().Validate())
	})

	t.Run("missing dsn", func(t *testing.T) {
		cfg := base()
		cfg.Postgres.DSN = ""
		assert.ErrorContains(t, cfg.Validate(), "dsn is required")
	})

	t.Run("missing index", func(t *testing.T) {
		cfg := base()
		cfg.Elasticsearch.Index = ""
		assert.ErrorContains(t, cfg.Validate(), "index is required")
	})

	t.Run("temperature out of range", func(t *testing.T) {
		cfg := base()
		cfg.AI.Temperature = 3
		assert.ErrorContains(t, cfg.Validate(), "temperature")
	})
}

func TestElasticPassword(t *testing.T) {
	t.Setenv("ES_PASSWORD_TEST", "hunter2")

	cfg := defaultConfig()
	cfg.Elasticsearch.PasswordEnv = "ES_PASSWORD_TEST"
	assert.Equal(t, "hunter2", cfg.ElasticPassword())

	cfg.Elasticsearch.PasswordEnv = ""
	assert.Empty(t, cfg.ElasticPassword())
}
