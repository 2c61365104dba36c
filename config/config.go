// Package config loads the application configuration from YAML. Every
// field has a working local default, so a missing file still yields a
// runnable configuration. Secrets are named indirectly via *_env keys and
// resolved from the environment at load time.
package config

import (
	"errors"
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// PostgresConfig contains connection details for the incident table store.
type PostgresConfig struct {
	DSN    string `yaml:"dsn"`
	DSNEnv string `yaml:"dsn_env"`
	Table  string `yaml:"table"`
}

// ElasticsearchConfig contains connection details for the document index.
type ElasticsearchConfig struct {
	Addresses       []string `yaml:"addresses"`
	Username        string   `yaml:"username"`
	PasswordEnv     string   `yaml:"password_env"`
	Index           string   `yaml:"index"`
	BulkTimeoutSecs int      `yaml:"bulk_timeout_secs"`
}

// AIConfig configures the OpenAI-compatible embedding and generation hosts.
type AIConfig struct {
	EmbeddingHost   string  `yaml:"embedding_host"`
	GenerationHost  string  `yaml:"generation_host"`
	EmbeddingModel  string  `yaml:"embedding_model"`
	GenerationModel string  `yaml:"generation_model"`
	Temperature     float64 `yaml:"temperature"`

	// CachePath enables the on-disk embedding cache when non-empty.
	CachePath string `yaml:"cache_path"`
}

// IngestionConfig tunes the ingestion pipeline.
type IngestionConfig struct {
	ChunkSize    int `yaml:"chunk_size"`
	PoolSize     int `yaml:"pool_size"`
	IndexRetries int `yaml:"index_retries"`
}

// SearchConfig tunes hybrid search.
type SearchConfig struct {
	Size          int `yaml:"size"`
	K             int `yaml:"k"`
	NumCandidates int `yaml:"num_candidates"`
}

// AppConfig is the root application configuration.
type AppConfig struct {
	Postgres      PostgresConfig      `yaml:"postgres"`
	Elasticsearch ElasticsearchConfig `yaml:"elasticsearch"`
	AI            AIConfig            `yaml:"ai"`
	Ingestion     IngestionConfig     `yaml:"ingestion"`
	Search        SearchConfig        `yaml:"search"`
}

// Load reads a config from the given path. A missing file yields defaults.
func Load(path string) (*AppConfig, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			cfg := defaultConfig()
			applyEnv(cfg)
			return cfg, nil
		}
		return nil, err
	}

	var cfg AppConfig
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("parsing %s: %w", path, err)
	}
	applyDefaults(&cfg)
	applyEnv(&cfg)
	return &cfg, nil
}

// BulkTimeout returns the bulk timeout as a duration.
func (c *ElasticsearchConfig) BulkTimeout() time.Duration {
	return time.Duration(c.BulkTimeoutSecs) * time.Second
}

// ElasticPassword resolves the index password from the configured
// environment variable.
func (c *AppConfig) ElasticPassword() string {
	if c.Elasticsearch.PasswordEnv == "" {
		return ""
	}
	return os.Getenv(c.Elasticsearch.PasswordEnv)
}

// Validate reports the first configuration problem found.
func (c *AppConfig) Validate() error {
	if c.Postgres.DSN == "" {
		return fmt.Errorf("postgres: dsn is required (set dsn or %s)", c.Postgres.DSNEnv)
	}
	if c.Postgres.Table == "" {
		return errors.New("postgres: table is required")
	}
	if len(c.Elasticsearch.Addresses) == 0 {
		return errors.New("elasticsearch: at least one address is required")
	}
	if c.Elasticsearch.Index == "" {
		return errors.New("elasticsearch: index is required")
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("ai: temperature %v out of range [0, 2]", c.AI.Temperature)
	}
	return nil
}

func defaultConfig() *AppConfig {
	cfg := &AppConfig{}
	applyDefaults(cfg)
	return cfg
}

func applyDefaults(cfg *AppConfig) {
	if cfg.Postgres.DSNEnv == "" {
		cfg.Postgres.DSNEnv = "FAULTLINE_POSTGRES_DSN"
	}
	if cfg.Postgres.Table == "" {
		cfg.Postgres.Table = "incidents"
	}
	if len(cfg.Elasticsearch.Addresses) == 0 {
		cfg.Elasticsearch.Addresses = []string{"http://localhost:9200"}
	}
	if cfg.Elasticsearch.Index == "" {
		cfg.Elasticsearch.Index = "network-incidents"
	}
	if cfg.Elasticsearch.BulkTimeoutSecs == 0 {
		cfg.Elasticsearch.BulkTimeoutSecs = 60
	}
	if cfg.AI.EmbeddingHost == "" {
		cfg.AI.EmbeddingHost = "http://localhost:11434"
	}
	if cfg.AI.GenerationHost == "" {
		cfg.AI.GenerationHost = cfg.AI.EmbeddingHost
	}
	if cfg.AI.EmbeddingModel == "" {
		cfg.AI.EmbeddingModel = "embeddinggemma"
	}
	if cfg.AI.GenerationModel == "" {
		cfg.AI.GenerationModel = "qwen2.5:3b"
	}
	if cfg.AI.Temperature == 0 {
		cfg.AI.Temperature = 0.1
	}
	if cfg.Ingestion.ChunkSize == 0 {
		cfg.Ingestion.ChunkSize = 100
	}
	if cfg.Ingestion.IndexRetries == 0 {
		cfg.Ingestion.IndexRetries = 1
	}
	if cfg.Search.Size == 0 {
		cfg.Search.Size = 10
	}
	if cfg.Search.K == 0 {
		cfg.Search.K = 10
	}
	if cfg.Search.NumCandidates == 0 {
		cfg.Search.NumCandidates = 50
	}
}

// applyEnv resolves indirect secret references.
func applyEnv(cfg *AppConfig) {
	if cfg.Postgres.DSN == "" && cfg.Postgres.DSNEnv != "" {
		cfg.Postgres.DSN = os.Getenv(cfg.Postgres.DSNEnv)
	}
}
