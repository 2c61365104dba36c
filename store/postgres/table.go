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


// Package postgres implements store.TableStore on PostgreSQL.
//
// Bulk loads go through a temporary staging table: records are COPYed into
// the staging table on a single acquired connection, then applied to the
// target table with one INSERT ... SELECT (appends) or one MERGE (updates).
// The staging table is dropped before the call returns, including on
// failure.
package postgres

import (
	"context"
	"fmt"
	"log/slog"
	"strings"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/store"
)

// TableStore implements store.TableStore on a pgx connection pool.
type TableStore struct {
	pool   *pgxpool.Pool
	table  string
	logger *slog.Logger
}

var _ store.TableStore = (*TableStore)(nil)

// Option configures a TableStore.
type Option func(*TableStore)

// WithLogger sets a custom logger.
// Default is slog.Default().
func WithLogger(logger *slog.Logger) Option {
	return func(s *TableStore) {
		if logger != nil {
			s.logger = logger
		}
	}
}

// New connects to PostgreSQL and ensures the incident table exists.
func New(ctx context.Context, dsn, table string, opts ...Option) (*TableStore, error) {
	if table == "" {
		return nil, fmt.Errorf("table name required")
	}

	pool, err := pgxpool.New(ctx, dsn)
	if err != nil {
		return nil, fmt.Errorf("connecting to postgres: %w", err)
	}

	s := &TableStore{
		pool:   pool,
		table:  table,
		logger: slog.Default().With("component", "postgres-table"),
	}
	for _, opt := range opts {
		opt(s)
	}

	if _, err := pool.Exec(ctx, createTableSQL(table)); err != nil {
		pool.Close()
		return nil, fmt.Errorf("ensuring incident table: %w", err)
	}

	return s, nil
}

// IncidentIDs returns a snapshot of all incident_id values in the table.
func (s *TableStore) IncidentIDs(ctx context.Context) (map[string]struct{}, error) {
	rows, err := s.pool.Query(ctx, selectIDsSQL(s.table))
	if err != nil {
		return nil, fmt.Errorf("scanning incident ids: %w", err)
	}
	defer rows.Close()

	ids := make(map[string]struct{})
	for rows.Next() {
		var id string
		if err := rows.Scan(&id); err != nil {
			return nil, err
		}
		ids[id] = struct{}{}
	}
	return ids, rows.Err()
}

// InsertRecords appends records through a staging table.
func (s *TableStore) InsertRecords(ctx context.Context, records []*core.IncidentRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.applyViaStaging(ctx, records, insertFromStagingSQL)
}

// MergeRecords overwrites existing rows by incident_id through a staging
// table. Every non-key column of a matched row is fully replaced.
func (s *TableStore) MergeRecords(ctx context.Context, records []*core.IncidentRecord) error {
	if len(records) == 0 {
		return nil
	}
	return s.applyViaStaging(ctx, records, mergeFromStagingSQL)
}

// applyViaStaging copies records into a fresh staging table on one acquired
// connection and runs the apply statement built by applySQL. Temporary
// tables are session-scoped, so all statements must share the connection.
func (s *TableStore) applyViaStaging(ctx context.Context, records []*core.IncidentRecord, applySQL func(table, staging string) string) error {
	conn, err := s.pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquiring connection: %w", err)
	}
	defer conn.Release()

	staging := stagingName(s.table)
	if _, err := conn.Exec(ctx, createStagingSQL(staging, s.table)); err != nil {
		return fmt.Errorf("creating staging table: %w", err)
	}
	defer func() {
		// Drop even on failure; the connection may be reused by the pool.
		if _, err := conn.Exec(context.WithoutCancel(ctx), dropStagingSQL(staging)); err != nil {
			s.logger.Warn("failed to drop staging table", "staging", staging, "err", err)
		}
	}()

	copied, err := conn.CopyFrom(ctx, pgx.Identifier{staging}, recordColumns, pgx.CopyFromSlice(len(records), func(i int) ([]any, error) {
		r := records[i]
		return []any{
			r.IncidentID, r.FullDate, r.Year, r.Month, r.MonthName,
			r.Day, r.DayName, r.Hour, r.Minute,
			r.Severity, r.ServiceImpact, r.IncidentDescription,
			r.ResolutionSteps, r.RootCause,
		}, nil
	}))
	if err != nil {
		return fmt.Errorf("loading staging table: %w", err)
	}
	if copied != int64(len(records)) {
		return fmt.Errorf("staging load wrote %d of %d rows", copied, len(records))
	}

	if _, err := conn.Exec(ctx, applySQL(s.table, staging)); err != nil {
		return fmt.Errorf("applying staged records: %w", err)
	}

	s.logger.Debug("applied staged records", "table", s.table, "records", len(records))
	return nil
}

// Close releases the connection pool.
func (s *TableStore) Close() error {
	s.pool.Close()
	return nil
}

// stagingName builds a unique staging table name so that concurrent loads
// on different sessions can never collide on a shared schema.
func stagingName(table string) string {
	suffix := strings.ReplaceAll(uuid.NewString()[:8], "-", "")
	return fmt.Sprintf("%s_staging_%s", table, suffix)
}
