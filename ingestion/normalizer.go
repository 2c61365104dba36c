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
	"log/slog"
	"strings"
	"time"

	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/schema"
	"github.com/opsgrid/faultline/tabular"
)

// timestampLayouts are the accepted input formats for the timestamp column,
// tried in order.
var timestampLayouts = []string{
	time.RFC3339,
	"2006-01-02T15:04:05",
	"2006-01-02 15:04:05",
	"2006-01-02",
}

// Normalizer converts a raw tabular batch into canonical incident records.
// Validation is batch-level: the first schema or data problem rejects the
// whole batch and nothing downstream runs, so a rejected batch leaves no
// external side effect.
type Normalizer struct {
	registry schema.Registry
	logger   *slog.Logger
}

// NormalizerOption configures a Normalizer.
type NormalizerOption func(*Normalizer)

// WithNormalizerLogger sets a custom logger. Default is slog.Default().
func WithNormalizerLogger(logger *slog.Logger) NormalizerOption {
	return func(n *Normalizer) {
		if logger != nil {
			n.logger = logger
		}
	}
}

// NewNormalizer creates a normalizer for the given field registry.
func NewNormalizer(registry schema.Registry, opts ...NormalizerOption) *Normalizer {
	n := &Normalizer{
		registry: registry,
		logger:   slog.Default().With("component", "normalizer"),
	}
	for _, opt := range opts {
		opt(n)
	}
	return n
}

// Normalize validates the batch and produces one record per input row, in
// input order. No row is silently dropped: a missing required column returns
// a *core.SchemaError, and a null critical value or unparseable timestamp
// returns a *core.DataError for the offending row.
func (n *Normalizer) Normalize(batch *tabular.Batch) ([]*core.IncidentRecord, error) {
	if missing := batch.MissingColumns(n.registry.RequiredColumns); len(missing) > 0 {
		return nil, &core.SchemaError{Missing: missing}
	}

	records := make([]*core.IncidentRecord, 0, batch.Len())
	for row := 0; row < batch.Len(); row++ {
		record, err := n.normalizeRow(batch, row)
		if err != nil {
			return nil, err
		}
		records = append(records, record)
	}

	n.logger.Debug("batch normalized", "rows", len(records))
	return records, nil
}

func (n *Normalizer) normalizeRow(batch *tabular.Batch, row int) (*core.IncidentRecord, error) {
	id := strings.TrimSpace(batch.Value(row, "incident_id"))
	if id == "" {
		return nil, &core.DataError{Column: "incident_id", Row: row}
	}

	description := normalizeText(batch.Value(row, "incident_description"))
	if description == "" {
		return nil, &core.DataError{Column: "incident_description", Row: row}
	}

	ts, err := parseTimestamp(batch.Value(row, "timestamp"))
	if err != nil {
		return nil, &core.DataError{Column: "timestamp", Row: row, Reason: err.Error()}
	}

	record := &core.IncidentRecord{
		IncidentID:          id,
		Severity:            normalizeText(batch.Value(row, "severity")),
		ServiceImpact:       normalizeText(batch.Value(row, "service_impact")),
		IncidentDescription: description,
		ResolutionSteps:     normalizeText(batch.Value(row, "resolution_steps")),
		RootCause:           normalizeText(batch.Value(row, "root_cause")),
	}
	record.DeriveTemporal(ts)
	return record, nil
}

// normalizeText lower-cases a text field so keyword search is
// case-insensitive at the data level.
func normalizeText(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

// parseTimestamp tries each accepted layout in order.
func parseTimestamp(value string) (time.Time, error) {
	value = strings.TrimSpace(value)

	var lastErr error
	for _, layout := range timestampLayouts {
		ts, err := time.Parse(layout, value)
		if err == nil {
			return ts, nil
		}
		lastErr = err
	}
	return time.Time{}, lastErr
}
