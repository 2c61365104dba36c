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


package core

import (
	"fmt"
	"strings"
)

// SchemaError reports required columns missing from an incoming batch.
// It is raised before any external side effect.
type SchemaError struct {
	Missing []string
}

func (e *SchemaError) Error() string {
	return fmt.Sprintf("missing required columns: %s", strings.Join(e.Missing, ", "))
}

// DataError reports a null or unusable value in a critical field.
// Validation is batch-level: a single bad row rejects the whole batch.
type DataError struct {
	Column string
	Row    int // zero-based input row index
	Reason string
}

func (e *DataError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("row %d: column %q: %s", e.Row, e.Column, e.Reason)
	}
	return fmt.Sprintf("row %d: column %q contains a null value", e.Row, e.Column)
}

// PersistenceError reports an unrecoverable table-store failure during
// reconciliation. The failed operation is not retried here; retrying is a
// caller decision.
type PersistenceError struct {
	Op  string // "snapshot", "insert" or "merge"
	Err error
}

func (e *PersistenceError) Error() string {
	return fmt.Sprintf("table store %s failed: %v", e.Op, e.Err)
}

func (e *PersistenceError) Unwrap() error { return e.Err }

// EmbeddingServiceError reports a total embedding-service failure, i.e.
// every attempted embedding in a batch failed. Partial failures degrade
// gracefully and do not produce this error.
type EmbeddingServiceError struct {
	Err error
}

func (e *EmbeddingServiceError) Error() string {
	return fmt.Sprintf("embedding service unavailable: %v", e.Err)
}

func (e *EmbeddingServiceError) Unwrap() error { return e.Err }
