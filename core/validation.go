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
	"errors"
	"fmt"
	"time"
)

// Domain validation errors
var (
	// ErrInvalidIncidentRecord indicates an IncidentRecord failed validation.
	ErrInvalidIncidentRecord = errors.New("invalid incident record")

	// ErrEmptyIncidentID indicates the IncidentID field is empty.
	ErrEmptyIncidentID = errors.New("incident id cannot be empty")

	// ErrEmptyDescription indicates the IncidentDescription field is empty.
	ErrEmptyDescription = errors.New("incident description cannot be empty")

	// ErrInconsistentDate indicates derived temporal fields disagree with
	// each other or with FullDate.
	ErrInconsistentDate = errors.New("derived date fields are inconsistent")
)

// ValidateIncidentRecord validates an IncidentRecord according to domain rules.
//
// Validation rules:
//   - IncidentID must not be empty
//   - IncidentDescription must not be empty
//   - FullDate must parse as an ISO-8601 timestamp and its components must
//     match the derived Year/Month/MonthName/Day/DayName/Hour/Minute fields
//
// NOT validated:
//   - Severity, ServiceImpact, ResolutionSteps, RootCause (may be empty)
func ValidateIncidentRecord(record *IncidentRecord) error {
	if record == nil {
		return fmt.Errorf("%w: record is nil", ErrInvalidIncidentRecord)
	}

	if record.IncidentID == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIncidentRecord, ErrEmptyIncidentID)
	}

	if record.IncidentDescription == "" {
		return fmt.Errorf("%w: %w", ErrInvalidIncidentRecord, ErrEmptyDescription)
	}

	ts, err := time.Parse(FullDateLayout, record.FullDate)
	if err != nil {
		return fmt.Errorf("%w: full_date %q is not ISO-8601: %w", ErrInvalidIncidentRecord, record.FullDate, err)
	}

	if record.Year != ts.Year() ||
		record.Month != int(ts.Month()) ||
		record.MonthName != LowerMonthName(ts.Month()) ||
		record.Day != ts.Day() ||
		record.DayName != LowerDayName(ts.Weekday()) ||
		record.Hour != ts.Hour() ||
		record.Minute != ts.Minute() {
		return fmt.Errorf("%w: %w", ErrInvalidIncidentRecord, ErrInconsistentDate)
	}

	return nil
}
