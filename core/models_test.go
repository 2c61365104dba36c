package core

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func sampleRecord() *IncidentRecord {
	r := &IncidentRecord{
		IncidentID:          "INC001",
		Severity:            "critical",
		ServiceImpact:       "4g data services degraded",
		IncidentDescription: "4g outage in east london",
		ResolutionSteps:     "restarted enodeb",
		RootCause:           "fiber cut",
	}
	r.DeriveTemporal(time.Date(2025, time.March, 14, 9, 30, 12, 0, time.UTC))
	return r
}

func TestDeriveTemporal(t *testing.T) {
	r := sampleRecord()

	assert.Equal(t, "2025-03-14T09:30:12", r.FullDate)
	assert.Equal(t, 2025, r.Year)
	assert.Equal(t, 3, r.Month)
	assert.Equal(t, "march", r.MonthName)
	assert.Equal(t, 14, r.Day)
	assert.Equal(t, "friday", r.DayName)
	assert.Equal(t, 9, r.Hour)
	assert.Equal(t, 30, r.Minute)
}

func TestTextField(t *testing.T) {
	r := sampleRecord()

	t.Run("known fields", func(t *testing.T) {
		v, ok := r.TextField("incident_description")
		require.True(t, ok)
		assert.Equal(t, "4g outage in east london", v)

		v, ok = r.TextField("root_cause")
		require.True(t, ok)
		assert.Equal(t, "fiber cut", v)
	})

	t.Run("unknown field", func(t *testing.T) {
		_, ok := r.TextField("timestamp")
		assert.False(t, ok)
	})
}

func TestEnrichedRecordDocument(t *testing.T) {
	r := &EnrichedRecord{
		IncidentRecord: *sampleRecord(),
		Vectors: map[string][]float32{
			"incident_description": {0.1, 0.2},
		},
	}

	doc := r.Document()
	assert.Equal(t, "INC001", doc["incident_id"])
	assert.Equal(t, []float32{0.1, 0.2}, doc["incident_description_vector"])
	assert.NotContains(t, doc, "timestamp")
}

func TestValidateIncidentRecord(t *testing.T) {
	t.Run("valid record", func(t *testing.T) {
		assert.NoError(t, ValidateIncidentRecord(sampleRecord()))
	})

	t.Run("nil record", func(t *testing.T) {
		err := ValidateIncidentRecord(nil)
		assert.ErrorIs(t, err, ErrInvalidIncidentRecord)
	})

	t.Run("empty incident id", func(t *testing.T) {
		r := sampleRecord()
		r.IncidentID = ""
		assert.ErrorIs(t, ValidateIncidentRecord(r), ErrEmptyIncidentID)
	})

	t.Run("empty description", func(t *testing.T) {
		r := sampleRecord()
		r.IncidentDescription = ""
		assert.ErrorIs(t, ValidateIncidentRecord(r), ErrEmptyDescription)
	})

	t.Run("month name mismatch", func(t *testing.T) {
		r := sampleRecord()
		r.MonthName = "april"
		assert.ErrorIs(t, ValidateIncidentRecord(r), ErrInconsistentDate)
	})

	t.Run("day name mismatch", func(t *testing.T) {
		r := sampleRecord()
		r.DayName = "monday"
		assert.ErrorIs(t, ValidateIncidentRecord(r), ErrInconsistentDate)
	})
}
