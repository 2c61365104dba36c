package ingestion

import (
	"testing"

	"github.com/opsgrid/faultline/core"
	"github.com/opsgrid/faultline/schema"
	"github.com/opsgrid/faultline/tabular"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testColumns = []string{
	"incident_id", "timestamp", "severity", "service_impact",
	"incident_description", "resolution_steps", "root_cause",
}

func testBatch(rows ...[]string) *tabular.Batch {
	return tabular.NewBatch(testColumns, rows)
}

func TestNormalize(t *testing.T) {
	n := NewNormalizer(schema.Default())

	batch := testBatch(
		[]string{"INC001", "2025-03-14T09:30:12", "Critical", "4G Outage", "Fiber Cut near London", "Spliced fiber", "Excavation damage"},
		[]string{"INC002", "2025-03-15 10:00:00", "major", "degraded voice", "congestion on core router", "rebalanced traffic", "capacity"},
	)

	records, err := n.Normalize(batch)
	require.NoError(t, err)
	require.Len(t, records, 2)

	// Input order is preserved.
	assert.Equal(t, "INC001", records[0].IncidentID)
	assert.Equal(t, "INC002", records[1].IncidentID)

	first := records[0]
	assert.Equal(t, "2025-03-14T09:30:12", first.FullDate)
	assert.Equal(t, 2025, first.Year)
	assert.Equal(t, 3, first.Month)
	assert.Equal(t, "march", first.MonthName)
	assert.Equal(t, 14, first.Day)
	assert.Equal(t, "friday", first.DayName)
	assert.Equal(t, 9, first.Hour)
	assert.Equal(t, 30, first.Minute)

	// Text fields are lower-cased.
	assert.Equal(t, "critical", first.Severity)
	assert.Equal(t, "fiber cut near london", first.IncidentDescription)
}

func TestNormalize_MissingColumns(t *testing.T) {
	n := NewNormalizer(schema.Default())

	batch := tabular.NewBatch(
		[]string{"incident_id", "timestamp", "severity"},
		[][]string{{"INC001", "2025-03-14T09:30:12", "critical"}},
	)

	_, err := n.Normalize(batch)

	var schemaErr *core.SchemaError
	require.ErrorAs(t, err, &schemaErr)
	assert.Equal(t, []string{"service_impact", "incident_description", "resolution_steps", "root_cause"}, schemaErr.Missing)
}

func TestNormalize_NullCriticalValues(t *testing.T) {
	n := NewNormalizer(schema.Default())

	tests := []struct {
		name   string
		row    []string
		column string
	}{
		{
			name:   "empty incident_id",
			row:    []string{"  ", "2025-03-14T09:30:12", "critical", "x", "desc", "x", "x"},
			column: "incident_id",
		},
		{
			name:   "empty description",
			row:    []string{"INC001", "2025-03-14T09:30:12", "critical", "x", "", "x", "x"},
			column: "incident_description",
		},
		{
			name:   "unparseable timestamp",
			row:    []string{"INC001", "not-a-date", "critical", "x", "desc", "x", "x"},
			column: "timestamp",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			good := []string{"INC000", "2025-03-14T09:30:12", "critical", "x", "desc", "x", "x"}
			_, err := n.Normalize(testBatch(good, tt.row))

			// One bad row rejects the whole batch.
			var dataErr *core.DataError
			require.ErrorAs(t, err, &dataErr)
			assert.Equal(t, tt.column, dataErr.Column)
			assert.Equal(t, 1, dataErr.Row)
		})
	}
}

func TestNormalize_TimestampLayouts(t *testing.T) {
	n := NewNormalizer(schema.Default())

	for _, ts := range []string{
		"2025-03-14T09:30:12Z",
		"2025-03-14T09:30:12",
		"2025-03-14 09:30:12",
		"2025-03-14",
	} {
		t.Run(ts, func(t *testing.T) {
			records, err := n.Normalize(testBatch(
				[]string{"INC001", ts, "critical", "x", "desc", "x", "x"},
			))
			require.NoError(t, err)
			assert.Equal(t, 2025, records[0].Year)
			assert.Equal(t, "march", records[0].MonthName)
		})
	}
}

func TestNormalize_EmptyBatch(t *testing.T) {
	n := NewNormalizer(schema.Default())

	records, err := n.Normalize(testBatch())
	require.NoError(t, err)
	assert.Empty(t, records)
}
