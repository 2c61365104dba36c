package core

// VectorSuffix is appended to a field name to form the name of its
// embedding field, e.g. "incident_description" -> "incident_description_vector".
const VectorSuffix = "_vector"

// IncidentRecord is the canonical form of a network incident after
// normalization. All text fields are lower-cased and the temporal fields are
// derived from the original timestamp column, which is dropped.
type IncidentRecord struct {
	IncidentID          string
	FullDate            string // ISO-8601, second precision
	Year                int
	Month               int // 1-12
	MonthName           string // lower-cased full month name
	Day                 int
	DayName             string // lower-cased full weekday name
	Hour                int
	Minute              int
	Severity            string
	ServiceImpact       string
	IncidentDescription string
	ResolutionSteps     string
	RootCause           string
}

// TextField returns the value of a named text field.
// The second return value is false for unknown field names.
func (r *IncidentRecord) TextField(name string) (string, bool) {
	switch name {
	case "severity":
		return r.Severity, true
	case "service_impact":
		return r.ServiceImpact, true
	case "incident_description":
		return r.IncidentDescription, true
	case "resolution_steps":
		return r.ResolutionSteps, true
	case "root_cause":
		return r.RootCause, true
	}
	return "", false
}

// Fields returns the record as a flat field map, keyed by the canonical
// column names used by both the table store and the document index.
func (r *IncidentRecord) Fields() map[string]any {
	return map[string]any{
		"incident_id":          r.IncidentID,
		"full_date":            r.FullDate,
		"year":                 r.Year,
		"month":                r.Month,
		"month_name":           r.MonthName,
		"day":                  r.Day,
		"day_name":             r.DayName,
		"hour":                 r.Hour,
		"minute":               r.Minute,
		"severity":             r.Severity,
		"service_impact":       r.ServiceImpact,
		"incident_description": r.IncidentDescription,
		"resolution_steps":     r.ResolutionSteps,
		"root_cause":           r.RootCause,
	}
}

// EnrichedRecord is an IncidentRecord with embedding vectors attached for a
// subset of its text fields. A vector is present only if the source field
// was non-empty and the embedding call succeeded.
type EnrichedRecord struct {
	IncidentRecord
	Vectors map[string][]float32 // source field name -> embedding
}

// Document returns the record as a document-index payload, with each vector
// stored under "<field>_vector".
func (r *EnrichedRecord) Document() map[string]any {
	doc := r.Fields()
	for field, vector := range r.Vectors {
		doc[field+VectorSuffix] = vector
	}
	return doc
}

// ReconciliationBatch partitions incoming records by membership of their
// incident_id in a snapshot of the persisted store. Every incoming record
// lands in exactly one of the two partitions.
type ReconciliationBatch struct {
	Inserts []*IncidentRecord // incident_id not present in the snapshot
	Updates []*IncidentRecord // incident_id already present
}

// SearchResult is a ranked view of a document-index hit with all vector
// fields and non-scalar values stripped out.
type SearchResult struct {
	IncidentID string
	Score      float64
	Fields     map[string]any
}
