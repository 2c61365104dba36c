// Package schema declares the incident field registry: which columns an
// incoming batch must carry, which fields get embeddings, and which fields
// participate in keyword versus vector search.
package schema

import "github.com/opsgrid/faultline/core"

// Registry is the static field declaration shared by ingestion and search.
type Registry struct {
	// RequiredColumns must all be present in a raw batch before
	// normalization begins.
	RequiredColumns []string

	// FieldsToEmbed are the text fields that receive a "<field>_vector"
	// embedding during enrichment.
	FieldsToEmbed []string

	// KeywordFields are searched lexically.
	KeywordFields []string

	// VectorFields are the embedding field names searched by nearest
	// neighbor.
	VectorFields []string
}

// Default returns the production incident field registry.
func Default() Registry {
	textFields := []string{
		"incident_description",
		"resolution_steps",
		"root_cause",
		"service_impact",
	}

	vectorFields := make([]string, len(textFields))
	for i, f := range textFields {
		vectorFields[i] = f + core.VectorSuffix
	}

	return Registry{
		RequiredColumns: []string{
			"incident_id",
			"timestamp",
			"severity",
			"service_impact",
			"incident_description",
			"resolution_steps",
			"root_cause",
		},
		FieldsToEmbed: textFields,
		KeywordFields: textFields,
		VectorFields:  vectorFields,
	}
}
