package schema

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestDefault(t *testing.T) {
	reg := Default()

	assert.Len(t, reg.RequiredColumns, 7)
	assert.Contains(t, reg.RequiredColumns, "incident_id")
	assert.Contains(t, reg.RequiredColumns, "timestamp")

	// Every embed field has a matching vector search field.
	assert.Len(t, reg.VectorFields, len(reg.FieldsToEmbed))
	for i, f := range reg.FieldsToEmbed {
		assert.Equal(t, f+"_vector", reg.VectorFields[i])
	}

	// Keyword search covers the same text fields we embed.
	assert.Equal(t, reg.FieldsToEmbed, reg.KeywordFields)
}
