package output

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestFormatRowsTable(t *testing.T) {
	out, err := FormatRows([]string{"id", "name"}, []Row{{"id": "1", "name": "Dreams"}}, "table")
	require.NoError(t, err)
	assert.Contains(t, out, "id")
	assert.Contains(t, out, "Dreams")
}

func TestFormatRowsCSV(t *testing.T) {
	out, err := FormatRows([]string{"id", "name"}, []Row{{"id": "1", "name": "Dreams"}}, "csv")
	require.NoError(t, err)
	assert.Contains(t, out, "id,name")
	assert.Contains(t, out, "1,Dreams")
}

func TestFormatRowsJSON(t *testing.T) {
	out, err := FormatRows([]string{"id"}, []Row{{"id": "1"}}, "json")
	require.NoError(t, err)
	assert.Contains(t, out, `"columns"`)
	assert.Contains(t, out, `"id": "1"`)
}

func TestFormatRowsUnknownFormat(t *testing.T) {
	_, err := FormatRows(nil, nil, "xml")
	assert.Error(t, err)
}
