package spreadsheet

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

func TestEncodeWritesHeaderAndRows(t *testing.T) {
	columns := []string{"reviewerName", "track", "authorEmail", "contactNumber"}
	rows := [][]string{
		{"Rhea", "AI", "a@x.io", "555-0101"},
		{"Coordinator override", "Systems", "b@x.io", ""},
	}

	data, err := Encode("Accepted", columns, rows)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	assert.Equal(t, []string{"Accepted"}, f.GetSheetList())

	got, err := f.GetRows("Accepted")
	require.NoError(t, err)
	require.Len(t, got, 3)
	assert.Equal(t, columns, got[0])
	assert.Equal(t, rows[0], got[1])
	require.GreaterOrEqual(t, len(got[2]), 3)
	assert.Equal(t, []string{"Coordinator override", "Systems", "b@x.io"}, got[2][:3])
}

func TestEncodeHeaderOnly(t *testing.T) {
	data, err := Encode("", []string{"a", "b"}, nil)
	require.NoError(t, err)

	f, err := excelize.OpenReader(bytes.NewReader(data))
	require.NoError(t, err)
	defer f.Close()

	got, err := f.GetRows(defaultSheet)
	require.NoError(t, err)
	assert.Equal(t, [][]string{{"a", "b"}}, got)
}
