package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"github.com/xuri/excelize/v2"
)

var (
	testHeader = []string{"Employee ID", "Name", "Status"}
	testRows   = [][]string{
		{"EMP001", "Ada Lovelace", "present"},
		{"EMP002", "Smith, John", "late"},
	}
)

func TestWriteCSV(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testHeader, testRows))

	want := "Employee ID,Name,Status\n" +
		"EMP001,Ada Lovelace,present\n" +
		"EMP002,\"Smith, John\",late\n"
	assert.Equal(t, want, buf.String())
}

func TestWriteCSV_HeaderOnly(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteCSV(&buf, testHeader, nil))
	assert.Equal(t, "Employee ID,Name,Status\n", buf.String())
}

func TestWriteXLSX(t *testing.T) {
	var buf bytes.Buffer
	require.NoError(t, WriteXLSX(&buf, "Attendance", testHeader, testRows))

	f, err := excelize.OpenReader(&buf)
	require.NoError(t, err)
	defer f.Close()

	rows, err := f.GetRows("Attendance")
	require.NoError(t, err)
	require.Len(t, rows, 3)
	assert.Equal(t, testHeader, rows[0])
	assert.Equal(t, testRows[1], rows[2])
}
