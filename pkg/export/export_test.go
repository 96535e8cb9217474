package export

import (
	"bytes"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCSVExporterRender(t *testing.T) {
	out, err := NewCSVExporter().Render(Dataset{
		Title:   "ignored",
		Headers: []string{"Company", "Students"},
		Rows:    [][]string{{"Acme, Inc", "3"}, {"Globex"}},
	})
	require.NoError(t, err)
	assert.Equal(t, "Company,Students\n\"Acme, Inc\",3\nGlobex,\n", string(out))
}

func TestCSVExporterRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{})
	assert.Error(t, err)
}

func TestPDFExporterRender(t *testing.T) {
	rows := make([][]string, 0, 80)
	for i := 0; i < 80; i++ {
		rows = append(rows, []string{"Student", "MCA A", "Placed", "Acme", "Developer", "6 LPA", "CPCG"})
	}
	out, err := NewPDFExporter().Render(Dataset{
		Title:   "Students",
		Headers: []string{"Name", "Class", "Status", "Company", "Role", "Package", "Origin"},
		Rows:    rows,
	})
	require.NoError(t, err)
	assert.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestTruncate(t *testing.T) {
	assert.Equal(t, "short", truncate("short", 40))
	assert.Equal(t, "abcdefghi...", truncate("abcdefghijklmnop", 20))
}
