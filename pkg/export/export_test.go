package export

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"
)

func sampleDataset() Dataset {
	return Dataset{
		Title:   "Expenses Report",
		Headers: []string{"Date", "Amount", "Bill Number"},
		Rows: [][]string{
			{"2024-05-10", "80.00", "B-17"},
			{"2024-05-12", "12.50", "B-18"},
		},
		Summary: []SummaryLine{
			{Label: "Entries", Value: "2"},
			{Label: "Total Amount", Value: "92.50"},
		},
	}
}

func TestCSVRender(t *testing.T) {
	out, err := NewCSVExporter().Render(sampleDataset())
	require.NoError(t, err)

	content := string(out)
	require.True(t, strings.HasPrefix(content, "Expenses Report\n"))
	require.Contains(t, content, "Summary")
	require.Contains(t, content, "Total Amount,92.50")
	require.Contains(t, content, "Date,Amount,Bill Number")
	require.Contains(t, content, "2024-05-10,80.00,B-17")
}

func TestCSVRenderRequiresHeaders(t *testing.T) {
	_, err := NewCSVExporter().Render(Dataset{Title: "empty"})
	require.Error(t, err)
}

func TestPDFRender(t *testing.T) {
	out, err := NewPDFExporter().Render(sampleDataset())
	require.NoError(t, err)
	require.True(t, bytes.HasPrefix(out, []byte("%PDF")))
}

func TestPDFRenderRequiresHeaders(t *testing.T) {
	_, err := NewPDFExporter().Render(Dataset{Title: "empty"})
	require.Error(t, err)
}
