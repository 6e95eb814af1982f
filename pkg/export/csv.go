package export

import (
	"bytes"
	"encoding/csv"
	"fmt"
	"time"
)

// CSVExporter renders datasets into CSV bytes, mirroring the spreadsheet
// layout used by the PDF exporter (title, summary block, then the table).
type CSVExporter struct{}

func NewCSVExporter() *CSVExporter {
	return &CSVExporter{}
}

func (e *CSVExporter) Render(data Dataset) ([]byte, error) {
	if len(data.Headers) == 0 {
		return nil, fmt.Errorf("csv requires at least one header")
	}

	buf := &bytes.Buffer{}
	writer := csv.NewWriter(buf)

	records := [][]string{
		{data.Title},
		{"Generated: " + time.Now().Format("2006-01-02 15:04:05")},
		{},
	}
	if len(data.Summary) > 0 {
		records = append(records, []string{"Summary"})
		for _, line := range data.Summary {
			records = append(records, []string{line.Label, line.Value})
		}
		records = append(records, []string{})
	}
	records = append(records, data.Headers)
	records = append(records, data.Rows...)

	if err := writer.WriteAll(records); err != nil {
		return nil, fmt.Errorf("write csv: %w", err)
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		return nil, fmt.Errorf("flush csv: %w", err)
	}
	return buf.Bytes(), nil
}
