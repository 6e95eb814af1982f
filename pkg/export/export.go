package export

// Dataset is the tabular content handed to the report renderers. Summary
// holds label/value pairs printed above the table (totals, counts).
type Dataset struct {
	Title   string
	Headers []string
	Rows    [][]string
	Summary []SummaryLine
}

type SummaryLine struct {
	Label string
	Value string
}
