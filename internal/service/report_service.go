package service

import (
	"context"
	"fmt"
	"strings"

	"backend/internal/model"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"
	"backend/pkg/export"

	"github.com/shopspring/decimal"
)

const (
	FormatPDF = "pdf"
	FormatCSV = "csv"
)

// ReportRequest selects the collection, output format and an optional
// inclusive date range (YYYY-MM-DD strings, empty means unbounded).
type ReportRequest struct {
	Collection string
	Format     string
	FromDate   string
	ToDate     string
}

// Report is a rendered document ready to be streamed to the client.
type Report struct {
	FileName    string
	ContentType string
	Content     []byte
}

type ReportService interface {
	Generate(ctx context.Context, identity string, req ReportRequest) (*Report, error)
}

type reportService struct {
	store  repository.RecordStore
	access *policy.AccessPolicy
	pdf    *export.PDFExporter
	csv    *export.CSVExporter
}

func NewReportService(store repository.RecordStore, access *policy.AccessPolicy) ReportService {
	return &reportService{
		store:  store,
		access: access,
		pdf:    export.NewPDFExporter(),
		csv:    export.NewCSVExporter(),
	}
}

// reportColumns fixes the column order per collection; map iteration order
// would shuffle the table between runs.
var reportColumns = map[string][]string{
	"buying":   {"date", "object_type", "identifier", "supplier", "price", "description"},
	"selling":  {"date", "object_type", "identifier", "customer_name", "buying_price", "selling_price", "profit", "scope", "assist"},
	"revenue":  {"date", "country", "amount", "rate", "invoice_number", "assist"},
	"expenses": {"date", "amount", "bill_number", "assist"},
}

func (s *reportService) Generate(ctx context.Context, identity string, req ReportRequest) (*Report, error) {
	if !s.access.IsAuthorizedAdmin(policy.Normalize(identity)) {
		return nil, apperrors.Clone(apperrors.ErrAuthorization, "identity is not an authorized admin")
	}

	columns, ok := reportColumns[req.Collection]
	if !ok {
		return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("no report defined for collection %q", req.Collection))
	}
	c, _ := model.LookupCollection(req.Collection)

	rows, err := s.store.GetAll(ctx, req.Collection)
	if err != nil {
		return nil, err
	}

	totals := map[string]decimal.Decimal{}
	table := make([][]string, 0, len(rows))
	for _, row := range rows {
		date, _ := row["date"].(string)
		if req.FromDate != "" && date < req.FromDate {
			continue
		}
		if req.ToDate != "" && date > req.ToDate {
			continue
		}

		line := make([]string, 0, len(columns))
		for _, col := range columns {
			if c.Fields[col] == model.FieldDecimal {
				d := decimalField(row, col)
				totals[col] = totals[col].Add(d)
				line = append(line, d.StringFixed(2))
				continue
			}
			line = append(line, stringField(row, col))
		}
		table = append(table, line)
	}

	summary := []export.SummaryLine{{Label: "Entries", Value: fmt.Sprintf("%d", len(table))}}
	for _, col := range columns {
		if total, ok := totals[col]; ok {
			summary = append(summary, export.SummaryLine{
				Label: "Total " + columnTitle(col),
				Value: total.StringFixed(2),
			})
		}
	}

	dataset := export.Dataset{
		Title:   reportTitle(req),
		Headers: columnTitles(columns),
		Rows:    table,
		Summary: summary,
	}

	switch req.Format {
	case FormatPDF:
		content, err := s.pdf.Render(dataset)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "report rendering failed")
		}
		return &Report{
			FileName:    req.Collection + "_report.pdf",
			ContentType: "application/pdf",
			Content:     content,
		}, nil
	case FormatCSV:
		content, err := s.csv.Render(dataset)
		if err != nil {
			return nil, apperrors.Wrap(err, apperrors.ErrInternal.Code, apperrors.ErrInternal.Status, "report rendering failed")
		}
		return &Report{
			FileName:    req.Collection + "_report.csv",
			ContentType: "text/csv",
			Content:     content,
		}, nil
	default:
		return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unsupported report format %q", req.Format))
	}
}

func reportTitle(req ReportRequest) string {
	title := columnTitle(req.Collection) + " Report"
	if req.FromDate != "" || req.ToDate != "" {
		from := req.FromDate
		if from == "" {
			from = "start"
		}
		to := req.ToDate
		if to == "" {
			to = "today"
		}
		title += fmt.Sprintf(" (%s to %s)", from, to)
	}
	return title
}

func columnTitles(columns []string) []string {
	out := make([]string, 0, len(columns))
	for _, col := range columns {
		out = append(out, columnTitle(col))
	}
	return out
}

func columnTitle(col string) string {
	words := strings.Split(col, "_")
	for i, w := range words {
		if w != "" {
			words[i] = strings.ToUpper(w[:1]) + w[1:]
		}
	}
	return strings.Join(words, " ")
}

func stringField(row map[string]interface{}, key string) string {
	switch v := row[key].(type) {
	case nil:
		return ""
	case string:
		return v
	case []byte:
		return string(v)
	default:
		return fmt.Sprintf("%v", v)
	}
}
