package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/policy"
	"backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
)

func newReportService(t *testing.T) (ReportService, *memRecordStore) {
	t.Helper()
	access := policy.New(config.AccessConfig{AdminEmails: []string{staffEmail}})
	store := newMemRecordStore()
	return NewReportService(store, access), store
}

func TestReportGenerateCSV(t *testing.T) {
	svc, store := newReportService(t)
	store.seed("expenses", map[string]interface{}{"date": "2024-05-10", "amount": "80.00", "bill_number": "B-17"})
	store.seed("expenses", map[string]interface{}{"date": "2024-05-12", "amount": "12.50", "bill_number": "B-18"})

	report, err := svc.Generate(context.Background(), staffEmail, ReportRequest{
		Collection: "expenses",
		Format:     FormatCSV,
	})
	require.NoError(t, err)
	require.Equal(t, "expenses_report.csv", report.FileName)
	require.Equal(t, "text/csv", report.ContentType)

	content := string(report.Content)
	require.Contains(t, content, "Expenses Report")
	require.Contains(t, content, "Total Amount,92.50")
	require.Contains(t, content, "2024-05-10,80.00,B-17")
}

func TestReportDateRangeFilter(t *testing.T) {
	svc, store := newReportService(t)
	store.seed("expenses", map[string]interface{}{"date": "2024-04-10", "amount": "80.00"})
	store.seed("expenses", map[string]interface{}{"date": "2024-05-12", "amount": "12.50"})

	report, err := svc.Generate(context.Background(), staffEmail, ReportRequest{
		Collection: "expenses",
		Format:     FormatCSV,
		FromDate:   "2024-05-01",
	})
	require.NoError(t, err)

	content := string(report.Content)
	require.Contains(t, content, "Entries,1")
	require.Contains(t, content, "Total Amount,12.50")
	require.NotContains(t, content, "2024-04-10")
}

func TestReportPDF(t *testing.T) {
	svc, store := newReportService(t)
	store.seed("buying", map[string]interface{}{
		"date": "2024-05-02", "object_type": "vehicle", "identifier": "CAR-1184", "price": "4500000.00",
	})

	report, err := svc.Generate(context.Background(), staffEmail, ReportRequest{
		Collection: "buying",
		Format:     FormatPDF,
	})
	require.NoError(t, err)
	require.Equal(t, "application/pdf", report.ContentType)
	require.NotEmpty(t, report.Content)
}

func TestReportRejectsUnknownInput(t *testing.T) {
	svc, _ := newReportService(t)

	_, err := svc.Generate(context.Background(), staffEmail, ReportRequest{Collection: "customers", Format: FormatCSV})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Generate(context.Background(), staffEmail, ReportRequest{Collection: "expenses", Format: "xlsx"})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = svc.Generate(context.Background(), unknownEmail, ReportRequest{Collection: "expenses", Format: FormatCSV})
	require.ErrorIs(t, err, apperrors.ErrAuthorization)
}
