package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/policy"
	"backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func newDashboardService(t *testing.T) (DashboardService, *memRecordStore) {
	t.Helper()
	access := policy.New(config.AccessConfig{AdminEmails: []string{staffEmail}})
	store := newMemRecordStore()
	return NewDashboardService(store, access, nil, 0, zap.NewNop()), store
}

func TestDashboardSummaryTotals(t *testing.T) {
	svc, store := newDashboardService(t)

	store.seed("buying", map[string]interface{}{"date": "2024-04-02", "price": "1000.00"})
	store.seed("buying", map[string]interface{}{"date": "2024-05-02", "price": "500.00"})
	store.seed("selling", map[string]interface{}{"date": "2024-05-07", "selling_price": "2000.00", "profit": "400.00"})
	store.seed("revenue", map[string]interface{}{"date": "2024-05-10", "amount": "3000.00"})
	store.seed("expenses", map[string]interface{}{"date": "2024-04-11", "amount": "250.00"})

	summary, err := svc.Summary(context.Background(), staffEmail)
	require.NoError(t, err)

	require.Equal(t, "1500", summary.TotalBuying.String())
	require.Equal(t, "2000", summary.TotalSelling.String())
	require.Equal(t, "400", summary.TotalProfit.String())
	require.Equal(t, "3000", summary.TotalRevenue.String())
	require.Equal(t, "250", summary.TotalExpenses.String())
	// revenue + profit - buying - expenses
	require.Equal(t, "1650", summary.Balance.String())

	require.Len(t, summary.Monthly, 2)
	require.Equal(t, "2024-04", summary.Monthly[0].Month)
	require.Equal(t, "2024-05", summary.Monthly[1].Month)
	require.Equal(t, "1000", summary.Monthly[0].Buying.String())
	require.Equal(t, "250", summary.Monthly[0].Expenses.String())
	require.Equal(t, "3000", summary.Monthly[1].Revenue.String())
}

func TestDashboardSummaryRequiresAdmin(t *testing.T) {
	svc, _ := newDashboardService(t)

	_, err := svc.Summary(context.Background(), unknownEmail)
	require.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestDashboardSummaryEmptyStore(t *testing.T) {
	svc, _ := newDashboardService(t)

	summary, err := svc.Summary(context.Background(), staffEmail)
	require.NoError(t, err)
	require.True(t, summary.Balance.IsZero())
	require.Empty(t, summary.Monthly)
}
