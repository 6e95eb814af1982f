package service

import (
	"context"
	"fmt"
	"testing"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/policy"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

type recordFixture struct {
	service RecordService
	engine  *engineFixture
	audit   *memAuditRepo
	store   *memRecordStore
}

func newRecordFixture(t *testing.T) *recordFixture {
	t.Helper()
	engine := newEngineFixture(t)
	access := policy.New(config.AccessConfig{
		AdminEmails:      []string{staffEmail, secondEmail},
		SuperAdminEmails: []string{ownerEmail},
	})
	audit := &memAuditRepo{}
	return &recordFixture{
		service: NewRecordService(engine.store, engine.service, audit, access, engine.cache),
		engine:  engine,
		audit:   audit,
		store:   engine.store,
	}
}

func TestRecordCreateValidatesAndApplies(t *testing.T) {
	f := newRecordFixture(t)

	id, err := f.service.Create(context.Background(), staffEmail, "expenses", map[string]interface{}{
		"date":   "2024-05-12",
		"amount": "75.25",
	})
	require.NoError(t, err)
	require.NotEqual(t, uuid.Nil, id)

	row, err := f.store.GetByID(context.Background(), "expenses", id)
	require.NoError(t, err)
	require.Equal(t, "75.25", fmt.Sprintf("%v", row["amount"]))
	require.Equal(t, int64(1), row["version"])
	require.Contains(t, f.audit.actions(), model.ActionCreateRecord)

	// A new entry changes the totals, so the cached summary must be dropped.
	require.Equal(t, 1, f.engine.cache.count())
}

func TestRecordCreateRejectsIncompletePayload(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.service.Create(context.Background(), staffEmail, "expenses", map[string]interface{}{
		"amount": "75.25",
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecordCreateRequiresAdmin(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.service.Create(context.Background(), unknownEmail, "expenses", map[string]interface{}{
		"date":   "2024-05-12",
		"amount": "75.25",
	})
	require.ErrorIs(t, err, apperrors.ErrAuthorization)
}

func TestRecordCreateDerivesSellingProfit(t *testing.T) {
	f := newRecordFixture(t)

	id, err := f.service.Create(context.Background(), staffEmail, "selling", map[string]interface{}{
		"date":          "2024-05-12",
		"object_type":   "vehicle",
		"identifier":    "CAR-77",
		"buying_price":  "100000",
		"selling_price": "125000",
	})
	require.NoError(t, err)

	row, err := f.store.GetByID(context.Background(), "selling", id)
	require.NoError(t, err)
	require.Equal(t, "25000", fmt.Sprintf("%v", row["profit"]))
}

func TestRecordUpdateRoutesThroughWorkflow(t *testing.T) {
	f := newRecordFixture(t)
	itemID := seedRevenue(f.engine)

	// A plain admin gets a deferred request back.
	result, err := f.service.Update(context.Background(), staffEmail, "revenue", itemID, map[string]interface{}{
		"amount": "640",
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeDeferred, result.Outcome)
	require.Zero(t, f.store.updateCalls)

	// A super-admin sees the change applied immediately.
	result, err = f.service.Update(context.Background(), ownerEmail, "revenue", itemID, map[string]interface{}{
		"amount": "640",
	})
	require.NoError(t, err)
	require.Equal(t, OutcomeApplied, result.Outcome)
	require.Equal(t, 1, f.store.updateCalls)
}

func TestRecordDeleteRoutesThroughWorkflow(t *testing.T) {
	f := newRecordFixture(t)
	itemID := seedBuying(f.engine)

	result, err := f.service.Delete(context.Background(), secondEmail, "buying", itemID)
	require.NoError(t, err)
	require.Equal(t, OutcomeDeferred, result.Outcome)

	_, err = f.store.GetByID(context.Background(), "buying", itemID)
	require.NoError(t, err)
}

func TestRecordServiceExcludesCustomersCollection(t *testing.T) {
	f := newRecordFixture(t)

	_, err := f.service.Create(context.Background(), staffEmail, "customers", map[string]interface{}{
		"name": "Perera Motors",
	})
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = f.service.List(context.Background(), staffEmail, "customers")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestRecordListByCustomer(t *testing.T) {
	f := newRecordFixture(t)
	customerID := uuid.New()

	_, err := f.service.Create(context.Background(), staffEmail, "customer_expenses", map[string]interface{}{
		"date":        "2024-05-12",
		"amount":      "10.00",
		"customer_id": customerID.String(),
	})
	require.NoError(t, err)
	_, err = f.service.Create(context.Background(), staffEmail, "customer_expenses", map[string]interface{}{
		"date":        "2024-05-13",
		"amount":      "20.00",
		"customer_id": uuid.New().String(),
	})
	require.NoError(t, err)

	rows, err := f.service.ListByCustomer(context.Background(), staffEmail, "customer_expenses", customerID)
	require.NoError(t, err)
	require.Len(t, rows, 1)
}
