package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/policy"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
)

func newCustomerService(t *testing.T) (CustomerService, *memRecordStore, *memAuditRepo) {
	t.Helper()
	access := policy.New(config.AccessConfig{
		AdminEmails:           []string{staffEmail},
		SuperAdminEmails:      []string{ownerEmail},
		CustomerManagerEmails: []string{secondEmail},
	})
	store := newMemRecordStore()
	audit := &memAuditRepo{}
	return NewCustomerService(store, audit, access), store, audit
}

func TestCustomerCreate(t *testing.T) {
	svc, store, audit := newCustomerService(t)

	id, err := svc.Create(context.Background(), secondEmail, "  Perera Motors ")
	require.NoError(t, err)

	row, err := store.GetByID(context.Background(), "customers", id)
	require.NoError(t, err)
	require.Equal(t, "Perera Motors", row["name"])
	require.Equal(t, secondEmail, row["created_by"])
	require.Equal(t, "Dilshan", row["creator_name"])
	require.Contains(t, audit.actions(), model.ActionCreateCustomer)
}

func TestCustomerCreateRequiresManager(t *testing.T) {
	svc, _, _ := newCustomerService(t)

	// Plain admins are not customer managers.
	_, err := svc.Create(context.Background(), staffEmail, "Perera Motors")
	require.ErrorIs(t, err, apperrors.ErrAuthorization)

	// Super-admins implicitly are.
	_, err = svc.Create(context.Background(), ownerEmail, "Perera Motors")
	require.NoError(t, err)
}

func TestCustomerCreateRejectsBlankName(t *testing.T) {
	svc, _, _ := newCustomerService(t)

	_, err := svc.Create(context.Background(), secondEmail, "   ")
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestCustomerDeleteKeepsScopedRecords(t *testing.T) {
	svc, store, audit := newCustomerService(t)

	id, err := svc.Create(context.Background(), secondEmail, "Perera Motors")
	require.NoError(t, err)

	// A transaction scoped to the customer.
	store.seed("customer_expenses", map[string]interface{}{
		"date":        "2024-05-12",
		"amount":      "10.00",
		"customer_id": id.String(),
	})

	require.NoError(t, svc.Delete(context.Background(), secondEmail, id))

	_, err = store.GetByID(context.Background(), "customers", id)
	require.ErrorIs(t, err, apperrors.ErrNotFound)

	scoped, err := store.QueryEquals(context.Background(), "customer_expenses", "customer_id", id)
	require.NoError(t, err)
	require.Len(t, scoped, 1)
	require.Contains(t, audit.actions(), model.ActionDeleteCustomer)
}

func TestCustomerDeleteMissing(t *testing.T) {
	svc, _, _ := newCustomerService(t)

	err := svc.Delete(context.Background(), secondEmail, uuid.New())
	require.ErrorIs(t, err, apperrors.ErrNotFound)
}
