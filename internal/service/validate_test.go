package service

import (
	"testing"

	"backend/internal/model"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
)

func TestNormalizePayloadCoercesTypes(t *testing.T) {
	c, ok := model.LookupCollection("revenue")
	require.True(t, ok)

	out, err := NormalizePayload(c, map[string]interface{}{
		"country": "Japan",
		"amount":  "1250.50",
		"rate":    296.75,
		"date":    "2024-05-10",
	}, false)
	require.NoError(t, err)

	require.Equal(t, "Japan", out["country"])
	require.True(t, out["amount"].(decimal.Decimal).Equal(decimal.RequireFromString("1250.50")))
	require.True(t, out["rate"].(decimal.Decimal).Equal(decimal.RequireFromString("296.75")))
	require.Equal(t, "2024-05-10", out["date"])
}

func TestNormalizePayloadRejectsUnknownField(t *testing.T) {
	c, _ := model.LookupCollection("expenses")

	_, err := NormalizePayload(c, map[string]interface{}{"vendor": "x"}, false)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}

func TestNormalizePayloadRejectsBadValues(t *testing.T) {
	c, _ := model.LookupCollection("expenses")

	cases := map[string]map[string]interface{}{
		"non-numeric amount": {"amount": "a lot"},
		"bool amount":        {"amount": true},
		"malformed date":     {"date": "10/05/2024"},
		"numeric date":       {"date": 20240510},
	}
	for name, fields := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := NormalizePayload(c, fields, false)
			require.ErrorIs(t, err, apperrors.ErrValidation)
		})
	}
}

func TestNormalizePayloadRequiredFields(t *testing.T) {
	c, _ := model.LookupCollection("expenses")

	// Partial updates accept any schema subset.
	_, err := NormalizePayload(c, map[string]interface{}{"bill_number": "B-17"}, false)
	require.NoError(t, err)

	// Creation demands the required set.
	_, err = NormalizePayload(c, map[string]interface{}{"bill_number": "B-17"}, true)
	require.ErrorIs(t, err, apperrors.ErrValidation)

	_, err = NormalizePayload(c, map[string]interface{}{
		"date":   "2024-05-10",
		"amount": "80.00",
	}, true)
	require.NoError(t, err)
}

func TestNormalizePayloadCustomerScope(t *testing.T) {
	c, ok := model.LookupCollection("customer_expenses")
	require.True(t, ok)

	customerID := uuid.New()
	out, err := NormalizePayload(c, map[string]interface{}{
		"date":        "2024-05-10",
		"amount":      "80.00",
		"customer_id": customerID.String(),
	}, true)
	require.NoError(t, err)
	require.Equal(t, customerID, out["customer_id"])

	_, err = NormalizePayload(c, map[string]interface{}{
		"date":        "2024-05-10",
		"amount":      "80.00",
		"customer_id": "not-a-uuid",
	}, true)
	require.ErrorIs(t, err, apperrors.ErrValidation)
}
