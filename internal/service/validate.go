package service

import (
	"encoding/json"
	"fmt"
	"strconv"
	"time"

	"backend/internal/model"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// NormalizePayload validates a dynamic field set against a collection's
// schema and coerces values into their storage types. Unknown fields and
// malformed values are rejected before anything reaches the repository.
// With requireAll set, the collection's required fields must all be present
// (record creation); otherwise any subset is accepted (partial update).
func NormalizePayload(c model.Collection, fields map[string]interface{}, requireAll bool) (map[string]interface{}, error) {
	normalized := make(map[string]interface{}, len(fields))
	for name, raw := range fields {
		kind, ok := c.Fields[name]
		if !ok {
			return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("field %q is not part of collection %q", name, c.Name))
		}
		value, err := coerce(name, kind, raw)
		if err != nil {
			return nil, err
		}
		normalized[name] = value
	}

	if requireAll {
		for _, name := range c.Required {
			if _, ok := normalized[name]; !ok {
				return nil, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("field %q is required for collection %q", name, c.Name))
			}
		}
	}

	return normalized, nil
}

func coerce(name string, kind model.FieldKind, raw interface{}) (interface{}, error) {
	switch kind {
	case model.FieldString:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid(name, "must be a string")
		}
		return s, nil

	case model.FieldDecimal:
		switch v := raw.(type) {
		case string:
			d, err := decimal.NewFromString(v)
			if err != nil {
				return nil, invalid(name, "must be a numeric amount")
			}
			return d, nil
		case float64:
			return decimal.NewFromFloat(v), nil
		case json.Number:
			d, err := decimal.NewFromString(v.String())
			if err != nil {
				return nil, invalid(name, "must be a numeric amount")
			}
			return d, nil
		case int:
			return decimal.NewFromInt(int64(v)), nil
		case int64:
			return decimal.NewFromInt(v), nil
		case decimal.Decimal:
			return v, nil
		default:
			return nil, invalid(name, "must be a numeric amount")
		}

	case model.FieldDate:
		s, ok := raw.(string)
		if !ok {
			return nil, invalid(name, "must be a date string (YYYY-MM-DD)")
		}
		if _, err := time.Parse("2006-01-02", s); err != nil {
			return nil, invalid(name, "must be a date string (YYYY-MM-DD)")
		}
		return s, nil

	case model.FieldUUID:
		switch v := raw.(type) {
		case string:
			id, err := uuid.Parse(v)
			if err != nil {
				return nil, invalid(name, "must be a UUID")
			}
			return id, nil
		case uuid.UUID:
			return v, nil
		default:
			return nil, invalid(name, "must be a UUID")
		}

	default:
		return nil, invalid(name, "has an unsupported field kind "+strconv.Itoa(int(kind)))
	}
}

func invalid(field, message string) error {
	return apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("field %q %s", field, message))
}
