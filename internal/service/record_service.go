package service

import (
	"context"
	"fmt"

	"backend/internal/model"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
)

// RecordService exposes CRUD over the protected transaction collections.
// Creation writes the record store directly (matching how new entries are
// born); updates and deletes always go through the approval workflow
// engine, which decides between direct application and deferral.
type RecordService interface {
	List(ctx context.Context, identity, collection string) ([]map[string]interface{}, error)
	ListByCustomer(ctx context.Context, identity, collection string, customerID uuid.UUID) ([]map[string]interface{}, error)
	Get(ctx context.Context, identity, collection string, id uuid.UUID) (map[string]interface{}, error)
	Create(ctx context.Context, identity, collection string, fields map[string]interface{}) (uuid.UUID, error)
	Update(ctx context.Context, identity, collection string, id uuid.UUID, fields map[string]interface{}) (MutationResult, error)
	Delete(ctx context.Context, identity, collection string, id uuid.UUID) (MutationResult, error)
}

type recordService struct {
	store        repository.RecordStore
	engine       ApprovalService
	auditRepo    repository.AuditRepository
	access       *policy.AccessPolicy
	summaryCache SummaryCache
}

// NewRecordService wires record CRUD. summaryCache may be nil.
func NewRecordService(
	store repository.RecordStore,
	engine ApprovalService,
	auditRepo repository.AuditRepository,
	access *policy.AccessPolicy,
	summaryCache SummaryCache,
) RecordService {
	return &recordService{
		store:        store,
		engine:       engine,
		auditRepo:    auditRepo,
		access:       access,
		summaryCache: summaryCache,
	}
}

func (s *recordService) resolve(identity, collection string) (model.Collection, string, error) {
	normalized := policy.Normalize(identity)
	if !s.access.IsAuthorizedAdmin(normalized) {
		return model.Collection{}, "", apperrors.Clone(apperrors.ErrAuthorization, "identity is not an authorized admin")
	}
	c, ok := model.LookupCollection(collection)
	if !ok {
		return model.Collection{}, "", apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unknown collection %q", collection))
	}
	if c.Name == "customers" {
		return model.Collection{}, "", apperrors.Clone(apperrors.ErrValidation, "customers are managed through the customer API")
	}
	return c, normalized, nil
}

func (s *recordService) List(ctx context.Context, identity, collection string) ([]map[string]interface{}, error) {
	c, _, err := s.resolve(identity, collection)
	if err != nil {
		return nil, err
	}
	return s.store.GetAll(ctx, c.Name)
}

func (s *recordService) ListByCustomer(ctx context.Context, identity, collection string, customerID uuid.UUID) ([]map[string]interface{}, error) {
	c, _, err := s.resolve(identity, collection)
	if err != nil {
		return nil, err
	}
	return s.store.QueryEquals(ctx, c.Name, "customer_id", customerID)
}

func (s *recordService) Get(ctx context.Context, identity, collection string, id uuid.UUID) (map[string]interface{}, error) {
	c, _, err := s.resolve(identity, collection)
	if err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, c.Name, id)
}

func (s *recordService) Create(ctx context.Context, identity, collection string, fields map[string]interface{}) (uuid.UUID, error) {
	c, normalized, err := s.resolve(identity, collection)
	if err != nil {
		return uuid.Nil, err
	}
	payload, err := NormalizePayload(c, fields, true)
	if err != nil {
		return uuid.Nil, err
	}
	deriveProfit(c.Name, payload)

	id, err := s.store.Insert(ctx, c.Name, payload)
	if err != nil {
		return uuid.Nil, err
	}
	if s.summaryCache != nil {
		s.summaryCache.Invalidate(ctx)
	}

	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		Actor:      normalized,
		Action:     model.ActionCreateRecord,
		Collection: c.Name,
		EntityID:   id.String(),
		Details:    marshalJSON(map[string]interface{}{"fields": len(payload)}),
	})
	return id, nil
}

func (s *recordService) Update(ctx context.Context, identity, collection string, id uuid.UUID, fields map[string]interface{}) (MutationResult, error) {
	c, _, err := s.resolve(identity, collection)
	if err != nil {
		return MutationResult{}, err
	}
	deriveProfitFromRaw(c.Name, fields)
	return s.engine.SubmitMutation(ctx, identity, SubmitMutationInput{
		Action:     model.ActionUpdate,
		Collection: c.Name,
		ItemID:     id,
		UpdateData: fields,
	})
}

func (s *recordService) Delete(ctx context.Context, identity, collection string, id uuid.UUID) (MutationResult, error) {
	c, _, err := s.resolve(identity, collection)
	if err != nil {
		return MutationResult{}, err
	}
	return s.engine.SubmitMutation(ctx, identity, SubmitMutationInput{
		Action:     model.ActionDelete,
		Collection: c.Name,
		ItemID:     id,
	})
}

// deriveProfit fills the profit column for selling records when the caller
// did not provide one.
func deriveProfit(collection string, payload map[string]interface{}) {
	if collection != "selling" && collection != "customer_selling" {
		return
	}
	if _, ok := payload["profit"]; ok {
		return
	}
	sellingPrice, okSell := payload["selling_price"].(decimal.Decimal)
	buyingPrice, okBuy := payload["buying_price"].(decimal.Decimal)
	if okSell && okBuy {
		payload["profit"] = sellingPrice.Sub(buyingPrice)
	}
}

// deriveProfitFromRaw recomputes profit on updates that touch both price
// fields but leave profit out; the values are still raw JSON types here.
func deriveProfitFromRaw(collection string, fields map[string]interface{}) {
	if collection != "selling" && collection != "customer_selling" {
		return
	}
	if _, ok := fields["profit"]; ok {
		return
	}
	sell, okSell := toDecimal(fields["selling_price"])
	buy, okBuy := toDecimal(fields["buying_price"])
	if okSell && okBuy {
		fields["profit"] = sell.Sub(buy).String()
	}
}

func toDecimal(raw interface{}) (decimal.Decimal, bool) {
	switch v := raw.(type) {
	case string:
		d, err := decimal.NewFromString(v)
		return d, err == nil
	case float64:
		return decimal.NewFromFloat(v), true
	case decimal.Decimal:
		return v, true
	default:
		return decimal.Decimal{}, false
	}
}
