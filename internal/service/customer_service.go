package service

import (
	"context"
	"strings"

	"backend/internal/model"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
)

// CustomerService manages the customer directory. Unlike the transaction
// ledgers, customer creation and deletion are applied directly for anyone
// on the customer-manager list; the approval workflow is not involved.
// Deleting a customer intentionally leaves its scoped transaction records
// in place.
type CustomerService interface {
	List(ctx context.Context, identity string) ([]map[string]interface{}, error)
	Get(ctx context.Context, identity string, id uuid.UUID) (map[string]interface{}, error)
	Create(ctx context.Context, identity, name string) (uuid.UUID, error)
	Delete(ctx context.Context, identity string, id uuid.UUID) error
}

type customerService struct {
	store     repository.RecordStore
	auditRepo repository.AuditRepository
	access    *policy.AccessPolicy
}

func NewCustomerService(
	store repository.RecordStore,
	auditRepo repository.AuditRepository,
	access *policy.AccessPolicy,
) CustomerService {
	return &customerService{store: store, auditRepo: auditRepo, access: access}
}

func (s *customerService) authorize(identity string) (string, error) {
	normalized := policy.Normalize(identity)
	if !s.access.CanManageCustomers(normalized) {
		return "", apperrors.Clone(apperrors.ErrAuthorization, "identity is not allowed to manage customers")
	}
	return normalized, nil
}

func (s *customerService) List(ctx context.Context, identity string) ([]map[string]interface{}, error) {
	if _, err := s.authorize(identity); err != nil {
		return nil, err
	}
	return s.store.GetAll(ctx, "customers")
}

func (s *customerService) Get(ctx context.Context, identity string, id uuid.UUID) (map[string]interface{}, error) {
	if _, err := s.authorize(identity); err != nil {
		return nil, err
	}
	return s.store.GetByID(ctx, "customers", id)
}

func (s *customerService) Create(ctx context.Context, identity, name string) (uuid.UUID, error) {
	normalized, err := s.authorize(identity)
	if err != nil {
		return uuid.Nil, err
	}
	name = strings.TrimSpace(name)
	if name == "" {
		return uuid.Nil, apperrors.Clone(apperrors.ErrValidation, "customer name is required")
	}

	id, err := s.store.Insert(ctx, "customers", map[string]interface{}{
		"name":         name,
		"created_by":   normalized,
		"creator_name": creatorName(normalized),
	})
	if err != nil {
		return uuid.Nil, err
	}

	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		Actor:      normalized,
		Action:     model.ActionCreateCustomer,
		Collection: "customers",
		EntityID:   id.String(),
		Details:    marshalJSON(map[string]interface{}{"name": name}),
	})
	return id, nil
}

func (s *customerService) Delete(ctx context.Context, identity string, id uuid.UUID) error {
	normalized, err := s.authorize(identity)
	if err != nil {
		return err
	}
	// Existence check first so a missing customer reads as not-found
	// rather than a silent no-op delete.
	if _, err := s.store.GetByID(ctx, "customers", id); err != nil {
		return err
	}
	if err := s.store.DeleteByID(ctx, "customers", id); err != nil {
		return err
	}

	_ = s.auditRepo.Log(ctx, &model.AuditLog{
		Actor:      normalized,
		Action:     model.ActionDeleteCustomer,
		Collection: "customers",
		EntityID:   id.String(),
	})
	return nil
}

// creatorName derives a display name from the identity: the local part of
// the email with separators turned into spaces and words capitalized.
func creatorName(identity string) string {
	local := identity
	if at := strings.Index(identity, "@"); at > 0 {
		local = identity[:at]
	}
	local = strings.NewReplacer(".", " ", "_", " ", "-", " ").Replace(local)
	words := strings.Fields(local)
	for i, w := range words {
		words[i] = strings.ToUpper(w[:1]) + w[1:]
	}
	return strings.Join(words, " ")
}
