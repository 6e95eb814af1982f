package service

import (
	"context"

	"backend/internal/model"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"
)

// AuditService exposes the trail of applied and requested mutations.
// Reading the trail is restricted to super-admins.
type AuditService interface {
	List(ctx context.Context, identity string, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error)
}

type auditService struct {
	repo   repository.AuditRepository
	access *policy.AccessPolicy
}

func NewAuditService(repo repository.AuditRepository, access *policy.AccessPolicy) AuditService {
	return &auditService{repo: repo, access: access}
}

func (s *auditService) List(ctx context.Context, identity string, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	if !s.access.IsSuperAdmin(policy.Normalize(identity)) {
		return nil, 0, apperrors.Clone(apperrors.ErrAuthorization, "audit trail requires super-admin access")
	}
	if page <= 0 {
		page = 1
	}
	if limit <= 0 || limit > 100 {
		limit = 20
	}
	filter.Actor = policy.Normalize(filter.Actor)
	return s.repo.List(ctx, filter, page, limit)
}
