package repository

import (
	"context"
	"errors"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// ApprovalRepository is the CRUD surface over approval requests — the
// workflow's single source of truth for in-progress state.
//
// SetApproved and SetRejected are conditional on the current status still
// being pending, so the first terminal transition wins and any later one
// fails with ErrNotPending.
type ApprovalRepository interface {
	Create(ctx context.Context, req *model.ApprovalRequest) error
	FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error)
	ListPending(ctx context.Context) ([]model.ApprovalRequest, error)
	ListByRequester(ctx context.Context, identity string) ([]model.ApprovalRequest, error)
	SetApproved(ctx context.Context, id uuid.UUID, reviewer string, reviewedAt time.Time) error
	SetRejected(ctx context.Context, id uuid.UUID, reviewer string, reviewedAt time.Time, reason string) error
	SetExecutionError(ctx context.Context, id uuid.UUID, message string) error
	Remove(ctx context.Context, id uuid.UUID) error
}

type approvalRepository struct {
	db *gorm.DB
}

func NewApprovalRepository(db *gorm.DB) ApprovalRepository {
	return &approvalRepository{db: db}
}

func (r *approvalRepository) Create(ctx context.Context, req *model.ApprovalRequest) error {
	// The repository owns the initial state regardless of what the caller set.
	req.Status = model.ApprovalPending
	req.ReviewedBy = nil
	req.ReviewedAt = nil
	if err := GetDB(ctx, r.db).Create(req).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to create approval request")
	}
	return nil
}

func (r *approvalRepository) FindByID(ctx context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	var req model.ApprovalRequest
	if err := GetDB(ctx, r.db).First(&req, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperrors.Clone(apperrors.ErrNotFound, "approval request not found")
		}
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to load approval request")
	}
	return &req, nil
}

func (r *approvalRepository) ListPending(ctx context.Context) ([]model.ApprovalRequest, error) {
	var requests []model.ApprovalRequest
	if err := GetDB(ctx, r.db).
		Where("status = ?", model.ApprovalPending).
		Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to list pending requests")
	}
	return requests, nil
}

func (r *approvalRepository) ListByRequester(ctx context.Context, identity string) ([]model.ApprovalRequest, error) {
	var requests []model.ApprovalRequest
	if err := GetDB(ctx, r.db).
		Where("requested_by = ?", identity).
		Order("created_at DESC").
		Find(&requests).Error; err != nil {
		return nil, apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to list requests by requester")
	}
	return requests, nil
}

func (r *approvalRepository) SetApproved(ctx context.Context, id uuid.UUID, reviewer string, reviewedAt time.Time) error {
	return r.transition(ctx, id, map[string]interface{}{
		"status":      model.ApprovalApproved,
		"reviewed_by": reviewer,
		"reviewed_at": reviewedAt,
	})
}

func (r *approvalRepository) SetRejected(ctx context.Context, id uuid.UUID, reviewer string, reviewedAt time.Time, reason string) error {
	return r.transition(ctx, id, map[string]interface{}{
		"status":           model.ApprovalRejected,
		"reviewed_by":      reviewer,
		"reviewed_at":      reviewedAt,
		"rejection_reason": reason,
	})
}

// transition performs a terminal status change guarded on the row still
// being pending.
func (r *approvalRepository) transition(ctx context.Context, id uuid.UUID, updates map[string]interface{}) error {
	result := GetDB(ctx, r.db).
		Model(&model.ApprovalRequest{}).
		Where("id = ? AND status = ?", id, model.ApprovalPending).
		Updates(updates)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to update approval request")
	}
	if result.RowsAffected == 0 {
		if _, err := r.FindByID(ctx, id); err != nil {
			return err
		}
		return apperrors.Clone(apperrors.ErrNotPending, fmt.Sprintf("approval request %s is no longer pending", id))
	}
	return nil
}

func (r *approvalRepository) SetExecutionError(ctx context.Context, id uuid.UUID, message string) error {
	if err := GetDB(ctx, r.db).
		Model(&model.ApprovalRequest{}).
		Where("id = ?", id).
		Update("execution_error", message).Error; err != nil {
		return apperrors.Wrap(err, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to record execution error")
	}
	return nil
}

func (r *approvalRepository) Remove(ctx context.Context, id uuid.UUID) error {
	result := GetDB(ctx, r.db).Delete(&model.ApprovalRequest{}, "id = ?", id)
	if result.Error != nil {
		return apperrors.Wrap(result.Error, apperrors.ErrStore.Code, apperrors.ErrStore.Status, "failed to delete approval request")
	}
	if result.RowsAffected == 0 {
		return apperrors.Clone(apperrors.ErrNotFound, "approval request not found")
	}
	return nil
}
