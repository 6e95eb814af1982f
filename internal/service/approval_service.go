package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"backend/internal/model"
	"backend/internal/notify"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
)

// MutationOutcome says what happened to a submitted mutation.
type MutationOutcome string

const (
	// OutcomeApplied means the mutation hit the record store directly
	// (super-admin path).
	OutcomeApplied MutationOutcome = "applied"
	// OutcomeDeferred means a pending approval request was created instead.
	OutcomeDeferred MutationOutcome = "deferred"
)

// SubmitMutationInput describes one mutation attempt on a protected record.
type SubmitMutationInput struct {
	Action     string                 `json:"action" binding:"required,oneof=update delete"`
	Collection string                 `json:"collection" binding:"required"`
	ItemID     uuid.UUID              `json:"item_id" binding:"required"`
	UpdateData map[string]interface{} `json:"update_data"`
}

// MutationResult is the engine's answer to SubmitMutation.
type MutationResult struct {
	Outcome   MutationOutcome        `json:"outcome"`
	RequestID *uuid.UUID             `json:"request_id,omitempty"`
	Request   *model.ApprovalRequest `json:"request,omitempty"`
}

// ReviewResult is the engine's answer to Approve and RetryExecution.
// ExecutionFailed marks the accepted gap where the request is approved but
// the deferred mutation could not be applied; the failure is recorded on
// the request and retryable, never silently swallowed.
type ReviewResult struct {
	Request         *model.ApprovalRequest `json:"request"`
	ExecutionFailed bool                   `json:"execution_failed"`
	ExecutionError  string                 `json:"execution_error,omitempty"`
}

// ApprovalService is the approval workflow engine. It decides, per mutation
// attempt, between direct application and deferral, and later executes
// approved requests against the record store.
type ApprovalService interface {
	SubmitMutation(ctx context.Context, identity string, in SubmitMutationInput) (MutationResult, error)
	Approve(ctx context.Context, requestID uuid.UUID, reviewer string) (ReviewResult, error)
	Reject(ctx context.Context, requestID uuid.UUID, reviewer, reason string) (*model.ApprovalRequest, error)
	RetryExecution(ctx context.Context, requestID uuid.UUID, reviewer string) (ReviewResult, error)
	ClearRequest(ctx context.Context, identity string, requestID uuid.UUID) error
	ListPending(ctx context.Context, identity string) ([]model.ApprovalRequest, error)
	ListMyRequests(ctx context.Context, identity string) ([]model.ApprovalRequest, error)
}

type approvalService struct {
	approvalRepo repository.ApprovalRepository
	store        repository.RecordStore
	auditRepo    repository.AuditRepository
	txManager    repository.TransactionManager
	access       *policy.AccessPolicy
	notifier     notify.Notifier
	summaryCache SummaryCache
}

// NewApprovalService wires the workflow engine. notifier and summaryCache
// may be nil.
func NewApprovalService(
	approvalRepo repository.ApprovalRepository,
	store repository.RecordStore,
	auditRepo repository.AuditRepository,
	txManager repository.TransactionManager,
	access *policy.AccessPolicy,
	notifier notify.Notifier,
	summaryCache SummaryCache,
) ApprovalService {
	if notifier == nil {
		notifier = notify.NopNotifier{}
	}
	return &approvalService{
		approvalRepo: approvalRepo,
		store:        store,
		auditRepo:    auditRepo,
		txManager:    txManager,
		access:       access,
		notifier:     notifier,
		summaryCache: summaryCache,
	}
}

func (s *approvalService) SubmitMutation(ctx context.Context, identity string, in SubmitMutationInput) (MutationResult, error) {
	identity = policy.Normalize(identity)
	if !s.access.IsAuthorizedAdmin(identity) {
		return MutationResult{}, apperrors.Clone(apperrors.ErrAuthorization, "identity is not an authorized admin")
	}
	if in.Action != model.ActionUpdate && in.Action != model.ActionDelete {
		return MutationResult{}, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unsupported action %q", in.Action))
	}
	collection, ok := model.LookupCollection(in.Collection)
	if !ok {
		return MutationResult{}, apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unknown collection %q", in.Collection))
	}

	var updateData map[string]interface{}
	if in.Action == model.ActionUpdate {
		normalized, err := NormalizePayload(collection, in.UpdateData, false)
		if err != nil {
			return MutationResult{}, err
		}
		if len(normalized) == 0 {
			return MutationResult{}, apperrors.Clone(apperrors.ErrValidation, "update requires at least one field")
		}
		updateData = normalized
	} else if len(in.UpdateData) > 0 {
		return MutationResult{}, apperrors.Clone(apperrors.ErrValidation, "delete must not carry update data")
	}

	// The target must exist at request time; the snapshot gives reviewers
	// context and carries the version the conflict check is keyed on.
	snapshot, err := s.store.GetByID(ctx, collection.Name, in.ItemID)
	if err != nil {
		return MutationResult{}, err
	}

	if s.access.IsSuperAdmin(identity) {
		if err := s.apply(ctx, in.Action, collection.Name, in.ItemID, updateData, versionOf(snapshot)); err != nil {
			return MutationResult{}, err
		}
		_ = s.audit(ctx, identity, model.ActionDirectApply, collection.Name, in.ItemID.String(), map[string]interface{}{
			"action": in.Action,
		})
		return MutationResult{Outcome: OutcomeApplied}, nil
	}

	req := &model.ApprovalRequest{
		Action:      in.Action,
		Collection:  collection.Name,
		ItemID:      in.ItemID,
		ItemDetails: marshalJSON(snapshot),
		RequestedBy: identity,
	}
	if updateData != nil {
		req.UpdateData = marshalJSON(updateData)
	}

	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.approvalRepo.Create(txCtx, req); err != nil {
			return err
		}
		return s.audit(txCtx, identity, model.ActionCreateApprovalRequest, collection.Name, in.ItemID.String(), map[string]interface{}{
			"action":     in.Action,
			"request_id": req.ID.String(),
		})
	})
	if err != nil {
		return MutationResult{}, err
	}

	s.notifier.RequestCreated(ctx, req)

	id := req.ID
	return MutationResult{Outcome: OutcomeDeferred, RequestID: &id, Request: req}, nil
}

func (s *approvalService) Approve(ctx context.Context, requestID uuid.UUID, reviewer string) (ReviewResult, error) {
	reviewer = policy.Normalize(reviewer)
	if !s.access.IsSuperAdmin(reviewer) {
		return ReviewResult{}, apperrors.Clone(apperrors.ErrAuthorization, "only super-admins may review requests")
	}

	req, err := s.approvalRepo.FindByID(ctx, requestID)
	if err != nil {
		return ReviewResult{}, err
	}

	now := time.Now()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.approvalRepo.SetApproved(txCtx, requestID, reviewer, now); err != nil {
			return err
		}
		return s.audit(txCtx, reviewer, model.ActionApproveRequest, req.Collection, req.ItemID.String(), map[string]interface{}{
			"request_id":   req.ID.String(),
			"requested_by": req.RequestedBy,
		})
	})
	if err != nil {
		return ReviewResult{}, err
	}

	req.Status = model.ApprovalApproved
	req.ReviewedBy = &reviewer
	req.ReviewedAt = &now

	// Execution happens after the approval is committed. A failure here does
	// not roll the approval back: it is recorded on the request, surfaced as
	// a distinct outcome and retryable by a super-admin.
	result := s.execute(ctx, req)
	s.notifier.RequestReviewed(ctx, req)
	return result, nil
}

func (s *approvalService) Reject(ctx context.Context, requestID uuid.UUID, reviewer, reason string) (*model.ApprovalRequest, error) {
	reviewer = policy.Normalize(reviewer)
	if !s.access.IsSuperAdmin(reviewer) {
		return nil, apperrors.Clone(apperrors.ErrAuthorization, "only super-admins may review requests")
	}

	req, err := s.approvalRepo.FindByID(ctx, requestID)
	if err != nil {
		return nil, err
	}

	now := time.Now()
	err = s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.approvalRepo.SetRejected(txCtx, requestID, reviewer, now, reason); err != nil {
			return err
		}
		return s.audit(txCtx, reviewer, model.ActionRejectRequest, req.Collection, req.ItemID.String(), map[string]interface{}{
			"request_id":   req.ID.String(),
			"requested_by": req.RequestedBy,
			"reason":       reason,
		})
	})
	if err != nil {
		return nil, err
	}

	req.Status = model.ApprovalRejected
	req.ReviewedBy = &reviewer
	req.ReviewedAt = &now
	req.RejectionReason = reason

	s.notifier.RequestReviewed(ctx, req)
	return req, nil
}

func (s *approvalService) RetryExecution(ctx context.Context, requestID uuid.UUID, reviewer string) (ReviewResult, error) {
	reviewer = policy.Normalize(reviewer)
	if !s.access.IsSuperAdmin(reviewer) {
		return ReviewResult{}, apperrors.Clone(apperrors.ErrAuthorization, "only super-admins may retry execution")
	}

	req, err := s.approvalRepo.FindByID(ctx, requestID)
	if err != nil {
		return ReviewResult{}, err
	}
	if req.Status != model.ApprovalApproved {
		return ReviewResult{}, apperrors.Clone(apperrors.ErrValidation, "only approved requests can be retried")
	}
	if req.ExecutionError == "" {
		return ReviewResult{}, apperrors.Clone(apperrors.ErrValidation, "request has no failed execution to retry")
	}

	_ = s.audit(ctx, reviewer, model.ActionRetryExecution, req.Collection, req.ItemID.String(), map[string]interface{}{
		"request_id": req.ID.String(),
	})
	return s.execute(ctx, req), nil
}

func (s *approvalService) ClearRequest(ctx context.Context, identity string, requestID uuid.UUID) error {
	identity = policy.Normalize(identity)
	if !s.access.IsAuthorizedAdmin(identity) {
		return apperrors.Clone(apperrors.ErrAuthorization, "identity is not an authorized admin")
	}

	req, err := s.approvalRepo.FindByID(ctx, requestID)
	if err != nil {
		return err
	}
	if req.RequestedBy != identity {
		return apperrors.Clone(apperrors.ErrAuthorization, "only the original requester may clear a request")
	}
	// A pending request only leaves the repository through approve/reject.
	if req.IsPending() {
		return apperrors.Clone(apperrors.ErrNotPending, "pending requests cannot be cleared")
	}

	return s.txManager.RunInTx(ctx, func(txCtx context.Context) error {
		if err := s.approvalRepo.Remove(txCtx, requestID); err != nil {
			return err
		}
		return s.audit(txCtx, identity, model.ActionClearRequest, req.Collection, req.ItemID.String(), map[string]interface{}{
			"request_id": req.ID.String(),
			"status":     req.Status,
		})
	})
}

func (s *approvalService) ListPending(ctx context.Context, identity string) ([]model.ApprovalRequest, error) {
	if !s.access.IsSuperAdmin(identity) {
		return nil, apperrors.Clone(apperrors.ErrAuthorization, "only super-admins may list pending requests")
	}
	return s.approvalRepo.ListPending(ctx)
}

func (s *approvalService) ListMyRequests(ctx context.Context, identity string) ([]model.ApprovalRequest, error) {
	identity = policy.Normalize(identity)
	if !s.access.IsAuthorizedAdmin(identity) {
		return nil, apperrors.Clone(apperrors.ErrAuthorization, "identity is not an authorized admin")
	}
	return s.approvalRepo.ListByRequester(ctx, identity)
}

// execute applies the deferred mutation of an approved request and records
// the result on the request document.
func (s *approvalService) execute(ctx context.Context, req *model.ApprovalRequest) ReviewResult {
	var updateData map[string]interface{}
	if req.Action == model.ActionUpdate && req.UpdateData != "" {
		if err := json.Unmarshal([]byte(req.UpdateData), &updateData); err != nil {
			return s.executionFailed(ctx, req, fmt.Errorf("corrupt update data: %w", err))
		}
	}

	if err := s.apply(ctx, req.Action, req.Collection, req.ItemID, updateData, snapshotVersion(req.ItemDetails)); err != nil {
		return s.executionFailed(ctx, req, err)
	}

	if req.ExecutionError != "" {
		_ = s.approvalRepo.SetExecutionError(ctx, req.ID, "")
		req.ExecutionError = ""
	}
	return ReviewResult{Request: req}
}

func (s *approvalService) executionFailed(ctx context.Context, req *model.ApprovalRequest, cause error) ReviewResult {
	req.ExecutionError = cause.Error()
	_ = s.approvalRepo.SetExecutionError(ctx, req.ID, req.ExecutionError)
	return ReviewResult{Request: req, ExecutionFailed: true, ExecutionError: req.ExecutionError}
}

// apply is the single primitive performing the actual record store mutation,
// shared by the direct super-admin path and the post-approval path.
func (s *approvalService) apply(ctx context.Context, action, collection string, itemID uuid.UUID, updateData map[string]interface{}, expectedVersion *int64) error {
	var err error
	switch action {
	case model.ActionUpdate:
		err = s.store.UpdateByID(ctx, collection, itemID, updateData, expectedVersion)
	case model.ActionDelete:
		err = s.store.DeleteByID(ctx, collection, itemID)
	default:
		return apperrors.Clone(apperrors.ErrValidation, fmt.Sprintf("unsupported action %q", action))
	}
	if err != nil {
		return err
	}
	if s.summaryCache != nil {
		s.summaryCache.Invalidate(ctx)
	}
	return nil
}

func (s *approvalService) audit(ctx context.Context, actor, action, collection, entityID string, details map[string]interface{}) error {
	entry := &model.AuditLog{
		Actor:      actor,
		Action:     action,
		Collection: collection,
		EntityID:   entityID,
		Details:    marshalJSON(details),
	}
	if err := s.auditRepo.Log(ctx, entry); err != nil {
		return fmt.Errorf("failed to write audit log: %w", err)
	}
	return nil
}

func marshalJSON(v interface{}) string {
	raw, err := json.Marshal(v)
	if err != nil {
		return "{}"
	}
	return string(raw)
}

// snapshotVersion extracts the record version captured in an item snapshot.
// Requests predating the version column simply skip the conflict check.
func snapshotVersion(itemDetails string) *int64 {
	var snapshot map[string]interface{}
	if err := json.Unmarshal([]byte(itemDetails), &snapshot); err != nil {
		return nil
	}
	return versionOf(snapshot)
}

func versionOf(snapshot map[string]interface{}) *int64 {
	raw, ok := snapshot["version"]
	if !ok {
		return nil
	}
	switch v := raw.(type) {
	case int64:
		return &v
	case float64:
		version := int64(v)
		return &version
	case json.Number:
		if n, err := v.Int64(); err == nil {
			return &n
		}
	}
	return nil
}
