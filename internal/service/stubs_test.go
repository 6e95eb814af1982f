package service

import (
	"context"
	"fmt"
	"sort"
	"sync"
	"time"

	"backend/internal/model"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/google/uuid"
)

// In-memory doubles for the repository layer. They mirror the semantics the
// gorm-backed implementations promise: conditional terminal transitions,
// version-guarded updates, typed not-found errors.

type memApprovalRepo struct {
	mu       sync.Mutex
	requests map[uuid.UUID]*model.ApprovalRequest
	clock    time.Time
}

func newMemApprovalRepo() *memApprovalRepo {
	return &memApprovalRepo{
		requests: make(map[uuid.UUID]*model.ApprovalRequest),
		clock:    time.Date(2024, 6, 1, 9, 0, 0, 0, time.UTC),
	}
}

func (r *memApprovalRepo) Create(_ context.Context, req *model.ApprovalRequest) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if req.ID == uuid.Nil {
		req.ID = uuid.New()
	}
	req.Status = model.ApprovalPending
	req.ReviewedBy = nil
	req.ReviewedAt = nil
	r.clock = r.clock.Add(time.Minute)
	req.CreatedAt = r.clock
	clone := *req
	r.requests[req.ID] = &clone
	return nil
}

func (r *memApprovalRepo) FindByID(_ context.Context, id uuid.UUID) (*model.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "approval request not found")
	}
	clone := *req
	return &clone, nil
}

func (r *memApprovalRepo) ListPending(_ context.Context) ([]model.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ApprovalRequest
	for _, req := range r.requests {
		if req.Status == model.ApprovalPending {
			out = append(out, *req)
		}
	}
	return out, nil
}

func (r *memApprovalRepo) ListByRequester(_ context.Context, identity string) ([]model.ApprovalRequest, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.ApprovalRequest
	for _, req := range r.requests {
		if req.RequestedBy == identity {
			out = append(out, *req)
		}
	}
	sort.Slice(out, func(i, j int) bool { return out[i].CreatedAt.After(out[j].CreatedAt) })
	return out, nil
}

func (r *memApprovalRepo) SetApproved(_ context.Context, id uuid.UUID, reviewer string, reviewedAt time.Time) error {
	return r.transition(id, func(req *model.ApprovalRequest) {
		req.Status = model.ApprovalApproved
		req.ReviewedBy = &reviewer
		req.ReviewedAt = &reviewedAt
	})
}

func (r *memApprovalRepo) SetRejected(_ context.Context, id uuid.UUID, reviewer string, reviewedAt time.Time, reason string) error {
	return r.transition(id, func(req *model.ApprovalRequest) {
		req.Status = model.ApprovalRejected
		req.ReviewedBy = &reviewer
		req.ReviewedAt = &reviewedAt
		req.RejectionReason = reason
	})
}

func (r *memApprovalRepo) transition(id uuid.UUID, apply func(*model.ApprovalRequest)) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return apperrors.Clone(apperrors.ErrNotFound, "approval request not found")
	}
	if req.Status != model.ApprovalPending {
		return apperrors.Clone(apperrors.ErrNotPending, "approval request is no longer pending")
	}
	apply(req)
	return nil
}

func (r *memApprovalRepo) SetExecutionError(_ context.Context, id uuid.UUID, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	req, ok := r.requests[id]
	if !ok {
		return apperrors.Clone(apperrors.ErrNotFound, "approval request not found")
	}
	req.ExecutionError = message
	return nil
}

func (r *memApprovalRepo) Remove(_ context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	if _, ok := r.requests[id]; !ok {
		return apperrors.Clone(apperrors.ErrNotFound, "approval request not found")
	}
	delete(r.requests, id)
	return nil
}

type memRecordStore struct {
	mu   sync.Mutex
	rows map[string]map[uuid.UUID]map[string]interface{}

	updateCalls int
	deleteCalls int
	failMutate  bool
}

func newMemRecordStore() *memRecordStore {
	return &memRecordStore{rows: make(map[string]map[uuid.UUID]map[string]interface{})}
}

func (s *memRecordStore) seed(collection string, fields map[string]interface{}) uuid.UUID {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	row := map[string]interface{}{"id": id.String(), "version": int64(1)}
	for k, v := range fields {
		row[k] = v
	}
	if s.rows[collection] == nil {
		s.rows[collection] = make(map[uuid.UUID]map[string]interface{})
	}
	s.rows[collection][id] = row
	return id
}

func (s *memRecordStore) Insert(_ context.Context, collection string, fields map[string]interface{}) (uuid.UUID, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	id := uuid.New()
	row := map[string]interface{}{"id": id.String(), "version": int64(1)}
	for k, v := range fields {
		row[k] = v
	}
	if s.rows[collection] == nil {
		s.rows[collection] = make(map[uuid.UUID]map[string]interface{})
	}
	s.rows[collection][id] = row
	return id, nil
}

func (s *memRecordStore) GetAll(_ context.Context, collection string) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]interface{}
	for _, row := range s.rows[collection] {
		out = append(out, copyRow(row))
	}
	return out, nil
}

func (s *memRecordStore) GetByID(_ context.Context, collection string, id uuid.UUID) (map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	row, ok := s.rows[collection][id]
	if !ok {
		return nil, apperrors.Clone(apperrors.ErrNotFound, "record not found")
	}
	return copyRow(row), nil
}

func (s *memRecordStore) UpdateByID(_ context.Context, collection string, id uuid.UUID, updates map[string]interface{}, expectedVersion *int64) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.updateCalls++
	if s.failMutate {
		return apperrors.Clone(apperrors.ErrStore, "store unavailable")
	}
	row, ok := s.rows[collection][id]
	if !ok {
		return apperrors.Clone(apperrors.ErrNotFound, "record not found")
	}
	version, _ := row["version"].(int64)
	if expectedVersion != nil && version != *expectedVersion {
		return apperrors.Clone(apperrors.ErrConflict, fmt.Sprintf("record at version %d, expected %d", version, *expectedVersion))
	}
	for k, v := range updates {
		row[k] = v
	}
	row["version"] = version + 1
	return nil
}

func (s *memRecordStore) DeleteByID(_ context.Context, collection string, id uuid.UUID) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.deleteCalls++
	if s.failMutate {
		return apperrors.Clone(apperrors.ErrStore, "store unavailable")
	}
	if _, ok := s.rows[collection][id]; !ok {
		return apperrors.Clone(apperrors.ErrNotFound, "record not found")
	}
	delete(s.rows[collection], id)
	return nil
}

func (s *memRecordStore) QueryEquals(_ context.Context, collection, field string, value interface{}) ([]map[string]interface{}, error) {
	s.mu.Lock()
	defer s.mu.Unlock()
	var out []map[string]interface{}
	want := fmt.Sprintf("%v", value)
	for _, row := range s.rows[collection] {
		if fmt.Sprintf("%v", row[field]) == want {
			out = append(out, copyRow(row))
		}
	}
	return out, nil
}

func copyRow(row map[string]interface{}) map[string]interface{} {
	out := make(map[string]interface{}, len(row))
	for k, v := range row {
		out[k] = v
	}
	return out
}

type memAuditRepo struct {
	mu      sync.Mutex
	entries []model.AuditLog
}

func (r *memAuditRepo) Log(_ context.Context, entry *model.AuditLog) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.entries = append(r.entries, *entry)
	return nil
}

func (r *memAuditRepo) List(_ context.Context, filter repository.AuditFilter, page, limit int) ([]model.AuditLog, int64, error) {
	r.mu.Lock()
	defer r.mu.Unlock()
	var out []model.AuditLog
	for _, e := range r.entries {
		if filter.Actor != "" && e.Actor != filter.Actor {
			continue
		}
		if filter.Action != "" && e.Action != filter.Action {
			continue
		}
		if filter.Collection != "" && e.Collection != filter.Collection {
			continue
		}
		out = append(out, e)
	}
	return out, int64(len(out)), nil
}

func (r *memAuditRepo) actions() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, 0, len(r.entries))
	for _, e := range r.entries {
		out = append(out, e.Action)
	}
	return out
}

type memSummaryCache struct {
	mu            sync.Mutex
	invalidations int
}

func (c *memSummaryCache) Invalidate(_ context.Context) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.invalidations++
}

func (c *memSummaryCache) count() int {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.invalidations
}

// memTxManager runs the closure without a real transaction.
type memTxManager struct{}

func (memTxManager) RunInTx(ctx context.Context, fn func(txCtx context.Context) error) error {
	return fn(ctx)
}

type recordingNotifier struct {
	mu       sync.Mutex
	created  []*model.ApprovalRequest
	reviewed []*model.ApprovalRequest
}

func (n *recordingNotifier) RequestCreated(_ context.Context, req *model.ApprovalRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.created = append(n.created, req)
}

func (n *recordingNotifier) RequestReviewed(_ context.Context, req *model.ApprovalRequest) {
	n.mu.Lock()
	defer n.mu.Unlock()
	n.reviewed = append(n.reviewed, req)
}
