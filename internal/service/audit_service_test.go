package service

import (
	"context"
	"testing"

	"backend/internal/config"
	"backend/internal/model"
	"backend/internal/policy"
	"backend/internal/repository"
	"backend/pkg/apperrors"

	"github.com/stretchr/testify/require"
)

func testAccessPolicy() *policy.AccessPolicy {
	return policy.New(config.AccessConfig{
		AdminEmails:      []string{staffEmail, secondEmail},
		SuperAdminEmails: []string{ownerEmail},
	})
}

func seedAuditEntries(repo *memAuditRepo) {
	ctx := context.Background()
	_ = repo.Log(ctx, &model.AuditLog{Actor: staffEmail, Action: model.ActionCreateApprovalRequest, Collection: "revenue"})
	_ = repo.Log(ctx, &model.AuditLog{Actor: ownerEmail, Action: model.ActionApproveRequest, Collection: "revenue"})
	_ = repo.Log(ctx, &model.AuditLog{Actor: ownerEmail, Action: model.ActionDirectApply, Collection: "buying"})
}

func TestAuditListRequiresSuperAdmin(t *testing.T) {
	repo := &memAuditRepo{}
	seedAuditEntries(repo)
	svc := NewAuditService(repo, testAccessPolicy())

	_, _, err := svc.List(context.Background(), staffEmail, repository.AuditFilter{}, 1, 20)
	require.ErrorIs(t, err, apperrors.ErrAuthorization)

	entries, total, err := svc.List(context.Background(), ownerEmail, repository.AuditFilter{}, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 3, total)
	require.Len(t, entries, 3)
}

func TestAuditListFilters(t *testing.T) {
	repo := &memAuditRepo{}
	seedAuditEntries(repo)
	svc := NewAuditService(repo, testAccessPolicy())

	entries, total, err := svc.List(context.Background(), ownerEmail, repository.AuditFilter{Actor: "  Owner@Shop.lk "}, 1, 20)
	require.NoError(t, err)
	require.EqualValues(t, 2, total)
	for _, e := range entries {
		require.Equal(t, ownerEmail, e.Actor)
	}

	entries, _, err = svc.List(context.Background(), ownerEmail, repository.AuditFilter{Collection: "buying"}, 1, 20)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	require.Equal(t, model.ActionDirectApply, entries[0].Action)
}
