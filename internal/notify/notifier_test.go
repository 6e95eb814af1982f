package notify

import (
	"context"
	"encoding/json"
	"testing"

	"backend/internal/model"

	"github.com/google/uuid"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

type captureHub struct {
	messages [][]byte
}

func (h *captureHub) BroadcastMessage(message []byte) {
	h.messages = append(h.messages, message)
}

func TestHubNotifierEvents(t *testing.T) {
	hub := &captureHub{}
	n := NewHubNotifier(hub)

	req := &model.ApprovalRequest{
		ID:          uuid.New(),
		Action:      model.ActionDelete,
		Collection:  "buying",
		ItemID:      uuid.New(),
		RequestedBy: "staff@shop.lk",
		Status:      model.ApprovalPending,
	}

	n.RequestCreated(context.Background(), req)
	req.Status = model.ApprovalApproved
	n.RequestReviewed(context.Background(), req)
	req.Status = model.ApprovalRejected
	n.RequestReviewed(context.Background(), req)

	require.Len(t, hub.messages, 3)

	var event struct {
		Event   string                 `json:"event"`
		Request *model.ApprovalRequest `json:"request"`
	}
	require.NoError(t, json.Unmarshal(hub.messages[0], &event))
	require.Equal(t, "approval_request.created", event.Event)
	require.Equal(t, req.ID, event.Request.ID)

	require.NoError(t, json.Unmarshal(hub.messages[1], &event))
	require.Equal(t, "approval_request.approved", event.Event)

	require.NoError(t, json.Unmarshal(hub.messages[2], &event))
	require.Equal(t, "approval_request.rejected", event.Event)
}

func TestMultiFansOut(t *testing.T) {
	hubA := &captureHub{}
	hubB := &captureHub{}
	multi := Multi{NewHubNotifier(hubA), NewHubNotifier(hubB), NewLogNotifier(zap.NewNop())}

	multi.RequestCreated(context.Background(), &model.ApprovalRequest{ID: uuid.New()})

	require.Len(t, hubA.messages, 1)
	require.Len(t, hubB.messages, 1)
}
