package notify

import (
	"context"
	"encoding/json"

	"backend/internal/model"

	"go.uber.org/zap"
)

// Notifier is the notification-sink boundary. The workflow engine fires it
// on request creation and on every status transition; the payload is the
// full request document. Delivery failures are the sink's problem — the
// engine never blocks or fails a workflow transition on notification.
type Notifier interface {
	RequestCreated(ctx context.Context, req *model.ApprovalRequest)
	RequestReviewed(ctx context.Context, req *model.ApprovalRequest)
}

// NopNotifier discards all events.
type NopNotifier struct{}

func (NopNotifier) RequestCreated(context.Context, *model.ApprovalRequest)  {}
func (NopNotifier) RequestReviewed(context.Context, *model.ApprovalRequest) {}

// LogNotifier writes structured log lines for every workflow event. It
// doubles as the local stand-in for the email pipeline.
type LogNotifier struct {
	logger *zap.Logger
}

func NewLogNotifier(logger *zap.Logger) *LogNotifier {
	return &LogNotifier{logger: logger}
}

func (n *LogNotifier) RequestCreated(_ context.Context, req *model.ApprovalRequest) {
	n.logger.Info("approval_request_created",
		zap.String("request_id", req.ID.String()),
		zap.String("action", req.Action),
		zap.String("collection", req.Collection),
		zap.String("item_id", req.ItemID.String()),
		zap.String("requested_by", req.RequestedBy),
	)
}

func (n *LogNotifier) RequestReviewed(_ context.Context, req *model.ApprovalRequest) {
	fields := []zap.Field{
		zap.String("request_id", req.ID.String()),
		zap.String("status", req.Status),
		zap.String("requested_by", req.RequestedBy),
	}
	if req.ReviewedBy != nil {
		fields = append(fields, zap.String("reviewed_by", *req.ReviewedBy))
	}
	if req.RejectionReason != "" {
		fields = append(fields, zap.String("rejection_reason", req.RejectionReason))
	}
	n.logger.Info("approval_request_reviewed", fields...)
}

// Broadcaster is the subset of the websocket hub the HubNotifier needs.
type Broadcaster interface {
	BroadcastMessage(message []byte)
}

// HubNotifier pushes workflow events to connected admin panels over the
// websocket hub.
type HubNotifier struct {
	hub Broadcaster
}

func NewHubNotifier(hub Broadcaster) *HubNotifier {
	return &HubNotifier{hub: hub}
}

type hubEvent struct {
	Event   string                 `json:"event"`
	Request *model.ApprovalRequest `json:"request"`
}

func (n *HubNotifier) RequestCreated(_ context.Context, req *model.ApprovalRequest) {
	n.send("approval_request.created", req)
}

func (n *HubNotifier) RequestReviewed(_ context.Context, req *model.ApprovalRequest) {
	n.send("approval_request."+req.Status, req)
}

func (n *HubNotifier) send(event string, req *model.ApprovalRequest) {
	payload, err := json.Marshal(hubEvent{Event: event, Request: req})
	if err != nil {
		return
	}
	n.hub.BroadcastMessage(payload)
}

// Multi fans one event out to several sinks.
type Multi []Notifier

func (m Multi) RequestCreated(ctx context.Context, req *model.ApprovalRequest) {
	for _, n := range m {
		n.RequestCreated(ctx, req)
	}
}

func (m Multi) RequestReviewed(ctx context.Context, req *model.ApprovalRequest) {
	for _, n := range m {
		n.RequestReviewed(ctx, req)
	}
}
