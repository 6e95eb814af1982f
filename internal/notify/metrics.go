package notify

import (
	"context"

	"backend/internal/metrics"
	"backend/internal/model"
)

// MetricsNotifier counts workflow events on the Prometheus collectors. It
// rides the same fan-out as the log and websocket sinks.
type MetricsNotifier struct {
	metrics *metrics.Metrics
}

func NewMetricsNotifier(m *metrics.Metrics) *MetricsNotifier {
	return &MetricsNotifier{metrics: m}
}

func (n *MetricsNotifier) RequestCreated(_ context.Context, req *model.ApprovalRequest) {
	n.metrics.CountRequestCreated(req.Action, req.Collection)
}

func (n *MetricsNotifier) RequestReviewed(_ context.Context, req *model.ApprovalRequest) {
	n.metrics.CountRequestDecided(req.Status)
}
