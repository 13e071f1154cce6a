package metrics

import "github.com/prometheus/client_golang/prometheus"

const namespace = "homio"

// ConnectionMetrics counts connection request outcomes.
type ConnectionMetrics struct {
	sent     *prometheus.CounterVec
	reviewed *prometheus.CounterVec
	failures *prometheus.CounterVec
}

// NewConnectionMetrics registers the connection request counters on reg.
func NewConnectionMetrics(reg prometheus.Registerer) *ConnectionMetrics {
	if reg == nil {
		return &ConnectionMetrics{}
	}
	sent := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connection_requests_sent_total",
		Help:      "Connection requests created, by initial status.",
	}, []string{"status"})
	reviewed := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connection_requests_reviewed_total",
		Help:      "Connection requests reviewed, by decision.",
	}, []string{"decision"})
	failures := prometheus.NewCounterVec(prometheus.CounterOpts{
		Namespace: namespace,
		Name:      "connection_request_failures_total",
		Help:      "Failed send/review operations, by error code.",
	}, []string{"operation", "code"})
	reg.MustRegister(sent, reviewed, failures)
	return &ConnectionMetrics{sent: sent, reviewed: reviewed, failures: failures}
}

func (m *ConnectionMetrics) RequestSent(status string) {
	if m == nil || m.sent == nil {
		return
	}
	m.sent.WithLabelValues(normalizeLabel(status)).Inc()
}

func (m *ConnectionMetrics) RequestReviewed(decision string) {
	if m == nil || m.reviewed == nil {
		return
	}
	m.reviewed.WithLabelValues(normalizeLabel(decision)).Inc()
}

func (m *ConnectionMetrics) RequestFailed(operation, code string) {
	if m == nil || m.failures == nil {
		return
	}
	m.failures.WithLabelValues(normalizeLabel(operation), normalizeLabel(code)).Inc()
}
