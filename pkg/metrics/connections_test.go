package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/stretchr/testify/require"
)

func TestConnectionMetricsCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewConnectionMetrics(reg)

	m.RequestSent("interested")
	m.RequestSent("interested")
	m.RequestSent("ignored")
	m.RequestReviewed("accepted")
	m.RequestFailed("send", "DUPLICATE_REQUEST")

	mfs, err := reg.Gather()
	require.NoError(t, err)

	got, err := fetchCounterValue(mfs, "homio_connection_requests_sent_total", "status", "interested")
	require.NoError(t, err)
	require.Equal(t, float64(2), got)

	got, err = fetchCounterValue(mfs, "homio_connection_requests_sent_total", "status", "ignored")
	require.NoError(t, err)
	require.Equal(t, float64(1), got)

	got, err = fetchCounterValue(mfs, "homio_connection_requests_reviewed_total", "decision", "accepted")
	require.NoError(t, err)
	require.Equal(t, float64(1), got)

	got, err = fetchCounterValue(mfs, "homio_connection_request_failures_total", "code", "DUPLICATE_REQUEST")
	require.NoError(t, err)
	require.Equal(t, float64(1), got)
}

func TestConnectionMetricsWithoutRegistry(t *testing.T) {
	m := NewConnectionMetrics(nil)
	m.RequestSent("interested")
	m.RequestReviewed("rejected")
	m.RequestFailed("review", "STORE_UNAVAILABLE")
}
