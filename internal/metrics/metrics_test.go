package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestMetrics_Counters(t *testing.T) {
	m := New(prometheus.NewRegistry())

	m.IncOTPRequest("sent")
	m.IncOTPRequest("sent")
	m.IncOTPRequest("conflict")
	m.IncOTPVerification("verified")
	m.IncLogin("invalid_credentials")
	m.IncEmailDelivery("not_configured")

	assert.Equal(t, 2.0, testutil.ToFloat64(m.OTPRequests.WithLabelValues("sent")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OTPRequests.WithLabelValues("conflict")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.OTPVerifications.WithLabelValues("verified")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues("invalid_credentials")))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.EmailDeliveries.WithLabelValues("not_configured")))
}

func TestMetrics_SearchIndexHistogram(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)
	m.ObserveSearchIndexBuild(3 * time.Millisecond)

	families, err := reg.Gather()
	require.NoError(t, err)
	var found bool
	for _, f := range families {
		if f.GetName() == "clearn_search_index_build_seconds" {
			found = true
			assert.Equal(t, uint64(1), f.GetMetric()[0].GetHistogram().GetSampleCount())
		}
	}
	assert.True(t, found, "histogram should be registered")
}

func TestMetrics_NilIsNoop(t *testing.T) {
	var m *Metrics
	m.IncOTPRequest("sent")
	m.IncOTPVerification("verified")
	m.IncLogin("success")
	m.IncEmailDelivery("sent")
	m.ObserveSearchIndexBuild(time.Second)
}
