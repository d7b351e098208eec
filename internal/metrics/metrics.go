// Package metrics defines the Prometheus collectors for the signup, login and search flows.
package metrics

import (
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promauto"
)

// Metrics holds all Prometheus metrics for the application. A nil *Metrics is valid and records nothing.
type Metrics struct {
	OTPRequests      *prometheus.CounterVec
	OTPVerifications *prometheus.CounterVec
	Logins           *prometheus.CounterVec
	EmailDeliveries  *prometheus.CounterVec
	SearchIndexBuild prometheus.Histogram
}

// New creates the metrics and registers them with reg.
func New(reg prometheus.Registerer) *Metrics {
	f := promauto.With(reg)
	return &Metrics{
		OTPRequests: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clearn_otp_requests_total",
			Help: "Signup OTP requests and resends by result",
		}, []string{"result"}),
		OTPVerifications: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clearn_otp_verifications_total",
			Help: "Signup OTP verification attempts by result",
		}, []string{"result"}),
		Logins: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clearn_logins_total",
			Help: "Login attempts by result",
		}, []string{"result"}),
		EmailDeliveries: f.NewCounterVec(prometheus.CounterOpts{
			Name: "clearn_email_deliveries_total",
			Help: "OTP email sends by result (sent, not_configured, failed)",
		}, []string{"result"}),
		SearchIndexBuild: f.NewHistogram(prometheus.HistogramOpts{
			Name:    "clearn_search_index_build_seconds",
			Help:    "Time to load the dataset and build the search index",
			Buckets: prometheus.ExponentialBuckets(0.0005, 2, 12),
		}),
	}
}

// IncOTPRequest counts an OTP request or resend outcome.
func (m *Metrics) IncOTPRequest(result string) {
	if m == nil {
		return
	}
	m.OTPRequests.WithLabelValues(result).Inc()
}

// IncOTPVerification counts an OTP verification outcome.
func (m *Metrics) IncOTPVerification(result string) {
	if m == nil {
		return
	}
	m.OTPVerifications.WithLabelValues(result).Inc()
}

// IncLogin counts a login outcome.
func (m *Metrics) IncLogin(result string) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result).Inc()
}

// IncEmailDelivery counts an email send outcome.
func (m *Metrics) IncEmailDelivery(result string) {
	if m == nil {
		return
	}
	m.EmailDeliveries.WithLabelValues(result).Inc()
}

// ObserveSearchIndexBuild records how long an index build took.
func (m *Metrics) ObserveSearchIndexBuild(d time.Duration) {
	if m == nil {
		return
	}
	m.SearchIndexBuild.Observe(d.Seconds())
}
