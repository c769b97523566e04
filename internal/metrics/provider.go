package metrics

import (
	"strings"
	"time"

	"github.com/prometheus/client_golang/prometheus"
)

// ProviderMetrics records outbound provider calls. A nil *ProviderMetrics is
// valid and records nothing.
type ProviderMetrics struct {
	requests   *prometheus.CounterVec
	latency    *prometheus.HistogramVec
	phoneRetry prometheus.Counter
}

type Config struct {
	ServiceName string
	Environment string
}

func NewProviderMetrics(registerer prometheus.Registerer, cfg Config) *ProviderMetrics {
	if registerer == nil {
		registerer = prometheus.DefaultRegisterer
	}

	serviceName := strings.TrimSpace(cfg.ServiceName)
	if serviceName == "" {
		serviceName = "tours-be"
	}
	environment := strings.TrimSpace(cfg.Environment)
	if environment == "" {
		environment = "unknown"
	}

	constLabels := prometheus.Labels{
		"service": serviceName,
		"env":     environment,
	}

	requests := prometheus.NewCounterVec(
		prometheus.CounterOpts{
			Name:        "bokun_requests_total",
			Help:        "Outbound provider calls by operation and status class.",
			ConstLabels: constLabels,
		},
		[]string{"operation", "status"}, // status: 2xx | 4xx | 5xx | error
	)

	latency := prometheus.NewHistogramVec(
		prometheus.HistogramOpts{
			Name:        "bokun_request_duration_seconds",
			Help:        "Latency of outbound provider calls.",
			Buckets:     []float64{0.05, 0.1, 0.25, 0.5, 1, 2.5, 5, 10, 30},
			ConstLabels: constLabels,
		},
		[]string{"operation"},
	)

	phoneRetry := prometheus.NewCounter(
		prometheus.CounterOpts{
			Name:        "bokun_checkout_phone_retries_total",
			Help:        "Checkout submissions resent after the provider rejected the phone number.",
			ConstLabels: constLabels,
		},
	)

	registerer.MustRegister(requests, latency, phoneRetry)

	return &ProviderMetrics{
		requests:   requests,
		latency:    latency,
		phoneRetry: phoneRetry,
	}
}

func (m *ProviderMetrics) ObserveRequest(operation, status string, d time.Duration) {
	if m == nil {
		return
	}
	m.requests.WithLabelValues(operation, status).Inc()
	m.latency.WithLabelValues(operation).Observe(d.Seconds())
}

func (m *ProviderMetrics) IncPhoneRetry() {
	if m == nil {
		return
	}
	m.phoneRetry.Inc()
}
