package metrics

import (
	"testing"
	"time"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestProviderMetrics_ObserveRequest(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewProviderMetrics(reg, Config{ServiceName: "test", Environment: "test"})

	m.ObserveRequest("search", "2xx", 120*time.Millisecond)
	m.ObserveRequest("search", "2xx", 80*time.Millisecond)
	m.ObserveRequest("details", "4xx", 10*time.Millisecond)

	assert.Equal(t, float64(2), testutil.ToFloat64(m.requests.WithLabelValues("search", "2xx")))
	assert.Equal(t, float64(1), testutil.ToFloat64(m.requests.WithLabelValues("details", "4xx")))
	assert.Equal(t, 2, testutil.CollectAndCount(m.latency))
}

func TestProviderMetrics_IncPhoneRetry(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := NewProviderMetrics(reg, Config{})

	m.IncPhoneRetry()

	assert.Equal(t, float64(1), testutil.ToFloat64(m.phoneRetry))
}

func TestProviderMetrics_NilSafe(t *testing.T) {
	var m *ProviderMetrics

	assert.NotPanics(t, func() {
		m.ObserveRequest("search", "2xx", time.Second)
		m.IncPhoneRetry()
	})
}

func TestTimer(t *testing.T) {
	timer := StartTimer()
	time.Sleep(time.Millisecond)

	assert.GreaterOrEqual(t, timer.Duration(), time.Millisecond)
}
