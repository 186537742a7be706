package metrics

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
)

func TestCounters(t *testing.T) {
	reg := prometheus.NewRegistry()
	m := New(reg)

	m.Login(true)
	m.Login(false)
	m.Login(false)
	m.Logout()
	m.ResetStep(StepRequest, true)
	m.ResetStep(StepVerify, false)
	m.Purged(3)
	m.Purged(0)

	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logins.WithLabelValues(ResultSuccess)))
	assert.Equal(t, 2.0, testutil.ToFloat64(m.Logins.WithLabelValues(ResultFailure)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.Logouts))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResetSteps.WithLabelValues(StepRequest, ResultSuccess)))
	assert.Equal(t, 1.0, testutil.ToFloat64(m.ResetSteps.WithLabelValues(StepVerify, ResultFailure)))
	assert.Equal(t, 3.0, testutil.ToFloat64(m.TicketsPurged))

	n, err := testutil.GatherAndCount(reg)
	assert.NoError(t, err)
	assert.Equal(t, 6, n)
}

func TestNilMetricsAreNoops(t *testing.T) {
	var m *Metrics
	assert.NotPanics(t, func() {
		m.Login(true)
		m.Logout()
		m.ResetStep(StepReset, true)
		m.Purged(1)
	})
}
