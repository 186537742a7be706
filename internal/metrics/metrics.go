// Package metrics exposes Prometheus counters for the admin auth flow.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"
)

const namespace = "movemate_admin"

// Result labels.
const (
	ResultSuccess = "success"
	ResultFailure = "failure"
)

// Reset step labels.
const (
	StepRequest = "request"
	StepVerify  = "verify"
	StepReset   = "reset"
)

type Metrics struct {
	Logins        *prometheus.CounterVec
	Logouts       prometheus.Counter
	ResetSteps    *prometheus.CounterVec
	TicketsPurged prometheus.Counter
}

// New creates the collectors and registers them on reg when reg is non-nil.
func New(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Logins: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logins_total",
			Help:      "Admin login attempts by result.",
		}, []string{"result"}),
		Logouts: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "logouts_total",
			Help:      "Admin logouts.",
		}),
		ResetSteps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "password_reset_steps_total",
			Help:      "Password reset steps by step and result.",
		}, []string{"step", "result"}),
		TicketsPurged: prometheus.NewCounter(prometheus.CounterOpts{
			Namespace: namespace,
			Name:      "reset_tickets_purged_total",
			Help:      "Expired reset tickets removed by the background sweep.",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Logins, m.Logouts, m.ResetSteps, m.TicketsPurged)
	}
	return m
}

func result(ok bool) string {
	if ok {
		return ResultSuccess
	}
	return ResultFailure
}

// The methods below tolerate a nil receiver so callers may run without
// metrics.

func (m *Metrics) Login(ok bool) {
	if m == nil {
		return
	}
	m.Logins.WithLabelValues(result(ok)).Inc()
}

func (m *Metrics) Logout() {
	if m == nil {
		return
	}
	m.Logouts.Inc()
}

func (m *Metrics) ResetStep(step string, ok bool) {
	if m == nil {
		return
	}
	m.ResetSteps.WithLabelValues(step, result(ok)).Inc()
}

func (m *Metrics) Purged(n int) {
	if m == nil || n <= 0 {
		return
	}
	m.TicketsPurged.Add(float64(n))
}
