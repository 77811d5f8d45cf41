package middleware

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/reoring/fieldcheck"
)

// Metrics counts validation outcomes per schema.
type Metrics struct {
	validations *prometheus.CounterVec
	issues      *prometheus.CounterVec
}

// NewMetrics creates the collectors and registers them with reg.
func NewMetrics(reg prometheus.Registerer) (*Metrics, error) {
	m := &Metrics{
		validations: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldcheck_validations_total",
				Help: "Validated request bodies by schema and outcome",
			},
			[]string{"schema", "outcome"},
		),
		issues: prometheus.NewCounterVec(
			prometheus.CounterOpts{
				Name: "fieldcheck_issues_total",
				Help: "Validation issues by schema, field and code",
			},
			[]string{"schema", "field", "code"},
		),
	}
	for _, c := range []prometheus.Collector{m.validations, m.issues} {
		if err := reg.Register(c); err != nil {
			return nil, err
		}
	}
	return m, nil
}

// observe is a no-op on a nil receiver.
func (m *Metrics) observe(schema string, issues fieldcheck.Issues, decoded bool) {
	if m == nil {
		return
	}
	switch {
	case !decoded:
		m.validations.WithLabelValues(schema, "malformed").Inc()
		return
	case len(issues) == 0:
		m.validations.WithLabelValues(schema, "ok").Inc()
		return
	}
	m.validations.WithLabelValues(schema, "invalid").Inc()
	for _, it := range issues {
		m.issues.WithLabelValues(schema, it.Path.String(), it.Code).Inc()
	}
}
