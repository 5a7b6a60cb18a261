package observability

import (
	"strconv"

	"github.com/aretw0/enigma/pkg/domain"
	"github.com/prometheus/client_golang/prometheus"
)

// Metrics holds the Prometheus collectors fed by machine hooks.
type Metrics struct {
	Letters  prometheus.Counter
	Skipped  *prometheus.CounterVec
	Steps    *prometheus.CounterVec
	Carries  *prometheus.CounterVec
	Sessions prometheus.Gauge
}

// NewMetrics creates the collectors and registers them on reg.
// A nil registerer leaves them unregistered.
func NewMetrics(reg prometheus.Registerer) *Metrics {
	m := &Metrics{
		Letters: prometheus.NewCounter(prometheus.CounterOpts{
			Name: "enigma_letters_encrypted_total",
			Help: "Total number of letters sent through the rotor chain",
		}),
		Skipped: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enigma_non_letters_total",
			Help: "Total number of non-letters, by outcome (bypass or dropped)",
		}, []string{"outcome"}),
		Steps: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enigma_rotor_steps_total",
			Help: "Total number of rotor advances, by rotor id",
		}, []string{"rotor"}),
		Carries: prometheus.NewCounterVec(prometheus.CounterOpts{
			Name: "enigma_rotor_carries_total",
			Help: "Total number of carries into the next rotor, by rotor id",
		}, []string{"rotor"}),
		Sessions: prometheus.NewGauge(prometheus.GaugeOpts{
			Name: "enigma_sessions_active",
			Help: "Number of key sheets known to this process",
		}),
	}
	if reg != nil {
		reg.MustRegister(m.Letters, m.Skipped, m.Steps, m.Carries, m.Sessions)
	}
	return m
}

// Hooks returns machine hooks recording into the collectors.
func (m *Metrics) Hooks() domain.Hooks {
	return domain.Hooks{
		OnStep: func(e *domain.StepEvent) {
			rotor := strconv.Itoa(e.RotorID)
			m.Steps.WithLabelValues(rotor).Inc()
			if e.Carry {
				m.Carries.WithLabelValues(rotor).Inc()
			}
		},
		OnEncrypt: func(e *domain.EncryptEvent) {
			switch {
			case e.Dropped:
				m.Skipped.WithLabelValues("dropped").Inc()
			case e.Bypass:
				m.Skipped.WithLabelValues("bypass").Inc()
			default:
				m.Letters.Inc()
			}
		},
	}
}
