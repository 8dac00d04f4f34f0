// Package metrics implementa ports.Metrics con contadores Prometheus.
package metrics

import (
	"github.com/prometheus/client_golang/prometheus"

	"github.com/jhoicas/lims-api/internal/application/ports"
)

var _ ports.Metrics = (*Prometheus)(nil)

// Prometheus contadores del servicio registrados en un registry propio.
type Prometheus struct {
	registry      *prometheus.Registry
	stateChanges  *prometheus.CounterVec
	preparations  *prometheus.CounterVec
	resultsByConf *prometheus.CounterVec
}

// New registra los contadores y los collectors de proceso y runtime de Go.
func New() *Prometheus {
	reg := prometheus.NewRegistry()
	m := &Prometheus{
		registry: reg,
		stateChanges: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lims",
			Name:      "state_changes_total",
			Help:      "Cambios de estado registrados (incluye creación), por tipo de entidad.",
		}, []string{"kind"}),
		preparations: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lims",
			Name:      "media_preparations_total",
			Help:      "Preparaciones de medio por resultado.",
		}, []string{"outcome"}),
		resultsByConf: prometheus.NewCounterVec(prometheus.CounterOpts{
			Namespace: "lims",
			Name:      "analysis_results_total",
			Help:      "Resultados de análisis por conformidad (conforme, no_conforme, sin_evaluar).",
		}, []string{"conformance"}),
	}
	reg.MustRegister(
		m.stateChanges,
		m.preparations,
		m.resultsByConf,
		prometheus.NewGoCollector(),
		prometheus.NewProcessCollector(prometheus.ProcessCollectorOpts{}),
	)
	return m
}

// Registry para exponer en /metrics.
func (m *Prometheus) Registry() *prometheus.Registry { return m.registry }

func (m *Prometheus) StateChanged(kind string) {
	m.stateChanges.WithLabelValues(kind).Inc()
}

func (m *Prometheus) MediaPrepared(outcome string) {
	m.preparations.WithLabelValues(outcome).Inc()
}

func (m *Prometheus) ResultEvaluated(conforms *bool) {
	label := "sin_evaluar"
	if conforms != nil {
		label = "no_conforme"
		if *conforms {
			label = "conforme"
		}
	}
	m.resultsByConf.WithLabelValues(label).Inc()
}
