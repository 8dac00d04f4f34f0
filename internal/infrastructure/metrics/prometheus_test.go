package metrics_test

import (
	"testing"

	"github.com/prometheus/client_golang/prometheus/testutil"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/infrastructure/metrics"
)

func TestPrometheus_CuentaPorEtiqueta(t *testing.T) {
	m := metrics.New()
	m.StateChanged("equipment")
	m.StateChanged("equipment")
	m.StateChanged("analysis")
	m.MediaPrepared(ports.OutcomeInsufficientStock)

	yes, no := true, false
	m.ResultEvaluated(&yes)
	m.ResultEvaluated(&no)
	m.ResultEvaluated(nil)

	families, err := m.Registry().Gather()
	require.NoError(t, err)

	counts := map[string]float64{}
	for _, f := range families {
		for _, metric := range f.GetMetric() {
			if metric.GetCounter() == nil {
				continue
			}
			key := f.GetName()
			for _, l := range metric.GetLabel() {
				key += "/" + l.GetValue()
			}
			counts[key] = metric.GetCounter().GetValue()
		}
	}
	assert.Equal(t, 2.0, counts["lims_state_changes_total/equipment"])
	assert.Equal(t, 1.0, counts["lims_state_changes_total/analysis"])
	assert.Equal(t, 1.0, counts["lims_media_preparations_total/insufficient_stock"])
	assert.Equal(t, 1.0, counts["lims_analysis_results_total/conforme"])
	assert.Equal(t, 1.0, counts["lims_analysis_results_total/no_conforme"])
	assert.Equal(t, 1.0, counts["lims_analysis_results_total/sin_evaluar"])
	n, err := testutil.GatherAndCount(m.Registry(), "lims_analysis_results_total")
	require.NoError(t, err)
	assert.Equal(t, 3, n)
}
