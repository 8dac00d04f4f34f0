package ports

// Resultados de una preparación de medio para métricas.
const (
	OutcomeOK                = "ok"
	OutcomeInsufficientStock = "insufficient_stock"
	OutcomeError             = "error"
)

// Metrics puerto de métricas operacionales.
type Metrics interface {
	StateChanged(kind string)
	MediaPrepared(outcome string)
	ResultEvaluated(conforms *bool)
}

// NoopMetrics no registra nada.
type NoopMetrics struct{}

func (NoopMetrics) StateChanged(string)   {}
func (NoopMetrics) MediaPrepared(string)  {}
func (NoopMetrics) ResultEvaluated(*bool) {}
