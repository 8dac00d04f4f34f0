package entity

import "time"

// StateKind identifica el catálogo de estados (y el tipo de entidad) al que pertenece un estado.
type StateKind string

const (
	KindEquipment       StateKind = "equipment"
	KindManufacturing   StateKind = "manufacturing"
	KindSamplingRequest StateKind = "sampling_request"
	KindAnalysis        StateKind = "analysis"
	KindQC              StateKind = "qc" // solo catálogo: estado QC de lotes de medio preparado
)

// StatefulKinds son los tipos de entidad con puntero de estado e histórico.
var StatefulKinds = []StateKind{KindEquipment, KindManufacturing, KindSamplingRequest, KindAnalysis}

// Stateful indica si el tipo tiene histórico de estados.
func (k StateKind) Stateful() bool {
	for _, s := range StatefulKinds {
		if s == k {
			return true
		}
	}
	return false
}

// Valid indica si el tipo tiene catálogo propio.
func (k StateKind) Valid() bool {
	return k == KindQC || k.Stateful()
}

// Table nombre de la tabla de la entidad dueña del estado (usado en el audit trail).
func (k StateKind) Table() string {
	switch k {
	case KindEquipment:
		return "equipment"
	case KindManufacturing:
		return "manufacturing_processes"
	case KindSamplingRequest:
		return "sampling_requests"
	case KindAnalysis:
		return "analyses"
	case KindQC:
		return "prepared_media_batches"
	}
	return string(k)
}

// CatalogTable tabla del catálogo de estados del tipo.
func (k StateKind) CatalogTable() string {
	switch k {
	case KindEquipment:
		return "equipment_states"
	case KindManufacturing:
		return "manufacturing_states"
	case KindSamplingRequest:
		return "sampling_request_states"
	case KindAnalysis:
		return "analysis_states"
	case KindQC:
		return "qc_states"
	}
	return string(k) + "_states"
}

// HistoryTable tabla de histórico del tipo; vacío si el tipo no tiene histórico.
func (k StateKind) HistoryTable() string {
	if !k.Stateful() {
		return ""
	}
	return string(k) + "_state_history"
}

// Nombres de los estados QC sembrados para lotes de medio preparado.
const (
	QCStatePending  = "Pendiente"
	QCStateApproved = "Aprobado"
	QCStateRejected = "Rechazado"
)

// CatalogState es un estado con nombre dentro del catálogo de un tipo de entidad.
type CatalogState struct {
	ID   string
	Kind StateKind
	Name string
}

// StateRef es el puntero de estado actual de una entidad.
type StateRef struct {
	Kind     StateKind
	EntityID string
	StateID  string
}

// HistoryRecord registro inmutable de un cambio de estado (incluye la creación).
// ID es secuencial y desempata registros con la misma fecha.
type HistoryRecord struct {
	ID          int64
	Kind        StateKind
	EntityID    string
	StateID     string
	ActorID     string
	Date        time.Time
	Observation string
}
