package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// Analysis análisis de una muestra recibida, con estado propio y especificación opcional.
type Analysis struct {
	ID              string
	SampleID        string
	ReceptionID     string
	MethodVersionID string
	SpecificationID *string
	StateID         string
	StartedAt       *time.Time
	LastChange      time.Time
	OperatorID      string
}

// Incubation registro de incubación de un análisis en un equipo.
type Incubation struct {
	ID          string
	AnalysisID  string
	EquipmentID string
	In          *time.Time
	Out         *time.Time
	Temperature *decimal.Decimal
	TempUnit    string
}

// AnalysisResult resultado reportado. Conforms se calcula al crear: nil si no hay
// especificación aplicable o el valor no es numérico.
type AnalysisResult struct {
	ID           string
	AnalysisID   string
	ReportedAt   time.Time
	OperatorID   string
	Value        string
	NumericValue *decimal.Decimal
	Unit         string
	Conforms     *bool
	Observation  string
}

// MediaUsage vincula un lote de medio preparado con el análisis que lo consume.
type MediaUsage struct {
	ID         string
	AnalysisID string
	BatchID    string
}
