package entity

import "time"

// Tipos de solicitud de muestreo.
const (
	SamplingTypeProduct     = "PRODUCTO"
	SamplingTypeEnvironment = "AMBIENTE"
	SamplingTypeSurface     = "SUPERFICIE"
	SamplingTypePersonnel   = "PERSONAL"
)

// Decisiones de recepción de muestras en laboratorio.
const (
	ReceptionAccepted = "ACEPTADA"
	ReceptionRejected = "RECHAZADA"
)

// SamplingRequest solicitud de muestreo; puede referir a una orden, equipo, punto u operario.
type SamplingRequest struct {
	ID              string
	RequestedBy     string
	Date            time.Time
	Type            string
	OrderID         *string
	EquipmentID     *string
	SamplingPointID *string
	OperatorID      *string
	StateID         string
	Observation     string
}

// SamplingSession sesión de muestreo ejecutada para una solicitud.
type SamplingSession struct {
	ID         string
	RequestID  string
	StartedAt  *time.Time
	FinishedAt *time.Time
	OperatorID string
	Samples    []*Sample
}

// Sample muestra individual tomada en una sesión.
type Sample struct {
	ID              string
	SessionID       string
	SamplingPointID *string
	EquipmentZoneID *string
	SampledOperator *string
	Type            string
	Label           string // código de etiqueta único
	Observation     string
}

// SampleShipment envío de una muestra a un destino (laboratorio).
type SampleShipment struct {
	ID          string
	SampleID    string
	Date        time.Time
	OperatorID  string
	Destination string
}

// SampleReception recepción de un envío en laboratorio.
type SampleReception struct {
	ID          string
	ShipmentID  string
	Date        time.Time
	OperatorID  string
	ReceivedAt  string // ubicación de recepción
	Decision    string
	Observation string
}
