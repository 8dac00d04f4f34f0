package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// AuditResponse metadatos regulatorios de un registro.
type AuditResponse struct {
	Active        bool       `json:"active"`
	CreatedBy     string     `json:"created_by"`
	CreatedAt     time.Time  `json:"created_at"`
	ModifiedBy    *string    `json:"modified_by,omitempty"`
	ModifiedAt    *time.Time `json:"modified_at,omitempty"`
	DeactivatedBy *string    `json:"deactivated_by,omitempty"`
	DeactivatedAt *time.Time `json:"deactivated_at,omitempty"`
}

// EquipmentResponse equipo con su estado y metadatos de auditoría.
type EquipmentResponse struct {
	ID      string        `json:"id"`
	Code    string        `json:"code"`
	Name    string        `json:"name"`
	TypeID  string        `json:"type_id"`
	AreaID  string        `json:"area_id"`
	StateID string        `json:"state_id"`
	Audit   AuditResponse `json:"audit"`
}

// CalibrationResponse evento de calibración/calificación.
type CalibrationResponse struct {
	ID          string     `json:"id"`
	EquipmentID string     `json:"equipment_id"`
	Type        string     `json:"type"`
	Date        time.Time  `json:"date"`
	Expires     *time.Time `json:"expires,omitempty"`
	OperatorID  string     `json:"operator_id"`
}

// OrderResponse orden de manufactura.
type OrderResponse struct {
	ID         string          `json:"id"`
	Code       string          `json:"code"`
	Lot        string          `json:"lot"`
	Date       time.Time       `json:"date"`
	ProductID  string          `json:"product_id"`
	Quantity   decimal.Decimal `json:"quantity"`
	Unit       string          `json:"unit"`
	OperatorID string          `json:"operator_id"`
}

// ProcessResponse proceso de manufactura; StateName se llena en trazabilidad.
type ProcessResponse struct {
	ID          string     `json:"id"`
	OrderID     string     `json:"order_id"`
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	StateID     string     `json:"state_id"`
	StateName   string     `json:"state_name,omitempty"`
	Observation string     `json:"observation,omitempty"`
}

// ProcessTraceResponse proceso con su histórico.
type ProcessTraceResponse struct {
	ProcessResponse
	History []HistoryResponse `json:"history"`
}

// TraceabilityResponse orden con procesos e históricos.
type TraceabilityResponse struct {
	Order       OrderResponse          `json:"order"`
	Processes   []ProcessTraceResponse `json:"processes"`
	GeneratedAt time.Time              `json:"generated_at"`
}

// SamplingRequestResponse solicitud de muestreo.
type SamplingRequestResponse struct {
	ID              string    `json:"id"`
	RequestedBy     string    `json:"requested_by"`
	Date            time.Time `json:"date"`
	Type            string    `json:"type"`
	OrderID         *string   `json:"order_id,omitempty"`
	EquipmentID     *string   `json:"equipment_id,omitempty"`
	SamplingPointID *string   `json:"sampling_point_id,omitempty"`
	OperatorID      *string   `json:"operator_id,omitempty"`
	StateID         string    `json:"state_id"`
	Observation     string    `json:"observation,omitempty"`
}

// SampleResponse muestra tomada.
type SampleResponse struct {
	ID              string  `json:"id"`
	SessionID       string  `json:"session_id"`
	SamplingPointID *string `json:"sampling_point_id,omitempty"`
	EquipmentZoneID *string `json:"equipment_zone_id,omitempty"`
	SampledOperator *string `json:"sampled_operator_id,omitempty"`
	Type            string  `json:"type"`
	Label           string  `json:"label"`
	Observation     string  `json:"observation,omitempty"`
}

// SessionResponse sesión de muestreo con sus muestras.
type SessionResponse struct {
	ID         string           `json:"id"`
	RequestID  string           `json:"request_id"`
	StartedAt  *time.Time       `json:"started_at,omitempty"`
	FinishedAt *time.Time       `json:"finished_at,omitempty"`
	OperatorID string           `json:"operator_id"`
	Samples    []SampleResponse `json:"samples"`
}

// ShipmentResponse envío de muestra.
type ShipmentResponse struct {
	ID          string    `json:"id"`
	SampleID    string    `json:"sample_id"`
	Date        time.Time `json:"date"`
	OperatorID  string    `json:"operator_id"`
	Destination string    `json:"destination"`
}

// ReceptionResponse recepción de envío.
type ReceptionResponse struct {
	ID          string    `json:"id"`
	ShipmentID  string    `json:"shipment_id"`
	Date        time.Time `json:"date"`
	OperatorID  string    `json:"operator_id"`
	ReceivedAt  string    `json:"received_at"`
	Decision    string    `json:"decision"`
	Observation string    `json:"observation,omitempty"`
}

// AnalysisResponse análisis con su estado.
type AnalysisResponse struct {
	ID              string     `json:"id"`
	SampleID        string     `json:"sample_id"`
	ReceptionID     string     `json:"reception_id"`
	MethodVersionID string     `json:"method_version_id"`
	SpecificationID *string    `json:"specification_id,omitempty"`
	StateID         string     `json:"state_id"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
	LastChange      time.Time  `json:"last_change"`
	OperatorID      string     `json:"operator_id"`
}

// IncubationResponse incubación registrada.
type IncubationResponse struct {
	ID          string           `json:"id"`
	AnalysisID  string           `json:"analysis_id"`
	EquipmentID string           `json:"equipment_id"`
	In          *time.Time       `json:"in,omitempty"`
	Out         *time.Time       `json:"out,omitempty"`
	Temperature *decimal.Decimal `json:"temperature,omitempty"`
	TempUnit    string           `json:"temp_unit,omitempty"`
}

// ResultResponse resultado con su conformidad (null = no evaluado).
type ResultResponse struct {
	ID           string           `json:"id"`
	AnalysisID   string           `json:"analysis_id"`
	ReportedAt   time.Time        `json:"reported_at"`
	OperatorID   string           `json:"operator_id"`
	Value        string           `json:"value"`
	NumericValue *decimal.Decimal `json:"numeric_value,omitempty"`
	Unit         string           `json:"unit,omitempty"`
	Conforms     *bool            `json:"conforms"`
	Observation  string           `json:"observation,omitempty"`
}

// MediaUsageResponse uso de un lote de medio en un análisis.
type MediaUsageResponse struct {
	ID         string `json:"id"`
	AnalysisID string `json:"analysis_id"`
	BatchID    string `json:"batch_id"`
}

// ApprovalResponse revisión QC de un lote de medio.
type ApprovalResponse struct {
	ID          string    `json:"id"`
	BatchID     string    `json:"batch_id"`
	QCStateID   string    `json:"qc_state_id"`
	Date        time.Time `json:"date"`
	OperatorID  string    `json:"operator_id"`
	Observation string    `json:"observation,omitempty"`
}
