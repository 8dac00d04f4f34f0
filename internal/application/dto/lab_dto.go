package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ChangeStateRequest body común para PUT .../:id/state. state_id tiene prioridad;
// state_name se busca en el catálogo del tipo sin distinguir mayúsculas.
type ChangeStateRequest struct {
	StateID   string `json:"state_id"`
	StateName string `json:"state_name,omitempty"`
}

// HistoryResponse registro de histórico de estados.
type HistoryResponse struct {
	ID          int64     `json:"id"`
	StateID     string    `json:"state_id"`
	StateName   string    `json:"state_name,omitempty"`
	ActorID     string    `json:"actor_id"`
	Date        time.Time `json:"date"`
	Observation string    `json:"observation,omitempty"`
}

// CreateEquipmentRequest body para POST /api/equipment.
type CreateEquipmentRequest struct {
	Code    string `json:"code"`
	Name    string `json:"name"`
	TypeID  string `json:"type_id"`
	AreaID  string `json:"area_id"`
	StateID string `json:"state_id"`
}

// CalibrationRequest body para POST /api/equipment/:id/calibrations.
type CalibrationRequest struct {
	Type    string     `json:"type"`
	Date    time.Time  `json:"date"`
	Expires *time.Time `json:"expires,omitempty"`
}

// CreateOrderRequest body para POST /api/manufacturing/orders.
type CreateOrderRequest struct {
	Code      string          `json:"code"`
	Lot       string          `json:"lot"`
	Date      time.Time       `json:"date"`
	ProductID string          `json:"product_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	Unit      string          `json:"unit"`
}

// CreateProcessRequest body para POST /api/manufacturing/orders/:id/processes.
type CreateProcessRequest struct {
	StartedAt   *time.Time `json:"started_at,omitempty"`
	FinishedAt  *time.Time `json:"finished_at,omitempty"`
	StateID     string     `json:"state_id"`
	Observation string     `json:"observation"`
}

// CreateSamplingRequest body para POST /api/sampling/requests.
type CreateSamplingRequest struct {
	Type            string  `json:"type"`
	OrderID         *string `json:"order_id,omitempty"`
	EquipmentID     *string `json:"equipment_id,omitempty"`
	SamplingPointID *string `json:"sampling_point_id,omitempty"`
	OperatorID      *string `json:"operator_id,omitempty"`
	StateID         string  `json:"state_id"`
	Observation     string  `json:"observation"`
}

// SampleRequest una muestra dentro de una sesión.
type SampleRequest struct {
	SamplingPointID *string `json:"sampling_point_id,omitempty"`
	EquipmentZoneID *string `json:"equipment_zone_id,omitempty"`
	SampledOperator *string `json:"sampled_operator_id,omitempty"`
	Type            string  `json:"type"`
	Label           string  `json:"label"`
	Observation     string  `json:"observation"`
}

// SessionRequest body para POST /api/sampling/requests/:id/sessions.
type SessionRequest struct {
	StartedAt  *time.Time      `json:"started_at,omitempty"`
	FinishedAt *time.Time      `json:"finished_at,omitempty"`
	Samples    []SampleRequest `json:"samples"`
}

// ShipmentRequest body para POST /api/sampling/shipments.
type ShipmentRequest struct {
	SampleID    string    `json:"sample_id"`
	Date        time.Time `json:"date"`
	Destination string    `json:"destination"`
}

// ReceptionRequest body para POST /api/sampling/receptions.
type ReceptionRequest struct {
	ShipmentID  string `json:"shipment_id"`
	ReceivedAt  string `json:"received_at"`
	Decision    string `json:"decision"`
	Observation string `json:"observation"`
}

// CreateAnalysisRequest body para POST /api/analysis.
type CreateAnalysisRequest struct {
	SampleID        string     `json:"sample_id"`
	ReceptionID     string     `json:"reception_id"`
	MethodVersionID string     `json:"method_version_id"`
	SpecificationID *string    `json:"specification_id,omitempty"`
	StateID         string     `json:"state_id"`
	StartedAt       *time.Time `json:"started_at,omitempty"`
}

// IncubationRequest body para POST /api/analysis/:id/incubations.
type IncubationRequest struct {
	EquipmentID string           `json:"equipment_id"`
	In          *time.Time       `json:"in,omitempty"`
	Out         *time.Time       `json:"out,omitempty"`
	Temperature *decimal.Decimal `json:"temperature,omitempty"`
	TempUnit    string           `json:"temp_unit"`
}

// ResultRequest body para POST /api/analysis/:id/results.
type ResultRequest struct {
	Value       string `json:"value"`
	Unit        string `json:"unit"`
	Observation string `json:"observation"`
}

// EvaluateRequest body para POST /api/analysis/:id/evaluate.
type EvaluateRequest struct {
	Value string `json:"value"`
}

// EvaluateResponse flag de conformidad (null si no aplica).
type EvaluateResponse struct {
	Conforms *bool `json:"conforms"`
}

// MediaUsageRequest body para POST /api/analysis/:id/media.
type MediaUsageRequest struct {
	BatchID string `json:"batch_id"`
}

// RenameStateRequest body para PUT /api/catalogs/:kind/:id.
type RenameStateRequest struct {
	Name string `json:"name"`
}

// CatalogStateResponse estado de catálogo.
type CatalogStateResponse struct {
	ID   string `json:"id"`
	Kind string `json:"kind"`
	Name string `json:"name"`
}
