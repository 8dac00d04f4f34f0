package dto

import (
	"time"

	"github.com/shopspring/decimal"
)

// ReceiveLotRequest body para POST /api/inventory/lots.
type ReceiveLotRequest struct {
	PowderTypeID string          `json:"powder_type_id"`
	SupplierLot  string          `json:"supplier_lot"`
	Expires      time.Time       `json:"expires"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
}

// PowderLotResponse lote recibido con su saldo.
type PowderLotResponse struct {
	ID           string          `json:"id"`
	PowderTypeID string          `json:"powder_type_id"`
	SupplierLot  string          `json:"supplier_lot"`
	Expires      time.Time       `json:"expires"`
	Quantity     decimal.Decimal `json:"quantity"`
	Unit         string          `json:"unit"`
	ReceivedBy   string          `json:"received_by"`
	ReceivedAt   time.Time       `json:"received_at"`
	Stock        StockResponse   `json:"stock"`
}

// StockResponse saldo de un lote.
type StockResponse struct {
	ID        string          `json:"id"`
	LotID     string          `json:"lot_id"`
	Quantity  decimal.Decimal `json:"quantity"`
	UpdatedAt time.Time       `json:"updated_at"`
}

// ConsumptionRequest una línea de consumo.
type ConsumptionRequest struct {
	StockID  string          `json:"stock_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// PrepareMediaRequest body para POST /api/inventory/preparations.
type PrepareMediaRequest struct {
	MediaTypeID  string               `json:"media_type_id"`
	Lot          string               `json:"lot"`
	TotalVolume  decimal.Decimal      `json:"total_volume"`
	VolumeUnit   string               `json:"volume_unit"`
	InternalLot  string               `json:"internal_lot,omitempty"`
	Expires      *time.Time           `json:"expires,omitempty"`
	Consumptions []ConsumptionRequest `json:"consumptions"`
}

// ConsumptionResponse consumo registrado.
type ConsumptionResponse struct {
	ID       string          `json:"id"`
	StockID  string          `json:"stock_id"`
	Quantity decimal.Decimal `json:"quantity"`
	Unit     string          `json:"unit"`
}

// MediaBatchResponse lote de medio preparado.
type MediaBatchResponse struct {
	ID          string    `json:"id"`
	OrderID     string    `json:"order_id"`
	InternalLot string    `json:"internal_lot"`
	Expires     time.Time `json:"expires"`
	QCStateID   string    `json:"qc_state_id"`
}

// PreparationResponse orden de preparación con consumos y lote.
type PreparationResponse struct {
	ID           string                `json:"id"`
	MediaTypeID  string                `json:"media_type_id"`
	Lot          string                `json:"lot"`
	TotalVolume  decimal.Decimal       `json:"total_volume"`
	VolumeUnit   string                `json:"volume_unit"`
	OperatorID   string                `json:"operator_id"`
	CreatedAt    time.Time             `json:"created_at"`
	Consumptions []ConsumptionResponse `json:"consumptions"`
	Batch        *MediaBatchResponse   `json:"batch,omitempty"`
}

// ReviewBatchRequest body para POST /api/inventory/batches/:id/review.
type ReviewBatchRequest struct {
	QCStateID   string `json:"qc_state_id"`
	Observation string `json:"observation"`
}

// InsufficientStockResponse detalle del ítem que no alcanza (409).
type InsufficientStockResponse struct {
	Code      string          `json:"code"`
	Message   string          `json:"message"`
	StockID   string          `json:"stock_id"`
	Requested decimal.Decimal `json:"requested"`
	Available decimal.Decimal `json:"available"`
}
