package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// MediaPreparationOrder orden de preparación de un medio de cultivo.
type MediaPreparationOrder struct {
	ID           string
	MediaTypeID  string
	Lot          string
	TotalVolume  decimal.Decimal
	VolumeUnit   string
	OperatorID   string
	CreatedAt    time.Time
	Consumptions []*PowderConsumption
	Batch        *PreparedMediaBatch
}

// PowderConsumption consumo de stock de polvo por una orden de preparación.
type PowderConsumption struct {
	ID       string
	StockID  string
	OrderID  string
	Quantity decimal.Decimal
	Unit     string
}

// PreparedMediaBatch lote de medio preparado producido por una orden; nace en QC Pendiente.
type PreparedMediaBatch struct {
	ID          string
	OrderID     string
	InternalLot string
	Expires     time.Time
	QCStateID   string
}

// MediaApproval revisión QC de un lote de medio preparado.
type MediaApproval struct {
	ID          string
	BatchID     string
	QCStateID   string
	Date        time.Time
	OperatorID  string
	Observation string
}
