package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// PowderLot recepción de un lote de polvo o suplemento. Inmutable: los consumos
// se reflejan en StockBalance, nunca en Quantity.
type PowderLot struct {
	ID           string
	PowderTypeID string
	SupplierLot  string
	Expires      time.Time
	Quantity     decimal.Decimal
	Unit         string
	ReceivedBy   string
	ReceivedAt   time.Time
}

// StockBalance cantidad remanente de un PowderLot (1:1). Nunca negativa.
type StockBalance struct {
	ID        string
	LotID     string
	Quantity  decimal.Decimal
	UpdatedAt time.Time
}
