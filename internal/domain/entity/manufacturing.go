package entity

import (
	"time"

	"github.com/shopspring/decimal"
)

// ManufacturingOrder orden de manufactura de un lote de producto.
type ManufacturingOrder struct {
	ID         string
	Code       string // único
	Lot        string
	Date       time.Time
	ProductID  string
	Quantity   decimal.Decimal
	Unit       string
	OperatorID string
	CreatedAt  time.Time
}

// ManufacturingProcess etapa de proceso de una orden, con estado propio.
type ManufacturingProcess struct {
	ID          string
	OrderID     string
	StartedAt   *time.Time
	FinishedAt  *time.Time
	StateID     string
	Observation string
	CreatedAt   time.Time
}
