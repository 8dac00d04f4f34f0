package entity

import "github.com/shopspring/decimal"

// Tipos de límite de una especificación.
const (
	LimitRange = "RANGO"
	LimitMin   = "MINIMO"
	LimitMax   = "MAXIMO"
	LimitText  = "TEXTO"
)

// Specification límite de un parámetro para un producto. Min/Max son opcionales.
type Specification struct {
	ID        string
	ProductID string
	Parameter string
	LimitType string
	Min       *decimal.Decimal
	Max       *decimal.Decimal
	Unit      string
	Active    bool
}
