// Package conformance evalúa un valor numérico contra los límites de una especificación.
package conformance

import (
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// Evaluate devuelve el flag de conformidad: nil si no hay especificación o valor numérico.
// El mínimo se verifica antes que el máximo.
func Evaluate(spec *entity.Specification, value *decimal.Decimal) *bool {
	if spec == nil || value == nil {
		return nil
	}
	ok := true
	switch {
	case spec.Min != nil && value.LessThan(*spec.Min):
		ok = false
	case spec.Max != nil && value.GreaterThan(*spec.Max):
		ok = false
	}
	return &ok
}

// Reason describe qué límite falló ("min", "max") o "" si el valor conforma o no se evaluó.
func Reason(spec *entity.Specification, value *decimal.Decimal) string {
	if spec == nil || value == nil {
		return ""
	}
	if spec.Min != nil && value.LessThan(*spec.Min) {
		return "min"
	}
	if spec.Max != nil && value.GreaterThan(*spec.Max) {
		return "max"
	}
	return ""
}
