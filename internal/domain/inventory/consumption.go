package inventory

import (
	"sort"

	"github.com/shopspring/decimal"
)

// Demand cantidad total solicitada a un ítem de stock dentro de una preparación.
type Demand struct {
	StockID  string
	Quantity decimal.Decimal
}

// Line línea de consumo tal como la envía el operario.
type Line struct {
	StockID  string
	Quantity decimal.Decimal
}

// Aggregate suma las líneas por ítem de stock y devuelve la demanda ordenada por StockID.
// El orden fijo es el orden de bloqueo de filas, así dos preparaciones concurrentes
// no se bloquean mutuamente.
func Aggregate(lines []Line) []Demand {
	totals := make(map[string]decimal.Decimal, len(lines))
	for _, l := range lines {
		totals[l.StockID] = totals[l.StockID].Add(l.Quantity)
	}
	out := make([]Demand, 0, len(totals))
	for id, q := range totals {
		out = append(out, Demand{StockID: id, Quantity: q})
	}
	sort.Slice(out, func(i, j int) bool { return out[i].StockID < out[j].StockID })
	return out
}

// Sufficient indica si available cubre requested. Igual al disponible se permite (deja el lote en cero).
func Sufficient(available, requested decimal.Decimal) bool {
	return !available.LessThan(requested)
}

// QuantityScale decimales que persiste el ledger de stock (NUMERIC(18,4)).
const QuantityScale = 4

// FitsScale indica si q se guarda sin redondeo. Ceros a la derecha no cuentan.
func FitsScale(q decimal.Decimal) bool {
	return q.Equal(q.Truncate(QuantityScale))
}
