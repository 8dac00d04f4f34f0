package inventory_test

import (
	"testing"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/domain/inventory"
)

func TestAggregate_SumaYOrdena(t *testing.T) {
	lines := []inventory.Line{
		{StockID: "s-c", Quantity: decimal.RequireFromString("1.5")},
		{StockID: "s-a", Quantity: decimal.RequireFromString("2")},
		{StockID: "s-c", Quantity: decimal.RequireFromString("0.25")},
		{StockID: "s-b", Quantity: decimal.RequireFromString("3")},
	}

	got := inventory.Aggregate(lines)

	require.Len(t, got, 3)
	assert.Equal(t, "s-a", got[0].StockID)
	assert.Equal(t, "s-b", got[1].StockID)
	assert.Equal(t, "s-c", got[2].StockID)
	assert.True(t, got[2].Quantity.Equal(decimal.RequireFromString("1.75")))
}

func TestAggregate_Vacio(t *testing.T) {
	assert.Empty(t, inventory.Aggregate(nil))
}

func TestSufficient(t *testing.T) {
	ten := decimal.NewFromInt(10)
	assert.True(t, inventory.Sufficient(ten, decimal.NewFromInt(10)))
	assert.True(t, inventory.Sufficient(ten, decimal.RequireFromString("9.999")))
	assert.False(t, inventory.Sufficient(ten, decimal.RequireFromString("10.001")))
	assert.False(t, inventory.Sufficient(decimal.Zero, decimal.NewFromInt(1)))
}

func TestFitsScale(t *testing.T) {
	cases := map[string]bool{
		"10":       true,
		"0.0001":   true,
		"2.50000":  true,
		"0.00005":  false,
		"1.123456": false,
		"-3.14159": false,
	}
	for in, want := range cases {
		assert.Equal(t, want, inventory.FitsScale(decimal.RequireFromString(in)), in)
	}
}
