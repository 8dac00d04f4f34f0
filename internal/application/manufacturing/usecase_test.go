package manufacturing_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/manufacturing"
	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

var hoy = time.Date(2024, 9, 2, 6, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*manufacturing.UseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.SeedDefaultCatalogs()
	repos := store.Repos()
	engine := statemachine.NewEngine(store, repos.States, repos.History, fixedClock{hoy}, nil, nil, zerolog.Nop())
	return manufacturing.NewUseCase(store, repos.Manufacturing, engine), store
}

func pending() string {
	return entity.SeedStateID(entity.KindManufacturing, "Pendiente")
}

func TestCreateOrder_FechaPorDefectoYAuditoria(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	o, err := uc.CreateOrder(ctx, manufacturing.OrderInput{
		Code: "OM-10", Lot: "L-10", ProductID: "crema", Quantity: decimal.NewFromInt(50), Unit: "kg",
	}, "u-jefe")
	require.NoError(t, err)
	assert.True(t, o.Date.Equal(hoy))
	assert.Equal(t, "u-jefe", o.OperatorID)

	got, err := uc.GetOrder(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "L-10", got.Lot)

	entries, err := store.Repos().Audit.ListByRecord(ctx, "manufacturing_orders", o.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditCreate, entries[0].Action)
}

func TestCreateOrder_Validaciones(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	base := manufacturing.OrderInput{Code: "OM-1", Lot: "L-1", ProductID: "p", Quantity: decimal.NewFromInt(1), Unit: "kg"}

	cases := map[string]func(in *manufacturing.OrderInput){
		"sin codigo":     func(in *manufacturing.OrderInput) { in.Code = "" },
		"sin lote":       func(in *manufacturing.OrderInput) { in.Lot = "" },
		"sin producto":   func(in *manufacturing.OrderInput) { in.ProductID = "" },
		"sin unidad":     func(in *manufacturing.OrderInput) { in.Unit = "" },
		"cantidad cero":  func(in *manufacturing.OrderInput) { in.Quantity = decimal.Zero },
		"cantidad menor": func(in *manufacturing.OrderInput) { in.Quantity = decimal.NewFromInt(-3) },
	}
	for name, mutate := range cases {
		t.Run(name, func(t *testing.T) {
			in := base
			mutate(&in)
			_, err := uc.CreateOrder(ctx, in, "u-1")
			assert.ErrorIs(t, err, domain.ErrInvalidInput)
		})
	}

	_, err := uc.CreateOrder(ctx, base, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestCreateProcess_HistorialInicialYFechas(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	o, err := uc.CreateOrder(ctx, manufacturing.OrderInput{
		Code: "OM-20", Lot: "L-20", ProductID: "gel", Quantity: decimal.NewFromInt(5), Unit: "kg",
	}, "u-jefe")
	require.NoError(t, err)

	inicio := hoy.Add(time.Hour)
	fin := hoy
	_, err = uc.CreateProcess(ctx, manufacturing.ProcessInput{
		OrderID: o.ID, StartedAt: &inicio, FinishedAt: &fin, StateID: pending(),
	}, "u-operario")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.Equal(t, 0, store.HistoryCount())

	p, err := uc.CreateProcess(ctx, manufacturing.ProcessInput{OrderID: o.ID, StartedAt: &inicio, StateID: pending()}, "u-operario")
	require.NoError(t, err)

	hist, err := uc.History(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, pending(), hist[0].StateID)

	entries, err := store.Repos().Audit.ListByRecord(ctx, "manufacturing_processes", p.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditCreate, entries[0].Action)
	assert.Equal(t, "u-operario", entries[0].ActorID)

	got, err := uc.ChangeState(ctx, p.ID, entity.SeedStateID(entity.KindManufacturing, "En proceso"), "u-operario")
	require.NoError(t, err)
	assert.Equal(t, entity.SeedStateID(entity.KindManufacturing, "En proceso"), got.StateID)
}

func TestGetProcess_Inexistente(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.GetProcess(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	_, err = uc.GetOrder(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
