package traceability_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/manufacturing"
	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/application/traceability"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Second)
	return c.t
}

type stubPDF struct {
	report *traceability.OrderReport
	err    error
}

func (g *stubPDF) GenerateOrderReportPDF(_ context.Context, r *traceability.OrderReport) ([]byte, error) {
	g.report = r
	if g.err != nil {
		return nil, g.err
	}
	return []byte("%PDF-1.4"), nil
}

type fixture struct {
	store         *memory.Store
	manufacturing *manufacturing.UseCase
	catalog       *catalog.UseCase
	trace         *traceability.UseCase
	pdf           *stubPDF
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	store.SeedDefaultCatalogs()
	repos := store.Repos()
	clock := &stepClock{t: time.Date(2024, 8, 1, 6, 0, 0, 0, time.UTC)}
	engine := statemachine.NewEngine(store, repos.States, repos.History, clock, nil, nil, zerolog.Nop())
	cat := catalog.NewUseCase(store, repos.Catalog, nil, clock, zerolog.Nop())
	pdf := &stubPDF{}
	return &fixture{
		store:         store,
		manufacturing: manufacturing.NewUseCase(store, repos.Manufacturing, engine),
		catalog:       cat,
		trace:         traceability.NewUseCase(repos.Manufacturing, repos.History, cat, pdf, clock),
		pdf:           pdf,
	}
}

func mfg(name string) string { return entity.SeedStateID(entity.KindManufacturing, name) }

func (f *fixture) order(t *testing.T, code string) *entity.ManufacturingOrder {
	t.Helper()
	o, err := f.manufacturing.CreateOrder(context.Background(), manufacturing.OrderInput{
		Code: code, Lot: "L-" + code, ProductID: "crema-base", Quantity: decimal.NewFromInt(200), Unit: "kg",
	}, "u-jefe")
	require.NoError(t, err)
	return o
}

func (f *fixture) process(t *testing.T, orderID string, started *time.Time) *entity.ManufacturingProcess {
	t.Helper()
	p, err := f.manufacturing.CreateProcess(context.Background(), manufacturing.ProcessInput{
		OrderID: orderID, StartedAt: started, StateID: mfg("Pendiente"),
	}, "u-operario")
	require.NoError(t, err)
	return p
}

func TestProcessesForOrder_OrdenadosPorInicio(t *testing.T) {
	f := newFixture(t)
	o := f.order(t, "OM-1")
	t2 := time.Date(2024, 8, 2, 0, 0, 0, 0, time.UTC)
	t1 := t2.Add(-time.Hour)
	late := f.process(t, o.ID, &t2)
	early := f.process(t, o.ID, &t1)
	unstarted := f.process(t, o.ID, nil)

	views, err := f.trace.ProcessesForOrder(context.Background(), o.ID)
	require.NoError(t, err)
	require.Len(t, views, 3)
	assert.Equal(t, early.ID, views[0].Process.ID)
	assert.Equal(t, late.ID, views[1].Process.ID)
	assert.Equal(t, unstarted.ID, views[2].Process.ID)
	assert.Equal(t, "Pendiente", views[0].StateName)
}

func TestProcessesForOrder_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.trace.ProcessesForOrder(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestHistoryForProcess_NombresVigentes(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, "OM-2")
	p := f.process(t, o.ID, nil)
	_, err := f.manufacturing.ChangeState(ctx, p.ID, mfg("En proceso"), "u-operario")
	require.NoError(t, err)
	_, err = f.manufacturing.ChangeState(ctx, p.ID, mfg("Terminado"), "u-operario")
	require.NoError(t, err)

	_, err = f.catalog.Rename(ctx, entity.KindManufacturing, mfg("En proceso"), "En ejecución", "u-admin")
	require.NoError(t, err)

	hist, err := f.trace.HistoryForProcess(ctx, p.ID)
	require.NoError(t, err)
	require.Len(t, hist, 3)
	assert.Equal(t, "Pendiente", hist[0].StateName)
	assert.Equal(t, "En ejecución", hist[1].StateName)
	assert.Equal(t, "Terminado", hist[2].StateName)
	for i := 1; i < len(hist); i++ {
		assert.True(t, hist[i].Record.Date.After(hist[i-1].Record.Date))
	}

	_, err = f.trace.HistoryForProcess(ctx, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestOrderReportPDF(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	o := f.order(t, "OM-3")
	p := f.process(t, o.ID, nil)
	_, err := f.manufacturing.ChangeState(ctx, p.ID, mfg("En proceso"), "u-operario")
	require.NoError(t, err)

	data, name, err := f.trace.OrderReportPDF(ctx, o.ID)
	require.NoError(t, err)
	assert.Equal(t, "trazabilidad_OM-3_L-OM-3.pdf", name)
	assert.NotEmpty(t, data)
	require.NotNil(t, f.pdf.report)
	require.Len(t, f.pdf.report.Processes, 1)
	assert.Len(t, f.pdf.report.Processes[0].History, 2)
	assert.Equal(t, "En proceso", f.pdf.report.Processes[0].StateName)

	f.pdf.err = errors.New("fuente no encontrada")
	_, _, err = f.trace.OrderReportPDF(ctx, o.ID)
	assert.Error(t, err)
}

func TestCreateProcess_OrdenInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.manufacturing.CreateProcess(context.Background(), manufacturing.ProcessInput{OrderID: "nada", StateID: mfg("Pendiente")}, "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, 0, f.store.HistoryCount())
}

func TestCreateOrder_CodigoDuplicado(t *testing.T) {
	f := newFixture(t)
	f.order(t, "OM-4")
	_, err := f.manufacturing.CreateOrder(context.Background(), manufacturing.OrderInput{
		Code: "OM-4", Lot: "otro", ProductID: "p", Quantity: decimal.NewFromInt(1), Unit: "kg",
	}, "u-jefe")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}
