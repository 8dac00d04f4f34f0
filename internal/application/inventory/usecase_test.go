package inventory_test

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

	"github.com/jhoicas/lims-api/internal/application/inventory"
	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

type countingMetrics struct {
	mu       sync.Mutex
	outcomes map[string]int
}

func (m *countingMetrics) StateChanged(string) {}
func (m *countingMetrics) MediaPrepared(outcome string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.outcomes[outcome]++
}
func (m *countingMetrics) ResultEvaluated(*bool) {}

var now = time.Date(2024, 5, 10, 9, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*inventory.UseCase, *memory.Store, *countingMetrics) {
	t.Helper()
	store := memory.New()
	store.SeedDefaultCatalogs()
	repos := store.Repos()
	metrics := &countingMetrics{outcomes: make(map[string]int)}
	uc := inventory.NewUseCase(store, repos.Stock, repos.Media, fixedClock{now}, nil, metrics, zerolog.Nop())
	return uc, store, metrics
}

func receive(t *testing.T, uc *inventory.UseCase, supplierLot, qty string, expires time.Time) *entity.StockBalance {
	t.Helper()
	_, bal, err := uc.ReceiveLot(context.Background(), inventory.LotInput{
		PowderTypeID: "agar-tsa",
		SupplierLot:  supplierLot,
		Expires:      expires,
		Quantity:     decimal.RequireFromString(qty),
		Unit:         "g",
	}, "u-bodega")
	require.NoError(t, err)
	return bal
}

func preparation(lines ...inventory.ConsumptionInput) inventory.PreparationInput {
	return inventory.PreparationInput{
		MediaTypeID:  "medio-tsa",
		Lot:          "MP-2405-01",
		TotalVolume:  decimal.NewFromInt(500),
		VolumeUnit:   "mL",
		Consumptions: lines,
	}
}

func line(stockID, qty string) inventory.ConsumptionInput {
	return inventory.ConsumptionInput{StockID: stockID, Quantity: decimal.RequireFromString(qty), Unit: "g"}
}

func remaining(t *testing.T, uc *inventory.UseCase, lotID string) decimal.Decimal {
	t.Helper()
	bal, err := uc.GetStock(context.Background(), lotID)
	require.NoError(t, err)
	return bal.Quantity
}

func TestPrepareMedia_StockInsuficiente(t *testing.T) {
	uc, store, metrics := setup(t)
	bal := receive(t, uc, "L-100", "10.0", now.AddDate(1, 0, 0))

	_, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "15.0")), "u-operario")

	require.ErrorIs(t, err, domain.ErrInsufficientStock)
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, bal.ID, short.StockID)
	assert.True(t, short.Requested.Equal(decimal.RequireFromString("15")))
	assert.True(t, short.Available.Equal(decimal.RequireFromString("10")))
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.RequireFromString("10")))
	assert.Equal(t, 0, store.MediaOrderCount())
	assert.Equal(t, 1, metrics.outcomes[ports.OutcomeInsufficientStock])
}

func TestPrepareMedia_ConsumeExacto(t *testing.T) {
	uc, store, metrics := setup(t)
	bal := receive(t, uc, "L-101", "10.0", now.AddDate(1, 0, 0))

	order, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "10.0")), "u-operario")
	require.NoError(t, err)

	assert.True(t, remaining(t, uc, bal.LotID).IsZero())
	require.NotNil(t, order.Batch)
	assert.Equal(t, entity.SeedStateID(entity.KindQC, entity.QCStatePending), order.Batch.QCStateID)
	assert.Equal(t, order.Lot, order.Batch.InternalLot)
	require.Len(t, order.Consumptions, 1)
	assert.Equal(t, 1, store.MediaOrderCount())
	assert.Equal(t, 1, metrics.outcomes[ports.OutcomeOK])

	got, err := uc.GetOrder(context.Background(), order.ID)
	require.NoError(t, err)
	assert.Len(t, got.Consumptions, 1)
	require.NotNil(t, got.Batch)
	assert.Equal(t, order.Batch.ID, got.Batch.ID)
}

func TestPrepareMedia_TodoONada(t *testing.T) {
	uc, store, _ := setup(t)
	a := receive(t, uc, "L-200", "10", now.AddDate(1, 0, 0))
	b := receive(t, uc, "L-201", "2", now.AddDate(1, 0, 0))
	auditBefore := store.AuditCount()

	_, err := uc.PrepareMedia(context.Background(), preparation(line(a.ID, "5"), line(b.ID, "3")), "u-operario")
	require.ErrorIs(t, err, domain.ErrInsufficientStock)

	assert.True(t, remaining(t, uc, a.LotID).Equal(decimal.NewFromInt(10)))
	assert.True(t, remaining(t, uc, b.LotID).Equal(decimal.NewFromInt(2)))
	assert.Equal(t, 0, store.MediaOrderCount())
	assert.Equal(t, auditBefore, store.AuditCount())
}

func TestPrepareMedia_LineasRepetidasSeSuman(t *testing.T) {
	uc, _, _ := setup(t)
	bal := receive(t, uc, "L-300", "10", now.AddDate(1, 0, 0))

	_, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "6"), line(bal.ID, "6")), "u-operario")
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.True(t, short.Requested.Equal(decimal.NewFromInt(12)))
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.NewFromInt(10)))

	order, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "4"), line(bal.ID, "5.5")), "u-operario")
	require.NoError(t, err)
	assert.Len(t, order.Consumptions, 2)
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.RequireFromString("0.5")))
}

func TestPrepareMedia_StockInexistente(t *testing.T) {
	uc, _, _ := setup(t)

	_, err := uc.PrepareMedia(context.Background(), preparation(line("no-existe", "1")), "u-operario")
	var short *domain.InsufficientStockError
	require.ErrorAs(t, err, &short)
	assert.Equal(t, "no-existe", short.StockID)
	assert.True(t, short.Available.IsZero())
}

func TestPrepareMedia_VencimientoDelPrimerLote(t *testing.T) {
	uc, _, _ := setup(t)
	early := now.AddDate(0, 2, 0)
	a := receive(t, uc, "L-400", "10", now.AddDate(1, 0, 0))
	b := receive(t, uc, "L-401", "10", early)

	order, err := uc.PrepareMedia(context.Background(), preparation(line(a.ID, "1"), line(b.ID, "1")), "u-operario")
	require.NoError(t, err)
	assert.True(t, order.Batch.Expires.Equal(early))

	explicit := now.AddDate(0, 0, 15)
	in := preparation(line(a.ID, "1"))
	in.Lot = "MP-2405-02"
	in.InternalLot = "INT-7"
	in.Expires = &explicit
	order, err = uc.PrepareMedia(context.Background(), in, "u-operario")
	require.NoError(t, err)
	assert.True(t, order.Batch.Expires.Equal(explicit))
	assert.Equal(t, "INT-7", order.Batch.InternalLot)
}

func TestPrepareMedia_FallaDePersistenciaRevierte(t *testing.T) {
	uc, store, metrics := setup(t)
	bal := receive(t, uc, "L-500", "10", now.AddDate(1, 0, 0))

	store.FailOn("Media.CreateBatch", errors.New("conexión perdida"))
	_, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "3")), "u-operario")
	store.ClearFailures()

	require.Error(t, err)
	assert.NotErrorIs(t, err, domain.ErrInsufficientStock)
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 0, store.MediaOrderCount())
	assert.Equal(t, 1, metrics.outcomes[ports.OutcomeError])
}

func TestPrepareMedia_Validaciones(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.PrepareMedia(ctx, preparation(), "u-operario")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.PrepareMedia(ctx, preparation(line("s-1", "0")), "u-operario")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.PrepareMedia(ctx, preparation(line("s-1", "-2")), "u-operario")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = uc.PrepareMedia(ctx, preparation(line("s-1", "1")), "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestPrepareMedia_MasDecimalesQueElLedger(t *testing.T) {
	uc, store, _ := setup(t)
	bal := receive(t, uc, "L-650", "10", now.AddDate(1, 0, 0))

	_, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "0.00005")), "u-operario")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 0, store.MediaOrderCount())

	_, err = uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "2.50000")), "u-operario")
	require.NoError(t, err)
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.RequireFromString("7.5")))
}

func TestPrepareMedia_Concurrente(t *testing.T) {
	uc, store, _ := setup(t)
	bal := receive(t, uc, "L-600", "10", now.AddDate(1, 0, 0))

	const workers = 8
	var wg sync.WaitGroup
	var mu sync.Mutex
	var ok, short int
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := uc.PrepareMedia(context.Background(), preparation(line(bal.ID, "3")), "u-operario")
			mu.Lock()
			defer mu.Unlock()
			switch {
			case err == nil:
				ok++
			case errors.Is(err, domain.ErrInsufficientStock):
				short++
			default:
				t.Errorf("error inesperado: %v", err)
			}
		}()
	}
	wg.Wait()

	assert.Equal(t, 3, ok)
	assert.Equal(t, workers-3, short)
	assert.True(t, remaining(t, uc, bal.LotID).Equal(decimal.NewFromInt(1)))
	assert.Equal(t, 3, store.MediaOrderCount())
}

func TestReceiveLot_Duplicado(t *testing.T) {
	uc, _, _ := setup(t)
	receive(t, uc, "L-700", "5", now.AddDate(1, 0, 0))

	_, _, err := uc.ReceiveLot(context.Background(), inventory.LotInput{
		PowderTypeID: "agar-tsa",
		SupplierLot:  "L-700",
		Expires:      now.AddDate(1, 0, 0),
		Quantity:     decimal.NewFromInt(5),
		Unit:         "g",
	}, "u-bodega")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
}

func TestReceiveLot_CantidadInvalida(t *testing.T) {
	uc, _, _ := setup(t)
	_, _, err := uc.ReceiveLot(context.Background(), inventory.LotInput{
		PowderTypeID: "agar-tsa",
		SupplierLot:  "L-701",
		Expires:      now.AddDate(1, 0, 0),
		Quantity:     decimal.Zero,
		Unit:         "g",
	}, "u-bodega")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, _, err = uc.ReceiveLot(context.Background(), inventory.LotInput{
		PowderTypeID: "agar-tsa",
		SupplierLot:  "L-702",
		Expires:      now.AddDate(1, 0, 0),
		Quantity:     decimal.RequireFromString("12.34567"),
		Unit:         "g",
	}, "u-bodega")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestReviewBatch_ApruebaYAudita(t *testing.T) {
	uc, store, _ := setup(t)
	ctx := context.Background()
	bal := receive(t, uc, "L-800", "10", now.AddDate(1, 0, 0))
	order, err := uc.PrepareMedia(ctx, preparation(line(bal.ID, "2")), "u-operario")
	require.NoError(t, err)

	approved := entity.SeedStateID(entity.KindQC, entity.QCStateApproved)
	approval, err := uc.ReviewBatch(ctx, order.Batch.ID, approved, "u-qa", "promoción de crecimiento OK")
	require.NoError(t, err)
	assert.Equal(t, approved, approval.QCStateID)

	batch, err := uc.GetBatchForOrder(ctx, order.ID)
	require.NoError(t, err)
	assert.Equal(t, approved, batch.QCStateID)

	approvals := store.Approvals(order.Batch.ID)
	require.Len(t, approvals, 1)
	assert.Equal(t, "u-qa", approvals[0].OperatorID)

	entries, err := store.Repos().Audit.ListByRecord(ctx, "prepared_media_batches", order.Batch.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditUpdate, entries[1].Action)
	assert.Equal(t, approved, *entries[1].NewValue)
}

func TestReviewBatch_EstadoInvalidoOLoteInexistente(t *testing.T) {
	uc, _, _ := setup(t)
	ctx := context.Background()

	_, err := uc.ReviewBatch(ctx, "lote-x", "no-es-qc", "u-qa", "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ReviewBatch(ctx, "lote-x", entity.SeedStateID(entity.KindQC, entity.QCStateRejected), "u-qa", "")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestListConsumptions_OrdenInexistente(t *testing.T) {
	uc, _, _ := setup(t)
	_, err := uc.ListConsumptions(context.Background(), "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
