package memory_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

var at = time.Date(2024, 9, 1, 0, 0, 0, 0, time.UTC)

func seedStock(t *testing.T, store *memory.Store, qty int64) *entity.StockBalance {
	t.Helper()
	lot := &entity.PowderLot{ID: "lot-1", PowderTypeID: "agar", SupplierLot: "S-1", Expires: at.AddDate(1, 0, 0), Quantity: decimal.NewFromInt(qty), Unit: "g"}
	bal := &entity.StockBalance{ID: "stk-1", LotID: lot.ID, Quantity: lot.Quantity, UpdatedAt: at}
	err := store.Run(context.Background(), func(tx repository.Repos) error {
		if err := tx.Lots.Create(context.Background(), lot); err != nil {
			return err
		}
		return tx.Stock.Create(context.Background(), bal)
	})
	require.NoError(t, err)
	return bal
}

func TestRun_RollbackDescartaEscrituras(t *testing.T) {
	store := memory.New()
	bal := seedStock(t, store, 10)
	ctx := context.Background()
	boom := errors.New("boom")

	err := store.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Stock.Decrement(ctx, bal.ID, decimal.NewFromInt(4), at); err != nil {
			return err
		}
		if err := tx.Audit.Append(ctx, &entity.AuditEntry{Table: "x", RecordID: "y", Action: entity.AuditUpdate}); err != nil {
			return err
		}
		return boom
	})
	assert.ErrorIs(t, err, boom)

	got, err := store.Repos().Stock.Get(ctx, bal.ID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.Equal(decimal.NewFromInt(10)))
	assert.Equal(t, 0, store.AuditCount())
}

func TestRun_ContextoCancelado(t *testing.T) {
	store := memory.New()
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	called := false
	err := store.Run(ctx, func(repository.Repos) error {
		called = true
		return nil
	})
	assert.ErrorIs(t, err, context.Canceled)
	assert.False(t, called)
}

func TestStock_DecrementNuncaNegativo(t *testing.T) {
	store := memory.New()
	bal := seedStock(t, store, 3)
	ctx := context.Background()
	stock := store.Repos().Stock

	assert.ErrorIs(t, stock.Decrement(ctx, bal.ID, decimal.NewFromInt(4), at), domain.ErrInsufficientStock)
	assert.ErrorIs(t, stock.Decrement(ctx, "nada", decimal.NewFromInt(1), at), domain.ErrInsufficientStock)
	require.NoError(t, stock.Decrement(ctx, bal.ID, decimal.NewFromInt(3), at))

	got, err := stock.GetByLot(ctx, bal.LotID)
	require.NoError(t, err)
	assert.True(t, got.Quantity.IsZero())
}

func TestRepos_DevuelvenCopias(t *testing.T) {
	store := memory.New()
	bal := seedStock(t, store, 5)
	ctx := context.Background()

	got, err := store.Repos().Stock.Get(ctx, bal.ID)
	require.NoError(t, err)
	got.Quantity = decimal.NewFromInt(999)

	again, err := store.Repos().Stock.Get(ctx, bal.ID)
	require.NoError(t, err)
	assert.True(t, again.Quantity.Equal(decimal.NewFromInt(5)))
}

func TestFailOn(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	boom := errors.New("fallo inyectado")
	store.FailOn("Audit.Append", boom)

	err := store.Repos().Audit.Append(ctx, &entity.AuditEntry{Table: "t"})
	assert.ErrorIs(t, err, boom)

	store.ClearFailures()
	assert.NoError(t, store.Repos().Audit.Append(ctx, &entity.AuditEntry{Table: "t"}))
	assert.Equal(t, 1, store.AuditCount())
}

func TestCatalogo_SemillaYRenombre(t *testing.T) {
	store := memory.New()
	store.SeedDefaultCatalogs()
	ctx := context.Background()
	cat := store.Repos().Catalog

	st, err := cat.GetByName(ctx, entity.KindQC, "aprobado")
	require.NoError(t, err)
	require.NotNil(t, st)
	assert.Equal(t, entity.SeedStateID(entity.KindQC, entity.QCStateApproved), st.ID)

	assert.ErrorIs(t, cat.Rename(ctx, entity.KindQC, st.ID, entity.QCStateRejected), domain.ErrDuplicate)
	assert.ErrorIs(t, cat.Rename(ctx, entity.KindQC, "nada", "Otro"), domain.ErrNotFound)
	require.NoError(t, cat.Rename(ctx, entity.KindQC, st.ID, "Liberado"))

	got, err := cat.GetByID(ctx, entity.KindQC, st.ID)
	require.NoError(t, err)
	assert.Equal(t, "Liberado", got.Name)

	_, err = cat.List(ctx, entity.StateKind("otro"))
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestHistory_OrdenPorFechaEID(t *testing.T) {
	store := memory.New()
	ctx := context.Background()
	hist := store.Repos().History

	for _, d := range []time.Time{at.Add(time.Hour), at, at} {
		require.NoError(t, hist.Append(ctx, &entity.HistoryRecord{Kind: entity.KindEquipment, EntityID: "e-1", StateID: "s", ActorID: "u", Date: d}))
	}
	assert.ErrorIs(t, hist.Append(ctx, &entity.HistoryRecord{Kind: entity.KindQC, EntityID: "b"}), domain.ErrInvalidInput)

	list, err := hist.ListByEntity(ctx, entity.KindEquipment, "e-1")
	require.NoError(t, err)
	require.Len(t, list, 3)
	assert.Equal(t, []int64{2, 3, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})
}
