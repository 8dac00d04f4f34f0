package repository

import (
	"context"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// PowderLotRepository recepciones de polvo/suplemento (inmutables).
type PowderLotRepository interface {
	Create(ctx context.Context, lot *entity.PowderLot) error
	GetByID(ctx context.Context, id string) (*entity.PowderLot, error)
}

// StockRepository define el puerto para consultar/actualizar el stock de polvos.
// Usado dentro de transacciones para garantizar consistencia.
type StockRepository interface {
	Create(ctx context.Context, s *entity.StockBalance) error
	Get(ctx context.Context, id string) (*entity.StockBalance, error)
	GetByLot(ctx context.Context, lotID string) (*entity.StockBalance, error)
	// GetForUpdate bloquea la fila para update (SELECT FOR UPDATE).
	GetForUpdate(ctx context.Context, id string) (*entity.StockBalance, error)
	// Decrement resta quantity solo si el saldo lo cubre; si no, devuelve domain.ErrInsufficientStock
	// sin modificar nada.
	Decrement(ctx context.Context, id string, quantity decimal.Decimal, at time.Time) error
}

// MediaRepository órdenes de preparación, consumos, lotes de medio y aprobaciones QC.
type MediaRepository interface {
	CreateOrder(ctx context.Context, o *entity.MediaPreparationOrder) error
	GetOrder(ctx context.Context, id string) (*entity.MediaPreparationOrder, error)
	CreateConsumption(ctx context.Context, c *entity.PowderConsumption) error
	ListConsumptions(ctx context.Context, orderID string) ([]*entity.PowderConsumption, error)
	CreateBatch(ctx context.Context, b *entity.PreparedMediaBatch) error
	GetBatch(ctx context.Context, id string) (*entity.PreparedMediaBatch, error)
	GetBatchByOrder(ctx context.Context, orderID string) (*entity.PreparedMediaBatch, error)
	GetBatchForUpdate(ctx context.Context, id string) (*entity.PreparedMediaBatch, error)
	UpdateBatchQC(ctx context.Context, id, qcStateID string) error
	CreateApproval(ctx context.Context, a *entity.MediaApproval) error
}
