package postgres

import (
	"context"
	"fmt"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var (
	_ repository.StockRepository     = (*StockRepo)(nil)
	_ repository.PowderLotRepository = (*PowderLotRepo)(nil)
)

// PowderLotRepo recepciones de lotes de polvo (inmutables).
type PowderLotRepo struct {
	q Querier
}

// NewPowderLotRepository construye el adaptador.
func NewPowderLotRepository(q Querier) *PowderLotRepo {
	return &PowderLotRepo{q: q}
}

// Create persiste el lote; ErrDuplicate si el lote del proveedor ya fue recibido para ese tipo.
func (r *PowderLotRepo) Create(ctx context.Context, l *entity.PowderLot) error {
	query := `
		INSERT INTO powder_lots (id, powder_type_id, supplier_lot, expires, quantity, unit, received_by, received_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, l.ID, l.PowderTypeID, l.SupplierLot, l.Expires, l.Quantity, l.Unit, l.ReceivedBy, l.ReceivedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: lote %s", domain.ErrDuplicate, l.SupplierLot)
		}
		return fmt.Errorf("insert powder lot: %w", err)
	}
	return nil
}

// GetByID obtiene un lote; (nil, nil) si no existe.
func (r *PowderLotRepo) GetByID(ctx context.Context, id string) (*entity.PowderLot, error) {
	query := `
		SELECT id, powder_type_id, supplier_lot, expires, quantity, unit, received_by, received_at
		FROM powder_lots WHERE id = $1`
	var l entity.PowderLot
	err := r.q.QueryRow(ctx, query, id).Scan(&l.ID, &l.PowderTypeID, &l.SupplierLot, &l.Expires, &l.Quantity, &l.Unit, &l.ReceivedBy, &l.ReceivedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get powder lot: %w", err)
	}
	return &l, nil
}

// StockRepo implementación de StockRepository sobre PostgreSQL (usable con pool o tx).
type StockRepo struct {
	q Querier
}

// NewStockRepository construye el adaptador de stock. Pasar pool o tx (Querier).
func NewStockRepository(q Querier) *StockRepo {
	return &StockRepo{q: q}
}

// Create inserta el saldo inicial de un lote.
func (r *StockRepo) Create(ctx context.Context, s *entity.StockBalance) error {
	query := `INSERT INTO powder_stock (id, lot_id, quantity, updated_at) VALUES ($1, $2, $3, $4)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.LotID, s.Quantity, s.UpdatedAt); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: saldo del lote %s", domain.ErrDuplicate, s.LotID)
		}
		return fmt.Errorf("insert stock: %w", err)
	}
	return nil
}

// Get obtiene el saldo por ID; (nil, nil) si no existe.
func (r *StockRepo) Get(ctx context.Context, id string) (*entity.StockBalance, error) {
	return r.getOne(ctx, `SELECT id, lot_id, quantity, updated_at FROM powder_stock WHERE id = $1`, id, "get stock")
}

// GetByLot obtiene el saldo de un lote; (nil, nil) si no existe.
func (r *StockRepo) GetByLot(ctx context.Context, lotID string) (*entity.StockBalance, error) {
	return r.getOne(ctx, `SELECT id, lot_id, quantity, updated_at FROM powder_stock WHERE lot_id = $1`, lotID, "get stock by lot")
}

// GetForUpdate obtiene el saldo y bloquea la fila para update (SELECT FOR UPDATE).
func (r *StockRepo) GetForUpdate(ctx context.Context, id string) (*entity.StockBalance, error) {
	query := `
		SELECT id, lot_id, quantity, updated_at
		FROM powder_stock WHERE id = $1
		FOR UPDATE`
	return r.getOne(ctx, query, id, "get stock for update")
}

func (r *StockRepo) getOne(ctx context.Context, query, arg, op string) (*entity.StockBalance, error) {
	var s entity.StockBalance
	if err := r.q.QueryRow(ctx, query, arg).Scan(&s.ID, &s.LotID, &s.Quantity, &s.UpdatedAt); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	return &s, nil
}

// Decrement resta quantity solo si el saldo la cubre (quantity >= $2); si no, ErrInsufficientStock.
func (r *StockRepo) Decrement(ctx context.Context, id string, quantity decimal.Decimal, at time.Time) error {
	query := `
		UPDATE powder_stock SET quantity = quantity - $2, updated_at = $3
		WHERE id = $1 AND quantity >= $2`
	tag, err := r.q.Exec(ctx, query, id, quantity, at)
	if err != nil {
		if isCheckViolation(err) {
			return domain.ErrInsufficientStock
		}
		return fmt.Errorf("decrement stock: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrInsufficientStock
	}
	return nil
}
