package memory

import (
	"context"
	"fmt"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

type lotRepo struct{ base }

func (r *lotRepo) Create(_ context.Context, lot *entity.PowderLot) error {
	defer r.lock()()
	if err := r.fail("Lots.Create"); err != nil {
		return err
	}
	for _, other := range r.t().lots {
		if other.PowderTypeID == lot.PowderTypeID && other.SupplierLot == lot.SupplierLot {
			return fmt.Errorf("%w: lote %s", domain.ErrDuplicate, lot.SupplierLot)
		}
	}
	r.t().lots[lot.ID] = copyOf(lot)
	return nil
}

func (r *lotRepo) GetByID(_ context.Context, id string) (*entity.PowderLot, error) {
	defer r.lock()()
	return copyOf(r.t().lots[id]), nil
}

type stockRepo struct{ base }

func (r *stockRepo) Create(_ context.Context, s *entity.StockBalance) error {
	defer r.lock()()
	if err := r.fail("Stock.Create"); err != nil {
		return err
	}
	if _, ok := r.t().lots[s.LotID]; !ok {
		return domain.ErrNotFound
	}
	for _, other := range r.t().stock {
		if other.LotID == s.LotID {
			return fmt.Errorf("%w: stock del lote %s", domain.ErrDuplicate, s.LotID)
		}
	}
	if s.Quantity.IsNegative() {
		return domain.ErrInvalidInput
	}
	r.t().stock[s.ID] = copyOf(s)
	return nil
}

func (r *stockRepo) Get(_ context.Context, id string) (*entity.StockBalance, error) {
	defer r.lock()()
	return copyOf(r.t().stock[id]), nil
}

func (r *stockRepo) GetByLot(_ context.Context, lotID string) (*entity.StockBalance, error) {
	defer r.lock()()
	for _, s := range r.t().stock {
		if s.LotID == lotID {
			return copyOf(s), nil
		}
	}
	return nil, nil
}

func (r *stockRepo) GetForUpdate(_ context.Context, id string) (*entity.StockBalance, error) {
	defer r.lock()()
	if err := r.fail("Stock.GetForUpdate"); err != nil {
		return nil, err
	}
	return copyOf(r.t().stock[id]), nil
}

func (r *stockRepo) Decrement(_ context.Context, id string, quantity decimal.Decimal, at time.Time) error {
	defer r.lock()()
	if err := r.fail("Stock.Decrement"); err != nil {
		return err
	}
	s, ok := r.t().stock[id]
	if !ok || s.Quantity.LessThan(quantity) {
		return domain.ErrInsufficientStock
	}
	s.Quantity = s.Quantity.Sub(quantity)
	s.UpdatedAt = at
	return nil
}

type mediaRepo struct{ base }

func (r *mediaRepo) CreateOrder(_ context.Context, o *entity.MediaPreparationOrder) error {
	defer r.lock()()
	if err := r.fail("Media.CreateOrder"); err != nil {
		return err
	}
	cp := copyOf(o)
	cp.Consumptions, cp.Batch = nil, nil
	r.t().mediaOrders[o.ID] = cp
	return nil
}

func (r *mediaRepo) GetOrder(_ context.Context, id string) (*entity.MediaPreparationOrder, error) {
	defer r.lock()()
	return copyOf(r.t().mediaOrders[id]), nil
}

func (r *mediaRepo) CreateConsumption(_ context.Context, c *entity.PowderConsumption) error {
	defer r.lock()()
	if err := r.fail("Media.CreateConsumption"); err != nil {
		return err
	}
	if _, ok := r.t().mediaOrders[c.OrderID]; !ok {
		return domain.ErrNotFound
	}
	if _, ok := r.t().stock[c.StockID]; !ok {
		return domain.ErrNotFound
	}
	r.t().consumptions[c.ID] = copyOf(c)
	return nil
}

func (r *mediaRepo) ListConsumptions(_ context.Context, orderID string) ([]*entity.PowderConsumption, error) {
	defer r.lock()()
	var list []*entity.PowderConsumption
	for _, c := range r.t().consumptions {
		if c.OrderID == orderID {
			list = append(list, copyOf(c))
		}
	}
	slices.SortFunc(list, func(a, b *entity.PowderConsumption) int {
		if c := strings.Compare(a.StockID, b.StockID); c != 0 {
			return c
		}
		return strings.Compare(a.ID, b.ID)
	})
	return list, nil
}

func (r *mediaRepo) CreateBatch(_ context.Context, b *entity.PreparedMediaBatch) error {
	defer r.lock()()
	if err := r.fail("Media.CreateBatch"); err != nil {
		return err
	}
	for _, other := range r.t().batches {
		if other.OrderID == b.OrderID {
			return fmt.Errorf("%w: la orden %s ya tiene lote", domain.ErrDuplicate, b.OrderID)
		}
	}
	r.t().batches[b.ID] = copyOf(b)
	return nil
}

func (r *mediaRepo) GetBatch(_ context.Context, id string) (*entity.PreparedMediaBatch, error) {
	defer r.lock()()
	return copyOf(r.t().batches[id]), nil
}

func (r *mediaRepo) GetBatchByOrder(_ context.Context, orderID string) (*entity.PreparedMediaBatch, error) {
	defer r.lock()()
	for _, b := range r.t().batches {
		if b.OrderID == orderID {
			return copyOf(b), nil
		}
	}
	return nil, nil
}

func (r *mediaRepo) GetBatchForUpdate(_ context.Context, id string) (*entity.PreparedMediaBatch, error) {
	defer r.lock()()
	if err := r.fail("Media.GetBatchForUpdate"); err != nil {
		return nil, err
	}
	return copyOf(r.t().batches[id]), nil
}

func (r *mediaRepo) UpdateBatchQC(_ context.Context, id, qcStateID string) error {
	defer r.lock()()
	if err := r.fail("Media.UpdateBatchQC"); err != nil {
		return err
	}
	b, ok := r.t().batches[id]
	if !ok {
		return domain.ErrNotFound
	}
	b.QCStateID = qcStateID
	return nil
}

func (r *mediaRepo) CreateApproval(_ context.Context, a *entity.MediaApproval) error {
	defer r.lock()()
	if err := r.fail("Media.CreateApproval"); err != nil {
		return err
	}
	r.t().approvals[a.ID] = copyOf(a)
	return nil
}

// Approvals revisiones QC de un lote, en orden de fecha (para tests).
func (s *Store) Approvals(batchID string) []*entity.MediaApproval {
	s.mu.Lock()
	defer s.mu.Unlock()
	var list []*entity.MediaApproval
	for _, a := range s.data.approvals {
		if a.BatchID == batchID {
			list = append(list, copyOf(a))
		}
	}
	slices.SortFunc(list, func(a, b *entity.MediaApproval) int { return a.Date.Compare(b.Date) })
	return list
}

// MediaOrderCount cantidad de órdenes de preparación persistidas (para tests).
func (s *Store) MediaOrderCount() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return len(s.data.mediaOrders)
}
