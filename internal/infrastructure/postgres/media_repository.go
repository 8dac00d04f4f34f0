package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var _ repository.MediaRepository = (*MediaRepo)(nil)

// MediaRepo órdenes de preparación, consumos, lotes de medio y aprobaciones sobre PostgreSQL.
type MediaRepo struct {
	q Querier
}

// NewMediaRepository construye el adaptador.
func NewMediaRepository(q Querier) *MediaRepo {
	return &MediaRepo{q: q}
}

// CreateOrder persiste la orden (sin consumos ni lote).
func (r *MediaRepo) CreateOrder(ctx context.Context, o *entity.MediaPreparationOrder) error {
	query := `
		INSERT INTO media_preparation_orders (id, media_type_id, lot, total_volume, volume_unit, operator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, o.ID, o.MediaTypeID, o.Lot, o.TotalVolume, o.VolumeUnit, o.OperatorID, o.CreatedAt); err != nil {
		return fmt.Errorf("insert media order: %w", err)
	}
	return nil
}

// GetOrder obtiene la orden sin consumos; (nil, nil) si no existe.
func (r *MediaRepo) GetOrder(ctx context.Context, id string) (*entity.MediaPreparationOrder, error) {
	query := `
		SELECT id, media_type_id, lot, total_volume, volume_unit, operator_id, created_at
		FROM media_preparation_orders WHERE id = $1`
	var o entity.MediaPreparationOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.MediaTypeID, &o.Lot, &o.TotalVolume, &o.VolumeUnit, &o.OperatorID, &o.CreatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media order: %w", err)
	}
	return &o, nil
}

// CreateConsumption persiste un consumo de stock.
func (r *MediaRepo) CreateConsumption(ctx context.Context, c *entity.PowderConsumption) error {
	query := `
		INSERT INTO powder_consumptions (id, stock_id, order_id, quantity, unit)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.StockID, c.OrderID, c.Quantity, c.Unit); err != nil {
		return fmt.Errorf("insert powder consumption: %w", err)
	}
	return nil
}

// ListConsumptions consumos de la orden.
func (r *MediaRepo) ListConsumptions(ctx context.Context, orderID string) ([]*entity.PowderConsumption, error) {
	query := `
		SELECT id, stock_id, order_id, quantity, unit
		FROM powder_consumptions WHERE order_id = $1 ORDER BY stock_id, id`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list powder consumptions: %w", err)
	}
	defer rows.Close()
	var list []*entity.PowderConsumption
	for rows.Next() {
		var c entity.PowderConsumption
		if err := rows.Scan(&c.ID, &c.StockID, &c.OrderID, &c.Quantity, &c.Unit); err != nil {
			return nil, fmt.Errorf("scan powder consumption: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

// CreateBatch persiste el lote de medio preparado.
func (r *MediaRepo) CreateBatch(ctx context.Context, b *entity.PreparedMediaBatch) error {
	query := `
		INSERT INTO prepared_media_batches (id, order_id, internal_lot, expires, qc_state_id)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, b.ID, b.OrderID, b.InternalLot, b.Expires, b.QCStateID); err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: la orden %s ya tiene lote", domain.ErrDuplicate, b.OrderID)
		}
		return fmt.Errorf("insert media batch: %w", err)
	}
	return nil
}

const batchSelect = `SELECT id, order_id, internal_lot, expires, qc_state_id FROM prepared_media_batches`

// GetBatch obtiene un lote; (nil, nil) si no existe.
func (r *MediaRepo) GetBatch(ctx context.Context, id string) (*entity.PreparedMediaBatch, error) {
	return r.getBatch(ctx, batchSelect+` WHERE id = $1`, id)
}

// GetBatchByOrder obtiene el lote producido por la orden; (nil, nil) si no existe.
func (r *MediaRepo) GetBatchByOrder(ctx context.Context, orderID string) (*entity.PreparedMediaBatch, error) {
	return r.getBatch(ctx, batchSelect+` WHERE order_id = $1`, orderID)
}

// GetBatchForUpdate obtiene el lote y bloquea la fila (SELECT FOR UPDATE).
func (r *MediaRepo) GetBatchForUpdate(ctx context.Context, id string) (*entity.PreparedMediaBatch, error) {
	return r.getBatch(ctx, batchSelect+` WHERE id = $1 FOR UPDATE`, id)
}

func (r *MediaRepo) getBatch(ctx context.Context, query, arg string) (*entity.PreparedMediaBatch, error) {
	var b entity.PreparedMediaBatch
	if err := r.q.QueryRow(ctx, query, arg).Scan(&b.ID, &b.OrderID, &b.InternalLot, &b.Expires, &b.QCStateID); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get media batch: %w", err)
	}
	return &b, nil
}

// UpdateBatchQC actualiza el estado QC del lote.
func (r *MediaRepo) UpdateBatchQC(ctx context.Context, id, qcStateID string) error {
	tag, err := r.q.Exec(ctx, `UPDATE prepared_media_batches SET qc_state_id = $2 WHERE id = $1`, id, qcStateID)
	if err != nil {
		return fmt.Errorf("update media batch qc: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// CreateApproval persiste una revisión QC.
func (r *MediaRepo) CreateApproval(ctx context.Context, a *entity.MediaApproval) error {
	query := `
		INSERT INTO media_approvals (id, batch_id, qc_state_id, date, operator_id, observation)
		VALUES ($1, $2, $3, $4, $5, $6)`
	if _, err := r.q.Exec(ctx, query, a.ID, a.BatchID, a.QCStateID, a.Date, a.OperatorID, a.Observation); err != nil {
		return fmt.Errorf("insert media approval: %w", err)
	}
	return nil
}
