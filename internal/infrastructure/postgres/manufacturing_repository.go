package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var _ repository.ManufacturingRepository = (*ManufacturingRepo)(nil)

// ManufacturingRepo órdenes y procesos de manufactura sobre PostgreSQL.
type ManufacturingRepo struct {
	q Querier
}

// NewManufacturingRepository construye el adaptador.
func NewManufacturingRepository(q Querier) *ManufacturingRepo {
	return &ManufacturingRepo{q: q}
}

// CreateOrder persiste una orden; ErrDuplicate si el código ya existe.
func (r *ManufacturingRepo) CreateOrder(ctx context.Context, o *entity.ManufacturingOrder) error {
	query := `
		INSERT INTO manufacturing_orders (id, code, lot, date, product_id, quantity, unit, operator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)`
	_, err := r.q.Exec(ctx, query, o.ID, o.Code, o.Lot, o.Date, o.ProductID, o.Quantity, o.Unit, o.OperatorID, o.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: orden %s", domain.ErrDuplicate, o.Code)
		}
		return fmt.Errorf("insert manufacturing order: %w", err)
	}
	return nil
}

// GetOrder obtiene una orden; (nil, nil) si no existe.
func (r *ManufacturingRepo) GetOrder(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	query := `
		SELECT id, code, lot, date, product_id, quantity, unit, operator_id, created_at
		FROM manufacturing_orders WHERE id = $1`
	var o entity.ManufacturingOrder
	err := r.q.QueryRow(ctx, query, id).Scan(&o.ID, &o.Code, &o.Lot, &o.Date, &o.ProductID, &o.Quantity, &o.Unit, &o.OperatorID, &o.CreatedAt)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing order: %w", err)
	}
	return &o, nil
}

// CreateProcess persiste un proceso.
func (r *ManufacturingRepo) CreateProcess(ctx context.Context, p *entity.ManufacturingProcess) error {
	query := `
		INSERT INTO manufacturing_processes (id, order_id, started_at, finished_at, state_id, observation, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, p.ID, p.OrderID, p.StartedAt, p.FinishedAt, p.StateID, p.Observation, p.CreatedAt); err != nil {
		return fmt.Errorf("insert manufacturing process: %w", err)
	}
	return nil
}

const processColumns = `id, order_id, started_at, finished_at, state_id, observation, created_at`

// GetProcess obtiene un proceso; (nil, nil) si no existe.
func (r *ManufacturingRepo) GetProcess(ctx context.Context, id string) (*entity.ManufacturingProcess, error) {
	p, err := scanProcess(r.q.QueryRow(ctx, `SELECT `+processColumns+` FROM manufacturing_processes WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get manufacturing process: %w", err)
	}
	return p, nil
}

// ListProcessesByOrder procesos de la orden por fecha de inicio (nulos al final), creación e ID.
func (r *ManufacturingRepo) ListProcessesByOrder(ctx context.Context, orderID string) ([]*entity.ManufacturingProcess, error) {
	query := `SELECT ` + processColumns + ` FROM manufacturing_processes
		WHERE order_id = $1 ORDER BY started_at ASC NULLS LAST, created_at ASC, id ASC`
	rows, err := r.q.Query(ctx, query, orderID)
	if err != nil {
		return nil, fmt.Errorf("list manufacturing processes: %w", err)
	}
	defer rows.Close()
	var list []*entity.ManufacturingProcess
	for rows.Next() {
		p, err := scanProcess(rows)
		if err != nil {
			return nil, fmt.Errorf("scan manufacturing process: %w", err)
		}
		list = append(list, p)
	}
	return list, rows.Err()
}

func scanProcess(row rowScanner) (*entity.ManufacturingProcess, error) {
	var p entity.ManufacturingProcess
	if err := row.Scan(&p.ID, &p.OrderID, &p.StartedAt, &p.FinishedAt, &p.StateID, &p.Observation, &p.CreatedAt); err != nil {
		return nil, err
	}
	return &p, nil
}
