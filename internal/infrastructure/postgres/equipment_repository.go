package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var _ repository.EquipmentRepository = (*EquipmentRepo)(nil)

const equipmentColumns = `id, code, name, type_id, area_id, state_id, active, created_by, created_at,
	modified_by, modified_at, deactivated_by, deactivated_at`

// EquipmentRepo implementación de EquipmentRepository sobre PostgreSQL.
type EquipmentRepo struct {
	q Querier
}

// NewEquipmentRepository construye el adaptador. Pasar pool o tx (Querier).
func NewEquipmentRepository(q Querier) *EquipmentRepo {
	return &EquipmentRepo{q: q}
}

// Create persiste un equipo; ErrDuplicate si el código ya existe.
func (r *EquipmentRepo) Create(ctx context.Context, e *entity.Equipment) error {
	query := `INSERT INTO equipment (` + equipmentColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13)`
	_, err := r.q.Exec(ctx, query,
		e.ID, e.Code, e.Name, e.TypeID, e.AreaID, e.StateID, e.Active, e.CreatedBy, e.CreatedAt,
		e.ModifiedBy, e.ModifiedAt, e.DeactivatedBy, e.DeactivatedAt,
	)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: equipo %s", domain.ErrDuplicate, e.Code)
		}
		return fmt.Errorf("insert equipment: %w", err)
	}
	return nil
}

// GetByID obtiene un equipo; (nil, nil) si no existe.
func (r *EquipmentRepo) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	e, err := scanEquipment(r.q.QueryRow(ctx, `SELECT `+equipmentColumns+` FROM equipment WHERE id = $1`, id))
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get equipment: %w", err)
	}
	return e, nil
}

// UpdateAudit persiste los campos regulatorios.
func (r *EquipmentRepo) UpdateAudit(ctx context.Context, e *entity.Equipment) error {
	query := `
		UPDATE equipment SET active = $2, modified_by = $3, modified_at = $4,
			deactivated_by = $5, deactivated_at = $6
		WHERE id = $1`
	tag, err := r.q.Exec(ctx, query, e.ID, e.Active, e.ModifiedBy, e.ModifiedAt, e.DeactivatedBy, e.DeactivatedAt)
	if err != nil {
		return fmt.Errorf("update equipment audit: %w", err)
	}
	if tag.RowsAffected() == 0 {
		return domain.ErrNotFound
	}
	return nil
}

// List lista equipos por código con paginación.
func (r *EquipmentRepo) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Equipment, error) {
	query := `SELECT ` + equipmentColumns + ` FROM equipment
		WHERE ($1 = FALSE OR active) ORDER BY code LIMIT $2 OFFSET $3`
	rows, err := r.q.Query(ctx, query, activeOnly, limit, offset)
	if err != nil {
		return nil, fmt.Errorf("list equipment: %w", err)
	}
	defer rows.Close()
	var list []*entity.Equipment
	for rows.Next() {
		e, err := scanEquipment(rows)
		if err != nil {
			return nil, fmt.Errorf("scan equipment: %w", err)
		}
		list = append(list, e)
	}
	return list, rows.Err()
}

// CreateCalibration persiste un evento de calibración/calificación.
func (r *EquipmentRepo) CreateCalibration(ctx context.Context, c *entity.Calibration) error {
	query := `
		INSERT INTO equipment_calibrations (id, equipment_id, type, date, expires, operator_id, created_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, c.ID, c.EquipmentID, c.Type, c.Date, c.Expires, c.OperatorID, c.CreatedAt); err != nil {
		return fmt.Errorf("insert calibration: %w", err)
	}
	return nil
}

// ListCalibrations calibraciones del equipo, la más reciente primero.
func (r *EquipmentRepo) ListCalibrations(ctx context.Context, equipmentID string) ([]*entity.Calibration, error) {
	query := `
		SELECT id, equipment_id, type, date, expires, operator_id, created_at
		FROM equipment_calibrations WHERE equipment_id = $1 ORDER BY date DESC, created_at DESC`
	rows, err := r.q.Query(ctx, query, equipmentID)
	if err != nil {
		return nil, fmt.Errorf("list calibrations: %w", err)
	}
	defer rows.Close()
	var list []*entity.Calibration
	for rows.Next() {
		var c entity.Calibration
		if err := rows.Scan(&c.ID, &c.EquipmentID, &c.Type, &c.Date, &c.Expires, &c.OperatorID, &c.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan calibration: %w", err)
		}
		list = append(list, &c)
	}
	return list, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanEquipment(row rowScanner) (*entity.Equipment, error) {
	var e entity.Equipment
	err := row.Scan(&e.ID, &e.Code, &e.Name, &e.TypeID, &e.AreaID, &e.StateID, &e.Active, &e.CreatedBy, &e.CreatedAt,
		&e.ModifiedBy, &e.ModifiedAt, &e.DeactivatedBy, &e.DeactivatedAt)
	if err != nil {
		return nil, err
	}
	return &e, nil
}
