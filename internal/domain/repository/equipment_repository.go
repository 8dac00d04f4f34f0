package repository

import (
	"context"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// EquipmentRepository define el puerto de persistencia para equipos e instrumentos.
type EquipmentRepository interface {
	Create(ctx context.Context, e *entity.Equipment) error
	GetByID(ctx context.Context, id string) (*entity.Equipment, error)
	// UpdateAudit persiste los campos regulatorios (activo, modificado/desactivado por/en).
	UpdateAudit(ctx context.Context, e *entity.Equipment) error
	List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Equipment, error)
	CreateCalibration(ctx context.Context, c *entity.Calibration) error
	ListCalibrations(ctx context.Context, equipmentID string) ([]*entity.Calibration, error)
}
