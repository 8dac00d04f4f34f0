package repository

import (
	"context"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// ManufacturingRepository órdenes de manufactura y sus procesos.
type ManufacturingRepository interface {
	CreateOrder(ctx context.Context, o *entity.ManufacturingOrder) error
	GetOrder(ctx context.Context, id string) (*entity.ManufacturingOrder, error)
	CreateProcess(ctx context.Context, p *entity.ManufacturingProcess) error
	GetProcess(ctx context.Context, id string) (*entity.ManufacturingProcess, error)
	// ListProcessesByOrder ordena por fecha de inicio (nulos al final), luego creación e ID.
	ListProcessesByOrder(ctx context.Context, orderID string) ([]*entity.ManufacturingProcess, error)
}
