package repository

import (
	"context"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// AnalysisRepository análisis, incubaciones, resultados y uso de medios.
type AnalysisRepository interface {
	Create(ctx context.Context, a *entity.Analysis) error
	GetByID(ctx context.Context, id string) (*entity.Analysis, error)
	CreateIncubation(ctx context.Context, i *entity.Incubation) error
	CreateResult(ctx context.Context, r *entity.AnalysisResult) error
	ListResults(ctx context.Context, analysisID string) ([]*entity.AnalysisResult, error)
	CreateMediaUsage(ctx context.Context, u *entity.MediaUsage) error
}

// SpecificationRepository lectura de especificaciones de producto.
type SpecificationRepository interface {
	GetByID(ctx context.Context, id string) (*entity.Specification, error)
}
