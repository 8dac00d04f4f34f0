package repository

import (
	"context"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// SamplingRepository solicitudes, sesiones, muestras, envíos y recepciones.
type SamplingRepository interface {
	CreateRequest(ctx context.Context, r *entity.SamplingRequest) error
	GetRequest(ctx context.Context, id string) (*entity.SamplingRequest, error)
	CreateSession(ctx context.Context, s *entity.SamplingSession) error
	CreateSample(ctx context.Context, s *entity.Sample) error
	GetSample(ctx context.Context, id string) (*entity.Sample, error)
	CreateShipment(ctx context.Context, s *entity.SampleShipment) error
	GetShipment(ctx context.Context, id string) (*entity.SampleShipment, error)
	CreateReception(ctx context.Context, r *entity.SampleReception) error
	GetReception(ctx context.Context, id string) (*entity.SampleReception, error)
}
