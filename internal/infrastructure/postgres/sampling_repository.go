package postgres

import (
	"context"
	"fmt"

	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

var _ repository.SamplingRepository = (*SamplingRepo)(nil)

// SamplingRepo solicitudes, sesiones, muestras, envíos y recepciones sobre PostgreSQL.
type SamplingRepo struct {
	q Querier
}

// NewSamplingRepository construye el adaptador.
func NewSamplingRepository(q Querier) *SamplingRepo {
	return &SamplingRepo{q: q}
}

// CreateRequest persiste una solicitud de muestreo.
func (r *SamplingRepo) CreateRequest(ctx context.Context, s *entity.SamplingRequest) error {
	query := `
		INSERT INTO sampling_requests (id, requested_by, date, type, order_id, equipment_id, sampling_point_id,
			operator_id, state_id, observation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10)`
	_, err := r.q.Exec(ctx, query, s.ID, s.RequestedBy, s.Date, s.Type, s.OrderID, s.EquipmentID, s.SamplingPointID,
		s.OperatorID, s.StateID, s.Observation)
	if err != nil {
		return fmt.Errorf("insert sampling request: %w", err)
	}
	return nil
}

// GetRequest obtiene una solicitud; (nil, nil) si no existe.
func (r *SamplingRepo) GetRequest(ctx context.Context, id string) (*entity.SamplingRequest, error) {
	query := `
		SELECT id, requested_by, date, type, order_id, equipment_id, sampling_point_id, operator_id, state_id, observation
		FROM sampling_requests WHERE id = $1`
	var s entity.SamplingRequest
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.RequestedBy, &s.Date, &s.Type, &s.OrderID, &s.EquipmentID,
		&s.SamplingPointID, &s.OperatorID, &s.StateID, &s.Observation)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sampling request: %w", err)
	}
	return &s, nil
}

// CreateSession persiste la sesión (sin muestras; ver CreateSample).
func (r *SamplingRepo) CreateSession(ctx context.Context, s *entity.SamplingSession) error {
	query := `
		INSERT INTO sampling_sessions (id, request_id, started_at, finished_at, operator_id)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.RequestID, s.StartedAt, s.FinishedAt, s.OperatorID); err != nil {
		return fmt.Errorf("insert sampling session: %w", err)
	}
	return nil
}

// CreateSample persiste una muestra; ErrDuplicate si la etiqueta ya existe.
func (r *SamplingRepo) CreateSample(ctx context.Context, s *entity.Sample) error {
	query := `
		INSERT INTO samples (id, session_id, sampling_point_id, equipment_zone_id, sampled_operator_id, type, label, observation)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8)`
	_, err := r.q.Exec(ctx, query, s.ID, s.SessionID, s.SamplingPointID, s.EquipmentZoneID, s.SampledOperator,
		s.Type, s.Label, s.Observation)
	if err != nil {
		if isUniqueViolation(err) {
			return fmt.Errorf("%w: etiqueta %s", domain.ErrDuplicate, s.Label)
		}
		return fmt.Errorf("insert sample: %w", err)
	}
	return nil
}

// GetSample obtiene una muestra; (nil, nil) si no existe.
func (r *SamplingRepo) GetSample(ctx context.Context, id string) (*entity.Sample, error) {
	query := `
		SELECT id, session_id, sampling_point_id, equipment_zone_id, sampled_operator_id, type, label, observation
		FROM samples WHERE id = $1`
	var s entity.Sample
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.SessionID, &s.SamplingPointID, &s.EquipmentZoneID,
		&s.SampledOperator, &s.Type, &s.Label, &s.Observation)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sample: %w", err)
	}
	return &s, nil
}

// CreateShipment persiste un envío.
func (r *SamplingRepo) CreateShipment(ctx context.Context, s *entity.SampleShipment) error {
	query := `
		INSERT INTO sample_shipments (id, sample_id, date, operator_id, destination)
		VALUES ($1, $2, $3, $4, $5)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.SampleID, s.Date, s.OperatorID, s.Destination); err != nil {
		return fmt.Errorf("insert sample shipment: %w", err)
	}
	return nil
}

// GetShipment obtiene un envío; (nil, nil) si no existe.
func (r *SamplingRepo) GetShipment(ctx context.Context, id string) (*entity.SampleShipment, error) {
	query := `SELECT id, sample_id, date, operator_id, destination FROM sample_shipments WHERE id = $1`
	var s entity.SampleShipment
	if err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.SampleID, &s.Date, &s.OperatorID, &s.Destination); err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sample shipment: %w", err)
	}
	return &s, nil
}

// CreateReception persiste una recepción.
func (r *SamplingRepo) CreateReception(ctx context.Context, s *entity.SampleReception) error {
	query := `
		INSERT INTO sample_receptions (id, shipment_id, date, operator_id, received_at, decision, observation)
		VALUES ($1, $2, $3, $4, $5, $6, $7)`
	if _, err := r.q.Exec(ctx, query, s.ID, s.ShipmentID, s.Date, s.OperatorID, s.ReceivedAt, s.Decision, s.Observation); err != nil {
		return fmt.Errorf("insert sample reception: %w", err)
	}
	return nil
}

// GetReception obtiene una recepción; (nil, nil) si no existe.
func (r *SamplingRepo) GetReception(ctx context.Context, id string) (*entity.SampleReception, error) {
	query := `
		SELECT id, shipment_id, date, operator_id, received_at, decision, observation
		FROM sample_receptions WHERE id = $1`
	var s entity.SampleReception
	err := r.q.QueryRow(ctx, query, id).Scan(&s.ID, &s.ShipmentID, &s.Date, &s.OperatorID, &s.ReceivedAt, &s.Decision, &s.Observation)
	if err != nil {
		if notFound(err) {
			return nil, nil
		}
		return nil, fmt.Errorf("get sample reception: %w", err)
	}
	return &s, nil
}
