package sampling

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"

	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// observación del registro inicial de histórico de una solicitud.
const creationObservation = "Creación de solicitud"

// RequestInput datos de una solicitud de muestreo; StateID es el estado inicial.
type RequestInput struct {
	Type            string
	OrderID         *string
	EquipmentID     *string
	SamplingPointID *string
	OperatorID      *string
	StateID         string
	Observation     string
}

// SampleInput una muestra de la sesión.
type SampleInput struct {
	SamplingPointID *string
	EquipmentZoneID *string
	SampledOperator *string
	Type            string
	Label           string
	Observation     string
}

// SessionInput sesión de muestreo con sus muestras.
type SessionInput struct {
	RequestID  string
	StartedAt  *time.Time
	FinishedAt *time.Time
	Samples    []SampleInput
}

// ShipmentInput envío de una muestra.
type ShipmentInput struct {
	SampleID    string
	Date        time.Time
	Destination string
}

// ReceptionInput recepción de un envío en laboratorio.
type ReceptionInput struct {
	ShipmentID  string
	ReceivedAt  string
	Decision    string
	Observation string
}

// UseCase ciclo de muestreo: solicitud (con estados), sesión, muestras, envío y recepción.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.SamplingRepository
	engine   *statemachine.Engine
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, repo repository.SamplingRepository, engine *statemachine.Engine) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo, engine: engine}
}

// CreateRequest crea la solicitud y su registro inicial de histórico.
func (uc *UseCase) CreateRequest(ctx context.Context, in RequestInput, actorID string) (*entity.SamplingRequest, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.StateID == "":
		return nil, domain.Invalid("state_id")
	}
	switch in.Type {
	case entity.SamplingTypeProduct, entity.SamplingTypeEnvironment, entity.SamplingTypeSurface, entity.SamplingTypePersonnel:
	default:
		return nil, fmt.Errorf("%w: tipo de solicitud %q", domain.ErrInvalidInput, in.Type)
	}
	now := uc.engine.Now()
	req := &entity.SamplingRequest{
		ID:              uuid.New().String(),
		RequestedBy:     actorID,
		Date:            now,
		Type:            in.Type,
		OrderID:         in.OrderID,
		EquipmentID:     in.EquipmentID,
		SamplingPointID: in.SamplingPointID,
		OperatorID:      in.OperatorID,
		StateID:         in.StateID,
		Observation:     in.Observation,
	}
	var rec *entity.HistoryRecord
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if in.OrderID != nil {
			o, err := tx.Manufacturing.GetOrder(ctx, *in.OrderID)
			if err != nil {
				return err
			}
			if o == nil {
				return domain.ErrNotFound
			}
		}
		if in.EquipmentID != nil {
			eq, err := tx.Equipment.GetByID(ctx, *in.EquipmentID)
			if err != nil {
				return err
			}
			if eq == nil {
				return domain.ErrNotFound
			}
		}
		if err := tx.Sampling.CreateRequest(ctx, req); err != nil {
			return err
		}
		if err := tx.Audit.Append(ctx, audit.Created(entity.KindSamplingRequest.Table(), req.ID, "solicitud de muestreo "+req.Type, actorID, now)); err != nil {
			return err
		}
		var err error
		rec, err = uc.engine.Record(ctx, tx, entity.KindSamplingRequest, req.ID, req.StateID, actorID, creationObservation, now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.engine.Created(ctx, rec)
	return req, nil
}

// GetRequest obtiene una solicitud; ErrNotFound si no existe.
func (uc *UseCase) GetRequest(ctx context.Context, id string) (*entity.SamplingRequest, error) {
	r, err := uc.repo.GetRequest(ctx, id)
	if err != nil {
		return nil, err
	}
	if r == nil {
		return nil, domain.ErrNotFound
	}
	return r, nil
}

// ChangeState cambia el estado de la solicitud.
func (uc *UseCase) ChangeState(ctx context.Context, requestID, newStateID, actorID string) (*entity.SamplingRequest, error) {
	if _, err := uc.engine.ChangeState(ctx, entity.KindSamplingRequest, requestID, newStateID, actorID); err != nil {
		return nil, err
	}
	return uc.GetRequest(ctx, requestID)
}

// History histórico de estados de la solicitud.
func (uc *UseCase) History(ctx context.Context, requestID string) ([]*entity.HistoryRecord, error) {
	return uc.engine.History(ctx, entity.KindSamplingRequest, requestID)
}

// RegisterSession registra la sesión de muestreo y todas sus muestras en una transacción.
// Las etiquetas deben ser únicas dentro de la sesión.
func (uc *UseCase) RegisterSession(ctx context.Context, in SessionInput, actorID string) (*entity.SamplingSession, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.RequestID == "":
		return nil, domain.Invalid("request_id")
	case len(in.Samples) == 0:
		return nil, domain.Invalid("samples")
	}
	labels := make(map[string]bool, len(in.Samples))
	for _, s := range in.Samples {
		if s.Label == "" || s.Type == "" {
			return nil, fmt.Errorf("%w: cada muestra requiere label y type", domain.ErrInvalidInput)
		}
		if labels[s.Label] {
			return nil, fmt.Errorf("%w: etiqueta %s repetida", domain.ErrDuplicate, s.Label)
		}
		labels[s.Label] = true
	}
	now := uc.engine.Now()
	session := &entity.SamplingSession{
		ID:         uuid.New().String(),
		RequestID:  in.RequestID,
		StartedAt:  in.StartedAt,
		FinishedAt: in.FinishedAt,
		OperatorID: actorID,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		req, err := tx.Sampling.GetRequest(ctx, in.RequestID)
		if err != nil {
			return err
		}
		if req == nil {
			return domain.ErrNotFound
		}
		if err := tx.Sampling.CreateSession(ctx, session); err != nil {
			return err
		}
		entries := []*entity.AuditEntry{audit.Created("sampling_sessions", session.ID, "sesión de "+req.ID, actorID, now)}
		for _, s := range in.Samples {
			sample := &entity.Sample{
				ID:              uuid.New().String(),
				SessionID:       session.ID,
				SamplingPointID: s.SamplingPointID,
				EquipmentZoneID: s.EquipmentZoneID,
				SampledOperator: s.SampledOperator,
				Type:            s.Type,
				Label:           s.Label,
				Observation:     s.Observation,
			}
			if err := tx.Sampling.CreateSample(ctx, sample); err != nil {
				return err
			}
			session.Samples = append(session.Samples, sample)
			entries = append(entries, audit.Created("samples", sample.ID, "muestra "+sample.Label, actorID, now))
		}
		return tx.Audit.Append(ctx, entries...)
	})
	if err != nil {
		return nil, err
	}
	return session, nil
}

// ShipSample registra el envío de una muestra existente.
func (uc *UseCase) ShipSample(ctx context.Context, in ShipmentInput, actorID string) (*entity.SampleShipment, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.SampleID == "":
		return nil, domain.Invalid("sample_id")
	case in.Destination == "":
		return nil, domain.Invalid("destination")
	}
	now := uc.engine.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	sh := &entity.SampleShipment{
		ID:          uuid.New().String(),
		SampleID:    in.SampleID,
		Date:        date,
		OperatorID:  actorID,
		Destination: in.Destination,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		sample, err := tx.Sampling.GetSample(ctx, in.SampleID)
		if err != nil {
			return err
		}
		if sample == nil {
			return domain.ErrNotFound
		}
		if err := tx.Sampling.CreateShipment(ctx, sh); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("sample_shipments", sh.ID, "envío de "+sample.Label+" a "+sh.Destination, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return sh, nil
}

// ReceiveSample registra la recepción en laboratorio de un envío existente.
func (uc *UseCase) ReceiveSample(ctx context.Context, in ReceptionInput, actorID string) (*entity.SampleReception, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.ShipmentID == "":
		return nil, domain.Invalid("shipment_id")
	case in.ReceivedAt == "":
		return nil, domain.Invalid("received_at")
	case in.Decision != entity.ReceptionAccepted && in.Decision != entity.ReceptionRejected:
		return nil, fmt.Errorf("%w: decisión %q", domain.ErrInvalidInput, in.Decision)
	}
	now := uc.engine.Now()
	rc := &entity.SampleReception{
		ID:          uuid.New().String(),
		ShipmentID:  in.ShipmentID,
		Date:        now,
		OperatorID:  actorID,
		ReceivedAt:  in.ReceivedAt,
		Decision:    in.Decision,
		Observation: in.Observation,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		sh, err := tx.Sampling.GetShipment(ctx, in.ShipmentID)
		if err != nil {
			return err
		}
		if sh == nil {
			return domain.ErrNotFound
		}
		if err := tx.Sampling.CreateReception(ctx, rc); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("sample_receptions", rc.ID, rc.Decision+" en "+rc.ReceivedAt, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return rc, nil
}
