package equipment

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

const table = "equipment"

// CreateInput datos para registrar un equipo. StateID es el estado inicial (lo decide el caller).
type CreateInput struct {
	Code    string
	Name    string
	TypeID  string
	AreaID  string
	StateID string
}

// CalibrationInput datos de un evento de calibración/calificación.
type CalibrationInput struct {
	EquipmentID string
	Type        string
	Date        time.Time
	Expires     *time.Time
}

// UseCase casos de uso de equipos: alta, cambio de estado, histórico, baja lógica y calibraciones.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.EquipmentRepository
	engine   *statemachine.Engine
	log      zerolog.Logger
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, repo repository.EquipmentRepository, engine *statemachine.Engine, log zerolog.Logger) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo, engine: engine, log: log}
}

// Create inserta el equipo con su estado inicial y el primer registro de histórico.
func (uc *UseCase) Create(ctx context.Context, in CreateInput, actorID string) (*entity.Equipment, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.Code == "":
		return nil, domain.Invalid("code")
	case in.Name == "":
		return nil, domain.Invalid("name")
	case in.TypeID == "":
		return nil, domain.Invalid("type_id")
	case in.AreaID == "":
		return nil, domain.Invalid("area_id")
	case in.StateID == "":
		return nil, domain.Invalid("state_id")
	}
	now := uc.engine.Now()
	eq := &entity.Equipment{
		ID:        uuid.New().String(),
		Code:      in.Code,
		Name:      in.Name,
		TypeID:    in.TypeID,
		AreaID:    in.AreaID,
		StateID:   in.StateID,
		Auditable: entity.NewAuditable(actorID, now),
	}
	var rec *entity.HistoryRecord
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Equipment.Create(ctx, eq); err != nil {
			return err
		}
		var err error
		rec, err = uc.engine.Record(ctx, tx, entity.KindEquipment, eq.ID, eq.StateID, actorID, "", now)
		if err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created(table, eq.ID, fmt.Sprintf("equipo %s %s", eq.Code, eq.Name), actorID, now))
	})
	if err != nil {
		return nil, err
	}
	uc.engine.Created(ctx, rec)
	return eq, nil
}

// GetByID obtiene un equipo; ErrNotFound si no existe.
func (uc *UseCase) GetByID(ctx context.Context, id string) (*entity.Equipment, error) {
	eq, err := uc.repo.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}
	if eq == nil {
		return nil, domain.ErrNotFound
	}
	return eq, nil
}

// List lista equipos con paginación.
func (uc *UseCase) List(ctx context.Context, activeOnly bool, limit, offset int) ([]*entity.Equipment, error) {
	return uc.repo.List(ctx, activeOnly, limit, offset)
}

// ChangeState cambia el estado del equipo y devuelve el equipo actualizado.
func (uc *UseCase) ChangeState(ctx context.Context, id, newStateID, actorID string) (*entity.Equipment, error) {
	if _, err := uc.engine.ChangeState(ctx, entity.KindEquipment, id, newStateID, actorID); err != nil {
		return nil, err
	}
	return uc.GetByID(ctx, id)
}

// History histórico de estados del equipo, del más antiguo al más reciente.
func (uc *UseCase) History(ctx context.Context, id string) ([]*entity.HistoryRecord, error) {
	return uc.engine.History(ctx, entity.KindEquipment, id)
}

// Deactivate baja lógica del equipo. Un equipo ya inactivo devuelve ErrAlreadyInactive.
func (uc *UseCase) Deactivate(ctx context.Context, id, actorID string) (*entity.Equipment, error) {
	if actorID == "" {
		return nil, domain.Invalid("actor_id")
	}
	now := uc.engine.Now()
	var eq *entity.Equipment
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		var err error
		eq, err = tx.Equipment.GetByID(ctx, id)
		if err != nil {
			return err
		}
		if eq == nil {
			return domain.ErrNotFound
		}
		before := audit.AuditableSnapshot(eq.Auditable)
		if err := eq.Deactivate(actorID, now); err != nil {
			return err
		}
		if err := tx.Equipment.UpdateAudit(ctx, eq); err != nil {
			return err
		}
		entries := audit.Diff(table, eq.ID, before, audit.AuditableSnapshot(eq.Auditable), entity.AuditDeactivate, actorID, now)
		return tx.Audit.Append(ctx, entries...)
	})
	if err != nil {
		return nil, err
	}
	uc.log.Info().Str("equipment_id", id).Str("actor_id", actorID).Msg("equipo desactivado")
	return eq, nil
}

// RecordCalibration registra una calibración o calificación de un equipo existente.
func (uc *UseCase) RecordCalibration(ctx context.Context, in CalibrationInput, actorID string) (*entity.Calibration, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.EquipmentID == "":
		return nil, domain.Invalid("equipment_id")
	case in.Date.IsZero():
		return nil, domain.Invalid("date")
	case in.Type != entity.CalibrationTypeCalibration && in.Type != entity.CalibrationTypeQualification:
		return nil, fmt.Errorf("%w: tipo de calibración %q", domain.ErrInvalidInput, in.Type)
	}
	if in.Expires != nil && in.Expires.Before(in.Date) {
		return nil, fmt.Errorf("%w: vencimiento anterior a la fecha", domain.ErrInvalidInput)
	}
	now := uc.engine.Now()
	cal := &entity.Calibration{
		ID:          uuid.New().String(),
		EquipmentID: in.EquipmentID,
		Type:        in.Type,
		Date:        in.Date,
		Expires:     in.Expires,
		OperatorID:  actorID,
		CreatedAt:   now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		eq, err := tx.Equipment.GetByID(ctx, in.EquipmentID)
		if err != nil {
			return err
		}
		if eq == nil {
			return domain.ErrNotFound
		}
		if err := tx.Equipment.CreateCalibration(ctx, cal); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("equipment_calibrations", cal.ID, cal.Type+" "+eq.Code, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return cal, nil
}

// Calibrations lista las calibraciones de un equipo.
func (uc *UseCase) Calibrations(ctx context.Context, equipmentID string) ([]*entity.Calibration, error) {
	if _, err := uc.GetByID(ctx, equipmentID); err != nil {
		return nil, err
	}
	return uc.repo.ListCalibrations(ctx, equipmentID)
}
