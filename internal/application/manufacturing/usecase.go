package manufacturing

import (
	"context"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"

	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// OrderInput datos de una orden de manufactura.
type OrderInput struct {
	Code      string
	Lot       string
	Date      time.Time
	ProductID string
	Quantity  decimal.Decimal
	Unit      string
}

// ProcessInput datos de un proceso de manufactura; StateID es el estado inicial.
type ProcessInput struct {
	OrderID     string
	StartedAt   *time.Time
	FinishedAt  *time.Time
	StateID     string
	Observation string
}

// UseCase órdenes y procesos de manufactura con histórico de estados.
type UseCase struct {
	txRunner repository.TxRunner
	repo     repository.ManufacturingRepository
	engine   *statemachine.Engine
}

// NewUseCase construye el caso de uso.
func NewUseCase(txRunner repository.TxRunner, repo repository.ManufacturingRepository, engine *statemachine.Engine) *UseCase {
	return &UseCase{txRunner: txRunner, repo: repo, engine: engine}
}

// CreateOrder registra una orden de manufactura.
func (uc *UseCase) CreateOrder(ctx context.Context, in OrderInput, actorID string) (*entity.ManufacturingOrder, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.Code == "":
		return nil, domain.Invalid("code")
	case in.Lot == "":
		return nil, domain.Invalid("lot")
	case in.ProductID == "":
		return nil, domain.Invalid("product_id")
	case in.Unit == "":
		return nil, domain.Invalid("unit")
	case !in.Quantity.GreaterThan(decimal.Zero):
		return nil, fmt.Errorf("%w: quantity debe ser mayor a cero", domain.ErrInvalidInput)
	}
	now := uc.engine.Now()
	date := in.Date
	if date.IsZero() {
		date = now
	}
	o := &entity.ManufacturingOrder{
		ID:         uuid.New().String(),
		Code:       in.Code,
		Lot:        in.Lot,
		Date:       date,
		ProductID:  in.ProductID,
		Quantity:   in.Quantity,
		Unit:       in.Unit,
		OperatorID: actorID,
		CreatedAt:  now,
	}
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		if err := tx.Manufacturing.CreateOrder(ctx, o); err != nil {
			return err
		}
		return tx.Audit.Append(ctx, audit.Created("manufacturing_orders", o.ID, "orden "+o.Code+" lote "+o.Lot, actorID, now))
	})
	if err != nil {
		return nil, err
	}
	return o, nil
}

// GetOrder obtiene una orden; ErrNotFound si no existe.
func (uc *UseCase) GetOrder(ctx context.Context, id string) (*entity.ManufacturingOrder, error) {
	o, err := uc.repo.GetOrder(ctx, id)
	if err != nil {
		return nil, err
	}
	if o == nil {
		return nil, domain.ErrNotFound
	}
	return o, nil
}

// CreateProcess crea un proceso para una orden existente y registra su estado inicial.
func (uc *UseCase) CreateProcess(ctx context.Context, in ProcessInput, actorID string) (*entity.ManufacturingProcess, error) {
	switch {
	case actorID == "":
		return nil, domain.Invalid("actor_id")
	case in.OrderID == "":
		return nil, domain.Invalid("order_id")
	case in.StateID == "":
		return nil, domain.Invalid("state_id")
	}
	if in.StartedAt != nil && in.FinishedAt != nil && in.FinishedAt.Before(*in.StartedAt) {
		return nil, fmt.Errorf("%w: fecha fin anterior a fecha inicio", domain.ErrInvalidInput)
	}
	now := uc.engine.Now()
	p := &entity.ManufacturingProcess{
		ID:          uuid.New().String(),
		OrderID:     in.OrderID,
		StartedAt:   in.StartedAt,
		FinishedAt:  in.FinishedAt,
		StateID:     in.StateID,
		Observation: in.Observation,
		CreatedAt:   now,
	}
	var rec *entity.HistoryRecord
	err := uc.txRunner.Run(ctx, func(tx repository.Repos) error {
		order, err := tx.Manufacturing.GetOrder(ctx, in.OrderID)
		if err != nil {
			return err
		}
		if order == nil {
			return domain.ErrNotFound
		}
		if err := tx.Manufacturing.CreateProcess(ctx, p); err != nil {
			return err
		}
		if err := tx.Audit.Append(ctx, audit.Created(entity.KindManufacturing.Table(), p.ID, "proceso de la orden "+order.Code, actorID, now)); err != nil {
			return err
		}
		rec, err = uc.engine.Record(ctx, tx, entity.KindManufacturing, p.ID, p.StateID, actorID, "", now)
		return err
	})
	if err != nil {
		return nil, err
	}
	uc.engine.Created(ctx, rec)
	return p, nil
}

// GetProcess obtiene un proceso; ErrNotFound si no existe.
func (uc *UseCase) GetProcess(ctx context.Context, id string) (*entity.ManufacturingProcess, error) {
	p, err := uc.repo.GetProcess(ctx, id)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	return p, nil
}

// ChangeState cambia el estado de un proceso de manufactura.
func (uc *UseCase) ChangeState(ctx context.Context, processID, newStateID, actorID string) (*entity.ManufacturingProcess, error) {
	if _, err := uc.engine.ChangeState(ctx, entity.KindManufacturing, processID, newStateID, actorID); err != nil {
		return nil, err
	}
	return uc.GetProcess(ctx, processID)
}

// History histórico de estados del proceso.
func (uc *UseCase) History(ctx context.Context, processID string) ([]*entity.HistoryRecord, error) {
	return uc.engine.History(ctx, entity.KindManufacturing, processID)
}
