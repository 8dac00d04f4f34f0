// Package statemachine registra cambios de estado de equipos, procesos de manufactura,
// solicitudes de muestreo y análisis: puntero de estado + histórico inmutable + audit trail,
// todo en una misma transacción.
//
// No existe grafo de transiciones: cualquier estado del catálogo del tipo puede aplicarse
// en cualquier momento. El sistema registra lo que ocurrió; el operario gobierna el flujo.
package statemachine

import (
	"context"
	"errors"
	"fmt"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/audit"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// Engine motor de transiciones de estado, uniforme para todos los tipos con estado.
type Engine struct {
	txRunner repository.TxRunner
	states   repository.StateRepository
	history  repository.HistoryRepository
	clock    domain.Clock
	events   ports.EventPublisher
	metrics  ports.Metrics
	log      zerolog.Logger
}

// NewEngine construye el motor. events y metrics pueden ser nil (se usan no-op).
func NewEngine(
	txRunner repository.TxRunner,
	states repository.StateRepository,
	history repository.HistoryRepository,
	clock domain.Clock,
	events ports.EventPublisher,
	metrics ports.Metrics,
	log zerolog.Logger,
) *Engine {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	if events == nil {
		events = ports.NoopPublisher{}
	}
	if metrics == nil {
		metrics = ports.NoopMetrics{}
	}
	return &Engine{
		txRunner: txRunner,
		states:   states,
		history:  history,
		clock:    clock,
		events:   events,
		metrics:  metrics,
		log:      log,
	}
}

// Now hora del reloj inyectado.
func (e *Engine) Now() time.Time { return e.clock.Now() }

// Transition resultado de un cambio de estado confirmado.
type Transition struct {
	Kind      entity.StateKind
	EntityID  string
	FromState string
	ToState   string
	Record    *entity.HistoryRecord
}

// Record agrega el registro inicial de histórico de una entidad recién creada, dentro de la
// transacción del caller. El estado inicial lo decide el caller; aquí solo se valida que
// exista en el catálogo del tipo.
func (e *Engine) Record(
	ctx context.Context,
	tx repository.Repos,
	kind entity.StateKind,
	entityID, stateID, actorID, observation string,
	at time.Time,
) (*entity.HistoryRecord, error) {
	if err := validate(kind, entityID, stateID, actorID); err != nil {
		return nil, err
	}
	if err := checkCatalog(ctx, tx.Catalog, kind, stateID); err != nil {
		return nil, err
	}
	rec := &entity.HistoryRecord{
		Kind:        kind,
		EntityID:    entityID,
		StateID:     stateID,
		ActorID:     actorID,
		Date:        at,
		Observation: observation,
	}
	if err := tx.History.Append(ctx, rec); err != nil {
		return nil, err
	}
	return rec, nil
}

// Created notifica (después del commit) la creación de una entidad con su estado inicial.
func (e *Engine) Created(ctx context.Context, rec *entity.HistoryRecord) {
	if rec == nil {
		return
	}
	e.afterCommit(ctx, Transition{Kind: rec.Kind, EntityID: rec.EntityID, ToState: rec.StateID, Record: rec})
}

// ChangeState sobrescribe el puntero de estado y agrega el histórico en una transacción.
// Re-aplicar el estado actual es válido y también queda registrado.
// Errores: ErrInvalidInput (actor/estado vacío o fuera del catálogo), ErrNotFound (entidad
// inexistente), ErrTransitionFailed (falla de persistencia, transacción revertida).
func (e *Engine) ChangeState(ctx context.Context, kind entity.StateKind, entityID, newStateID, actorID string) (*Transition, error) {
	if err := validate(kind, entityID, newStateID, actorID); err != nil {
		return nil, err
	}
	now := e.clock.Now()

	var tr *Transition
	err := e.txRunner.Run(ctx, func(tx repository.Repos) error {
		current, err := tx.States.GetStateForUpdate(ctx, kind, entityID)
		if err != nil {
			return err
		}
		if current == nil {
			return domain.ErrNotFound
		}
		if err := checkCatalog(ctx, tx.Catalog, kind, newStateID); err != nil {
			return err
		}
		if err := tx.States.SetState(ctx, kind, entityID, newStateID, actorID, now); err != nil {
			return err
		}
		rec := &entity.HistoryRecord{
			Kind:     kind,
			EntityID: entityID,
			StateID:  newStateID,
			ActorID:  actorID,
			Date:     now,
		}
		if err := tx.History.Append(ctx, rec); err != nil {
			return err
		}
		entries := audit.Diff(kind.Table(), entityID,
			audit.Snapshot{"estado_id": audit.Value(current.StateID)},
			audit.Snapshot{"estado_id": audit.Value(newStateID)},
			entity.AuditUpdate, actorID, now)
		if len(entries) > 0 {
			if err := tx.Audit.Append(ctx, entries...); err != nil {
				return err
			}
		}
		tr = &Transition{Kind: kind, EntityID: entityID, FromState: current.StateID, ToState: newStateID, Record: rec}
		return nil
	})
	if err != nil {
		if errors.Is(err, domain.ErrNotFound) || errors.Is(err, domain.ErrInvalidInput) {
			return nil, err
		}
		e.log.Error().Err(err).Str("kind", string(kind)).Str("entity_id", entityID).Msg("cambio de estado revertido")
		return nil, fmt.Errorf("%w: %w", domain.ErrTransitionFailed, err)
	}

	e.afterCommit(ctx, *tr)
	return tr, nil
}

// History devuelve el histórico de la entidad del más antiguo al más reciente
// (fecha ascendente, ID como desempate). ErrNotFound si la entidad no existe.
func (e *Engine) History(ctx context.Context, kind entity.StateKind, entityID string) ([]*entity.HistoryRecord, error) {
	if !kind.Stateful() || entityID == "" {
		return nil, domain.ErrInvalidInput
	}
	ref, err := e.states.GetState(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	if ref == nil {
		return nil, domain.ErrNotFound
	}
	list, err := e.history.ListByEntity(ctx, kind, entityID)
	if err != nil {
		return nil, err
	}
	SortHistory(list)
	return list, nil
}

// SortHistory ordena por fecha ascendente y luego por ID.
func SortHistory(list []*entity.HistoryRecord) {
	sort.SliceStable(list, func(i, j int) bool {
		if !list[i].Date.Equal(list[j].Date) {
			return list[i].Date.Before(list[j].Date)
		}
		return list[i].ID < list[j].ID
	})
}

func (e *Engine) afterCommit(ctx context.Context, tr Transition) {
	e.metrics.StateChanged(string(tr.Kind))
	e.log.Info().
		Str("kind", string(tr.Kind)).
		Str("entity_id", tr.EntityID).
		Str("from_state_id", tr.FromState).
		Str("state_id", tr.ToState).
		Str("actor_id", tr.Record.ActorID).
		Msg("estado registrado")
	ev := ports.StateChangedEvent{
		Kind:       string(tr.Kind),
		EntityID:   tr.EntityID,
		FromState:  tr.FromState,
		ToState:    tr.ToState,
		ActorID:    tr.Record.ActorID,
		OccurredAt: tr.Record.Date,
	}
	if err := e.events.PublishStateChanged(ctx, ev); err != nil {
		e.log.Warn().Err(err).Str("entity_id", tr.EntityID).Msg("no se pudo publicar el evento de estado")
	}
}

func validate(kind entity.StateKind, entityID, stateID, actorID string) error {
	switch {
	case !kind.Stateful():
		return fmt.Errorf("%w: tipo de entidad %q sin estados", domain.ErrInvalidInput, kind)
	case actorID == "":
		return domain.Invalid("actor_id")
	case entityID == "":
		return domain.Invalid("entity_id")
	case stateID == "":
		return domain.Invalid("state_id")
	}
	return nil
}

func checkCatalog(ctx context.Context, catalog repository.CatalogRepository, kind entity.StateKind, stateID string) error {
	st, err := catalog.GetByID(ctx, kind, stateID)
	if err != nil {
		return err
	}
	if st == nil {
		return fmt.Errorf("%w: estado %s no existe en el catálogo %s", domain.ErrInvalidInput, stateID, kind)
	}
	return nil
}
