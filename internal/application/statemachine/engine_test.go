package statemachine_test

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/equipment"
	"github.com/jhoicas/lims-api/internal/application/ports"
	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

// stepClock avanza un minuto en cada lectura.
type stepClock struct {
	mu sync.Mutex
	t  time.Time
}

func (c *stepClock) Now() time.Time {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.t = c.t.Add(time.Minute)
	return c.t
}

type recordingPublisher struct {
	mu     sync.Mutex
	states []ports.StateChangedEvent
}

func (p *recordingPublisher) PublishStateChanged(_ context.Context, ev ports.StateChangedEvent) error {
	p.mu.Lock()
	defer p.mu.Unlock()
	p.states = append(p.states, ev)
	return nil
}

func (p *recordingPublisher) PublishMediaPrepared(context.Context, ports.MediaPreparedEvent) error {
	return nil
}

type fixture struct {
	store     *memory.Store
	engine    *statemachine.Engine
	equipment *equipment.UseCase
	events    *recordingPublisher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	store := memory.New()
	store.SeedDefaultCatalogs()
	repos := store.Repos()
	events := &recordingPublisher{}
	clock := &stepClock{t: time.Date(2024, 3, 1, 8, 0, 0, 0, time.UTC)}
	engine := statemachine.NewEngine(store, repos.States, repos.History, clock, events, nil, zerolog.Nop())
	return &fixture{
		store:     store,
		engine:    engine,
		equipment: equipment.NewUseCase(store, repos.Equipment, engine, zerolog.Nop()),
		events:    events,
	}
}

func state(kind entity.StateKind, name string) string {
	return entity.SeedStateID(kind, name)
}

func (f *fixture) newEquipment(t *testing.T, code string) *entity.Equipment {
	t.Helper()
	eq, err := f.equipment.Create(context.Background(), equipment.CreateInput{
		Code:    code,
		Name:    "Autoclave " + code,
		TypeID:  "tipo-autoclave",
		AreaID:  "area-micro",
		StateID: state(entity.KindEquipment, "Operativo"),
	}, "u-operario")
	require.NoError(t, err)
	return eq
}

func TestChangeState_HistorialEnOrden(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-001")

	tr, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindEquipment, "En mantenimiento"), "u-tecnico")
	require.NoError(t, err)
	assert.Equal(t, state(entity.KindEquipment, "Operativo"), tr.FromState)
	assert.Equal(t, state(entity.KindEquipment, "En mantenimiento"), tr.ToState)

	hist, err := f.engine.History(ctx, entity.KindEquipment, eq.ID)
	require.NoError(t, err)
	require.Len(t, hist, 2)
	assert.Equal(t, state(entity.KindEquipment, "Operativo"), hist[0].StateID)
	assert.Equal(t, state(entity.KindEquipment, "En mantenimiento"), hist[1].StateID)
	assert.True(t, hist[0].Date.Before(hist[1].Date))
	assert.Equal(t, "u-operario", hist[0].ActorID)
	assert.Equal(t, "u-tecnico", hist[1].ActorID)

	got, err := f.equipment.GetByID(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, state(entity.KindEquipment, "En mantenimiento"), got.StateID)
	require.NotNil(t, got.ModifiedBy)
	assert.Equal(t, "u-tecnico", *got.ModifiedBy)
}

func TestChangeState_EntidadInexistente(t *testing.T) {
	f := newFixture(t)
	before := f.store.HistoryCount()

	_, err := f.engine.ChangeState(context.Background(), entity.KindEquipment, "no-existe", state(entity.KindEquipment, "Operativo"), "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)
	assert.Equal(t, before, f.store.HistoryCount())
}

func TestChangeState_UnRegistroPorLlamada(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-002")

	names := []string{"En mantenimiento", "Operativo", "En calibración", "En calibración", "Fuera de servicio"}
	for _, n := range names {
		_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindEquipment, n), "u-1")
		require.NoError(t, err)
	}

	hist, err := f.engine.History(ctx, entity.KindEquipment, eq.ID)
	require.NoError(t, err)
	assert.Len(t, hist, len(names)+1)
	for i := 1; i < len(hist); i++ {
		assert.False(t, hist[i].Date.Before(hist[i-1].Date), "histórico fuera de orden en %d", i)
	}
	assert.Equal(t, state(entity.KindEquipment, "Fuera de servicio"), hist[len(hist)-1].StateID)
}

func TestChangeState_MismoEstadoSeRegistra(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-003")

	_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, eq.StateID, "u-1")
	require.NoError(t, err)

	hist, err := f.engine.History(ctx, entity.KindEquipment, eq.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestChangeState_EstadoFueraDelCatalogo(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-004")

	_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindAnalysis, "Pendiente"), "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	hist, err := f.engine.History(ctx, entity.KindEquipment, eq.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 1)
}

func TestChangeState_Validaciones(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-005")
	op := state(entity.KindEquipment, "Operativo")

	_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, op, "")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, "", "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
	_, err = f.engine.ChangeState(ctx, entity.KindQC, eq.ID, op, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)
}

func TestChangeState_FallaDeHistorialRevierte(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-006")
	histBefore, auditBefore := f.store.HistoryCount(), f.store.AuditCount()

	f.store.FailOn("History.Append", errors.New("disco lleno"))
	_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindEquipment, "Fuera de servicio"), "u-1")
	f.store.ClearFailures()

	assert.ErrorIs(t, err, domain.ErrTransitionFailed)
	got, err := f.equipment.GetByID(ctx, eq.ID)
	require.NoError(t, err)
	assert.Equal(t, state(entity.KindEquipment, "Operativo"), got.StateID)
	assert.Nil(t, got.ModifiedBy)
	assert.Equal(t, histBefore, f.store.HistoryCount())
	assert.Equal(t, auditBefore, f.store.AuditCount())
}

func TestChangeState_AuditaElCambio(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-007")

	_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindEquipment, "En calibración"), "u-2")
	require.NoError(t, err)

	entries, err := f.store.Repos().Audit.ListByRecord(ctx, "equipment", eq.ID)
	require.NoError(t, err)
	require.Len(t, entries, 2)
	assert.Equal(t, entity.AuditCreate, entries[0].Action)
	upd := entries[1]
	assert.Equal(t, entity.AuditUpdate, upd.Action)
	require.NotNil(t, upd.Column)
	assert.Equal(t, "estado_id", *upd.Column)
	assert.Equal(t, state(entity.KindEquipment, "Operativo"), *upd.OldValue)
	assert.Equal(t, state(entity.KindEquipment, "En calibración"), *upd.NewValue)
	assert.Equal(t, "u-2", upd.ActorID)
}

func TestChangeState_PublicaEventoDespuesDelCommit(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	eq := f.newEquipment(t, "EQ-008")

	_, err := f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindEquipment, "En mantenimiento"), "u-1")
	require.NoError(t, err)

	f.store.FailOn("States.SetState", errors.New("timeout"))
	_, err = f.engine.ChangeState(ctx, entity.KindEquipment, eq.ID, state(entity.KindEquipment, "Operativo"), "u-1")
	f.store.ClearFailures()
	require.Error(t, err)

	require.Len(t, f.events.states, 2)
	assert.Equal(t, "", f.events.states[0].FromState)
	assert.Equal(t, state(entity.KindEquipment, "Operativo"), f.events.states[0].ToState)
	assert.Equal(t, state(entity.KindEquipment, "Operativo"), f.events.states[1].FromState)
	assert.Equal(t, state(entity.KindEquipment, "En mantenimiento"), f.events.states[1].ToState)
}

func TestHistory_EntidadInexistente(t *testing.T) {
	f := newFixture(t)
	_, err := f.engine.History(context.Background(), entity.KindAnalysis, "nada")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestSortHistory_DesempatePorID(t *testing.T) {
	at := time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC)
	list := []*entity.HistoryRecord{
		{ID: 3, Date: at},
		{ID: 1, Date: at.Add(time.Second)},
		{ID: 2, Date: at},
	}
	statemachine.SortHistory(list)
	assert.Equal(t, []int64{2, 3, 1}, []int64{list[0].ID, list[1].ID, list[2].ID})
}
