package sampling_test

import (
	"context"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/sampling"
	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

func setup(t *testing.T) (*sampling.UseCase, *memory.Store) {
	t.Helper()
	store := memory.New()
	store.SeedDefaultCatalogs()
	repos := store.Repos()
	clock := fixedClock{time.Date(2024, 6, 3, 7, 30, 0, 0, time.UTC)}
	engine := statemachine.NewEngine(store, repos.States, repos.History, clock, nil, nil, zerolog.Nop())
	return sampling.NewUseCase(store, repos.Sampling, engine), store
}

func requested() string {
	return entity.SeedStateID(entity.KindSamplingRequest, "Solicitada")
}

func newRequest(t *testing.T, uc *sampling.UseCase) *entity.SamplingRequest {
	t.Helper()
	req, err := uc.CreateRequest(context.Background(), sampling.RequestInput{
		Type:    entity.SamplingTypeEnvironment,
		StateID: requested(),
	}, "u-analista")
	require.NoError(t, err)
	return req
}

func TestCreateRequest_RegistraHistorialInicial(t *testing.T) {
	uc, store := setup(t)
	req := newRequest(t, uc)

	entries, err := store.Repos().Audit.ListByRecord(context.Background(), "sampling_requests", req.ID)
	require.NoError(t, err)
	require.Len(t, entries, 1)
	assert.Equal(t, entity.AuditCreate, entries[0].Action)
	assert.Equal(t, "u-analista", entries[0].ActorID)

	hist, err := uc.History(context.Background(), req.ID)
	require.NoError(t, err)
	require.Len(t, hist, 1)
	assert.Equal(t, requested(), hist[0].StateID)
	assert.Equal(t, "Creación de solicitud", hist[0].Observation)
	assert.Equal(t, "u-analista", hist[0].ActorID)
}

func TestCreateRequest_Validaciones(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()

	_, err := uc.CreateRequest(ctx, sampling.RequestInput{Type: "OTRO", StateID: requested()}, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.CreateRequest(ctx, sampling.RequestInput{
		Type:    entity.SamplingTypeProduct,
		StateID: entity.SeedStateID(entity.KindEquipment, "Operativo"),
	}, "u-1")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	missing := "orden-x"
	_, err = uc.CreateRequest(ctx, sampling.RequestInput{Type: entity.SamplingTypeProduct, OrderID: &missing, StateID: requested()}, "u-1")
	assert.ErrorIs(t, err, domain.ErrNotFound)

	assert.Equal(t, 0, store.HistoryCount())
}

func TestChangeState_Solicitud(t *testing.T) {
	uc, _ := setup(t)
	req := newRequest(t, uc)

	got, err := uc.ChangeState(context.Background(), req.ID, entity.SeedStateID(entity.KindSamplingRequest, "En muestreo"), "u-2")
	require.NoError(t, err)
	assert.Equal(t, entity.SeedStateID(entity.KindSamplingRequest, "En muestreo"), got.StateID)

	hist, err := uc.History(context.Background(), req.ID)
	require.NoError(t, err)
	assert.Len(t, hist, 2)
}

func TestRegisterSession_ConMuestras(t *testing.T) {
	uc, store := setup(t)
	req := newRequest(t, uc)

	session, err := uc.RegisterSession(context.Background(), sampling.SessionInput{
		RequestID: req.ID,
		Samples: []sampling.SampleInput{
			{Type: "AIRE", Label: "M-0001"},
			{Type: "SUPERFICIE", Label: "M-0002"},
		},
	}, "u-operario")
	require.NoError(t, err)
	require.Len(t, session.Samples, 2)
	assert.Equal(t, session.ID, session.Samples[0].SessionID)

	entries, err := store.Repos().Audit.ListByRecord(context.Background(), "samples", session.Samples[1].ID)
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}

func TestRegisterSession_EtiquetaRepetida(t *testing.T) {
	uc, store := setup(t)
	ctx := context.Background()
	req := newRequest(t, uc)

	_, err := uc.RegisterSession(ctx, sampling.SessionInput{
		RequestID: req.ID,
		Samples:   []sampling.SampleInput{{Type: "AIRE", Label: "M-1"}, {Type: "AIRE", Label: "M-1"}},
	}, "u-operario")
	assert.ErrorIs(t, err, domain.ErrDuplicate)

	_, err = uc.RegisterSession(ctx, sampling.SessionInput{
		RequestID: req.ID,
		Samples:   []sampling.SampleInput{{Type: "AIRE", Label: "M-2"}},
	}, "u-operario")
	require.NoError(t, err)

	// la etiqueta es única en todo el laboratorio; la sesión fallida no deja nada.
	auditBefore := store.AuditCount()
	_, err = uc.RegisterSession(ctx, sampling.SessionInput{
		RequestID: req.ID,
		Samples:   []sampling.SampleInput{{Type: "AIRE", Label: "M-3"}, {Type: "AIRE", Label: "M-2"}},
	}, "u-operario")
	assert.ErrorIs(t, err, domain.ErrDuplicate)
	assert.Equal(t, auditBefore, store.AuditCount())
}

func TestRegisterSession_SolicitudInexistente(t *testing.T) {
	uc, _ := setup(t)
	_, err := uc.RegisterSession(context.Background(), sampling.SessionInput{
		RequestID: "nada",
		Samples:   []sampling.SampleInput{{Type: "AIRE", Label: "M-9"}},
	}, "u-operario")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}

func TestEnvioYRecepcion(t *testing.T) {
	uc, _ := setup(t)
	ctx := context.Background()
	req := newRequest(t, uc)
	session, err := uc.RegisterSession(ctx, sampling.SessionInput{
		RequestID: req.ID,
		Samples:   []sampling.SampleInput{{Type: "AIRE", Label: "M-10"}},
	}, "u-operario")
	require.NoError(t, err)

	sh, err := uc.ShipSample(ctx, sampling.ShipmentInput{SampleID: session.Samples[0].ID, Destination: "Laboratorio micro"}, "u-operario")
	require.NoError(t, err)
	assert.False(t, sh.Date.IsZero())

	rc, err := uc.ReceiveSample(ctx, sampling.ReceptionInput{
		ShipmentID: sh.ID,
		ReceivedAt: "Ventanilla 2",
		Decision:   entity.ReceptionAccepted,
	}, "u-analista")
	require.NoError(t, err)
	assert.Equal(t, entity.ReceptionAccepted, rc.Decision)

	_, err = uc.ReceiveSample(ctx, sampling.ReceptionInput{ShipmentID: sh.ID, ReceivedAt: "x", Decision: "QUIZAS"}, "u-analista")
	assert.ErrorIs(t, err, domain.ErrInvalidInput)

	_, err = uc.ShipSample(ctx, sampling.ShipmentInput{SampleID: "nada", Destination: "Lab"}, "u-operario")
	assert.ErrorIs(t, err, domain.ErrNotFound)
}
