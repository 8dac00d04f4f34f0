package dashboard_test

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dashboard"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/infrastructure/memory"
)

type fixedClock struct{ t time.Time }

func (c fixedClock) Now() time.Time { return c.t }

// Martes 10 de septiembre de 2024, 14:00 UTC.
var hoy = time.Date(2024, 9, 10, 14, 0, 0, 0, time.UTC)

func setup(t *testing.T) (*dashboard.UseCase, *memory.Store, *catalog.UseCase) {
	t.Helper()
	store := memory.New()
	store.SeedDefaultCatalogs()
	repos := store.Repos()
	cat := catalog.NewUseCase(store, repos.Catalog, nil, nil, zerolog.Nop())
	return dashboard.NewUseCase(repos.Dashboard, cat, fixedClock{hoy}), store, cat
}

func addEquipment(t *testing.T, store *memory.Store, code string, active bool) {
	t.Helper()
	require.NoError(t, store.Repos().Equipment.Create(context.Background(), &entity.Equipment{
		ID: uuid.NewString(), Code: code, Name: code, TypeID: "t", AreaID: "a",
		StateID:   entity.SeedStateID(entity.KindEquipment, "Operativo"),
		Auditable: entity.Auditable{Active: active, CreatedBy: "u-1", CreatedAt: hoy},
	}))
}

func addAnalysis(t *testing.T, store *memory.Store, state string) {
	t.Helper()
	require.NoError(t, store.Repos().Analysis.Create(context.Background(), &entity.Analysis{
		ID: uuid.NewString(), SampleID: "s", ReceptionID: "r", MethodVersionID: "m",
		StateID: state, LastChange: hoy, OperatorID: "u-1",
	}))
}

func addRequest(t *testing.T, store *memory.Store, at time.Time) {
	t.Helper()
	require.NoError(t, store.Repos().Sampling.CreateRequest(context.Background(), &entity.SamplingRequest{
		ID: uuid.NewString(), RequestedBy: "u-1", Date: at, Type: entity.SamplingTypeProduct,
		StateID: entity.SeedStateID(entity.KindSamplingRequest, "Solicitada"),
	}))
}

func TestStats_Indicadores(t *testing.T) {
	uc, store, _ := setup(t)
	pending := entity.SeedStateID(entity.KindAnalysis, "Pendiente")
	done := entity.SeedStateID(entity.KindAnalysis, "Finalizado")

	addEquipment(t, store, "EQ-1", true)
	addEquipment(t, store, "EQ-2", true)
	addEquipment(t, store, "EQ-3", false)
	addAnalysis(t, store, pending)
	addAnalysis(t, store, pending)
	addAnalysis(t, store, done)
	addRequest(t, store, hoy.Add(-time.Hour))
	addRequest(t, store, hoy.Add(-13*time.Hour)) // hoy 01:00
	addRequest(t, store, hoy.AddDate(0, 0, -2))  // 8 sep
	addRequest(t, store, hoy.AddDate(0, 0, -6))  // 4 sep, primer día de la serie
	addRequest(t, store, hoy.AddDate(0, 0, -7))  // fuera de la ventana
	addRequest(t, store, hoy.AddDate(0, 0, 1))   // futuro, fuera

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)

	assert.Equal(t, 2, stats.ActiveEquipment)
	assert.Equal(t, 2, stats.PendingAnalyses)
	assert.Equal(t, 2, stats.SamplingRequestsToday)

	byState := make(map[string]int)
	for _, s := range stats.AnalysesByState {
		byState[s.State] = s.Count
	}
	assert.Len(t, stats.AnalysesByState, len(entity.DefaultCatalogs[entity.KindAnalysis]))
	assert.Equal(t, 2, byState["Pendiente"])
	assert.Equal(t, 1, byState["Finalizado"])
	assert.Equal(t, 0, byState["Anulado"])

	require.Len(t, stats.SamplingRequestsWeek, 7)
	assert.Equal(t, "2024-09-04", stats.SamplingRequestsWeek[0].Date)
	assert.Equal(t, 1, stats.SamplingRequestsWeek[0].Count)
	assert.Equal(t, "2024-09-08", stats.SamplingRequestsWeek[4].Date)
	assert.Equal(t, 1, stats.SamplingRequestsWeek[4].Count)
	assert.Equal(t, "2024-09-10", stats.SamplingRequestsWeek[6].Date)
	assert.Equal(t, 2, stats.SamplingRequestsWeek[6].Count)
	total := 0
	for _, d := range stats.SamplingRequestsWeek {
		total += d.Count
	}
	assert.Equal(t, 4, total)
}

func TestStats_NombresVigentesDelCatalogo(t *testing.T) {
	uc, store, cat := setup(t)
	reading := entity.SeedStateID(entity.KindAnalysis, "En lectura")
	addAnalysis(t, store, reading)

	_, err := cat.Rename(context.Background(), entity.KindAnalysis, reading, "Lectura de placas", "u-admin")
	require.NoError(t, err)

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)
	var found bool
	for _, s := range stats.AnalysesByState {
		if s.StateID == reading {
			found = true
			assert.Equal(t, "Lectura de placas", s.State)
			assert.Equal(t, 1, s.Count)
		}
	}
	assert.True(t, found)
}

type failingCatalog struct{}

func (failingCatalog) List(context.Context, entity.StateKind) ([]*entity.CatalogState, error) {
	return nil, errors.New("catálogo no disponible")
}

func TestStats_ErrorDeCatalogo(t *testing.T) {
	store := memory.New()
	uc := dashboard.NewUseCase(store.Repos().Dashboard, failingCatalog{}, fixedClock{hoy})

	_, err := uc.Stats(context.Background())
	assert.Error(t, err)
}

func TestStats_SinDatos(t *testing.T) {
	uc, _, _ := setup(t)

	stats, err := uc.Stats(context.Background())
	require.NoError(t, err)
	assert.Zero(t, stats.ActiveEquipment)
	assert.Zero(t, stats.PendingAnalyses)
	require.Len(t, stats.SamplingRequestsWeek, 7)
	for _, d := range stats.SamplingRequestsWeek {
		assert.Zero(t, d.Count)
	}
}
