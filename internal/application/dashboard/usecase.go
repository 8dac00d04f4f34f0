// Package dashboard indicadores del panel principal del laboratorio.
package dashboard

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// weekDays días de la serie de solicitudes de muestreo, incluido hoy.
const weekDays = 7

// pendingState nombre del estado de análisis que cuenta como pendiente.
const pendingState = "Pendiente"

// StateCatalog estados vigentes de un catálogo (catalog.UseCase).
type StateCatalog interface {
	List(ctx context.Context, kind entity.StateKind) ([]*entity.CatalogState, error)
}

// UseCase arma los indicadores a partir de DashboardRepository (solo lectura).
type UseCase struct {
	repo    repository.DashboardRepository
	catalog StateCatalog
	clock   domain.Clock
}

// NewUseCase construye el caso de uso. clock nil usa el reloj del sistema.
func NewUseCase(repo repository.DashboardRepository, catalog StateCatalog, clock domain.Clock) *UseCase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &UseCase{repo: repo, catalog: catalog, clock: clock}
}

// Stats devuelve equipos activos, análisis por estado (todos los estados del catálogo,
// también los que están en cero) y solicitudes de muestreo por día de los últimos 7 días UTC.
func (uc *UseCase) Stats(ctx context.Context) (*dto.DashboardStatsDTO, error) {
	now := uc.clock.Now().UTC()
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	from := today.AddDate(0, 0, -(weekDays - 1))
	to := today.AddDate(0, 0, 1)

	type countResult struct {
		n   int
		err error
	}
	type byKeyResult struct {
		counts map[string]int
		err    error
	}

	equipmentCh := make(chan countResult, 1)
	analysesCh := make(chan byKeyResult, 1)
	requestsCh := make(chan byKeyResult, 1)

	go func() {
		n, err := uc.repo.CountActiveEquipment(ctx)
		equipmentCh <- countResult{n, err}
	}()
	go func() {
		counts, err := uc.repo.CountAnalysesByState(ctx)
		analysesCh <- byKeyResult{counts, err}
	}()
	go func() {
		counts, err := uc.repo.CountSamplingRequestsByDay(ctx, from, to)
		requestsCh <- byKeyResult{counts, err}
	}()

	equipment := <-equipmentCh
	analyses := <-analysesCh
	requests := <-requestsCh

	if equipment.err != nil {
		return nil, fmt.Errorf("dashboard: equipos activos: %w", equipment.err)
	}
	if analyses.err != nil {
		return nil, fmt.Errorf("dashboard: análisis por estado: %w", analyses.err)
	}
	if requests.err != nil {
		return nil, fmt.Errorf("dashboard: solicitudes por día: %w", requests.err)
	}

	states, err := uc.catalog.List(ctx, entity.KindAnalysis)
	if err != nil {
		return nil, fmt.Errorf("dashboard: catálogo de análisis: %w", err)
	}

	out := &dto.DashboardStatsDTO{
		ActiveEquipment:       equipment.n,
		SamplingRequestsToday: requests.counts[today.Format(time.DateOnly)],
	}
	seen := make(map[string]bool, len(states))
	for _, st := range states {
		seen[st.ID] = true
		n := analyses.counts[st.ID]
		out.AnalysesByState = append(out.AnalysesByState, dto.StateCountDTO{StateID: st.ID, State: st.Name, Count: n})
		if strings.EqualFold(st.Name, pendingState) {
			out.PendingAnalyses += n
		}
	}
	// Estados sin fila en el catálogo se muestran por ID.
	var orphans []string
	for id := range analyses.counts {
		if !seen[id] {
			orphans = append(orphans, id)
		}
	}
	sort.Strings(orphans)
	for _, id := range orphans {
		out.AnalysesByState = append(out.AnalysesByState, dto.StateCountDTO{StateID: id, State: id, Count: analyses.counts[id]})
	}

	for d := from; d.Before(to); d = d.AddDate(0, 0, 1) {
		day := d.Format(time.DateOnly)
		out.SamplingRequestsWeek = append(out.SamplingRequestsWeek, dto.DayCountDTO{Date: day, Count: requests.counts[day]})
	}
	return out, nil
}
