// Package traceability reconstruye, para una orden de manufactura, sus procesos y el
// histórico de estados de cada uno, con los nombres de estado vigentes del catálogo.
package traceability

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/jhoicas/lims-api/internal/application/statemachine"
	"github.com/jhoicas/lims-api/internal/domain"
	"github.com/jhoicas/lims-api/internal/domain/entity"
	"github.com/jhoicas/lims-api/internal/domain/repository"
)

// ProcessView proceso con el nombre de su estado actual.
type ProcessView struct {
	Process   *entity.ManufacturingProcess
	StateName string
}

// HistoryView registro de histórico con el nombre vigente del estado.
type HistoryView struct {
	Record    *entity.HistoryRecord
	StateName string
}

// ProcessTrace proceso con su histórico completo.
type ProcessTrace struct {
	ProcessView
	History []HistoryView
}

// OrderReport registro de lote: orden, procesos y sus históricos.
type OrderReport struct {
	Order       *entity.ManufacturingOrder
	Processes   []ProcessTrace
	GeneratedAt time.Time
}

// UseCase modelo de lectura de trazabilidad.
type UseCase struct {
	manufacturing repository.ManufacturingRepository
	history       repository.HistoryRepository
	names         StateNamer
	generator     ReportPDFGenerator
	clock         domain.Clock
}

// NewUseCase construye el caso de uso. generator puede ser nil si no se expone el PDF.
func NewUseCase(
	manufacturing repository.ManufacturingRepository,
	history repository.HistoryRepository,
	names StateNamer,
	generator ReportPDFGenerator,
	clock domain.Clock,
) *UseCase {
	if clock == nil {
		clock = domain.SystemClock{}
	}
	return &UseCase{
		manufacturing: manufacturing,
		history:       history,
		names:         names,
		generator:     generator,
		clock:         clock,
	}
}

// ProcessesForOrder procesos de la orden ordenados por fecha de inicio y luego ID.
// ErrNotFound si la orden no existe.
func (uc *UseCase) ProcessesForOrder(ctx context.Context, orderID string) ([]ProcessView, error) {
	order, err := uc.manufacturing.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	procs, err := uc.manufacturing.ListProcessesByOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	out := make([]ProcessView, 0, len(procs))
	for _, p := range procs {
		name, err := uc.stateName(ctx, p.StateID)
		if err != nil {
			return nil, err
		}
		out = append(out, ProcessView{Process: p, StateName: name})
	}
	return out, nil
}

// HistoryForProcess histórico del proceso, del más antiguo al más reciente.
func (uc *UseCase) HistoryForProcess(ctx context.Context, processID string) ([]HistoryView, error) {
	p, err := uc.manufacturing.GetProcess(ctx, processID)
	if err != nil {
		return nil, err
	}
	if p == nil {
		return nil, domain.ErrNotFound
	}
	recs, err := uc.history.ListByEntity(ctx, entity.KindManufacturing, processID)
	if err != nil {
		return nil, err
	}
	statemachine.SortHistory(recs)
	out := make([]HistoryView, 0, len(recs))
	for _, r := range recs {
		name, err := uc.stateName(ctx, r.StateID)
		if err != nil {
			return nil, err
		}
		out = append(out, HistoryView{Record: r, StateName: name})
	}
	return out, nil
}

// OrderReport arma el registro de lote completo de la orden.
func (uc *UseCase) OrderReport(ctx context.Context, orderID string) (*OrderReport, error) {
	order, err := uc.manufacturing.GetOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	if order == nil {
		return nil, domain.ErrNotFound
	}
	procs, err := uc.ProcessesForOrder(ctx, orderID)
	if err != nil {
		return nil, err
	}
	report := &OrderReport{Order: order, GeneratedAt: uc.clock.Now()}
	for _, pv := range procs {
		hist, err := uc.HistoryForProcess(ctx, pv.Process.ID)
		if err != nil {
			return nil, err
		}
		report.Processes = append(report.Processes, ProcessTrace{ProcessView: pv, History: hist})
	}
	return report, nil
}

// OrderReportPDF genera el PDF del registro de lote y su nombre de archivo.
func (uc *UseCase) OrderReportPDF(ctx context.Context, orderID string) (pdfBytes []byte, filename string, err error) {
	if uc.generator == nil {
		return nil, "", fmt.Errorf("pdf: generador no configurado")
	}
	report, err := uc.OrderReport(ctx, orderID)
	if err != nil {
		return nil, "", err
	}
	pdfBytes, err = uc.generator.GenerateOrderReportPDF(ctx, report)
	if err != nil {
		return nil, "", fmt.Errorf("pdf: generación fallida: %w", err)
	}
	return pdfBytes, fmt.Sprintf("trazabilidad_%s_%s.pdf", report.Order.Code, report.Order.Lot), nil
}

// stateName devuelve el nombre vigente; un estado borrado del catálogo se muestra por su ID.
func (uc *UseCase) stateName(ctx context.Context, stateID string) (string, error) {
	name, err := uc.names.Name(ctx, entity.KindManufacturing, stateID)
	if errors.Is(err, domain.ErrNotFound) {
		return stateID, nil
	}
	return name, err
}
