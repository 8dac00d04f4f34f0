package traceability

import (
	"context"

	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// ReportPDFGenerator puerto para renderizar el registro de lote de una orden de manufactura.
type ReportPDFGenerator interface {
	GenerateOrderReportPDF(ctx context.Context, report *OrderReport) ([]byte, error)
}

// StateNamer resuelve el nombre vigente de un estado del catálogo.
type StateNamer interface {
	Name(ctx context.Context, kind entity.StateKind, id string) (string, error)
}
