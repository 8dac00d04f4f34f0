// Package pdf genera el registro de lote (trazabilidad) de una orden de manufactura.
//
// Layout de la página A4:
//
//	┌─────────────────────────────────────────────────────────────┐
//	│  HEADER: Orden + Lote          │  Producto + Fecha          │
//	│  ─────────────────────────────────────────────────────────  │
//	│  POR PROCESO: estado actual + inicio/fin                    │
//	│    TABLA: Fecha | Estado | Responsable | Observación        │
//	│  ─────────────────────────────────────────────────────────  │
//	│  FOOTER: QR del lote + fecha de generación                  │
//	└─────────────────────────────────────────────────────────────┘
package pdf

import (
	"context"
	"fmt"
	"time"

	maroto "github.com/johnfercher/maroto/v2"
	"github.com/johnfercher/maroto/v2/pkg/components/code"
	"github.com/johnfercher/maroto/v2/pkg/components/col"
	"github.com/johnfercher/maroto/v2/pkg/components/line"
	"github.com/johnfercher/maroto/v2/pkg/components/row"
	"github.com/johnfercher/maroto/v2/pkg/components/text"
	"github.com/johnfercher/maroto/v2/pkg/config"
	"github.com/johnfercher/maroto/v2/pkg/consts/align"
	"github.com/johnfercher/maroto/v2/pkg/consts/fontstyle"
	"github.com/johnfercher/maroto/v2/pkg/consts/pagesize"
	"github.com/johnfercher/maroto/v2/pkg/core"
	"github.com/johnfercher/maroto/v2/pkg/props"

	"github.com/jhoicas/lims-api/internal/application/traceability"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// ── Paleta de colores ─────────────────────────────────────────────────────────

var (
	colorPrimary = &props.Color{Red: 0, Green: 70, Blue: 127}
	colorGray    = &props.Color{Red: 100, Green: 100, Blue: 100}
)

const dateLayout = "02/01/2006 15:04"

// ── Generator ─────────────────────────────────────────────────────────────────

// MarotoPDFGenerator implementa traceability.ReportPDFGenerator usando Maroto v2.
type MarotoPDFGenerator struct {
	labName string
}

// NewMarotoPDFGenerator construye el generador.
func NewMarotoPDFGenerator(labName string) *MarotoPDFGenerator {
	return &MarotoPDFGenerator{labName: labName}
}

// GenerateOrderReportPDF genera el PDF y devuelve sus bytes.
func (g *MarotoPDFGenerator) GenerateOrderReportPDF(_ context.Context, report *traceability.OrderReport) ([]byte, error) {
	if report == nil || report.Order == nil {
		return nil, fmt.Errorf("pdf: reporte vacío")
	}
	cfg := config.NewBuilder().
		WithPageSize(pagesize.A4).
		WithLeftMargin(10).WithRightMargin(10).
		WithTopMargin(10).WithBottomMargin(10).
		WithDefaultFont(&props.Font{Family: "helvetica", Size: 9}).
		WithTitle("Registro de lote "+report.Order.Lot, true).
		WithAuthor(nonEmpty(g.labName, "LIMS"), true).
		Build()

	m := maroto.New(cfg)

	m.AddRows(headerRow(report.Order, g.labName))
	m.AddRows(line.NewRow(1, props.Line{Color: colorPrimary, Thickness: 0.5}))

	if len(report.Processes) == 0 {
		m.AddRows(row.New(8).Add(col.New(12).Add(
			text.New("La orden no tiene procesos registrados.", props.Text{Size: 9, Top: 2, Color: colorGray}),
		)))
	}
	for _, p := range report.Processes {
		m.AddRows(processRow(p.ProcessView))
		m.AddRows(historyHeaderRow())
		m.AddRows(historyRows(p.History)...)
		m.AddRows(line.NewRow(1, props.Line{Color: colorGray, Thickness: 0.2}))
	}

	m.AddRows(line.NewRow(3))
	m.AddRows(footerRow(report))

	doc, err := m.Generate()
	if err != nil {
		return nil, fmt.Errorf("pdf: generar documento: %w", err)
	}
	return doc.GetBytes(), nil
}

// ── Secciones ─────────────────────────────────────────────────────────────────

// headerRow: orden + lote (izq) y producto + fecha (der).
func headerRow(order *entity.ManufacturingOrder, labName string) core.Row {
	return row.New(18).Add(
		col.New(7).Add(
			text.New(nonEmpty(labName, "Laboratorio"), props.Text{
				Style: fontstyle.Bold, Size: 13, Color: colorPrimary, Top: 1,
			}),
			text.New("Orden: "+order.Code+"   |   Lote: "+order.Lot, props.Text{
				Size: 9, Top: 9, Color: colorGray,
			}),
		),
		col.New(5).Add(
			text.New("REGISTRO DE LOTE", props.Text{
				Style: fontstyle.Bold, Size: 8, Align: align.Right, Color: colorPrimary, Top: 1,
			}),
			text.New("Producto: "+order.ProductID, props.Text{
				Size: 8, Align: align.Right, Top: 7,
			}),
			text.New(fmt.Sprintf("Cantidad: %s %s   |   Fecha: %s",
				order.Quantity.String(), order.Unit, order.Date.Format("02/01/2006")),
				props.Text{Size: 8, Align: align.Right, Top: 12, Color: colorGray}),
		),
	)
}

// processRow: estado actual y ventana del proceso.
func processRow(p traceability.ProcessView) core.Row {
	return row.New(12).Add(
		col.New(12).Add(
			text.New("PROCESO "+p.Process.ID, props.Text{
				Style: fontstyle.Bold, Size: 8, Color: colorPrimary, Top: 2,
			}),
			text.New(fmt.Sprintf("Estado actual: %s   |   Inicio: %s   |   Fin: %s",
				p.StateName, formatTime(p.Process.StartedAt), formatTime(p.Process.FinishedAt)),
				props.Text{Size: 8, Top: 7, Color: colorGray}),
		),
	)
}

// historyHeaderRow: cabecera de la tabla de histórico.
func historyHeaderRow() core.Row {
	h := func(label string, size int) core.Col {
		return col.New(size).Add(text.New(label, props.Text{
			Style: fontstyle.Bold, Size: 8, Top: 1, Left: 1,
		}))
	}
	return row.New(6).Add(
		h("Fecha", 3),
		h("Estado", 3),
		h("Responsable", 3),
		h("Observación", 3),
	)
}

// historyRows: una fila por registro, en orden cronológico.
func historyRows(history []traceability.HistoryView) []core.Row {
	result := make([]core.Row, 0, len(history))
	for _, h := range history {
		cell := func(s string) core.Col {
			return col.New(3).Add(text.New(s, props.Text{Size: 8, Top: 1, Left: 1}))
		}
		result = append(result, row.New(6).Add(
			cell(h.Record.Date.Format(dateLayout)),
			cell(h.StateName),
			cell(h.Record.ActorID),
			cell(nonEmpty(h.Record.Observation, "—")),
		))
	}
	return result
}

// footerRow: QR con el lote + fecha de generación.
func footerRow(report *traceability.OrderReport) core.Row {
	return row.New(40).Add(
		col.New(4).Add(code.NewQr(report.Order.Code+"|"+report.Order.Lot, props.Rect{
			Percent: 90,
			Center:  true,
		})),
		col.New(8).Add(
			text.New("Documento generado desde el histórico inmutable de estados.", props.Text{
				Size: 8, Top: 4, Left: 3, Color: colorGray,
			}),
			text.New("Generado: "+report.GeneratedAt.Format(dateLayout), props.Text{
				Style: fontstyle.Bold, Size: 9, Top: 14, Left: 3, Color: colorPrimary,
			}),
		),
	)
}

// ── helpers ───────────────────────────────────────────────────────────────────

func nonEmpty(s, fallback string) string {
	if s != "" {
		return s
	}
	return fallback
}

func formatTime(t *time.Time) string {
	if t == nil {
		return "—"
	}
	return t.Format(dateLayout)
}
