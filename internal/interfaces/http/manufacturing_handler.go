package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/application/manufacturing"
	"github.com/jhoicas/lims-api/internal/application/traceability"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// ManufacturingHandler órdenes, procesos y trazabilidad de manufactura.
type ManufacturingHandler struct {
	uc      *manufacturing.UseCase
	trace   *traceability.UseCase
	catalog *catalog.UseCase
}

// NewManufacturingHandler construye el handler.
func NewManufacturingHandler(uc *manufacturing.UseCase, trace *traceability.UseCase, cat *catalog.UseCase) *ManufacturingHandler {
	return &ManufacturingHandler{uc: uc, trace: trace, catalog: cat}
}

// CreateOrder godoc
// @Summary      Crear orden de manufactura
// @Tags         manufacturing
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateOrderRequest  true  "code, lot, product_id, quantity, unit"
// @Success      201   {object}  dto.OrderResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/manufacturing/orders [post]
func (h *ManufacturingHandler) CreateOrder(c *fiber.Ctx) error {
	var in dto.CreateOrderRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	o, err := h.uc.CreateOrder(c.Context(), manufacturing.OrderInput{
		Code: in.Code, Lot: in.Lot, Date: in.Date, ProductID: in.ProductID, Quantity: in.Quantity, Unit: in.Unit,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toOrder(o))
}

// GetOrder obtiene una orden.
func (h *ManufacturingHandler) GetOrder(c *fiber.Ctx) error {
	o, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toOrder(o))
}

// CreateProcess registra un proceso de la orden con su estado inicial.
func (h *ManufacturingHandler) CreateProcess(c *fiber.Ctx) error {
	var in dto.CreateProcessRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	p, err := h.uc.CreateProcess(c.Context(), manufacturing.ProcessInput{
		OrderID: c.Params("id"), StartedAt: in.StartedAt, FinishedAt: in.FinishedAt,
		StateID: in.StateID, Observation: in.Observation,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toProcess(p, ""))
}

// ListProcesses procesos de la orden con el nombre de su estado actual.
func (h *ManufacturingHandler) ListProcesses(c *fiber.Ctx) error {
	list, err := h.trace.ProcessesForOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ProcessResponse, 0, len(list))
	for _, v := range list {
		out = append(out, toProcess(v.Process, v.StateName))
	}
	return c.JSON(out)
}

// ChangeProcessState cambia el estado del proceso.
func (h *ManufacturingHandler) ChangeProcessState(c *fiber.Ctx) error {
	var in dto.ChangeStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	stateID, err := targetState(c, h.catalog, entity.KindManufacturing, in)
	if err != nil {
		return writeError(c, err)
	}
	p, err := h.uc.ChangeState(c.Context(), c.Params("id"), stateID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toProcess(p, ""))
}

// ProcessHistory histórico del proceso con nombres de estado vigentes.
func (h *ManufacturingHandler) ProcessHistory(c *fiber.Ctx) error {
	list, err := h.trace.HistoryForProcess(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHistoryViews(list))
}

// Traceability godoc
// @Summary      Trazabilidad de la orden
// @Tags         manufacturing
// @Security     Bearer
// @Produce      json
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {object}  dto.TraceabilityResponse
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/orders/{id}/traceability [get]
func (h *ManufacturingHandler) Traceability(c *fiber.Ctx) error {
	r, err := h.trace.OrderReport(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toTraceability(r))
}

// ReportPDF godoc
// @Summary      Registro de lote en PDF
// @Tags         manufacturing
// @Security     Bearer
// @Produce      application/pdf
// @Param        id  path  string  true  "ID de la orden"
// @Success      200  {file}  binary
// @Failure      404  {object}  dto.ErrorResponse
// @Router       /api/manufacturing/orders/{id}/report.pdf [get]
func (h *ManufacturingHandler) ReportPDF(c *fiber.Ctx) error {
	pdfBytes, filename, err := h.trace.OrderReportPDF(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	c.Set(fiber.HeaderContentType, "application/pdf")
	c.Set(fiber.HeaderContentDisposition, `attachment; filename="`+filename+`"`)
	return c.Send(pdfBytes)
}
