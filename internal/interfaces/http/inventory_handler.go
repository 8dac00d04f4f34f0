package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/application/inventory"
)

// InventoryHandler maneja lotes de polvo, saldos y preparación de medios (protegido).
type InventoryHandler struct {
	uc *inventory.UseCase
}

// NewInventoryHandler construye el handler.
func NewInventoryHandler(uc *inventory.UseCase) *InventoryHandler {
	return &InventoryHandler{uc: uc}
}

// ReceiveLot godoc
// @Summary      Recibir lote de polvo o suplemento
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.ReceiveLotRequest  true  "powder_type_id, supplier_lot, expires, quantity, unit"
// @Success      201   {object}  dto.PowderLotResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/inventory/lots [post]
func (h *InventoryHandler) ReceiveLot(c *fiber.Ctx) error {
	var in dto.ReceiveLotRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.ReceiveLotFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetStock saldo actual de un lote.
func (h *InventoryHandler) GetStock(c *fiber.Ctx) error {
	bal, err := h.uc.GetStock(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToStockResponse(bal))
}

// PrepareMedia godoc
// @Summary      Preparar medio de cultivo
// @Description  Descuenta todos los consumos o ninguno. Si algún saldo no alcanza responde 409
//
//	con el ítem faltante y no se persiste nada.
//
// @Tags         inventory
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.PrepareMediaRequest  true  "media_type_id, lot, total_volume, consumptions"
// @Success      201   {object}  dto.PreparationResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.InsufficientStockResponse
// @Router       /api/inventory/preparations [post]
func (h *InventoryHandler) PrepareMedia(c *fiber.Ctx) error {
	var in dto.PrepareMediaRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	out, err := h.uc.PrepareMediaFromRequest(c.Context(), GetUserID(c), in)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(out)
}

// GetPreparation orden de preparación con sus consumos y lote.
func (h *InventoryHandler) GetPreparation(c *fiber.Ctx) error {
	o, err := h.uc.GetOrder(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(inventory.ToPreparationResponse(o))
}

// ReviewBatch registra la revisión QC de un lote de medio preparado.
func (h *InventoryHandler) ReviewBatch(c *fiber.Ctx) error {
	var in dto.ReviewBatchRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	a, err := h.uc.ReviewBatch(c.Context(), c.Params("id"), in.QCStateID, GetUserID(c), in.Observation)
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toApproval(a))
}
