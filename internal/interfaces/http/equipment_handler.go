package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/application/equipment"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// EquipmentHandler maneja equipos, sus estados y calibraciones.
type EquipmentHandler struct {
	uc      *equipment.UseCase
	catalog *catalog.UseCase
}

// NewEquipmentHandler construye el handler.
func NewEquipmentHandler(uc *equipment.UseCase, cat *catalog.UseCase) *EquipmentHandler {
	return &EquipmentHandler{uc: uc, catalog: cat}
}

// Create godoc
// @Summary      Registrar equipo
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        body  body  dto.CreateEquipmentRequest  true  "code, name, type_id, area_id, state_id"
// @Success      201   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      409   {object}  dto.ErrorResponse
// @Router       /api/equipment [post]
func (h *EquipmentHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateEquipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	e, err := h.uc.Create(c.Context(), equipment.CreateInput{
		Code: in.Code, Name: in.Name, TypeID: in.TypeID, AreaID: in.AreaID, StateID: in.StateID,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toEquipment(e))
}

// List godoc
// @Summary      Listar equipos
// @Tags         equipment
// @Security     Bearer
// @Produce      json
// @Param        active  query  bool  false  "solo activos"
// @Param        limit   query  int   false  "límite (default 20)"
// @Param        offset  query  int   false  "desplazamiento"
// @Success      200  {object}  map[string]interface{}
// @Router       /api/equipment [get]
func (h *EquipmentHandler) List(c *fiber.Ctx) error {
	var page dto.PageRequest
	if err := c.QueryParser(&page); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(dto.ErrorResponse{Code: "INVALID_QUERY", Message: "parámetros inválidos"})
	}
	page.DefaultPage()
	list, err := h.uc.List(c.Context(), c.QueryBool("active", false), page.Limit, page.Offset)
	if err != nil {
		return writeError(c, err)
	}
	items := make([]dto.EquipmentResponse, 0, len(list))
	for _, e := range list {
		items = append(items, toEquipment(e))
	}
	return c.JSON(fiber.Map{
		"items": items,
		"page":  dto.PageResponse{Limit: page.Limit, Offset: page.Offset},
	})
}

// GetByID obtiene un equipo.
func (h *EquipmentHandler) GetByID(c *fiber.Ctx) error {
	e, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toEquipment(e))
}

// ChangeState godoc
// @Summary      Cambiar estado del equipo
// @Description  Cualquier estado del catálogo es válido; queda registrado en el histórico.
// @Tags         equipment
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string                  true  "ID del equipo"
// @Param        body  body  dto.ChangeStateRequest  true  "state_id"
// @Success      200   {object}  dto.EquipmentResponse
// @Failure      400   {object}  dto.ErrorResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/equipment/{id}/state [put]
func (h *EquipmentHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	stateID, err := targetState(c, h.catalog, entity.KindEquipment, in)
	if err != nil {
		return writeError(c, err)
	}
	e, err := h.uc.ChangeState(c.Context(), c.Params("id"), stateID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toEquipment(e))
}

// History histórico de estados del equipo.
func (h *EquipmentHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHistory(list))
}

// Deactivate baja lógica.
func (h *EquipmentHandler) Deactivate(c *fiber.Ctx) error {
	e, err := h.uc.Deactivate(c.Context(), c.Params("id"), GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toEquipment(e))
}

// RecordCalibration registra una calibración o calificación.
func (h *EquipmentHandler) RecordCalibration(c *fiber.Ctx) error {
	var in dto.CalibrationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	cal, err := h.uc.RecordCalibration(c.Context(), equipment.CalibrationInput{
		EquipmentID: c.Params("id"), Type: in.Type, Date: in.Date, Expires: in.Expires,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toCalibration(cal))
}

// Calibrations lista las calibraciones del equipo.
func (h *EquipmentHandler) Calibrations(c *fiber.Ctx) error {
	list, err := h.uc.Calibrations(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.CalibrationResponse, 0, len(list))
	for _, cal := range list {
		out = append(out, toCalibration(cal))
	}
	return c.JSON(out)
}
