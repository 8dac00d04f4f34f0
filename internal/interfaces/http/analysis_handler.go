package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/analysis"
	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// AnalysisHandler análisis, incubaciones, resultados y uso de medios.
type AnalysisHandler struct {
	uc      *analysis.UseCase
	catalog *catalog.UseCase
}

// NewAnalysisHandler construye el handler.
func NewAnalysisHandler(uc *analysis.UseCase, cat *catalog.UseCase) *AnalysisHandler {
	return &AnalysisHandler{uc: uc, catalog: cat}
}

func (h *AnalysisHandler) Create(c *fiber.Ctx) error {
	var in dto.CreateAnalysisRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	a, err := h.uc.Create(c.Context(), analysis.CreateInput{
		SampleID: in.SampleID, ReceptionID: in.ReceptionID, MethodVersionID: in.MethodVersionID,
		SpecificationID: in.SpecificationID, StateID: in.StateID, StartedAt: in.StartedAt,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toAnalysis(a))
}

func (h *AnalysisHandler) GetByID(c *fiber.Ctx) error {
	a, err := h.uc.GetByID(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAnalysis(a))
}

func (h *AnalysisHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	stateID, err := targetState(c, h.catalog, entity.KindAnalysis, in)
	if err != nil {
		return writeError(c, err)
	}
	a, err := h.uc.ChangeState(c.Context(), c.Params("id"), stateID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toAnalysis(a))
}

func (h *AnalysisHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHistory(list))
}

func (h *AnalysisHandler) StartIncubation(c *fiber.Ctx) error {
	var in dto.IncubationRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	i, err := h.uc.StartIncubation(c.Context(), analysis.IncubationInput{
		AnalysisID: c.Params("id"), EquipmentID: in.EquipmentID, In: in.In, Out: in.Out,
		Temperature: in.Temperature, TempUnit: in.TempUnit,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toIncubation(i))
}

// RecordResult godoc
// @Summary      Reportar resultado
// @Description  La conformidad se calcula contra la especificación del análisis; null si no aplica.
// @Tags         analysis
// @Security     Bearer
// @Accept       json
// @Produce      json
// @Param        id    path  string             true  "ID del análisis"
// @Param        body  body  dto.ResultRequest  true  "value, unit, observation"
// @Success      201   {object}  dto.ResultResponse
// @Failure      404   {object}  dto.ErrorResponse
// @Router       /api/analysis/{id}/results [post]
func (h *AnalysisHandler) RecordResult(c *fiber.Ctx) error {
	var in dto.ResultRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.RecordResult(c.Context(), analysis.ResultInput{
		AnalysisID: c.Params("id"), Value: in.Value, Unit: in.Unit, Observation: in.Observation,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toResult(r))
}

func (h *AnalysisHandler) Results(c *fiber.Ctx) error {
	list, err := h.uc.Results(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	out := make([]dto.ResultResponse, 0, len(list))
	for _, r := range list {
		out = append(out, toResult(r))
	}
	return c.JSON(out)
}

// Evaluate conformidad de un valor sin persistir resultado.
func (h *AnalysisHandler) Evaluate(c *fiber.Ctx) error {
	var in dto.EvaluateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	conforms, err := h.uc.Evaluate(c.Context(), c.Params("id"), in.Value)
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(dto.EvaluateResponse{Conforms: conforms})
}

func (h *AnalysisHandler) UseMediaBatch(c *fiber.Ctx) error {
	var in dto.MediaUsageRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	u, err := h.uc.UseMediaBatch(c.Context(), c.Params("id"), in.BatchID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(dto.MediaUsageResponse{ID: u.ID, AnalysisID: u.AnalysisID, BatchID: u.BatchID})
}
