package http

import (
	"github.com/gofiber/fiber/v2"

	"github.com/jhoicas/lims-api/internal/application/catalog"
	"github.com/jhoicas/lims-api/internal/application/dto"
	"github.com/jhoicas/lims-api/internal/application/sampling"
	"github.com/jhoicas/lims-api/internal/domain/entity"
)

// SamplingHandler solicitudes de muestreo, sesiones, envíos y recepciones.
type SamplingHandler struct {
	uc      *sampling.UseCase
	catalog *catalog.UseCase
}

// NewSamplingHandler construye el handler.
func NewSamplingHandler(uc *sampling.UseCase, cat *catalog.UseCase) *SamplingHandler {
	return &SamplingHandler{uc: uc, catalog: cat}
}

func (h *SamplingHandler) CreateRequest(c *fiber.Ctx) error {
	var in dto.CreateSamplingRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.CreateRequest(c.Context(), sampling.RequestInput{
		Type: in.Type, OrderID: in.OrderID, EquipmentID: in.EquipmentID, SamplingPointID: in.SamplingPointID,
		OperatorID: in.OperatorID, StateID: in.StateID, Observation: in.Observation,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSamplingRequest(r))
}

func (h *SamplingHandler) GetRequest(c *fiber.Ctx) error {
	r, err := h.uc.GetRequest(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSamplingRequest(r))
}

func (h *SamplingHandler) ChangeState(c *fiber.Ctx) error {
	var in dto.ChangeStateRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	stateID, err := targetState(c, h.catalog, entity.KindSamplingRequest, in)
	if err != nil {
		return writeError(c, err)
	}
	r, err := h.uc.ChangeState(c.Context(), c.Params("id"), stateID, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toSamplingRequest(r))
}

func (h *SamplingHandler) History(c *fiber.Ctx) error {
	list, err := h.uc.History(c.Context(), c.Params("id"))
	if err != nil {
		return writeError(c, err)
	}
	return c.JSON(toHistory(list))
}

// RegisterSession registra la sesión y sus muestras en una sola transacción.
func (h *SamplingHandler) RegisterSession(c *fiber.Ctx) error {
	var in dto.SessionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	input := sampling.SessionInput{RequestID: c.Params("id"), StartedAt: in.StartedAt, FinishedAt: in.FinishedAt}
	for _, s := range in.Samples {
		input.Samples = append(input.Samples, sampling.SampleInput{
			SamplingPointID: s.SamplingPointID, EquipmentZoneID: s.EquipmentZoneID,
			SampledOperator: s.SampledOperator, Type: s.Type, Label: s.Label, Observation: s.Observation,
		})
	}
	session, err := h.uc.RegisterSession(c.Context(), input, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toSession(session))
}

func (h *SamplingHandler) ShipSample(c *fiber.Ctx) error {
	var in dto.ShipmentRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	s, err := h.uc.ShipSample(c.Context(), sampling.ShipmentInput{
		SampleID: in.SampleID, Date: in.Date, Destination: in.Destination,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toShipment(s))
}

func (h *SamplingHandler) ReceiveSample(c *fiber.Ctx) error {
	var in dto.ReceptionRequest
	if err := c.BodyParser(&in); err != nil {
		return badBody(c)
	}
	r, err := h.uc.ReceiveSample(c.Context(), sampling.ReceptionInput{
		ShipmentID: in.ShipmentID, ReceivedAt: in.ReceivedAt, Decision: in.Decision, Observation: in.Observation,
	}, GetUserID(c))
	if err != nil {
		return writeError(c, err)
	}
	return c.Status(fiber.StatusCreated).JSON(toReception(r))
}
